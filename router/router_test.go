package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestParsePattern tests URL pattern parsing.
func TestParsePattern(t *testing.T) {
	t.Parallel()

	t.Run("rejects pattern without leading slash", func(t *testing.T) {
		t.Parallel()

		r := New()
		err := r.HandleFunc("bad", "products/", func(http.ResponseWriter, *http.Request) {})
		if !errors.Is(err, ErrBadPattern) {
			t.Errorf("expected ErrBadPattern, got %v", err)
		}
	})

	t.Run("rejects rest segment that is not last", func(t *testing.T) {
		t.Parallel()

		r := New()
		err := r.HandleFunc("bad", "/files/{name...}/raw", func(http.ResponseWriter, *http.Request) {})
		if !errors.Is(err, ErrBadPattern) {
			t.Errorf("expected ErrBadPattern, got %v", err)
		}
	})

	t.Run("rejects duplicate placeholder", func(t *testing.T) {
		t.Parallel()

		r := New()
		err := r.HandleFunc("bad", "/{a}/{a}", func(http.ResponseWriter, *http.Request) {})
		if !errors.Is(err, ErrBadPattern) {
			t.Errorf("expected ErrBadPattern, got %v", err)
		}
	})

	t.Run("rejects duplicate endpoint", func(t *testing.T) {
		t.Parallel()

		r := New()
		if err := r.HandleFunc("index", "/", func(http.ResponseWriter, *http.Request) {}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err := r.HandleFunc("index", "/other", func(http.ResponseWriter, *http.Request) {})
		if !errors.Is(err, ErrDuplicateEndpoint) {
			t.Errorf("expected ErrDuplicateEndpoint, got %v", err)
		}
	})
}

// TestRouterURL tests URL building from endpoint names.
func TestRouterURL(t *testing.T) {
	t.Parallel()

	newRouter := func(t *testing.T) *Router {
		t.Helper()
		r := New()
		noop := func(http.ResponseWriter, *http.Request) {}
		for endpoint, pattern := range map[string]string{
			"index":           "/",
			"products":        "/products/",
			"product_details": "/product/{product_id}/",
			"page":            "/page/{name}",
		} {
			if err := r.HandleFunc(endpoint, pattern, noop); err != nil {
				t.Fatalf("register %s: %v", endpoint, err)
			}
		}
		if err := r.Static("static", "/static", t.TempDir()); err != nil {
			t.Fatalf("register static: %v", err)
		}
		return r
	}

	tests := []struct {
		name     string
		endpoint string
		params   Params
		want     string
	}{
		{name: "root", endpoint: "index", want: "/"},
		{name: "trailing slash kept", endpoint: "products", want: "/products/"},
		{name: "integer placeholder", endpoint: "product_details", params: Params{"product_id": 1}, want: "/product/1/"},
		{name: "no trailing slash", endpoint: "page", params: Params{"name": "about"}, want: "/page/about"},
		{name: "segment is escaped", endpoint: "page", params: Params{"name": "a b"}, want: "/page/a%20b"},
		{name: "rest keeps slashes", endpoint: "static", params: Params{"filename": "css/site.css"}, want: "/static/css/site.css"},
		{name: "extras become query", endpoint: "products", params: Params{"page": 2}, want: "/products/?page=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newRouter(t)
			got, err := r.URL(tt.endpoint, tt.params)
			if err != nil {
				t.Fatalf("URL(%s): %v", tt.endpoint, err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("unknown endpoint", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t)
		if _, err := r.URL("nope", nil); !errors.Is(err, ErrUnknownEndpoint) {
			t.Errorf("expected ErrUnknownEndpoint, got %v", err)
		}
	})

	t.Run("missing parameter", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t)
		if _, err := r.URL("product_details", nil); !errors.Is(err, ErrMissingParam) {
			t.Errorf("expected ErrMissingParam, got %v", err)
		}
	})
}

// TestRouterEnumeration tests the endpoint sets the freezer consumes.
func TestRouterEnumeration(t *testing.T) {
	t.Parallel()

	r := New()
	noop := func(http.ResponseWriter, *http.Request) {}
	if err := r.HandleFunc("index", "/", noop); err != nil {
		t.Fatal(err)
	}
	if err := r.HandleFunc("product_details", "/product/{product_id}/", noop); err != nil {
		t.Fatal(err)
	}
	if err := r.HandleFunc("submit", "/submit", noop, http.MethodPost); err != nil {
		t.Fatal(err)
	}
	if err := r.Static("static", "/static", t.TempDir()); err != nil {
		t.Fatal(err)
	}

	if got := r.NoArgumentEndpoints(); !reflect.DeepEqual(got, []string{"index"}) {
		t.Errorf("NoArgumentEndpoints: expected [index], got %v", got)
	}
	if got := r.StaticEndpoints(); !reflect.DeepEqual(got, []string{"static"}) {
		t.Errorf("StaticEndpoints: expected [static], got %v", got)
	}
	want := []string{"index", "product_details", "static"}
	if got := r.EndpointsAccepting(http.MethodGet); !reflect.DeepEqual(got, want) {
		t.Errorf("EndpointsAccepting(GET): expected %v, got %v", want, got)
	}

	t.Run("empty table yields empty sets", func(t *testing.T) {
		t.Parallel()

		empty := New()
		if got := empty.NoArgumentEndpoints(); len(got) != 0 {
			t.Errorf("expected no endpoints, got %v", got)
		}
		if got := empty.StaticEndpoints(); len(got) != 0 {
			t.Errorf("expected no static endpoints, got %v", got)
		}
	})
}

// TestRouterDispatch tests request matching and parameter extraction.
func TestRouterDispatch(t *testing.T) {
	t.Parallel()

	r := New()
	if err := r.HandleFunc("index", "/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "home")
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.HandleFunc("product_details", "/product/{product_id}/", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprintf(w, "product %s", PathParam(req, "product_id"))
	}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "root", path: "/", wantStatus: http.StatusOK, wantBody: "home"},
		{name: "placeholder", path: "/product/42/", wantStatus: http.StatusOK, wantBody: "product 42"},
		{name: "missing trailing slash does not match", path: "/product/42", wantStatus: http.StatusNotFound},
		{name: "unknown path", path: "/nope", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

// TestRouterStatic tests the static-file route handler.
func TestRouterStatic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "css"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{}"), 0600); err != nil {
		t.Fatal(err)
	}

	r := New()
	if err := r.Static("static", "/static", dir); err != nil {
		t.Fatal(err)
	}

	t.Run("serves existing file with content type", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "body{}" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/css; charset=utf-8" {
			t.Errorf("unexpected content type %q", ct)
		}
	})

	t.Run("rejects path escape", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/static/x", nil)
		req.URL.Path = "/static/../secret"
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/nope.css", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

// TestObserve tests scoped build observation.
func TestObserve(t *testing.T) {
	t.Parallel()

	r := New()
	if err := r.HandleFunc("index", "/", func(http.ResponseWriter, *http.Request) {}); err != nil {
		t.Fatal(err)
	}

	var seen []string
	release := r.Observe(func(endpoint string, _ Params, urlPath string) {
		seen = append(seen, endpoint+":"+urlPath)
	})

	if _, err := r.URL("index", nil); err != nil {
		t.Fatal(err)
	}
	release()
	release() // idempotent
	if _, err := r.URL("index", nil); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(seen, []string{"index:/"}) {
		t.Errorf("expected one observation, got %v", seen)
	}
}

// TestBasePath tests URL building under a subdirectory deployment.
func TestBasePath(t *testing.T) {
	t.Parallel()

	newRouter := func(t *testing.T) *Router {
		t.Helper()
		r := New()
		noop := func(http.ResponseWriter, *http.Request) {}
		if err := r.HandleFunc("index", "/", noop); err != nil {
			t.Fatal(err)
		}
		if err := r.HandleFunc("products", "/products/", noop); err != nil {
			t.Fatal(err)
		}
		return r
	}

	t.Run("built URLs carry the prefix", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t)
		r.SetBasePath("/subdir")
		if got, _ := r.URL("products", nil); got != "/subdir/products/" {
			t.Errorf("expected /subdir/products/, got %q", got)
		}
		if got, _ := r.URL("index", nil); got != "/subdir/" {
			t.Errorf("expected /subdir/, got %q", got)
		}
	})

	t.Run("observers see the prefixed URL", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t)
		r.SetBasePath("/subdir/")
		var seen string
		release := r.Observe(func(_ string, _ Params, urlPath string) { seen = urlPath })
		defer release()

		if _, err := r.URL("products", nil); err != nil {
			t.Fatal(err)
		}
		if seen != "/subdir/products/" {
			t.Errorf("observer saw %q, want /subdir/products/", seen)
		}
	})

	t.Run("relative building ignores the prefix", func(t *testing.T) {
		t.Parallel()

		// Dispatch paths never carry the prefix, so relative links are
		// computed from the unprefixed form.
		r := newRouter(t)
		r.SetBasePath("/subdir")
		r.SetRelativeURLs(true)
		var got string
		if err := r.HandleFunc("deep", "/lorem/ipsum/", func(http.ResponseWriter, *http.Request) {
			got, _ = r.URL("products", nil)
		}); err != nil {
			t.Fatal(err)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lorem/ipsum/", nil))
		if got != "../../products/index.html" {
			t.Errorf("expected ../../products/index.html, got %q", got)
		}
	})

	t.Run("empty prefix restores root deployment", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t)
		r.SetBasePath("/subdir")
		r.SetBasePath("")
		if got, _ := r.URL("products", nil); got != "/products/" {
			t.Errorf("expected /products/, got %q", got)
		}
	})
}

// TestRelativeURLs tests relative URL building during dispatch.
func TestRelativeURLs(t *testing.T) {
	t.Parallel()

	r := New()
	var got string
	if err := r.HandleFunc("deep", "/lorem/ipsum/", func(http.ResponseWriter, *http.Request) {
		got, _ = r.URL("other", nil)
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.HandleFunc("other", "/dolor/", func(http.ResponseWriter, *http.Request) {}); err != nil {
		t.Fatal(err)
	}

	r.SetRelativeURLs(true)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lorem/ipsum/", nil))

	if got != "../../dolor/index.html" {
		t.Errorf("expected ../../dolor/index.html, got %q", got)
	}

	t.Run("absolute outside dispatch", func(t *testing.T) {
		u, err := r.URL("other", nil)
		if err != nil {
			t.Fatal(err)
		}
		if u != "/dolor/" {
			t.Errorf("expected /dolor/, got %q", u)
		}
	})
}
