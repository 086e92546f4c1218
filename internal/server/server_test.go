package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newSiteDir writes a small frozen site into a temp directory.
func newSiteDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":       "<h1>Home</h1>",
		"about/index.html": "<h1>About</h1>",
		"feed.xml":         "<feed/>",
		"data":             "raw bytes",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

// newTestServer builds a Server over a fresh site directory.
func newTestServer(t *testing.T, baseURL string) *Server {
	t.Helper()
	srv, err := New(newSiteDir(t), "localhost:0", baseURL, "application/octet-stream", nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return srv
}

// get performs a request against the handler and returns the response.
func get(t *testing.T, srv *Server, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec.Result()
}

// TestServeFrozenSite verifies the URL-to-file mapping matches what the
// freezer writes.
func TestServeFrozenSite(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "")

	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantBody    string
		wantType    string
		wantRedirect string
	}{
		{name: "root serves index.html", target: "/", wantStatus: 200, wantBody: "<h1>Home</h1>", wantType: "text/html; charset=utf-8"},
		{name: "trailing slash serves directory index", target: "/about/", wantStatus: 200, wantBody: "<h1>About</h1>"},
		{name: "file with extension", target: "/feed.xml", wantStatus: 200, wantBody: "<feed/>"},
		{name: "unknown extension gets the default type", target: "/data", wantStatus: 200, wantType: "application/octet-stream"},
		{name: "directory without slash redirects", target: "/about", wantStatus: 301, wantRedirect: "/about/"},
		{name: "missing page is 404", target: "/nope/", wantStatus: 404},
		{name: "traversal is 404", target: "/../etc/passwd", wantStatus: 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := get(t, srv, tt.target)
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
			}
			if tt.wantType != "" && resp.Header.Get("Content-Type") != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", resp.Header.Get("Content-Type"), tt.wantType)
			}
			if tt.wantRedirect != "" && resp.Header.Get("Location") != tt.wantRedirect {
				t.Errorf("Location = %q, want %q", resp.Header.Get("Location"), tt.wantRedirect)
			}
		})
	}

	t.Run("non-GET is rejected", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

// TestServeWithBasePath verifies that a site frozen for a subdirectory
// deployment previews correctly: the prefix is stripped on the way in.
func TestServeWithBasePath(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "https://example.com/subdir")

	t.Run("prefixed URL serves the page", func(t *testing.T) {
		t.Parallel()
		resp := get(t, srv, "/subdir/about/")
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != 200 || string(body) != "<h1>About</h1>" {
			t.Errorf("status %d body %q", resp.StatusCode, body)
		}
	})

	t.Run("bare prefix serves the root index", func(t *testing.T) {
		t.Parallel()
		resp := get(t, srv, "/subdir")
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != 200 || string(body) != "<h1>Home</h1>" {
			t.Errorf("status %d body %q", resp.StatusCode, body)
		}
	})

	t.Run("unprefixed URL still works", func(t *testing.T) {
		t.Parallel()
		resp := get(t, srv, "/feed.xml")
		defer resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("invalid base URL is rejected at construction", func(t *testing.T) {
		t.Parallel()
		if _, err := New(t.TempDir(), "localhost:0", "http://bad url//", "", nil); err == nil {
			t.Error("expected an error for an unparseable base URL")
		}
	})
}

// TestRunShutdown verifies that Run stops cleanly when its context is
// canceled.
func TestRunShutdown(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// Give the listener a moment, then stop it.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
