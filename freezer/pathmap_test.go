package freezer

import (
	"errors"
	"testing"
)

// TestFilePath verifies the URL-to-path mapping rules: trailing slashes
// become index.html, other URLs keep their final segment as a filename.
func TestFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		urlPath string
		want    string
	}{
		{name: "root maps to index.html", urlPath: "/", want: "index.html"},
		{name: "trailing slash maps to directory index", urlPath: "/admin/", want: "admin/index.html"},
		{name: "nested trailing slash", urlPath: "/a/b/", want: "a/b/index.html"},
		{name: "no trailing slash keeps final segment", urlPath: "/a/b", want: "a/b"},
		{name: "extension preserved", urlPath: "/feed.xml", want: "feed.xml"},
		{name: "decoded unicode preserved", urlPath: "/général/", want: "général/index.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FilePath(tt.urlPath)
			if err != nil {
				t.Fatalf("FilePath(%q) returned error: %v", tt.urlPath, err)
			}
			if got != tt.want {
				t.Errorf("FilePath(%q) = %q, want %q", tt.urlPath, got, tt.want)
			}
		})
	}

	t.Run("relative URL is rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := FilePath("admin/"); err == nil {
			t.Error("expected error for URL without leading slash")
		}
	})

	t.Run("parent traversal is a security error", func(t *testing.T) {
		t.Parallel()
		_, err := FilePath("/../outside")
		var secErr *PathSecurityError
		if !errors.As(err, &secErr) {
			t.Fatalf("expected *PathSecurityError, got %v", err)
		}
	})

	t.Run("nested traversal escaping the root is rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := FilePath("/a/../../outside"); err == nil {
			t.Error("expected error for path escaping the destination")
		}
	})

}

// TestResolveURL verifies canonicalization of generated URLs: query and
// fragment stripped, percent-escapes decoded, external hosts rejected.
func TestResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         string
		allowedHost string
		want        string
		wantErr     bool
	}{
		{name: "plain path", raw: "/about/", want: "/about/"},
		{name: "query string stripped", raw: "/lorem/?page=ipsum", want: "/lorem/"},
		{name: "fragment stripped", raw: "/doc#section", want: "/doc"},
		{name: "percent escapes decoded", raw: "/g%C3%A9n%C3%A9ral/", want: "/général/"},
		{name: "encoded space decoded", raw: "/a%20b", want: "/a b"},
		{name: "empty path becomes root", raw: "?page=2", want: "/"},
		{name: "absolute URL with allowed host", raw: "http://example.com/feed.xml", allowedHost: "example.com", want: "/feed.xml"},
		{name: "absolute URL with foreign host", raw: "http://elsewhere.test/feed.xml", allowedHost: "example.com", wantErr: true},
		{name: "absolute URL with no allowed host", raw: "http://example.com/feed.xml", wantErr: true},
		{name: "scheme without host", raw: "mailto:someone@example.com", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveURL(tt.raw, tt.allowedHost)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("resolveURL(%q) succeeded with %q, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveURL(%q) returned error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("resolveURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
