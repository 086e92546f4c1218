package freezer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeTree creates a file tree under a temp directory. Paths use
// forward slashes; contents are the file's own path.
func writeTree(t *testing.T, paths ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0750); err != nil {
			t.Fatalf("mkdir for %s: %v", p, err)
		}
		if err := os.WriteFile(full, []byte(p), 0600); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return root
}

// TestWalkDirectory verifies recursive listing and both ignore pattern
// flavors: per-segment patterns and whole-path patterns.
func TestWalkDirectory(t *testing.T) {
	t.Parallel()

	t.Run("lists files recursively, sorted", func(t *testing.T) {
		t.Parallel()
		root := writeTree(t, "b.txt", "a/one.css", "a/two.css", "c/d/deep.js")
		got, err := WalkDirectory(root, nil)
		if err != nil {
			t.Fatalf("WalkDirectory returned error: %v", err)
		}
		want := []string{"a/one.css", "a/two.css", "b.txt", "c/d/deep.js"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("segment pattern matches any path component", func(t *testing.T) {
		t.Parallel()
		root := writeTree(t, "keep.txt", "skip.scss", "nested/also.scss")
		got, err := WalkDirectory(root, []string{"*.scss"})
		if err != nil {
			t.Fatalf("WalkDirectory returned error: %v", err)
		}
		want := []string{"keep.txt"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("directory name match prunes the subtree", func(t *testing.T) {
		t.Parallel()
		root := writeTree(t, "keep.txt", ".git/config", ".git/objects/ab")
		got, err := WalkDirectory(root, []string{".git"})
		if err != nil {
			t.Fatalf("WalkDirectory returned error: %v", err)
		}
		want := []string{"keep.txt"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("slash pattern matches the whole relative path", func(t *testing.T) {
		t.Parallel()
		root := writeTree(t, "docs/draft.md", "other/draft.md")
		got, err := WalkDirectory(root, []string{"docs/*.md"})
		if err != nil {
			t.Fatalf("WalkDirectory returned error: %v", err)
		}
		want := []string{"other/draft.md"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty directory yields no files", func(t *testing.T) {
		t.Parallel()
		got, err := WalkDirectory(t.TempDir(), nil)
		if err != nil {
			t.Fatalf("WalkDirectory returned error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}

// TestFnmatch verifies the shell-glob semantics the ignore and
// blocklist patterns rely on, in particular that * crosses slashes.
func TestFnmatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{pattern: "*.scss", name: "site.scss", want: true},
		{pattern: "*.scss", name: "site.css", want: false},
		{pattern: "*", name: "a/b/c", want: true},
		{pattern: "/admin/*", name: "/admin/users/3/", want: true},
		{pattern: "?at", name: "cat", want: true},
		{pattern: "?at", name: "flat", want: false},
		{pattern: "[cb]at", name: "bat", want: true},
		{pattern: "[!cb]at", name: "bat", want: false},
		{pattern: "feed*", name: "feed.xml", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.name, func(t *testing.T) {
			t.Parallel()
			if got := fnmatch(tt.pattern, tt.name); got != tt.want {
				t.Errorf("fnmatch(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
			}
		})
	}
}
