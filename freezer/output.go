package freezer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// reconciler owns the destination directory for the duration of one
// freeze. It is the only component that writes or deletes files there:
// it tracks every path touched this run as "live" and, at finalize
// time, removes whatever a previous run left behind.
type reconciler struct {
	// root is the absolute destination directory.
	root string

	// previous holds the files found in the destination before the
	// crawl, keyed like live. Nil when remove-extra-files is off.
	previous map[string]struct{}

	// live holds the files produced (written or deliberately kept) by
	// this run. Paths are NFC-normalized absolute filenames, so that a
	// file written as decomposed UTF-8 by an earlier tool still matches
	// the composed form a URL decodes to.
	live map[string]struct{}
}

// newReconciler creates the destination directory if needed and, when
// removeExtra is set, snapshots its current contents (minus ignored
// entries) for stale-file detection.
func newReconciler(root string, removeExtra bool, ignore []string) (*reconciler, error) {
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("create destination %s: %w", root, err)
	}
	rc := &reconciler{
		root: root,
		live: make(map[string]struct{}),
	}
	if removeExtra {
		files, err := WalkDirectory(root, ignore)
		if err != nil {
			return nil, fmt.Errorf("scan destination %s: %w", root, err)
		}
		rc.previous = make(map[string]struct{}, len(files))
		for _, rel := range files {
			rc.previous[rc.key(rel)] = struct{}{}
		}
	}
	return rc, nil
}

// key converts a destination-relative slash path into the normalized
// absolute form used in the previous/live sets.
func (rc *reconciler) key(rel string) string {
	return norm.NFC.String(filepath.Join(rc.root, filepath.FromSlash(rel)))
}

// markLive records a path as produced by this run without writing it.
// Used when the skip-existing policy keeps the file on disk.
func (rc *reconciler) markLive(rel string) {
	rc.live[rc.key(rel)] = struct{}{}
}

// write stores content at the destination-relative path, creating
// parent directories as needed. The file is only rewritten when its
// content actually changed, which keeps modification times stable and
// lets tools like rsync skip unchanged files.
func (rc *reconciler) write(rel string, content []byte) (wrote bool, err error) {
	filename := filepath.Join(rc.root, filepath.FromSlash(rel))
	rc.live[rc.key(rel)] = struct{}{}

	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return false, fmt.Errorf("create directories for %s: %w", rel, err)
	}

	if previous, err := os.ReadFile(filename); err == nil && bytes.Equal(previous, content) {
		return false, nil
	}
	if err := os.WriteFile(filename, content, 0600); err != nil {
		return false, fmt.Errorf("write %s: %w", rel, err)
	}
	return true, nil
}

// finalize deletes every file from the pre-crawl snapshot that this run
// did not produce, then prunes directories that became empty, bottom-up
// until the destination root. It returns the removed paths relative to
// the destination, sorted. A reconciler built with removeExtra=false
// removes nothing.
func (rc *reconciler) finalize() ([]string, error) {
	if rc.previous == nil {
		return nil, nil
	}

	var removed []string
	for key := range rc.previous {
		if _, ok := rc.live[key]; ok {
			continue
		}
		if err := os.Remove(key); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("remove stale file: %w", err)
		}
		if rel, err := filepath.Rel(rc.root, key); err == nil {
			removed = append(removed, filepath.ToSlash(rel))
		}

		// Prune now-empty parents, stopping at the destination root.
		dir := filepath.Dir(key)
		for dir != rc.root && len(dir) > len(rc.root) {
			entries, err := os.ReadDir(dir)
			if err != nil || len(entries) > 0 {
				break
			}
			if err := os.Remove(dir); err != nil {
				break
			}
			dir = filepath.Dir(dir)
		}
	}
	sort.Strings(removed)
	return removed, nil
}
