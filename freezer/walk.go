package freezer

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// WalkDirectory recursively walks root and returns slash-separated
// paths relative to it, sorted, files only. It backs the static-file
// URL generator and the stale-file detection pass.
//
// Ignore patterns come in two flavors, as in .gitignore files: patterns
// containing a slash are matched against the whole relative path,
// patterns without one against each individual path segment. Matching
// a directory's name prunes the whole subtree.
func WalkDirectory(root string, ignore []string) ([]string, error) {
	var pathPatterns, namePatterns []string
	for _, pattern := range ignore {
		if strings.Contains(pattern, "/") {
			pathPatterns = append(pathPatterns, strings.Trim(pattern, "/"))
		} else {
			namePatterns = append(namePatterns, pattern)
		}
	}

	var files []string
	var walk func(dir, soFar string) error
	walk = func(dir, soFar string) error {
		entries, err := os.ReadDir(dir) // sorted by name
		if err != nil {
			return err
		}
	next:
		for _, entry := range entries {
			name := entry.Name()
			for _, pattern := range namePatterns {
				if fnmatch(pattern, name) {
					continue next
				}
			}
			rel := name
			if soFar != "" {
				rel = soFar + "/" + name
			}
			for _, pattern := range pathPatterns {
				if fnmatch(pattern, rel) {
					continue next
				}
			}
			if entry.IsDir() {
				if err := walk(filepath.Join(dir, name), rel); err != nil {
					return err
				}
			} else if entry.Type().IsRegular() {
				files = append(files, rel)
			}
		}
		return nil
	}
	if err := walk(root, ""); err != nil {
		return nil, err
	}
	return files, nil
}

// patternCache holds compiled glob patterns. Freezes match the same
// handful of patterns against every file, so compiling once pays off.
var patternCache sync.Map // pattern string -> *regexp.Regexp

// fnmatch reports whether name matches a shell-style glob pattern.
// `*` matches any sequence of characters including separators, `?` a
// single character, and `[seq]` / `[!seq]` character classes. This is
// deliberately not filepath.Match: destination-ignore and blocklist
// patterns like "feed*" must match across slashes.
func fnmatch(pattern, name string) bool {
	re, err := compilePattern(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(name)
}

// compilePattern translates a glob pattern into an anchored regexp.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}

	var b strings.Builder
	b.WriteString(`\A`)
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				b.WriteString(regexp.QuoteMeta("["))
				continue
			}
			class := pattern[i+1 : i+1+end]
			i += end + 1
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + class + "]")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`\z`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}
