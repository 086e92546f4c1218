package freezer

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// auditWrittenLinks parses every HTML file written or kept this run and
// warns about internal links that resolve to no frozen file. It never
// discovers new work: the crawl is already complete. Unreadable or
// unparseable files are skipped silently; they were just written, so a
// failure here is a filesystem race rather than an application bug.
func (f *Freezer) auditWrittenLinks(ctx context.Context, result *Result) []Warning {
	live := make(map[string]struct{}, len(result.Pages))
	for _, page := range result.Pages {
		live[page.Path] = struct{}{}
	}

	var mu sync.Mutex
	var warnings []Warning

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(f.auditParallel)
	for _, page := range result.Pages {
		if !strings.HasSuffix(page.Path, ".html") && !strings.HasSuffix(page.Path, ".htm") {
			continue
		}
		group.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			broken := f.brokenLinksIn(page, live)
			if len(broken) > 0 {
				mu.Lock()
				warnings = append(warnings, broken...)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		// Only a context cancellation reaches here; report what we have.
		return warnings
	}

	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].URL != warnings[j].URL {
			return warnings[i].URL < warnings[j].URL
		}
		return warnings[i].Message < warnings[j].Message
	})
	return warnings
}

// brokenLinksIn parses one written HTML file and checks each internal
// link target against the set of live output paths.
func (f *Freezer) brokenLinksIn(page Page, live map[string]struct{}) []Warning {
	file, err := os.Open(filepath.Join(f.destAbs, filepath.FromSlash(page.Path)))
	if err != nil {
		return nil
	}
	defer file.Close()

	doc, err := html.Parse(file)
	if err != nil {
		return nil
	}

	var warnings []Warning
	seen := make(map[string]struct{})
	for _, ref := range collectRefs(doc) {
		target, ok := f.resolveLink(page, ref)
		if !ok {
			continue
		}
		if _, exists := live[target]; exists {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		warnings = append(warnings, Warning{
			Kind:    WarnBrokenLink,
			URL:     page.URL,
			Message: fmt.Sprintf("link %q in %s resolves to no frozen file", ref, page.Path),
		})
	}
	return warnings
}

// collectRefs walks the parse tree and gathers href and src values.
func collectRefs(doc *html.Node) []string {
	var refs []string
	for node := range doc.Descendants() {
		if node.Type != html.ElementNode {
			continue
		}
		for _, attr := range node.Attr {
			if attr.Key != "href" && attr.Key != "src" {
				continue
			}
			if attr.Val != "" {
				refs = append(refs, attr.Val)
			}
		}
	}
	return refs
}

// resolveLink maps a link found in a page to the destination-relative
// output path it refers to. External links, fragments, and non-HTTP
// schemes report ok=false.
func (f *Freezer) resolveLink(page Page, ref string) (target string, ok bool) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "" && parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	if parsed.Host != "" && parsed.Host != f.baseHost {
		return "", false
	}
	linkPath, err := url.PathUnescape(parsed.EscapedPath())
	if err != nil || linkPath == "" {
		// Pure fragment or query link: same page, always live.
		return "", false
	}

	if !strings.HasPrefix(linkPath, "/") {
		// Relative to the directory the containing file lives in.
		base := path.Dir("/" + page.Path)
		linkPath = path.Join(base, linkPath)
	} else {
		stripped, inside := f.stripBasePath(path.Clean(linkPath))
		if !inside {
			return "", false
		}
		linkPath = stripped
	}
	if strings.HasSuffix(ref, "/") && !strings.HasSuffix(linkPath, "/") {
		linkPath += "/"
	}

	rel, err := FilePath(linkPath)
	if err != nil {
		return "", false
	}
	return rel, true
}
