package freezer

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// FilePath converts a resolved URL path into the file path, relative to
// the destination directory, that its response is written to.
//
// The input must be the path component only (query string and fragment
// already stripped, percent-decoding already applied). A trailing slash
// maps to index.html inside the corresponding directory; otherwise the
// final segment is the filename. Because the query string is gone, URLs
// differing only in query collide on the same path by design.
//
// A path that would escape the destination directory, for example via
// ".." segments smuggled in percent-encoded form, fails with
// *PathSecurityError. This is a hard invariant, not a warning.
func FilePath(urlPath string) (string, error) {
	if !strings.HasPrefix(urlPath, "/") {
		return "", &ConfigurationError{Reason: fmt.Sprintf("URL %q is not application-absolute", urlPath)}
	}
	p := urlPath
	if strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	rel := p[1:]
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", &PathSecurityError{URL: urlPath, Path: rel}
	}
	return rel, nil
}

// resolveURL normalizes a raw URL into the canonical form used as the
// crawl deduplication key: scheme, host, query, and fragment stripped,
// percent-escapes decoded as UTF-8.
//
// Absolute URLs are only accepted when their host matches allowedHost
// (the configured base URL's host); anything else is external and not
// supported by an in-process freeze.
func resolveURL(raw, allowedHost string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse URL %q: %w", raw, err)
	}
	if parsed.Scheme != "" || parsed.Host != "" {
		if parsed.Host == "" || parsed.Host != allowedHost {
			return "", fmt.Errorf("external URLs are not supported: %q", raw)
		}
	}

	// Path already percent-decodes, but go through the raw form so
	// characters like %2F decode exactly once, the same way a static
	// file server would see them.
	p := parsed.EscapedPath()
	decoded, err := url.PathUnescape(p)
	if err != nil {
		decoded = parsed.Path
	}
	if decoded == "" {
		decoded = "/"
	}
	return decoded, nil
}
