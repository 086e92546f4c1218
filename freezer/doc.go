// Package freezer turns a server-side web application into a tree of
// static files by simulating a request for every reachable URL and
// writing the responses to a destination directory.
//
// # Architecture
//
// A Freezer combines three URL sources into one work queue:
//
//   - enumeration of the routing table (no-argument endpoints and
//     static-file endpoints, both on by default)
//   - user-registered URL generators (RegisterGenerator)
//   - links captured while pages render, via the router's build
//     observer, which makes the crawl a fixpoint: freezing a page can
//     enqueue more pages until nothing new appears
//
// Requests are simulated in process against an http.Handler; nothing
// ever goes over the network. The crawl is strictly sequential because
// the capture hook attributes discovered links to the page currently
// being rendered.
//
// # Deduplication
//
// Work is deduplicated on the resolved URL: the percent-decoded path
// with query string and fragment stripped. Two seeds resolving to the
// same path are simulated at most once per freeze, first seed wins.
// Because the query string is stripped, URLs differing only in query
// map to the same file; the first-resolved response is the one written.
//
// # Destination reconciliation
//
// Files are only rewritten when their content changed, preserving
// modification times. After a crawl, files left over from previous runs
// are removed unless they match a destination-ignore pattern; emptied
// directories are pruned bottom-up. Both behaviors are configurable.
//
// # Usage
//
//	r := router.New()
//	// ... register routes ...
//	f := freezer.New(r, freezer.WithDestination("build"))
//	f.RegisterGenerator("product_details", func() ([]freezer.Seed, error) {
//		return []freezer.Seed{freezer.Values(router.Params{"product_id": 1})}, nil
//	})
//	result, err := f.Freeze(ctx)
//
// Fatal problems (bad generator output, path escapes, unexpected status
// codes) abort the freeze and leave the destination partially written.
// Diagnostics (MIME mismatches, endpoints nothing generated URLs for)
// are collected on the Result instead of interrupting the crawl.
package freezer
