package freezer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/webfreeze/webfreeze/router"
)

// RedirectPolicy controls how simulated redirect responses are handled.
type RedirectPolicy string

const (
	// RedirectFollow simulates a second request at the Location target
	// and writes that body under the original URL's output path.
	RedirectFollow RedirectPolicy = "follow"

	// RedirectIgnore writes nothing for a redirecting URL and records
	// a warning instead.
	RedirectIgnore RedirectPolicy = "ignore"

	// RedirectFail aborts the freeze on any redirect response.
	RedirectFail RedirectPolicy = "error"
)

// maxRedirectHops bounds redirect chains under RedirectFollow so that a
// redirect loop fails instead of spinning.
const maxRedirectHops = 10

// Routes is the read-only routing collaborator the freezer consults to
// enumerate endpoints, build URLs from (endpoint, params) seeds, and
// observe URL building during rendering. *router.Router satisfies it.
type Routes interface {
	// URL builds the URL path for an endpoint.
	URL(endpoint string, params router.Params) (string, error)

	// EndpointsAccepting returns the endpoints accepting an HTTP method.
	EndpointsAccepting(method string) []string

	// NoArgumentEndpoints returns GET endpoints with no placeholders.
	NoArgumentEndpoints() []string

	// StaticEndpoints returns the static-file endpoints.
	StaticEndpoints() []string

	// StaticRoot returns the directory backing a static-file endpoint.
	StaticRoot(endpoint string) (string, bool)

	// Observe registers a build observer and returns its release func.
	Observe(fn router.BuildObserver) func()

	// SetRelativeURLs toggles relative URL building during dispatch.
	SetRelativeURLs(enabled bool)

	// SetBasePath sets the deployment path prefix built URLs carry.
	SetBasePath(prefix string)
}

// SkipExistingFunc decides per URL whether an existing output file is
// kept without re-simulating the request.
type SkipExistingFunc func(url, path string) bool

// phase tracks where a Freezer is in its run. Mostly internal
// bookkeeping: it guards against overlapping freezes, which would share
// the capture hook and the destination directory.
type phase int

const (
	phaseIdle phase = iota
	phaseSeeding
	phaseDraining
	phaseDone
)

// Freezer crawls an application and writes every reachable response to
// the destination directory. Configure it with options at construction
// time; a Freezer must not be reconfigured while Freeze is running.
type Freezer struct {
	// routes is the routing collaborator.
	routes Routes

	// app receives the simulated requests. Defaults to routes when the
	// routing table is itself an http.Handler, as *router.Router is.
	app http.Handler

	dest              string
	baseURL           string
	removeExtra       bool
	destinationIgnore []string
	staticIgnore      []string
	blocklist         []string
	defaultMimeType   string
	mimeWarnings      bool
	redirectPolicy    RedirectPolicy
	ignore404         bool
	skipExisting      SkipExistingFunc
	relativeURLs      bool
	withStatic        bool
	withNoArgs        bool
	auditLinks        bool
	auditParallel     int

	generators []generatorEntry
	progress   func(Page)
	recorder   Recorder
	logger     *slog.Logger

	// mu guards phase; everything else is set up before Freeze starts.
	mu    sync.Mutex
	phase phase

	// run state, owned by one Freeze call.
	destAbs  string
	baseHost string
	basePath string
}

// Option configures a Freezer.
type Option func(*Freezer)

// WithDestination sets the directory the frozen site is written to.
// Default "build", resolved relative to the working directory.
func WithDestination(dir string) Option {
	return func(f *Freezer) { f.dest = dir }
}

// WithApp sets the handler requests are simulated against when it is
// not the routing table itself.
func WithApp(app http.Handler) Option {
	return func(f *Freezer) { f.app = app }
}

// WithBaseURL sets the base URL of the deployed site, e.g.
// "http://example.com/subdir". Its host legitimizes absolute internal
// URLs. Its path prefix is handed to the router for the duration of the
// freeze, so router-built URLs (and the links rendered into pages)
// carry it; the freezer strips the prefix again before resolution, so
// files still land at the destination root. Literal URL seeds must be
// written in the deployed form, prefix included.
func WithBaseURL(base string) Option {
	return func(f *Freezer) { f.baseURL = base }
}

// WithRemoveExtraFiles controls whether files left over from previous
// runs are deleted after the crawl. Default true.
func WithRemoveExtraFiles(remove bool) Option {
	return func(f *Freezer) { f.removeExtra = remove }
}

// WithDestinationIgnore adds glob patterns for destination entries that
// are exempt from stale-file removal, such as ".git*".
// Patterns containing a slash match whole destination-relative paths,
// others match single path segments.
func WithDestinationIgnore(patterns ...string) Option {
	return func(f *Freezer) { f.destinationIgnore = append(f.destinationIgnore, patterns...) }
}

// WithStaticIgnore adds glob patterns for static source files that are
// exempt from freezing, such as "*.scss".
func WithStaticIgnore(patterns ...string) Option {
	return func(f *Freezer) { f.staticIgnore = append(f.staticIgnore, patterns...) }
}

// WithBlocklist adds glob patterns matched against generated URLs and
// endpoint names; matching seeds are skipped entirely and matching
// endpoints are exempt from the missing-generator diagnostic.
func WithBlocklist(patterns ...string) Option {
	return func(f *Freezer) { f.blocklist = append(f.blocklist, patterns...) }
}

// WithDefaultMimeType sets the type assumed for output filenames whose
// extension is unknown. Default "application/octet-stream", matching
// what most web servers fall back to.
func WithDefaultMimeType(mimeType string) Option {
	return func(f *Freezer) { f.defaultMimeType = mimeType }
}

// WithoutMimeTypeWarnings suppresses content-type mismatch warnings.
func WithoutMimeTypeWarnings() Option {
	return func(f *Freezer) { f.mimeWarnings = false }
}

// WithRedirectPolicy sets how redirect responses are handled.
// Default RedirectFollow.
func WithRedirectPolicy(policy RedirectPolicy) Option {
	return func(f *Freezer) { f.redirectPolicy = policy }
}

// WithIgnore404 demotes 404 responses from fatal errors to warnings and
// writes the 404 body as the page content. An escape hatch for
// partially built sites.
func WithIgnore404() Option {
	return func(f *Freezer) { f.ignore404 = true }
}

// WithSkipExisting keeps output files that already exist on disk
// without simulating their request, even if content differs. A
// freshness hint on a seed (EndpointAt) overrides this for files older
// than the hint.
func WithSkipExisting() Option {
	return WithSkipExistingFunc(func(string, string) bool { return true })
}

// WithSkipExistingFunc is WithSkipExisting with a per-URL predicate.
func WithSkipExistingFunc(fn SkipExistingFunc) Option {
	return func(f *Freezer) { f.skipExisting = fn }
}

// WithRelativeURLs makes the router build relative URLs while pages
// render, so the frozen site also works when served from a
// subdirectory or the local filesystem.
func WithRelativeURLs() Option {
	return func(f *Freezer) { f.relativeURLs = true }
}

// WithoutStaticFiles disables the built-in generator that freezes every
// file under the static-file endpoints' directories.
func WithoutStaticFiles() Option {
	return func(f *Freezer) { f.withStatic = false }
}

// WithoutNoArgumentRules disables the built-in generator that seeds
// every endpoint whose URL pattern takes no arguments.
func WithoutNoArgumentRules() Option {
	return func(f *Freezer) { f.withNoArgs = false }
}

// WithLinkAudit enables the post-freeze pass that parses written HTML
// files and warns about internal links resolving to no frozen file.
// parallel bounds how many files are parsed concurrently; values below
// one fall back to one.
func WithLinkAudit(parallel int) Option {
	return func(f *Freezer) {
		f.auditLinks = true
		if parallel < 1 {
			parallel = 1
		}
		f.auditParallel = parallel
	}
}

// WithProgress registers a callback invoked after each page is frozen,
// in crawl order. Useful for progress output.
func WithProgress(fn func(Page)) Option {
	return func(f *Freezer) { f.progress = fn }
}

// WithRecorder persists each completed freeze to the given recorder.
func WithRecorder(rec Recorder) Option {
	return func(f *Freezer) { f.recorder = rec }
}

// WithLogger sets the logger for per-URL debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Freezer) { f.logger = logger }
}

// New creates a Freezer for the given routing table. When routes also
// implements http.Handler (as *router.Router does) it doubles as the
// application; use WithApp to simulate against a different handler.
func New(routes Routes, opts ...Option) *Freezer {
	f := &Freezer{
		routes:          routes,
		dest:            "build",
		removeExtra:     true,
		defaultMimeType: "application/octet-stream",
		mimeWarnings:    true,
		redirectPolicy:  RedirectFollow,
		withStatic:      true,
		withNoArgs:      true,
		auditParallel:   1,
	}
	if app, ok := routes.(http.Handler); ok {
		f.app = app
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// RegisterGenerator registers a URL generator under a name. The name
// identifies the generator in error messages and doubles as the default
// endpoint for Values seeds. Generators run in registration order,
// after the built-in static-file and no-argument generators.
func (f *Freezer) RegisterGenerator(name string, fn Generator) {
	f.generators = append(f.generators, generatorEntry{name: name, fn: fn})
}

// workItem is one entry in the crawl queue: a seed resolved to its
// canonical URL.
type workItem struct {
	// url is the resolved URL: decoded path, query and fragment gone.
	url string

	// endpoint is the originating endpoint name, if the seed had one.
	endpoint string

	// notBefore is the seed's freshness hint, zero if none.
	notBefore time.Time

	// origin is the URL of the page whose rendering discovered this
	// item, for diagnostics. Empty for generator seeds.
	origin string
}

// Freeze crawls the application to a fixpoint and reconciles the
// destination directory. It returns the visited URLs and the collected
// diagnostics. Fatal errors abort immediately and leave the destination
// partially written; there is no rollback.
func (f *Freezer) Freeze(ctx context.Context) (*Result, error) {
	f.mu.Lock()
	if f.phase != phaseIdle {
		f.mu.Unlock()
		return nil, ErrFreezeInProgress
	}
	f.phase = phaseSeeding
	f.mu.Unlock()
	defer f.setPhase(phaseIdle)

	if f.app == nil {
		return nil, &ConfigurationError{Reason: "no application handler: routing table does not serve HTTP and WithApp was not given"}
	}
	if err := f.prepare(); err != nil {
		return nil, err
	}

	rc, err := newReconciler(f.destAbs, f.removeExtra, f.destinationIgnore)
	if err != nil {
		return nil, err
	}

	if f.basePath != "" {
		f.routes.SetBasePath(f.basePath)
		defer f.routes.SetBasePath("")
	}
	if f.relativeURLs {
		f.routes.SetRelativeURLs(true)
		defer f.routes.SetRelativeURLs(false)
	}

	result := &Result{
		Destination: f.destAbs,
		StartedAt:   time.Now(),
	}

	seen := make(map[string]struct{})
	seenEndpoints := make(map[string]struct{})

	queue, err := f.seedQueue(seenEndpoints)
	if err != nil {
		return nil, err
	}
	f.setPhase(phaseDraining)

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		item := queue[0]
		queue = queue[1:]

		if item.endpoint != "" {
			seenEndpoints[item.endpoint] = struct{}{}
		}
		if _, dup := seen[item.url]; dup {
			continue
		}
		seen[item.url] = struct{}{}

		page, warnings, captured, err := f.buildOne(ctx, rc, item, seenEndpoints)
		if err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings, warnings...)
		if page != nil {
			result.URLs = append(result.URLs, page.URL)
			result.Pages = append(result.Pages, *page)
			if f.progress != nil {
				f.progress(*page)
			}
			f.logger.Debug("froze URL", "url", page.URL, "path", page.Path, "skipped", page.Skipped)
		}
		// Breadth-first: discoveries go to the back of the queue.
		queue = append(queue, captured...)
	}

	result.Warnings = append(result.Warnings, f.missingGeneratorWarnings(seenEndpoints)...)

	removed, err := rc.finalize()
	if err != nil {
		return nil, err
	}
	result.Removed = removed
	for _, rel := range removed {
		f.logger.Debug("removed stale file", "path", rel)
	}

	if f.auditLinks {
		result.Warnings = append(result.Warnings, f.auditWrittenLinks(ctx, result)...)
	}

	f.setPhase(phaseDone)
	result.FinishedAt = time.Now()

	if f.recorder != nil {
		if err := f.recorder.Record(ctx, result); err != nil {
			return nil, fmt.Errorf("record freeze result: %w", err)
		}
	}
	return result, nil
}

// AllURLs runs the enumerator and all generators without simulating any
// request and returns the deduplicated URLs in seeding order. Useful
// for testing URL generators. URLs that would only be discovered while
// pages render are not included.
func (f *Freezer) AllURLs() ([]string, error) {
	if err := f.prepare(); err != nil {
		return nil, err
	}
	if f.basePath != "" {
		f.routes.SetBasePath(f.basePath)
		defer f.routes.SetBasePath("")
	}
	queue, err := f.seedQueue(make(map[string]struct{}))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(queue))
	urls := make([]string, 0, len(queue))
	for _, item := range queue {
		if _, dup := seen[item.url]; dup {
			continue
		}
		seen[item.url] = struct{}{}
		urls = append(urls, item.url)
	}
	return urls, nil
}

// setPhase updates the run phase under the lock.
func (f *Freezer) setPhase(p phase) {
	f.mu.Lock()
	f.phase = p
	f.mu.Unlock()
}

// prepare resolves the destination and base URL for a run.
func (f *Freezer) prepare() error {
	destAbs, err := filepath.Abs(f.dest)
	if err != nil {
		return &ConfigurationError{Reason: "resolve destination", Err: err}
	}
	f.destAbs = destAbs

	f.baseHost, f.basePath = "", ""
	if f.baseURL != "" {
		parsed, err := url.Parse(f.baseURL)
		if err != nil {
			return &ConfigurationError{Reason: fmt.Sprintf("invalid base URL %q", f.baseURL), Err: err}
		}
		f.baseHost = parsed.Host
		f.basePath = strings.TrimSuffix(parsed.Path, "/")
	}
	return nil
}

// seedQueue runs the built-in enumerator generators and every
// registered generator exactly once and resolves their seeds.
// Blocklisted seeds are dropped, but their endpoint still counts as
// covered for the missing-generator diagnostic.
func (f *Freezer) seedQueue(seenEndpoints map[string]struct{}) ([]workItem, error) {
	entries := make([]generatorEntry, 0, len(f.generators)+2)
	if f.withStatic {
		entries = append(entries, generatorEntry{name: "static_files", fn: f.staticFileSeeds})
	}
	if f.withNoArgs {
		entries = append(entries, generatorEntry{name: "no_argument_rules", fn: f.noArgumentSeeds})
	}
	entries = append(entries, f.generators...)

	var queue []workItem
	for _, entry := range entries {
		seeds, err := entry.fn()
		if err != nil {
			return nil, &ConfigurationError{Generator: entry.name, Reason: "generator failed", Err: err}
		}
		for _, seed := range seeds {
			item, skip, err := f.resolveSeed(entry.name, seed)
			if err != nil {
				return nil, err
			}
			if skip {
				if item.endpoint != "" {
					seenEndpoints[item.endpoint] = struct{}{}
				}
				continue
			}
			queue = append(queue, item)
		}
	}
	return queue, nil
}

// staticFileSeeds is the built-in generator that yields one seed per
// file under each static-file endpoint's directory, honoring the
// static-ignore patterns. A missing directory contributes nothing.
func (f *Freezer) staticFileSeeds() ([]Seed, error) {
	var seeds []Seed
	for _, endpoint := range f.routes.StaticEndpoints() {
		root, ok := f.routes.StaticRoot(endpoint)
		if !ok {
			continue
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}
		files, err := WalkDirectory(root, f.staticIgnore)
		if err != nil {
			return nil, err
		}
		for _, name := range files {
			seeds = append(seeds, Endpoint(endpoint, router.Params{"filename": name}))
		}
	}
	return seeds, nil
}

// noArgumentSeeds is the built-in generator that yields one seed per
// GET endpoint whose URL pattern has no placeholders.
func (f *Freezer) noArgumentSeeds() ([]Seed, error) {
	endpoints := f.routes.NoArgumentEndpoints()
	seeds := make([]Seed, 0, len(endpoints))
	for _, endpoint := range endpoints {
		seeds = append(seeds, Endpoint(endpoint, nil))
	}
	return seeds, nil
}

// resolveSeed validates a seed and resolves it to its canonical URL.
// skip is true for seeds suppressed by the blocklist.
func (f *Freezer) resolveSeed(generator string, seed Seed) (item workItem, skip bool, err error) {
	var raw string
	endpoint := seed.endpoint

	switch seed.kind {
	case seedURL:
		raw = seed.rawURL
	case seedValues:
		// The endpoint defaults to the generator's registered name.
		endpoint = generator
		fallthrough
	case seedEndpoint:
		built, err := f.routes.URL(endpoint, seed.params)
		if err != nil {
			return workItem{}, false, &ConfigurationError{Generator: generator, Reason: "building URL", Err: err}
		}
		raw = built
	default:
		return workItem{}, false, &ConfigurationError{
			Generator: generator,
			Reason:    "invalid seed: use freezer.URL, freezer.Endpoint, freezer.EndpointAt, or freezer.Values",
		}
	}

	resolved, err := resolveURL(raw, f.baseHost)
	if err != nil {
		return workItem{}, false, &ConfigurationError{Generator: generator, Err: err}
	}
	resolved, ok := f.stripBasePath(resolved)
	if !ok {
		return workItem{}, false, &ConfigurationError{
			Generator: generator,
			Reason:    fmt.Sprintf("URL %s is outside the base URL path %s", resolved, f.basePath),
		}
	}

	item = workItem{url: resolved, endpoint: endpoint, notBefore: seed.notBefore}
	return item, f.blocked(resolved, endpoint), nil
}

// stripBasePath removes the base URL's path prefix from a resolved URL,
// so a site deployed under a subdirectory still freezes to the
// destination root. A URL outside the prefix cannot be frozen; ok is
// false for those.
func (f *Freezer) stripBasePath(resolved string) (string, bool) {
	if f.basePath == "" {
		return resolved, true
	}
	if resolved == f.basePath {
		return "/", true
	}
	if strings.HasPrefix(resolved, f.basePath+"/") {
		return resolved[len(f.basePath):], true
	}
	return resolved, false
}

// blocked reports whether a URL or endpoint matches any blocklist
// pattern.
func (f *Freezer) blocked(resolved, endpoint string) bool {
	for _, pattern := range f.blocklist {
		if resolved != "" && fnmatch(pattern, resolved) {
			return true
		}
		if endpoint != "" && fnmatch(pattern, endpoint) {
			return true
		}
	}
	return false
}

// buildOne freezes a single URL: it maps the URL to its output path,
// applies the skip-existing policy, simulates the request with the
// link-capture hook installed, and hands the body to the reconciler.
func (f *Freezer) buildOne(ctx context.Context, rc *reconciler, item workItem, seenEndpoints map[string]struct{}) (page *Page, warnings []Warning, captured []workItem, err error) {
	rel, err := FilePath(item.url)
	if err != nil {
		return nil, nil, nil, err
	}
	filename := filepath.Join(f.destAbs, filepath.FromSlash(rel))

	if info, statErr := os.Stat(filename); statErr == nil && info.Mode().IsRegular() {
		stale := !item.notBefore.IsZero() && info.ModTime().Before(item.notBefore)
		fresh := !item.notBefore.IsZero() && !info.ModTime().Before(item.notBefore)
		skip := f.skipExisting != nil && f.skipExisting(item.url, filename)
		if !stale && (fresh || skip) {
			rc.markLive(rel)
			return &Page{URL: item.url, Path: rel, Skipped: true}, nil, nil, nil
		}
	}

	// The capture hook lives exactly as long as this page's requests:
	// links built while rendering become new crawl work, attributed to
	// this URL. The deferred release keeps the hook from leaking even
	// when the simulation panics or fails.
	var captureErr error
	release := f.routes.Observe(func(endpoint string, _ router.Params, built string) {
		resolved, err := resolveURL(built, f.baseHost)
		if err != nil {
			// External target: not ours to freeze.
			return
		}
		resolved, ok := f.stripBasePath(resolved)
		if !ok {
			if captureErr == nil {
				captureErr = &ConfigurationError{Reason: fmt.Sprintf(
					"URL %s built while rendering %s is outside the base URL path %s",
					resolved, item.url, f.basePath)}
			}
			return
		}
		if f.blocked(resolved, endpoint) {
			// Deliberately skipped, but the endpoint was targeted.
			if endpoint != "" {
				seenEndpoints[endpoint] = struct{}{}
			}
			return
		}
		captured = append(captured, workItem{url: resolved, endpoint: endpoint, origin: item.url})
	})
	defer release()

	rec := f.simulate(ctx, item.url)

	// current tracks the URL of the latest hop, so each relative
	// Location resolves against the response that sent it.
	current := item.url
	hops := 0
	for isRedirect(rec.Code) && rec.Header().Get("Location") != "" {
		location := rec.Header().Get("Location")
		switch f.redirectPolicy {
		case RedirectFail:
			return nil, nil, nil, &RedirectError{URL: item.url, Location: location, Reason: "redirect policy is error"}
		case RedirectIgnore:
			warnings = append(warnings, Warning{
				Kind:    WarnRedirectIgnored,
				URL:     item.url,
				Message: fmt.Sprintf("ignored redirect to %q on URL %s", location, item.url),
			})
			return nil, warnings, captured, nil
		}

		target, err := url.Parse(location)
		if err != nil {
			return nil, nil, nil, &RedirectError{URL: item.url, Location: location, Reason: "unparseable Location"}
		}
		resolved := (&url.URL{Path: current}).ResolveReference(target)
		if resolved.Host != "" && resolved.Host != f.baseHost {
			return nil, nil, nil, &RedirectError{URL: item.url, Location: location, Reason: "redirect to a different host"}
		}
		hops++
		if hops > maxRedirectHops {
			return nil, nil, nil, &RedirectError{URL: item.url, Location: location, Reason: "too many redirects"}
		}

		next, err := url.PathUnescape(resolved.EscapedPath())
		if err != nil {
			next = resolved.Path
		}
		current = next
		rec = f.simulate(ctx, next)
	}

	if captureErr != nil {
		return nil, nil, nil, captureErr
	}

	switch {
	case rec.Code == http.StatusOK:
	case rec.Code == http.StatusNotFound && f.ignore404:
		warnings = append(warnings, Warning{
			Kind:    WarnNotFound,
			URL:     item.url,
			Message: fmt.Sprintf("ignored 404 Not Found on URL %s", item.url),
		})
	case rec.Code == http.StatusNotFound:
		return nil, nil, nil, &NotFoundError{URL: item.url}
	default:
		return nil, nil, nil, &UnexpectedStatusError{URL: item.url, Status: rec.Code}
	}

	if f.mimeWarnings {
		declared := rec.Header().Get("Content-Type")
		if w := checkMimeType(filename, declared, f.defaultMimeType); w != nil {
			w.URL = item.url
			warnings = append(warnings, *w)
		}
	}

	body := rec.Body.Bytes()
	if _, err := rc.write(rel, body); err != nil {
		return nil, nil, nil, err
	}

	digest := sha256.Sum256(body)
	page = &Page{
		URL:    item.url,
		Path:   rel,
		Status: rec.Code,
		Hash:   hex.EncodeToString(digest[:]),
		Size:   int64(len(body)),
	}
	return page, warnings, captured, nil
}

// simulate performs one in-process GET against the application. The
// path is re-encoded into a request target, and the configured base
// host is set so host-aware applications behave as deployed.
func (f *Freezer) simulate(ctx context.Context, urlPath string) *httptest.ResponseRecorder {
	target := (&url.URL{Path: urlPath}).RequestURI()
	req := httptest.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if f.baseHost != "" {
		req.Host = f.baseHost
	}
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)
	return rec
}

// isRedirect reports whether a status code is a redirect the freezer
// acts on. 304 is excluded: it has no Location and no body.
func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// missingGeneratorWarnings flags GET endpoints that exist in the
// routing table but were never targeted by any seed. No-argument
// endpoints are exempt (the enumerator covers them), as are static
// endpoints while the static generator is active, and anything on the
// blocklist.
func (f *Freezer) missingGeneratorWarnings(seenEndpoints map[string]struct{}) []Warning {
	noArg := make(map[string]struct{})
	for _, endpoint := range f.routes.NoArgumentEndpoints() {
		noArg[endpoint] = struct{}{}
	}
	static := make(map[string]struct{})
	for _, endpoint := range f.routes.StaticEndpoints() {
		static[endpoint] = struct{}{}
	}

	var missing []string
	for _, endpoint := range f.routes.EndpointsAccepting(http.MethodGet) {
		if _, ok := seenEndpoints[endpoint]; ok {
			continue
		}
		if _, ok := noArg[endpoint]; ok {
			continue
		}
		if f.withStatic {
			if _, ok := static[endpoint]; ok {
				continue
			}
		}
		if f.blocked("", endpoint) {
			continue
		}
		missing = append(missing, endpoint)
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return []Warning{{
		Kind: WarnMissingURLGenerator,
		Message: fmt.Sprintf("nothing frozen for endpoints %s; did you forget a URL generator?",
			strings.Join(missing, ", ")),
	}}
}
