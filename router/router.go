package router

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Params holds the values substituted into a URL pattern's placeholders.
// Values are converted with fmt.Sprint, so integers and other scalar
// types can be passed directly. Keys that do not appear in the pattern
// are appended to the built URL as a query string.
type Params map[string]any

// BuildObserver is notified after every successful URL build with the
// endpoint name, the parameters, and the resulting URL path. The URL
// passed to observers is always application-absolute and includes any
// configured base path, even when the router is in relative-URL mode.
type BuildObserver func(endpoint string, params Params, urlPath string)

// segment is one parsed piece of a URL pattern.
type segment struct {
	// literal is the fixed text of the segment. Empty for placeholders.
	literal string

	// param is the placeholder name. Empty for literal segments.
	param string

	// rest marks a {name...} segment that absorbs the remaining path.
	rest bool
}

// route is a single registered endpoint.
type route struct {
	endpoint      string
	pattern       string
	methods       map[string]struct{}
	handler       http.Handler
	segments      []segment
	trailingSlash bool

	// staticRoot is the directory backing a static-file route.
	// Empty for ordinary routes.
	staticRoot string
}

// paramCount returns the number of placeholders in the route's pattern.
func (rt *route) paramCount() int {
	n := 0
	for _, seg := range rt.segments {
		if seg.param != "" {
			n++
		}
	}
	return n
}

// allows reports whether the route accepts the given HTTP method.
func (rt *route) allows(method string) bool {
	_, ok := rt.methods[method]
	return ok
}

// Router is a routing table keyed by endpoint name.
//
// Routes are registered up front and the table is treated as immutable
// while requests are served. Request dispatch itself is not safe for
// concurrent use when observers or relative-URL mode are active, because
// both rely on the identity of the request currently being served; the
// freezer drives requests strictly one at a time, which is the intended
// usage.
type Router struct {
	mu         sync.Mutex
	routes     []*route
	byEndpoint map[string]*route

	// observers is a stack of build observers. The zero state (empty)
	// means URL building has no side effects.
	observers []BuildObserver
	nextObsID int
	obsIDs    []int

	// relative enables relative URL building during request dispatch.
	relative bool

	// basePath is prepended to built URLs when the site is deployed
	// under a subdirectory. Empty means the site root.
	basePath string

	// currentPath is the path of the request being dispatched, used as
	// the base for relative URL building. Empty outside dispatch.
	currentPath string
}

// New creates an empty Router.
func New() *Router {
	return &Router{byEndpoint: make(map[string]*route)}
}

// Handle registers a handler under the given endpoint name and URL
// pattern. The route accepts GET and HEAD unless explicit methods are
// given. Registering the same endpoint twice is an error.
func (r *Router) Handle(endpoint, pattern string, handler http.Handler, methods ...string) error {
	return r.register(endpoint, pattern, handler, "", methods)
}

// HandleFunc is the http.HandlerFunc convenience form of Handle.
func (r *Router) HandleFunc(endpoint, pattern string, handler http.HandlerFunc, methods ...string) error {
	return r.Handle(endpoint, pattern, handler, methods...)
}

// Static registers a static-file route. The route serves files from dir
// under the given URL prefix and exposes a single {filename...} rest
// placeholder, so URLs are built with Params{"filename": "css/site.css"}.
func (r *Router) Static(endpoint, prefix, dir string) error {
	pattern := strings.TrimSuffix(prefix, "/") + "/{filename...}"
	handler := &staticHandler{root: dir}
	return r.register(endpoint, pattern, handler, dir, nil)
}

// register parses the pattern and stores the route.
func (r *Router) register(endpoint, pattern string, handler http.Handler, staticRoot string, methods []string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: empty endpoint name", ErrBadPattern)
	}
	if _, ok := r.byEndpoint[endpoint]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateEndpoint, endpoint)
	}
	segments, trailingSlash, err := parsePattern(pattern)
	if err != nil {
		return fmt.Errorf("endpoint %q: %w", endpoint, err)
	}

	methodSet := make(map[string]struct{})
	if len(methods) == 0 {
		methodSet[http.MethodGet] = struct{}{}
		methodSet[http.MethodHead] = struct{}{}
	}
	for _, m := range methods {
		methodSet[strings.ToUpper(m)] = struct{}{}
	}

	rt := &route{
		endpoint:      endpoint,
		pattern:       pattern,
		methods:       methodSet,
		handler:       handler,
		segments:      segments,
		trailingSlash: trailingSlash,
		staticRoot:    staticRoot,
	}
	r.routes = append(r.routes, rt)
	r.byEndpoint[endpoint] = rt
	return nil
}

// parsePattern splits a URL pattern into segments.
func parsePattern(pattern string) ([]segment, bool, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, false, fmt.Errorf("%w: %q must start with /", ErrBadPattern, pattern)
	}
	trailingSlash := pattern == "/" || strings.HasSuffix(pattern, "/")
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return nil, trailingSlash, nil
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]segment, 0, len(parts))
	seen := make(map[string]struct{})
	for i, part := range parts {
		if !strings.HasPrefix(part, "{") || !strings.HasSuffix(part, "}") {
			if strings.ContainsAny(part, "{}") {
				return nil, false, fmt.Errorf("%w: malformed segment %q", ErrBadPattern, part)
			}
			segments = append(segments, segment{literal: part})
			continue
		}

		name := part[1 : len(part)-1]
		rest := strings.HasSuffix(name, "...")
		if rest {
			name = strings.TrimSuffix(name, "...")
			if i != len(parts)-1 || trailingSlash {
				return nil, false, fmt.Errorf("%w: rest segment {%s...} must be last", ErrBadPattern, name)
			}
		}
		if name == "" {
			return nil, false, fmt.Errorf("%w: empty placeholder in %q", ErrBadPattern, pattern)
		}
		if _, dup := seen[name]; dup {
			return nil, false, fmt.Errorf("%w: duplicate placeholder %q", ErrBadPattern, name)
		}
		seen[name] = struct{}{}
		segments = append(segments, segment{param: name, rest: rest})
	}
	return segments, trailingSlash, nil
}

// Endpoints returns all registered endpoint names, sorted.
func (r *Router) Endpoints() []string {
	names := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		names = append(names, rt.endpoint)
	}
	sort.Strings(names)
	return names
}

// EndpointsAccepting returns the endpoints that accept the given HTTP
// method, sorted.
func (r *Router) EndpointsAccepting(method string) []string {
	method = strings.ToUpper(method)
	names := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		if rt.allows(method) {
			names = append(names, rt.endpoint)
		}
	}
	sort.Strings(names)
	return names
}

// NoArgumentEndpoints returns the endpoints whose pattern has no
// placeholders, that accept GET, and that are not static-file routes.
// An empty routing table yields an empty result.
func (r *Router) NoArgumentEndpoints() []string {
	names := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		if rt.staticRoot == "" && rt.paramCount() == 0 && rt.allows(http.MethodGet) {
			names = append(names, rt.endpoint)
		}
	}
	sort.Strings(names)
	return names
}

// StaticEndpoints returns the endpoints registered via Static, sorted.
func (r *Router) StaticEndpoints() []string {
	names := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		if rt.staticRoot != "" {
			names = append(names, rt.endpoint)
		}
	}
	sort.Strings(names)
	return names
}

// StaticRoot returns the directory backing a static-file endpoint.
func (r *Router) StaticRoot(endpoint string) (string, bool) {
	rt, ok := r.byEndpoint[endpoint]
	if !ok || rt.staticRoot == "" {
		return "", false
	}
	return rt.staticRoot, true
}

// Observe pushes a build observer and returns its release function.
// The release function is idempotent and must be called (normally via
// defer) so observation never leaks past its intended scope.
func (r *Router) Observe(fn BuildObserver) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextObsID
	r.nextObsID++
	r.observers = append(r.observers, fn)
	r.obsIDs = append(r.obsIDs, id)

	released := false
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if released {
			return
		}
		released = true
		for i, oid := range r.obsIDs {
			if oid == id {
				r.observers = append(r.observers[:i], r.observers[i+1:]...)
				r.obsIDs = append(r.obsIDs[:i], r.obsIDs[i+1:]...)
				return
			}
		}
	}
}

// SetRelativeURLs toggles relative URL building. When enabled, URL
// returns paths relative to the request currently being dispatched,
// with index.html substituted for trailing slashes so the result maps
// onto the frozen file layout. Outside a request, URLs stay absolute.
func (r *Router) SetRelativeURLs(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.relative = enabled
}

// SetBasePath sets the path prefix under which the site is deployed,
// e.g. "/subdir". Built URLs carry the prefix so rendered links work on
// the deployed site; request dispatch and relative URL building are
// unaffected. An empty or "/" prefix restores root deployment.
func (r *Router) SetBasePath(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.basePath = strings.TrimSuffix(prefix, "/")
}

// URL builds the URL path for an endpoint. Placeholder values are taken
// from params; leftover params become a sorted query string. Every
// successful build is reported to the registered observers.
func (r *Router) URL(endpoint string, params Params) (string, error) {
	rt, ok := r.byEndpoint[endpoint]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEndpoint, endpoint)
	}

	used := make(map[string]struct{})
	var b strings.Builder
	for _, seg := range rt.segments {
		b.WriteByte('/')
		if seg.param == "" {
			b.WriteString(url.PathEscape(seg.literal))
			continue
		}
		val, ok := params[seg.param]
		if !ok {
			return "", fmt.Errorf("%w: %q for endpoint %q", ErrMissingParam, seg.param, endpoint)
		}
		used[seg.param] = struct{}{}
		text := fmt.Sprint(val)
		if seg.rest {
			parts := strings.Split(text, "/")
			for i, p := range parts {
				parts[i] = url.PathEscape(p)
			}
			b.WriteString(strings.Join(parts, "/"))
			continue
		}
		b.WriteString(url.PathEscape(text))
	}
	if rt.trailingSlash || len(rt.segments) == 0 {
		b.WriteByte('/')
	}

	built := b.String()

	// Leftover parameters become the query string.
	// The freezer strips queries again when resolving, so these only
	// matter for links rendered into page bodies.
	query := url.Values{}
	for k, v := range params {
		if _, ok := used[k]; !ok {
			query.Set(k, fmt.Sprint(v))
		}
	}
	if len(query) > 0 {
		built += "?" + query.Encode()
	}

	r.mu.Lock()
	base, relative, current := r.basePath, r.relative, r.currentPath
	r.mu.Unlock()

	// Observers always see the deployed form of the URL.
	r.notify(endpoint, params, base+built)

	if relative && current != "" {
		// The dispatch path has no base prefix, so relativize against
		// the unprefixed form.
		return relativeTo(built, current), nil
	}
	return base + built, nil
}

// notify reports a built URL to all observers in registration order.
func (r *Router) notify(endpoint string, params Params, built string) {
	r.mu.Lock()
	observers := make([]BuildObserver, len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	if len(observers) == 0 {
		return
	}
	// Copy params so observers can hold onto them safely.
	cp := make(Params, len(params))
	for k, v := range params {
		cp[k] = v
	}
	for _, fn := range observers {
		fn(endpoint, cp, built)
	}
}

// relativeTo rewrites an application-absolute URL as a path relative to
// the given request path. Trailing-slash URLs get index.html appended
// first, matching the filenames the freezer writes.
func relativeTo(built, requestPath string) string {
	if !strings.HasPrefix(built, "/") {
		return built
	}
	rest := ""
	pathPart := built
	if i := strings.IndexAny(built, "?#"); i >= 0 {
		pathPart, rest = built[:i], built[i:]
	}
	if strings.HasSuffix(pathPart, "/") {
		pathPart += "index.html"
	}

	base := requestPath
	if !strings.HasSuffix(base, "/") {
		base = path.Dir(base)
	}
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(pathPart))
	if err != nil {
		return built
	}
	return filepath.ToSlash(rel) + rest
}

// paramsKey is the context key under which matched path parameters are
// stored for handlers.
type paramsKey struct{}

// PathParam returns the named path parameter matched for this request,
// or the empty string if the pattern has no such placeholder.
func PathParam(req *http.Request, name string) string {
	params, _ := req.Context().Value(paramsKey{}).(Params)
	if params == nil {
		return ""
	}
	val, ok := params[name]
	if !ok {
		return ""
	}
	return fmt.Sprint(val)
}

// ServeHTTP dispatches the request to the first matching route.
// Matched placeholders are exposed to the handler via PathParam.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rt, params := r.match(req.URL.Path)
	if rt == nil {
		http.NotFound(w, req)
		return
	}
	if !rt.allows(req.Method) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.mu.Lock()
	previous := r.currentPath
	r.currentPath = req.URL.Path
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.currentPath = previous
		r.mu.Unlock()
	}()

	ctx := context.WithValue(req.Context(), paramsKey{}, params)
	rt.handler.ServeHTTP(w, req.WithContext(ctx))
}

// match finds the route for a decoded request path.
func (r *Router) match(reqPath string) (*route, Params) {
	trailing := reqPath == "/" || strings.HasSuffix(reqPath, "/")
	trimmed := strings.Trim(reqPath, "/")
	var parts []string
	if trimmed != "" {
		parts = strings.Split(trimmed, "/")
	}

	for _, rt := range r.routes {
		if params, ok := matchSegments(rt, parts, trailing); ok {
			return rt, params
		}
	}
	return nil, nil
}

// matchSegments matches decoded path parts against a route's segments.
func matchSegments(rt *route, parts []string, trailing bool) (Params, bool) {
	hasRest := len(rt.segments) > 0 && rt.segments[len(rt.segments)-1].rest
	if !hasRest && rt.trailingSlash != trailing {
		return nil, false
	}
	if hasRest {
		if len(parts) < len(rt.segments) {
			return nil, false
		}
	} else if len(parts) != len(rt.segments) {
		return nil, false
	}

	params := make(Params)
	for i, seg := range rt.segments {
		switch {
		case seg.rest:
			rest := strings.Join(parts[i:], "/")
			if trailing {
				rest += "/"
			}
			params[seg.param] = rest
			return params, true
		case seg.param != "":
			params[seg.param] = parts[i]
		default:
			if parts[i] != seg.literal {
				return nil, false
			}
		}
	}
	return params, true
}

// staticHandler serves files from a directory for Static routes.
type staticHandler struct {
	root string
}

// ServeHTTP writes the requested file verbatim. The filename comes from
// the route's {filename...} placeholder and is confined to the root.
func (h *staticHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	name := strings.Trim(PathParam(req, "filename"), "/")
	name = path.Clean(name)
	local := filepath.FromSlash(name)
	if name == "" || name == "." || !filepath.IsLocal(local) {
		http.NotFound(w, req)
		return
	}

	full := filepath.Join(h.root, local)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.NotFound(w, req)
		return
	}

	if ctype := mime.TypeByExtension(filepath.Ext(full)); ctype != "" {
		w.Header().Set("Content-Type", ctype)
	}
	f, err := os.Open(full)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer f.Close()
	http.ServeContent(w, req, info.Name(), info.ModTime(), f)
}
