package freezer

import (
	"time"

	"github.com/webfreeze/webfreeze/router"
)

// seedKind tags the Seed variants. The zero value is invalid on
// purpose: a Seed must come from one of the package constructors, which
// lets the registry reject malformed generator output up front instead
// of guessing shapes at consumption time.
type seedKind int

const (
	seedInvalid seedKind = iota

	// seedURL is a literal URL path, no endpoint involved.
	seedURL

	// seedEndpoint is an (endpoint, params) pair built via the router.
	seedEndpoint

	// seedValues is a bare parameter set; the endpoint defaults to the
	// name the generator was registered under.
	seedValues
)

// Seed is one unit of crawl work produced by a URL generator, the
// endpoint enumerator, or the link-capture hook. Construct seeds with
// URL, Endpoint, EndpointAt, or Values; the zero value is rejected.
type Seed struct {
	kind     seedKind
	rawURL   string
	endpoint string
	params   router.Params

	// notBefore is a freshness hint: an existing output file with a
	// modification time older than this is rebuilt even when the
	// skip-existing policy would keep it.
	notBefore time.Time
}

// URL creates a Seed from a literal URL. The URL must be
// application-internal: a path like "/feed.xml", optionally prefixed
// with the configured base URL's scheme and host.
func URL(raw string) Seed {
	return Seed{kind: seedURL, rawURL: raw}
}

// Endpoint creates a Seed that builds its URL from an endpoint name and
// parameters, like the application itself would.
func Endpoint(name string, params router.Params) Seed {
	return Seed{kind: seedEndpoint, endpoint: name, params: params}
}

// EndpointAt is Endpoint with a freshness hint attached. If the output
// file already exists but was last written before notBefore, it is
// rebuilt regardless of the skip-existing policy.
func EndpointAt(name string, params router.Params, notBefore time.Time) Seed {
	return Seed{kind: seedEndpoint, endpoint: name, params: params, notBefore: notBefore}
}

// Values creates a Seed carrying only parameters. The endpoint defaults
// to the name the generator was registered under, mirroring the common
// convention of naming a generator after the route it feeds.
func Values(params router.Params) Seed {
	return Seed{kind: seedValues, params: params}
}

// Generator produces seeds for a freeze. Each registered generator is
// invoked exactly once per freeze, during the seeding phase. Returning
// an error aborts the freeze.
type Generator func() ([]Seed, error)

// generatorEntry is a registered generator with the name used both for
// diagnostics and as the default endpoint of Values seeds.
type generatorEntry struct {
	name string
	fn   Generator
}
