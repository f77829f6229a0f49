package rowguard

import "context"

// Cache provides caching for authorization check results, keyed by actor,
// operation, resource type, and row identity.
type Cache interface {
	// Get returns a cached check result, if available.
	Get(ctx context.Context, req *CheckRequest) (*CheckResult, bool)

	// Set stores a check result in the cache.
	Set(ctx context.Context, req *CheckRequest, result *CheckResult)

	// InvalidateResource removes all cached results for a resource type.
	// The gateway calls this after every successful write.
	InvalidateResource(ctx context.Context, resource string)

	// InvalidateActor removes all cached results for a specific actor.
	InvalidateActor(ctx context.Context, actor Actor)
}

// cacheable reports whether a request's decision may be cached. A request
// with a row but no row identity has nothing stable to key on: two
// different id-less rows would collide on the same cache entry.
func cacheable(req *CheckRequest) bool {
	return req.Row == nil || req.RowID() != ""
}
