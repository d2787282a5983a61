package ports

import "context"

// ResponseCache is a short-TTL cache for computed read-path payloads. A nil
// or unavailable cache is a no-op, never an error.
type ResponseCache interface {
	// Get unmarshals the cached value into v and reports whether it was found.
	Get(ctx context.Context, key string, v any) bool
	Set(ctx context.Context, key string, v any)
}
