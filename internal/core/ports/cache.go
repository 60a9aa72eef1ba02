package ports

import "context"

// Cache is the best-effort store in front of metrics aggregation.
// A miss or an error must never change a result, only its cost.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Clear drops every entry unconditionally.
	Clear(ctx context.Context) error
}
