package repositories

import "context"

// ReportCache stores computed reports. Keys embed a per-tenant generation
// that writers bump after every commit, so entries computed before a post are
// never served after it.
type ReportCache interface {
	Generation(ctx context.Context, tenantID string) (int64, error)
	Invalidate(ctx context.Context, tenantID string) error

	// Get decodes a cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}
