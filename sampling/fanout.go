package sampling

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// errGroupWithContext is a thin indirection over errgroup.WithContext so
// the per-partition fan-out in samplePartition reads like the rest of
// the package. The first failing goroutine cancels gctx, which every
// in-flight Container call and retry sleep observes (spec.md §5, §9
// "task group bounded by container count").
func errGroupWithContext(ctx context.Context) (*errgroup.Group, context.Context) {
	return errgroup.WithContext(ctx)
}
