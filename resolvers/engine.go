package resolvers

import (
	"context"

	"github.com/oneiriq/cosmiq-graphql/core"
	"github.com/oneiriq/cosmiq-graphql/resilience"
)

// Binding is the resolver engine's per-container capability set,
// implementing every operation interface in types.go. It is
// constructed once by the orchestrator (spec.md §4.8) and bound into
// the executable schema's field resolvers.
type Binding struct {
	Container        core.Container
	PartitionKeyPath string
	Retry            core.RetryConfig
	Breaker          core.CircuitBreaker
	Logger           core.Logger

	// RequirePartitionKey rejects list queries that omit an explicit
	// partitionKey when the container demands one (set from
	// ContainerConfig.RequirePartitionKeyOnQueries).
	RequirePartitionKey bool
}

// NewBinding constructs a resolver Binding. breaker may be nil, in
// which case every call runs unguarded.
func NewBinding(container core.Container, partitionKeyPath string, retry core.RetryConfig, breaker core.CircuitBreaker, logger core.Logger, requirePartitionKey bool) *Binding {
	if logger == nil {
		logger = core.NoOpLogger{}
	}
	return &Binding{
		Container:           container,
		PartitionKeyPath:    partitionKeyPath,
		Retry:               retry,
		Breaker:             breaker,
		Logger:              logger,
		RequirePartitionKey: requirePartitionKey,
	}
}

// do runs fn through the retry wrapper and, when configured, gates it
// behind the circuit breaker — every resolver operation goes through
// this single chokepoint (spec.md §4.7 "all resolvers run inside the
// retry wrapper").
func (b *Binding) do(ctx context.Context, fn func(context.Context) error) error {
	if b.Breaker == nil {
		return resilience.Do(ctx, b.Retry, fn)
	}
	if !b.Breaker.CanExecute() {
		return core.New("resolver.execute", core.KindServiceUnavailable, "circuit breaker open")
	}
	err := resilience.Do(ctx, b.Retry, fn)
	if err != nil && core.IsRetryable(err) {
		b.Breaker.RecordFailure()
	} else {
		b.Breaker.RecordSuccess()
	}
	return err
}

// effectivePartitionKey resolves the documented point-read fallback:
// the caller-supplied value, or the id itself when absent (spec.md
// §4.7 "point resolver"). This only matches reality when the
// container's partition key path is "/id"; callers depending on the
// fallback with any other partition-key path will see mismatched
// reads, which is the open question spec.md leaves unresolved —
// Validate surfaces a clear error instead of guessing further.
func (b *Binding) effectivePartitionKey(id, partitionKey string) string {
	if partitionKey != "" {
		return partitionKey
	}
	return id
}

// ValidatePartitionKeyFallback reports an error when a caller omits
// partitionKey and the container's partition key is not "/id" — the
// implicit id-as-partition-key fallback would silently read the wrong
// partition otherwise.
func (b *Binding) ValidatePartitionKeyFallback(partitionKey string) error {
	if partitionKey != "" {
		return nil
	}
	if b.PartitionKeyPath == "/id" || b.PartitionKeyPath == "" {
		return nil
	}
	return core.New("resolver.partitionKey", core.KindValidation,
		"partitionKey is required: container's partition key path is not /id, so id cannot stand in for it")
}

var _ PointReader = (*Binding)(nil)
var _ Lister = (*Binding)(nil)

// Point implements the point-query resolver (spec.md §4.7).
func (b *Binding) Point(ctx context.Context, id, partitionKey, ifNoneMatch string) (core.ReadResult, error) {
	if id == "" {
		return core.ReadResult{}, core.New("resolver.point", core.KindValidation, "id is required")
	}
	if err := b.ValidatePartitionKeyFallback(partitionKey); err != nil {
		return core.ReadResult{}, err
	}
	pk := b.effectivePartitionKey(id, partitionKey)

	var result core.ReadResult
	err := b.do(ctx, func(ctx context.Context) error {
		doc, etag, err := b.Container.PointRead(ctx, id, pk)
		if err != nil {
			return err
		}
		result = core.ReadResult{Data: doc, ETag: etag}
		return nil
	})
	if err != nil {
		return core.ReadResult{}, err
	}

	if result.Data == nil {
		return core.ReadResult{}, nil
	}
	if ifNoneMatch != "" && ifNoneMatch == result.ETag {
		return core.ReadResult{}, core.New("resolver.point", core.KindPreconditionFailed, "document unchanged")
	}
	return result, nil
}

// List implements the list-query resolver (spec.md §4.7): constructs
// a parameterized SQL spec from args and issues a single page.
func (b *Binding) List(ctx context.Context, args ListArgs) (core.Connection, error) {
	if b.RequirePartitionKey && args.PartitionKey == "" {
		return core.Connection{}, core.New("resolver.list", core.KindValidation, "partitionKey is required by this container's configuration")
	}
	if args.Limit <= 0 {
		args.Limit = 100
	}

	spec, err := buildListQuery(b.PartitionKeyPath, args)
	if err != nil {
		return core.Connection{}, err
	}

	var page core.Page
	err = b.do(ctx, func(ctx context.Context) error {
		it, err := b.Container.Query(ctx, spec, core.QueryOptions{
			MaxItemCount:      args.Limit,
			ContinuationToken: args.ContinuationToken,
		})
		if err != nil {
			return err
		}
		p, _, err := it.Next(ctx)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return core.Connection{}, err
	}

	return core.NewConnection(page.Resources, page.ContinuationToken), nil
}
