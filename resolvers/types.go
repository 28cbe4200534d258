// Package resolvers implements the CRUD and query resolver engine
// (spec.md §4.7) bound to one container. Each operation is a method on
// Binding, satisfying a narrow one-method capability interface rather
// than a closure captured in a map (spec.md §9 "closures for
// resolvers").
package resolvers

import (
	"context"

	"github.com/oneiriq/cosmiq-graphql/core"
)

// ListArgs are the arguments to the list query resolver (spec.md
// §4.7).
type ListArgs struct {
	Limit             int
	PartitionKey      string
	ContinuationToken string
	OrderBy           string
	OrderDirection    string
	Where             map[string]map[string]string
}

// MutationResult is the shared shape returned by create/update/
// replace/upsert/soft-delete/restore (spec.md §4.6 payload types).
type MutationResult struct {
	Data          core.Document
	ETag          string
	RequestCharge float64
	WasCreated    bool
}

// DeleteResult is returned by the hard-delete resolver.
type DeleteResult struct {
	Success       bool
	RequestCharge float64
}

// ItemResult is one element's outcome within a batch mutation.
type ItemResult struct {
	Success bool
	Error   string
}

// BatchResult summarizes a createMany/updateMany/deleteMany call
// (spec.md §4.7 "partial failure does not abort").
type BatchResult struct {
	SuccessCount int
	FailureCount int
	Results      []ItemResult
}

// PointReader is the point-query capability.
type PointReader interface {
	Point(ctx context.Context, id, partitionKey, ifNoneMatch string) (core.ReadResult, error)
}

// Lister is the list-query capability.
type Lister interface {
	List(ctx context.Context, args ListArgs) (core.Connection, error)
}

// Creator inserts a new document.
type Creator interface {
	Create(ctx context.Context, input map[string]interface{}) (MutationResult, error)
}

// Updater applies a partial patch to an existing document.
type Updater interface {
	Update(ctx context.Context, id, partitionKey string, patch map[string]interface{}, etag string) (MutationResult, error)
}

// Replacer fully overwrites an existing document.
type Replacer interface {
	Replace(ctx context.Context, id, partitionKey string, full map[string]interface{}, etag string) (MutationResult, error)
}

// Upserter creates or updates a document, reporting which occurred.
type Upserter interface {
	Upsert(ctx context.Context, id, partitionKey string, input map[string]interface{}) (MutationResult, error)
}

// Deleter hard-deletes a document.
type Deleter interface {
	Delete(ctx context.Context, id, partitionKey, etag string) (DeleteResult, error)
}

// SoftDeleter marks a document deleted without removing it.
type SoftDeleter interface {
	SoftDelete(ctx context.Context, id, partitionKey, etag, reason, deletedBy string) (MutationResult, error)
}

// Restorer clears a document's soft-delete flags.
type Restorer interface {
	Restore(ctx context.Context, id, partitionKey, etag string) (MutationResult, error)
}

// BatchCreator, BatchUpdater, BatchDeleter execute the *Many
// mutations: sequentially, collecting a per-item outcome.
type BatchCreator interface {
	CreateMany(ctx context.Context, inputs []map[string]interface{}) (BatchResult, error)
}

type BatchUpdater interface {
	UpdateMany(ctx context.Context, patches []map[string]interface{}) (BatchResult, error)
}

type BatchDeleter interface {
	DeleteMany(ctx context.Context, ids []string) (BatchResult, error)
}

// Incrementer and Decrementer perform an atomic numeric field
// adjustment via read-modify-write under ETag precondition.
type Incrementer interface {
	Increment(ctx context.Context, id, partitionKey, field string, by float64, etag string) (MutationResult, error)
}

type Decrementer interface {
	Decrement(ctx context.Context, id, partitionKey, field string, by float64, etag string) (MutationResult, error)
}
