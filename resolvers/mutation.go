package resolvers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oneiriq/cosmiq-graphql/core"
)

var (
	_ Creator      = (*Binding)(nil)
	_ Updater      = (*Binding)(nil)
	_ Replacer     = (*Binding)(nil)
	_ Upserter     = (*Binding)(nil)
	_ Deleter      = (*Binding)(nil)
	_ SoftDeleter  = (*Binding)(nil)
	_ Restorer     = (*Binding)(nil)
	_ BatchCreator = (*Binding)(nil)
	_ BatchUpdater = (*Binding)(nil)
	_ BatchDeleter = (*Binding)(nil)
	_ Incrementer  = (*Binding)(nil)
	_ Decrementer  = (*Binding)(nil)
)

// Create implements the create mutation (spec.md §4.7): a fresh id is
// generated since {T}Input never carries one.
func (b *Binding) Create(ctx context.Context, input map[string]interface{}) (MutationResult, error) {
	doc := core.NewDocument(input)
	doc["id"] = core.String(uuid.NewString())

	var result MutationResult
	err := b.do(ctx, func(ctx context.Context) error {
		created, etag, err := b.Container.CreateItem(ctx, doc)
		if err != nil {
			return err
		}
		result = MutationResult{Data: created, ETag: etag}
		return nil
	})
	return result, err
}

// Update implements the update mutation: merges patch onto the
// current document and writes it back with an ETag precondition when
// supplied (spec.md §4.7).
func (b *Binding) Update(ctx context.Context, id, partitionKey string, patch map[string]interface{}, etag string) (MutationResult, error) {
	if err := b.ValidatePartitionKeyFallback(partitionKey); err != nil {
		return MutationResult{}, err
	}
	pk := b.effectivePartitionKey(id, partitionKey)

	var result MutationResult
	err := b.do(ctx, func(ctx context.Context) error {
		current, currentEtag, err := b.Container.PointRead(ctx, id, pk)
		if err != nil {
			return err
		}
		if current == nil {
			return core.New("resolver.update", core.KindNotFound, "document not found").WithID(id)
		}

		merged := current.Clone()
		for k, v := range patch {
			merged[k] = core.ValueFromAny(v)
		}

		useEtag := etag
		if useEtag == "" {
			useEtag = currentEtag
		}
		updated, newEtag, err := b.Container.ReplaceItem(ctx, id, pk, merged, useEtag)
		if err != nil {
			return err
		}
		result = MutationResult{Data: updated, ETag: newEtag}
		return nil
	})
	return result, err
}

// Replace implements the replace mutation: full overwrite, no merge,
// but the same etag-fallback behavior as Update (spec.md §4.7 "as
// update but full replacement") — an omitted etag still pins the
// precondition to whatever is currently stored rather than replacing
// unconditionally.
func (b *Binding) Replace(ctx context.Context, id, partitionKey string, full map[string]interface{}, etag string) (MutationResult, error) {
	if err := b.ValidatePartitionKeyFallback(partitionKey); err != nil {
		return MutationResult{}, err
	}
	pk := b.effectivePartitionKey(id, partitionKey)

	doc := core.NewDocument(full)
	doc["id"] = core.String(id)

	var result MutationResult
	err := b.do(ctx, func(ctx context.Context) error {
		_, currentEtag, err := b.Container.PointRead(ctx, id, pk)
		if err != nil {
			return err
		}
		useEtag := etag
		if useEtag == "" {
			useEtag = currentEtag
		}
		updated, newEtag, err := b.Container.ReplaceItem(ctx, id, pk, doc, useEtag)
		if err != nil {
			return err
		}
		result = MutationResult{Data: updated, ETag: newEtag}
		return nil
	})
	return result, err
}

// Upsert implements the upsert mutation.
func (b *Binding) Upsert(ctx context.Context, id, partitionKey string, input map[string]interface{}) (MutationResult, error) {
	if err := b.ValidatePartitionKeyFallback(partitionKey); err != nil {
		return MutationResult{}, err
	}
	pk := b.effectivePartitionKey(id, partitionKey)

	doc := core.NewDocument(input)
	doc["id"] = core.String(id)

	var result MutationResult
	err := b.do(ctx, func(ctx context.Context) error {
		written, etag, wasCreated, err := b.Container.UpsertItem(ctx, id, pk, doc, "")
		if err != nil {
			return err
		}
		result = MutationResult{Data: written, ETag: etag, WasCreated: wasCreated}
		return nil
	})
	return result, err
}

// Delete implements the hard-delete mutation.
func (b *Binding) Delete(ctx context.Context, id, partitionKey, etag string) (DeleteResult, error) {
	if err := b.ValidatePartitionKeyFallback(partitionKey); err != nil {
		return DeleteResult{}, err
	}
	pk := b.effectivePartitionKey(id, partitionKey)

	err := b.do(ctx, func(ctx context.Context) error {
		return b.Container.DeleteItem(ctx, id, pk, etag)
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Success: true}, nil
}

const (
	softDeleteFlagField   = "_deleted"
	softDeleteAtField     = "_deletedAt"
	softDeleteReasonField = "_deleteReason"
	softDeleteByField     = "_deletedBy"
)

// SoftDelete patches the document with the soft-delete marker fields
// instead of removing it (spec.md §4.7). The field names are a
// documented convention the spec flags as agreed-upon but not
// contractually fixed elsewhere in the system.
func (b *Binding) SoftDelete(ctx context.Context, id, partitionKey, etag, reason, deletedBy string) (MutationResult, error) {
	patch := map[string]interface{}{
		softDeleteFlagField: true,
		softDeleteAtField:   time.Now().UTC().Format(time.RFC3339),
	}
	if reason != "" {
		patch[softDeleteReasonField] = reason
	}
	if deletedBy != "" {
		patch[softDeleteByField] = deletedBy
	}
	return b.Update(ctx, id, partitionKey, patch, etag)
}

// Restore clears the soft-delete marker fields.
func (b *Binding) Restore(ctx context.Context, id, partitionKey, etag string) (MutationResult, error) {
	patch := map[string]interface{}{
		softDeleteFlagField:   false,
		softDeleteAtField:     nil,
		softDeleteReasonField: nil,
		softDeleteByField:     nil,
	}
	return b.Update(ctx, id, partitionKey, patch, etag)
}

// CreateMany executes create sequentially over inputs, collecting a
// per-item outcome; a failure on one item does not abort the rest
// (spec.md §4.7).
func (b *Binding) CreateMany(ctx context.Context, inputs []map[string]interface{}) (BatchResult, error) {
	var batch BatchResult
	batch.Results = make([]ItemResult, len(inputs))
	for i, input := range inputs {
		_, err := b.Create(ctx, input)
		if err != nil {
			batch.FailureCount++
			batch.Results[i] = ItemResult{Success: false, Error: err.Error()}
			continue
		}
		batch.SuccessCount++
		batch.Results[i] = ItemResult{Success: true}
	}
	return batch, nil
}

// UpdateMany executes update sequentially. Each item must carry "id",
// "partitionKey", and "patch" keys; "etag" is optional.
func (b *Binding) UpdateMany(ctx context.Context, patches []map[string]interface{}) (BatchResult, error) {
	var batch BatchResult
	batch.Results = make([]ItemResult, len(patches))
	for i, item := range patches {
		id, _ := item["id"].(string)
		pk, _ := item["partitionKey"].(string)
		etag, _ := item["etag"].(string)
		patch, _ := item["patch"].(map[string]interface{})

		_, err := b.Update(ctx, id, pk, patch, etag)
		if err != nil {
			batch.FailureCount++
			batch.Results[i] = ItemResult{Success: false, Error: err.Error()}
			continue
		}
		batch.SuccessCount++
		batch.Results[i] = ItemResult{Success: true}
	}
	return batch, nil
}

// DeleteMany hard-deletes each id sequentially, using the id itself as
// the partition key fallback (spec.md §4.7's batch ops take bare id
// lists, so no explicit partitionKey is available per item).
func (b *Binding) DeleteMany(ctx context.Context, ids []string) (BatchResult, error) {
	var batch BatchResult
	batch.Results = make([]ItemResult, len(ids))
	for i, id := range ids {
		_, err := b.Delete(ctx, id, "", "")
		if err != nil {
			batch.FailureCount++
			batch.Results[i] = ItemResult{Success: false, Error: err.Error()}
			continue
		}
		batch.SuccessCount++
		batch.Results[i] = ItemResult{Success: true}
	}
	return batch, nil
}

// Increment and Decrement perform a read-modify-write numeric
// adjustment, retrying on precondition-failed up to the binding's
// configured max retries (spec.md §4.7). The RMW loop sits on top of
// the same b.do chokepoint every other mutation uses: each PointRead
// and ReplaceItem runs through the retry wrapper and circuit breaker
// on its own, so a rate-limited or transiently-unavailable call inside
// one RMW attempt still backs off and retries, while a
// KindPreconditionFailed (not retryable by b.do) surfaces immediately
// and drives the outer read-modify-write loop instead.
func (b *Binding) Increment(ctx context.Context, id, partitionKey, field string, by float64, etag string) (MutationResult, error) {
	return b.adjustField(ctx, id, partitionKey, field, by, etag)
}

func (b *Binding) Decrement(ctx context.Context, id, partitionKey, field string, by float64, etag string) (MutationResult, error) {
	return b.adjustField(ctx, id, partitionKey, field, -by, etag)
}

func (b *Binding) adjustField(ctx context.Context, id, partitionKey, field string, delta float64, etag string) (MutationResult, error) {
	if err := core.ValidateIdentifier("resolver.adjustField", field); err != nil {
		return MutationResult{}, err
	}
	if err := b.ValidatePartitionKeyFallback(partitionKey); err != nil {
		return MutationResult{}, err
	}
	pk := b.effectivePartitionKey(id, partitionKey)

	attempts := b.Retry.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		var current core.Document
		var currentEtag string
		err := b.do(ctx, func(ctx context.Context) error {
			var err error
			current, currentEtag, err = b.Container.PointRead(ctx, id, pk)
			return err
		})
		if err != nil {
			return MutationResult{}, err
		}
		if current == nil {
			return MutationResult{}, core.New("resolver.adjustField", core.KindNotFound, "document not found").WithID(id)
		}

		existing, _ := current[field].Number()
		merged := current.Clone()
		merged[field] = core.Number(existing + delta)

		useEtag := etag
		if useEtag == "" {
			useEtag = currentEtag
		}

		var updated core.Document
		var newEtag string
		err = b.do(ctx, func(ctx context.Context) error {
			var err error
			updated, newEtag, err = b.Container.ReplaceItem(ctx, id, pk, merged, useEtag)
			return err
		})
		if err == nil {
			return MutationResult{Data: updated, ETag: newEtag}, nil
		}
		if core.KindOf(err) != core.KindPreconditionFailed || etag != "" {
			return MutationResult{}, err
		}
		lastErr = err
	}
	return MutationResult{}, lastErr
}
