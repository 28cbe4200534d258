package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryContainer_PointRead_Miss(t *testing.T) {
	c := NewMemoryContainer("orders", "/tenantId")
	doc, etag, err := c.PointRead(context.Background(), "missing", "t1")
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Empty(t, etag)
}

func TestMemoryContainer_CreateThenPointRead(t *testing.T) {
	c := NewMemoryContainer("orders", "/tenantId")
	ctx := context.Background()

	created, etag, err := c.CreateItem(ctx, NewDocument(map[string]interface{}{
		"id": "order-1", "tenantId": "t1", "total": 42.5,
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, etag)
	assert.Equal(t, "order-1", created.ID())

	got, gotETag, err := c.PointRead(ctx, "order-1", "t1")
	require.NoError(t, err)
	assert.Equal(t, etag, gotETag)
	total, _ := got["total"].Number()
	assert.Equal(t, 42.5, total)
}

func TestMemoryContainer_CreateDuplicateConflicts(t *testing.T) {
	c := NewMemoryContainer("orders", "/tenantId")
	ctx := context.Background()
	doc := NewDocument(map[string]interface{}{"id": "dup", "tenantId": "t1"})

	_, _, err := c.CreateItem(ctx, doc)
	require.NoError(t, err)

	_, _, err = c.CreateItem(ctx, doc)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestMemoryContainer_ReplaceHonorsETag(t *testing.T) {
	c := NewMemoryContainer("orders", "/tenantId")
	ctx := context.Background()

	created, etag, err := c.CreateItem(ctx, NewDocument(map[string]interface{}{
		"id": "order-1", "tenantId": "t1",
	}))
	require.NoError(t, err)

	_, _, err = c.ReplaceItem(ctx, created.ID(), "t1", created, "stale-etag")
	require.Error(t, err)
	assert.Equal(t, KindPreconditionFailed, KindOf(err))

	_, newETag, err := c.ReplaceItem(ctx, created.ID(), "t1", created, etag)
	require.NoError(t, err)
	assert.NotEqual(t, etag, newETag)
}

func TestMemoryContainer_UpsertCreatesThenUpdates(t *testing.T) {
	c := NewMemoryContainer("orders", "/tenantId")
	ctx := context.Background()

	doc, etag, created, err := c.UpsertItem(ctx, "order-1", "t1",
		NewDocument(map[string]interface{}{"id": "order-1", "tenantId": "t1", "total": 1.0}), "")
	require.NoError(t, err)
	assert.True(t, created)

	doc["total"] = Number(2.0)
	_, _, created, err = c.UpsertItem(ctx, "order-1", "t1", doc, etag)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestMemoryContainer_DeleteNotFound(t *testing.T) {
	c := NewMemoryContainer("orders", "/tenantId")
	err := c.DeleteItem(context.Background(), "ghost", "t1", "")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestMemoryContainer_QueryPagination(t *testing.T) {
	c := NewMemoryContainer("orders", "/tenantId")
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		c.Seed(NewDocument(map[string]interface{}{"id": "order-" + string(rune('a'+i))}))
	}

	iter, err := c.Query(ctx, QuerySpec{SQL: "SELECT * FROM c"}, QueryOptions{MaxItemCount: 2})
	require.NoError(t, err)

	page, more, err := iter.Next(ctx)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Len(t, page.Resources, 2)
	assert.NotEmpty(t, page.ContinuationToken)
}

func TestMemoryContainer_ReadMetadata(t *testing.T) {
	c := NewMemoryContainer("orders", "/tenantId")
	meta, err := c.ReadMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/tenantId"}, meta.PartitionKeyPaths)
}
