package core

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryContainer is an in-process, reference implementation of Container
// backed by a mutex-protected map. It exists so the resolver engine and
// the end-to-end test suite can exercise every operation without a real
// document database (spec.md §8 "reference implementation").
type MemoryContainer struct {
	mu                sync.RWMutex
	name              string
	partitionKeyPaths []string
	docs              map[string]Document // keyed by id
	logger            Logger
}

// NewMemoryContainer constructs an empty MemoryContainer. partitionKeyPath
// is reported back through ReadMetadata, e.g. "/tenantId".
func NewMemoryContainer(name, partitionKeyPath string) *MemoryContainer {
	return &MemoryContainer{
		name:              name,
		partitionKeyPaths: []string{partitionKeyPath},
		docs:              make(map[string]Document),
		logger:            NoOpLogger{},
	}
}

// SetLogger configures the logger used for debug tracing.
func (m *MemoryContainer) SetLogger(logger Logger) {
	if logger == nil {
		m.logger = NoOpLogger{}
		return
	}
	if cal, ok := logger.(ComponentAwareLogger); ok {
		m.logger = cal.WithComponent("core/memory_container")
		return
	}
	m.logger = logger
}

// Seed inserts documents directly, bypassing etag bookkeeping. Intended
// for test fixtures.
func (m *MemoryContainer) Seed(docs ...Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		d = d.Clone()
		if d.ID() == "" {
			d["id"] = String(uuid.NewString())
		}
		if _, ok := d["_etag"]; !ok {
			d["_etag"] = String(newETag())
		}
		m.docs[d.ID()] = d
	}
}

func newETag() string {
	return uuid.NewString()
}

func (m *MemoryContainer) Name() string { return m.name }

func (m *MemoryContainer) ReadMetadata(ctx context.Context) (ContainerMetadata, error) {
	return ContainerMetadata{PartitionKeyPaths: m.partitionKeyPaths}, nil
}

func (m *MemoryContainer) PointRead(ctx context.Context, id, partitionKey string) (Document, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.logger.Debug("point read", map[string]interface{}{"container": m.name, "id": id})

	doc, ok := m.docs[id]
	if !ok {
		return nil, "", nil
	}
	etag, _ := doc["_etag"].Str()
	return doc.Clone(), etag, nil
}

func (m *MemoryContainer) CreateItem(ctx context.Context, doc Document) (Document, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc = doc.Clone()
	if doc.ID() == "" {
		doc["id"] = String(uuid.NewString())
	}
	if _, exists := m.docs[doc.ID()]; exists {
		return nil, "", New("memory.create", KindConflict, "document already exists").WithID(doc.ID())
	}
	etag := newETag()
	doc["_etag"] = String(etag)
	m.docs[doc.ID()] = doc
	return doc.Clone(), etag, nil
}

func (m *MemoryContainer) ReplaceItem(ctx context.Context, id, partitionKey string, doc Document, etag string) (Document, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.docs[id]
	if !ok {
		return nil, "", New("memory.replace", KindNotFound, "document not found").WithID(id)
	}
	if etag != "" {
		existingETag, _ := existing["_etag"].Str()
		if existingETag != etag {
			return nil, "", New("memory.replace", KindPreconditionFailed, "etag mismatch").WithID(id)
		}
	}

	doc = doc.Clone()
	doc["id"] = String(id)
	newTag := newETag()
	doc["_etag"] = String(newTag)
	m.docs[id] = doc
	return doc.Clone(), newTag, nil
}

func (m *MemoryContainer) UpsertItem(ctx context.Context, id, partitionKey string, doc Document, etag string) (Document, string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.docs[id]
	if exists && etag != "" {
		existingETag, _ := existing["_etag"].Str()
		if existingETag != etag {
			return nil, "", false, New("memory.upsert", KindPreconditionFailed, "etag mismatch").WithID(id)
		}
	}

	doc = doc.Clone()
	doc["id"] = String(id)
	newTag := newETag()
	doc["_etag"] = String(newTag)
	m.docs[id] = doc
	return doc.Clone(), newTag, !exists, nil
}

func (m *MemoryContainer) DeleteItem(ctx context.Context, id, partitionKey string, etag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.docs[id]
	if !ok {
		return New("memory.delete", KindNotFound, "document not found").WithID(id)
	}
	if etag != "" {
		existingETag, _ := existing["_etag"].Str()
		if existingETag != etag {
			return New("memory.delete", KindPreconditionFailed, "etag mismatch").WithID(id)
		}
	}
	delete(m.docs, id)
	return nil
}

// memoryPageIterator hands back the entire result set as a single page.
// The in-memory container has no server-side page size; continuation is
// only ever driven by options.MaxItemCount.
type memoryPageIterator struct {
	page Page
	done bool
}

func (it *memoryPageIterator) Next(ctx context.Context) (Page, bool, error) {
	if it.done {
		return Page{}, false, nil
	}
	it.done = true
	return it.page, true, nil
}

// Query interprets spec.SQL through evaluateQuery (memory_query.go),
// the narrow set of shapes the sampler and resolver engine actually
// generate, then paginates the result deterministically by document
// id for WHERE-less queries, or in the filtered/ordered order
// evaluateQuery already produced (spec.md §8 "reference
// implementation").
func (m *MemoryContainer) Query(ctx context.Context, spec QuerySpec, options QueryOptions) (PageIterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := evaluateQuery(m.docs, spec)

	start := 0
	if options.ContinuationToken != "" {
		for i, d := range matched {
			if d.ID() == options.ContinuationToken {
				start = i + 1
				break
			}
		}
	}

	limit := options.MaxItemCount
	if limit <= 0 {
		limit = len(matched)
	}

	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	resources := make([]Document, 0, end-start)
	resources = append(resources, matched[start:end]...)

	token := ""
	if end < len(matched) && end > 0 {
		token = matched[end-1].ID()
	}

	return &memoryPageIterator{page: Page{Resources: resources, ContinuationToken: token}}, nil
}
