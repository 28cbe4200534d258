package core

import (
	"context"
	"sync"
)

// MemoryClient is an in-process Client backed by MemoryContainer,
// letting callers exercise BuildSchema and the resolver engine without a
// real document database driver (spec.md §8 "reference implementation").
type MemoryClient struct {
	mu         sync.Mutex
	containers map[string]*MemoryContainer
}

// NewMemoryClient constructs a MemoryClient, registering each container
// under its own Name().
func NewMemoryClient(containers ...*MemoryContainer) *MemoryClient {
	c := &MemoryClient{containers: make(map[string]*MemoryContainer)}
	for _, container := range containers {
		c.containers[container.Name()] = container
	}
	return c
}

// Register adds or replaces a named container after construction.
func (c *MemoryClient) Register(container *MemoryContainer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.containers[container.Name()] = container
}

func (c *MemoryClient) Container(ctx context.Context, name string) (Container, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	container, ok := c.containers[name]
	if !ok {
		return nil, New("memory.client.container", KindNotFound, "container not registered").WithID(name)
	}
	return container, nil
}

func (c *MemoryClient) Close() error { return nil }

// NewMemoryClientFactory adapts a fixed set of containers into a
// ClientFactory, for wiring Config.NewClient in tests and examples
// without a real driver.
func NewMemoryClientFactory(containers ...*MemoryContainer) ClientFactory {
	client := NewMemoryClient(containers...)
	return func(ctx context.Context, cfg ConnectionConfig) (Client, error) {
		return client, nil
	}
}
