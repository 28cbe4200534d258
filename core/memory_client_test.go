package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_ContainerLookup(t *testing.T) {
	widgets := NewMemoryContainer("widgets", "/id")
	client := NewMemoryClient(widgets)

	got, err := client.Container(context.Background(), "widgets")
	require.NoError(t, err)
	assert.Same(t, widgets, got)
}

func TestMemoryClient_UnregisteredContainerIsNotFound(t *testing.T) {
	client := NewMemoryClient()
	_, err := client.Container(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestNewMemoryClientFactory_BuildsUsableClient(t *testing.T) {
	factory := NewMemoryClientFactory(NewMemoryContainer("widgets", "/id"))
	client, err := factory(context.Background(), ConnectionConfig{})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Container(context.Background(), "widgets")
	require.NoError(t, err)
}
