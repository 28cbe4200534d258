package sampling

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneiriq/cosmiq-graphql/core"
)

func seededContainer(t *testing.T, n int, fields func(i int) map[string]interface{}) *core.MemoryContainer {
	t.Helper()
	c := core.NewMemoryContainer("docs", "/partition")
	for i := 0; i < n; i++ {
		c.Seed(core.NewDocument(fields(i)))
	}
	return c
}

func TestSampleTop_RespectsSampleSize(t *testing.T) {
	c := seededContainer(t, 20, func(i int) map[string]interface{} {
		return map[string]interface{}{"id": "doc", "n": i}
	})
	s := New(c, "/partition", core.DefaultRetryConfig())

	result, err := s.Sample(context.Background(), core.ContainerConfig{SampleSize: 5, Strategy: core.StrategyTop}, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Documents), 5)
	assert.Equal(t, core.SampleCompleted, result.Status)
}

func TestSampleTop_RejectsInvalidSize(t *testing.T) {
	c := seededContainer(t, 1, func(i int) map[string]interface{} { return map[string]interface{}{"id": "d"} })
	s := New(c, "/partition", core.DefaultRetryConfig())

	_, err := s.Sample(context.Background(), core.ContainerConfig{SampleSize: -1, Strategy: core.StrategyTop}, nil)
	require.Error(t, err)
	assert.Equal(t, core.KindValidation, core.KindOf(err))
}

func TestSampleRandom_TruncatesToN(t *testing.T) {
	c := seededContainer(t, 30, func(i int) map[string]interface{} {
		return map[string]interface{}{"id": "doc", "n": i}
	})
	s := New(c, "/partition", core.DefaultRetryConfig(), WithRand(rand.New(rand.NewSource(1))))

	result, err := s.Sample(context.Background(), core.ContainerConfig{SampleSize: 5, Strategy: core.StrategyRandom}, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Documents), 5)
}

func TestSampleSchema_GroupsBySignature(t *testing.T) {
	c := core.NewMemoryContainer("docs", "/partition")
	for i := 0; i < 5; i++ {
		c.Seed(core.NewDocument(map[string]interface{}{"id": "a", "name": "x"}))
	}
	for i := 0; i < 5; i++ {
		c.Seed(core.NewDocument(map[string]interface{}{"id": "b", "title": "y", "count": 1}))
	}

	s := New(c, "/partition", core.DefaultRetryConfig(), WithMinSchemaVariants(2))
	result, err := s.Sample(context.Background(), core.ContainerConfig{SampleSize: 100, Strategy: core.StrategySchema}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SchemaVariants)
}

func TestSamplePartition_FallsBackToTopWhenNoPartitions(t *testing.T) {
	c := seededContainer(t, 10, func(i int) map[string]interface{} {
		return map[string]interface{}{"id": "doc"}
	})
	s := New(c, "/partition", core.DefaultRetryConfig())

	result, err := s.Sample(context.Background(), core.ContainerConfig{SampleSize: 3, Strategy: core.StrategyPartition}, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Documents), 3)
}

func TestSample_UnknownStrategy(t *testing.T) {
	c := seededContainer(t, 1, func(i int) map[string]interface{} { return map[string]interface{}{"id": "d"} })
	s := New(c, "/partition", core.DefaultRetryConfig())

	_, err := s.Sample(context.Background(), core.ContainerConfig{SampleSize: 1, Strategy: "bogus"}, nil)
	require.Error(t, err)
	assert.Equal(t, core.KindValidation, core.KindOf(err))
}

func TestSample_ProgressCallback(t *testing.T) {
	c := seededContainer(t, 10, func(i int) map[string]interface{} { return map[string]interface{}{"id": "d"} })
	s := New(c, "/partition", core.DefaultRetryConfig())

	var calls int
	_, err := s.Sample(context.Background(), core.ContainerConfig{SampleSize: 5, Strategy: core.StrategyTop},
		func(sampled, target int, ru float64) { calls++ })
	require.NoError(t, err)
	assert.Greater(t, calls, 0)
}
