// Package sampling implements the four document-sampling strategies
// (top, random, partition, schema) that feed the type inferencer,
// grounded on the teacher framework's retry-wrapped, progress-reporting
// operation style.
package sampling

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oneiriq/cosmiq-graphql/core"
	"github.com/oneiriq/cosmiq-graphql/resilience"
)

// Option configures a Sampler.
type Option func(*Sampler)

// WithRand injects a deterministic random source for the random
// strategy's Fisher-Yates shuffle, per spec.md §9 "inject a seeded
// pseudo-random source" for tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Sampler) { s.rand = r }
}

// WithMaxRU caps the request units a sample pass may consume before it
// stops early with SampleBudgetExceeded (spec.md §4.4 "maxRU, default
// infinite").
func WithMaxRU(maxRU float64) Option {
	return func(s *Sampler) { s.maxRU = maxRU }
}

// WithMinSchemaVariants overrides the default of 3 documents retained
// per distinct schema signature under the schema strategy.
func WithMinSchemaVariants(n int) Option {
	return func(s *Sampler) { s.minSchemaVariants = n }
}

// WithLogger attaches a logger used for progress tracing.
func WithLogger(logger core.Logger) Option {
	return func(s *Sampler) { s.logger = logger }
}

// Sampler draws a representative document sample from a container using
// one of the four strategies (spec.md §4.4).
type Sampler struct {
	container         core.Container
	partitionKeyPath  string
	retry             core.RetryConfig
	rand              *rand.Rand
	maxRU             float64
	minSchemaVariants int
	logger            core.Logger
}

// New constructs a Sampler bound to container, validated and retried
// according to retry.
func New(container core.Container, partitionKeyPath string, retry core.RetryConfig, opts ...Option) *Sampler {
	s := &Sampler{
		container:         container,
		partitionKeyPath:  partitionKeyPath,
		retry:             retry,
		rand:              rand.New(rand.NewSource(time.Now().UnixNano())),
		minSchemaVariants: 3,
		logger:            core.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample draws up to cc.EffectiveSampleSize() documents using
// cc.EffectiveStrategy(), reporting progress through onProgress after
// each page (spec.md §4.4).
func (s *Sampler) Sample(ctx context.Context, cc core.ContainerConfig, onProgress core.ProgressFunc) (core.SampleResult, error) {
	n := cc.EffectiveSampleSize()
	if err := core.ValidateSampleSize("sampling.sample", n); err != nil {
		return core.SampleResult{}, err
	}
	if n > core.SampleSizeWarnThreshold {
		s.logger.Warn("sample size exceeds recommended threshold", map[string]interface{}{
			"container": s.container.Name(), "sampleSize": n,
		})
	}

	switch cc.EffectiveStrategy() {
	case core.StrategyTop:
		return s.sampleTop(ctx, n, onProgress)
	case core.StrategyRandom:
		return s.sampleRandom(ctx, n, onProgress)
	case core.StrategyPartition:
		return s.samplePartition(ctx, n, onProgress)
	case core.StrategySchema:
		return s.sampleSchema(ctx, n, onProgress)
	default:
		return core.SampleResult{}, core.New("sampling.sample", core.KindValidation,
			"unknown sampling strategy: "+string(cc.EffectiveStrategy()))
	}
}

func (s *Sampler) report(onProgress core.ProgressFunc, sampled, target int, ru float64) {
	if onProgress == nil {
		return
	}
	onProgress(sampled, target, ru)
}

func (s *Sampler) logProgress(sampled, target int, ru float64) {
	s.logger.Debug("sampling progress", map[string]interface{}{
		"container": s.container.Name(),
		"message":   fmt.Sprintf("sampled %s of %s documents, %s RUs", humanize.Comma(int64(sampled)), humanize.Comma(int64(target)), humanize.Comma(int64(ru))),
	})
}

// overBudget reports whether consuming ru would exceed the configured
// RU budget (maxRU == 0 means unbounded).
func (s *Sampler) overBudget(ru float64) bool {
	return s.maxRU > 0 && ru >= s.maxRU
}

func (s *Sampler) query(ctx context.Context, spec core.QuerySpec, options core.QueryOptions) (core.PageIterator, error) {
	var iter core.PageIterator
	err := resilience.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		iter, err = s.container.Query(ctx, spec, options)
		return err
	})
	return iter, err
}

// sampleTop issues SELECT TOP N * FROM c and drains pages until N is
// reached or the RU budget is exhausted.
func (s *Sampler) sampleTop(ctx context.Context, n int, onProgress core.ProgressFunc) (core.SampleResult, error) {
	spec := core.QuerySpec{SQL: fmt.Sprintf("SELECT TOP %d * FROM c", n)}
	iter, err := s.query(ctx, spec, core.QueryOptions{MaxItemCount: n})
	if err != nil {
		return core.SampleResult{}, core.Wrap("sampling.top", core.KindQueryFailed, err)
	}

	docs := make([]core.Document, 0, n)
	var ru float64
	status := core.SampleCompleted

	for len(docs) < n {
		page, more, err := iter.Next(ctx)
		if err != nil {
			return core.SampleResult{}, core.Wrap("sampling.top", core.KindQueryFailed, err)
		}
		if !more {
			break
		}
		ru += page.RequestCharge
		for _, d := range page.Resources {
			if len(docs) >= n {
				break
			}
			docs = append(docs, d)
		}
		s.report(onProgress, len(docs), n, ru)
		s.logProgress(len(docs), n, ru)
		if s.overBudget(ru) {
			status = core.SampleBudgetExceeded
			break
		}
	}

	return core.SampleResult{Documents: docs, RUs: ru, Status: status}, nil
}

// sampleRandom fetches 3N documents ordered by descending timestamp,
// performs an unbiased Fisher-Yates shuffle, then truncates to N.
func (s *Sampler) sampleRandom(ctx context.Context, n int, onProgress core.ProgressFunc) (core.SampleResult, error) {
	fetchN := n * 3
	spec := core.QuerySpec{SQL: fmt.Sprintf("SELECT TOP %d * FROM c ORDER BY c._ts DESC", fetchN)}
	iter, err := s.query(ctx, spec, core.QueryOptions{MaxItemCount: fetchN})
	if err != nil {
		return core.SampleResult{}, core.Wrap("sampling.random", core.KindQueryFailed, err)
	}

	var pool []core.Document
	var ru float64
	status := core.SampleCompleted

	for len(pool) < fetchN {
		page, more, err := iter.Next(ctx)
		if err != nil {
			return core.SampleResult{}, core.Wrap("sampling.random", core.KindQueryFailed, err)
		}
		if !more {
			break
		}
		ru += page.RequestCharge
		pool = append(pool, page.Resources...)
		s.report(onProgress, len(pool), fetchN, ru)
		if s.overBudget(ru) {
			status = core.SampleBudgetExceeded
			break
		}
	}

	fisherYatesShuffle(pool, s.rand)

	if len(pool) > n {
		pool = pool[:n]
	}
	s.report(onProgress, len(pool), n, ru)

	return core.SampleResult{Documents: pool, RUs: ru, Status: status}, nil
}

func fisherYatesShuffle(docs []core.Document, r *rand.Rand) {
	for i := len(docs) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		docs[i], docs[j] = docs[j], docs[i]
	}
}

// samplePartition discovers distinct partition-key values, divides N
// across them, and queries each partition in parallel.
func (s *Sampler) samplePartition(ctx context.Context, n int, onProgress core.ProgressFunc) (core.SampleResult, error) {
	partitions, discoverRU, err := s.discoverPartitions(ctx)
	if err != nil {
		return core.SampleResult{}, err
	}

	if len(partitions) == 0 {
		result, err := s.sampleTop(ctx, n, onProgress)
		result.RUs += discoverRU
		return result, err
	}

	per, remainder := n/len(partitions), n%len(partitions)

	type partitionResult struct {
		docs []core.Document
		ru   float64
	}
	results := make([]partitionResult, len(partitions))

	g, gctx := errGroupWithContext(ctx)
	for i, pk := range partitions {
		i, pk := i, pk
		k := per
		if i < remainder {
			k++
		}
		if k == 0 {
			continue
		}
		g.Go(func() error {
			docs, ru, err := s.samplePartitionValue(gctx, pk, k)
			if err != nil {
				return err
			}
			results[i] = partitionResult{docs: docs, ru: ru}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.SampleResult{}, core.Wrap("sampling.partition", core.KindQueryFailed, err)
	}

	docs := make([]core.Document, 0, n)
	ru := discoverRU
	for _, r := range results {
		docs = append(docs, r.docs...)
		ru += r.ru
	}
	if len(docs) > n {
		docs = docs[:n]
	}
	s.report(onProgress, len(docs), n, ru)
	s.logProgress(len(docs), n, ru)

	return core.SampleResult{Documents: docs, RUs: ru, Status: core.SampleCompleted, PartitionsCovered: len(partitions)}, nil
}

func (s *Sampler) discoverPartitions(ctx context.Context) ([]string, float64, error) {
	pkField := partitionFieldFromPath(s.partitionKeyPath)
	spec := core.QuerySpec{SQL: fmt.Sprintf("SELECT DISTINCT VALUE c.%s FROM c", pkField)}
	iter, err := s.query(ctx, spec, core.QueryOptions{})
	if err != nil {
		return nil, 0, core.Wrap("sampling.partition.discover", core.KindQueryFailed, err)
	}

	var ru float64
	seen := make(map[string]bool)
	var values []string
	for {
		page, more, err := iter.Next(ctx)
		if err != nil {
			return nil, ru, core.Wrap("sampling.partition.discover", core.KindQueryFailed, err)
		}
		if !more {
			break
		}
		ru += page.RequestCharge
		for _, d := range page.Resources {
			// SELECT DISTINCT VALUE yields a bare scalar per row; the
			// Container contract wraps it under the "value" key since
			// Query always returns Document-shaped resources.
			raw, ok := d["value"]
			if !ok {
				continue
			}
			v, _ := raw.Str()
			if v != "" && !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
	}
	sort.Strings(values)
	return values, ru, nil
}

func (s *Sampler) samplePartitionValue(ctx context.Context, pk string, k int) ([]core.Document, float64, error) {
	pkField := partitionFieldFromPath(s.partitionKeyPath)
	spec := core.QuerySpec{
		SQL:        fmt.Sprintf("SELECT TOP %d * FROM c WHERE c.%s = @pk", k, pkField),
		Parameters: []core.QueryParameter{core.Param("@pk", pk)},
	}
	iter, err := s.query(ctx, spec, core.QueryOptions{MaxItemCount: k})
	if err != nil {
		return nil, 0, err
	}

	var docs []core.Document
	var ru float64
	for len(docs) < k {
		page, more, err := iter.Next(ctx)
		if err != nil {
			return nil, ru, err
		}
		if !more {
			break
		}
		ru += page.RequestCharge
		for _, d := range page.Resources {
			if len(docs) >= k {
				break
			}
			docs = append(docs, d)
		}
	}
	return docs, ru, nil
}

func partitionFieldFromPath(path string) string {
	if len(path) > 0 && path[0] == '/' {
		return path[1:]
	}
	return path
}

// sampleSchema streams the container, bucketing documents by schema
// signature and retaining up to minSchemaVariants per signature.
func (s *Sampler) sampleSchema(ctx context.Context, n int, onProgress core.ProgressFunc) (core.SampleResult, error) {
	spec := core.QuerySpec{SQL: "SELECT * FROM c"}
	iter, err := s.query(ctx, spec, core.QueryOptions{})
	if err != nil {
		return core.SampleResult{}, core.Wrap("sampling.schema", core.KindQueryFailed, err)
	}

	perSignature := make(map[string]int)
	var docs []core.Document
	var ru float64
	status := core.SampleCompleted

	for len(docs) < n {
		page, more, err := iter.Next(ctx)
		if err != nil {
			return core.SampleResult{}, core.Wrap("sampling.schema", core.KindQueryFailed, err)
		}
		if !more {
			break
		}
		ru += page.RequestCharge

		for _, d := range page.Resources {
			if len(docs) >= n {
				break
			}
			sig := d.Signature()
			if perSignature[sig] >= s.minSchemaVariants {
				continue
			}
			perSignature[sig]++
			docs = append(docs, d)
		}

		s.report(onProgress, len(docs), n, ru)
		s.logProgress(len(docs), n, ru)
		if s.overBudget(ru) {
			status = core.SampleBudgetExceeded
			break
		}
	}

	return core.SampleResult{Documents: docs, RUs: ru, Status: status, SchemaVariants: len(perSignature)}, nil
}
