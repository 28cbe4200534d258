package cosmiqgraphql

import (
	"context"
	"sync"

	"github.com/graphql-go/graphql"
	"golang.org/x/sync/errgroup"

	"github.com/oneiriq/cosmiq-graphql/core"
	"github.com/oneiriq/cosmiq-graphql/inference"
	"github.com/oneiriq/cosmiq-graphql/resolvers"
	"github.com/oneiriq/cosmiq-graphql/sampling"
	"github.com/oneiriq/cosmiq-graphql/schema"
)

// Artifacts is what BuildSchema hands back: the generated SDL text, the
// executable graphql.Schema wired to live resolvers, and the shared
// client those resolvers depend on (spec.md §4.8 step 5). Dispose
// releases the client; it is the only sanctioned release path and is
// safe to call more than once (spec.md §5).
type Artifacts struct {
	SDL        string
	Schema     graphql.Schema
	Containers map[string]*resolvers.Binding

	client  core.Client
	once sync.Once
}

// Dispose releases the underlying client connection. Callers must not
// invoke resolvers on a disposed Artifacts.
func (a *Artifacts) Dispose() error {
	var err error
	a.once.Do(func() {
		if a.client != nil {
			err = a.client.Close()
		}
	})
	return err
}

// BuildSchema runs the full pipeline (spec.md §4.8): validate
// configuration, dial the shared client, then per container in
// parallel resolve its partition key, sample its documents, infer its
// type lattice, and bind it into the resolver engine; finally compose
// SDL and assemble the unified executable schema.
func BuildSchema(ctx context.Context, cfg core.Config) (*Artifacts, error) {
	if err := core.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = core.NoOpLogger{}
	}
	pkCache := cfg.PartitionKeyCache
	if pkCache == nil {
		pkCache = core.NewPartitionKeyCache()
	}

	connCfg := core.ConnectionConfig{
		ConnectionString:   cfg.ConnectionString,
		Endpoint:           cfg.Endpoint,
		Credential:         cfg.Credential,
		InsecureSkipVerify: core.IsLoopback(cfg.Endpoint),
	}
	client, err := cfg.NewClient(ctx, connCfg)
	if err != nil {
		return nil, core.Wrap("build.newClient", core.KindServiceUnavailable, err)
	}

	bindings := make([]schema.Binding, len(cfg.Containers))
	resolverBindings := make([]*resolvers.Binding, len(cfg.Containers))

	g, gctx := errgroup.WithContext(ctx)
	for i, cc := range cfg.Containers {
		i, cc := i, cc
		g.Go(func() error {
			container, err := client.Container(gctx, cc.Name)
			if err != nil {
				return core.Wrap("build.container", core.KindServiceUnavailable, err).WithID(cc.Name)
			}

			partitionKeyPath, err := resolvePartitionKeyPath(gctx, container, cc.Name, pkCache)
			if err != nil {
				return err
			}

			emitProgress(cfg.OnProgress, core.StageSamplingStarted, cc.Name, 0, "")

			retry := cfg.EffectiveRetry()
			sampler := sampling.New(container, partitionKeyPath, retry, sampling.WithLogger(logger))
			sampleResult, err := sampler.Sample(gctx, cc, func(sampled, target int, ru float64) {
				emitProgress(cfg.OnProgress, core.StageSamplingProgress, cc.Name, float64(sampled)/float64(max1(target)), "")
			})
			if err != nil {
				return core.Wrap("build.sample", core.KindQueryFailed, err).WithID(cc.Name)
			}
			emitProgress(cfg.OnProgress, core.StageSamplingComplete, cc.Name, 1, string(sampleResult.Status))

			emitProgress(cfg.OnProgress, core.StageInferenceStarted, cc.Name, 0, "")
			typeSystem := cfg.EffectiveTypeSystem(cc)
			typeName := schema.TypeName(cc.Name, cc.TypeName)
			inferred, err := inference.Infer(sampleResult.Documents, typeName, typeSystem)
			if err != nil {
				return core.Wrap("build.infer", core.KindQueryFailed, err).WithID(cc.Name)
			}
			emitProgress(cfg.OnProgress, core.StageInferenceComplete, cc.Name, 1, "")

			bindings[i] = schema.NewBinding(cc, partitionKeyPath, inferred)
			resolverBindings[i] = resolvers.NewBinding(container, partitionKeyPath, retry, cfg.CircuitBreaker, logger, cc.RequirePartitionKeyOnQueries)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		client.Close()
		return nil, err
	}

	emitProgress(cfg.OnProgress, core.StageSDLGenerationStarted, "", 0, "")
	sdl := schema.BuildSDL(bindings)
	emitProgress(cfg.OnProgress, core.StageSDLGenerationComplete, "", 1, "")

	compiled := make([]*compiledBinding, len(bindings))
	containerHandles := make(map[string]*resolvers.Binding, len(bindings))
	for i, b := range bindings {
		compiled[i] = compileBinding(b, resolverBindings[i])
		containerHandles[b.ContainerName] = resolverBindings[i]
	}

	queryType := buildQueryType(compiled)
	mutationType := buildMutationType(compiled)

	schemaConfig := graphql.SchemaConfig{Query: queryType}
	if mutationType != nil {
		schemaConfig.Mutation = mutationType
	}
	executable, err := graphql.NewSchema(schemaConfig)
	if err != nil {
		client.Close()
		return nil, core.Wrap("build.schema", core.KindQueryFailed, err)
	}

	return &Artifacts{
		SDL:        sdl,
		Schema:     executable,
		Containers: containerHandles,
		client:     client,
	}, nil
}

// resolvePartitionKeyPath consults the partition-key cache first, then
// falls back to the container's own metadata, caching whatever it
// finds. A metadata miss falls back to "/partition" (spec.md §5):
// sampling and resolver binding both need a path even when the
// underlying driver cannot report one.
func resolvePartitionKeyPath(ctx context.Context, container core.Container, name string, cache core.PartitionKeyCache) (string, error) {
	if path, ok := cache.Get(ctx, name); ok {
		return path, nil
	}

	meta, err := container.ReadMetadata(ctx)
	if err != nil {
		return "", core.Wrap("build.metadata", core.KindServiceUnavailable, err).WithID(name)
	}

	path := "/partition"
	if len(meta.PartitionKeyPaths) > 0 {
		path = meta.PartitionKeyPaths[0]
	}
	if err := cache.Set(ctx, name, path); err != nil {
		return "", core.Wrap("build.metadata", core.KindQueryFailed, err).WithID(name)
	}
	return path, nil
}

func emitProgress(onProgress core.OnProgress, stage, containerName string, progress float64, message string) {
	if onProgress == nil {
		return
	}
	var metadata map[string]interface{}
	if containerName != "" {
		metadata = map[string]interface{}{"container": containerName}
	}
	onProgress(core.ProgressEvent{Stage: stage, Progress: progress, Message: message, Metadata: metadata})
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
