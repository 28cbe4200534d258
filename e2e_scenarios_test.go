package cosmiqgraphql_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/graphql-go/graphql"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	cosmiqgraphql "github.com/oneiriq/cosmiq-graphql"
	"github.com/oneiriq/cosmiq-graphql/core"
	"github.com/oneiriq/cosmiq-graphql/inference"
	"github.com/oneiriq/cosmiq-graphql/resilience"
	"github.com/oneiriq/cosmiq-graphql/resolvers"
	"github.com/oneiriq/cosmiq-graphql/sampling"
	"github.com/oneiriq/cosmiq-graphql/schema"
)

// seedDocs is a small helper turning field maps into core.Document,
// mirroring how sampling.Sample hands documents to inference.Infer.
func seedDocs(fields ...map[string]interface{}) []core.Document {
	docs := make([]core.Document, len(fields))
	for i, f := range fields {
		docs[i] = core.NewDocument(f)
	}
	return docs
}

var _ = Describe("type inference", func() {
	It("widens a field observed as both string and number to String", func() {
		docs := seedDocs(
			map[string]interface{}{"id": "1", "value": "text"},
			map[string]interface{}{"id": "2", "value": 123.0},
		)

		result, err := inference.Infer(docs, "Mixed", core.DefaultTypeSystemConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Statistics.ConflictsResolved).To(Equal(1))

		binding := schema.NewBinding(core.ContainerConfig{Name: "mixed", TypeName: "Mixed"}, "/id", result)
		sdl := schema.BuildSDL([]schema.Binding{binding})
		Expect(sdl).To(ContainSubstring("value: String!"))
	})

	It("marks a field optional when its presence falls under the required threshold", func() {
		fields := make([]map[string]interface{}, 0, 10)
		for i := 0; i < 10; i++ {
			doc := map[string]interface{}{"id": fmt.Sprintf("%d", i)}
			if i < 3 {
				doc["email"] = "user@example.com"
			}
			fields = append(fields, doc)
		}
		docs := seedDocs(fields...)

		cfg := core.DefaultTypeSystemConfig()
		cfg.RequiredThreshold = 0.9
		result, err := inference.Infer(docs, "Account", cfg)
		Expect(err).NotTo(HaveOccurred())

		binding := schema.NewBinding(core.ContainerConfig{Name: "accounts", TypeName: "Account"}, "/id", result)
		sdl := schema.BuildSDL([]schema.Binding{binding})
		Expect(sdl).To(ContainSubstring("email: String\n"))
		Expect(sdl).NotTo(ContainSubstring("email: String!"))
	})

	It("extracts a nested object field into its own generated type", func() {
		docs := seedDocs(
			map[string]interface{}{"id": "1", "profile": map[string]interface{}{"bio": "hello"}},
			map[string]interface{}{"id": "2", "profile": map[string]interface{}{"bio": "world"}},
		)

		result, err := inference.Infer(docs, "User", core.DefaultTypeSystemConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.NestedTypes).To(HaveLen(1))
		Expect(result.NestedTypes[0].Name).To(Equal("UserProfile"))

		binding := schema.NewBinding(core.ContainerConfig{Name: "users", TypeName: "User"}, "/id", result)
		sdl := schema.BuildSDL([]schema.Binding{binding})
		Expect(sdl).To(ContainSubstring("type UserProfile {"))
		Expect(sdl).To(ContainSubstring("bio: String!"))
		Expect(sdl).To(ContainSubstring("profile: UserProfile!"))
	})
})

var _ = Describe("partition sampling", func() {
	It("covers every partition fairly when sampling across five partitions", func() {
		container := core.NewMemoryContainer("orders", "/tenantId")
		for p := 1; p <= 5; p++ {
			for i := 0; i < 200; i++ {
				container.Seed(core.NewDocument(map[string]interface{}{
					"id":       fmt.Sprintf("p%d-%d", p, i),
					"tenantId": fmt.Sprintf("t%d", p),
				}))
			}
		}

		sampler := sampling.New(container, "/tenantId", core.DefaultRetryConfig())
		cc := core.ContainerConfig{Name: "orders", Strategy: core.StrategyPartition, SampleSize: 50}

		result, err := sampler.Sample(context.Background(), cc, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.PartitionsCovered).To(Equal(5))
		Expect(result.Documents).To(HaveLen(50))

		perPartition := map[string]int{}
		for _, d := range result.Documents {
			tenant, _ := d["tenantId"].Str()
			perPartition[tenant]++
		}
		for _, count := range perPartition {
			Expect(count).To(Equal(10))
		}
	})
})

var _ = Describe("list pagination", func() {
	It("round-trips through continuation tokens without gaps or duplicates", func() {
		container := core.NewMemoryContainer("widgets", "/id")
		for i := 0; i < 5; i++ {
			container.Seed(core.NewDocument(map[string]interface{}{"id": fmt.Sprintf("w%d", i)}))
		}
		binding := resolvers.NewBinding(container, "/id", core.DefaultRetryConfig(), nil, nil, false)

		seen := map[string]bool{}
		token := ""
		pageSizes := []int{}
		for i := 0; i < 10; i++ {
			conn, err := binding.List(context.Background(), resolvers.ListArgs{Limit: 2, ContinuationToken: token})
			Expect(err).NotTo(HaveOccurred())
			pageSizes = append(pageSizes, len(conn.Items))
			for _, item := range conn.Items {
				seen[item.ID()] = true
			}
			if !conn.HasMore {
				break
			}
			token = conn.ContinuationToken
		}

		Expect(pageSizes).To(Equal([]int{2, 2, 1}))
		Expect(seen).To(HaveLen(5))
	})
})

var _ = Describe("conditional point read", func() {
	It("rejects a read whose ifNoneMatch matches the current etag and serves one that doesn't", func() {
		container := core.NewMemoryContainer("widgets", "/id")
		container.Seed(core.NewDocument(map[string]interface{}{"id": "w1", "name": "gadget"}))
		binding := resolvers.NewBinding(container, "/id", core.DefaultRetryConfig(), nil, nil, false)

		first, err := binding.Point(context.Background(), "w1", "w1", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(first.ETag).NotTo(BeEmpty())

		_, err = binding.Point(context.Background(), "w1", "w1", first.ETag)
		Expect(err).To(HaveOccurred())
		Expect(core.IsPreconditionFailed(err)).To(BeTrue())

		second, err := binding.Point(context.Background(), "w1", "w1", "some-other-etag")
		Expect(err).NotTo(HaveOccurred())
		Expect(second.ETag).To(Equal(first.ETag))
		Expect(second.Data.ID()).To(Equal("w1"))
	})
})

// flakyPointReader wraps a MemoryContainer and fails its first PointRead
// call with a rate-limited error carrying a RetryAfter hint, succeeding
// on every call after — exercising resilience.Do's RespectRetryAfter path
// without a real driver.
type flakyPointReader struct {
	*core.MemoryContainer
	failures int32
}

// retryAfterError wraps a *core.Error so KindOf (via errors.As/Unwrap)
// still classifies it correctly while also exposing the RetryAfter
// hint resilience.Do looks for.
type retryAfterError struct {
	err   *core.Error
	after time.Duration
}

func (e *retryAfterError) Error() string            { return e.err.Error() }
func (e *retryAfterError) Unwrap() error            { return e.err }
func (e *retryAfterError) RetryAfter() time.Duration { return e.after }

func (f *flakyPointReader) PointRead(ctx context.Context, id, partitionKey string) (core.Document, string, error) {
	if atomic.AddInt32(&f.failures, -1) >= 0 {
		return nil, "", &retryAfterError{
			err:   core.New("flaky.pointread", core.KindRateLimited, "throttled"),
			after: 10 * time.Millisecond,
		}
	}
	return f.MemoryContainer.PointRead(ctx, id, partitionKey)
}

var _ = Describe("retry on rate limiting", func() {
	It("retries a rate-limited failure and honors the reported retry-after delay", func() {
		inner := core.NewMemoryContainer("widgets", "/id")
		inner.Seed(core.NewDocument(map[string]interface{}{"id": "w1"}))
		flaky := &flakyPointReader{MemoryContainer: inner, failures: 1}

		retry := core.DefaultRetryConfig()
		retry.MaxRetries = 1
		retry.RespectRetryAfter = true

		start := time.Now()
		var result core.ReadResult
		err := resilience.Do(context.Background(), retry, func(ctx context.Context) error {
			doc, etag, err := flaky.PointRead(ctx, "w1", "w1")
			if err != nil {
				return err
			}
			result = core.ReadResult{Data: doc, ETag: etag}
			return nil
		})
		elapsed := time.Since(start)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Data.ID()).To(Equal("w1"))
		Expect(elapsed).To(BeNumerically(">=", 10*time.Millisecond))
	})
})

var _ = Describe("filter validation", func() {
	It("rejects a list query whose where-field is not a valid identifier before issuing any SQL", func() {
		container := core.NewMemoryContainer("widgets", "/id")
		container.Seed(core.NewDocument(map[string]interface{}{"id": "w1", "name": "gadget"}))
		binding := resolvers.NewBinding(container, "/id", core.DefaultRetryConfig(), nil, nil, false)

		_, err := binding.List(context.Background(), resolvers.ListArgs{
			Limit: 10,
			Where: map[string]map[string]string{
				"name; DROP TABLE": {"eq": "x"},
			},
		})
		Expect(err).To(HaveOccurred())
		Expect(core.IsKind(err, core.KindBadFilter)).To(BeTrue())
	})
})

var _ = Describe("assembled schema execution", func() {
	It("builds and executes a schema end to end against a memory container", func() {
		container := core.NewMemoryContainer("widgets", "/id")
		container.Seed(
			core.NewDocument(map[string]interface{}{"id": "w1", "name": "gadget"}),
			core.NewDocument(map[string]interface{}{"id": "w2", "name": "gizmo"}),
		)

		cfg := core.Config{
			ConnectionString: "memory://local",
			Database:         "testdb",
			NewClient:        core.NewMemoryClientFactory(container),
			Containers: []core.ContainerConfig{
				{Name: "widgets", TypeName: "Widget", Strategy: core.StrategyTop, SampleSize: 10},
			},
		}

		artifacts, err := cosmiqgraphql.BuildSchema(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		defer artifacts.Dispose()

		Expect(artifacts.SDL).To(ContainSubstring("type Widget {"))

		result := graphql.Do(graphql.Params{
			Schema:        artifacts.Schema,
			RequestString: `{ widget(id: "w1") { data { name } etag } }`,
		})
		Expect(result.Errors).To(BeEmpty())
		data, ok := result.Data.(map[string]interface{})
		Expect(ok).To(BeTrue())
		widget, ok := data["widget"].(map[string]interface{})
		Expect(ok).To(BeTrue())
		item, ok := widget["data"].(map[string]interface{})
		Expect(ok).To(BeTrue())
		Expect(item["name"]).To(Equal("gadget"))
	})
})
