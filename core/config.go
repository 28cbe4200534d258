package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// SampleStrategy selects the document sampler strategy (spec.md §4.4).
type SampleStrategy string

const (
	StrategyTop       SampleStrategy = "top"
	StrategyRandom    SampleStrategy = "random"
	StrategyPartition SampleStrategy = "partition"
	StrategySchema    SampleStrategy = "schema"
)

// ConflictResolution selects how the type inferencer resolves a field
// observed with more than one non-null primitive kind (spec.md §4.5.6).
type ConflictResolution string

const (
	ConflictWiden ConflictResolution = "widen"
	ConflictError ConflictResolution = "error"
)

// NumberInference selects how the inferencer widens observed numbers
// (spec.md §4.5.3).
type NumberInference string

const (
	NumberStrict NumberInference = "strict"
	NumberFloat  NumberInference = "float"
)

// TypeSystemConfig configures the type inferencer (spec.md §6).
type TypeSystemConfig struct {
	RequiredThreshold  float64            `validate:"omitempty,gte=0,lte=1"`
	ConflictResolution ConflictResolution `validate:"omitempty,oneof=widen error"`
	MaxNestingDepth    int                `validate:"omitempty,min=1"`
	NestedTypeFallback string
	NumberInference    NumberInference `validate:"omitempty,oneof=strict float"`
	SampleSize         int             `validate:"omitempty,min=1"`
}

// DefaultTypeSystemConfig returns the spec's documented defaults
// (spec.md §4.5).
func DefaultTypeSystemConfig() TypeSystemConfig {
	return TypeSystemConfig{
		RequiredThreshold:  0.9,
		ConflictResolution: ConflictWiden,
		MaxNestingDepth:    8,
		NestedTypeFallback: "JSON",
		NumberInference:    NumberFloat,
	}
}

// withDefaults fills zero-valued fields with the spec's documented
// defaults, leaving caller-supplied overrides untouched.
func (c TypeSystemConfig) withDefaults() TypeSystemConfig {
	d := DefaultTypeSystemConfig()
	if c.RequiredThreshold != 0 {
		d.RequiredThreshold = c.RequiredThreshold
	}
	if c.ConflictResolution != "" {
		d.ConflictResolution = c.ConflictResolution
	}
	if c.MaxNestingDepth != 0 {
		d.MaxNestingDepth = c.MaxNestingDepth
	}
	if c.NestedTypeFallback != "" {
		d.NestedTypeFallback = c.NestedTypeFallback
	}
	if c.NumberInference != "" {
		d.NumberInference = c.NumberInference
	}
	if c.SampleSize != 0 {
		d.SampleSize = c.SampleSize
	}
	return d
}

// OperationToggles enables or disables individual mutation resolvers per
// binding (spec.md §6 "operations? per-op include/exclude"). A nil
// pointer on ContainerConfig means "all enabled", matching the zero
// value of every field here being false is NOT the desired default —
// ContainerConfig.EffectiveOperations resolves a nil pointer to
// all-true.
type OperationToggles struct {
	Create      bool
	Update      bool
	Replace     bool
	Upsert      bool
	Delete      bool
	SoftDelete  bool
	Restore     bool
	CreateMany  bool
	UpdateMany  bool
	DeleteMany  bool
	Increment   bool
	Decrement   bool
}

// AllOperations returns every mutation resolver enabled.
func AllOperations() OperationToggles {
	return OperationToggles{
		Create: true, Update: true, Replace: true, Upsert: true,
		Delete: true, SoftDelete: true, Restore: true,
		CreateMany: true, UpdateMany: true, DeleteMany: true,
		Increment: true, Decrement: true,
	}
}

// ContainerConfig describes one container to bind into the schema
// (spec.md §6).
type ContainerConfig struct {
	Name                        string `validate:"required"`
	TypeName                    string
	SampleSize                  int `validate:"omitempty,min=1"`
	Strategy                    SampleStrategy
	TypeSystem                  *TypeSystemConfig
	Operations                  *OperationToggles
	RequirePartitionKeyOnQueries bool
}

// EffectiveOperations resolves the per-container operation toggle,
// defaulting to every operation enabled when unset.
func (c ContainerConfig) EffectiveOperations() OperationToggles {
	if c.Operations == nil {
		return AllOperations()
	}
	return *c.Operations
}

// EffectiveSampleSize resolves the container's sample size against the
// documented default of 500 (spec.md §6).
func (c ContainerConfig) EffectiveSampleSize() int {
	if c.SampleSize > 0 {
		return c.SampleSize
	}
	return 500
}

// EffectiveStrategy resolves the container's sampling strategy against
// the documented default of "partition" (spec.md §4.4).
func (c ContainerConfig) EffectiveStrategy() SampleStrategy {
	if c.Strategy != "" {
		return c.Strategy
	}
	return StrategyPartition
}

// RetryConfig configures the retry wrapper (C2, spec.md §4.2).
type RetryConfig struct {
	MaxRetries        int `validate:"omitempty,min=0"`
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64 `validate:"omitempty,gt=0"`
	Jitter            float64 `validate:"omitempty,gte=0,lte=1"`
	RespectRetryAfter bool
	// ShouldRetry overrides the default retryable-kind classifier
	// (spec.md §4.2 "custom classifier").
	ShouldRetry func(error) bool
}

// DefaultRetryConfig returns the spec's documented defaults, grounded on
// the teacher framework's resilience.DefaultRetryConfig.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		BaseDelay:         100 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            0.2,
		RespectRetryAfter: true,
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	d := DefaultRetryConfig()
	if c.MaxRetries != 0 {
		d.MaxRetries = c.MaxRetries
	}
	if c.BaseDelay != 0 {
		d.BaseDelay = c.BaseDelay
	}
	if c.MaxDelay != 0 {
		d.MaxDelay = c.MaxDelay
	}
	if c.BackoffMultiplier != 0 {
		d.BackoffMultiplier = c.BackoffMultiplier
	}
	if c.Jitter != 0 {
		d.Jitter = c.Jitter
	}
	if c.ShouldRetry != nil {
		d.ShouldRetry = c.ShouldRetry
	}
	d.RespectRetryAfter = c.RespectRetryAfter || d.RespectRetryAfter
	return d
}

// ConnectionConfig is handed to a ClientFactory so it can dial the
// underlying store. InsecureSkipVerify is computed by BuildSchema from
// the endpoint host (spec.md §4.8.2 "for loopback endpoints,
// certificate validation is disabled") — callers never set it directly.
type ConnectionConfig struct {
	ConnectionString   string
	Endpoint           string
	Credential         interface{}
	InsecureSkipVerify bool
}

// Client is the shared, disposable handle to the underlying document
// database, constructed once by a caller-supplied ClientFactory and
// released exactly once through Close (spec.md §4.8.5, §5).
type Client interface {
	Container(ctx context.Context, name string) (Container, error)
	Close() error
}

// ClientFactory constructs the shared Client from connection
// configuration. This is the one point where the core defers to an
// injected, driver-specific implementation — the core itself never
// dials a concrete document database (spec.md §1, §4.1).
type ClientFactory func(ctx context.Context, cfg ConnectionConfig) (Client, error)

// CircuitBreaker is the narrow capability the resolver engine uses to
// gate calls through an optional circuit breaker; the sampler does not
// use one. resilience.Breaker
// satisfies this interface structurally; core does not import
// resilience to avoid a cycle.
type CircuitBreaker interface {
	CanExecute() bool
	RecordSuccess()
	RecordFailure()
}

// PartitionKeyCache caches the partition-key path resolved for a
// container (spec.md §5 "concurrent map with single-writer-per-key
// semantics"). NewPartitionKeyCache returns the default in-memory
// implementation; NewRedisPartitionKeyCache offers a shared alternative.
type PartitionKeyCache interface {
	Get(ctx context.Context, containerName string) (string, bool)
	Set(ctx context.Context, containerName, path string) error
}

// Config holds every recognized configuration option (spec.md §6).
type Config struct {
	ConnectionString string
	Endpoint         string
	Credential       interface{}
	Database         string `validate:"required"`
	Containers       []ContainerConfig `validate:"required,min=1,dive"`
	TypeSystem       *TypeSystemConfig
	Retry            *RetryConfig
	OnProgress       OnProgress

	// NewClient is the injected driver capability (required).
	NewClient ClientFactory

	// Optional dependency injection, defaulting to the teacher-style
	// no-op implementations when left zero-valued.
	Logger            Logger
	Telemetry         Telemetry
	CircuitBreaker    CircuitBreaker
	PartitionKeyCache PartitionKeyCache
}

var structValidator = validator.New()

// ValidateConfig runs struct-tag validation followed by the spec's own
// semantic checks (spec.md §4.8.1, §7 "configuration" errors): mutually
// exclusive auth, a non-empty, duplicate-free container list, and a
// non-nil ClientFactory.
func ValidateConfig(cfg Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		return Wrap("config.validate", KindConfiguration, err)
	}

	hasConnectionString := cfg.ConnectionString != ""
	hasEndpointAuth := cfg.Endpoint != "" && cfg.Credential != nil
	switch {
	case hasConnectionString && hasEndpointAuth:
		return New("config.validate", KindConfiguration,
			"connectionString and endpoint+credential are mutually exclusive")
	case !hasConnectionString && !hasEndpointAuth:
		return New("config.validate", KindConfiguration,
			"either connectionString or endpoint+credential must be supplied")
	}

	if cfg.NewClient == nil {
		return New("config.validate", KindConfiguration, "NewClient factory is required")
	}

	seen := make(map[string]bool, len(cfg.Containers))
	for _, c := range cfg.Containers {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return New("config.validate", KindConfiguration, "container name must not be empty")
		}
		if seen[name] {
			return New("config.validate", KindConfiguration,
				fmt.Sprintf("duplicate container name %q", name)).WithID(name)
		}
		seen[name] = true
	}

	return nil
}

// EffectiveTypeSystem resolves a container's TypeSystemConfig against
// the top-level default, then fills in the spec's documented defaults.
func (cfg Config) EffectiveTypeSystem(c ContainerConfig) TypeSystemConfig {
	if c.TypeSystem != nil {
		return c.TypeSystem.withDefaults()
	}
	if cfg.TypeSystem != nil {
		return cfg.TypeSystem.withDefaults()
	}
	return DefaultTypeSystemConfig()
}

// EffectiveRetry resolves the top-level RetryConfig against the spec's
// documented defaults.
func (cfg Config) EffectiveRetry() RetryConfig {
	if cfg.Retry != nil {
		return cfg.Retry.withDefaults()
	}
	return DefaultRetryConfig()
}

// IsLoopback reports whether endpoint targets a loopback address,
// driving ConnectionConfig.InsecureSkipVerify (spec.md §4.8.2).
func IsLoopback(endpoint string) bool {
	e := strings.ToLower(endpoint)
	for _, prefix := range []string{"https://127.0.0.1", "http://127.0.0.1", "https://localhost", "http://localhost", "127.0.0.1", "localhost"} {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}
