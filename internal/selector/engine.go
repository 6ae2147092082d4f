package selector

import (
	"log/slog"

	"github.com/roach88/propsel/internal/introspect"
)

// DefaultCacheSize is the number of types whose enumerated members an
// Engine keeps.
const DefaultCacheSize = 1024

// Engine starts selections against one introspection facility.
//
// An Engine is safe for concurrent use. It caches enumerated members per
// type; descriptors are immutable, so cached members are shared by every
// Selector the Engine creates.
type Engine struct {
	intro  introspect.Introspector
	enum   *enumerator
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	logger    *slog.Logger
	cacheSize int
}

// WithLogger sets the logger used for debug tracing of evaluations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithCacheSize bounds the enumeration cache. Sizes below one fall back to
// DefaultCacheSize.
func WithCacheSize(size int) Option {
	return func(c *engineConfig) {
		c.cacheSize = size
	}
}

// New creates an Engine reading types through intro.
func New(intro introspect.Introspector, opts ...Option) *Engine {
	cfg := engineConfig{
		logger:    slog.Default(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.cacheSize < 1 {
		cfg.cacheSize = DefaultCacheSize
	}

	return &Engine{
		intro:  intro,
		enum:   newEnumerator(intro, cfg.cacheSize),
		logger: cfg.logger,
	}
}
