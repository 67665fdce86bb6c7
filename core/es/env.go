package es

import (
	"fmt"
	"log/slog"
)

// Env bundles a store, snapshotter, registry and repository into one wired
// unit. It is the composition root for the kernel; cmd binaries and tests
// build everything through it.
type Env struct {
	log         *slog.Logger
	store       EventStore
	snapshotter Snapshotter
	registry    *EventRegistry
	repo        Repository
}

type (
	envOptions struct {
		log         *slog.Logger
		store       EventStore
		snapshotter Snapshotter
		metrics     ESMetrics
		aggregates  []Aggregate
	}

	EnvOption interface{ applyToEnv(*envOptions) }

	StoreOption     struct{ v EventStore }
	LogOption       struct{ l *slog.Logger }
	AggregateOption struct{ aggregates []Aggregate }
	MemoryOption    struct{}
)

func WithStore(s EventStore) StoreOption            { return StoreOption{v: s} }
func WithLog(l *slog.Logger) LogOption              { return LogOption{l: l} }
func WithAggregates(a ...Aggregate) AggregateOption { return AggregateOption{aggregates: a} }

// WithInMemory configures an in-memory store and snapshotter.
func WithInMemory() MemoryOption { return MemoryOption{} }

func (o StoreOption) applyToEnv(e *envOptions) { e.store = o.v }
func (o LogOption) applyToEnv(e *envOptions)   { e.log = o.l }
func (o AggregateOption) applyToEnv(e *envOptions) {
	e.aggregates = append(e.aggregates, o.aggregates...)
}
func (o MemoryOption) applyToEnv(e *envOptions) {
	e.store = NewInMemoryStore()
	e.snapshotter = NewInMemorySnapshotter()
}

func (e *Env) Repository() Repository   { return e.repo }
func (e *Env) Store() EventStore        { return e.store }
func (e *Env) Snapshotter() Snapshotter { return e.snapshotter }
func (e *Env) Registry() *EventRegistry { return e.registry }

func NewEnv(opts ...EnvOption) (*Env, error) {
	options := envOptions{metrics: NopESMetrics()}
	for _, opt := range opts {
		opt.applyToEnv(&options)
	}

	log := options.log
	if log == nil {
		log = slog.Default()
	}
	if options.store == nil {
		return nil, fmt.Errorf("no event store configured")
	}

	e := &Env{
		log:         log,
		store:       options.store,
		snapshotter: options.snapshotter,
		registry:    NewRegistry(),
	}

	for _, agg := range options.aggregates {
		agg.Register(e.registry)
		log.Debug("registered aggregate", "type", fmt.Sprintf("%T", agg))
	}

	e.repo = NewRepository(
		log,
		e.store,
		e.registry,
		WithSnapshotter(e.snapshotter),
		WithMetrics(options.metrics),
	)

	return e, nil
}
