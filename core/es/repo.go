package es

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type (
	repoOptions struct {
		snapshotter Snapshotter
		metrics     ESMetrics
	}
	RepositoryOption interface{ applyToRepository(*repoOptions) }

	// Repository rehydrates aggregates and persists new events with
	// optimistic concurrency.
	Repository interface {
		Load(ctx context.Context, agg Aggregate, opts ...LoadOption) error
		Save(ctx context.Context, agg Aggregate, opts ...SaveOption) error
		CreateSnapshot(ctx context.Context, agg Aggregate) (*Snapshot, error)
	}
)

// SnapshotterOption wires a Snapshotter into a Repository or Env.
type SnapshotterOption struct{ v Snapshotter }

func WithSnapshotter(s Snapshotter) SnapshotterOption              { return SnapshotterOption{v: s} }
func (o SnapshotterOption) applyToRepository(options *repoOptions) { options.snapshotter = o.v }
func (o SnapshotterOption) applyToEnv(e *envOptions)               { e.snapshotter = o.v }

type (
	repoSaveOptions struct{ snapshot bool }
	repoLoadOptions struct{ snapshot bool }
	SaveOption      interface{ applyToSaveOptions(*repoSaveOptions) }
	LoadOption      interface{ applyToLoadOptions(*repoLoadOptions) }

	// SnapshotOption requests snapshot use on Load (restore before replay)
	// or Save (write after append).
	SnapshotOption struct{}
)

func WithSnapshot() SnapshotOption                                   { return SnapshotOption{} }
func (o SnapshotOption) applyToSaveOptions(options *repoSaveOptions) { options.snapshot = true }
func (o SnapshotOption) applyToLoadOptions(options *repoLoadOptions) { options.snapshot = true }

type repository struct {
	log         *slog.Logger
	store       EventStore
	registry    *EventRegistry
	snapshotter Snapshotter
	metrics     ESMetrics
}

func NewRepository(
	log *slog.Logger,
	store EventStore,
	registry *EventRegistry,
	opts ...RepositoryOption,
) Repository {
	options := repoOptions{metrics: NopESMetrics()}
	for _, opt := range opts {
		opt.applyToRepository(&options)
	}

	return &repository{
		log:         log.With(slog.String("repo", fmt.Sprintf("%T", store))),
		store:       store,
		registry:    registry,
		snapshotter: options.snapshotter,
		metrics:     options.metrics,
	}
}

// Load rehydrates agg by folding its stream through Apply.
func (r *repository) Load(ctx context.Context, agg Aggregate, opts ...LoadOption) (err error) {
	aggType := agg.GetAggType()
	if aggType == "" {
		return errors.New("aggregate type is empty")
	}
	aggID := agg.GetID()
	if aggID == "" {
		return errors.New("aggregate id is empty")
	}
	if len(agg.Uncommitted()) != 0 {
		return errors.New("aggregate has uncommitted events (dirty=true)")
	}

	defer r.metrics.RepoLoadDuration(aggType).ObserveDuration()

	loadOptions := repoLoadOptions{}
	for _, opt := range opts {
		opt.applyToLoadOptions(&loadOptions)
	}

	if loadOptions.snapshot {
		if r.snapshotter == nil {
			return ErrSnapshotterUnconfigured
		}
		timer := r.metrics.SnapshotLoadDuration(aggType)
		err = ApplySnapshot(ctx, r.snapshotter, agg)
		timer.ObserveDuration()
		if err != nil && !errors.Is(err, ErrSnapshotNotFound) {
			return fmt.Errorf("failed to apply snapshot: %w", err)
		}
	}

	var (
		curVersion = agg.GetVersion()
		minVersion = curVersion + 1
	)

	log := r.log.With(
		slog.Group(
			"agg",
			slog.String("type", aggType),
			slog.String("id", aggID),
			curVersion.SlogAttr(),
		),
	)

	log.Debug(
		"load",
		slog.Group("opts",
			minVersion.SlogAttrWithKey("min_version"),
			slog.Bool("snapshot", loadOptions.snapshot),
		),
	)

	loaded, err := r.store.Load(
		ctx,
		aggType,
		aggID,
		WithStartAtVersion(minVersion),
	)
	if err != nil {
		if errors.Is(err, ErrAggregateNotFound) && curVersion > 0 {
			// snapshot covers the whole stream
			return nil
		}
		return err
	}

	for _, e := range loaded {
		expectVersion := agg.GetVersion() + 1
		if e.Version != expectVersion {
			return fmt.Errorf("expect version %d, got %d", expectVersion, e.Version)
		}

		evt, err := r.registry.Decode(e)
		if err != nil {
			return err
		}
		if err := agg.Apply(evt); err != nil {
			return err
		}

		agg.setVersion(e.Version)
		agg.setSeq(e.Seq)
	}

	if agg.GetVersion() == 0 {
		return ErrAggregateNotFound
	}

	return nil
}

// Save appends the aggregate's uncommitted events at the expected version.
func (r *repository) Save(ctx context.Context, agg Aggregate, saveOpts ...SaveOption) error {
	uncommitted := agg.Uncommitted()
	if len(uncommitted) == 0 {
		return nil
	}
	aggType := agg.GetAggType()
	if aggType == "" {
		return errors.New("aggregate type is empty")
	}
	aggID := agg.GetID()
	if aggID == "" {
		return errors.New("aggregate id is empty")
	}

	defer r.metrics.RepoSaveDuration(aggType).ObserveDuration()

	saveOptions := repoSaveOptions{}
	for _, opt := range saveOpts {
		opt.applyToSaveOptions(&saveOptions)
	}

	expectVersion := agg.GetVersion()
	newEnvs := make([]Envelope, 0, len(uncommitted))
	v := expectVersion

	for _, ev := range uncommitted {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}

		v++

		env := Envelope{
			ID:            gonanoid.Must(),
			Type:          eventTypeOf(ev),
			AggregateID:   aggID,
			AggregateType: aggType,
			Version:       v,
			OccurredAt:    time.Now(),
			Data:          data,
		}

		if err := env.Validate(); err != nil {
			return err
		}

		newEnvs = append(newEnvs, env)
	}

	res, err := r.store.Append(ctx, aggType, aggID, expectVersion, newEnvs)
	if err != nil {
		if errors.Is(err, ErrConcurrencyConflict) {
			r.metrics.ConcurrencyConflict(aggType)
		}
		return fmt.Errorf("failed to save agg_type=%s agg_id=%s: %w", aggType, aggID, err)
	}
	if res == nil {
		return errors.New("append returned nil result")
	}
	agg.setSeq(res.LastSeq)
	agg.setVersion(v)
	agg.ClearUncommitted()
	r.metrics.EventsAppended(aggType, len(newEnvs))

	if saveOptions.snapshot {
		if _, snapshotErr := r.CreateSnapshot(ctx, agg); snapshotErr != nil {
			return snapshotErr
		}
	}

	r.log.Debug(
		"saved",
		slog.Group(
			"agg",
			slog.String("id", aggID),
			slog.String("type", aggType),
			slog.Uint64("seq", agg.GetSeq()),
			agg.GetVersion().SlogAttr(),
		),
		slog.Int("num_events", len(newEnvs)),
	)

	return nil
}

func (r *repository) CreateSnapshot(ctx context.Context, agg Aggregate) (ss *Snapshot, err error) {
	if r.snapshotter == nil {
		return nil, ErrSnapshotterUnconfigured
	}
	ss, err = CreateSnapshot(agg)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}
	timer := r.metrics.SnapshotSaveDuration(agg.GetAggType())
	err = r.snapshotter.SaveSnapshot(ctx, ss)
	timer.ObserveDuration()
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	r.log.Debug("snapshot saved", ss.logAttrs())
	return
}

var _ Repository = &repository{}

// === TypedRepository ===

type TypedRepository[T Aggregate] interface {
	GetAggType() string
	New() T
	NewWithID(id string) T
	Load(ctx context.Context, a T, opts ...LoadOption) error
	GetByID(ctx context.Context, aggID string, opts ...LoadOption) (T, error)
	Save(ctx context.Context, agg T, opts ...SaveOption) error
}

type typedRepo[T Aggregate] struct {
	r    Repository
	log  *slog.Logger
	ctor func() T
}

func (t *typedRepo[T]) New() T { return t.NewWithID("") }

func (t *typedRepo[T]) NewWithID(id string) T {
	a := t.ctor()
	a.SetID(id)
	return a
}

func (t *typedRepo[T]) Load(ctx context.Context, a T, opts ...LoadOption) error {
	return t.r.Load(ctx, a, opts...)
}

func (t *typedRepo[T]) GetByID(ctx context.Context, aggID string, opts ...LoadOption) (a T, err error) {
	if aggID == "" {
		return a, errors.New("aggregate id is empty")
	}
	a = t.NewWithID(aggID)
	err = t.r.Load(ctx, a, opts...)
	if err != nil {
		return
	}
	return a, nil
}

func (t *typedRepo[T]) Save(ctx context.Context, agg T, opts ...SaveOption) error {
	return t.r.Save(ctx, agg, opts...)
}

func (t *typedRepo[T]) GetAggType() string {
	return t.New().GetAggType()
}

// NewTypedRepository builds a TypedRepository from a Repository and a
// constructor for fresh (initial-state) aggregates.
func NewTypedRepository[T Aggregate](log *slog.Logger, r Repository, ctor func() T) TypedRepository[T] {
	return &typedRepo[T]{
		r:    r,
		log:  log.With(slog.String("repo", fmt.Sprintf("%T", *new(T)))),
		ctor: ctor,
	}
}
