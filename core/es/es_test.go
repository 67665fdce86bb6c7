package es_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/stretchr/testify/require"

	"github.com/mantenix/mantenix-go/core/es"
)

type contadorIncrementado struct {
	Cantidad int `json:"cantidad"`
}

func (contadorIncrementado) EventType() string { return "contador.incrementado" }

func (e contadorIncrementado) Validate() error {
	if e.Cantidad <= 0 {
		return fmt.Errorf("cantidad must be positive")
	}
	return nil
}

type contadorReiniciado struct{}

func (contadorReiniciado) EventType() string { return "contador.reiniciado" }

type contador struct {
	es.BaseAggregate
	Total int `json:"total"`
}

func (c *contador) GetAggType() string { return "contador" }

func (c *contador) Register(r es.Registrar) {
	es.RegisterEvents(r,
		es.Event[contadorIncrementado](),
		es.Event[contadorReiniciado](),
	)
}

func (c *contador) Apply(event any) error {
	switch e := event.(type) {
	case *contadorIncrementado:
		c.Total += e.Cantidad
	case *contadorReiniciado:
		c.Total = 0
	default:
		return fmt.Errorf("unexpected event %T", event)
	}
	return nil
}

func (c *contador) Incrementar(cantidad int) error {
	return es.RaiseAndApply(c, &contadorIncrementado{Cantidad: cantidad})
}

func newContadorRepo(t *testing.T) es.TypedRepository[*contador] {
	env := es.StartTestEnv(t, es.WithAggregates(&contador{}))
	return es.NewTypedRepository(slog.Default(), env.Repository(), func() *contador {
		return &contador{}
	})
}

func testEnvelope(aggID string, version es.Version, ev any) es.Envelope {
	data, err := json.Marshal(ev)
	if err != nil {
		panic(err)
	}
	return es.Envelope{
		ID:            gonanoid.Must(),
		Version:       version,
		AggregateType: "contador",
		AggregateID:   aggID,
		Type:          "contador.incrementado",
		OccurredAt:    time.Now(),
		Data:          data,
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := es.NewInMemoryStore()

	_, err := store.Load(ctx, "contador", "c1")
	require.ErrorIs(t, err, es.ErrAggregateNotFound)

	_, err = store.Append(ctx, "contador", "c1", 0, nil)
	require.ErrorIs(t, err, es.ErrStoreNoEvents)

	res, err := store.Append(ctx, "contador", "c1", 0, []es.Envelope{
		testEnvelope("c1", 1, contadorIncrementado{Cantidad: 1}),
		testEnvelope("c1", 2, contadorIncrementado{Cantidad: 2}),
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, res.LastSeq)

	// stale expected version is rejected
	_, err = store.Append(ctx, "contador", "c1", 0, []es.Envelope{
		testEnvelope("c1", 1, contadorIncrementado{Cantidad: 3}),
	})
	require.ErrorIs(t, err, es.ErrConcurrencyConflict)

	loaded, err := store.Load(ctx, "contador", "c1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.EqualValues(t, 1, loaded[0].Version)
	require.EqualValues(t, 2, loaded[1].Version)

	loaded, err = store.Load(ctx, "contador", "c1", es.WithStartAtVersion(2))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.EqualValues(t, 2, loaded[0].Version)

	// sequences are global across streams
	res, err = store.Append(ctx, "contador", "c2", 0, []es.Envelope{
		testEnvelope("c2", 1, contadorIncrementado{Cantidad: 1}),
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, res.LastSeq)
}

func TestRegistry_decode(t *testing.T) {
	registry := es.NewRegistry()
	(&contador{}).Register(registry)

	ev, err := registry.Decode(testEnvelope("c1", 1, contadorIncrementado{Cantidad: 7}))
	require.NoError(t, err)
	require.Equal(t, &contadorIncrementado{Cantidad: 7}, ev)

	env := testEnvelope("c1", 1, contadorIncrementado{Cantidad: 1})
	env.Type = "contador.desconocido"
	_, err = registry.Decode(env)
	require.ErrorIs(t, err, es.ErrUnknownEventType)
}

func TestRegistry_decodeReturnsFreshInstances(t *testing.T) {
	registry := es.NewRegistry()
	(&contador{}).Register(registry)

	a, err := registry.Decode(testEnvelope("c1", 1, contadorIncrementado{Cantidad: 1}))
	require.NoError(t, err)
	b, err := registry.Decode(testEnvelope("c1", 2, contadorIncrementado{Cantidad: 2}))
	require.NoError(t, err)
	require.NotSame(t, a, b)
}

func TestRaiseAndApply(t *testing.T) {
	c := &contador{}
	require.NoError(t, c.Incrementar(3))
	require.NoError(t, c.Incrementar(4))
	require.Equal(t, 7, c.Total)
	require.Len(t, c.Uncommitted(), 2)

	// invalid events are rejected before anything is raised
	err := c.Incrementar(-1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cantidad must be positive")
	require.Len(t, c.Uncommitted(), 2)
}

func TestRepository_roundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newContadorRepo(t)

	c := repo.NewWithID("c1")
	require.NoError(t, c.Incrementar(3))
	require.NoError(t, c.Incrementar(4))
	require.NoError(t, repo.Save(ctx, c))
	require.EqualValues(t, 2, c.GetVersion())
	require.Empty(t, c.Uncommitted())

	loaded, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, 7, loaded.Total)
	require.EqualValues(t, 2, loaded.GetVersion())
}

func TestRepository_notFound(t *testing.T) {
	repo := newContadorRepo(t)

	_, err := repo.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, es.ErrAggregateNotFound)
}

func TestRepository_concurrencyConflict(t *testing.T) {
	ctx := context.Background()
	repo := newContadorRepo(t)

	c := repo.NewWithID("c1")
	require.NoError(t, c.Incrementar(1))
	require.NoError(t, repo.Save(ctx, c))

	a, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	b, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)

	require.NoError(t, a.Incrementar(1))
	require.NoError(t, repo.Save(ctx, a))

	require.NoError(t, b.Incrementar(1))
	err = repo.Save(ctx, b)
	require.ErrorIs(t, err, es.ErrConcurrencyConflict)
}

func TestRepository_saveWithoutEventsIsNoop(t *testing.T) {
	repo := newContadorRepo(t)

	c := repo.NewWithID("c1")
	require.NoError(t, repo.Save(context.Background(), c))

	_, err := repo.GetByID(context.Background(), "c1")
	require.ErrorIs(t, err, es.ErrAggregateNotFound)
}

func TestRepository_snapshot(t *testing.T) {
	ctx := context.Background()
	env := es.StartTestEnv(t, es.WithAggregates(&contador{}))
	repo := es.NewTypedRepository(slog.Default(), env.Repository(), func() *contador {
		return &contador{}
	})

	c := repo.NewWithID("c1")
	require.NoError(t, c.Incrementar(5))
	require.NoError(t, repo.Save(ctx, c, es.WithSnapshot()))

	ss, err := env.Snapshotter().LoadSnapshot(ctx, "contador", "c1")
	require.NoError(t, err)
	require.EqualValues(t, 1, ss.ObjVersion)

	// snapshot restore, then replay of the remaining events
	require.NoError(t, c.Incrementar(2))
	require.NoError(t, repo.Save(ctx, c))

	loaded, err := repo.GetByID(ctx, "c1", es.WithSnapshot())
	require.NoError(t, err)
	require.Equal(t, 7, loaded.Total)
	require.EqualValues(t, 2, loaded.GetVersion())
}

func TestRepository_snapshotCoversWholeStream(t *testing.T) {
	ctx := context.Background()
	env := es.StartTestEnv(t, es.WithAggregates(&contador{}))
	repo := es.NewTypedRepository(slog.Default(), env.Repository(), func() *contador {
		return &contador{}
	})

	c := repo.NewWithID("c1")
	require.NoError(t, c.Incrementar(5))
	require.NoError(t, repo.Save(ctx, c, es.WithSnapshot()))

	loaded, err := repo.GetByID(ctx, "c1", es.WithSnapshot())
	require.NoError(t, err)
	require.Equal(t, 5, loaded.Total)
}
