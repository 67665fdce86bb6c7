// Package pg provides the Postgres-backed EventStore and Snapshotter, built
// on pgx. Streams live in the eventos table; the per-stream version carries a
// unique constraint so concurrent writers lose with a conflict instead of
// corrupting the stream.
package pg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mantenix/mantenix-go/core/es"
)

const pgUniqueViolation = "23505"

const schema = `
create table if not exists eventos (
	seq         bigserial primary key,
	id          text not null,
	agg_tipo    text not null,
	agg_id      text not null,
	version     bigint not null,
	tipo        text not null,
	ocurrido_en timestamptz not null,
	datos       jsonb not null,
	unique (agg_tipo, agg_id, version)
);

create table if not exists instantaneas (
	agg_tipo   text not null,
	agg_id     text not null,
	snapshot   jsonb not null,
	guardada_en timestamptz not null default now(),
	primary key (agg_tipo, agg_id)
);
`

type Store struct {
	pool    *pgxpool.Pool
	log     *slog.Logger
	metrics es.ESMetrics
}

type StoreOption func(*Store)

func WithMetrics(m es.ESMetrics) StoreOption { return func(s *Store) { s.metrics = m } }

func Connect(ctx context.Context, dsn string, opts ...StoreOption) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	s := &Store{
		pool:    pool,
		log:     slog.Default().With(slog.String("store", "pg")),
		metrics: es.NopESMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Close() { s.pool.Close() }

// Migrate creates the event and snapshot tables.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Store) Load(
	ctx context.Context,
	aggType,
	aggID string,
	opts ...es.StoreLoadOption,
) ([]es.Envelope, error) {
	defer s.metrics.StoreLoadDuration(aggType).ObserveDuration()

	var startVersion es.Version
	recv := loadOptsReceiver{start: &startVersion}
	for _, opt := range opts {
		opt.ApplyToStoreLoadOptions(recv)
	}

	rows, err := s.pool.Query(ctx, `
		select seq, id, version, tipo, ocurrido_en, datos
		from eventos
		where agg_tipo = $1 and agg_id = $2 and version >= $3
		order by version
	`, aggType, aggID, uint64(startVersion))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]es.Envelope, 0)
	for rows.Next() {
		e := es.Envelope{AggregateType: aggType, AggregateID: aggID}
		if err := rows.Scan(&e.Seq, &e.ID, &e.Version, &e.Type, &e.OccurredAt, &e.Data); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		var exists bool
		err := s.pool.QueryRow(ctx, `
			select exists (select 1 from eventos where agg_tipo = $1 and agg_id = $2)
		`, aggType, aggID).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, es.ErrAggregateNotFound
		}
	}

	return out, nil
}

func (s *Store) Append(
	ctx context.Context,
	aggType string,
	aggID string,
	expectedVersion es.Version,
	events []es.Envelope,
) (*es.StoreAppendResult, error) {
	if len(events) == 0 {
		return nil, es.ErrStoreNoEvents
	}

	defer s.metrics.StoreAppendDuration(aggType).ObserveDuration()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var curVersion uint64
	err = tx.QueryRow(ctx, `
		select coalesce(max(version), 0) from eventos
		where agg_tipo = $1 and agg_id = $2
	`, aggType, aggID).Scan(&curVersion)
	if err != nil {
		return nil, err
	}
	if es.Version(curVersion) != expectedVersion {
		return nil, es.ErrConcurrencyConflict
	}

	var lastSeq uint64
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		err = tx.QueryRow(ctx, `
			insert into eventos (id, agg_tipo, agg_id, version, tipo, ocurrido_en, datos)
			values ($1, $2, $3, $4, $5, $6, $7)
			returning seq
		`, e.ID, aggType, aggID, uint64(e.Version), e.Type, e.OccurredAt, e.Data).Scan(&lastSeq)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return nil, es.ErrConcurrencyConflict
			}
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, es.ErrConcurrencyConflict
		}
		return nil, err
	}

	s.log.Debug(
		"append",
		slog.String("agg_tipo", aggType),
		slog.String("agg_id", aggID),
		slog.Uint64("last_seq", lastSeq),
		slog.Int("num_events", len(events)),
	)
	s.metrics.EventsAppended(aggType, len(events))

	return &es.StoreAppendResult{LastSeq: lastSeq}, nil
}

// loadOptsReceiver adapts the es load options onto a local start version.
type loadOptsReceiver struct{ start *es.Version }

func (r loadOptsReceiver) SetStartVersion(v es.Version) { *r.start = v }

var _ es.EventStore = (*Store)(nil)
