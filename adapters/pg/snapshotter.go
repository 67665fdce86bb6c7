package pg

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mantenix/mantenix-go/core/es"
)

// Snapshotter persists snapshots in the instantaneas table, one row per
// aggregate, newest snapshot wins.
type Snapshotter struct {
	store *Store
}

func NewSnapshotter(store *Store) *Snapshotter { return &Snapshotter{store: store} }

func (s *Snapshotter) SaveSnapshot(ctx context.Context, snapshot *es.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	_, err = s.store.pool.Exec(ctx, `
		insert into instantaneas (agg_tipo, agg_id, snapshot)
		values ($1, $2, $3)
		on conflict (agg_tipo, agg_id) do update
		set snapshot = excluded.snapshot, guardada_en = now()
	`, snapshot.ObjType, snapshot.ObjID, data)
	return err
}

func (s *Snapshotter) LoadSnapshot(ctx context.Context, objType, objID string) (*es.Snapshot, error) {
	var data []byte
	err := s.store.pool.QueryRow(ctx, `
		select snapshot from instantaneas where agg_tipo = $1 and agg_id = $2
	`, objType, objID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, es.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}

	var snapshot es.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

var _ es.Snapshotter = (*Snapshotter)(nil)
