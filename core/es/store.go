package es

import (
	"context"
	"errors"
)

var ErrStoreNoEvents = errors.New("no events to store")

type (
	eventStoreLoadOptions struct {
		startVersion Version
	}

	storeLoadOptionsReceiver interface {
		SetStartVersion(Version)
	}

	StoreLoadOption interface {
		ApplyToStoreLoadOptions(storeLoadOptionsReceiver)
	}

	startVersionOption struct{ v Version }
)

func (e *eventStoreLoadOptions) SetStartVersion(v Version) { e.startVersion = v }

// WithStartAtVersion skips events below startVersion, used when a snapshot
// already covers the head of the stream.
func WithStartAtVersion(startVersion Version) StoreLoadOption {
	return startVersionOption{startVersion}
}

func (o startVersionOption) ApplyToStoreLoadOptions(receiver storeLoadOptionsReceiver) {
	receiver.SetStartVersion(o.v)
}

type (
	StoreAppendResult struct {
		LastSeq uint64
	}

	// EventStore stores and loads envelopes per aggregate stream.
	//
	// Load returns the stream's envelopes in the exact order they were
	// appended, or ErrAggregateNotFound for an unknown stream. Append
	// rejects writes when expectedVersion no longer matches the head of
	// the stream (ErrConcurrencyConflict).
	EventStore interface {
		Load(ctx context.Context, aggType string, aggID string, opts ...StoreLoadOption) ([]Envelope, error)
		Append(ctx context.Context, aggType string, aggID string, expectedVersion Version, events []Envelope) (*StoreAppendResult, error)
	}
)
