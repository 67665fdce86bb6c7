package es

import (
	"errors"
	"fmt"
)

var (
	ErrAggregateNotFound   = errors.New("aggregate not found")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrUnknownEventType    = errors.New("unknown event type")
)

// Applier updates state from a single event.
type Applier interface {
	Apply(event any) error
}

// Aggregate is the contract for event-sourced domain objects.
//
// An aggregate carries:
//   - Identity: type + ID addressing its stream
//   - Version: stream version for optimistic concurrency
//   - Seq: global store sequence of the last applied event
//   - Uncommitted events: raised but not yet persisted
type Aggregate interface {
	// GetAggType returns the aggregate type name used for stream identification.
	GetAggType() string
	// GetID returns the unique identifier of this aggregate instance.
	GetID() string
	SetID(string)

	GetVersion() Version
	setVersion(Version)

	GetSeq() uint64
	setSeq(uint64)

	// Register registers the aggregate's event types with the Registrar.
	Register(r Registrar)
	// Raise records an event as uncommitted without applying it.
	Raise(event any)
	// Apply updates the aggregate state from an event. It must be total over
	// the aggregate's event catalog and must not perform I/O.
	Apply(event any) error

	Uncommitted() []any
	ClearUncommitted()
}

// BaseAggregate is an embeddable helper tracking identity, version and
// uncommitted events. Domain aggregates embed it and implement GetAggType,
// Register and Apply.
type BaseAggregate struct {
	id          string
	version     Version
	seq         uint64
	uncommitted []any
}

func (b *BaseAggregate) GetID() string        { return b.id }
func (b *BaseAggregate) SetID(id string)      { b.id = id }
func (b *BaseAggregate) GetVersion() Version  { return b.version }
func (b *BaseAggregate) setVersion(v Version) { b.version = v }
func (b *BaseAggregate) GetSeq() uint64       { return b.seq }
func (b *BaseAggregate) setSeq(s uint64)      { b.seq = s }

func (b *BaseAggregate) Raise(event any)   { b.uncommitted = append(b.uncommitted, event) }
func (b *BaseAggregate) ClearUncommitted() { b.uncommitted = nil }
func (b *BaseAggregate) Uncommitted() []any {
	out := make([]any, len(b.uncommitted))
	copy(out, b.uncommitted)
	return out
}

type raiseApplier interface {
	Raise(event any)
	Apply(event any) error
}

// RaiseAndApply records each event as uncommitted and applies it to mutate
// state. Events carrying a Validate() error method are validated first.
func RaiseAndApply(a raiseApplier, events ...any) (err error) {
	if len(events) == 0 {
		return
	}

	for _, e := range events {
		if ev, ok := e.(interface{ Validate() error }); ok {
			err = ev.Validate()
			if err != nil {
				return fmt.Errorf("invalid event %T: %w", ev, err)
			}
		}
	}

	for _, e := range events {
		a.Raise(e)
		err = a.Apply(e)
		if err != nil {
			return
		}
	}
	return
}
