// Package es implements the event-sourcing kernel: aggregates rebuild their
// state by folding an ordered event stream, and persist new events through a
// repository with optimistic concurrency.
//
// The typical flow is:
//  1. Obtain an aggregate via a TypedRepository (GetByID folds the stream).
//  2. Call a command method on the aggregate; it validates against current
//     state and raises new events via RaiseAndApply.
//  3. Save the aggregate; uncommitted events are appended at the expected
//     stream version and a conflicting writer gets ErrConcurrencyConflict.
//
// Apply functions are total, deterministic and side-effect free: replaying
// the same stream any number of times yields the same state.
package es
