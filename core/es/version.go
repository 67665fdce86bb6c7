package es

import "log/slog"

// Version is the per-stream version of an aggregate, starting at 1 for the
// first event. It drives optimistic concurrency control: Save appends at the
// version the aggregate was loaded with and fails if the stream moved on.
type Version uint64

func (v Version) Uint64() uint64                       { return uint64(v) }
func (v Version) SlogAttr() slog.Attr                  { return v.SlogAttrWithKey("version") }
func (v Version) SlogAttrWithKey(key string) slog.Attr { return slog.Uint64(key, uint64(v)) }
