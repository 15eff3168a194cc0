// Package core defines the shared types used across the voltlog pipeline.
//
// It provides the Level type for severity filtering, the Record type that
// is the immutable snapshot of a single log event, and the Field type for
// zero-allocation structured key-value pairs.
//
// A Record is built exactly once per log call, merging three field sources
// in order: the calling goroutine's scoped context, the logger's bound
// context, and the call-site fields. Later sources win on key collision;
// Lookup scans the merged slice back to front so no de-duplication pass is
// needed at build time. After construction a Record is read-only and may be
// read concurrently by any number of handlers without synchronization.
//
// Scoped context is a per-goroutine stack keyed by goroutine id. PushScope
// returns the pop function so callers can guarantee release on every exit
// path with defer. Scoped fields are never visible to other goroutines.
//
// Field encodes values into fixed-size numeric slots (Int64, Float64)
// wherever possible so that common types like int, bool, and time.Time
// never escape to the heap. The Any slot exists as a fallback for
// arbitrary types but will cause an allocation.
package core
