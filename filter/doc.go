// Package filter provides admission predicates that run before a record
// is dispatched.
//
// A Chain admits a record only when every registered filter admits it,
// evaluated in registration order with short-circuiting. Filters run on
// the producer goroutine before any formatting or enqueue work, so they
// must be cheap and must never block.
//
// SamplingFilter thins log storms by admitting one record in every rate
// calls. Its counter is a single shared atomic, so the admitted fraction
// is exact across goroutines rather than per-goroutine approximate. The
// counter belongs to the filter instance: share one instance between
// loggers to rate-limit them jointly, or give each logger its own
// instance to sample independently.
package filter
