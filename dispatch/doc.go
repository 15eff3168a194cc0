// Package dispatch moves admitted records from producer goroutines to
// handlers through a bounded queue drained by a single worker.
//
// Producers enqueue (handler, record) pairs without ever blocking: when
// the queue is full the pair is dropped immediately and counted, a
// deliberate fail-fast backpressure policy — under a log storm, losing
// lines is preferable to stalling application logic. The worker renders
// each record with its handler's formatter (keeping formatting cost off
// the producer) and accumulates the rendered lines into per-handler
// batches, flushing a batch when it reaches the size threshold or when
// the flush interval has elapsed since its first pending line, whichever
// comes first. That bounds both memory and delivery latency.
//
// Lifecycle: Stopped -> Running -> Draining -> Stopped. Close stops new
// enqueues, drains the queue and flushes every batch, waits for the
// worker up to the drain timeout (proceeding anyway and returning
// ErrDrainTimeout if it elapses), then closes registered handlers
// exactly once each in registration order. Dispatchers are explicitly
// constructed and owned — one per logger by default, or shared across
// loggers via injection — so tests can always build isolated instances.
package dispatch
