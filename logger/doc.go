// Package logger is the public API of voltlog. Most users only need to
// import this package.
//
// A Logger orchestrates the pipeline: each level method builds a Record
// (merging scoped context, bound context, and call-site fields), gates
// it on the global level and the filter chain, and enqueues it to the
// async dispatcher for every handler whose own threshold is met. The
// hot path never blocks and never surfaces a failure — a full queue or
// a broken sink drops lines, it does not break the caller.
//
// Construction uses the Builder:
//
//	log := logger.NewBuilder().
//	    WithName("api").
//	    WithLevel(logger.DebugLevel).
//	    WithHandler(myHandler).
//	    Build()
//
// or QuickSetup for console-plus-rotating-file wiring in one call.
//
// Derived loggers are created with Bind, which returns a new façade
// sharing the dispatcher and the current handler snapshot by reference
// while owning an independent bound-field set — binding never mutates
// the parent. PushContext attaches fields to the calling goroutine for
// a lexical region; the returned pop must be deferred so the scope is
// released on every exit path.
//
// Close drains the dispatcher and closes the handlers; the process is
// expected to call it exactly once before exit, though repeated calls
// are harmless.
package logger
