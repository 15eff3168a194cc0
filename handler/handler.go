package handler

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/voltlog/voltlog/core"
	"github.com/voltlog/voltlog/formatter"
)

// Handler is a sink that accepts batches of rendered log lines. Each
// handler decides per-record admission through its own level threshold,
// independently of the logger's global level.
type Handler interface {
	// Level returns the handler's own admission threshold.
	Level() core.Level

	// Formatter returns the compiled formatter used to render records
	// bound for this handler.
	Formatter() *formatter.CompiledFormatter

	// WriteBatch persists the rendered lines (without trailing
	// newlines). It must tolerate I/O failure internally and never
	// propagate it to the caller.
	WriteBatch(lines [][]byte)

	// Close flushes and releases resources. Must be idempotent.
	Close() error
}

var (
	errMu     sync.Mutex
	errOutput io.Writer = os.Stderr
)

// SetErrorOutput redirects the package's internal failure reports, which
// default to stderr. Sink failures are reported here instead of being
// returned to logging callers.
func SetErrorOutput(w io.Writer) {
	errMu.Lock()
	errOutput = w
	errMu.Unlock()
}

// reportError writes an internal failure report. Never panics, never
// propagates.
func reportError(format string, args ...interface{}) {
	errMu.Lock()
	fmt.Fprintf(errOutput, "voltlog: "+format+"\n", args...)
	errMu.Unlock()
}
