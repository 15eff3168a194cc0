package handler

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/voltlog/voltlog/core"
	"github.com/voltlog/voltlog/formatter"
)

// ConsoleConfig holds configuration for the console handler.
type ConsoleConfig struct {
	// Level is the handler's admission threshold (default: InfoLevel).
	Level core.Level
	// Formatter renders records for this handler (default: the
	// standard "{asctime} - {levelname} - {message}" template).
	Formatter *formatter.CompiledFormatter
	// Writer is the output stream (default: os.Stdout).
	Writer io.Writer
}

// ConsoleHandler writes batches to an output stream. Batch writes are
// serialized behind a mutex so lines from concurrent flushes never
// interleave, and each batch goes out as a single newline-terminated
// write to keep the syscall count down.
type ConsoleHandler struct {
	level  core.Level
	fmtr   *formatter.CompiledFormatter
	mu     sync.Mutex
	w      io.Writer
	buf    bytes.Buffer
	stats  Stats
	closed chan struct{}
}

// NewConsoleHandler creates a console handler.
func NewConsoleHandler(cfg ConsoleConfig) *ConsoleHandler {
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewCompiledFormatter("", "")
	}
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	return &ConsoleHandler{
		level:  cfg.Level,
		fmtr:   cfg.Formatter,
		w:      cfg.Writer,
		closed: make(chan struct{}),
	}
}

// Level returns the handler's admission threshold.
func (h *ConsoleHandler) Level() core.Level { return h.level }

// Formatter returns the handler's formatter.
func (h *ConsoleHandler) Formatter() *formatter.CompiledFormatter { return h.fmtr }

// WriteBatch joins the lines and writes them in one call. A write
// failure drops the batch and is reported internally.
func (h *ConsoleHandler) WriteBatch(lines [][]byte) {
	if len(lines) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.closed:
		return
	default:
	}

	h.buf.Reset()
	for _, line := range lines {
		h.buf.Write(line)
		h.buf.WriteByte('\n')
	}

	if _, err := h.w.Write(h.buf.Bytes()); err != nil {
		h.stats.incrementError()
		reportError("console write failed, dropping %d lines: %v", len(lines), err)
		return
	}
	h.stats.addProcessed(len(lines))
}

// Stats returns a snapshot of the handler's counters.
func (h *ConsoleHandler) Stats() Snapshot { return h.stats.GetSnapshot() }

// Close marks the handler closed. Repeated calls are no-ops. The
// underlying stream is not owned by the handler and stays open.
func (h *ConsoleHandler) Close() error {
	select {
	case <-h.closed:
		return nil
	default:
		close(h.closed)
	}
	return nil
}
