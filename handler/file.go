package handler

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/voltlog/voltlog/core"
	"github.com/voltlog/voltlog/formatter"
)

// FileConfig holds configuration for the file handlers.
type FileConfig struct {
	// Path is the active log file. Parent directories are created on
	// open. Rotated-out backups live next to it as Path.1 (newest)
	// through Path.BackupCount (oldest).
	Path string
	// Level is the handler's admission threshold (default: InfoLevel).
	Level core.Level
	// Formatter renders records for this handler (default: the
	// standard template).
	Formatter *formatter.CompiledFormatter
	// MaxBytes triggers rotation when a pending batch would push the
	// active file past this size. Zero or negative disables rotation.
	MaxBytes int64
	// BackupCount is the number of rotated files to retain. Backups
	// beyond it are deleted during rotation.
	BackupCount int
	// BufferSize is the internal write buffer size (default: 32 KiB).
	BufferSize int
}

func (cfg *FileConfig) applyDefaults() {
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewCompiledFormatter("", "")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 32 * 1024
	}
}

// openLogFile opens the active file in append mode, creating parent
// directories as needed, and returns its current size.
func openLogFile(path string) (*os.File, int64, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, 0, fmt.Errorf("create log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, 0, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, err
	}
	return file, info.Size(), nil
}

// shiftBackups renames path.k to path.k+1 for k = backupCount-1 ... 1,
// deleting any existing destination, then moves the active file to
// path.1. The file formerly at path.backupCount is thereby evicted.
func shiftBackups(path string, backupCount int) error {
	for k := backupCount - 1; k >= 1; k-- {
		src := path + "." + strconv.Itoa(k)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := path + "." + strconv.Itoa(k+1)
		os.Remove(dst)
		if err := os.Rename(src, dst); err != nil {
			return err
		}
	}
	dst := path + ".1"
	os.Remove(dst)
	return os.Rename(path, dst)
}

// batchSize returns the on-disk size of a batch: each line plus its
// terminating newline.
func batchSize(lines [][]byte) int64 {
	var total int64
	for _, line := range lines {
		total += int64(len(line)) + 1
	}
	return total
}

// RotatingFileHandler appends batches to a file and rotates it into a
// numbered backup chain once a pending batch would exceed MaxBytes.
// A single mutex spans the rotate decision, the rotation itself, the
// write, and the flush, so no line is ever split across the old and new
// file and currentSize always reflects bytes handed to the active file.
type RotatingFileHandler struct {
	level core.Level
	fmtr  *formatter.CompiledFormatter

	mu          sync.Mutex
	path        string
	file        *os.File
	bw          *bufio.Writer
	buf         bytes.Buffer
	currentSize int64
	maxBytes    int64
	backupCount int
	bufferSize  int
	stats       Stats
	closed      chan struct{}
}

// NewRotatingFileHandler creates a rotating file handler, opening (or
// creating) the active file in append mode.
func NewRotatingFileHandler(cfg FileConfig) (*RotatingFileHandler, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file handler: path is required")
	}
	cfg.applyDefaults()

	file, size, err := openLogFile(cfg.Path)
	if err != nil {
		return nil, err
	}

	return &RotatingFileHandler{
		level:       cfg.Level,
		fmtr:        cfg.Formatter,
		path:        cfg.Path,
		file:        file,
		bw:          bufio.NewWriterSize(file, cfg.BufferSize),
		currentSize: size,
		maxBytes:    cfg.MaxBytes,
		backupCount: cfg.BackupCount,
		bufferSize:  cfg.BufferSize,
		closed:      make(chan struct{}),
	}, nil
}

// Level returns the handler's admission threshold.
func (h *RotatingFileHandler) Level() core.Level { return h.level }

// Formatter returns the handler's formatter.
func (h *RotatingFileHandler) Formatter() *formatter.CompiledFormatter { return h.fmtr }

// WriteBatch rotates if the batch would exceed MaxBytes, then writes the
// whole batch as one buffered write and flushes. Failures drop the batch
// for this handler only; a rotation failure degrades to appending to the
// current file rather than losing the batch.
func (h *RotatingFileHandler) WriteBatch(lines [][]byte) {
	if len(lines) == 0 {
		return
	}
	total := batchSize(lines)

	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.closed:
		return
	default:
	}
	if h.file == nil {
		return
	}

	if h.maxBytes > 0 && h.currentSize+total > h.maxBytes {
		if err := h.rotateLocked(); err != nil {
			h.stats.incrementError()
			reportError("rotation of %s failed, appending to current file: %v", h.path, err)
		}
	}

	h.buf.Reset()
	for _, line := range lines {
		h.buf.Write(line)
		h.buf.WriteByte('\n')
	}
	if _, err := h.bw.Write(h.buf.Bytes()); err != nil {
		h.stats.incrementError()
		reportError("write to %s failed, dropping %d lines: %v", h.path, len(lines), err)
		return
	}
	if err := h.bw.Flush(); err != nil {
		h.stats.incrementError()
		reportError("flush of %s failed, dropping %d lines: %v", h.path, len(lines), err)
		return
	}
	h.currentSize += total
	h.stats.addProcessed(len(lines))
}

// rotateLocked performs rotation with h.mu held: flush and close the
// active file, shift the backup chain, reopen fresh. When the chain
// cannot be shifted the active file is reopened so writes keep flowing.
func (h *RotatingFileHandler) rotateLocked() error {
	if err := h.bw.Flush(); err != nil {
		return err
	}
	if err := h.file.Close(); err != nil {
		return err
	}

	var shiftErr error
	if h.backupCount > 0 {
		shiftErr = shiftBackups(h.path, h.backupCount)
	} else {
		// No retention: start the active file over.
		shiftErr = os.Truncate(h.path, 0)
	}

	file, size, err := openLogFile(h.path)
	if err != nil {
		h.file = nil
		return err
	}
	h.file = file
	h.bw = bufio.NewWriterSize(file, h.bufferSize)
	h.currentSize = size

	if shiftErr != nil {
		return fmt.Errorf("shift backups: %w", shiftErr)
	}
	h.stats.incrementRotation()
	return nil
}

// Stats returns a snapshot of the handler's counters.
func (h *RotatingFileHandler) Stats() Snapshot { return h.stats.GetSnapshot() }

// Close flushes and closes the active file. Repeated calls are no-ops.
func (h *RotatingFileHandler) Close() error {
	select {
	case <-h.closed:
		return nil
	default:
		close(h.closed)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.file == nil {
		return nil
	}
	flushErr := h.bw.Flush()
	closeErr := h.file.Close()
	h.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
