package dispatch

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/voltlog/voltlog/core"
	"github.com/voltlog/voltlog/handler"
)

// ErrDrainTimeout reports that Close gave up waiting for the worker to
// drain the queue. Shutdown still proceeds; the indication is non-fatal
// and exists for observability.
var ErrDrainTimeout = errors.New("dispatch: drain timed out before the queue emptied")

// Config holds dispatcher tuning knobs. Zero values fall back to the
// defaults noted per field.
type Config struct {
	// QueueSize bounds the concurrent queue (default: 10000 pairs).
	QueueSize int
	// BatchSize flushes a handler's batch when it reaches this many
	// lines (default: 500).
	BatchSize int
	// FlushInterval flushes pending batches at least this often
	// (default: 100ms).
	FlushInterval time.Duration
	// DrainTimeout bounds how long Close waits for the worker
	// (default: 5s).
	DrainTimeout time.Duration
}

func (cfg *Config) applyDefaults() {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 100 * time.Millisecond
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
}

// pair is one unit of queued work: a record bound for one handler.
type pair struct {
	h   handler.Handler
	rec *core.Record
}

// Snapshot is a point-in-time copy of the dispatcher's counters.
type Snapshot struct {
	InstanceID string
	Enqueued   uint64
	Dropped    uint64
	Batches    uint64
}

// Dispatcher owns the bounded queue and the single background worker
// that renders and batches records per handler.
type Dispatcher struct {
	cfg Config
	id  string

	queue chan pair
	stop  chan struct{}
	done  chan struct{}

	draining  atomic.Bool
	closeOnce sync.Once

	mu       sync.Mutex
	handlers []handler.Handler

	enqueued atomic.Uint64
	dropped  atomic.Uint64
	batches  atomic.Uint64
}

// New creates a dispatcher and starts its worker.
func New(cfg Config) *Dispatcher {
	cfg.applyDefaults()
	d := &Dispatcher{
		cfg:   cfg,
		id:    uuid.NewString(),
		queue: make(chan pair, cfg.QueueSize),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go d.worker()
	return d
}

// Register records a handler for shutdown. Handlers are closed exactly
// once each, in registration order, when the dispatcher closes.
// Registering the same handler again is a no-op.
func (d *Dispatcher) Register(h handler.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.handlers {
		if existing == h {
			return
		}
	}
	d.handlers = append(d.handlers, h)
}

// Enqueue hands a record to the worker for the given handler. It never
// blocks: when the queue is full, or the dispatcher is draining or
// stopped, the pair is dropped immediately and counted. The return
// value reports acceptance.
func (d *Dispatcher) Enqueue(h handler.Handler, rec *core.Record) bool {
	if d.draining.Load() {
		d.dropped.Add(1)
		return false
	}
	select {
	case d.queue <- pair{h: h, rec: rec}:
		d.enqueued.Add(1)
		return true
	default:
		d.dropped.Add(1)
		return false
	}
}

// Stats returns a snapshot of the dispatcher's counters.
func (d *Dispatcher) Stats() Snapshot {
	return Snapshot{
		InstanceID: d.id,
		Enqueued:   d.enqueued.Load(),
		Dropped:    d.dropped.Load(),
		Batches:    d.batches.Load(),
	}
}

// Close drains the queue, flushes every pending batch, and closes the
// registered handlers in registration order. It blocks for at most the
// drain timeout; if the worker has not finished by then, shutdown
// proceeds anyway and ErrDrainTimeout is returned alongside any handler
// close errors. Repeated calls are no-ops returning nil.
func (d *Dispatcher) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.draining.Store(true)
		close(d.stop)

		timer := time.NewTimer(d.cfg.DrainTimeout)
		defer timer.Stop()
		select {
		case <-d.done:
		case <-timer.C:
			err = ErrDrainTimeout
		}

		d.mu.Lock()
		handlers := d.handlers
		d.handlers = nil
		d.mu.Unlock()
		for _, h := range handlers {
			err = multierr.Append(err, h.Close())
		}
	})
	return err
}

// batch accumulates rendered lines for one handler between flushes.
type batch struct {
	lines [][]byte
}

// worker is the single consumer: it renders each queued record with its
// handler's formatter and flushes per-handler batches by size or time.
func (d *Dispatcher) worker() {
	defer close(d.done)

	batches := make(map[handler.Handler]*batch)
	ticker := time.NewTicker(d.cfg.FlushInterval)
	defer ticker.Stop()

	var buf bytes.Buffer
	buf.Grow(512)

	for {
		select {
		case p := <-d.queue:
			d.accumulate(batches, p, &buf)
		case <-ticker.C:
			for h, b := range batches {
				d.flush(h, b)
			}
		case <-d.stop:
			// Drain whatever made it into the queue before the stop,
			// then flush everything and exit.
			for {
				select {
				case p := <-d.queue:
					d.accumulate(batches, p, &buf)
				default:
					for h, b := range batches {
						d.flush(h, b)
					}
					return
				}
			}
		}
	}
}

// accumulate renders one pair into its handler's batch, flushing when
// the batch reaches the size threshold.
func (d *Dispatcher) accumulate(batches map[handler.Handler]*batch, p pair, buf *bytes.Buffer) {
	buf.Reset()
	p.h.Formatter().AppendRecord(buf, p.rec)
	line := make([]byte, buf.Len())
	copy(line, buf.Bytes())

	b := batches[p.h]
	if b == nil {
		b = &batch{lines: make([][]byte, 0, d.cfg.BatchSize)}
		batches[p.h] = b
	}
	b.lines = append(b.lines, line)
	if len(b.lines) >= d.cfg.BatchSize {
		d.flush(p.h, b)
	}
}

func (d *Dispatcher) flush(h handler.Handler, b *batch) {
	if len(b.lines) == 0 {
		return
	}
	h.WriteBatch(b.lines)
	d.batches.Add(1)
	b.lines = b.lines[:0]
}
