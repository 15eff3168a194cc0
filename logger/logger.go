package logger

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/voltlog/voltlog/core"
	"github.com/voltlog/voltlog/dispatch"
	"github.com/voltlog/voltlog/filter"
	"github.com/voltlog/voltlog/handler"
)

// Logger is the pipeline façade. The hot-path entry points are the
// level methods; configuration mutators are safe to call concurrently
// with logging, though an in-flight log call may still see the
// pre-mutation handler snapshot.
type Logger struct {
	name  string
	level atomic.Int32
	disp  *dispatch.Dispatcher

	mu       sync.RWMutex
	handlers []handler.Handler
	chain    *filter.Chain

	bound  []core.Field
	coarse bool
}

// Builder provides a fluent API for building Logger instances.
type Builder struct {
	name     string
	level    core.Level
	handlers []handler.Handler
	filters  []filter.Filter
	disp     *dispatch.Dispatcher
	coarse   bool
}

// NewBuilder creates a logger builder with InfoLevel as the default
// global threshold.
func NewBuilder() *Builder {
	return &Builder{
		name:  "voltlog",
		level: core.InfoLevel,
	}
}

// WithName sets the logger name carried on every record.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithLevel sets the global level threshold.
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithHandler adds a handler.
func (b *Builder) WithHandler(hs ...handler.Handler) *Builder {
	b.handlers = append(b.handlers, hs...)
	return b
}

// WithFilter adds an admission filter.
func (b *Builder) WithFilter(fs ...filter.Filter) *Builder {
	b.filters = append(b.filters, fs...)
	return b
}

// WithDispatcher injects a shared dispatcher. Without it the built
// logger owns a fresh dispatcher with default tuning.
func (b *Builder) WithDispatcher(d *dispatch.Dispatcher) *Builder {
	b.disp = d
	return b
}

// WithCoarseClock trades sub-millisecond timestamp precision for a
// cheaper time source on the hot path.
func (b *Builder) WithCoarseClock(enabled bool) *Builder {
	b.coarse = enabled
	return b
}

// Build creates the Logger, constructing a dispatcher if none was
// injected and registering the handlers with it for shutdown.
func (b *Builder) Build() *Logger {
	d := b.disp
	if d == nil {
		d = dispatch.New(dispatch.Config{})
	}
	handlers := make([]handler.Handler, len(b.handlers))
	copy(handlers, b.handlers)
	for _, h := range handlers {
		d.Register(h)
	}
	if b.coarse {
		core.StartCoarseClock()
	}

	l := &Logger{
		name:     b.name,
		disp:     d,
		handlers: handlers,
		chain:    filter.NewChain(b.filters...),
		coarse:   b.coarse,
	}
	l.level.Store(int32(b.level))
	return l
}

// Name returns the logger name.
func (l *Logger) Name() string { return l.name }

// Dispatcher returns the logger's dispatcher, mainly for stats access
// and for sharing it across loggers.
func (l *Logger) Dispatcher() *dispatch.Dispatcher { return l.disp }

// SetLevel changes the global level threshold.
func (l *Logger) SetLevel(level core.Level) {
	l.level.Store(int32(level))
}

// Level returns the current global level threshold.
func (l *Logger) Level() core.Level {
	return core.Level(l.level.Load())
}

// AddHandler appends a handler and registers it with the dispatcher.
func (l *Logger) AddHandler(h handler.Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]handler.Handler, len(l.handlers)+1)
	copy(next, l.handlers)
	next[len(l.handlers)] = h
	l.handlers = next
	l.disp.Register(h)
}

// RemoveHandler detaches a handler from this logger. The handler stays
// registered with the dispatcher and is still closed at shutdown; log
// calls already in flight may still reach it.
func (l *Logger) RemoveHandler(h handler.Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]handler.Handler, 0, len(l.handlers))
	for _, existing := range l.handlers {
		if existing != h {
			next = append(next, existing)
		}
	}
	l.handlers = next
}

// AddFilter appends an admission filter to the chain.
func (l *Logger) AddFilter(f filter.Filter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.chain = l.chain.Append(f)
}

// Bind returns a derived logger sharing the dispatcher and the current
// handler/filter snapshot by reference, with fields merged into an
// independent bound-context set. The parent is never mutated.
func (l *Logger) Bind(fields ...core.Field) *Logger {
	l.mu.RLock()
	handlers := l.handlers
	chain := l.chain
	l.mu.RUnlock()

	bound := make([]core.Field, len(l.bound)+len(fields))
	copy(bound, l.bound)
	copy(bound[len(l.bound):], fields)

	nl := &Logger{
		name:     l.name,
		disp:     l.disp,
		handlers: handlers,
		chain:    chain,
		bound:    bound,
		coarse:   l.coarse,
	}
	nl.level.Store(l.level.Load())
	return nl
}

// PushContext pushes fields onto the calling goroutine's scoped context
// and returns the pop function; defer it so the scope is released on
// every exit path. The fields are visible only to this goroutine.
func (l *Logger) PushContext(fields ...core.Field) (pop func()) {
	return core.PushScope(fields...)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...core.Field) {
	if core.DebugLevel < l.Level() {
		return
	}
	l.log(core.DebugLevel, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...core.Field) {
	if core.InfoLevel < l.Level() {
		return
	}
	l.log(core.InfoLevel, msg, fields)
}

// Warning logs a warning message
func (l *Logger) Warning(msg string, fields ...core.Field) {
	if core.WarningLevel < l.Level() {
		return
	}
	l.log(core.WarningLevel, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...core.Field) {
	if core.ErrorLevel < l.Level() {
		return
	}
	l.log(core.ErrorLevel, msg, fields)
}

// Critical logs a critical message
func (l *Logger) Critical(msg string, fields ...core.Field) {
	if core.CriticalLevel < l.Level() {
		return
	}
	l.log(core.CriticalLevel, msg, fields)
}

// Log logs a message at an explicit level.
func (l *Logger) Log(level core.Level, msg string, fields ...core.Field) {
	if level < l.Level() {
		return
	}
	l.log(level, msg, fields)
}

// log is the internal hot path: snapshot configuration, build the
// record once, run the filter chain, then enqueue per matching handler.
func (l *Logger) log(level core.Level, msg string, fields []core.Field) {
	l.mu.RLock()
	handlers := l.handlers
	chain := l.chain
	l.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	var now time.Time
	if l.coarse {
		now = core.CoarseNow()
	} else {
		now = time.Now()
	}
	rec := core.NewRecord(l.name, level, msg, now, l.bound, fields)

	if !chain.Admit(rec) {
		return
	}

	for _, h := range handlers {
		if level >= h.Level() {
			l.disp.Enqueue(h, rec)
		}
	}
}

// Close drains the dispatcher and closes the handlers in registration
// order. Repeated calls are no-ops. A dispatch.ErrDrainTimeout return
// means shutdown proceeded without fully draining the queue.
func (l *Logger) Close() error {
	return l.disp.Close()
}
