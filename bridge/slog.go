package bridge

import (
	"context"
	"log/slog"

	"github.com/voltlog/voltlog/core"
	"github.com/voltlog/voltlog/logger"
)

// SlogHandler adapts a Logger to the log/slog.Handler interface.
// Pre-bound attrs are carried via Logger.Bind, so they merge with the
// record's own attrs under the usual later-wins rule.
type SlogHandler struct {
	log   *logger.Logger
	group string
}

// NewSlogHandler wraps log as a slog.Handler. Level gating is the
// Logger's own; slog's level is translated per record.
func NewSlogHandler(log *logger.Logger) *SlogHandler {
	return &SlogHandler{log: log}
}

// Enabled reports whether records at the given slog level pass the
// Logger's global threshold.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return slogLevelToCore(level) >= s.log.Level()
}

// Handle converts the slog record and forwards it through the Logger.
// It never returns an error; a full queue drops the record silently.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]core.Field, 0, record.NumAttrs())
	record.Attrs(func(a slog.Attr) bool {
		fields = appendSlogAttr(fields, s.group, a)
		return true
	})
	s.log.Log(slogLevelToCore(record.Level), record.Message, fields...)
	return nil
}

// WithAttrs returns a handler whose Logger has the attrs bound.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	fields := make([]core.Field, 0, len(attrs))
	for _, a := range attrs {
		fields = appendSlogAttr(fields, s.group, a)
	}
	return &SlogHandler{log: s.log.Bind(fields...), group: s.group}
}

// WithGroup returns a handler that prefixes subsequent attr keys with
// the group name, dotted.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	group := name
	if s.group != "" {
		group = s.group + "." + name
	}
	return &SlogHandler{log: s.log, group: group}
}

func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarningLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}

// appendSlogAttr converts one attr, prefixing the key with the group
// path. Group attrs flatten recursively into dotted keys.
func appendSlogAttr(fields []core.Field, group string, a slog.Attr) []core.Field {
	key := a.Key
	if group != "" {
		key = group + "." + a.Key
	}

	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			fields = appendSlogAttr(fields, key, ga)
		}
		return fields
	}
	return append(fields, slogValueToField(key, a.Value))
}

func slogValueToField(key string, v slog.Value) core.Field {
	switch v.Kind() {
	case slog.KindString:
		return core.String(key, v.String())
	case slog.KindInt64:
		return core.Int64Field(key, v.Int64())
	case slog.KindUint64:
		return core.Int64Field(key, int64(v.Uint64()))
	case slog.KindFloat64:
		return core.Float64Field(key, v.Float64())
	case slog.KindBool:
		return core.Bool(key, v.Bool())
	case slog.KindTime:
		return core.Time(key, v.Time())
	case slog.KindDuration:
		return core.Duration(key, v.Duration())
	default:
		return core.Any(key, v.Any())
	}
}
