package bridge

import (
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/voltlog/voltlog/core"
	"github.com/voltlog/voltlog/logger"
)

// ZapCore adapts a Logger to the zapcore.Core interface, so a
// zap.Logger built on it feeds the async pipeline.
type ZapCore struct {
	log *logger.Logger
}

// NewZapCore wraps log as a zapcore.Core. Use it as
// zap.New(bridge.NewZapCore(log)).
func NewZapCore(log *logger.Logger) *ZapCore {
	return &ZapCore{log: log}
}

// Enabled reports whether entries at the given zap level pass the
// Logger's global threshold.
func (c *ZapCore) Enabled(level zapcore.Level) bool {
	return zapLevelToCore(level) >= c.log.Level()
}

// With returns a core whose Logger has the fields bound.
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	if len(fields) == 0 {
		return c
	}
	return &ZapCore{log: c.log.Bind(zapFields(fields)...)}
}

// Check adds this core to the checked entry when the level is enabled.
func (c *ZapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write converts the entry and forwards it through the Logger. It never
// returns an error; a full queue drops the entry silently.
func (c *ZapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	c.log.Log(zapLevelToCore(ent.Level), ent.Message, zapFields(fields)...)
	return nil
}

// Sync is a no-op: flushing happens on the dispatcher's cadence and at
// Close.
func (c *ZapCore) Sync() error { return nil }

func zapLevelToCore(level zapcore.Level) core.Level {
	switch {
	case level >= zapcore.DPanicLevel:
		return core.CriticalLevel
	case level >= zapcore.ErrorLevel:
		return core.ErrorLevel
	case level >= zapcore.WarnLevel:
		return core.WarningLevel
	case level >= zapcore.InfoLevel:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}

// zapFields converts zap fields by encoding them through a map encoder,
// which resolves every zap field type (stringers, errors, object
// marshalers) to plain Go values. Namespaces flatten into dotted keys.
func zapFields(zfs []zapcore.Field) []core.Field {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range zfs {
		f.AddTo(enc)
	}
	fields := make([]core.Field, 0, len(enc.Fields))
	return appendMapFields(fields, "", enc.Fields)
}

func appendMapFields(fields []core.Field, prefix string, m map[string]interface{}) []core.Field {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			fields = append(fields, core.String(key, val))
		case bool:
			fields = append(fields, core.Bool(key, val))
		case int:
			fields = append(fields, core.Int(key, val))
		case int64:
			fields = append(fields, core.Int64Field(key, val))
		case uint64:
			fields = append(fields, core.Int64Field(key, int64(val)))
		case float64:
			fields = append(fields, core.Float64Field(key, val))
		case float32:
			fields = append(fields, core.Float64Field(key, float64(val)))
		case time.Time:
			fields = append(fields, core.Time(key, val))
		case time.Duration:
			fields = append(fields, core.Duration(key, val))
		case map[string]interface{}:
			fields = appendMapFields(fields, key, val)
		default:
			fields = append(fields, core.Any(key, val))
		}
	}
	return fields
}
