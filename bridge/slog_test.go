package bridge

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/voltlog/voltlog/core"
	"github.com/voltlog/voltlog/formatter"
	"github.com/voltlog/voltlog/logger"
)

// memHandler collects rendered lines in memory.
type memHandler struct {
	level core.Level
	fmtr  *formatter.CompiledFormatter

	mu    sync.Mutex
	lines []string
}

func newMemHandler(level core.Level, template string) *memHandler {
	return &memHandler{
		level: level,
		fmtr:  formatter.NewCompiledFormatter(template, ""),
	}
}

func (h *memHandler) Level() core.Level                       { return h.level }
func (h *memHandler) Formatter() *formatter.CompiledFormatter { return h.fmtr }
func (h *memHandler) Close() error                            { return nil }

func (h *memHandler) WriteBatch(lines [][]byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, l := range lines {
		h.lines = append(h.lines, string(l))
	}
}

func (h *memHandler) all() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

func TestSlogHandler_ForwardsRecords(t *testing.T) {
	h := newMemHandler(core.DebugLevel, "{levelname} {message} user={user} n={n}")
	log := logger.NewBuilder().WithLevel(logger.DebugLevel).WithHandler(h).Build()

	sl := slog.New(NewSlogHandler(log))
	sl.Info("login ok", slog.String("user", "ada"), slog.Int("n", 3))
	log.Close()

	got := h.all()
	if len(got) != 1 || got[0] != "INFO login ok user=ada n=3" {
		t.Errorf("lines = %v", got)
	}
}

func TestSlogHandler_LevelGate(t *testing.T) {
	h := newMemHandler(core.DebugLevel, "{message}")
	log := logger.NewBuilder().WithLevel(logger.WarningLevel).WithHandler(h).Build()

	sl := slog.New(NewSlogHandler(log))
	sl.Debug("d")
	sl.Info("i")
	sl.Warn("w")
	sl.Error("e")
	log.Close()

	got := h.all()
	if len(got) != 2 || got[0] != "w" || got[1] != "e" {
		t.Errorf("lines = %v, want [w e]", got)
	}
}

func TestSlogHandler_WithAttrsBinds(t *testing.T) {
	h := newMemHandler(core.DebugLevel, "{message} svc={service}")
	log := logger.NewBuilder().WithLevel(logger.DebugLevel).WithHandler(h).Build()

	sl := slog.New(NewSlogHandler(log)).With(slog.String("service", "api"))
	sl.Info("hello")
	log.Close()

	got := h.all()
	if len(got) != 1 || got[0] != "hello svc=api" {
		t.Errorf("lines = %v", got)
	}
}

func TestSlogHandler_GroupsFlattenDotted(t *testing.T) {
	h := newMemHandler(core.DebugLevel, "{message} id={req.user.id}")
	log := logger.NewBuilder().WithLevel(logger.DebugLevel).WithHandler(h).Build()

	sl := slog.New(NewSlogHandler(log)).WithGroup("req")
	sl.Info("served", slog.Group("user", slog.Int("id", 7)))
	log.Close()

	got := h.all()
	if len(got) != 1 || got[0] != "served id=7" {
		t.Errorf("lines = %v", got)
	}
}
