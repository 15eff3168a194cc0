package benchmark

import (
	"github.com/voltlog/voltlog/core"
	"github.com/voltlog/voltlog/formatter"
	"github.com/voltlog/voltlog/handler"
)

type noopHandler struct {
	fmtr *formatter.CompiledFormatter
}

func newNoopHandler() handler.Handler {
	return &noopHandler{fmtr: formatter.NewCompiledFormatter("{message}", "")}
}

func (h *noopHandler) Level() core.Level                       { return core.DebugLevel }
func (h *noopHandler) Formatter() *formatter.CompiledFormatter { return h.fmtr }

func (h *noopHandler) WriteBatch(lines [][]byte) {
	for _, l := range lines {
		_ = len(l)
	}
}

func (h *noopHandler) Close() error {
	return nil
}
