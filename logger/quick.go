package logger

import (
	"github.com/voltlog/voltlog/core"
	"github.com/voltlog/voltlog/formatter"
	"github.com/voltlog/voltlog/handler"
)

// Templates used by QuickSetup.
const (
	quickConsoleTemplate = "{asctime} [{levelname}] {message}"
	quickFileTemplate    = "{asctime} [{levelname}] [{thread_id}] {message}"
	quickFileTimeLayout  = "2006-01-02 15:04:05.000000"
)

// GetLogger returns a logger with the given name and no handlers. Wire
// sinks with AddHandler, or use QuickSetup instead.
func GetLogger(name string) *Logger {
	return NewBuilder().WithName(name).Build()
}

// QuickSetup wires a ready-to-use logger: a console handler at the
// given level and, when logFile is non-empty, a rotating file handler
// (100 MiB per file, 10 backups) with microsecond timestamps.
func QuickSetup(logFile string, level core.Level) (*Logger, error) {
	console := handler.NewConsoleHandler(handler.ConsoleConfig{
		Level:     level,
		Formatter: formatter.NewCompiledFormatter(quickConsoleTemplate, ""),
	})

	b := NewBuilder().WithLevel(level).WithHandler(console)

	if logFile != "" {
		fh, err := handler.NewRotatingFileHandler(handler.FileConfig{
			Path:        logFile,
			Level:       level,
			Formatter:   formatter.NewCompiledFormatter(quickFileTemplate, quickFileTimeLayout),
			MaxBytes:    100 * 1024 * 1024,
			BackupCount: 10,
		})
		if err != nil {
			return nil, err
		}
		b.WithHandler(fh)
	}

	return b.Build(), nil
}
