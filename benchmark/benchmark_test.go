package benchmark

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/voltlog/voltlog/core"
	"github.com/voltlog/voltlog/dispatch"
	"github.com/voltlog/voltlog/filter"
	"github.com/voltlog/voltlog/formatter"
	"github.com/voltlog/voltlog/handler"
	"github.com/voltlog/voltlog/logger"
)

var (
	sinkString string
	sinkBool   bool
)

// The level methods hand off to the async dispatcher, so these loops
// measure the call-site cost: record construction, filtering, and the
// non-blocking enqueue.

func BenchmarkLoggerCreation(b *testing.B) {
	h := newNoopHandler()
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = logger.NewBuilder().
			WithHandler(h).
			WithLevel(core.InfoLevel).
			Build()
	}
}

func BenchmarkInfoNoFields(b *testing.B) {
	l := logger.NewBuilder().
		WithHandler(newNoopHandler()).
		WithLevel(core.DebugLevel).
		Build()
	defer l.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("info message")
	}
}

func BenchmarkInfoWithFields(b *testing.B) {
	l := logger.NewBuilder().
		WithHandler(newNoopHandler()).
		WithLevel(core.DebugLevel).
		Build()
	defer l.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("request served",
			logger.String("method", "GET"),
			logger.String("path", "/api/v1/items"),
			logger.Int("status", 200),
			logger.Duration("took", 1234*time.Microsecond),
		)
	}
}

func BenchmarkInfoBelowThreshold(b *testing.B) {
	l := logger.NewBuilder().
		WithHandler(newNoopHandler()).
		WithLevel(core.ErrorLevel).
		Build()
	defer l.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("filtered out",
			logger.String("method", "GET"),
			logger.Int("status", 200),
		)
	}
}

func BenchmarkBoundLogger(b *testing.B) {
	base := logger.NewBuilder().
		WithHandler(newNoopHandler()).
		WithLevel(core.DebugLevel).
		Build()
	defer base.Close()

	l := base.Bind(
		logger.String("service", "api"),
		logger.String("instance", "i-1234"),
	)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("request served", logger.Int("status", 200))
	}
}

func BenchmarkBind(b *testing.B) {
	base := logger.NewBuilder().
		WithHandler(newNoopHandler()).
		WithLevel(core.DebugLevel).
		Build()
	defer base.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = base.Bind(logger.String("request_id", "9f3c"))
	}
}

func BenchmarkSamplingFilterAdmit(b *testing.B) {
	f := filter.NewSamplingFilter(100)
	rec := &core.Record{Level: core.InfoLevel, Message: "m"}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sinkBool = f.Admit(rec)
	}
}

func BenchmarkSampledInfo(b *testing.B) {
	l := logger.NewBuilder().
		WithHandler(newNoopHandler()).
		WithLevel(core.DebugLevel).
		WithFilter(filter.NewSamplingFilter(100)).
		Build()
	defer l.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("sampled message")
	}
}

func BenchmarkCoarseClockInfo(b *testing.B) {
	l := logger.NewBuilder().
		WithHandler(newNoopHandler()).
		WithLevel(core.DebugLevel).
		WithCoarseClock(true).
		Build()
	defer l.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("info message")
	}
}

func BenchmarkParallelInfo(b *testing.B) {
	l := logger.NewBuilder().
		WithHandler(newNoopHandler()).
		WithLevel(core.DebugLevel).
		Build()
	defer l.Close()

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Info("parallel message", logger.Int("n", 1))
		}
	})
}

func BenchmarkFormatterRender(b *testing.B) {
	f := formatter.NewCompiledFormatter(
		"{asctime} - {levelname:8} - {name} - {message}", "")
	rec := core.NewRecord("bench", core.InfoLevel, "render me", time.Now(), nil,
		[]core.Field{logger.String("k", "v")})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sinkString = f.Render(rec)
	}
}

func BenchmarkDispatcherEnqueue(b *testing.B) {
	d := dispatch.New(dispatch.Config{QueueSize: 1 << 20})
	h := newNoopHandler()
	d.Register(h)
	defer d.Close()
	rec := core.NewRecord("bench", core.InfoLevel, "m", time.Now(), nil, nil)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Enqueue(h, rec)
	}
}

func BenchmarkErrField(b *testing.B) {
	l := logger.NewBuilder().
		WithHandler(newNoopHandler()).
		WithLevel(core.DebugLevel).
		Build()
	defer l.Close()
	err := errors.New("connection refused")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Error("upstream failed", logger.Err(err))
	}
}

func BenchmarkRotatingFileHandler(b *testing.B) {
	fh, err := handler.NewRotatingFileHandler(handler.FileConfig{
		Path:        filepath.Join(b.TempDir(), "bench.log"),
		Level:       core.DebugLevel,
		Formatter:   formatter.NewCompiledFormatter("{asctime} {message}", ""),
		MaxBytes:    64 * 1024 * 1024,
		BackupCount: 2,
	})
	if err != nil {
		b.Fatal(err)
	}
	l := logger.NewBuilder().
		WithHandler(fh).
		WithLevel(core.DebugLevel).
		Build()
	defer l.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("file bench line", logger.Int("i", i))
	}
}

func BenchmarkLockFreeFileHandler(b *testing.B) {
	fh, err := handler.NewLockFreeFileHandler(handler.FileConfig{
		Path:        filepath.Join(b.TempDir(), "bench.log"),
		Level:       core.DebugLevel,
		Formatter:   formatter.NewCompiledFormatter("{asctime} {message}", ""),
		MaxBytes:    64 * 1024 * 1024,
		BackupCount: 2,
	})
	if err != nil {
		b.Fatal(err)
	}
	l := logger.NewBuilder().
		WithHandler(fh).
		WithLevel(core.DebugLevel).
		Build()
	defer l.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("file bench line", logger.Int("i", i))
	}
}

func BenchmarkScopedContext(b *testing.B) {
	l := logger.NewBuilder().
		WithHandler(newNoopHandler()).
		WithLevel(core.DebugLevel).
		Build()
	defer l.Close()

	pop := l.PushContext(logger.String("request_id", "9f3c"))
	defer pop()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("scoped message")
	}
}

func BenchmarkManyHandlers(b *testing.B) {
	for _, n := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("handlers=%d", n), func(b *testing.B) {
			builder := logger.NewBuilder().WithLevel(core.DebugLevel)
			for i := 0; i < n; i++ {
				builder.WithHandler(newNoopHandler())
			}
			l := builder.Build()
			defer l.Close()

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				l.Info("fanout message")
			}
		})
	}
}
