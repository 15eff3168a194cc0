package filter

import (
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voltlog/voltlog/core"
)

func testRecord(level core.Level) *core.Record {
	return core.NewRecord("test", level, "m", time.Now(), nil, nil)
}

func TestSamplingFilter_ExactFraction(t *testing.T) {
	tests := []struct {
		name  string
		rate  uint64
		calls int
		want  int
	}{
		{"rate 1 admits everything", 1, 100, 100},
		{"rate 10", 10, 100, 10},
		{"rate 10 with remainder", 10, 101, 11},
		{"rate larger than calls", 1000, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSamplingFilter(tt.rate)
			rec := testRecord(core.InfoLevel)

			admitted := 0
			for i := 0; i < tt.calls; i++ {
				if f.Admit(rec) {
					admitted++
				}
			}
			if admitted != tt.want {
				t.Errorf("admitted %d of %d at rate %d, want %d",
					admitted, tt.calls, tt.rate, tt.want)
			}
		})
	}
}

func TestSamplingFilter_AdmissionIndices(t *testing.T) {
	f := NewSamplingFilter(7)
	rec := testRecord(core.InfoLevel)

	for i := 0; i < 50; i++ {
		got := f.Admit(rec)
		want := i%7 == 0
		if got != want {
			t.Errorf("call %d: admitted = %v, want %v", i, got, want)
		}
	}
}

func TestSamplingFilter_ConcurrentExactness(t *testing.T) {
	const (
		rate       = 10
		goroutines = 8
		perG       = 10000
	)

	f := NewSamplingFilter(rate)
	var admitted atomic.Int64

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			rec := testRecord(core.InfoLevel)
			for j := 0; j < perG; j++ {
				if f.Admit(rec) {
					admitted.Add(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	want := int64(goroutines * perG / rate)
	got := admitted.Load()
	if got < want-1 || got > want+1 {
		t.Errorf("admitted %d across %d calls, want %d (±1)",
			got, goroutines*perG, want)
	}
}

func TestSamplingFilter_RateClamped(t *testing.T) {
	f := NewSamplingFilter(0)
	if f.Rate() != 1 {
		t.Errorf("Rate() = %d, want clamp to 1", f.Rate())
	}
	rec := testRecord(core.InfoLevel)
	for i := 0; i < 10; i++ {
		if !f.Admit(rec) {
			t.Fatal("clamped rate 1 must admit every record")
		}
	}
}

func TestChain(t *testing.T) {
	levelGate := Func(func(rec *core.Record) bool {
		return rec.Level >= core.WarningLevel
	})
	rejectAll := Func(func(*core.Record) bool { return false })

	c := NewChain(levelGate)
	if c.Admit(testRecord(core.DebugLevel)) {
		t.Error("chain admitted a record its filter rejects")
	}
	if !c.Admit(testRecord(core.ErrorLevel)) {
		t.Error("chain rejected a record its filter admits")
	}

	c2 := c.Append(rejectAll)
	if c2.Admit(testRecord(core.ErrorLevel)) {
		t.Error("chain must require every filter to admit")
	}
	if c.Len() != 1 || c2.Len() != 2 {
		t.Error("Append must not mutate the original chain")
	}

	var empty Chain
	if !empty.Admit(testRecord(core.DebugLevel)) {
		t.Error("empty chain must admit everything")
	}
}

func BenchmarkSamplingFilter(b *testing.B) {
	f := NewSamplingFilter(100)
	rec := testRecord(core.InfoLevel)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			f.Admit(rec)
		}
	})
}
