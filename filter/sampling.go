package filter

import (
	"sync/atomic"

	"github.com/voltlog/voltlog/core"
)

// SamplingFilter admits one record in every rate calls using a shared
// atomic counter, so the admitted fraction is exact across concurrent
// callers. Rejected records cost only the counter increment.
type SamplingFilter struct {
	counter atomic.Uint64
	rate    uint64
}

// NewSamplingFilter creates a sampling filter. A rate below 1 is clamped
// to 1, which admits everything.
func NewSamplingFilter(rate uint64) *SamplingFilter {
	if rate < 1 {
		rate = 1
	}
	return &SamplingFilter{rate: rate}
}

// Rate returns the configured sampling rate.
func (f *SamplingFilter) Rate() uint64 { return f.rate }

// Admit admits the record when the call index (counter value before
// increment) is a multiple of rate, so admissions land exactly on call
// indices 0, rate, 2*rate, ... in global call order.
func (f *SamplingFilter) Admit(_ *core.Record) bool {
	return (f.counter.Add(1)-1)%f.rate == 0
}
