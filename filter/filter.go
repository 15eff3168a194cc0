package filter

import "github.com/voltlog/voltlog/core"

// Filter decides whether a record proceeds to dispatch. Implementations
// must be safe for concurrent use and must not block.
type Filter interface {
	Admit(rec *core.Record) bool
}

// Func adapts a plain function to the Filter interface.
type Func func(rec *core.Record) bool

// Admit calls f.
func (f Func) Admit(rec *core.Record) bool { return f(rec) }

// Chain runs filters in registration order; a record must pass every one.
// The zero value admits everything.
type Chain struct {
	filters []Filter
}

// NewChain creates a chain over the given filters.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Append returns a new chain with f added after the existing filters.
// Chains are treated as immutable so logger snapshots stay race-free.
func (c *Chain) Append(f Filter) *Chain {
	next := make([]Filter, len(c.filters)+1)
	copy(next, c.filters)
	next[len(c.filters)] = f
	return &Chain{filters: next}
}

// Len returns the number of filters in the chain.
func (c *Chain) Len() int { return len(c.filters) }

// Admit reports whether every filter admits the record, stopping at the
// first rejection.
func (c *Chain) Admit(rec *core.Record) bool {
	for _, f := range c.filters {
		if !f.Admit(rec) {
			return false
		}
	}
	return true
}
