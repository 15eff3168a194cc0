package handler

import "sync/atomic"

// Stats tracks per-handler counters with atomic access.
type Stats struct {
	processed   atomic.Uint64
	writeErrors atomic.Uint64
	rotations   atomic.Uint64
}

// Snapshot is a point-in-time copy of a handler's counters.
type Snapshot struct {
	Processed   uint64
	WriteErrors uint64
	Rotations   uint64
}

func (s *Stats) addProcessed(n int) { s.processed.Add(uint64(n)) }
func (s *Stats) incrementError()    { s.writeErrors.Add(1) }
func (s *Stats) incrementRotation() { s.rotations.Add(1) }

// GetSnapshot returns a snapshot of the current counters.
func (s *Stats) GetSnapshot() Snapshot {
	return Snapshot{
		Processed:   s.processed.Load(),
		WriteErrors: s.writeErrors.Load(),
		Rotations:   s.rotations.Load(),
	}
}
