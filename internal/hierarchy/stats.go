package hierarchy

import (
	"github.com/gnsim/tiercache/internal/latency"
	"github.com/gnsim/tiercache/internal/policy"
)

// TierKind is re-exported from internal/latency so hierarchy callers
// need only import this package.
type TierKind = latency.TierKind

const (
	CPUCache = latency.CPUCache
	DRAM     = latency.DRAM
	NVM      = latency.NVM
	Disk     = latency.Disk
	NoTier   = latency.NoTier
)

// Stats accumulates per-tier operation counters for one simulation run.
// It is a plain in-memory tally (SPEC_FULL.md §5: no package-level
// singleton — Stats is always a field the caller owns), mirroring the
// original's Stats class (read_ops/write_ops/flush_ops/sync_ops maps
// plus a movement tracker) one-for-one.
type Stats struct {
	ReadOps     map[TierKind]int64
	WriteOps    map[TierKind]int64
	FlushOps    map[TierKind]int64
	SyncOps     map[TierKind]int64
	MovementOps map[TierKind]map[TierKind]int64

	InvalidTraceLines int64
}

// NewStats returns a zeroed Stats ready to accumulate.
func NewStats() *Stats {
	return &Stats{
		ReadOps:     make(map[TierKind]int64),
		WriteOps:    make(map[TierKind]int64),
		FlushOps:    make(map[TierKind]int64),
		SyncOps:     make(map[TierKind]int64),
		MovementOps: make(map[TierKind]map[TierKind]int64),
	}
}

// Reset zeroes all counters. Called between the warm-up and measurement
// phases so warm-up traffic never pollutes reported throughput
// (SPEC_FULL.md §4.6 Bootstrap).
func (s *Stats) Reset() {
	clear(s.ReadOps)
	clear(s.WriteOps)
	clear(s.FlushOps)
	clear(s.SyncOps)
	clear(s.MovementOps)
	s.InvalidTraceLines = 0
}

func (s *Stats) IncrementRead(t TierKind)  { s.ReadOps[t]++ }
func (s *Stats) IncrementWrite(t TierKind) { s.WriteOps[t]++ }
func (s *Stats) IncrementFlush(t TierKind) { s.FlushOps[t]++ }
func (s *Stats) IncrementSync(t TierKind)  { s.SyncOps[t]++ }

// IncrementMovement records a Copy from src to dst.
func (s *Stats) IncrementMovement(src, dst TierKind) {
	row, ok := s.MovementOps[src]
	if !ok {
		row = make(map[TierKind]int64)
		s.MovementOps[src] = row
	}
	row[dst]++
}

// TotalOps sums every read and write across all tiers (a flush is
// already counted as a write at its destination), the numerator for the
// throughput figure written to the summary file.
func (s *Stats) TotalOps() int64 {
	var total int64
	for _, n := range s.ReadOps {
		total += n
	}
	for _, n := range s.WriteOps {
		total += n
	}
	return total
}

// DirtyCount returns the total number of Dirty entries resident across
// every tier's Policy, used by the movement test that checks Copy adds
// no dirty entry beyond the one it inserts.
func DirtyCount(h *Hierarchy) int {
	total := 0
	for _, tier := range h.Tiers {
		total += tier.Cache.CountStatus(policy.Dirty)
	}
	return total
}
