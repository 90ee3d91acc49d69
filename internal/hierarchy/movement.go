package hierarchy

import (
	"github.com/gnsim/tiercache/internal/obslog"
	"github.com/gnsim/tiercache/internal/policy"
)

// MovementEngine performs the block movements between tiers SPEC_FULL.md
// §4.5 describes: promotion into a faster tier, demotion of an eviction
// victim into the next tier down, and the cascading chain of further
// evictions a demotion can itself trigger. It holds no state beyond a
// reference to the Hierarchy it moves blocks within.
type MovementEngine struct {
	h *Hierarchy
}

// NewMovementEngine binds a MovementEngine to h.
func NewMovementEngine(h *Hierarchy) *MovementEngine {
	return &MovementEngine{h: h}
}

// Copy is the central algorithm (spec.md §4.5): accumulate read latency
// at src (skipped when src is NoTier — a block seen for the first
// time has no originating tier) and write latency at dst, force CLEAN
// if dst is the last tier, insert into dst, and recurse into
// MoveVictim for any victim dst's policy evicts to make room.
func (m *MovementEngine) Copy(src, dst TierKind, block policy.BlockID, status policy.BlockStatus, flush bool) int64 {
	dstTier := m.h.tier(dst)
	if dstTier == nil {
		obslog.Fatal(m.h.Log, "movement: Copy: unknown destination tier %v", dst)
		return 0
	}

	var total int64
	if src != NoTier {
		total += m.h.GetReadLatency(src, block)
	}
	total += m.h.GetWriteLatency(dst, block, flush)

	finalStatus := status
	if m.h.IsLastTier(dst) {
		finalStatus = policy.Clean
	}

	victim := dstTier.Cache.Put(block, finalStatus)
	m.h.Stats.IncrementMovement(src, dst)

	if victim.Valid {
		m.MoveVictim(dst, victim.BlockID, victim.Status)
	}

	return total
}

// MoveVictim carries an entry evicted from sourceTier onward. A dirty
// victim from a volatile tier, or any victim from NVM (NVM demotion
// always preserves durability to disk — the "most complete revision"
// SPEC_FULL.md §9 resolves the Open Question on), demotes via Copy into
// LowerTierOf(sourceTier). A clean eviction from a volatile tier, or any
// eviction from a durable tier, is dropped silently: its backing copy
// already lives at or below the last tier.
func (m *MovementEngine) MoveVictim(sourceTier TierKind, victimID policy.BlockID, victimStatus policy.BlockStatus) {
	if sourceTier != NVM && victimStatus != policy.Dirty {
		return
	}
	if m.h.IsLastTier(sourceTier) {
		return
	}

	dst := m.h.LowerTierOf(sourceTier)
	m.Copy(sourceTier, dst, victimID, victimStatus, false)
}
