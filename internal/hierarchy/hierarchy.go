package hierarchy

import (
	"math/rand"

	"github.com/gnsim/tiercache/internal/latency"
	"github.com/gnsim/tiercache/internal/obslog"
	"github.com/gnsim/tiercache/internal/policy"
	"github.com/gnsim/tiercache/internal/tiercache"
)

// Tier is one level of the storage hierarchy: a kind, a bounded cache,
// and (via TierCache) its own sequentiality state. Owned exclusively by
// the Hierarchy that constructed it.
type Tier struct {
	Kind     TierKind
	Cache    *tiercache.TierCache
	Capacity int
}

// Hierarchy is the ordered tier list plus the memory/storage subsets and
// last-tier designation from SPEC_FULL.md §4.4. It, its Stats, and its
// latency.Model are always per-run fields (never package-level
// globals), per the Design Note resolved in SPEC_FULL.md §5.
type Hierarchy struct {
	Tiers        []*Tier
	memoryTiers  map[TierKind]bool
	storageTiers map[TierKind]bool
	lastTier     TierKind

	Stats          *Stats
	Latency        *latency.Model
	SyncProbability float64

	Log obslog.Logger
	rng *rand.Rand
}

// Config describes the ordered tier list a Hierarchy is built from.
type Config struct {
	Kind     TierKind
	Capacity int
	Caching  policy.CachingType
}

// New constructs a Hierarchy from an ordered tier configuration list.
// The last entry is always the durable backing store (SPEC_FULL.md §3).
func New(tiers []Config, model *latency.Model, log obslog.Logger, syncProbability float64, rng *rand.Rand) *Hierarchy {
	if len(tiers) == 0 {
		obslog.Fatal(log, "hierarchy: at least one tier is required")
	}

	h := &Hierarchy{
		memoryTiers:     make(map[TierKind]bool),
		storageTiers:    make(map[TierKind]bool),
		Stats:           NewStats(),
		Latency:         model,
		SyncProbability: syncProbability,
		Log:             log,
		rng:             rng,
	}

	for _, cfg := range tiers {
		p := policy.New(cfg.Caching, cfg.Capacity, 0)
		t := &Tier{Kind: cfg.Kind, Cache: tiercache.New(cfg.Kind.String(), p), Capacity: cfg.Capacity}
		h.Tiers = append(h.Tiers, t)

		if cfg.Kind == Disk {
			h.storageTiers[cfg.Kind] = true
		} else {
			h.memoryTiers[cfg.Kind] = true
		}
	}

	h.lastTier = tiers[len(tiers)-1].Kind
	return h
}

// tier returns the *Tier for kind, or nil if the hierarchy does not
// include it.
func (h *Hierarchy) tier(kind TierKind) *Tier {
	for _, t := range h.Tiers {
		if t.Kind == kind {
			return t
		}
	}
	return nil
}

// DeviceExists reports whether kind is part of this hierarchy.
func (h *Hierarchy) DeviceExists(kind TierKind) bool {
	return h.tier(kind) != nil
}

// MustTier returns the *Tier for kind, fatal if this hierarchy does not
// include it — exported for internal/driver, which locates tiers by
// kind returned from Locate and so can assume their presence.
func (h *Hierarchy) MustTier(kind TierKind) *Tier {
	t := h.tier(kind)
	if t == nil {
		obslog.Fatal(h.Log, "hierarchy: MustTier: unknown tier %v", kind)
	}
	return t
}

// DeviceOffset returns kind's position in tier order, fatal if absent
// (SPEC_FULL.md §7: an unknown tier reference is a coding bug).
func (h *Hierarchy) DeviceOffset(kind TierKind) int {
	for i, t := range h.Tiers {
		if t.Kind == kind {
			return i
		}
	}
	obslog.Fatal(h.Log, "hierarchy: DeviceOffset: unknown tier %v", kind)
	return -1
}

// IsLastTier reports whether kind is the final, durable tier.
func (h *Hierarchy) IsLastTier(kind TierKind) bool { return kind == h.lastTier }

// LastTier returns the durable backing-store tier kind.
func (h *Hierarchy) LastTier() TierKind { return h.lastTier }

// Locate performs a linear scan of subset, returning the first tier
// whose cache holds block (a cache hit, which also counts as an access
// for that tier's recency/frequency metadata) — SPEC_FULL.md §4.4.
// Returns (kind, status, true) on a hit, (_, _, false) on a miss
// everywhere in subset.
func (h *Hierarchy) Locate(subset []TierKind, block policy.BlockID) (TierKind, policy.BlockStatus, bool) {
	for _, kind := range subset {
		t := h.tier(kind)
		if t == nil {
			continue
		}
		if status, ok := t.Cache.Get(block); ok {
			return kind, status, true
		}
	}
	return 0, policy.Clean, false
}

// MemoryTierKinds returns the memory-tier subset in hierarchy order
// (CPU_CACHE, DRAM, NVM — whichever are present).
func (h *Hierarchy) MemoryTierKinds() []TierKind {
	var out []TierKind
	for _, t := range h.Tiers {
		if h.memoryTiers[t.Kind] {
			out = append(out, t.Kind)
		}
	}
	return out
}

// StorageTierKinds returns the storage-tier subset (just Disk today).
func (h *Hierarchy) StorageTierKinds() []TierKind {
	var out []TierKind
	for _, t := range h.Tiers {
		if h.storageTiers[t.Kind] {
			out = append(out, t.Kind)
		}
	}
	return out
}

// TopMemoryTier returns the fastest memory tier configured for this
// hierarchy: CPU_CACHE if present, else DRAM, else NVM — the
// destination a brand-new block's first Write lands in (SPEC_FULL.md
// §4.6). Fatal if no memory tier is configured at all, i.e. every tier
// passed to New was Disk.
func (h *Hierarchy) TopMemoryTier() TierKind {
	for _, kind := range []TierKind{CPUCache, DRAM, NVM} {
		if h.DeviceExists(kind) {
			return kind
		}
	}
	obslog.Fatal(h.Log, "hierarchy: TopMemoryTier: no memory tier configured")
	return DRAM
}

// LowerTierOf returns the demotion destination for source, per the
// deterministic mapping in SPEC_FULL.md §4.4: CPU_CACHE -> DRAM if
// present else NVM else Disk; DRAM -> NVM if present else Disk;
// NVM -> Disk.
func (h *Hierarchy) LowerTierOf(source TierKind) TierKind {
	switch source {
	case CPUCache:
		if h.DeviceExists(DRAM) {
			return DRAM
		}
		if h.DeviceExists(NVM) {
			return NVM
		}
		return Disk
	case DRAM:
		if h.DeviceExists(NVM) {
			return NVM
		}
		return Disk
	case NVM:
		return Disk
	default:
		obslog.Fatal(h.Log, "hierarchy: LowerTierOf: %v has no lower tier", source)
		return Disk
	}
}

// GetReadLatency consults tier's sequentiality detector (advancing it),
// indexes the latency table, and records the read in Stats — the
// combined behavior SPEC_FULL.md §4.3 assigns to LatencyModel, here
// implemented on Hierarchy since the detector lives on the Tier's
// TierCache and Stats belongs to the Hierarchy (SPEC_FULL.md §5: no
// global singletons).
func (h *Hierarchy) GetReadLatency(kind TierKind, block policy.BlockID) int64 {
	t := h.tier(kind)
	if t == nil {
		return 0
	}
	h.Stats.IncrementRead(kind)
	seq := t.Cache.IsSequential(block)
	return int64(h.Latency.Lookup(latency.TierKind(kind), latency.Read, seq))
}

// GetWriteLatency mirrors GetReadLatency for writes, additionally
// tracking flushes and, with SyncProbability, a simulated fsync.
func (h *Hierarchy) GetWriteLatency(kind TierKind, block policy.BlockID, flush bool) int64 {
	t := h.tier(kind)
	if t == nil {
		return 0
	}
	h.Stats.IncrementWrite(kind)
	seq := t.Cache.IsSequential(block)

	if flush {
		h.Stats.IncrementFlush(kind)
	}
	if h.rng != nil && h.rng.Float64() < h.SyncProbability {
		h.Stats.IncrementSync(kind)
	}

	return int64(h.Latency.Lookup(latency.TierKind(kind), latency.Write, seq))
}
