// Package driver implements the per-operation dispatch loop that drives
// a Hierarchy from an external operation stream (spec.md §4.6): Read,
// Write, Flush, the BringToMemory promotion cascade, BringToStorage,
// and Bootstrap. It owns no global state — every Driver is constructed
// around one Hierarchy and is safe to run in its own goroutine
// alongside other Drivers in internal/sweep's parallel fan-out.
package driver

import (
	"github.com/gnsim/tiercache/internal/hierarchy"
	"github.com/gnsim/tiercache/internal/metrics"
	"github.com/gnsim/tiercache/internal/obslog"
	"github.com/gnsim/tiercache/internal/policy"
	"github.com/prometheus/client_golang/prometheus"
)

// Op identifies the kind of operation a trace line or caller dispatches.
type Op int

const (
	OpRead Op = iota
	OpWrite
	OpFlush
)

func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpFlush:
		return "flush"
	default:
		return "invalid"
	}
}

// PhysicalIOFunc is the optional emulation hook (SPEC_FULL.md §6.3):
// called after every modeled-latency accumulation when emulation is
// enabled, so a caller can layer a real ReadAt/WriteAt/Sync against a
// backing file without that concern leaking into the simulation core.
type PhysicalIOFunc func(tier hierarchy.TierKind, op Op, block policy.BlockID) error

// Driver dispatches operations against a Hierarchy, accumulating
// latency and bootstrapping the measurement phase.
type Driver struct {
	H        *hierarchy.Hierarchy
	Movement *hierarchy.MovementEngine
	Log      obslog.Logger

	// MigrationFrequency implements the "promote NVM to DRAM with
	// probability 1/migration_frequency" rule in BringToMemory. A value
	// of 0 disables NVM->DRAM promotion entirely.
	MigrationFrequency int
	migrationCounter    uint64

	WarmupFraction float64

	OnPhysicalIO PhysicalIOFunc

	opLatency *prometheus.HistogramVec

	// TotalLatencyNs accumulates every modeled nanosecond charged during
	// the measurement phase, the denominator of the throughput figure
	// callers derive after the run (operations per modeled second).
	TotalLatencyNs int64
}

// New constructs a Driver around h. reg may be nil, in which case
// per-operation histograms are not recorded (e.g. a --sweep worker that
// only cares about the final throughput figure).
func New(h *hierarchy.Hierarchy, log obslog.Logger, migrationFrequency int, warmupFraction float64, reg *metrics.Registry) *Driver {
	d := &Driver{
		H:                  h,
		Movement:           hierarchy.NewMovementEngine(h),
		Log:                log,
		MigrationFrequency: migrationFrequency,
		WarmupFraction:     warmupFraction,
	}
	if reg != nil {
		d.opLatency = reg.NewHistogramVec("operation_latency_seconds", "Per-operation modeled latency.", []string{"op", "tier"}, nil)
	}
	return d
}

// Read implements spec.md §4.6: bring the block into the fastest
// memory tier, then charge read latency for wherever it now resides.
func (d *Driver) Read(block policy.BlockID) {
	d.BringToMemory(block)

	tier, _, ok := d.H.Locate(d.H.MemoryTierKinds(), block)
	if !ok {
		obslog.Fatal(d.Log, "driver: Read: block %d missing from memory after BringToMemory", block)
		return
	}

	latency := d.H.GetReadLatency(tier, block)
	d.account(OpRead, tier, latency)
	d.physicalIO(tier, OpRead, block)
}

// Write implements spec.md §4.6: bring the block into memory, then
// either insert a brand-new block into the hierarchy's fastest
// configured memory tier as DIRTY, or mark its existing memory-tier
// copy DIRTY in place.
func (d *Driver) Write(block policy.BlockID) {
	d.BringToMemory(block)

	tier, _, ok := d.H.Locate(d.H.MemoryTierKinds(), block)
	if !ok {
		dst := d.H.TopMemoryTier()
		latency := d.Movement.Copy(hierarchy.NoTier, dst, block, policy.Dirty, false)
		d.account(OpWrite, dst, latency)
		d.physicalIO(dst, OpWrite, block)
		return
	}

	cacheTier := d.H.MustTier(tier)
	victim := cacheTier.Cache.Put(block, policy.Dirty)
	if victim.Valid {
		obslog.Fatal(d.Log, "driver: Write: re-inserting resident block %d produced a victim", block)
		return
	}

	latency := d.H.GetWriteLatency(tier, block, false)
	d.account(OpWrite, tier, latency)
	d.physicalIO(tier, OpWrite, block)
}

// Flush implements spec.md §4.6: if block is resident in a volatile
// memory tier and not CLEAN, push it down to storage.
func (d *Driver) Flush(block policy.BlockID) {
	_, status, ok := d.H.Locate([]hierarchy.TierKind{hierarchy.CPUCache, hierarchy.DRAM}, block)
	if !ok || status == policy.Clean {
		return
	}

	latency := d.BringToStorage(block, status)
	d.account(OpFlush, hierarchy.Disk, latency)
	d.physicalIO(hierarchy.Disk, OpFlush, block)
}

// BringToMemory implements the promotion cascade in spec.md §4.6.
func (d *Driver) BringToMemory(block policy.BlockID) {
	memKinds := d.H.MemoryTierKinds()
	if _, _, ok := d.H.Locate(memKinds, block); !ok {
		srcTier, status, found := d.H.Locate(d.H.StorageTierKinds(), block)
		if !found {
			return
		}
		dst := hierarchy.DRAM
		if d.H.DeviceExists(hierarchy.NVM) {
			dst = hierarchy.NVM
		}
		d.Movement.Copy(srcTier, dst, block, status, false)
	}

	if loc, status, ok := d.H.Locate([]hierarchy.TierKind{hierarchy.NVM}, block); ok {
		if d.shouldMigrate() && d.H.DeviceExists(hierarchy.DRAM) {
			d.Movement.Copy(loc, hierarchy.DRAM, block, status, false)
		}
	}

	if loc, status, ok := d.H.Locate([]hierarchy.TierKind{hierarchy.DRAM, hierarchy.NVM}, block); ok {
		if d.H.DeviceExists(hierarchy.CPUCache) {
			d.Movement.Copy(loc, hierarchy.CPUCache, block, status, false)
		}
	}
}

// BringToStorage implements spec.md §4.6: copy the block from its
// current memory tier down to NVM (if present) else DISK with
// flush=true, then overwrite the memory-tier copy as CLEAN.
func (d *Driver) BringToStorage(block policy.BlockID, status policy.BlockStatus) int64 {
	memTier, _, ok := d.H.Locate(d.H.MemoryTierKinds(), block)
	if !ok {
		obslog.Fatal(d.Log, "driver: BringToStorage: block %d not resident in any memory tier", block)
		return 0
	}

	dst := hierarchy.Disk
	if d.H.DeviceExists(hierarchy.NVM) {
		dst = hierarchy.NVM
	}

	latency := d.Movement.Copy(memTier, dst, block, status, true)

	victim := d.H.MustTier(memTier).Cache.Put(block, policy.Clean)
	if victim.Valid {
		obslog.Fatal(d.Log, "driver: BringToStorage: marking block %d clean produced a victim", block)
	}

	return latency
}

// shouldMigrate reports whether this NVM->DRAM promotion opportunity
// should fire, per the 1/migration_frequency probability in spec.md
// §4.6. Deterministic counter-based sampling (rather than math/rand)
// keeps single-run output reproducible for a given operation stream.
func (d *Driver) shouldMigrate() bool {
	if d.MigrationFrequency <= 0 {
		return false
	}
	d.migrationCounter++
	return d.migrationCounter%uint64(d.MigrationFrequency) == 0
}

func (d *Driver) account(op Op, tier hierarchy.TierKind, latencyNs int64) {
	d.TotalLatencyNs += latencyNs
	if d.opLatency != nil {
		d.opLatency.WithLabelValues(op.String(), tier.String()).Observe(float64(latencyNs) / 1e9)
	}
}

func (d *Driver) physicalIO(tier hierarchy.TierKind, op Op, block policy.BlockID) {
	if d.OnPhysicalIO == nil {
		return
	}
	if err := d.OnPhysicalIO(tier, op, block); err != nil {
		obslog.Fatal(d.Log, "driver: physical I/O failed on tier %v: %v", tier, err)
	}
}

// Operation is one dispatched unit of work: an Op against a block id,
// the shape internal/trace produces from a trace file and
// cmd/tiercache-sim replays against a Driver.
type Operation struct {
	Op    Op
	Block policy.BlockID
}

// Bootstrap pre-populates the last tier with CLEAN blocks for every
// distinct block id the upcoming workload touches, then replays
// warmupFraction of ops before resetting Stats so reported throughput
// reflects only the measurement phase (spec.md §4.6).
func (d *Driver) Bootstrap(ops []Operation) {
	last := d.H.MustTier(d.H.LastTier())
	seen := make(map[policy.BlockID]bool, len(ops))
	for _, o := range ops {
		if seen[o.Block] {
			continue
		}
		seen[o.Block] = true
		if _, ok := last.Cache.Get(o.Block); !ok {
			last.Cache.Put(o.Block, policy.Clean)
		}
	}

	warmupCount := int(float64(len(ops)) * d.WarmupFraction)
	for i := 0; i < warmupCount && i < len(ops); i++ {
		d.Dispatch(ops[i].Op, ops[i].Block)
	}

	d.H.Stats.Reset()
	d.TotalLatencyNs = 0
}

// Dispatch runs a single operation against the Hierarchy, exported for
// cmd/tiercache-sim's and internal/sweep's measurement-phase loops. A
// Policy invariant violation (internal/policy's invariant() panics) is
// recovered here and funneled through obslog.Fatal, the boundary
// internal/policy's doc comment promises — a coding bug in eviction
// bookkeeping surfaces as a clean fatal log line, not a raw panic trace.
func (d *Driver) Dispatch(op Op, block policy.BlockID) {
	defer func() {
		if r := recover(); r != nil {
			obslog.Fatal(d.Log, "driver: invariant violation dispatching %v(%d): %v", op, block, r)
		}
	}()

	switch op {
	case OpRead:
		d.Read(block)
	case OpWrite:
		d.Write(block)
	case OpFlush:
		d.Flush(block)
	}
}
