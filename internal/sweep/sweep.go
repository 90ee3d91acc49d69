// Package sweep fans a list of configuration variants out over the
// teacher's bounded worker pool (SPEC_FULL.md §5), running each point
// of a --sweep (varying caching_type, size_type, and so on) against its
// own independent Hierarchy, Stats, and Driver — no state is shared
// across runs.
package sweep

import (
	"context"
	"sync"

	"github.com/gnsim/tiercache/internal/config"
	"github.com/gnsim/tiercache/internal/driver"
	"github.com/gnsim/tiercache/internal/hierarchy"
	"github.com/gnsim/tiercache/internal/latency"
	"github.com/gnsim/tiercache/internal/obslog"
	"github.com/gnsim/tiercache/workerpool"
)

// Result is one configuration's outcome: its index in the sweep list,
// the throughput figure a run's summary file would have carried, and
// any configuration error encountered building it. A fatal fault while
// the run executes goes through obslog.Fatal and is not returned here.
type Result struct {
	Index          int
	Config         config.Config
	ThroughputOps  float64
	Stats          *hierarchy.Stats
	Err            error
}

// Run executes every entry in configs against ops, using up to
// maxWorkers goroutines, and returns one Result per entry in input
// order. log is sub-loggered per run (internal/obslog.Logger.SubLogger)
// so each worker's output is distinguishable. Each run gets its own nil
// metrics registry (per-run Prometheus histograms would collide under a
// shared one); the caller exposes process-wide metrics (e.g. the Go
// runtime collector) on its own registry instead, independent of any
// one run.
func Run(ctx context.Context, configs []config.Config, ops []driver.Operation, maxWorkers int, log obslog.Logger) []Result {
	results := make([]Result, len(configs))
	var mu sync.Mutex

	type job struct {
		index int
		cfg   config.Config
	}

	pool := workerpool.New(ctx, func(ctx context.Context, j job) {
		res := runOne(j.index, j.cfg, ops, log)
		mu.Lock()
		results[j.index] = res
		mu.Unlock()
	}, workerpool.WithWorkers[job](maxWorkers))

	for i, cfg := range configs {
		pool.Submit(job{index: i, cfg: cfg})
	}
	pool.Shutdown()

	return results
}

func runOne(index int, cfg config.Config, ops []driver.Operation, log obslog.Logger) Result {
	runLog := log.SubLogger("sweep[%d]", index)

	caching, err := cfg.ParseCaching()
	if err != nil {
		return Result{Index: index, Config: cfg, Err: err}
	}
	diskMode, err := cfg.ParseDiskMode()
	if err != nil {
		return Result{Index: index, Config: cfg, Err: err}
	}
	readFactor, writeFactor, err := cfg.NVMFactors()
	if err != nil {
		return Result{Index: index, Config: cfg, Err: err}
	}
	tierSpecs, err := cfg.HierarchyTiers(caching)
	if err != nil {
		return Result{Index: index, Config: cfg, Err: err}
	}

	hierarchyCfg := make([]hierarchy.Config, len(tierSpecs))
	for i, spec := range tierSpecs {
		hierarchyCfg[i] = hierarchy.Config{Kind: spec.Kind, Capacity: spec.Capacity, Caching: spec.Caching}
	}

	model := latency.New(diskMode, readFactor, writeFactor)
	h := hierarchy.New(hierarchyCfg, model, runLog, cfg.SyncProbability, nil)
	d := driver.New(h, runLog, cfg.MigrationFrequency, cfg.WarmupFraction, nil)

	d.Bootstrap(ops)
	total := len(ops)
	if cfg.OperationCount > 0 && cfg.OperationCount < total {
		total = cfg.OperationCount
	}
	for _, op := range ops[:total] {
		d.Dispatch(op.Op, op.Block)
	}

	throughput := 0.0
	if d.TotalLatencyNs > 0 {
		throughput = float64(h.Stats.TotalOps()) / (float64(d.TotalLatencyNs) / 1e9)
	}

	return Result{Index: index, Config: cfg, ThroughputOps: throughput, Stats: h.Stats}
}
