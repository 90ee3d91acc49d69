// Command tiercache-sim replays a block-access trace against a
// configurable storage-tier hierarchy and reports the modeled
// throughput, per spec.md's Driver/Hierarchy/Policy design.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gnsim/tiercache/internal/adminserver"
	"github.com/gnsim/tiercache/internal/config"
	"github.com/gnsim/tiercache/internal/driver"
	"github.com/gnsim/tiercache/internal/emulate"
	"github.com/gnsim/tiercache/internal/hierarchy"
	"github.com/gnsim/tiercache/internal/latency"
	"github.com/gnsim/tiercache/internal/metrics"
	"github.com/gnsim/tiercache/internal/obslog"
	"github.com/gnsim/tiercache/internal/sweep"
	"github.com/gnsim/tiercache/internal/trace"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := obslog.Default()

	fs := pflag.NewFlagSet("tiercache-sim", pflag.ContinueOnError)
	configFile := fs.String("config", "", "optional YAML/JSON configuration file")
	config.RegisterFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Errorf("argument parsing failed: %v", err)
		return 1
	}

	cfg, err := config.Load(*configFile, fs)
	if err != nil {
		log.Errorf("configuration failed: %v", err)
		return 1
	}

	if cfg.FileName == "" {
		log.Error("a trace file is required: --file")
		return 1
	}

	f, err := os.Open(cfg.FileName)
	if err != nil {
		log.Errorf("opening trace file: %v", err)
		return 1
	}
	defer f.Close()

	ops, traceStats := trace.Scan(f)
	log.Infof("loaded %d operations (%d invalid lines skipped)", traceStats.ValidLines, traceStats.InvalidLines)

	// WithGoCollector surfaces this process's own overhead (goroutines,
	// GC) alongside the simulated workload's metrics — most useful on a
	// long --sweep, where many runs share one process lifetime.
	reg := metrics.New(metrics.WithNamespace("tiercache"), metrics.WithGoCollector())

	var admin *adminserver.Server
	if cfg.Sweep {
		return runSweep(cfg, ops, reg, log)
	}

	code := runSingle(cfg, ops, traceStats, reg, log, &admin)
	return code
}

func runSingle(cfg config.Config, ops []driver.Operation, traceStats trace.Stats, reg *metrics.Registry, log obslog.Logger, adminRef **adminserver.Server) int {
	caching, err := cfg.ParseCaching()
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}
	diskMode, err := cfg.ParseDiskMode()
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}
	readFactor, writeFactor, err := cfg.NVMFactors()
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}
	tierSpecs, err := cfg.HierarchyTiers(caching)
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}

	hierarchyCfg := make([]hierarchy.Config, len(tierSpecs))
	for i, spec := range tierSpecs {
		hierarchyCfg[i] = hierarchy.Config{Kind: spec.Kind, Capacity: spec.Capacity, Caching: spec.Caching}
	}

	model := latency.New(diskMode, readFactor, writeFactor)
	rng := rand.New(rand.NewSource(1))
	h := hierarchy.New(hierarchyCfg, model, log, cfg.SyncProbability, rng)
	d := driver.New(h, log, cfg.MigrationFrequency, cfg.WarmupFraction, reg)

	if cfg.Emulate {
		dir, err := os.MkdirTemp("", "tiercache-emulate-")
		if err != nil {
			log.Errorf("creating emulation directory: %v", err)
			return 1
		}
		defer os.RemoveAll(dir)

		kinds := make([]hierarchy.TierKind, len(hierarchyCfg))
		for i, t := range hierarchyCfg {
			kinds[i] = t.Kind
		}
		sink, err := emulate.New(dir, kinds, h.LastTier(), cfg.LargeFileMode)
		if err != nil {
			log.Errorf("setting up emulation: %v", err)
			return 1
		}
		defer sink.Close()
		sink.OnDegrade(func(tier hierarchy.TierKind, err error) {
			log.Warningf("emulation backend for %v degraded: %v", tier, err)
		})
		d.OnPhysicalIO = sink.Do
	}

	if cfg.AdminAddr != "" {
		admin := adminserver.New(cfg.AdminAddr, reg, func() *hierarchy.Stats { return h.Stats }, log)
		*adminRef = admin
		go func() {
			if err := admin.Start(); err != nil {
				log.Warningf("admin server stopped: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = admin.Shutdown(ctx)
		}()
	}

	log.Infof("bootstrapping hierarchy: %s tiers, %s caching, %s disk", cfg.HierarchyType, cfg.CachingType, cfg.DiskMode)
	d.Bootstrap(ops)

	total := len(ops)
	if cfg.OperationCount > 0 && cfg.OperationCount < total {
		total = cfg.OperationCount
	}

	for i := 0; i < total; i++ {
		d.Dispatch(ops[i].Op, ops[i].Block)
		if (i+1)%100000 == 0 {
			log.Infof("progress: %d/%d operations", i+1, total)
		}
	}

	throughput := 0.0
	if d.TotalLatencyNs > 0 {
		throughput = float64(h.Stats.TotalOps()) / (float64(d.TotalLatencyNs) / 1e9)
	}

	if err := os.WriteFile(cfg.SummaryFile, []byte(fmt.Sprintf("%.2f\n", throughput)), 0o644); err != nil {
		log.Errorf("writing summary file: %v", err)
		return 1
	}

	log.Infof("run complete: %.2f ops/sec, %d reads, %d writes, %d invalid trace lines",
		throughput, sumAll(h.Stats.ReadOps), sumAll(h.Stats.WriteOps), traceStats.InvalidLines)

	return 0
}

func runSweep(cfg config.Config, ops []driver.Operation, reg *metrics.Registry, log obslog.Logger) int {
	if cfg.SweepFile == "" {
		log.Error("--sweep requires --sweep-file")
		return 1
	}

	configs, err := loadSweepConfigs(cfg.SweepFile)
	if err != nil {
		log.Errorf("loading sweep file: %v", err)
		return 1
	}

	if cfg.AdminAddr != "" {
		// Individual runs don't share a Stats object (spec.md §5: no
		// state shared across runs), so /stats here reports a fixed
		// empty snapshot; /metrics is what's live during a sweep.
		admin := adminserver.New(cfg.AdminAddr, reg, func() *hierarchy.Stats { return hierarchy.NewStats() }, log)
		go func() {
			if err := admin.Start(); err != nil {
				log.Warningf("admin server stopped: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = admin.Shutdown(ctx)
		}()
	}

	results := sweep.Run(context.Background(), configs, ops, 0, log)

	for _, r := range results {
		if r.Err != nil {
			log.Warningf("sweep[%d] (%s/%s) failed: %v", r.Index, r.Config.HierarchyType, r.Config.CachingType, r.Err)
			continue
		}
		log.Infof("sweep[%d] (%s/%s): %.2f ops/sec", r.Index, r.Config.HierarchyType, r.Config.CachingType, r.ThroughputOps)
	}

	if err := os.WriteFile(cfg.SummaryFile, []byte(formatSweepSummary(results)), 0o644); err != nil {
		log.Errorf("writing summary file: %v", err)
		return 1
	}

	return 0
}

func sumAll(m map[hierarchy.TierKind]int64) int64 {
	var total int64
	for _, n := range m {
		total += n
	}
	return total
}
