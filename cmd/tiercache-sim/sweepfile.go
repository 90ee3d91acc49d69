package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gnsim/tiercache/internal/config"
	"github.com/gnsim/tiercache/internal/sweep"
	"gopkg.in/yaml.v3"
)

// loadSweepConfigs reads a YAML file listing sweep configuration
// overrides, one per list entry, each merged on top of config.Defaults
// (SPEC_FULL.md §5's --sweep mode).
func loadSweepConfigs(path string) ([]config.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep file: %w", err)
	}

	var overrides []config.Config
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parsing sweep file: %w", err)
	}

	defaults := config.Defaults()
	configs := make([]config.Config, len(overrides))
	for i, o := range overrides {
		merged := defaults
		mergeNonZero(&merged, o)
		configs[i] = merged
	}
	return configs, nil
}

// mergeNonZero overlays non-zero-valued fields of o onto dst, since a
// sweep-file entry typically overrides only a handful of fields (e.g.
// caching_type, size_type) and leaves the rest at their defaults.
func mergeNonZero(dst *config.Config, o config.Config) {
	if o.HierarchyType != "" {
		dst.HierarchyType = o.HierarchyType
	}
	if o.DiskMode != "" {
		dst.DiskMode = o.DiskMode
	}
	if o.CachingType != "" {
		dst.CachingType = o.CachingType
	}
	if o.SizeType != "" {
		dst.SizeType = o.SizeType
	}
	if o.SizeRatioType != "" {
		dst.SizeRatioType = o.SizeRatioType
	}
	if o.LatencyType != "" {
		dst.LatencyType = o.LatencyType
	}
	if o.MigrationFrequency != 0 {
		dst.MigrationFrequency = o.MigrationFrequency
	}
	if o.OperationCount != 0 {
		dst.OperationCount = o.OperationCount
	}
	if o.SyncProbability != 0 {
		dst.SyncProbability = o.SyncProbability
	}
	if o.WarmupFraction != 0 {
		dst.WarmupFraction = o.WarmupFraction
	}
	dst.Emulate = o.Emulate
	dst.LargeFileMode = o.LargeFileMode
}

// formatSweepSummary renders one "index\tcaching\tsize\tthroughput\tstatus"
// line per result (status is "ok" or the run's error text), the sweep-mode analog of the single-value SummaryFile a
// non-sweep run writes.
func formatSweepSummary(results []sweep.Result) string {
	var b strings.Builder
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(&b, "%d\t%s\t%s\t%.2f\t%s\n", r.Index, r.Config.CachingType, r.Config.SizeType, r.ThroughputOps, status)
	}
	return b.String()
}
