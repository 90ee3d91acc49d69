// Package config defines the simulator's configuration surface and
// loads it the way the teacher's configloader package composes
// sources: a defaults struct, an optional YAML/JSON file, environment
// variables under a TIERCACHE_ prefix, and finally pflag command-line
// flags — in that precedence order (SPEC_FULL.md §6.4).
package config

import (
	"fmt"
	"strings"

	"github.com/gnsim/tiercache/configloader"
	"github.com/gnsim/tiercache/internal/latency"
	"github.com/gnsim/tiercache/internal/policy"
	"github.com/spf13/pflag"
)

// Config carries every field spec.md §6 names plus the ambient
// additions SPEC_FULL.md §6.4 lists (SyncProbability, Sweep,
// WarmupFraction).
type Config struct {
	HierarchyType string `koanf:"hierarchy_type"`
	DiskMode      string `koanf:"disk_mode"`
	CachingType   string `koanf:"caching_type"`
	SizeType      string `koanf:"size_type"`
	SizeRatioType string `koanf:"size_ratio_type"`
	LatencyType   string `koanf:"latency_type"`

	MigrationFrequency int `koanf:"migration_frequency"`
	OperationCount     int `koanf:"operation_count"`

	FileName    string `koanf:"file_name"`
	SummaryFile string `koanf:"summary_file"`

	Emulate       bool `koanf:"emulate"`
	LargeFileMode bool `koanf:"large_file_mode"`

	SyncProbability float64 `koanf:"sync_probability"`
	WarmupFraction  float64 `koanf:"warmup_fraction"`

	Sweep     bool   `koanf:"sweep"`
	SweepFile string `koanf:"sweep_file"`

	AdminAddr string `koanf:"admin_addr"`
}

// Defaults returns the baseline configuration every other source
// overrides, mirroring spec.md §6's named defaults.
func Defaults() Config {
	return Config{
		HierarchyType:      "DRAM-DISK",
		DiskMode:           "ssd",
		CachingType:        "lru",
		SizeType:           "1",
		SizeRatioType:      "1",
		LatencyType:        "1",
		MigrationFrequency: 8,
		OperationCount:     0,
		FileName:           "",
		SummaryFile:        "summary.txt",
		Emulate:            false,
		LargeFileMode:      false,
		SyncProbability:    0.02,
		WarmupFraction:     0.10,
		Sweep:              false,
		SweepFile:          "",
		AdminAddr:          "",
	}
}

// RegisterFlags binds every Config field to a pflag.FlagSet, the shape
// configloader.WithFlags expects.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("hierarchy-type", d.HierarchyType, "tier topology: NVM, DRAM-NVM, DRAM-DISK, NVM-DISK, or DRAM-NVM-DISK")
	fs.String("disk-mode", d.DiskMode, "disk latency preset: ssd or hdd")
	fs.String("caching-type", d.CachingType, "eviction policy: fifo, lru, lfu, or arc")
	fs.String("size-type", d.SizeType, "DRAM size selector 1-4 (4096/8192/16384/32768 blocks)")
	fs.String("size-ratio-type", d.SizeRatioType, "NVM-to-DRAM capacity ratio selector 1-4 (32/64/128/256)")
	fs.String("latency-type", d.LatencyType, "NVM cost multiplier selector 1-8 (read_factor, write_factor)")
	fs.Int("migration-frequency", d.MigrationFrequency, "1/N probability of NVM->DRAM promotion")
	fs.Int("operation-count", d.OperationCount, "cap on operations replayed, 0 for unbounded")
	fs.String("file", d.FileName, "trace file path")
	fs.String("summary-file", d.SummaryFile, "output path for the throughput summary")
	fs.Bool("emulate", d.Emulate, "perform real file I/O alongside the modeled latency")
	fs.Bool("large-file-mode", d.LargeFileMode, "pre-size emulation files for large traces")
	fs.Float64("sync-probability", d.SyncProbability, "probability a write also charges a sync")
	fs.Float64("warmup-fraction", d.WarmupFraction, "fraction of the trace replayed before Stats reset")
	fs.Bool("sweep", d.Sweep, "run every configuration in --sweep-file in parallel")
	fs.String("sweep-file", d.SweepFile, "YAML file listing sweep configurations")
	fs.String("admin-addr", d.AdminAddr, "if set, serve /metrics and /stats on this address")
}

// Load composes defaults, an optional file, TIERCACHE_-prefixed
// environment variables, and fs in that precedence order. The env
// source turns every underscore after the prefix into a key separator,
// so only single-word fields (TIERCACHE_EMULATE, TIERCACHE_SWEEP) are
// set from the environment; multi-word fields are not.
func Load(filePath string, fs *pflag.FlagSet) (Config, error) {
	opts := []configloader.Option[Config]{
		configloader.WithDefaults(Defaults()),
	}
	if filePath != "" {
		opts = append(opts, configloader.WithFile[Config](filePath))
	}
	opts = append(opts, configloader.WithEnv[Config]("TIERCACHE_"))
	if fs != nil {
		// Flags are registered under CLI names ("caching-type", "file");
		// re-key them to the koanf tags so a set flag reaches its field.
		keyed := pflag.NewFlagSet("config", pflag.ContinueOnError)
		fs.VisitAll(func(f *pflag.Flag) {
			k := *f
			k.Name = strings.ReplaceAll(f.Name, "-", "_")
			if k.Name == "file" {
				k.Name = "file_name"
			}
			keyed.AddFlag(&k)
		})
		opts = append(opts, configloader.WithFlags[Config](keyed))
	}

	return configloader.NewConfigLoader(opts...).Load()
}

// ParseCaching resolves CachingType, fatal-by-contract on an unknown
// value (the caller translates the returned error into a logged exit
// per SPEC_FULL.md §7).
func (c Config) ParseCaching() (policy.CachingType, error) {
	caching, ok := policy.ParseCachingType(c.CachingType)
	if !ok {
		return policy.CachingInvalid, fmt.Errorf("config: unknown caching_type %q", c.CachingType)
	}
	return caching, nil
}

// ParseDiskMode resolves DiskMode.
func (c Config) ParseDiskMode() (latency.DiskMode, error) {
	mode, ok := latency.ParseDiskMode(c.DiskMode)
	if !ok {
		return 0, fmt.Errorf("config: unknown disk_mode %q", c.DiskMode)
	}
	return mode, nil
}

// NVMFactors resolves LatencyType (selector 1..8) into the (read, write)
// multipliers NVM's latency is derived from DRAM by, per spec.md §6's
// exact eight-pair table.
func (c Config) NVMFactors() (read, write int, err error) {
	switch c.LatencyType {
	case "1":
		return 1, 1, nil
	case "2", "":
		return 2, 2, nil
	case "3":
		return 2, 4, nil
	case "4":
		return 2, 8, nil
	case "5":
		return 4, 4, nil
	case "6":
		return 4, 8, nil
	case "7":
		return 10, 20, nil
	case "8":
		return 20, 40, nil
	default:
		return 0, 0, fmt.Errorf("config: unknown latency_type %q", c.LatencyType)
	}
}

// HierarchyTiers resolves HierarchyType, SizeType, and SizeRatioType
// into the ordered tier list internal/hierarchy.New builds from, per
// spec.md §6's literal hierarchy_type/size_type/size_ratio_type enums.
func (c Config) HierarchyTiers(caching policy.CachingType) ([]TierSpec, error) {
	base, err := baseCapacity(c.SizeType)
	if err != nil {
		return nil, err
	}
	ratio, err := sizeRatio(c.SizeRatioType)
	if err != nil {
		return nil, err
	}

	kinds, ok := hierarchyPresets[normalizeHierarchyType(c.HierarchyType)]
	if !ok {
		return nil, fmt.Errorf("config: unknown hierarchy_type %q", c.HierarchyType)
	}

	specs := make([]TierSpec, len(kinds))
	for i, kind := range kinds {
		capacity := base
		for j := 0; j < i; j++ {
			capacity *= ratio
		}
		specs[i] = TierSpec{Kind: kind, Capacity: capacity, Caching: caching}
	}
	return specs, nil
}

// TierSpec is the resolved (kind, capacity, policy) triple
// internal/hierarchy.Config is built from, kept in internal/config so
// the hierarchy presets below stay next to the config fields that pick
// them.
type TierSpec struct {
	Kind     latency.TierKind
	Capacity int
	Caching  policy.CachingType
}

// normalizeHierarchyType accepts the spec's literal hyphenated enum
// case-insensitively, plus underscore-separated spellings (CLI/YAML
// callers routinely write "dram_disk" for "DRAM-DISK").
func normalizeHierarchyType(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
}

// hierarchyPresets resolves spec.md §6's five named topologies, plus two
// CPU-cache-fronted extensions internal/hierarchy also supports (the
// spec's enumerated hierarchy_type values never include a cache tier,
// but nothing in §4 forbids one).
var hierarchyPresets = map[string][]latency.TierKind{
	"NVM":               {latency.NVM},
	"DRAM-NVM":          {latency.DRAM, latency.NVM},
	"DRAM-DISK":         {latency.DRAM, latency.Disk},
	"NVM-DISK":          {latency.NVM, latency.Disk},
	"DRAM-NVM-DISK":     {latency.DRAM, latency.NVM, latency.Disk},
	"CPU-DRAM-DISK":     {latency.CPUCache, latency.DRAM, latency.Disk},
	"CPU-DRAM-NVM-DISK": {latency.CPUCache, latency.DRAM, latency.NVM, latency.Disk},
}

// baseCapacity resolves SizeType (selector 1..4) into spec.md §6's
// DRAM-size enum: 4096, 8192, 16384, 32768 blocks, doubling.
func baseCapacity(sizeType string) (int, error) {
	switch sizeType {
	case "1", "":
		return 4096, nil
	case "2":
		return 8192, nil
	case "3":
		return 16384, nil
	case "4":
		return 32768, nil
	default:
		return 0, fmt.Errorf("config: unknown size_type %q", sizeType)
	}
}

// sizeRatio resolves SizeRatioType (selector 1..4) into spec.md §6's
// NVM-to-DRAM ratio enum: 32, 64, 128, 256.
func sizeRatio(ratioType string) (int, error) {
	switch ratioType {
	case "1", "":
		return 32, nil
	case "2":
		return 64, nil
	case "3":
		return 128, nil
	case "4":
		return 256, nil
	default:
		return 0, fmt.Errorf("config: unknown size_ratio_type %q", ratioType)
	}
}
