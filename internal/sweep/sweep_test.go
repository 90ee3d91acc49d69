package sweep_test

import (
	"context"
	"io"
	"testing"

	"github.com/gnsim/tiercache/internal/config"
	"github.com/gnsim/tiercache/internal/driver"
	"github.com/gnsim/tiercache/internal/obslog"
	"github.com/gnsim/tiercache/internal/policy"
	"github.com/gnsim/tiercache/internal/sweep"
)

func testOps() []driver.Operation {
	var ops []driver.Operation
	for i := policy.BlockID(0); i < 50; i++ {
		ops = append(ops,
			driver.Operation{Op: driver.OpWrite, Block: i},
			driver.Operation{Op: driver.OpRead, Block: i},
			driver.Operation{Op: driver.OpFlush, Block: i},
		)
	}
	return ops
}

func TestRun_OneResultPerConfigInOrder(t *testing.T) {
	t.Parallel()

	configs := []config.Config{
		config.Defaults(),
		withCaching(config.Defaults(), "lru"),
		withCaching(config.Defaults(), "arc"),
	}
	for i := range configs {
		configs[i].WarmupFraction = 0
	}

	log := obslog.NewConsoleLogger(io.Discard)
	results := sweep.Run(context.Background(), configs, testOps(), 2, log)

	if len(results) != len(configs) {
		t.Fatalf("got %d results, want %d", len(results), len(configs))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("results[%d].Index = %d, want %d", i, r.Index, i)
		}
		if r.Err != nil {
			t.Fatalf("results[%d].Err = %v, want nil", i, r.Err)
		}
		if r.Stats == nil {
			t.Fatalf("results[%d].Stats is nil", i)
		}
	}
}

func TestRun_InvalidConfigReportsError(t *testing.T) {
	t.Parallel()

	bad := config.Defaults()
	bad.HierarchyType = "not_a_real_topology"

	log := obslog.NewConsoleLogger(io.Discard)
	results := sweep.Run(context.Background(), []config.Config{bad}, testOps(), 1, log)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Err == nil {
		t.Fatalf("expected an error for an unknown hierarchy_type")
	}
}

func withCaching(cfg config.Config, caching string) config.Config {
	cfg.CachingType = caching
	return cfg
}
