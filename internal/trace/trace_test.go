package trace_test

import (
	"strings"
	"testing"

	"github.com/gnsim/tiercache/internal/driver"
	"github.com/gnsim/tiercache/internal/policy"
	"github.com/gnsim/tiercache/internal/trace"
)

func TestScan_ValidLines(t *testing.T) {
	t.Parallel()

	input := "r 0 5\nw 1 3\nf 2 7\n"
	ops, stats := trace.Scan(strings.NewReader(input))

	if stats.ValidLines != 3 || stats.InvalidLines != 0 {
		t.Fatalf("stats = %+v, want 3 valid, 0 invalid", stats)
	}

	want := []driver.Operation{
		{Op: driver.OpRead, Block: policy.BlockID(5)},
		{Op: driver.OpWrite, Block: policy.BlockID(13)},
		{Op: driver.OpFlush, Block: policy.BlockID(27)},
	}
	if len(ops) != len(want) {
		t.Fatalf("got %d ops, want %d", len(ops), len(want))
	}
	for i, op := range ops {
		if op != want[i] {
			t.Fatalf("ops[%d] = %+v, want %+v", i, op, want[i])
		}
	}
}

func TestScan_SkipsMalformedLines(t *testing.T) {
	t.Parallel()

	input := "r 0 5\n" + // valid
		"x 0 5\n" + // unknown op
		"r 0\n" + // too few fields
		"r a 5\n" + // bad fork id
		"r 0 b\n" + // bad block id
		"\n" + // blank line
		"w 1 1\n" // valid

	ops, stats := trace.Scan(strings.NewReader(input))

	if stats.ValidLines != 2 {
		t.Fatalf("ValidLines = %d, want 2", stats.ValidLines)
	}
	if stats.InvalidLines != 5 {
		t.Fatalf("InvalidLines = %d, want 5", stats.InvalidLines)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d ops, want 2", len(ops))
	}
}

func TestScan_Empty(t *testing.T) {
	t.Parallel()

	ops, stats := trace.Scan(strings.NewReader(""))
	if len(ops) != 0 || stats.ValidLines != 0 || stats.InvalidLines != 0 {
		t.Fatalf("expected empty scan, got %d ops, %+v", len(ops), stats)
	}
}
