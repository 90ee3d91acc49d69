// Package trace reads the line-oriented operation trace format
// described in spec.md §6: `<op> <fork_id> <block_id>` per line, with
// op one of r/w/f and the global block id computed as
// fork_id*10 + block_id. It is deliberately thin — the spec treats
// trace parsing as an external collaborator, so this package does only
// the minimum needed to drive a Driver from a real file.
package trace

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/gnsim/tiercache/internal/driver"
	"github.com/gnsim/tiercache/internal/policy"
)

// Stats counts the lines Scan parsed and the lines it could not parse,
// the latter mirroring the
// "malformed trace line: counted as invalid, skipped" taxonomy in
// spec.md §7 — never fatal.
type Stats struct {
	InvalidLines int64
	ValidLines   int64
}

// Scan reads every line from r, parsing valid ones into
// driver.Operation. Unknown op characters, missing fields, or
// unparseable integers are counted in Stats and skipped rather than
// aborting the scan, grounded on original_source/src/workload.cpp's
// trace-replay path.
func Scan(r io.Reader) ([]driver.Operation, Stats) {
	var (
		ops   []driver.Operation
		stats Stats
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		op, ok := parseLine(scanner.Text())
		if !ok {
			stats.InvalidLines++
			continue
		}
		stats.ValidLines++
		ops = append(ops, op)
	}

	return ops, stats
}

func parseLine(line string) (driver.Operation, bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return driver.Operation{}, false
	}

	var op driver.Op
	switch fields[0] {
	case "r":
		op = driver.OpRead
	case "w":
		op = driver.OpWrite
	case "f":
		op = driver.OpFlush
	default:
		return driver.Operation{}, false
	}

	forkID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return driver.Operation{}, false
	}
	blockID, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return driver.Operation{}, false
	}

	global := policy.BlockID(forkID*10 + blockID)
	return driver.Operation{Op: op, Block: global}, true
}
