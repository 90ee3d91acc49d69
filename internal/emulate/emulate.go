// Package emulate backs the optional "--emulate" mode (SPEC_FULL.md
// §6.3) with real file I/O alongside the modeled latency: one
// pre-sized file per tier, block_id*BlockSize offsets, real
// ReadAt/WriteAt/Sync. This has no role in the latency model itself —
// it exists only to exercise the storage path against real bytes for
// callers who want to sanity-check the simulation against actual
// device behavior.
package emulate

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gnsim/tiercache/circuitbreaker"
	"github.com/gnsim/tiercache/internal/driver"
	"github.com/gnsim/tiercache/internal/hierarchy"
	"github.com/gnsim/tiercache/internal/policy"
	"github.com/gnsim/tiercache/retry"
)

// BlockSize is the fixed logical block size every emulated file is
// addressed in, matching the 4 KiB default in spec.md §3.
const BlockSize = 4096

const (
	smallFileSize = 1 << 30      // 1 GiB
	largeFileSize = 32 << 30     // 32 GiB, selected tier gets this under LargeFileMode
	midFileSize   = 8 << 30      // 8 GiB, the remaining tiers under LargeFileMode
)

// Backend emulates physical storage for one tier: a single pre-sized
// file, accessed at block*BlockSize offsets, guarded by a retry policy
// for transient failures and a circuit breaker that gives up on a tier
// whose backing file has gone bad.
type Backend struct {
	tier    hierarchy.TierKind
	file    *os.File
	breaker *circuitbreaker.CircuitBreaker
}

// Sink emulates every tier in a Hierarchy, implementing
// driver.PhysicalIOFunc via its Do method.
type Sink struct {
	dir      string
	backends map[hierarchy.TierKind]*Backend
	onDegrade func(tier hierarchy.TierKind, err error)
}

// New creates pre-sized backing files under dir for each kind in
// tiers. largeFileMode sizes the last tier (the durable store) at
// 32 GiB and every other tier at 8 GiB instead of the 1 GiB default,
// matching original_source/src/device.cpp's BootstrapFileSystemForEmulation
// large-trace accommodation.
func New(dir string, tiers []hierarchy.TierKind, lastTier hierarchy.TierKind, largeFileMode bool) (*Sink, error) {
	s := &Sink{dir: dir, backends: make(map[hierarchy.TierKind]*Backend)}

	for _, kind := range tiers {
		size := int64(smallFileSize)
		if largeFileMode {
			if kind == lastTier {
				size = largeFileSize
			} else {
				size = midFileSize
			}
		}

		path := fmt.Sprintf("%s/%s.tier", dir, kind.String())
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			return nil, fmt.Errorf("emulate: open %s: %w", path, err)
		}
		if err := f.Truncate(size); err != nil {
			return nil, fmt.Errorf("emulate: truncate %s: %w", path, err)
		}

		s.backends[kind] = &Backend{
			tier: kind,
			file: f,
			breaker: circuitbreaker.New(
				circuitbreaker.WithThreshold(5),
				circuitbreaker.WithTimeout(10*time.Second),
			),
		}
	}

	return s, nil
}

// OnDegrade registers a callback fired when a tier's circuit trips and
// further physical I/O for it is skipped.
func (s *Sink) OnDegrade(fn func(tier hierarchy.TierKind, err error)) {
	s.onDegrade = fn
}

// Do implements driver.PhysicalIOFunc: perform the real ReadAt/WriteAt
// (and, on a flush, Sync) for block against tier's backing file,
// making up to 3 attempts for any failure. An error that survives the
// attempts is returned (the Driver treats it as fatal) and counts
// toward the tier's circuit breaker; once the breaker is open, physical
// I/O for that tier is skipped, OnDegrade fires, and nil is returned.
func (s *Sink) Do(tier hierarchy.TierKind, op driver.Op, block policy.BlockID) error {
	backend, ok := s.backends[tier]
	if !ok {
		return nil
	}

	err := backend.breaker.Execute(func() error {
		return retry.Do(context.Background(), func(context.Context) error {
			return s.physicalOp(backend, op, block)
		}, retry.WithMaxAttempts(3), retry.WithStrategy(retry.StrategyConstant))
	})

	if err == circuitbreaker.ErrCircuitOpen {
		if s.onDegrade != nil {
			s.onDegrade(tier, err)
		}
		return nil
	}

	return err
}

func (s *Sink) physicalOp(b *Backend, op driver.Op, block policy.BlockID) error {
	offset := int64(block) * BlockSize

	switch op {
	case driver.OpRead:
		buf := make([]byte, BlockSize)
		_, err := b.file.ReadAt(buf, offset)
		return err
	case driver.OpWrite:
		buf := make([]byte, BlockSize)
		_, err := b.file.WriteAt(buf, offset)
		return err
	case driver.OpFlush:
		return b.file.Sync()
	default:
		return nil
	}
}

// Close closes every backing file.
func (s *Sink) Close() error {
	var firstErr error
	for _, b := range s.backends {
		if err := b.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
