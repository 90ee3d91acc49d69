// Package tiercache provides the uniform façade over the four Policy
// variants (SPEC_FULL.md §4.2 / Design Note in spec.md §9): rather than
// the original's per-policy Cache<Key,Value,Policy> template
// instantiation, TierCache holds a single policy.Policy interface value
// and dispatches to whichever concrete policy a Tier was configured
// with.
package tiercache

import (
	"fmt"

	"github.com/gnsim/tiercache/internal/policy"
)

// TierCache wraps one Policy with the invariant checks every Tier needs
// regardless of which policy backs it.
type TierCache struct {
	name   string
	policy policy.Policy
}

// New wraps policy p, tagging it with name for diagnostics (e.g. the
// owning Tier's kind).
func New(name string, p policy.Policy) *TierCache {
	return &TierCache{name: name, policy: p}
}

// Put inserts or updates key, validating that any returned victim's
// status is meaningful. A policy returning a Victim with an out-of-range
// status is a coding bug — the invariant taxonomy in SPEC_FULL.md §7
// treats that as fatal, signaled here via panic for internal/driver's
// Dispatch to recover into a logged exit.
func (t *TierCache) Put(key policy.BlockID, status policy.BlockStatus) policy.Victim {
	victim := t.policy.Put(key, status)
	if victim.Valid && victim.Status != policy.Clean && victim.Status != policy.Dirty {
		panic(fmt.Sprintf("%s: victim %d carries invalid status %v", t.name, victim.BlockID, victim.Status))
	}
	return victim
}

// Get looks up key.
func (t *TierCache) Get(key policy.BlockID) (policy.BlockStatus, bool) {
	return t.policy.Get(key)
}

// Size returns the number of live entries.
func (t *TierCache) Size() int { return t.policy.Size() }

// Capacity returns the configured maximum entry count.
func (t *TierCache) Capacity() int { return t.policy.Capacity() }

// IsSequential advances and queries this tier's sequentiality detector.
func (t *TierCache) IsSequential(next policy.BlockID) bool {
	return t.policy.IsSequential(next)
}

// CountStatus returns how many live entries currently carry status.
func (t *TierCache) CountStatus(status policy.BlockStatus) int {
	count := 0
	for _, s := range t.policy.Entries() {
		if s == status {
			count++
		}
	}
	return count
}

// Print writes a human-readable occupancy summary, mirroring the
// original Cache::Print()/StorageCache::Print() console dump.
func (t *TierCache) Print() string {
	capacity := t.Capacity()
	occupied := 0
	if capacity > 0 {
		occupied = t.Size() * 100 / capacity
	}
	return fmt.Sprintf("%s: %d%% occupied (%d/%d)", t.name, occupied, t.Size(), capacity)
}
