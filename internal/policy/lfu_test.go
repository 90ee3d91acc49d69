package policy_test

import (
	"testing"

	"github.com/gnsim/tiercache/internal/policy"
)

func TestLFU_EvictsLeastFrequent(t *testing.T) {
	t.Parallel()

	l := policy.NewLFU(3, 0)
	l.Put(1, policy.Clean)
	l.Put(2, policy.Clean)
	l.Put(3, policy.Clean)

	// Access 1 and 2 to raise their frequency above 3's.
	l.Get(1)
	l.Get(2)
	l.Get(1)

	v := l.Put(4, policy.Clean)
	if !v.Valid || v.BlockID != 3 {
		t.Fatalf("expected victim 3 (least frequent), got %+v", v)
	}
}

func TestLFU_TiesBreakByInsertionOrder(t *testing.T) {
	t.Parallel()

	l := policy.NewLFU(2, 0)
	l.Put(1, policy.Clean) // frequency 1, inserted first
	l.Put(2, policy.Clean) // frequency 1, inserted second

	// Neither key is touched: both sit at frequency 1, earliest wins.
	v := l.Put(3, policy.Clean)
	if !v.Valid || v.BlockID != 1 {
		t.Fatalf("expected tie-break victim 1 (earliest inserted), got %+v", v)
	}
}

func TestLFU_SizeNeverExceedsCapacity(t *testing.T) {
	t.Parallel()

	l := policy.NewLFU(4, 0)
	for i := range policy.BlockID(40) {
		l.Put(i, policy.Clean)
		if l.Size() > l.Capacity() {
			t.Fatalf("size %d exceeded capacity %d", l.Size(), l.Capacity())
		}
	}
}
