package policy_test

import (
	"testing"

	"github.com/gnsim/tiercache/internal/policy"
)

func TestLRU_RecencyEviction(t *testing.T) {
	t.Parallel()

	l := policy.NewLRU(3, 0)
	l.Put(1, policy.Clean)
	l.Put(2, policy.Clean)
	l.Put(3, policy.Clean)
	l.Get(1) // touch 1, making 2 the least recently used
	l.Put(4, policy.Clean)

	if _, ok := l.Get(2); ok {
		t.Fatalf("expected key 2 evicted as LRU victim")
	}
	if val, ok := l.Get(1); !ok || val != policy.Clean {
		t.Fatalf("expected key 1 to remain, got %v %v", val, ok)
	}
}

func TestLRU_ReinsertMovesToMRU(t *testing.T) {
	t.Parallel()

	l := policy.NewLRU(2, 0)
	l.Put(1, policy.Clean)
	l.Put(2, policy.Clean)
	l.Put(1, policy.Dirty) // touches 1, 2 becomes LRU victim

	v := l.Put(3, policy.Clean)
	if !v.Valid || v.BlockID != 2 {
		t.Fatalf("expected victim 2, got %+v", v)
	}
	if val, ok := l.Get(1); !ok || val != policy.Dirty {
		t.Fatalf("expected key 1 Dirty, got %v %v", val, ok)
	}
}

func TestLRU_SizeNeverExceedsCapacity(t *testing.T) {
	t.Parallel()

	l := policy.NewLRU(5, 0)
	for i := range policy.BlockID(50) {
		l.Put(i, policy.Clean)
		l.Get(i / 2)
		if l.Size() > l.Capacity() {
			t.Fatalf("size %d exceeded capacity %d", l.Size(), l.Capacity())
		}
	}
}
