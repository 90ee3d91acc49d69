package policy

// CachingType selects which Policy variant backs a tier.
type CachingType int

const (
	CachingInvalid CachingType = iota
	CachingFIFO
	CachingLRU
	CachingLFU
	CachingARC
)

func (c CachingType) String() string {
	switch c {
	case CachingFIFO:
		return "FIFO"
	case CachingLRU:
		return "LRU"
	case CachingLFU:
		return "LFU"
	case CachingARC:
		return "ARC"
	default:
		return "INVALID"
	}
}

// ParseCachingType parses a configuration string ("fifo", "lru", "lfu",
// "arc", all lower- or all upper-case) into a CachingType, returning
// (CachingInvalid, false) for anything else — an unknown configuration
// enum value is a fatal startup error per SPEC_FULL.md §6.4, and the
// caller (internal/config) is responsible for treating the false here
// as that fatal condition.
func ParseCachingType(s string) (CachingType, bool) {
	switch s {
	case "fifo", "FIFO":
		return CachingFIFO, true
	case "lru", "LRU":
		return CachingLRU, true
	case "lfu", "LFU":
		return CachingLFU, true
	case "arc", "ARC":
		return CachingARC, true
	default:
		return CachingInvalid, false
	}
}

// New constructs the Policy variant named by caching, bounded to
// capacity entries. cleanFraction is forwarded to every constructor but
// used by none of the four (SPEC_FULL.md §4.1's reserved HARC knob).
func New(caching CachingType, capacity int, cleanFraction float64) Policy {
	switch caching {
	case CachingFIFO:
		return NewFIFO(capacity, cleanFraction)
	case CachingLRU:
		return NewLRU(capacity, cleanFraction)
	case CachingLFU:
		return NewLFU(capacity, cleanFraction)
	case CachingARC:
		return NewARC(capacity, cleanFraction)
	default:
		invariant("policy.New", "unknown caching type %v", caching)
		return nil
	}
}
