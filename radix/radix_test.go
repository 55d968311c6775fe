package radix

import (
	"net/netip"
	"testing"
)

func TestNew(t *testing.T) {
	r := New[uint64]()
	if r == nil {
		t.Fatalf("expected a new trie to not be nil")
	}
}

func TestInsertAndLookupLongestMatch(t *testing.T) {
	r := New[uint64]()
	r.Insert(netip.MustParsePrefix("10.1.0.0/16"), 100)
	r.Insert(netip.MustParsePrefix("10.1.1.0/24"), 10)
	r.Insert(netip.MustParsePrefix("10.1.1.128/25"), 1)

	v, ok := r.Lookup(netip.MustParseAddr("10.1.1.200"))
	if !ok || v != 1 {
		t.Fatalf("expected the most specific /25 match (1), got %d ok=%v", v, ok)
	}
	v, ok = r.Lookup(netip.MustParseAddr("10.1.1.5"))
	if !ok || v != 10 {
		t.Fatalf("expected the /24 match (10), got %d ok=%v", v, ok)
	}
	v, ok = r.Lookup(netip.MustParseAddr("10.1.2.5"))
	if !ok || v != 100 {
		t.Fatalf("expected the /16 match (100), got %d ok=%v", v, ok)
	}
}

func TestLookupMissReturnsFalse(t *testing.T) {
	r := New[uint64]()
	r.Insert(netip.MustParsePrefix("10.1.1.0/24"), 10)
	if _, ok := r.Lookup(netip.MustParseAddr("192.0.2.1")); ok {
		t.Fatalf("expected no match outside any inserted prefix")
	}
}

func TestInsertReplacesExistingExactPrefix(t *testing.T) {
	r := New[uint64]()
	r.Insert(netip.MustParsePrefix("10.1.1.0/24"), 10)
	r.Insert(netip.MustParsePrefix("10.1.1.0/24"), 20)
	v, ok := r.Lookup(netip.MustParseAddr("10.1.1.5"))
	if !ok || v != 20 {
		t.Fatalf("expected the replaced value (20), got %d ok=%v", v, ok)
	}
}

func TestInsertOutOfOrderStillNests(t *testing.T) {
	r := New[uint64]()
	r.Insert(netip.MustParsePrefix("10.2.1.0/24"), 6)
	r.Insert(netip.MustParsePrefix("10.2.0.0/16"), 7)

	v, ok := r.Lookup(netip.MustParseAddr("10.2.1.1"))
	if !ok || v != 6 {
		t.Fatalf("expected the /24 (6) to still win after a broader prefix is inserted later, got %d ok=%v", v, ok)
	}
	v, ok = r.Lookup(netip.MustParseAddr("10.2.5.1"))
	if !ok || v != 7 {
		t.Fatalf("expected the /16 (7) outside the /24, got %d ok=%v", v, ok)
	}
}
