package bgp

import (
	"net/netip"
	"testing"
)

func TestNewRouteMasksAddress(t *testing.T) {
	r := NewRoute(netip.MustParseAddr("10.0.0.5"), 24)
	if r.Addr() != netip.MustParseAddr("10.0.0.0") {
		t.Errorf("expected masked address 10.0.0.0, got %s", r.Addr())
	}
	if r.PrefixLength() != 24 {
		t.Errorf("expected prefix length 24, got %d", r.PrefixLength())
	}
}

func TestRouteWireLength(t *testing.T) {
	cases := []struct {
		bits int
		want int
	}{
		{0, 1},
		{8, 2},
		{9, 3},
		{24, 4},
		{32, 5},
	}
	for _, c := range cases {
		r := NewRoute(netip.MustParseAddr("10.0.0.0"), c.bits)
		if got := r.WireLength(); got != c.want {
			t.Errorf("WireLength(/%d) = %d, want %d", c.bits, got, c.want)
		}
	}
}

func TestRouteKeyIsStableAcrossEquivalentConstruction(t *testing.T) {
	a := NewRoute(netip.MustParseAddr("10.0.0.5"), 24)
	b := RouteFromPrefix(netip.MustParsePrefix("10.0.0.0/24"))
	if a.Key() != b.Key() {
		t.Errorf("expected equivalent routes to share a key")
	}
}

func TestRouteIs4(t *testing.T) {
	v4 := NewRoute(netip.MustParseAddr("10.0.0.0"), 8)
	if !v4.Is4() {
		t.Errorf("expected IPv4 route to report Is4")
	}
	v6 := NewRoute(netip.MustParseAddr("2001:db8::"), 32)
	if v6.Is4() {
		t.Errorf("expected IPv6 route not to report Is4")
	}
}
