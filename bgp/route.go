package bgp

import "net/netip"

// Route is an NLRI or withdrawn-route entry: a prefix length paired with
// an address. It is immutable after construction. The address is kept
// at full IPv4 or IPv6 width, with every bit past PrefixLength zeroed
// by NewRoute and RouteFromPrefix.
type Route struct {
	prefix netip.Prefix
}

// NewRoute builds a Route from a prefix length and an address. The
// address is masked to its canonical form so two Routes covering the
// same destination always compare equal.
func NewRoute(addr netip.Addr, prefixLength int) Route {
	p := netip.PrefixFrom(addr, prefixLength)
	return Route{prefix: p.Masked()}
}

// RouteFromPrefix wraps an already-built netip.Prefix.
func RouteFromPrefix(p netip.Prefix) Route {
	return Route{prefix: p.Masked()}
}

// Addr returns the route's address (IPv4 or IPv6).
func (r Route) Addr() netip.Addr { return r.prefix.Addr() }

// PrefixLength returns the number of significant leading bits.
func (r Route) PrefixLength() int { return r.prefix.Bits() }

// Prefix returns the canonical netip.Prefix this route represents.
func (r Route) Prefix() netip.Prefix { return r.prefix }

// Is4 reports whether this is an IPv4 route.
func (r Route) Is4() bool { return r.prefix.Addr().Is4() }

// WireLength returns the on-wire encoded length in octets: 1 length
// octet plus ceil(prefixLength/8) address octets (spec §3).
func (r Route) WireLength() int {
	return 1 + (r.prefix.Bits()+7)/8
}

// Key returns a comparable value suitable for use as a map key, since
// netip.Prefix is itself comparable but we want the masked form.
func (r Route) Key() netip.Prefix { return r.prefix }

func (r Route) String() string { return r.prefix.String() }
