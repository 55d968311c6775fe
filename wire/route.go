package wire

import (
	"net/netip"

	"github.com/relaybgp/bgpd/bgp"
)

// encodeRoutes packs a list of routes as the repeated <length, prefix>
// tuples RFC 4271 §4.3 uses for both Withdrawn Routes and NLRI. This
// base UPDATE format is IPv4-only; IPv6 reachability is carried by
// multiprotocol attributes, which are out of scope here.
func encodeRoutes(routes []bgp.Route) []byte {
	var out []byte
	for _, rt := range routes {
		bits := rt.PrefixLength()
		octets := (bits + 7) / 8
		a4 := rt.Addr().As4()
		out = append(out, byte(bits))
		out = append(out, a4[:octets]...)
	}
	return out
}

// decodeRoutes unpacks a run of <length, prefix> tuples until exactly
// length bytes have been consumed.
func decodeRoutes(data []byte) ([]bgp.Route, error) {
	var routes []bgp.Route
	i := 0
	for i < len(data) {
		bits := int(data[i])
		i++
		if bits > 32 {
			return nil, errInvalidPrefixLength
		}
		octets := (bits + 7) / 8
		if i+octets > len(data) {
			return nil, errTruncatedRoute
		}
		var raw [4]byte
		copy(raw[:octets], data[i:i+octets])
		i += octets
		routes = append(routes, bgp.NewRoute(netip.AddrFrom4(raw), bits))
	}
	return routes, nil
}
