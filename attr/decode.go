package attr

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/relaybgp/bgpd/bgp"
)

// DecodeOrigin parses an ORIGIN attribute's single-octet value.
func DecodeOrigin(value []byte) (bgp.OriginValue, error) {
	if len(value) != 1 {
		return 0, fmt.Errorf("attr: ORIGIN value must be 1 octet, got %d", len(value))
	}
	o := bgp.OriginValue(value[0])
	if !o.Valid() {
		return 0, fmt.Errorf("attr: invalid ORIGIN value %d", value[0])
	}
	return o, nil
}

// DecodeUint32 parses a 4-octet attribute value (MED, LOCAL_PREF).
func DecodeUint32(value []byte) (uint32, error) {
	if len(value) != 4 {
		return 0, fmt.Errorf("attr: expected 4-octet value, got %d", len(value))
	}
	return binary.BigEndian.Uint32(value), nil
}

// DecodeNextHop parses a NEXT_HOP attribute's 4- or 16-octet address.
func DecodeNextHop(value []byte) (netip.Addr, error) {
	switch len(value) {
	case 4:
		return netip.AddrFrom4([4]byte(value)), nil
	case 16:
		return netip.AddrFrom16([16]byte(value)), nil
	default:
		return netip.Addr{}, fmt.Errorf("attr: NEXT_HOP must be 4 or 16 octets, got %d", len(value))
	}
}

// DecodeAsPath parses an AS_PATH attribute's value bytes into segments.
// A segment declaring n=0 is malformed (spec §8 boundary cases).
func DecodeAsPath(value []byte) ([]bgp.AsPathSegment, error) {
	var segments []bgp.AsPathSegment
	i := 0
	for i < len(value) {
		if i+2 > len(value) {
			return nil, fmt.Errorf("attr: truncated AS_PATH segment header")
		}
		segType := bgp.AsPathSegmentType(value[i])
		n := int(value[i+1])
		i += 2
		if n == 0 {
			return nil, fmt.Errorf("attr: AS_PATH segment with n=0 is malformed")
		}
		if i+n*2 > len(value) {
			return nil, fmt.Errorf("attr: truncated AS_PATH segment value")
		}
		asns := make([]bgp.ASN, n)
		for j := 0; j < n; j++ {
			asns[j] = bgp.ASN(binary.BigEndian.Uint16(value[i : i+2]))
			i += 2
		}
		segments = append(segments, bgp.AsPathSegment{Type: segType, ASNs: asns})
	}
	return segments, nil
}

// Length returns the total number of ASNs across all segments — the
// AS_PATH length used by decision tie-break stage 2 (spec §4.4).
func Length(segments []bgp.AsPathSegment) int {
	n := 0
	for _, seg := range segments {
		n += len(seg.ASNs)
	}
	return n
}

// LastAS returns the rightmost AS in the path, used to gate MED
// comparison (decision tie-break stage 4, spec §4.4 and §9 open
// question on leftmost-vs-rightmost). Returns false if the path is
// empty (e.g. an iBGP-originated route with no AS_PATH segments).
func LastAS(segments []bgp.AsPathSegment) (bgp.ASN, bool) {
	if len(segments) == 0 {
		return 0, false
	}
	last := segments[len(segments)-1]
	if len(last.ASNs) == 0 {
		return 0, false
	}
	return last.ASNs[len(last.ASNs)-1], true
}
