// Package attr provides the only supported way to construct a
// bgp.PathAttr for a well-known attribute: one typed, validating
// constructor per attribute (spec §4.3). Each sets the canonical flag
// bits and writes the canonical value encoding; free-form PathAttr
// construction is not exposed here. Attributes received on the wire
// that this package does not recognize are preserved verbatim by the
// codec instead (spec §4.3).
package attr

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/relaybgp/bgpd/bgp"
)

// Origin builds the well-known ORIGIN attribute. value must be one of
// IGP, EGP, or Incomplete (spec §4.1 table).
func Origin(value bgp.OriginValue) (bgp.PathAttr, error) {
	if !value.Valid() {
		return bgp.PathAttr{}, fmt.Errorf("attr: invalid ORIGIN value %d", value)
	}
	return bgp.PathAttr{
		Flags:    bgp.FlagsWellKnownTransitive,
		TypeCode: bgp.AttrOrigin,
		Value:    []byte{uint8(value)},
	}, nil
}

// AsPath builds the well-known AS_PATH attribute from an ordered list of
// segments. A segment with zero ASNs is malformed (spec §8 boundary
// cases) and rejected here rather than produced onto the wire.
func AsPath(segments []bgp.AsPathSegment) (bgp.PathAttr, error) {
	value := make([]byte, 0, len(segments)*4)
	for _, seg := range segments {
		if len(seg.ASNs) == 0 {
			return bgp.PathAttr{}, fmt.Errorf("attr: AS_PATH segment with zero ASNs is malformed")
		}
		if len(seg.ASNs) > 255 {
			return bgp.PathAttr{}, fmt.Errorf("attr: AS_PATH segment too long (%d ASNs)", len(seg.ASNs))
		}
		value = append(value, uint8(seg.Type), uint8(len(seg.ASNs)))
		for _, as := range seg.ASNs {
			var b [2]byte
			binary.BigEndian.PutUint16(b[:], uint16(as))
			value = append(value, b[:]...)
		}
	}
	return bgp.PathAttr{
		Flags:    bgp.FlagsWellKnownTransitive,
		TypeCode: bgp.AttrAsPath,
		Value:    value,
	}, nil
}

// NextHop builds the well-known NEXT_HOP attribute. addr may be IPv4 (4
// octets) or IPv6 (16 octets) on the wire (spec §4.1 table).
func NextHop(addr netip.Addr) (bgp.PathAttr, error) {
	if !addr.IsValid() {
		return bgp.PathAttr{}, fmt.Errorf("attr: invalid NEXT_HOP address")
	}
	var value []byte
	if addr.Is4() || addr.Is4In6() {
		a4 := addr.As4()
		value = a4[:]
	} else {
		a16 := addr.As16()
		value = a16[:]
	}
	return bgp.PathAttr{
		Flags:    bgp.FlagsWellKnownTransitive,
		TypeCode: bgp.AttrNextHop,
		Value:    value,
	}, nil
}

// MED builds the optional, non-transitive MULTI_EXIT_DISC attribute.
func MED(value uint32) bgp.PathAttr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], value)
	return bgp.PathAttr{
		Flags:    bgp.FlagsOptional,
		TypeCode: bgp.AttrMultiExitDisc,
		Value:    b[:],
	}
}

// LocalPref builds the well-known LOCAL_PREF attribute. Callers are
// responsible for only attaching this to updates sent to internal peers
// (spec §3: LOCAL_PREF is present iff RouteSource is Ibgp).
func LocalPref(value uint32) bgp.PathAttr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], value)
	return bgp.PathAttr{
		Flags:    bgp.FlagsWellKnownTransitive,
		TypeCode: bgp.AttrLocalPref,
		Value:    b[:],
	}
}

// AtomicAggregate builds the well-known, zero-length ATOMIC_AGGREGATE
// attribute.
func AtomicAggregate() bgp.PathAttr {
	return bgp.PathAttr{
		Flags:    bgp.FlagsWellKnownTransitive,
		TypeCode: bgp.AttrAtomicAggregate,
		Value:    []byte{},
	}
}

// Aggregator builds the optional transitive AGGREGATOR attribute: the
// aggregating speaker's AS number followed by its IPv4 BGP identifier
// (spec §4.1 table — AGGREGATOR is IPv4-only).
func Aggregator(as bgp.ASN, speakerID netip.Addr) (bgp.PathAttr, error) {
	if !speakerID.Is4() {
		return bgp.PathAttr{}, fmt.Errorf("attr: AGGREGATOR speaker id must be IPv4, got %s", speakerID)
	}
	value := make([]byte, 6)
	binary.BigEndian.PutUint16(value[0:2], uint16(as))
	a4 := speakerID.As4()
	copy(value[2:6], a4[:])
	return bgp.PathAttr{
		Flags:    bgp.FlagsOptionalTransitive,
		TypeCode: bgp.AttrAggregator,
		Value:    value,
	}, nil
}
