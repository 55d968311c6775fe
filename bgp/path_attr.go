package bgp

import "bytes"

// PathAttr is one path-attribute TLV: flags, type code, and value bytes.
// The length field's on-wire width (one octet, or two when the extended
// bit is set) is derived from Flags rather than stored twice.
//
// PathAttr is value-typed and totally ordered by (TypeCode, Value) so
// interning (package intern, which builds its own string key from
// Flags, TypeCode and Value) and §8.2's invariant V2 (ascending sort by
// type code) have a canonical comparator.
type PathAttr struct {
	Flags    AttrFlags
	TypeCode PathAttrTypeCode
	Value    []byte
}

// LengthOctets returns how many octets the length field occupies on the
// wire: 2 when Flags.Extended(), else 1.
func (a PathAttr) LengthOctets() int {
	if a.Flags.Extended() {
		return 2
	}
	return 1
}

// Len is the value length in octets — what the wire length field
// actually encodes.
func (a PathAttr) Len() int { return len(a.Value) }

// Compare orders two attributes by (TypeCode, Value) ascending, giving a
// canonical total order independent of arrival order. Flags are not
// compared: attributes that differ only in flags compare equal here,
// while Equal and the intern table's key still tell them apart.
func (a PathAttr) Compare(b PathAttr) int {
	if a.TypeCode != b.TypeCode {
		if a.TypeCode < b.TypeCode {
			return -1
		}
		return 1
	}
	return bytes.Compare(a.Value, b.Value)
}

// Equal reports whether a and b are byte-for-byte identical attributes,
// including flags (so a Partial-bit difference is a distinct attribute
// until normalized).
func (a PathAttr) Equal(b PathAttr) bool {
	return a.Flags == b.Flags && a.TypeCode == b.TypeCode && bytes.Equal(a.Value, b.Value)
}

// SortAttrs sorts attrs in place ascending by TypeCode, then by Value,
// establishing the structural invariant PathAttributeTableEntry relies
// on (spec §3, invariant V2).
func SortAttrs(attrs []PathAttr) {
	// insertion sort: attribute lists are small (typically under a
	// dozen entries), so this avoids pulling in sort.Slice's closure
	// overhead for a hot path.
	for i := 1; i < len(attrs); i++ {
		for j := i; j > 0 && attrs[j-1].Compare(attrs[j]) > 0; j-- {
			attrs[j-1], attrs[j] = attrs[j], attrs[j-1]
		}
	}
}
