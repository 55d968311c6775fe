package bgp

// AttrFlags is the one-octet flags field preceding every path attribute
// TLV (spec §3, §4.1). Bits 0-3 are unused and MUST be zero.
type AttrFlags uint8

const (
	flagOptional AttrFlags = 1 << 7
	flagTransitive AttrFlags = 1 << 6
	flagPartial    AttrFlags = 1 << 5
	flagExtended   AttrFlags = 1 << 4
)

// Canonical flag combinations for the well-known attributes (spec §4.1
// table): T = well-known transitive, O = optional non-transitive,
// OT = optional transitive.
const (
	FlagsWellKnownTransitive AttrFlags = flagTransitive
	FlagsOptional            AttrFlags = flagOptional
	FlagsOptionalTransitive  AttrFlags = flagOptional | flagTransitive
)

// Optional reports whether the optional bit (bit 7) is set.
func (f AttrFlags) Optional() bool { return f&flagOptional != 0 }

// WellKnown is the converse of Optional.
func (f AttrFlags) WellKnown() bool { return !f.Optional() }

// Transitive reports whether the transitive bit (bit 6) is set.
func (f AttrFlags) Transitive() bool { return f&flagTransitive != 0 }

// NonTransitive is the converse of Transitive.
func (f AttrFlags) NonTransitive() bool { return !f.Transitive() }

// Partial reports whether the partial bit (bit 5) is set. Only
// meaningful for optional transitive attributes; well-known attributes
// must never carry it (spec §4.1).
func (f AttrFlags) Partial() bool { return f&flagPartial != 0 }

// WithPartial returns f with the partial bit set.
func (f AttrFlags) WithPartial() AttrFlags { return f | flagPartial }

// Extended reports whether the attribute uses the two-octet length form.
func (f AttrFlags) Extended() bool { return f&flagExtended != 0 }

// WithExtended returns f with the extended-length bit set.
func (f AttrFlags) WithExtended() AttrFlags { return f | flagExtended }

// Normalized clears the low four bits, which must always be zero on the
// wire (spec §3: "remaining bits MUST be zero").
func (f AttrFlags) Normalized() AttrFlags {
	return f & (flagOptional | flagTransitive | flagPartial | flagExtended)
}
