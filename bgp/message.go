package bgp

import "github.com/relaybgp/bgpd/tlv"

// Open is the first message each side of a session sends after the TCP
// connection comes up (spec §4.1).
type Open struct {
	Version       Version
	MyAS          ASN
	HoldTime      uint16
	BGPIdentifier Identifier
	OptParams     []tlv.Tlv
}

// OptParamsLen is the declared length of the encoded optional
// parameters: the sum of each TLV's 2-octet (type, length) header plus
// its value (spec §4.1).
func (o Open) OptParamsLen() int {
	n := 0
	for _, p := range o.OptParams {
		n += 2 + len(p.Value)
	}
	return n
}

// Update carries withdrawn routes, path attributes, and newly reachable
// NLRI. Either list may be empty; both empty is permitted and
// indistinguishable on the wire from a message that carries neither
// (spec §4.1).
type Update struct {
	Withdrawn  []Route
	PathAttrs  []PathAttr
	NLRI       []Route
}

// Notification reports a session-ending protocol error. Subcode is 0
// when Code has no defined subcodes (spec §4.1, §4.2).
type Notification struct {
	Code    uint8
	Subcode uint8
	Data    []byte
}

// Keepalive carries no body; it is the header alone.
type Keepalive struct{}
