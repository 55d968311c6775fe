// Package decision implements the bestpath comparison BGP-4's Decision
// Process uses to pick among several paths to the same destination
// (RFC 4271 §9.1): a total order over path summaries, built from the
// attributes and session context a walk() has on hand at intern time.
package decision

import (
	"net/netip"

	"github.com/relaybgp/bgpd/bgp"
)

// ReceivedRoutes is the payload a peer hands to the table after
// decoding one UPDATE: enough context to build a DecisionProcessData
// and apply it to every route the message touches.
type ReceivedRoutes struct {
	PeerID      netip.Addr
	PeerAddr    netip.Addr
	LastAS      bgp.ASN
	LocalPref   *uint32
	AsPathLen   uint8
	Origin      bgp.OriginValue
	MED         uint32
	RouteSource bgp.RouteSource
	IGPCost     uint64
	PathAttrs   []bgp.PathAttr
	Routes      []bgp.Route
	Withdrawn   []bgp.Route
}

// Data is the nine-field decision summary the tie-break ladder in
// Compare operates over (spec §4.4). LocalPref is present iff
// RouteSource is Ibgp (RFC 4271 §9.1.1 — LOCAL_PREF is an iBGP-only
// attribute).
type Data struct {
	PeerID      netip.Addr
	PeerAddr    netip.Addr
	LastAS      bgp.ASN
	LocalPref   *uint32
	AsPathLen   uint8
	Origin      bgp.OriginValue
	MED         uint32
	RouteSource bgp.RouteSource
	IGPCost     uint64
}

// FromReceivedRoutes builds the decision summary carried forward into
// the interned PathAttributeTableEntry; one summary applies to every
// route named by a single ReceivedRoutes payload (they share one
// attribute set).
func FromReceivedRoutes(rx ReceivedRoutes) Data {
	return Data{
		PeerID:      rx.PeerID,
		PeerAddr:    rx.PeerAddr,
		LastAS:      rx.LastAS,
		LocalPref:   rx.LocalPref,
		AsPathLen:   rx.AsPathLen,
		Origin:      rx.Origin,
		MED:         rx.MED,
		RouteSource: rx.RouteSource,
		IGPCost:     rx.IGPCost,
	}
}
