package fsm

import (
	"fmt"
	"net/netip"

	"github.com/relaybgp/bgpd/attr"
	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/rib"
)

// defaultLocalPref is the value RFC 4271 §9.1.1 says an implementation
// should assume for an iBGP route arriving without a LOCAL_PREF
// attribute.
const defaultLocalPref uint32 = 100

// buildReceivedRoutes turns one decoded UPDATE into the payload the
// table's Walk expects, pulling the decision-relevant fields out of
// the attribute list (spec §4.6).
func buildReceivedRoutes(u bgp.Update, peerID, peerAddr netip.Addr, localAS, remoteAS bgp.ASN, igpCost func(netip.Addr) uint64) (rib.ReceivedRoutes, error) {
	rx := rib.ReceivedRoutes{
		PeerID:    peerID,
		PeerAddr:  peerAddr,
		PathAttrs: u.PathAttrs,
		Routes:    u.NLRI,
		Withdrawn: u.Withdrawn,
	}

	if remoteAS == localAS {
		rx.RouteSource = bgp.Ibgp
	} else {
		rx.RouteSource = bgp.Ebgp
	}

	var sawOrigin, sawNextHop bool
	var nextHop netip.Addr
	for _, a := range u.PathAttrs {
		switch a.TypeCode {
		case bgp.AttrOrigin:
			o, err := attr.DecodeOrigin(a.Value)
			if err != nil {
				return rx, fmt.Errorf("fsm: %w", err)
			}
			rx.Origin = o
			sawOrigin = true
		case bgp.AttrAsPath:
			segs, err := attr.DecodeAsPath(a.Value)
			if err != nil {
				return rx, fmt.Errorf("fsm: %w", err)
			}
			rx.AsPathLen = uint8(attr.Length(segs))
			if last, ok := attr.LastAS(segs); ok {
				rx.LastAS = last
			}
		case bgp.AttrNextHop:
			nh, err := attr.DecodeNextHop(a.Value)
			if err != nil {
				return rx, fmt.Errorf("fsm: %w", err)
			}
			nextHop = nh
			sawNextHop = true
		case bgp.AttrMultiExitDisc:
			med, err := attr.DecodeUint32(a.Value)
			if err != nil {
				return rx, fmt.Errorf("fsm: %w", err)
			}
			rx.MED = med
		case bgp.AttrLocalPref:
			lp, err := attr.DecodeUint32(a.Value)
			if err != nil {
				return rx, fmt.Errorf("fsm: %w", err)
			}
			rx.LocalPref = &lp
		}
	}

	if len(u.NLRI) > 0 {
		if !sawOrigin {
			return rx, fmt.Errorf("fsm: UPDATE carries NLRI but no ORIGIN attribute")
		}
		if !sawNextHop {
			return rx, fmt.Errorf("fsm: UPDATE carries NLRI but no NEXT_HOP attribute")
		}
	}

	if rx.RouteSource == bgp.Ibgp && rx.LocalPref == nil {
		lp := defaultLocalPref
		rx.LocalPref = &lp
	}

	if sawNextHop && igpCost != nil {
		rx.IGPCost = igpCost(nextHop)
	}

	return rx, nil
}
