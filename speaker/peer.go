package speaker

import (
	"net/netip"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/fsm"
)

// Peer is one configured neighbor: its negotiated identity plus the
// FSM driving its session.
type Peer struct {
	RemoteAS   bgp.ASN
	RemoteAddr netip.Addr

	fsm *fsm.FSM
}

// State reports the peer's current FSM state.
func (p *Peer) State() fsm.State { return p.fsm.State() }

// Enable raises ManualStart, the event that moves a peer out of Idle
// and starts the active-open dial (spec §4.7).
func (p *Peer) Enable() { p.fsm.Push(fsm.Event{Kind: fsm.ManualStart}) }

// Disable raises ManualStop, tearing the session down without sending
// a NOTIFICATION.
func (p *Peer) Disable() { p.fsm.Push(fsm.Event{Kind: fsm.ManualStop}) }
