// Package fsm implements the peer session state machine (spec §4.7):
// the six RFC 4271 §8.2 states, the mandatory event subset, and the
// transition contracts that move a session from Idle to Established
// and back.
package fsm

// State is one of the six BGP FSM states (RFC 4271 §8.2.1).
type State int

const (
	Idle State = iota
	Connect
	Active
	OpenSent
	OpenConfirm
	Established
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Connect:
		return "Connect"
	case Active:
		return "Active"
	case OpenSent:
		return "OpenSent"
	case OpenConfirm:
		return "OpenConfirm"
	case Established:
		return "Established"
	default:
		return "Unknown"
	}
}
