package fsm

import (
	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/notify"
)

// EventKind is one member of the mandatory event subset this skeleton
// implements (RFC 4271 §8.1, spec §4.7).
type EventKind int

const (
	ManualStart EventKind = iota
	ManualStop
	ConnectRetryTimerExpires
	HoldTimerExpires
	KeepaliveTimerExpires
	TcpCrAcked
	TcpConnectionConfirmed
	TcpConnectionFails
	BGPOpen
	BGPHeaderErr
	BGPOpenMsgErr
	NotifMsgVerErr
	NotifMsg
	KeepAliveMsg
	UpdateMsg
	UpdateMsgErr
)

func (k EventKind) String() string {
	switch k {
	case ManualStart:
		return "ManualStart"
	case ManualStop:
		return "ManualStop"
	case ConnectRetryTimerExpires:
		return "ConnectRetryTimerExpires"
	case HoldTimerExpires:
		return "HoldTimerExpires"
	case KeepaliveTimerExpires:
		return "KeepaliveTimerExpires"
	case TcpCrAcked:
		return "TcpCrAcked"
	case TcpConnectionConfirmed:
		return "TcpConnectionConfirmed"
	case TcpConnectionFails:
		return "TcpConnectionFails"
	case BGPOpen:
		return "BGPOpen"
	case BGPHeaderErr:
		return "BGPHeaderErr"
	case BGPOpenMsgErr:
		return "BGPOpenMsgErr"
	case NotifMsgVerErr:
		return "NotifMsgVerErr"
	case NotifMsg:
		return "NotifMsg"
	case KeepAliveMsg:
		return "KeepAliveMsg"
	case UpdateMsg:
		return "UpdateMsg"
	case UpdateMsgErr:
		return "UpdateMsgErr"
	default:
		return "Unknown"
	}
}

// Event carries an EventKind plus whatever decoded payload or error
// triggered it. Only the field matching Kind is populated.
type Event struct {
	Kind   EventKind
	Open   *bgp.Open
	Update *bgp.Update
	Notif  *bgp.Notification
	Err    *notify.Error
}
