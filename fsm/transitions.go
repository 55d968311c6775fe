package fsm

import (
	"time"

	"github.com/relaybgp/bgpd/fib"
	"github.com/relaybgp/bgpd/notify"
	"github.com/relaybgp/bgpd/wire"
)

// handleIdle implements the Idle + ManualStart → Connect contract
// (spec §4.7): arm ConnectRetryTimer and start dialing the peer.
func (f *FSM) handleIdle(ev Event) {
	if ev.Kind != ManualStart {
		return
	}
	f.connectRetryCounter = 0
	f.connectRetryTimer.Reset(f.cfg.ConnectRetryTime)
	f.setState(Connect)
	go f.connect()
}

func (f *FSM) handleConnect(ev Event) {
	switch ev.Kind {
	case TcpCrAcked, TcpConnectionConfirmed:
		f.connectRetryTimer.Stop()
		f.startReader()
		if err := f.sendOpen(); err != nil {
			f.dropToIdle()
			return
		}
		f.holdTimer.Reset(f.cfg.HoldTime)
		f.setState(OpenSent)
	case ConnectRetryTimerExpires:
		f.connectRetryTimer.Reset(f.cfg.ConnectRetryTime)
		go f.connect()
	case TcpConnectionFails:
		f.connectRetryTimer.Reset(f.cfg.ConnectRetryTime)
		f.setState(Active)
	}
}

func (f *FSM) handleActive(ev Event) {
	switch ev.Kind {
	case TcpCrAcked, TcpConnectionConfirmed:
		f.connectRetryTimer.Stop()
		f.startReader()
		if err := f.sendOpen(); err != nil {
			f.dropToIdle()
			return
		}
		f.holdTimer.Reset(f.cfg.HoldTime)
		f.setState(OpenSent)
	case ConnectRetryTimerExpires:
		f.connectRetryTimer.Reset(f.cfg.ConnectRetryTime)
		f.setState(Connect)
		go f.connect()
	case TcpConnectionFails:
		f.connectRetryCounter++
		f.connectRetryTimer.Reset(f.cfg.ConnectRetryTime)
		f.setState(Idle)
	}
}

// handleOpenSent implements the OpenSent + BGPOpen → OpenConfirm
// contract (spec §4.7): validate the peer's OPEN, negotiate HoldTime,
// and start the KeepaliveTimer.
func (f *FSM) handleOpenSent(ev Event) {
	switch ev.Kind {
	case BGPOpen:
		if verr := wire.ValidateOpen(*ev.Open, f.cfg.RemoteAS); verr != nil {
			f.sendNotification(verr)
			return
		}
		negotiated := f.cfg.HoldTime
		if peerHold := time.Duration(ev.Open.HoldTime) * time.Second; peerHold < negotiated {
			negotiated = peerHold
		}
		f.negotiatedHoldTime = negotiated

		if err := f.sendKeepalive(); err != nil {
			f.dropToIdle()
			return
		}
		f.holdTimer.Reset(negotiated)
		if negotiated > 0 {
			f.keepaliveTimer.Reset(negotiated / 3)
		}
		f.setState(OpenConfirm)
	case BGPHeaderErr, BGPOpenMsgErr:
		f.sendNotification(ev.Err)
	case TcpConnectionFails:
		f.dropToIdle()
	case NotifMsgVerErr:
		f.dropToIdle()
	}
}

// handleOpenConfirm implements the OpenConfirm + KeepAliveMsg →
// Established contract (spec §4.7).
func (f *FSM) handleOpenConfirm(ev Event) {
	switch ev.Kind {
	case KeepAliveMsg:
		f.holdTimer.Reset(f.negotiatedHoldTime)
		f.setState(Established)
	case KeepaliveTimerExpires:
		if err := f.sendKeepalive(); err != nil {
			f.dropToIdle()
			return
		}
		if f.negotiatedHoldTime > 0 {
			f.keepaliveTimer.Reset(f.negotiatedHoldTime / 3)
		}
	case BGPHeaderErr, BGPOpenMsgErr, UpdateMsgErr:
		f.sendNotification(ev.Err)
	case NotifMsg:
		f.dropToIdle()
	case TcpConnectionFails:
		f.dropToIdle()
	}
}

// handleEstablished implements the Established + UpdateMsg →
// Established contract (spec §4.7): feed the decoded UPDATE to the
// table, and the Established + UpdateMsgErr → Idle contract on a
// malformed one.
func (f *FSM) handleEstablished(ev Event) {
	switch ev.Kind {
	case KeepAliveMsg:
		f.holdTimer.Reset(f.negotiatedHoldTime)
	case KeepaliveTimerExpires:
		if err := f.sendKeepalive(); err != nil {
			f.dropToIdle()
			return
		}
		if f.negotiatedHoldTime > 0 {
			f.keepaliveTimer.Reset(f.negotiatedHoldTime / 3)
		}
	case UpdateMsg:
		f.holdTimer.Reset(f.negotiatedHoldTime)
		rx, err := buildReceivedRoutes(*ev.Update, f.cfg.LocalID, f.cfg.RemoteAddr, f.cfg.LocalAS, f.cfg.RemoteAS, f.cfg.IGPCost)
		if err != nil {
			f.sendNotification(notify.MustNew(notify.UpdateMessageError, notify.MalformedAttributeList, nil))
			return
		}
		delta := f.tbl.Walk(rx)
		if f.cfg.FIB != nil {
			fib.Apply(f.cfg.FIB, delta)
		}
	case UpdateMsgErr, BGPHeaderErr:
		f.sendNotification(ev.Err)
	case NotifMsg:
		f.dropToIdle()
	case TcpConnectionFails:
		f.dropToIdle()
	}
}
