package fsm

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/fib"
	"github.com/relaybgp/bgpd/notify"
	"github.com/relaybgp/bgpd/queue"
	"github.com/relaybgp/bgpd/stream"
	"github.com/relaybgp/bgpd/table"
	"github.com/relaybgp/bgpd/timer"
	"github.com/relaybgp/bgpd/wire"
)

// Config holds one peer session's negotiated and configured parameters.
type Config struct {
	LocalAS    bgp.ASN
	RemoteAS   bgp.ASN
	LocalID    netip.Addr
	RemoteAddr netip.Addr

	HoldTime         time.Duration
	ConnectRetryTime time.Duration
	KeepaliveTime    time.Duration

	// IGPCost resolves a NEXT_HOP to an IGP metric for decision tie-break
	// stage 6 (spec §4.4). A nil func leaves every route's IGPCost at 0.
	IGPCost func(netip.Addr) uint64

	// FIB receives install/remove calls for each bestpath change a
	// Walk produces. A nil FIB skips forwarding-table side effects
	// entirely (a speaker that only tracks the table, e.g. in tests).
	FIB fib.Installer

	// Dial opens the outbound TCP connection for ManualStart. Tests
	// substitute an in-memory pipe; production uses net.Dialer.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// FSM drives one peer session through the six RFC 4271 §8.2 states.
// Run's caller supplies the event loop's thread. Besides it, the FSM
// starts a dialer goroutine per connection attempt, a reader goroutine
// once a connection comes up, and a goroutine in Run that closes the
// event queue when ctx is cancelled.
type FSM struct {
	mu    sync.Mutex
	state State
	cfg   Config

	conn                net.Conn
	connectRetryCounter int
	negotiatedHoldTime  time.Duration

	connectRetryTimer *timer.Timer
	holdTimer         *timer.Timer
	keepaliveTimer    *timer.Timer

	tbl    *table.Table
	events *queue.Queue[Event]
	log    zerolog.Logger
}

// New builds an FSM in the Idle state. It does not start any timers or
// connections until the caller pushes a ManualStart event.
func New(cfg Config, tbl *table.Table) *FSM {
	if cfg.Dial == nil {
		var d net.Dialer
		cfg.Dial = d.DialContext
	}
	f := &FSM{
		cfg:    cfg,
		state:  Idle,
		tbl:    tbl,
		events: queue.New[Event](),
		log:    log.With().Str("component", "fsm").Str("peer", cfg.RemoteAddr.String()).Logger(),
	}
	f.connectRetryTimer = timer.New(0, func() { f.events.Push(Event{Kind: ConnectRetryTimerExpires}) })
	f.holdTimer = timer.New(0, func() { f.events.Push(Event{Kind: HoldTimerExpires}) })
	f.keepaliveTimer = timer.New(0, func() { f.events.Push(Event{Kind: KeepaliveTimerExpires}) })
	return f
}

// State returns the FSM's current state.
func (f *FSM) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Push enqueues an event for the run loop — e.g. ManualStart/ManualStop
// arriving from an operator command.
func (f *FSM) Push(ev Event) { f.events.Push(ev) }

// Accept attaches an inbound connection handed off by the transport
// collaborator (spec §6) and raises TcpConnectionConfirmed — the
// passive-open counterpart to connect's active TcpCrAcked. The FSM
// must already be past Idle (via ManualStart) for this to advance the
// session; Connect and Active both treat the two events identically.
func (f *FSM) Accept(conn net.Conn) {
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
	f.events.Push(Event{Kind: TcpConnectionConfirmed})
}

// Run drains the event queue and applies each event to the current
// state until ctx is cancelled or a ManualStop event returns the
// session to Idle. Per spec §5, one FSM is driven by exactly one
// goroutine at a time — Run is that goroutine.
func (f *FSM) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		f.events.Close()
	}()
	for {
		ev, ok := f.events.Pop()
		if !ok {
			f.teardown()
			return
		}
		f.handleEvent(ev)
		if ev.Kind == ManualStop {
			return
		}
	}
}

func (f *FSM) handleEvent(ev Event) {
	state := f.State()
	f.log.Debug().Str("state", state.String()).Str("event", ev.Kind.String()).Msg("handling event")

	// Any state: a hold timer expiry ends the session unconditionally
	// (spec §4.7 explicit transition contract).
	if ev.Kind == HoldTimerExpires {
		f.holdTimerExpired()
		return
	}
	if ev.Kind == ManualStop {
		f.manualStop()
		return
	}

	switch state {
	case Idle:
		f.handleIdle(ev)
	case Connect:
		f.handleConnect(ev)
	case Active:
		f.handleActive(ev)
	case OpenSent:
		f.handleOpenSent(ev)
	case OpenConfirm:
		f.handleOpenConfirm(ev)
	case Established:
		f.handleEstablished(ev)
	}
}

func (f *FSM) setState(s State) {
	f.mu.Lock()
	prev := f.state
	f.state = s
	f.mu.Unlock()
	if prev != s {
		f.log.Info().Str("from", prev.String()).Str("to", s.String()).Msg("state transition")
	}
}

// teardown stops every timer and closes the connection; called once
// the run loop exits for good, regardless of which state it exited
// from.
func (f *FSM) teardown() {
	f.connectRetryTimer.Stop()
	f.holdTimer.Stop()
	f.keepaliveTimer.Stop()
	f.mu.Lock()
	conn := f.conn
	f.conn = nil
	f.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	f.withdrawFromTable()
}

// dropToIdle closes the connection, resets session timers, and
// returns to Idle — the common path for any error transition.
func (f *FSM) dropToIdle() {
	f.holdTimer.Stop()
	f.keepaliveTimer.Stop()
	f.mu.Lock()
	conn := f.conn
	f.conn = nil
	f.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	f.withdrawFromTable()
	f.connectRetryCounter++
	f.connectRetryTimer.Reset(f.cfg.ConnectRetryTime)
	f.setState(Idle)
}

// manualStop tears the session down without sending a NOTIFICATION —
// it is an operator-initiated stop, not a protocol error.
func (f *FSM) manualStop() {
	f.connectRetryTimer.Stop()
	f.holdTimer.Stop()
	f.keepaliveTimer.Stop()
	f.mu.Lock()
	conn := f.conn
	f.conn = nil
	f.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	f.withdrawFromTable()
	f.connectRetryCounter = 0
	f.setState(Idle)
}

// withdrawFromTable synthesizes the implicit withdrawal RFC 4271
// §9.1/spec §5 and §7 require whenever this peer's session ends for
// any reason: every route it previously contributed is pulled from
// the table and the resulting Delta pushed through the FIB, the same
// way handleEstablished does for an ordinary Walk.
func (f *FSM) withdrawFromTable() {
	delta := f.tbl.WithdrawPeer(f.cfg.LocalID)
	if f.cfg.FIB != nil {
		fib.Apply(f.cfg.FIB, delta)
	}
}

// sendNotification writes a NOTIFICATION and tears the session down,
// per RFC 4271 §6: any protocol error ends the session.
func (f *FSM) sendNotification(n *notify.Error) {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	if conn != nil {
		_, _ = conn.Write(wire.EncodeNotification(bgp.Notification{Code: uint8(n.Code), Subcode: n.Subcode, Data: n.Data}))
	}
	f.dropToIdle()
}

func (f *FSM) holdTimerExpired() {
	f.log.Warn().Msg("hold timer expired")
	f.sendNotification(notify.MustNew(notify.HoldTimerExpired, notify.NoSubcode, nil))
}

// connect dials the peer and raises TcpCrAcked or TcpConnectionFails
// on completion; it runs in its own goroutine so Run never blocks on
// I/O.
func (f *FSM) connect() {
	ctx, cancel := context.WithTimeout(context.Background(), f.cfg.ConnectRetryTime)
	defer cancel()
	addr := netip.AddrPortFrom(f.cfg.RemoteAddr, 179).String()
	conn, err := f.cfg.Dial(ctx, "tcp", addr)
	if err != nil {
		f.events.Push(Event{Kind: TcpConnectionFails})
		return
	}
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
	f.events.Push(Event{Kind: TcpCrAcked})
}

// startReader launches the goroutine that turns the wire stream into
// FSM events for the remainder of the session.
func (f *FSM) startReader() {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	go func() {
		for {
			hdr, body, err := stream.ReadMessage(conn)
			if err != nil {
				if nerr, ok := err.(*notify.Error); ok {
					f.events.Push(Event{Kind: BGPHeaderErr, Err: nerr})
					return
				}
				f.events.Push(Event{Kind: TcpConnectionFails})
				return
			}
			if cerr := wire.CheckHeader(hdr); cerr != nil {
				if nerr, ok := cerr.(*notify.Error); ok {
					f.events.Push(Event{Kind: BGPHeaderErr, Err: nerr})
				}
				return
			}
			msg, derr := wire.Decode(hdr, body)
			if derr != nil {
				if nerr, ok := derr.(*notify.Error); ok {
					f.events.Push(notifyDecodeEvent(hdr.Type, nerr))
				}
				return
			}
			f.events.Push(decodedEvent(hdr.Type, msg))
		}
	}()
}

func notifyDecodeEvent(typ bgp.MessageType, err *notify.Error) Event {
	switch typ {
	case bgp.MsgOpen:
		return Event{Kind: BGPOpenMsgErr, Err: err}
	case bgp.MsgUpdate:
		return Event{Kind: UpdateMsgErr, Err: err}
	default:
		return Event{Kind: BGPHeaderErr, Err: err}
	}
}

func decodedEvent(typ bgp.MessageType, msg any) Event {
	switch typ {
	case bgp.MsgOpen:
		o := msg.(bgp.Open)
		return Event{Kind: BGPOpen, Open: &o}
	case bgp.MsgUpdate:
		u := msg.(bgp.Update)
		return Event{Kind: UpdateMsg, Update: &u}
	case bgp.MsgNotification:
		n := msg.(bgp.Notification)
		return Event{Kind: NotifMsg, Notif: &n}
	case bgp.MsgKeepalive:
		return Event{Kind: KeepAliveMsg}
	default:
		return Event{Kind: BGPHeaderErr, Err: notify.MustNew(notify.MessageHeaderError, notify.BadMessageType, nil)}
	}
}

func (f *FSM) sendOpen() error {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("fsm: no connection to send OPEN on")
	}
	holdSecs := uint16(f.cfg.HoldTime / time.Second)
	o := bgp.Open{
		Version:       bgp.CurrentVersion,
		MyAS:          f.cfg.LocalAS,
		HoldTime:      holdSecs,
		BGPIdentifier: bgp.Identifier(ipv4Uint32(f.cfg.LocalID)),
	}
	_, err := conn.Write(wire.EncodeOpen(o))
	return err
}

func (f *FSM) sendKeepalive() error {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("fsm: no connection to send KEEPALIVE on")
	}
	_, err := conn.Write(wire.EncodeKeepalive())
	return err
}

func ipv4Uint32(a netip.Addr) uint32 {
	if !a.Is4() {
		return 0
	}
	b := a.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
