package transport

import (
	"context"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/relaybgp/bgpd/fsm"
	"github.com/relaybgp/bgpd/table"
)

func TestServeHandsAcceptedConnToMatchingFSM(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	f := fsm.New(fsm.Config{LocalAS: 65001, RemoteAS: 65002}, table.New(nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	looked := make(chan struct{}, 1)
	go Serve(ctx, ln, func(remote netip.Addr) (*fsm.FSM, bool) {
		looked <- struct{}{}
		return f, true
	}, zerolog.Nop())

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	select {
	case <-looked:
	case <-time.After(time.Second):
		t.Fatalf("expected Serve to look up the accepted connection's peer")
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if f.State() == fsm.Idle {
			// Accept raises TcpConnectionConfirmed, which Idle ignores,
			// so the matched FSM stays Idle after the handoff.
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeRejectsUnmatchedPeer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Serve(ctx, ln, func(remote netip.Addr) (*fsm.FSM, bool) {
		return nil, false
	}, zerolog.Nop())

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	buf := make([]byte, 1)
	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := conn.Read(buf); err == nil {
		t.Fatalf("expected the rejected connection to be closed")
	}
}
