// Package transport implements the transport collaborator spec.md §6
// describes: it accepts inbound TCP connections and hands each one to
// the FSM for the peer it came from, raising TcpConnectionConfirmed
// (framing and the rest of the wire protocol are handled above this,
// in package wire — spec.md treats framing as part of C1, not the
// transport).
package transport

import (
	"context"
	"net"
	"net/netip"

	"github.com/rs/zerolog"

	"github.com/relaybgp/bgpd/fsm"
)

// Lookup resolves an inbound connection's remote address to the FSM
// managing that peer, if one is configured.
type Lookup func(remote netip.Addr) (*fsm.FSM, bool)

// Serve accepts connections on ln until ctx is cancelled, handing each
// one to lookup's matching FSM. A connection from an unconfigured
// address is logged and closed (RFC 4271 has no notion of anonymous
// peers).
func Serve(ctx context.Context, ln net.Listener, lookup Lookup, log zerolog.Logger) {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		remote, ok := remoteAddr(conn)
		if !ok {
			log.Warn().Str("remote", conn.RemoteAddr().String()).Msg("could not parse remote address, rejecting")
			conn.Close()
			continue
		}
		f, ok := lookup(remote)
		if !ok {
			log.Warn().Str("remote", remote.String()).Msg("rejecting connection from unconfigured peer")
			conn.Close()
			continue
		}
		f.Accept(conn)
	}
}

func remoteAddr(conn net.Conn) (netip.Addr, bool) {
	ap, err := netip.ParseAddrPort(conn.RemoteAddr().String())
	if err != nil {
		return netip.Addr{}, false
	}
	return ap.Addr(), true
}
