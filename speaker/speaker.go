// Package speaker is the top-level orchestrator: it owns one shared
// BGP table and a set of per-peer FSMs, wiring the IGP cost and FIB
// collaborators (spec.md §6) into every session it creates.
package speaker

import (
	"context"
	"fmt"
	"net/netip"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/fib"
	"github.com/relaybgp/bgpd/fsm"
	"github.com/relaybgp/bgpd/igp"
	"github.com/relaybgp/bgpd/network"
	"github.com/relaybgp/bgpd/table"
	"github.com/relaybgp/bgpd/transport"
)

// Speaker is a router speaking BGP to a configured set of neighbors,
// all sharing one routing table and one view of IGP cost.
type Speaker struct {
	asn bgp.ASN
	id  netip.Addr

	tbl *table.Table
	igp *igp.Table
	fib fib.Installer
	log zerolog.Logger

	mu    sync.RWMutex
	peers map[netip.Addr]*Peer

	ctx context.Context
}

// Option customizes a Speaker at construction time.
type Option func(*Speaker)

// WithRegisterer supplies the Prometheus registerer the shared table
// registers its collectors on. The default (nil) registers nothing.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Speaker) { s.tbl = table.New(reg) }
}

// WithFIB supplies the FIB collaborator every peer's FSM applies
// bestpath deltas to. The default logs installs/removes rather than
// touching a real forwarding table.
func WithFIB(installer fib.Installer) Option {
	return func(s *Speaker) { s.fib = installer }
}

// WithIGPTable supplies the IGP cost collaborator used to resolve
// NEXT_HOP metrics for decision tie-break stage 6. The default treats
// every next hop as equally costed (0).
func WithIGPTable(t *igp.Table) Option {
	return func(s *Speaker) { s.igp = t }
}

// WithLogger overrides the speaker's base logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Speaker) { s.log = l }
}

// New builds a Speaker for local AS asn identified by id. ctx bounds
// the lifetime of every peer session the speaker creates; cancelling
// it tears every FSM down.
func New(ctx context.Context, asn bgp.ASN, id netip.Addr, opts ...Option) *Speaker {
	s := &Speaker{
		asn:   asn,
		id:    id,
		tbl:   table.New(nil),
		fib:   fib.NewLoggingInstaller(log.Logger),
		log:   log.With().Str("component", "speaker").Uint32("asn", uint32(asn)).Logger(),
		peers: make(map[netip.Addr]*Peer),
		ctx:   ctx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the shared BGP table every peer's Walk feeds into.
func (s *Speaker) Table() *table.Table { return s.tbl }

// Peer configures a new neighbor and starts its FSM's run loop
// (Idle, until Enable raises ManualStart).
func (s *Speaker) Peer(remoteAS bgp.ASN, remoteAddr netip.Addr, opts ...fsm.Option) *Peer {
	sessionOpts := []fsm.Option{fsm.WithFIB(s.fib)}
	if s.igp != nil {
		sessionOpts = append(sessionOpts, fsm.WithIGPCost(s.igp.CostFunc()))
	}
	sessionOpts = append(sessionOpts, opts...)

	f := fsm.NewSession(s.asn, remoteAS, s.id, remoteAddr, s.tbl, sessionOpts...)
	p := &Peer{RemoteAS: remoteAS, RemoteAddr: remoteAddr, fsm: f}

	s.mu.Lock()
	s.peers[remoteAddr] = p
	s.mu.Unlock()

	go f.Run(s.ctx)
	s.log.Info().Str("peer", remoteAddr.String()).Uint32("remote_as", uint32(remoteAS)).Msg("peer configured")
	return p
}

// Remove stops tracking a peer. It does not tear the FSM down —
// callers should Disable first if the session should stop cleanly.
func (s *Speaker) Remove(remoteAddr netip.Addr) {
	s.mu.Lock()
	delete(s.peers, remoteAddr)
	s.mu.Unlock()
}

// Lookup resolves a configured peer by remote address, for use as a
// transport.Lookup.
func (s *Speaker) Lookup(remoteAddr netip.Addr) (*fsm.FSM, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.peers[remoteAddr]
	if !ok {
		return nil, false
	}
	return p.fsm, true
}

// ListenAndServe accepts inbound connections on addr (host:port) and
// hands each to its matching peer's FSM, until ctx is cancelled.
func (s *Speaker) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := network.Listen(addr)
	if err != nil {
		return fmt.Errorf("speaker: listen: %w", err)
	}
	s.log.Info().Str("addr", addr).Msg("listening for BGP connections")
	transport.Serve(ctx, ln, s.Lookup, s.log)
	return nil
}
