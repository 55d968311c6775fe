package fsm

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/fib"
	"github.com/relaybgp/bgpd/table"
)

// RFC 4271's appendix suggests 90s for HoldTime and 120s for
// ConnectRetryTime; KeepaliveTime follows the conventional HoldTime/3.
const (
	defaultHoldTime         = 90 * time.Second
	defaultConnectRetryTime = 120 * time.Second
	defaultKeepaliveTime    = defaultHoldTime / 3
)

// Option customizes a Config built by NewSession, in the same
// functional-options shape speaker.Option uses for a Speaker.
type Option func(*Config)

// WithHoldTime overrides the default HoldTime.
func WithHoldTime(d time.Duration) Option { return func(c *Config) { c.HoldTime = d } }

// WithConnectRetryTime overrides the default ConnectRetryTime.
func WithConnectRetryTime(d time.Duration) Option {
	return func(c *Config) { c.ConnectRetryTime = d }
}

// WithKeepaliveTime overrides the default KeepaliveTime.
func WithKeepaliveTime(d time.Duration) Option { return func(c *Config) { c.KeepaliveTime = d } }

// WithIGPCost supplies the IGP cost collaborator used to resolve a
// route's NEXT_HOP during ReceivedRoutes construction.
func WithIGPCost(f func(netip.Addr) uint64) Option { return func(c *Config) { c.IGPCost = f } }

// WithFIB supplies the FIB collaborator that install/remove calls are
// issued to after each UPDATE-driven table Walk.
func WithFIB(installer fib.Installer) Option { return func(c *Config) { c.FIB = installer } }

// WithDialer overrides the outbound dialer — tests substitute an
// in-memory pipe here instead of a real net.Dialer.
func WithDialer(d func(ctx context.Context, network, addr string) (net.Conn, error)) Option {
	return func(c *Config) { c.Dial = d }
}

// NewSession builds an FSM for one peer with RFC-default timers,
// applying opts over them.
func NewSession(localAS, remoteAS bgp.ASN, localID, remoteAddr netip.Addr, tbl *table.Table, opts ...Option) *FSM {
	cfg := Config{
		LocalAS:          localAS,
		RemoteAS:         remoteAS,
		LocalID:          localID,
		RemoteAddr:       remoteAddr,
		HoldTime:         defaultHoldTime,
		ConnectRetryTime: defaultConnectRetryTime,
		KeepaliveTime:    defaultKeepaliveTime,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return New(cfg, tbl)
}
