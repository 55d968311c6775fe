// Package fib implements the FIB collaborator spec.md §6 describes:
// install(prefix, next_hop) / remove(prefix) events derived from the
// table's bestpath changes. The RIB-to-FIB installer itself is out of
// scope (spec.md §1's non-goals); this package gives that boundary an
// interface and a logging implementation a speaker can wire in place
// of an actual kernel/netlink installer.
package fib

import (
	"net/netip"

	"github.com/rs/zerolog"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/intern"
	"github.com/relaybgp/bgpd/table"
)

// Installer receives the FIB side-effects of a table bestpath change.
type Installer interface {
	Install(prefix netip.Prefix, nextHop netip.Addr)
	Remove(prefix netip.Prefix)
}

// LoggingInstaller logs every install/remove instead of touching a
// real forwarding table — the default for a speaker that doesn't
// configure a kernel installer.
type LoggingInstaller struct {
	log zerolog.Logger
}

// NewLoggingInstaller returns an Installer that only logs.
func NewLoggingInstaller(log zerolog.Logger) *LoggingInstaller {
	return &LoggingInstaller{log: log.With().Str("component", "fib").Logger()}
}

func (l *LoggingInstaller) Install(prefix netip.Prefix, nextHop netip.Addr) {
	l.log.Info().Str("prefix", prefix.String()).Str("next_hop", nextHop.String()).Msg("install")
}

func (l *LoggingInstaller) Remove(prefix netip.Prefix) {
	l.log.Info().Str("prefix", prefix.String()).Msg("remove")
}

// Apply drives installer from one table.Delta: every withdrawn
// destination is removed, and every route in an advertised group is
// installed toward that group's NEXT_HOP attribute, if it carries one.
func Apply(installer Installer, delta table.Delta) {
	for _, r := range delta.Withdrawn {
		installer.Remove(r.Prefix())
	}
	for handle, routes := range delta.Advertised {
		nextHop, ok := nextHopOf(handle)
		if !ok {
			continue
		}
		for _, r := range routes {
			installer.Install(r.Prefix(), nextHop)
		}
	}
}

func nextHopOf(handle *intern.Handle) (netip.Addr, bool) {
	for _, a := range handle.Attrs() {
		if a.TypeCode != bgp.AttrNextHop {
			continue
		}
		switch len(a.Value) {
		case 4:
			return netip.AddrFrom4([4]byte(a.Value)), true
		case 16:
			return netip.AddrFrom16([16]byte(a.Value)), true
		}
	}
	return netip.Addr{}, false
}
