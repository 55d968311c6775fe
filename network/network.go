// Package network resolves the local BGP identifier from host
// interfaces and frames a listening socket for inbound peer
// connections.
package network

import (
	"fmt"
	"net"
	"net/netip"
)

// FindBGPIdentifier picks a BGP Identifier from the host's interfaces:
// the first global-unicast IPv4 address found. Selection among
// multiple candidates is a local matter (RFC 4271 §4.2); this is one
// reasonable default, overridable via configuration.
func FindBGPIdentifier() (netip.Addr, error) {
	ifs, err := net.Interfaces()
	if err != nil {
		return netip.Addr{}, err
	}
	for _, iface := range ifs {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			prefix, err := netip.ParsePrefix(a.String())
			if err != nil {
				continue
			}
			ip := prefix.Addr()
			if !ip.Is4() {
				continue
			}
			if ip.IsGlobalUnicast() {
				return ip, nil
			}
		}
	}
	return netip.Addr{}, fmt.Errorf("network: no valid BGP identifier found on any local interface")
}

// Listen opens a TCP listener for inbound BGP sessions on addr
// (conventionally host:179).
func Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}
