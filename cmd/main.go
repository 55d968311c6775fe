package main

import (
	"context"
	"flag"
	"net/netip"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/fib"
	"github.com/relaybgp/bgpd/network"
	"github.com/relaybgp/bgpd/speaker"
)

func main() {
	var (
		asn     = flag.Uint("asn", 0, "local AS number")
		id      = flag.String("id", "", "local BGP identifier (IPv4 address)")
		listen  = flag.String("listen", "0.0.0.0:179", "address to accept BGP connections on")
		peers   = flag.String("peers", "", "comma-separated remoteAS@remoteAddr pairs, e.g. 65002@10.0.0.2,65003@10.0.0.3")
		verbose = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *asn == 0 {
		log.Fatal().Msg("-asn is required")
	}
	var localID netip.Addr
	if *id == "" {
		found, err := network.FindBGPIdentifier()
		if err != nil {
			log.Fatal().Err(err).Msg("-id not set and no local identifier could be found")
		}
		localID = found
	} else {
		parsed, err := netip.ParseAddr(*id)
		if err != nil {
			log.Fatal().Err(err).Msg("-id must be a valid IP address")
		}
		localID = parsed
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := speaker.New(ctx, bgp.ASN(*asn), localID, speaker.WithFIB(fib.NewLoggingInstaller(log.Logger)))

	for _, spec := range parsePeers(*peers) {
		p := s.Peer(spec.asn, spec.addr)
		p.Enable()
		log.Info().Str("peer", spec.addr.String()).Msg("peer enabled")
	}

	log.Info().Uint("asn", *asn).Str("id", localID.String()).Msg("starting bgpd")
	if err := s.ListenAndServe(ctx, *listen); err != nil {
		log.Fatal().Err(err).Msg("listen failed")
	}
}

type peerSpec struct {
	asn  bgp.ASN
	addr netip.Addr
}

// parsePeers turns "-peers" flag text into peerSpecs, skipping and
// logging any entry that doesn't parse rather than aborting startup
// over one bad neighbor.
func parsePeers(flagVal string) []peerSpec {
	var out []peerSpec
	if flagVal == "" {
		return out
	}
	for _, entry := range strings.Split(flagVal, ",") {
		parts := strings.SplitN(entry, "@", 2)
		if len(parts) != 2 {
			log.Warn().Str("entry", entry).Msg("ignoring malformed peer, want remoteAS@remoteAddr")
			continue
		}
		asn, err := strconv.ParseUint(parts[0], 10, 16)
		if err != nil {
			log.Warn().Str("entry", entry).Err(err).Msg("ignoring peer with unparseable AS")
			continue
		}
		addr, err := netip.ParseAddr(parts[1])
		if err != nil {
			log.Warn().Str("entry", entry).Err(err).Msg("ignoring peer with unparseable address")
			continue
		}
		out = append(out, peerSpec{asn: bgp.ASN(asn), addr: addr})
	}
	return out
}
