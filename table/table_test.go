package table

import (
	"net/netip"
	"testing"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/decision"
)

func route(cidr string) bgp.Route {
	p := netip.MustParsePrefix(cidr)
	return bgp.RouteFromPrefix(p)
}

func lp(v uint32) *uint32 { return &v }

func TestWalkAdvertisesNewDestination(t *testing.T) {
	tbl := New(nil)
	rx := decision.ReceivedRoutes{
		PeerID:      netip.MustParseAddr("10.0.0.1"),
		PeerAddr:    netip.MustParseAddr("10.0.0.1"),
		RouteSource: bgp.Ebgp,
		Routes:      []bgp.Route{route("192.0.2.0/24")},
	}
	delta := tbl.Walk(rx)
	if len(delta.Advertised) != 1 {
		t.Fatalf("expected 1 advertised group, got %d", len(delta.Advertised))
	}
	if tbl.Version() != 1 {
		t.Fatalf("expected version 1 after first walk, got %d", tbl.Version())
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected 1 destination in the table, got %d", tbl.Len())
	}
}

func TestWalkBetterPathReplacesBestpath(t *testing.T) {
	tbl := New(nil)
	dest := route("192.0.2.0/24")

	worse := decision.ReceivedRoutes{
		PeerID:      netip.MustParseAddr("10.0.0.1"),
		PeerAddr:    netip.MustParseAddr("10.0.0.1"),
		RouteSource: bgp.Ibgp,
		LocalPref:   lp(50),
		Routes:      []bgp.Route{dest},
	}
	tbl.Walk(worse)

	better := decision.ReceivedRoutes{
		PeerID:      netip.MustParseAddr("10.0.0.2"),
		PeerAddr:    netip.MustParseAddr("10.0.0.2"),
		RouteSource: bgp.Ibgp,
		LocalPref:   lp(200),
		Routes:      []bgp.Route{dest},
	}
	delta := tbl.Walk(better)
	if len(delta.Advertised) != 1 {
		t.Fatalf("expected the better path to be advertised, got %d groups", len(delta.Advertised))
	}
	bestpath, ok := tbl.Lookup(dest.Prefix())
	if !ok {
		t.Fatalf("expected a bestpath for %s", dest)
	}
	if *bestpath.Decision().LocalPref != 200 {
		t.Fatalf("expected the higher LOCAL_PREF path to win, got %d", *bestpath.Decision().LocalPref)
	}
}

func TestWalkWorsePathDoesNotReplaceBestpath(t *testing.T) {
	tbl := New(nil)
	dest := route("192.0.2.0/24")

	better := decision.ReceivedRoutes{
		PeerID:      netip.MustParseAddr("10.0.0.1"),
		PeerAddr:    netip.MustParseAddr("10.0.0.1"),
		RouteSource: bgp.Ibgp,
		LocalPref:   lp(200),
		Routes:      []bgp.Route{dest},
	}
	tbl.Walk(better)

	worse := decision.ReceivedRoutes{
		PeerID:      netip.MustParseAddr("10.0.0.2"),
		PeerAddr:    netip.MustParseAddr("10.0.0.2"),
		RouteSource: bgp.Ibgp,
		LocalPref:   lp(50),
		Routes:      []bgp.Route{dest},
	}
	delta := tbl.Walk(worse)
	if len(delta.Advertised) != 0 {
		t.Fatalf("expected no advertisement when the new path loses, got %d groups", len(delta.Advertised))
	}
	bestpath, _ := tbl.Lookup(dest.Prefix())
	if *bestpath.Decision().LocalPref != 200 {
		t.Fatalf("expected the original bestpath to remain, got %d", *bestpath.Decision().LocalPref)
	}
}

func TestWalkWithdrawalRemovesDestination(t *testing.T) {
	tbl := New(nil)
	dest := route("192.0.2.0/24")
	peer := netip.MustParseAddr("10.0.0.1")

	tbl.Walk(decision.ReceivedRoutes{
		PeerID:      peer,
		PeerAddr:    peer,
		RouteSource: bgp.Ebgp,
		Routes:      []bgp.Route{dest},
	})

	delta := tbl.Walk(decision.ReceivedRoutes{
		PeerID:      peer,
		PeerAddr:    peer,
		RouteSource: bgp.Ebgp,
		Withdrawn:   []bgp.Route{dest},
	})
	if len(delta.Withdrawn) != 1 {
		t.Fatalf("expected 1 withdrawn route, got %d", len(delta.Withdrawn))
	}
	if tbl.Len() != 0 {
		t.Fatalf("expected the destination to be removed, table has %d entries", tbl.Len())
	}
}

func TestWalkWithdrawalFallsBackToSecondBestPath(t *testing.T) {
	tbl := New(nil)
	dest := route("192.0.2.0/24")
	peerA := netip.MustParseAddr("10.0.0.1")
	peerB := netip.MustParseAddr("10.0.0.2")

	tbl.Walk(decision.ReceivedRoutes{
		PeerID: peerA, PeerAddr: peerA, RouteSource: bgp.Ibgp, LocalPref: lp(200),
		Routes: []bgp.Route{dest},
	})
	tbl.Walk(decision.ReceivedRoutes{
		PeerID: peerB, PeerAddr: peerB, RouteSource: bgp.Ibgp, LocalPref: lp(100),
		Routes: []bgp.Route{dest},
	})

	delta := tbl.Walk(decision.ReceivedRoutes{
		PeerID: peerA, PeerAddr: peerA, RouteSource: bgp.Ibgp,
		Withdrawn: []bgp.Route{dest},
	})
	if len(delta.Withdrawn) != 0 {
		t.Fatalf("expected the destination to survive via peer B's path")
	}
	if len(delta.Advertised) != 1 {
		t.Fatalf("expected peer B's path to be (re-)advertised once it becomes bestpath")
	}
	bestpath, ok := tbl.Lookup(dest.Prefix())
	if !ok || bestpath.Decision().PeerID != peerB {
		t.Fatalf("expected peer B's path to now be bestpath")
	}
}

func TestWithdrawPeerRemovesAllOfThatPeersDestinations(t *testing.T) {
	tbl := New(nil)
	peer := netip.MustParseAddr("10.0.0.1")

	tbl.Walk(decision.ReceivedRoutes{
		PeerID: peer, PeerAddr: peer, RouteSource: bgp.Ebgp,
		Routes: []bgp.Route{route("192.0.2.0/24"), route("198.51.100.0/24")},
	})
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 destinations before withdrawal, got %d", tbl.Len())
	}

	delta := tbl.WithdrawPeer(peer)
	if len(delta.Withdrawn) != 2 {
		t.Fatalf("expected both destinations withdrawn, got %d", len(delta.Withdrawn))
	}
	if tbl.Len() != 0 {
		t.Fatalf("expected the table to be empty after withdrawing its only peer, got %d entries", tbl.Len())
	}
}

func TestWithdrawPeerFallsBackToSurvivingPeersPath(t *testing.T) {
	tbl := New(nil)
	dest := route("192.0.2.0/24")
	peerA := netip.MustParseAddr("10.0.0.1")
	peerB := netip.MustParseAddr("10.0.0.2")

	tbl.Walk(decision.ReceivedRoutes{
		PeerID: peerA, PeerAddr: peerA, RouteSource: bgp.Ibgp, LocalPref: lp(200),
		Routes: []bgp.Route{dest},
	})
	tbl.Walk(decision.ReceivedRoutes{
		PeerID: peerB, PeerAddr: peerB, RouteSource: bgp.Ibgp, LocalPref: lp(100),
		Routes: []bgp.Route{dest},
	})

	delta := tbl.WithdrawPeer(peerA)
	if len(delta.Withdrawn) != 0 {
		t.Fatalf("expected the destination to survive via peer B's path")
	}
	if len(delta.Advertised) != 1 {
		t.Fatalf("expected peer B's path to be (re-)advertised once it becomes bestpath")
	}
	bestpath, ok := tbl.Lookup(dest.Prefix())
	if !ok || bestpath.Decision().PeerID != peerB {
		t.Fatalf("expected peer B's path to now be bestpath")
	}
}

func TestWithdrawPeerLeavesOtherPeersUntouched(t *testing.T) {
	tbl := New(nil)
	peerA := netip.MustParseAddr("10.0.0.1")
	peerB := netip.MustParseAddr("10.0.0.2")

	tbl.Walk(decision.ReceivedRoutes{
		PeerID: peerA, PeerAddr: peerA, RouteSource: bgp.Ebgp,
		Routes: []bgp.Route{route("192.0.2.0/24")},
	})
	tbl.Walk(decision.ReceivedRoutes{
		PeerID: peerB, PeerAddr: peerB, RouteSource: bgp.Ebgp,
		Routes: []bgp.Route{route("198.51.100.0/24")},
	})

	delta := tbl.WithdrawPeer(peerA)
	if len(delta.Withdrawn) != 1 {
		t.Fatalf("expected only peer A's destination withdrawn, got %d", len(delta.Withdrawn))
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected peer B's destination to remain, table has %d entries", tbl.Len())
	}
}

func TestWalkDropsNonIPv4Routes(t *testing.T) {
	tbl := New(nil)
	v6 := bgp.RouteFromPrefix(netip.MustParsePrefix("2001:db8::/32"))
	tbl.Walk(decision.ReceivedRoutes{
		PeerID:      netip.MustParseAddr("10.0.0.1"),
		PeerAddr:    netip.MustParseAddr("10.0.0.1"),
		RouteSource: bgp.Ebgp,
		Routes:      []bgp.Route{v6},
	})
	if tbl.Len() != 0 {
		t.Fatalf("expected IPv6 route to be dropped, table has %d entries", tbl.Len())
	}
}
