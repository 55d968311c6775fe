package decision

// Compare orders two decision summaries by the RFC 4271 §9.1.2/9.1.3
// tie-break ladder (spec §4.4): smaller is better. Each stage only
// breaks the tie when the prior stages agree; when all eight stages
// agree the two paths are equal (spec: "equal under all eight
// criteria ⇒ equal paths").
func Compare(a, b Data) int {
	if c := compareLocalPref(a.LocalPref, b.LocalPref); c != 0 {
		return c
	}
	if a.AsPathLen != b.AsPathLen {
		return compareUint8(a.AsPathLen, b.AsPathLen)
	}
	if a.Origin != b.Origin {
		return compareUint8(uint8(a.Origin), uint8(b.Origin))
	}
	if a.LastAS == b.LastAS {
		if a.MED != b.MED {
			return compareUint32(a.MED, b.MED)
		}
	}
	if a.RouteSource != b.RouteSource {
		return compareUint8(uint8(a.RouteSource), uint8(b.RouteSource))
	}
	if a.IGPCost != b.IGPCost {
		return compareUint64(a.IGPCost, b.IGPCost)
	}
	if c := a.PeerID.Compare(b.PeerID); c != 0 {
		return c
	}
	return a.PeerAddr.Compare(b.PeerAddr)
}

// Less reports whether a strictly precedes b in the total order —
// the comparator the BGP table's min-heap is built on.
func Less(a, b Data) bool { return Compare(a, b) < 0 }

// compareLocalPref implements stage 1: higher LOCAL_PREF wins, so the
// comparison of the underlying values is reversed. A peer with no
// LOCAL_PREF (an eBGP-learned route) is treated as smaller than any
// peer that carries one.
func compareLocalPref(a, b *uint32) int {
	av, aOK := localPrefKey(a)
	bv, bOK := localPrefKey(b)
	if !aOK && !bOK {
		return 0
	}
	if av == bv {
		return 0
	}
	// Higher LOCAL_PREF is better, i.e. "smaller" in decision order.
	if av > bv {
		return -1
	}
	return 1
}

func localPrefKey(v *uint32) (int64, bool) {
	if v == nil {
		return -1, false
	}
	return int64(*v), true
}

func compareUint8(a, b uint8) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
