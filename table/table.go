// Package table implements the BGP table (spec §4.6): the
// per-destination bestpath store that walk() updates from a decoded
// peer's ReceivedRoutes payload, and the (withdrawn, advertised) delta
// an UPDATE formatter consumes downstream.
package table

import (
	"net/netip"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/counter"
	"github.com/relaybgp/bgpd/decision"
	"github.com/relaybgp/bgpd/intern"
)

// Delta is the result of one walk: destinations withdrawn entirely,
// and destinations whose new bestpath groups them by the attribute
// bundle it carries. Each group in Advertised corresponds to one
// outgoing UPDATE (spec §4.6: "one UPDATE carries exactly one
// attribute set").
type Delta struct {
	Withdrawn  []bgp.Route
	Advertised map[*intern.Handle][]bgp.Route
}

// Table owns every destination's BgpTableEntry and the interning pool
// shared across them. Per spec §5, a single table task is meant to
// own a Table; it carries no internal locking of its own.
type Table struct {
	pat     *intern.Table
	entries map[netip.Prefix]*BgpTableEntry
	version uint64

	droppedNonV4 *counter.Counter
	log          zerolog.Logger
}

// New returns an empty table backed by its own interning pool.
// Metrics register against reg (pass prometheus.DefaultRegisterer in
// production, or an isolated registry in tests).
func New(reg prometheus.Registerer) *Table {
	return &Table{
		pat:     intern.New(),
		entries: make(map[netip.Prefix]*BgpTableEntry),
		droppedNonV4: counter.New(reg, "bgp_table_dropped_non_ipv4_routes_total",
			"routes dropped by walk() because their address family is not IPv4"),
		log: log.With().Str("component", "table").Logger(),
	}
}

// Version returns the table's monotonic change counter: the single
// value a consumer samples to detect that a walk changed something
// (spec §5).
func (t *Table) Version() uint64 { return t.version }

// Walk ingests one ReceivedRoutes payload and applies it to the
// table, following spec §4.6's six steps in order.
func (t *Table) Walk(rx decision.ReceivedRoutes) Delta {
	delta := Delta{Advertised: make(map[*intern.Handle][]bgp.Route)}

	// 1-2. Build the decision summary and intern the attribute bundle.
	d := decision.FromReceivedRoutes(rx)
	handle := t.pat.Intern(intern.Entry{Decision: d, Raw: rx.PathAttrs})

	// 3. Apply to every newly (or re-)advertised route.
	for _, r := range rx.Routes {
		if !r.Is4() {
			t.droppedNonV4.Increment()
			continue
		}
		key := r.Key()
		entry, ok := t.entries[key]
		if !ok {
			entry = newBgpTableEntry()
			t.entries[key] = entry
			entry.Insert(handle)
			delta.Advertised[handle] = append(delta.Advertised[handle], r)
			continue
		}
		entry.Insert(handle)
		if entry.Peek().Same(handle) {
			delta.Advertised[handle] = append(delta.Advertised[handle], r)
		}
	}

	// 4. Apply withdrawals.
	for _, r := range rx.Withdrawn {
		key := r.Key()
		entry, ok := t.entries[key]
		if !ok {
			continue
		}
		before := entry.Peek()
		entry.RemovePeer(func(h *intern.Handle) bool {
			return h.Decision().PeerID == rx.PeerID
		})
		if entry.Len() == 0 {
			delete(t.entries, key)
			delta.Withdrawn = append(delta.Withdrawn, r)
			continue
		}
		after := entry.Peek()
		if before == nil || !before.Same(after) {
			delta.Advertised[after] = append(delta.Advertised[after], r)
		}
	}

	// 5. Reclaim any attribute bundle no external handle still
	// references.
	t.pat.RemoveStale()

	// 6. Bump the version only when something actually changed.
	if len(delta.Withdrawn) > 0 || len(delta.Advertised) > 0 {
		t.version++
		t.log.Debug().
			Uint64("version", t.version).
			Int("withdrawn", len(delta.Withdrawn)).
			Int("advertised_groups", len(delta.Advertised)).
			Msg("table version bumped")
	}

	if len(delta.Advertised) == 0 {
		delta.Advertised = nil
	}
	return delta
}

// WithdrawPeer removes every path contributed by peerID across the
// whole table — the implicit withdrawal RFC 4271 §9.1/spec §5 and §7
// require when a peer's session ends for any reason (ManualStop, TCP
// failure, hold timer expiry), not just the prefixes an explicit
// withdrawal UPDATE names. It mirrors Walk's withdrawal step (4) and
// its version/stale-reclaim bookkeeping (5-6), just run over every
// destination instead of one UPDATE's Withdrawn list.
func (t *Table) WithdrawPeer(peerID netip.Addr) Delta {
	delta := Delta{Advertised: make(map[*intern.Handle][]bgp.Route)}
	matches := func(h *intern.Handle) bool { return h.Decision().PeerID == peerID }

	for key, entry := range t.entries {
		before := entry.Peek()
		if !entry.RemovePeer(matches) {
			continue
		}
		r := bgp.RouteFromPrefix(key)
		if entry.Len() == 0 {
			delete(t.entries, key)
			delta.Withdrawn = append(delta.Withdrawn, r)
			continue
		}
		after := entry.Peek()
		if before == nil || !before.Same(after) {
			delta.Advertised[after] = append(delta.Advertised[after], r)
		}
	}

	t.pat.RemoveStale()

	if len(delta.Withdrawn) > 0 || len(delta.Advertised) > 0 {
		t.version++
		t.log.Debug().
			Uint64("version", t.version).
			Str("peer", peerID.String()).
			Int("withdrawn", len(delta.Withdrawn)).
			Int("advertised_groups", len(delta.Advertised)).
			Msg("table version bumped by peer withdrawal")
	}

	if len(delta.Advertised) == 0 {
		delta.Advertised = nil
	}
	return delta
}

// Lookup returns the current bestpath for a destination, if any.
func (t *Table) Lookup(prefix netip.Prefix) (*intern.Handle, bool) {
	entry, ok := t.entries[prefix.Masked()]
	if !ok {
		return nil, false
	}
	return entry.Peek(), true
}

// Len reports how many distinct destinations the table currently
// holds.
func (t *Table) Len() int { return len(t.entries) }
