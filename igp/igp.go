// Package igp implements the IGP cost collaborator spec.md §6
// describes: cost_to(next_hop) -> u64, resolved by longest-prefix
// match against a small table of IGP-learned routes and their
// metrics. The interface is out of scope for the core protocol
// (spec.md §1's non-goals); this is one concrete, in-process
// implementation a speaker can wire into the FSM's ReceivedRoutes
// construction.
package igp

import (
	"net/netip"
	"sync"

	"github.com/relaybgp/bgpd/radix"
)

// Table holds the IGP's view of next-hop reachability: a cost per
// destination prefix. It is safe for concurrent reads and writes.
type Table struct {
	mu   sync.RWMutex
	tree *radix.Tree[uint64]
}

// New returns an empty IGP cost table.
func New() *Table {
	return &Table{tree: radix.New[uint64]()}
}

// Install records cost as the metric to reach every address in
// prefix, replacing any previous cost for that exact prefix.
func (t *Table) Install(prefix netip.Prefix, cost uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tree.Insert(prefix, cost)
}

// CostTo resolves nextHop's IGP metric via longest-prefix match. An
// unresolvable next hop (no covering IGP route) costs 0, matching the
// decision engine's "no evidence, no penalty" treatment for routes
// without a configured IGP (spec.md §4.4 stage 6).
func (t *Table) CostTo(nextHop netip.Addr) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cost, ok := t.tree.Lookup(nextHop)
	if !ok {
		return 0
	}
	return cost
}

// CostFunc adapts CostTo to the func(netip.Addr) uint64 shape
// fsm.Config.IGPCost expects.
func (t *Table) CostFunc() func(netip.Addr) uint64 {
	return t.CostTo
}
