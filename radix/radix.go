// Package radix implements a longest-prefix-match trie keyed by
// netip.Prefix, generic over the value stored at each prefix. It backs
// the IGP cost collaborator (package igp): resolving a next hop's
// covering route is exactly a longest-prefix match.
package radix

import "net/netip"

// Tree is a longest-prefix-match trie over IP prefixes. Edges nest by
// containment rather than bit-by-bit branching, which keeps the
// implementation small at the cost of O(depth) lookups — fine for the
// handful of IGP routes a single speaker resolves against.
type Tree[V any] struct {
	root *node[V]
}

// New returns an empty trie.
func New[V any]() *Tree[V] {
	return &Tree[V]{root: &node[V]{}}
}

type edge[V any] struct {
	target *node[V]
	prefix netip.Prefix
	value  V
}

type node[V any] struct {
	edges []*edge[V]
}

// Insert adds prefix -> value, nesting it under the most specific
// existing prefix that contains it and reparenting any existing edges
// prefix itself now contains more specifically. Re-inserting an
// identical prefix replaces its value.
func (t *Tree[V]) Insert(prefix netip.Prefix, value V) {
	prefix = prefix.Masked()
	existing := t.mostSpecificContaining(prefix)
	if existing != nil && existing.prefix == prefix {
		existing.value = value
		return
	}
	parent := t.root
	if existing != nil {
		parent = existing.target
	}
	fresh := &edge[V]{target: &node[V]{}, prefix: prefix, value: value}

	kept := make([]*edge[V], 0, len(parent.edges))
	for _, e := range parent.edges {
		if e.prefix.Bits() > prefix.Bits() && prefix.Overlaps(e.prefix) {
			fresh.target.edges = append(fresh.target.edges, e)
			continue
		}
		kept = append(kept, e)
	}
	parent.edges = append(kept, fresh)
}

// mostSpecificContaining walks down through edges whose prefix
// contains prefix (equal to it or broader), returning the deepest such
// edge, or nil if no edge contains it.
func (t *Tree[V]) mostSpecificContaining(prefix netip.Prefix) *edge[V] {
	n := t.root
	var best *edge[V]
	for {
		advanced := false
		for _, e := range n.edges {
			if e.prefix.Bits() <= prefix.Bits() && e.prefix.Contains(prefix.Addr()) {
				best = e
				n = e.target
				advanced = true
				break
			}
		}
		if !advanced {
			return best
		}
	}
}

// Lookup performs a longest-prefix match for addr, returning the value
// stored at the most specific covering prefix.
func (t *Tree[V]) Lookup(addr netip.Addr) (V, bool) {
	n := t.root
	var best *V
	for {
		advanced := false
		for _, e := range n.edges {
			if e.prefix.Contains(addr) {
				v := e.value
				best = &v
				n = e.target
				advanced = true
				break
			}
		}
		if !advanced {
			break
		}
	}
	if best == nil {
		var zero V
		return zero, false
	}
	return *best, true
}
