// Package intern implements the path-attribute table (spec §4.5): a
// hash set of shared-ownership handles keyed by an entry's canonical
// equality, so an UPDATE that reaches N destinations stores its
// decision data and raw attributes exactly once.
package intern

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/decision"
)

// Entry pairs the decision summary used for bestpath comparison with
// the raw attribute TLVs a matching UPDATE carries on the wire. Raw
// must be sorted ascending by type code before interning (spec
// invariant V2) — Table.Intern enforces this itself.
type Entry struct {
	Decision decision.Data
	Raw      []bgp.PathAttr
}

// record is the table's own copy of an interned entry. refcount
// starts at 1 for the table's map reference; every live Handle adds
// one more. remove_stale reclaims any record back down to 1.
type record struct {
	entry    Entry
	refcount int64
}

// Handle is a cheap-to-clone reference to an interned Entry. Its
// finalizer drops the table's refcount when the last Go reference to
// the handle is collected, mirroring the drop-on-scope-exit semantics
// of a reference-counted pointer.
type Handle struct {
	rec *record
}

// Attrs returns the interned entry's raw path attributes.
func (h *Handle) Attrs() []bgp.PathAttr { return h.rec.entry.Raw }

// Decision returns the interned entry's decision summary.
func (h *Handle) Decision() decision.Data { return h.rec.entry.Decision }

// Less orders two handles by their decision summaries — the ordering
// a BgpTableEntry's min-heap is built on (spec §4.6).
func (h *Handle) Less(other *Handle) bool {
	return decision.Less(h.rec.entry.Decision, other.rec.entry.Decision)
}

// Same reports whether h and other name the identical interned
// record — used to detect "h is the new bestpath" without comparing
// attribute contents (spec §4.6 step 3).
func (h *Handle) Same(other *Handle) bool { return h.rec == other.rec }

// Table is the process-wide interning pool. The table task is its
// only owner; concurrent access from multiple peer tasks is not part
// of this design (spec §5: a single table task is the serialization
// point), but the mutex is kept cheap insurance since Entry
// construction itself may race with remove_stale in a test harness.
type Table struct {
	mu      sync.Mutex
	entries map[string]*record
}

// New returns an empty interning table.
func New() *Table {
	return &Table{entries: make(map[string]*record)}
}

// Intern inserts entry if an equal one is not already present, and
// returns a live Handle to it either way. The returned handle holds
// one strong reference; Go's GC releases it automatically once the
// caller drops the last copy.
func (t *Table) Intern(entry Entry) *Handle {
	bgp.SortAttrs(entry.Raw)
	key := canonicalKey(entry)

	t.mu.Lock()
	rec, ok := t.entries[key]
	if !ok {
		rec = &record{entry: entry, refcount: 1}
		t.entries[key] = rec
	}
	atomic.AddInt64(&rec.refcount, 1)
	t.mu.Unlock()

	h := &Handle{rec: rec}
	runtime.SetFinalizer(h, func(h *Handle) {
		atomic.AddInt64(&h.rec.refcount, -1)
	})
	return h
}

// RemoveStale drops every record whose only remaining strong
// reference is the table's own (spec §4.5) — called after each walk
// completes.
func (t *Table) RemoveStale() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, rec := range t.entries {
		if atomic.LoadInt64(&rec.refcount) <= 1 {
			delete(t.entries, key)
		}
	}
}

// Len reports how many distinct entries are currently interned.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// canonicalKey builds a deterministic string key from an entry's
// decision summary and sorted raw attributes, since Go map keys must
// be comparable and []bgp.PathAttr is not.
func canonicalKey(e Entry) string {
	var b strings.Builder
	writeDecisionKey(&b, e.Decision)
	b.WriteByte('|')
	for _, a := range e.Raw {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(int(a.Flags)))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(int(a.TypeCode)))
		b.WriteByte(',')
		b.Write(a.Value)
		b.WriteByte(']')
	}
	return b.String()
}

func writeDecisionKey(b *strings.Builder, d decision.Data) {
	b.WriteString(d.PeerID.String())
	b.WriteByte(',')
	b.WriteString(d.PeerAddr.String())
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(d.LastAS)))
	b.WriteByte(',')
	if d.LocalPref == nil {
		b.WriteString("none")
	} else {
		b.WriteString(strconv.FormatUint(uint64(*d.LocalPref), 10))
	}
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(d.AsPathLen)))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(d.Origin)))
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(uint64(d.MED), 10))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(d.RouteSource)))
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(d.IGPCost, 10))
}
