// Package rib holds the inter-service message handed from the wire
// decoder to the BGP table (spec.md §3, C8): ReceivedRoutes. The
// comparison logic it feeds lives in package decision; rib's job is
// just to be the stable value-object home the decoder and table agree
// on, independent of either one's internals.
package rib

import "github.com/relaybgp/bgpd/decision"

// ReceivedRoutes is the payload one decoded UPDATE produces: enough
// session and attribute context for the table to intern a decision
// summary and apply it to every route the message touches. It is a
// type alias rather than a wrapper struct so a decision.Data built
// from one is assignable in both directions without copying.
type ReceivedRoutes = decision.ReceivedRoutes
