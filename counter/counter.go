// Package counter wraps a Prometheus counter behind the small
// Increment/Value/Reset surface the rest of this module uses, so
// callers never import prometheus directly for a simple tally (e.g.
// the table's dropped-non-IPv4-route count, or per-peer message
// counts).
package counter

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Counter is a monotonically increasing 64-bit tally, exported as a
// Prometheus metric.
type Counter struct {
	vec *prometheus.CounterVec
}

// New registers and returns a new counter with no label values. name
// and help populate the underlying Prometheus metric; reg is the
// registerer to publish to (use prometheus.DefaultRegisterer unless a
// test wants an isolated one).
func New(reg prometheus.Registerer, name, help string) *Counter {
	vec := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, nil)
	return &Counter{vec: vec}
}

// Increment adds one to the counter.
func (c *Counter) Increment() {
	c.vec.WithLabelValues().Inc()
}

// Value returns the counter's current value.
func (c *Counter) Value() uint64 {
	return uint64(testutil.ToFloat64(c.vec.WithLabelValues()))
}

// Reset zeroes the counter.
func (c *Counter) Reset() {
	c.vec.Reset()
}

func (c *Counter) String() string {
	return fmt.Sprintf("%d", c.Value())
}
