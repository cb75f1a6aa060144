package status

import (
	"math"
	"sync/atomic"
)

// MaxLabelLen caps stored label text
const MaxLabelLen = 32

// Gauge is a float64 cell
type Gauge struct{ bits atomic.Uint64 }

func (g *Gauge) Store(v float64) { g.bits.Store(math.Float64bits(v)) }
func (g *Gauge) Load() float64   { return math.Float64frombits(g.bits.Load()) }

// Label is a short text cell, truncated to MaxLabelLen bytes
type Label struct{ v atomic.Value }

func (l *Label) Store(s string) {
	if len(s) > MaxLabelLen {
		s = s[:MaxLabelLen]
	}
	l.v.Store(s)
}

func (l *Label) Load() string {
	s, _ := l.v.Load().(string)
	return s
}
