package scoring

import (
	"time"

	"github.com/poiesic/personarank/core"
)

// Monitor provides hooks to observe the scoring process.
// Implement this interface to track intermediate steps, for example to
// report progress or collect timings. Hooks may be called from pool workers.
type Monitor interface {
	Start(query string, sections int)
	QueryEmbedded(elapsed time.Duration)
	CacheLookup(hits, misses int)
	BatchEmbedded(size int, elapsed time.Duration)
	Degraded(err error)
	Finish(scored []*core.ScoredSection)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                {}
func (n *noopMonitor) QueryEmbedded(_ time.Duration)        {}
func (n *noopMonitor) CacheLookup(_, _ int)                 {}
func (n *noopMonitor) BatchEmbedded(_ int, _ time.Duration) {}
func (n *noopMonitor) Degraded(_ error)                     {}
func (n *noopMonitor) Finish(_ []*core.ScoredSection)       {}
