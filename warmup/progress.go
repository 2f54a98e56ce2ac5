package warmup

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker tracks and reports progress of a warm-up run.
// Counts are split into texts embedded by the backend and texts that were
// already cached.
type ProgressTracker struct {
	writer         io.Writer
	total          int
	embedded       int
	cached         int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr)
// total: total number of texts to process
// reportInterval: report progress every N texts
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.embedded = 0
	p.cached = 0
	p.lastReported = 0
}

// Add records a finished batch.
func (p *ProgressTracker) Add(embedded, cached int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.embedded += embedded
	p.cached += cached

	// Report if we've crossed a report interval
	if done := p.done(); done-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = done
	}
}

// Finish prints final progress followed by a newline.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
}

// Counts returns the number of texts embedded and found cached so far.
func (p *ProgressTracker) Counts() (embedded, cached int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.embedded, p.cached
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

func (p *ProgressTracker) done() int {
	return min(p.embedded+p.cached, p.total)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	done := p.done()
	rate := 0.0
	if elapsed := time.Since(p.startTime).Seconds(); elapsed > 0 {
		rate = float64(done) / elapsed
	}

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(done) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %d embedded, %d cached - %.1f texts/s",
		done, p.total, percentage, p.embedded, p.cached, rate)
}
