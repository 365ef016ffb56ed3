package watcher

import (
	"sort"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a batch of created files is emitted.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer collects paths and emits them as one sorted batch once no new
// path arrived for the interval. A path added twice in a window is emitted once.
type Debouncer struct {
	interval time.Duration
	pending  map[string]struct{}
	mu       sync.Mutex
	timer    *time.Timer
	output   chan []string
	stopped  bool
}

// NewDebouncer creates a debouncer with the specified quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]struct{}),
		output:   make(chan []string, 16),
	}
}

// Output returns the channel that receives batches. It is closed by Stop.
func (d *Debouncer) Output() <-chan []string {
	return d.output
}

// Add queues path and restarts the quiet period.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// Stop emits whatever is pending and closes the output channel.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.emitLocked()
	d.stopped = true
	close(d.output)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.emitLocked()
}

func (d *Debouncer) emitLocked() {
	if len(d.pending) == 0 {
		return
	}
	batch := make([]string, 0, len(d.pending))
	for path := range d.pending {
		batch = append(batch, path)
	}
	sort.Strings(batch)

	d.pending = make(map[string]struct{})
	d.output <- batch
}
