// Package metrics keeps in-process operation statistics for the
// health_check tool.
package metrics

import (
	"sync"
	"time"
)

// retained is how many finished operations Snapshot reports.
const retained = 100

// Operation records a single timed operation.
type Operation struct {
	Name     string        `json:"operation"`
	Start    time.Time     `json:"startTime"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	done     bool
}

// Summary aggregates all operations seen so far.
type Summary struct {
	TotalOperations   int     `json:"totalOperations"`
	SuccessRate       float64 `json:"successRate"`
	AverageDurationMs float64 `json:"averageDurationMs"`
}

// Snapshot is a point-in-time copy of the collector.
type Snapshot struct {
	Operations []Operation    `json:"operations"`
	Counters   map[string]int `json:"counters"`
	Summary    Summary        `json:"summary"`
}

// Collector is safe for concurrent use.
type Collector struct {
	mu         sync.Mutex
	now        func() time.Time
	operations []*Operation
	counters   map[string]int
	total      int
	succeeded  int
	finished   int
	elapsed    time.Duration
}

func NewCollector() *Collector {
	return &Collector{
		now:      time.Now,
		counters: map[string]int{},
	}
}

// StartOperation begins timing name. Pass the result to EndOperation.
func (c *Collector) StartOperation(name string) *Operation {
	c.mu.Lock()
	defer c.mu.Unlock()

	op := &Operation{Name: name, Start: c.now()}
	c.operations = append(c.operations, op)
	if len(c.operations) > retained {
		c.operations = c.operations[len(c.operations)-retained:]
	}
	c.total++
	return op
}

// EndOperation finishes op and bumps the "<name>.success" or
// "<name>.failure" counter. Ending an operation twice is a no-op.
func (c *Collector) EndOperation(op *Operation, success bool, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if op.done {
		return
	}
	op.done = true
	op.Duration = c.now().Sub(op.Start)
	op.Success = success
	op.Error = errMsg

	c.finished++
	c.elapsed += op.Duration
	key := op.Name + ".failure"
	if success {
		c.succeeded++
		key = op.Name + ".success"
	}
	c.counters[key]++
}

// IncrementCounter bumps an arbitrary named counter.
func (c *Collector) IncrementCounter(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name]++
}

// Snapshot copies the current state.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	ops := make([]Operation, 0, len(c.operations))
	for _, op := range c.operations {
		ops = append(ops, *op)
	}
	counters := make(map[string]int, len(c.counters))
	for k, v := range c.counters {
		counters[k] = v
	}

	var summary Summary
	summary.TotalOperations = c.total
	if c.total > 0 {
		summary.SuccessRate = float64(c.succeeded) / float64(c.total) * 100
	}
	if c.finished > 0 {
		summary.AverageDurationMs = float64(c.elapsed.Microseconds()) / float64(c.finished) / 1000
	}
	return Snapshot{Operations: ops, Counters: counters, Summary: summary}
}

// Reset drops all recorded operations and counters.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operations = nil
	c.counters = map[string]int{}
	c.total, c.succeeded, c.finished, c.elapsed = 0, 0, 0, 0
}
