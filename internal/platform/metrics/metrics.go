package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-local counters for the local API.
type Collector struct {
	totalRequests   atomic.Uint64
	errorRequests   atomic.Uint64
	totalDurationMs atomic.Uint64
	recordSaves     atomic.Uint64
	recomputes      atomic.Uint64
	exports         atomic.Uint64
	storageEvents   atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	if status >= 500 {
		c.errorRequests.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) RecordSave()         { c.recordSaves.Add(1) }
func (c *Collector) RecordRecompute()    { c.recomputes.Add(1) }
func (c *Collector) RecordExport()       { c.exports.Add(1) }
func (c *Collector) RecordStorageEvent() { c.storageEvents.Add(1) }

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":      total,
		"errorsTotal":        c.errorRequests.Load(),
		"avgDurationMs":      avg,
		"totalDurationMs":    totalMs,
		"recordSavesTotal":   c.recordSaves.Load(),
		"recomputesTotal":    c.recomputes.Load(),
		"exportsTotal":       c.exports.Load(),
		"storageEventsTotal": c.storageEvents.Load(),
	}
}
