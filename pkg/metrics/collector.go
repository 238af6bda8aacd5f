package metrics

import "time"

// Collector periodically samples a usage function into the cache_bytes
// gauge. It takes a plain callback rather than importing pkg/cache directly:
// pkg/cache already imports pkg/metrics to record lookups and evictions
// inline, so a reverse import here would cycle. The caller (cmd/mouse)
// wires NewCollector(cache.Usage, interval).
type Collector struct {
	usage    func() uint64
	interval time.Duration
	stopCh   chan struct{}
}

// NewCollector creates a new metrics collector sampling usage every interval.
func NewCollector(usage func() uint64, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Collector{
		usage:    usage,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins periodic sampling.
func (c *Collector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	CacheBytes.Set(float64(c.usage()))
}
