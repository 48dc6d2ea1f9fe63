// Package health watches the remote API's liveness endpoint for the topbar
// badge.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/brainbuddy/portal/core"
	"github.com/brainbuddy/portal/core/backend"
)

type Status string

const (
	StatusChecking Status = "checking"
	StatusOnline   Status = "online"
	StatusDegraded Status = "degraded" // reachable but non-2xx
	StatusOffline  Status = "offline"  // unreachable
	StatusConfig   Status = "config"   // base URL unset
)

type Report struct {
	Status    Status    `json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	CheckedAt time.Time `json:"checked_at"`
}

// Checker polls /api/healthz on an interval with a hard per-check deadline,
// keeping only the latest Report. Start/Stop give the owner an explicit
// lifecycle handle so no ticker outlives the server.
type Checker struct {
	client   *backend.Client
	interval time.Duration
	timeout  time.Duration
	logger   core.Logger

	mu   sync.RWMutex
	last Report

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewChecker(client *backend.Client, conf *core.Config, logger core.Logger) *Checker {
	return &Checker{
		client:   client,
		interval: conf.Health.Interval,
		timeout:  conf.Health.Timeout,
		logger:   logger,
		last:     Report{Status: StatusChecking},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Check runs one probe and records the result.
func (c *Checker) Check(ctx context.Context) Report {
	report := Report{CheckedAt: time.Now()}

	if c.client.BaseURL() == "" {
		report.Status = StatusConfig
		return c.record(report)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	t0 := time.Now()
	code, err := c.client.Healthz(ctx)
	if err != nil {
		report.Status = StatusOffline
		return c.record(report)
	}
	report.LatencyMS = time.Since(t0).Milliseconds()
	if code >= 200 && code <= 299 {
		report.Status = StatusOnline
	} else {
		report.Status = StatusDegraded
	}
	return c.record(report)
}

func (c *Checker) record(report Report) Report {
	c.mu.Lock()
	c.last = report
	c.mu.Unlock()
	return report
}

// Report returns the latest known state without probing.
func (c *Checker) Report() Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// Start begins the poll loop: one immediate check, then one per interval,
// until Stop.
func (c *Checker) Start() {
	go func() {
		defer close(c.done)
		c.Check(context.Background())
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Check(context.Background())
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop halts the poll loop and waits for it to exit.
func (c *Checker) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}
