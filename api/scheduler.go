/*
scheduler.go - Automated rollover scheduler

PURPOSE:
  Periodically sweeps for (employee, leave type) pairs whose policy year has
  ended and freezes their carry-over. Manual runs remain available through
  the admin rollover endpoint; the scheduler only removes the need to
  remember them.

DESIGN:
  - Background goroutine with a configurable check interval
  - Each sweep is idempotent: pairs already closed are skipped
  - Stop() blocks until the in-flight sweep finishes

USAGE:
  scheduler := NewRolloverScheduler(rollover)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - leave/rollover.go: the sweep itself
  - handlers.go: TriggerRollover endpoint (manual)
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/leave-engine/leave"
)

// RolloverScheduler handles automated year-end carry-over freezing.
type RolloverScheduler struct {
	Rollover      *leave.RolloverService
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRolloverScheduler creates a scheduler with a daily check interval.
func NewRolloverScheduler(rollover *leave.RolloverService) *RolloverScheduler {
	return &RolloverScheduler{
		Rollover:      rollover,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (rs *RolloverScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)
	go rs.run()

	log.Printf("[Scheduler] Started with check interval: %v", rs.CheckInterval)
}

// Stop stops the scheduler and waits for any in-flight sweep.
func (rs *RolloverScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker == nil {
		return
	}
	rs.ticker.Stop()
	close(rs.stop)
	rs.wg.Wait()
	rs.ticker = nil
	log.Println("[Scheduler] Stopped")
}

func (rs *RolloverScheduler) run() {
	defer rs.wg.Done()

	// Sweep once on startup, then on every tick.
	rs.sweep()
	for {
		select {
		case <-rs.ticker.C:
			rs.sweep()
		case <-rs.stop:
			return
		}
	}
}

func (rs *RolloverScheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := rs.Rollover.CloseAll(ctx, leave.Today())
	if err != nil {
		log.Printf("[Scheduler] Rollover sweep failed: %v", err)
		return
	}
	if summary.PairsClosed > 0 {
		log.Printf("[Scheduler] Rollover closed %d pairs (%d skipped)", summary.PairsClosed, summary.PairsSkipped)
	}
}
