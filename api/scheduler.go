/*
scheduler.go - Automated month-end posting scheduler

PURPOSE:
  Periodically checks whether the most recently completed calendar month has
  been posted for all active assets and, if not, runs a posting pass for it.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Posting passes are idempotent per (asset, period), so triggering the
    same month repeatedly is harmless: already-posted assets are skipped
  - Per-asset failures are logged and picked up by the next check

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewPostingScheduler(engine)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RunPosting endpoint (manual passes)
  - asset/scheduler.go: RunPostingPeriod
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/asset-engine/asset"
)

// PostingScheduler triggers month-end depreciation passes automatically.
type PostingScheduler struct {
	Engine        *asset.Engine
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPostingScheduler creates a new scheduler.
func NewPostingScheduler(engine *asset.Engine) *PostingScheduler {
	return &PostingScheduler{
		Engine:        engine,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ps *PostingScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.wg.Add(1)

	go ps.run()

	log.Printf("[Scheduler] Started with check interval: %v", ps.CheckInterval)
}

// Stop stops the scheduler.
func (ps *PostingScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ps *PostingScheduler) run() {
	defer ps.wg.Done()

	// Run immediately on start
	ps.checkAndPost()

	for {
		select {
		case <-ps.ticker.C:
			ps.checkAndPost()
		case <-ps.stop:
			return
		}
	}
}

// checkAndPost runs a pass for the most recently completed month. The pass
// itself skips every asset that already has an entry, so this is cheap when
// the month is fully posted.
func (ps *PostingScheduler) checkAndPost() {
	ctx := context.Background()
	now := time.Now().UTC()
	period := asset.PeriodOf(now).Previous()

	result, err := ps.Engine.RunPostingPeriod(ctx, period, now)
	if err != nil {
		log.Printf("[Scheduler] Posting pass for %s aborted: %v", period, err)
		return
	}

	if len(result.Posted) > 0 || len(result.Failed) > 0 {
		log.Printf("[Scheduler] Period %s: %d posted, %d skipped, %d failed",
			period, len(result.Posted), len(result.Skipped), len(result.Failed))
	}
	for _, f := range result.Failed {
		log.Printf("[Scheduler] Asset %s failed: %v", f.AssetID, f.Err)
	}
}

// RunNow triggers an immediate check (for testing/admin).
func (ps *PostingScheduler) RunNow() {
	ps.checkAndPost()
}
