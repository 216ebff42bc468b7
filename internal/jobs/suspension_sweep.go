package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/festo/gala/api/internal/service"
)

// SuspensionSweeper lifts expired time-boxed suspensions on a schedule.
// Standing records with a suspension_ends_on in the past are recomputed,
// which drops the user back to the status their metrics support.
type SuspensionSweeper struct {
	standingService *service.StandingService
	interval        time.Duration
	stopCh          chan struct{}
	wg              sync.WaitGroup
	running         bool
	mu              sync.Mutex
}

// NewSuspensionSweeper creates a new suspension sweep job
func NewSuspensionSweeper(standingService *service.StandingService, interval time.Duration) *SuspensionSweeper {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	return &SuspensionSweeper{
		standingService: standingService,
		interval:        interval,
		stopCh:          make(chan struct{}),
	}
}

// Start begins the suspension sweep job
func (p *SuspensionSweeper) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run()
	log.Printf("Suspension sweeper started (interval: %v)", p.interval)
}

// Stop gracefully stops the suspension sweep job
func (p *SuspensionSweeper) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)
	p.wg.Wait()
	log.Println("Suspension sweeper stopped")
}

// run is the main loop
func (p *SuspensionSweeper) run() {
	defer p.wg.Done()

	// Run immediately on start (but with a short delay to let services initialize)
	time.Sleep(5 * time.Second)
	p.sweep()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.sweep()
		case <-p.stopCh:
			return
		}
	}
}

// sweep reinstates all users whose suspensions have expired
func (p *SuspensionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reinstated, err := p.standingService.ReinstateExpired(ctx)
	if err != nil {
		log.Printf("Error sweeping expired suspensions: %v", err)
		return
	}
	if reinstated > 0 {
		log.Printf("Suspension sweep reinstated %d user(s)", reinstated)
	}
}

// RunOnce runs the sweep once (for testing or manual trigger)
func (p *SuspensionSweeper) RunOnce(ctx context.Context) (int, error) {
	return p.standingService.ReinstateExpired(ctx)
}

// IsRunning returns whether the sweeper is running
func (p *SuspensionSweeper) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
