package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Runner advances a game on a wall-clock timer for unattended play.
type Runner struct {
	Interval time.Duration // Base interval between turns (default 2 seconds)

	mu    sync.Mutex
	speed float64 // Multiplier: 1.0 = one turn per interval, 0 = paused

	// Step advances one turn and reports whether play should continue.
	Step func() bool
}

// NewRunner creates a paused runner around step.
func NewRunner(step func() bool) *Runner {
	return &Runner{Interval: 2 * time.Second, Step: step}
}

// SetSpeed changes the pace; zero or less pauses.
func (r *Runner) SetSpeed(v float64) {
	r.mu.Lock()
	r.speed = v
	r.mu.Unlock()
}

// Speed returns the current pace.
func (r *Runner) Speed() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.speed
}

// Run blocks until ctx is cancelled or Step reports the game is over.
func (r *Runner) Run(ctx context.Context) {
	slog.Info("turn runner started", "interval", r.Interval, "speed", r.Speed())
	defer slog.Info("turn runner stopped")

	for {
		speed := r.Speed()
		wait := 100 * time.Millisecond
		if speed > 0 {
			wait = time.Duration(float64(r.Interval) / speed)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		if speed <= 0 {
			continue
		}
		if !r.Step() {
			return
		}
	}
}
