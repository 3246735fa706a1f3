// Package headless runs a session without any display, stepping it from a ticker.
package headless

import (
	"context"
	"fmt"
	"log"
	"time"

	"cubefield/pkg/game/state"
)

// Config controls the no-window runner.
type Config struct {
	Hz    int
	Ticks uint64 // 0 runs until ctx is cancelled or the session quits

	// Unpaced steps as fast as possible instead of waiting for the ticker.
	// Every step still advances the session by exactly one period.
	Unpaced bool

	// OnTick, when set, runs after every step. An error stops the runner.
	OnTick func(tick uint64, s *state.Session) error
}

// Renderer is the headless backend
type Renderer struct {
	cfg Config
}

// New creates a headless renderer
func New(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Name returns the -renderer value for this backend
func (r *Renderer) Name() string { return "headless" }

// Run steps s at cfg.Hz until the tick budget is spent, ctx ends or s.Quit is set.
func (r *Renderer) Run(ctx context.Context, s *state.Session) error {
	cfg := r.cfg
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	var ticks <-chan time.Time
	if !cfg.Unpaced {
		t := time.NewTicker(d)
		defer t.Stop()
		ticks = t.C
	}

	var tick uint64
	for {
		if ticks != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticks:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		s.Step(d)
		tick++
		if cfg.OnTick != nil {
			if err := cfg.OnTick(tick, s); err != nil {
				return err
			}
		}
		if s.Quit {
			return nil
		}
		if cfg.Ticks > 0 && tick >= cfg.Ticks {
			log.Printf("Headless run finished after %d ticks (%v simulated)", tick, time.Duration(tick)*d)
			return nil
		}
	}
}
