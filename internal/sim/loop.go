// Package sim owns the fixed-step loop that drives the decision core and
// folds its committed inputs back into the world.
package sim

import (
	"context"
	"fmt"
	"time"

	"arenamind/server/internal/ai"
	"arenamind/server/internal/telemetry"
	"arenamind/server/internal/world"
)

// Config tunes the loop. TickRate is ticks per second; MoveSpeed converts a
// unit movement input into world units per second.
type Config struct {
	TickRate  float64
	MoveSpeed float64
}

// Loop advances the world on a fixed timestep. Each tick steps the decision
// core first, then integrates movement from the inputs the agents committed
// and from projectile velocities. Wall clock time never leaks into a tick.
type Loop struct {
	cfg        Config
	world      *world.World
	controller *ai.Controller
	metrics    telemetry.Metrics
	tick       uint64
}

// NewLoop validates the configuration and builds a loop.
func NewLoop(cfg Config, w *world.World, controller *ai.Controller, metrics telemetry.Metrics) (*Loop, error) {
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("tick rate must be positive, got %v", cfg.TickRate)
	}
	if w == nil {
		return nil, fmt.Errorf("loop requires a world")
	}
	if controller == nil {
		return nil, fmt.Errorf("loop requires a controller")
	}
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &Loop{cfg: cfg, world: w, controller: controller, metrics: metrics}, nil
}

// Dt returns the fixed timestep in seconds.
func (l *Loop) Dt() float64 {
	return 1 / l.cfg.TickRate
}

// Tick returns the number of completed ticks.
func (l *Loop) Tick() uint64 {
	if l == nil {
		return 0
	}
	return l.tick
}

// Step advances the simulation by exactly one tick.
func (l *Loop) Step() {
	if l == nil {
		return
	}
	l.tick++
	dt := l.Dt()

	l.controller.Step(l.tick, dt)

	for _, id := range l.controller.IDs() {
		input, ok := l.controller.Input(id)
		if !ok || input.Move.IsZero() {
			continue
		}
		entity, ok := l.world.Entity(id)
		if !ok {
			continue
		}
		l.world.SetPosition(id, entity.Pos.Add(input.Move.Scale(l.cfg.MoveSpeed*dt)))
	}

	for _, id := range l.world.IDs() {
		entity, _ := l.world.Entity(id)
		if entity.Kind != world.KindProjectile || entity.Vel.IsZero() {
			continue
		}
		l.world.SetPosition(id, entity.Pos.Add(entity.Vel.Scale(dt)))
	}

	l.metrics.Add("sim.ticks", 1)
	l.metrics.Store("sim.agents", uint64(l.controller.Len()))
}

// Advance runs n ticks back to back. Tests and the replay path use this to
// step without a wall clock.
func (l *Loop) Advance(n int) {
	for i := 0; i < n; i++ {
		l.Step()
	}
}

// Run steps the loop on a real-time ticker until the context is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / l.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}
