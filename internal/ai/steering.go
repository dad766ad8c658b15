package ai

import (
	"math"

	"arenamind/server/internal/world"
)

// steerMode selects the main steering desire for the current behavior.
type steerMode uint8

const (
	steerNone steerMode = iota
	// steerPursue closes to the engage range and backs off inside the
	// disengage range.
	steerPursue
	// steerRetreat always moves away from the target.
	steerRetreat
	// steerPath heads for an explicit point.
	steerPath
	// steerStrafe circles the target laterally.
	steerStrafe
)

// steeringConfig is the immutable per-archetype tuning.
type steeringConfig struct {
	turnRate  float64
	engage    float64
	disengage float64
}

// steeringState is the per-agent movement resolution state. Behaviors write
// the desire fields during the HFSM phase; the next tick's steering phase
// consumes them.
type steeringState struct {
	mode       steerMode
	target     world.EntityID
	pathTarget world.Vec2
	engage     float64
	disengage  float64
	strafeSign float64
	turnRate   float64
	current    world.Vec2
}

func newSteeringState(cfg steeringConfig) steeringState {
	return steeringState{
		engage:    cfg.engage,
		disengage: cfg.disengage,
		turnRate:  cfg.turnRate,
	}
}

const minAvoidanceDistance = 1.0

// resolveDirection combines the main desire with every available memory
// avoidance entry, normalizes the sum and smooths the previous direction
// toward it, bounded by the configured turn rate. The result is always a
// unit vector or zero.
func (a *Agent) resolveDirection(env *tickEnv) world.Vec2 {
	if a == nil {
		return world.Vec2{}
	}
	self, ok := a.selfEntity(env)
	if !ok {
		a.steering.current = world.Vec2{}
		return world.Vec2{}
	}

	desired := a.mainDesire(env, self)

	a.memory.ForEach(func(entry *MemoryEntry) {
		if !a.memory.IsAvailable(entry, env.world) {
			return
		}
		desired = desired.Add(avoidanceContribution(env, self, entry))
	})

	desired = desired.Normalized()

	if desired.IsZero() {
		// Hold position; there is nothing to rotate toward.
		a.steering.current = world.Vec2{}
		return world.Vec2{}
	}

	blend := world.Clamp(a.steering.turnRate*env.dt, 0, 1)
	if blend == 0 || a.steering.current.IsZero() {
		blend = 1
	}
	next := a.steering.current.Add(desired.Sub(a.steering.current).Scale(blend)).Normalized()
	if next.IsZero() {
		// Previous and desired cancel exactly; snap to the new desire.
		next = desired
	}
	a.steering.current = next
	return next
}

// mainDesire derives the un-normalized primary movement urge from the
// behavior-selected mode.
func (a *Agent) mainDesire(env *tickEnv, self world.Entity) world.Vec2 {
	s := &a.steering
	switch s.mode {
	case steerPursue, steerRetreat, steerStrafe:
		target, ok := env.world.Entity(s.target)
		if !ok {
			return world.Vec2{}
		}
		toTarget := target.Pos.Sub(self.Pos)
		dist := toTarget.Length()
		if dist == 0 {
			return world.Vec2{}
		}
		switch s.mode {
		case steerRetreat:
			return toTarget.Scale(-1 / dist)
		case steerStrafe:
			sign := s.strafeSign
			if sign == 0 {
				sign = 1
			}
			return toTarget.Perp().Scale(sign / dist)
		default:
			if dist > s.engage {
				return toTarget.Scale(1 / dist)
			}
			if dist < s.disengage {
				return toTarget.Scale(-1 / dist)
			}
			return world.Vec2{}
		}
	case steerPath:
		to := s.pathTarget.Sub(self.Pos)
		return to.Normalized()
	default:
		return world.Vec2{}
	}
}

// avoidanceContribution converts one memory entry into a steering term.
// Area threats repel with weight over distance; line threats push laterally
// off the threat's travel line.
func avoidanceContribution(env *tickEnv, self world.Entity, entry *MemoryEntry) world.Vec2 {
	origin := entry.Position
	if entry.Entity != "" {
		if ref, ok := env.world.Entity(entry.Entity); ok {
			origin = ref.Pos
		}
	}
	switch entry.Kind {
	case MemoryAreaThreat:
		away := self.Pos.Sub(origin)
		dist := away.Length()
		if entry.Radius > 0 && dist > entry.Radius {
			return world.Vec2{}
		}
		if dist < minAvoidanceDistance {
			dist = minAvoidanceDistance
		}
		return away.Normalized().Scale(entry.Weight / dist)
	case MemoryLineThreat:
		dir := entry.Direction.Normalized()
		if dir.IsZero() {
			return world.Vec2{}
		}
		lateral := dir.Perp()
		offset := self.Pos.Sub(origin)
		side := offset.Dot(lateral)
		if side < 0 {
			lateral = lateral.Scale(-1)
			side = -side
		}
		if entry.Radius > 0 && side > entry.Radius {
			// Already clear of the line.
			return world.Vec2{}
		}
		scale := entry.Weight
		if side >= minAvoidanceDistance {
			scale = entry.Weight / math.Sqrt(side)
		}
		return lateral.Scale(scale)
	default:
		return world.Vec2{}
	}
}
