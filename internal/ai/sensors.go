package ai

import (
	"math"

	"arenamind/server/internal/world"
)

type sensorID uint8

const (
	sensorTarget sensorID = iota
	sensorHealth
	sensorCollectible
	sensorThreat
	sensorTactic
)

// Tactic option codes written to the "tactic" blackboard key by the tactic
// sensor and matched by the tactic-is decision.
const (
	tacticHold    = 0.0
	tacticEngage  = 1.0
	tacticFlee    = 2.0
	tacticCollect = 3.0
)

func parseTacticOption(name string) (float64, bool) {
	switch name {
	case "hold":
		return tacticHold, true
	case "engage":
		return tacticEngage, true
	case "flee":
		return tacticFlee, true
	case "collect":
		return tacticCollect, true
	default:
		return 0, false
	}
}

// compiledSensor is one perception routine bound to an archetype: which
// routine, how often it fires, and where its parameters live.
type compiledSensor struct {
	id         sensorID
	rate       float64
	paramIndex uint16
}

type targetSensorParams struct {
	Range      float64
	FOVDegrees float64
	RequireLOS bool
}

type healthSensorParams struct {
	LowRatio float64
}

type collectibleSensorParams struct {
	Range float64
}

type threatSensorParams struct {
	Range    float64
	Duration float64
	Weight   float64
}

type tacticSensorParams struct {
	Aggression float64
	Caution    float64
	Greed      float64
}

func sensorName(id sensorID) string {
	switch id {
	case sensorTarget:
		return "target"
	case sensorHealth:
		return "health"
	case sensorCollectible:
		return "collectible"
	case sensorThreat:
		return "threat"
	case sensorTactic:
		return "tactic"
	default:
		return ""
	}
}

func parseSensorID(name string) (sensorID, bool) {
	switch name {
	case "target":
		return sensorTarget, true
	case "health":
		return sensorHealth, true
	case "collectible":
		return sensorCollectible, true
	case "threat":
		return sensorThreat, true
	case "tactic":
		return sensorTactic, true
	default:
		return 0, false
	}
}

// timerEpsilon absorbs float drift when countdowns are decremented by the
// tick's elapsed time.
const timerEpsilon = 1e-9

// runSensors decrements every sensor countdown by the tick's elapsed time
// and executes the ones that elapsed, in the fixed order the configuration
// declared. A fired sensor resets its countdown to its tick rate.
func (a *Agent) runSensors(env *tickEnv) {
	for i := range a.archetype.sensors {
		a.sensorTimers[i] -= env.dt
		if a.sensorTimers[i] > timerEpsilon {
			continue
		}
		sensor := &a.archetype.sensors[i]
		a.sensorTimers[i] = sensor.rate
		a.executeSensor(env, sensor)
	}
}

func (a *Agent) executeSensor(env *tickEnv, sensor *compiledSensor) {
	switch sensor.id {
	case sensorTarget:
		a.senseTarget(env, a.archetype.targetSensorParams[sensor.paramIndex])
	case sensorHealth:
		a.senseHealth(env, a.archetype.healthSensorParams[sensor.paramIndex])
	case sensorCollectible:
		a.senseCollectible(env, a.archetype.collectibleSensorParams[sensor.paramIndex])
	case sensorThreat:
		a.senseThreat(env, a.archetype.threatSensorParams[sensor.paramIndex])
	case sensorTactic:
		a.senseTactic(env, a.archetype.tacticSensorParams[sensor.paramIndex])
	}
}

// senseTarget picks the nearest hostile fighter passing the field-of-view
// and line-of-sight filters. Candidates arrive sorted by ID, so equal
// distances resolve to the lexicographically smallest ID on every client.
// When nothing qualifies the target keys are dropped, so absence reads as
// an empty board rather than a stale handle.
func (a *Agent) senseTarget(env *tickEnv, params targetSensorParams) {
	refs := a.archetype.refs
	self, ok := a.selfEntity(env)
	if !ok {
		a.blackboard.Set(refs.targetVisible, Bool(false))
		return
	}

	facing := a.facing()
	cosHalfFOV := -1.0
	if params.FOVDegrees > 0 && !facing.IsZero() {
		cosHalfFOV = math.Cos(params.FOVDegrees * math.Pi / 360)
	}

	bestID := world.EntityID("")
	bestDist := math.MaxFloat64
	for _, id := range env.world.EntitiesInRadius(self.Pos, params.Range) {
		if id == a.id {
			continue
		}
		candidate, ok := env.world.Entity(id)
		if !ok || candidate.Kind != world.KindFighter || candidate.Team == self.Team {
			continue
		}
		toCandidate := candidate.Pos.Sub(self.Pos)
		dist := toCandidate.Length()
		if dist > 0 && cosHalfFOV > -1 {
			if facing.Normalized().Dot(toCandidate.Scale(1/dist)) < cosHalfFOV {
				continue
			}
		}
		if params.RequireLOS && !env.world.LineOfSight(self.Pos, candidate.Pos) {
			continue
		}
		if dist < bestDist {
			bestDist = dist
			bestID = id
		}
	}

	if bestID == "" {
		a.blackboard.Set(refs.targetVisible, Bool(false))
		a.blackboard.Remove(refs.target)
		a.blackboard.Remove(refs.targetRange)
		return
	}
	a.blackboard.Set(refs.target, Entity(bestID))
	a.blackboard.Set(refs.targetVisible, Bool(true))
	a.blackboard.Set(refs.targetRange, Number(bestDist))
}

func (a *Agent) senseHealth(env *tickEnv, params healthSensorParams) {
	refs := a.archetype.refs
	self, ok := a.selfEntity(env)
	if !ok || self.MaxHealth <= 0 {
		return
	}
	ratio := self.Health / self.MaxHealth
	a.blackboard.Set(refs.healthRatio, Number(ratio))
	a.blackboard.Set(refs.healthLow, Bool(ratio <= params.LowRatio))
}

// senseCollectible scores collectibles by value first, then proximity, then
// ID, and records the winner.
func (a *Agent) senseCollectible(env *tickEnv, params collectibleSensorParams) {
	refs := a.archetype.refs
	self, ok := a.selfEntity(env)
	if !ok {
		return
	}

	bestID := world.EntityID("")
	bestValue := -math.MaxFloat64
	bestDist := math.MaxFloat64
	for _, id := range env.world.EntitiesInRadius(self.Pos, params.Range) {
		candidate, ok := env.world.Entity(id)
		if !ok || candidate.Kind != world.KindCollectible {
			continue
		}
		dist := candidate.Pos.DistanceTo(self.Pos)
		if candidate.Value > bestValue || (candidate.Value == bestValue && dist < bestDist) {
			bestValue = candidate.Value
			bestDist = dist
			bestID = id
		}
	}

	if bestID == "" {
		a.blackboard.Remove(refs.collectible)
		return
	}
	a.blackboard.Set(refs.collectible, Entity(bestID))
}

// senseThreat registers nearby projectiles into memory. Moving projectiles
// become line threats along their travel direction; stationary ones repel as
// area threats. One entry per projectile: re-registration refreshes the
// existing entry's payload and lifetime instead of stacking duplicates.
func (a *Agent) senseThreat(env *tickEnv, params threatSensorParams) {
	refs := a.archetype.refs
	self, ok := a.selfEntity(env)
	if !ok {
		return
	}

	threats := 0.0
	for _, id := range env.world.EntitiesInRadius(self.Pos, params.Range) {
		candidate, ok := env.world.Entity(id)
		if !ok || candidate.Kind != world.KindProjectile {
			continue
		}
		threats++
		kind := MemoryLineThreat
		if candidate.Vel.IsZero() {
			kind = MemoryAreaThreat
		}
		entry, found := a.memory.FindByEntity(id)
		if !found {
			handle := a.memory.AddTemporary(kind, params.Duration)
			entry, found = a.memory.Entry(handle)
			if !found {
				continue
			}
		}
		entry.Kind = kind
		entry.Entity = id
		entry.Position = candidate.Pos
		entry.Direction = candidate.Vel.Normalized()
		entry.Radius = params.Range
		entry.Weight = params.Weight
		a.memory.Touch(entry, params.Duration)
	}
	a.blackboard.Set(refs.threatLevel, Number(threats))
}

// senseTactic scores the engage, flee and collect options from what the
// other sensors have already written and records the strongest one. Equal
// scores resolve in the fixed order engage, flee, collect, so every client
// picks the same option.
func (a *Agent) senseTactic(env *tickEnv, params tacticSensorParams) {
	refs := a.archetype.refs
	healthRatio, _ := a.blackboard.GetOr(refs.healthRatio, Number(1)).AsNumber()
	threatLevel, _ := a.blackboard.GetOr(refs.threatLevel, Number(0)).AsNumber()

	best := tacticHold
	bestScore := 0.0

	if a.targetAvailable(env) {
		if score := params.Aggression * healthRatio; score > bestScore {
			best = tacticEngage
			bestScore = score
		}
	}
	if score := params.Caution * ((1 - healthRatio) + threatLevel); score > bestScore {
		best = tacticFlee
		bestScore = score
	}
	if id, err := a.blackboard.EntityRef(refs.collectible); err == nil && env.world.Exists(id) {
		if params.Greed > bestScore {
			best = tacticCollect
		}
	}

	a.blackboard.Set(refs.tactic, Number(best))
}

type targetEntity struct {
	ID  world.EntityID
	Pos world.Vec2
}

func vecFromAngle(angle float64) world.Vec2 {
	return world.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
}
