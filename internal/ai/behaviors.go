package ai

import "math"

const (
	behaviorIdle behaviorID = iota
	behaviorWait
	behaviorPatrol
	behaviorWander
	behaviorEngage
	behaviorStrafe
	behaviorFlee
	behaviorCollect
)

type waitParams struct {
	Seconds float64
}

type wanderParams struct {
	Radius       float64
	MinRadius    float64
	ArriveRadius float64
}

type engageParams struct {
	FireRange float64
}

type strafeParams struct {
	Seconds float64
}

type fleeParams struct {
	SafeRange float64
}

type collectParams struct {
	ArriveRadius float64
}

func behaviorName(id behaviorID) string {
	switch id {
	case behaviorIdle:
		return "idle"
	case behaviorWait:
		return "wait"
	case behaviorPatrol:
		return "patrol"
	case behaviorWander:
		return "wander"
	case behaviorEngage:
		return "engage"
	case behaviorStrafe:
		return "strafe"
	case behaviorFlee:
		return "flee"
	case behaviorCollect:
		return "collect"
	default:
		return ""
	}
}

func parseBehaviorID(name string) (behaviorID, bool) {
	switch name {
	case "idle":
		return behaviorIdle, true
	case "wait":
		return behaviorWait, true
	case "patrol":
		return behaviorPatrol, true
	case "wander":
		return behaviorWander, true
	case "engage":
		return behaviorEngage, true
	case "strafe":
		return behaviorStrafe, true
	case "flee":
		return behaviorFlee, true
	case "collect":
		return behaviorCollect, true
	default:
		return 0, false
	}
}

// enterBehavior runs a leaf's one-shot setup when the cursor lands on it.
func (a *Agent) enterBehavior(env *tickEnv, id behaviorID, paramIndex uint16) {
	switch id {
	case behaviorWander:
		params := a.archetype.wanderParams[paramIndex]
		self, ok := a.selfEntity(env)
		if !ok {
			a.cursor.finished = true
			return
		}
		// Both draws happen on every enter so the stream position does not
		// depend on the parameters.
		angle := env.rng.NextInclusive(0, 2*math.Pi)
		distance := env.rng.NextInclusive(params.MinRadius, params.Radius)
		dest := self.Pos.Add(vecFromAngle(angle).Scale(distance))
		a.steering.mode = steerPath
		a.steering.pathTarget = dest
	case behaviorStrafe:
		a.steering.strafeSign = 1
		if env.rng.Next() < 0.5 {
			a.steering.strafeSign = -1
		}
		a.steering.mode = steerStrafe
		// The steering pass runs before the next HFSM update, so the target
		// must be bound here or the first strafe tick has no desire.
		if target, ok := a.availableTarget(env); ok {
			a.steering.target = target.ID
		}
	case behaviorIdle, behaviorWait:
		a.steering.mode = steerNone
	}
}

// updateBehavior runs the active leaf once per tick when no transition
// fired. Behaviors that lose their prerequisite data set the finished flag
// and yield instead of faulting; the HFSM always has somewhere to fall back
// to.
func (a *Agent) updateBehavior(env *tickEnv, id behaviorID, paramIndex uint16) {
	refs := a.archetype.refs
	switch id {
	case behaviorIdle:
		a.steering.mode = steerNone
	case behaviorWait:
		params := a.archetype.waitParams[paramIndex]
		a.steering.mode = steerNone
		if a.cursor.elapsed >= params.Seconds {
			a.cursor.finished = true
		}
	case behaviorPatrol:
		self, ok := a.selfEntity(env)
		if !ok || env.paths == nil {
			a.cursor.finished = true
			return
		}
		waypoint, ok := env.paths.NextWaypoint(a.id, self.Pos)
		if !ok {
			a.cursor.finished = true
			return
		}
		a.steering.mode = steerPath
		a.steering.pathTarget = waypoint
	case behaviorWander:
		params := a.archetype.wanderParams[paramIndex]
		self, ok := a.selfEntity(env)
		if !ok {
			a.cursor.finished = true
			return
		}
		arrive := params.ArriveRadius
		if arrive <= 0 {
			arrive = 8
		}
		if self.Pos.DistanceTo(a.steering.pathTarget) <= arrive {
			a.cursor.finished = true
		}
	case behaviorEngage:
		params := a.archetype.engageParams[paramIndex]
		target, ok := a.availableTarget(env)
		if !ok {
			a.cursor.finished = true
			return
		}
		self, ok := a.selfEntity(env)
		if !ok {
			a.cursor.finished = true
			return
		}
		a.steering.mode = steerPursue
		a.steering.target = target.ID
		a.steering.engage = a.archetype.steering.engage
		a.steering.disengage = a.archetype.steering.disengage
		toTarget := target.Pos.Sub(self.Pos)
		dist := toTarget.Length()
		a.input.Aim = toTarget.Normalized()
		if dist <= params.FireRange && env.world.LineOfSight(self.Pos, target.Pos) {
			a.input.Primary = true
		}
	case behaviorStrafe:
		params := a.archetype.strafeParams[paramIndex]
		target, ok := a.availableTarget(env)
		if !ok {
			a.cursor.finished = true
			return
		}
		self, ok := a.selfEntity(env)
		if !ok {
			a.cursor.finished = true
			return
		}
		a.steering.mode = steerStrafe
		a.steering.target = target.ID
		a.input.Aim = target.Pos.Sub(self.Pos).Normalized()
		if a.cursor.elapsed >= params.Seconds {
			a.cursor.finished = true
		}
	case behaviorFlee:
		params := a.archetype.fleeParams[paramIndex]
		target, ok := a.availableTarget(env)
		if !ok {
			a.cursor.finished = true
			return
		}
		self, ok := a.selfEntity(env)
		if !ok {
			a.cursor.finished = true
			return
		}
		a.steering.mode = steerRetreat
		a.steering.target = target.ID
		if self.Pos.DistanceTo(target.Pos) >= params.SafeRange {
			a.cursor.finished = true
		}
	case behaviorCollect:
		params := a.archetype.collectParams[paramIndex]
		id, err := a.blackboard.EntityRef(refs.collectible)
		if err != nil {
			a.cursor.finished = true
			return
		}
		item, ok := env.world.Entity(id)
		if !ok {
			a.blackboard.Remove(refs.collectible)
			a.cursor.finished = true
			return
		}
		self, ok := a.selfEntity(env)
		if !ok {
			a.cursor.finished = true
			return
		}
		arrive := params.ArriveRadius
		if arrive <= 0 {
			arrive = 10
		}
		a.steering.mode = steerPursue
		a.steering.target = id
		a.steering.engage = arrive
		a.steering.disengage = 0
		if self.Pos.DistanceTo(item.Pos) <= arrive {
			a.input.Secondary = true
			a.cursor.finished = true
		}
	}
}

// exitBehavior tears down desire state the leaf owned.
func (a *Agent) exitBehavior(env *tickEnv, id behaviorID, paramIndex uint16) {
	switch id {
	case behaviorEngage, behaviorStrafe, behaviorFlee, behaviorCollect, behaviorPatrol, behaviorWander:
		a.steering.mode = steerNone
		a.steering.target = ""
		a.steering.strafeSign = 0
		a.steering.engage = a.archetype.steering.engage
		a.steering.disengage = a.archetype.steering.disengage
	}
}

// availableTarget resolves the blackboard target if it is still visible and
// alive in the world.
func (a *Agent) availableTarget(env *tickEnv) (targetEntity, bool) {
	refs := a.archetype.refs
	if !a.targetAvailable(env) {
		return targetEntity{}, false
	}
	id, err := a.blackboard.EntityRef(refs.target)
	if err != nil {
		return targetEntity{}, false
	}
	entity, ok := env.world.Entity(id)
	if !ok {
		return targetEntity{}, false
	}
	return targetEntity{ID: entity.ID, Pos: entity.Pos}, true
}
