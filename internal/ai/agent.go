package ai

import "arenamind/server/internal/world"

// Agent is the per-entity runtime state of the decision core: one
// blackboard, one memory store, one HFSM cursor, one steering state and the
// countdown timers for the archetype's sensors. The archetype itself is
// shared and immutable.
type Agent struct {
	id           world.EntityID
	archetype    *Archetype
	blackboard   *Blackboard
	memory       *Memory
	cursor       cursor
	steering     steeringState
	sensorTimers []float64
	input        Input
	lastAim      world.Vec2
}

func newAgent(id world.EntityID, archetype *Archetype) *Agent {
	a := &Agent{
		id:           id,
		archetype:    archetype,
		blackboard:   NewBlackboard(archetype.keys),
		memory:       NewMemory(),
		sensorTimers: make([]float64, len(archetype.sensors)),
	}
	a.steering = newSteeringState(archetype.steering)
	for _, initial := range archetype.initial {
		a.blackboard.Set(initial.key, initial.value)
	}
	return a
}

// ID returns the entity handle this agent controls.
func (a *Agent) ID() world.EntityID {
	if a == nil {
		return ""
	}
	return a.id
}

// Archetype returns the shared configuration name.
func (a *Agent) Archetype() string {
	if a == nil || a.archetype == nil {
		return ""
	}
	return a.archetype.name
}

// Blackboard exposes the agent's short-term store.
func (a *Agent) Blackboard() *Blackboard {
	if a == nil {
		return nil
	}
	return a.blackboard
}

// Memory exposes the agent's long-term store.
func (a *Agent) Memory() *Memory {
	if a == nil {
		return nil
	}
	return a.memory
}

// Input returns the command committed on the last completed tick.
func (a *Agent) Input() Input {
	if a == nil {
		return Input{}
	}
	return a.input
}

// StateName returns the name of the current leaf state.
func (a *Agent) StateName() string {
	if a == nil || a.archetype == nil || a.cursor.leaf == noNode {
		return ""
	}
	return a.archetype.nodes[a.cursor.leaf].name
}

// teardown releases all per-agent state. No dangling references survive.
func (a *Agent) teardown() {
	if a == nil {
		return
	}
	a.blackboard.Clear()
	a.memory.Clear()
	a.cursor = cursor{leaf: noNode}
	a.steering = steeringState{}
	a.input = Input{}
	a.lastAim = world.Vec2{}
}

// selfEntity resolves the agent's own world entity.
func (a *Agent) selfEntity(env *tickEnv) (world.Entity, bool) {
	if a == nil || env == nil || env.world == nil {
		return world.Entity{}, false
	}
	return env.world.Entity(a.id)
}

// facing returns the direction the agent is considered to face for
// field-of-view checks: the aim committed on the last completed tick first,
// then the smoothed movement direction. A zero return means no facing,
// which sensors treat as omnidirectional vision.
func (a *Agent) facing() world.Vec2 {
	if a == nil {
		return world.Vec2{}
	}
	if !a.lastAim.IsZero() {
		return a.lastAim
	}
	return a.steering.current
}
