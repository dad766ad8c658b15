package ai

import (
	"context"
	"fmt"
	"sort"

	"arenamind/server/internal/world"
	"arenamind/server/logging"
	logdecision "arenamind/server/logging/decision"
)

// PathProvider hands out patrol waypoints. world.WaypointLoop satisfies it.
type PathProvider interface {
	NextWaypoint(id world.EntityID, pos world.Vec2) (world.Vec2, bool)
}

// ControllerConfig wires the decision core to its surroundings. World and
// Library are required; Paths is only needed when an attached archetype
// patrols, and a nil Publisher silences events.
type ControllerConfig struct {
	World     world.Query
	Paths     PathProvider
	Library   *Library
	Seed      string
	Publisher logging.Publisher
}

// Controller owns every agent and drives them through the fixed tick
// pipeline. Agents step in ascending ID order and all randomness flows
// through one seeded stream, so two controllers with the same seed and the
// same world inputs produce identical decisions.
type Controller struct {
	cfg    ControllerConfig
	rng    *world.Stream
	agents map[world.EntityID]*Agent
	order  []world.EntityID
	now    float64
	tick   uint64
}

// NewController creates an empty controller.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if cfg.World == nil {
		return nil, fmt.Errorf("controller requires a world")
	}
	if cfg.Library == nil {
		return nil, fmt.Errorf("controller requires an archetype library")
	}
	return &Controller{
		cfg:    cfg,
		rng:    world.NewStream(cfg.Seed, "ai-decisions"),
		agents: make(map[world.EntityID]*Agent),
	}, nil
}

// Attach binds an agent mind to an entity. Configuration problems are
// reported here, before the agent ever ticks; the tick path never faults.
func (c *Controller) Attach(id world.EntityID, archetypeName string) (*Agent, error) {
	if id == "" {
		return nil, fmt.Errorf("attach: entity id must not be empty")
	}
	if _, exists := c.agents[id]; exists {
		return nil, fmt.Errorf("attach %q: agent already attached", id)
	}
	arch, ok := c.cfg.Library.Archetype(archetypeName)
	if !ok {
		return nil, fmt.Errorf("attach %q: unknown archetype %q", id, archetypeName)
	}
	if arch.RequiresPaths() && c.cfg.Paths == nil {
		return nil, fmt.Errorf("attach %q: archetype %q patrols but no path provider is configured", id, archetypeName)
	}

	agent := newAgent(id, arch)
	env := c.env(0)
	agent.activate(&env)

	c.agents[id] = agent
	c.order = append(c.order, id)
	sort.Slice(c.order, func(i, j int) bool { return c.order[i] < c.order[j] })

	logdecision.AgentAttached(context.Background(), c.cfg.Publisher, c.tick, string(id), logdecision.AgentAttachedPayload{
		Archetype: archetypeName,
		State:     agent.StateName(),
	})
	return agent, nil
}

// Detach tears the agent down and reports whether one was attached.
func (c *Controller) Detach(id world.EntityID) bool {
	agent, ok := c.agents[id]
	if !ok {
		return false
	}
	agent.teardown()
	delete(c.agents, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	logdecision.AgentDetached(context.Background(), c.cfg.Publisher, c.tick, string(id))
	return true
}

// Agent returns the attached agent for an entity, or nil.
func (c *Controller) Agent(id world.EntityID) *Agent {
	if c == nil {
		return nil
	}
	return c.agents[id]
}

// Input returns the command the agent committed on the last completed tick.
func (c *Controller) Input(id world.EntityID) (Input, bool) {
	agent, ok := c.agents[id]
	if !ok {
		return Input{}, false
	}
	return agent.input, true
}

// IDs returns the attached entity IDs in ascending order. The returned slice
// is shared; callers must not mutate it.
func (c *Controller) IDs() []world.EntityID {
	if c == nil {
		return nil
	}
	return c.order
}

// Len returns the number of attached agents.
func (c *Controller) Len() int {
	if c == nil {
		return 0
	}
	return len(c.agents)
}

// Step advances every agent by one simulation tick. The pipeline per agent
// is fixed: reset the command, prune memory, run due sensors, resolve the
// movement direction from last tick's desire, then step the state machine.
// Agents whose entity has despawned skip the tick but stay attached; the
// owner decides when to detach.
func (c *Controller) Step(tick uint64, dt float64) {
	if c == nil || dt <= 0 {
		return
	}
	c.tick = tick
	c.now += dt
	env := c.env(dt)

	for _, id := range c.order {
		agent := c.agents[id]
		agent.lastAim = agent.input.Aim
		agent.input = Input{}
		agent.memory.Cleanup(c.now)
		if !env.world.Exists(id) {
			agent.steering.current = world.Vec2{}
			continue
		}
		agent.runSensors(&env)
		agent.input.Move = agent.resolveDirection(&env)
		agent.stepHFSM(&env)
	}
}

func (c *Controller) env(dt float64) tickEnv {
	return tickEnv{
		world:     c.cfg.World,
		paths:     c.cfg.Paths,
		rng:       c.rng,
		publisher: c.cfg.Publisher,
		tick:      c.tick,
		now:       c.now,
		dt:        dt,
	}
}
