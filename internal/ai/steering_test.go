package ai

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"arenamind/server/internal/world"
)

func steeringTestAgent(t *testing.T, cfg steeringConfig) *Agent {
	t.Helper()
	arch := compileTestArchetype(t, archetypeConfig{
		Name: "mover",
		Steering: steeringAuthoring{
			TurnRate:  cfg.turnRate,
			Engage:    cfg.engage,
			Disengage: cfg.disengage,
		},
		States: []stateAuthoring{{ID: "still", Behavior: "idle"}},
	})
	return newAgent("a-1", arch)
}

func requireUnit(t *testing.T, v world.Vec2) {
	t.Helper()
	require.InDelta(t, 1, v.Length(), 1e-9, "steering output must be a unit vector")
}

func TestResolveDirectionPathDesire(t *testing.T) {
	w := world.NewWorld()
	w.Upsert(fighter("a-1", 1, world.Vec2{}))

	agent := steeringTestAgent(t, steeringConfig{turnRate: 100})
	agent.steering.mode = steerPath
	agent.steering.pathTarget = world.Vec2{X: 30, Y: 40}

	env := testEnv(w, 0.1)
	dir := agent.resolveDirection(&env)
	requireUnit(t, dir)
	require.InDelta(t, 0.6, dir.X, 1e-9)
	require.InDelta(t, 0.8, dir.Y, 1e-9)
}

func TestResolveDirectionPursuitBand(t *testing.T) {
	w := world.NewWorld()
	w.Upsert(fighter("a-1", 1, world.Vec2{}))
	w.Upsert(fighter("prey", 2, world.Vec2{X: 100}))

	agent := steeringTestAgent(t, steeringConfig{turnRate: 100, engage: 50, disengage: 20})
	agent.steering.mode = steerPursue
	agent.steering.target = "prey"
	env := testEnv(w, 0.1)

	dir := agent.resolveDirection(&env)
	requireUnit(t, dir)
	require.Greater(t, dir.X, 0.0, "outside engage range the agent closes in")

	w.SetPosition("prey", world.Vec2{X: 10})
	agent.steering.current = world.Vec2{}
	dir = agent.resolveDirection(&env)
	requireUnit(t, dir)
	require.Less(t, dir.X, 0.0, "inside disengage range the agent backs off")

	w.SetPosition("prey", world.Vec2{X: 30})
	dir = agent.resolveDirection(&env)
	require.True(t, dir.IsZero(), "inside the band the agent holds position")
	require.True(t, agent.steering.current.IsZero(), "holding clears the smoothed direction")
}

func TestOpposingRepulsionsCancelToZero(t *testing.T) {
	w := world.NewWorld()
	w.Upsert(fighter("a-1", 1, world.Vec2{}))

	agent := steeringTestAgent(t, steeringConfig{turnRate: 100})
	for _, pos := range []world.Vec2{{X: 20}, {X: -20}} {
		h := agent.memory.AddInfinite(MemoryAreaThreat)
		entry, ok := agent.memory.Entry(h)
		require.True(t, ok)
		entry.Position = pos
		entry.Weight = 3
		entry.Radius = 100
	}

	env := testEnv(w, 0.1)
	dir := agent.resolveDirection(&env)
	require.True(t, dir.IsZero(), "symmetric threats cancel exactly")
}

func TestAreaThreatExpiryRestoresCourse(t *testing.T) {
	w := world.NewWorld()
	w.Upsert(fighter("a-1", 1, world.Vec2{}))

	agent := steeringTestAgent(t, steeringConfig{turnRate: 100})
	h := agent.memory.AddTemporary(MemoryAreaThreat, 1)
	entry, _ := agent.memory.Entry(h)
	entry.Position = world.Vec2{X: 15}
	entry.Weight = 2
	entry.Radius = 100

	env := testEnv(w, 0.1)
	dir := agent.resolveDirection(&env)
	requireUnit(t, dir)
	require.Less(t, dir.X, 0.0, "the live threat pushes the agent away")

	agent.memory.Cleanup(2)
	dir = agent.resolveDirection(&env)
	require.True(t, dir.IsZero(), "an expired threat no longer steers")
}

func TestLineThreatPushesLaterally(t *testing.T) {
	w := world.NewWorld()
	w.Upsert(fighter("a-1", 1, world.Vec2{Y: 0.5}))

	agent := steeringTestAgent(t, steeringConfig{turnRate: 100})
	h := agent.memory.AddInfinite(MemoryLineThreat)
	entry, _ := agent.memory.Entry(h)
	entry.Position = world.Vec2{X: -50}
	entry.Direction = world.Vec2{X: 1}
	entry.Weight = 2
	entry.Radius = 40

	env := testEnv(w, 0.1)
	dir := agent.resolveDirection(&env)
	requireUnit(t, dir)
	require.InDelta(t, 0.0, dir.X, 1e-9, "line avoidance is purely lateral")
	require.Greater(t, dir.Y, 0.0, "the push continues off the agent's side of the line")
}

func TestTurnRateBoundsDirectionChange(t *testing.T) {
	w := world.NewWorld()
	w.Upsert(fighter("a-1", 1, world.Vec2{}))

	agent := steeringTestAgent(t, steeringConfig{turnRate: 2})
	agent.steering.mode = steerPath
	agent.steering.pathTarget = world.Vec2{X: 100}
	env := testEnv(w, 0.1)

	first := agent.resolveDirection(&env)
	require.InDelta(t, 1, first.X, 1e-9, "from rest the agent snaps to the desired course")

	agent.steering.pathTarget = world.Vec2{Y: 100}
	second := agent.resolveDirection(&env)
	requireUnit(t, second)
	require.Greater(t, second.X, 0.0, "the old heading still dominates after one tick")
	require.Greater(t, second.Y, 0.0, "but the turn has begun")
	require.Less(t, second.Y, math.Sqrt2/2, "the turn rate caps progress toward the new course")
}

func TestStrafeSteersOnFirstTickAfterEntry(t *testing.T) {
	arch := compileTestArchetype(t, archetypeConfig{
		Name:     "circler",
		Steering: steeringAuthoring{TurnRate: 10, Engage: 50, Disengage: 10},
		Sensors: []sensorAuthoring{
			{Sense: "target", Rate: 0.1, Params: map[string]any{"range": 300.0}},
		},
		States: []stateAuthoring{
			{ID: "top", Default: "watch"},
			{ID: "watch", Parent: "top", Behavior: "idle",
				Transitions: []transitionAuthoring{{When: "target-visible", To: "circle"}}},
			{ID: "circle", Parent: "top", Behavior: "strafe", Params: map[string]any{"seconds": 5.0}},
		},
	})

	w := world.NewWorld()
	w.Upsert(fighter("a-1", 1, world.Vec2{}))
	w.Upsert(fighter("e-1", 2, world.Vec2{X: 60}))

	controller := newTestController(t, w, nil, libraryWith(arch))
	_, err := controller.Attach("a-1", "circler")
	require.NoError(t, err)
	agent := controller.Agent("a-1")

	controller.Step(1, 0.1)
	require.Equal(t, "circle", agent.StateName())

	controller.Step(2, 0.1)
	input, ok := controller.Input("a-1")
	require.True(t, ok)
	require.False(t, input.Move.IsZero(), "the tick after entry already circles the target")
	require.InDelta(t, 0, input.Move.X, 1e-9, "strafing at range is purely lateral")
}
