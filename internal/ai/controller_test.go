package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"arenamind/server/internal/world"
)

func idleArchetype(t *testing.T, name string) *Archetype {
	t.Helper()
	return compileTestArchetype(t, archetypeConfig{
		Name:     name,
		Steering: steeringAuthoring{TurnRate: 5},
		States:   []stateAuthoring{{ID: "still", Behavior: "idle"}},
	})
}

func TestAttachValidation(t *testing.T) {
	w := world.NewWorld()
	w.Upsert(fighter("a-1", 1, world.Vec2{}))
	lib := libraryWith(idleArchetype(t, "loafer"))
	controller := newTestController(t, w, nil, lib)

	_, err := controller.Attach("", "loafer")
	require.ErrorContains(t, err, "must not be empty")

	_, err = controller.Attach("a-1", "phantom")
	require.ErrorContains(t, err, "unknown archetype")

	_, err = controller.Attach("a-1", "loafer")
	require.NoError(t, err)
	_, err = controller.Attach("a-1", "loafer")
	require.ErrorContains(t, err, "already attached")
	require.Equal(t, 1, controller.Len())
}

func TestAttachRequiresPathProviderForPatrollers(t *testing.T) {
	patroller := compileTestArchetype(t, archetypeConfig{
		Name:     "walker",
		Steering: steeringAuthoring{TurnRate: 5},
		States: []stateAuthoring{
			{ID: "route", Behavior: "patrol"},
		},
	})
	w := world.NewWorld()
	w.Upsert(fighter("a-1", 1, world.Vec2{}))

	controller := newTestController(t, w, nil, libraryWith(patroller))
	_, err := controller.Attach("a-1", "walker")
	require.ErrorContains(t, err, "no path provider")

	withPaths := newTestController(t, w, world.NewWaypointLoop(10), libraryWith(patroller))
	_, err = withPaths.Attach("a-1", "walker")
	require.NoError(t, err)
}

func TestDetachReleasesAgent(t *testing.T) {
	w := world.NewWorld()
	w.Upsert(fighter("a-1", 1, world.Vec2{}))
	controller := newTestController(t, w, nil, libraryWith(idleArchetype(t, "loafer")))

	agent, err := controller.Attach("a-1", "loafer")
	require.NoError(t, err)
	agent.Blackboard().Set(agent.archetype.refs.threatLevel, Number(4))
	agent.Memory().AddInfinite(MemoryAreaThreat)

	require.True(t, controller.Detach("a-1"))
	require.False(t, controller.Detach("a-1"), "double detach reports absence")
	require.Nil(t, controller.Agent("a-1"))
	_, ok := controller.Input("a-1")
	require.False(t, ok)

	require.Equal(t, 0, agent.Memory().Len(), "teardown releases memory")
	require.Equal(t, "", agent.StateName())
}

func TestStepSkipsDespawnedEntities(t *testing.T) {
	w := world.NewWorld()
	w.Upsert(fighter("a-1", 1, world.Vec2{}))
	controller := newTestController(t, w, nil, libraryWith(idleArchetype(t, "loafer")))
	_, err := controller.Attach("a-1", "loafer")
	require.NoError(t, err)

	controller.Step(1, 0.1)
	w.Remove("a-1")
	controller.Step(2, 0.1)

	input, ok := controller.Input("a-1")
	require.True(t, ok, "the agent stays attached until the owner detaches it")
	require.Equal(t, Input{}, input)
}

func TestControllersWithSameSeedStayIdentical(t *testing.T) {
	lib, err := LoadLibrary()
	require.NoError(t, err)

	build := func() (*world.World, *world.WaypointLoop) {
		w := world.NewWorld()
		w.Upsert(fighter("npc-a", 1, world.Vec2{X: 100, Y: 100}))
		w.Upsert(fighter("npc-b", 1, world.Vec2{X: 400, Y: 300}))
		w.Upsert(fighter("raider", 2, world.Vec2{X: 600, Y: 150}))
		w.Upsert(world.Entity{ID: "loot", Kind: world.KindCollectible, Pos: world.Vec2{X: 350, Y: 350}, Value: 10})
		w.AddObstacle(world.Obstacle{X: 250, Y: 150, Width: 80, Height: 30})
		paths := world.NewWaypointLoop(14)
		paths.SetRoute("npc-a", []world.Vec2{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 260}})
		return w, paths
	}

	type run struct {
		world      *world.World
		controller *Controller
	}
	newRun := func() run {
		w, paths := build()
		controller, err := NewController(ControllerConfig{
			World:   w,
			Paths:   paths,
			Library: lib,
			Seed:    "determinism",
		})
		require.NoError(t, err)
		_, err = controller.Attach("npc-a", "brawler")
		require.NoError(t, err)
		_, err = controller.Attach("npc-b", "skirmisher")
		require.NoError(t, err)
		return run{world: w, controller: controller}
	}

	first, second := newRun(), newRun()

	const (
		ticks = 200
		dt    = 0.1
		speed = 60.0
	)
	for tick := uint64(1); tick <= ticks; tick++ {
		first.controller.Step(tick, dt)
		second.controller.Step(tick, dt)

		for _, r := range []run{first, second} {
			for _, id := range r.controller.IDs() {
				input, _ := r.controller.Input(id)
				entity, ok := r.world.Entity(id)
				if !ok || input.Move.IsZero() {
					continue
				}
				r.world.SetPosition(id, entity.Pos.Add(input.Move.Scale(speed*dt)))
			}
		}

		require.Equal(t,
			first.controller.Snapshots(),
			second.controller.Snapshots(),
			"tick %d diverged", tick)
	}

	// The run actually did something: at least one agent moved and changed
	// state at some point.
	entity, ok := first.world.Entity("npc-a")
	require.True(t, ok)
	require.NotEqual(t, world.Vec2{X: 100, Y: 100}, entity.Pos)
}

func TestSnapshotsAreOrderedAndComplete(t *testing.T) {
	w := world.NewWorld()
	for _, id := range []world.EntityID{"c-3", "a-1", "b-2"} {
		w.Upsert(fighter(id, 1, world.Vec2{}))
	}
	controller := newTestController(t, w, nil, libraryWith(idleArchetype(t, "loafer")))
	for _, id := range []world.EntityID{"c-3", "a-1", "b-2"} {
		_, err := controller.Attach(id, "loafer")
		require.NoError(t, err)
	}
	controller.Step(1, 0.1)

	snaps := controller.Snapshots()
	require.Len(t, snaps, 3)
	require.Equal(t, "a-1", snaps[0].ID)
	require.Equal(t, "b-2", snaps[1].ID)
	require.Equal(t, "c-3", snaps[2].ID)
	for _, snap := range snaps {
		require.Equal(t, "loafer", snap.Archetype)
		require.Equal(t, "still", snap.State)
	}
}
