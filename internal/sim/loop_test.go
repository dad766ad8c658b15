package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"arenamind/server/internal/ai"
	"arenamind/server/internal/telemetry"
	"arenamind/server/internal/world"
)

func buildLoop(t *testing.T, seed string) (*Loop, *world.World, *telemetry.Counters) {
	t.Helper()
	w := world.NewWorld()
	w.Upsert(world.Entity{ID: "npc-1", Kind: world.KindFighter, Team: 1, Pos: world.Vec2{X: 100, Y: 100}, Health: 80, MaxHealth: 80})
	w.Upsert(world.Entity{ID: "raider", Kind: world.KindFighter, Team: 2, Pos: world.Vec2{X: 260, Y: 100}, Health: 100, MaxHealth: 100})
	w.Upsert(world.Entity{ID: "bolt", Kind: world.KindProjectile, Pos: world.Vec2{X: 0, Y: 0}, Vel: world.Vec2{X: 50}})

	library, err := ai.LoadLibrary()
	require.NoError(t, err)
	controller, err := ai.NewController(ai.ControllerConfig{
		World:   w,
		Library: library,
		Seed:    seed,
	})
	require.NoError(t, err)
	_, err = controller.Attach("npc-1", "skirmisher")
	require.NoError(t, err)

	metrics := telemetry.NewCounters()
	loop, err := NewLoop(Config{TickRate: 10, MoveSpeed: 60}, w, controller, metrics)
	require.NoError(t, err)
	return loop, w, metrics
}

func TestNewLoopValidation(t *testing.T) {
	_, err := NewLoop(Config{TickRate: 0}, world.NewWorld(), nil, nil)
	require.ErrorContains(t, err, "tick rate")

	_, err = NewLoop(Config{TickRate: 10}, nil, nil, nil)
	require.ErrorContains(t, err, "requires a world")

	_, err = NewLoop(Config{TickRate: 10}, world.NewWorld(), nil, nil)
	require.ErrorContains(t, err, "requires a controller")
}

func TestStepAdvancesProjectilesAndCountsTicks(t *testing.T) {
	loop, w, metrics := buildLoop(t, "loop-test")

	loop.Advance(10)
	require.Equal(t, uint64(10), loop.Tick())
	require.Equal(t, uint64(10), metrics.Value("sim.ticks"))
	require.Equal(t, uint64(1), metrics.Value("sim.agents"))

	bolt, ok := w.Entity("bolt")
	require.True(t, ok)
	require.InDelta(t, 50.0, bolt.Pos.X, 1e-9, "projectile advances at its velocity for one second")
}

func TestAgentMovesUnderLoop(t *testing.T) {
	loop, w, _ := buildLoop(t, "loop-test")
	start, _ := w.Entity("npc-1")

	loop.Advance(50)

	now, _ := w.Entity("npc-1")
	require.NotEqual(t, start.Pos, now.Pos, "the skirmisher reacts to the raider and moves")
}

func TestLoopsWithSameSeedProduceSameWorld(t *testing.T) {
	first, w1, _ := buildLoop(t, "same-seed")
	second, w2, _ := buildLoop(t, "same-seed")

	first.Advance(100)
	second.Advance(100)

	for _, id := range w1.IDs() {
		a, _ := w1.Entity(id)
		b, ok := w2.Entity(id)
		require.True(t, ok)
		require.Equal(t, a.Pos, b.Pos, "entity %s position diverged", id)
	}
}
