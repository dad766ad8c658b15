package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"arenamind/server/internal/world"
)

func compileTestArchetype(t *testing.T, cfg archetypeConfig) *Archetype {
	t.Helper()
	arch, err := compileArchetype(&cfg)
	require.NoError(t, err)
	return arch
}

func libraryWith(archetypes ...*Archetype) *Library {
	lib := &Library{archetypes: make(map[string]*Archetype, len(archetypes))}
	for _, arch := range archetypes {
		lib.archetypes[arch.name] = arch
	}
	return lib
}

func newTestController(t *testing.T, w world.Query, paths PathProvider, lib *Library) *Controller {
	t.Helper()
	controller, err := NewController(ControllerConfig{
		World:   w,
		Paths:   paths,
		Library: lib,
		Seed:    "test-seed",
	})
	require.NoError(t, err)
	return controller
}

func fighter(id world.EntityID, team int, pos world.Vec2) world.Entity {
	return world.Entity{ID: id, Kind: world.KindFighter, Team: team, Pos: pos, Health: 100, MaxHealth: 100}
}

// testEnv builds a bare tick environment for exercising internals directly.
func testEnv(w world.Query, dt float64) tickEnv {
	return tickEnv{
		world: w,
		rng:   world.NewStream("test-seed", "ai-decisions"),
		dt:    dt,
	}
}
