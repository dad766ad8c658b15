package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadLibraryCompilesEmbeddedConfigs(t *testing.T) {
	lib, err := LoadLibrary()
	require.NoError(t, err)
	require.Equal(t, []string{"brawler", "skirmisher"}, lib.Names())

	brawler, ok := lib.Archetype("brawler")
	require.True(t, ok)
	require.True(t, brawler.RequiresPaths(), "brawler patrols")
	require.NotZero(t, brawler.Keys().Len())

	skirmisher, ok := lib.Archetype("skirmisher")
	require.True(t, ok)
	require.False(t, skirmisher.RequiresPaths())

	_, ok = lib.Archetype("ghost")
	require.False(t, ok)
}

func TestAuthoringSchemaReflects(t *testing.T) {
	raw, err := AuthoringSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, "Archetype", doc["title"])
}

func TestCompileRejectsBrokenConfigs(t *testing.T) {
	base := func() archetypeConfig {
		return archetypeConfig{
			Name:     "broken",
			Steering: steeringAuthoring{TurnRate: 5},
			States: []stateAuthoring{
				{ID: "top", Default: "a"},
				{ID: "a", Parent: "top", Behavior: "idle"},
			},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*archetypeConfig)
		wantErr string
	}{
		{
			name:    "empty name",
			mutate:  func(cfg *archetypeConfig) { cfg.Name = "" },
			wantErr: "name must not be empty",
		},
		{
			name: "unknown sensor",
			mutate: func(cfg *archetypeConfig) {
				cfg.Sensors = []sensorAuthoring{{Sense: "smell", Rate: 1}}
			},
			wantErr: "unknown sense",
		},
		{
			name: "zero sensor rate",
			mutate: func(cfg *archetypeConfig) {
				cfg.Sensors = []sensorAuthoring{{Sense: "health", Rate: 0}}
			},
			wantErr: "rate must be positive",
		},
		{
			name: "duplicate state id",
			mutate: func(cfg *archetypeConfig) {
				cfg.States = append(cfg.States, stateAuthoring{ID: "a", Parent: "top", Behavior: "idle"})
			},
			wantErr: "duplicate state id",
		},
		{
			name: "two roots",
			mutate: func(cfg *archetypeConfig) {
				cfg.States = append(cfg.States, stateAuthoring{ID: "stray", Behavior: "idle"})
			},
			wantErr: "exactly one root",
		},
		{
			name: "unknown parent",
			mutate: func(cfg *archetypeConfig) {
				cfg.States[1].Parent = "nowhere"
			},
			wantErr: "unknown parent",
		},
		{
			name: "composite without default is a leaf without behavior",
			mutate: func(cfg *archetypeConfig) {
				cfg.States[0].Default = ""
			},
			wantErr: "a leaf must name a behavior",
		},
		{
			name: "composite with behavior",
			mutate: func(cfg *archetypeConfig) {
				cfg.States[0].Behavior = "idle"
			},
			wantErr: "composite cannot carry a behavior",
		},
		{
			name: "default outside children",
			mutate: func(cfg *archetypeConfig) {
				cfg.States = append(cfg.States, stateAuthoring{ID: "far", Parent: "a", Behavior: "idle"})
				cfg.States[0].Default = "far"
			},
			wantErr: "not one of its children",
		},
		{
			name: "unknown behavior",
			mutate: func(cfg *archetypeConfig) {
				cfg.States[1].Behavior = "moonwalk"
			},
			wantErr: "unknown behavior",
		},
		{
			name: "unknown decision",
			mutate: func(cfg *archetypeConfig) {
				cfg.States[1].Transitions = []transitionAuthoring{{When: "feels-like-it", To: "top"}}
			},
			wantErr: "unknown decision",
		},
		{
			name: "unknown transition target",
			mutate: func(cfg *archetypeConfig) {
				cfg.States[1].Transitions = []transitionAuthoring{{When: "no-targets", To: "gone"}}
			},
			wantErr: "unknown target",
		},
		{
			name: "probability out of range",
			mutate: func(cfg *archetypeConfig) {
				cfg.States[1].Transitions = []transitionAuthoring{
					{When: "random-chance", Params: map[string]any{"probability": 1.5}, To: "top"},
				}
			},
			wantErr: "probability must be within",
		},
		{
			name: "unknown tactic option",
			mutate: func(cfg *archetypeConfig) {
				cfg.States[1].Transitions = []transitionAuthoring{
					{When: "tactic-is", Params: map[string]any{"option": "panic"}, To: "top"},
				}
			},
			wantErr: "option must be one of",
		},
		{
			name: "bad blackboard literal",
			mutate: func(cfg *archetypeConfig) {
				cfg.Blackboard = map[string]any{"home": map[string]any{"x": 1.0}}
			},
			wantErr: "blackboard key",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			_, err := compileArchetype(&cfg)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestCompileRegistersCanonicalAndCustomKeys(t *testing.T) {
	cfg := archetypeConfig{
		Name:       "keyed",
		Steering:   steeringAuthoring{TurnRate: 5},
		Blackboard: map[string]any{"bravery": 0.7, "anchor": map[string]any{"x": 5.0, "y": 6.0}},
		States:     []stateAuthoring{{ID: "only", Behavior: "idle"}},
	}
	arch, err := compileArchetype(&cfg)
	require.NoError(t, err)

	for _, name := range canonicalKeyNames {
		_, ok := arch.keys.Lookup(name)
		require.True(t, ok, "canonical key %q must be registered", name)
	}
	_, ok := arch.keys.Lookup("bravery")
	require.True(t, ok)
	require.Len(t, arch.initial, 2)
}
