package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"arenamind/server/internal/world"
)

func TestBlackboardSetGetRoundTrip(t *testing.T) {
	table := newKeyTable()
	custom := table.add("home")
	b := NewBlackboard(table)

	key, ok := table.Lookup(KeyNameTargetRange)
	require.True(t, ok)

	b.Set(key, Number(42.5))
	b.Set(custom, Vector(world.Vec2{X: 3, Y: 4}))

	got, err := b.Number(key)
	require.NoError(t, err)
	require.Equal(t, 42.5, got)

	vec, err := b.Vector(custom)
	require.NoError(t, err)
	require.Equal(t, world.Vec2{X: 3, Y: 4}, vec)
}

func TestBlackboardAbsentKey(t *testing.T) {
	table := newKeyTable()
	b := NewBlackboard(table)
	key, _ := table.Lookup(KeyNameTarget)

	require.False(t, b.Has(key))
	_, err := b.Get(key)
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.ErrorContains(t, err, KeyNameTarget)

	fallback := b.GetOr(key, Entity("e-1"))
	id, ok := fallback.AsEntity()
	require.True(t, ok)
	require.Equal(t, world.EntityID("e-1"), id)
}

func TestBlackboardTypeMismatch(t *testing.T) {
	table := newKeyTable()
	b := NewBlackboard(table)
	key, _ := table.Lookup(KeyNameHealthRatio)
	b.Set(key, Bool(true))

	_, err := b.Number(key)
	require.ErrorIs(t, err, ErrTypeMismatch)
	require.ErrorContains(t, err, KeyNameHealthRatio)
}

func TestBlackboardRemoveAndClear(t *testing.T) {
	table := newKeyTable()
	b := NewBlackboard(table)
	key, _ := table.Lookup(KeyNameThreatLevel)
	other, _ := table.Lookup(KeyNameHealthLow)

	b.Set(key, Number(2))
	b.Set(other, Bool(true))

	b.Remove(key)
	require.False(t, b.Has(key))
	require.True(t, b.Has(other))

	// Removing an absent key stays silent.
	b.Remove(key)

	b.Clear()
	require.False(t, b.Has(other))
}

func TestValueFromAuthoring(t *testing.T) {
	v, err := valueFromAuthoring(true)
	require.NoError(t, err)
	require.Equal(t, ValueBool, v.Kind())

	v, err = valueFromAuthoring(map[string]any{"x": 1.0, "y": 2.0})
	require.NoError(t, err)
	vec, ok := v.AsVector()
	require.True(t, ok)
	require.Equal(t, world.Vec2{X: 1, Y: 2}, vec)

	_, err = valueFromAuthoring(map[string]any{"x": 1.0})
	require.Error(t, err)

	_, err = valueFromAuthoring([]any{1.0})
	require.Error(t, err)
}
