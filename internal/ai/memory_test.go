package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"arenamind/server/internal/world"
)

func TestMemoryTemporaryExpiry(t *testing.T) {
	m := NewMemory()
	m.Cleanup(10)

	h := m.AddTemporary(MemoryAreaThreat, 2)
	entry, ok := m.Entry(h)
	require.True(t, ok)
	require.Equal(t, 12.0, entry.ExpiresAt)

	m.Cleanup(11.9)
	require.Equal(t, 1, m.Len())

	m.Cleanup(12.1)
	require.Equal(t, 0, m.Len())

	_, ok = m.Entry(h)
	require.False(t, ok, "handle must go stale after pruning")
}

func TestMemoryHandleGenerations(t *testing.T) {
	m := NewMemory()
	first := m.AddTemporary(MemoryAreaThreat, 1)
	m.Cleanup(5)

	// The slot is recycled; the old handle must not resolve to the new entry.
	second := m.AddInfinite(MemoryLineThreat)
	_, ok := m.Entry(first)
	require.False(t, ok)
	entry, ok := m.Entry(second)
	require.True(t, ok)
	require.Equal(t, MemoryLineThreat, entry.Kind)
}

func TestMemoryInsertionOrder(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 3; i++ {
		h := m.AddInfinite(MemoryAreaThreat)
		entry, _ := m.Entry(h)
		entry.Weight = float64(i)
	}

	var weights []float64
	m.ForEach(func(entry *MemoryEntry) {
		weights = append(weights, entry.Weight)
	})
	require.Equal(t, []float64{0, 1, 2}, weights)
}

func TestMemoryAvailabilityTracksReferent(t *testing.T) {
	w := world.NewWorld()
	w.Upsert(fighter("f-1", 1, world.Vec2{}))

	m := NewMemory()
	h := m.AddInfinite(MemoryAreaThreat)
	entry, _ := m.Entry(h)
	entry.Entity = "f-1"

	require.True(t, m.IsAvailable(entry, w))
	w.Remove("f-1")
	require.False(t, m.IsAvailable(entry, w), "despawned referent makes the entry unavailable")
}

func TestMemoryClearReleasesEverything(t *testing.T) {
	m := NewMemory()
	h := m.AddInfinite(MemoryAreaThreat)
	m.Clear()
	require.Equal(t, 0, m.Len())
	_, ok := m.Entry(h)
	require.False(t, ok)
}
