package ai

import "arenamind/server/internal/world"

// AgentSnapshot is a read-only copy of one agent's decision state, built for
// the debug surface. Building one never mutates the agent.
type AgentSnapshot struct {
	ID         string                    `json:"id"`
	Archetype  string                    `json:"archetype"`
	State      string                    `json:"state"`
	Elapsed    float64                   `json:"elapsed"`
	Finished   bool                      `json:"finished"`
	Input      Input                     `json:"input"`
	Blackboard []BlackboardSnapshotEntry `json:"blackboard,omitempty"`
	Memory     []MemorySnapshotEntry     `json:"memory,omitempty"`
}

// BlackboardSnapshotEntry is one populated blackboard slot.
type BlackboardSnapshotEntry struct {
	Key   string `json:"key"`
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// MemorySnapshotEntry is one live memory entry.
type MemorySnapshotEntry struct {
	Kind      string     `json:"kind"`
	Entity    string     `json:"entity,omitempty"`
	Position  world.Vec2 `json:"position"`
	Direction world.Vec2 `json:"direction"`
	Radius    float64    `json:"radius"`
	Weight    float64    `json:"weight"`
	ExpiresAt float64    `json:"expiresAt"`
	Infinite  bool       `json:"infinite"`
}

// Snapshot captures the agent's current decision state.
func (a *Agent) Snapshot() AgentSnapshot {
	if a == nil {
		return AgentSnapshot{}
	}
	snap := AgentSnapshot{
		ID:        string(a.id),
		Archetype: a.Archetype(),
		State:     a.StateName(),
		Elapsed:   a.cursor.elapsed,
		Finished:  a.cursor.finished,
		Input:     a.input,
	}
	if a.blackboard != nil {
		table := a.blackboard.table
		for key, value := range a.blackboard.slots {
			if value.kind == ValueNone {
				continue
			}
			snap.Blackboard = append(snap.Blackboard, BlackboardSnapshotEntry{
				Key:   table.Name(Key(key)),
				Kind:  value.kind.String(),
				Value: value.Interface(),
			})
		}
	}
	a.memory.ForEach(func(entry *MemoryEntry) {
		snap.Memory = append(snap.Memory, MemorySnapshotEntry{
			Kind:      entry.Kind.String(),
			Entity:    string(entry.Entity),
			Position:  entry.Position,
			Direction: entry.Direction,
			Radius:    entry.Radius,
			Weight:    entry.Weight,
			ExpiresAt: entry.ExpiresAt,
			Infinite:  entry.Infinite,
		})
	})
	return snap
}

// Snapshots captures every attached agent in ascending ID order.
func (c *Controller) Snapshots() []AgentSnapshot {
	if c == nil {
		return nil
	}
	snaps := make([]AgentSnapshot, 0, len(c.order))
	for _, id := range c.order {
		snaps = append(snaps, c.agents[id].Snapshot())
	}
	return snaps
}
