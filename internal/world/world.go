package world

import "sort"

// EntityID identifies a world entity. IDs sort lexicographically, which the
// AI core relies on for deterministic iteration order.
type EntityID string

// Kind classifies world entities for perception filtering.
type Kind string

const (
	KindFighter     Kind = "fighter"
	KindCollectible Kind = "collectible"
	KindProjectile  Kind = "projectile"
)

// Entity is the read-only view of a world entity exposed to the AI core.
type Entity struct {
	ID        EntityID
	Kind      Kind
	Team      int
	Pos       Vec2
	Vel       Vec2
	Health    float64
	MaxHealth float64
	Value     float64
}

// Query is the world surface consumed by the AI core. Implementations must be
// read-only from the core's perspective and safe for concurrent reads.
type Query interface {
	Exists(id EntityID) bool
	Entity(id EntityID) (Entity, bool)
	// EntitiesInRadius returns the IDs of all entities whose position lies
	// within radius of center, sorted lexicographically.
	EntitiesInRadius(center Vec2, radius float64) []EntityID
	LineOfSight(from, to Vec2) bool
}

// Obstacle is an axis-aligned rectangle blocking line of sight.
type Obstacle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// World is an in-memory Query implementation used by the demo binary and the
// package tests. It is not safe for concurrent mutation.
type World struct {
	entities  map[EntityID]Entity
	obstacles []Obstacle
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{entities: make(map[EntityID]Entity)}
}

// Upsert inserts or replaces an entity.
func (w *World) Upsert(entity Entity) {
	if w == nil || entity.ID == "" {
		return
	}
	w.entities[entity.ID] = entity
}

// Remove deletes an entity. Removing an unknown ID is a no-op.
func (w *World) Remove(id EntityID) {
	if w == nil {
		return
	}
	delete(w.entities, id)
}

// AddObstacle registers a line-of-sight blocker.
func (w *World) AddObstacle(obs Obstacle) {
	if w == nil {
		return
	}
	w.obstacles = append(w.obstacles, obs)
}

// SetPosition moves an entity, keeping the rest of its state.
func (w *World) SetPosition(id EntityID, pos Vec2) {
	if w == nil {
		return
	}
	entity, ok := w.entities[id]
	if !ok {
		return
	}
	entity.Pos = pos
	w.entities[id] = entity
}

// SetHealth adjusts an entity's current health.
func (w *World) SetHealth(id EntityID, health float64) {
	if w == nil {
		return
	}
	entity, ok := w.entities[id]
	if !ok {
		return
	}
	entity.Health = health
	w.entities[id] = entity
}

// Exists implements Query.
func (w *World) Exists(id EntityID) bool {
	if w == nil {
		return false
	}
	_, ok := w.entities[id]
	return ok
}

// Entity implements Query.
func (w *World) Entity(id EntityID) (Entity, bool) {
	if w == nil {
		return Entity{}, false
	}
	entity, ok := w.entities[id]
	return entity, ok
}

// EntitiesInRadius implements Query. Results are sorted by ID so callers
// iterate in the same order on every client.
func (w *World) EntitiesInRadius(center Vec2, radius float64) []EntityID {
	if w == nil || radius <= 0 {
		return nil
	}
	ids := make([]EntityID, 0, len(w.entities))
	radiusSq := radius * radius
	for id, entity := range w.entities {
		dx := entity.Pos.X - center.X
		dy := entity.Pos.Y - center.Y
		if dx*dx+dy*dy <= radiusSq {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LineOfSight implements Query by testing the segment against every obstacle.
func (w *World) LineOfSight(from, to Vec2) bool {
	if w == nil {
		return false
	}
	for _, obs := range w.obstacles {
		if segmentIntersectsRect(from, to, obs) {
			return false
		}
	}
	return true
}

// IDs returns every entity ID in lexicographic order.
func (w *World) IDs() []EntityID {
	if w == nil {
		return nil
	}
	ids := make([]EntityID, 0, len(w.entities))
	for id := range w.entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns a deep copy. Determinism tests step two clones side by side.
func (w *World) Clone() *World {
	if w == nil {
		return nil
	}
	clone := NewWorld()
	for id, entity := range w.entities {
		clone.entities[id] = entity
	}
	clone.obstacles = append([]Obstacle(nil), w.obstacles...)
	return clone
}

func segmentIntersectsRect(a, b Vec2, obs Obstacle) bool {
	minX, maxX := obs.X, obs.X+obs.Width
	minY, maxY := obs.Y, obs.Y+obs.Height

	if a.X >= minX && a.X <= maxX && a.Y >= minY && a.Y <= maxY {
		return true
	}
	if b.X >= minX && b.X <= maxX && b.Y >= minY && b.Y <= maxY {
		return true
	}

	corners := [4]Vec2{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}
	for i := 0; i < 4; i++ {
		if segmentsIntersect(a, b, corners[i], corners[(i+1)%4]) {
			return true
		}
	}
	return false
}

func segmentsIntersect(p1, p2, p3, p4 Vec2) bool {
	d1 := cross(p4.Sub(p3), p1.Sub(p3))
	d2 := cross(p4.Sub(p3), p2.Sub(p3))
	d3 := cross(p2.Sub(p1), p3.Sub(p1))
	d4 := cross(p2.Sub(p1), p4.Sub(p1))
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return false
}

func cross(a, b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}
