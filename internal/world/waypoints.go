package world

// WaypointLoop hands out looping patrol waypoints per entity. It stands in
// for the external navigation collaborator in the demo binary and tests.
type WaypointLoop struct {
	routes map[EntityID][]Vec2
	cursor map[EntityID]int
	arrive float64
}

// NewWaypointLoop creates a provider that advances to the next waypoint once
// the entity is within arriveRadius of the current one.
func NewWaypointLoop(arriveRadius float64) *WaypointLoop {
	if arriveRadius <= 0 {
		arriveRadius = 12
	}
	return &WaypointLoop{
		routes: make(map[EntityID][]Vec2),
		cursor: make(map[EntityID]int),
		arrive: arriveRadius,
	}
}

// SetRoute assigns the looping waypoint list for an entity.
func (p *WaypointLoop) SetRoute(id EntityID, waypoints []Vec2) {
	if p == nil || id == "" {
		return
	}
	p.routes[id] = append([]Vec2(nil), waypoints...)
	p.cursor[id] = 0
}

// ClearRoute removes an entity's route.
func (p *WaypointLoop) ClearRoute(id EntityID) {
	if p == nil {
		return
	}
	delete(p.routes, id)
	delete(p.cursor, id)
}

// NextWaypoint returns the current waypoint for the entity, advancing the
// cursor when pos has arrived at it. The second return is false when the
// entity has no route.
func (p *WaypointLoop) NextWaypoint(id EntityID, pos Vec2) (Vec2, bool) {
	if p == nil {
		return Vec2{}, false
	}
	route := p.routes[id]
	if len(route) == 0 {
		return Vec2{}, false
	}
	idx := p.cursor[id]
	if idx < 0 || idx >= len(route) {
		idx = 0
	}
	if pos.DistanceTo(route[idx]) <= p.arrive {
		idx = (idx + 1) % len(route)
		p.cursor[id] = idx
	}
	return route[idx], true
}
