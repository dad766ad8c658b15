package ai

import "arenamind/server/internal/world"

// MemoryKind discriminates the closed set of memory entry variants.
type MemoryKind uint8

const (
	// MemoryAreaThreat repels steering away from a position or entity.
	MemoryAreaThreat MemoryKind = iota + 1
	// MemoryLineThreat pushes steering sideways out of a linear threat such
	// as an incoming projectile.
	MemoryLineThreat
)

// String returns the snapshot name for the kind.
func (k MemoryKind) String() string {
	switch k {
	case MemoryAreaThreat:
		return "area-threat"
	case MemoryLineThreat:
		return "line-threat"
	default:
		return "invalid"
	}
}

// MemoryEntry is one long-term fact. Payload fields are inline; unused
// fields stay zero for the variant that does not need them.
type MemoryEntry struct {
	Kind      MemoryKind
	Entity    world.EntityID
	Position  world.Vec2
	Direction world.Vec2
	Radius    float64
	Weight    float64
	ExpiresAt float64
	Infinite  bool
}

// MemoryHandle addresses an entry without a raw pointer. Handles stay valid
// until the entry is pruned; a stale handle simply fails to resolve.
type MemoryHandle struct {
	index int32
	gen   uint32
}

type memorySlot struct {
	entry MemoryEntry
	gen   uint32
	live  bool
}

// Memory is an agent's long-term store: an arena of slots plus an insertion
// order list. Consumers iterate in append order and apply their own
// weighting; no priority ordering is maintained.
type Memory struct {
	slots []memorySlot
	order []int32
	free  []int32
	now   float64
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// AddTemporary appends an entry that expires duration seconds from the
// current simulation time and returns a handle to populate the payload.
func (m *Memory) AddTemporary(kind MemoryKind, duration float64) MemoryHandle {
	return m.add(MemoryEntry{Kind: kind, ExpiresAt: m.now + duration})
}

// AddInfinite appends an entry that never expires.
func (m *Memory) AddInfinite(kind MemoryKind) MemoryHandle {
	return m.add(MemoryEntry{Kind: kind, Infinite: true})
}

func (m *Memory) add(entry MemoryEntry) MemoryHandle {
	if m == nil {
		return MemoryHandle{index: -1}
	}
	var idx int32
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
		m.slots[idx].entry = entry
		m.slots[idx].live = true
	} else {
		idx = int32(len(m.slots))
		m.slots = append(m.slots, memorySlot{entry: entry, live: true})
	}
	m.order = append(m.order, idx)
	return MemoryHandle{index: idx, gen: m.slots[idx].gen}
}

// Entry resolves a handle to its mutable entry. The second return is false
// for a pruned or never-valid handle.
func (m *Memory) Entry(h MemoryHandle) (*MemoryEntry, bool) {
	if m == nil || h.index < 0 || int(h.index) >= len(m.slots) {
		return nil, false
	}
	slot := &m.slots[h.index]
	if !slot.live || slot.gen != h.gen {
		return nil, false
	}
	return &slot.entry, true
}

// Cleanup removes every entry whose expiration has passed. Called once per
// tick before any consumer reads memory; it also advances the store's notion
// of the current simulation time.
func (m *Memory) Cleanup(now float64) {
	if m == nil {
		return
	}
	m.now = now
	kept := m.order[:0]
	for _, idx := range m.order {
		slot := &m.slots[idx]
		if !slot.live {
			continue
		}
		if !slot.entry.Infinite && now > slot.entry.ExpiresAt {
			m.release(idx)
			continue
		}
		kept = append(kept, idx)
	}
	m.order = kept
}

func (m *Memory) release(idx int32) {
	slot := &m.slots[idx]
	slot.entry = MemoryEntry{}
	slot.live = false
	slot.gen++
	m.free = append(m.free, idx)
}

// Touch extends a temporary entry's lifetime to duration seconds from the
// current simulation time. Infinite entries are left alone.
func (m *Memory) Touch(entry *MemoryEntry, duration float64) {
	if m == nil || entry == nil || entry.Infinite {
		return
	}
	entry.ExpiresAt = m.now + duration
}

// FindByEntity returns the first live entry referencing the entity, in
// insertion order.
func (m *Memory) FindByEntity(id world.EntityID) (*MemoryEntry, bool) {
	if m == nil || id == "" {
		return nil, false
	}
	for _, idx := range m.order {
		slot := &m.slots[idx]
		if slot.live && slot.entry.Entity == id {
			return &slot.entry, true
		}
	}
	return nil, false
}

// IsAvailable reports whether consumers may use the entry: not expired and,
// when the entry references an entity, that entity still exists.
func (m *Memory) IsAvailable(entry *MemoryEntry, w world.Query) bool {
	if m == nil || entry == nil {
		return false
	}
	if !entry.Infinite && m.now > entry.ExpiresAt {
		return false
	}
	if entry.Entity != "" {
		if w == nil || !w.Exists(entry.Entity) {
			return false
		}
	}
	return true
}

// ForEach visits live entries in insertion order.
func (m *Memory) ForEach(fn func(*MemoryEntry)) {
	if m == nil || fn == nil {
		return
	}
	for _, idx := range m.order {
		slot := &m.slots[idx]
		if slot.live {
			fn(&slot.entry)
		}
	}
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Clear releases every entry. Used on agent teardown.
func (m *Memory) Clear() {
	if m == nil {
		return
	}
	for _, idx := range m.order {
		m.release(idx)
	}
	m.order = m.order[:0]
}
