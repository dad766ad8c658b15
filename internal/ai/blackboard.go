package ai

import (
	"errors"
	"fmt"

	"arenamind/server/internal/world"
)

// ErrKeyNotFound is returned by the strict accessors for an absent key.
var ErrKeyNotFound = errors.New("blackboard key not found")

// ErrTypeMismatch is returned when a key holds a value of another kind.
var ErrTypeMismatch = errors.New("blackboard value type mismatch")

// Blackboard is an agent's short-term memory: one slot per key in the
// archetype's key table. All accessors are O(1).
type Blackboard struct {
	table *KeyTable
	slots []Value
}

// NewBlackboard creates an empty blackboard over the given key table.
func NewBlackboard(table *KeyTable) *Blackboard {
	return &Blackboard{table: table, slots: make([]Value, table.Len())}
}

// Set overwrites or inserts the value stored under key.
func (b *Blackboard) Set(key Key, value Value) {
	if b == nil || int(key) >= len(b.slots) {
		return
	}
	b.slots[key] = value
}

// Get returns the value stored under key. Reading an absent key is a
// programming error surfaced as ErrKeyNotFound; GetOr is the safe path.
func (b *Blackboard) Get(key Key) (Value, error) {
	if b == nil || int(key) >= len(b.slots) {
		return Value{}, fmt.Errorf("%w: key index %d out of range", ErrKeyNotFound, key)
	}
	value := b.slots[key]
	if value.kind == ValueNone {
		return Value{}, fmt.Errorf("%w: %q", ErrKeyNotFound, b.table.Name(key))
	}
	return value, nil
}

// GetOr returns the stored value, or fallback when the key is absent.
func (b *Blackboard) GetOr(key Key, fallback Value) Value {
	if b == nil || int(key) >= len(b.slots) {
		return fallback
	}
	if value := b.slots[key]; value.kind != ValueNone {
		return value
	}
	return fallback
}

// Has reports whether the key holds a value.
func (b *Blackboard) Has(key Key) bool {
	if b == nil || int(key) >= len(b.slots) {
		return false
	}
	return b.slots[key].kind != ValueNone
}

// Remove clears the slot. Removing an absent key is a no-op.
func (b *Blackboard) Remove(key Key) {
	if b == nil || int(key) >= len(b.slots) {
		return
	}
	b.slots[key] = Value{}
}

// Clear releases every slot.
func (b *Blackboard) Clear() {
	if b == nil {
		return
	}
	for i := range b.slots {
		b.slots[i] = Value{}
	}
}

// Bool reads a boolean with strict kind checking.
func (b *Blackboard) Bool(key Key) (bool, error) {
	value, err := b.Get(key)
	if err != nil {
		return false, err
	}
	typed, ok := value.AsBool()
	if !ok {
		return false, b.mismatch(key, ValueBool, value.kind)
	}
	return typed, nil
}

// Number reads a float64 with strict kind checking.
func (b *Blackboard) Number(key Key) (float64, error) {
	value, err := b.Get(key)
	if err != nil {
		return 0, err
	}
	typed, ok := value.AsNumber()
	if !ok {
		return 0, b.mismatch(key, ValueNumber, value.kind)
	}
	return typed, nil
}

// Vector reads a vector with strict kind checking.
func (b *Blackboard) Vector(key Key) (world.Vec2, error) {
	value, err := b.Get(key)
	if err != nil {
		return world.Vec2{}, err
	}
	typed, ok := value.AsVector()
	if !ok {
		return world.Vec2{}, b.mismatch(key, ValueVector, value.kind)
	}
	return typed, nil
}

// EntityRef reads an entity handle with strict kind checking.
func (b *Blackboard) EntityRef(key Key) (world.EntityID, error) {
	value, err := b.Get(key)
	if err != nil {
		return "", err
	}
	typed, ok := value.AsEntity()
	if !ok {
		return "", b.mismatch(key, ValueEntity, value.kind)
	}
	return typed, nil
}

func (b *Blackboard) mismatch(key Key, want, got ValueKind) error {
	return fmt.Errorf("%w: %q holds %s, want %s", ErrTypeMismatch, b.table.Name(key), got, want)
}
