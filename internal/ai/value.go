package ai

import (
	"fmt"

	"arenamind/server/internal/world"
)

// ValueKind discriminates the blackboard value union.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueBool
	ValueNumber
	ValueVector
	ValueEntity
	ValueString
)

// String returns the lowercase kind name used in snapshots and errors.
func (k ValueKind) String() string {
	switch k {
	case ValueNone:
		return "none"
	case ValueBool:
		return "bool"
	case ValueNumber:
		return "number"
	case ValueVector:
		return "vector"
	case ValueEntity:
		return "entity"
	case ValueString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is a tagged union stored in blackboard slots. The zero Value marks an
// absent slot.
type Value struct {
	kind ValueKind
	b    bool
	num  float64
	vec  world.Vec2
	ent  world.EntityID
	str  string
}

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{kind: ValueBool, b: v} }

// Number wraps a float64.
func Number(v float64) Value { return Value{kind: ValueNumber, num: v} }

// Vector wraps a 2D vector.
func Vector(v world.Vec2) Value { return Value{kind: ValueVector, vec: v} }

// Entity wraps an entity handle.
func Entity(id world.EntityID) Value { return Value{kind: ValueEntity, ent: id} }

// String wraps a string.
func String(v string) Value { return Value{kind: ValueString, str: v} }

// Kind returns the union discriminator.
func (v Value) Kind() ValueKind { return v.kind }

// AsBool unpacks a boolean; the second return is false on a kind mismatch.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == ValueBool
}

// AsNumber unpacks a float64.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == ValueNumber
}

// AsVector unpacks a vector.
func (v Value) AsVector() (world.Vec2, bool) {
	return v.vec, v.kind == ValueVector
}

// AsEntity unpacks an entity handle.
func (v Value) AsEntity() (world.EntityID, bool) {
	return v.ent, v.kind == ValueEntity
}

// AsString unpacks a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == ValueString
}

// Interface returns the payload as a plain Go value for snapshots and logs.
func (v Value) Interface() any {
	switch v.kind {
	case ValueBool:
		return v.b
	case ValueNumber:
		return v.num
	case ValueVector:
		return v.vec
	case ValueEntity:
		return string(v.ent)
	case ValueString:
		return v.str
	default:
		return nil
	}
}

// valueFromAuthoring maps a decoded JSON literal from an archetype config
// onto the union: booleans, numbers, strings and {"x":..,"y":..} objects.
func valueFromAuthoring(raw any) (Value, error) {
	switch typed := raw.(type) {
	case bool:
		return Bool(typed), nil
	case float64:
		return Number(typed), nil
	case string:
		return String(typed), nil
	case map[string]any:
		x, xok := typed["x"].(float64)
		y, yok := typed["y"].(float64)
		if !xok || !yok || len(typed) != 2 {
			return Value{}, fmt.Errorf("object value must be a vector with numeric x and y")
		}
		return Vector(world.Vec2{X: x, Y: y}), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}
