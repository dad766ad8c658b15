package ai

import "arenamind/server/internal/world"

// Input is the single output command committed for an agent each tick. The
// movement and combat systems outside this core consume it; this core only
// writes it.
type Input struct {
	Move      world.Vec2 `json:"move"`
	Aim       world.Vec2 `json:"aim"`
	Primary   bool       `json:"primary"`
	Secondary bool       `json:"secondary"`
}
