package component

import "github.com/tanema/gween"

// DeathLine is the drawn marker for the player's fall limit.
type DeathLine struct {
	X      float64
	Y      float64
	Target float64
	Tween  *gween.Tween
}

var DeathLineComponent = NewComponent[DeathLine]()
