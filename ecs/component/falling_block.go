package component

import "github.com/jakecoffman/cp"

type FallingBlockState int

const (
	FallingBlockIdle FallingBlockState = iota
	FallingBlockTriggered
	FallingBlockFalling
)

type FallingBlock struct {
	Home  cp.Vector
	State FallingBlockState
	// Ticks remaining in Triggered or Falling.
	Ticks    int
	Velocity float64
}

var FallingBlockComponent = NewComponent[FallingBlock]()
