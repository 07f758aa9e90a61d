package component

import (
	"github.com/jakecoffman/cp"
	"github.com/tanema/gween"
)

type SecretTrigger struct {
	Code string
	Key  string
	Step int
	// WaitTicks counts down a W<seconds> step while Waiting.
	WaitTicks int
	Waiting   bool
	Finished  bool
}

var SecretTriggerComponent = NewComponent[SecretTrigger]()

type SecretCubeState int

const (
	SecretCubeSpawn SecretCubeState = iota
	SecretCubeWait
	SecretCubeMove
	SecretCubeDone
)

// SecretCube flies from where a secret was solved to its target.
type SecretCube struct {
	Start  cp.Vector
	Target cp.Vector
	State  SecretCubeState
	Scale  float64
	Tween  *gween.Tween
}

var SecretCubeComponent = NewComponent[SecretCube]()
