package component

import "github.com/jakecoffman/cp"

type Camera struct {
	Pos  cp.Vector
	Zoom float64
	// ShakeTicks counts down an active shake.
	ShakeTicks int
	Offset     cp.Vector
}

var CameraComponent = NewComponent[Camera]()
