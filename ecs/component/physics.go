package component

import "github.com/jakecoffman/cp"

type BodyKind int

const (
	BodyDynamic BodyKind = iota
	BodyKinematic
	BodyStatic
	BodySensor
)

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body and Shape are filled in by the physics system.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Width  float64
	Height float64
	Kind   BodyKind
	// Sensor switches the shape to overlap-only without rebuilding it.
	Sensor bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
