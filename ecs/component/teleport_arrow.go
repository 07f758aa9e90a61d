package component

// TeleportArrow points from the current checkpoint toward a teleport target.
type TeleportArrow struct {
	Direction float64
	Angle     float64
}

var TeleportArrowComponent = NewComponent[TeleportArrow]()
