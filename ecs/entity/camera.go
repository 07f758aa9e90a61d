package entity

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
)

// DefaultZoom is the number of screen pixels per tile.
const DefaultZoom = 48.0

func NewCameraAt(w *ecs.World, pos cp.Vector) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := add(w, e, "camera", component.CameraComponent.Kind(), &component.Camera{Pos: pos, Zoom: DefaultZoom}); err != nil {
		return 0, err
	}
	return e, nil
}

func NewDeathLine(w *ecs.World) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	dl := &component.DeathLine{Y: component.NoDeathLine, Target: component.NoDeathLine}
	if err := add(w, e, "death line", component.DeathLineComponent.Kind(), dl); err != nil {
		return 0, err
	}
	return e, nil
}
