package entity

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/milk9111/cliffhanger/prefabs"
)

// NewPlayerAt creates the player with a dynamic body sized from spec.
func NewPlayerAt(w *ecs.World, pos cp.Vector, spec prefabs.PlayerSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	player := component.NewPlayer()
	if err := add(w, e, "player", component.PlayerComponent.Kind(), &player); err != nil {
		return 0, err
	}
	if err := add(w, e, "player", component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, err
	}
	if err := add(w, e, "player", component.TransformComponent.Kind(), transformAt(pos.X, pos.Y)); err != nil {
		return 0, err
	}
	body := &component.PhysicsBody{Width: spec.Width, Height: spec.Height, Kind: component.BodyDynamic}
	if err := add(w, e, "player", component.PhysicsBodyComponent.Kind(), body); err != nil {
		return 0, err
	}
	return e, nil
}
