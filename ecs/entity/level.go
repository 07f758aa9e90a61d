package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/milk9111/cliffhanger/levels"
	"github.com/milk9111/cliffhanger/prefabs"
)

const (
	checkpointSize = 0.5
	pickupSize     = 0.5
	exitSize       = 0.1
	blockWidth     = 2.0
	blockHeight    = 1.0
)

// Built lists the entities created for a level.
type Built struct {
	Player ecs.Entity
	Camera ecs.Entity
}

// BuildLevel creates every entity described by lvl. Tile collision is not
// an entity; the physics system builds it from lvl.Solid.
func BuildLevel(w *ecs.World, lvl *levels.Level, spec prefabs.PlayerSpec) (Built, error) {
	var out Built
	var err error

	if out.Player, err = NewPlayerAt(w, lvl.Start, spec); err != nil {
		return out, err
	}
	if out.Camera, err = NewCameraAt(w, lvl.Start); err != nil {
		return out, err
	}
	if _, err = NewDeathLine(w); err != nil {
		return out, err
	}
	for _, c := range lvl.Checkpoints {
		if _, err := NewCheckpoint(w, c); err != nil {
			return out, err
		}
	}
	for _, p := range lvl.Pickups {
		if _, err := NewPickup(w, p); err != nil {
			return out, err
		}
	}
	for _, k := range lvl.KillZones {
		if _, err := NewKillZone(w, k); err != nil {
			return out, err
		}
	}
	for _, pos := range lvl.FallingBlocks {
		if _, err := NewFallingBlock(w, pos); err != nil {
			return out, err
		}
	}
	for _, s := range lvl.Signs {
		if _, err := NewSign(w, s); err != nil {
			return out, err
		}
	}
	for _, s := range lvl.Secrets {
		if _, err := NewSecretTrigger(w, s); err != nil {
			return out, err
		}
	}
	for _, x := range lvl.Exits {
		if _, err := NewExit(w, x); err != nil {
			return out, err
		}
	}
	return out, nil
}

func sensorAt(w *ecs.World, e ecs.Entity, what string, pos, size cp.Vector) error {
	if err := add(w, e, what, component.TransformComponent.Kind(), transformAt(pos.X, pos.Y)); err != nil {
		return err
	}
	return add(w, e, what, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: size.X, Height: size.Y, Kind: component.BodySensor})
}

func NewCheckpoint(w *ecs.World, def levels.CheckpointDef) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	what := fmt.Sprintf("checkpoint %d", def.ID)
	if err := add(w, e, what, component.CheckpointComponent.Kind(), &component.Checkpoint{ID: def.ID}); err != nil {
		return 0, err
	}
	if err := sensorAt(w, e, what, def.Pos, cp.Vector{X: checkpointSize, Y: checkpointSize}); err != nil {
		return 0, err
	}
	return e, nil
}

func NewPickup(w *ecs.World, def levels.PickupDef) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	what := fmt.Sprintf("pickup %d", def.ID)
	if err := add(w, e, what, component.PickupComponent.Kind(), &component.Pickup{ID: def.ID, Kind: def.Kind}); err != nil {
		return 0, err
	}
	if err := sensorAt(w, e, what, def.Pos, cp.Vector{X: pickupSize, Y: pickupSize}); err != nil {
		return 0, err
	}
	return e, nil
}

func NewKillZone(w *ecs.World, def levels.KillZoneDef) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := add(w, e, "kill zone", component.KillZoneComponent.Kind(), &component.KillZone{}); err != nil {
		return 0, err
	}
	if err := sensorAt(w, e, "kill zone", def.Center, def.Size); err != nil {
		return 0, err
	}
	return e, nil
}

func NewFallingBlock(w *ecs.World, pos cp.Vector) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := add(w, e, "falling block", component.FallingBlockComponent.Kind(), &component.FallingBlock{Home: pos}); err != nil {
		return 0, err
	}
	if err := add(w, e, "falling block", component.TransformComponent.Kind(), transformAt(pos.X, pos.Y)); err != nil {
		return 0, err
	}
	body := &component.PhysicsBody{Width: blockWidth, Height: blockHeight, Kind: component.BodyKinematic}
	if err := add(w, e, "falling block", component.PhysicsBodyComponent.Kind(), body); err != nil {
		return 0, err
	}
	return e, nil
}

func NewSign(w *ecs.World, def levels.SignDef) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := add(w, e, "sign", component.SignComponent.Kind(), &component.Sign{Text: def.Text, Secret: def.Secret}); err != nil {
		return 0, err
	}
	if err := add(w, e, "sign", component.TransformComponent.Kind(), transformAt(def.Pos.X, def.Pos.Y)); err != nil {
		return 0, err
	}
	return e, nil
}

func NewSecretTrigger(w *ecs.World, def levels.SecretDef) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	what := "secret " + def.Key
	if err := add(w, e, what, component.SecretTriggerComponent.Kind(), &component.SecretTrigger{Code: def.Code, Key: def.Key}); err != nil {
		return 0, err
	}
	if err := add(w, e, what, component.TransformComponent.Kind(), transformAt(def.Pos.X, def.Pos.Y)); err != nil {
		return 0, err
	}
	return e, nil
}

func NewExit(w *ecs.World, def levels.ExitDef) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := add(w, e, "exit", component.ExitComponent.Kind(), &component.Exit{Secret: def.Secret}); err != nil {
		return 0, err
	}
	if err := sensorAt(w, e, "exit", def.Pos, cp.Vector{X: exitSize, Y: exitSize}); err != nil {
		return 0, err
	}
	return e, nil
}
