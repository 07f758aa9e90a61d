package entity

import (
	"fmt"

	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
)

func add[T any](w *ecs.World, e ecs.Entity, what string, kind component.ComponentKind[T], v *T) error {
	if err := ecs.Add(w, e, kind, v); err != nil {
		return fmt.Errorf("%s: add %s: %w", what, kind, err)
	}
	return nil
}

func transformAt(x, y float64) *component.Transform {
	return &component.Transform{X: x, Y: y}
}
