package system

import (
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
)

// Killer is the controller's kill entry point.
type Killer interface {
	Kill(w *ecs.World)
}

// HazardSystem kills the player on contact with a kill zone.
type HazardSystem struct {
	killer Killer
}

func NewHazardSystem(killer Killer) *HazardSystem {
	return &HazardSystem{killer: killer}
}

func (h *HazardSystem) OnCollision(w *ecs.World, c Contact) {
	if h.killer == nil || !ecs.Has(w, c.Other, component.KillZoneComponent.Kind()) {
		return
	}
	h.killer.Kill(w)
}
