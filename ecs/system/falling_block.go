package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
)

const (
	fallingBlockDelaySeconds = 0.8
	fallingBlockResetSeconds = 2.5
	fallingBlockMaxSpeed     = -10.0
)

// FallingBlockSystem drops blocks shortly after the player touches them and
// puts them back later.
type FallingBlockSystem struct {
	delayTicks int
	resetTicks int
}

func NewFallingBlockSystem(dt float64) *FallingBlockSystem {
	return &FallingBlockSystem{
		delayTicks: secondsToTicks(fallingBlockDelaySeconds, dt),
		resetTicks: secondsToTicks(fallingBlockResetSeconds, dt),
	}
}

func (s *FallingBlockSystem) OnCollision(w *ecs.World, c Contact) {
	b, ok := ecs.Get(w, c.Other, component.FallingBlockComponent.Kind())
	if !ok || b.State != component.FallingBlockIdle {
		return
	}
	b.State = component.FallingBlockTriggered
	b.Ticks = s.delayTicks
}

// Update runs before the physics step and sets each block's velocity.
func (s *FallingBlockSystem) Update(w *ecs.World) {
	ecs.ForEach3(w, component.FallingBlockComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, b *component.FallingBlock, pb *component.PhysicsBody, t *component.Transform) {
		switch b.State {
		case component.FallingBlockTriggered:
			b.Ticks--
			if b.Ticks <= 0 {
				b.State = component.FallingBlockFalling
				b.Ticks = s.resetTicks
				pushCue(w, CueBreak)
			}
		case component.FallingBlockFalling:
			if b.Velocity > fallingBlockMaxSpeed {
				b.Velocity--
			}
			if b.Velocity <= fallingBlockMaxSpeed {
				pb.Sensor = true
			}
			b.Ticks--
			if b.Ticks <= 0 {
				b.State = component.FallingBlockIdle
				b.Velocity = 0
				pb.Sensor = false
				t.SetVec(b.Home)
				if pb.Body != nil {
					pb.Body.SetPosition(b.Home)
				}
			}
		}
		if pb.Body != nil {
			pb.Body.SetVelocityVector(cp.Vector{Y: b.Velocity})
		}
	})
}
