package system

import (
	"math"
	"math/rand/v2"

	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	cameraFollowRate    = 3.0
	cameraShakeAmount   = 0.1
	cameraSwimFollowVel = -3.0
	deathLineGap        = 0.9
	deathLineEaseTime   = 0.5
)

// CameraSystem runs on the presentation tick: it follows the player, jitters
// while shaking and eases the death line.
type CameraSystem struct {
	rng *rand.Rand
}

func NewCameraSystem(seed uint64) *CameraSystem {
	return &CameraSystem{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Shake starts or extends a shake of ticks presentation frames.
func (cs *CameraSystem) Shake(w *ecs.World, ticks int) {
	ecs.ForEach(w, component.CameraComponent.Kind(), func(_ ecs.Entity, c *component.Camera) {
		if ticks > c.ShakeTicks {
			c.ShakeTicks = ticks
		}
	})
}

func (cs *CameraSystem) Update(w *ecs.World, dt float64) {
	pe, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	p, _ := ecs.Get(w, pe, component.PlayerComponent.Kind())
	pt, ok := ecs.Get(w, pe, component.TransformComponent.Kind())
	if !ok {
		return
	}
	vy := p.Velocity.Y
	if pb, ok := ecs.Get(w, pe, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		vy = pb.Body.Velocity().Y
	}

	ecs.ForEach(w, component.CameraComponent.Kind(), func(_ ecs.Entity, c *component.Camera) {
		c.Offset = vec(0, 0)
		if c.ShakeTicks > 0 {
			c.ShakeTicks--
			c.Offset = vec(cs.jitter(), cs.jitter())
		}
		if p.State == component.PlayerDeath {
			return
		}
		c.Pos.X = pt.X
		if c.Pos.Y > pt.Y || followsY(p.State, vy) {
			c.Pos.Y += (pt.Y - c.Pos.Y) * dt * cameraFollowRate
		}
	})

	ecs.ForEach(w, component.DeathLineComponent.Kind(), func(_ ecs.Entity, dl *component.DeathLine) {
		dl.X = math.Floor(pt.X)
		target := p.DeathHeight - deathLineGap
		if dl.Tween == nil || dl.Target != target {
			dl.Target = target
			dl.Tween = gween.New(float32(dl.Y), float32(target), deathLineEaseTime, ease.OutQuad)
		}
		v, finished := dl.Tween.Update(float32(dt))
		dl.Y = float64(v)
		if finished {
			dl.Y = target
		}
	})
}

// followsY reports the states in which the camera catches up vertically
// even when it is below the player.
func followsY(s component.PlayerState, vy float64) bool {
	switch s {
	case component.PlayerWalking, component.PlayerHanging, component.PlayerClimbUp, component.PlayerTeleport:
		return true
	case component.PlayerSwimming:
		return vy > cameraSwimFollowVel
	}
	return false
}

func (cs *CameraSystem) jitter() float64 {
	return (cs.rng.Float64()*2 - 1) * cameraShakeAmount
}
