package system

import "github.com/milk9111/cliffhanger/ecs/component"

// playerState is the per-tick motion rule of one controller state.
type playerState interface {
	vertical(t *playerTick)
	horizontal(t *playerTick)
}

// Player state singletons indexed by component.PlayerState.
var playerStates = [...]playerState{
	component.PlayerStateInvalid: playerFallingState{},
	component.PlayerWalking:      playerWalkingState{},
	component.PlayerJumping:      playerJumpingState{},
	component.PlayerFalling:      playerFallingState{},
	component.PlayerSwimming:     playerSwimmingState{},
	component.PlayerHanging:      playerHangingState{},
	component.PlayerClimbUp:      playerClimbUpState{},
	component.PlayerDeath:        playerDeathState{},
	component.PlayerTeleport:     playerTeleportState{},
	component.PlayerSwinging:     playerSwingingState{},
}

func stateFor(s component.PlayerState) playerState {
	if !s.Valid() {
		return playerStates[component.PlayerStateInvalid]
	}
	return playerStates[s]
}

type playerWalkingState struct{}

type playerJumpingState struct{}

type playerFallingState struct{}

type playerSwimmingState struct{}

type playerHangingState struct{}

type playerClimbUpState struct{}

type playerDeathState struct{}

type playerTeleportState struct{}

type playerSwingingState struct{}

// Walking keeps gravity so the floor contact re-arms every tick.
func (playerWalkingState) vertical(t *playerTick)   { t.applyGravity(t.spec().Gravity) }
func (playerWalkingState) horizontal(t *playerTick) { t.steer() }

func (playerJumpingState) vertical(t *playerTick)   { t.applyGravity(t.spec().JumpGravity) }
func (playerJumpingState) horizontal(t *playerTick) { t.steer() }

func (playerFallingState) vertical(t *playerTick)   { t.applyGravity(t.spec().Gravity) }
func (playerFallingState) horizontal(t *playerTick) { t.steer() }

func (playerSwimmingState) vertical(t *playerTick) {
	swim := t.spec().Swim
	dt := t.spec().DT()
	p := t.p
	t.vel.Y *= swim.Damping
	if t.waterAt(swim.SubmergedOffset) {
		t.vel.Y += swim.Buoyancy * dt
		if p.CanDive {
			request := t.in.Value(component.ActionUp) - t.in.Value(component.ActionDown)
			t.vel.Y += request * swim.DiveThrust * dt
			if abs(t.vel.Y) < swim.GroundingMaxVelY {
				t.ground()
			}
		}
		return
	}
	t.vel.Y -= swim.SurfaceSink * dt
	if p.CanDive {
		t.vel.Y -= t.in.Value(component.ActionDown) * swim.DiveThrust * dt
	}
	t.ground()
}
func (playerSwimmingState) horizontal(t *playerTick) { t.steer() }

func (playerHangingState) vertical(t *playerTick) {
	ledge := t.spec().Ledge
	if !t.hHit(t.p.FaceDir(1), ledge.GripProbe) {
		t.setState(component.PlayerFalling)
		return
	}
	t.vel.Y = 0
}
func (playerHangingState) horizontal(t *playerTick) { t.vel.X = 0 }

func (playerClimbUpState) vertical(t *playerTick) {
	ledge := t.spec().Ledge
	if t.hHit(t.p.FaceDir(1), ledge.ClimbProbe) {
		t.vel.Y = t.spec().ClimbSpeed
		return
	}
	t.setState(component.PlayerFalling)
	t.vel.Y = 0
	t.setPos(t.pos().Add(vec(t.p.FaceDir(ledge.ClimbNudge), 0)))
	t.ground()
}
func (playerClimbUpState) horizontal(t *playerTick) { t.vel.X = 0 }

func (playerDeathState) vertical(t *playerTick)   { t.vel.Y = 0 }
func (playerDeathState) horizontal(t *playerTick) { t.vel.X = 0 }

func (playerTeleportState) vertical(t *playerTick)   { t.vel.Y = 0 }
func (playerTeleportState) horizontal(t *playerTick) { t.vel.X = 0 }

// Swinging falls under gravity; the rope constraint turns that into a
// pendulum.
func (playerSwingingState) vertical(t *playerTick) { t.applyGravity(t.spec().Gravity) }
func (playerSwingingState) horizontal(t *playerTick) {
	swing := t.spec().Swing
	request := t.in.Value(component.ActionRight) - t.in.Value(component.ActionLeft)
	t.vel.X = t.vel.X*swing.Damping + request*swing.Push
}
