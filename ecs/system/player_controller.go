package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/common"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/milk9111/cliffhanger/prefabs"
	"go.uber.org/zap"
)

const (
	deathShakeSeconds = 0.3
	arrowDistance     = 0.5
	ropeSegments      = 5
	looseRopeSeconds  = 0.5
	mossEpsilon       = 1e-6
)

// PlayerBody is the part of a physics body the controller drives.
type PlayerBody interface {
	Position() cp.Vector
	SetPosition(cp.Vector)
	Velocity() cp.Vector
	SetVelocityVector(cp.Vector)
}

// TileSampler answers per-cell water and moss lookups.
type TileSampler interface {
	IsWater(x, y int) bool
	IsMoss(x, y int) bool
}

type PlayerControllerOptions struct {
	Query       CollisionQuerier
	Ropes       RopeAttacher
	Tiles       TileSampler
	Checkpoints *CheckpointNetwork
	// Start is the respawn point when no checkpoint is active.
	Start  cp.Vector
	Logger *zap.Logger
}

// PlayerControllerSystem runs the player state machine once per fixed tick
// and reacts to contacts from the physics step of the same tick.
type PlayerControllerSystem struct {
	spec    prefabs.PlayerSpec
	query   CollisionQuerier
	ropes   RopeAttacher
	tiles   TileSampler
	network *CheckpointNetwork
	start   cp.Vector
	logger  *zap.Logger
}

func NewPlayerControllerSystem(spec prefabs.PlayerSpec, opts PlayerControllerOptions) *PlayerControllerSystem {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	network := opts.Checkpoints
	if network == nil {
		network = NewCheckpointNetwork(logger)
	}
	return &PlayerControllerSystem{
		spec:    spec,
		query:   opts.Query,
		ropes:   opts.Ropes,
		tiles:   opts.Tiles,
		network: network,
		start:   opts.Start,
		logger:  logger,
	}
}

func (s *PlayerControllerSystem) Spec() prefabs.PlayerSpec {
	return s.spec
}

// SetSpec swaps the tuning, used by hot reload.
func (s *PlayerControllerSystem) SetSpec(spec prefabs.PlayerSpec) {
	s.spec = spec
}

// playerTick is the controller's view of the player for one call.
type playerTick struct {
	s    *PlayerControllerSystem
	w    *ecs.World
	e    ecs.Entity
	p    *component.Player
	in   *component.Input
	body PlayerBody
	vel  cp.Vector
}

func (s *PlayerControllerSystem) tick(w *ecs.World) (*playerTick, bool) {
	if s == nil || w == nil {
		return nil, false
	}
	e, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return nil, false
	}
	p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return nil, false
	}
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		in = &component.Input{}
	}
	if !p.State.Valid() {
		p.State = component.PlayerFalling
	}
	return &playerTick{s: s, w: w, e: e, p: p, in: in, body: pb.Body, vel: pb.Body.Velocity()}, true
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	s.FixedUpdate(w)
}

// FixedUpdate advances the state machine by one tick and writes the
// resulting velocity to the body.
func (s *PlayerControllerSystem) FixedUpdate(w *ecs.World) {
	t, ok := s.tick(w)
	if !ok || t.p.Finished {
		return
	}
	t.fixedUpdate()
}

func (t *playerTick) fixedUpdate() {
	spec := t.spec()
	p := t.p

	wasInWater := p.InWater
	p.InWater = t.waterAt(spec.Swim.SampleOffset)
	if p.InWater && !wasInWater {
		pushCue(t.w, CueSplash)
	}

	if p.State == component.PlayerJumping {
		if t.vel.Y <= spec.JumpMaxVelocity {
			t.setState(component.PlayerFalling)
		}
		if !t.in.Held(component.ActionJump) {
			t.vel.Y *= spec.ReleaseDamping
			t.setState(component.PlayerFalling)
		}
	}
	if p.State == component.PlayerWalking {
		if p.ToFallStateDelay > 0 {
			p.ToFallStateDelay--
		}
		if p.ToFallStateDelay <= 0 {
			t.setState(component.PlayerFalling)
		}
	}
	if (p.State == component.PlayerFalling || p.State == component.PlayerWalking) && p.InWater {
		t.setState(component.PlayerSwimming)
	}
	if p.State == component.PlayerSwimming && !p.InWater {
		t.setState(component.PlayerFalling)
	}

	stateFor(p.State).vertical(t)
	if p.WallJumpLock > 0 {
		p.WallJumpLock--
	} else {
		stateFor(p.State).horizontal(t)
	}

	if t.in.Pressed(component.ActionJump) {
		t.onJumpPressed()
	}
	if t.in.Released(component.ActionJump) && p.State == component.PlayerSwinging {
		t.releaseRope()
		t.setState(component.PlayerFalling)
	}
	if p.JumpBuffer > 0 {
		if p.State == component.PlayerWalking {
			t.jump()
			p.JumpBuffer = 0
		} else {
			p.JumpBuffer--
		}
	}
	if t.in.Pressed(component.ActionUp) {
		t.onUpPressed()
	}
	if t.in.Pressed(component.ActionDown) {
		if p.State == component.PlayerHanging {
			t.setPos(t.pos().Sub(vec(0, spec.Ledge.DropNudge)))
			t.setState(component.PlayerFalling)
		}
		if p.State == component.PlayerTeleport {
			t.teleport(270)
		}
	}
	if t.in.Pressed(component.ActionLeft) && p.State == component.PlayerTeleport {
		t.teleport(180)
	}
	if t.in.Pressed(component.ActionRight) && p.State == component.PlayerTeleport {
		t.teleport(0)
	}

	t.body.SetVelocityVector(t.vel)
	p.Velocity = t.vel

	if p.State == component.PlayerDeath {
		if p.RespawnDelay > 0 {
			p.RespawnDelay--
		} else {
			t.respawn()
		}
	} else if t.pos().Y < p.DeathHeight-spec.DeathMargin {
		t.kill()
	}

	t.animate()
}

func (t *playerTick) onJumpPressed() {
	spec := t.spec()
	p := t.p
	if p.State == component.PlayerWalking || p.State == component.PlayerFalling {
		p.JumpBuffer = spec.JumpBufferTicks
	}
	if p.State == component.PlayerSwimming && !t.waterAt(spec.Swim.ExitOffset) {
		t.jump()
	}
	if p.State == component.PlayerHanging {
		towardWall := (t.in.Held(component.ActionLeft) && p.Facing < 0) || (t.in.Held(component.ActionRight) && p.Facing > 0)
		if towardWall {
			t.setState(component.PlayerClimbUp)
		} else {
			rad := spec.WallJumpAngle * math.Pi / 180
			t.vel.Y += spec.JumpVelocity * math.Sin(rad)
			t.vel.X = -p.FaceDir(spec.JumpVelocity * math.Cos(rad))
			t.setState(component.PlayerJumping)
			p.WallJumpLock = spec.WallJumpTicks
			p.JumpCount++
			pushCue(t.w, CueJump)
		}
	}
	if p.State == component.PlayerTeleport {
		t.setState(component.PlayerFalling)
		t.clearArrows()
	} else if p.State == component.PlayerFalling && t.aboveDeathLine(-1) && p.CanRope && p.Rope == nil {
		t.tryRope()
	}
}

func (t *playerTick) onUpPressed() {
	spec := t.spec()
	p := t.p
	switch p.State {
	case component.PlayerHanging:
		t.setState(component.PlayerClimbUp)
	case component.PlayerWalking:
		if !p.CanTeleport {
			return
		}
		_, at, ok := t.s.network.Current(t.w, p)
		if !ok || at.Distance(t.pos()) >= spec.TeleportRadius {
			return
		}
		p.TeleportCount++
		t.setState(component.PlayerTeleport)
		t.vel.Y = 0
		t.setPos(at.Add(vec(0, spec.TeleportOffsetY)))
		t.buildArrows()
	case component.PlayerTeleport:
		t.teleport(90)
	}
}

func (t *playerTick) jump() {
	t.vel.Y += t.spec().JumpVelocity
	t.setState(component.PlayerJumping)
	t.p.JumpCount++
	pushCue(t.w, CueJump)
}

func (t *playerTick) teleport(direction float64) {
	from, _, ok := t.s.network.Current(t.w, t.p)
	if !ok {
		return
	}
	target, ok := t.s.network.Select(t.w, from, direction)
	if !ok {
		return
	}
	t.s.network.SetCurrent(t.w, t.p, target)
	at, _ := ecs.Get(t.w, target, component.TransformComponent.Kind())
	t.setPos(at.Vec().Add(vec(0, t.spec().TeleportOffsetY)))
	t.ground()
	pushCue(t.w, CueTeleport)
	t.buildArrows()
}

func (t *playerTick) buildArrows() {
	t.clearArrows()
	from, _, ok := t.s.network.Current(t.w, t.p)
	if !ok {
		return
	}
	for _, arrow := range t.s.network.Arrows(t.w, from) {
		e := ecs.CreateEntity(t.w)
		a := arrow
		_ = ecs.Add(t.w, e, component.TeleportArrowComponent.Kind(), &a)
		_ = ecs.Add(t.w, e, component.TransformComponent.Kind(), arrowTransform(t.pos(), a.Angle))
	}
}

func arrowTransform(center cp.Vector, angle float64) *component.Transform {
	at := center.Add(common.Rotate(vec(arrowDistance, 0), angle))
	return &component.Transform{X: at.X, Y: at.Y, Rotation: angle + 180}
}

func (t *playerTick) clearArrows() {
	ecs.ForEach(t.w, component.TeleportArrowComponent.Kind(), func(e ecs.Entity, _ *component.TeleportArrow) {
		ecs.QueueDestroy(t.w, e)
	})
}

// Kill puts the player into Death. It is a no-op while already dead.
func (s *PlayerControllerSystem) Kill(w *ecs.World) {
	if t, ok := s.tick(w); ok {
		t.kill()
	}
}

func (t *playerTick) kill() {
	p := t.p
	if p.State == component.PlayerDeath {
		return
	}
	t.releaseRope()
	t.clearArrows()
	pushCue(t.w, CueDeath)
	t.setState(component.PlayerDeath)
	p.RespawnDelay = t.spec().RespawnTicks
	shakeCamera(t.w, secondsToTicks(deathShakeSeconds, t.spec().DT()))
	t.vel = cp.Vector{}
	t.body.SetVelocityVector(t.vel)
	t.s.logger.Info("player died", zap.Float64("x", t.pos().X), zap.Float64("y", t.pos().Y), zap.Int("deaths", p.DeathCount))
}

func (t *playerTick) respawn() {
	p := t.p
	at := t.s.start
	if _, cpPos, ok := t.s.network.Current(t.w, p); ok {
		at = cpPos
	}
	t.setPos(at)
	t.setState(component.PlayerFalling)
	t.ground()
	if p.DeathCount == 0 {
		p.HintTicks = secondsToTicks(t.spec().FirstDeathHint, t.spec().DT())
	}
	p.DeathCount++
}

// OnCollision applies a contact from the physics step of this tick.
func (s *PlayerControllerSystem) OnCollision(w *ecs.World, c Contact) {
	t, ok := s.tick(w)
	if !ok || t.p.Finished {
		return
	}
	t.onCollision(c)
}

func (t *playerTick) onCollision(c Contact) {
	p := t.p
	if c.Other.Valid() && ecs.Has(t.w, c.Other, component.CheckpointComponent.Kind()) &&
		(p.State == component.PlayerWalking || p.State == component.PlayerSwimming) &&
		uint64(c.Other) != p.Checkpoint {
		t.s.network.SetCurrent(t.w, p, c.Other)
	}
	if !c.Solid {
		return
	}

	ledge := t.spec().Ledge
	switch {
	case c.Normal.Y < -ledge.NormalLimit:
		if !t.aboveDeathLine(0) {
			t.kill()
			return
		}
		switch p.State {
		case component.PlayerDeath, component.PlayerTeleport, component.PlayerJumping:
			return
		}
		t.ground()
		t.setState(component.PlayerWalking)
		t.releaseRope()
		p.ToFallStateDelay = t.spec().CoyoteTicks
	case c.Normal.Y > ledge.NormalLimit:
		if p.State == component.PlayerJumping {
			t.setState(component.PlayerFalling)
		}
	case math.Abs(c.Normal.X) > ledge.NormalLimit:
		t.tryHang(common.Sign(c.Normal.X))
	}
}

// tryHang grabs a ledge on side dir: open space at head height, wall at
// grip height and a ledge top below the head.
func (t *playerTick) tryHang(dir float64) {
	p := t.p
	ledge := t.spec().Ledge
	if t.body.Velocity().Y >= 0 || !t.aboveDeathLine(0) || !p.CanHang {
		return
	}
	if t.hHit(dir, ledge.AboveProbe) || !t.hHit(dir, ledge.GripProbe) {
		return
	}
	top, ok := t.vHit(dir, ledge.AboveProbe)
	if !ok {
		return
	}
	t.setState(component.PlayerHanging)
	t.releaseRope()
	t.vel = cp.Vector{}
	t.body.SetVelocityVector(t.vel)
	t.setPos(vec(t.pos().X, top.Y-ledge.HangOffset))
	p.Facing = dir
	t.ground()
}

// PostStep places cosmetic followers after the physics step.
func (s *PlayerControllerSystem) PostStep(w *ecs.World) {
	t, ok := s.tick(w)
	if !ok {
		return
	}
	if t.p.Rope != nil && t.p.State != component.PlayerSwinging {
		t.releaseRope()
	}
	pos := t.pos()
	ecs.ForEach2(w, component.TeleportArrowComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, a *component.TeleportArrow, tr *component.Transform) {
		*tr = *arrowTransform(pos, a.Angle)
	})
	if t.p.Rope == nil {
		return
	}
	anchor := t.p.Rope.Anchor()
	ecs.ForEach2(w, component.RopeSegmentComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, r *component.RopeSegment, tr *component.Transform) {
		if r.Attached {
			tr.SetVec(ropePoint(pos, anchor, r.Index))
		}
	})
}

func (t *playerTick) animate() {
	p := t.p
	vx := t.vel.X
	face := func() {
		if vx < 0 {
			p.Facing = -1
		} else if vx > 0 {
			p.Facing = 1
		}
	}
	switch p.State {
	case component.PlayerWalking:
		if vx == 0 {
			p.Animation = "idle"
			return
		}
		p.Animation = "walk"
		face()
	case component.PlayerSwimming:
		p.Animation = "swim"
		face()
	case component.PlayerHanging:
		p.Animation = "hang"
	case component.PlayerClimbUp:
		p.Animation = "climb_up"
	case component.PlayerSwinging:
		p.Animation = "swing"
		if vx < -1 {
			p.Facing = -1
		} else if vx > 1 {
			p.Facing = 1
		}
	case component.PlayerJumping, component.PlayerFalling:
		p.Animation = "jump"
		face()
	case component.PlayerDeath:
		p.Animation = "dead"
	case component.PlayerTeleport:
		p.Animation = "teleport"
	default:
		p.Animation = "idle"
	}
}

func (t *playerTick) spec() *prefabs.PlayerSpec {
	return &t.s.spec
}

func (t *playerTick) setState(next component.PlayerState) {
	if t.p.State == next {
		return
	}
	if ce := t.s.logger.Check(zap.DebugLevel, "player state"); ce != nil {
		ce.Write(zap.Stringer("from", t.p.State), zap.Stringer("to", next))
	}
	t.p.State = next
}

func (t *playerTick) pos() cp.Vector {
	return t.body.Position()
}

func (t *playerTick) setPos(v cp.Vector) {
	t.body.SetPosition(v)
	if tr, ok := ecs.Get(t.w, t.e, component.TransformComponent.Kind()); ok {
		tr.SetVec(v)
	}
}

// ground recomputes the death height from the current position.
func (t *playerTick) ground() {
	t.p.DeathHeight = t.pos().Y - t.spec().MaxFallDepth
}

func (t *playerTick) aboveDeathLine(offset float64) bool {
	return t.pos().Y >= t.p.DeathHeight+offset
}

func (t *playerTick) applyGravity(g float64) {
	t.vel.Y -= g * t.spec().DT()
}

// steer eases horizontal velocity toward the input target.
func (t *playerTick) steer() {
	speed := t.spec().MoveSpeed
	target := (t.in.Value(component.ActionRight) - t.in.Value(component.ActionLeft)) * speed
	delta := target - t.vel.X
	if math.Abs(delta) <= speed {
		t.vel.X = target
		return
	}
	t.vel.X += math.Copysign(speed, delta) * 0.3
}

func (t *playerTick) waterAt(dy float64) bool {
	if t.s.tiles == nil {
		return false
	}
	pos := t.pos()
	return t.s.tiles.IsWater(int(math.Floor(pos.X)), int(math.Floor(pos.Y+dy)))
}

// hHit casts from body height dy out to (dx, dy).
func (t *playerTick) hHit(dx, dy float64) bool {
	if t.s.query == nil {
		return false
	}
	pos := t.pos()
	_, hit := t.s.query.SegmentFirst(pos.Add(vec(0, dy)), pos.Add(vec(dx, dy)))
	return hit
}

// vHit casts down from (dx, dy) to (dx, -dy) and returns the first surface.
func (t *playerTick) vHit(dx, dy float64) (cp.Vector, bool) {
	if t.s.query == nil {
		return cp.Vector{}, false
	}
	pos := t.pos()
	hit, ok := t.s.query.SegmentFirst(pos.Add(vec(dx, dy)), pos.Add(vec(dx, -dy)))
	return hit.Point, ok
}

func vec(x, y float64) cp.Vector {
	return cp.Vector{X: x, Y: y}
}

func abs(v float64) float64 {
	return math.Abs(v)
}

func secondsToTicks(seconds, dt float64) int {
	if dt <= 0 {
		return 0
	}
	return int(math.Round(seconds / dt))
}
