package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"go.uber.org/zap"
)

// tryRope probes for a mossy ceiling ahead of and above the player, then
// on either side of that point. A hit that does not qualify still marks where
// the loose rope is thrown.
func (t *playerTick) tryRope() bool {
	swing := t.spec().Swing
	candidate := t.pos().Add(vec(t.p.FaceDir(swing.Reach), swing.Reach))
	aim := candidate
	for _, dx := range []float64{0, -swing.RetryOffset, swing.RetryOffset} {
		anchor, hit, ok := t.ropeProbe(candidate.Add(vec(dx, 0)))
		if ok {
			t.attachRope(anchor)
			return true
		}
		if hit {
			aim = anchor
		}
	}
	t.spawnLooseRope(aim)
	return false
}

// ropeProbe returns the first solid surface between the player and target
// and whether that surface can hold a rope.
func (t *playerTick) ropeProbe(target cp.Vector) (cp.Vector, bool, bool) {
	if t.s.query == nil {
		return cp.Vector{}, false, false
	}
	var (
		first cp.Vector
		hit   bool
		ok    bool
	)
	t.s.query.SegmentAll(t.pos(), target, func(h SegmentHit) bool {
		first, hit = h.Point, true
		ok = h.Tile && h.Normal.Y < -t.spec().Swing.FloorNormalY && t.mossAt(h.Point)
		return false
	})
	return first, hit, ok
}

func (t *playerTick) mossAt(at cp.Vector) bool {
	if t.s.tiles == nil {
		return false
	}
	return t.s.tiles.IsMoss(int(math.Floor(at.X)), int(math.Floor(at.Y+mossEpsilon)))
}

func (t *playerTick) attachRope(anchor cp.Vector) {
	if t.s.ropes == nil {
		return
	}
	joint := t.s.ropes.AttachRope(anchor, t.pos().Distance(anchor))
	if joint == nil {
		return
	}
	t.p.Rope = joint
	t.setState(component.PlayerSwinging)
	pushCue(t.w, CueRope)
	for i := 0; i < ropeSegments; i++ {
		e := ecs.CreateEntity(t.w)
		_ = ecs.Add(t.w, e, component.RopeSegmentComponent.Kind(), &component.RopeSegment{Index: i, Attached: true})
		at := ropePoint(t.pos(), anchor, i)
		_ = ecs.Add(t.w, e, component.TransformComponent.Kind(), &component.Transform{X: at.X, Y: at.Y})
	}
	t.s.logger.Debug("rope attached", zap.Float64("x", anchor.X), zap.Float64("y", anchor.Y))
}

// releaseRope destroys the joint and the attached rope nodes. It is safe to
// call without a rope.
func (t *playerTick) releaseRope() {
	ecs.ForEach(t.w, component.RopeSegmentComponent.Kind(), func(e ecs.Entity, r *component.RopeSegment) {
		if r.Attached {
			ecs.QueueDestroy(t.w, e)
		}
	})
	if t.p.Rope == nil {
		return
	}
	t.p.Rope.Destroy()
	t.p.Rope = nil
}

func (t *playerTick) spawnLooseRope(toward cp.Vector) {
	ttl := secondsToTicks(looseRopeSeconds, t.spec().DT())
	for i := 0; i < ropeSegments; i++ {
		e := ecs.CreateEntity(t.w)
		_ = ecs.Add(t.w, e, component.RopeSegmentComponent.Kind(), &component.RopeSegment{Index: i})
		at := ropePoint(t.pos(), toward, i)
		_ = ecs.Add(t.w, e, component.TransformComponent.Kind(), &component.Transform{X: at.X, Y: at.Y})
		_ = ecs.Add(t.w, e, component.TTLComponent.Kind(), &component.TTL{Frames: ttl, Total: ttl})
	}
}

// ropePoint places node i of the rope evenly from a fifth of the way to the
// anchor up to the anchor itself.
func ropePoint(from, to cp.Vector, i int) cp.Vector {
	return from.Lerp(to, 0.2+0.2*float64(i))
}
