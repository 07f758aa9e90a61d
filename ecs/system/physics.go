package system

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/milk9111/cliffhanger/levels"
	"go.uber.org/zap"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypeSolid
	collisionTypeSensor
)

const physicsIterations = 10

// Contact is one overlap between the player and another shape during a step.
// Normal points from the player into the other shape.
type Contact struct {
	Other  ecs.Entity
	Tile   bool
	Solid  bool
	Normal cp.Vector
}

// SegmentHit is a solid surface found by a segment query.
type SegmentHit struct {
	Point  cp.Vector
	Normal cp.Vector
	Alpha  float64
	Other  ecs.Entity
	Tile   bool
}

// CollisionQuerier casts segments against solid, non-player geometry.
type CollisionQuerier interface {
	SegmentFirst(a, b cp.Vector) (SegmentHit, bool)
	// SegmentAll visits hits in order along the segment until visit
	// returns false.
	SegmentAll(a, b cp.Vector, visit func(SegmentHit) bool)
}

// RopeAttacher creates a rope from the player body to a static anchor.
type RopeAttacher interface {
	AttachRope(anchor cp.Vector, length float64) component.RopeJoint
}

// PhysicsSystem owns the Chipmunk space. The space has no gravity; the
// player controller integrates its own.
type PhysicsSystem struct {
	space  *cp.Space
	logger *zap.Logger

	bodies     map[ecs.Entity]*bodyInfo
	shapes     map[*cp.Shape]ecs.Entity
	tileShapes map[*cp.Shape]bool
	sensors    map[*cp.Shape]bool
	disabled   map[ecs.Entity]bool

	player   ecs.Entity
	contacts []Contact
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

func NewPhysicsSystem(logger *zap.Logger) *PhysicsSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	space := cp.NewSpace()
	space.Iterations = physicsIterations
	space.SetGravity(cp.Vector{})

	ps := &PhysicsSystem{
		space:      space,
		logger:     logger,
		bodies:     make(map[ecs.Entity]*bodyInfo),
		shapes:     make(map[*cp.Shape]ecs.Entity),
		tileShapes: make(map[*cp.Shape]bool),
		sensors:    make(map[*cp.Shape]bool),
		disabled:   make(map[ecs.Entity]bool),
	}
	ps.ensureHandlers()
	return ps
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// BuildTiles merges contiguous solid cells into static boxes and closes the
// map sides with walls.
func (ps *PhysicsSystem) BuildTiles(solid levels.Grid) int {
	processed := make([]bool, solid.Width*solid.Height)
	boxes := 0
	for row := 0; row < solid.Height; row++ {
		for col := 0; col < solid.Width; col++ {
			idx := row*solid.Width + col
			if processed[idx] {
				continue
			}
			if !solid.Get(col, levels.CellY(row)) {
				processed[idx] = true
				continue
			}

			// Expand width first, then height.
			w := 1
			for col+w < solid.Width {
				idx2 := row*solid.Width + col + w
				if processed[idx2] || !solid.Get(col+w, levels.CellY(row)) {
					break
				}
				w++
			}
			h := 1
		heightLoop:
			for row+h < solid.Height {
				for xi := col; xi < col+w; xi++ {
					idx2 := (row+h)*solid.Width + xi
					if processed[idx2] || !solid.Get(xi, levels.CellY(row+h)) {
						break heightLoop
					}
				}
				h++
			}

			top := float64(levels.CellY(row)) + 1
			bb := cp.BB{L: float64(col), B: top - float64(h), R: float64(col + w), T: top}
			ps.addTileShape(cp.NewBox2(ps.space.StaticBody, bb, 0))
			boxes++

			for yy := row; yy < row+h; yy++ {
				for xx := col; xx < col+w; xx++ {
					processed[yy*solid.Width+xx] = true
				}
			}
		}
	}

	height := float64(solid.Height)
	width := float64(solid.Width)
	for _, x := range []float64{0, width} {
		shape := cp.NewSegment(ps.space.StaticBody, cp.Vector{X: x, Y: -height - 50}, cp.Vector{X: x, Y: 50}, 0.05)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddShape(shape)
	}

	ps.logger.Debug("static tiles built", zap.Int("boxes", boxes))
	return boxes
}

func (ps *PhysicsSystem) addTileShape(shape *cp.Shape) {
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypeSolid)
	ps.space.AddShape(shape)
	ps.tileShapes[shape] = true
}

func (ps *PhysicsSystem) ensureHandlers() {
	solid := ps.space.NewCollisionHandler(collisionTypePlayer, collisionTypeSolid)
	solid.UserData = ps
	solid.PreSolveFunc = recordContact

	sensor := ps.space.NewCollisionHandler(collisionTypePlayer, collisionTypeSensor)
	sensor.UserData = ps
	sensor.PreSolveFunc = recordContact
}

func recordContact(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
	ps, ok := userData.(*PhysicsSystem)
	if !ok || ps == nil {
		return true
	}
	a, b := arb.Shapes()
	other := b
	n := arb.Normal()
	if ps.shapes[a] != ps.player {
		other = a
		n = n.Neg()
	}
	ps.contacts = append(ps.contacts, Contact{
		Other:  ps.shapes[other],
		Tile:   ps.tileShapes[other],
		Solid:  !ps.sensors[other],
		Normal: n,
	})
	return true
}

// Sync creates bodies for new PhysicsBody components, removes bodies of
// dead entities and applies sensor toggles.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	for e, info := range ps.bodies {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.removeBody(e, info)
	}

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		info, ok := ps.bodies[e]
		if !ok {
			info = ps.createBody(w, e, pb, t)
			ps.bodies[e] = info
		}
		if ps.sensors[info.shape] != pb.Sensor && pb.Kind != component.BodySensor {
			ps.setSensor(info.shape, pb.Sensor)
		}
	})
}

func (ps *PhysicsSystem) createBody(w *ecs.World, e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) *bodyInfo {
	info := &bodyInfo{}
	pos := t.Vec()

	switch pb.Kind {
	case component.BodyDynamic:
		info.body = cp.NewBody(1, cp.INFINITY)
	case component.BodyKinematic:
		info.body = cp.NewKinematicBody()
	default:
		info.body = ps.space.StaticBody
		info.static = true
	}

	if info.static {
		bb := cp.BB{L: pos.X - pb.Width/2, B: pos.Y - pb.Height/2, R: pos.X + pb.Width/2, T: pos.Y + pb.Height/2}
		info.shape = cp.NewBox2(info.body, bb, 0)
	} else {
		info.body.SetPosition(pos)
		ps.space.AddBody(info.body)
		info.shape = cp.NewBox(info.body, pb.Width, pb.Height, 0)
	}
	info.shape.SetFriction(0)
	info.shape.SetElasticity(0)

	switch {
	case ecs.Has(w, e, component.PlayerComponent.Kind()):
		info.shape.SetCollisionType(collisionTypePlayer)
		ps.player = e
	case pb.Kind == component.BodySensor:
		info.shape.SetCollisionType(collisionTypeSensor)
		ps.setSensor(info.shape, true)
	default:
		info.shape.SetCollisionType(collisionTypeSolid)
		ps.setSensor(info.shape, pb.Sensor)
	}

	if !ps.disabled[e] {
		ps.space.AddShape(info.shape)
	}
	ps.shapes[info.shape] = e
	pb.Body = info.body
	pb.Shape = info.shape
	return info
}

func (ps *PhysicsSystem) setSensor(shape *cp.Shape, sensor bool) {
	shape.SetSensor(sensor)
	if sensor {
		ps.sensors[shape] = true
	} else {
		delete(ps.sensors, shape)
	}
}

func (ps *PhysicsSystem) removeBody(e ecs.Entity, info *bodyInfo) {
	if info.shape != nil && ps.space.ContainsShape(info.shape) {
		ps.space.RemoveShape(info.shape)
	}
	if !info.static && info.body != nil && ps.space.ContainsBody(info.body) {
		ps.space.RemoveBody(info.body)
	}
	delete(ps.shapes, info.shape)
	delete(ps.sensors, info.shape)
	delete(ps.bodies, e)
	delete(ps.disabled, e)
	if ps.player == e {
		ps.player = 0
	}
}

// Disable stops e from colliding while keeping its body. A body not built
// yet is created without a shape in the space.
func (ps *PhysicsSystem) Disable(e ecs.Entity) {
	ps.disabled[e] = true
	info, ok := ps.bodies[e]
	if !ok || info.shape == nil || !ps.space.ContainsShape(info.shape) {
		return
	}
	ps.space.RemoveShape(info.shape)
}

// Step advances the space by dt, buffering player contacts, then copies
// body positions into transforms.
func (ps *PhysicsSystem) Step(w *ecs.World, dt float64) {
	if ps == nil || w == nil {
		return
	}
	ps.contacts = ps.contacts[:0]
	ps.space.Step(dt)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		info, ok := ps.bodies[e]
		if !ok || info.static {
			return
		}
		t.SetVec(info.body.Position())
	})
}

// Contacts returns the player contacts of the last step.
func (ps *PhysicsSystem) Contacts() []Contact {
	return ps.contacts
}

func (ps *PhysicsSystem) SegmentFirst(a, b cp.Vector) (SegmentHit, bool) {
	var first SegmentHit
	found := false
	ps.SegmentAll(a, b, func(hit SegmentHit) bool {
		first = hit
		found = true
		return false
	})
	return first, found
}

func (ps *PhysicsSystem) SegmentAll(a, b cp.Vector, visit func(SegmentHit) bool) {
	var hits []SegmentHit
	ps.space.SegmentQuery(a, b, 0, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, _ interface{}) {
		if ps.sensors[shape] {
			return
		}
		e, known := ps.shapes[shape]
		if known && e == ps.player {
			return
		}
		hits = append(hits, SegmentHit{Point: point, Normal: normal, Alpha: alpha, Other: e, Tile: ps.tileShapes[shape]})
	}, nil)

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Alpha < hits[j].Alpha })
	for _, hit := range hits {
		if !visit(hit) {
			return
		}
	}
}

type slideRope struct {
	space  *cp.Space
	joint  *cp.Constraint
	anchor cp.Vector
}

func (r *slideRope) Destroy() {
	if r.joint == nil {
		return
	}
	if r.space.ContainsConstraint(r.joint) {
		r.space.RemoveConstraint(r.joint)
	}
	r.joint = nil
}

func (r *slideRope) Anchor() cp.Vector {
	return r.anchor
}

func (ps *PhysicsSystem) AttachRope(anchor cp.Vector, length float64) component.RopeJoint {
	info, ok := ps.bodies[ps.player]
	if !ok {
		return nil
	}
	joint := cp.NewSlideJoint(info.body, ps.space.StaticBody, cp.Vector{}, anchor, 0, length)
	ps.space.AddConstraint(joint)
	return &slideRope{space: ps.space, joint: joint, anchor: anchor}
}
