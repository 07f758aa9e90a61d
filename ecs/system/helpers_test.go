package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/milk9111/cliffhanger/ecs/entity"
	"github.com/milk9111/cliffhanger/levels"
	"github.com/milk9111/cliffhanger/prefabs"
)

func testSpec() prefabs.PlayerSpec {
	return prefabs.PlayerSpec{
		TickRate:        60,
		Width:           0.4,
		Height:          0.8,
		JumpVelocity:    9,
		Gravity:         20,
		JumpGravity:     15,
		MoveSpeed:       4,
		JumpMaxVelocity: 5.5,
		ReleaseDamping:  0.3,
		CoyoteTicks:     7,
		JumpBufferTicks: 4,
		WallJumpTicks:   7,
		WallJumpAngle:   40,
		RespawnTicks:    30,
		MaxFallDepth:    4.5,
		DeathMargin:     6,
		ClimbSpeed:      4,
		TeleportRadius:  1,
		TeleportOffsetY: 0.7,
		FirstDeathHint:  0.5,
		Swim: prefabs.SwimSpec{
			SampleOffset:     0.25,
			SubmergedOffset:  0.35,
			ExitOffset:       0.4,
			Damping:          0.9,
			Buoyancy:         10,
			SurfaceSink:      0.1,
			DiveThrust:       20,
			GroundingMaxVelY: 3,
		},
		Swing: prefabs.SwingSpec{
			Reach:        2.5,
			RetryOffset:  0.2,
			Damping:      0.97,
			Push:         0.2,
			LineOffset:   1,
			FloorNormalY: 0.5,
		},
		Ledge: prefabs.LedgeSpec{
			AboveProbe:  0.4,
			GripProbe:   0.25,
			ClimbProbe:  -0.4,
			HangOffset:  0.3,
			ClimbNudge:  0.1,
			DropNudge:   0.1,
			NormalLimit: 0.5,
		},
	}
}

type cell struct{ x, y int }

type fakeTiles struct {
	water map[cell]bool
	moss  map[cell]bool
}

func newFakeTiles() *fakeTiles {
	return &fakeTiles{water: map[cell]bool{}, moss: map[cell]bool{}}
}

func (f *fakeTiles) IsWater(x, y int) bool { return f.water[cell{x, y}] }
func (f *fakeTiles) IsMoss(x, y int) bool  { return f.moss[cell{x, y}] }

// harness is a world with real tile collision and a player, driven one
// controller tick at a time without stepping physics.
type harness struct {
	t       *testing.T
	w       *ecs.World
	phys    *PhysicsSystem
	network *CheckpointNetwork
	ctrl    *PlayerControllerSystem
	tiles   *fakeTiles
	player  ecs.Entity
	start   cp.Vector
}

const harnessSize = 20

func newHarness(t *testing.T, start cp.Vector, solid ...cell) *harness {
	t.Helper()
	grid := levels.NewGrid(harnessSize, harnessSize)
	for _, c := range solid {
		grid.Set(c.x, c.y, true)
	}

	h := &harness{t: t, w: ecs.NewWorld(), tiles: newFakeTiles(), start: start}
	h.phys = NewPhysicsSystem(nil)
	h.phys.BuildTiles(grid)
	h.network = NewCheckpointNetwork(nil)
	h.ctrl = NewPlayerControllerSystem(testSpec(), PlayerControllerOptions{
		Query:       h.phys,
		Ropes:       h.phys,
		Tiles:       h.tiles,
		Checkpoints: h.network,
		Start:       start,
	})

	var err error
	h.player, err = entity.NewPlayerAt(h.w, start, testSpec())
	if err != nil {
		t.Fatalf("NewPlayerAt: %v", err)
	}
	h.phys.Sync(h.w)
	return h
}

func (h *harness) checkpoint(id int, at cp.Vector, checked bool) ecs.Entity {
	h.t.Helper()
	e, err := entity.NewCheckpoint(h.w, levels.CheckpointDef{ID: id, Pos: at})
	if err != nil {
		h.t.Fatalf("NewCheckpoint: %v", err)
	}
	if checked {
		c, _ := ecs.Get(h.w, e, component.CheckpointComponent.Kind())
		c.Checked = true
		c.Pose = component.CheckpointFound
	}
	h.phys.Sync(h.w)
	return e
}

func (h *harness) p() *component.Player {
	p, _ := ecs.Get(h.w, h.player, component.PlayerComponent.Kind())
	return p
}

func (h *harness) body() *cp.Body {
	pb, _ := ecs.Get(h.w, h.player, component.PhysicsBodyComponent.Kind())
	return pb.Body
}

func (h *harness) place(at cp.Vector, vel cp.Vector) {
	h.body().SetPosition(at)
	h.body().SetVelocityVector(vel)
}

// tick advances input with the held actions and runs one controller tick.
func (h *harness) tick(held ...component.Action) {
	var values [component.ActionCount]float64
	for _, a := range held {
		values[a] = 1
	}
	in, _ := ecs.Get(h.w, h.player, component.InputComponent.Kind())
	in.Advance(values)
	h.ctrl.FixedUpdate(h.w)
}

func (h *harness) contact(normal cp.Vector) {
	h.ctrl.OnCollision(h.w, Contact{Solid: true, Tile: true, Normal: normal})
}

func (h *harness) cues() []Cue {
	var out []Cue
	for _, ev := range h.w.Events().Drain() {
		if cue, ok := ev.Data.(Cue); ok && ev.Type == EventCue {
			out = append(out, cue)
		}
	}
	return out
}

func eventTypes(w *ecs.World) []ecs.EventType {
	var out []ecs.EventType
	for _, ev := range w.Events().Drain() {
		out = append(out, ev.Type)
	}
	return out
}

func hasEvent(types []ecs.EventType, want ecs.EventType) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func hasCue(cues []Cue, want Cue) bool {
	for _, c := range cues {
		if c == want {
			return true
		}
	}
	return false
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func approxVec(a, b cp.Vector) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y)
}
