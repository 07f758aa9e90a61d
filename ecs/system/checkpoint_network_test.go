package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
)

func TestSelectTarget(t *testing.T) {
	origin := cp.Vector{}
	cases := []struct {
		name       string
		direction  float64
		candidates []TeleportCandidate
		wantID     int
		wantOK     bool
	}{
		{"none", 0, nil, 0, false},
		{"straight_right", 0, []TeleportCandidate{{ID: 1, Pos: cp.Vector{X: 5}}}, 1, true},
		{"inside_cone", 90, []TeleportCandidate{{ID: 1, Pos: cp.Vector{X: 3, Y: 4}}}, 1, true},
		{"outside_cone", 0, []TeleportCandidate{{ID: 1, Pos: cp.Vector{X: 1, Y: 2}}}, 0, false},
		{"wraps_below", 270, []TeleportCandidate{{ID: 7, Pos: cp.Vector{X: 0.5, Y: -4}}}, 7, true},
		{"closest_wins", 0, []TeleportCandidate{
			{ID: 1, Pos: cp.Vector{X: 10}},
			{ID: 2, Pos: cp.Vector{X: 4}},
		}, 2, true},
		{"angle_breaks_near_tie", 0, []TeleportCandidate{
			{ID: 1, Pos: cp.Vector{X: 5, Y: 1}},
			{ID: 2, Pos: cp.Vector{X: 5.05}},
		}, 2, true},
		{"up_prefers_small_deviation", 90, []TeleportCandidate{
			{ID: 1, Pos: cp.ForAngle(80 * math.Pi / 180).Mult(5)},
			{ID: 2, Pos: cp.ForAngle(130 * math.Pi / 180).Mult(4.5)},
		}, 1, true},
		{"exact_tie_lowest_id", 0, []TeleportCandidate{
			{ID: 9, Pos: cp.Vector{X: 4, Y: 3}},
			{ID: 4, Pos: cp.Vector{X: 4, Y: -3}},
		}, 4, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := SelectTarget(origin, c.direction, c.candidates)
			if ok != c.wantOK {
				t.Fatalf("ok = %v, want %v", ok, c.wantOK)
			}
			if ok && got.ID != c.wantID {
				t.Fatalf("id = %d, want %d", got.ID, c.wantID)
			}
		})
	}
}

func TestSelectTargetOrderIndependent(t *testing.T) {
	a := TeleportCandidate{ID: 3, Pos: cp.Vector{X: 4, Y: 3}}
	b := TeleportCandidate{ID: 8, Pos: cp.Vector{X: 4, Y: -3}}
	first, _ := SelectTarget(cp.Vector{}, 0, []TeleportCandidate{a, b})
	second, _ := SelectTarget(cp.Vector{}, 0, []TeleportCandidate{b, a})
	if first.ID != second.ID || first.ID != 3 {
		t.Fatalf("got %d and %d, want 3 both times", first.ID, second.ID)
	}
}

func TestArrowAngle(t *testing.T) {
	cases := []struct {
		direction, bearing, want float64
	}{
		{0, 0, 0},
		{0, 30, 21},
		{90, 60, 69},
		{0, -40, -28},
	}
	for _, c := range cases {
		if got := ArrowAngle(c.direction, c.bearing); !approx(got, c.want) {
			t.Fatalf("ArrowAngle(%v, %v) = %v, want %v", c.direction, c.bearing, got, c.want)
		}
	}
}

func TestNetworkSkipsUncheckedAndSelf(t *testing.T) {
	h := newHarness(t, harnessStart)
	from := h.checkpoint(1, cp.Vector{X: 5, Y: -10}, true)
	h.checkpoint(2, cp.Vector{X: 8, Y: -10}, false)
	far := h.checkpoint(3, cp.Vector{X: 12, Y: -10}, true)

	got, ok := h.network.Select(h.w, from, 0)
	if !ok || got != far {
		t.Fatalf("Select = %v %v, want the checked checkpoint %v", got, ok, far)
	}
	if _, ok := h.network.Select(h.w, from, 180); ok {
		t.Fatal("unexpected target to the left")
	}
	arrows := h.network.Arrows(h.w, from)
	if len(arrows) != 1 || arrows[0].Direction != 0 {
		t.Fatalf("arrows %+v", arrows)
	}
}

func TestSetCurrent(t *testing.T) {
	h := newHarness(t, harnessStart)
	a := h.checkpoint(1, cp.Vector{X: 5, Y: -10}, false)
	b := h.checkpoint(2, cp.Vector{X: 8, Y: -10}, false)
	p := h.p()

	if !h.network.SetCurrent(h.w, p, a) {
		t.Fatal("SetCurrent(a) = false")
	}
	if h.network.SetCurrent(h.w, p, a) {
		t.Fatal("SetCurrent on the current checkpoint should be a no-op")
	}
	h.network.SetCurrent(h.w, p, b)

	ca, _ := ecs.Get(h.w, a, component.CheckpointComponent.Kind())
	cb, _ := ecs.Get(h.w, b, component.CheckpointComponent.Kind())
	if ca.Pose != component.CheckpointFound || cb.Pose != component.CheckpointActive {
		t.Fatalf("poses %v / %v", ca.Pose, cb.Pose)
	}
	if !ca.Checked || !cb.Checked {
		t.Fatal("both checkpoints should be checked")
	}

	saves, cues := 0, 0
	for _, ev := range h.w.Events().Drain() {
		switch ev.Type {
		case EventSave:
			saves++
		case EventCue:
			if ev.Data == CueCheckpoint {
				cues++
			}
		}
	}
	if saves != 2 || cues != 2 {
		t.Fatalf("saves %d cues %d, want 2 and 2", saves, cues)
	}
}

func TestCurrentStaleHandle(t *testing.T) {
	h := newHarness(t, harnessStart)
	e := h.checkpoint(1, cp.Vector{X: 5, Y: -10}, true)
	p := h.p()
	p.Checkpoint = uint64(e)
	ecs.DestroyEntity(h.w, e)

	if _, _, ok := h.network.Current(h.w, p); ok {
		t.Fatal("destroyed checkpoint should not resolve")
	}
}
