package system

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
)

func TestRecordInt(t *testing.T) {
	rec := Record{
		"int":     7,
		"int64":   int64(8),
		"float":   9.0,
		"frac":    2.5,
		"number":  json.Number("10"),
		"bad_num": json.Number("x"),
		"nan":     math.NaN(),
		"inf":     math.Inf(1),
		"string":  "11",
		"bool":    true,
	}
	cases := []struct {
		key  string
		want int
	}{
		{"int", 7},
		{"int64", 8},
		{"float", 9},
		{"frac", 0},
		{"number", 10},
		{"bad_num", 0},
		{"nan", 0},
		{"inf", 0},
		{"string", 0},
		{"bool", 0},
		{"missing", 0},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			if got := rec.Int(c.key); got != c.want {
				t.Fatalf("Int(%q) = %d, want %d", c.key, got, c.want)
			}
			_, ok := rec.IntOK(c.key)
			if wantOK := c.want != 0; ok != wantOK {
				t.Fatalf("IntOK(%q) ok = %v, want %v", c.key, ok, wantOK)
			}
		})
	}
}

func TestRecordBool(t *testing.T) {
	rec := Record{"yes": true, "no": false, "one": 1.0}
	if !rec.Bool("yes") || rec.Bool("no") || rec.Bool("one") || rec.Bool("missing") {
		t.Fatalf("unexpected bools from %v", rec)
	}
	if !rec.Has("no") || rec.Has("missing") {
		t.Fatal("Has mismatch")
	}
}

type counterProgress struct {
	n      int
	loaded bool
}

func (c *counterProgress) SaveProgress(_ *ecs.World, rec Record) {
	rec.SetInt("n", c.n)
}

func (c *counterProgress) LoadProgress(_ *ecs.World, rec Record) {
	c.loaded = true
	c.n = rec.Int("n")
}

func TestCoordinatorRoundTrip(t *testing.T) {
	store := &MemoryStore{}
	w := ecs.NewWorld()

	src := &counterProgress{n: 42}
	saver := NewCoordinator(store, nil)
	saver.Register(src)
	saver.Save(w)

	dst := &counterProgress{}
	loader := NewCoordinator(store, nil)
	loader.Register(dst)
	if !loader.Load(w) {
		t.Fatal("Load reported no save")
	}
	if dst.n != 42 {
		t.Fatalf("n = %d, want 42", dst.n)
	}

	loader.Reset()
	fresh := &counterProgress{n: 5}
	again := NewCoordinator(store, nil)
	again.Register(fresh)
	if again.Load(w) {
		t.Fatal("Load after Reset reported a save")
	}
	if !fresh.loaded || fresh.n != 0 {
		t.Fatalf("fresh load %+v, want loaded with zero", fresh)
	}
}

func TestCoordinatorMalformedSave(t *testing.T) {
	store := &MemoryStore{Data: []byte("{not json")}
	c := NewCoordinator(store, nil)
	got := &counterProgress{n: 3}
	c.Register(got)
	if c.Load(ecs.NewWorld()) {
		t.Fatal("malformed save should load as fresh")
	}
	if !got.loaded || got.n != 0 {
		t.Fatalf("progress %+v", got)
	}
}

type failingStore struct{ MemoryStore }

func (f *failingStore) Save(Record) error { return errors.New("disk full") }

func TestCoordinatorSaveFailureKeepsRunning(t *testing.T) {
	store := &failingStore{}
	c := NewCoordinator(store, nil)
	c.Register(&counterProgress{n: 1})
	c.Save(ecs.NewWorld())
	if store.Data != nil {
		t.Fatal("failed save wrote data")
	}
}

func TestPlayerProgressRoundTrip(t *testing.T) {
	src := newHarness(t, harnessStart)
	a := src.checkpoint(2, cp.Vector{X: 5.5, Y: -10}, true)
	src.checkpoint(3, cp.Vector{X: 9.5, Y: -10}, false)
	p := src.p()
	p.Checkpoint = uint64(a)
	p.DeathCount, p.TeleportCount, p.JumpCount = 4, 5, 6
	p.CanHang, p.CanRope = true, true

	store := &MemoryStore{}
	saver := NewCoordinator(store, nil)
	saver.Register(src.network, src.ctrl)
	saver.Save(src.w)

	dst := newHarness(t, cp.Vector{X: 1.5, Y: -2})
	dst.checkpoint(2, cp.Vector{X: 5.5, Y: -10}, false)
	unchecked := dst.checkpoint(3, cp.Vector{X: 9.5, Y: -10}, false)
	dp := dst.p()
	dp.CanDive = true

	loader := NewCoordinator(store, nil)
	loader.Register(dst.network, dst.ctrl)
	if !loader.Load(dst.w) {
		t.Fatal("no save found")
	}

	if dp.DeathCount != 4 || dp.TeleportCount != 5 || dp.JumpCount != 6 {
		t.Fatalf("counters %d %d %d", dp.DeathCount, dp.TeleportCount, dp.JumpCount)
	}
	if !dp.CanHang || !dp.CanRope || !dp.CanDive || dp.CanTeleport {
		t.Fatalf("abilities hang=%v rope=%v dive=%v teleport=%v", dp.CanHang, dp.CanRope, dp.CanDive, dp.CanTeleport)
	}
	cur, at, ok := dst.network.Current(dst.w, dp)
	if !ok || !approxVec(at, cp.Vector{X: 5.5, Y: -10}) {
		t.Fatalf("current checkpoint %v at %v ok=%v", cur, at, ok)
	}
	c, _ := ecs.Get(dst.w, cur, component.CheckpointComponent.Kind())
	if !c.Checked || c.Pose != component.CheckpointActive {
		t.Fatalf("restored checkpoint %+v", c)
	}
	if u, _ := ecs.Get(dst.w, unchecked, component.CheckpointComponent.Kind()); u.Checked {
		t.Fatal("unchecked checkpoint restored as checked")
	}
	if !approxVec(dst.body().Position(), at) || dp.State != component.PlayerFalling {
		t.Fatalf("player at %v state %s", dst.body().Position(), dp.State)
	}
}

func TestPlayerProgressMissingCheckpoint(t *testing.T) {
	h := newHarness(t, harnessStart)
	rec := Record{keyCurrentCheckpoint: 99.0, keyDeathCount: 2.0}
	h.ctrl.LoadProgress(h.w, rec)
	p := h.p()
	if p.Checkpoint != 0 || p.DeathCount != 2 {
		t.Fatalf("checkpoint %v deaths %d", p.Checkpoint, p.DeathCount)
	}
	if !approxVec(h.body().Position(), harnessStart) {
		t.Fatalf("player moved to %v", h.body().Position())
	}
}

func TestPlayerProgressMalformedValues(t *testing.T) {
	cases := []struct {
		name       string
		checkpoint any
	}{
		{"string", "x"},
		{"negative", -1.0},
		{"zero", 0.0},
		{"fraction", 2.5},
		{"bool", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newHarness(t, harnessStart)
			h.checkpoint(2, cp.Vector{X: 9.5, Y: -10}, true)
			p := h.p()
			p.JumpCount = 3
			rec := Record{
				keyCurrentCheckpoint: c.checkpoint,
				keyDeathCount:        -4.0,
				keyTeleportCount:     -1,
				keyJumpCount:         "lots",
			}
			h.ctrl.LoadProgress(h.w, rec)
			if p.DeathCount != 0 || p.TeleportCount != 0 || p.JumpCount != 3 {
				t.Fatalf("counters %d %d %d", p.DeathCount, p.TeleportCount, p.JumpCount)
			}
			if p.Checkpoint != 0 || !approxVec(h.body().Position(), harnessStart) {
				t.Fatalf("checkpoint %v at %v", p.Checkpoint, h.body().Position())
			}
		})
	}
}

func TestGDataStoreReset(t *testing.T) {
	store, err := NewGDataStore("cliffhanger_test")
	if err != nil {
		t.Skipf("no data dir: %v", err)
	}
	if err := store.Save(Record{keyDeathCount: 3}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec, err := store.Load()
	if err != nil || rec.Int(keyDeathCount) != 3 {
		t.Fatalf("Load = %v, %v", rec, err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	rec, err = store.Load()
	if err != nil || rec != nil {
		t.Fatalf("Load after Reset = %v, %v, want no save", rec, err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("second Reset: %v", err)
	}
}
