package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/cliffhanger/ecs/component"
)

// levelWorld lays out a player, two checkpoints, a pickup and a loose arrow
// the way the level builder does.
func levelWorld(t *testing.T) (w *World, player Entity, checkpoints []Entity, pickup Entity) {
	t.Helper()
	w = NewWorld()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	player = CreateEntity(w)
	must(Add(w, player, component.PlayerComponent.Kind(), &component.Player{Facing: 1}))
	must(Add(w, player, component.TransformComponent.Kind(), &component.Transform{X: 2, Y: -3}))
	must(Add(w, player, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 0.4, Height: 0.8}))
	must(Add(w, player, component.InputComponent.Kind(), &component.Input{}))

	for i, x := range []float64{5, 9} {
		e := CreateEntity(w)
		must(Add(w, e, component.CheckpointComponent.Kind(), &component.Checkpoint{ID: i + 1}))
		must(Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: -3}))
		checkpoints = append(checkpoints, e)
	}

	pickup = CreateEntity(w)
	must(Add(w, pickup, component.PickupComponent.Kind(), &component.Pickup{ID: 11, Kind: "spider"}))
	must(Add(w, pickup, component.TransformComponent.Kind(), &component.Transform{X: 7, Y: -2}))

	arrow := CreateEntity(w)
	must(Add(w, arrow, component.TeleportArrowComponent.Kind(), &component.TeleportArrow{Direction: 90}))
	return w, player, checkpoints, pickup
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				e := CreateEntity(w)
				if err := Add(w, e, component.CheckpointComponent.Kind(), &component.Checkpoint{ID: i + 1}); err != nil {
					t.Fatal(err)
				}
				ents = append(ents, e)
			}
			if got := len(Entities(w)); got != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, got)
			}
			if c.destroyIndex < 0 {
				return
			}
			dead := ents[c.destroyIndex]
			if !DestroyEntity(w, dead) {
				t.Fatal("DestroyEntity should return true for a live entity")
			}
			if DestroyEntity(w, dead) {
				t.Fatal("DestroyEntity should return false the second time")
			}
			if IsAlive(w, dead) || Has(w, dead, component.CheckpointComponent.Kind()) {
				t.Fatal("destroyed checkpoint still reachable")
			}
			if got := Count(w, component.CheckpointComponent.Kind()); got != c.create-1 {
				t.Fatalf("expected %d checkpoints, got %d", c.create-1, got)
			}
		})
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	live := CreateEntity(w)
	dead := CreateEntity(w)
	DestroyEntity(w, dead)

	cases := []struct {
		name string
		add  func() error
		want error
	}{
		{"nil_value", func() error { return Add(w, live, component.PickupComponent.Kind(), nil) }, component.ErrNilComponent},
		{"zero_kind", func() error {
			return Add(w, live, component.ComponentKind[component.Pickup]{}, &component.Pickup{})
		}, component.ErrInvalidComponentKind},
		{"dead_entity", func() error {
			return Add(w, dead, component.PickupComponent.Kind(), &component.Pickup{})
		}, component.ErrEntityNotAlive},
		{"zero_entity", func() error {
			return Add(w, Entity(0), component.PickupComponent.Kind(), &component.Pickup{})
		}, component.ErrEntityNotAlive},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.add(); !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
		})
	}
	if Count(w, component.PickupComponent.Kind()) != 0 {
		t.Fatal("failed adds left a pickup behind")
	}
}

func TestComponentReplaceAndRemove(t *testing.T) {
	w, _, checkpoints, pickup := levelWorld(t)
	e := checkpoints[0]

	c, _ := Get(w, e, component.CheckpointComponent.Kind())
	c.Checked = true
	if got, _ := Get(w, e, component.CheckpointComponent.Kind()); !got.Checked {
		t.Fatal("Get should return the stored pointer")
	}

	if err := Add(w, e, component.CheckpointComponent.Kind(), &component.Checkpoint{ID: 7}); err != nil {
		t.Fatal(err)
	}
	if got, _ := Get(w, e, component.CheckpointComponent.Kind()); got.ID != 7 || got.Checked {
		t.Fatalf("replaced checkpoint = %+v", got)
	}
	if Count(w, component.CheckpointComponent.Kind()) != 2 {
		t.Fatal("replace changed the checkpoint count")
	}

	if !Remove(w, pickup, component.PickupComponent.Kind()) {
		t.Fatal("Remove should report the pickup")
	}
	if Remove(w, pickup, component.PickupComponent.Kind()) {
		t.Fatal("second Remove should report nothing")
	}
	if !Has(w, pickup, component.TransformComponent.Kind()) {
		t.Fatal("Remove dropped an unrelated component")
	}
	if _, ok := Get(w, pickup, component.CheckpointComponent.Kind()); ok {
		t.Fatal("pickup has no checkpoint")
	}
}

func TestQueries(t *testing.T) {
	w, player, checkpoints, pickup := levelWorld(t)

	t.Run("for_each", func(t *testing.T) {
		var ids []int
		ForEach(w, component.CheckpointComponent.Kind(), func(_ Entity, c *component.Checkpoint) {
			ids = append(ids, c.ID)
		})
		if len(ids) != 2 {
			t.Fatalf("checkpoints %v", ids)
		}
	})

	t.Run("for_each2", func(t *testing.T) {
		seen := map[Entity]float64{}
		ForEach2(w, component.CheckpointComponent.Kind(), component.TransformComponent.Kind(), func(e Entity, _ *component.Checkpoint, tr *component.Transform) {
			seen[e] = tr.X
		})
		if len(seen) != 2 || seen[checkpoints[0]] != 5 || seen[checkpoints[1]] != 9 {
			t.Fatalf("checkpoint transforms %v", seen)
		}
		if _, ok := seen[pickup]; ok {
			t.Fatal("pickup matched a checkpoint query")
		}
	})

	t.Run("for_each3_intersection", func(t *testing.T) {
		var res []Entity
		ForEach3(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(),
			func(e Entity, _ *component.Player, _ *component.Transform, _ *component.PhysicsBody) {
				res = append(res, e)
			})
		if len(res) != 1 || res[0] != player {
			t.Fatalf("expected only the player, got %v", res)
		}
	})

	t.Run("for_each3_no_common", func(t *testing.T) {
		var res []Entity
		ForEach3(w, component.PickupComponent.Kind(), component.CheckpointComponent.Kind(), component.TransformComponent.Kind(),
			func(e Entity, _ *component.Pickup, _ *component.Checkpoint, _ *component.Transform) {
				res = append(res, e)
			})
		if len(res) != 0 {
			t.Fatalf("expected no common entities, got %v", res)
		}
	})

	t.Run("for_each4", func(t *testing.T) {
		var res []Entity
		ForEach4(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.InputComponent.Kind(),
			func(e Entity, p *component.Player, _ *component.Transform, pb *component.PhysicsBody, _ *component.Input) {
				if p.Facing != 1 || pb.Width != 0.4 {
					t.Fatalf("player components %+v %+v", p, pb)
				}
				res = append(res, e)
			})
		if len(res) != 1 || res[0] != player {
			t.Fatalf("expected only the player, got %v", res)
		}
	})

	t.Run("missing_store", func(t *testing.T) {
		var res []Entity
		ForEach4(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), component.RopeSegmentComponent.Kind(), component.InputComponent.Kind(),
			func(e Entity, _ *component.Player, _ *component.Transform, _ *component.RopeSegment, _ *component.Input) {
				res = append(res, e)
			})
		if len(res) != 0 {
			t.Fatalf("expected nothing without rope segments, got %v", res)
		}
		if _, ok := First(w, component.RopeSegmentComponent.Kind()); ok {
			t.Fatal("First found a rope segment")
		}
	})

	t.Run("first_and_count", func(t *testing.T) {
		if e, ok := First(w, component.PlayerComponent.Kind()); !ok || e != player {
			t.Fatalf("First player = %v, %v", e, ok)
		}
		if n := Count(w, component.TransformComponent.Kind()); n != 4 {
			t.Fatalf("transforms = %d, want 4", n)
		}
		if n := Count(w, component.TeleportArrowComponent.Kind()); n != 1 {
			t.Fatalf("arrows = %d, want 1", n)
		}
	})
}

func TestQueriesSkipDestroyed(t *testing.T) {
	w, player, checkpoints, _ := levelWorld(t)
	DestroyEntity(w, checkpoints[0])
	DestroyEntity(w, player)

	var ids []int
	ForEach2(w, component.CheckpointComponent.Kind(), component.TransformComponent.Kind(), func(_ Entity, c *component.Checkpoint, _ *component.Transform) {
		ids = append(ids, c.ID)
	})
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("checkpoints after destroy %v", ids)
	}
	var players int
	ForEach4(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.InputComponent.Kind(),
		func(Entity, *component.Player, *component.Transform, *component.PhysicsBody, *component.Input) {
			players++
		})
	if players != 0 {
		t.Fatalf("destroyed player still iterated %d times", players)
	}
	if _, ok := First(w, component.PlayerComponent.Kind()); ok {
		t.Fatal("First found a destroyed player")
	}
}

func TestStaleHandleAfterRecycle(t *testing.T) {
	w, _, checkpoints, _ := levelWorld(t)
	old := checkpoints[1]
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if err := Add(w, fresh, component.PickupComponent.Kind(), &component.Pickup{ID: 12, Kind: "diving"}); err != nil {
		t.Fatal(err)
	}
	if fresh.id() != old.id() || fresh == old {
		t.Fatalf("expected recycled slot, got %v from %v", fresh, old)
	}
	if _, ok := Get(w, old, component.PickupComponent.Kind()); ok {
		t.Fatal("stale checkpoint handle reached the new pickup")
	}
	if Has(w, fresh, component.CheckpointComponent.Kind()) {
		t.Fatal("recycled entity inherited a checkpoint")
	}
}

func TestQueueDestroySweep(t *testing.T) {
	w := NewWorld()
	kind := component.TTLComponent.Kind()

	a := CreateEntity(w)
	b := CreateEntity(w)
	if err := Add(w, a, kind, &component.TTL{Frames: 1, Total: 1}); err != nil {
		t.Fatal(err)
	}

	QueueDestroy(w, a)
	QueueDestroy(w, a)
	if !IsAlive(w, a) {
		t.Fatal("queued entity should stay alive until sweep")
	}
	if n := Sweep(w); n != 1 {
		t.Fatalf("expected 1 swept entity, got %d", n)
	}
	if IsAlive(w, a) {
		t.Fatal("expected entity destroyed after sweep")
	}
	if !IsAlive(w, b) {
		t.Fatal("unqueued entity should survive sweep")
	}
	if Count(w, kind) != 0 {
		t.Fatal("expected component removed with entity")
	}

	c := CreateEntity(w)
	if c.id() != a.id() || c == a {
		t.Fatalf("expected recycled slot with new generation, got %v from %v", c, a)
	}
	if Has(w, c, kind) {
		t.Fatal("recycled entity should not inherit components")
	}
}

func TestEventQueueDrain(t *testing.T) {
	w := NewWorld()
	w.Events().Push(Event{Type: "a"})
	w.Events().Push(Event{Type: "b"})

	got := w.Events().Drain()
	if len(got) != 2 || got[0].Type != "a" || got[1].Type != "b" {
		t.Fatalf("unexpected events %v", got)
	}
	if w.Events().Len() != 0 {
		t.Fatal("expected queue empty after drain")
	}
}
