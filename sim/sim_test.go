package sim

import (
	"testing"

	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/milk9111/cliffhanger/ecs/system"
	"github.com/milk9111/cliffhanger/levels"
	"github.com/milk9111/cliffhanger/prefabs"
)

// script replays fixed action frames, then idles.
type script struct {
	frames [][component.ActionCount]float64
}

func (s *script) Sample() [component.ActionCount]float64 {
	if len(s.frames) == 0 {
		return [component.ActionCount]float64{}
	}
	v := s.frames[0]
	s.frames = s.frames[1:]
	return v
}

func press(a component.Action) [component.ActionCount]float64 {
	var v [component.ActionCount]float64
	v[a] = 1
	return v
}

func newContext(t *testing.T, store system.SaveStore, input system.InputSource, intro ...string) *Context {
	t.Helper()
	lvl, err := levels.Load(levels.LevelsFS, "cliffs.tmx")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		t.Fatalf("LoadPlayerSpec: %v", err)
	}
	c, err := New(Options{
		Level:   lvl,
		Player:  spec,
		Dialogs: prefabs.DialogsSpec{Intro: intro},
		Store:   store,
		Input:   input,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func (c *Context) playerY(t *testing.T) float64 {
	t.Helper()
	tr, ok := ecs.Get(c.World, c.Built.Player, component.TransformComponent.Kind())
	if !ok {
		t.Fatal("player has no transform")
	}
	return tr.Y
}

func TestNewRequiresLevel(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected an error without a level")
	}
}

func TestIntroDialogHoldsThePlayer(t *testing.T) {
	src := &script{}
	c := newContext(t, nil, src, "welcome")
	if !c.Dialogs.Active() || c.Dialogs.Text() != "welcome" {
		t.Fatalf("intro active %v text %q", c.Dialogs.Active(), c.Dialogs.Text())
	}

	y := c.playerY(t)
	for i := 0; i < 5; i++ {
		c.Tick()
	}
	if c.playerY(t) != y {
		t.Fatal("player moved behind the dialog")
	}

	src.frames = append(src.frames, press(component.ActionJump))
	c.Tick()
	if c.Dialogs.Active() {
		t.Fatal("jump did not dismiss the intro")
	}
	c.Tick()
	if c.playerY(t) >= y {
		t.Fatal("player did not fall after the dialog closed")
	}
}

func TestPauseSuspendsSimulation(t *testing.T) {
	src := &script{frames: [][component.ActionCount]float64{press(component.ActionMenu)}}
	c := newContext(t, nil, src)
	c.SetPaused(true)

	y := c.playerY(t)
	c.Tick()
	if !c.MenuPressed() {
		t.Fatal("input should advance while paused")
	}
	if !c.Paused() || c.playerY(t) != y {
		t.Fatal("paused tick moved the player")
	}

	c.SetPaused(false)
	c.Tick()
	if c.MenuPressed() {
		t.Fatal("menu press repeated")
	}
	if c.playerY(t) >= y {
		t.Fatal("player did not fall once unpaused")
	}
}

func TestProgressSurvivesRestart(t *testing.T) {
	store := &system.MemoryStore{}
	first := newContext(t, store, nil, "welcome")
	if !system.GrantAbility(first.World, system.AbilityCanHang) {
		t.Fatal("GrantAbility failed")
	}
	first.Saves.Save(first.World)

	second := newContext(t, store, nil, "welcome")
	if second.Dialogs.Active() {
		t.Fatal("intro shown with an existing save")
	}
	p, ok := second.Player()
	if !ok || !p.CanHang {
		t.Fatal("ability lost across restart")
	}

	if err := second.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	p, _ = second.Player()
	if p.CanHang {
		t.Fatal("Reset kept the ability")
	}
	if !second.Dialogs.Active() {
		t.Fatal("intro not shown after Reset")
	}
	if store.Data != nil {
		t.Fatal("Reset left save data behind")
	}
}

func TestEndingEvent(t *testing.T) {
	c := newContext(t, nil, nil)
	c.World.Events().Push(ecs.Event{Type: system.EventEnding, Data: system.Ending{Secret: true}})
	c.Tick()

	e, ok := c.Ending()
	if !ok || !e.Secret {
		t.Fatalf("ending %+v ok=%v", e, ok)
	}
	p, _ := c.Player()
	if !p.Finished {
		t.Fatal("player not finished")
	}

	y := c.playerY(t)
	c.Tick()
	if c.playerY(t) != y {
		t.Fatal("simulation ran after the ending")
	}
}

func TestAllAbilities(t *testing.T) {
	lvl, err := levels.Load(levels.LevelsFS, "cliffs.tmx")
	if err != nil {
		t.Fatal(err)
	}
	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(Options{Level: lvl, Player: spec, AllAbilities: true})
	if err != nil {
		t.Fatal(err)
	}
	p, _ := c.Player()
	if !p.CanHang || !p.CanTeleport || !p.CanDive || !p.CanRope || !p.DeathLineUnlocked {
		t.Fatalf("abilities %+v", p)
	}
}
