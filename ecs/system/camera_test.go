package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/milk9111/cliffhanger/ecs/entity"
)

func newCameraWorld(t *testing.T, at cp.Vector) (*harness, *component.Camera) {
	t.Helper()
	h := newHarness(t, harnessStart)
	e, err := entity.NewCameraAt(h.w, at)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := ecs.Get(h.w, e, component.CameraComponent.Kind())
	return h, c
}

func TestCameraShake(t *testing.T) {
	h, c := newCameraWorld(t, harnessStart)
	cs := NewCameraSystem(1)
	cs.Shake(h.w, 3)
	cs.Shake(h.w, 1)

	for i := 0; i < 3; i++ {
		cs.Update(h.w, 1.0/60)
		if math.Abs(c.Offset.X) > cameraShakeAmount || math.Abs(c.Offset.Y) > cameraShakeAmount {
			t.Fatalf("frame %d offset %v out of range", i, c.Offset)
		}
	}
	if c.ShakeTicks != 0 {
		t.Fatalf("shake ticks %d", c.ShakeTicks)
	}
	cs.Update(h.w, 1.0/60)
	if c.Offset != (cp.Vector{}) {
		t.Fatalf("offset %v after shake", c.Offset)
	}
}

func TestCameraFollow(t *testing.T) {
	cases := []struct {
		name   string
		camY   float64
		state  component.PlayerState
		follow bool
	}{
		{"above_player", harnessStart.Y + 3, component.PlayerFalling, true},
		{"below_falling", harnessStart.Y - 3, component.PlayerFalling, false},
		{"below_walking", harnessStart.Y - 3, component.PlayerWalking, true},
		{"dead", harnessStart.Y + 3, component.PlayerDeath, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, cam := newCameraWorld(t, cp.Vector{X: 0, Y: c.camY})
			h.p().State = c.state
			NewCameraSystem(1).Update(h.w, 0.1)

			moved := cam.Pos.Y != c.camY
			if moved != c.follow {
				t.Fatalf("camera y %v from %v, follow = %v", cam.Pos.Y, c.camY, c.follow)
			}
			if c.state != component.PlayerDeath && cam.Pos.X != harnessStart.X {
				t.Fatalf("camera x %v", cam.Pos.X)
			}
		})
	}
}

func TestDeathLineEases(t *testing.T) {
	h, _ := newCameraWorld(t, harnessStart)
	e, err := entity.NewDeathLine(h.w)
	if err != nil {
		t.Fatal(err)
	}
	dl, _ := ecs.Get(h.w, e, component.DeathLineComponent.Kind())
	h.p().DeathHeight = -5
	cs := NewCameraSystem(1)

	cs.Update(h.w, 0.25)
	if approx(dl.Y, -5.9) {
		t.Fatal("death line jumped to its target")
	}
	cs.Update(h.w, 0.25)
	if !approx(dl.Y, -5.9) || dl.X != math.Floor(harnessStart.X) {
		t.Fatalf("death line at (%v, %v)", dl.X, dl.Y)
	}
}

func TestFollowsY(t *testing.T) {
	if !followsY(component.PlayerSwimming, 0) || followsY(component.PlayerSwimming, -5) {
		t.Fatal("swimming follow threshold")
	}
	if followsY(component.PlayerSwinging, 0) {
		t.Fatal("swinging should not pull the camera up")
	}
}
