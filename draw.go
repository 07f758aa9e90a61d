package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/milk9111/cliffhanger/levels"
	"github.com/milk9111/cliffhanger/sim"
	"golang.org/x/image/colornames"
)

// view maps world units (y up) to screen pixels around the camera.
type view struct {
	center cp.Vector
	zoom   float64
	w, h   float64
}

func (v view) point(p cp.Vector) (float32, float32) {
	return float32((p.X-v.center.X)*v.zoom + v.w/2), float32(v.h/2 - (p.Y-v.center.Y)*v.zoom)
}

func (v view) rect(screen *ebiten.Image, center, size cp.Vector, fill color.Color) {
	x, y := v.point(cp.Vector{X: center.X - size.X/2, Y: center.Y + size.Y/2})
	vector.FillRect(screen, x, y, float32(size.X*v.zoom), float32(size.Y*v.zoom), fill, false)
}

func (v view) cell(screen *ebiten.Image, x, y int, fill color.Color) {
	v.rect(screen, cp.Vector{X: float64(x) + 0.5, Y: float64(y) + 0.5}, cp.Vector{X: 1, Y: 1}, fill)
}

func drawWorld(screen *ebiten.Image, s *sim.Context) {
	screen.Fill(colornames.Midnightblue)
	w := s.World

	cam, ok := ecs.Get(w, s.Built.Camera, component.CameraComponent.Kind())
	if !ok {
		return
	}
	b := screen.Bounds()
	v := view{center: cam.Pos.Add(cam.Offset), zoom: cam.Zoom, w: float64(b.Dx()), h: float64(b.Dy())}

	drawTiles(screen, v, s)

	ecs.ForEach2(w, component.KillZoneComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, _ *component.KillZone, pb *component.PhysicsBody) {
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			v.rect(screen, t.Vec(), cp.Vector{X: pb.Width, Y: pb.Height}, colornames.Silver)
		}
	})
	ecs.ForEach2(w, component.FallingBlockComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, fb *component.FallingBlock, t *component.Transform) {
		fill := colornames.Saddlebrown
		if fb.State == component.FallingBlockTriggered {
			fill = colornames.Peru
		}
		v.rect(screen, t.Vec(), cp.Vector{X: 2, Y: 1}, fill)
	})
	ecs.ForEach2(w, component.CheckpointComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, c *component.Checkpoint, t *component.Transform) {
		fill := colornames.Gray
		switch c.Pose {
		case component.CheckpointFound:
			fill = colornames.Gold
		case component.CheckpointActive:
			fill = colornames.Limegreen
		}
		v.rect(screen, t.Vec(), cp.Vector{X: 0.2, Y: 0.8}, fill)
	})
	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Pickup, t *component.Transform) {
		if !p.Collected {
			v.rect(screen, t.Vec(), cp.Vector{X: 0.5, Y: 0.5}, colornames.Orchid)
		}
	})
	ecs.ForEach2(w, component.ExitComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, ex *component.Exit, t *component.Transform) {
		fill := colornames.White
		if ex.Secret {
			fill = colornames.Cyan
		}
		v.rect(screen, t.Vec(), cp.Vector{X: 0.6, Y: 1}, fill)
	})
	ecs.ForEach2(w, component.SecretCubeComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, c *component.SecretCube, t *component.Transform) {
		v.rect(screen, t.Vec(), cp.Vector{X: c.Scale, Y: c.Scale}, colornames.Aqua)
	})
	ecs.ForEach2(w, component.RopeSegmentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.RopeSegment, t *component.Transform) {
		fill := color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
		if ttl, ok := ecs.Get(w, e, component.TTLComponent.Kind()); ok {
			fill.A = uint8(255 * ttl.Remaining())
		}
		v.rect(screen, t.Vec(), cp.Vector{X: 0.1, Y: 0.1}, fill)
	})
	ecs.ForEach2(w, component.TeleportArrowComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, a *component.TeleportArrow, t *component.Transform) {
		tip := t.Vec().Add(cp.ForAngle(a.Angle * math.Pi / 180).Mult(0.25))
		x0, y0 := v.point(t.Vec())
		x1, y1 := v.point(tip)
		vector.StrokeLine(screen, x0, y0, x1, y1, 3, colornames.Yellow, true)
	})

	drawPlayer(screen, v, s)
	drawSigns(screen, v, w)
}

func drawTiles(screen *ebiten.Image, v view, s *sim.Context) {
	lvl := s.Level()
	halfW := v.w / 2 / v.zoom
	halfH := v.h / 2 / v.zoom
	minX, maxX := int(math.Floor(v.center.X-halfW)), int(math.Ceil(v.center.X+halfW))
	minY, maxY := int(math.Floor(v.center.Y-halfH)), int(math.Ceil(v.center.Y+halfH))
	layers := []struct {
		grid levels.Grid
		fill color.Color
	}{
		{lvl.Solid, colornames.Dimgray},
		{lvl.Moss, colornames.Darkolivegreen},
		{lvl.Water, color.NRGBA{R: 0x30, G: 0x60, B: 0xff, A: 0x80}},
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for _, l := range layers {
				if l.grid.Get(x, y) {
					v.cell(screen, x, y, l.fill)
				}
			}
		}
	}
}

func drawPlayer(screen *ebiten.Image, v view, s *sim.Context) {
	w := s.World
	p, ok := s.Player()
	if !ok {
		return
	}
	t, ok := ecs.Get(w, s.Built.Player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	pb, ok := ecs.Get(w, s.Built.Player, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}

	if p.DeathLineUnlocked {
		ecs.ForEach(w, component.DeathLineComponent.Kind(), func(_ ecs.Entity, dl *component.DeathLine) {
			_, y := v.point(cp.Vector{Y: dl.Y})
			vector.StrokeLine(screen, 0, y, float32(v.w), y, 2, colornames.Red, false)
		})
	}

	fill := colornames.Crimson
	if p.State == component.PlayerDeath {
		fill = colornames.Darkred
	}
	v.rect(screen, t.Vec(), cp.Vector{X: pb.Width, Y: pb.Height}, fill)
	eye := t.Vec().Add(cp.Vector{X: p.FaceDir(pb.Width / 4), Y: pb.Height / 4})
	v.rect(screen, eye, cp.Vector{X: 0.08, Y: 0.08}, colornames.White)

	if p.Rope != nil {
		x0, y0 := v.point(t.Vec())
		x1, y1 := v.point(p.Rope.Anchor())
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, colornames.Lightgrey, true)
	}
}

func drawSigns(screen *ebiten.Image, v view, w *ecs.World) {
	ecs.ForEach2(w, component.SignComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, sg *component.Sign, t *component.Transform) {
		v.rect(screen, t.Vec(), cp.Vector{X: 0.6, Y: 0.5}, colornames.Burlywood)
		if text := sg.Visible(); text != "" {
			x, y := v.point(t.Vec().Add(cp.Vector{Y: 1.5}))
			ebitenutil.DebugPrintAt(screen, text, int(x)-60, int(y))
		}
	})
}
