package system

import (
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	signRadius     = 1.0
	signRevealRate = 30.0
	signHideRate   = 100.0
	signBase       = 15
)

var signPlaceholder = regexp.MustCompile(`\{([^{}]*)\}`)

// DecodeSign fills the placeholders of a secret sign: {D}, {T} and {J}
// become the death, teleport and jump counters and any other {n} the number
// n, all in base 15.
func DecodeSign(text string, p *component.Player) string {
	return signPlaceholder.ReplaceAllStringFunc(text, func(m string) string {
		key := m[1 : len(m)-1]
		n, _ := strconv.Atoi(key)
		if p != nil {
			switch key {
			case "D":
				n = p.DeathCount
			case "T":
				n = p.TeleportCount
			case "J":
				n = p.JumpCount
			}
		}
		return FormatBase15(n)
	})
}

// FormatBase15 writes n with digits 0-9a-e. Non-positive values read "0".
func FormatBase15(n int) string {
	if n <= 0 {
		return "0"
	}
	return strconv.FormatInt(int64(n), signBase)
}

// SignSystem reveals sign text while the player stands at a sign and hides
// it once they leave.
type SignSystem struct {
	dt float64
}

func NewSignSystem(dt float64) *SignSystem {
	return &SignSystem{dt: dt}
}

func (s *SignSystem) Update(w *ecs.World) {
	pe, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	p, _ := ecs.Get(w, pe, component.PlayerComponent.Kind())
	pt, ok := ecs.Get(w, pe, component.TransformComponent.Kind())
	if !ok {
		return
	}

	ecs.ForEach2(w, component.SignComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, sg *component.Sign, t *component.Transform) {
		near := p.State == component.PlayerWalking && pt.Vec().Distance(t.Vec()) < signRadius
		switch {
		case near:
			if !sg.Open {
				sg.Open = true
				sg.Decoded = sg.Text
				if sg.Secret {
					sg.Decoded = DecodeSign(sg.Text, p)
				}
			}
			s.animate(sg, float64(utf8.RuneCountInString(sg.Decoded)), signRevealRate)
		case sg.Open:
			s.animate(sg, 0, signHideRate)
			if sg.Shown < 1 {
				sg.Open = false
				sg.Shown = 0
				sg.Tween = nil
			}
		}
	})
}

// animate moves Shown toward target at rate characters per second.
func (s *SignSystem) animate(sg *component.Sign, target, rate float64) {
	if sg.Tween == nil || sg.Target != target {
		distance := target - sg.Shown
		if distance < 0 {
			distance = -distance
		}
		if distance == 0 {
			sg.Tween = nil
			sg.Target = target
			return
		}
		sg.Tween = gween.New(float32(sg.Shown), float32(target), float32(distance/rate), ease.Linear)
		sg.Target = target
	}
	v, finished := sg.Tween.Update(float32(s.dt))
	sg.Shown = float64(v)
	if finished {
		sg.Shown = target
		sg.Tween = nil
	}
}
