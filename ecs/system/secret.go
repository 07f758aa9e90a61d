package system

import (
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

const (
	secretRadius      = 2.0
	secretCubeRise    = 1.5
	secretCubeScale   = 0.5
	secretSpawnTime   = 3.0
	secretWaitTime    = 3.0
	secretMoveTime    = 10.0
	secretWaitPrefix  = 'W'
	secretDigitsChars = "0123456789."
)

// secretLetters pairs code letters with the action that enters them, in
// the order presses are checked within a tick.
var secretLetters = []struct {
	letter byte
	action component.Action
}{
	{'J', component.ActionJump},
	{'U', component.ActionUp},
	{'D', component.ActionDown},
	{'L', component.ActionLeft},
	{'R', component.ActionRight},
}

// SecretSystem matches button codes entered near secret triggers.
type SecretSystem struct {
	dt      float64
	targets map[string]cp.Vector
	logger  *zap.Logger
}

func NewSecretSystem(dt float64, targets map[string]cp.Vector, logger *zap.Logger) *SecretSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecretSystem{dt: dt, targets: targets, logger: logger}
}

func (s *SecretSystem) Update(w *ecs.World) {
	pe, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	pt, ok := ecs.Get(w, pe, component.TransformComponent.Kind())
	if !ok {
		return
	}
	in, ok := ecs.Get(w, pe, component.InputComponent.Kind())
	if !ok {
		in = &component.Input{}
	}

	ecs.ForEach2(w, component.SecretTriggerComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, st *component.SecretTrigger, t *component.Transform) {
		if st.Finished {
			return
		}
		if pt.Vec().Distance(t.Vec()) > secretRadius {
			resetSecret(st)
			return
		}
		for _, l := range secretLetters {
			if !in.Pressed(l.action) {
				continue
			}
			if st.Step < len(st.Code) && st.Code[st.Step] == l.letter {
				st.Step++
			} else {
				resetSecret(st)
			}
		}
		s.wait(st)
		if st.Step >= len(st.Code) {
			s.solve(w, st, pt.Vec().Add(vec(0, secretCubeRise)))
		}
	})
}

func (s *SecretSystem) wait(st *component.SecretTrigger) {
	if st.Step >= len(st.Code) || st.Code[st.Step] != secretWaitPrefix {
		return
	}
	if !st.Waiting {
		st.Waiting = true
		st.WaitTicks = secondsToTicks(waitSeconds(st.Code[st.Step+1:]), s.dt)
	}
	if st.WaitTicks > 0 {
		st.WaitTicks--
		return
	}
	st.Waiting = false
	st.Step++
	for st.Step < len(st.Code) && strings.IndexByte(secretDigitsChars, st.Code[st.Step]) >= 0 {
		st.Step++
	}
}

// waitSeconds parses the number that follows a W in a code.
func waitSeconds(rest string) float64 {
	end := 0
	for end < len(rest) && strings.IndexByte(secretDigitsChars, rest[end]) >= 0 {
		end++
	}
	v, err := strconv.ParseFloat(rest[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

func resetSecret(st *component.SecretTrigger) {
	st.Step = 0
	st.Waiting = false
	st.WaitTicks = 0
}

func (s *SecretSystem) solve(w *ecs.World, st *component.SecretTrigger, from cp.Vector) {
	st.Finished = true
	requestSave(w)
	pushCue(w, CueSecret)
	s.logger.Info("secret solved", zap.String("key", st.Key))
	s.spawnCube(w, from, s.targets[st.Key], false)
}

func (s *SecretSystem) spawnCube(w *ecs.World, from, to cp.Vector, done bool) {
	cube := &component.SecretCube{Start: from, Target: to}
	at := from
	if done {
		cube.State = component.SecretCubeDone
		cube.Scale = secretCubeScale
		at = to
	} else {
		cube.Tween = gween.New(0, secretCubeScale, secretSpawnTime, ease.OutCubic)
	}
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.SecretCubeComponent.Kind(), cube)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: at.X, Y: at.Y})
}

// AllSecretsFound reports whether every secret trigger is finished.
func AllSecretsFound(w *ecs.World) bool {
	all := true
	ecs.ForEach(w, component.SecretTriggerComponent.Kind(), func(_ ecs.Entity, st *component.SecretTrigger) {
		if !st.Finished {
			all = false
		}
	})
	return all
}

func secretKey(key string) string {
	return "secret_" + key
}

func (s *SecretSystem) SaveProgress(w *ecs.World, rec Record) {
	ecs.ForEach(w, component.SecretTriggerComponent.Kind(), func(_ ecs.Entity, st *component.SecretTrigger) {
		if st.Finished {
			rec.SetBool(secretKey(st.Key), true)
		}
	})
}

func (s *SecretSystem) LoadProgress(w *ecs.World, rec Record) {
	ecs.ForEach(w, component.SecretTriggerComponent.Kind(), func(_ ecs.Entity, st *component.SecretTrigger) {
		if st.Finished || !rec.Bool(secretKey(st.Key)) {
			return
		}
		st.Finished = true
		target := s.targets[st.Key]
		s.spawnCube(w, target, target, true)
	})
}

// SecretCubeSystem animates solved-secret cubes: grow, hover, then fly to
// the target.
type SecretCubeSystem struct{}

func NewSecretCubeSystem() *SecretCubeSystem {
	return &SecretCubeSystem{}
}

func (s *SecretCubeSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach2(w, component.SecretCubeComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, c *component.SecretCube, t *component.Transform) {
		if c.State == component.SecretCubeDone || c.Tween == nil {
			return
		}
		v, finished := c.Tween.Update(float32(dt))
		switch c.State {
		case component.SecretCubeSpawn:
			c.Scale = float64(v)
			if finished {
				c.State = component.SecretCubeWait
				c.Tween = gween.New(0, 1, secretWaitTime, ease.Linear)
			}
		case component.SecretCubeWait:
			if finished {
				c.State = component.SecretCubeMove
				c.Tween = gween.New(0, 1, secretMoveTime, ease.InOutCubic)
			}
		case component.SecretCubeMove:
			t.SetVec(c.Start.Lerp(c.Target, float64(v)))
			if finished {
				c.State = component.SecretCubeDone
				c.Tween = nil
				t.SetVec(c.Target)
			}
		}
	})
}
