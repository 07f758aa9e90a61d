package system

import (
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"go.uber.org/zap"
)

// ExitSystem starts the closing dialog when the player reaches an exit.
type ExitSystem struct {
	normal []string
	secret []string
	logger *zap.Logger
}

func NewExitSystem(normal, secret []string, logger *zap.Logger) *ExitSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExitSystem{normal: normal, secret: secret, logger: logger}
}

func (s *ExitSystem) OnCollision(w *ecs.World, c Contact) {
	ex, ok := ecs.Get(w, c.Other, component.ExitComponent.Kind())
	if !ok || ex.Triggered {
		return
	}
	if ex.Secret && !AllSecretsFound(w) {
		return
	}
	ex.Triggered = true
	s.logger.Info("exit reached", zap.Bool("secret", ex.Secret))
	if ex.Secret {
		showDialog(w, Dialog{Steps: s.secret, Then: ThenSecretEnd})
		return
	}
	showDialog(w, Dialog{Steps: s.normal, Then: ThenEnd})
}

// Finish ends the run: the player stops colliding and the controller
// stops ticking.
func Finish(w *ecs.World, bodies BodyDisabler) {
	e, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
	p.Finished = true
	if bodies != nil {
		bodies.Disable(e)
	}
}
