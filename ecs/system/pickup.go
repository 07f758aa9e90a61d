package system

import (
	"strconv"

	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/milk9111/cliffhanger/prefabs"
	"go.uber.org/zap"
)

// Ability names used by pickups and saves.
const (
	AbilityDeathLine   = "death_line"
	AbilityCanHang     = "can_hang"
	AbilityCanTeleport = "can_teleport"
	AbilityCanDive     = "can_dive"
	AbilityCanRope     = "can_rope"
)

// PickupAbilities maps pickup kinds to the ability each unlocks.
var PickupAbilities = map[string]string{
	"tapemeasure":   AbilityDeathLine,
	"climbingglove": AbilityCanHang,
	"teleport":      AbilityCanTeleport,
	"diving":        AbilityCanDive,
	"spider":        AbilityCanRope,
}

// GrantAbility switches on the named ability of the player. It reports
// whether name is known and a player exists.
func GrantAbility(w *ecs.World, name string) bool {
	e, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return false
	}
	p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
	switch name {
	case AbilityDeathLine:
		p.DeathLineUnlocked = true
	case AbilityCanHang:
		p.CanHang = true
	case AbilityCanTeleport:
		p.CanTeleport = true
	case AbilityCanDive:
		p.CanDive = true
	case AbilityCanRope:
		p.CanRope = true
	default:
		return false
	}
	return true
}

// GrantAll unlocks every ability.
func GrantAll(w *ecs.World) {
	for _, name := range []string{AbilityDeathLine, AbilityCanHang, AbilityCanTeleport, AbilityCanDive, AbilityCanRope} {
		GrantAbility(w, name)
	}
}

// BodyDisabler stops a body from colliding.
type BodyDisabler interface {
	Disable(e ecs.Entity)
}

// PickupSystem collects pickups on contact and starts their dialogs.
type PickupSystem struct {
	dialogs map[string]prefabs.PickupSpec
	bodies  BodyDisabler
	logger  *zap.Logger
}

func NewPickupSystem(dialogs map[string]prefabs.PickupSpec, bodies BodyDisabler, logger *zap.Logger) *PickupSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PickupSystem{dialogs: dialogs, bodies: bodies, logger: logger}
}

func (s *PickupSystem) OnCollision(w *ecs.World, c Contact) {
	pk, ok := ecs.Get(w, c.Other, component.PickupComponent.Kind())
	if !ok || pk.Collected {
		return
	}
	pk.Collected = true
	if s.bodies != nil {
		s.bodies.Disable(c.Other)
	}
	pushCue(w, CuePickup)
	s.logger.Info("pickup collected", zap.Int("id", pk.ID), zap.String("kind", pk.Kind))

	spec, ok := s.dialogs[pk.Kind]
	grant := spec.Grant
	if grant == "" {
		grant = PickupAbilities[pk.Kind]
	}
	if !ok {
		s.logger.Warn("pickup has no dialog", zap.String("kind", pk.Kind))
		if GrantAbility(w, grant) {
			requestSave(w)
		} else {
			s.logger.Warn("pickup grants nothing", zap.String("kind", pk.Kind))
		}
		return
	}
	showDialog(w, Dialog{Steps: spec.Messages, Then: ThenGrant, Grant: grant})
}

func pickupKey(id int) string {
	return "pickup_" + strconv.Itoa(id)
}

func (s *PickupSystem) SaveProgress(w *ecs.World, rec Record) {
	ecs.ForEach(w, component.PickupComponent.Kind(), func(_ ecs.Entity, pk *component.Pickup) {
		if pk.Collected {
			rec.SetBool(pickupKey(pk.ID), true)
		}
	})
}

func (s *PickupSystem) LoadProgress(w *ecs.World, rec Record) {
	ecs.ForEach(w, component.PickupComponent.Kind(), func(e ecs.Entity, pk *component.Pickup) {
		if !rec.Bool(pickupKey(pk.ID)) {
			return
		}
		pk.Collected = true
		if s.bodies != nil {
			s.bodies.Disable(e)
		}
	})
}
