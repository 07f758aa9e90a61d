package system

import (
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"go.uber.org/zap"
)

const (
	keyCurrentCheckpoint = "current_checkpoint"
	keyDeathCount        = "death_count"
	keyTeleportCount     = "tele_count"
	keyJumpCount         = "jump_count"
	keyDeathLine         = "death_line"
	keyCanHang           = "can_hang"
	keyCanTeleport       = "can_teleport"
	keyCanDive           = "can_dive"
	keyCanRope           = "can_rope"
)

func (s *PlayerControllerSystem) SaveProgress(w *ecs.World, rec Record) {
	e, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())

	if c, ok := ecs.Get(w, ecs.Entity(p.Checkpoint), component.CheckpointComponent.Kind()); ok {
		rec.SetInt(keyCurrentCheckpoint, c.ID)
	}
	rec.SetInt(keyDeathCount, p.DeathCount)
	rec.SetInt(keyTeleportCount, p.TeleportCount)
	rec.SetInt(keyJumpCount, p.JumpCount)
	flags := []struct {
		key string
		on  bool
	}{
		{keyDeathLine, p.DeathLineUnlocked},
		{keyCanHang, p.CanHang},
		{keyCanTeleport, p.CanTeleport},
		{keyCanDive, p.CanDive},
		{keyCanRope, p.CanRope},
	}
	for _, f := range flags {
		if f.on {
			rec.SetBool(f.key, true)
		}
	}
}

// LoadProgress restores counters and abilities and puts the player on the
// saved checkpoint. Abilities only ever turn on.
func (s *PlayerControllerSystem) LoadProgress(w *ecs.World, rec Record) {
	t, ok := s.tick(w)
	if !ok {
		return
	}
	p := t.p
	counters := []struct {
		key string
		dst *int
	}{
		{keyDeathCount, &p.DeathCount},
		{keyTeleportCount, &p.TeleportCount},
		{keyJumpCount, &p.JumpCount},
	}
	for _, c := range counters {
		if n, ok := rec.IntOK(c.key); ok {
			*c.dst = max(n, 0)
		} else if rec.Has(c.key) {
			s.logger.Warn("malformed counter in save", zap.String("key", c.key))
		}
	}
	p.DeathLineUnlocked = p.DeathLineUnlocked || rec.Bool(keyDeathLine)
	p.CanHang = p.CanHang || rec.Bool(keyCanHang)
	p.CanTeleport = p.CanTeleport || rec.Bool(keyCanTeleport)
	p.CanDive = p.CanDive || rec.Bool(keyCanDive)
	p.CanRope = p.CanRope || rec.Bool(keyCanRope)

	if !rec.Has(keyCurrentCheckpoint) {
		return
	}
	id, ok := rec.IntOK(keyCurrentCheckpoint)
	if !ok || id <= 0 {
		s.logger.Warn("malformed checkpoint in save", zap.Any("value", rec[keyCurrentCheckpoint]))
		return
	}
	e, ok := s.network.Lookup(w, id)
	if !ok {
		s.logger.Warn("saved checkpoint missing", zap.Int("id", id))
		return
	}
	c, _ := ecs.Get(w, e, component.CheckpointComponent.Kind())
	c.Checked = true
	c.Pose = component.CheckpointActive
	p.Checkpoint = uint64(e)
	at, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	t.setPos(at.Vec())
	t.setState(component.PlayerFalling)
	t.ground()
}
