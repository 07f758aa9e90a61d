// Package sim owns one running level: the world, its systems and the order
// they run in each fixed tick.
package sim

import (
	"fmt"

	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"github.com/milk9111/cliffhanger/ecs/entity"
	"github.com/milk9111/cliffhanger/ecs/system"
	"github.com/milk9111/cliffhanger/levels"
	"github.com/milk9111/cliffhanger/prefabs"
	"go.uber.org/zap"
)

type Options struct {
	Level   *levels.Level
	Player  prefabs.PlayerSpec
	Dialogs prefabs.DialogsSpec
	// Store defaults to an in-memory store.
	Store system.SaveStore
	Input system.InputSource
	// Audio may be nil for a silent run.
	Audio        *system.AudioSystem
	AllAbilities bool
	Seed         uint64
	Logger       *zap.Logger
}

// Context is the simulation of one level.
type Context struct {
	opts   Options
	logger *zap.Logger

	World *ecs.World
	Built entity.Built

	Physics    *system.PhysicsSystem
	Input      *system.InputSystem
	Controller *system.PlayerControllerSystem
	Network    *system.CheckpointNetwork
	Pickups    *system.PickupSystem
	Hazards    *system.HazardSystem
	Blocks     *system.FallingBlockSystem
	Exits      *system.ExitSystem
	Secrets    *system.SecretSystem
	Cubes      *system.SecretCubeSystem
	Camera     *system.CameraSystem
	Dialogs    *system.DialogRunner
	Saves      *system.Coordinator

	before   *ecs.Scheduler
	after    *ecs.Scheduler
	contacts []contactHandler

	paused bool
	ending *system.Ending
	ticks  uint64
}

type contactHandler interface {
	OnCollision(w *ecs.World, c system.Contact)
}

// New builds the level, loads saved progress and returns a context ready
// to tick.
func New(opts Options) (*Context, error) {
	if opts.Level == nil {
		return nil, fmt.Errorf("sim: no level")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Store == nil {
		opts.Store = &system.MemoryStore{}
	}
	c := &Context{opts: opts, logger: opts.Logger}
	if err := c.build(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Context) build() error {
	opts := c.opts
	log := c.logger
	dt := opts.Player.DT()

	c.World = ecs.NewWorld()
	c.ending = nil
	c.paused = false

	c.Physics = system.NewPhysicsSystem(log.Named("physics"))
	c.Physics.BuildTiles(opts.Level.Solid)

	c.Input = system.NewInputSystem(opts.Input)
	c.Network = system.NewCheckpointNetwork(log.Named("checkpoint"))
	c.Controller = system.NewPlayerControllerSystem(opts.Player, system.PlayerControllerOptions{
		Query:       c.Physics,
		Ropes:       c.Physics,
		Tiles:       opts.Level,
		Checkpoints: c.Network,
		Start:       opts.Level.Start,
		Logger:      log.Named("player"),
	})
	c.Pickups = system.NewPickupSystem(opts.Dialogs.Pickups, c.Physics, log.Named("pickup"))
	c.Hazards = system.NewHazardSystem(c.Controller)
	c.Blocks = system.NewFallingBlockSystem(dt)
	c.Exits = system.NewExitSystem(opts.Dialogs.NormalExit, opts.Dialogs.SecretExit, log.Named("exit"))
	c.Secrets = system.NewSecretSystem(dt, opts.Level.SecretTargets, log.Named("secret"))
	c.Cubes = system.NewSecretCubeSystem()
	c.Camera = system.NewCameraSystem(opts.Seed)
	c.Dialogs = system.NewDialogRunner(log.Named("dialog"))
	c.Saves = system.NewCoordinator(opts.Store, log.Named("save"))

	c.before = ecs.NewScheduler(
		system.NewHintSystem(opts.Dialogs.FirstDeath),
		c.Secrets,
		system.NewSignSystem(dt),
	)
	c.after = ecs.NewScheduler(system.NewTTLSystem())
	c.contacts = []contactHandler{c.Controller, c.Pickups, c.Hazards, c.Blocks, c.Exits}

	built, err := entity.BuildLevel(c.World, opts.Level, opts.Player)
	if err != nil {
		return fmt.Errorf("sim: build %s: %w", opts.Level.Name, err)
	}
	c.Built = built
	c.Physics.Sync(c.World)

	c.Saves.Register(c.Network, c.Pickups, c.Secrets, c.Controller)
	found := c.Saves.Load(c.World)
	if opts.AllAbilities {
		system.GrantAll(c.World)
	}
	if !found && len(opts.Dialogs.Intro) > 0 {
		c.Dialogs.Start(c.World, system.Dialog{Steps: opts.Dialogs.Intro})
	}
	if cam, ok := ecs.Get(c.World, c.Built.Camera, component.CameraComponent.Kind()); ok {
		if t, ok := ecs.Get(c.World, c.Built.Player, component.TransformComponent.Kind()); ok {
			cam.Pos = t.Vec()
		}
	}
	c.logger.Info("level ready",
		zap.String("level", opts.Level.Name),
		zap.Bool("save_found", found),
		zap.Int("checkpoints", len(opts.Level.Checkpoints)),
	)
	return nil
}

// Tick runs one fixed step. The input sampler advances on every tick; the
// rest is suspended while a dialog or the menu is up or the run is over.
func (c *Context) Tick() {
	c.ticks++
	w := c.World
	c.Input.Update(w)

	if c.Dialogs.Active() {
		c.Dialogs.Update(w)
		c.dispatch()
		return
	}
	if c.paused || c.ending != nil {
		return
	}

	c.before.Update(w)
	c.Controller.FixedUpdate(w)

	c.Blocks.Update(w)
	c.Physics.Sync(w)
	c.Physics.Step(w, c.opts.Player.DT())
	for _, contact := range c.Physics.Contacts() {
		for _, h := range c.contacts {
			h.OnCollision(w, contact)
		}
	}
	c.Controller.PostStep(w)

	c.after.Update(w)
	ecs.Sweep(w)
	c.dispatch()
}

// dispatch handles the events queued during the tick. At most one save is
// written.
func (c *Context) dispatch() {
	save := false
	for evs := c.World.Events().Drain(); len(evs) > 0; evs = c.World.Events().Drain() {
		for _, ev := range evs {
			c.handle(ev, &save)
		}
	}
	if save {
		c.Saves.Save(c.World)
	}
}

func (c *Context) handle(ev ecs.Event, save *bool) {
	switch ev.Type {
	case system.EventCue:
		if cue, ok := ev.Data.(system.Cue); ok {
			c.opts.Audio.Play(cue)
		}
	case system.EventSave:
		*save = true
	case system.EventShake:
		if ticks, ok := ev.Data.(int); ok {
			c.Camera.Shake(c.World, ticks)
		}
	case system.EventDialog:
		if d, ok := ev.Data.(system.Dialog); ok {
			c.Dialogs.Start(c.World, d)
		}
	case system.EventEnding:
		if e, ok := ev.Data.(system.Ending); ok {
			c.ending = &e
			system.Finish(c.World, c.Physics)
			c.logger.Info("run finished", zap.Bool("secret", e.Secret), zap.Uint64("ticks", c.ticks))
		}
	}
}

// Frame advances presentation by dt seconds. It runs while paused.
func (c *Context) Frame(dt float64) {
	c.Camera.Update(c.World, dt)
	c.Cubes.Update(c.World, dt)
}

// MenuPressed reports a menu press on the latest tick.
func (c *Context) MenuPressed() bool {
	in, ok := ecs.Get(c.World, c.Built.Player, component.InputComponent.Kind())
	return ok && in.Pressed(component.ActionMenu)
}

func (c *Context) SetPaused(paused bool) {
	c.paused = paused
}

func (c *Context) Paused() bool {
	return c.paused
}

// Ending returns how the run ended, if it has.
func (c *Context) Ending() (system.Ending, bool) {
	if c.ending == nil {
		return system.Ending{}, false
	}
	return *c.ending, true
}

// Player returns the player component.
func (c *Context) Player() (*component.Player, bool) {
	return ecs.Get(c.World, c.Built.Player, component.PlayerComponent.Kind())
}

// Reset wipes saved progress and rebuilds the level from scratch.
func (c *Context) Reset() error {
	c.Saves.Reset()
	c.logger.Info("progress reset")
	return c.build()
}

// ApplySpec swaps the player tuning in place.
func (c *Context) ApplySpec(spec prefabs.PlayerSpec) {
	c.opts.Player = spec
	c.Controller.SetSpec(spec)
	c.logger.Info("player tuning reloaded")
}

func (c *Context) Level() *levels.Level {
	return c.opts.Level
}
