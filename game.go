package main

import (
	"errors"
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/cliffhanger/config"
	"github.com/milk9111/cliffhanger/ecs/system"
	"github.com/milk9111/cliffhanger/levels"
	"github.com/milk9111/cliffhanger/prefabs"
	"github.com/milk9111/cliffhanger/sim"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

var errQuit = errors.New("quit")

type GameOptions struct {
	Level   *levels.Level
	Player  prefabs.PlayerSpec
	Dialogs prefabs.DialogsSpec
	Store   system.SaveStore
	Input   system.InputSource
	Audio   *audio.Context
	Logger  *zap.Logger
}

type Game struct {
	cfg    *config.Config
	logger *zap.Logger
	sim    *sim.Context

	pauseUI   *ebitenui.UI
	messageUI *overlay
	endingUI  *overlay

	watcher *prefabs.Watcher
	quit    bool
	frames  int
}

func NewGame(cfg *config.Config, opts GameOptions) (*Game, error) {
	ctx, err := sim.New(sim.Options{
		Level:        opts.Level,
		Player:       opts.Player,
		Dialogs:      opts.Dialogs,
		Store:        opts.Store,
		Input:        opts.Input,
		Audio:        system.NewAudioSystem(opts.Audio, opts.Logger.Named("audio")),
		AllAbilities: cfg.Game.AllAbilities,
		Logger:       opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	g := &Game{cfg: cfg, logger: opts.Logger, sim: ctx}
	g.pauseUI = NewPauseUI(g)
	g.messageUI = newOverlay(false)
	g.endingUI = newOverlay(true)

	if cfg.Game.HotReload {
		w, err := prefabs.NewWatcher("prefabs")
		if err != nil {
			g.logger.Warn("tuning hot reload disabled", zap.Error(err))
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Update() error {
	if g.quit {
		return errQuit
	}
	g.frames++
	g.reloadTuning()

	g.sim.Tick()
	if _, ended := g.sim.Ending(); !ended && g.sim.MenuPressed() {
		g.sim.SetPaused(!g.sim.Paused())
	}
	g.sim.Frame(1 / float64(ebiten.TPS()))

	switch {
	case g.sim.Paused():
		g.pauseUI.Update()
	case g.sim.Dialogs.Active():
		g.messageUI.SetText(g.sim.Dialogs.Text())
		g.messageUI.ui.Update()
	}
	if ending, ok := g.sim.Ending(); ok {
		g.endingUI.SetText(endingText(ending))
		g.endingUI.ui.Update()
	}
	return nil
}

func (g *Game) reloadTuning() {
	if g.watcher == nil {
		return
	}
	for _, name := range g.watcher.Drain() {
		if name != prefabs.PlayerFile {
			continue
		}
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			g.logger.Warn("tuning reload failed", zap.Error(err))
			continue
		}
		g.sim.ApplySpec(spec)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawWorld(screen, g.sim)

	if g.cfg.Game.Debug {
		ebitenutil.DebugPrint(screen, debugLine(g))
	}
	if g.sim.Dialogs.Active() {
		g.messageUI.ui.Draw(screen)
	}
	if _, ok := g.sim.Ending(); ok {
		g.endingUI.ui.Draw(screen)
	}
	if g.sim.Paused() {
		g.pauseUI.Draw(screen)
	}
}

func debugLine(g *Game) string {
	p, ok := g.sim.Player()
	if !ok {
		return fmt.Sprintf("FPS: %.2f", ebiten.ActualFPS())
	}
	return fmt.Sprintf("FPS: %.2f  state: %s  deaths: %d  jumps: %d  teleports: %d",
		ebiten.ActualFPS(), p.State, p.DeathCount, p.JumpCount, p.TeleportCount)
}

func endingText(e system.Ending) string {
	if e.Secret {
		return "The end?\nYou found every secret."
	}
	return "The end.\nThanks for playing."
}

func (g *Game) Resume() {
	g.sim.SetPaused(false)
}

// ResetProgress wipes the save and restarts the level.
func (g *Game) ResetProgress() {
	if err := g.sim.Reset(); err != nil {
		g.logger.Error("reset failed", zap.Error(err))
		g.quit = true
	}
}

func (g *Game) Quit() {
	g.quit = true
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
