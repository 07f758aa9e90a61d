package main

import (
	"errors"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/cliffhanger/config"
	"github.com/milk9111/cliffhanger/ecs/system"
	"github.com/milk9111/cliffhanger/levels"
	"github.com/milk9111/cliffhanger/logger"
	"github.com/milk9111/cliffhanger/prefabs"
	"go.uber.org/zap"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		// The logger is not up yet.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Log

	if cfg.Window.BaseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)

	lvl, err := levels.Load(levels.FS(), cfg.Game.Level)
	if err != nil {
		log.Fatal("level load failed", zap.String("level", cfg.Game.Level), zap.Error(err))
	}
	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		log.Fatal("player tuning load failed", zap.Error(err))
	}
	dialogs, err := prefabs.LoadDialogsSpec()
	if err != nil {
		log.Fatal("dialogs load failed", zap.Error(err))
	}

	var store system.SaveStore = &system.MemoryStore{}
	if cfg.Save.AppName != "" {
		gd, err := system.NewGDataStore(cfg.Save.AppName)
		if err != nil {
			log.Warn("save storage unavailable, progress will not persist", zap.Error(err))
		} else {
			store = gd
		}
	}

	source, err := system.NewKeyboardGamepadSource(cfg.Input.Bindings, cfg.Input.Deadzone)
	if err != nil {
		log.Fatal("input bindings invalid", zap.Error(err))
	}

	game, err := NewGame(cfg, GameOptions{
		Level:   lvl,
		Player:  playerSpec,
		Dialogs: dialogs,
		Store:   store,
		Input:   source,
		Audio:   audio.NewContext(44100),
		Logger:  log,
	})
	if err != nil {
		log.Fatal("game init failed", zap.Error(err))
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, errQuit) {
		log.Fatal("game loop failed", zap.Error(err))
	}
}
