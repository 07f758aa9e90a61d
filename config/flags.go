package config

import "flag"

// Flags are command-line overrides. Zero values leave the config untouched.
type Flags struct {
	ConfigPath   string
	Level        string
	LogLevel     string
	LogFile      string
	Debug        bool
	AllAbilities bool
	BaseMonitor  bool
	Windowed     bool
}

// RegisterFlags binds the game's flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "path to config file")
	fs.StringVar(&f.Level, "level", "", "level file in levels/ (e.g. cliffs.tmx)")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.LogFile, "log-file", "", "also write logs to this file")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug drawing, debug logging and tuning hot reload")
	fs.BoolVar(&f.AllAbilities, "ab", false, "start with all abilities unlocked")
	fs.BoolVar(&f.BaseMonitor, "m", false, "use base monitor instead of primary (for multi-monitor setups)")
	fs.BoolVar(&f.Windowed, "windowed", false, "force windowed mode")
	return f
}

func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Level != "" {
		cfg.Game.Level = f.Level
	}
	if f.Debug {
		cfg.Game.Debug = true
		cfg.Game.HotReload = true
		cfg.Logging.Level = "debug"
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.AllAbilities {
		cfg.Game.AllAbilities = true
	}
	if f.BaseMonitor {
		cfg.Window.BaseMonitor = true
	}
	if f.Windowed {
		cfg.Window.Fullscreen = false
	}
}
