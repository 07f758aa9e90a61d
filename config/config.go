// Package config holds runtime settings: window, logging, save location,
// key bindings and debug switches.
package config

// Config holds all runtime settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Logging LoggingConfig `yaml:"logging"`
	Save    SaveConfig    `yaml:"save"`
	Input   InputConfig   `yaml:"input"`
	Game    GameConfig    `yaml:"game"`
}

type WindowConfig struct {
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Fullscreen  bool   `yaml:"fullscreen"`
	BaseMonitor bool   `yaml:"base_monitor"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// SaveConfig selects where progress is stored. AppName scopes the gdata
// directory; an empty AppName disables persistence.
type SaveConfig struct {
	AppName string `yaml:"app_name"`
}

// InputConfig maps logical action names to ebiten key names.
type InputConfig struct {
	Bindings map[string][]string `yaml:"bindings"`
	// Deadzone applies to analog sticks.
	Deadzone float64 `yaml:"deadzone"`
}

type GameConfig struct {
	Level        string `yaml:"level"`
	Debug        bool   `yaml:"debug"`
	AllAbilities bool   `yaml:"all_abilities"`
	HotReload    bool   `yaml:"hot_reload"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "cliffhanger",
			Width:  1280,
			Height: 720,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Save: SaveConfig{
			AppName: "cliffhanger",
		},
		Input: InputConfig{
			Bindings: DefaultBindings(),
			Deadzone: 0.3,
		},
		Game: GameConfig{
			Level: "cliffs.tmx",
		},
	}
}

// DefaultBindings mirrors the classic layout: arrows, WASD, keypad, space/Z.
func DefaultBindings() map[string][]string {
	return map[string][]string{
		"up":    {"ArrowUp", "W", "Numpad8"},
		"down":  {"ArrowDown", "S", "Numpad2"},
		"left":  {"ArrowLeft", "A", "Numpad4"},
		"right": {"ArrowRight", "D", "Numpad6"},
		"jump":  {"Space", "Z"},
		"menu":  {"Escape"},
	}
}
