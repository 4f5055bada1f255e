// Package config loads simulator settings from a JSON file on disk,
// writing out a default file the first time one isn't found.
package config

import (
	"encoding/json"
	"os"
)

// SpawnRate is the mean/stddev pair for a Gaussian-distributed spawn
// count of one celestial class.
type SpawnRate struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Config is the full set of tunable simulator settings.
type Config struct {
	FPS             int     `json:"FPS"`
	DefaultSimrate  float64 `json:"DEFAULT_SIMRATE"`
	AspectRatioX    float64 `json:"ASPECT_RATIO_X"`
	AspectRatioY    float64 `json:"ASPECT_RATIO_Y"`
	CrosshairColor  string  `json:"CROSSHAIR_COLOR"`
	ShowLabels      int     `json:"SHOW_LABELS"`
	SpawnOffsetStar float64 `json:"SPAWN_OFFSET_STAR"`
	SpawnOffsetRock float64 `json:"SPAWN_OFFSET_ROCK"`

	SpawnRateStar SpawnRate `json:"SPAWN_RATE_STAR"`
	SpawnRateRock SpawnRate `json:"SPAWN_RATE_ROCK"`

	ComputerPlayers int `json:"COMPUTER_PLAYERS"`

	CustomCommands map[string]string `json:"CUSTOM_COMMANDS"`
	HotkeyCommands map[string]string `json:"HOTKEY_COMMANDS"`
}

// AspectRatio is AspectRatioX / AspectRatioY, matching the original's
// derived config field.
func (c Config) AspectRatio() float64 {
	if c.AspectRatioY == 0 {
		return 0
	}
	return c.AspectRatioX / c.AspectRatioY
}

// Default returns the built-in settings, written to disk the first
// time Load doesn't find a settings file.
func Default() Config {
	return Config{
		FPS:             20,
		DefaultSimrate:  -100,
		AspectRatioX:    29,
		AspectRatioY:    64,
		CrosshairColor:  "pink",
		ShowLabels:      0,
		SpawnOffsetStar: 1e6,
		SpawnOffsetRock: 1e4,
		SpawnRateStar:   SpawnRate{Mean: 10, StdDev: 1},
		SpawnRateRock:   SpawnRate{Mean: 30, StdDev: 10},
		ComputerPlayers: 50,
		CustomCommands: map[string]string{
			"debug":    "debug && uni.debug",
			"obs":      "cockpit.follow && cockpit.move -10_000_000",
			"init":     "&recursion && recenter && ship.break 1",
			"recenter": "cockpit.follow && inspect 0 && cockpit.reset_zoom",
		},
		HotkeyCommands: map[string]string{
			"enter":   "prompt.focus",
			"^ c":     "prompt.clear",
			"space":   "sim.toggle",
			"^ t":     "sim.tick 1",
			"^ l":     "cockpit.labels",
			"up":      "cockpit.move +100",
			"down":    "cockpit.move -100",
			"left":    "cockpit.strafe +100",
			"right":   "cockpit.strafe -100",
			"home":    "cockpit.zoom 2",
			"end":     "cockpit.zoom 0.5",
			"x":       "cockpit.flip",
		},
	}
}

// Load reads settings from path, writing the built-in defaults to
// path first if no file exists there yet. Any other read or parse
// error is returned to the caller.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		def := Default()
		if writeErr := writeJSON(path, def); writeErr != nil {
			return Config{}, writeErr
		}
		return def, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func writeJSON(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
