// Package config loads the optional eyalet.yaml file and resolves the base
// directory under which saves and the achievements file live.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full launcher configuration.
type Config struct {
	Seed          uint64   `yaml:"seed"`
	Province      string   `yaml:"province"`
	Player        Player   `yaml:"player"`
	AutoSave      AutoSave `yaml:"auto_save"`
	EventsEnabled bool     `yaml:"events_enabled"`
	Paths         Paths    `yaml:"paths"`
	API           API      `yaml:"api"`
	LogLevel      string   `yaml:"log_level"`
}

// Player describes the governor character synthesized for a new game.
type Player struct {
	Name      string `yaml:"name"`
	Gender    string `yaml:"gender"`
	BirthYear int    `yaml:"birth_year"`
}

// AutoSave controls pipeline step 21.
type AutoSave struct {
	Enabled  bool `yaml:"enabled"`
	Interval int  `yaml:"interval"`
}

// Paths are resolved relative to Base unless absolute.
type Paths struct {
	Base         string `yaml:"base"`
	Saves        string `yaml:"saves"`
	Achievements string `yaml:"achievements"`
	DB           string `yaml:"db"`
}

// API configures the HTTP adapter.
type API struct {
	Port        int    `yaml:"port"`
	AdminKeyEnv string `yaml:"admin_key_env"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Province: "Rum Eyaleti",
		Player: Player{
			Name:      "Kasım",
			Gender:    "male",
			BirthYear: 1490,
		},
		AutoSave:      AutoSave{Enabled: true, Interval: 5},
		EventsEnabled: true,
		Paths: Paths{
			Saves:        "saves",
			Achievements: "save",
			DB:           "data/eyalet.db",
		},
		API:      API{Port: 8080, AdminKeyEnv: "EYALET_ADMIN_KEY"},
		LogLevel: "info",
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no config file, using defaults", "path", path)
		return cfg.resolve(), nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("eyalet.yaml: %w", err)
	}
	if cfg.AutoSave.Interval <= 0 {
		cfg.AutoSave.Interval = 5
	}
	return cfg.resolve(), nil
}

func (c Config) resolve() Config {
	if c.Paths.Base == "" {
		c.Paths.Base = BaseDir()
	}
	c.Paths.Saves = under(c.Paths.Base, c.Paths.Saves)
	c.Paths.Achievements = under(c.Paths.Base, c.Paths.Achievements)
	c.Paths.DB = under(c.Paths.Base, c.Paths.DB)
	return c
}

func under(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// AchievementsFile is the path of the cumulative achievements file.
func (c Config) AchievementsFile() string {
	return filepath.Join(c.Paths.Achievements, "achievements.json")
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// BaseDir picks the directory that holds saves/ and save/. EYALET_HOME wins;
// a built binary uses its own directory; `go run` binaries (which live under
// the temp dir) fall back to the working directory.
func BaseDir() string {
	if home := os.Getenv("EYALET_HOME"); home != "" {
		return home
	}
	exe, err := os.Executable()
	if err == nil {
		dir := filepath.Dir(exe)
		if !strings.HasPrefix(dir, filepath.Clean(os.TempDir())) {
			return dir
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
