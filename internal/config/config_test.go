package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	base := t.TempDir()
	t.Setenv("EYALET_HOME", base)

	cfg, err := Load(filepath.Join(base, "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Province != "Rum Eyaleti" || cfg.AutoSave.Interval != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Paths.Saves != filepath.Join(base, "saves") {
		t.Fatalf("saves path = %q", cfg.Paths.Saves)
	}
	if cfg.AchievementsFile() != filepath.Join(base, "save", "achievements.json") {
		t.Fatalf("achievements file = %q", cfg.AchievementsFile())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "eyalet.yaml")
	body := `
seed: 99
province: Trabzon Eyaleti
player:
  name: Hürrem
  gender: female
auto_save:
  enabled: false
  interval: 0
paths:
  base: ` + base + `
log_level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 99 || cfg.Province != "Trabzon Eyaleti" || cfg.Player.Gender != "female" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.AutoSave.Enabled || cfg.AutoSave.Interval != 5 {
		t.Fatalf("auto-save = %+v", cfg.AutoSave)
	}
	if cfg.Player.BirthYear != 1490 {
		t.Fatalf("unset nested field lost its default: %d", cfg.Player.BirthYear)
	}
	if cfg.SlogLevel().String() != "DEBUG" {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("seed: [unterminated"), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}
