package save

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/talgya/eyalet/internal/artillery"
	"github.com/talgya/eyalet/internal/divan"
	"github.com/talgya/eyalet/internal/engine"
	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/espionage"
	"github.com/talgya/eyalet/internal/history"
	"github.com/talgya/eyalet/internal/naval"
	"github.com/talgya/eyalet/internal/religion"
	"github.com/talgya/eyalet/internal/trade"
	"github.com/talgya/eyalet/internal/warfare"
	"github.com/talgya/eyalet/internal/workers"
)

// Document is an undecoded save: the raw key/value tree of a slot file.
type Document map[string]any

// Migrator upgrades a document from one format version to the next.
type Migrator struct {
	From, To string
	Apply    func(Document) error
}

// Chain lists the upgrades in order. Each step only adds what its target
// version introduced; everything else passes through untouched.
var Chain = []Migrator{
	{From: "1.0", To: "1.1", Apply: inject(map[string]func(Document) any{
		"warfare": func(Document) any { return warfare.New() },
		"trade":   func(Document) any { return trade.New() },
		"workers": func(Document) any { return workers.New() },
		"history": func(Document) any { return history.New() },
	})},
	{From: "1.1", To: "1.1.1", Apply: inject(map[string]func(Document) any{
		"naval":     func(Document) any { return naval.New() },
		"artillery": func(Document) any { return artillery.New() },
	})},
	{From: "1.1.1", To: "1.2", Apply: inject(map[string]func(Document) any{
		"espionage": func(Document) any { return espionage.New() },
		"religion":  func(Document) any { return religion.New() },
		"divan": func(d Document) any {
			id, _ := d["game_id"].(string)
			return divan.New(entropy.New(entropy.SeedFromString(id)))
		},
	})},
}

// inject fills missing subsystem keys with the JSON shape of a fresh subsystem.
func inject(defaults map[string]func(Document) any) func(Document) error {
	return func(d Document) error {
		for key, fresh := range defaults {
			if v, ok := d[key]; ok && v != nil {
				continue
			}
			data, err := json.Marshal(fresh(d))
			if err != nil {
				return fmt.Errorf("default %s: %w", key, err)
			}
			var shape any
			if err := json.Unmarshal(data, &shape); err != nil {
				return fmt.Errorf("default %s: %w", key, err)
			}
			d[key] = shape
		}
		return nil
	}
}

// VersionOf reads the format version of d. Files written before the field
// existed are version 1.0.
func VersionOf(d Document) string {
	if v, ok := d["version"].(string); ok && v != "" {
		return v
	}
	return "1.0"
}

// Migrate walks the chain until d is at the current version. It returns the
// version d started at.
func Migrate(d Document) (string, error) {
	from := VersionOf(d)
	if CompareVersions(from, engine.Version) > 0 {
		return from, fmt.Errorf("%w: %s kaydı bu sürümden yeni", ErrMigration, from)
	}
	v := from
	for v != engine.Version {
		m, ok := step(v)
		if !ok {
			return from, fmt.Errorf("%w: %s sürümünden yükseltme yok", ErrMigration, v)
		}
		if err := m.Apply(d); err != nil {
			return from, fmt.Errorf("%w: %s -> %s: %v", ErrMigration, m.From, m.To, err)
		}
		v = m.To
		d["version"] = v
	}
	return from, nil
}

func step(from string) (Migrator, bool) {
	for _, m := range Chain {
		if m.From == from {
			return m, true
		}
	}
	return Migrator{}, false
}

// CompareVersions orders dotted version strings numerically.
// Missing components count as zero, so "1.1" equals "1.1.0".
func CompareVersions(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < max(len(pa), len(pb)); i++ {
		x, y := part(pa, i), part(pb, i)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

func part(p []string, i int) int {
	if i >= len(p) {
		return 0
	}
	n, err := strconv.Atoi(p[i])
	if err != nil {
		return -1
	}
	return n
}
