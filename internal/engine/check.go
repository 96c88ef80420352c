package engine

import (
	"fmt"
	"sort"

	"github.com/talgya/eyalet/internal/construction"
	"github.com/talgya/eyalet/internal/espionage"
	"github.com/talgya/eyalet/internal/ledger"
	"github.com/talgya/eyalet/internal/population"
)

// Violations lists every state invariant that does not hold. A healthy game
// returns nil. Gold is allowed below zero until the bankruptcy check.
func (g *Game) Violations() []string {
	var out []string
	bad := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	for r := ledger.Gold + 1; r < ledger.NumResources; r++ {
		if v := g.Resources().Get(r); v < 0 {
			bad("%s negative: %d", r.DisplayName(), v)
		}
	}

	p := g.Population.Groups
	if p.Farmers < population.MinFarmers || p.Merchants < population.MinMerchants ||
		p.Artisans < population.MinArtisans || p.Soldiers < population.MinSoldiers {
		bad("population group below minimum: %+v", p)
	}

	bounded := []struct {
		name string
		v    int
	}{
		{"sultan_loyalty", g.Diplomacy.SultanLoyalty},
		{"sultan_favor", g.Diplomacy.SultanFavor},
		{"happiness", g.Population.Happiness},
		{"health", g.Population.Health},
		{"unrest", g.Population.Unrest},
		{"morale", g.Military.Morale},
		{"piety", g.Religion.Piety},
		{"legitimacy", g.Religion.Legitimacy},
		{"tolerance", g.Religion.Tolerance},
		{"education", g.Religion.Education},
	}
	for _, b := range bounded {
		if b.v < 0 || b.v > 100 {
			bad("%s out of range: %d", b.name, b.v)
		}
	}

	types := make([]construction.Type, 0, len(g.Construction.Buildings))
	for t := range g.Construction.Buildings {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		d, ok := construction.Lookup(t)
		if !ok || d.Prerequisite == "" {
			continue
		}
		if g.Construction.Level(d.Prerequisite) < 1 {
			bad("%s stands without %s", t, d.Prerequisite)
		}
	}

	if g.Military.TimarsInUse() > g.Military.TimarCapacity {
		bad("timar overdrawn: %d/%d", g.Military.TimarsInUse(), g.Military.TimarCapacity)
	}

	for _, c := range g.Artillery.Cannons {
		if c.Condition < 0 || c.Condition > 100 || c.ShotsFired < 0 || c.Experience < 0 || c.Experience > 100 {
			bad("cannon %s out of range: condition %d, shots %d, experience %d", c.ID, c.Condition, c.ShotsFired, c.Experience)
		}
	}

	missions := make(map[string]string, len(g.Espionage.Missions))
	for _, m := range g.Espionage.Missions {
		missions[m.SpyID] = m.ID
	}
	for _, s := range g.Espionage.Spies {
		if s.Status != espionage.OnMission {
			continue
		}
		if id, ok := missions[s.ID]; !ok || id != s.CurrentMission {
			bad("spy %s on mission %q without a matching mission", s.ID, s.CurrentMission)
		}
	}
	return out
}
