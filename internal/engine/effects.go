package engine

import (
	"log/slog"

	"github.com/talgya/eyalet/internal/effect"
	"github.com/talgya/eyalet/internal/ledger"
)

// mutator applies one routed effect value to the owning subsystem.
type mutator func(g *Game, v int)

func addResource(r ledger.Resource) mutator {
	return func(g *Game, v int) { g.Resources().AddOne(r, v) }
}

// router is the single table from effect id to subsystem mutation.
// Recipients clamp their own ranges.
var router = map[effect.ID]mutator{
	effect.Gold:  addResource(ledger.Gold),
	effect.Food:  addResource(ledger.Food),
	effect.Wood:  addResource(ledger.Wood),
	effect.Iron:  addResource(ledger.Iron),
	effect.Stone: addResource(ledger.Stone),

	effect.Happiness: func(g *Game, v int) { g.Population.AdjustHappiness(v) },
	effect.Health:    func(g *Game, v int) { g.Population.AdjustHealth(v) },
	effect.Unrest:    func(g *Game, v int) { g.Population.AdjustUnrest(v) },
	effect.PopulationLoss: func(g *Game, v int) {
		if v < 0 {
			v = -v
		}
		g.Population.Lose(v)
	},

	effect.Loyalty:          func(g *Game, v int) { g.Diplomacy.AdjustLoyalty(v) },
	effect.Favor:            func(g *Game, v int) { g.Diplomacy.AdjustFavor(v) },
	effect.NeighborRelation: func(g *Game, v int) { g.Diplomacy.AdjustAll(v) },

	effect.Morale:     func(g *Game, v int) { g.Military.AdjustMorale(v) },
	effect.Experience: func(g *Game, v int) { g.Military.AddExperience(v) },
	effect.Soldiers:   func(g *Game, v int) { g.Military.Levy(v) },
	effect.MilitaryLoss: func(g *Game, v int) {
		if v < 0 {
			v = -v
		}
		g.Military.ApplyCasualties(v)
	},

	effect.TradeModifier: func(g *Game, v int) { g.Economy.AdjustTradeBoost(v) },
	effect.TaxModifier:   func(g *Game, v int) { g.Economy.AdjustTaxModifier(v) },

	effect.Legitimacy:     func(g *Game, v int) { g.Religion.AdjustLegitimacy(v) },
	effect.Piety:          func(g *Game, v int) { g.Religion.AdjustPiety(v) },
	effect.Tolerance:      func(g *Game, v int) { g.Religion.AdjustTolerance(v) },
	effect.Education:      func(g *Game, v int) { g.Religion.AdjustEducation(v) },
	effect.KizilbasThreat: func(g *Game, v int) { g.Religion.AdjustKizilbas(v) },

	effect.Prestige: func(g *Game, v int) { g.Player.AdjustPrestige(v) },

	effect.Intelligence: func(g *Game, v int) { g.Espionage.AdjustIntelligence(v) },
	effect.Security:     func(g *Game, v int) { g.Espionage.AdjustSecurity(v) },

	effect.EnemyProduction: func(g *Game, v int) { g.Warfare.Debilitate(v) },
	effect.EnemyMorale:     func(g *Game, v int) { g.Warfare.Debilitate(v) },
	effect.EnemyStability:  func(g *Game, v int) { g.Warfare.Debilitate(v) },
	effect.EnemyLeadership: func(g *Game, v int) { g.Warfare.Debilitate(v) },
	effect.WarWeariness:    func(g *Game, v int) { g.Warfare.AdjustWeariness(v) },
}

// apply routes every delta of b. Ids without a mutator are logged and dropped.
func (g *Game) apply(b effect.Bundle, source string) {
	for _, d := range b {
		m, ok := router[d.ID]
		if !ok {
			slog.Warn("unknown effect dropped", "effect", d.ID.String(), "value", d.Value, "source", source)
			continue
		}
		m(g, d.Value)
	}
}

// Deferred is an effect bundle held back until the next turn starts.
type Deferred struct {
	Source  string        `json:"source"`
	Effects effect.Bundle `json:"effects"`
}

// applyDeferred routes the bundles queued by the previous turn, in order.
func (g *Game) applyDeferred() {
	queued := g.deferred
	g.deferred = nil
	for _, d := range queued {
		g.apply(d.Effects, d.Source)
	}
}

// dropUnknown logs effect keys that never parsed.
func dropUnknown(keys []string, source string) {
	for _, k := range keys {
		slog.Warn("unknown effect dropped", "effect", k, "source", source)
	}
}
