// Package effect names the world mutations that events, espionage outcomes,
// fatwas and missions can request. The turn pipeline owns the single
// dispatch table from ID to subsystem mutator.
package effect

import (
	"fmt"
	"sort"
	"strings"
)

// ID identifies one routable mutation.
type ID uint8

const (
	Unknown ID = iota
	Gold
	Food
	Wood
	Iron
	Stone
	Happiness
	Health
	Unrest
	Loyalty // sultan loyalty
	Favor   // sultan favor
	Morale
	PopulationLoss
	MilitaryLoss
	Soldiers
	TradeModifier
	TaxModifier
	NeighborRelation
	Legitimacy
	Piety
	Tolerance
	Education
	Prestige
	Intelligence
	Security
	EnemyProduction
	EnemyMorale
	EnemyStability
	EnemyLeadership
	KizilbasThreat
	WarWeariness
	Experience

	numIDs
)

var names = [numIDs]string{
	"unknown", "gold", "food", "wood", "iron", "stone", "happiness", "health", "unrest",
	"loyalty", "favor", "morale", "population_loss", "military_loss", "soldiers",
	"trade_modifier", "tax_modifier", "neighbor_relation", "legitimacy", "piety",
	"tolerance", "education", "prestige", "intelligence", "security",
	"enemy_production", "enemy_morale", "enemy_stability", "enemy_leadership",
	"kizilbas_threat", "war_weariness", "experience",
}

// Alternate spellings found in event and operation tables.
var aliases = map[string]ID{
	"sultan_loyalty":  Loyalty,
	"sultan_favor":    Favor,
	"military_morale": Morale,
	"threat":          KizilbasThreat,
	"trade_bonus":     TradeModifier,
	"tax_legitimacy":  Legitimacy,
	"military_power":  Soldiers,
}

func (id ID) String() string {
	if id >= numIDs {
		return fmt.Sprintf("effect(%d)", id)
	}
	return names[id]
}

// Parse resolves a table key to an ID.
func Parse(key string) (ID, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for i := Gold; i < numIDs; i++ {
		if names[i] == key {
			return i, true
		}
	}
	if id, ok := aliases[key]; ok {
		return id, true
	}
	return Unknown, false
}

// Delta is one requested mutation.
type Delta struct {
	ID    ID  `json:"id"`
	Value int `json:"value"`
}

// Bundle is an ordered list of deltas.
type Bundle []Delta

// FromMap converts a key/value table into a bundle in key order. Keys that
// do not name an effect are returned separately so callers can log them.
func FromMap(m map[string]int) (Bundle, []string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b Bundle
	var unknown []string
	for _, k := range keys {
		id, ok := Parse(k)
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		b = append(b, Delta{ID: id, Value: m[k]})
	}
	return b, unknown
}

// Sum returns the total value requested for id.
func (b Bundle) Sum(id ID) int {
	total := 0
	for _, d := range b {
		if d.ID == id {
			total += d.Value
		}
	}
	return total
}

// String renders the bundle as "gold:+100 happiness:-5".
func (b Bundle) String() string {
	parts := make([]string, 0, len(b))
	for _, d := range b {
		parts = append(parts, fmt.Sprintf("%s:%+d", d.ID, d.Value))
	}
	return strings.Join(parts, " ")
}
