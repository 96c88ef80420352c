// Package player models the governor: gender-dependent bonuses and the
// early mali of a female governor, prestige, rank and forms of address.
package player

import (
	"strings"
)

// Gender of the governor.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Bonus tags looked up by the turn pipeline.
const (
	RaidPower        = "raid_power"
	JanissaryLoyalty = "janissary_loyalty"
	SiegeAttack      = "siege_attack"
	MilitaryPrestige = "military_prestige"

	Diplomacy        = "diplomacy"
	MarriageAlliance = "marriage_alliance"
	Espionage        = "espionage"
	VakifEffect      = "vakif_effect"
	TextileTrade     = "textile_trade"
	PopulationGrowth = "population_growth"

	BeyLoyalty   = "bey_loyalty"
	UlemaSupport = "ulema_support"
)

var bonuses = map[Gender]map[string]float64{
	Male: {
		RaidPower:        0.20,
		JanissaryLoyalty: 0.15,
		SiegeAttack:      0.10,
		MilitaryPrestige: 0.10,
	},
	Female: {
		Diplomacy:        0.20,
		MarriageAlliance: 0.25,
		Espionage:        0.15,
		VakifEffect:      0.30,
		TextileTrade:     0.15,
		PopulationGrowth: 0.10,
	},
}

var femaleMali = map[string]float64{
	BeyLoyalty:   -0.20,
	UlemaSupport: -0.15,
}

const (
	// MalusFadeTurns is how long a female governor's initial mali last.
	MalusFadeTurns = 40
	// PrestigeInterval is the number of turns between seniority rewards.
	PrestigeInterval = 20
)

// Player is the governor's character record.
type Player struct {
	Name            string `json:"name"`
	Gender          Gender `json:"gender"`
	BirthYear       int    `json:"birth_year"`
	Prestige        int    `json:"prestige"`
	Experience      int    `json:"experience"`
	Background      string `json:"background"`
	TurnsAsGovernor int    `json:"turns_as_governor"`
}

// New creates a governor. An unknown gender falls back to male.
func New(name string, g Gender, birthYear int) *Player {
	p := &Player{
		Name:       name,
		Gender:     g,
		BirthYear:  birthYear,
		Prestige:   50,
		Background: "default",
	}
	p.Sanitize()
	return p
}

// Default is the character synthesized for saves without one.
func Default() *Player {
	return New("Kasım", Male, 1490)
}

// ParseGender accepts the English ids and the Turkish words.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "erkek", "e":
		return Male, true
	case "female", "kadın", "kadin", "k":
		return Female, true
	}
	return "", false
}

// Bonus returns the bonus of the governor's gender for tag, or 0.
func (p *Player) Bonus(tag string) float64 {
	return bonuses[p.Gender][tag]
}

// Malus returns the current strength of an initial malus. It fades
// linearly to zero after MalusFadeTurns.
func (p *Player) Malus(tag string) float64 {
	if p.Gender != Female {
		return 0
	}
	fade := min(1, float64(p.TurnsAsGovernor)/MalusFadeTurns)
	return femaleMali[tag] * (1 - fade)
}

// Age at the given year.
func (p *Player) Age(year int) int {
	return year - p.BirthYear
}

// Rank follows prestige: Sancakbeyi, then Beylerbeyi from 40, Vezir from 70.
func (p *Player) Rank() string {
	switch {
	case p.Prestige >= 70:
		return "Vezir"
	case p.Prestige >= 40:
		return "Beylerbeyi"
	default:
		return "Sancakbeyi"
	}
}

// AdjustPrestige shifts prestige within [0,100] and reports a rank change.
func (p *Player) AdjustPrestige(v int) (changed bool) {
	before := p.Rank()
	p.Prestige = max(0, min(100, p.Prestige+v))
	return p.Rank() != before
}

// ProcessTurn counts the turn; every PrestigeInterval turns the governor
// gains prestige and experience. It reports whether the rank changed.
func (p *Player) ProcessTurn() bool {
	p.TurnsAsGovernor++
	if p.TurnsAsGovernor%PrestigeInterval != 0 {
		return false
	}
	p.Experience += 10
	return p.AdjustPrestige(5)
}

// HasAbility reports gender-specific actions.
func (p *Player) HasAbility(a string) bool {
	switch p.Gender {
	case Female:
		return a == "harem_network" || a == "court_intrigue" || a == "charity_event"
	default:
		return a == "lead_raid" || a == "command_janissaries" || a == "duel"
	}
}

// Sanitize repairs a loaded record.
func (p *Player) Sanitize() {
	if p.Gender != Male && p.Gender != Female {
		p.Gender = Male
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = "Kasım"
	}
	if p.BirthYear == 0 {
		p.BirthYear = 1490
	}
	if p.Background == "" {
		p.Background = "default"
	}
	p.Prestige = max(0, min(100, p.Prestige))
	p.Experience = max(0, p.Experience)
	p.TurnsAsGovernor = max(0, p.TurnsAsGovernor)
}
