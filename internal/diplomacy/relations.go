package diplomacy

import (
	"sort"

	"github.com/talgya/eyalet/internal/world"
)

// Category is the band a relation value falls into.
type Category string

const (
	Hostile  Category = "hostile"
	Cold     Category = "cold"
	Neutral  Category = "neutral"
	Friendly Category = "friendly"
	Allied   Category = "allied"
)

var categoryNames = map[Category]string{
	Hostile: "Düşman", Cold: "Soğuk", Neutral: "Nötr", Friendly: "Dostane", Allied: "Müttefik",
}

// Name returns the Turkish name of c.
func (c Category) Name() string { return categoryNames[c] }

// CategoryOf bands a relation value.
func CategoryOf(v int) Category {
	switch {
	case v < -60:
		return Hostile
	case v < -20:
		return Cold
	case v < 20:
		return Neutral
	case v < 60:
		return Friendly
	default:
		return Allied
	}
}

// Personality is how a foreign court behaves.
type Personality string

const (
	Aggressive Personality = "aggressive"
	Mercantile Personality = "mercantile"
	Honorable  Personality = "honorable"
	Fearful    Personality = "fearful"
	Pious      Personality = "pious"
)

// Modifiers bias the diplomatic rolls made with a court.
type Modifiers struct {
	Tribute  float64
	Vassal   float64
	Marriage float64
	Trade    float64
	War      float64
}

var personalities = map[Personality]Modifiers{
	Aggressive: {Tribute: 0.3, Vassal: -0.3, Marriage: -0.1, Trade: -0.1, War: 0.3},
	Mercantile: {Tribute: 0, Vassal: 0, Marriage: 0, Trade: 0.3, War: -0.1},
	Honorable:  {Tribute: -0.1, Vassal: -0.2, Marriage: 0.2, Trade: 0.1, War: 0},
	Fearful:    {Tribute: -0.2, Vassal: 0.3, Marriage: 0, Trade: 0, War: -0.3},
	Pious:      {Tribute: 0, Vassal: -0.1, Marriage: -0.2, Trade: -0.1, War: 0.1},
}

// ModifiersOf returns the table row for p; unknown personalities are neutral.
func ModifiersOf(p Personality) Modifiers { return personalities[p] }

// Relation is the standing with one neighbor.
type Relation struct {
	Target      string      `json:"target"`
	Value       int         `json:"value"`
	Category    Category    `json:"type"`
	Personality Personality `json:"personality,omitempty"`
	Foreign     bool        `json:"foreign"`
}

func (r *Relation) adjust(delta int) {
	r.Value = max(-100, min(100, r.Value+delta))
	r.Category = CategoryOf(r.Value)
}

// Modifiers returns the personality row of the neighbor.
func (r *Relation) Modifiers() Modifiers { return personalities[r.Personality] }

func isOttoman(t world.TerritoryType) bool {
	return t == world.TypeEyalet || t == world.TypeSancak
}

// InitialRelation is the starting standing between a province and a
// neighboring territory.
func InitialRelation(self, other world.Territory) int {
	switch {
	case isOttoman(self.Type):
		switch {
		case isOttoman(other.Type):
			return 70
		case other.Type == world.TypeVassal:
			return 40
		case other.Name == "Safevi Devleti":
			return -50
		case other.Name == "Venedik Cumhuriyeti":
			return -30
		case other.Name == "Macaristan Krallığı", other.Name == "Avusturya Arşidüklüğü":
			return -20
		}
	case self.Type == world.TypeVassal:
		switch {
		case isOttoman(other.Type):
			return 50
		case other.Type == world.TypeVassal:
			return 30
		default:
			return -10
		}
	}
	return 0
}

// SeedNeighbors fills the relation table for a province from its borders
// and its region's frontier powers.
func (d *Diplomacy) SeedNeighbors(province world.Territory) {
	d.Neighbors = make(map[string]*Relation)
	names := append([]string{}, province.Neighbors...)
	names = append(names, world.Frontier(province.Region)...)
	for _, n := range names {
		if _, seen := d.Neighbors[n]; seen {
			continue
		}
		other, ok := world.Lookup(n)
		if !ok || other.Name == province.Name {
			continue
		}
		v := InitialRelation(province, other)
		d.Neighbors[other.Name] = &Relation{
			Target:      other.Name,
			Value:       v,
			Category:    CategoryOf(v),
			Personality: Personality(other.Personality),
			Foreign:     other.Type == world.TypeForeign,
		}
	}
}

// NeighborNames returns the neighbors in name order.
func (d *Diplomacy) NeighborNames() []string {
	out := make([]string, 0, len(d.Neighbors))
	for n := range d.Neighbors {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Relation returns the standing with target.
func (d *Diplomacy) Relation(target string) (*Relation, bool) {
	r, ok := d.Neighbors[target]
	return r, ok
}

// AdjustRelation shifts the standing with target; unknown targets are ignored.
func (d *Diplomacy) AdjustRelation(target string, delta int) {
	if r, ok := d.Neighbors[target]; ok {
		r.adjust(delta)
	}
}

// AdjustAll shifts every foreign standing, as a general event effect does.
func (d *Diplomacy) AdjustAll(delta int) {
	for _, r := range d.Neighbors {
		if r.Foreign {
			r.adjust(delta)
		}
	}
}

// Hostile lists foreign neighbors at cold or worse, in name order.
func (d *Diplomacy) Hostile() []*Relation {
	var out []*Relation
	for _, n := range d.NeighborNames() {
		r := d.Neighbors[n]
		if r.Foreign && r.Value < -20 {
			out = append(out, r)
		}
	}
	return out
}

// Momentum is a relation change spread over several turns.
type Momentum struct {
	Target    string `json:"target"`
	Delta     int    `json:"delta"`
	TurnsLeft int    `json:"turns_left"`
	Reason    string `json:"reason"`
}

// AddMomentum schedules delta per turn for turns turns.
func (d *Diplomacy) AddMomentum(target string, delta, turns int, reason string) {
	if turns <= 0 || delta == 0 {
		return
	}
	d.Momentum = append(d.Momentum, Momentum{Target: target, Delta: delta, TurnsLeft: turns, Reason: reason})
}

func (d *Diplomacy) applyMomentum() {
	kept := d.Momentum[:0]
	for _, m := range d.Momentum {
		d.AdjustRelation(m.Target, m.Delta)
		m.TurnsLeft--
		if m.TurnsLeft > 0 {
			kept = append(kept, m)
		}
	}
	d.Momentum = kept
}
