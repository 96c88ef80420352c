// Package population models the province's people: demographic groups,
// happiness, health, unrest, growth under carrying capacity, and revolt.
package population

import (
	"errors"
	"math"
)

// Group minimums.
const (
	MinFarmers   = 100
	MinMerchants = 50
	MinArtisans  = 50
	MinSoldiers  = 10
)

// RevoltThreshold starts a revolt; CalmThreshold ends one.
const (
	RevoltThreshold = 80
	CalmThreshold   = 50
)

var ErrUnknownPolicy = errors.New("bilinmeyen göç politikası")

// Groups are the demographic classes.
type Groups struct {
	Farmers   int `json:"farmers"`
	Merchants int `json:"merchants"`
	Artisans  int `json:"artisans"`
	Soldiers  int `json:"soldiers"`
}

// Total is the head count.
func (g Groups) Total() int { return g.Farmers + g.Merchants + g.Artisans + g.Soldiers }

func (g *Groups) enforceMinimums() {
	g.Farmers = max(g.Farmers, MinFarmers)
	g.Merchants = max(g.Merchants, MinMerchants)
	g.Artisans = max(g.Artisans, MinArtisans)
	g.Soldiers = max(g.Soldiers, MinSoldiers)
}

// distribute splits a change 60/20/15/5.
func (g *Groups) distribute(change int) {
	g.Farmers += int(float64(change) * 0.60)
	g.Merchants += int(float64(change) * 0.20)
	g.Artisans += int(float64(change) * 0.15)
	g.Soldiers += int(float64(change) * 0.05)
}

// MigrationPolicy steers how freely people settle in the province.
type MigrationPolicy string

const (
	PolicyOpen     MigrationPolicy = "open"
	PolicyBalanced MigrationPolicy = "balanced"
	PolicyClosed   MigrationPolicy = "closed"
)

func (p MigrationPolicy) growth() float64 {
	switch p {
	case PolicyOpen:
		return 0.005
	case PolicyClosed:
		return -0.005
	}
	return 0
}

func (p MigrationPolicy) happiness() int {
	switch p {
	case PolicyOpen:
		return -2
	case PolicyClosed:
		return 1
	}
	return 0
}

// Population is the people subsystem.
type Population struct {
	Groups          Groups          `json:"population"`
	Happiness       int             `json:"happiness"`
	Health          int             `json:"health"`
	Unrest          int             `json:"unrest"`
	ActiveRevolt    bool            `json:"active_revolt"`
	Modifiers       map[string]int  `json:"happiness_modifiers"`
	Mood            int             `json:"mood"`
	Agitation       int             `json:"agitation"`
	GrowthRate      float64         `json:"growth_rate"`
	Policy          MigrationPolicy `json:"migration_policy"`
	FoodConsumption int             `json:"food_consumption"`
	LastChange      int             `json:"last_change"`
}

// New returns the population of a fresh game.
func New() *Population {
	return &Population{
		Groups:     Groups{Farmers: 6200, Merchants: 2000, Artisans: 1500, Soldiers: 500},
		Happiness:  70,
		Health:     80,
		Modifiers:  make(map[string]int),
		GrowthRate: 0.02,
		Policy:     PolicyBalanced,
	}
}

// Total is the head count.
func (p *Population) Total() int { return p.Groups.Total() }

// TurnInput is what the pipeline hands the population step.
type TurnInput struct {
	Food             int
	TaxRate          float64
	HasMosque        bool
	HasHospital      bool
	MilitaryPower    int
	Capacity         int
	GrowthBonus      float64
	GrowthMultiplier float64
}

// Result summarizes one population turn.
type Result struct {
	Change      int
	Consumption int
	Shortage    bool
	RevoltBegan bool
	RevoltEnded bool
	CapacityHit bool
}

// foodConsumption is what the current head count eats per turn.
func (p *Population) foodConsumption() int {
	return int(math.Floor(float64(p.Total()) * 0.02))
}

func (p *Population) computeHappiness(in TurnInput) int {
	h := 60 + int(math.Floor((0.15-in.TaxRate)*100+1e-6))
	if in.HasMosque {
		h += 10
	}
	if in.HasHospital {
		h += 10
	}
	h += min(20, in.MilitaryPower/50)
	for _, v := range p.Modifiers {
		h += v
	}
	h += p.Mood + p.Policy.happiness()
	return clamp(h)
}

// ProcessTurn rebuilds happiness, applies shortage penalties, grows the
// population up to capacity and re-evaluates unrest and revolt.
func (p *Population) ProcessTurn(in TurnInput) Result {
	var r Result
	p.FoodConsumption = p.foodConsumption()
	r.Consumption = p.FoodConsumption
	r.Shortage = in.Food < p.FoodConsumption

	p.Happiness = p.computeHappiness(in)
	if r.Shortage {
		p.Happiness = clamp(p.Happiness - 30)
		p.Health = clamp(p.Health - 10)
	}
	if in.HasHospital {
		p.Health = clamp(p.Health + 5)
	}

	mult := in.GrowthMultiplier
	if mult <= 0 {
		mult = 1
	}
	p.GrowthRate = (0.02 + in.GrowthBonus + p.Policy.growth()) * mult

	total := p.Total()
	rate := float64(p.Happiness) / 100 * p.GrowthRate
	switch {
	case total > 100_000:
		rate *= 0.25
	case total > 50_000:
		rate *= 0.5
	}
	if r.Shortage {
		rate = -0.05
	}
	change := int(float64(total) * rate)
	if change > 0 && in.Capacity > 0 && total+change > in.Capacity {
		change = max(0, in.Capacity-total)
		r.CapacityHit = true
	}
	if change != 0 {
		p.Groups.distribute(change)
	}
	p.Groups.enforceMinimums()
	r.Change = p.Total() - total
	p.LastChange = r.Change

	p.Unrest = p.computeUnrest()
	switch {
	case p.Unrest >= RevoltThreshold && !p.ActiveRevolt:
		p.ActiveRevolt = true
		r.RevoltBegan = true
	case p.Unrest < CalmThreshold && p.ActiveRevolt:
		p.ActiveRevolt = false
		r.RevoltEnded = true
	}

	p.Mood = decay(p.Mood)
	p.Agitation = decay(p.Agitation)
	return r
}

func (p *Population) computeUnrest() int {
	u := float64(100-p.Happiness) * 0.8
	if p.Health < 50 {
		u += 20
	}
	return clamp(int(u) + p.Agitation)
}

// decay moves a transient modifier a fifth of the way back to zero,
// at least one point per turn.
func decay(v int) int {
	step := v / 5
	switch {
	case v > 0:
		return v - max(1, step)
	case v < 0:
		return v - min(-1, step)
	}
	return 0
}

// SetPolicy changes the migration policy.
func (p *Population) SetPolicy(policy MigrationPolicy) error {
	switch policy {
	case PolicyOpen, PolicyBalanced, PolicyClosed:
		p.Policy = policy
		return nil
	}
	return ErrUnknownPolicy
}

// AdjustHappiness applies a one-off change that fades over the next turns.
func (p *Population) AdjustHappiness(v int) {
	p.Mood = max(-100, min(100, p.Mood+v))
	p.Happiness = clamp(p.Happiness + v)
}

// AdjustUnrest applies a one-off change to unrest that fades over time.
func (p *Population) AdjustUnrest(v int) {
	p.Agitation = max(-100, min(100, p.Agitation+v))
	p.Unrest = clamp(p.Unrest + v)
}

// AdjustHealth changes health permanently.
func (p *Population) AdjustHealth(v int) {
	p.Health = clamp(p.Health + v)
}

// SetModifier installs a named persistent happiness modifier; zero removes it.
func (p *Population) SetModifier(source string, v int) {
	if v == 0 {
		delete(p.Modifiers, source)
		return
	}
	p.Modifiers[source] = v
}

// Lose removes n people using the growth split, respecting minimums.
func (p *Population) Lose(n int) int {
	if n <= 0 {
		return 0
	}
	before := p.Total()
	p.Groups.distribute(-n)
	p.Groups.enforceMinimums()
	return before - p.Total()
}

// Sanitize repairs state after a load.
func (p *Population) Sanitize() {
	if p.Modifiers == nil {
		p.Modifiers = make(map[string]int)
	}
	if p.Policy.growth() == 0 && p.Policy != PolicyBalanced {
		p.Policy = PolicyBalanced
	}
	p.Groups.enforceMinimums()
	p.Happiness = clamp(p.Happiness)
	p.Health = clamp(p.Health)
	p.Unrest = clamp(p.Unrest)
}

func clamp(v int) int {
	return max(0, min(100, v))
}
