// Package artillery runs the Topçu Ocağı: cannon production at the foundry,
// per-shot wear and bursting, and crew effectiveness.
package artillery

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrUnknownType     = errors.New("bilinmeyen top türü")
	ErrUnknownMaterial = errors.New("bilinmeyen döküm malzemesi")
	ErrUnknownAmmo     = errors.New("bilinmeyen mühimmat")
	ErrNoFoundry       = errors.New("top dökümhanesi gerekli")
	ErrCapacity        = errors.New("dökümhane kapasitesi dolu")
	ErrNoCannon        = errors.New("böyle bir top yok")
	ErrDamaged         = errors.New("top hasarlı")
	ErrNotDamaged      = errors.New("top onarım gerektirmiyor")
)

// GunpowderPrice is the gold paid per unit of gunpowder.
const GunpowderPrice = 5

// Type is a cannon model.
type Type string

const (
	Darbzen    Type = "darbzen"
	Balyemez   Type = "balyemez"
	Kolunburna Type = "kolunburna"
	Sahi       Type = "sahi"
)

// Types lists the catalog in ascending size.
var Types = []Type{Darbzen, Balyemez, Kolunburna, Sahi}

// Definition is the static description of a cannon model.
type Definition struct {
	Name        string
	Gold        int
	Iron        int
	Stone       int
	BuildTime   int
	Crew        int
	FieldPower  int
	SiegePower  int
	MoralePower int
	Mobility    int
	Weight      int
	Range       int
	Maintenance int
	Gunpowder   float64
	BurstScale  float64
}

var definitions = map[Type]Definition{
	Darbzen: {Name: "Darbzen", Gold: 200, Iron: 20, Stone: 5, BuildTime: 2, Crew: 3,
		FieldPower: 10, SiegePower: 5, MoralePower: 2, Mobility: 8, Weight: 1, Range: 3, Maintenance: 2,
		Gunpowder: 1, BurstScale: 0.5},
	Balyemez: {Name: "Balyemez", Gold: 500, Iron: 50, Stone: 15, BuildTime: 4, Crew: 6,
		FieldPower: 25, SiegePower: 15, MoralePower: 5, Mobility: 5, Weight: 4, Range: 6, Maintenance: 5,
		Gunpowder: 2, BurstScale: 1.0},
	Kolunburna: {Name: "Kolunburna", Gold: 800, Iron: 80, Stone: 25, BuildTime: 6, Crew: 8,
		FieldPower: 40, SiegePower: 25, MoralePower: 8, Mobility: 4, Weight: 6, Range: 9, Maintenance: 8,
		Gunpowder: 3, BurstScale: 1.2},
	Sahi: {Name: "Şahi", Gold: 2000, Iron: 200, Stone: 100, BuildTime: 12, Crew: 20,
		FieldPower: 100, SiegePower: 80, MoralePower: 25, Mobility: 1, Weight: 17, Range: 5, Maintenance: 20,
		Gunpowder: 10, BurstScale: 2.0},
}

// Lookup returns the definition of t.
func Lookup(t Type) (Definition, bool) {
	d, ok := definitions[t]
	return d, ok
}

// ParseType accepts a type key or its Turkish name.
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if string(t) == s || definitions[t].Name == s {
			return t, true
		}
	}
	return "", false
}

// Material is the casting metal.
type Material string

const (
	Bronze Material = "bronze"
	Iron   Material = "iron"
)

var materials = map[Material]struct {
	name      string
	goldMult  float64
	burstBase float64
}{
	Bronze: {"Tunç", 1.5, 1.0},
	Iron:   {"Demir", 1.0, 3.0},
}

// Ammo is the shot loaded.
type Ammo string

const (
	Gulle   Ammo = "gulle"
	Sacma   Ammo = "sacma"
	Humbara Ammo = "humbara"
)

var ammos = map[Ammo]struct {
	field, siege float64
	powder       float64
	iron         int
}{
	Gulle:   {1.0, 1.0, 1.0, 0},
	Sacma:   {1.3, 0.5, 1.0, 0},
	Humbara: {1.5, 1.5, 1.5, 2},
}

// Cost is the price of casting t in m.
func Cost(t Type, m Material) ledger.Amounts {
	d := definitions[t]
	return ledger.Amounts{
		ledger.Gold:  int(float64(d.Gold) * materials[m].goldMult),
		ledger.Iron:  d.Iron,
		ledger.Stone: d.Stone,
	}
}

// Cannon is one gun in service.
type Cannon struct {
	ID         string   `json:"cannon_id"`
	Type       Type     `json:"cannon_type"`
	Material   Material `json:"material"`
	Name       string   `json:"name"`
	Condition  int      `json:"condition"`
	ShotsFired int      `json:"shots_fired"`
	Experience int      `json:"experience"`
	Damaged    bool     `json:"damaged"`
	Ammo       Ammo     `json:"ammo"`
}

// BurstRisk is the percent chance that the next shot bursts the barrel.
func (c *Cannon) BurstRisk() float64 {
	base := materials[c.Material].burstBase * definitions[c.Type].BurstScale
	risk := base * (1 + float64(100-c.Condition)/100) * (1 + float64(c.ShotsFired)/500)
	return math.Min(50, risk)
}

func (c *Cannon) ready() bool { return !c.Damaged && c.Condition > 0 }

func (c *Cannon) scaled(base int) int {
	if !c.ready() {
		return 0
	}
	return int(float64(base) * float64(c.Condition) / 100 * (1 + float64(c.Experience)/200))
}

// Production is a cannon being cast.
type Production struct {
	Type           Type     `json:"cannon_type"`
	Material       Material `json:"material"`
	TurnsRemaining int      `json:"turns_remaining"`
	CustomName     string   `json:"custom_name"`
}

// Artillery is the cannon subsystem.
type Artillery struct {
	Cannons       []*Cannon    `json:"cannons"`
	Queue         []Production `json:"production_queue"`
	TotalProduced int          `json:"total_cannons_produced"`
	Destroyed     int          `json:"cannons_destroyed"`
	FoundryLevel  int          `json:"foundry_level"`
}

// New returns an empty park of guns.
func New() *Artillery {
	return &Artillery{}
}

// UpdateFoundry records the artillery foundry level from construction.
func (a *Artillery) UpdateFoundry(level int) {
	a.FoundryLevel = max(0, level)
}

// Capacity is the number of guns the foundry can keep, built or queued.
func (a *Artillery) Capacity() int {
	if a.FoundryLevel <= 0 {
		return 0
	}
	return 5 + 2*a.FoundryLevel
}

// ProductionTime is the casting time of t at the current foundry level.
func (a *Artillery) ProductionTime(t Type) int {
	f := 1 - 0.10*float64(max(0, a.FoundryLevel-1))
	return max(1, int(math.Round(float64(definitions[t].BuildTime)*f)))
}

// CanProduce validates an order without mutating anything.
func (a *Artillery) CanProduce(t Type, m Material, l *ledger.Ledger) error {
	if _, ok := definitions[t]; !ok {
		return ErrUnknownType
	}
	if _, ok := materials[m]; !ok {
		return ErrUnknownMaterial
	}
	if a.FoundryLevel <= 0 {
		return ErrNoFoundry
	}
	if len(a.Cannons)+len(a.Queue) >= a.Capacity() {
		return fmt.Errorf("%w (%d)", ErrCapacity, a.Capacity())
	}
	if cost := Cost(t, m); !l.CanAfford(cost) {
		return fmt.Errorf("%w: %s", ledger.ErrInsufficient, cost)
	}
	return nil
}

// Produce charges for and queues a cannon, returning its casting time.
func (a *Artillery) Produce(t Type, m Material, name string, l *ledger.Ledger) (int, error) {
	if err := a.CanProduce(t, m, l); err != nil {
		return 0, err
	}
	if err := l.Spend(Cost(t, m)); err != nil {
		return 0, err
	}
	turns := a.ProductionTime(t)
	a.Queue = append(a.Queue, Production{Type: t, Material: m, TurnsRemaining: turns, CustomName: name})
	return turns, nil
}

// ProcessProduction advances the queue and returns the finished guns.
func (a *Artillery) ProcessProduction() []*Cannon {
	var done []*Cannon
	kept := a.Queue[:0]
	for _, p := range a.Queue {
		p.TurnsRemaining--
		if p.TurnsRemaining > 0 {
			kept = append(kept, p)
			continue
		}
		a.TotalProduced++
		name := p.CustomName
		if name == "" {
			name = fmt.Sprintf("%s #%d", definitions[p.Type].Name, a.TotalProduced)
		}
		c := &Cannon{
			ID:        fmt.Sprintf("cannon_%d", a.TotalProduced),
			Type:      p.Type,
			Material:  p.Material,
			Name:      name,
			Condition: 100,
			Ammo:      Gulle,
		}
		a.Cannons = append(a.Cannons, c)
		done = append(done, c)
	}
	a.Queue = kept
	return done
}

// Find returns the cannon with id.
func (a *Artillery) Find(id string) (*Cannon, int) {
	for i, c := range a.Cannons {
		if c.ID == id {
			return c, i
		}
	}
	return nil, -1
}

// SetAmmo selects the shot a cannon fires.
func (a *Artillery) SetAmmo(id string, ammo Ammo) error {
	c, _ := a.Find(id)
	if c == nil {
		return ErrNoCannon
	}
	if _, ok := ammos[ammo]; !ok {
		return ErrUnknownAmmo
	}
	c.Ammo = ammo
	return nil
}

// ShotCost is the gold and iron one shot of c consumes.
func ShotCost(c *Cannon) ledger.Amounts {
	am := ammos[c.Ammo]
	powder := definitions[c.Type].Gunpowder * am.powder
	return ledger.Amounts{
		ledger.Gold: int(math.Ceil(powder * GunpowderPrice)),
		ledger.Iron: am.iron,
	}
}

// Shot is the outcome of firing one cannon.
type Shot struct {
	Cannon      string
	FieldDamage int
	SiegeDamage int
	Burst       bool
	Damaged     bool
}

// Fire discharges cannon id once, paying for powder and shot.
func (a *Artillery) Fire(id string, rng entropy.Rand, l *ledger.Ledger) (Shot, error) {
	c, i := a.Find(id)
	if c == nil {
		return Shot{}, ErrNoCannon
	}
	if !c.ready() {
		return Shot{}, ErrDamaged
	}
	if err := l.Spend(ShotCost(c)); err != nil {
		return Shot{}, fmt.Errorf("barut: %w", err)
	}
	return a.fire(c, i, rng), nil
}

func (a *Artillery) fire(c *Cannon, i int, rng entropy.Rand) Shot {
	def := definitions[c.Type]
	am := ammos[c.Ammo]
	s := Shot{
		Cannon:      c.Name,
		FieldDamage: int(float64(c.scaled(def.FieldPower)) * am.field),
		SiegeDamage: int(float64(c.scaled(def.SiegePower)) * am.siege),
	}
	risk := c.BurstRisk()
	c.ShotsFired++
	if float64(rng.Range(1, 100)) <= risk {
		s.Burst = true
		a.Cannons = append(a.Cannons[:i], a.Cannons[i+1:]...)
		a.Destroyed++
		return s
	}
	if c.Material == Bronze {
		c.Condition -= rng.Range(0, 1)
	} else {
		c.Condition -= rng.Range(1, 3)
	}
	c.Condition = max(0, c.Condition)
	c.Experience = min(100, c.Experience+1)
	if c.Condition < 20 && rng.Chance(0.3) {
		c.Damaged = true
		s.Damaged = true
	}
	return s
}

// Volley fires every ready cannon once in order, skipping guns the treasury
// cannot supply. Burst guns are removed.
func (a *Artillery) Volley(rng entropy.Rand, l *ledger.Ledger) []Shot {
	var shots []Shot
	ids := make([]string, 0, len(a.Cannons))
	for _, c := range a.Cannons {
		if c.ready() {
			ids = append(ids, c.ID)
		}
	}
	for _, id := range ids {
		s, err := a.Fire(id, rng, l)
		if err != nil {
			continue
		}
		shots = append(shots, s)
	}
	return shots
}

// RepairCost is proportional to lost condition.
func RepairCost(c *Cannon) ledger.Amounts {
	missing := 100 - c.Condition
	d := definitions[c.Type]
	return ledger.Amounts{
		ledger.Gold: d.Gold * missing / 200,
		ledger.Iron: d.Iron * missing / 200,
	}
}

// Repair restores a cannon to full condition.
func (a *Artillery) Repair(id string, l *ledger.Ledger) error {
	c, _ := a.Find(id)
	if c == nil {
		return ErrNoCannon
	}
	if c.Condition >= 100 && !c.Damaged {
		return ErrNotDamaged
	}
	if err := l.Spend(RepairCost(c)); err != nil {
		return fmt.Errorf("onarım: %w", err)
	}
	c.Condition = 100
	c.Damaged = false
	return nil
}

// SiegeBonus is the wall-breaking strength of ready guns, scaled by the
// topcu and cebeci crews serving them.
func (a *Artillery) SiegeBonus(topcu, cebeci int) int {
	total := 0
	for _, c := range a.Cannons {
		total += c.scaled(definitions[c.Type].SiegePower)
	}
	return int(float64(total) * a.crewEffectiveness(topcu, cebeci))
}

// Maintenance is the per-turn upkeep of every gun in service.
func (a *Artillery) Maintenance() int {
	total := 0
	for _, c := range a.Cannons {
		total += definitions[c.Type].Maintenance
	}
	return total
}

// CrewRequired sums the crews of all guns in service.
func (a *Artillery) CrewRequired() int {
	n := 0
	for _, c := range a.Cannons {
		n += definitions[c.Type].Crew
	}
	return n
}

// crewEffectiveness is the share of required crews on hand; cebeci count
// for 0.3 of a gunner.
func (a *Artillery) crewEffectiveness(topcu, cebeci int) float64 {
	req := a.CrewRequired()
	if req == 0 {
		return 1
	}
	eff := float64(topcu)/float64(req) + 0.3*float64(cebeci)/float64(req)
	return math.Max(0.1, math.Min(1.3, eff))
}

// Counts returns the number of guns of each type.
func (a *Artillery) Counts() map[Type]int {
	out := make(map[Type]int)
	for _, c := range a.Cannons {
		out[c.Type]++
	}
	return out
}

// Sanitize drops unknown types and clamps instance fields.
func (a *Artillery) Sanitize() {
	kept := a.Cannons[:0]
	for _, c := range a.Cannons {
		if c == nil {
			continue
		}
		if _, ok := definitions[c.Type]; !ok {
			continue
		}
		if _, ok := materials[c.Material]; !ok {
			c.Material = Iron
		}
		if _, ok := ammos[c.Ammo]; !ok {
			c.Ammo = Gulle
		}
		c.Condition = max(0, min(100, c.Condition))
		c.Experience = max(0, min(100, c.Experience))
		c.ShotsFired = max(0, c.ShotsFired)
		kept = append(kept, c)
	}
	a.Cannons = kept
	queue := a.Queue[:0]
	for _, p := range a.Queue {
		if _, ok := definitions[p.Type]; !ok {
			continue
		}
		if _, ok := materials[p.Material]; !ok {
			p.Material = Iron
		}
		p.TurnsRemaining = max(1, p.TurnsRemaining)
		queue = append(queue, p)
	}
	a.Queue = queue
}
