// Package construction holds the building graph: prerequisites, upgrade
// levels, module add-ons, synergies, and the production aggregates the turn
// pipeline reads.
package construction

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrUnknownType   = errors.New("bilinmeyen bina")
	ErrExists        = errors.New("bu bina zaten mevcut")
	ErrQueued        = errors.New("bu bina zaten inşa ediliyor")
	ErrPrerequisite  = errors.New("ön koşul binası eksik")
	ErrCoastal       = errors.New("bu bina sadece kıyı eyaletlerinde inşa edilebilir")
	ErrMissing       = errors.New("bina mevcut değil")
	ErrMaxLevel      = errors.New("maksimum seviyeye ulaşıldı")
	ErrUnknownModule = errors.New("bu binada böyle bir eklenti yok")
	ErrInstalled     = errors.New("eklenti zaten kurulu")
	ErrRequiredBy    = errors.New("başka bir bina buna bağlı")
)

// Building is a completed node of the graph.
type Building struct {
	Level   int      `json:"level"`
	Modules []string `json:"modules,omitempty"`
}

func (b *Building) hasModule(id string) bool {
	for _, m := range b.Modules {
		if m == id {
			return true
		}
	}
	return false
}

// QueueEntry is a pending construction or upgrade.
type QueueEntry struct {
	Type           Type `json:"type"`
	TurnsRemaining int  `json:"turns"`
	Upgrade        bool `json:"is_upgrade"`
	TargetLevel    int  `json:"target_level"`
}

// Completion reports a queue entry that finished this turn.
type Completion struct {
	Type    Type
	Level   int
	Upgrade bool
}

// Construction is the building subsystem.
type Construction struct {
	Buildings map[Type]*Building `json:"buildings"`
	Queue     []QueueEntry       `json:"construction_queue"`
}

// New returns the graph of a fresh game: a single level-1 mosque.
func New() *Construction {
	return &Construction{
		Buildings: map[Type]*Building{Mosque: {Level: 1}},
	}
}

// Has reports whether t is completed.
func (c *Construction) Has(t Type) bool {
	_, ok := c.Buildings[t]
	return ok
}

// Level returns the level of t, zero when absent.
func (c *Construction) Level(t Type) int {
	if b, ok := c.Buildings[t]; ok {
		return b.Level
	}
	return 0
}

// Count returns how many instances of t exist. Buildings are unique per
// type, so this is 0 or 1.
func (c *Construction) Count(t Type) int {
	if c.Has(t) {
		return 1
	}
	return 0
}

func (c *Construction) queued(t Type) bool {
	for _, q := range c.Queue {
		if q.Type == t && !q.Upgrade {
			return true
		}
	}
	return false
}

func (c *Construction) pendingUpgrades(t Type) int {
	n := 0
	for _, q := range c.Queue {
		if q.Type == t && q.Upgrade {
			n++
		}
	}
	return n
}

// CanBuild validates a new building against the graph and the ledger.
func (c *Construction) CanBuild(t Type, l *ledger.Ledger, coastal bool) error {
	d, ok := definitions[t]
	if !ok {
		return ErrUnknownType
	}
	if c.Has(t) {
		return ErrExists
	}
	if c.queued(t) {
		return ErrQueued
	}
	if d.Prerequisite != "" && c.Level(d.Prerequisite) < 1 {
		return fmt.Errorf("%w: %s", ErrPrerequisite, d.Prerequisite.Name())
	}
	if d.Coastal && !coastal {
		return ErrCoastal
	}
	if !l.CanAfford(d.Cost) {
		return fmt.Errorf("%w: %s", ledger.ErrInsufficient, d.Cost)
	}
	return nil
}

// BuildTime applies the craftsman speed bonus to a base duration.
func BuildTime(base int, speed float64) int {
	speed = math.Min(0.5, math.Max(0, speed))
	return max(1, int(math.Ceil(float64(base)*(1-speed)-1e-9)))
}

// Start queues a new building and charges its cost. It returns the number
// of turns the work will take.
func (c *Construction) Start(t Type, l *ledger.Ledger, coastal bool, speed float64) (int, error) {
	if err := c.CanBuild(t, l, coastal); err != nil {
		return 0, err
	}
	d := definitions[t]
	if err := l.Spend(d.Cost); err != nil {
		return 0, err
	}
	turns := BuildTime(d.BuildTime, speed)
	c.Queue = append(c.Queue, QueueEntry{Type: t, TurnsRemaining: turns, TargetLevel: 1})
	return turns, nil
}

// UpgradeCost is the cost of raising t from level to level+1.
func UpgradeCost(t Type, level int) ledger.Amounts {
	d, ok := definitions[t]
	if !ok {
		return ledger.Amounts{}
	}
	return d.Cost.Scale(float64(level+1) * 0.5)
}

// CanUpgrade validates an upgrade. Queued upgrades count toward MaxLevel.
func (c *Construction) CanUpgrade(t Type, l *ledger.Ledger) error {
	b, ok := c.Buildings[t]
	if !ok {
		return ErrMissing
	}
	level := b.Level + c.pendingUpgrades(t)
	if level >= definitions[t].MaxLevel {
		return ErrMaxLevel
	}
	if cost := UpgradeCost(t, level); !l.CanAfford(cost) {
		return fmt.Errorf("%w: %s", ledger.ErrInsufficient, cost)
	}
	return nil
}

// Upgrade queues the next level of t and charges for it.
func (c *Construction) Upgrade(t Type, l *ledger.Ledger, speed float64) (int, error) {
	if err := c.CanUpgrade(t, l); err != nil {
		return 0, err
	}
	level := c.Buildings[t].Level + c.pendingUpgrades(t)
	if err := l.Spend(UpgradeCost(t, level)); err != nil {
		return 0, err
	}
	turns := BuildTime(max(1, definitions[t].BuildTime/2), speed)
	c.Queue = append(c.Queue, QueueEntry{Type: t, TurnsRemaining: turns, Upgrade: true, TargetLevel: level + 1})
	return turns, nil
}

// InstallModule adds a catalog module to a completed building.
func (c *Construction) InstallModule(t Type, id string, l *ledger.Ledger) error {
	b, ok := c.Buildings[t]
	if !ok {
		return ErrMissing
	}
	m, ok := definitions[t].Module(id)
	if !ok {
		return ErrUnknownModule
	}
	if b.hasModule(id) {
		return ErrInstalled
	}
	if err := l.Spend(m.Cost); err != nil {
		return err
	}
	b.Modules = append(b.Modules, id)
	return nil
}

// Demolish removes a building no other building depends on. Nothing is refunded.
func (c *Construction) Demolish(t Type) error {
	if !c.Has(t) {
		return ErrMissing
	}
	for other := range c.Buildings {
		if definitions[other].Prerequisite == t {
			return fmt.Errorf("%w: %s", ErrRequiredBy, other.Name())
		}
	}
	for _, q := range c.Queue {
		if definitions[q.Type].Prerequisite == t {
			return fmt.Errorf("%w: %s", ErrRequiredBy, q.Type.Name())
		}
	}
	delete(c.Buildings, t)
	kept := c.Queue[:0]
	for _, q := range c.Queue {
		if q.Type != t {
			kept = append(kept, q)
		}
	}
	c.Queue = kept
	return nil
}

// ProcessTurn advances the queue and promotes finished entries.
func (c *Construction) ProcessTurn() []Completion {
	var done []Completion
	kept := c.Queue[:0]
	for _, q := range c.Queue {
		q.TurnsRemaining--
		if q.TurnsRemaining > 0 {
			kept = append(kept, q)
			continue
		}
		if q.Upgrade {
			b, ok := c.Buildings[q.Type]
			if !ok {
				continue
			}
			b.Level = min(b.Level+1, definitions[q.Type].MaxLevel)
			done = append(done, Completion{Type: q.Type, Level: b.Level, Upgrade: true})
			continue
		}
		if c.Has(q.Type) {
			continue
		}
		c.Buildings[q.Type] = &Building{Level: 1}
		done = append(done, Completion{Type: q.Type, Level: 1})
	}
	c.Queue = kept
	return done
}

// Synergy is the multiplier t earns from completed synergy partners.
func (c *Construction) Synergy(t Type) float64 {
	d, ok := definitions[t]
	if !ok {
		return 1
	}
	n := 0
	for _, s := range d.Synergies {
		if c.Has(s) {
			n++
		}
	}
	return 1 + 0.15*float64(n)
}

// EffectOf is one building's output for e: the level- and synergy-scaled
// base value plus flat module contributions.
func (c *Construction) EffectOf(t Type, e Effect) int {
	b, ok := c.Buildings[t]
	if !ok {
		return 0
	}
	d := definitions[t]
	v := int(float64(d.Effects[e]) * (1 + float64(b.Level-1)*0.5) * c.Synergy(t))
	for _, id := range b.Modules {
		if m, ok := d.Module(id); ok {
			v += m.Effects[e]
		}
	}
	return v
}

// Total sums e over every completed building.
func (c *Construction) Total(e Effect) int {
	total := 0
	for t := range c.Buildings {
		total += c.EffectOf(t, e)
	}
	return total
}

// Maintenance is the per-turn upkeep of every building.
func (c *Construction) Maintenance() int {
	total := 0
	for t, b := range c.Buildings {
		total += definitions[t].Maintenance * b.Level
	}
	return total
}

// HappinessBonus, TradeBonus and MilitaryBonus are the aggregate bonuses.
func (c *Construction) HappinessBonus() int { return c.Total(Happiness) }
func (c *Construction) TradeBonus() int     { return c.Total(Trade) }
func (c *Construction) MilitaryBonus() int  { return c.Total(Military) }

// Production is the per-turn raw output, food before the seasonal modifier.
func (c *Construction) Production() ledger.Amounts {
	return ledger.Amounts{
		ledger.Gold:      c.Total(Gold),
		ledger.Food:      c.Total(Food),
		ledger.Wood:      c.Total(Wood),
		ledger.Iron:      c.Total(Iron),
		ledger.Stone:     c.Total(Stone),
		ledger.Rope:      c.Total(Rope),
		ledger.Tar:       c.Total(Tar),
		ledger.Sailcloth: c.Total(Sailcloth),
	}
}

// PopulationCapacity is the carrying capacity of the province.
func (c *Construction) PopulationCapacity() int {
	return BaseCapacity + c.Total(Capacity)
}

// GrowthBonus is the additive growth rate from inns.
func (c *Construction) GrowthBonus() float64 {
	bonus := 0.0
	for t, b := range c.Buildings {
		bonus += definitions[t].GrowthBonus * float64(b.Level)
	}
	return bonus
}

// Sorted returns completed building types in catalog order.
func (c *Construction) Sorted() []Type {
	var out []Type
	for _, t := range Types {
		if c.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Available lists buildings that could be queued, ignoring cost.
func (c *Construction) Available(coastal bool) []Type {
	var out []Type
	for _, t := range Types {
		d := definitions[t]
		if c.Has(t) || c.queued(t) || (d.Coastal && !coastal) {
			continue
		}
		if d.Prerequisite != "" && !c.Has(d.Prerequisite) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sanitize drops unknown types and modules, clamps levels, and removes
// buildings whose prerequisite did not survive.
func (c *Construction) Sanitize() {
	if c.Buildings == nil {
		c.Buildings = make(map[Type]*Building)
	}
	for t, b := range c.Buildings {
		d, ok := definitions[t]
		if !ok || b == nil {
			delete(c.Buildings, t)
			continue
		}
		b.Level = max(1, min(b.Level, d.MaxLevel))
		mods := b.Modules[:0]
		for _, id := range b.Modules {
			if _, ok := d.Module(id); ok && !contains(mods, id) {
				mods = append(mods, id)
			}
		}
		b.Modules = mods
	}
	for changed := true; changed; {
		changed = false
		for t := range c.Buildings {
			if p := definitions[t].Prerequisite; p != "" && !c.Has(p) {
				delete(c.Buildings, t)
				changed = true
			}
		}
	}
	kept := c.Queue[:0]
	pending := make(map[Type]int)
	for _, q := range c.Queue {
		if _, ok := definitions[q.Type]; !ok {
			continue
		}
		if q.Upgrade {
			if !c.Has(q.Type) || c.Level(q.Type)+pending[q.Type] >= MaxLevel {
				continue
			}
			pending[q.Type]++
			q.TargetLevel = c.Level(q.Type) + pending[q.Type]
		} else if c.Has(q.Type) {
			continue
		} else {
			q.TargetLevel = 1
		}
		q.TurnsRemaining = max(1, q.TurnsRemaining)
		kept = append(kept, q)
	}
	c.Queue = kept
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
