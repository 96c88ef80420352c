// Package naval manages the provincial fleet: shipbuilding at the tersane,
// repairs and one-shot coastal raids.
package naval

import (
	"errors"
	"fmt"

	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrUnknownShip = errors.New("bilinmeyen gemi türü")
	ErrUnknownTier = errors.New("bilinmeyen akın hedefi")
	ErrNoShip      = errors.New("böyle bir gemi yok")
	ErrNoFleet     = errors.New("akına çıkacak savaş gemisi yok")
	ErrInRepair    = errors.New("gemi zaten onarımda")
	ErrUndamaged   = errors.New("gemi onarım gerektirmiyor")
)

// ShipType is a hull design.
type ShipType string

const (
	Mavna     ShipType = "mavna"
	Kalyon    ShipType = "kalyon"
	Firkateyn ShipType = "firkateyn"
	Kadirga   ShipType = "kadirga"
	Mahon     ShipType = "mahon"
)

// ShipTypes lists the catalog in ascending size.
var ShipTypes = []ShipType{Mavna, Kalyon, Firkateyn, Kadirga, Mahon}

// Definition is the static description of a hull.
type Definition struct {
	Name        string
	Cost        ledger.Amounts
	BuildTime   int
	Crew        int
	Cargo       int
	Combat      int
	Speed       int
	Warship     bool
	MaxHealth   int
	Maintenance int
}

func shipCost(gold, wood, iron, rope, tar, sail int) ledger.Amounts {
	return ledger.Amounts{
		ledger.Gold: gold, ledger.Wood: wood, ledger.Iron: iron,
		ledger.Rope: rope, ledger.Tar: tar, ledger.Sailcloth: sail,
	}
}

var definitions = map[ShipType]Definition{
	Mavna:     {Name: "Mavna", Cost: shipCost(500, 50, 10, 20, 15, 10), BuildTime: 3, Crew: 15, Cargo: 50, Speed: 4, MaxHealth: 60, Maintenance: 5},
	Kalyon:    {Name: "Kalyon", Cost: shipCost(1500, 150, 30, 60, 40, 50), BuildTime: 7, Crew: 40, Cargo: 200, Combat: 5, Speed: 6, MaxHealth: 120, Maintenance: 15},
	Firkateyn: {Name: "Firkateyn", Cost: shipCost(2000, 100, 50, 50, 30, 40), BuildTime: 10, Crew: 60, Cargo: 30, Combat: 25, Speed: 8, Warship: true, MaxHealth: 150, Maintenance: 20},
	Kadirga:   {Name: "Kadırga", Cost: shipCost(3000, 200, 80, 80, 50, 30), BuildTime: 12, Crew: 200, Cargo: 20, Combat: 50, Speed: 7, Warship: true, MaxHealth: 200, Maintenance: 30},
	Mahon:     {Name: "Mahon", Cost: shipCost(5000, 300, 150, 120, 80, 80), BuildTime: 20, Crew: 300, Cargo: 50, Combat: 100, Speed: 5, Warship: true, MaxHealth: 300, Maintenance: 50},
}

// Lookup returns the definition of t.
func Lookup(t ShipType) (Definition, bool) {
	d, ok := definitions[t]
	return d, ok
}

// ParseShip accepts a type key or its Turkish name.
func ParseShip(s string) (ShipType, bool) {
	for _, t := range ShipTypes {
		if string(t) == s || definitions[t].Name == s {
			return t, true
		}
	}
	return "", false
}

// RaidTier is the difficulty of a raid target.
type RaidTier string

const (
	Kiyi    RaidTier = "kiyi"
	Liman   RaidTier = "liman"
	Donanma RaidTier = "donanma"
)

var raidTiers = map[RaidTier]struct {
	name  string
	enemy int
	loot  int
}{
	Kiyi:    {"Kıyı köyleri", 30, 1000},
	Liman:   {"Düşman limanı", 80, 3000},
	Donanma: {"Düşman donanması", 200, 8000},
}

// ParseTier accepts a tier key.
func ParseTier(s string) (RaidTier, bool) {
	_, ok := raidTiers[RaidTier(s)]
	return RaidTier(s), ok
}

// Ship is one hull afloat.
type Ship struct {
	ID         string   `json:"ship_id"`
	Type       ShipType `json:"ship_type"`
	Name       string   `json:"name"`
	Health     int      `json:"health"`
	MaxHealth  int      `json:"max_health"`
	Experience int      `json:"experience"`
	BonusSpeed int      `json:"bonus_speed"`
}

// Power is combat strength scaled by experience and remaining hull.
func (s *Ship) Power() int {
	d := definitions[s.Type]
	if s.MaxHealth <= 0 {
		return 0
	}
	base := float64(d.Combat) * (1 + float64(s.Experience)/200)
	return int(base * float64(s.Health) / float64(s.MaxHealth))
}

// Construction is a hull on the slipway.
type Construction struct {
	Type           ShipType `json:"ship_type"`
	TurnsRemaining int      `json:"turns_remaining"`
	CustomName     string   `json:"custom_name"`
}

// Repair is a ship in dock.
type Repair struct {
	ShipID         string `json:"ship_id"`
	TurnsRemaining int    `json:"turns_remaining"`
}

// SpawnBonus is added to new hulls by tersane modules.
type SpawnBonus struct {
	Health     int
	Experience int
}

// Naval is the fleet subsystem.
type Naval struct {
	Ships       []*Ship        `json:"ships"`
	Queue       []Construction `json:"construction_queue"`
	RepairQueue []Repair       `json:"repair_queue"`
	TotalBuilt  int            `json:"total_ships_built"`
	Victories   int            `json:"naval_victories"`
	Defeats     int            `json:"naval_defeats"`
	ShipsLost   int            `json:"ships_lost"`
}

// New returns an empty fleet.
func New() *Naval {
	return &Naval{}
}

// CanBuild validates a shipbuilding order.
func (n *Naval) CanBuild(t ShipType, l *ledger.Ledger) error {
	d, ok := definitions[t]
	if !ok {
		return ErrUnknownShip
	}
	if !l.CanAfford(d.Cost) {
		return fmt.Errorf("%w: %s", ledger.ErrInsufficient, d.Cost)
	}
	return nil
}

// Build charges for and lays down a hull, returning its build time.
func (n *Naval) Build(t ShipType, name string, l *ledger.Ledger) (int, error) {
	if err := n.CanBuild(t, l); err != nil {
		return 0, err
	}
	d := definitions[t]
	if err := l.Spend(d.Cost); err != nil {
		return 0, err
	}
	n.Queue = append(n.Queue, Construction{Type: t, TurnsRemaining: d.BuildTime, CustomName: name})
	return d.BuildTime, nil
}

// ProcessConstruction advances the slipways and the docks. It returns the
// ships launched and the ships whose repairs finished.
func (n *Naval) ProcessConstruction(bonus SpawnBonus) (launched, repaired []*Ship) {
	kept := n.Queue[:0]
	for _, c := range n.Queue {
		c.TurnsRemaining--
		if c.TurnsRemaining > 0 {
			kept = append(kept, c)
			continue
		}
		d := definitions[c.Type]
		n.TotalBuilt++
		name := c.CustomName
		if name == "" {
			name = fmt.Sprintf("%s #%d", d.Name, n.TotalBuilt)
		}
		hp := d.MaxHealth + bonus.Health
		s := &Ship{
			ID:         fmt.Sprintf("ship_%d", n.TotalBuilt),
			Type:       c.Type,
			Name:       name,
			Health:     hp,
			MaxHealth:  hp,
			Experience: min(100, bonus.Experience),
		}
		n.Ships = append(n.Ships, s)
		launched = append(launched, s)
	}
	n.Queue = kept

	docks := n.RepairQueue[:0]
	for _, r := range n.RepairQueue {
		r.TurnsRemaining--
		s, _ := n.Find(r.ShipID)
		if s == nil {
			continue
		}
		if r.TurnsRemaining > 0 {
			docks = append(docks, r)
			continue
		}
		s.Health = s.MaxHealth
		repaired = append(repaired, s)
	}
	n.RepairQueue = docks
	return launched, repaired
}

// Find returns the ship with id.
func (n *Naval) Find(id string) (*Ship, int) {
	for i, s := range n.Ships {
		if s.ID == id {
			return s, i
		}
	}
	return nil, -1
}

// InRepair reports whether a ship is in dock.
func (n *Naval) InRepair(id string) bool {
	for _, r := range n.RepairQueue {
		if r.ShipID == id {
			return true
		}
	}
	return false
}

// RepairCost is proportional to missing hull.
func RepairCost(s *Ship) ledger.Amounts {
	missing := s.MaxHealth - s.Health
	return ledger.Amounts{ledger.Gold: missing * 10, ledger.Wood: missing * 2}
}

// RepairTime scales the build time by the share of hull lost.
func RepairTime(s *Ship) int {
	d := definitions[s.Type]
	ratio := float64(s.MaxHealth-s.Health) / float64(max(1, s.MaxHealth))
	return max(1, int(float64(d.BuildTime)/3*ratio*2))
}

// ScheduleRepair docks a damaged ship, returning the turns it will take.
func (n *Naval) ScheduleRepair(id string, l *ledger.Ledger) (int, error) {
	s, _ := n.Find(id)
	if s == nil {
		return 0, ErrNoShip
	}
	if n.InRepair(id) {
		return 0, ErrInRepair
	}
	if s.Health >= s.MaxHealth {
		return 0, ErrUndamaged
	}
	if err := l.Spend(RepairCost(s)); err != nil {
		return 0, fmt.Errorf("tersane: %w", err)
	}
	turns := RepairTime(s)
	n.RepairQueue = append(n.RepairQueue, Repair{ShipID: id, TurnsRemaining: turns})
	return turns, nil
}

// FleetPower sums the warships at sea.
func (n *Naval) FleetPower() int {
	total := 0
	for _, s := range n.Ships {
		if definitions[s.Type].Warship && !n.InRepair(s.ID) {
			total += s.Power()
		}
	}
	return total
}

// TradeCapacity sums the cargo holds of merchant hulls.
func (n *Naval) TradeCapacity() int {
	total := 0
	for _, s := range n.Ships {
		if d := definitions[s.Type]; !d.Warship {
			total += d.Cargo
		}
	}
	return total
}

// Maintenance is the per-turn upkeep of the fleet.
func (n *Naval) Maintenance() int {
	total := 0
	for _, s := range n.Ships {
		total += definitions[s.Type].Maintenance
	}
	return total
}

// Counts returns the number of hulls of each type.
func (n *Naval) Counts() map[ShipType]int {
	out := make(map[ShipType]int)
	for _, s := range n.Ships {
		out[s.Type]++
	}
	return out
}

// RaidResult reports a raid.
type RaidResult struct {
	Tier        RaidTier
	Success     bool
	Chance      float64
	Loot        int
	DamageTaken int
	Sunk        []string
}

// Raid sends every warship at sea against a target of the given tier.
func (n *Naval) Raid(tier RaidTier, rng entropy.Rand) (RaidResult, error) {
	info, ok := raidTiers[tier]
	if !ok {
		return RaidResult{}, ErrUnknownTier
	}
	fp := n.FleetPower()
	if fp <= 0 {
		return RaidResult{}, ErrNoFleet
	}
	r := RaidResult{Tier: tier}
	enemy := float64(info.enemy) * rng.Uniform(0.8, 1.2)
	r.Chance = float64(fp) / (float64(fp) + enemy)
	r.Success = rng.Float() < r.Chance

	lo, hi := 15, 40
	if r.Success {
		lo, hi = 5, 20
		r.Loot = info.loot
		n.Victories++
	} else {
		n.Defeats++
	}

	kept := n.Ships[:0]
	for _, s := range n.Ships {
		if !definitions[s.Type].Warship || n.InRepair(s.ID) {
			kept = append(kept, s)
			continue
		}
		dmg := rng.Range(lo, hi)
		s.Health -= dmg
		r.DamageTaken += dmg
		if s.Health <= 0 {
			r.Sunk = append(r.Sunk, s.Name)
			n.ShipsLost++
			continue
		}
		if r.Success {
			s.Experience = min(100, s.Experience+5)
		}
		kept = append(kept, s)
	}
	n.Ships = kept
	return r, nil
}

// Sanitize drops unknown hulls and clamps health.
func (n *Naval) Sanitize() {
	kept := n.Ships[:0]
	ids := make(map[string]bool)
	for _, s := range n.Ships {
		if s == nil {
			continue
		}
		d, ok := definitions[s.Type]
		if !ok {
			continue
		}
		if s.MaxHealth <= 0 {
			s.MaxHealth = d.MaxHealth
		}
		s.Health = max(1, min(s.MaxHealth, s.Health))
		s.Experience = max(0, min(100, s.Experience))
		ids[s.ID] = true
		kept = append(kept, s)
	}
	n.Ships = kept
	queue := n.Queue[:0]
	for _, c := range n.Queue {
		if _, ok := definitions[c.Type]; ok {
			c.TurnsRemaining = max(1, c.TurnsRemaining)
			queue = append(queue, c)
		}
	}
	n.Queue = queue
	docks := n.RepairQueue[:0]
	for _, r := range n.RepairQueue {
		if ids[r.ShipID] {
			r.TurnsRemaining = max(1, r.TurnsRemaining)
			docks = append(docks, r)
		}
	}
	n.RepairQueue = docks
}
