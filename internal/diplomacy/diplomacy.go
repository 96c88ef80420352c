// Package diplomacy tracks the governor's standing at the Porte and with the
// neighbors: sultan loyalty and favor, imperial missions, envoys, vassals,
// dynastic marriages and multi-stage negotiations.
package diplomacy

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrUnknownNeighbor = errors.New("böyle bir komşu yok")
	ErrCooldown        = errors.New("elçi henüz dönmedi")
	ErrRelationLow     = errors.New("ilişki çok kötü")
	ErrBadAmount       = errors.New("geçersiz miktar")
	ErrNoMission       = errors.New("böyle bir görev yok")
	ErrNoDemand        = errors.New("böyle bir talep yok")
)

// Diplomatic prices and timings.
const (
	EnvoyCooldown  = 3
	AgreementCost  = 500
	MissionChance  = 0.2
	DemandDuration = 3
)

// Mission is an imperial order.
type Mission struct {
	ID             int    `json:"id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Target         int    `json:"target"`
	RewardLoyalty  int    `json:"reward_loyalty"`
	TurnsRemaining int    `json:"turns_remaining"`
}

// Mission types.
const (
	MissionTribute  = "tribute"
	MissionMilitary = "military"
	MissionSuppress = "suppress"
)

var missionTemplates = []Mission{
	{Type: MissionTribute, Title: "Haraç Talebi", Description: "Padişah hazineye 2000 altın katkı bekliyor", Target: 2000, RewardLoyalty: 15, TurnsRemaining: 5},
	{Type: MissionMilitary, Title: "Asker Talebi", Description: "Sefere 100 asker gönder", Target: 100, RewardLoyalty: 20, TurnsRemaining: 4},
	{Type: MissionSuppress, Title: "İsyan Bastır", Description: "Eşkıyaları temizle", Target: 1, RewardLoyalty: 10, TurnsRemaining: 3},
}

// Vassal is a court paying tribute to the province.
type Vassal struct {
	Name    string `json:"name"`
	Tribute int    `json:"tribute"`
	Turns   int    `json:"turns"`
}

// Demand is a foreign court asking for tribute.
type Demand struct {
	From      string `json:"from"`
	Amount    int    `json:"amount"`
	TurnsLeft int    `json:"turns_left"`
}

// Diplomacy is the diplomacy subsystem.
type Diplomacy struct {
	SultanLoyalty     int                  `json:"sultan_loyalty"`
	SultanFavor       int                  `json:"sultan_favor"`
	SadrazamRelation  int                  `json:"sadrazam_relation"`
	DefterdarRelation int                  `json:"defterdar_relation"`
	Neighbors         map[string]*Relation `json:"neighbors"`
	Missions          []Mission            `json:"active_missions"`
	MissionCounter    int                  `json:"mission_counter"`
	EnvoyCooldown     int                  `json:"envoy_cooldown"`
	Chains            []*Chain             `json:"event_chains"`
	ChainCounter      int                  `json:"chain_counter"`
	Momentum          []Momentum           `json:"relationship_momentum"`
	Vassals           []Vassal             `json:"vassals"`
	Alliances         []string             `json:"alliances"`
	Demands           []Demand             `json:"demands"`
	MissionsCompleted int                  `json:"missions_completed"`
	MissionsFailed    int                  `json:"missions_failed"`
}

// New returns the standing of a newly appointed governor.
func New() *Diplomacy {
	return &Diplomacy{
		SultanLoyalty:     90,
		SultanFavor:       50,
		SadrazamRelation:  50,
		DefterdarRelation: 50,
		Neighbors:         make(map[string]*Relation),
	}
}

// LoyaltyDescription names the current loyalty band.
func (d *Diplomacy) LoyaltyDescription() string {
	switch {
	case d.SultanLoyalty >= 80:
		return "Çok Sadık"
	case d.SultanLoyalty >= 60:
		return "Sadık"
	case d.SultanLoyalty >= 40:
		return "Şüpheli"
	case d.SultanLoyalty >= 20:
		return "Güvenilmez"
	default:
		return "Hain"
	}
}

// AdjustLoyalty shifts sultan loyalty within [0,100].
func (d *Diplomacy) AdjustLoyalty(v int) {
	d.SultanLoyalty = max(0, min(100, d.SultanLoyalty+v))
}

// AdjustFavor shifts sultan favor within [0,100].
func (d *Diplomacy) AdjustFavor(v int) {
	d.SultanFavor = max(0, min(100, d.SultanFavor+v))
}

// SendTribute pays gold to the Porte for loyalty and favor.
func (d *Diplomacy) SendTribute(amount int, l *ledger.Ledger) (loyalty, favor int, err error) {
	if amount <= 0 {
		return 0, 0, ErrBadAmount
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: amount}); err != nil {
		return 0, 0, fmt.Errorf("haraç: %w", err)
	}
	loyalty = min(20, amount/500)
	favor = min(15, amount/700)
	d.AdjustLoyalty(loyalty)
	d.AdjustFavor(favor)
	return loyalty, favor, nil
}

// EnvoyChance is the percent chance an envoy to r is well received.
func EnvoyChance(r *Relation, bonus float64) int {
	c := 50 + r.Value/4 + int(math.Round(bonus*100))
	return max(10, min(95, c))
}

// SendEnvoy dispatches an envoy. The cooldown starts whether or not the
// envoy is well received.
func (d *Diplomacy) SendEnvoy(target string, bonus float64, rng entropy.Rand) (gain int, err error) {
	if d.EnvoyCooldown > 0 {
		return 0, fmt.Errorf("%w: %d tur", ErrCooldown, d.EnvoyCooldown)
	}
	r, ok := d.Neighbors[target]
	if !ok {
		return 0, ErrUnknownNeighbor
	}
	d.EnvoyCooldown = EnvoyCooldown
	if rng.Range(1, 100) > EnvoyChance(r, bonus) {
		return 0, nil
	}
	gain = 15 + int(math.Round(bonus*100))
	r.adjust(gain)
	return gain, nil
}

// ProposeTradeAgreement pays for a treaty offer. It reports whether the
// court accepted; the caller applies the trade bonus.
func (d *Diplomacy) ProposeTradeAgreement(target string, l *ledger.Ledger, rng entropy.Rand) (bool, error) {
	r, ok := d.Neighbors[target]
	if !ok {
		return false, ErrUnknownNeighbor
	}
	if r.Value < 0 {
		return false, ErrRelationLow
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: AgreementCost}); err != nil {
		return false, fmt.Errorf("ticaret anlaşması: %w", err)
	}
	chance := 50 + r.Value + int(r.Modifiers().Trade*100)
	if rng.Range(1, 100) > chance {
		return false, nil
	}
	r.adjust(10)
	return true, nil
}

// CompleteMission credits the reward of a fulfilled order.
func (d *Diplomacy) CompleteMission(id int) (Mission, error) {
	for i, m := range d.Missions {
		if m.ID != id {
			continue
		}
		d.AdjustLoyalty(m.RewardLoyalty)
		d.AdjustFavor(10)
		d.Missions = append(d.Missions[:i], d.Missions[i+1:]...)
		d.MissionsCompleted++
		return m, nil
	}
	return Mission{}, ErrNoMission
}

// Mission returns the active mission with id.
func (d *Diplomacy) Mission(id int) (Mission, bool) {
	for _, m := range d.Missions {
		if m.ID == id {
			return m, true
		}
	}
	return Mission{}, false
}

// AssignMission issues the template of the given type.
func (d *Diplomacy) AssignMission(kind string) (Mission, bool) {
	for _, t := range missionTemplates {
		if t.Type == kind {
			d.MissionCounter++
			t.ID = d.MissionCounter
			d.Missions = append(d.Missions, t)
			return t, true
		}
	}
	return Mission{}, false
}

// PayDemand satisfies a foreign tribute demand.
func (d *Diplomacy) PayDemand(i int, l *ledger.Ledger) (Demand, error) {
	if i < 0 || i >= len(d.Demands) {
		return Demand{}, ErrNoDemand
	}
	dm := d.Demands[i]
	if err := l.Spend(ledger.Amounts{ledger.Gold: dm.Amount}); err != nil {
		return Demand{}, fmt.Errorf("haraç talebi: %w", err)
	}
	d.Demands = append(d.Demands[:i], d.Demands[i+1:]...)
	d.AdjustRelation(dm.From, 10)
	return dm, nil
}

// TributeDue is the gold the vassals owe this turn.
func (d *Diplomacy) TributeDue() int {
	total := 0
	for _, v := range d.Vassals {
		total += v.Tribute
	}
	return total
}

// IsAlly reports whether target is bound by a dynastic alliance.
func (d *Diplomacy) IsAlly(target string) bool {
	for _, a := range d.Alliances {
		if a == target {
			return true
		}
	}
	return false
}

// IsVassal reports whether target pays tribute to the province.
func (d *Diplomacy) IsVassal(target string) bool {
	for _, v := range d.Vassals {
		if v.Name == target {
			return true
		}
	}
	return false
}

// TurnInput carries pipeline data into ProcessTurn.
type TurnInput struct {
	Rand          entropy.Rand
	MilitaryPower int
	// MarriageBonus raises the odds of every marriage negotiation stage.
	MarriageBonus float64
}

// TurnResult reports what changed during a diplomacy turn.
type TurnResult struct {
	LoyaltyDrift   int
	FavorDrift     int
	FailedMissions []Mission
	NewMission     *Mission
	NewDemands     []Demand
	IgnoredDemands []Demand
	Chains         []ChainEvent
	Warnings       []string
}

// ProcessTurn runs the Porte's drift, vassals, alliances, chains, momentum,
// missions and foreign demands in that order.
func (d *Diplomacy) ProcessTurn(in TurnInput) TurnResult {
	var res TurnResult
	rng := in.Rand
	if d.EnvoyCooldown > 0 {
		d.EnvoyCooldown--
	}
	if d.SultanLoyalty > 70 && rng.Chance(0.2) {
		d.SultanLoyalty--
		res.LoyaltyDrift = -1
	}
	if d.SultanFavor > 30 && rng.Chance(0.5) {
		d.SultanFavor--
		res.FavorDrift = -1
	}
	if d.SultanLoyalty < 30 {
		res.Warnings = append(res.Warnings, "Padişah sadakatinizden şüphe ediyor!")
	}

	for i := range d.Vassals {
		d.Vassals[i].Turns++
		d.AdjustRelation(d.Vassals[i].Name, -1)
	}
	for _, a := range d.Alliances {
		d.AdjustRelation(a, 1)
	}

	res.Chains = d.processChains(in)
	d.applyMomentum()

	for i := len(d.Missions) - 1; i >= 0; i-- {
		d.Missions[i].TurnsRemaining--
		if d.Missions[i].TurnsRemaining > 0 {
			continue
		}
		m := d.Missions[i]
		d.Missions = append(d.Missions[:i], d.Missions[i+1:]...)
		d.AdjustLoyalty(-10)
		d.AdjustFavor(-15)
		d.MissionsFailed++
		res.FailedMissions = append(res.FailedMissions, m)
	}
	if len(d.Missions) == 0 && d.SultanLoyalty > 20 && rng.Chance(MissionChance) {
		t := missionTemplates[rng.IntN(len(missionTemplates))]
		if m, ok := d.AssignMission(t.Type); ok {
			res.NewMission = &m
		}
	}

	kept := d.Demands[:0]
	for _, dm := range d.Demands {
		dm.TurnsLeft--
		if dm.TurnsLeft > 0 {
			kept = append(kept, dm)
			continue
		}
		d.AdjustRelation(dm.From, -15)
		res.IgnoredDemands = append(res.IgnoredDemands, dm)
	}
	d.Demands = kept
	for _, r := range d.Hostile() {
		if d.hasDemand(r.Target) {
			continue
		}
		if rng.Chance(0.05 * (1 + r.Modifiers().Tribute)) {
			dm := Demand{From: r.Target, Amount: 500 + 10*(-r.Value), TurnsLeft: DemandDuration}
			d.Demands = append(d.Demands, dm)
			res.NewDemands = append(res.NewDemands, dm)
		}
	}
	return res
}

func (d *Diplomacy) hasDemand(from string) bool {
	for _, dm := range d.Demands {
		if dm.From == from {
			return true
		}
	}
	return false
}

// Sanitize clamps values and drops records that no longer resolve.
func (d *Diplomacy) Sanitize() {
	d.SultanLoyalty = max(0, min(100, d.SultanLoyalty))
	d.SultanFavor = max(0, min(100, d.SultanFavor))
	if d.Neighbors == nil {
		d.Neighbors = make(map[string]*Relation)
	}
	for n, r := range d.Neighbors {
		if r == nil {
			delete(d.Neighbors, n)
			continue
		}
		r.Target = n
		if _, ok := personalities[r.Personality]; !ok {
			r.Personality = ""
		}
		r.adjust(0)
	}
	missions := d.Missions[:0]
	for _, m := range d.Missions {
		known := false
		for _, t := range missionTemplates {
			known = known || t.Type == m.Type
		}
		if known && m.TurnsRemaining > 0 {
			missions = append(missions, m)
			d.MissionCounter = max(d.MissionCounter, m.ID)
		}
	}
	d.Missions = missions
	chains := d.Chains[:0]
	for _, c := range d.Chains {
		if c == nil {
			continue
		}
		def, ok := chainStages[c.Type]
		if !ok || c.Stage < 0 || c.Stage >= len(def.stages) {
			continue
		}
		if c.Data == nil {
			c.Data = make(map[string]int)
		}
		chains = append(chains, c)
	}
	d.Chains = chains
	moms := d.Momentum[:0]
	for _, m := range d.Momentum {
		if m.TurnsLeft > 0 {
			moms = append(moms, m)
		}
	}
	d.Momentum = moms
	d.EnvoyCooldown = max(0, min(EnvoyCooldown, d.EnvoyCooldown))
}
