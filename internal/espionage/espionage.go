// Package espionage runs the governor's intelligence service: spies,
// missions against neighboring courts and passive counter-intelligence.
package espionage

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/talgya/eyalet/internal/effect"
	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrUnknownSpy       = errors.New("bilinmeyen casus türü")
	ErrUnknownOperation = errors.New("bilinmeyen operasyon")
	ErrNoSpy            = errors.New("uygun casus bulunamadı")
	ErrSkill            = errors.New("casusun becerisi yetersiz")
	ErrFemaleOnly       = errors.New("yalnızca kadın valiler kullanabilir")
	ErrNotCaptured      = errors.New("kurtarılacak yakalanmış casus yok")
)

// Spy statuses.
const (
	Idle      = "idle"
	OnMission = "on_mission"
	Captured  = "captured"
	Dead      = "dead"
)

// Home is the location of a spy not posted abroad.
const Home = "home"

// RansomCost is paid for each rescue attempt; RescueChance is its odds.
const (
	RansomCost   = 500
	RescueChance = 0.6
)

// SpyType is a class of agent.
type SpyType string

const (
	Cavus  SpyType = "cavus"
	Hafiye SpyType = "hafiye"
	Dervis SpyType = "dervis"
	Tebdil SpyType = "tebdil"
	Cariye SpyType = "cariye"
)

// SpyStats describes a spy class.
type SpyStats struct {
	Name        string
	Cost        int
	Maintenance int
	Skill       int
	Stealth     int
	FemaleOnly  bool
}

var spyStats = map[SpyType]SpyStats{
	Cavus:  {Name: "Çavuş", Cost: 200, Maintenance: 10, Skill: 7, Stealth: 5},
	Hafiye: {Name: "Hafiye", Cost: 100, Maintenance: 5, Skill: 5, Stealth: 8},
	Dervis: {Name: "Gezgin Derviş", Cost: 150, Maintenance: 3, Skill: 6, Stealth: 9},
	Tebdil: {Name: "Tebdil Gezen", Cost: 180, Maintenance: 8, Skill: 8, Stealth: 7},
	Cariye: {Name: "Saray Cariyesi", Cost: 250, Maintenance: 15, Skill: 8, Stealth: 9, FemaleOnly: true},
}

// SpyTypes lists the classes in display order.
var SpyTypes = []SpyType{Cavus, Hafiye, Dervis, Tebdil, Cariye}

// Stats returns the class table row.
func (t SpyType) Stats() (SpyStats, bool) {
	s, ok := spyStats[t]
	return s, ok
}

// Operation is a kind of mission.
type Operation string

const (
	Kesif      Operation = "kesif"
	Sabotaj    Operation = "sabotaj"
	Suikast    Operation = "suikast"
	Fitne      Operation = "fitne"
	Karsi      Operation = "karsi"
	Propaganda Operation = "propaganda"
	Harem      Operation = "harem"
)

// OperationStats describes a mission kind and what it yields on success.
type OperationStats struct {
	Name          string
	Cost          int
	Duration      int
	Risk          float64
	RequiredSkill int
	Effects       map[string]int
	FemaleOnly    bool
}

var operations = map[Operation]OperationStats{
	Kesif:      {"Keşif", 50, 2, 0.2, 3, map[string]int{"intelligence": 1}, false},
	Sabotaj:    {"Sabotaj", 150, 3, 0.5, 5, map[string]int{"enemy_production": -20}, false},
	Suikast:    {"Suikast", 300, 4, 0.8, 8, map[string]int{"enemy_morale": -30, "enemy_leadership": -1}, false},
	Fitne:      {"Fitne Çıkarma", 200, 5, 0.6, 7, map[string]int{"enemy_stability": -25}, false},
	Karsi:      {"Karşı İstihbarat", 100, 1, 0.3, 4, map[string]int{"security": 10}, false},
	Propaganda: {"Propaganda", 80, 2, 0.2, 4, map[string]int{"happiness": 5, "loyalty": 3}, false},
	Harem:      {"Harem İstihbaratı", 200, 3, 0.4, 6, map[string]int{"sultan_loyalty": 15, "intelligence": 2}, true},
}

// Operations lists the mission kinds in display order.
var Operations = []Operation{Kesif, Sabotaj, Suikast, Fitne, Karsi, Propaganda, Harem}

// Stats returns the operation table row.
func (o Operation) Stats() (OperationStats, bool) {
	s, ok := operations[o]
	return s, ok
}

// Effects returns the routable outcome of a successful mission.
func (o Operation) Effects() effect.Bundle {
	b, _ := effect.FromMap(operations[o].Effects)
	return b
}

var difficulty = map[string]int{
	"Safevi Devleti":      7,
	"Venedik Cumhuriyeti": 8,
	"Macaristan Krallığı": 5,
	"Mısır Eyaleti":       3,
	"Rodos Şövalyeleri":   6,
}

// DefaultDifficulty applies to courts without a known intelligence service.
const DefaultDifficulty = 5

// Difficulty returns how hard target is to penetrate.
func Difficulty(target string) int {
	if d, ok := difficulty[target]; ok {
		return d
	}
	return DefaultDifficulty
}

// Spy is one agent on the roster.
type Spy struct {
	ID             string  `json:"spy_id"`
	Type           SpyType `json:"spy_type"`
	Name           string  `json:"name"`
	Skill          int     `json:"skill"`
	Experience     int     `json:"experience"`
	Location       string  `json:"location"`
	Status         string  `json:"status"`
	CurrentMission string  `json:"current_mission,omitempty"`
	TurnsRemaining int     `json:"turns_remaining"`
}

// Mission is an operation in progress.
type Mission struct {
	ID             string    `json:"mission_id"`
	Operation      Operation `json:"operation"`
	SpyID          string    `json:"spy_id"`
	Target         string    `json:"target"`
	TurnsRemaining int       `json:"turns_remaining"`
	SuccessChance  float64   `json:"success_chance"`
}

// Espionage is the intelligence subsystem.
type Espionage struct {
	Spies           []*Spy     `json:"spies"`
	Missions        []*Mission `json:"active_missions"`
	SpyCounter      int        `json:"spy_counter"`
	MissionCounter  int        `json:"mission_counter"`
	Intelligence    int        `json:"intelligence_level"`
	Security        int        `json:"security_level"`
	KnownEnemySpies int        `json:"known_enemy_spies"`
	Successful      int        `json:"successful_missions"`
	Failed          int        `json:"failed_missions"`
	SpiesLost       int        `json:"spies_lost"`
}

// New returns an empty service at middling security.
func New() *Espionage {
	return &Espionage{Security: 50}
}

var (
	courtNames  = []string{"Hüsrev", "Rüstem", "Ferhad", "Lütfi", "Sinan", "İskender", "Davud", "Piyale", "Nasuh", "Kasım"}
	courtTitles = []string{"Ağa", "Efendi", "Bey", "Çelebi", ""}
	sufiNames   = []string{"Abdülkadir", "Hacı Bayram", "Akşemseddin", "Baba İlyas", "Abdal Musa", "Sarı Saltuk"}
	sufiTitles  = []string{"Dede", "Baba", "Efendi", ""}
	haremNames  = []string{"Gülbahar", "Nilüfer", "Gülfem", "Dilşad", "Gevherhan", "Hümaşah", "Safiye", "Mihrimah"}
	haremTitles = []string{"Hatun", "Kadın", ""}
)

func spyName(t SpyType, rng entropy.Rand) string {
	names, titles := courtNames, courtTitles
	switch t {
	case Dervis:
		names, titles = sufiNames, sufiTitles
	case Cariye:
		names, titles = haremNames, haremTitles
	}
	return strings.TrimSpace(names[rng.IntN(len(names))] + " " + titles[rng.IntN(len(titles))])
}

// Recruit hires a spy of class t. Skill rolls -1..+2 around the class base.
func (e *Espionage) Recruit(t SpyType, female bool, l *ledger.Ledger, rng entropy.Rand) (*Spy, error) {
	st, ok := spyStats[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSpy, t)
	}
	if st.FemaleOnly && !female {
		return nil, ErrFemaleOnly
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: st.Cost}); err != nil {
		return nil, fmt.Errorf("casus toplama: %w", err)
	}
	e.SpyCounter++
	s := &Spy{
		ID:       fmt.Sprintf("spy_%d", e.SpyCounter),
		Type:     t,
		Name:     spyName(t, rng),
		Skill:    st.Skill + rng.Range(-1, 2),
		Location: Home,
		Status:   Idle,
	}
	e.Spies = append(e.Spies, s)
	return s, nil
}

// Spy looks up a roster entry.
func (e *Espionage) Spy(id string) (*Spy, bool) {
	for _, s := range e.Spies {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Available returns idle spies.
func (e *Espionage) Available() []*Spy {
	var out []*Spy
	for _, s := range e.Spies {
		if s.Status == Idle {
			out = append(out, s)
		}
	}
	return out
}

// Count is the number of spies still alive.
func (e *Espionage) Count() int {
	n := 0
	for _, s := range e.Spies {
		if s.Status != Dead {
			n++
		}
	}
	return n
}

// Maintenance is the per-turn upkeep of spies at home or abroad.
func (e *Espionage) Maintenance() int {
	total := 0
	for _, s := range e.Spies {
		if s.Status == Idle || s.Status == OnMission {
			total += spyStats[s.Type].Maintenance
		}
	}
	return total
}

// SuccessChance is the percent chance a spy completes op against target.
func SuccessChance(s *Spy, op Operation, target string, bonus float64) float64 {
	st := operations[op]
	c := float64(s.Skill*10) - float64(Difficulty(target)*5) - st.Risk*30 + bonus*100
	return max(10, min(90, c))
}

// StartMission posts an idle spy on op against target.
func (e *Espionage) StartMission(spyID string, op Operation, target string, bonus float64, female bool, l *ledger.Ledger) (*Mission, error) {
	st, ok := operations[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
	if st.FemaleOnly && !female {
		return nil, ErrFemaleOnly
	}
	s, ok := e.Spy(spyID)
	if !ok || s.Status != Idle {
		return nil, ErrNoSpy
	}
	if s.Skill < st.RequiredSkill {
		return nil, fmt.Errorf("%w: en az %d gerekli", ErrSkill, st.RequiredSkill)
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: st.Cost}); err != nil {
		return nil, fmt.Errorf("görev: %w", err)
	}
	e.MissionCounter++
	m := &Mission{
		ID:             fmt.Sprintf("mission_%d", e.MissionCounter),
		Operation:      op,
		SpyID:          spyID,
		Target:         target,
		TurnsRemaining: st.Duration,
		SuccessChance:  SuccessChance(s, op, target, bonus),
	}
	s.Status = OnMission
	s.CurrentMission = m.ID
	s.Location = target
	s.TurnsRemaining = st.Duration
	e.Missions = append(e.Missions, m)
	return m, nil
}

// Rescue pays the ransom for a captured spy. The spy returns home on
// success and is executed otherwise.
func (e *Espionage) Rescue(spyID string, l *ledger.Ledger, rng entropy.Rand) (bool, error) {
	s, ok := e.Spy(spyID)
	if !ok || s.Status != Captured {
		return false, ErrNotCaptured
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: RansomCost}); err != nil {
		return false, fmt.Errorf("fidye: %w", err)
	}
	if rng.Chance(RescueChance) {
		s.Status = Idle
		s.Location = Home
		return true, nil
	}
	s.Status = Dead
	return false, nil
}

// AdjustSecurity shifts internal security within 0..100.
func (e *Espionage) AdjustSecurity(v int) {
	e.Security = max(0, min(100, e.Security+v))
}

// AdjustIntelligence shifts the knowledge held on enemy courts.
func (e *Espionage) AdjustIntelligence(v int) {
	e.Intelligence = max(0, min(100, e.Intelligence+v))
}

// Outcome is a finished mission.
type Outcome struct {
	Spy       string
	Operation Operation
	Target    string
	Effects   effect.Bundle
}

// TurnResult is what a turn of espionage produced.
type TurnResult struct {
	Completed []Outcome
	Failed    []Outcome
	Captured  []string
	// Detected names the court whose agent counter-intelligence caught.
	Detected string
}

var enemyCourts = []string{"Safevi", "Venedik", "Macar", "Şövalye"}

// ProcessTurn advances missions, rolls counter-intelligence and lets
// security decay by one.
func (e *Espionage) ProcessTurn(rng entropy.Rand) TurnResult {
	var res TurnResult
	kept := e.Missions[:0]
	for _, m := range e.Missions {
		m.TurnsRemaining--
		s, ok := e.Spy(m.SpyID)
		if !ok {
			continue
		}
		if m.TurnsRemaining > 0 {
			s.TurnsRemaining = m.TurnsRemaining
			kept = append(kept, m)
			continue
		}
		out := Outcome{Spy: s.Name, Operation: m.Operation, Target: m.Target}
		s.CurrentMission = ""
		s.TurnsRemaining = 0
		if rng.Float()*100 < m.SuccessChance {
			s.Experience += 10
			s.Status = Idle
			s.Location = Home
			e.Successful++
			out.Effects = m.Operation.Effects()
			res.Completed = append(res.Completed, out)
			continue
		}
		e.Failed++
		res.Failed = append(res.Failed, out)
		if rng.Chance(operations[m.Operation].Risk * 0.5) {
			s.Status = Captured
			e.SpiesLost++
			res.Captured = append(res.Captured, s.Name)
			continue
		}
		s.Status = Idle
		s.Location = Home
	}
	e.Missions = kept

	if rng.Chance(float64(e.Security) / 100 * 0.3) {
		e.KnownEnemySpies++
		e.AdjustSecurity(5)
		res.Detected = enemyCourts[rng.IntN(len(enemyCourts))]
	}
	e.AdjustSecurity(-1)
	return res
}

// Sanitize repairs a loaded roster: unknown classes and operations are
// dropped and every spy's status agrees with its mission.
func (e *Espionage) Sanitize() {
	spies := e.Spies[:0]
	for _, s := range e.Spies {
		if s == nil {
			continue
		}
		if _, ok := spyStats[s.Type]; !ok {
			continue
		}
		switch s.Status {
		case Idle, OnMission, Captured, Dead:
		default:
			s.Status = Idle
		}
		if s.Location == "" {
			s.Location = Home
		}
		spies = append(spies, s)
	}
	e.Spies = spies

	missions := e.Missions[:0]
	posted := make(map[string]string)
	for _, m := range e.Missions {
		if m == nil {
			continue
		}
		if _, ok := operations[m.Operation]; !ok {
			continue
		}
		s, ok := e.Spy(m.SpyID)
		if !ok || s.Status == Captured || s.Status == Dead {
			continue
		}
		if _, dup := posted[s.ID]; dup {
			continue
		}
		m.TurnsRemaining = max(1, m.TurnsRemaining)
		m.SuccessChance = max(10, min(90, m.SuccessChance))
		posted[s.ID] = m.ID
		missions = append(missions, m)
	}
	e.Missions = missions

	for _, s := range e.Spies {
		if id, ok := posted[s.ID]; ok {
			s.Status = OnMission
			s.CurrentMission = id
			continue
		}
		s.CurrentMission = ""
		if s.Status == OnMission {
			s.Status = Idle
			s.Location = Home
			s.TurnsRemaining = 0
		}
	}

	e.SpyCounter = max(e.SpyCounter, maxSuffix(e.spyIDs(), "spy_"))
	e.MissionCounter = max(e.MissionCounter, maxSuffix(e.missionIDs(), "mission_"))
	e.Security = max(0, min(100, e.Security))
	e.Intelligence = max(0, min(100, e.Intelligence))
}

func (e *Espionage) spyIDs() []string {
	ids := make([]string, len(e.Spies))
	for i, s := range e.Spies {
		ids[i] = s.ID
	}
	return ids
}

func (e *Espionage) missionIDs() []string {
	ids := make([]string, len(e.Missions))
	for i, m := range e.Missions {
		ids[i] = m.ID
	}
	return ids
}

func maxSuffix(ids []string, prefix string) int {
	best := 0
	for _, id := range ids {
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(id, prefix), "%d", &n); err == nil && n > best {
			best = n
		}
	}
	return best
}

// Targets lists the courts with a known difficulty, in name order.
func Targets() []string {
	out := make([]string, 0, len(difficulty))
	for t := range difficulty {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
