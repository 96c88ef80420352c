// Package achievements tracks cumulative play statistics and unlocks
// milestones at the end of every turn. Its state lives in a single file
// shared by every save slot.
package achievements

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Category groups achievements for display.
type Category string

const (
	Economic   Category = "economic"
	Military   Category = "military"
	Diplomatic Category = "diplomatic"
	Social     Category = "social"
	Hidden     Category = "hidden"
)

// Counter names kept in Stats.
const (
	GoldEarned      = "total_gold_earned"
	BuildingsBuilt  = "buildings_built"
	BattlesWon      = "battles_won"
	ShipsBuilt      = "ships_built"
	CannonsProduced = "cannons_produced"
	SpyMissions     = "spy_missions_completed"
	AlliancesFormed = "alliances_formed"
	Negotiations    = "negotiations_completed"
	RaidsCompleted  = "raids_completed"
	RebellionsCrush = "rebellions_crushed"
	DefenseWins     = "defense_victories"
	TurnsPlayed     = "turns_played"
	TurnsWithoutWar = "turns_without_war"
	TurnsWithoutTax = "turns_without_tax"
)

var counters = []string{
	GoldEarned, BuildingsBuilt, BattlesWon, ShipsBuilt, CannonsProduced,
	SpyMissions, AlliancesFormed, Negotiations, RaidsCompleted,
	RebellionsCrush, DefenseWins, TurnsPlayed, TurnsWithoutWar, TurnsWithoutTax,
}

// Snapshot is the settled end-of-turn state the thresholds are read from.
type Snapshot struct {
	Gold          int
	TradeRoutes   int
	Income        int
	TaxRate       float64
	Workers       int
	Ships         int
	Cannons       int
	Janissaries   int
	Alliances     int
	SpyMissions   int
	Vassals       int
	Population    int
	Happiness     int
	Education     int
	Ulema         int
	Vakifs        int
	MilletLoyalty map[string]int
	AtWar         bool
}

// Achievement is a static definition.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Points      int
	Target      int
	Hidden      bool

	value func(Snapshot, map[string]int) int
	met   func(Snapshot, map[string]int) bool
}

// Announcement is the line read out when the achievement unlocks.
func (a Achievement) Announcement() string {
	if a.Hidden {
		return fmt.Sprintf("Gizli başarı açıldı: %s!", a.Name)
	}
	return fmt.Sprintf("Başarı açıldı: %s! %d puan", a.Name, a.Points)
}

func (a Achievement) reached(s Snapshot, stats map[string]int) bool {
	if a.met != nil {
		return a.met(s, stats)
	}
	return a.value(s, stats) >= a.Target
}

func (a Achievement) current(s Snapshot, stats map[string]int) int {
	if a.value == nil {
		return 0
	}
	return a.value(s, stats)
}

func stat(name string) func(Snapshot, map[string]int) int {
	return func(_ Snapshot, st map[string]int) int { return st[name] }
}

func field(f func(Snapshot) int) func(Snapshot, map[string]int) int {
	return func(s Snapshot, _ map[string]int) int { return f(s) }
}

var catalog = []Achievement{
	{ID: "treasury_master", Name: "Hazine Efendisi", Description: "100.000 altın biriktir", Category: Economic, Points: 50, Target: 100000,
		value: field(func(s Snapshot) int { return s.Gold })},
	{ID: "trade_emperor", Name: "Ticaret İmparatoru", Description: "5 aktif ticaret yolu kur", Category: Economic, Points: 30, Target: 5,
		value: field(func(s Snapshot) int { return s.TradeRoutes })},
	{ID: "master_builder", Name: "İnşaat Ustası", Description: "50 bina inşa et", Category: Economic, Points: 40, Target: 50,
		value: stat(BuildingsBuilt)},
	{ID: "tax_reformer", Name: "Vergi Reformcusu", Description: "%0 isyan ile %20 vergi al", Category: Economic, Points: 25, Target: 1,
		met: func(s Snapshot, _ map[string]int) bool { return s.TaxRate >= 0.20 && s.Happiness >= 70 }},
	{ID: "wealthy_province", Name: "Zengin Eyalet", Description: "Tek turda 10.000 altın geliri elde et", Category: Economic, Points: 35, Target: 10000,
		value: field(func(s Snapshot) int { return s.Income })},
	{ID: "worker_army", Name: "İşçi Ordusu", Description: "100 işçi istihdam et", Category: Economic, Points: 30, Target: 100,
		value: field(func(s Snapshot) int { return s.Workers })},

	{ID: "conqueror", Name: "Fatih", Description: "10 savaş kazan", Category: Military, Points: 50, Target: 10,
		value: stat(BattlesWon)},
	{ID: "sea_lord", Name: "Denizlerin Hakimi", Description: "50 gemi inşa et", Category: Military, Points: 40, Target: 50,
		value: field(func(s Snapshot) int { return s.Ships })},
	{ID: "artillery_master", Name: "Topçu Ocağı", Description: "100 top üret", Category: Military, Points: 35, Target: 100,
		value: field(func(s Snapshot) int { return s.Cannons })},
	{ID: "janissary_aga", Name: "Yeniçeri Ağası", Description: "10.000 yeniçeri topla", Category: Military, Points: 45, Target: 10000,
		value: field(func(s Snapshot) int { return s.Janissaries })},
	{ID: "defender", Name: "Müdafi", Description: "5 savunma savaşı kazan", Category: Military, Points: 30, Target: 5,
		value: stat(DefenseWins)},
	{ID: "raider", Name: "Akıncı Beyi", Description: "20 başarılı akın yap", Category: Military, Points: 25, Target: 20,
		value: stat(RaidsCompleted)},

	{ID: "peacemaker", Name: "Barış Elçisi", Description: "5 ittifak kur", Category: Diplomatic, Points: 30, Target: 5,
		value: field(func(s Snapshot) int { return s.Alliances })},
	{ID: "spy_master", Name: "Casusluk Ustası", Description: "20 başarılı casusluk görevi tamamla", Category: Diplomatic, Points: 35, Target: 20,
		value: field(func(s Snapshot) int { return s.SpyMissions })},
	{ID: "negotiator", Name: "Müzakereci", Description: "10 başarılı müzakere tamamla", Category: Diplomatic, Points: 30, Target: 10,
		value: stat(Negotiations)},
	{ID: "tribute_collector", Name: "Haraç Toplayıcı", Description: "3 devletten haraç al", Category: Diplomatic, Points: 25, Target: 3,
		value: field(func(s Snapshot) int { return s.Vassals })},

	{ID: "peoples_sultan", Name: "Halkın Sultanı", Description: "100.000 nüfusa ulaş", Category: Social, Points: 45, Target: 100000,
		value: field(func(s Snapshot) int { return s.Population })},
	{ID: "millet_father", Name: "Millet Babası", Description: "Tüm milletlerde %80+ sadakat sağla", Category: Social, Points: 40, Target: 1,
		met: func(s Snapshot, _ map[string]int) bool {
			if len(s.MilletLoyalty) == 0 {
				return false
			}
			for _, l := range s.MilletLoyalty {
				if l < 80 {
					return false
				}
			}
			return true
		}},
	{ID: "religious_leader", Name: "Din Önderi", Description: "10 ulema ata", Category: Social, Points: 25, Target: 10,
		value: field(func(s Snapshot) int { return s.Ulema })},
	{ID: "philanthropist", Name: "Hayırsever", Description: "20 vakıf inşa et", Category: Social, Points: 30, Target: 20,
		value: field(func(s Snapshot) int { return s.Vakifs })},
	{ID: "educator", Name: "Eğitimci", Description: "Eğitim seviyesini %80'e çıkar", Category: Social, Points: 35, Target: 80,
		value: field(func(s Snapshot) int { return s.Education })},
	{ID: "happy_realm", Name: "Mutlu Diyar", Description: "%90 halk mutluluğuna ulaş", Category: Social, Points: 30, Target: 90,
		value: field(func(s Snapshot) int { return s.Happiness })},

	{ID: "survivor", Name: "Hayatta Kalan", Description: "???", Category: Hidden, Points: 50, Target: 100, Hidden: true,
		value: stat(TurnsPlayed)},
	{ID: "pacifist", Name: "Barışçı", Description: "???", Category: Hidden, Points: 40, Target: 50, Hidden: true,
		value: stat(TurnsWithoutWar)},
	{ID: "generous", Name: "Cömert", Description: "???", Category: Hidden, Points: 30, Target: 10, Hidden: true,
		value: stat(TurnsWithoutTax)},
	{ID: "iron_fist", Name: "Demir Yumruk", Description: "???", Category: Hidden, Points: 35, Target: 5, Hidden: true,
		value: stat(RebellionsCrush)},
}

var byID = func() map[string]Achievement {
	m := make(map[string]Achievement, len(catalog))
	for _, a := range catalog {
		m[a.ID] = a
	}
	return m
}()

// Catalog returns every definition in display order.
func Catalog() []Achievement { return append([]Achievement(nil), catalog...) }

// Lookup returns a definition by id.
func Lookup(id string) (Achievement, bool) {
	a, ok := byID[id]
	return a, ok
}

// Progress is the persisted per-achievement state.
type Progress struct {
	Unlocked     bool    `json:"unlocked"`
	UnlockDate   string  `json:"unlock_date,omitempty"`
	Progress     float64 `json:"progress"`
	CurrentValue int     `json:"current_value"`
}

// Tracker holds the counters and unlock state.
type Tracker struct {
	Stats        map[string]int       `json:"stats"`
	Achievements map[string]*Progress `json:"achievements"`

	now func() time.Time
}

// New returns a tracker with every counter at zero.
func New() *Tracker {
	t := &Tracker{now: time.Now}
	t.Sanitize()
	return t
}

// SetClock replaces the wall clock used for unlock dates.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

// Increment bumps a named counter. Unknown names are ignored.
func (t *Tracker) Increment(name string, n int) {
	if _, ok := t.Stats[name]; ok {
		t.Stats[name] += n
	}
}

// Reset zeroes a named counter.
func (t *Tracker) Reset(name string) {
	if _, ok := t.Stats[name]; ok {
		t.Stats[name] = 0
	}
}

// OnTurnEnd advances the per-turn counters and evaluates every locked
// achievement. It returns the newly unlocked definitions in catalog order.
func (t *Tracker) OnTurnEnd(s Snapshot) []Achievement {
	t.Stats[TurnsPlayed]++
	if s.AtWar {
		t.Stats[TurnsWithoutWar] = 0
	} else {
		t.Stats[TurnsWithoutWar]++
	}
	if s.TaxRate == 0 {
		t.Stats[TurnsWithoutTax]++
	} else {
		t.Stats[TurnsWithoutTax] = 0
	}
	return t.Check(s)
}

// Check evaluates the locked achievements without touching the counters.
func (t *Tracker) Check(s Snapshot) []Achievement {
	now := t.now
	if now == nil {
		now = time.Now
	}
	var unlocked []Achievement
	for _, a := range catalog {
		p := t.Achievements[a.ID]
		if p.Unlocked {
			continue
		}
		if a.reached(s, t.Stats) {
			p.Unlocked = true
			p.UnlockDate = now().Format("2006-01-02 15:04")
			p.Progress = 100
			p.CurrentValue = a.Target
			unlocked = append(unlocked, a)
			continue
		}
		p.CurrentValue = a.current(s, t.Stats)
		p.Progress = 0
		if a.Target > 1 {
			p.Progress = min(100, float64(p.CurrentValue)/float64(a.Target)*100)
		}
	}
	return unlocked
}

// Points is the sum of unlocked achievement points.
func (t *Tracker) Points() int {
	total := 0
	for _, a := range catalog {
		if t.Achievements[a.ID].Unlocked {
			total += a.Points
		}
	}
	return total
}

// Unlocked returns the unlocked definitions.
func (t *Tracker) Unlocked() []Achievement {
	var out []Achievement
	for _, a := range catalog {
		if t.Achievements[a.ID].Unlocked {
			out = append(out, a)
		}
	}
	return out
}

// Locked returns the locked definitions; hidden ones only on request.
func (t *Tracker) Locked(includeHidden bool) []Achievement {
	var out []Achievement
	for _, a := range catalog {
		if t.Achievements[a.ID].Unlocked || (a.Hidden && !includeHidden) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ByCategory returns the definitions of one category.
func ByCategory(c Category) []Achievement {
	var out []Achievement
	for _, a := range catalog {
		if a.Category == c {
			out = append(out, a)
		}
	}
	return out
}

// Completion is the unlocked share in percent.
func (t *Tracker) Completion() float64 {
	return float64(len(t.Unlocked())) / float64(len(catalog)) * 100
}

// ProgressOf returns the state of one achievement.
func (t *Tracker) ProgressOf(id string) (Progress, bool) {
	p, ok := t.Achievements[id]
	if !ok {
		return Progress{}, false
	}
	return *p, true
}

// Sanitize fills missing counters and entries and drops unknown ids.
func (t *Tracker) Sanitize() {
	if t.Stats == nil {
		t.Stats = make(map[string]int, len(counters))
	}
	known := make(map[string]bool, len(counters))
	for _, c := range counters {
		known[c] = true
		t.Stats[c] = max(0, t.Stats[c])
	}
	for k := range t.Stats {
		if !known[k] {
			delete(t.Stats, k)
		}
	}
	if t.Achievements == nil {
		t.Achievements = make(map[string]*Progress, len(catalog))
	}
	for id, p := range t.Achievements {
		if _, ok := byID[id]; !ok || p == nil {
			delete(t.Achievements, id)
			continue
		}
		p.Progress = max(0, min(100, p.Progress))
	}
	for _, a := range catalog {
		if _, ok := t.Achievements[a.ID]; !ok {
			t.Achievements[a.ID] = &Progress{}
		}
	}
}

// Load reads the tracker from path. A missing file yields a fresh tracker.
// A malformed file yields a fresh tracker and the decode error.
func Load(path string) (*Tracker, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return New(), fmt.Errorf("read achievements: %w", err)
	}
	t := &Tracker{now: time.Now}
	if err := json.Unmarshal(data, t); err != nil {
		return New(), fmt.Errorf("decode achievements: %w", err)
	}
	t.Sanitize()
	return t, nil
}

// Save writes the tracker to path through a temporary file and rename.
func (t *Tracker) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode achievements: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create achievements dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".achievements-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write achievements: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close achievements: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename achievements: %w", err)
	}
	return nil
}
