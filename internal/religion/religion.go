// Package religion covers the province's religious and cultural life:
// the millets, the ulema roster, pious endowments (vakıf) and fatwas.
package religion

import (
	"errors"
	"fmt"
	"sort"

	"github.com/talgya/eyalet/internal/effect"
	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrNoSeyhulislam = errors.New("fetva için Şeyhülislam gerekli")
	ErrFatwaIssued   = errors.New("bu tur zaten bir fetva verildi")
	ErrUnknownFatwa  = errors.New("bilinmeyen fetva konusu")
	ErrReservedRank  = errors.New("Şeyhülislam yalnızca Padişah tarafından atanır")
	ErrUnknownRank   = errors.New("bilinmeyen ulema makamı")
	ErrRankFull      = errors.New("bu makam için kadro dolu")
	ErrUnknownVakif  = errors.New("bilinmeyen vakıf türü")
	ErrPopulation    = errors.New("nüfus yetersiz")
	ErrNoVakif       = errors.New("böyle bir vakıf yok")
	ErrVakifIntact   = errors.New("vakıf onarıma ihtiyaç duymuyor")
)

// Fatwa cost and the legitimacy each ruling adds.
const (
	FatwaCost       = 50
	FatwaLegitimacy = 5
)

// Millet is a confessional community.
type Millet string

const (
	Muslim  Millet = "muslim"
	Rum     Millet = "rum"
	Ermeni  Millet = "ermeni"
	Yahudi  Millet = "yahudi"
	Suryani Millet = "suryani"
)

// Millets lists the communities in display order.
var Millets = []Millet{Muslim, Rum, Ermeni, Yahudi, Suryani}

type milletDef struct {
	name        string
	leader      string
	loyaltyBase int
	tradeBonus  float64
}

var milletDefs = map[Millet]milletDef{
	Muslim:  {"Müslüman", "", 80, 0},
	Rum:     {"Rum Ortodoks", "Patrik", 50, 0.15},
	Ermeni:  {"Ermeni", "Patrik", 60, 0.20},
	Yahudi:  {"Yahudi", "Hahambaşı", 70, 0.25},
	Suryani: {"Süryani", "Patrik", 55, 0.10},
}

// Name returns the Turkish name of m.
func (m Millet) Name() string { return milletDefs[m].name }

// Leader is the title of the community's head before the Porte.
func (m Millet) Leader() string { return milletDefs[m].leader }

// MilletState is the loyalty and unrest of one community.
type MilletState struct {
	Loyalty    int `json:"loyalty"`
	Population int `json:"population"`
	Unrest     int `json:"unrest"`
	Autonomy   int `json:"autonomy"`
}

// Rank is an ulema office.
type Rank string

const (
	Seyhulislam Rank = "seyhulislam"
	Kadiasker   Rank = "kadiasker"
	Kadi        Rank = "kadi"
	Muderris    Rank = "muderris"
	Muftu       Rank = "muftu"
	Imam        Rank = "imam"
)

// RankStats describes an ulema office.
type RankStats struct {
	Name      string
	Salary    int
	Influence int
	MaxCount  int
}

var ranks = map[Rank]RankStats{
	Seyhulislam: {"Şeyhülislam", 100, 10, 1},
	Kadiasker:   {"Kadıasker", 50, 8, 2},
	Kadi:        {"Kadı", 20, 5, 10},
	Muderris:    {"Müderris", 15, 4, 20},
	Muftu:       {"Müftü", 10, 3, 5},
	Imam:        {"İmam", 5, 2, 50},
}

// Stats returns the office table row.
func (r Rank) Stats() (RankStats, bool) {
	s, ok := ranks[r]
	return s, ok
}

// AppointCost is a year of salary, paid up front.
func (r Rank) AppointCost() int { return ranks[r].Salary * 4 }

// VakifType is a kind of endowment.
type VakifType string

const (
	Cami        VakifType = "cami"
	Medrese     VakifType = "medrese"
	Imaret      VakifType = "imaret"
	Kervansaray VakifType = "kervansaray"
	Hastane     VakifType = "hastane"
	Hamam       VakifType = "hamam"
	Cesme       VakifType = "cesme"
)

// VakifTypes lists the endowments in display order.
var VakifTypes = []VakifType{Cami, Medrese, Imaret, Kervansaray, Hastane, Hamam, Cesme}

// VakifStats describes an endowment.
type VakifStats struct {
	Name               string
	Cost               int
	Maintenance        int
	Income             int
	RequiredPopulation int
}

var vakifs = map[VakifType]VakifStats{
	Cami:        {"Cami", 500, 10, 0, 1000},
	Medrese:     {"Medrese", 800, 20, 0, 3000},
	Imaret:      {"İmaret", 400, 15, 0, 2000},
	Kervansaray: {"Kervansaray", 600, 10, 0, 1500},
	Hastane:     {"Darüşşifa", 1000, 25, 0, 5000},
	Hamam:       {"Hamam", 300, 8, 10, 500},
	Cesme:       {"Çeşme", 150, 3, 0, 200},
}

// Stats returns the endowment table row.
func (t VakifType) Stats() (VakifStats, bool) {
	s, ok := vakifs[t]
	return s, ok
}

// Vakif is a built endowment.
type Vakif struct {
	ID        string    `json:"vakif_id"`
	Type      VakifType `json:"vakif_type"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	Condition int       `json:"condition"`
	Income    int       `json:"income"`
}

// Ulema is an appointed scholar.
type Ulema struct {
	ID      string `json:"ulema_id"`
	Rank    Rank   `json:"rank"`
	Name    string `json:"name"`
	Skill   int    `json:"skill"`
	Loyalty int    `json:"loyalty"`
}

// Religion is the religious and cultural subsystem.
type Religion struct {
	Millets            map[Millet]*MilletState `json:"millet_states"`
	Ulema              []*Ulema                `json:"ulema"`
	UlemaCounter       int                     `json:"ulema_counter"`
	HasSeyhulislam     bool                    `json:"has_seyhulislam"`
	Vakifs             []*Vakif                `json:"vakifs"`
	VakifCounter       int                     `json:"vakif_counter"`
	Piety              int                     `json:"piety"`
	Legitimacy         int                     `json:"legitimacy"`
	Tolerance          int                     `json:"tolerance"`
	Education          int                     `json:"education_level"`
	KizilbasThreat     int                     `json:"kizilbas_threat"`
	KizilbasSuppressed bool                    `json:"kizilbas_suppressed"`
	Conversions        int                     `json:"conversions"`
	RebellionsCrushed  int                     `json:"rebellions_suppressed"`
	FatwaIssued        bool                    `json:"fetva_issued_this_turn"`
}

// New returns the state of a province in 1520, after Çaldıran.
func New() *Religion {
	r := &Religion{
		HasSeyhulislam: true,
		Piety:          50,
		Legitimacy:     70,
		Tolerance:      60,
		Education:      30,
		KizilbasThreat: 15,
	}
	r.seedMillets()
	return r
}

func (r *Religion) seedMillets() {
	if r.Millets == nil {
		r.Millets = make(map[Millet]*MilletState)
	}
	for _, m := range Millets {
		if r.Millets[m] != nil {
			continue
		}
		st := &MilletState{Loyalty: milletDefs[m].loyaltyBase}
		if m != Muslim {
			st.Autonomy = 30
		}
		r.Millets[m] = st
	}
}

var (
	scholarNames = []string{"Mehmed", "Ahmed", "Mustafa", "Ali", "Süleyman", "İbrahim", "Abdülkerim", "Mahmud", "Kasım", "Lütfi"}
	hocaTitles   = []string{"Efendi", "Molla", "Hoca"}
)

func (r *Religion) ulemaName(rank Rank, rng entropy.Rand) string {
	name := scholarNames[rng.IntN(len(scholarNames))]
	switch rank {
	case Kadiasker:
		seat := "Rumeli"
		if r.Count(Kadiasker) > 0 {
			seat = "Anadolu"
		}
		return fmt.Sprintf("%s Kadıaskeri %s Efendi", seat, name)
	case Muderris:
		return hocaTitles[rng.IntN(len(hocaTitles))] + " " + name
	}
	return name + " Efendi"
}

// Count returns how many scholars hold rank.
func (r *Religion) Count(rank Rank) int {
	n := 0
	for _, u := range r.Ulema {
		if u.Rank == rank {
			n++
		}
	}
	return n
}

// Appoint fills an ulema office. The Şeyhülislam is not the governor's to appoint.
func (r *Religion) Appoint(rank Rank, l *ledger.Ledger, rng entropy.Rand) (*Ulema, error) {
	if rank == Seyhulislam {
		return nil, ErrReservedRank
	}
	st, ok := ranks[rank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRank, rank)
	}
	if r.Count(rank) >= st.MaxCount {
		return nil, fmt.Errorf("%w: en fazla %d %s", ErrRankFull, st.MaxCount, st.Name)
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: rank.AppointCost()}); err != nil {
		return nil, fmt.Errorf("ulema ataması: %w", err)
	}
	r.UlemaCounter++
	u := &Ulema{
		ID:      fmt.Sprintf("ulema_%d", r.UlemaCounter),
		Rank:    rank,
		Name:    r.ulemaName(rank, rng),
		Skill:   rng.Range(4, 8),
		Loyalty: rng.Range(60, 90),
	}
	r.Ulema = append(r.Ulema, u)
	return u, nil
}

// VakifCount returns how many endowments of type t stand.
func (r *Religion) VakifCount(t VakifType) int {
	n := 0
	for _, v := range r.Vakifs {
		if v.Type == t {
			n++
		}
	}
	return n
}

// Endow builds a vakıf. An empty name gets a numbered default.
func (r *Religion) Endow(t VakifType, population int, name string, l *ledger.Ledger) (*Vakif, error) {
	st, ok := vakifs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVakif, t)
	}
	if population < st.RequiredPopulation {
		return nil, fmt.Errorf("%w: en az %d gerekli", ErrPopulation, st.RequiredPopulation)
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: st.Cost}); err != nil {
		return nil, fmt.Errorf("vakıf inşası: %w", err)
	}
	r.VakifCounter++
	if name == "" {
		name = fmt.Sprintf("%s #%d", st.Name, r.VakifCounter)
	}
	v := &Vakif{ID: fmt.Sprintf("vakif_%d", r.VakifCounter), Type: t, Name: name, Level: 1, Condition: 100}
	r.Vakifs = append(r.Vakifs, v)
	r.Piety = min(100, r.Piety+3)
	return v, nil
}

// RestoreCost is what bringing v back to full condition costs.
func RestoreCost(v *Vakif) int {
	return vakifs[v.Type].Cost * (100 - v.Condition) / 200
}

// Restore repairs a worn endowment.
func (r *Religion) Restore(id string, l *ledger.Ledger) (int, error) {
	for _, v := range r.Vakifs {
		if v.ID != id {
			continue
		}
		if v.Condition >= 100 {
			return 0, ErrVakifIntact
		}
		cost := RestoreCost(v)
		if err := l.Spend(ledger.Amounts{ledger.Gold: cost}); err != nil {
			return 0, fmt.Errorf("vakıf onarımı: %w", err)
		}
		v.Condition = 100
		return cost, nil
	}
	return 0, ErrNoVakif
}

// Payroll is the per-turn salary and upkeep bill.
func (r *Religion) Payroll() int {
	total := 0
	for _, u := range r.Ulema {
		total += ranks[u.Rank].Salary
	}
	for _, v := range r.Vakifs {
		total += vakifs[v.Type].Maintenance
	}
	return total
}

// Fatwa topics.
const (
	FatwaCihad    = "cihad"
	FatwaTicaret  = "ticaret"
	FatwaVergi    = "vergi"
	FatwaKizilbas = "kizilbas"
)

var fatwas = map[string]effect.Bundle{
	FatwaCihad:    {{ID: effect.Morale, Value: 20}, {ID: effect.Piety, Value: 10}},
	FatwaTicaret:  {{ID: effect.TradeModifier, Value: 10}},
	FatwaVergi:    {{ID: effect.Legitimacy, Value: 15}},
	FatwaKizilbas: {{ID: effect.KizilbasThreat, Value: -20}},
}

// FatwaTopics lists the rulings the Şeyhülislam can be asked for.
func FatwaTopics() []string {
	out := make([]string, 0, len(fatwas))
	for k := range fatwas {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IssueFatwa asks for a ruling on topic. The returned bundle, including
// the legitimacy every ruling grants, is for the caller to route.
func (r *Religion) IssueFatwa(topic string, l *ledger.Ledger) (effect.Bundle, error) {
	if !r.HasSeyhulislam {
		return nil, ErrNoSeyhulislam
	}
	if r.FatwaIssued {
		return nil, ErrFatwaIssued
	}
	b, ok := fatwas[topic]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFatwa, topic)
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: FatwaCost}); err != nil {
		return nil, fmt.Errorf("fetva: %w", err)
	}
	r.FatwaIssued = true
	if topic == FatwaKizilbas {
		r.KizilbasSuppressed = true
		r.RebellionsCrushed++
	}
	out := append(effect.Bundle{}, b...)
	return append(out, effect.Delta{ID: effect.Legitimacy, Value: FatwaLegitimacy}), nil
}

func clamp(v int) int { return max(0, min(100, v)) }

// AdjustPiety and the other adjusters keep their value within 0..100.
func (r *Religion) AdjustPiety(v int)      { r.Piety = clamp(r.Piety + v) }
func (r *Religion) AdjustLegitimacy(v int) { r.Legitimacy = clamp(r.Legitimacy + v) }
func (r *Religion) AdjustTolerance(v int)  { r.Tolerance = clamp(r.Tolerance + v) }
func (r *Religion) AdjustEducation(v int)  { r.Education = clamp(r.Education + v) }
func (r *Religion) AdjustKizilbas(v int)   { r.KizilbasThreat = clamp(r.KizilbasThreat + v) }

// TradeBonus is the trade modifier contributed by loyal millets.
func (r *Religion) TradeBonus() float64 {
	total := 0.0
	for _, m := range Millets {
		if st := r.Millets[m]; st != nil && st.Loyalty > 50 {
			total += milletDefs[m].tradeBonus
		}
	}
	return total
}

// TurnInput carries what religion needs from the rest of the province.
type TurnInput struct {
	Turn   int
	Ledger *ledger.Ledger
	Rand   entropy.Rand
}

// TurnResult reports the turn's religious accounts.
type TurnResult struct {
	Income   int
	Expenses int
	Unpaid   bool
	Warnings []string
}

// ProcessTurn pays salaries and upkeep, drifts the millets and recomputes
// piety and education from the mosques, imams, madrasas and professors.
func (r *Religion) ProcessTurn(in TurnInput) TurnResult {
	r.FatwaIssued = false
	res := TurnResult{Expenses: r.Payroll()}

	for _, v := range r.Vakifs {
		if inc := vakifs[v.Type].Income; inc > 0 {
			res.Income += inc
			v.Income = inc
		}
		v.Condition = max(0, v.Condition-1)
	}
	if err := in.Ledger.Spend(ledger.Amounts{ledger.Gold: res.Expenses}); err != nil {
		res.Unpaid = true
		r.AdjustLegitimacy(-5)
		res.Warnings = append(res.Warnings, "Ulema maaşları ödenmedi! Meşruiyet düştü.")
	}
	in.Ledger.AddOne(ledger.Gold, res.Income)

	for _, m := range Millets {
		st := r.Millets[m]
		if r.Tolerance > 50 {
			st.Loyalty = min(100, st.Loyalty+1)
		}
		switch {
		case st.Loyalty < 30:
			st.Unrest = min(100, st.Unrest+5)
			if st.Unrest > 70 {
				res.Warnings = append(res.Warnings, m.Name()+" huzursuzluğu artıyor!")
			}
		case st.Loyalty >= 50 && st.Unrest > 0:
			st.Unrest--
		}
	}

	if r.Piety < 50 && in.Turn > 0 && in.Turn%4 == 0 {
		r.AdjustKizilbas(1)
	}
	if r.KizilbasThreat > 50 && !r.KizilbasSuppressed && in.Rand.Chance(0.1) {
		res.Warnings = append(res.Warnings, "Kızılbaş ayaklanması riski!")
		st := r.Millets[Muslim]
		st.Unrest = min(100, st.Unrest+10)
	}

	r.Education = clamp(20 + 10*r.VakifCount(Medrese) + 5*r.Count(Muderris))
	r.Piety = clamp(30 + 5*r.VakifCount(Cami) + 2*r.Count(Imam))
	return res
}

// Sanitize drops unknown offices, endowments and millets from a loaded
// state and brings every level back into range.
func (r *Religion) Sanitize() {
	for m := range r.Millets {
		if _, ok := milletDefs[m]; !ok || r.Millets[m] == nil {
			delete(r.Millets, m)
		}
	}
	r.seedMillets()
	for _, st := range r.Millets {
		st.Loyalty = clamp(st.Loyalty)
		st.Unrest = clamp(st.Unrest)
		st.Autonomy = clamp(st.Autonomy)
	}

	ulema := r.Ulema[:0]
	for _, u := range r.Ulema {
		if u == nil {
			continue
		}
		if _, ok := ranks[u.Rank]; !ok || u.Rank == Seyhulislam {
			continue
		}
		u.Loyalty = clamp(u.Loyalty)
		ulema = append(ulema, u)
	}
	r.Ulema = ulema

	vs := r.Vakifs[:0]
	for _, v := range r.Vakifs {
		if v == nil {
			continue
		}
		if _, ok := vakifs[v.Type]; !ok {
			continue
		}
		v.Condition = clamp(v.Condition)
		v.Level = max(1, v.Level)
		vs = append(vs, v)
	}
	r.Vakifs = vs

	r.UlemaCounter = max(r.UlemaCounter, len(r.Ulema))
	r.VakifCounter = max(r.VakifCounter, len(r.Vakifs))
	r.Piety = clamp(r.Piety)
	r.Legitimacy = clamp(r.Legitimacy)
	r.Tolerance = clamp(r.Tolerance)
	r.Education = clamp(r.Education)
	r.KizilbasThreat = clamp(r.KizilbasThreat)
}
