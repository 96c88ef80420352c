package divan

import (
	"strings"
	"testing"
)

// council draws the first name and lowest stats; sharp decides every
// skill and loyalty roll.
type council struct{ sharp bool }

func (council) Float() float64                { return 0 }
func (council) IntN(int) int                  { return 0 }
func (council) Range(lo, _ int) int           { return lo }
func (council) Uniform(lo, _ float64) float64 { return lo }
func (c council) Chance(float64) bool         { return c.sharp }

func calm(turn int) Snapshot {
	return Snapshot{
		Turn: turn, Gold: 15000, NetIncome: 300, Happiness: 70, Unrest: 20,
		Soldiers: 800, Morale: 90, TahrirAccuracy: 100,
		Food: 10000, FoodConsumption: 204, Population: 10200, Health: 70,
	}
}

func TestNewSeatsFourAdvisors(t *testing.T) {
	d := New(council{})
	if len(d.Advisors) != 4 || d.LastAnalysis != -1 {
		t.Fatalf("divan %+v", d)
	}
	a := d.Advisors[Subasi]
	if a.Name != "Mehmed Ağa" || a.Skill != 5 || a.Loyalty != 65 {
		t.Fatalf("subaşı %+v", a)
	}
}

func TestAnalyzeFilesAndResolves(t *testing.T) {
	d := New(council{})
	s := calm(1)
	s.Gold = 1500
	s.NetIncome = -600
	s.Inflation = 0.2
	s.Soldiers = 205
	fresh := d.Analyze(s, council{sharp: true})
	if len(fresh) != 4 {
		t.Fatalf("%d reports", len(fresh))
	}
	if fresh[0].Severity != Uyari || !strings.Contains(fresh[0].Message, "1,500") || fresh[0].ResolveKey != "hazine_durum" {
		t.Fatalf("treasury report %+v", fresh[0])
	}
	if fresh[1].Severity != Acil || fresh[3].Role != Subasi {
		t.Fatalf("reports %+v %+v", fresh[1], fresh[3])
	}
	if d.Analyze(s, council{sharp: true}) != nil {
		t.Fatal("analysis ran twice in one turn")
	}

	s = calm(2)
	s.Soldiers = 205
	d.Analyze(s, council{sharp: true})
	if len(d.Reports) != 1 || d.Reports[0].ResolveKey != "askeri_guc_durum" || d.Reports[0].Turn != 2 {
		t.Fatalf("reports after recovery %+v", d.Reports)
	}
	if d.Unread() != 1 {
		t.Fatalf("unread %d", d.Unread())
	}
	d.MarkAllRead()
	if d.Unread() != 0 || len(d.ByRole(Subasi)) != 1 || len(d.Urgent()) != 0 {
		t.Fatal("queries")
	}
}

func TestDisloyalAdvisorDowngrades(t *testing.T) {
	d := New(council{})
	d.Advisors[Defterdar].Loyalty = 30
	s := calm(1)
	s.Gold = 100
	fresh := d.Analyze(s, council{sharp: true})
	if len(fresh) != 1 || fresh[0].Severity != Uyari || !strings.Contains(fresh[0].Recommendation, "sadakati düşük") {
		t.Fatalf("reports %+v", fresh)
	}
}

func TestUnskilledAdvisorMissesWarnings(t *testing.T) {
	d := New(council{})
	s := calm(10)
	s.Gold = 100
	s.Happiness = 10
	fresh := d.Analyze(s, council{})
	if len(fresh) != 1 || fresh[0].Severity != Bilgi || fresh[0].Role != TahrirEmini {
		t.Fatalf("reports %+v", fresh)
	}
}

func TestMilletAndFoodWarnings(t *testing.T) {
	d := New(council{})
	s := calm(3)
	s.MilletLoyalty = map[string]int{"Rum Ortodoks": 20, "Yahudi": 70}
	s.Food = 800
	fresh := d.Latest()
	if len(fresh) != 0 {
		t.Fatal("latest before analysis")
	}
	d.Analyze(s, council{sharp: true})
	keys := map[string]bool{}
	for _, r := range d.Latest() {
		keys[r.ResolveKey] = true
	}
	if !keys["millet_sadakat_Rum Ortodoks"] || !keys["gida_durum"] || len(keys) != 2 {
		t.Fatalf("keys %v", keys)
	}
}

func TestReportCap(t *testing.T) {
	d := New(council{})
	for i := 0; i < 60; i++ {
		d.Reports = append(d.Reports, &Report{Severity: Bilgi, Role: Kadi, Turn: 4})
	}
	d.Analyze(calm(5), council{sharp: true})
	if len(d.Reports) != MaxReports {
		t.Fatalf("%d reports", len(d.Reports))
	}
	d.Analyze(calm(9), council{sharp: true})
	if len(d.Reports) != 0 {
		t.Fatalf("stale information kept: %d", len(d.Reports))
	}
}

func TestSanitize(t *testing.T) {
	d := &Divan{
		Advisors: map[Role]*Advisor{Kadi: {Name: "Ebussuud Efendi", Skill: 14, Loyalty: -1}, "vezir": {}},
		Reports:  []*Report{{Role: Kadi, Severity: "panic"}, {Role: Kadi, Severity: Acil}, nil},
	}
	d.Sanitize(council{})
	if len(d.Advisors) != 4 || d.Advisors[Kadi].Skill != 10 || d.Advisors[Kadi].Loyalty != 0 || d.Advisors[Kadi].Name != "Ebussuud Efendi" {
		t.Fatalf("advisors %+v", d.Advisors)
	}
	if len(d.Reports) != 1 {
		t.Fatalf("reports %d", len(d.Reports))
	}
}
