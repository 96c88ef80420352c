package religion

import (
	"errors"
	"strings"
	"testing"

	"github.com/talgya/eyalet/internal/effect"
	"github.com/talgya/eyalet/internal/ledger"
)

// lowRoll takes the bottom of every range and never hits a chance.
type lowRoll struct{}

func (lowRoll) Float() float64                { return 0.999 }
func (lowRoll) IntN(int) int                  { return 0 }
func (lowRoll) Range(lo, _ int) int           { return lo }
func (lowRoll) Uniform(lo, _ float64) float64 { return lo }
func (lowRoll) Chance(float64) bool           { return false }

func turn(r *Religion, n int, l *ledger.Ledger) TurnResult {
	return r.ProcessTurn(TurnInput{Turn: n, Ledger: l, Rand: lowRoll{}})
}

func TestAppointUlema(t *testing.T) {
	r := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 1000})
	if _, err := r.Appoint(Seyhulislam, l, lowRoll{}); !errors.Is(err, ErrReservedRank) {
		t.Fatalf("err = %v", err)
	}
	u, err := r.Appoint(Imam, l, lowRoll{})
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Mehmed Efendi" || u.Skill != 4 || u.Loyalty != 60 || l.Get(ledger.Gold) != 980 {
		t.Fatalf("ulema %+v gold %d", u, l.Get(ledger.Gold))
	}
	a, _ := r.Appoint(Kadiasker, l, lowRoll{})
	b, _ := r.Appoint(Kadiasker, l, lowRoll{})
	if !strings.HasPrefix(a.Name, "Rumeli") || !strings.HasPrefix(b.Name, "Anadolu") {
		t.Fatalf("kadiaskers %q %q", a.Name, b.Name)
	}
	if _, err := r.Appoint(Kadiasker, l, lowRoll{}); !errors.Is(err, ErrRankFull) {
		t.Fatalf("err = %v", err)
	}
	if l.Get(ledger.Gold) != 580 {
		t.Fatalf("gold %d", l.Get(ledger.Gold))
	}
}

func TestEndowAndPayroll(t *testing.T) {
	r := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 1000})
	if _, err := r.Endow(Cami, 500, "", l); !errors.Is(err, ErrPopulation) {
		t.Fatalf("err = %v", err)
	}
	r.Appoint(Imam, l, lowRoll{})
	v, err := r.Endow(Cami, 2000, "", l)
	if err != nil {
		t.Fatal(err)
	}
	if v.Name != "Cami #1" || r.Piety != 53 {
		t.Fatalf("vakif %+v piety %d", v, r.Piety)
	}
	if _, err := r.Endow(Hamam, 2000, "Yeni Hamam", l); err != nil {
		t.Fatal(err)
	}
	if l.Get(ledger.Gold) != 180 || r.Payroll() != 23 {
		t.Fatalf("gold %d payroll %d", l.Get(ledger.Gold), r.Payroll())
	}
	res := turn(r, 1, l)
	if res.Income != 10 || res.Expenses != 23 || res.Unpaid || l.Get(ledger.Gold) != 167 {
		t.Fatalf("result %+v gold %d", res, l.Get(ledger.Gold))
	}
	if r.Piety != 37 || r.Education != 20 || v.Condition != 99 {
		t.Fatalf("piety %d education %d condition %d", r.Piety, r.Education, v.Condition)
	}
	if r.Millets[Rum].Loyalty != 51 {
		t.Fatalf("rum loyalty %d", r.Millets[Rum].Loyalty)
	}
}

func TestUnpaidSalariesCostLegitimacy(t *testing.T) {
	r := New()
	r.Ulema = append(r.Ulema, &Ulema{ID: "ulema_1", Rank: Kadi})
	l := ledger.New(ledger.Amounts{ledger.Gold: 0})
	res := turn(r, 1, l)
	if !res.Unpaid || r.Legitimacy != 65 || len(res.Warnings) != 1 || l.Get(ledger.Gold) != 0 {
		t.Fatalf("result %+v legitimacy %d", res, r.Legitimacy)
	}
}

func TestFatwa(t *testing.T) {
	r := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 100})
	b, err := r.IssueFatwa(FatwaCihad, l)
	if err != nil {
		t.Fatal(err)
	}
	if b.Sum(effect.Morale) != 20 || b.Sum(effect.Piety) != 10 || b.Sum(effect.Legitimacy) != FatwaLegitimacy {
		t.Fatalf("bundle %s", b)
	}
	if _, err := r.IssueFatwa(FatwaVergi, l); !errors.Is(err, ErrFatwaIssued) {
		t.Fatalf("err = %v", err)
	}
	turn(r, 1, l)
	b, err = r.IssueFatwa(FatwaKizilbas, l)
	if err != nil {
		t.Fatal(err)
	}
	if b.Sum(effect.KizilbasThreat) != -20 || !r.KizilbasSuppressed || l.Get(ledger.Gold) != 0 {
		t.Fatalf("bundle %s gold %d", b, l.Get(ledger.Gold))
	}

	r = New()
	if _, err := r.IssueFatwa("bid'at", l); !errors.Is(err, ErrUnknownFatwa) {
		t.Fatalf("err = %v", err)
	}
	r.HasSeyhulislam = false
	if _, err := r.IssueFatwa(FatwaCihad, l); !errors.Is(err, ErrNoSeyhulislam) {
		t.Fatalf("err = %v", err)
	}
}

func TestKizilbasGrowsWhenPietyLow(t *testing.T) {
	r := New()
	l := ledger.New(ledger.Amounts{})
	for n := 1; n <= 8; n++ {
		turn(r, n, l)
	}
	if r.KizilbasThreat != 17 {
		t.Fatalf("threat %d", r.KizilbasThreat)
	}
}

func TestLowLoyaltyStirsUnrest(t *testing.T) {
	r := New()
	r.Tolerance = 40
	r.Millets[Rum].Loyalty = 10
	r.Millets[Rum].Unrest = 70
	res := turn(r, 1, ledger.New(ledger.Amounts{}))
	if r.Millets[Rum].Unrest != 75 || len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "Rum Ortodoks") {
		t.Fatalf("unrest %d warnings %v", r.Millets[Rum].Unrest, res.Warnings)
	}
}

func TestRestoreVakif(t *testing.T) {
	r := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 1000})
	v, _ := r.Endow(Cami, 2000, "", l)
	if _, err := r.Restore(v.ID, l); !errors.Is(err, ErrVakifIntact) {
		t.Fatalf("err = %v", err)
	}
	v.Condition = 60
	cost, err := r.Restore(v.ID, l)
	if err != nil || cost != 100 || v.Condition != 100 || l.Get(ledger.Gold) != 400 {
		t.Fatalf("cost %d err %v gold %d", cost, err, l.Get(ledger.Gold))
	}
}

func TestSanitize(t *testing.T) {
	r := &Religion{
		Millets: map[Millet]*MilletState{"pagan": {Loyalty: 50}, Rum: {Loyalty: 120, Unrest: -3}},
		Ulema:   []*Ulema{{Rank: "vizier"}, {Rank: Seyhulislam}, {Rank: Kadi, Loyalty: 200}},
		Vakifs:  []*Vakif{{Type: "palace"}, {Type: Cesme, Condition: -10}},
		Piety:   -5,
	}
	r.Sanitize()
	if len(r.Millets) != len(Millets) || r.Millets[Rum].Loyalty != 100 || r.Millets[Rum].Unrest != 0 {
		t.Fatalf("millets %+v", r.Millets)
	}
	if len(r.Ulema) != 1 || r.Ulema[0].Loyalty != 100 || len(r.Vakifs) != 1 || r.Vakifs[0].Level != 1 {
		t.Fatalf("ulema %+v vakifs %+v", r.Ulema, r.Vakifs)
	}
	if r.Piety != 0 || r.Vakifs[0].Condition != 0 || r.VakifCounter != 1 {
		t.Fatalf("piety %d", r.Piety)
	}
}
