package trade

import (
	"errors"
	"testing"

	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/ledger"
)

// calmRoad never rolls an ambush.
type calmRoad struct{}

func (calmRoad) Float() float64                { return 0 }
func (calmRoad) IntN(int) int                  { return 0 }
func (calmRoad) Range(lo, _ int) int           { return lo }
func (calmRoad) Uniform(lo, _ float64) float64 { return lo }
func (calmRoad) Chance(float64) bool           { return false }

// ambush always rolls an encounter that the caravan loses.
type ambush struct{ calmRoad }

func (ambush) Float() float64      { return 0.99 }
func (ambush) Chance(float64) bool { return true }

func TestSeaRoutesNeedPort(t *testing.T) {
	tr := New()
	if _, err := tr.CanUse("mediterranean"); !errors.Is(err, ErrNoPort) {
		t.Fatalf("err = %v", err)
	}
	if len(tr.Available()) != 3 {
		t.Fatalf("available = %d", len(tr.Available()))
	}
	tr.UpdatePort(true, 2)
	if _, err := tr.CanUse("mediterranean"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.CanUse("amber_road"); !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("err = %v", err)
	}
}

func TestCaravanRoundTrip(t *testing.T) {
	tr := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 5000})
	c, err := tr.SendCaravan("balkan_road", 0, l)
	if err != nil {
		t.Fatal(err)
	}
	if c.TurnsRemaining != 5 || l.Get(ledger.Gold) != 4880 {
		t.Fatalf("caravan %+v gold %d", c, l.Get(ledger.Gold))
	}
	if err := tr.EstablishAgreement("Belgrad", l); err != nil {
		t.Fatal(err)
	}
	if err := tr.EstablishAgreement("Belgrad", l); !errors.Is(err, ErrAgreementExists) {
		t.Fatalf("err = %v", err)
	}
	for i := 0; i < 4; i++ {
		if res := tr.ProcessTurn(calmRoad{}); res.Income != 0 {
			t.Fatalf("turn %d: early return", i)
		}
	}
	res := tr.ProcessTurn(calmRoad{})
	if res.Income != 480 || len(tr.Caravans) != 0 || tr.CaravansDone != 1 {
		t.Fatalf("result %+v", res)
	}
}

func TestSeaCaravanPortBonus(t *testing.T) {
	tr := New()
	tr.UpdatePort(true, 3)
	c := &Caravan{GoodsValue: 700}
	r, _ := LookupRoute("mediterranean")
	if got := tr.Return(c, r); got != 910 {
		t.Fatalf("return = %d", got)
	}
}

func TestCaravanLoss(t *testing.T) {
	tr := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 5000})
	if _, err := tr.SendCaravan("silk_road", 0, l); err != nil {
		t.Fatal(err)
	}
	res := tr.ProcessTurn(ambush{})
	if len(res.Lost) != 1 || tr.CaravansLost != 1 || len(tr.Caravans) != 0 {
		t.Fatalf("result %+v", res)
	}
}

func TestSuccessChance(t *testing.T) {
	r, _ := LookupRoute("mediterranean")
	tests := []struct {
		protection int
		want       float64
	}{
		{0, 0.70},
		{10, 0.80},
		{100, 0.95},
	}
	for _, tt := range tests {
		c := &Caravan{Protection: tt.protection}
		if got := c.SuccessChance(r); got < tt.want-1e-9 || got > tt.want+1e-9 {
			t.Errorf("protection %d: chance %v, want %v", tt.protection, got, tt.want)
		}
	}
}

func TestBuyAndSell(t *testing.T) {
	tr := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 1000})
	if err := tr.Buy("silk", 10, 60, l); err != nil {
		t.Fatal(err)
	}
	if tr.Inventory["silk"] != 10 || l.Get(ledger.Gold) != 400 {
		t.Fatalf("inventory %v gold %d", tr.Inventory, l.Get(ledger.Gold))
	}
	if err := tr.Sell("silk", 11, 70, l); !errors.Is(err, ErrNoStock) {
		t.Fatalf("err = %v", err)
	}
	if err := tr.Sell("silk", 10, 70, l); err != nil {
		t.Fatal(err)
	}
	if len(tr.Inventory) != 0 || l.Get(ledger.Gold) != 1100 {
		t.Fatalf("inventory %v gold %d", tr.Inventory, l.Get(ledger.Gold))
	}
	if err := tr.Buy("silk", 100, 60, l); !errors.Is(err, ledger.ErrInsufficient) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeterministicWithSeededSource(t *testing.T) {
	run := func() int {
		tr := New()
		l := ledger.New(ledger.Amounts{ledger.Gold: 100_000})
		rng := entropy.New(42)
		total := 0
		for i := 0; i < 30; i++ {
			if _, err := tr.SendCaravan("silk_road", i, l); err != nil {
				t.Fatal(err)
			}
			total += tr.ProcessTurn(rng).Income
		}
		return total*1000 + tr.CaravansLost
	}
	if a, b := run(), run(); a != b {
		t.Fatalf("runs diverged: %d vs %d", a, b)
	}
}

func TestSanitize(t *testing.T) {
	tr := &Trade{
		Caravans:  []*Caravan{{RouteID: "amber_road"}, {RouteID: "balkan_road", TurnsRemaining: 99, Protection: -4}},
		Inventory: map[string]int{"silk": 3, "unobtainium": 1, "salt": 0},
	}
	tr.Sanitize(func(g string) bool { return g == "silk" || g == "salt" })
	if len(tr.Caravans) != 1 || tr.Caravans[0].TurnsRemaining != 5 || tr.Caravans[0].Protection != 0 {
		t.Fatalf("caravans = %+v", tr.Caravans)
	}
	if len(tr.Inventory) != 1 || tr.Agreements == nil {
		t.Fatalf("inventory = %v", tr.Inventory)
	}
}
