package artillery

import (
	"errors"
	"math"
	"testing"

	"github.com/talgya/eyalet/internal/ledger"
)

// stubRand returns roll for the 1..100 burst check, the upper bound for
// every other range, and chance for every probability check.
type stubRand struct {
	roll   int
	chance bool
}

func (s stubRand) Float() float64                { return 0.5 }
func (s stubRand) IntN(int) int                  { return 0 }
func (s stubRand) Uniform(lo, _ float64) float64 { return lo }
func (s stubRand) Chance(float64) bool           { return s.chance }
func (s stubRand) Range(lo, hi int) int {
	if lo == 1 && hi == 100 {
		return s.roll
	}
	return hi
}

func treasury() *ledger.Ledger {
	return ledger.New(ledger.Amounts{ledger.Gold: 20_000, ledger.Iron: 2_000, ledger.Stone: 1_000})
}

func TestProductionNeedsFoundry(t *testing.T) {
	a := New()
	l := treasury()
	if _, err := a.Produce(Darbzen, Bronze, "", l); !errors.Is(err, ErrNoFoundry) {
		t.Fatalf("err = %v", err)
	}
	a.UpdateFoundry(1)
	if a.Capacity() != 7 {
		t.Fatalf("capacity = %d", a.Capacity())
	}
	turns, err := a.Produce(Darbzen, Bronze, "Ejder", l)
	if err != nil {
		t.Fatal(err)
	}
	if turns != 2 || l.Get(ledger.Gold) != 19_700 {
		t.Fatalf("turns %d gold %d", turns, l.Get(ledger.Gold))
	}
	if done := a.ProcessProduction(); len(done) != 0 {
		t.Fatal("cannon finished early")
	}
	done := a.ProcessProduction()
	if len(done) != 1 || done[0].Name != "Ejder" || done[0].Condition != 100 || done[0].Experience != 0 {
		t.Fatalf("done = %+v", done)
	}
}

func TestFoundryLevelShortensCasting(t *testing.T) {
	a := New()
	a.UpdateFoundry(3)
	if got := a.ProductionTime(Balyemez); got != 3 {
		t.Fatalf("balyemez time = %d", got)
	}
	if a.Capacity() != 11 {
		t.Fatalf("capacity = %d", a.Capacity())
	}
}

func TestCapacityLimit(t *testing.T) {
	a := New()
	a.UpdateFoundry(1)
	l := treasury()
	for i := 0; i < 7; i++ {
		if _, err := a.Produce(Darbzen, Iron, "", l); err != nil {
			t.Fatalf("order %d: %v", i, err)
		}
	}
	if _, err := a.Produce(Darbzen, Iron, "", l); !errors.Is(err, ErrCapacity) {
		t.Fatalf("err = %v", err)
	}
}

func TestBurstRisk(t *testing.T) {
	c := &Cannon{Type: Sahi, Material: Iron, Condition: 100}
	if got := c.BurstRisk(); got != 6 {
		t.Fatalf("fresh risk = %v", got)
	}
	c.Condition, c.ShotsFired = 50, 250
	if got := c.BurstRisk(); math.Abs(got-13.5) > 1e-9 {
		t.Fatalf("worn risk = %v", got)
	}
	c.Condition, c.ShotsFired = 0, 5000
	if got := c.BurstRisk(); got != 50 {
		t.Fatalf("risk should cap at 50: %v", got)
	}
}

func TestFireWearsIronCannon(t *testing.T) {
	a := &Artillery{Cannons: []*Cannon{{ID: "c1", Type: Darbzen, Material: Iron, Condition: 100, Ammo: Gulle}}}
	l := treasury()
	s, err := a.Fire("c1", stubRand{roll: 100}, l)
	if err != nil {
		t.Fatal(err)
	}
	c := a.Cannons[0]
	if s.Burst || c.Condition != 97 || c.Experience != 1 || c.ShotsFired != 1 {
		t.Fatalf("shot %+v cannon %+v", s, c)
	}
	if s.FieldDamage != 10 || l.Get(ledger.Gold) != 19_995 {
		t.Fatalf("damage %d gold %d", s.FieldDamage, l.Get(ledger.Gold))
	}
}

func TestFireCanBurst(t *testing.T) {
	a := &Artillery{Cannons: []*Cannon{{ID: "c1", Type: Balyemez, Material: Iron, Condition: 100, Ammo: Gulle}}}
	s, err := a.Fire("c1", stubRand{roll: 1}, treasury())
	if err != nil {
		t.Fatal(err)
	}
	if !s.Burst || len(a.Cannons) != 0 || a.Destroyed != 1 {
		t.Fatalf("shot %+v cannons %d", s, len(a.Cannons))
	}
}

func TestWornCannonBecomesDamaged(t *testing.T) {
	a := &Artillery{Cannons: []*Cannon{{ID: "c1", Type: Kolunburna, Material: Iron, Condition: 20, Ammo: Humbara}}}
	l := treasury()
	s, err := a.Fire("c1", stubRand{roll: 100, chance: true}, l)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Damaged || a.SiegeBonus(10, 0) != 0 {
		t.Fatalf("shot %+v power %d", s, a.SiegeBonus(10, 0))
	}
	if _, err := a.Fire("c1", stubRand{roll: 100}, l); !errors.Is(err, ErrDamaged) {
		t.Fatalf("err = %v", err)
	}
	if err := a.Repair("c1", l); err != nil {
		t.Fatal(err)
	}
	if c := a.Cannons[0]; c.Damaged || c.Condition != 100 {
		t.Fatalf("cannon = %+v", c)
	}
}

func TestCrewEffectiveness(t *testing.T) {
	a := &Artillery{Cannons: []*Cannon{{Type: Balyemez, Material: Iron, Condition: 100}}}
	tests := []struct {
		topcu, cebeci int
		want          float64
	}{
		{3, 0, 0.5},
		{0, 0, 0.1},
		{10, 0, 1.3},
		{3, 10, 1.0},
	}
	for _, tt := range tests {
		if got := a.crewEffectiveness(tt.topcu, tt.cebeci); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("crewEffectiveness(%d, %d) = %v, want %v", tt.topcu, tt.cebeci, got, tt.want)
		}
	}
	if New().crewEffectiveness(0, 0) != 1 {
		t.Error("empty park should not be penalized")
	}
}

func TestSiegeBonusFollowsCrews(t *testing.T) {
	a := &Artillery{Cannons: []*Cannon{
		{ID: "c1", Type: Kolunburna, Material: Bronze, Condition: 100},
		{ID: "c2", Type: Kolunburna, Material: Bronze, Condition: 100},
	}}
	tests := []struct {
		topcu, cebeci int
		want          int
	}{
		{16, 0, 50},
		{8, 0, 25},
		{0, 0, 5},
		{8, 10, 34},
	}
	for _, tt := range tests {
		if got := a.SiegeBonus(tt.topcu, tt.cebeci); got != tt.want {
			t.Errorf("SiegeBonus(%d, %d) = %d, want %d", tt.topcu, tt.cebeci, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	a := &Artillery{
		Cannons: []*Cannon{
			{ID: "a", Type: "bombard", Condition: 50},
			{ID: "b", Type: Sahi, Material: "gold", Condition: 140, Experience: -3, Ammo: "laser"},
		},
		Queue: []Production{{Type: "mortar", TurnsRemaining: 2}, {Type: Darbzen, Material: Bronze}},
	}
	a.Sanitize()
	if len(a.Cannons) != 1 || len(a.Queue) != 1 {
		t.Fatalf("cannons %d queue %d", len(a.Cannons), len(a.Queue))
	}
	c := a.Cannons[0]
	if c.Material != Iron || c.Condition != 100 || c.Experience != 0 || c.Ammo != Gulle {
		t.Fatalf("cannon = %+v", c)
	}
	if a.Queue[0].TurnsRemaining != 1 {
		t.Fatalf("queue = %+v", a.Queue)
	}
}
