package naval

import (
	"errors"
	"testing"

	"github.com/talgya/eyalet/internal/ledger"
)

// fixedRand draws float for every probability roll, the lower bound for
// uniform draws and the upper bound for integer ranges.
type fixedRand struct{ float float64 }

func (f fixedRand) Float() float64                { return f.float }
func (f fixedRand) IntN(int) int                  { return 0 }
func (f fixedRand) Range(_, hi int) int           { return hi }
func (f fixedRand) Uniform(lo, _ float64) float64 { return lo }
func (f fixedRand) Chance(p float64) bool         { return f.float < p }

func shipyardStock() *ledger.Ledger {
	return ledger.New(ledger.Amounts{
		ledger.Gold: 10_000, ledger.Wood: 1_000, ledger.Iron: 500,
		ledger.Rope: 200, ledger.Tar: 200, ledger.Sailcloth: 200,
	})
}

func TestBuildAndLaunch(t *testing.T) {
	n := New()
	l := shipyardStock()
	turns, err := n.Build(Mavna, "", l)
	if err != nil {
		t.Fatal(err)
	}
	if turns != 3 || l.Get(ledger.Rope) != 180 {
		t.Fatalf("turns %d rope %d", turns, l.Get(ledger.Rope))
	}
	n.ProcessConstruction(SpawnBonus{})
	n.ProcessConstruction(SpawnBonus{})
	launched, _ := n.ProcessConstruction(SpawnBonus{Health: 20, Experience: 10})
	if len(launched) != 1 {
		t.Fatalf("launched = %d", len(launched))
	}
	s := launched[0]
	if s.MaxHealth != 80 || s.Health != 80 || s.Experience != 10 || s.Name != "Mavna #1" {
		t.Fatalf("ship = %+v", s)
	}
	if n.TradeCapacity() != 50 || n.FleetPower() != 0 {
		t.Fatalf("cargo %d power %d", n.TradeCapacity(), n.FleetPower())
	}
}

func TestBuildNeedsNavalSupplies(t *testing.T) {
	n := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 10_000, ledger.Wood: 1_000, ledger.Iron: 500})
	if _, err := n.Build(Kadirga, "", l); !errors.Is(err, ledger.ErrInsufficient) {
		t.Fatalf("err = %v", err)
	}
	if l.Get(ledger.Gold) != 10_000 || len(n.Queue) != 0 {
		t.Fatal("failed order mutated state")
	}
}

func warship(id string, health int) *Ship {
	return &Ship{ID: id, Type: Firkateyn, Name: id, Health: health, MaxHealth: 150}
}

func TestRaidSuccess(t *testing.T) {
	n := &Naval{Ships: []*Ship{warship("a", 150)}}
	r, err := n.Raid(Kiyi, fixedRand{float: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Success || r.Loot != 1000 || r.DamageTaken != 20 {
		t.Fatalf("raid = %+v", r)
	}
	if s := n.Ships[0]; s.Health != 130 || s.Experience != 5 || n.Victories != 1 {
		t.Fatalf("ship %+v", s)
	}
}

func TestRaidFailureSinksShips(t *testing.T) {
	n := &Naval{Ships: []*Ship{warship("a", 150), warship("b", 30), {ID: "m", Type: Mavna, Health: 60, MaxHealth: 60}}}
	r, err := n.Raid(Donanma, fixedRand{float: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if r.Success || r.Loot != 0 || len(r.Sunk) != 1 {
		t.Fatalf("raid = %+v", r)
	}
	if len(n.Ships) != 2 || n.ShipsLost != 1 || n.Defeats != 1 {
		t.Fatalf("ships %d lost %d", len(n.Ships), n.ShipsLost)
	}
	if n.Ships[0].Health != 110 {
		t.Fatalf("health = %d", n.Ships[0].Health)
	}
}

func TestRaidNeedsWarships(t *testing.T) {
	n := &Naval{Ships: []*Ship{{ID: "m", Type: Mavna, Health: 60, MaxHealth: 60}}}
	if _, err := n.Raid(Kiyi, fixedRand{}); !errors.Is(err, ErrNoFleet) {
		t.Fatalf("err = %v", err)
	}
	if _, err := n.Raid("atlantis", fixedRand{}); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("err = %v", err)
	}
}

func TestRepairQueue(t *testing.T) {
	n := &Naval{Ships: []*Ship{warship("a", 75)}}
	l := shipyardStock()
	turns, err := n.ScheduleRepair("a", l)
	if err != nil {
		t.Fatal(err)
	}
	if turns != 3 || l.Get(ledger.Gold) != 9_250 || l.Get(ledger.Wood) != 850 {
		t.Fatalf("turns %d stock %v", turns, l.Stock())
	}
	if _, err := n.ScheduleRepair("a", l); !errors.Is(err, ErrInRepair) {
		t.Fatalf("err = %v", err)
	}
	if n.FleetPower() != 0 {
		t.Fatal("docked ship counted in fleet power")
	}
	for i := 0; i < 3; i++ {
		n.ProcessConstruction(SpawnBonus{})
	}
	if n.Ships[0].Health != 150 || len(n.RepairQueue) != 0 {
		t.Fatalf("ship %+v queue %v", n.Ships[0], n.RepairQueue)
	}
	if _, err := n.ScheduleRepair("a", l); !errors.Is(err, ErrUndamaged) {
		t.Fatalf("err = %v", err)
	}
}

func TestSanitize(t *testing.T) {
	n := &Naval{
		Ships:       []*Ship{{ID: "x", Type: "trireme"}, {ID: "y", Type: Kalyon, Health: 999, Experience: 300}},
		Queue:       []Construction{{Type: "submarine", TurnsRemaining: 1}},
		RepairQueue: []Repair{{ShipID: "x", TurnsRemaining: 2}, {ShipID: "y"}},
	}
	n.Sanitize()
	if len(n.Ships) != 1 || len(n.Queue) != 0 || len(n.RepairQueue) != 1 {
		t.Fatalf("ships %d queue %d docks %d", len(n.Ships), len(n.Queue), len(n.RepairQueue))
	}
	s := n.Ships[0]
	if s.MaxHealth != 120 || s.Health != 120 || s.Experience != 100 {
		t.Fatalf("ship = %+v", s)
	}
}
