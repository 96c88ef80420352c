package workers

import (
	"errors"
	"testing"

	"github.com/talgya/eyalet/internal/ledger"
)

func TestStartingWorkforce(t *testing.T) {
	ws := New()
	if len(ws.Workers) != 10 {
		t.Fatalf("workers = %d", len(ws.Workers))
	}
	r := ws.ProcessTurn()
	if r.Production[ledger.Food] != 200 {
		t.Errorf("food = %d, want 200", r.Production[ledger.Food])
	}
	if r.Bonuses.ConstructionSpeed < 0.099 || r.Bonuses.ConstructionSpeed > 0.101 {
		t.Errorf("construction speed = %v", r.Bonuses.ConstructionSpeed)
	}
}

func TestSkillPromotionThresholds(t *testing.T) {
	ws := &Workers{MaxWorkers: 10}
	w := ws.add(Miner)
	for i := 0; i < 100; i++ {
		ws.ProcessTurn()
	}
	if w.Skill != 5 || w.Experience != 100 {
		t.Fatalf("skill %d experience %d", w.Skill, w.Experience)
	}
	if w.Efficiency != 1.5 {
		t.Fatalf("efficiency = %v", w.Efficiency)
	}
}

func TestIdleWorkersGainNothing(t *testing.T) {
	ws := &Workers{MaxWorkers: 10}
	w := ws.add(Farmer)
	if err := ws.Assign(0, Idle); err != nil {
		t.Fatal(err)
	}
	r := ws.ProcessTurn()
	if w.Experience != 0 || r.Production[ledger.Food] != 0 {
		t.Fatalf("idle worker produced: %+v", r)
	}
}

func TestHireRespectsCapacityAndCost(t *testing.T) {
	ws := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 10_000})
	if _, err := ws.Hire(Envoy, l); !errors.Is(err, ErrCapacity) {
		t.Fatalf("err = %v", err)
	}
	ws.UpdateCapacity(20_000)
	if ws.MaxWorkers != 20 {
		t.Fatalf("max = %d", ws.MaxWorkers)
	}
	w, err := ws.Hire(Envoy, l)
	if err != nil {
		t.Fatal(err)
	}
	if w.Task != Diplomacy || l.Get(ledger.Gold) != 9_600 {
		t.Fatalf("hired %+v, gold %d", w, l.Get(ledger.Gold))
	}
	poor := ledger.New(ledger.Amounts{ledger.Gold: 10})
	if _, err := ws.Hire(Farmer, poor); !errors.Is(err, ledger.ErrInsufficient) {
		t.Fatalf("err = %v", err)
	}
}

func TestSanitizeDropsUnknownTypes(t *testing.T) {
	ws := &Workers{Workers: []*Worker{
		{Name: "A", Type: Farmer, Task: "juggling", Skill: 9},
		{Name: "B", Type: "alchemist", Task: Farming, Skill: 1},
	}}
	ws.Sanitize()
	if len(ws.Workers) != 1 || ws.Workers[0].Task != Idle || ws.Workers[0].Skill != 5 {
		t.Fatalf("workers = %+v", ws.Workers[0])
	}
}
