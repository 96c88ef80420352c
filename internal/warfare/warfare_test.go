package warfare

import (
	"errors"
	"testing"

	"github.com/talgya/eyalet/internal/ledger"
)

// even takes the floor of every integer range and the midpoint of every
// battle roll.
type even struct{}

func (even) Float() float64                 { return 0.5 }
func (even) IntN(int) int                   { return 0 }
func (even) Range(lo, _ int) int            { return lo }
func (even) Uniform(lo, hi float64) float64 { return (lo + hi) / 2 }
func (even) Chance(float64) bool            { return false }

func stocked() *ledger.Ledger {
	return ledger.New(ledger.Amounts{ledger.Gold: 10000, ledger.Food: 5000, ledger.Wood: 1000, ledger.Iron: 500})
}

func run(w *Warfare, from, to int) TurnResult {
	var last TurnResult
	for turn := from; turn <= to; turn++ {
		last = w.ProcessTurn(TurnInput{Turn: turn, Rand: even{}})
	}
	return last
}

func TestCanStartWar(t *testing.T) {
	w := New()
	if err := w.CanStartWar(5); !errors.Is(err, ErrPeacetime) {
		t.Fatalf("err = %v", err)
	}
	if err := w.CanStartWar(ProtectionTurns); err != nil {
		t.Fatal(err)
	}
	w.WarWeariness = WearinessLimit
	if err := w.CanStartWar(20); !errors.Is(err, ErrWeary) {
		t.Fatalf("err = %v", err)
	}
	w.WarWeariness = 0
	w.Battles = []*Battle{{Type: Raid}, {Type: Raid}}
	if err := w.CanStartWar(20); !errors.Is(err, ErrTooManyBattles) {
		t.Fatalf("err = %v", err)
	}
}

func TestStartValidation(t *testing.T) {
	w := New()
	l := stocked()
	if _, err := w.Start(Siege, "Venedik", Force{Soldiers: 90, Morale: 100}, 20, l, even{}); !errors.Is(err, ErrTooFewSoldiers) {
		t.Fatalf("err = %v", err)
	}
	if _, err := w.Start(Defense, "Venedik", Force{Soldiers: 500}, 20, l, even{}); !errors.Is(err, ErrUnknownBattle) {
		t.Fatalf("err = %v", err)
	}
	w.SignPeace("Venedik", 2)
	if _, err := w.Start(Raid, "Venedik", Force{Soldiers: 200, Morale: 100}, 20, l, even{}); !errors.Is(err, ErrTreaty) {
		t.Fatalf("err = %v", err)
	}
	poor := ledger.New(ledger.Amounts{ledger.Gold: 100})
	if _, err := w.Start(Raid, "Macar", Force{Soldiers: 200, Morale: 100}, 20, poor, even{}); !errors.Is(err, ledger.ErrInsufficient) {
		t.Fatalf("err = %v", err)
	}
	if l.Get(ledger.Gold) != 10000 || len(w.Battles) != 0 || w.WarWeariness != 0 {
		t.Fatal("rejected battle changed state")
	}
	run(w, 20, 21)
	if len(w.PeaceTreaties) != 0 {
		t.Fatalf("treaties %v", w.PeaceTreaties)
	}
}

func TestRaidVictory(t *testing.T) {
	w := New()
	l := stocked()
	b, err := w.Start(Raid, "Macar", Force{Soldiers: 205, Morale: 100}, 12, l, even{})
	if err != nil {
		t.Fatal(err)
	}
	if b.Attacker.Infantry != 42 || b.Attacker.Cavalry != 18 || b.Phase != March || b.TurnsRemaining != 2 {
		t.Fatalf("battle %+v", b)
	}
	if l.Get(ledger.Gold) != 9700 || l.Get(ledger.Food) != 4800 || w.WarWeariness != 10 || !w.AtWar() {
		t.Fatalf("gold %d weariness %d", l.Get(ledger.Gold), w.WarWeariness)
	}

	if res := run(w, 13, 13); len(res.Engaged) != 0 {
		t.Fatal("combat began early")
	}
	if res := run(w, 14, 14); len(res.Engaged) != 1 || b.Phase != Combat || b.TurnsRemaining != 1 {
		t.Fatalf("battle %+v", b)
	}
	res := run(w, 15, 15)
	if len(res.Results) != 1 {
		t.Fatalf("results %+v", res)
	}
	r := res.Results[0]
	if !r.Victory || r.Casualties != 5 || r.LootGold != 1500 || r.LootFood != 100 || r.Loyalty != 10 || r.Morale != 15 {
		t.Fatalf("result %+v", r)
	}
	if w.AtWar() || w.Victories != 1 || len(w.History) != 1 || w.History[0].Turn != 15 || w.WarWeariness != 5 {
		t.Fatalf("warfare %+v", w)
	}
}

func TestRaidDefeat(t *testing.T) {
	w := New()
	if _, err := w.Start(Raid, "Macar", Force{Soldiers: 10, Morale: 10}, 12, stocked(), even{}); err != nil {
		t.Fatal(err)
	}
	r := run(w, 13, 15).Results[0]
	if r.Victory || r.Casualties < 9 || r.LootGold != 0 || r.Loyalty != -15 || r.Morale != -20 {
		t.Fatalf("result %+v", r)
	}
	if w.Defeats != 1 || w.Victories != 0 {
		t.Fatalf("defeats %d", w.Defeats)
	}
}

func TestEnemyAttack(t *testing.T) {
	w := New()
	if b := w.EnemyAttack("Safevi", Force{Soldiers: 100, Morale: 100}, 5, even{}); b != nil {
		t.Fatal("attack during protection")
	}
	b := w.EnemyAttack("Safevi", Force{Soldiers: 100, Morale: 100}, 20, even{})
	if b == nil || b.PlayerAttacker || b.Phase != Combat || b.Defender.Infantry != 60 {
		t.Fatalf("battle %+v", b)
	}
	w.Debilitate(-80)
	if w.EnemyDebuff != MaxDebuff {
		t.Fatalf("debuff %d", w.EnemyDebuff)
	}
	r := run(w, 21, 22).Results[0]
	if !r.Victory || r.LootGold != 2000 || r.Casualties >= r.EnemyCasualties {
		t.Fatalf("result %+v", r)
	}
	if w.EnemyDebuff != 0 {
		t.Fatal("debuff not consumed")
	}
}

func TestSanitize(t *testing.T) {
	w := &Warfare{
		Battles: []*Battle{
			{ID: "battle_7", Type: Defense, Phase: "aftermath", PlayerAttacker: true},
			{ID: "battle_2", Type: "naval"},
		},
		PeaceTreaties: map[string]int{"Venedik": 0, "Macar": 3},
		WarWeariness:  130,
		EnemyDebuff:   -4,
	}
	w.Sanitize()
	if len(w.Battles) != 1 || w.Battles[0].Phase != Combat || w.Battles[0].PlayerAttacker || w.Battles[0].TerrainBonus != 1.3 {
		t.Fatalf("battles %+v", w.Battles[0])
	}
	if len(w.Treaties()) != 1 || w.WarWeariness != 100 || w.EnemyDebuff != 0 || w.BattleCounter != 7 {
		t.Fatalf("warfare %+v", w)
	}
}
