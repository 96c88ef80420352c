package military

import (
	"errors"
	"testing"

	"github.com/talgya/eyalet/internal/ledger"
)

func TestStartingArmy(t *testing.T) {
	m := New()
	if m.TotalSoldiers() != 205 {
		t.Fatalf("soldiers = %d", m.TotalSoldiers())
	}
	if m.Maintenance() != 825 {
		t.Fatalf("maintenance = %d", m.Maintenance())
	}
	if got := m.TotalPower(General); got != 4438 {
		t.Fatalf("power = %d", got)
	}
	if m.TotalPower(Siege) <= m.TotalPower(General) {
		t.Fatal("siege power should count artillery double")
	}
}

func TestRecruitValidation(t *testing.T) {
	m := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 100_000, ledger.Food: 100_000})

	if _, err := m.Recruit(Levend, 10, l, false); !errors.Is(err, ErrNoPort) {
		t.Fatalf("err = %v", err)
	}
	if _, err := m.Recruit(TimarliSipahi, 101, l, false); !errors.Is(err, ErrNoTimar) {
		t.Fatalf("err = %v", err)
	}
	if _, err := m.Recruit(Azap, 0, l, false); !errors.Is(err, ErrBadCount) {
		t.Fatalf("err = %v", err)
	}
	if _, err := m.Recruit("mamluk", 1, l, false); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("err = %v", err)
	}
	if l.Get(ledger.Gold) != 100_000 {
		t.Fatal("failed recruitment spent gold")
	}

	if _, err := m.Recruit(TimarliSipahi, 60, l, false); err != nil {
		t.Fatal(err)
	}
	if m.AvailableTimars() != 40 {
		t.Fatalf("timars left = %d", m.AvailableTimars())
	}
	m.UpdateTimars(2)
	if m.AvailableTimars() != 140 {
		t.Fatalf("timars after fortress = %d", m.AvailableTimars())
	}
}

func TestTrainingCompletes(t *testing.T) {
	m := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 10_000, ledger.Food: 10_000})
	turns, err := m.Recruit(Yenicheri, 10, l, false)
	if err != nil {
		t.Fatal(err)
	}
	if turns != 3 || l.Get(ledger.Gold) != 8000 || l.Get(ledger.Food) != 9200 {
		t.Fatalf("turns %d stock %v", turns, l.Stock())
	}
	for i := 0; i < 2; i++ {
		if done := m.ProcessTurn(); len(done) != 0 {
			t.Fatalf("turn %d completed early", i)
		}
	}
	done := m.ProcessTurn()
	if len(done) != 1 || m.Units[Yenicheri] != 40 {
		t.Fatalf("done %v yenicheri %d", done, m.Units[Yenicheri])
	}
}

func TestCasualtiesAreProportional(t *testing.T) {
	m := New()
	losses := m.ApplyCasualties(41)
	want := map[UnitType]int{Sipahi: 10, Yenicheri: 6, Azap: 20, Topcu: 1, Akinci: 4}
	for u, n := range want {
		if losses[u] != n {
			t.Errorf("%s losses = %d, want %d", u, losses[u], n)
		}
	}
	if m.TotalSoldiers() != 164 || m.TotalLosses != 41 {
		t.Fatalf("soldiers %d losses %d", m.TotalSoldiers(), m.TotalLosses)
	}
	m.ApplyCasualties(10_000)
	if m.TotalSoldiers() != 0 {
		t.Fatalf("soldiers = %d", m.TotalSoldiers())
	}
}

func TestFightBandits(t *testing.T) {
	m := New()
	m.Morale = 80
	r := m.FightBandits()
	if !r.Victory || r.EnemyPower != 120 {
		t.Fatalf("result = %+v", r)
	}
	if m.TotalSoldiers() != 195 || m.Morale != 90 || m.TotalVictories != 1 {
		t.Fatalf("soldiers %d morale %d", m.TotalSoldiers(), m.Morale)
	}

	weak := &Military{Units: map[UnitType]int{Azap: 5}, Morale: 50}
	r = weak.FightBandits()
	if r.Victory || weak.Units[Azap] != 4 || weak.Morale != 30 {
		t.Fatalf("weak result %+v units %v morale %d", r, weak.Units, weak.Morale)
	}
}

func TestCommanders(t *testing.T) {
	m := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 600})
	c, err := m.Appoint("Koca Sinan", SiegeMaster, l)
	if err != nil {
		t.Fatal(err)
	}
	if l.Get(ledger.Gold) != 100 {
		t.Fatalf("gold = %d", l.Get(ledger.Gold))
	}
	before := m.TotalPower(Siege)
	if err := m.Assign(c.ID, RoleField); !errors.Is(err, ErrRoleTaken) {
		t.Fatalf("err = %v", err)
	}
	if err := m.Assign(c.ID, RoleSiege); err != nil {
		t.Fatal(err)
	}
	if m.TotalPower(Siege) <= before {
		t.Fatal("siege master did not raise siege power")
	}
	if _, err := m.Appoint("Fakir Bey", Defender, l); !errors.Is(err, ledger.ErrInsufficient) {
		t.Fatalf("err = %v", err)
	}
	if err := m.Assign(99, RoleNaval); !errors.Is(err, ErrNoCommander) {
		t.Fatalf("err = %v", err)
	}
}

func TestLogisticianCutsUpkeep(t *testing.T) {
	m := New()
	m.Commanders = append(m.Commanders, &Commander{ID: 2, Name: "Lala Paşa", Trait: Logistician, Role: RoleGarrison})
	if got := m.Maintenance(); got != 742 {
		t.Fatalf("maintenance = %d", got)
	}
}

func TestSanitize(t *testing.T) {
	m := &Military{
		Units:         map[UnitType]int{Sipahi: 10, "mamluk": 5},
		TrainingQueue: []TrainingEntry{{Unit: "ghost", Count: 3, TurnsRemaining: 1}, {Unit: Azap, Count: 5}},
		Morale:        140,
		Commanders: []*Commander{
			{ID: 4, Name: "A", Trait: Strategist, Role: RoleField},
			{ID: 5, Name: "B", Trait: Defender, Role: RoleField},
			{ID: 6, Name: "C", Trait: "wizard"},
		},
	}
	m.Sanitize()
	if len(m.Units) != 1 || len(m.TrainingQueue) != 1 || m.TrainingQueue[0].TurnsRemaining != 1 {
		t.Fatalf("units %v queue %v", m.Units, m.TrainingQueue)
	}
	if m.Morale != 100 || m.TimarCapacity != BaseTimarCapacity {
		t.Fatalf("morale %d timars %d", m.Morale, m.TimarCapacity)
	}
	if len(m.Commanders) != 2 || m.Commanders[1].Role != "" || m.NextCommander != 6 {
		t.Fatalf("commanders %+v next %d", m.Commanders, m.NextCommander)
	}
}

func TestReleaseExcessTimars(t *testing.T) {
	m := New()
	m.Units[TimarliSipahi] = 90
	m.TrainingQueue = append(m.TrainingQueue, TrainingEntry{Unit: TimarliSipahi, Count: 30, TurnsRemaining: 2})
	if got := m.ReleaseExcess(); got != 20 {
		t.Fatalf("released %d", got)
	}
	if m.TimarsInUse() != m.TimarCapacity || m.TrainingQueue[0].Count != 10 {
		t.Fatalf("in use %d queue %+v", m.TimarsInUse(), m.TrainingQueue)
	}
	m.UpdateTimars(0)
	m.Units[TimarliSipahi] = 150
	m.TrainingQueue = nil
	if got := m.ReleaseExcess(); got != 50 || m.Units[TimarliSipahi] != 100 {
		t.Fatalf("released %d units %d", got, m.Units[TimarliSipahi])
	}
}

func TestTotalPowerIsStable(t *testing.T) {
	m := New()
	m.Commanders = nil
	m.Units[AgirSuvari] = 7
	m.Units[Yenicheri] = 13
	m.Units[Levend] = 3
	for _, kind := range []PowerKind{General, Field, Defense, Siege} {
		want := 0.0
		for _, u := range UnitTypes {
			s := unitStats[u]
			want += float64(m.Units[u]*(s.Attack+s.Defense)) * kind.multiplier(u)
		}
		first := m.TotalPower(kind)
		if first != int(want) {
			t.Errorf("kind %v: power %d, want %d", kind, first, int(want))
		}
		for i := 0; i < 50; i++ {
			if got := m.TotalPower(kind); got != first {
				t.Fatalf("kind %v: power changed %d -> %d", kind, first, got)
			}
		}
	}
}
