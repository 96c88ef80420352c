package espionage

import (
	"errors"
	"math"
	"testing"

	"github.com/talgya/eyalet/internal/effect"
	"github.com/talgya/eyalet/internal/ledger"
)

// dice rolls roll for every uniform draw and yes for every chance.
type dice struct {
	roll float64
	yes  bool
}

func (d dice) Float() float64                { return d.roll }
func (d dice) IntN(int) int                  { return 0 }
func (d dice) Range(lo, _ int) int           { return lo }
func (d dice) Uniform(lo, _ float64) float64 { return lo }
func (d dice) Chance(float64) bool           { return d.yes }

func TestRecruit(t *testing.T) {
	e := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 1000})
	s, err := e.Recruit(Tebdil, false, l, dice{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Skill != 7 || s.Name != "Hüsrev Ağa" || s.Status != Idle || l.Get(ledger.Gold) != 820 {
		t.Fatalf("spy %+v gold %d", s, l.Get(ledger.Gold))
	}
	if _, err := e.Recruit(Cariye, false, l, dice{}); !errors.Is(err, ErrFemaleOnly) {
		t.Fatalf("err = %v", err)
	}
	if _, err := e.Recruit("ninja", false, l, dice{}); !errors.Is(err, ErrUnknownSpy) {
		t.Fatalf("err = %v", err)
	}
	if l.Get(ledger.Gold) != 820 || e.Count() != 1 || e.Maintenance() != 8 {
		t.Fatalf("gold %d count %d", l.Get(ledger.Gold), e.Count())
	}
}

func TestSuccessChanceClamp(t *testing.T) {
	tests := []struct {
		skill  int
		op     Operation
		target string
		bonus  float64
		want   float64
	}{
		{7, Kesif, "Safevi Devleti", 0.15, 44},
		{7, Kesif, "Safevi Devleti", 0, 29},
		{3, Suikast, "Venedik Cumhuriyeti", 0, 10},
		{12, Kesif, "Mısır Eyaleti", 0.5, 90},
		{6, Sabotaj, "Kırım Hanlığı", 0, 20},
	}
	for _, tt := range tests {
		got := SuccessChance(&Spy{Skill: tt.skill}, tt.op, tt.target, tt.bonus)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s vs %s: %v, want %v", tt.op, tt.target, got, tt.want)
		}
	}
}

func TestMissionValidation(t *testing.T) {
	e := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 1000})
	s, _ := e.Recruit(Tebdil, false, l, dice{})
	if _, err := e.StartMission(s.ID, Suikast, "Safevi Devleti", 0, false, l); !errors.Is(err, ErrSkill) {
		t.Fatalf("err = %v", err)
	}
	if _, err := e.StartMission(s.ID, Harem, "Safevi Devleti", 0, false, l); !errors.Is(err, ErrFemaleOnly) {
		t.Fatalf("err = %v", err)
	}
	if _, err := e.StartMission("spy_99", Kesif, "Safevi Devleti", 0, false, l); !errors.Is(err, ErrNoSpy) {
		t.Fatalf("err = %v", err)
	}
	if l.Get(ledger.Gold) != 820 || s.Status != Idle {
		t.Fatal("rejected mission changed state")
	}
	if _, err := e.StartMission(s.ID, Kesif, "Safevi Devleti", 0, false, l); err != nil {
		t.Fatal(err)
	}
	if _, err := e.StartMission(s.ID, Kesif, "Safevi Devleti", 0, false, l); !errors.Is(err, ErrNoSpy) {
		t.Fatalf("busy spy accepted second mission: %v", err)
	}
}

func TestMissionSuccess(t *testing.T) {
	e := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 1000})
	s, _ := e.Recruit(Tebdil, false, l, dice{})
	m, err := e.StartMission(s.ID, Kesif, "Safevi Devleti", 0.15, false, l)
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != OnMission || s.CurrentMission != m.ID || s.Location != "Safevi Devleti" || l.Get(ledger.Gold) != 770 {
		t.Fatalf("spy %+v gold %d", s, l.Get(ledger.Gold))
	}
	if res := e.ProcessTurn(dice{}); len(res.Completed) != 0 {
		t.Fatal("mission finished early")
	}
	res := e.ProcessTurn(dice{})
	if len(res.Completed) != 1 || res.Completed[0].Effects.Sum(effect.Intelligence) != 1 {
		t.Fatalf("result %+v", res)
	}
	if s.Status != Idle || s.CurrentMission != "" || s.Experience != 10 || s.Location != Home {
		t.Fatalf("spy %+v", s)
	}
	if e.Security != 48 || e.Successful != 1 || len(e.Missions) != 0 {
		t.Fatalf("security %d", e.Security)
	}
}

func TestCaptureAndRescue(t *testing.T) {
	e := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 2000})
	s, _ := e.Recruit(Hafiye, false, l, dice{})
	if _, err := e.Rescue(s.ID, l, dice{yes: true}); !errors.Is(err, ErrNotCaptured) {
		t.Fatalf("err = %v", err)
	}
	if _, err := e.StartMission(s.ID, Karsi, "Safevi Devleti", 0, false, l); err != nil {
		t.Fatal(err)
	}
	res := e.ProcessTurn(dice{roll: 0.99, yes: true})
	if len(res.Failed) != 1 || len(res.Captured) != 1 || s.Status != Captured || s.CurrentMission != "" {
		t.Fatalf("result %+v spy %+v", res, s)
	}
	if res.Detected != "Safevi" || e.KnownEnemySpies != 1 || e.Security != 54 {
		t.Fatalf("detected %q security %d", res.Detected, e.Security)
	}
	ok, err := e.Rescue(s.ID, l, dice{yes: true})
	if err != nil || !ok || s.Status != Idle {
		t.Fatalf("rescue %v %v spy %+v", ok, err, s)
	}
	// 2000 - 100 recruit - 100 mission - 500 ransom
	if l.Get(ledger.Gold) != 1300 {
		t.Fatalf("gold %d", l.Get(ledger.Gold))
	}

	e.StartMission(s.ID, Karsi, "Safevi Devleti", 0, false, l)
	e.ProcessTurn(dice{roll: 0.99, yes: true})
	if ok, _ := e.Rescue(s.ID, l, dice{}); ok || s.Status != Dead || e.Count() != 0 {
		t.Fatalf("spy %+v", s)
	}
}

func TestEscapeOnFailure(t *testing.T) {
	e := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 1000})
	s, _ := e.Recruit(Hafiye, false, l, dice{})
	e.StartMission(s.ID, Karsi, "Safevi Devleti", 0, false, l)
	res := e.ProcessTurn(dice{roll: 0.99})
	if len(res.Failed) != 1 || len(res.Captured) != 0 || s.Status != Idle || s.Location != Home {
		t.Fatalf("spy %+v", s)
	}
}

func TestSanitizeAlignsStatus(t *testing.T) {
	e := &Espionage{
		Spies: []*Spy{
			{ID: "spy_3", Type: Cavus, Status: OnMission, CurrentMission: "mission_9"},
			{ID: "spy_4", Type: "ninja"},
			{ID: "spy_1", Type: Hafiye, Status: Idle},
		},
		Missions: []*Mission{
			{ID: "mission_2", Operation: Kesif, SpyID: "spy_1", TurnsRemaining: 0, SuccessChance: 120},
			{ID: "mission_5", Operation: "poison", SpyID: "spy_3"},
		},
		Security: 140,
	}
	e.Sanitize()
	if len(e.Spies) != 2 || len(e.Missions) != 1 {
		t.Fatalf("spies %d missions %d", len(e.Spies), len(e.Missions))
	}
	for _, s := range e.Spies {
		if (s.Status == OnMission) != (s.CurrentMission != "") {
			t.Fatalf("spy %+v status disagrees with mission", s)
		}
	}
	if s, _ := e.Spy("spy_1"); s.Status != OnMission || s.CurrentMission != "mission_2" {
		t.Fatalf("spy_1 = %+v", s)
	}
	m := e.Missions[0]
	if m.TurnsRemaining != 1 || m.SuccessChance != 90 || e.Security != 100 {
		t.Fatalf("mission %+v security %d", m, e.Security)
	}
	if e.SpyCounter != 3 || e.MissionCounter != 2 {
		t.Fatalf("counters %d %d", e.SpyCounter, e.MissionCounter)
	}
}
