package diplomacy

import (
	"errors"
	"testing"

	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/ledger"
	"github.com/talgya/eyalet/internal/world"
)

// fate answers every roll the same way: yes means every chance succeeds
// and every 1..100 roll comes up lowest.
type fate struct{ yes bool }

func (f fate) Float() float64 {
	if f.yes {
		return 0
	}
	return 0.999
}
func (f fate) IntN(int) int { return 0 }
func (f fate) Range(lo, hi int) int {
	if f.yes {
		return lo
	}
	return hi
}
func (f fate) Uniform(lo, _ float64) float64 { return lo }
func (f fate) Chance(float64) bool           { return f.yes }

func rum(t *testing.T) *Diplomacy {
	t.Helper()
	p, ok := world.Lookup("Rum Eyaleti")
	if !ok {
		t.Fatal("Rum Eyaleti missing from catalog")
	}
	d := New()
	d.SeedNeighbors(p)
	return d
}

func TestSeedNeighbors(t *testing.T) {
	d := rum(t)
	tests := []struct {
		name     string
		value    int
		category Category
	}{
		{"Trabzon Eyaleti", 70, Allied},
		{"Safevi Devleti", -50, Cold},
		{"Venedik Cumhuriyeti", -30, Cold},
	}
	for _, tt := range tests {
		r, ok := d.Relation(tt.name)
		if !ok {
			t.Fatalf("%s missing", tt.name)
		}
		if r.Value != tt.value || r.Category != tt.category {
			t.Errorf("%s = %d %s, want %d %s", tt.name, r.Value, r.Category, tt.value, tt.category)
		}
	}
	if r, _ := d.Relation("Safevi Devleti"); r.Personality != Aggressive || !r.Foreign {
		t.Fatalf("safevi = %+v", r)
	}
	if len(d.Hostile()) != 2 {
		t.Fatalf("hostile = %d", len(d.Hostile()))
	}
}

func TestCategoryBands(t *testing.T) {
	tests := []struct {
		v    int
		want Category
	}{
		{-100, Hostile}, {-61, Hostile}, {-60, Cold}, {-21, Cold}, {-20, Neutral},
		{19, Neutral}, {20, Friendly}, {59, Friendly}, {60, Allied}, {100, Allied},
	}
	for _, tt := range tests {
		if got := CategoryOf(tt.v); got != tt.want {
			t.Errorf("CategoryOf(%d) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestSendTribute(t *testing.T) {
	d := New()
	l := ledger.New(ledger.Amounts{ledger.Gold: 5000})
	loyalty, favor, err := d.SendTribute(2000, l)
	if err != nil {
		t.Fatal(err)
	}
	if loyalty != 4 || favor != 2 || d.SultanLoyalty != 94 || d.SultanFavor != 52 {
		t.Fatalf("loyalty %d favor %d", d.SultanLoyalty, d.SultanFavor)
	}
	if _, _, err := d.SendTribute(10_000, l); !errors.Is(err, ledger.ErrInsufficient) {
		t.Fatalf("err = %v", err)
	}
	if d.SultanLoyalty != 94 {
		t.Fatal("failed tribute changed loyalty")
	}
}

func TestEnvoyCooldown(t *testing.T) {
	d := rum(t)
	gain, err := d.SendEnvoy("Safevi Devleti", 0.03, fate{yes: true})
	if err != nil {
		t.Fatal(err)
	}
	if r, _ := d.Relation("Safevi Devleti"); gain != 18 || r.Value != -32 {
		t.Fatalf("gain %d value %d", gain, r.Value)
	}
	if _, err := d.SendEnvoy("Safevi Devleti", 0, fate{yes: true}); !errors.Is(err, ErrCooldown) {
		t.Fatalf("err = %v", err)
	}
	for i := 0; i < EnvoyCooldown; i++ {
		d.ProcessTurn(TurnInput{Rand: fate{}})
	}
	if _, err := d.SendEnvoy("Atlantis", 0, fate{yes: true}); !errors.Is(err, ErrUnknownNeighbor) {
		t.Fatalf("err = %v", err)
	}
}

func TestMissionExpiry(t *testing.T) {
	d := New()
	m, ok := d.AssignMission(MissionTribute)
	if !ok {
		t.Fatal("tribute template missing")
	}
	d.AssignMission(MissionSuppress)
	for i := 0; i < 3; i++ {
		d.ProcessTurn(TurnInput{Rand: fate{}})
	}
	if len(d.Missions) != 1 || d.Missions[0].ID != m.ID {
		t.Fatalf("missions = %+v", d.Missions)
	}
	if d.SultanLoyalty != 80 || d.SultanFavor != 35 {
		t.Fatalf("loyalty %d favor %d", d.SultanLoyalty, d.SultanFavor)
	}
	if _, err := d.CompleteMission(m.ID); err != nil {
		t.Fatal(err)
	}
	if d.SultanLoyalty != 95 || d.SultanFavor != 45 || len(d.Missions) != 0 {
		t.Fatalf("loyalty %d favor %d", d.SultanLoyalty, d.SultanFavor)
	}
	if _, err := d.CompleteMission(m.ID); !errors.Is(err, ErrNoMission) {
		t.Fatalf("err = %v", err)
	}
}

func TestMarriageChain(t *testing.T) {
	d := rum(t)
	l := ledger.New(ledger.Amounts{ledger.Gold: 5000})
	if _, err := d.StartChain(ChainMarriage, "Safevi Devleti", l); !errors.Is(err, ErrRelationLow) {
		t.Fatalf("err = %v", err)
	}
	c, err := d.StartChain(ChainMarriage, "Trabzon Eyaleti", l)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.StartChain(ChainMarriage, "Trabzon Eyaleti", l); !errors.Is(err, ErrChainActive) {
		t.Fatalf("err = %v", err)
	}
	var events []ChainEvent
	for i := 0; i < 6; i++ {
		events = append(events, d.ProcessTurn(TurnInput{Rand: fate{yes: true}}).Chains...)
	}
	if len(events) != 3 || !events[2].Success || len(events[2].Chain.Outcomes) != 3 {
		t.Fatalf("events = %+v", events)
	}
	if !d.IsAlly("Trabzon Eyaleti") || len(d.Chains) != 0 || c.Stage != 3 {
		t.Fatalf("alliances %v chains %d", d.Alliances, len(d.Chains))
	}
	if r, _ := d.Relation("Trabzon Eyaleti"); r.Value != 100 {
		t.Fatalf("relation = %d", r.Value)
	}
}

func TestPeaceChainFailure(t *testing.T) {
	d := rum(t)
	l := ledger.New(ledger.Amounts{ledger.Gold: 5000})
	if _, err := d.StartChain(ChainPeace, "Trabzon Eyaleti", l); !errors.Is(err, ErrRelationHigh) {
		t.Fatalf("err = %v", err)
	}
	if _, err := d.StartChain(ChainPeace, "Safevi Devleti", l); err != nil {
		t.Fatal(err)
	}
	d.ProcessTurn(TurnInput{Rand: fate{}})
	res := d.ProcessTurn(TurnInput{Rand: fate{}})
	if len(res.Chains) != 1 || res.Chains[0].Success || !res.Chains[0].Completed {
		t.Fatalf("chains = %+v", res.Chains)
	}
	if r, _ := d.Relation("Safevi Devleti"); r.Value != -55 {
		t.Fatalf("relation = %d", r.Value)
	}
}

func TestVassalChainAddsTribute(t *testing.T) {
	d := rum(t)
	l := ledger.New(ledger.Amounts{ledger.Gold: 5000})
	if _, err := d.StartChain(ChainVassal, "Trabzon Eyaleti", l); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("err = %v", err)
	}
	d.AdjustRelation("Venedik Cumhuriyeti", 40)
	if _, err := d.StartChain(ChainVassal, "Venedik Cumhuriyeti", l); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		d.ProcessTurn(TurnInput{Rand: fate{yes: true}, MilitaryPower: 5000})
	}
	if !d.IsVassal("Venedik Cumhuriyeti") || d.TributeDue() != VassalTribute {
		t.Fatalf("vassals = %+v", d.Vassals)
	}
}

func TestMomentum(t *testing.T) {
	d := rum(t)
	d.AddMomentum("Trabzon Eyaleti", -5, 2, "sınır anlaşmazlığı")
	d.ProcessTurn(TurnInput{Rand: fate{}})
	d.ProcessTurn(TurnInput{Rand: fate{}})
	d.ProcessTurn(TurnInput{Rand: fate{}})
	if r, _ := d.Relation("Trabzon Eyaleti"); r.Value != 60 || len(d.Momentum) != 0 {
		t.Fatalf("relation %d momentum %v", r.Value, d.Momentum)
	}
}

func TestIgnoredDemandSoursRelation(t *testing.T) {
	d := rum(t)
	res := d.ProcessTurn(TurnInput{Rand: fate{yes: true}})
	if len(res.NewDemands) != 2 {
		t.Fatalf("demands = %+v", res.NewDemands)
	}
	l := ledger.New(ledger.Amounts{ledger.Gold: 5000})
	paid, err := d.PayDemand(0, l)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < DemandDuration; i++ {
		d.ProcessTurn(TurnInput{Rand: fate{}})
	}
	if len(d.Demands) != 0 {
		t.Fatalf("demands left = %v", d.Demands)
	}
	other := "Venedik Cumhuriyeti"
	if paid.From == other {
		other = "Safevi Devleti"
	}
	r, _ := d.Relation(other)
	want := InitialRelation(world.Territory{Type: world.TypeEyalet}, world.Territory{Name: other, Type: world.TypeForeign}) - 15
	if r.Value != want {
		t.Fatalf("%s relation = %d, want %d", other, r.Value, want)
	}
}

func TestLoyaltyDriftIsSlow(t *testing.T) {
	drops := 0
	for seed := uint64(0); seed < 400; seed++ {
		d := New()
		d.ProcessTurn(TurnInput{Rand: entropy.New(seed)})
		switch d.SultanLoyalty {
		case 90:
		case 89:
			drops++
		default:
			t.Fatalf("seed %d: loyalty %d", seed, d.SultanLoyalty)
		}
	}
	if drops < 40 || drops > 130 {
		t.Fatalf("loyalty dropped in %d of 400 turns", drops)
	}
}

func TestSanitize(t *testing.T) {
	d := &Diplomacy{
		SultanLoyalty: 140,
		SultanFavor:   -5,
		Neighbors:     map[string]*Relation{"X": {Value: 300, Personality: "insane"}, "Y": nil},
		Missions:      []Mission{{ID: 7, Type: MissionMilitary, TurnsRemaining: 2}, {ID: 8, Type: "conquer_moon", TurnsRemaining: 2}},
		Chains:        []*Chain{{Type: "crusade"}, {Type: ChainPeace, Target: "X"}, {Type: ChainVassal, Stage: 5}},
		EnvoyCooldown: 9,
	}
	d.Sanitize()
	if d.SultanLoyalty != 100 || d.SultanFavor != 0 || d.EnvoyCooldown != EnvoyCooldown {
		t.Fatalf("loyalty %d favor %d cooldown %d", d.SultanLoyalty, d.SultanFavor, d.EnvoyCooldown)
	}
	if r := d.Neighbors["X"]; len(d.Neighbors) != 1 || r.Value != 100 || r.Category != Allied || r.Personality != "" {
		t.Fatalf("neighbors = %+v", d.Neighbors)
	}
	if len(d.Missions) != 1 || d.MissionCounter != 7 || len(d.Chains) != 1 || d.Chains[0].Data == nil {
		t.Fatalf("missions %v chains %v", d.Missions, d.Chains)
	}
}
