package engine

import (
	"errors"
	"testing"

	"github.com/talgya/eyalet/internal/achievements"
	"github.com/talgya/eyalet/internal/construction"
	"github.com/talgya/eyalet/internal/diplomacy"
	"github.com/talgya/eyalet/internal/economy"
	"github.com/talgya/eyalet/internal/effect"
	"github.com/talgya/eyalet/internal/ledger"
	"github.com/talgya/eyalet/internal/naval"
	"github.com/talgya/eyalet/internal/religion"
	"github.com/talgya/eyalet/internal/trade"
	"github.com/talgya/eyalet/internal/warfare"
)

func TestBuildAndUpgradeFarm(t *testing.T) {
	g := newTestGame(t, 1, false)
	l := g.Resources()
	l.Set(ledger.Gold, 5000)
	l.Set(ledger.Wood, 1000)
	l.Set(ledger.Iron, 200)

	turns, err := g.Build(construction.Farm)
	if err != nil {
		t.Fatal(err)
	}
	if turns != 2 {
		t.Fatalf("build time = %d, want 2", turns)
	}
	if l.Get(ledger.Wood) != 850 || l.Get(ledger.Iron) != 190 {
		t.Errorf("cost not charged: %v", l.Stock())
	}
	g.AdvanceTurn()
	if g.Construction.Has(construction.Farm) {
		t.Fatal("farm finished early")
	}
	g.AdvanceTurn()
	if g.Construction.Level(construction.Farm) != 1 {
		t.Fatal("farm not finished after two turns")
	}

	want := ledger.Amounts{ledger.Gold: 300, ledger.Wood: 150, ledger.Iron: 10}
	if got := construction.UpgradeCost(construction.Farm, 1); got != want {
		t.Errorf("upgrade cost = %v, want %v", got, want)
	}
	if turns, err = g.Upgrade(construction.Farm); err != nil || turns != 1 {
		t.Fatalf("upgrade = %d, %v", turns, err)
	}
	g.AdvanceTurn()
	if g.Construction.Level(construction.Farm) != 2 {
		t.Errorf("level = %d, want 2", g.Construction.Level(construction.Farm))
	}
}

func TestDemolishRequiredBuilding(t *testing.T) {
	g := newTestGame(t, 1, false)
	g.Construction.Buildings[construction.Medrese] = &construction.Building{Level: 1}
	if err := g.Demolish(construction.Mosque); !errors.Is(err, construction.ErrRequiredBy) {
		t.Fatalf("err = %v", err)
	}
	if err := g.Demolish(construction.Medrese); err != nil {
		t.Fatal(err)
	}
	if v := g.Violations(); len(v) > 0 {
		t.Error(v)
	}
}

func TestSetTaxRateRange(t *testing.T) {
	g := newTestGame(t, 1, false)
	if err := g.SetTaxRate(0.5); !errors.Is(err, economy.ErrTaxRange) {
		t.Errorf("err = %v", err)
	}
	if err := g.SetTaxRate(0.2); err != nil || g.Economy.TaxRate != 0.2 {
		t.Errorf("rate = %v, %v", g.Economy.TaxRate, err)
	}
}

func TestInlandProvinceHasNoFleet(t *testing.T) {
	g := newTestGame(t, 1, false)
	if _, err := g.BuildShip(naval.Kadirga, "Deniz Kızı"); !errors.Is(err, ErrNotCoastal) {
		t.Errorf("build ship: %v", err)
	}
	if _, err := g.NavalRaid(naval.Kiyi); !errors.Is(err, ErrNotCoastal) {
		t.Errorf("raid: %v", err)
	}
}

func TestWarDuringProtection(t *testing.T) {
	g := newTestGame(t, 1, false)
	target := g.Diplomacy.NeighborNames()[0]
	if _, err := g.StartWar(warfare.Raid, target); !errors.Is(err, warfare.ErrPeacetime) {
		t.Errorf("err = %v", err)
	}
	if _, err := g.StartWar(warfare.Raid, "Atlantis"); !errors.Is(err, ErrUnknownProvince) {
		t.Errorf("unknown target: %v", err)
	}
}

func TestActivateRouteChargesTwiceBaseIncome(t *testing.T) {
	g := newTestGame(t, 1, false)
	r, ok := trade.LookupRoute("balkan_road")
	if !ok {
		t.Fatal("route missing")
	}
	before := g.Resources().Get(ledger.Gold)
	if err := g.ActivateRoute(r.ID); err != nil {
		t.Fatal(err)
	}
	if spent := before - g.Resources().Get(ledger.Gold); spent != 2*r.BaseIncome {
		t.Errorf("spent %d, want %d", spent, 2*r.BaseIncome)
	}
	if !g.Economy.RouteActive(r.ID) {
		t.Error("route not active")
	}
	if err := g.ActivateRoute(r.ID); !errors.Is(err, economy.ErrRouteActive) {
		t.Errorf("second activation: %v", err)
	}
	if err := g.ActivateRoute("mediterranean"); !errors.Is(err, trade.ErrNoPort) {
		t.Errorf("sea route without port: %v", err)
	}
}

func TestBuyAndSell(t *testing.T) {
	g := newTestGame(t, 1, false)
	gold := g.Resources().Get(ledger.Gold)
	paid, err := g.Buy(economy.Grain, 10)
	if err != nil {
		t.Fatal(err)
	}
	if paid <= 0 || g.Resources().Get(ledger.Gold) != gold-paid || g.Trade.Inventory[string(economy.Grain)] != 10 {
		t.Fatalf("paid %d, gold %d", paid, g.Resources().Get(ledger.Gold))
	}
	got, err := g.Sell(economy.Grain, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got <= 0 || got > paid || g.Trade.Inventory[string(economy.Grain)] != 6 {
		t.Errorf("sold for %d", got)
	}
	if _, err := g.Sell(economy.Grain, 100); !errors.Is(err, trade.ErrNoStock) {
		t.Errorf("oversell: %v", err)
	}
	if _, err := g.Buy(economy.Good("tulips"), 1); !errors.Is(err, ErrUnknownGood) {
		t.Errorf("unknown good: %v", err)
	}
}

func TestFulfillTributeMission(t *testing.T) {
	g := newTestGame(t, 1, false)
	g.Diplomacy.SultanLoyalty = 50
	m, ok := g.Diplomacy.AssignMission(diplomacy.MissionTribute)
	if !ok {
		t.Fatal("no tribute template")
	}
	gold := g.Resources().Get(ledger.Gold)
	done, err := g.FulfillMission(m.ID)
	if err != nil || !done {
		t.Fatalf("fulfill = %v, %v", done, err)
	}
	if g.Resources().Get(ledger.Gold) != gold-m.Target {
		t.Errorf("gold = %d", g.Resources().Get(ledger.Gold))
	}
	if g.Diplomacy.SultanLoyalty != 50+m.RewardLoyalty || g.Diplomacy.MissionsCompleted != 1 {
		t.Errorf("loyalty %d, completed %d", g.Diplomacy.SultanLoyalty, g.Diplomacy.MissionsCompleted)
	}
	if _, err := g.FulfillMission(m.ID); !errors.Is(err, diplomacy.ErrNoMission) {
		t.Errorf("second fulfil: %v", err)
	}
}

func TestKizilbasFatwa(t *testing.T) {
	tr := achievements.New()
	g, err := NewGame(Options{Seed: 1, Achievements: tr})
	if err != nil {
		t.Fatal(err)
	}
	legitimacy := g.Religion.Legitimacy
	if err := g.IssueFatwa(religion.FatwaKizilbas); err != nil {
		t.Fatal(err)
	}
	if !g.Religion.KizilbasSuppressed || g.Religion.RebellionsCrushed != 1 {
		t.Error("fatwa did not suppress the kızılbaş")
	}
	if g.Religion.Legitimacy < legitimacy {
		t.Errorf("legitimacy %d -> %d", legitimacy, g.Religion.Legitimacy)
	}
	if tr.Stats[achievements.RebellionsCrush] != 1 {
		t.Errorf("counter = %d", tr.Stats[achievements.RebellionsCrush])
	}
	if err := g.IssueFatwa(religion.FatwaKizilbas); !errors.Is(err, religion.ErrFatwaIssued) {
		t.Errorf("second fatwa: %v", err)
	}
}

func TestUnknownEffectDropped(t *testing.T) {
	g := newTestGame(t, 1, false)
	gold := g.Resources().Get(ledger.Gold)
	g.apply(effect.Bundle{{ID: effect.ID(250), Value: 10}, {ID: effect.Gold, Value: 25}}, "test")
	if g.Resources().Get(ledger.Gold) != gold+25 {
		t.Errorf("gold = %d", g.Resources().Get(ledger.Gold))
	}
}
