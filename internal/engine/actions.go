package engine

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/talgya/eyalet/internal/achievements"
	"github.com/talgya/eyalet/internal/artillery"
	"github.com/talgya/eyalet/internal/construction"
	"github.com/talgya/eyalet/internal/economy"
	"github.com/talgya/eyalet/internal/history"
	"github.com/talgya/eyalet/internal/ledger"
	"github.com/talgya/eyalet/internal/military"
	"github.com/talgya/eyalet/internal/naval"
	"github.com/talgya/eyalet/internal/population"
	"github.com/talgya/eyalet/internal/trade"
	"github.com/talgya/eyalet/internal/warfare"
	"github.com/talgya/eyalet/internal/workers"
)

// ErrUnknownGood is returned for market goods outside the catalog.
var ErrUnknownGood = errors.New("bilinmeyen mal")

// SellShare is the part of the market price paid to the province on a sale.
const SellShare = 0.9

// bump credits an achievement counter for something done outside a turn.
func (g *Game) bump(name string, n int) {
	if tr := g.opts.Achievements; tr != nil && n > 0 {
		tr.Increment(name, n)
	}
}

func (g *Game) live() error {
	if g.GameOver {
		return ErrGameOver
	}
	return nil
}

// SetTaxRate changes the tax rate; rate is a fraction between 0.05 and 0.40.
func (g *Game) SetTaxRate(rate float64) error {
	if err := g.live(); err != nil {
		return err
	}
	if err := g.Economy.SetTaxRate(rate); err != nil {
		return err
	}
	g.announce(Info, fmt.Sprintf("Vergi oranı %%%d olarak belirlendi", int(rate*100+0.5)))
	return nil
}

// OrderSurvey commissions a new tahrir.
func (g *Game) OrderSurvey() error {
	if err := g.live(); err != nil {
		return err
	}
	if err := g.Economy.OrderSurvey(g.Turn); err != nil {
		return err
	}
	g.announce(Info, "Tahrir defteri yenilendi")
	g.record("Yeni tahrir yapıldı", history.Economic)
	return nil
}

// SetMigrationPolicy changes how the province treats newcomers.
func (g *Game) SetMigrationPolicy(p population.MigrationPolicy) error {
	if err := g.live(); err != nil {
		return err
	}
	return g.Population.SetPolicy(p)
}

func (g *Game) buildSpeed() float64 {
	return g.Workers.CurrentBonuses().ConstructionSpeed
}

// Build queues a new building and returns the turns it will take.
func (g *Game) Build(t construction.Type) (int, error) {
	if err := g.live(); err != nil {
		return 0, err
	}
	turns, err := g.Construction.Start(t, g.Resources(), g.Province.Coastal, g.buildSpeed())
	if err != nil {
		return 0, err
	}
	g.announce(Info, fmt.Sprintf("%s inşaatı başladı (%d tur)", t.Name(), turns))
	return turns, nil
}

// Upgrade raises a finished building one level.
func (g *Game) Upgrade(t construction.Type) (int, error) {
	if err := g.live(); err != nil {
		return 0, err
	}
	turns, err := g.Construction.Upgrade(t, g.Resources(), g.buildSpeed())
	if err != nil {
		return 0, err
	}
	g.announce(Info, fmt.Sprintf("%s genişletiliyor (%d tur)", t.Name(), turns))
	return turns, nil
}

// InstallModule adds a module to a finished building.
func (g *Game) InstallModule(t construction.Type, module string) error {
	if err := g.live(); err != nil {
		return err
	}
	if err := g.Construction.InstallModule(t, module, g.Resources()); err != nil {
		return err
	}
	g.announce(Info, fmt.Sprintf("%s binasına eklenti kuruldu: %s", t.Name(), module))
	return nil
}

// Demolish tears a building down. Capacities that depended on it shrink at once.
func (g *Game) Demolish(t construction.Type) error {
	if err := g.live(); err != nil {
		return err
	}
	if err := g.Construction.Demolish(t); err != nil {
		return err
	}
	g.Military.UpdateTimars(g.Construction.Level(construction.Fortress))
	if n := g.Military.ReleaseExcess(); n > 0 {
		g.announce(Warning, fmt.Sprintf("Tımar yetersiz: %d sipahi terhis edildi", n))
	}
	g.Artillery.UpdateFoundry(g.Construction.Level(construction.ArtilleryFoundry))
	g.Trade.UpdatePort(g.Construction.Has(construction.Shipyard), g.Construction.Level(construction.Shipyard))
	g.announce(Info, t.Name()+" yıkıldı")
	g.record(t.Name()+" yıkıldı", history.General)
	return nil
}

// HireWorker employs a new worker.
func (g *Game) HireWorker(t workers.Type) (*workers.Worker, error) {
	if err := g.live(); err != nil {
		return nil, err
	}
	w, err := g.Workers.Hire(t, g.Resources())
	if err != nil {
		return nil, err
	}
	g.announce(Info, fmt.Sprintf("%s işe alındı (%s)", w.Name, t.Name()))
	return w, nil
}

// AssignWorker moves worker i to a task.
func (g *Game) AssignWorker(i int, task workers.Task) error {
	if err := g.live(); err != nil {
		return err
	}
	return g.Workers.Assign(i, task)
}

// FireWorker dismisses worker i.
func (g *Game) FireWorker(i int) error {
	if err := g.live(); err != nil {
		return err
	}
	w, err := g.Workers.Fire(i)
	if err != nil {
		return err
	}
	g.announce(Info, w.Name+" işten çıkarıldı")
	return nil
}

// Recruit trains count soldiers of type u.
func (g *Game) Recruit(u military.UnitType, count int) (int, error) {
	if err := g.live(); err != nil {
		return 0, err
	}
	turns, err := g.Military.Recruit(u, count, g.Resources(), g.Construction.Has(construction.Shipyard))
	if err != nil {
		return 0, err
	}
	g.announce(Info, fmt.Sprintf("%d %s eğitime alındı (%d tur)", count, u.Name(), turns))
	return turns, nil
}

// AppointCommander hires a commander with the given trait.
func (g *Game) AppointCommander(name string, trait military.Trait) (*military.Commander, error) {
	if err := g.live(); err != nil {
		return nil, err
	}
	c, err := g.Military.Appoint(name, trait, g.Resources())
	if err != nil {
		return nil, err
	}
	g.announce(Info, fmt.Sprintf("%s komutan atandı (%s)", c.Name, trait.Name()))
	return c, nil
}

// AssignCommander gives commander id a role. An empty role relieves them.
func (g *Game) AssignCommander(id int, role military.Role) error {
	if err := g.live(); err != nil {
		return err
	}
	return g.Military.Assign(id, role)
}

// ProduceCannon orders a casting at the foundry.
func (g *Game) ProduceCannon(t artillery.Type, m artillery.Material, name string) (int, error) {
	if err := g.live(); err != nil {
		return 0, err
	}
	turns, err := g.Artillery.Produce(t, m, name, g.Resources())
	if err != nil {
		return 0, err
	}
	g.announce(Info, fmt.Sprintf("Top dökümü başladı (%d tur)", turns))
	return turns, nil
}

// RepairCannon restores a damaged cannon.
func (g *Game) RepairCannon(id string) error {
	if err := g.live(); err != nil {
		return err
	}
	return g.Artillery.Repair(id, g.Resources())
}

// SetCannonAmmo loads a cannon with a different shot.
func (g *Game) SetCannonAmmo(id string, ammo artillery.Ammo) error {
	if err := g.live(); err != nil {
		return err
	}
	return g.Artillery.SetAmmo(id, ammo)
}

// BuildShip lays down a hull at the shipyard.
func (g *Game) BuildShip(t naval.ShipType, name string) (int, error) {
	if err := g.live(); err != nil {
		return 0, err
	}
	if !g.Province.Coastal {
		return 0, ErrNotCoastal
	}
	if !g.Construction.Has(construction.Shipyard) {
		return 0, trade.ErrNoPort
	}
	turns, err := g.Naval.Build(t, name, g.Resources())
	if err != nil {
		return 0, err
	}
	g.announce(Info, fmt.Sprintf("Gemi inşası başladı (%d tur)", turns))
	return turns, nil
}

// RepairShip sends a ship to the docks.
func (g *Game) RepairShip(id string) (int, error) {
	if err := g.live(); err != nil {
		return 0, err
	}
	if !g.Province.Coastal {
		return 0, ErrNotCoastal
	}
	return g.Naval.ScheduleRepair(id, g.Resources())
}

// NavalRaid sends the fleet against a target of the given tier.
func (g *Game) NavalRaid(tier naval.RaidTier) (naval.RaidResult, error) {
	if err := g.live(); err != nil {
		return naval.RaidResult{}, err
	}
	if !g.Province.Coastal {
		return naval.RaidResult{}, ErrNotCoastal
	}
	r, err := g.Naval.Raid(tier, g.rng)
	if err != nil {
		return r, err
	}
	var msg string
	if r.Success {
		g.Resources().AddOne(ledger.Gold, r.Loot)
		g.bump(achievements.RaidsCompleted, 1)
		msg = fmt.Sprintf("Deniz akını başarılı: %s altın yağma", humanize.Comma(int64(r.Loot)))
		g.announce(Info, msg)
	} else {
		msg = "Deniz akını püskürtüldü"
		g.announce(Warning, msg)
	}
	for _, s := range r.Sunk {
		g.announce(Warning, s+" battı")
	}
	g.record(msg, history.Military)
	return r, nil
}

// StartWar opens a raid, siege or campaign against a neighbor.
func (g *Game) StartWar(t warfare.BattleType, target string) (*warfare.Battle, error) {
	if err := g.live(); err != nil {
		return nil, err
	}
	if _, ok := g.Diplomacy.Relation(target); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvince, target)
	}
	b, err := g.Warfare.Start(t, target, warfare.Force{
		Soldiers:   g.Military.TotalSoldiers(),
		Morale:     g.Military.Morale,
		Experience: g.Military.Experience,
	}, g.Turn, g.Resources(), g.rng)
	if err != nil {
		return nil, err
	}
	g.Military.AtWar = true
	g.Diplomacy.AdjustRelation(target, -20)
	msg := fmt.Sprintf("%s: %s üzerine yürüyüş başladı", t.Name(), target)
	g.announce(Warning, msg)
	g.record(msg, history.Military)
	return b, nil
}

// SendCaravan puts a caravan on a route with the given number of escorts.
func (g *Game) SendCaravan(routeID string, escorts int) (*trade.Caravan, error) {
	if err := g.live(); err != nil {
		return nil, err
	}
	c, err := g.Trade.SendCaravan(routeID, escorts, g.Resources())
	if err != nil {
		return nil, err
	}
	r, _ := trade.LookupRoute(routeID)
	g.announce(Info, fmt.Sprintf("%s kervanı yola çıktı (%d tur)", r.Name, c.TurnsRemaining))
	return c, nil
}

// ActivateRoute opens a trade route for the province's regular trade income.
// The charter costs twice the route's base income.
func (g *Game) ActivateRoute(routeID string) error {
	if err := g.live(); err != nil {
		return err
	}
	r, err := g.Trade.CanUse(routeID)
	if err != nil {
		return err
	}
	if g.Economy.RouteActive(r.ID) {
		return economy.ErrRouteActive
	}
	if err := g.Resources().Spend(ledger.Amounts{ledger.Gold: r.ActivationCost()}); err != nil {
		return fmt.Errorf("ticaret yolu: %w", err)
	}
	if err := g.Economy.ActivateRoute(r.ID); err != nil {
		return err
	}
	msg := r.Name + " ticaret yolu açıldı"
	g.announce(Info, msg)
	g.record(msg, history.Economic)
	return nil
}

// SignTradeAgreement signs a treaty with a route partner.
func (g *Game) SignTradeAgreement(partner string) error {
	if err := g.live(); err != nil {
		return err
	}
	if err := g.Trade.EstablishAgreement(partner, g.Resources()); err != nil {
		return err
	}
	g.bump(achievements.Negotiations, 1)
	g.announce(Info, partner+" ile ticaret anlaşması imzalandı")
	return nil
}

// Buy purchases qty units of good at the market price.
func (g *Game) Buy(good economy.Good, qty int) (int, error) {
	if err := g.live(); err != nil {
		return 0, err
	}
	price := g.Economy.Price(good)
	if price <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownGood, good)
	}
	if err := g.Trade.Buy(string(good), qty, price, g.Resources()); err != nil {
		return 0, err
	}
	g.Economy.Market.RecordPurchase(good, qty)
	return qty * price, nil
}

// Sell sells qty units of good from the warehouse.
func (g *Game) Sell(good economy.Good, qty int) (int, error) {
	if err := g.live(); err != nil {
		return 0, err
	}
	price := int(float64(g.Economy.Price(good)) * SellShare)
	if price <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownGood, good)
	}
	if err := g.Trade.Sell(string(good), qty, price, g.Resources()); err != nil {
		return 0, err
	}
	g.Economy.Market.RecordSale(good, qty)
	return qty * price, nil
}
