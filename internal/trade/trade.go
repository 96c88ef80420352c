// Package trade runs caravans along the fixed trade routes, keeps trade
// agreements with foreign partners and holds the province's market stock.
package trade

import (
	"errors"
	"fmt"
	"sort"

	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrUnknownRoute    = errors.New("bilinmeyen ticaret yolu")
	ErrNoPort          = errors.New("deniz yolu için tersane gerekli")
	ErrAgreementExists = errors.New("bu ortakla zaten anlaşma var")
	ErrBadQuantity     = errors.New("geçersiz miktar")
	ErrNoStock         = errors.New("ambarda yeterli mal yok")
)

// Agreement and escort prices.
const (
	AgreementCost  = 500
	AgreementBonus = 20
	EscortCost     = 10
)

// Kind classifies a route.
type Kind string

const (
	Land Kind = "land"
	Sea  Kind = "sea"
	Silk Kind = "silk"
)

// Route is one fixed trade road.
type Route struct {
	ID         string
	Name       string
	Kind       Kind
	Start      string
	End        string
	BaseIncome int
	TravelTime int
	Risk       float64
}

// RoundTrip is the turns a caravan spends away: out, trade, back.
func (r Route) RoundTrip() int { return 2*r.TravelTime + 1 }

// InvestmentCost is the gold a caravan carries out.
func (r Route) InvestmentCost() int { return int(float64(r.BaseIncome) * 0.3) }

// ActivationCost is the gold needed to open the route for the bazaar.
func (r Route) ActivationCost() int { return 2 * r.BaseIncome }

var routes = []Route{
	{ID: "silk_road", Name: "İpek Yolu", Kind: Silk, Start: "Anadolu", End: "Çin Sınırı", BaseIncome: 800, TravelTime: 4, Risk: 0.25},
	{ID: "spice_route", Name: "Baharat Yolu", Kind: Land, Start: "Halep", End: "Hindistan", BaseIncome: 600, TravelTime: 3, Risk: 0.20},
	{ID: "mediterranean", Name: "Akdeniz Yolu", Kind: Sea, Start: "İzmir", End: "Venedik", BaseIncome: 700, TravelTime: 2, Risk: 0.30},
	{ID: "black_sea", Name: "Karadeniz Yolu", Kind: Sea, Start: "Trabzon", End: "Kırım", BaseIncome: 500, TravelTime: 2, Risk: 0.15},
	{ID: "balkan_road", Name: "Balkan Yolu", Kind: Land, Start: "Edirne", End: "Belgrad", BaseIncome: 400, TravelTime: 2, Risk: 0.10},
}

// Routes returns the route catalog.
func Routes() []Route { return routes }

// LookupRoute returns the route with id.
func LookupRoute(id string) (Route, bool) {
	for _, r := range routes {
		if r.ID == id {
			return r, true
		}
	}
	return Route{}, false
}

// KnownRoute reports whether id names a catalog route.
func KnownRoute(id string) bool {
	_, ok := LookupRoute(id)
	return ok
}

// Status is a caravan's stage.
type Status string

const (
	Preparing Status = "preparing"
	Traveling Status = "traveling"
	Trading   Status = "trading"
	Returning Status = "returning"
	Completed Status = "completed"
	Lost      Status = "lost"
)

// Caravan is a trade expedition on the road.
type Caravan struct {
	ID             string `json:"caravan_id"`
	RouteID        string `json:"route_id"`
	Status         Status `json:"status"`
	TurnsRemaining int    `json:"turns_remaining"`
	GoodsValue     int    `json:"goods_value"`
	Protection     int    `json:"protection"`
}

// SuccessChance is the odds of surviving a brush with brigands or pirates.
func (c *Caravan) SuccessChance(r Route) float64 {
	bonus := min(0.3, float64(c.Protection)*0.01)
	return min(0.95, 1-r.Risk+bonus)
}

func (c *Caravan) stage(r Route) Status {
	switch {
	case c.TurnsRemaining > r.TravelTime+1:
		return Traveling
	case c.TurnsRemaining == r.TravelTime+1:
		return Trading
	default:
		return Returning
	}
}

// Trade is the trade subsystem.
type Trade struct {
	Caravans       []*Caravan     `json:"active_caravans"`
	Agreements     map[string]int `json:"trade_agreements"`
	Inventory      map[string]int `json:"inventory"`
	TotalIncome    int            `json:"total_trade_income"`
	CaravansLost   int            `json:"caravans_lost"`
	CaravansDone   int            `json:"caravans_completed"`
	CaravanCounter int            `json:"caravan_counter"`
	HasPort        bool           `json:"has_port"`
	PortLevel      int            `json:"port_level"`
}

// New returns a trade office with no caravans out.
func New() *Trade {
	return &Trade{Agreements: make(map[string]int), Inventory: make(map[string]int)}
}

// UpdatePort records the shipyard that serves as the province's port.
func (t *Trade) UpdatePort(has bool, level int) {
	t.HasPort = has
	t.PortLevel = level
	if !has {
		t.PortLevel = 0
	}
}

// Available lists the routes the province can use.
func (t *Trade) Available() []Route {
	var out []Route
	for _, r := range routes {
		if r.Kind == Sea && !t.HasPort {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CanUse validates a route for activation or caravans.
func (t *Trade) CanUse(id string) (Route, error) {
	r, ok := LookupRoute(id)
	if !ok {
		return Route{}, ErrUnknownRoute
	}
	if r.Kind == Sea && !t.HasPort {
		return Route{}, ErrNoPort
	}
	return r, nil
}

// SendCaravan pays the investment and escorts and puts a caravan on route.
func (t *Trade) SendCaravan(id string, protection int, l *ledger.Ledger) (*Caravan, error) {
	r, err := t.CanUse(id)
	if err != nil {
		return nil, err
	}
	if protection < 0 {
		return nil, ErrBadQuantity
	}
	cost := ledger.Amounts{ledger.Gold: r.InvestmentCost() + protection*EscortCost}
	if err := l.Spend(cost); err != nil {
		return nil, fmt.Errorf("kervan: %w", err)
	}
	t.CaravanCounter++
	c := &Caravan{
		ID:             fmt.Sprintf("caravan_%d", t.CaravanCounter),
		RouteID:        r.ID,
		Status:         Traveling,
		TurnsRemaining: r.RoundTrip(),
		GoodsValue:     r.BaseIncome,
		Protection:     protection,
	}
	t.Caravans = append(t.Caravans, c)
	return c, nil
}

// Return is the income a caravan brings home on r.
func (t *Trade) Return(c *Caravan, r Route) int {
	agreement := float64(t.Agreements[r.End]) / 100
	port := 0.0
	if r.Kind == Sea {
		port = float64(t.PortLevel) * 0.1
	}
	return int(float64(c.GoodsValue) * (1 + agreement + port))
}

// Arrival is a caravan that came home or was lost.
type Arrival struct {
	Caravan Caravan
	Route   Route
	Income  int
}

// TurnResult summarizes a trade turn. Income is credited by the caller.
type TurnResult struct {
	Income    int
	Completed []Arrival
	Lost      []Arrival
}

// ProcessTurn moves every caravan one turn along its road.
func (t *Trade) ProcessTurn(rng entropy.Rand) TurnResult {
	var res TurnResult
	kept := t.Caravans[:0]
	for _, c := range t.Caravans {
		r, ok := LookupRoute(c.RouteID)
		if !ok {
			continue
		}
		c.TurnsRemaining--
		if c.Status != Trading && rng.Chance(r.Risk*0.1) && rng.Float() > c.SuccessChance(r) {
			c.Status = Lost
			t.CaravansLost++
			res.Lost = append(res.Lost, Arrival{Caravan: *c, Route: r})
			continue
		}
		if c.TurnsRemaining <= 0 {
			c.Status = Completed
			income := t.Return(c, r)
			res.Income += income
			t.CaravansDone++
			res.Completed = append(res.Completed, Arrival{Caravan: *c, Route: r, Income: income})
			continue
		}
		c.Status = c.stage(r)
		kept = append(kept, c)
	}
	t.Caravans = kept
	t.TotalIncome += res.Income
	return res
}

// EstablishAgreement signs a trade treaty with the partner at a route's
// end region.
func (t *Trade) EstablishAgreement(partner string, l *ledger.Ledger) error {
	if _, ok := t.Agreements[partner]; ok {
		return ErrAgreementExists
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: AgreementCost}); err != nil {
		return fmt.Errorf("ticaret anlaşması: %w", err)
	}
	t.Agreements[partner] = AgreementBonus
	return nil
}

// Partners lists agreement partners in name order.
func (t *Trade) Partners() []string {
	out := make([]string, 0, len(t.Agreements))
	for p := range t.Agreements {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Buy pays price per unit and moves goods into the warehouse.
func (t *Trade) Buy(good string, qty, price int, l *ledger.Ledger) error {
	if qty <= 0 || price <= 0 {
		return ErrBadQuantity
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: qty * price}); err != nil {
		return fmt.Errorf("satın alma: %w", err)
	}
	t.Inventory[good] += qty
	return nil
}

// Sell moves goods out of the warehouse for price per unit.
func (t *Trade) Sell(good string, qty, price int, l *ledger.Ledger) error {
	if qty <= 0 || price <= 0 {
		return ErrBadQuantity
	}
	if t.Inventory[good] < qty {
		return fmt.Errorf("%w: %d/%d", ErrNoStock, t.Inventory[good], qty)
	}
	t.Inventory[good] -= qty
	if t.Inventory[good] == 0 {
		delete(t.Inventory, good)
	}
	l.AddOne(ledger.Gold, qty*price)
	return nil
}

// Sanitize drops caravans on unknown routes and goods the market no longer
// lists.
func (t *Trade) Sanitize(knownGood func(string) bool) {
	if t.Agreements == nil {
		t.Agreements = make(map[string]int)
	}
	if t.Inventory == nil {
		t.Inventory = make(map[string]int)
	}
	kept := t.Caravans[:0]
	for _, c := range t.Caravans {
		if c == nil {
			continue
		}
		r, ok := LookupRoute(c.RouteID)
		if !ok {
			continue
		}
		c.TurnsRemaining = max(1, min(r.RoundTrip(), c.TurnsRemaining))
		c.Status = c.stage(r)
		if c.Protection < 0 {
			c.Protection = 0
		}
		kept = append(kept, c)
	}
	t.Caravans = kept
	for g, n := range t.Inventory {
		if n <= 0 || (knownGood != nil && !knownGood(g)) {
			delete(t.Inventory, g)
		}
	}
	for p, b := range t.Agreements {
		if b <= 0 {
			delete(t.Agreements, p)
		}
	}
}
