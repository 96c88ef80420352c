// Package economy keeps the provincial treasury books: tax and trade income,
// expenses, inflation, emergency loans, the tahrir survey and the narh market.
package economy

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrTaxRange    = errors.New("vergi oranı %5 ile %40 arasında olmalı")
	ErrRouteActive = errors.New("ticaret yolu zaten açık")
)

// Tax rate bounds and the neutral rate.
const (
	MinTaxRate     = 0.05
	MaxTaxRate     = 0.40
	DefaultTaxRate = 0.15
)

// Treasury thresholds.
const (
	LoanFloor     = -2000
	LoanAmount    = 1000
	BankruptFloor = -5000
	SurveyCost    = 1000
)

// Income is one turn's revenue breakdown.
type Income struct {
	Tax     int `json:"tax"`
	Trade   int `json:"trade"`
	Tribute int `json:"tribute"`
}

// Total sums every revenue line.
func (i Income) Total() int { return i.Tax + i.Trade + i.Tribute }

// Expense is one turn's expenditure breakdown.
type Expense struct {
	Military        int `json:"military"`
	Buildings       int `json:"buildings"`
	TributeToSultan int `json:"tribute_to_sultan"`
}

// Total sums every expense line.
func (e Expense) Total() int { return e.Military + e.Buildings + e.TributeToSultan }

// Tahrir is the land and population survey.
type Tahrir struct {
	Accuracy   int `json:"accuracy"`
	LastSurvey int `json:"last_survey"`
}

// Economy is the treasury subsystem. Resources is the province's Resource
// Ledger; it is persisted under the economy key.
type Economy struct {
	Resources       *ledger.Ledger `json:"resources"`
	TaxRate         float64        `json:"tax_rate"`
	TradeLevel      float64        `json:"trade_level"`
	Inflation       float64        `json:"inflation_rate"`
	ActiveRoutes    []string       `json:"active_trade_routes"`
	TaxModifier     float64        `json:"tax_modifier"`
	TradeModifier   float64        `json:"trade_modifier"`
	TradeBoost      float64        `json:"trade_boost"`
	ExpenseModifier float64        `json:"expense_modifier"`
	Income          Income         `json:"income"`
	Expense         Expense        `json:"expense"`
	Tahrir          Tahrir         `json:"tahrir"`
	LoansTaken      int            `json:"loans_taken"`
	Market          *Market        `json:"market"`
}

// New returns the economy of a fresh game.
func New(seed int64) *Economy {
	return &Economy{
		Resources:       ledger.New(ledger.DefaultStock),
		TaxRate:         DefaultTaxRate,
		TradeLevel:      1,
		TaxModifier:     1,
		TradeModifier:   1,
		ExpenseModifier: 1,
		Tahrir:          Tahrir{Accuracy: 100},
		Market:          NewMarket(seed),
	}
}

// SetTaxRate changes the tax rate.
func (e *Economy) SetTaxRate(rate float64) error {
	if rate < MinTaxRate-1e-9 || rate > MaxTaxRate+1e-9 {
		return ErrTaxRange
	}
	e.TaxRate = rate
	return nil
}

// AdjustTaxModifier shifts the tax multiplier by pct percent, within [0.5, 2].
func (e *Economy) AdjustTaxModifier(pct int) {
	e.TaxModifier = clampf(e.TaxModifier+float64(pct)/100, 0.5, 2)
}

// AdjustTradeBoost shifts the lasting trade boost by pct percent, within
// [-0.5, 1]. The pipeline folds it into TradeModifier every turn.
func (e *Economy) AdjustTradeBoost(pct int) {
	e.TradeBoost = clampf(e.TradeBoost+float64(pct)/100, -0.5, 1)
}

// TaxHappinessEffect is the happiness shift of the current tax rate:
// one point per percent below the neutral rate.
func (e *Economy) TaxHappinessEffect() int {
	return int(math.Floor((DefaultTaxRate-e.TaxRate)*100 + 1e-6))
}

// TaxIncome computes the per-turn tax yield of a population.
func (e *Economy) TaxIncome(population int) int {
	income := math.Floor(float64(population) * e.TaxRate * 0.25 * e.TaxModifier)
	if e.Tahrir.Accuracy < 60 {
		income = math.Floor(income * float64(e.Tahrir.Accuracy) / 60)
	}
	return int(income)
}

// TradeIncome computes the per-turn bazaar yield.
func (e *Economy) TradeIncome() int {
	return int(math.Floor(1500 * e.TradeLevel * e.TradeModifier))
}

// TurnInput carries what the pipeline gathered before settlement.
type TurnInput struct {
	Turn                int
	Population          int
	UnitMaintenance     int
	BuildingMaintenance int
	Tribute             int
}

// Settlement reports what ProcessTurn did to the treasury.
type Settlement struct {
	Income  Income
	Expense Expense
	Net     int
	Loan    int
}

// ProcessTurn settles income against expenses on the ledger, grants an
// emergency loan when the treasury dips into [LoanFloor, 0), then drifts
// inflation toward the treasury-implied target.
func (e *Economy) ProcessTurn(in TurnInput) Settlement {
	e.TradeLevel = 1 + 0.2*float64(len(e.ActiveRoutes))
	if in.Turn > 0 && in.Turn%6 == 0 && e.Tahrir.Accuracy > 0 {
		e.Tahrir.Accuracy--
	}

	e.Income = Income{
		Tax:     e.TaxIncome(in.Population),
		Trade:   e.TradeIncome(),
		Tribute: in.Tribute,
	}
	e.Expense = Expense{
		Military:  int(float64(in.UnitMaintenance) * e.ExpenseModifier),
		Buildings: int(float64(in.BuildingMaintenance) * e.ExpenseModifier),
	}
	e.Expense.TributeToSultan = int(float64(e.Income.Total()) * 0.02)

	s := Settlement{Income: e.Income, Expense: e.Expense}
	s.Net = e.Income.Total() - e.Expense.Total()
	e.Resources.AddOne(ledger.Gold, s.Net)

	if g := e.Resources.Get(ledger.Gold); g >= LoanFloor && g < 0 {
		e.Resources.AddOne(ledger.Gold, LoanAmount)
		e.LoansTaken++
		s.Loan = LoanAmount
	}

	e.driftInflation()
	return s
}

func (e *Economy) driftInflation() {
	gold := float64(e.Resources.Get(ledger.Gold))
	target := (gold - 15000) / 15000 * 0.1
	e.Inflation += (target - e.Inflation) * 0.1
	e.Inflation = clampf(e.Inflation, -0.20, 0.50)
}

// Price returns the inflated unit price of a market good.
func (e *Economy) Price(g Good) int {
	entry := e.Market.Entry(g)
	if entry == nil {
		return 0
	}
	p := int(math.Round(float64(entry.Price()) * (1 + e.Inflation)))
	if p < 1 {
		p = 1
	}
	return p
}

// Bankrupt reports whether the treasury is past the point of no return.
func (e *Economy) Bankrupt() bool {
	return e.Resources.Get(ledger.Gold) < BankruptFloor
}

// OrderSurvey commissions a new tahrir and restores full accuracy.
func (e *Economy) OrderSurvey(turn int) error {
	if err := e.Resources.Spend(ledger.Amounts{ledger.Gold: SurveyCost}); err != nil {
		return fmt.Errorf("tahrir: %w", err)
	}
	e.Tahrir = Tahrir{Accuracy: 100, LastSurvey: turn}
	return nil
}

// ActivateRoute records a trade route as open. Cost is charged by the caller.
func (e *Economy) ActivateRoute(id string) error {
	if e.RouteActive(id) {
		return ErrRouteActive
	}
	e.ActiveRoutes = append(e.ActiveRoutes, id)
	e.TradeLevel = 1 + 0.2*float64(len(e.ActiveRoutes))
	return nil
}

// RouteActive reports whether id is open.
func (e *Economy) RouteActive(id string) bool {
	for _, r := range e.ActiveRoutes {
		if r == id {
			return true
		}
	}
	return false
}

// Sanitize repairs state after a load.
func (e *Economy) Sanitize(knownRoute func(string) bool) {
	if e.Resources == nil {
		e.Resources = ledger.New(ledger.DefaultStock)
	}
	if e.TaxRate < MinTaxRate || e.TaxRate > MaxTaxRate {
		e.TaxRate = DefaultTaxRate
	}
	for _, m := range []*float64{&e.TaxModifier, &e.TradeModifier, &e.ExpenseModifier} {
		if *m <= 0 {
			*m = 1
		}
	}
	if e.Tahrir.Accuracy < 0 || e.Tahrir.Accuracy > 100 {
		e.Tahrir.Accuracy = 100
	}
	routes := e.ActiveRoutes[:0]
	for _, r := range e.ActiveRoutes {
		if knownRoute == nil || knownRoute(r) {
			routes = append(routes, r)
		}
	}
	e.ActiveRoutes = routes
	e.TradeLevel = 1 + 0.2*float64(len(e.ActiveRoutes))
	e.Inflation = clampf(e.Inflation, -0.20, 0.50)
	e.TradeBoost = clampf(e.TradeBoost, -0.5, 1)
	if e.Market == nil {
		e.Market = NewMarket(0)
	}
	e.Market.Sanitize()
}
