// Package ledger holds the province's fungible stocks and centralizes the
// clamping rules every subsystem relies on when it pays or gets paid.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Resource identifies one fungible stock.
type Resource uint8

const (
	Gold Resource = iota
	Food
	Wood
	Iron
	Stone
	Rope
	Tar
	Sailcloth

	NumResources
)

var resourceKeys = [NumResources]string{
	"gold", "food", "wood", "iron", "stone", "rope", "tar", "sailcloth",
}

var resourceNames = [NumResources]string{
	"altın", "zahire", "kereste", "demir", "taş", "halat", "katran", "yelken bezi",
}

// String returns the save-file key for the resource.
func (r Resource) String() string {
	if r >= NumResources {
		return "unknown"
	}
	return resourceKeys[r]
}

// DisplayName returns the Turkish name used in announcements.
func (r Resource) DisplayName() string {
	if r >= NumResources {
		return "?"
	}
	return resourceNames[r]
}

// ParseResource maps a save-file key to a Resource.
func ParseResource(key string) (Resource, bool) {
	for i, k := range resourceKeys {
		if k == key {
			return Resource(i), true
		}
	}
	return 0, false
}

// ErrInsufficient is wrapped by Spend when a stock cannot cover a cost.
var ErrInsufficient = errors.New("yetersiz kaynak")

// Amounts is a per-resource quantity vector. Keyed array literals read
// naturally: Amounts{Gold: 300, Wood: 150}.
type Amounts [NumResources]int

// Plus returns the element-wise sum.
func (a Amounts) Plus(b Amounts) Amounts {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// Neg returns the element-wise negation.
func (a Amounts) Neg() Amounts {
	for i := range a {
		a[i] = -a[i]
	}
	return a
}

// Scale multiplies every entry by f, truncating toward zero.
func (a Amounts) Scale(f float64) Amounts {
	for i := range a {
		a[i] = int(float64(a[i]) * f)
	}
	return a
}

// Times multiplies every entry by n.
func (a Amounts) Times(n int) Amounts {
	for i := range a {
		a[i] *= n
	}
	return a
}

// IsZero reports whether every entry is zero.
func (a Amounts) IsZero() bool {
	return a == Amounts{}
}

// String renders non-zero entries for announcements, e.g. "1,000 altın, 200 kereste".
func (a Amounts) String() string {
	var parts []string
	for i, v := range a {
		if v == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", humanize.Comma(int64(v)), Resource(i).DisplayName()))
	}
	if len(parts) == 0 {
		return "bedelsiz"
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON writes the vector as a key/value object.
func (a Amounts) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, NumResources)
	for i, v := range a {
		m[resourceKeys[i]] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads a key/value object. Unknown keys are skipped and
// missing keys leave the receiver's current value in place.
func (a *Amounts) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for k, v := range m {
		if r, ok := ParseResource(k); ok {
			a[r] = v
		}
	}
	return nil
}

// Ledger is the province treasury and storehouse.
type Ledger struct {
	stock Amounts
}

// DefaultStock is the stock of a fresh game.
var DefaultStock = Amounts{
	Gold:      15000,
	Food:      10000,
	Wood:      4000,
	Iron:      2000,
	Stone:     1000,
	Rope:      500,
	Tar:       300,
	Sailcloth: 200,
}

// New creates a ledger with the given starting stock.
func New(initial Amounts) *Ledger {
	l := &Ledger{}
	for i, v := range initial {
		l.Set(Resource(i), v)
	}
	return l
}

// Get returns the current quantity of r.
func (l *Ledger) Get(r Resource) int {
	return l.stock[r]
}

// Stock returns a copy of every quantity.
func (l *Ledger) Stock() Amounts {
	return l.stock
}

// Set overwrites r. Everything but gold is clamped at zero.
func (l *Ledger) Set(r Resource, v int) {
	if r != Gold && v < 0 {
		v = 0
	}
	l.stock[r] = v
}

// CanAfford reports whether every component of cost is covered.
func (l *Ledger) CanAfford(cost Amounts) bool {
	_, short := l.shortfall(cost)
	return !short
}

func (l *Ledger) shortfall(cost Amounts) (Resource, bool) {
	for i, v := range cost {
		if v > 0 && l.stock[i] < v {
			return Resource(i), true
		}
	}
	return 0, false
}

// Spend debits cost atomically. On failure nothing is mutated and the
// returned error names the first missing resource.
func (l *Ledger) Spend(cost Amounts) error {
	if r, short := l.shortfall(cost); short {
		return fmt.Errorf("%w: %s (%s/%s)", ErrInsufficient, r.DisplayName(),
			humanize.Comma(int64(l.stock[r])), humanize.Comma(int64(cost[r])))
	}
	for i, v := range cost {
		if v > 0 {
			l.stock[i] -= v
		}
	}
	return nil
}

// Add applies a signed delta per resource. Non-gold stocks clamp at zero;
// gold may go negative and is checked against the bankruptcy thresholds by
// the turn pipeline.
func (l *Ledger) Add(delta Amounts) {
	for i, v := range delta {
		l.Set(Resource(i), l.stock[i]+v)
	}
}

// AddOne is Add for a single resource.
func (l *Ledger) AddOne(r Resource, v int) {
	l.Set(r, l.stock[r]+v)
}

// MarshalJSON writes the stock as a key/value object.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	return l.stock.MarshalJSON()
}

// UnmarshalJSON reads the stock. Keys absent from older saves take their
// DefaultStock value.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	stock := DefaultStock
	if err := stock.UnmarshalJSON(data); err != nil {
		return err
	}
	for i, v := range stock {
		l.Set(Resource(i), v)
	}
	return nil
}
