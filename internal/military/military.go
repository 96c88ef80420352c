// Package military holds the provincial army: unit counts, the training
// queue, timar capacity, morale, commanders and bandit suppression.
package military

import (
	"errors"
	"fmt"
	"sort"

	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrUnknownUnit     = errors.New("bilinmeyen birlik")
	ErrBadCount        = errors.New("geçersiz asker sayısı")
	ErrNoTimar         = errors.New("yeterli tımar yok")
	ErrNoPort          = errors.New("levend için tersane gerekli")
	ErrNoCommander     = errors.New("böyle bir komutan yok")
	ErrRoleTaken       = errors.New("bu görevde zaten bir komutan var")
	ErrUnknownTrait    = errors.New("bilinmeyen komutan özelliği")
	ErrUnknownRole     = errors.New("bilinmeyen komuta görevi")
	ErrNotEnoughTroops = errors.New("yeterli asker yok")
)

// Timar capacity and commander appointment cost.
const (
	BaseTimarCapacity = 100
	TimarPerFortress  = 50
	CommanderCost     = 500
)

// TrainingEntry is a batch of recruits in training.
type TrainingEntry struct {
	Unit           UnitType `json:"type"`
	Count          int      `json:"count"`
	TurnsRemaining int      `json:"turns"`
}

// Commander leads one role at a time.
type Commander struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Trait      Trait  `json:"trait"`
	Role       Role   `json:"role,omitempty"`
	Experience int    `json:"experience"`
}

// Military is the army subsystem.
type Military struct {
	Units          map[UnitType]int `json:"units"`
	TrainingQueue  []TrainingEntry  `json:"training_queue"`
	Morale         int              `json:"morale"`
	Experience     int              `json:"experience"`
	AtWar          bool             `json:"at_war"`
	TotalLosses    int              `json:"total_losses"`
	TotalVictories int              `json:"total_victories"`
	TimarCapacity  int              `json:"timar_capacity"`
	Commanders     []*Commander     `json:"commanders"`
	NextCommander  int              `json:"next_commander_id"`
}

// New returns the starting army under Hüsrev Bey.
func New() *Military {
	return &Military{
		Units: map[UnitType]int{
			Sipahi:    50,
			Yenicheri: 30,
			Azap:      100,
			Topcu:     5,
			Akinci:    20,
		},
		Morale:        100,
		TimarCapacity: BaseTimarCapacity,
		Commanders:    []*Commander{{ID: 1, Name: "Hüsrev Bey", Trait: Strategist, Role: RoleField}},
		NextCommander: 2,
	}
}

// TotalSoldiers is the head count of the standing army.
func (m *Military) TotalSoldiers() int {
	n := 0
	for _, c := range m.Units {
		n += c
	}
	return n
}

// TotalPower sums count·(attack+defense) with kind multipliers and the
// bonuses of assigned commanders.
func (m *Military) TotalPower(kind PowerKind) int {
	power := 0.0
	for _, u := range m.sortedUnits() {
		s := unitStats[u]
		power += float64(m.Units[u]*(s.Attack+s.Defense)) * kind.multiplier(u)
	}
	bonus := 1.0
	for _, cmd := range m.Commanders {
		if cmd.Role != "" {
			bonus += cmd.Trait.powerBonus(kind)
		}
	}
	return int(power * bonus)
}

// Maintenance is the per-turn upkeep of the army.
func (m *Military) Maintenance() int {
	total := 0
	for u, c := range m.Units {
		total += c * unitStats[u].Maintenance
	}
	if m.hasAssigned(Logistician) {
		total = int(float64(total) * 0.9)
	}
	return total
}

func (m *Military) hasAssigned(t Trait) bool {
	for _, c := range m.Commanders {
		if c.Role != "" && c.Trait == t {
			return true
		}
	}
	return false
}

// UpdateTimars recomputes capacity from the fortress level.
func (m *Military) UpdateTimars(fortressLevel int) {
	m.TimarCapacity = BaseTimarCapacity + TimarPerFortress*fortressLevel
}

// TimarsInUse counts timar-holding troops in service and in training.
func (m *Military) TimarsInUse() int {
	n := 0
	for u, c := range m.Units {
		if unitStats[u].RequiresTimar {
			n += c
		}
	}
	for _, t := range m.TrainingQueue {
		if unitStats[t.Unit].RequiresTimar {
			n += t.Count
		}
	}
	return n
}

// ReleaseExcess dismisses timar holders beyond capacity, newest training
// entries first, and returns how many were released.
func (m *Military) ReleaseExcess() int {
	over := m.TimarsInUse() - m.TimarCapacity
	released := 0
	for i := len(m.TrainingQueue) - 1; i >= 0 && over > 0; i-- {
		t := &m.TrainingQueue[i]
		if !unitStats[t.Unit].RequiresTimar {
			continue
		}
		n := min(over, t.Count)
		t.Count -= n
		over -= n
		released += n
		if t.Count == 0 {
			m.TrainingQueue = append(m.TrainingQueue[:i], m.TrainingQueue[i+1:]...)
		}
	}
	for _, u := range UnitTypes {
		if over <= 0 {
			break
		}
		if !unitStats[u].RequiresTimar {
			continue
		}
		n := min(over, m.Units[u])
		m.Units[u] -= n
		over -= n
		released += n
	}
	return released
}

// AvailableTimars is never negative.
func (m *Military) AvailableTimars() int {
	return max(0, m.TimarCapacity-m.TimarsInUse())
}

// RecruitCost is the cost of count units of u.
func RecruitCost(u UnitType, count int) ledger.Amounts {
	s := unitStats[u]
	return ledger.Amounts{ledger.Gold: s.Gold * count, ledger.Food: s.Food * count}
}

// CanRecruit validates a recruitment order.
func (m *Military) CanRecruit(u UnitType, count int, l *ledger.Ledger, hasPort bool) error {
	s, ok := unitStats[u]
	if !ok {
		return ErrUnknownUnit
	}
	if count <= 0 {
		return ErrBadCount
	}
	if s.RequiresTimar && count > m.AvailableTimars() {
		return fmt.Errorf("%w: %d boş tımar", ErrNoTimar, m.AvailableTimars())
	}
	if s.RequiresPort && !hasPort {
		return ErrNoPort
	}
	if cost := RecruitCost(u, count); !l.CanAfford(cost) {
		return fmt.Errorf("%w: %s", ledger.ErrInsufficient, cost)
	}
	return nil
}

// Recruit charges for and queues count units of u.
func (m *Military) Recruit(u UnitType, count int, l *ledger.Ledger, hasPort bool) (int, error) {
	if err := m.CanRecruit(u, count, l, hasPort); err != nil {
		return 0, err
	}
	if err := l.Spend(RecruitCost(u, count)); err != nil {
		return 0, err
	}
	turns := unitStats[u].TrainTime
	m.TrainingQueue = append(m.TrainingQueue, TrainingEntry{Unit: u, Count: count, TurnsRemaining: turns})
	return turns, nil
}

// Completion is a trained batch joining the army.
type Completion struct {
	Unit  UnitType
	Count int
}

// ProcessTurn advances training and drifts morale upward in peace.
func (m *Military) ProcessTurn() []Completion {
	var done []Completion
	kept := m.TrainingQueue[:0]
	for _, t := range m.TrainingQueue {
		t.TurnsRemaining--
		if t.TurnsRemaining > 0 {
			kept = append(kept, t)
			continue
		}
		m.Units[t.Unit] += t.Count
		done = append(done, Completion{Unit: t.Unit, Count: t.Count})
	}
	m.TrainingQueue = kept

	if !m.AtWar {
		m.AdjustMorale(5)
	}
	if m.hasAssigned(Inspiring) {
		m.AdjustMorale(3)
	}
	return done
}

// Levy adds n free azap levies, or removes soldiers as casualties when n is negative.
func (m *Military) Levy(n int) {
	if n < 0 {
		m.ApplyCasualties(-n)
		return
	}
	m.Units[Azap] += n
}

// AdjustMorale shifts morale within [0,100].
func (m *Military) AdjustMorale(v int) {
	m.Morale = max(0, min(100, m.Morale+v))
}

// AddExperience shifts army experience within [0,100].
func (m *Military) AddExperience(v int) {
	m.Experience = max(0, min(100, m.Experience+v))
}

// ApplyCasualties removes n soldiers proportionally across unit types and
// returns the losses per type.
func (m *Military) ApplyCasualties(n int) map[UnitType]int {
	losses := make(map[UnitType]int)
	total := m.TotalSoldiers()
	if n <= 0 || total == 0 {
		return losses
	}
	n = min(n, total)
	removed := 0
	for _, u := range m.sortedUnits() {
		loss := n * m.Units[u] / total
		if loss > 0 {
			m.Units[u] -= loss
			losses[u] = loss
			removed += loss
		}
	}
	for _, u := range m.sortedUnits() {
		if removed >= n {
			break
		}
		if m.Units[u] > 0 {
			m.Units[u]--
			losses[u]++
			removed++
		}
	}
	m.TotalLosses += removed
	return losses
}

// Detach removes soldiers for a mission, cheapest units first.
func (m *Military) Detach(n int) (map[UnitType]int, error) {
	if n <= 0 {
		return nil, ErrBadCount
	}
	if m.TotalSoldiers() < n {
		return nil, ErrNotEnoughTroops
	}
	order := m.sortedUnits()
	sort.SliceStable(order, func(i, j int) bool {
		return unitStats[order[i]].Attack+unitStats[order[i]].Defense < unitStats[order[j]].Attack+unitStats[order[j]].Defense
	})
	taken := make(map[UnitType]int)
	for _, u := range order {
		if n == 0 {
			break
		}
		k := min(n, m.Units[u])
		m.Units[u] -= k
		taken[u] = k
		n -= k
	}
	return taken, nil
}

// Commit removes a force assembled elsewhere from the unit counts.
func (m *Military) Commit(force map[UnitType]int) error {
	for u, c := range force {
		if m.Units[u] < c {
			return ErrNotEnoughTroops
		}
	}
	for u, c := range force {
		m.Units[u] -= c
	}
	return nil
}

// Return adds survivors back into the unit counts.
func (m *Military) Return(force map[UnitType]int) {
	for u, c := range force {
		if _, ok := unitStats[u]; ok && c > 0 {
			m.Units[u] += c
		}
	}
}

func (m *Military) sortedUnits() []UnitType {
	var out []UnitType
	for _, u := range UnitTypes {
		if m.Units[u] > 0 {
			out = append(out, u)
		}
	}
	return out
}

// BanditResult reports a suppression campaign.
type BanditResult struct {
	Victory    bool
	OurPower   int
	EnemyPower int
	Losses     map[UnitType]int
}

// FightBandits suppresses brigands in the province.
func (m *Military) FightBandits() BanditResult {
	r := BanditResult{
		OurPower:   m.TotalPower(Field),
		EnemyPower: 100 + m.TotalSoldiers()/10,
		Losses:     make(map[UnitType]int),
	}
	r.Victory = float64(r.OurPower) > float64(r.EnemyPower)*1.2
	div := 5
	if r.Victory {
		div = 20
	}
	for _, u := range m.sortedUnits() {
		loss := max(1, m.Units[u]/div)
		m.Units[u] -= loss
		r.Losses[u] = loss
		m.TotalLosses += loss
	}
	if r.Victory {
		m.TotalVictories++
		m.AdjustMorale(10)
	} else {
		m.AdjustMorale(-20)
	}
	return r
}

// Appoint hires a new commander for the appointment fee.
func (m *Military) Appoint(name string, trait Trait, l *ledger.Ledger) (*Commander, error) {
	if _, ok := traitNames[trait]; !ok {
		return nil, ErrUnknownTrait
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: CommanderCost}); err != nil {
		return nil, fmt.Errorf("komutan: %w", err)
	}
	c := &Commander{ID: m.NextCommander, Name: name, Trait: trait}
	m.NextCommander++
	m.Commanders = append(m.Commanders, c)
	return c, nil
}

// Assign moves a commander to role, vacating any previous post. An empty
// role relieves the commander.
func (m *Military) Assign(id int, role Role) error {
	var target *Commander
	for _, c := range m.Commanders {
		if c.ID == id {
			target = c
		}
	}
	if target == nil {
		return ErrNoCommander
	}
	if role == "" {
		target.Role = ""
		return nil
	}
	if _, ok := roleKind[role]; !ok {
		return ErrUnknownRole
	}
	for _, c := range m.Commanders {
		if c.Role == role && c.ID != id {
			return ErrRoleTaken
		}
	}
	target.Role = role
	return nil
}

// CommanderFor returns the commander holding role, if any.
func (m *Military) CommanderFor(role Role) *Commander {
	for _, c := range m.Commanders {
		if c.Role == role {
			return c
		}
	}
	return nil
}

// Sanitize drops unknown units, traits and duplicate role holders.
func (m *Military) Sanitize() {
	if m.Units == nil {
		m.Units = make(map[UnitType]int)
	}
	for u, c := range m.Units {
		if _, ok := unitStats[u]; !ok || c < 0 {
			delete(m.Units, u)
		}
	}
	kept := m.TrainingQueue[:0]
	for _, t := range m.TrainingQueue {
		if _, ok := unitStats[t.Unit]; ok && t.Count > 0 {
			t.TurnsRemaining = max(1, t.TurnsRemaining)
			kept = append(kept, t)
		}
	}
	m.TrainingQueue = kept
	if m.TimarCapacity < BaseTimarCapacity {
		m.TimarCapacity = BaseTimarCapacity
	}
	held := make(map[Role]bool)
	cmds := m.Commanders[:0]
	for _, c := range m.Commanders {
		if c == nil {
			continue
		}
		if _, ok := traitNames[c.Trait]; !ok {
			continue
		}
		if _, ok := roleKind[c.Role]; !ok || held[c.Role] {
			c.Role = ""
		}
		if c.Role != "" {
			held[c.Role] = true
		}
		if c.ID >= m.NextCommander {
			m.NextCommander = c.ID + 1
		}
		cmds = append(cmds, c)
	}
	m.Commanders = cmds
	m.Morale = max(0, min(100, m.Morale))
	m.Experience = max(0, min(100, m.Experience))
}
