// Package warfare resolves the province's own wars: raids, sieges and
// campaigns against neighbors and the defense against enemy attacks.
//
// Battles carry snapshots of both armies. The package never touches the
// standing army directly; each Result tells the caller how many soldiers
// were lost and what the province gains or forfeits.
package warfare

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrPeacetime      = errors.New("barış dönemi sürüyor")
	ErrTooManyBattles = errors.New("zaten iki aktif savaşınız var")
	ErrWeary          = errors.New("halk savaştan yorgun, dinlenme gerekli")
	ErrTooFewSoldiers = errors.New("yeterli asker yok")
	ErrTreaty         = errors.New("bu devletle barış antlaşması var")
	ErrUnknownBattle  = errors.New("bilinmeyen savaş türü")
)

const (
	// ProtectionTurns is the early-game window in which no war starts.
	ProtectionTurns = 12
	// MaxBattles is the number of wars the province can fight at once.
	MaxBattles = 2
	// WearinessLimit blocks new wars once reached.
	WearinessLimit = 80
	// WearinessRecovery is shed on every turn without an active battle.
	WearinessRecovery = 5
	// MaxDebuff caps the enemy weakening espionage can accumulate.
	MaxDebuff = 50
)

// BattleType is the kind of engagement.
type BattleType string

const (
	Raid     BattleType = "raid"
	Siege    BattleType = "siege"
	Defense  BattleType = "defense"
	Campaign BattleType = "campaign"
)

// Phase is where a battle stands.
type Phase string

const (
	March  Phase = "march"
	Combat Phase = "combat"
)

type plan struct {
	name        string
	cost        ledger.Amounts
	minSoldiers int
	share       float64
	mix         [3]float64 // infantry, cavalry, artillery
	march       int
	combat      int
	terrain     float64
	weariness   int
	loot        [2]int
	loyalty     int
}

var plans = map[BattleType]plan{
	Raid: {
		name:      "Akın",
		cost:      ledger.Amounts{ledger.Gold: 300, ledger.Food: 200},
		share:     0.3,
		mix:       [3]float64{0.7, 0.3, 0},
		march:     2,
		combat:    1,
		terrain:   1.0,
		weariness: 10,
		loot:      [2]int{1500, 4000},
		loyalty:   10,
	},
	Siege: {
		name:        "Kuşatma",
		cost:        ledger.Amounts{ledger.Gold: 1500, ledger.Food: 800, ledger.Wood: 300},
		minSoldiers: 100,
		share:       0.6,
		mix:         [3]float64{0.5, 0.2, 0.3},
		march:       4,
		combat:      3,
		terrain:     0.8,
		weariness:   25,
		loot:        [2]int{5000, 15000},
		loyalty:     10,
	},
	Campaign: {
		name:        "Sefer",
		cost:        ledger.Amounts{ledger.Gold: 3000, ledger.Food: 1500, ledger.Iron: 200},
		minSoldiers: 300,
		share:       0.8,
		mix:         [3]float64{0.6, 0.3, 0.1},
		march:       6,
		combat:      4,
		terrain:     1.0,
		weariness:   35,
		loot:        [2]int{8000, 20000},
		loyalty:     20,
	},
	Defense: {
		name:    "Savunma",
		combat:  2,
		terrain: 1.3,
		loot:    [2]int{2000, 6000},
		loyalty: 10,
	},
}

// Cost is what starting a battle of type t takes from the treasury.
func Cost(t BattleType) (ledger.Amounts, bool) {
	p, ok := plans[t]
	if !ok || p.cost.IsZero() {
		return ledger.Amounts{}, false
	}
	return p.cost, true
}

// Name is the Turkish label of a battle type.
func (t BattleType) Name() string {
	if p, ok := plans[t]; ok {
		return p.name
	}
	return string(t)
}

// ParseType accepts a battle type id or its Turkish name.
func ParseType(s string) (BattleType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, p := range plans {
		if string(t) == s || strings.ToLower(p.name) == s {
			return t, true
		}
	}
	return "", false
}

// Army is a battle-time snapshot of one side.
type Army struct {
	Infantry   int `json:"infantry"`
	Cavalry    int `json:"cavalry"`
	Artillery  int `json:"artillery"`
	Morale     int `json:"morale"`
	Experience int `json:"experience"`
}

// Power weighs cavalry double and guns triple, scaled by morale and experience.
func (a Army) Power() int {
	base := float64(a.Infantry + 2*a.Cavalry + 3*a.Artillery)
	return int(base * float64(a.Morale) / 100 * (1 + float64(a.Experience)/200))
}

// Soldiers is the head count.
func (a Army) Soldiers() int {
	return a.Infantry + a.Cavalry + a.Artillery
}

// Battle is an engagement in progress.
type Battle struct {
	ID             string     `json:"battle_id"`
	Type           BattleType `json:"battle_type"`
	Target         string     `json:"target"`
	Attacker       Army       `json:"attacker_army"`
	Defender       Army       `json:"defender_army"`
	Phase          Phase      `json:"phase"`
	TurnsRemaining int        `json:"turns_remaining"`
	TerrainBonus   float64    `json:"terrain_bonus"`
	PlayerAttacker bool       `json:"is_player_attacker"`
}

// Record is one finished battle.
type Record struct {
	Target  string     `json:"target"`
	Type    BattleType `json:"type"`
	Victory bool       `json:"victory"`
	Turn    int        `json:"turn"`
}

// Force describes the standing army a new battle draws from.
type Force struct {
	Soldiers   int
	Morale     int
	Experience int
}

// Warfare is the persisted war state.
type Warfare struct {
	Battles       []*Battle      `json:"active_battles"`
	History       []Record       `json:"war_history"`
	PeaceTreaties map[string]int `json:"peace_treaties"`
	WarWeariness  int            `json:"war_weariness"`
	BattleCounter int            `json:"battle_counter"`
	Victories     int            `json:"victories_count"`
	Defeats       int            `json:"defeats_count"`
	EnemyDebuff   int            `json:"enemy_debuff"`
}

// New returns a province at peace.
func New() *Warfare {
	return &Warfare{PeaceTreaties: make(map[string]int)}
}

// AtWar reports whether any battle is active.
func (w *Warfare) AtWar() bool { return len(w.Battles) > 0 }

// CanStartWar checks the calendar, the battle cap and war weariness.
func (w *Warfare) CanStartWar(turn int) error {
	if turn < ProtectionTurns {
		return fmt.Errorf("%w: %d tur daha bekleyin", ErrPeacetime, ProtectionTurns-turn)
	}
	if len(w.Battles) >= MaxBattles {
		return ErrTooManyBattles
	}
	if w.WarWeariness >= WearinessLimit {
		return ErrWeary
	}
	return nil
}

// Start opens a raid, siege or campaign against target. The cost is paid
// from l only when every check passes.
func (w *Warfare) Start(t BattleType, target string, f Force, turn int, l *ledger.Ledger, rng entropy.Rand) (*Battle, error) {
	p, ok := plans[t]
	if !ok || t == Defense {
		return nil, ErrUnknownBattle
	}
	if err := w.CanStartWar(turn); err != nil {
		return nil, err
	}
	if w.PeaceTreaties[target] > 0 {
		return nil, fmt.Errorf("%w: %s (%d tur)", ErrTreaty, target, w.PeaceTreaties[target])
	}
	if f.Soldiers < p.minSoldiers {
		return nil, fmt.Errorf("%w: en az %d asker gerekli", ErrTooFewSoldiers, p.minSoldiers)
	}
	if err := l.Spend(p.cost); err != nil {
		return nil, err
	}

	size := int(float64(f.Soldiers) * p.share)
	if t == Raid {
		size = max(20, size)
	}
	w.BattleCounter++
	b := &Battle{
		ID:     fmt.Sprintf("battle_%d", w.BattleCounter),
		Type:   t,
		Target: target,
		Attacker: Army{
			Infantry:   int(float64(size) * p.mix[0]),
			Cavalry:    int(float64(size) * p.mix[1]),
			Artillery:  int(float64(size) * p.mix[2]),
			Morale:     f.Morale,
			Experience: f.Experience,
		},
		Defender:       enemyArmy(t, rng),
		Phase:          March,
		TurnsRemaining: p.march,
		TerrainBonus:   p.terrain,
		PlayerAttacker: true,
	}
	w.Battles = append(w.Battles, b)
	w.WarWeariness = min(100, w.WarWeariness+p.weariness)
	return b, nil
}

func enemyArmy(t BattleType, rng entropy.Rand) Army {
	switch t {
	case Siege:
		return Army{
			Infantry:  rng.Range(80, 150),
			Cavalry:   rng.Range(20, 50),
			Artillery: rng.Range(10, 30),
			Morale:    rng.Range(60, 90),
		}
	case Campaign:
		return Army{
			Infantry:  rng.Range(150, 300),
			Cavalry:   rng.Range(50, 100),
			Artillery: rng.Range(20, 40),
			Morale:    rng.Range(60, 90),
		}
	case Defense:
		return Army{
			Infantry: rng.Range(50, 120),
			Cavalry:  rng.Range(20, 50),
			Morale:   rng.Range(60, 85),
		}
	default:
		return Army{
			Infantry: rng.Range(30, 80),
			Cavalry:  rng.Range(10, 30),
			Morale:   rng.Range(50, 80),
		}
	}
}

// EnemyAttack opens a defensive battle against attacker. No attack lands
// during the protection window.
func (w *Warfare) EnemyAttack(attacker string, f Force, turn int, rng entropy.Rand) *Battle {
	if turn < ProtectionTurns {
		return nil
	}
	w.BattleCounter++
	b := &Battle{
		ID:       fmt.Sprintf("battle_%d", w.BattleCounter),
		Type:     Defense,
		Target:   attacker,
		Attacker: enemyArmy(Defense, rng),
		Defender: Army{
			Infantry:   f.Soldiers * 6 / 10,
			Cavalry:    f.Soldiers * 3 / 10,
			Artillery:  f.Soldiers / 10,
			Morale:     f.Morale,
			Experience: f.Experience,
		},
		Phase:          Combat,
		TurnsRemaining: plans[Defense].combat,
		TerrainBonus:   plans[Defense].terrain,
	}
	w.Battles = append(w.Battles, b)
	return b
}

// SignPeace forbids attacks on target for the given number of turns.
func (w *Warfare) SignPeace(target string, turns int) {
	if turns > 0 {
		w.PeaceTreaties[target] = max(w.PeaceTreaties[target], turns)
	}
}

// Debilitate records enemy weakening from sabotage or unrest abroad.
// It lowers the enemy's strength in the next resolved battle.
func (w *Warfare) Debilitate(points int) {
	if points < 0 {
		points = -points
	}
	w.EnemyDebuff = min(MaxDebuff, w.EnemyDebuff+points)
}

// AdjustWeariness shifts war weariness within [0,100].
func (w *Warfare) AdjustWeariness(v int) {
	w.WarWeariness = max(0, min(100, w.WarWeariness+v))
}

// TurnInput carries the support the province lends its armies this turn.
type TurnInput struct {
	Turn int
	// SiegeBonus is artillery wall-breaking strength added to sieges and campaigns.
	SiegeBonus int
	// NavalPower supports campaigns of coastal provinces.
	NavalPower int
	// AttackBonus scales the player's power when attacking.
	AttackBonus float64
	// RaidBonus further scales the player's raiding parties.
	RaidBonus float64
	Rand        entropy.Rand
}

// Result is the outcome of a resolved battle from the province's side.
type Result struct {
	Battle          *Battle
	Victory         bool
	Casualties      int
	EnemyCasualties int
	LootGold        int
	LootFood        int
	Loyalty         int
	Morale          int
	Experience      int
}

// TurnResult lists what happened to the active battles.
type TurnResult struct {
	Results []Result
	// Engaged lists battles that moved from march to combat.
	Engaged []*Battle
}

// ProcessTurn advances every battle by one turn and resolves the ones whose
// combat ends.
func (w *Warfare) ProcessTurn(in TurnInput) TurnResult {
	var res TurnResult
	active := w.Battles[:0]
	for _, b := range w.Battles {
		b.TurnsRemaining--
		if b.TurnsRemaining > 0 {
			active = append(active, b)
			continue
		}
		if b.Phase == March {
			b.Phase = Combat
			b.TurnsRemaining = plans[b.Type].combat
			res.Engaged = append(res.Engaged, b)
			active = append(active, b)
			continue
		}
		r := w.resolve(b, in)
		res.Results = append(res.Results, r)
		w.History = append(w.History, Record{Target: b.Target, Type: b.Type, Victory: r.Victory, Turn: in.Turn})
		if r.Victory {
			w.Victories++
		} else {
			w.Defeats++
		}
	}
	w.Battles = active

	if len(w.Battles) == 0 {
		w.WarWeariness = max(0, w.WarWeariness-WearinessRecovery)
	}
	for target, left := range w.PeaceTreaties {
		if left <= 1 {
			delete(w.PeaceTreaties, target)
		} else {
			w.PeaceTreaties[target] = left - 1
		}
	}
	return res
}

func (w *Warfare) resolve(b *Battle, in TurnInput) Result {
	attack := float64(b.Attacker.Power())
	defend := float64(b.Defender.Power()) * b.TerrainBonus
	debuff := 1 - float64(w.EnemyDebuff)/100

	if b.PlayerAttacker {
		if b.Type == Siege || b.Type == Campaign {
			attack += float64(in.SiegeBonus)
		}
		if b.Type == Campaign {
			attack += float64(in.NavalPower) / 2
		}
		attack *= 1 + in.AttackBonus
		if b.Type == Raid {
			attack *= 1 + in.RaidBonus
		}
		defend *= debuff
	} else {
		attack *= debuff
	}
	w.EnemyDebuff = 0

	attackRoll := attack * in.Rand.Uniform(0.8, 1.2)
	defendRoll := defend * in.Rand.Uniform(0.8, 1.2)
	attackerWins := attackRoll > defendRoll

	ratio := defend / max(1, attack)
	attackerLoss := int(float64(b.Attacker.Soldiers()) * min(0.5, ratio*0.3))
	defenderLoss := int(float64(b.Defender.Soldiers()) * min(0.7, 1/max(0.5, ratio)*0.4))

	r := Result{Battle: b}
	if b.PlayerAttacker {
		r.Victory = attackerWins
		r.Casualties, r.EnemyCasualties = attackerLoss, defenderLoss
	} else {
		r.Victory = !attackerWins
		r.Casualties, r.EnemyCasualties = defenderLoss, attackerLoss
	}

	p := plans[b.Type]
	if r.Victory {
		r.LootGold = in.Rand.Range(p.loot[0], p.loot[1])
		if b.Type == Raid {
			r.LootFood = in.Rand.Range(100, 500)
		}
		r.Loyalty = p.loyalty
		r.Morale = 15
		r.Experience = 10
	} else {
		r.Loyalty = -15
		r.Morale = -20
	}
	return r
}

// Sanitize repairs a loaded war state.
func (w *Warfare) Sanitize() {
	if w.PeaceTreaties == nil {
		w.PeaceTreaties = make(map[string]int)
	}
	battles := w.Battles[:0]
	for _, b := range w.Battles {
		if b == nil {
			continue
		}
		if _, ok := plans[b.Type]; !ok {
			continue
		}
		if b.Phase != March && b.Phase != Combat {
			b.Phase = Combat
		}
		b.PlayerAttacker = b.Type != Defense
		b.TurnsRemaining = max(1, b.TurnsRemaining)
		if b.TerrainBonus <= 0 {
			b.TerrainBonus = plans[b.Type].terrain
		}
		battles = append(battles, b)
	}
	w.Battles = battles
	for target, left := range w.PeaceTreaties {
		if left <= 0 {
			delete(w.PeaceTreaties, target)
		}
	}
	w.WarWeariness = max(0, min(100, w.WarWeariness))
	w.EnemyDebuff = max(0, min(MaxDebuff, w.EnemyDebuff))

	var n int
	for _, b := range w.Battles {
		if _, err := fmt.Sscanf(b.ID, "battle_%d", &n); err == nil && n > w.BattleCounter {
			w.BattleCounter = n
		}
	}
}

// Treaties lists targets under a peace treaty, by name.
func (w *Warfare) Treaties() []string {
	out := make([]string, 0, len(w.PeaceTreaties))
	for t := range w.PeaceTreaties {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
