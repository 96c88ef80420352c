package diplomacy

import (
	"errors"
	"fmt"

	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrUnknownChain = errors.New("bilinmeyen müzakere türü")
	ErrChainActive  = errors.New("bu komşuyla zaten bir müzakere sürüyor")
	ErrRelationHigh = errors.New("zaten barış içindesiniz")
	ErrAlreadyBound = errors.New("bu komşu zaten bağlı")
)

// Chain types.
const (
	ChainMarriage = "marriage"
	ChainVassal   = "vassal"
	ChainPeace    = "peace"
)

type chainDef struct {
	title         string
	stages        []string
	turnsPerStage int
	cost          int
}

var chainStages = map[string]chainDef{
	ChainMarriage: {"Hanedan evliliği", []string{"Görücüler gönderildi", "Başlık parası kararlaştırıldı", "Düğün yapıldı"}, 2, 1000},
	ChainVassal:   {"Vasallık müzakeresi", []string{"Şartlar sunuldu", "Ahidname imzalandı"}, 3, 800},
	ChainPeace:    {"Barış müzakeresi", []string{"Sulh imzalandı"}, 2, 500},
}

// VassalTribute is the per-turn tribute of a new vassal.
const VassalTribute = 200

// Chain is a multi-stage negotiation with one neighbor.
type Chain struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Target       string         `json:"target"`
	Stage        int            `json:"stage"`
	TurnsInStage int            `json:"turns_in_stage"`
	Data         map[string]int `json:"data"`
	Outcomes     []string       `json:"outcomes"`
}

// Title returns the Turkish name of the chain type.
func (c *Chain) Title() string { return chainStages[c.Type].title }

// ChainCost is the gold paid to open a negotiation of kind.
func ChainCost(kind string) int { return chainStages[kind].cost }

// ChainEvent reports progress on a chain during a turn.
type ChainEvent struct {
	Chain     Chain
	Outcome   string
	Completed bool
	Success   bool
}

func (d *Diplomacy) chainWith(target string) *Chain {
	for _, c := range d.Chains {
		if c.Target == target {
			return c
		}
	}
	return nil
}

// StartChain opens a negotiation with target.
func (d *Diplomacy) StartChain(kind, target string, l *ledger.Ledger) (*Chain, error) {
	def, ok := chainStages[kind]
	if !ok {
		return nil, ErrUnknownChain
	}
	r, ok := d.Neighbors[target]
	if !ok {
		return nil, ErrUnknownNeighbor
	}
	if d.chainWith(target) != nil {
		return nil, ErrChainActive
	}
	switch kind {
	case ChainMarriage:
		if d.IsAlly(target) {
			return nil, ErrAlreadyBound
		}
		if r.Value < 20 {
			return nil, ErrRelationLow
		}
	case ChainVassal:
		if d.IsVassal(target) || !r.Foreign {
			return nil, ErrAlreadyBound
		}
		if r.Value < -20 {
			return nil, ErrRelationLow
		}
	case ChainPeace:
		if r.Value >= -20 {
			return nil, ErrRelationHigh
		}
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: def.cost}); err != nil {
		return nil, fmt.Errorf("müzakere: %w", err)
	}
	d.ChainCounter++
	c := &Chain{
		ID:     fmt.Sprintf("chain_%d", d.ChainCounter),
		Type:   kind,
		Target: target,
		Data:   map[string]int{"start_relation": r.Value},
	}
	d.Chains = append(d.Chains, c)
	return c, nil
}

func (d *Diplomacy) stageChance(c *Chain, r *Relation, in TurnInput) float64 {
	mods := r.Modifiers()
	switch c.Type {
	case ChainMarriage:
		return 0.6 + mods.Marriage + float64(r.Value)/200 + in.MarriageBonus
	case ChainVassal:
		return 0.4 + mods.Vassal + min(0.3, float64(in.MilitaryPower)/20000)
	default:
		return 0.5 + float64(r.Value)/200 - mods.War
	}
}

func (d *Diplomacy) processChains(in TurnInput) []ChainEvent {
	var events []ChainEvent
	kept := d.Chains[:0]
	for _, c := range d.Chains {
		def := chainStages[c.Type]
		r, ok := d.Neighbors[c.Target]
		if !ok {
			continue
		}
		c.TurnsInStage++
		if c.TurnsInStage < def.turnsPerStage {
			kept = append(kept, c)
			continue
		}
		if !in.Rand.Chance(d.stageChance(c, r, in)) {
			if c.Type == ChainPeace {
				r.adjust(-5)
			} else {
				r.adjust(-10)
			}
			events = append(events, ChainEvent{Chain: *c, Outcome: "Müzakere başarısız oldu", Completed: true})
			continue
		}
		outcome := def.stages[c.Stage]
		c.Outcomes = append(c.Outcomes, outcome)
		c.Stage++
		c.TurnsInStage = 0
		if c.Stage < len(def.stages) {
			events = append(events, ChainEvent{Chain: *c, Outcome: outcome})
			kept = append(kept, c)
			continue
		}
		d.completeChain(c, r)
		events = append(events, ChainEvent{Chain: *c, Outcome: outcome, Completed: true, Success: true})
	}
	d.Chains = kept
	return events
}

func (d *Diplomacy) completeChain(c *Chain, r *Relation) {
	switch c.Type {
	case ChainMarriage:
		d.Alliances = append(d.Alliances, c.Target)
		r.adjust(30)
	case ChainVassal:
		d.Vassals = append(d.Vassals, Vassal{Name: c.Target, Tribute: VassalTribute})
		r.adjust(-10)
	case ChainPeace:
		r.Value = 0
		r.adjust(0)
	}
}
