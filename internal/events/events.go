// Package events holds the static event pool and the per-game selector:
// eligibility, yearly caps, multi-stage choices, chains, memory flags and
// delayed successors.
package events

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/talgya/eyalet/internal/effect"
	"github.com/talgya/eyalet/internal/entropy"
)

var (
	ErrNoEvent   = errors.New("bekleyen olay yok")
	ErrBadChoice = errors.New("geçersiz seçim")
)

// Type groups events for the weighted draw.
type Type string

const (
	Economic    Type = "economic"
	Military    Type = "military"
	Population  Type = "population"
	Diplomatic  Type = "diplomatic"
	Natural     Type = "natural"
	Opportunity Type = "opportunity"
)

// Types is the draw order.
var Types = []Type{Economic, Military, Population, Diplomatic, Natural, Opportunity}

var typeWeights = map[Type]int{
	Economic:    25,
	Military:    20,
	Population:  20,
	Diplomatic:  15,
	Natural:     10,
	Opportunity: 10,
}

// WarMilitaryWeight replaces the military weight while the province is at war.
const WarMilitaryWeight = 35

// Severity is how loudly an event is announced.
type Severity string

const (
	Minor    Severity = "minor"
	Moderate Severity = "moderate"
	Major    Severity = "major"
	Critical Severity = "critical"
)

const (
	// MaxPerYear caps how many events fire in one calendar year.
	MaxPerYear = 3
	// BaseChance is the percent chance of an event on a turn.
	BaseChance = 30
	// UnrestChance is added when happiness is below 50.
	UnrestChance = 15
	// recentWindow events at the tail of the history are not repeated.
	recentWindow = 10
)

// Choice is one answer to an event.
type Choice struct {
	Text        string
	Description string
	Effects     map[string]int
	// NextStage names a stage of the same event shown after this choice.
	NextStage string
	// Remember sets memory flags later events can require.
	Remember []string
}

// Stage is a follow-up screen of a multi-stage event.
type Stage struct {
	Title       string
	Description string
	Choices     []Choice
}

// State is the slice of the world event preconditions look at.
type State struct {
	Year           int
	Turn           int
	Happiness      int
	Loyalty        int
	Gold           int
	AtWar          bool
	Gender         string
	ArmyPower      int
	Coastal        bool
	KizilbasThreat int
}

// Event is a static pool entry.
type Event struct {
	ID          string
	Title       string
	Description string
	Type        Type
	Severity    Severity
	Choices     []Choice
	Stages      map[string]Stage

	MinYear int
	MaxYear int
	MinTurn int
	// Gender is empty for everyone, or "male"/"female".
	Gender string

	ChainID    string
	ChainStage int

	// Triggers schedules another event TriggerDelay turns after this one ends.
	Triggers     string
	TriggerDelay int

	RequiresMemory []string
	Condition      func(State) bool
}

// Scheduled is a successor waiting for its turn.
type Scheduled struct {
	EventID string `json:"event_id"`
	DueTurn int    `json:"due_turn"`
}

// Events is the persisted selector state.
type Events struct {
	History        []string        `json:"event_history"`
	ThisYear       int             `json:"events_this_year"`
	CurrentEventID string          `json:"current_event_id,omitempty"`
	CurrentStage   string          `json:"current_stage,omitempty"`
	Memory         map[string]bool `json:"memory"`
	ChainStages    map[string]int  `json:"chain_stages"`
	Scheduled      []Scheduled     `json:"scheduled"`
}

// Resolution is the outcome of answering a pending event.
type Resolution struct {
	Event   *Event
	Choice  Choice
	Effects effect.Bundle
	// Unknown lists effect keys no subsystem understands.
	Unknown []string
	// Finished is false when the choice opened another stage.
	Finished bool
}

// New returns an empty selector.
func New() *Events {
	return &Events{
		Memory:      make(map[string]bool),
		ChainStages: make(map[string]int),
	}
}

// Lookup finds a pool event by id.
func Lookup(id string) (*Event, bool) {
	for _, e := range pool {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Pool returns the static event list.
func Pool() []*Event {
	return slices.Clone(pool)
}

// Pending returns the event awaiting a choice, if any.
func (ev *Events) Pending() (*Event, bool) {
	if ev.CurrentEventID == "" {
		return nil, false
	}
	return Lookup(ev.CurrentEventID)
}

// PendingChoices returns the title, description and choices currently shown.
func (ev *Events) PendingChoices() (title, desc string, choices []Choice, ok bool) {
	e, ok := ev.Pending()
	if !ok {
		return "", "", nil, false
	}
	if st, staged := e.Stages[ev.CurrentStage]; staged && ev.CurrentStage != "" {
		return st.Title, st.Description, st.Choices, true
	}
	return e.Title, e.Description, e.Choices, true
}

// Eligible reports whether an event may fire in the given state.
func (ev *Events) Eligible(e *Event, s State) bool {
	if e.MinYear > 0 && s.Year < e.MinYear {
		return false
	}
	if e.MaxYear > 0 && s.Year > e.MaxYear {
		return false
	}
	if s.Turn < e.MinTurn {
		return false
	}
	if e.Gender != "" && e.Gender != s.Gender {
		return false
	}
	for _, m := range e.RequiresMemory {
		if !ev.Memory[m] {
			return false
		}
	}
	if e.ChainID != "" && ev.ChainStages[e.ChainID] != e.ChainStage {
		return false
	}
	if e.Condition != nil && !e.Condition(s) {
		return false
	}
	return true
}

// Check selects at most one event for this turn and marks it pending.
// A due successor fires before the regular draw and ignores the yearly cap.
func (ev *Events) Check(s State, rng entropy.Rand) *Event {
	if ev.CurrentEventID != "" {
		return nil
	}
	if e := ev.popDue(s); e != nil {
		ev.begin(e)
		return e
	}
	if ev.ThisYear >= MaxPerYear {
		return nil
	}
	chance := BaseChance
	if s.Happiness < 50 {
		chance += UnrestChance
	}
	if rng.Range(1, 100) > chance {
		return nil
	}

	weights := make([]int, len(Types))
	for i, t := range Types {
		weights[i] = typeWeights[t]
		if t == Military && s.AtWar {
			weights[i] = WarMilitaryWeight
		}
	}
	want := Types[max(0, entropy.Weighted(rng, weights))]

	recent := ev.History[max(0, len(ev.History)-recentWindow):]
	var candidates []*Event
	for _, e := range pool {
		if e.Type != want || slices.Contains(recent, e.ID) || !ev.Eligible(e, s) {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return nil
	}
	e := candidates[rng.IntN(len(candidates))]
	ev.begin(e)
	return e
}

func (ev *Events) popDue(s State) *Event {
	for i, sc := range ev.Scheduled {
		if sc.DueTurn > s.Turn {
			continue
		}
		e, ok := Lookup(sc.EventID)
		if !ok || !ev.Eligible(e, s) {
			continue
		}
		ev.Scheduled = slices.Delete(ev.Scheduled, i, i+1)
		return e
	}
	return nil
}

func (ev *Events) begin(e *Event) {
	ev.CurrentEventID = e.ID
	ev.CurrentStage = ""
	ev.ThisYear++
}

// Trigger forces an event to become pending, bypassing the draw.
func (ev *Events) Trigger(id string) (*Event, error) {
	if ev.CurrentEventID != "" {
		return nil, fmt.Errorf("olay %s hâlâ bekliyor", ev.CurrentEventID)
	}
	e, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("bilinmeyen olay: %s", id)
	}
	ev.begin(e)
	return e, nil
}

// Choose answers the pending event. Effects are returned for the caller to
// route; the selector only records history, memory, chains and successors.
func (ev *Events) Choose(index, turn int) (Resolution, error) {
	e, ok := ev.Pending()
	if !ok {
		return Resolution{}, ErrNoEvent
	}
	_, _, choices, _ := ev.PendingChoices()
	if index < 0 || index >= len(choices) {
		return Resolution{}, fmt.Errorf("%w: %d", ErrBadChoice, index+1)
	}
	c := choices[index]
	b, unknown := effect.FromMap(c.Effects)
	res := Resolution{Event: e, Choice: c, Effects: b, Unknown: unknown}

	for _, m := range c.Remember {
		ev.Memory[m] = true
	}
	if _, next := e.Stages[c.NextStage]; next && c.NextStage != "" {
		ev.CurrentStage = c.NextStage
		return res, nil
	}

	res.Finished = true
	ev.finish(e, turn)
	return res, nil
}

// Dismiss closes the pending event without applying any choice.
func (ev *Events) Dismiss(turn int) {
	if e, ok := ev.Pending(); ok {
		ev.finish(e, turn)
	}
}

func (ev *Events) finish(e *Event, turn int) {
	ev.History = append(ev.History, e.ID)
	ev.trimHistory()
	ev.CurrentEventID = ""
	ev.CurrentStage = ""
	if e.ChainID != "" {
		ev.ChainStages[e.ChainID] = e.ChainStage + 1
	}
	if e.Triggers != "" {
		ev.Scheduled = append(ev.Scheduled, Scheduled{EventID: e.Triggers, DueTurn: turn + e.TriggerDelay})
	}
}

// trimHistory keeps only the tail the draw consults.
func (ev *Events) trimHistory() {
	if n := len(ev.History); n > recentWindow {
		ev.History = append(ev.History[:0:0], ev.History[n-recentWindow:]...)
	}
}

// ResetYear clears the yearly counter.
func (ev *Events) ResetYear() {
	ev.ThisYear = 0
}

// Sanitize drops unknown ids from a loaded selector.
func (ev *Events) Sanitize() {
	if ev.Memory == nil {
		ev.Memory = make(map[string]bool)
	}
	if ev.ChainStages == nil {
		ev.ChainStages = make(map[string]int)
	}
	hist := ev.History[:0]
	for _, id := range ev.History {
		if _, ok := Lookup(id); ok {
			hist = append(hist, id)
		}
	}
	ev.History = hist
	ev.trimHistory()

	if e, ok := Lookup(ev.CurrentEventID); !ok {
		ev.CurrentEventID = ""
		ev.CurrentStage = ""
	} else if _, staged := e.Stages[ev.CurrentStage]; !staged {
		ev.CurrentStage = ""
	}

	sched := ev.Scheduled[:0]
	for _, sc := range ev.Scheduled {
		if _, ok := Lookup(sc.EventID); ok {
			sched = append(sched, sc)
		}
	}
	ev.Scheduled = sched
	sort.SliceStable(ev.Scheduled, func(i, j int) bool { return ev.Scheduled[i].DueTurn < ev.Scheduled[j].DueTurn })

	ev.ThisYear = max(0, min(MaxPerYear, ev.ThisYear))
	for id, stage := range ev.ChainStages {
		if stage < 0 {
			ev.ChainStages[id] = 0
		}
	}
}
