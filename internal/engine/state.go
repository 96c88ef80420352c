package engine

import (
	"github.com/talgya/eyalet/internal/artillery"
	"github.com/talgya/eyalet/internal/construction"
	"github.com/talgya/eyalet/internal/diplomacy"
	"github.com/talgya/eyalet/internal/divan"
	"github.com/talgya/eyalet/internal/economy"
	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/espionage"
	"github.com/talgya/eyalet/internal/events"
	"github.com/talgya/eyalet/internal/history"
	"github.com/talgya/eyalet/internal/military"
	"github.com/talgya/eyalet/internal/naval"
	"github.com/talgya/eyalet/internal/player"
	"github.com/talgya/eyalet/internal/population"
	"github.com/talgya/eyalet/internal/religion"
	"github.com/talgya/eyalet/internal/trade"
	"github.com/talgya/eyalet/internal/warfare"
	"github.com/talgya/eyalet/internal/workers"
	"github.com/talgya/eyalet/internal/world"
)

// Version is the save format written by this build.
const Version = "1.2"

// Time is the calendar block of a save.
type Time struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
	Turn  int `json:"turn"`
}

// State is the persisted form of a game: one nested object per subsystem
// plus the identifying header.
type State struct {
	Version  string          `json:"version"`
	GameID   string          `json:"game_id"`
	SaveSlot int             `json:"save_slot"`
	AutoSave bool            `json:"auto_save,omitempty"`
	Player   *player.Player  `json:"player"`
	Province Province        `json:"province"`
	Time     Time            `json:"time"`
	RNG      *entropy.Source `json:"rng"`

	GameOver       bool   `json:"game_over"`
	GameOverReason string `json:"game_over_reason,omitempty"`
	Victory        bool   `json:"victory"`
	VictoryReason  string `json:"victory_reason,omitempty"`

	// DeferredEffects are event effects chosen in the saved turn that
	// apply when the next turn starts.
	DeferredEffects []Deferred `json:"deferred_effects,omitempty"`

	Economy      *economy.Economy           `json:"economy"`
	Military     *military.Military         `json:"military"`
	Population   *population.Population     `json:"population"`
	Construction *construction.Construction `json:"construction"`
	Diplomacy    *diplomacy.Diplomacy       `json:"diplomacy"`
	Events       *events.Events             `json:"events"`
	Warfare      *warfare.Warfare           `json:"warfare"`
	Trade        *trade.Trade               `json:"trade"`
	Workers      *workers.Workers           `json:"workers"`
	Naval        *naval.Naval               `json:"naval"`
	Artillery    *artillery.Artillery       `json:"artillery"`
	Espionage    *espionage.Espionage       `json:"espionage"`
	Religion     *religion.Religion         `json:"religion"`
	Divan        *divan.Divan               `json:"divan"`
	History      *history.Log               `json:"history"`
}

// State returns the persisted view of g. It shares memory with the game and
// must be encoded before the next turn.
func (g *Game) State() *State {
	st := &State{
		Version:        Version,
		GameID:         g.ID,
		SaveSlot:       g.Slot,
		AutoSave:       g.opts.AutoSave.Enabled,
		Player:         g.Player,
		Province:       g.Province,
		Time:           Time{Year: g.Date.Year, Month: g.Date.Month, Day: g.Date.Day, Turn: g.Turn},
		RNG:            g.rng,
		GameOver:       g.GameOver,
		GameOverReason: g.GameOverReason,
		Victory:        g.Victory,
		VictoryReason:  g.VictoryReason,
		Economy:        g.Economy,
		Military:       g.Military,
		Population:     g.Population,
		Construction:   g.Construction,
		Diplomacy:      g.Diplomacy,
		Events:         g.Events,
		Warfare:        g.Warfare,
		Trade:          g.Trade,
		Workers:        g.Workers,
		Naval:          g.Naval,
		Artillery:      g.Artillery,
		Espionage:      g.Espionage,
		Religion:       g.Religion,
		Divan:          g.Divan,
		History:        g.History,
	}
	st.DeferredEffects = g.deferred
	return st
}

// FromState rebuilds a game from a decoded save. Missing subsystems start
// from their defaults and every subsystem drops what it no longer knows.
func FromState(st *State, opts Options) *Game {
	g := &Game{
		ID:             st.GameID,
		Slot:           st.SaveSlot,
		Date:           Date{Year: st.Time.Year, Month: st.Time.Month, Day: st.Time.Day},
		Turn:           max(0, st.Time.Turn),
		Province:       st.Province,
		Player:         st.Player,
		GameOver:       st.GameOver,
		GameOverReason: st.GameOverReason,
		Victory:        st.Victory,
		VictoryReason:  st.VictoryReason,
		rng:            st.RNG,
		deferred:       st.DeferredEffects,
	}
	g.Date.normalize()
	if g.rng == nil {
		g.rng = entropy.New(entropy.SeedFromString(st.GameID))
	}
	g.fillProvince()
	if g.Player == nil {
		g.Player = player.Default()
	}
	g.Player.Sanitize()

	g.Economy = orNew(st.Economy, func() *economy.Economy { return economy.New(int64(entropy.SeedFromString(st.GameID))) })
	g.Military = orNew(st.Military, military.New)
	g.Population = orNew(st.Population, population.New)
	g.Construction = orNew(st.Construction, construction.New)
	g.Diplomacy = orNew(st.Diplomacy, diplomacy.New)
	g.Events = orNew(st.Events, events.New)
	g.Warfare = orNew(st.Warfare, warfare.New)
	g.Trade = orNew(st.Trade, trade.New)
	g.Workers = orNew(st.Workers, workers.New)
	g.Naval = orNew(st.Naval, naval.New)
	g.Artillery = orNew(st.Artillery, artillery.New)
	g.Espionage = orNew(st.Espionage, espionage.New)
	g.Religion = orNew(st.Religion, religion.New)
	g.Divan = orNew(st.Divan, func() *divan.Divan { return divan.New(g.rng) })
	g.History = orNew(st.History, history.New)
	if st.Diplomacy == nil {
		if t, ok := world.Lookup(g.Province.Name); ok {
			g.Diplomacy.SeedNeighbors(t)
		}
	}

	g.Economy.Sanitize(trade.KnownRoute)
	g.Military.Sanitize()
	g.Population.Sanitize()
	g.Construction.Sanitize()
	g.Diplomacy.Sanitize()
	g.Events.Sanitize()
	g.Warfare.Sanitize()
	g.Trade.Sanitize(func(s string) bool { _, ok := economy.ParseGood(s); return ok })
	g.Workers.Sanitize()
	g.Naval.Sanitize()
	g.Artillery.Sanitize()
	g.Espionage.Sanitize()
	g.Religion.Sanitize()
	g.Divan.Sanitize(g.rng)
	g.History.Sanitize()

	g.Military.UpdateTimars(g.Construction.Level(construction.Fortress))
	g.Military.ReleaseExcess()
	g.Artillery.UpdateFoundry(g.Construction.Level(construction.ArtilleryFoundry))
	g.Trade.UpdatePort(g.Construction.Has(construction.Shipyard), g.Construction.Level(construction.Shipyard))
	g.Workers.UpdateCapacity(g.Population.Total())

	if st.AutoSave {
		opts.AutoSave.Enabled = true
	}
	g.attach(opts)
	return g
}

// fillProvince completes a province header from the territory catalog.
func (g *Game) fillProvince() {
	name := g.Province.Name
	if name == "" {
		name = "Rum"
	}
	t, ok := world.Lookup(name)
	if !ok {
		return
	}
	g.Province.Name = t.Name
	if g.Province.Capital == "" {
		g.Province.Capital = t.Capital
	}
	if g.Province.Region == "" {
		g.Province.Region = string(t.Region)
	}
	g.Province.Coastal = g.Province.Coastal || t.Coastal
}

func orNew[T any](v *T, fresh func() *T) *T {
	if v != nil {
		return v
	}
	return fresh()
}
