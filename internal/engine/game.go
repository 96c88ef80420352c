// Package engine owns the running game: the province state, the per-turn
// pipeline that sequences every subsystem, the effect router, the player
// actions, and the read-only views handed to presentation adapters.
//
// Subsystems never import each other. Everything that crosses a subsystem
// boundary passes through this package.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/eyalet/internal/achievements"
	"github.com/talgya/eyalet/internal/artillery"
	"github.com/talgya/eyalet/internal/construction"
	"github.com/talgya/eyalet/internal/diplomacy"
	"github.com/talgya/eyalet/internal/divan"
	"github.com/talgya/eyalet/internal/economy"
	"github.com/talgya/eyalet/internal/entropy"
	"github.com/talgya/eyalet/internal/espionage"
	"github.com/talgya/eyalet/internal/events"
	"github.com/talgya/eyalet/internal/history"
	"github.com/talgya/eyalet/internal/ledger"
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

var (
	ErrUnknownProvince = errors.New("bilinmeyen eyalet")
	ErrGameOver        = errors.New("oyun sona erdi")
	ErrNotCoastal      = errors.New("eyalet kıyıda değil")
)

// Severity grades an announcement.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Urgent  Severity = "urgent"
)

// Announcement is one human-readable notification for the adapter.
type Announcement struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Province is the governed territory.
type Province struct {
	Name    string `json:"name"`
	Capital string `json:"capital"`
	Region  string `json:"region"`
	Coastal bool   `json:"is_coastal"`
}

// AutoSave controls the silent save of step 21.
type AutoSave struct {
	Enabled  bool
	Interval int
}

// Saver persists a game state to a numbered slot.
type Saver interface {
	Save(slot int, st *State) error
}

// Chooser answers events that await a decision. Returning false leaves the
// event pending until ResolveChoice.
type Chooser interface {
	Choose(p PendingEvent) (index int, ok bool)
}

// Options configure a new or loaded game.
type Options struct {
	Seed          uint64 // zero draws a seed from the OS
	Province      string
	Player        *player.Player
	AutoSave      AutoSave
	EventsEnabled bool
	Saver         Saver
	Chooser       Chooser

	// Achievements is the cross-game tracker; it is flushed to
	// AchievementsPath when something unlocks.
	Achievements     *achievements.Tracker
	AchievementsPath string

	Clock func() time.Time
}

// Game is the whole mutable state of one play-through. It is not safe for
// concurrent use; adapters serialize access.
type Game struct {
	ID       string
	Slot     int
	Date     Date
	Turn     int
	Province Province
	Player   *player.Player

	Economy      *economy.Economy
	Population   *population.Population
	Construction *construction.Construction
	Workers      *workers.Workers
	Military     *military.Military
	Artillery    *artillery.Artillery
	Naval        *naval.Naval
	Trade        *trade.Trade
	Diplomacy    *diplomacy.Diplomacy
	Espionage    *espionage.Espionage
	Religion     *religion.Religion
	Events       *events.Events
	Warfare      *warfare.Warfare
	Divan        *divan.Divan
	History      *history.Log

	GameOver       bool
	GameOverReason string
	Victory        bool
	VictoryReason  string

	rng      *entropy.Source
	opts     Options
	inbox    []Announcement
	deferred []Deferred // event effects chosen during the last turn
}

// NewGame starts a fresh province on 1 Ocak 1520.
func NewGame(opts Options) (*Game, error) {
	if opts.Province == "" {
		opts.Province = "Rum"
	}
	t, ok := world.Lookup(opts.Province)
	if !ok || !t.Playable() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvince, opts.Province)
	}
	if opts.Seed == 0 {
		opts.Seed = entropy.CryptoSeed()
	}
	if opts.Player == nil {
		opts.Player = player.Default()
	}

	g := &Game{
		ID:   uuid.NewString()[:8],
		Date: StartDate(),
		Province: Province{
			Name:    t.Name,
			Capital: t.Capital,
			Region:  string(t.Region),
			Coastal: t.Coastal,
		},
		Player:       opts.Player,
		Economy:      economy.New(int64(opts.Seed)),
		Population:   population.New(),
		Construction: construction.New(),
		Workers:      workers.New(),
		Military:     military.New(),
		Artillery:    artillery.New(),
		Naval:        naval.New(),
		Trade:        trade.New(),
		Diplomacy:    diplomacy.New(),
		Espionage:    espionage.New(),
		Religion:     religion.New(),
		Events:       events.New(),
		Warfare:      warfare.New(),
		History:      history.New(),
		rng:          entropy.New(opts.Seed),
	}
	g.Divan = divan.New(g.rng)
	g.Diplomacy.SeedNeighbors(t)
	g.Workers.UpdateCapacity(g.Population.Total())
	g.attach(opts)

	g.History.Add(0, g.Date.Year, "Yeni oyun başlatıldı. Eyalet valisi olarak göreve atandınız.", history.General)
	g.announce(Info, fmt.Sprintf("%s. %s - %s olarak göreve başladınız.", g.Date, g.Province.Name, g.Player.FullTitle()))
	slog.Info("new game", "id", g.ID, "province", g.Province.Name, "seed", opts.Seed, "player", g.Player.Name)
	return g, nil
}

// attach installs the runtime collaborators that are not part of the saved state.
func (g *Game) attach(opts Options) {
	if opts.Clock != nil {
		g.History.SetClock(opts.Clock)
		if opts.Achievements != nil {
			opts.Achievements.SetClock(opts.Clock)
		}
	}
	if opts.AutoSave.Interval <= 0 {
		opts.AutoSave.Interval = 5
	}
	g.opts = opts
}

// SetChooser replaces the event chooser.
func (g *Game) SetChooser(c Chooser) { g.opts.Chooser = c }

// SetSaver replaces the auto-save target.
func (g *Game) SetSaver(s Saver) { g.opts.Saver = s }

// Achievements returns the attached tracker, or nil.
func (g *Game) Achievements() *achievements.Tracker { return g.opts.Achievements }

// Resources is the shared ledger.
func (g *Game) Resources() *ledger.Ledger { return g.Economy.Resources }

// Rand exposes the game's deterministic random source.
func (g *Game) Rand() entropy.Rand { return g.rng }

// Drain returns and clears announcements made outside a turn, such as
// action results.
func (g *Game) Drain() []Announcement {
	out := g.inbox
	g.inbox = nil
	return out
}

func (g *Game) announce(sev Severity, msg string) {
	g.inbox = append(g.inbox, Announcement{Severity: sev, Message: msg})
}

func (g *Game) record(msg, category string) {
	g.History.Add(g.Turn, g.Date.Year, msg, category)
}

func (g *Game) female() bool { return g.Player.Gender == player.Female }
