package engine

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/talgya/eyalet/internal/achievements"
	"github.com/talgya/eyalet/internal/divan"
	"github.com/talgya/eyalet/internal/events"
	"github.com/talgya/eyalet/internal/history"
	"github.com/talgya/eyalet/internal/ledger"
	"github.com/talgya/eyalet/internal/military"
)

// Victory thresholds.
const (
	VictoryGold       = 500_000
	VictoryBattles    = 10
	VictoryAlliances  = 5
	VictoryPopulation = 150_000
)

// ChoiceView is one answer to a pending event.
type ChoiceView struct {
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
}

// PendingEvent is an event awaiting the player's decision.
type PendingEvent struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Severity    string       `json:"severity"`
	Choices     []ChoiceView `json:"choices"`
}

// PendingEvent returns the event awaiting a choice, if any.
func (g *Game) PendingEvent() (PendingEvent, bool) {
	e, ok := g.Events.Pending()
	if !ok {
		return PendingEvent{}, false
	}
	title, desc, choices, _ := g.Events.PendingChoices()
	p := PendingEvent{ID: e.ID, Title: title, Description: desc, Severity: string(e.Severity)}
	for _, c := range choices {
		p.Choices = append(p.Choices, ChoiceView{Text: c.Text, Description: c.Description})
	}
	return p, true
}

// ResolveChoice answers the pending event with the choice at index and
// routes its effects.
func (g *Game) ResolveChoice(index int) error {
	res, err := g.resolve(index, false)
	if err != nil {
		return err
	}
	g.announce(Info, "Karar: "+res.Choice.Text)
	return nil
}

// DismissEvent closes the pending event without applying any choice.
func (g *Game) DismissEvent() {
	g.Events.Dismiss(g.Turn)
}

// resolve answers the pending event. With later set the effects wait for
// the next turn; the history entry is written at once either way.
func (g *Game) resolve(index int, later bool) (events.Resolution, error) {
	res, err := g.Events.Choose(index, g.Turn)
	if err != nil {
		return res, err
	}
	source := "event:" + res.Event.ID
	dropUnknown(res.Unknown, source)
	if later {
		if len(res.Effects) > 0 {
			g.deferred = append(g.deferred, Deferred{Source: source, Effects: res.Effects})
		}
	} else {
		g.apply(res.Effects, source)
	}
	g.record(fmt.Sprintf("Karar (%s): %s", res.Event.Title, res.Choice.Text), history.Event)
	return res, nil
}

// Status is the flat province summary handed to adapters.
type Status struct {
	GameID     string `json:"game_id"`
	Province   string `json:"province"`
	Governor   string `json:"governor"`
	Date       string `json:"date"`
	Season     string `json:"season"`
	Turn       int    `json:"turn"`
	Gold       int    `json:"gold"`
	Food       int    `json:"food"`
	Wood       int    `json:"wood"`
	Iron       int    `json:"iron"`
	Stone      int    `json:"stone"`
	NetIncome  int    `json:"net_income"`
	TaxRate    int    `json:"tax_rate_percent"`
	Population int    `json:"population"`
	Happiness  int    `json:"happiness"`
	Health     int    `json:"health"`
	Unrest     int    `json:"unrest"`
	Revolt     bool   `json:"active_revolt"`
	Soldiers   int    `json:"soldiers"`
	Morale     int    `json:"morale"`
	AtWar      bool   `json:"at_war"`
	Loyalty    int    `json:"sultan_loyalty"`
	Favor      int    `json:"sultan_favor"`
	Piety      int    `json:"piety"`
	Legitimacy int    `json:"legitimacy"`
	Buildings  int    `json:"buildings"`
	Caravans   int    `json:"caravans"`
	Spies      int    `json:"spies"`
	Pending    string `json:"pending_event,omitempty"`
	GameOver   bool   `json:"game_over"`
	Reason     string `json:"game_over_reason,omitempty"`
	Victory    bool   `json:"victory"`
	VictoryMsg string `json:"victory_reason,omitempty"`
}

// Status returns the current summary.
func (g *Game) Status() Status {
	r := g.Resources()
	s := Status{
		GameID:     g.ID,
		Province:   g.Province.Name,
		Governor:   g.Player.FullTitle(),
		Date:       g.Date.String(),
		Season:     SeasonOf(g.Date.Month).String(),
		Turn:       g.Turn,
		Gold:       r.Get(ledger.Gold),
		Food:       r.Get(ledger.Food),
		Wood:       r.Get(ledger.Wood),
		Iron:       r.Get(ledger.Iron),
		Stone:      r.Get(ledger.Stone),
		NetIncome:  g.Economy.Income.Total() - g.Economy.Expense.Total(),
		TaxRate:    int(g.Economy.TaxRate*100 + 0.5),
		Population: g.Population.Total(),
		Happiness:  g.Population.Happiness,
		Health:     g.Population.Health,
		Unrest:     g.Population.Unrest,
		Revolt:     g.Population.ActiveRevolt,
		Soldiers:   g.Military.TotalSoldiers(),
		Morale:     g.Military.Morale,
		AtWar:      g.Warfare.AtWar(),
		Loyalty:    g.Diplomacy.SultanLoyalty,
		Favor:      g.Diplomacy.SultanFavor,
		Piety:      g.Religion.Piety,
		Legitimacy: g.Religion.Legitimacy,
		Buildings:  len(g.Construction.Buildings),
		Caravans:   len(g.Trade.Caravans),
		Spies:      g.Espionage.Count(),
		GameOver:   g.GameOver,
		Reason:     g.GameOverReason,
		Victory:    g.Victory,
		VictoryMsg: g.VictoryReason,
	}
	if p, ok := g.PendingEvent(); ok {
		s.Pending = p.Title
	}
	return s
}

// Summary is the one-line province report read out on request.
func (g *Game) Summary() string {
	s := g.Status()
	return fmt.Sprintf("%s, %s. Altın %s, zahire %s, nüfus %s, huzur %d, sadakat %d.",
		s.Province, s.Date,
		humanize.Comma(int64(s.Gold)), humanize.Comma(int64(s.Food)),
		humanize.Comma(int64(s.Population)), s.Happiness, s.Loyalty)
}

func (g *Game) milletLoyalty() map[string]int {
	out := make(map[string]int, len(g.Religion.Millets))
	for m, st := range g.Religion.Millets {
		out[m.Name()] = st.Loyalty
	}
	return out
}

func (g *Game) divanSnapshot(net int) divan.Snapshot {
	return divan.Snapshot{
		Turn:             g.Turn,
		Gold:             g.Resources().Get(ledger.Gold),
		NetIncome:        net,
		Inflation:        g.Economy.Inflation,
		Happiness:        g.Population.Happiness,
		Unrest:           g.Population.Unrest,
		MilletLoyalty:    g.milletLoyalty(),
		Soldiers:         g.Military.TotalSoldiers(),
		Morale:           g.Military.Morale,
		HostileNeighbors: len(g.Diplomacy.Hostile()),
		TahrirAccuracy:   g.Economy.Tahrir.Accuracy,
		Food:             g.Resources().Get(ledger.Food),
		FoodConsumption:  g.Population.FoodConsumption,
		Population:       g.Population.Total(),
		Health:           g.Population.Health,
	}
}

func (g *Game) achievementSnapshot() achievements.Snapshot {
	return achievements.Snapshot{
		Gold:          g.Resources().Get(ledger.Gold),
		TradeRoutes:   len(g.Economy.ActiveRoutes),
		Income:        g.Economy.Income.Total(),
		TaxRate:       g.Economy.TaxRate,
		Workers:       len(g.Workers.Workers),
		Ships:         len(g.Naval.Ships),
		Cannons:       len(g.Artillery.Cannons),
		Janissaries:   g.Military.Units[military.Yenicheri],
		Alliances:     len(g.Diplomacy.Alliances),
		SpyMissions:   g.Espionage.Successful,
		Vassals:       len(g.Diplomacy.Vassals),
		Population:    g.Population.Total(),
		Happiness:     g.Population.Happiness,
		Education:     g.Religion.Education,
		Ulema:         len(g.Religion.Ulema),
		Vakifs:        len(g.Religion.Vakifs),
		MilletLoyalty: g.milletLoyalty(),
		AtWar:         g.Warfare.AtWar(),
	}
}

func (g *Game) victoryReason() (string, bool) {
	switch {
	case g.Resources().Get(ledger.Gold) >= VictoryGold:
		return fmt.Sprintf("Ekonomik Zafer: %s altın biriktirdiniz!", humanize.Comma(VictoryGold)), true
	case g.Warfare.Victories >= VictoryBattles:
		return fmt.Sprintf("Askeri Zafer: %d zafer kazandınız!", VictoryBattles), true
	case len(g.Diplomacy.Alliances) >= VictoryAlliances:
		return fmt.Sprintf("Diplomatik Zafer: %d ittifak kurdunuz!", VictoryAlliances), true
	case g.Population.Total() >= VictoryPopulation:
		return fmt.Sprintf("Hakimiyet Zaferi: %s nüfusa ulaştınız!", humanize.Comma(VictoryPopulation)), true
	}
	return "", false
}
