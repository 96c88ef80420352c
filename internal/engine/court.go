package engine

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/talgya/eyalet/internal/achievements"
	"github.com/talgya/eyalet/internal/diplomacy"
	"github.com/talgya/eyalet/internal/espionage"
	"github.com/talgya/eyalet/internal/history"
	"github.com/talgya/eyalet/internal/ledger"
	"github.com/talgya/eyalet/internal/player"
	"github.com/talgya/eyalet/internal/religion"
	"github.com/talgya/eyalet/internal/trade"
)

// SendTribute sends gold to the Sultan.
func (g *Game) SendTribute(amount int) error {
	if err := g.live(); err != nil {
		return err
	}
	loyalty, favor, err := g.Diplomacy.SendTribute(amount, g.Resources())
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Padişaha %s altın haraç gönderildi (sadakat +%d, lütuf +%d)",
		humanize.Comma(int64(amount)), loyalty, favor)
	g.announce(Info, msg)
	g.record(msg, history.Diplomatic)
	return nil
}

// SendEnvoy dispatches an envoy to a neighbor.
func (g *Game) SendEnvoy(target string) (int, error) {
	if err := g.live(); err != nil {
		return 0, err
	}
	bonus := g.Player.Bonus(player.Diplomacy) + g.Workers.CurrentBonuses().Diplomacy
	gain, err := g.Diplomacy.SendEnvoy(target, bonus, g.rng)
	if err != nil {
		return 0, err
	}
	if gain > 0 {
		g.announce(Info, fmt.Sprintf("%s elçimizi iyi karşıladı (+%d)", target, gain))
	} else {
		g.announce(Warning, target+" elçimizi geri çevirdi")
	}
	return gain, nil
}

// ProposeTradeAgreement offers a treaty to a neighbor through the court.
// An accepted treaty counts as a trade agreement with that neighbor.
func (g *Game) ProposeTradeAgreement(target string) (bool, error) {
	if err := g.live(); err != nil {
		return false, err
	}
	if _, ok := g.Trade.Agreements[target]; ok {
		return false, trade.ErrAgreementExists
	}
	ok, err := g.Diplomacy.ProposeTradeAgreement(target, g.Resources(), g.rng)
	if err != nil {
		return false, err
	}
	if !ok {
		g.announce(Warning, target+" ticaret teklifimizi reddetti")
		return false, nil
	}
	g.Trade.Agreements[target] = trade.AgreementBonus
	g.bump(achievements.Negotiations, 1)
	msg := target + " ile ticaret anlaşması imzalandı"
	g.announce(Info, msg)
	g.record(msg, history.Diplomatic)
	return true, nil
}

// StartNegotiation opens a marriage, vassalage or peace chain.
func (g *Game) StartNegotiation(kind, target string) (*diplomacy.Chain, error) {
	if err := g.live(); err != nil {
		return nil, err
	}
	c, err := g.Diplomacy.StartChain(kind, target, g.Resources())
	if err != nil {
		return nil, err
	}
	g.announce(Info, fmt.Sprintf("%s başladı: %s", c.Title(), target))
	return c, nil
}

// PayDemand pays the neighbor demand at index i.
func (g *Game) PayDemand(i int) error {
	if err := g.live(); err != nil {
		return err
	}
	d, err := g.Diplomacy.PayDemand(i, g.Resources())
	if err != nil {
		return err
	}
	g.announce(Info, fmt.Sprintf("%s talebi ödendi: %s altın", d.From, humanize.Comma(int64(d.Amount))))
	return nil
}

// FulfillMission carries out a Sultan's order. Tribute orders pay the
// requested gold, military orders detach soldiers to the capital, and
// suppression orders fight the bandits; a lost fight leaves the order open.
func (g *Game) FulfillMission(id int) (bool, error) {
	if err := g.live(); err != nil {
		return false, err
	}
	m, ok := g.Diplomacy.Mission(id)
	if !ok {
		return false, diplomacy.ErrNoMission
	}
	switch m.Type {
	case diplomacy.MissionTribute:
		if err := g.Resources().Spend(ledger.Amounts{ledger.Gold: m.Target}); err != nil {
			return false, fmt.Errorf("ferman: %w", err)
		}
	case diplomacy.MissionMilitary:
		if _, err := g.Military.Detach(m.Target); err != nil {
			return false, err
		}
	case diplomacy.MissionSuppress:
		if !g.Military.FightBandits().Victory {
			msg := "Eşkıya bastırılamadı"
			g.announce(Warning, msg)
			g.record(msg, history.Military)
			return false, nil
		}
		g.bump(achievements.RebellionsCrush, 1)
	}
	if _, err := g.Diplomacy.CompleteMission(id); err != nil {
		return false, err
	}
	msg := fmt.Sprintf("Ferman yerine getirildi: %s (sadakat +%d)", m.Title, m.RewardLoyalty)
	g.announce(Info, msg)
	g.record(msg, history.Diplomatic)
	return true, nil
}

// RecruitSpy enlists an agent.
func (g *Game) RecruitSpy(t espionage.SpyType) (*espionage.Spy, error) {
	if err := g.live(); err != nil {
		return nil, err
	}
	s, err := g.Espionage.Recruit(t, g.female(), g.Resources(), g.rng)
	if err != nil {
		return nil, err
	}
	g.announce(Info, fmt.Sprintf("Casus %s teşkilata katıldı", s.Name))
	return s, nil
}

// StartSpyMission sends an available spy on an operation.
func (g *Game) StartSpyMission(spyID string, op espionage.Operation, target string) (*espionage.Mission, error) {
	if err := g.live(); err != nil {
		return nil, err
	}
	m, err := g.Espionage.StartMission(spyID, op, target, g.Player.Bonus(player.Espionage), g.female(), g.Resources())
	if err != nil {
		return nil, err
	}
	g.announce(Info, fmt.Sprintf("Casus görevi başladı: %s (%d tur, başarı %%%d)",
		target, m.TurnsRemaining, int(m.SuccessChance*100)))
	return m, nil
}

// RescueSpy attempts to free a captured agent.
func (g *Game) RescueSpy(spyID string) (bool, error) {
	if err := g.live(); err != nil {
		return false, err
	}
	ok, err := g.Espionage.Rescue(spyID, g.Resources(), g.rng)
	if err != nil {
		return false, err
	}
	if ok {
		g.announce(Info, "Casus kurtarıldı")
	} else {
		g.announce(Warning, "Kurtarma girişimi başarısız")
	}
	return ok, nil
}

// AppointUlema adds a scholar of the given rank.
func (g *Game) AppointUlema(rank religion.Rank) (*religion.Ulema, error) {
	if err := g.live(); err != nil {
		return nil, err
	}
	u, err := g.Religion.Appoint(rank, g.Resources(), g.rng)
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("%s atandı", u.Name)
	g.announce(Info, msg)
	g.record(msg, history.General)
	return u, nil
}

// EndowVakif founds a charitable foundation.
func (g *Game) EndowVakif(t religion.VakifType, name string) (*religion.Vakif, error) {
	if err := g.live(); err != nil {
		return nil, err
	}
	v, err := g.Religion.Endow(t, g.Population.Total(), name, g.Resources())
	if err != nil {
		return nil, err
	}
	msg := v.Name + " vakfı kuruldu"
	g.announce(Info, msg)
	g.record(msg, history.General)
	return v, nil
}

// RestoreVakif repairs a foundation and returns the gold spent.
func (g *Game) RestoreVakif(id string) (int, error) {
	if err := g.live(); err != nil {
		return 0, err
	}
	return g.Religion.Restore(id, g.Resources())
}

// IssueFatwa asks the şeyhülislam for a ruling and routes its effects.
func (g *Game) IssueFatwa(topic string) error {
	if err := g.live(); err != nil {
		return err
	}
	b, err := g.Religion.IssueFatwa(topic, g.Resources())
	if err != nil {
		return err
	}
	g.apply(b, "fatwa:"+topic)
	if topic == religion.FatwaKizilbas {
		g.bump(achievements.RebellionsCrush, 1)
	}
	msg := "Fetva verildi: " + topic
	g.announce(Info, msg)
	g.record(msg, history.General)
	return nil
}
