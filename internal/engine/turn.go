package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/talgya/eyalet/internal/achievements"
	"github.com/talgya/eyalet/internal/construction"
	"github.com/talgya/eyalet/internal/diplomacy"
	"github.com/talgya/eyalet/internal/divan"
	"github.com/talgya/eyalet/internal/economy"
	"github.com/talgya/eyalet/internal/events"
	"github.com/talgya/eyalet/internal/history"
	"github.com/talgya/eyalet/internal/ledger"
	"github.com/talgya/eyalet/internal/military"
	"github.com/talgya/eyalet/internal/naval"
	"github.com/talgya/eyalet/internal/player"
	"github.com/talgya/eyalet/internal/population"
	"github.com/talgya/eyalet/internal/religion"
	"github.com/talgya/eyalet/internal/warfare"
)

// Loss reasons.
const (
	ReasonTraitor  = "Padişah sizi hain ilan etti ve idam ettirdi!"
	ReasonRevolt   = "Halk isyanı kontrol altına alınamadı. Eyalet kaybedildi!"
	ReasonBankrupt = "Hazine iflas etti. Görevden alındınız!"
)

// BankruptcyLimit is the gold level below which the governor is dismissed.
const BankruptcyLimit = -5000

// enemyAttackChance is the per-turn chance that one hostile neighbor attacks.
const enemyAttackChance = 0.01

// TurnReport is everything one AdvanceTurn produced.
type TurnReport struct {
	Turn             int                        `json:"turn"`
	Date             Date                       `json:"date"`
	Season           string                     `json:"season"`
	Announcements    []Announcement             `json:"announcements"`
	Event            *PendingEvent              `json:"event,omitempty"`
	NetIncome        int                        `json:"net_income"`
	PopulationChange int                        `json:"population_change"`
	Loan             int                        `json:"loan,omitempty"`
	Unlocked         []achievements.Achievement `json:"-"`
	GameOver         bool                       `json:"game_over"`
	GameOverReason   string                     `json:"game_over_reason,omitempty"`
}

// turn carries the values that flow between steps of one AdvanceTurn.
type turn struct {
	g        *Game
	report   TurnReport
	season   Season
	counters map[string]int
}

func (t *turn) say(sev Severity, msg string) {
	t.report.Announcements = append(t.report.Announcements, Announcement{Severity: sev, Message: msg})
}

func (t *turn) sayf(sev Severity, format string, args ...any) {
	t.say(sev, fmt.Sprintf(format, args...))
}

func (t *turn) count(name string, n int) {
	if n > 0 {
		t.counters[name] += n
	}
}

// AdvanceTurn runs the whole pipeline for one day. It never fails; a game
// that is already over is left untouched.
func (g *Game) AdvanceTurn() TurnReport {
	if g.GameOver {
		return TurnReport{Turn: g.Turn, Date: g.Date, GameOver: true, GameOverReason: g.GameOverReason}
	}
	t := &turn{g: g, counters: make(map[string]int)}
	g.applyDeferred()
	t.report.Announcements = g.Drain()

	t.calendar()
	t.season = SeasonOf(g.Date.Month)
	buildings, units := t.maintenance()
	t.tradeModifier()
	t.economy(buildings, units)
	t.production()
	t.population()
	t.construction()
	t.workers()
	t.military()
	t.armouries()
	t.diplomacy()
	t.warfare()
	t.trade()
	t.espionage()
	t.religion()
	t.character()
	t.events()
	t.evaluate()
	t.checkLoss()
	t.checkVictory()
	t.summary()
	t.autoSave()

	t.report.Turn = g.Turn
	t.report.Date = g.Date
	t.report.Season = t.season.String()
	t.report.GameOver = g.GameOver
	t.report.GameOverReason = g.GameOverReason
	slog.Debug("turn advanced",
		"turn", g.Turn,
		"date", g.Date.String(),
		"gold", g.Resources().Get(ledger.Gold),
		"population", g.Population.Total(),
		"announcements", len(t.report.Announcements),
	)
	return t.report
}

// Step 1.
func (t *turn) calendar() {
	g := t.g
	g.Turn++
	newMonth, newYear := g.Date.advance()
	switch {
	case newYear:
		g.Events.ResetYear()
		msg := fmt.Sprintf("Yeni Yıl: %d", g.Date.Year)
		t.say(Info, msg)
		g.record(msg, history.General)
	case newMonth:
		t.sayf(Info, "%s ayı başladı", MonthName(g.Date.Month))
	}
}

// Step 3. Spy upkeep is paid with the troops.
func (t *turn) maintenance() (buildings, units int) {
	g := t.g
	buildings = g.Construction.Maintenance()
	units = g.Military.Maintenance() + g.Artillery.Maintenance() + g.Espionage.Maintenance()
	if g.Province.Coastal {
		units += g.Naval.Maintenance()
	}
	return buildings, units
}

// Step 4.
func (t *turn) tradeModifier() {
	g := t.g
	mod := (1 + float64(g.Construction.TradeBonus())/500) * t.season.TradeMod()
	if b := g.Player.Bonus(player.TextileTrade); b > 0 {
		mod *= 1 + b
	}
	mod *= 1 + g.Economy.TradeBoost
	mod += g.Workers.CurrentBonuses().Trade
	g.Economy.TradeModifier = math.Max(0, mod)
}

// Step 5.
func (t *turn) economy(buildings, units int) {
	g := t.g
	g.Economy.Market.Update(g.Turn, t.season.MarketHint())
	s := g.Economy.ProcessTurn(economy.TurnInput{
		Turn:                g.Turn,
		Population:          g.Population.Total(),
		UnitMaintenance:     units,
		BuildingMaintenance: buildings,
		Tribute:             g.Diplomacy.TributeDue(),
	})
	t.report.NetIncome = s.Net
	t.report.Loan = s.Loan
	t.count(achievements.GoldEarned, s.Net)
	if s.Loan > 0 {
		t.sayf(Warning, "Hazine boşaldı! Acil borç alındı: %s altın", humanize.Comma(int64(s.Loan)))
		g.record("Hazine için acil borç alındı.", history.Economic)
	}
	if g.Economy.Tahrir.Accuracy == 59 && g.Turn%6 == 0 {
		t.say(Warning, "Tahrir defterleri eskidi, vergi kayıtları güvenilmez hale geliyor.")
	}
}

// Step 6.
func (t *turn) production() {
	g := t.g
	p := g.Construction.Production()
	p[ledger.Food] = int(float64(p[ledger.Food])*t.season.FoodMod()) + int(float64(g.Population.Groups.Farmers)*0.1)
	g.Resources().Add(p)
}

// Step 7.
func (t *turn) population() {
	g := t.g
	c := g.Construction
	extra := c.HappinessBonus() - c.EffectOf(construction.Mosque, construction.Happiness) - c.EffectOf(construction.Hospital, construction.Happiness)
	g.Population.SetModifier("buildings", min(15, extra/2))
	g.Population.SetModifier("war_weariness", -g.Warfare.WarWeariness/10)

	res := g.Population.ProcessTurn(population.TurnInput{
		Food:             g.Resources().Get(ledger.Food),
		TaxRate:          g.Economy.TaxRate,
		HasMosque:        c.Has(construction.Mosque),
		HasHospital:      c.Has(construction.Hospital),
		MilitaryPower:    g.Military.TotalPower(military.General),
		Capacity:         c.PopulationCapacity(),
		GrowthBonus:      c.GrowthBonus(),
		GrowthMultiplier: 1 + g.Player.Bonus(player.PopulationGrowth),
	})
	g.Resources().AddOne(ledger.Food, -res.Consumption)
	t.report.PopulationChange = res.Change

	if g.Turn%5 == 0 {
		if m := g.Player.Malus(player.BeyLoyalty); m < 0 {
			g.Population.AdjustHappiness(-int(math.Abs(m) * 10))
		}
		if m := g.Player.Malus(player.UlemaSupport); m < 0 {
			g.Diplomacy.AdjustLoyalty(-int(math.Abs(m) * 10))
		}
	}
	g.Workers.UpdateCapacity(g.Population.Total())

	if res.Shortage {
		t.say(Urgent, "Kıtlık! Zahire ambarları boş, halk açlık çekiyor.")
	}
	if res.RevoltBegan {
		t.say(Urgent, "Halk ayaklandı! Huzursuzluk kontrolden çıktı.")
		g.record("Eyalette halk isyanı başladı.", history.General)
	}
	if res.RevoltEnded {
		t.say(Info, "İsyan yatıştı, düzen yeniden sağlandı.")
		t.count(achievements.RebellionsCrush, 1)
		g.record("Halk isyanı sona erdi.", history.General)
	}
	if res.CapacityHit && g.Turn%10 == 0 {
		t.say(Warning, "Nüfus barınma sınırına ulaştı. Yeni binalar gerekli.")
	}
}

// Step 8.
func (t *turn) construction() {
	g := t.g
	for _, done := range g.Construction.ProcessTurn() {
		var msg string
		if done.Upgrade {
			msg = fmt.Sprintf("%s seviye %d oldu", done.Type.Name(), done.Level)
		} else {
			msg = fmt.Sprintf("%s inşaatı tamamlandı", done.Type.Name())
			t.count(achievements.BuildingsBuilt, 1)
		}
		t.say(Info, msg)
		g.record(msg, history.Construction)
	}
	g.Military.UpdateTimars(g.Construction.Level(construction.Fortress))
	if n := g.Military.ReleaseExcess(); n > 0 {
		t.sayf(Warning, "%d tımarlı sipahi tımarsız kalıp terhis edildi", n)
	}
	g.Artillery.UpdateFoundry(g.Construction.Level(construction.ArtilleryFoundry))
}

// Step 9.
func (t *turn) workers() {
	g := t.g
	res := g.Workers.ProcessTurn()
	g.Resources().Add(res.Production)
	for _, name := range res.Promoted {
		t.sayf(Info, "%s ustalığa yükseldi", name)
	}
}

// Step 10.
func (t *turn) military() {
	g := t.g
	g.Military.AtWar = g.Warfare.AtWar()
	for _, done := range g.Military.ProcessTurn() {
		t.sayf(Info, "%d %s eğitimini tamamladı", done.Count, done.Unit.Name())
	}
	if g.Player.Bonus(player.JanissaryLoyalty) > 0 && g.Turn%3 == 0 {
		g.Military.AdjustMorale(1)
	}
}

// Step 11.
func (t *turn) armouries() {
	g := t.g
	cast := g.Artillery.ProcessProduction()
	for _, c := range cast {
		t.sayf(Info, "%s topu döküldü", c.Name)
	}
	t.count(achievements.CannonsProduced, len(cast))

	if !g.Province.Coastal {
		return
	}
	launched, repaired := g.Naval.ProcessConstruction(naval.SpawnBonus{
		Health:     g.Construction.Total(construction.ShipHealth),
		Experience: g.Construction.Total(construction.ShipExperience),
	})
	for _, s := range launched {
		msg := fmt.Sprintf("%s denize indirildi", s.Name)
		t.say(Info, msg)
		g.record(msg, history.Military)
	}
	for _, s := range repaired {
		t.sayf(Info, "%s onarıldı", s.Name)
	}
	t.count(achievements.ShipsBuilt, len(launched))
}

// Step 12.
func (t *turn) diplomacy() {
	g := t.g
	res := g.Diplomacy.ProcessTurn(diplomacy.TurnInput{
		Rand:          g.rng,
		MilitaryPower: g.Military.TotalPower(military.General),
		MarriageBonus: g.Player.Bonus(player.MarriageAlliance),
	})
	for _, m := range res.FailedMissions {
		msg := fmt.Sprintf("Görev başarısız: %s", m.Title)
		t.say(Warning, msg)
		g.record(msg, history.Diplomatic)
	}
	if m := res.NewMission; m != nil {
		t.sayf(Urgent, "Padişahtan ferman: %s. %s", m.Title, m.Description)
	}
	for _, d := range res.NewDemands {
		t.sayf(Warning, "%s haraç istiyor: %s altın", d.From, humanize.Comma(int64(d.Amount)))
	}
	for _, d := range res.IgnoredDemands {
		t.sayf(Warning, "%s talebinin karşılanmamasına öfkelendi", d.From)
	}
	for _, c := range res.Chains {
		t.sayf(Info, "%s (%s): %s", c.Chain.Title(), c.Chain.Target, c.Outcome)
		if !c.Completed {
			continue
		}
		g.record(fmt.Sprintf("%s - %s: %s", c.Chain.Title(), c.Chain.Target, c.Outcome), history.Diplomatic)
		if c.Success && c.Chain.Type == diplomacy.ChainMarriage {
			t.count(achievements.AlliancesFormed, 1)
		}
		if c.Success && c.Chain.Type == diplomacy.ChainPeace {
			g.Warfare.SignPeace(c.Chain.Target, 24)
		}
	}
	for _, w := range res.Warnings {
		t.say(Warning, w)
	}
}

// Step 13.
func (t *turn) warfare() {
	g := t.g
	t.enemyAttack()

	siege := g.Artillery.SiegeBonus(g.Military.Units[military.Topcu], g.Military.Units[military.Cebeci])
	if b := g.Player.Bonus(player.SiegeAttack); b > 0 {
		siege = int(float64(siege) * (1 + b))
	}
	if c := g.Military.CommanderFor(military.RoleSiege); c != nil && c.Trait == military.SiegeMaster {
		siege = int(float64(siege) * 1.2)
	}
	attack := 0.0
	if c := g.Military.CommanderFor(military.RoleField); c != nil {
		switch c.Trait {
		case military.Strategist:
			attack = 0.10
		case military.CavalryMaster:
			attack = 0.15
		}
	}
	navalPower := 0
	if g.Province.Coastal {
		navalPower = g.Naval.FleetPower()
	}

	res := g.Warfare.ProcessTurn(warfare.TurnInput{
		Turn:        g.Turn,
		SiegeBonus:  siege,
		NavalPower:  navalPower,
		AttackBonus: attack,
		RaidBonus:   g.Player.Bonus(player.RaidPower),
		Rand:        g.rng,
	})
	for _, b := range res.Engaged {
		t.sayf(Warning, "%s: ordumuz %s önlerine ulaştı, çarpışma başladı", b.Type.Name(), b.Target)
	}
	for _, r := range res.Results {
		t.battleResult(r)
	}
	g.Military.AtWar = g.Warfare.AtWar()
}

func (t *turn) enemyAttack() {
	g := t.g
	if g.Turn < warfare.ProtectionTurns || len(g.Warfare.Battles) >= warfare.MaxBattles {
		return
	}
	hostile := g.Diplomacy.Hostile()
	if len(hostile) == 0 || !g.rng.Chance(enemyAttackChance*float64(len(hostile))) {
		return
	}
	attacker := hostile[g.rng.IntN(len(hostile))].Target
	if g.Warfare.PeaceTreaties[attacker] > 0 {
		return
	}
	b := g.Warfare.EnemyAttack(attacker, warfare.Force{
		Soldiers:   g.Military.TotalSoldiers(),
		Morale:     g.Military.Morale,
		Experience: g.Military.Experience,
	}, g.Turn, g.rng)
	if b != nil {
		msg := fmt.Sprintf("%s eyalete saldırdı!", attacker)
		t.say(Urgent, msg)
		g.record(msg, history.Military)
	}
}

func (t *turn) battleResult(r warfare.Result) {
	g := t.g
	b := r.Battle
	g.Military.ApplyCasualties(r.Casualties)
	g.Military.TotalLosses += r.Casualties
	g.Military.AdjustMorale(r.Morale)
	g.Military.AddExperience(r.Experience)

	loyalty := r.Loyalty
	if r.Victory && loyalty > 0 {
		if bonus := g.Player.Bonus(player.MilitaryPrestige); bonus > 0 {
			loyalty = int(float64(loyalty) * (1 + bonus))
		}
	}
	g.Diplomacy.AdjustLoyalty(loyalty)
	g.Resources().Add(ledger.Amounts{ledger.Gold: r.LootGold, ledger.Food: r.LootFood})

	if r.Victory {
		g.Military.TotalVictories++
		t.count(achievements.BattlesWon, 1)
		switch b.Type {
		case warfare.Raid:
			t.count(achievements.RaidsCompleted, 1)
		case warfare.Defense:
			t.count(achievements.DefenseWins, 1)
		}
		g.Diplomacy.AdjustRelation(b.Target, -10)
	}
	if b.PlayerAttacker && (b.Type == warfare.Siege || b.Type == warfare.Campaign) {
		for _, s := range g.Artillery.Volley(g.rng, g.Resources()) {
			if s.Burst {
				t.sayf(Warning, "%s topu ateşlenirken patladı!", s.Cannon)
			}
		}
	}

	verdict := "YENİLGİ"
	sev := Warning
	if r.Victory {
		verdict, sev = "ZAFER", Info
	}
	msg := fmt.Sprintf("SAVAŞ SONUCU: %s! %s. Yağma: %s altın.", verdict, b.Target, humanize.Comma(int64(r.LootGold)))
	t.say(sev, msg)
	g.record(msg, history.Military)
}

// Step 14.
func (t *turn) trade() {
	g := t.g
	g.Trade.UpdatePort(g.Construction.Has(construction.Shipyard), g.Construction.Level(construction.Shipyard))
	res := g.Trade.ProcessTurn(g.rng)
	// Loyal millet merchants add to what the caravans bring home.
	g.Resources().AddOne(ledger.Gold, res.Income+int(float64(res.Income)*g.Religion.TradeBonus()))
	for _, a := range res.Completed {
		t.sayf(Info, "%s kervanı döndü: %s altın", a.Route.Name, humanize.Comma(int64(a.Income)))
	}
	for _, a := range res.Lost {
		msg := fmt.Sprintf("%s kervanı yolda kayboldu", a.Route.Name)
		t.say(Warning, msg)
		g.record(msg, history.Economic)
	}
}

// Step 15.
func (t *turn) espionage() {
	g := t.g
	res := g.Espionage.ProcessTurn(g.rng)
	for _, o := range res.Completed {
		name := string(o.Operation)
		if st, ok := o.Operation.Stats(); ok {
			name = st.Name
		}
		t.sayf(Info, "Casus görevi başarılı: %s (%s)", name, o.Target)
		g.apply(o.Effects, "espionage")
		t.count(achievements.SpyMissions, 1)
	}
	for _, o := range res.Failed {
		t.sayf(Warning, "Casus görevi başarısız: %s", o.Target)
	}
	for _, id := range res.Captured {
		msg := fmt.Sprintf("Casus yakalandı: %s", id)
		t.say(Urgent, msg)
		g.record(msg, history.Diplomatic)
	}
	if res.Detected != "" {
		t.sayf(Warning, "%s casusu sarayda yakalandı", res.Detected)
		g.Diplomacy.AdjustRelation(res.Detected, -5)
	}
}

// Step 16.
func (t *turn) religion() {
	g := t.g
	res := g.Religion.ProcessTurn(religion.TurnInput{Turn: g.Turn, Ledger: g.Resources(), Rand: g.rng})
	if res.Unpaid {
		t.say(Warning, "Ulema maaşları ödenemedi, meşruiyet sarsılıyor")
	}
	for _, w := range res.Warnings {
		t.say(Warning, w)
	}
	if g.Player.Bonus(player.VakifEffect) > 0 {
		if g.Turn%3 == 0 {
			g.Population.AdjustHappiness(1)
		}
		if g.Turn%10 == 0 {
			g.Diplomacy.AdjustLoyalty(1)
		}
	}
}

// Step 17.
func (t *turn) character() {
	g := t.g
	if g.Player.ProcessTurn() {
		msg := fmt.Sprintf("Yeni unvan: %s", g.Player.FullTitle())
		t.say(Info, msg)
		g.record(msg, history.General)
	}
}

// Step 18.
func (t *turn) events() {
	g := t.g
	if !g.opts.EventsEnabled {
		return
	}
	e := g.Events.Check(events.State{
		Year:           g.Date.Year,
		Turn:           g.Turn,
		Happiness:      g.Population.Happiness,
		Loyalty:        g.Diplomacy.SultanLoyalty,
		Gold:           g.Resources().Get(ledger.Gold),
		AtWar:          g.Warfare.AtWar(),
		Gender:         string(g.Player.Gender),
		ArmyPower:      g.Military.TotalPower(military.General),
		Coastal:        g.Province.Coastal,
		KizilbasThreat: g.Religion.KizilbasThreat,
	}, g.rng)
	if e == nil {
		return
	}
	g.record(fmt.Sprintf("OLAY: %s - %s", e.Title, e.Description), history.Event)
	p, _ := g.PendingEvent()
	t.say(eventSeverity(e.Severity), "OLAY: "+e.Title)
	if g.opts.Chooser == nil {
		t.report.Event = &p
		return
	}
	idx, ok := g.opts.Chooser.Choose(p)
	if !ok {
		t.report.Event = &p
		return
	}
	res, err := g.resolve(idx, true)
	if err != nil {
		slog.Warn("event choice rejected", "event", e.ID, "choice", idx, "error", err)
		t.report.Event = &p
		return
	}
	t.sayf(Info, "Karar: %s", res.Choice.Text)
	if !res.Finished {
		next, _ := g.PendingEvent()
		t.report.Event = &next
	}
}

func eventSeverity(s events.Severity) Severity {
	switch s {
	case events.Major, events.Critical:
		return Urgent
	case events.Moderate:
		return Warning
	}
	return Info
}

// Step 19: end-of-turn evaluators.
func (t *turn) evaluate() {
	g := t.g
	for _, r := range g.Divan.Analyze(g.divanSnapshot(t.report.NetIncome), g.rng) {
		if r.Severity == divan.Acil {
			t.sayf(Urgent, "%s: %s", r.AdvisorName, r.Message)
		}
	}

	tr := g.opts.Achievements
	if tr == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			slog.Error("achievement check failed", "panic", p)
		}
	}()
	for name, n := range t.counters {
		tr.Increment(name, n)
	}
	unlocked := tr.OnTurnEnd(g.achievementSnapshot())
	for _, a := range unlocked {
		t.say(Info, a.Announcement())
		g.record(a.Announcement(), history.General)
	}
	t.report.Unlocked = unlocked
	if len(unlocked) > 0 && g.opts.AchievementsPath != "" {
		if err := tr.Save(g.opts.AchievementsPath); err != nil {
			slog.Error("achievements save failed", "path", g.opts.AchievementsPath, "error", err)
		}
	}
}

// Step 20. The first condition met ends the game.
func (t *turn) checkLoss() {
	g := t.g
	switch {
	case g.Diplomacy.SultanLoyalty <= 0:
		g.GameOverReason = ReasonTraitor
	case g.Population.ActiveRevolt && g.Population.Unrest >= 100:
		g.GameOverReason = ReasonRevolt
	case g.Resources().Get(ledger.Gold) < BankruptcyLimit:
		g.GameOverReason = ReasonBankrupt
	default:
		return
	}
	g.GameOver = true
	t.say(Urgent, g.GameOverReason)
	g.record(g.GameOverReason, history.General)
	slog.Info("game over", "turn", g.Turn, "reason", g.GameOverReason)
}

func (t *turn) checkVictory() {
	g := t.g
	if g.Victory || g.GameOver {
		return
	}
	if reason, ok := g.victoryReason(); ok {
		g.Victory, g.VictoryReason = true, reason
		t.sayf(Urgent, "ZAFER! %s", reason)
		g.record("ZAFER: "+reason, history.General)
		slog.Info("victory", "turn", g.Turn, "reason", reason)
	}
}

func (t *turn) summary() {
	g := t.g
	if g.Turn%3 != 0 {
		return
	}
	net := t.report.NetIncome
	balance := fmt.Sprintf("Gelir fazlası: %s", humanize.Comma(int64(net)))
	if net < 0 {
		balance = fmt.Sprintf("Zarar: %s", humanize.Comma(int64(net)))
	}
	t.sayf(Info, "Yıl %d. Hazine: %s altın. %s", g.Date.Year, humanize.Comma(int64(g.Resources().Get(ledger.Gold))), balance)
}

// Step 21.
func (t *turn) autoSave() {
	g := t.g
	as := g.opts.AutoSave
	if !as.Enabled || g.opts.Saver == nil || g.GameOver || g.Turn%as.Interval != 0 {
		return
	}
	slot := g.Slot
	if slot == 0 {
		slot = 1
	}
	if err := g.opts.Saver.Save(slot, g.State()); err != nil {
		slog.Error("auto-save failed", "slot", slot, "turn", g.Turn, "error", err)
		return
	}
	g.Slot = slot
	slog.Debug("auto-saved", "slot", slot, "turn", g.Turn)
}
