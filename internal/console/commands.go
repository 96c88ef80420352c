package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/eyalet/internal/artillery"
	"github.com/talgya/eyalet/internal/construction"
	"github.com/talgya/eyalet/internal/diplomacy"
	"github.com/talgya/eyalet/internal/economy"
	"github.com/talgya/eyalet/internal/engine"
	"github.com/talgya/eyalet/internal/espionage"
	"github.com/talgya/eyalet/internal/military"
	"github.com/talgya/eyalet/internal/naval"
	"github.com/talgya/eyalet/internal/population"
	"github.com/talgya/eyalet/internal/religion"
	"github.com/talgya/eyalet/internal/trade"
	"github.com/talgya/eyalet/internal/warfare"
	"github.com/talgya/eyalet/internal/workers"
)

// MaxTurnsPerCommand bounds "tur N".
const MaxTurnsPerCommand = 30

// DefaultRegistry returns the full command set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range []Command{
		{Name: "yardim", Aliases: []string{"?", "help", "komutlar"}, Usage: "yardım", Help: "komutları listeler", Run: cmdHelp},
		{Name: "durum", Aliases: []string{"ozet", "status"}, Usage: "durum", Help: "eyaletin özetini gösterir", Run: cmdStatus},
		{Name: "tur", Aliases: []string{"ilerle", "next"}, Usage: "tur [sayı]", Help: "günü bitirir", Run: cmdTurn},
		{Name: "vergi", Usage: "vergi <yüzde>", Help: "vergi oranını ayarlar (5-40)", MinArgs: 1, Run: cmdTax},
		{Name: "tahrir", Usage: "tahrir", Help: "yeni tahrir sayımı yaptırır", Run: cmdSurvey},
		{Name: "goc", Usage: "göç <açık|dengeli|kapalı>", Help: "göç politikasını belirler", MinArgs: 1, Run: cmdMigration},
		{Name: "insa", Aliases: []string{"yap", "build"}, Usage: "inşa <bina>", Help: "bina inşa eder", MinArgs: 1, Run: cmdBuild},
		{Name: "yukselt", Usage: "yükselt <bina>", Help: "binayı bir seviye yükseltir", MinArgs: 1, Run: cmdUpgrade},
		{Name: "yik", Usage: "yık <bina>", Help: "binayı yıkar", MinArgs: 1, Run: cmdDemolish},
		{Name: "isci", Usage: "işçi <tür>", Help: "işçi tutar", MinArgs: 1, Run: cmdHire},
		{Name: "gorev", Usage: "görev <no> <iş>", Help: "işçiye görev verir", MinArgs: 2, Run: cmdAssign},
		{Name: "asker", Aliases: []string{"topla"}, Usage: "asker <birlik> <sayı>", Help: "asker toplar", MinArgs: 2, Run: cmdRecruit},
		{Name: "top", Usage: "top <tür> [tunç|demir]", Help: "top döktürür", MinArgs: 1, Run: cmdCannon},
		{Name: "gemi", Usage: "gemi <tür> <ad>", Help: "gemi inşa ettirir", MinArgs: 2, Run: cmdShip},
		{Name: "akin", Usage: "akın <kıyı|liman|donanma>", Help: "deniz akını düzenler", MinArgs: 1, Run: cmdRaid},
		{Name: "savas", Usage: "savaş <akın|kuşatma|sefer> <hedef>", Help: "komşuya savaş açar", MinArgs: 2, Run: cmdWar},
		{Name: "kervan", Usage: "kervan <yol> [muhafız]", Help: "kervan gönderir", MinArgs: 1, Run: cmdCaravan},
		{Name: "yol", Usage: "yol <yol>", Help: "ticaret yolunu açar", MinArgs: 1, Run: cmdRoute},
		{Name: "al", Usage: "al <mal> <miktar>", Help: "pazardan mal alır", MinArgs: 2, Run: cmdBuy},
		{Name: "sat", Usage: "sat <mal> <miktar>", Help: "pazara mal satar", MinArgs: 2, Run: cmdSell},
		{Name: "harac", Usage: "haraç <altın>", Help: "padişaha haraç gönderir", MinArgs: 1, Run: cmdTribute},
		{Name: "elci", Usage: "elçi <komşu>", Help: "komşuya elçi gönderir", MinArgs: 1, Run: cmdEnvoy},
		{Name: "muzakere", Usage: "müzakere <evlilik|vassal|barış> <komşu>", Help: "müzakere başlatır", MinArgs: 2, Run: cmdNegotiate},
		{Name: "ferman", Usage: "ferman [no]", Help: "padişah fermanlarını listeler ya da yerine getirir", Run: cmdMission},
		{Name: "casus", Usage: "casus <tür>", Help: "casus devşirir", MinArgs: 1, Run: cmdSpy},
		{Name: "ulema", Usage: "ulema <rütbe>", Help: "alim atar", MinArgs: 1, Run: cmdUlema},
		{Name: "vakif", Usage: "vakıf <tür> [ad]", Help: "vakıf kurar", MinArgs: 1, Run: cmdVakif},
		{Name: "fetva", Usage: "fetva <konu>", Help: "şeyhülislamdan fetva ister", MinArgs: 1, Run: cmdFatwa},
		{Name: "secim", Aliases: []string{"karar"}, Usage: "seçim <no>", Help: "bekleyen olaya cevap verir", MinArgs: 1, Run: cmdChoice},
		{Name: "olay", Usage: "olay", Help: "bekleyen olayı gösterir", Run: cmdEvent},
		{Name: "divan", Usage: "divan", Help: "divan raporlarını okur", Run: cmdDivan},
		{Name: "tarih", Aliases: []string{"kronik"}, Usage: "tarih [kategori]", Help: "tarih kaydını gösterir", Run: cmdHistory},
		{Name: "kaydet", Aliases: []string{"save"}, Usage: "kaydet [yuva]", Help: "oyunu kaydeder", Run: cmdSave},
		{Name: "yukle", Aliases: []string{"load"}, Usage: "yükle <yuva>", Help: "kayıtlı oyunu yükler", MinArgs: 1, Run: cmdLoad},
		{Name: "yuvalar", Usage: "yuvalar", Help: "kayıt yuvalarını listeler", Run: cmdSlots},
	} {
		r.Register(c)
	}
	return r
}

func names[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

// pick matches arg against the keys of a catalog, also accepting the
// display names produced by label.
func pick[T ~string](arg string, vals []T, label func(T) string) (T, error) {
	cands := names(vals)
	byName := make(map[string]T, 2*len(vals))
	for _, v := range vals {
		byName[string(v)] = v
		if label != nil {
			l := label(v)
			cands = append(cands, l)
			byName[l] = v
		}
	}
	var found []string
	seen := make(map[T]bool)
	for _, h := range closest(arg, cands) {
		if v := byName[h]; !seen[v] {
			seen[v] = true
			found = append(found, string(v))
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrUsage, arg)
	case 1:
		return T(found[0]), nil
	default:
		return "", fmt.Errorf("%w: %s (%s)", ErrAmbiguous, arg, strings.Join(found, ", "))
	}
}

func number(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(arg, "%"))
	if err != nil {
		return 0, fmt.Errorf("%w: sayı bekleniyordu: %s", ErrUsage, arg)
	}
	return n, nil
}

func neighbor(g *engine.Game, args []string) (string, error) {
	return Match(strings.Join(args, " "), g.Diplomacy.NeighborNames())
}

func cmdHelp(s *Session, _ []string) (string, error) {
	var b strings.Builder
	for _, c := range s.registry.Commands() {
		fmt.Fprintf(&b, "%-40s %s\n", c.Usage, c.Help)
	}
	return b.String(), nil
}

func cmdStatus(s *Session, _ []string) (string, error) {
	st := s.game.Status()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.game.Summary())
	fmt.Fprintf(&b, "Tur %d, %s. Net gelir %s, vergi %%%d, asker %s, moral %d, lütuf %d.\n",
		st.Turn, st.Season, humanize.Comma(int64(st.NetIncome)), st.TaxRate,
		humanize.Comma(int64(st.Soldiers)), st.Morale, st.Favor)
	if st.Pending != "" {
		fmt.Fprintf(&b, "Bekleyen olay: %s\n", st.Pending)
	}
	if st.GameOver {
		fmt.Fprintf(&b, "OYUN BİTTİ: %s\n", st.Reason)
	}
	return b.String(), nil
}

func cmdTurn(s *Session, args []string) (string, error) {
	n := 1
	if len(args) > 0 {
		v, err := number(args[0])
		if err != nil {
			return "", err
		}
		n = min(max(v, 1), MaxTurnsPerCommand)
	}
	var b strings.Builder
	for _, r := range s.advance(n) {
		fmt.Fprintf(&b, "== %s (tur %d) ==\n", r.Date, r.Turn)
		for _, a := range r.Announcements {
			writeAnnouncement(&b, a)
		}
		if r.Event != nil {
			fmt.Fprintf(&b, "Olay: %s, karar bekliyor (olay)\n", r.Event.Title)
		}
		if r.GameOver {
			fmt.Fprintf(&b, "OYUN BİTTİ: %s\n", r.GameOverReason)
		}
	}
	return b.String(), nil
}

func cmdTax(s *Session, args []string) (string, error) {
	n, err := number(args[0])
	if err != nil {
		return "", err
	}
	if err := s.game.SetTaxRate(float64(n) / 100); err != nil {
		return "", err
	}
	return fmt.Sprintf("Vergi oranı %%%d", n), nil
}

func cmdSurvey(s *Session, _ []string) (string, error) {
	return "", s.game.OrderSurvey()
}

var migrationWords = map[string]population.MigrationPolicy{
	"acik":    population.PolicyOpen,
	"dengeli": population.PolicyBalanced,
	"kapali":  population.PolicyClosed,
}

func cmdMigration(s *Session, args []string) (string, error) {
	keys := make([]string, 0, len(migrationWords))
	for k := range migrationWords {
		keys = append(keys, k)
	}
	hit, err := Match(args[0], keys)
	if err != nil {
		return "", err
	}
	return "", s.game.SetMigrationPolicy(migrationWords[hit])
}

func building(arg string) (construction.Type, error) {
	return pick(arg, construction.Types, construction.Type.Name)
}

func cmdBuild(s *Session, args []string) (string, error) {
	t, err := building(args[0])
	if err != nil {
		return "", err
	}
	turns, err := s.game.Build(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s inşaatı başladı (%d tur)", t.Name(), turns), nil
}

func cmdUpgrade(s *Session, args []string) (string, error) {
	t, err := building(args[0])
	if err != nil {
		return "", err
	}
	turns, err := s.game.Upgrade(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s yükseltmesi başladı (%d tur)", t.Name(), turns), nil
}

func cmdDemolish(s *Session, args []string) (string, error) {
	t, err := building(args[0])
	if err != nil {
		return "", err
	}
	return "", s.game.Demolish(t)
}

var workerTypes = []workers.Type{workers.Farmer, workers.Miner, workers.Lumberjack, workers.Craftsman, workers.Merchant, workers.Envoy}

var workerTasks = []workers.Task{workers.Idle, workers.Farming, workers.Mining, workers.Logging, workers.Construction, workers.Trading, workers.Diplomacy}

func cmdHire(s *Session, args []string) (string, error) {
	t, err := pick(args[0], workerTypes, nil)
	if err != nil {
		return "", err
	}
	w, err := s.game.HireWorker(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s işe alındı", w.Name), nil
}

func cmdAssign(s *Session, args []string) (string, error) {
	i, err := number(args[0])
	if err != nil {
		return "", err
	}
	task, err := pick(args[1], workerTasks, nil)
	if err != nil {
		return "", err
	}
	return "", s.game.AssignWorker(i-1, task)
}

func cmdRecruit(s *Session, args []string) (string, error) {
	u, err := pick(args[0], military.UnitTypes, military.UnitType.Name)
	if err != nil {
		return "", err
	}
	n, err := number(args[1])
	if err != nil {
		return "", err
	}
	got, err := s.game.Recruit(u, n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s toplandı", got, u.Name()), nil
}

var materialWords = map[string]artillery.Material{"tunc": artillery.Bronze, "demir": artillery.Iron}

func cmdCannon(s *Session, args []string) (string, error) {
	t, err := pick(args[0], artillery.Types, nil)
	if err != nil {
		return "", err
	}
	m := artillery.Bronze
	if len(args) > 1 {
		hit, err := Match(args[1], []string{"tunc", "demir"})
		if err != nil {
			return "", err
		}
		m = materialWords[hit]
	}
	name := ""
	if len(args) > 2 {
		name = strings.Join(args[2:], " ")
	}
	turns, err := s.game.ProduceCannon(t, m, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Top dökümü başladı (%d tur)", turns), nil
}

func cmdShip(s *Session, args []string) (string, error) {
	t, err := pick(args[0], naval.ShipTypes, nil)
	if err != nil {
		return "", err
	}
	turns, err := s.game.BuildShip(t, strings.Join(args[1:], " "))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Gemi tezgâha kondu (%d tur)", turns), nil
}

func cmdRaid(s *Session, args []string) (string, error) {
	tier, err := pick(args[0], []naval.RaidTier{naval.Kiyi, naval.Liman, naval.Donanma}, nil)
	if err != nil {
		return "", err
	}
	res, err := s.game.NavalRaid(tier)
	if err != nil {
		return "", err
	}
	if !res.Success {
		return "Akın püskürtüldü", nil
	}
	return fmt.Sprintf("Akın başarılı: %s altın ganimet", humanize.Comma(int64(res.Loot))), nil
}

var battleWords = map[string]warfare.BattleType{"akin": warfare.Raid, "kusatma": warfare.Siege, "sefer": warfare.Campaign}

func cmdWar(s *Session, args []string) (string, error) {
	hit, err := Match(args[0], []string{"akin", "kusatma", "sefer"})
	if err != nil {
		return "", err
	}
	target, err := neighbor(s.game, args[1:])
	if err != nil {
		return "", err
	}
	b, err := s.game.StartWar(battleWords[hit], target)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s üzerine yürüyüş başladı (%d tur)", target, b.TurnsRemaining), nil
}

func route(arg string) (string, error) {
	var ids []string
	for _, r := range trade.Routes() {
		ids = append(ids, r.ID)
	}
	return pick(arg, ids, func(id string) string {
		r, _ := trade.LookupRoute(id)
		return r.Name
	})
}

func cmdCaravan(s *Session, args []string) (string, error) {
	id, err := route(args[0])
	if err != nil {
		return "", err
	}
	escorts := 0
	if len(args) > 1 {
		if escorts, err = number(args[1]); err != nil {
			return "", err
		}
	}
	_, err = s.game.SendCaravan(id, escorts)
	return "", err
}

func cmdRoute(s *Session, args []string) (string, error) {
	id, err := route(args[0])
	if err != nil {
		return "", err
	}
	if err := s.game.ActivateRoute(id); err != nil {
		return "", err
	}
	return "Ticaret yolu açıldı: " + id, nil
}

func goodAndQty(args []string) (economy.Good, int, error) {
	g, err := pick(args[0], economy.Goods, nil)
	if err != nil {
		return "", 0, err
	}
	n, err := number(args[1])
	return g, n, err
}

func cmdBuy(s *Session, args []string) (string, error) {
	good, n, err := goodAndQty(args)
	if err != nil {
		return "", err
	}
	paid, err := s.game.Buy(good, n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s alındı, %s altın ödendi", n, good, humanize.Comma(int64(paid))), nil
}

func cmdSell(s *Session, args []string) (string, error) {
	good, n, err := goodAndQty(args)
	if err != nil {
		return "", err
	}
	got, err := s.game.Sell(good, n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s satıldı, %s altın alındı", n, good, humanize.Comma(int64(got))), nil
}

func cmdTribute(s *Session, args []string) (string, error) {
	n, err := number(args[0])
	if err != nil {
		return "", err
	}
	return "", s.game.SendTribute(n)
}

func cmdEnvoy(s *Session, args []string) (string, error) {
	target, err := neighbor(s.game, args)
	if err != nil {
		return "", err
	}
	_, err = s.game.SendEnvoy(target)
	return "", err
}

var chainWords = map[string]string{"evlilik": diplomacy.ChainMarriage, "vassal": diplomacy.ChainVassal, "baris": diplomacy.ChainPeace}

func cmdNegotiate(s *Session, args []string) (string, error) {
	hit, err := Match(args[0], []string{"evlilik", "vassal", "baris"})
	if err != nil {
		return "", err
	}
	target, err := neighbor(s.game, args[1:])
	if err != nil {
		return "", err
	}
	_, err = s.game.StartNegotiation(chainWords[hit], target)
	return "", err
}

func cmdMission(s *Session, args []string) (string, error) {
	if len(args) == 0 {
		var b strings.Builder
		for _, m := range s.game.Diplomacy.Missions {
			fmt.Fprintf(&b, "%d. %s (%d tur kaldı)\n", m.ID, m.Title, m.TurnsRemaining)
		}
		if b.Len() == 0 {
			return "Bekleyen ferman yok", nil
		}
		return b.String(), nil
	}
	id, err := number(args[0])
	if err != nil {
		return "", err
	}
	_, err = s.game.FulfillMission(id)
	return "", err
}

func cmdSpy(s *Session, args []string) (string, error) {
	t, err := pick(args[0], espionage.SpyTypes, nil)
	if err != nil {
		return "", err
	}
	_, err = s.game.RecruitSpy(t)
	return "", err
}

var ranks = []religion.Rank{religion.Seyhulislam, religion.Kadiasker, religion.Kadi, religion.Muderris, religion.Muftu, religion.Imam}

func cmdUlema(s *Session, args []string) (string, error) {
	r, err := pick(args[0], ranks, nil)
	if err != nil {
		return "", err
	}
	_, err = s.game.AppointUlema(r)
	return "", err
}

func cmdVakif(s *Session, args []string) (string, error) {
	t, err := pick(args[0], religion.VakifTypes, nil)
	if err != nil {
		return "", err
	}
	_, err = s.game.EndowVakif(t, strings.Join(args[1:], " "))
	return "", err
}

func cmdFatwa(s *Session, args []string) (string, error) {
	topic, err := Match(args[0], religion.FatwaTopics())
	if err != nil {
		return "", err
	}
	return "", s.game.IssueFatwa(topic)
}

func cmdEvent(s *Session, _ []string) (string, error) {
	p, ok := s.game.PendingEvent()
	if !ok {
		return "Bekleyen olay yok", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", p.Title, p.Description)
	for i, c := range p.Choices {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Text)
	}
	return b.String(), nil
}

func cmdChoice(s *Session, args []string) (string, error) {
	n, err := number(args[0])
	if err != nil {
		return "", err
	}
	return "", s.game.ResolveChoice(n - 1)
}

func cmdDivan(s *Session, _ []string) (string, error) {
	reports := s.game.Divan.Latest()
	if len(reports) == 0 {
		return "Divanda yeni rapor yok", nil
	}
	var b strings.Builder
	for _, r := range reports {
		fmt.Fprintf(&b, "[%s] %s: %s (%s)\n", r.Severity, r.AdvisorName, r.Message, r.Recommendation)
	}
	s.game.Divan.MarkAllRead()
	return b.String(), nil
}

func cmdHistory(s *Session, args []string) (string, error) {
	category := ""
	if len(args) > 0 {
		category = args[0]
	}
	entries := s.game.History.Filter(category)
	if len(entries) > 20 {
		entries = entries[len(entries)-20:]
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%d (tur %d) %s\n", e.Year, e.Turn, e.Message)
	}
	return b.String(), nil
}

func cmdSave(s *Session, args []string) (string, error) {
	slot := max(s.game.Slot, 1)
	if len(args) > 0 {
		n, err := number(args[0])
		if err != nil {
			return "", err
		}
		slot = n
	}
	if err := s.save(slot); err != nil {
		return "", err
	}
	return fmt.Sprintf("Oyun %d. yuvaya kaydedildi", slot), nil
}

func cmdLoad(s *Session, args []string) (string, error) {
	slot, err := number(args[0])
	if err != nil {
		return "", err
	}
	if err := s.load(slot); err != nil {
		return "", err
	}
	return s.game.Summary(), nil
}

func cmdSlots(s *Session, _ []string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("kayıt deposu yok")
	}
	list, err := s.store.List()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, info := range list {
		if !info.Exists {
			fmt.Fprintf(&b, "%d. boş\n", info.Slot)
			continue
		}
		fmt.Fprintf(&b, "%d. %s, %d, tur %d (%s, v%s)\n", info.Slot, info.Province, info.Year, info.Turn,
			humanize.Time(info.Modified), info.Version)
	}
	return b.String(), nil
}
