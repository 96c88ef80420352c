// Package divan is the provincial council. Four advisors read the settled
// state at the end of each turn and file reports; a report keeps its
// resolve key so it disappears once its problem goes away.
package divan

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/talgya/eyalet/internal/entropy"
)

// MaxReports bounds the retained report history.
const MaxReports = 50

// Severity of a report.
type Severity string

const (
	Bilgi Severity = "bilgi"
	Uyari Severity = "uyari"
	Acil  Severity = "acil"
)

// Role of an advisor.
type Role string

const (
	Defterdar   Role = "defterdar"
	Kadi        Role = "kadi"
	Subasi      Role = "subasi"
	TahrirEmini Role = "tahrir_emini"
)

// Roles in council order.
var Roles = []Role{Defterdar, Kadi, Subasi, TahrirEmini}

var roleNames = map[Role]string{
	Defterdar:   "Defterdar",
	Kadi:        "Kadı",
	Subasi:      "Subaşı",
	TahrirEmini: "Tahrir Emini",
}

// Name is the Turkish office title.
func (r Role) Name() string { return roleNames[r] }

var firstNames = []string{
	"Mehmed", "Ahmed", "Mustafa", "Ali", "Süleyman", "İbrahim",
	"Mahmud", "Kasım", "Haydar", "Lütfi", "Hasan", "Hüseyin",
}

var suffixes = map[Role][]string{
	Defterdar:   {"Çelebi", "Efendi", "Paşa"},
	Kadi:        {"Efendi", "Molla"},
	Subasi:      {"Ağa", "Bey"},
	TahrirEmini: {"Efendi", "Çelebi"},
}

// Advisor is a council member.
type Advisor struct {
	Role    Role   `json:"role"`
	Name    string `json:"name"`
	Skill   int    `json:"skill"`
	Loyalty int    `json:"loyalty"`
}

// Report is one advisor's finding.
type Report struct {
	Severity       Severity `json:"severity"`
	Category       string   `json:"category"`
	Role           Role     `json:"role"`
	AdvisorName    string   `json:"advisor_name"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
	Turn           int      `json:"turn"`
	Read           bool     `json:"read"`
	ResolveKey     string   `json:"resolve_key,omitempty"`
}

// Snapshot is the settled state the council reads.
type Snapshot struct {
	Turn      int
	Gold      int
	NetIncome int
	Inflation float64

	Happiness     int
	Unrest        int
	MilletLoyalty map[string]int // by display name

	Soldiers         int
	Morale           int
	HostileNeighbors int

	TahrirAccuracy  int
	Food            int
	FoodConsumption int
	Population      int
	Health          int
}

// Divan is the persisted council.
type Divan struct {
	Advisors     map[Role]*Advisor `json:"advisors"`
	Reports      []*Report         `json:"reports"`
	LastAnalysis int               `json:"last_analysis_turn"`
}

// New seats four advisors drawn from rng.
func New(rng entropy.Rand) *Divan {
	d := &Divan{Advisors: make(map[Role]*Advisor), LastAnalysis: -1}
	for _, r := range Roles {
		d.Advisors[r] = newAdvisor(r, rng)
	}
	return d
}

func newAdvisor(r Role, rng entropy.Rand) *Advisor {
	sfx := suffixes[r]
	return &Advisor{
		Role:    r,
		Name:    firstNames[rng.IntN(len(firstNames))] + " " + sfx[rng.IntN(len(sfx))],
		Skill:   rng.Range(5, 8),
		Loyalty: rng.Range(65, 85),
	}
}

type filing struct {
	advisor *Advisor
	rng     entropy.Rand
	turn    int
	out     []*Report
}

// file adds a report. Warnings pass the advisor's skill check and may be
// downgraded by a disloyal advisor; information is always filed.
func (f *filing) file(sev Severity, category, msg, rec, key string) {
	r := &Report{
		Severity:       sev,
		Category:       category,
		Role:           f.advisor.Role,
		AdvisorName:    f.advisor.Name,
		Message:        msg,
		Recommendation: rec,
		Turn:           f.turn,
		ResolveKey:     key,
	}
	if sev != Bilgi {
		if !f.rng.Chance(0.4 + float64(f.advisor.Skill)*0.06) {
			return
		}
		f.tamper(r)
	}
	f.out = append(f.out, r)
}

func (f *filing) tamper(r *Report) {
	if f.advisor.Loyalty >= 60 {
		return
	}
	if !f.rng.Chance(float64(60-f.advisor.Loyalty) / 100) {
		return
	}
	switch r.Severity {
	case Acil:
		r.Severity = Uyari
		r.Recommendation += " (Bu danışmanın sadakati düşük, rapor güvenilir olmayabilir.)"
	case Uyari:
		r.Severity = Bilgi
	}
}

// Analyze runs once per turn and returns the new reports. Older reports
// whose problem was not reported again are resolved; information expires
// after 3 turns and keyless reports after 5.
func (d *Divan) Analyze(s Snapshot, rng entropy.Rand) []*Report {
	if s.Turn == d.LastAnalysis {
		return nil
	}
	d.LastAnalysis = s.Turn

	var fresh []*Report
	for _, role := range Roles {
		a, ok := d.Advisors[role]
		if !ok {
			continue
		}
		f := &filing{advisor: a, rng: rng, turn: s.Turn}
		switch role {
		case Defterdar:
			defterdar(f, s)
		case Kadi:
			kadi(f, s)
		case Subasi:
			subasi(f, s)
		case TahrirEmini:
			tahrir(f, s)
		}
		fresh = append(fresh, f.out...)
	}

	keys := make(map[string]bool)
	for _, r := range fresh {
		if r.ResolveKey != "" {
			keys[r.ResolveKey] = true
		}
	}
	kept := d.Reports[:0]
	for _, old := range d.Reports {
		age := s.Turn - old.Turn
		switch {
		case old.ResolveKey != "" && keys[old.ResolveKey]:
		case old.Severity == Bilgi && age > 3:
		case old.ResolveKey != "" && old.Turn < s.Turn:
		case old.ResolveKey == "" && age > 5:
		default:
			kept = append(kept, old)
		}
	}
	d.Reports = append(kept, fresh...)
	if n := len(d.Reports); n > MaxReports {
		d.Reports = d.Reports[n-MaxReports:]
	}
	return fresh
}

func defterdar(f *filing, s Snapshot) {
	gold := humanize.Comma(int64(s.Gold))
	switch {
	case s.Gold < 500:
		f.file(Acil, "ekonomi", fmt.Sprintf("Hazine tehlikeli seviyede: %s altın. İflas kapıda!", gold),
			"Vergiyi artırın veya sikke tağşişi yapın.", "hazine_durum")
	case s.Gold < 2000:
		f.file(Uyari, "ekonomi", fmt.Sprintf("Hazine düşük: %s altın.", gold),
			"Giderleri azaltın veya ticaret yollarını genişletin.", "hazine_durum")
	}
	net := humanize.Comma(int64(s.NetIncome))
	switch {
	case s.NetIncome < -500:
		f.file(Acil, "ekonomi", fmt.Sprintf("Bütçe ciddi açık veriyor: %s altın/tur.", net),
			"Askeri harcamaları kısın veya vergiyi artırın.", "butce_durum")
	case s.NetIncome < 0:
		f.file(Uyari, "ekonomi", fmt.Sprintf("Bütçe açık veriyor: %s altın/tur.", net),
			"Gelir kaynaklarını çeşitlendirin.", "butce_durum")
	}
	switch {
	case s.Inflation > 0.30:
		f.file(Acil, "ekonomi", fmt.Sprintf("Enflasyon çok yüksek: %%%d.", int(s.Inflation*100)),
			"Sikke tashihi yaparak enflasyonu düşürün.", "enflasyon_durum")
	case s.Inflation > 0.15:
		f.file(Uyari, "ekonomi", fmt.Sprintf("Enflasyon yükseliyor: %%%d.", int(s.Inflation*100)),
			"Para arzını kontrol altında tutun.", "enflasyon_durum")
	}
	if s.Gold > 20000 && s.NetIncome > 0 && len(f.out) == 0 {
		f.file(Bilgi, "ekonomi", fmt.Sprintf("Hazine bereketli: %s altın, tur başı +%s.", gold, net),
			"Yeni vakıflar veya askeri genişleme için uygun zaman.", "")
	}
}

func kadi(f *filing, s Snapshot) {
	switch {
	case s.Happiness < 25:
		f.file(Acil, "adalet", fmt.Sprintf("Halk memnuniyeti kritik: %%%d.", s.Happiness),
			"Vergiyi düşürün, imaret veya cami inşa edin.", "memnuniyet_durum")
	case s.Happiness < 40:
		f.file(Uyari, "adalet", fmt.Sprintf("Halk memnuniyeti düşük: %%%d.", s.Happiness),
			"Hoşgörü politikasını gözden geçirin.", "memnuniyet_durum")
	}
	switch {
	case s.Unrest > 70:
		f.file(Acil, "adalet", fmt.Sprintf("Huzursuzluk çok yüksek: %%%d. Ayaklanma riski!", s.Unrest),
			"Askeri güç gösterisi veya vergi indirimi.", "huzursuzluk_durum")
	case s.Unrest > 50:
		f.file(Uyari, "adalet", fmt.Sprintf("Huzursuzluk artıyor: %%%d.", s.Unrest),
			"Halkın şikayetlerini dinleyin.", "huzursuzluk_durum")
	}
	names := make([]string, 0, len(s.MilletLoyalty))
	for n := range s.MilletLoyalty {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if l := s.MilletLoyalty[n]; l < 30 {
			f.file(Uyari, "adalet", fmt.Sprintf("%s milletinin sadakati düşük: %%%d.", n, l),
				"Liderleriyle görüşün.", "millet_sadakat_"+n)
		}
	}
	if s.Happiness > 80 && s.Unrest < 10 && len(f.out) == 0 {
		f.file(Bilgi, "adalet", fmt.Sprintf("Eyalette huzur hâkim. Memnuniyet: %%%d.", s.Happiness),
			"Mevcut politikayı sürdürün.", "")
	}
}

func subasi(f *filing, s Snapshot) {
	switch {
	case s.Soldiers < 200:
		f.file(Acil, "askeriye", fmt.Sprintf("Askeri güç kritik: %d asker.", s.Soldiers),
			"Acilen yeniçeri veya sipahi eğitin.", "askeri_guc_durum")
	case s.Soldiers < 500:
		f.file(Uyari, "askeriye", fmt.Sprintf("Askeri güç yetersiz: %d asker.", s.Soldiers),
			"Ordunuzu güçlendirmeyi düşünün.", "askeri_guc_durum")
	}
	switch {
	case s.Morale < 30:
		f.file(Acil, "askeriye", fmt.Sprintf("Askeri moral çok düşük: %%%d. Firar riski var!", s.Morale),
			"Maaşları ödeyin, cihad fetvası ilan edin.", "moral_durum")
	case s.Morale < 50:
		f.file(Uyari, "askeriye", fmt.Sprintf("Askeri moral düşüyor: %%%d.", s.Morale),
			"Asker maaşlarını ve ikmalini kontrol edin.", "moral_durum")
	}
	switch {
	case s.HostileNeighbors >= 2:
		f.file(Acil, "askeriye", fmt.Sprintf("%d düşman komşu var! Çok cepheli savaş riski.", s.HostileNeighbors),
			"Diplomatik çözüm arayın veya savunmayı güçlendirin.", "dusman_tehdit")
	case s.HostileNeighbors == 1:
		f.file(Uyari, "askeriye", "Bir komşu ile gergin ilişkiler. Saldırı riski var.",
			"Kale inşası veya ittifak arayışı öneriyorum.", "dusman_tehdit")
	}
	if s.Soldiers > 1000 && len(f.out) == 0 {
		f.file(Bilgi, "askeriye", fmt.Sprintf("Askeri güç sağlam: %s asker.", humanize.Comma(int64(s.Soldiers))),
			"Sefer için uygun koşullar.", "")
	}
}

func tahrir(f *filing, s Snapshot) {
	switch {
	case s.TahrirAccuracy < 40:
		f.file(Acil, "nufus", fmt.Sprintf("Tahrir kayıtları çok eski: %%%d doğruluk.", s.TahrirAccuracy),
			"Derhal yeni tahrir emri verin.", "tahrir_dogruluk")
	case s.TahrirAccuracy < 60:
		f.file(Uyari, "nufus", fmt.Sprintf("Tahrir kayıtları eskiyor: %%%d doğruluk.", s.TahrirAccuracy),
			"Yakın zamanda tahrir yaptırmayı düşünün.", "tahrir_dogruluk")
	}
	if s.FoodConsumption > 0 {
		turns := s.Food / s.FoodConsumption
		switch {
		case turns < 5:
			f.file(Acil, "nufus", fmt.Sprintf("Zahire tükeniyor! %d tur yetecek kadar kaldı.", turns),
				"Zahire satın alın veya ticaret yolu açın.", "gida_durum")
		case turns < 15:
			f.file(Uyari, "nufus", fmt.Sprintf("Zahire azalıyor: %s birim, %d tur yeter.", humanize.Comma(int64(s.Food)), turns),
				"Gıda üretimini artırın.", "gida_durum")
		}
	}
	if s.Turn%10 == 0 && s.Population > 0 {
		rec := "Nüfus artışı sürdürülebilir seviyede."
		if s.Health <= 50 {
			rec = "Sağlık yatırımlarına ihtiyaç var."
		}
		f.file(Bilgi, "nufus", fmt.Sprintf("Eyalet nüfusu: %s kişi. Tahrir doğruluğu: %%%d.",
			humanize.Comma(int64(s.Population)), s.TahrirAccuracy), rec, "")
	}
}

// Latest returns the reports filed in the last analysis.
func (d *Divan) Latest() []*Report {
	var out []*Report
	for _, r := range d.Reports {
		if r.Turn == d.LastAnalysis {
			out = append(out, r)
		}
	}
	return out
}

// Urgent returns active urgent reports from the last 5 turns.
func (d *Divan) Urgent() []*Report {
	cutoff := max(0, d.LastAnalysis-5)
	var out []*Report
	for _, r := range d.Reports {
		if r.Severity == Acil && r.Turn >= cutoff {
			out = append(out, r)
		}
	}
	return out
}

// ByRole returns one advisor's reports from the last 10 turns.
func (d *Divan) ByRole(role Role) []*Report {
	cutoff := max(0, d.LastAnalysis-10)
	var out []*Report
	for _, r := range d.Reports {
		if r.Role == role && r.Turn >= cutoff {
			out = append(out, r)
		}
	}
	return out
}

// Unread counts reports not yet marked read.
func (d *Divan) Unread() int {
	n := 0
	for _, r := range d.Reports {
		if !r.Read {
			n++
		}
	}
	return n
}

// MarkAllRead marks every report read.
func (d *Divan) MarkAllRead() {
	for _, r := range d.Reports {
		r.Read = true
	}
}

// Sanitize repairs a loaded council, reseating missing advisors from rng.
func (d *Divan) Sanitize(rng entropy.Rand) {
	if d.Advisors == nil {
		d.Advisors = make(map[Role]*Advisor)
	}
	for r, a := range d.Advisors {
		if _, ok := roleNames[r]; !ok || a == nil {
			delete(d.Advisors, r)
			continue
		}
		a.Role = r
		a.Skill = max(1, min(10, a.Skill))
		a.Loyalty = max(0, min(100, a.Loyalty))
	}
	for _, r := range Roles {
		if _, ok := d.Advisors[r]; !ok {
			d.Advisors[r] = newAdvisor(r, rng)
		}
	}
	kept := d.Reports[:0]
	for _, r := range d.Reports {
		if r == nil {
			continue
		}
		if _, ok := roleNames[r.Role]; !ok {
			continue
		}
		switch r.Severity {
		case Bilgi, Uyari, Acil:
			kept = append(kept, r)
		}
	}
	d.Reports = kept
	if n := len(d.Reports); n > MaxReports {
		d.Reports = d.Reports[n-MaxReports:]
	}
}
