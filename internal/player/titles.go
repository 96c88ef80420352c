package player

import "strings"

// Context is who is addressing the governor.
type Context string

const (
	Governor    Context = "governor"
	General     Context = "general"
	FromSultan  Context = "from_sultan"
	FromPeople  Context = "from_people"
	FromSoldier Context = "from_soldier"
	FromBey     Context = "from_bey"
	FromUlema   Context = "from_ulema"
	Formal      Context = "formal"
)

var titles = map[Context][2]string{
	Governor:    {"Paşa", "Hatun"},
	General:     {"Beyefendi", "Hanımefendi"},
	FromSultan:  {"Paşam", "Hatun Hazretleri"},
	FromPeople:  {"Paşa Efendimiz", "Hatun Efendimiz"},
	FromSoldier: {"Komutanım", "Hanım Komutan"},
	FromBey:     {"Paşa Hazretleri", "Hatun Hazretleri"},
	FromUlema:   {"Devletlü Paşam", "Devletlü Hatun"},
	Formal:      {"Vali", "Vali"},
}

// Title returns the form of address for a context. Unknown contexts use
// the general one.
func (p *Player) Title(c Context) string {
	t, ok := titles[c]
	if !ok {
		t = titles[General]
	}
	if p.Gender == Female {
		return t[1]
	}
	return t[0]
}

// FullTitle is the name followed by the governor title, e.g. "Kasım Paşa".
func (p *Player) FullTitle() string {
	return p.Name + " " + p.Title(Governor)
}

// Greeting opens event and report texts.
func (p *Player) Greeting() string {
	return p.Title(FromSultan) + ","
}

// Format fills {name}, {governor}, {title} and the {from_*} placeholders.
func (p *Player) Format(template string) string {
	benefactor := "Hayırsever"
	if p.Gender == Female {
		benefactor = "Hayırsever Hatun"
	}
	return strings.NewReplacer(
		"{name}", p.Name,
		"{title}", p.Title(General),
		"{governor}", p.Title(Governor),
		"{from_sultan}", p.Title(FromSultan),
		"{from_people}", p.Title(FromPeople),
		"{from_soldier}", p.Title(FromSoldier),
		"{from_bey}", p.Title(FromBey),
		"{from_ulema}", p.Title(FromUlema),
		"{benefactor}", benefactor,
	).Replace(template)
}
