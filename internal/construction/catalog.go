package construction

import "github.com/talgya/eyalet/internal/ledger"

// Type identifies a building.
type Type string

const (
	Mosque           Type = "mosque"
	Medrese          Type = "medrese"
	Barracks         Type = "barracks"
	Market           Type = "market"
	Caravanserai     Type = "caravanserai"
	Hospital         Type = "hospital"
	Bath             Type = "bath"
	Fortress         Type = "fortress"
	Farm             Type = "farm"
	Mine             Type = "mine"
	LumberMill       Type = "lumber_mill"
	Quarry           Type = "quarry"
	Warehouse        Type = "warehouse"
	Inn              Type = "inn"
	Shipyard         Type = "shipyard"
	ArtilleryFoundry Type = "artillery_foundry"
	Ropemaker        Type = "ropemaker"
)

// Types lists every building in catalog order.
var Types = []Type{
	Mosque, Medrese, Barracks, Market, Caravanserai, Hospital, Bath, Fortress,
	Farm, Mine, LumberMill, Quarry, Warehouse, Inn, Shipyard, ArtilleryFoundry, Ropemaker,
}

// Effect names a per-building output.
type Effect string

const (
	Happiness      Effect = "happiness"
	Trade          Effect = "trade"
	Military       Effect = "military"
	Food           Effect = "food"
	Wood           Effect = "wood"
	Iron           Effect = "iron"
	Stone          Effect = "stone"
	Rope           Effect = "rope"
	Tar            Effect = "tar"
	Sailcloth      Effect = "sailcloth"
	Gold           Effect = "gold"
	Capacity       Effect = "population_capacity"
	ShipHealth     Effect = "ship_health"
	ShipExperience Effect = "ship_experience"
)

// MaxLevel is shared by every building.
const MaxLevel = 5

// BaseCapacity is the carrying capacity before any building.
const BaseCapacity = 50_000

// Module is an add-on installed into a completed building.
type Module struct {
	ID      string
	Name    string
	Cost    ledger.Amounts
	Effects map[Effect]int
}

// Definition is the static description of a building type.
type Definition struct {
	Type         Type
	Name         string
	Description  string
	Cost         ledger.Amounts
	Maintenance  int
	BuildTime    int
	MaxLevel     int
	Prerequisite Type
	Coastal      bool
	Effects      map[Effect]int
	GrowthBonus  float64
	Synergies    []Type
	Modules      []Module
}

// Module returns the named module of d.
func (d *Definition) Module(id string) (Module, bool) {
	for _, m := range d.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

func cost(gold, wood, iron int) ledger.Amounts {
	return ledger.Amounts{ledger.Gold: gold, ledger.Wood: wood, ledger.Iron: iron}
}

var definitions = map[Type]*Definition{
	Mosque: {
		Name: "Cami", Description: "Halk memnuniyetini artırır",
		Cost: cost(1000, 200, 50), Maintenance: 20, BuildTime: 3,
		Effects: map[Effect]int{Happiness: 10, Capacity: 1000},
		Modules: []Module{
			{ID: "kulliye", Name: "Külliye", Cost: ledger.Amounts{ledger.Gold: 1000, ledger.Stone: 200}, Effects: map[Effect]int{Happiness: 5}},
		},
	},
	Medrese: {
		Name: "Medrese", Description: "Eğitim ve kültür merkezi",
		Cost: cost(800, 150, 30), Maintenance: 15, BuildTime: 2, Prerequisite: Mosque,
		Effects: map[Effect]int{Happiness: 5},
		Modules: []Module{
			{ID: "library", Name: "Kütüphane", Cost: ledger.Amounts{ledger.Gold: 700, ledger.Wood: 100}, Effects: map[Effect]int{Happiness: 2}},
		},
	},
	Barracks: {
		Name: "Kışla", Description: "Asker eğitimi ve barınma",
		Cost: cost(1500, 300, 200), Maintenance: 30, BuildTime: 4,
		Effects: map[Effect]int{Military: 20},
		Modules: []Module{
			{ID: "training_ground", Name: "Talim Meydanı", Cost: ledger.Amounts{ledger.Gold: 700, ledger.Wood: 100}, Effects: map[Effect]int{Military: 15}},
		},
	},
	Market: {
		Name: "Çarşı", Description: "Ticaret gelirini artırır",
		Cost: cost(600, 100, 20), Maintenance: 10, BuildTime: 2,
		Effects: map[Effect]int{Trade: 150, Capacity: 1500},
		Modules: []Module{
			{ID: "bedesten", Name: "Bedesten", Cost: ledger.Amounts{ledger.Gold: 800, ledger.Stone: 200}, Effects: map[Effect]int{Trade: 100, Gold: 50}},
		},
	},
	Caravanserai: {
		Name: "Kervansaray", Description: "Kervan ticaretini geliştirir",
		Cost: cost(1200, 250, 50), Maintenance: 25, BuildTime: 3, Prerequisite: Market,
		Effects: map[Effect]int{Trade: 300},
		Modules: []Module{
			{ID: "stables", Name: "Ahırlar", Cost: ledger.Amounts{ledger.Gold: 600, ledger.Wood: 150}, Effects: map[Effect]int{Trade: 100}},
		},
	},
	Hospital: {
		Name: "Darüşşifa", Description: "Halk sağlığını korur",
		Cost: cost(1500, 200, 100), Maintenance: 35, BuildTime: 4, Prerequisite: Medrese,
		Effects: map[Effect]int{Happiness: 10, Capacity: 3000},
		Modules: []Module{
			{ID: "pharmacy", Name: "Eczane", Cost: ledger.Amounts{ledger.Gold: 600}, Effects: map[Effect]int{Happiness: 3}},
		},
	},
	Bath: {
		Name: "Hamam", Description: "Temizlik ve sosyal yaşam",
		Cost: cost(400, 80, 20), Maintenance: 8, BuildTime: 2,
		Effects: map[Effect]int{Happiness: 5, Capacity: 1000},
		Modules: []Module{
			{ID: "marble_hall", Name: "Mermer Salon", Cost: ledger.Amounts{ledger.Gold: 500, ledger.Stone: 150}, Effects: map[Effect]int{Happiness: 2}},
		},
	},
	Fortress: {
		Name: "Kale", Description: "Savunma ve tımar kapasitesi",
		Cost: cost(3000, 500, 400), Maintenance: 50, BuildTime: 6, Prerequisite: Barracks,
		Effects: map[Effect]int{Military: 50, Capacity: 5000},
		Modules: []Module{
			{ID: "bastion", Name: "Tabya", Cost: ledger.Amounts{ledger.Gold: 1500, ledger.Stone: 300}, Effects: map[Effect]int{Military: 30}},
		},
	},
	Farm: {
		Name: "Çiftlik", Description: "Zahire üretir",
		Cost: cost(300, 150, 10), Maintenance: 5, BuildTime: 2,
		Effects: map[Effect]int{Food: 400, Capacity: 5000},
		Modules: []Module{
			{ID: "irrigation", Name: "Sulama Kanalları", Cost: ledger.Amounts{ledger.Gold: 400, ledger.Wood: 100}, Effects: map[Effect]int{Food: 150}},
			{ID: "granary", Name: "Tahıl Ambarı", Cost: ledger.Amounts{ledger.Gold: 300, ledger.Wood: 150}, Effects: map[Effect]int{Food: 50, Capacity: 1000}},
		},
	},
	Mine: {
		Name: "Maden", Description: "Demir çıkarır",
		Cost: cost(800, 200, 50), Maintenance: 20, BuildTime: 3,
		Effects: map[Effect]int{Iron: 150},
		Modules: []Module{
			{ID: "deep_shaft", Name: "Derin Kuyu", Cost: ledger.Amounts{ledger.Gold: 600, ledger.Wood: 200}, Effects: map[Effect]int{Iron: 80}},
		},
	},
	LumberMill: {
		Name: "Kereste Ocağı", Description: "Kereste üretir",
		Cost: cost(500, 50, 100), Maintenance: 15, BuildTime: 2,
		Effects: map[Effect]int{Wood: 300},
		Modules: []Module{
			{ID: "water_saw", Name: "Su Bıçkısı", Cost: ledger.Amounts{ledger.Gold: 500, ledger.Iron: 50}, Effects: map[Effect]int{Wood: 120}},
		},
	},
	Quarry: {
		Name: "Taş Ocağı", Description: "Taş çıkarır",
		Cost: cost(800, 200, 50), Maintenance: 20, BuildTime: 3,
		Effects: map[Effect]int{Stone: 100},
		Modules: []Module{
			{ID: "crane", Name: "Vinç", Cost: ledger.Amounts{ledger.Gold: 500, ledger.Wood: 100}, Effects: map[Effect]int{Stone: 60}},
		},
	},
	Warehouse: {
		Name: "Ambar", Description: "Erzak depolar",
		Cost: cost(400, 300, 50), Maintenance: 5, BuildTime: 2, Prerequisite: Market,
		Effects: map[Effect]int{Capacity: 2000},
		Modules: []Module{
			{ID: "cellars", Name: "Mahzenler", Cost: ledger.Amounts{ledger.Gold: 300, ledger.Stone: 100}, Effects: map[Effect]int{Capacity: 1000}},
		},
	},
	Inn: {
		Name: "Han", Description: "Yolcuları ve göçmenleri ağırlar",
		Cost: cost(600, 200, 30), Maintenance: 12, BuildTime: 2,
		Effects: map[Effect]int{Happiness: 3, Capacity: 2000}, GrowthBonus: 0.01,
		Modules: []Module{
			{ID: "guest_rooms", Name: "Misafir Odaları", Cost: ledger.Amounts{ledger.Gold: 400, ledger.Wood: 100}, Effects: map[Effect]int{Capacity: 1500}},
		},
	},
	Shipyard: {
		Name: "Tersane", Description: "Gemi inşası ve liman",
		Cost: cost(2000, 500, 200), Maintenance: 40, BuildTime: 5, Coastal: true,
		Effects: map[Effect]int{Trade: 500, Military: 30},
		Modules: []Module{
			{ID: "dry_dock", Name: "Kuru Havuz", Cost: ledger.Amounts{ledger.Gold: 1500, ledger.Wood: 300, ledger.Iron: 100}, Effects: map[Effect]int{ShipHealth: 20}},
			{ID: "veteran_crews", Name: "Tecrübeli Tayfalar", Cost: ledger.Amounts{ledger.Gold: 1000}, Effects: map[Effect]int{ShipExperience: 10}},
		},
	},
	ArtilleryFoundry: {
		Name: "Topçu Ocağı", Description: "Top döküm ve topçu eğitimi",
		Cost: cost(2500, 300, 400), Maintenance: 50, BuildTime: 6, Prerequisite: Barracks,
		Effects: map[Effect]int{Military: 50},
		Modules: []Module{
			{ID: "bronze_works", Name: "Tunç Dökümhanesi", Cost: ledger.Amounts{ledger.Gold: 1200, ledger.Iron: 200}, Effects: map[Effect]int{Military: 10}},
		},
	},
	Ropemaker: {
		Name: "Halat Atölyesi", Description: "Halat, katran ve yelken bezi üretir",
		Cost: cost(800, 200, 30), Maintenance: 15, BuildTime: 3, Prerequisite: Shipyard, Coastal: true,
		Effects: map[Effect]int{Rope: 10, Tar: 5, Sailcloth: 3},
		Modules: []Module{
			{ID: "hemp_store", Name: "Kenevir Deposu", Cost: ledger.Amounts{ledger.Gold: 500, ledger.Wood: 100}, Effects: map[Effect]int{ShipHealth: 10, Rope: 5}},
		},
	},
}

var synergyPairs = [][2]Type{
	{Mosque, Medrese}, {Mosque, Bath}, {Medrese, Hospital}, {Hospital, Bath},
	{Market, Caravanserai}, {Market, Warehouse}, {Market, Inn}, {Caravanserai, Inn},
	{Barracks, Fortress}, {Barracks, ArtilleryFoundry}, {Mine, ArtilleryFoundry},
	{Mine, Quarry}, {Farm, Warehouse}, {LumberMill, Shipyard}, {Shipyard, Ropemaker},
}

func init() {
	for t, d := range definitions {
		d.Type = t
		d.MaxLevel = MaxLevel
	}
	for _, p := range synergyPairs {
		definitions[p[0]].Synergies = append(definitions[p[0]].Synergies, p[1])
		definitions[p[1]].Synergies = append(definitions[p[1]].Synergies, p[0])
	}
}

// Lookup returns the definition of t.
func Lookup(t Type) (*Definition, bool) {
	d, ok := definitions[t]
	return d, ok
}

// ParseType accepts a building key or its Turkish name.
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if string(t) == s || definitions[t].Name == s {
			return t, true
		}
	}
	return "", false
}

// Name returns the Turkish display name of t.
func (t Type) Name() string {
	if d, ok := definitions[t]; ok {
		return d.Name
	}
	return string(t)
}
