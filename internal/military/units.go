package military

// UnitType identifies a troop kind.
type UnitType string

const (
	Sipahi        UnitType = "sipahi"
	Yenicheri     UnitType = "yenicheri"
	Azap          UnitType = "azap"
	Topcu         UnitType = "topcu"
	Akinci        UnitType = "akinci"
	TimarliSipahi UnitType = "timarli_sipahi"
	AgirSuvari    UnitType = "agir_suvari"
	Cebeci        UnitType = "cebeci"
	Levend        UnitType = "levend"
)

// UnitTypes lists every unit in catalog order.
var UnitTypes = []UnitType{Sipahi, Yenicheri, Azap, Topcu, Akinci, TimarliSipahi, AgirSuvari, Cebeci, Levend}

// UnitStats is the static definition of a unit.
type UnitStats struct {
	Name          string
	Attack        int
	Defense       int
	Speed         int
	Gold          int
	Food          int
	Maintenance   int
	TrainTime     int
	RequiresTimar bool
	RequiresPort  bool
}

var unitStats = map[UnitType]UnitStats{
	Sipahi:        {Name: "Sipahi", Attack: 15, Defense: 10, Speed: 8, Gold: 150, Food: 50, Maintenance: 5, TrainTime: 2},
	Yenicheri:     {Name: "Yeniçeri", Attack: 20, Defense: 15, Speed: 4, Gold: 200, Food: 80, Maintenance: 8, TrainTime: 3},
	Azap:          {Name: "Azap", Attack: 8, Defense: 5, Speed: 5, Gold: 50, Food: 30, Maintenance: 2, TrainTime: 1},
	Topcu:         {Name: "Topçu", Attack: 30, Defense: 5, Speed: 2, Gold: 500, Food: 100, Maintenance: 15, TrainTime: 4},
	Akinci:        {Name: "Akıncı", Attack: 10, Defense: 3, Speed: 10, Gold: 80, Food: 40, Maintenance: 3, TrainTime: 1},
	TimarliSipahi: {Name: "Tımarlı Sipahi", Attack: 14, Defense: 9, Speed: 8, Food: 40, TrainTime: 2, RequiresTimar: true},
	AgirSuvari:    {Name: "Ağır Süvari", Attack: 22, Defense: 18, Speed: 6, Gold: 300, Food: 80, Maintenance: 10, TrainTime: 3},
	Cebeci:        {Name: "Cebeci", Attack: 6, Defense: 8, Speed: 4, Gold: 100, Food: 30, Maintenance: 3, TrainTime: 2},
	Levend:        {Name: "Levend", Attack: 12, Defense: 8, Speed: 6, Gold: 120, Food: 40, Maintenance: 4, TrainTime: 2, RequiresPort: true},
}

// Stats returns the definition of u.
func Stats(u UnitType) (UnitStats, bool) {
	s, ok := unitStats[u]
	return s, ok
}

// Name returns the Turkish name of u.
func (u UnitType) Name() string {
	if s, ok := unitStats[u]; ok {
		return s.Name
	}
	return string(u)
}

// ParseUnit accepts a unit key or its Turkish name.
func ParseUnit(s string) (UnitType, bool) {
	for _, u := range UnitTypes {
		if string(u) == s || unitStats[u].Name == s {
			return u, true
		}
	}
	return "", false
}

// PowerKind selects the multipliers applied by TotalPower.
type PowerKind int

const (
	General PowerKind = iota
	Siege
	Defense
	Field
)

func (k PowerKind) multiplier(u UnitType) float64 {
	switch {
	case k == Siege && u == Topcu:
		return 2
	case k == Defense && u == Yenicheri:
		return 1.5
	case k == Field && u == AgirSuvari:
		return 1.3
	}
	return 1
}

// Trait is a commander's speciality.
type Trait string

const (
	Strategist    Trait = "strategist"
	SiegeMaster   Trait = "siege_master"
	CavalryMaster Trait = "cavalry_master"
	Defender      Trait = "defender"
	Inspiring     Trait = "inspiring"
	Logistician   Trait = "logistician"
)

var traitNames = map[Trait]string{
	Strategist:    "Stratejist",
	SiegeMaster:   "Kuşatma Ustası",
	CavalryMaster: "Süvari Ustası",
	Defender:      "Savunmacı",
	Inspiring:     "İlham Verici",
	Logistician:   "İaşeci",
}

// Name returns the Turkish name of t.
func (t Trait) Name() string { return traitNames[t] }

// powerBonus is the multiplier a trait adds to a power kind.
func (t Trait) powerBonus(k PowerKind) float64 {
	switch {
	case t == Strategist:
		return 0.10
	case t == SiegeMaster && k == Siege:
		return 0.20
	case t == CavalryMaster && k == Field:
		return 0.15
	case t == Defender && k == Defense:
		return 0.20
	}
	return 0
}

// Role is a command post.
type Role string

const (
	RoleField    Role = "field"
	RoleSiege    Role = "siege"
	RoleGarrison Role = "garrison"
	RoleNaval    Role = "naval"
)

var roleKind = map[Role]PowerKind{
	RoleField:    Field,
	RoleSiege:    Siege,
	RoleGarrison: Defense,
	RoleNaval:    General,
}
