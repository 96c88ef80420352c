// Package world holds the fixed 1520 territory catalog: Ottoman provinces and
// sub-provinces, vassals, and the foreign states along the frontier.
package world

import (
	"sort"
	"strings"
)

// TerritoryType classifies how a territory relates to the Porte.
type TerritoryType string

const (
	TypeEyalet  TerritoryType = "osmanli_eyalet"
	TypeSancak  TerritoryType = "osmanli_sancak"
	TypeVassal  TerritoryType = "vasal"
	TypeForeign TerritoryType = "komsu_devlet"
)

// Region is a geographic grouping.
type Region string

const (
	Anatolia   Region = "Anadolu"
	Balkans    Region = "Balkanlar"
	MiddleEast Region = "Ortadoğu"
	Africa     Region = "Afrika"
	Islands    Region = "Adalar"
	BlackSea   Region = "Karadeniz"
	Europe     Region = "Avrupa"
	Iran       Region = "İran"
)

// Territory is one catalog entry.
type Territory struct {
	Name               string
	Type               TerritoryType
	Region             Region
	Capital            string
	Coastal            bool
	StartingPopulation int
	Resources          []string
	Neighbors          []string
	Personality        string // foreign states only
}

// Playable reports whether a governor can be appointed here.
func (t Territory) Playable() bool {
	return t.Type != TypeForeign
}

var catalog = map[string]Territory{
	"Rum Eyaleti": {
		Name: "Rum Eyaleti", Type: TypeEyalet, Region: Anatolia, Capital: "Sivas",
		StartingPopulation: 25000, Resources: []string{"tahıl", "at"},
		Neighbors: []string{"Trabzon Eyaleti", "Kastamonu Sancağı", "Karaman Eyaleti", "Dulkadir Eyaleti", "Diyarbekir Eyaleti", "Anadolu Eyaleti"},
	},
	"Anadolu Eyaleti": {
		Name: "Anadolu Eyaleti", Type: TypeEyalet, Region: Anatolia, Capital: "Kütahya",
		StartingPopulation: 30000, Resources: []string{"tahıl", "yün"},
		Neighbors: []string{"Kastamonu Sancağı", "Karaman Eyaleti", "Rum Eyaleti", "Aydın Sancağı", "Hüdavendigar Sancağı"},
	},
	"Karaman Eyaleti": {
		Name: "Karaman Eyaleti", Type: TypeEyalet, Region: Anatolia, Capital: "Konya",
		StartingPopulation: 28000, Resources: []string{"tahıl", "halı"},
		Neighbors: []string{"Rum Eyaleti", "Anadolu Eyaleti", "Teke Sancağı", "Dulkadir Eyaleti"},
	},
	"Dulkadir Eyaleti": {
		Name: "Dulkadir Eyaleti", Type: TypeEyalet, Region: Anatolia, Capital: "Maraş",
		StartingPopulation: 18000, Resources: []string{"at", "demir"},
		Neighbors: []string{"Rum Eyaleti", "Karaman Eyaleti", "Halep Sancağı", "Diyarbekir Eyaleti"},
	},
	"Diyarbekir Eyaleti": {
		Name: "Diyarbekir Eyaleti", Type: TypeEyalet, Region: Anatolia, Capital: "Diyarbakır",
		StartingPopulation: 22000, Resources: []string{"bakır", "ipek"},
		Neighbors: []string{"Rum Eyaleti", "Dulkadir Eyaleti", "Halep Sancağı", "Safevi Devleti"},
	},
	"Trabzon Eyaleti": {
		Name: "Trabzon Eyaleti", Type: TypeEyalet, Region: BlackSea, Capital: "Trabzon", Coastal: true,
		StartingPopulation: 16000, Resources: []string{"fındık", "kereste"},
		Neighbors: []string{"Rum Eyaleti", "Kastamonu Sancağı", "Safevi Devleti"},
	},
	"Kastamonu Sancağı": {
		Name: "Kastamonu Sancağı", Type: TypeSancak, Region: BlackSea, Capital: "Kastamonu", Coastal: true,
		StartingPopulation: 14000, Resources: []string{"kereste", "bakır"},
		Neighbors: []string{"Anadolu Eyaleti", "Rum Eyaleti", "Trabzon Eyaleti"},
	},
	"Hüdavendigar Sancağı": {
		Name: "Hüdavendigar Sancağı", Type: TypeSancak, Region: Anatolia, Capital: "Bursa", Coastal: true,
		StartingPopulation: 26000, Resources: []string{"ipek"},
		Neighbors: []string{"Anadolu Eyaleti", "Aydın Sancağı", "Rumeli Eyaleti"},
	},
	"Aydın Sancağı": {
		Name: "Aydın Sancağı", Type: TypeSancak, Region: Anatolia, Capital: "Tire", Coastal: true,
		StartingPopulation: 20000, Resources: []string{"incir", "pamuk"},
		Neighbors: []string{"Anadolu Eyaleti", "Hüdavendigar Sancağı", "Teke Sancağı", "Cezayir-i Bahr-i Sefid"},
	},
	"Teke Sancağı": {
		Name: "Teke Sancağı", Type: TypeSancak, Region: Anatolia, Capital: "Antalya", Coastal: true,
		StartingPopulation: 12000, Resources: []string{"pamuk", "kereste"},
		Neighbors: []string{"Karaman Eyaleti", "Aydın Sancağı", "Rodos Şövalyeleri"},
	},
	"Rumeli Eyaleti": {
		Name: "Rumeli Eyaleti", Type: TypeEyalet, Region: Balkans, Capital: "Edirne",
		StartingPopulation: 35000, Resources: []string{"tahıl", "yün", "gümüş"},
		Neighbors: []string{"Bosna Sancağı", "Semendire Sancağı", "Eflak Voyvodalığı", "Hüdavendigar Sancağı", "Venedik Cumhuriyeti"},
	},
	"Bosna Sancağı": {
		Name: "Bosna Sancağı", Type: TypeSancak, Region: Balkans, Capital: "Saraybosna",
		StartingPopulation: 15000, Resources: []string{"demir", "gümüş"},
		Neighbors: []string{"Rumeli Eyaleti", "Semendire Sancağı", "Ragusa Cumhuriyeti", "Macaristan Krallığı", "Venedik Cumhuriyeti"},
	},
	"Semendire Sancağı": {
		Name: "Semendire Sancağı", Type: TypeSancak, Region: Balkans, Capital: "Semendire",
		StartingPopulation: 13000, Resources: []string{"tahıl"},
		Neighbors: []string{"Rumeli Eyaleti", "Bosna Sancağı", "Eflak Voyvodalığı", "Macaristan Krallığı"},
	},
	"Halep Sancağı": {
		Name: "Halep Sancağı", Type: TypeSancak, Region: MiddleEast, Capital: "Halep",
		StartingPopulation: 24000, Resources: []string{"ipek", "baharat"},
		Neighbors: []string{"Dulkadir Eyaleti", "Diyarbekir Eyaleti", "Şam Eyaleti", "Safevi Devleti"},
	},
	"Şam Eyaleti": {
		Name: "Şam Eyaleti", Type: TypeEyalet, Region: MiddleEast, Capital: "Şam",
		StartingPopulation: 27000, Resources: []string{"baharat", "dokuma"},
		Neighbors: []string{"Halep Sancağı", "Mısır Eyaleti"},
	},
	"Mısır Eyaleti": {
		Name: "Mısır Eyaleti", Type: TypeEyalet, Region: Africa, Capital: "Kahire", Coastal: true,
		StartingPopulation: 40000, Resources: []string{"tahıl", "şeker", "baharat"},
		Neighbors: []string{"Şam Eyaleti", "Venedik Cumhuriyeti"},
	},
	"Cezayir-i Bahr-i Sefid": {
		Name: "Cezayir-i Bahr-i Sefid", Type: TypeEyalet, Region: Islands, Capital: "Gelibolu", Coastal: true,
		StartingPopulation: 11000, Resources: []string{"balık", "tuz"},
		Neighbors: []string{"Aydın Sancağı", "Rodos Şövalyeleri", "Venedik Cumhuriyeti"},
	},
	"Kefe Sancağı": {
		Name: "Kefe Sancağı", Type: TypeSancak, Region: BlackSea, Capital: "Kefe", Coastal: true,
		StartingPopulation: 10000, Resources: []string{"tuz", "balık"},
		Neighbors: []string{"Kırım Hanlığı", "Lehistan Krallığı"},
	},

	"Kırım Hanlığı": {
		Name: "Kırım Hanlığı", Type: TypeVassal, Region: BlackSea, Capital: "Bahçesaray", Coastal: true,
		StartingPopulation: 20000, Resources: []string{"at"},
		Neighbors: []string{"Kefe Sancağı", "Lehistan Krallığı"},
	},
	"Eflak Voyvodalığı": {
		Name: "Eflak Voyvodalığı", Type: TypeVassal, Region: Balkans, Capital: "Tırgovişte",
		StartingPopulation: 18000, Resources: []string{"bal", "tuz"},
		Neighbors: []string{"Rumeli Eyaleti", "Semendire Sancağı", "Boğdan Voyvodalığı", "Macaristan Krallığı"},
	},
	"Boğdan Voyvodalığı": {
		Name: "Boğdan Voyvodalığı", Type: TypeVassal, Region: Balkans, Capital: "Suceava",
		StartingPopulation: 15000, Resources: []string{"sığır", "buğday"},
		Neighbors: []string{"Eflak Voyvodalığı", "Lehistan Krallığı"},
	},
	"Ragusa Cumhuriyeti": {
		Name: "Ragusa Cumhuriyeti", Type: TypeVassal, Region: Balkans, Capital: "Ragusa", Coastal: true,
		StartingPopulation: 8000, Resources: []string{"ticaret"},
		Neighbors: []string{"Bosna Sancağı", "Venedik Cumhuriyeti"},
	},

	"Safevi Devleti": {
		Name: "Safevi Devleti", Type: TypeForeign, Region: Iran, Capital: "Tebriz",
		StartingPopulation: 60000, Personality: "aggressive",
	},
	"Venedik Cumhuriyeti": {
		Name: "Venedik Cumhuriyeti", Type: TypeForeign, Region: Europe, Capital: "Venedik", Coastal: true,
		StartingPopulation: 45000, Personality: "mercantile",
	},
	"Macaristan Krallığı": {
		Name: "Macaristan Krallığı", Type: TypeForeign, Region: Europe, Capital: "Buda",
		StartingPopulation: 50000, Personality: "honorable",
	},
	"Avusturya Arşidüklüğü": {
		Name: "Avusturya Arşidüklüğü", Type: TypeForeign, Region: Europe, Capital: "Viyana",
		StartingPopulation: 55000, Personality: "honorable",
	},
	"Lehistan Krallığı": {
		Name: "Lehistan Krallığı", Type: TypeForeign, Region: Europe, Capital: "Krakov",
		StartingPopulation: 48000, Personality: "fearful",
	},
	"Rodos Şövalyeleri": {
		Name: "Rodos Şövalyeleri", Type: TypeForeign, Region: Islands, Capital: "Rodos", Coastal: true,
		StartingPopulation: 9000, Personality: "pious",
	},
}

// Lookup finds a territory by exact name or by an unambiguous prefix
// ("Rum" resolves to "Rum Eyaleti").
func Lookup(name string) (Territory, bool) {
	if t, ok := catalog[name]; ok {
		return t, true
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Territory{}, false
	}
	var found []Territory
	for _, t := range catalog {
		if strings.HasPrefix(strings.ToLower(t.Name), needle+" ") {
			found = append(found, t)
		}
	}
	if len(found) != 1 {
		return Territory{}, false
	}
	return found[0], true
}

// Names returns every catalog name in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Playable returns the names of territories a governor can be appointed to.
func Playable() []string {
	var names []string
	for _, n := range Names() {
		if catalog[n].Playable() {
			names = append(names, n)
		}
	}
	return names
}

// Frontier returns the foreign powers that threaten a region even when
// they do not share a border with the province itself.
func Frontier(r Region) []string {
	switch r {
	case Anatolia, MiddleEast:
		return []string{"Safevi Devleti", "Venedik Cumhuriyeti"}
	case Balkans:
		return []string{"Macaristan Krallığı", "Avusturya Arşidüklüğü", "Venedik Cumhuriyeti"}
	case Islands, Africa:
		return []string{"Venedik Cumhuriyeti", "Rodos Şövalyeleri"}
	case BlackSea:
		return []string{"Lehistan Krallığı", "Safevi Devleti"}
	default:
		return nil
	}
}

// IsCoastal reports whether a named province has sea access. Names that are
// not in the catalog are treated as inland.
func IsCoastal(name string) bool {
	t, ok := Lookup(name)
	return ok && t.Coastal
}
