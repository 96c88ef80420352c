package engine

import "github.com/talgya/eyalet/internal/economy"

// Season is derived from the calendar month.
type Season uint8

const (
	Winter Season = iota
	Spring
	Summer
	Autumn
)

// SeasonOf maps a month (1..12) to its season. December opens winter.
func SeasonOf(month int) Season {
	switch month {
	case 12, 1, 2:
		return Winter
	case 3, 4, 5:
		return Spring
	case 6, 7, 8:
		return Summer
	default:
		return Autumn
	}
}

// String returns the Turkish season name.
func (s Season) String() string {
	switch s {
	case Winter:
		return "Kış"
	case Spring:
		return "İlkbahar"
	case Summer:
		return "Yaz"
	case Autumn:
		return "Sonbahar"
	}
	return "?"
}

// FoodMod scales building food output.
func (s Season) FoodMod() float64 {
	switch s {
	case Winter:
		return 0.75
	case Spring:
		return 1.2
	case Autumn:
		return 1.5
	}
	return 1.0
}

// TradeMod scales trade income. Winter roads and seas are slow.
func (s Season) TradeMod() float64 {
	switch s {
	case Winter:
		return 0.8
	case Summer:
		return 1.2
	}
	return 1.0
}

// MarketHint returns the price-trend nudges of the season.
func (s Season) MarketHint() economy.SeasonalHint {
	switch s {
	case Winter:
		// Salt for curing, grain from the granaries, cloth against the cold.
		return economy.SeasonalHint{economy.Salt: 0.02, economy.Grain: 0.02, economy.Cloth: 0.01, economy.Furs: 0.02}
	case Spring:
		return economy.SeasonalHint{economy.Grain: -0.01}
	case Summer:
		return economy.SeasonalHint{economy.Silk: 0.02, economy.Furs: -0.01}
	case Autumn:
		return economy.SeasonalHint{economy.Grain: -0.02}
	}
	return nil
}
