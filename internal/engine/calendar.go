package engine

import "fmt"

// One turn is one day. February always has 28 days.
var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var monthNames = [13]string{
	"", "Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// StartYear is the first year of every game.
const StartYear = 1520

// Date is the in-game calendar position.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// StartDate is 1 Ocak 1520.
func StartDate() Date { return Date{Year: StartYear, Month: 1, Day: 1} }

// MonthName returns the Turkish month name, or "" outside 1..12.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m]
}

// DaysIn returns the length of month m.
func DaysIn(m int) int {
	if m < 1 || m > 12 {
		return 30
	}
	return monthDays[m-1]
}

// String renders the date as "1 Ocak 1520".
func (d Date) String() string {
	return fmt.Sprintf("%d %s %d", d.Day, MonthName(d.Month), d.Year)
}

// advance moves the date one day forward and reports the rollovers.
func (d *Date) advance() (newMonth, newYear bool) {
	d.Day++
	if d.Day <= DaysIn(d.Month) {
		return false, false
	}
	d.Day = 1
	d.Month++
	if d.Month > 12 {
		d.Month = 1
		d.Year++
		return true, true
	}
	return true, false
}

// normalize repairs a loaded date.
func (d *Date) normalize() {
	if d.Year == 0 {
		d.Year = StartYear
	}
	d.Month = max(1, min(12, d.Month))
	d.Day = max(1, min(DaysIn(d.Month), d.Day))
}
