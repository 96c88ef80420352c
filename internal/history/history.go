// Package history keeps the province chronicle: a bounded, append-only
// list of notable moments tagged by category.
package history

import (
	"time"
)

// MaxEntries is how many entries the log retains.
const MaxEntries = 100

// Categories used by the turn pipeline.
const (
	General      = "general"
	Economic     = "economic"
	Military     = "military"
	Diplomatic   = "diplomatic"
	Event        = "event"
	Religious    = "religious"
	Construction = "construction"
)

// Entry is one line of the chronicle.
type Entry struct {
	Turn     int     `json:"turn"`
	Year     int     `json:"year"`
	Message  string  `json:"message"`
	Category string  `json:"category"`
	RealTime float64 `json:"real_time"`
}

// Log is the persisted chronicle.
type Log struct {
	Entries []Entry `json:"entries"`

	now func() time.Time
}

// New returns an empty log stamped with the wall clock.
func New() *Log {
	return &Log{now: time.Now}
}

// SetClock replaces the wall clock used to stamp entries.
func (l *Log) SetClock(now func() time.Time) {
	l.now = now
}

// Add appends an entry, dropping the oldest beyond MaxEntries.
func (l *Log) Add(turn, year int, msg, category string) Entry {
	if category == "" {
		category = General
	}
	now := l.now
	if now == nil {
		now = time.Now
	}
	e := Entry{
		Turn:     turn,
		Year:     year,
		Message:  msg,
		Category: category,
		RealTime: float64(now().UnixNano()) / 1e9,
	}
	l.Entries = append(l.Entries, e)
	if n := len(l.Entries); n > MaxEntries {
		l.Entries = append(l.Entries[:0:0], l.Entries[n-MaxEntries:]...)
	}
	return e
}

// Filter returns the entries of one category; "" or "all" returns every entry.
func (l *Log) Filter(category string) []Entry {
	if category == "" || category == "all" {
		return append([]Entry(nil), l.Entries...)
	}
	var out []Entry
	for _, e := range l.Entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Since returns the entries added at or after turn.
func (l *Log) Since(turn int) []Entry {
	var out []Entry
	for _, e := range l.Entries {
		if e.Turn >= turn {
			out = append(out, e)
		}
	}
	return out
}

// Len is the number of retained entries.
func (l *Log) Len() int { return len(l.Entries) }

// Clear empties the log.
func (l *Log) Clear() { l.Entries = nil }

// Sanitize repairs a loaded log.
func (l *Log) Sanitize() {
	for i := range l.Entries {
		if l.Entries[i].Category == "" {
			l.Entries[i].Category = General
		}
		if l.Entries[i].Year == 0 {
			l.Entries[i].Year = 1520
		}
	}
	if n := len(l.Entries); n > MaxEntries {
		l.Entries = l.Entries[n-MaxEntries:]
	}
}
