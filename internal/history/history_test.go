package history

import (
	"fmt"
	"testing"
	"time"
)

func fixed() time.Time { return time.Unix(1700000000, 0) }

func TestAddKeepsNewest(t *testing.T) {
	l := New()
	l.SetClock(fixed)
	for i := 1; i <= MaxEntries+5; i++ {
		l.Add(i, 1520, fmt.Sprintf("kayıt %d", i), "")
	}
	if l.Len() != MaxEntries || l.Entries[0].Turn != 6 || l.Entries[MaxEntries-1].Turn != MaxEntries+5 {
		t.Fatalf("len %d first %d", l.Len(), l.Entries[0].Turn)
	}
	if l.Entries[0].Category != General || l.Entries[0].RealTime != 1700000000 {
		t.Fatalf("entry %+v", l.Entries[0])
	}
}

func TestFilterAndSince(t *testing.T) {
	l := New()
	l.Add(1, 1520, "Yeni yıl", General)
	l.Add(2, 1520, "Zafer", Military)
	l.Add(3, 1520, "Bozgun", Military)
	if got := l.Filter(Military); len(got) != 2 || got[1].Message != "Bozgun" {
		t.Fatalf("military %+v", got)
	}
	if len(l.Filter("all")) != 3 || len(l.Since(2)) != 2 {
		t.Fatal("filter all / since")
	}
	l.Clear()
	if l.Len() != 0 {
		t.Fatal("clear")
	}
}

func TestSanitize(t *testing.T) {
	l := &Log{Entries: []Entry{{Turn: 1, Message: "eski"}}}
	l.Sanitize()
	if l.Entries[0].Category != General || l.Entries[0].Year != 1520 {
		t.Fatalf("entry %+v", l.Entries[0])
	}
	l.Add(2, 1520, "yeni", Event)
	if l.Len() != 2 {
		t.Fatal("add on a loaded log")
	}
}
