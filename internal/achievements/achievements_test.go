package achievements

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixed() time.Time { return time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC) }

func TestCountersAdvance(t *testing.T) {
	tr := New()
	tr.OnTurnEnd(Snapshot{TaxRate: 0.1})
	tr.OnTurnEnd(Snapshot{TaxRate: 0})
	tr.OnTurnEnd(Snapshot{AtWar: true})
	if tr.Stats[TurnsPlayed] != 3 || tr.Stats[TurnsWithoutWar] != 0 || tr.Stats[TurnsWithoutTax] != 1 {
		t.Fatalf("stats %v", tr.Stats)
	}
	tr.Increment(BattlesWon, 2)
	tr.Increment("unknown", 5)
	if tr.Stats[BattlesWon] != 2 || len(tr.Stats) != len(counters) {
		t.Fatalf("stats %v", tr.Stats)
	}
	tr.Reset(BattlesWon)
	if tr.Stats[BattlesWon] != 0 {
		t.Fatal("reset")
	}
}

func TestUnlockAndProgress(t *testing.T) {
	tr := New()
	tr.SetClock(fixed)
	got := tr.OnTurnEnd(Snapshot{Gold: 25000, TaxRate: 0.25, Happiness: 72})
	if len(got) != 1 || got[0].ID != "tax_reformer" {
		t.Fatalf("unlocked %+v", got)
	}
	if got[0].Announcement() != "Başarı açıldı: Vergi Reformcusu! 25 puan" {
		t.Fatalf("announcement %q", got[0].Announcement())
	}
	p, _ := tr.ProgressOf("tax_reformer")
	if !p.Unlocked || p.UnlockDate != "2024-03-09 14:05" || p.Progress != 100 {
		t.Fatalf("progress %+v", p)
	}
	p, _ = tr.ProgressOf("treasury_master")
	if p.Unlocked || p.CurrentValue != 25000 || p.Progress != 25 {
		t.Fatalf("treasury %+v", p)
	}
	if again := tr.OnTurnEnd(Snapshot{TaxRate: 0.25, Happiness: 72}); len(again) != 0 {
		t.Fatalf("unlocked twice %+v", again)
	}
	if tr.Points() != 25 || len(tr.Unlocked()) != 1 {
		t.Fatalf("points %d", tr.Points())
	}
}

func TestHiddenAchievements(t *testing.T) {
	tr := New()
	tr.Stats[TurnsPlayed] = 99
	got := tr.OnTurnEnd(Snapshot{AtWar: true, TaxRate: 0.1})
	if len(got) != 1 || got[0].ID != "survivor" || got[0].Announcement() != "Gizli başarı açıldı: Hayatta Kalan!" {
		t.Fatalf("unlocked %+v", got)
	}
	hidden := len(ByCategory(Hidden))
	if len(tr.Locked(true))-len(tr.Locked(false)) != hidden-1 {
		t.Fatal("locked hidden filter")
	}
}

func TestMilletFather(t *testing.T) {
	tr := New()
	if got := tr.Check(Snapshot{}); len(got) != 0 {
		t.Fatalf("unlocked with no millets %+v", got)
	}
	if got := tr.Check(Snapshot{MilletLoyalty: map[string]int{"a": 85, "b": 79}}); len(got) != 0 {
		t.Fatal("unlocked below 80")
	}
	got := tr.Check(Snapshot{MilletLoyalty: map[string]int{"a": 85, "b": 80}})
	if len(got) != 1 || got[0].ID != "millet_father" {
		t.Fatalf("unlocked %+v", got)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save", "achievements.json")
	tr, err := Load(path)
	if err != nil || tr.Stats[TurnsPlayed] != 0 {
		t.Fatalf("missing file: %v", err)
	}
	tr.SetClock(fixed)
	tr.Increment(RaidsCompleted, 20)
	tr.OnTurnEnd(Snapshot{})
	if err := tr.Save(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Stats[RaidsCompleted] != 20 || back.Stats[TurnsPlayed] != 1 {
		t.Fatalf("stats %v", back.Stats)
	}
	if p, _ := back.ProgressOf("raider"); !p.Unlocked {
		t.Fatal("raider not unlocked after reload")
	}
	if back.Points() != tr.Points() {
		t.Fatal("points differ")
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	fresh, err := Load(path)
	if err == nil || fresh == nil || fresh.Points() != 0 {
		t.Fatal("malformed file accepted")
	}
}

func TestSanitize(t *testing.T) {
	tr := &Tracker{
		Stats:        map[string]int{TurnsPlayed: -4, "legacy": 3},
		Achievements: map[string]*Progress{"gone": {Unlocked: true}, "raider": {Progress: 180}, "fatih": nil},
	}
	tr.Sanitize()
	if tr.Stats[TurnsPlayed] != 0 || len(tr.Stats) != len(counters) {
		t.Fatalf("stats %v", tr.Stats)
	}
	if len(tr.Achievements) != len(catalog) || tr.Achievements["raider"].Progress != 100 {
		t.Fatalf("achievements %d", len(tr.Achievements))
	}
	if tr.Completion() != 0 {
		t.Fatal("completion")
	}
}
