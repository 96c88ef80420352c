package console

import (
	"errors"
	"strings"
	"testing"

	"github.com/talgya/eyalet/internal/construction"
	"github.com/talgya/eyalet/internal/engine"
	"github.com/talgya/eyalet/internal/ledger"
	"github.com/talgya/eyalet/internal/save"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Yeniçeri":      "yeniceri",
		"YENİÇERİ":      "yeniceri",
		"  Şeyhülislam": "seyhulislam",
		"balkan_road":   "balkan road",
		"Işık":          "isik",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatch(t *testing.T) {
	cands := []string{"mosque", "medrese", "market", "farm", "fortress", "fountain"}
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"farm", "farm", nil},
		{"medr", "medrese", nil},
		{"mosqe", "mosque", nil},
		{"marklet", "market", nil},
		{"m", "", ErrUsage},
		{"fo", "", ErrAmbiguous},
		{"zzzzzz", "", ErrUsage},
	}
	for _, tt := range tests {
		got, err := Match(tt.in, cands)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Match(%q) err = %v, want %v", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Match(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestLookupAliasesAreNotAmbiguous(t *testing.T) {
	r := DefaultRegistry()
	for word, want := range map[string]string{
		"durum":   "durum",
		"DURUM":   "durum",
		"drum":    "durum",
		"kaydet":  "kaydet",
		"kydet":   "kaydet",
		"yükselt": "yukselt",
		"help":    "yardim",
		"?":       "yardim",
	} {
		c, err := r.Lookup(word)
		if err != nil || c.Name != want {
			t.Errorf("Lookup(%q) = %q, %v; want %q", word, c.Name, err, want)
		}
	}
	if _, err := r.Lookup("uçur"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown: %v", err)
	}
}

func TestTokenise(t *testing.T) {
	got := Tokenise(`gemi kadirga "Deniz Kızı"`)
	if len(got) != 3 || got[2] != "Deniz Kızı" {
		t.Errorf("tokens = %q", got)
	}
}

func newSession(t *testing.T) *Session {
	t.Helper()
	g, err := engine.NewGame(engine.Options{Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	return NewSession(g, save.NewStore(t.TempDir()), engine.Options{})
}

func TestExecuteActions(t *testing.T) {
	s := newSession(t)
	if _, err := s.Execute("vergi 20"); err != nil {
		t.Fatal(err)
	}
	var rate float64
	s.View(func(g *engine.Game) { rate = g.Economy.TaxRate })
	if rate != 0.2 {
		t.Errorf("tax rate = %v", rate)
	}

	out, err := s.Execute("inşa çiftlik")
	if err != nil {
		out, err = s.Execute("insa farm")
	}
	if err != nil || !strings.Contains(out, "tur") {
		t.Fatalf("build: %q, %v", out, err)
	}
	s.View(func(g *engine.Game) {
		if len(g.Construction.Queue) != 1 || g.Construction.Queue[0].Type != construction.Farm {
			t.Errorf("queue = %+v", g.Construction.Queue)
		}
	})

	if _, err := s.Execute("vergi"); !errors.Is(err, ErrUsage) {
		t.Errorf("missing argument: %v", err)
	}
	if _, err := s.Execute("vergi 90"); err == nil {
		t.Error("out of range tax accepted")
	}
}

func TestTurnsObservedAndCapped(t *testing.T) {
	s := newSession(t)
	seen := 0
	s.OnTurn(func(*engine.Game, engine.TurnReport) { seen++ })
	out, err := s.Execute("tur 100")
	if err != nil {
		t.Fatal(err)
	}
	if seen != MaxTurnsPerCommand {
		t.Errorf("played %d turns", seen)
	}
	if !strings.Contains(out, "(tur 30)") {
		t.Errorf("output missing last turn header")
	}
}

func TestSaveAndLoadCommands(t *testing.T) {
	s := newSession(t)
	if _, err := s.Execute("kaydet 2"); err != nil {
		t.Fatal(err)
	}
	var id string
	s.View(func(g *engine.Game) {
		id = g.ID
		g.Resources().Set(ledger.Gold, 1)
	})
	out, err := s.Execute("yuvalar")
	if err != nil || !strings.Contains(out, "2. Rum Eyaleti") || !strings.Contains(out, "1. boş") {
		t.Fatalf("slots: %q, %v", out, err)
	}
	if _, err := s.Execute("yükle 2"); err != nil {
		t.Fatal(err)
	}
	s.View(func(g *engine.Game) {
		if g.ID != id || g.Resources().Get(ledger.Gold) != 15000 || g.Slot != 2 {
			t.Errorf("loaded %s gold %d slot %d", g.ID, g.Resources().Get(ledger.Gold), g.Slot)
		}
	})
	if _, err := s.Execute("yükle 3"); !errors.Is(err, save.ErrSlotEmpty) {
		t.Errorf("empty slot: %v", err)
	}
}
