package save

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/talgya/eyalet/internal/construction"
	"github.com/talgya/eyalet/internal/diplomacy"
	"github.com/talgya/eyalet/internal/engine"
	"github.com/talgya/eyalet/internal/ledger"
)

var clock = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

type firstChoice struct{}

func (firstChoice) Choose(engine.PendingEvent) (int, bool) { return 0, true }

func opts(seed uint64) engine.Options {
	return engine.Options{Seed: seed, EventsEnabled: true, Clock: clock, Chooser: firstChoice{}}
}

func newGame(t *testing.T, seed uint64) *engine.Game {
	t.Helper()
	g, err := engine.NewGame(opts(seed))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// busyGame has buildings, open missions, a running negotiation and a caravan
// on the road.
func busyGame(t *testing.T) *engine.Game {
	t.Helper()
	g := newGame(t, 21)
	g.Resources().Set(ledger.Gold, 20000)
	g.Construction.Buildings[construction.Farm] = &construction.Building{Level: 2}
	g.Construction.Buildings[construction.Mine] = &construction.Building{Level: 1}
	if _, err := g.Build(construction.Barracks); err != nil {
		t.Fatal(err)
	}
	g.Diplomacy.SultanLoyalty = 60
	for _, kind := range []string{diplomacy.MissionTribute, diplomacy.MissionMilitary} {
		if _, ok := g.Diplomacy.AssignMission(kind); !ok {
			t.Fatalf("no %s mission", kind)
		}
	}
	target := g.Diplomacy.NeighborNames()[0]
	g.Diplomacy.Neighbors[target].Value = 50
	if _, err := g.StartNegotiation(diplomacy.ChainMarriage, target); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SendCaravan("balkan_road", 2); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestSaveLoadContinuesIdentically(t *testing.T) {
	s := NewStore(t.TempDir())
	g := busyGame(t)
	if err := s.Save(2, g.State()); err != nil {
		t.Fatal(err)
	}
	loaded, err := s.LoadGame(2, opts(0))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Slot != 2 {
		t.Errorf("slot = %d", loaded.Slot)
	}
	if len(loaded.Diplomacy.Missions) != 2 || len(loaded.Diplomacy.Chains) != 1 || len(loaded.Trade.Caravans) != 1 {
		t.Fatalf("missions %d, chains %d, caravans %d",
			len(loaded.Diplomacy.Missions), len(loaded.Diplomacy.Chains), len(loaded.Trade.Caravans))
	}
	if len(loaded.Construction.Buildings) != len(g.Construction.Buildings) || len(loaded.Construction.Queue) != 1 {
		t.Fatalf("buildings %d, queue %d", len(loaded.Construction.Buildings), len(loaded.Construction.Queue))
	}
	for i := 0; i < 5; i++ {
		g.AdvanceTurn()
		loaded.AdvanceTurn()
		if g.Status() != loaded.Status() {
			t.Fatalf("turn %d diverged:\n%+v\n%+v", i+1, g.Status(), loaded.Status())
		}
	}
}

func TestLegacySaveLoads(t *testing.T) {
	g := newGame(t, 4)
	g.AdvanceTurn()
	data, err := json.Marshal(g.State())
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"version", "warfare", "trade", "workers", "naval", "artillery", "espionage", "religion", "divan"} {
		delete(doc, k)
	}
	legacy, _ := json.Marshal(doc)

	s := NewStore(t.TempDir())
	if err := os.WriteFile(s.Path(1), legacy, 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := s.Info(1)
	if err != nil || info.Version != "1.0" {
		t.Fatalf("info = %+v, %v", info, err)
	}
	from, err := s.Migrate(1)
	if err != nil || from != "1.0" {
		t.Fatalf("migrate from %q: %v", from, err)
	}
	if info, _ = s.Info(1); info.Version != engine.Version {
		t.Errorf("resaved at %s", info.Version)
	}

	loaded, err := s.LoadGame(1, opts(0))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Naval == nil || loaded.Espionage == nil || loaded.Religion == nil || loaded.Divan == nil {
		t.Fatal("missing subsystems after migration")
	}
	if loaded.Turn != 1 || loaded.Resources().Get(ledger.Gold) != g.Resources().Get(ledger.Gold) {
		t.Errorf("turn %d gold %d", loaded.Turn, loaded.Resources().Get(ledger.Gold))
	}
	if v := loaded.Violations(); len(v) > 0 {
		t.Errorf("violations: %v", v)
	}
	loaded.AdvanceTurn()
}

func TestMigrateStepsInOrder(t *testing.T) {
	doc := Document{"version": "1.1", "game_id": "x", "warfare": map[string]any{"marker": true}}
	from, err := Migrate(doc)
	if err != nil || from != "1.1" {
		t.Fatalf("from %q: %v", from, err)
	}
	if doc["version"] != engine.Version {
		t.Errorf("version = %v", doc["version"])
	}
	if w := doc["warfare"].(map[string]any); w["marker"] != true {
		t.Error("existing subsystem overwritten")
	}
	for _, k := range []string{"naval", "artillery", "espionage", "religion", "divan"} {
		if doc[k] == nil {
			t.Errorf("%s not injected", k)
		}
	}
	if _, ok := doc["trade"]; ok {
		t.Error("1.1 step ran on a 1.1 file")
	}
}

func TestNewerVersionRejected(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := os.WriteFile(s.Path(3), []byte(`{"version":"9.0","game_id":"future"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(3); !errors.Is(err, ErrMigration) {
		t.Errorf("load: %v", err)
	}
	if err := s.Save(3, newGame(t, 1).State()); !errors.Is(err, ErrMigration) {
		t.Errorf("overwrite: %v", err)
	}
	if _, err := Migrate(Document{"version": "0.9"}); !errors.Is(err, ErrMigration) {
		t.Errorf("unknown old version: %v", err)
	}
}

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.1", -1},
		{"1.1", "1.1.1", -1},
		{"1.1.1", "1.2", -1},
		{"1.2", "1.2.0", 0},
		{"1.10", "1.2", 1},
	}
	for _, c := range cases {
		if got := CompareVersions(c.a, c.b); got != c.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestSlotErrors(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, slot := range []int{0, 4} {
		if err := s.Save(slot, newGame(t, 1).State()); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("save slot %d: %v", slot, err)
		}
	}
	if _, err := s.Load(2); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("empty slot: %v", err)
	}
	if err := os.WriteFile(s.Path(2), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(2); !errors.Is(err, ErrMalformed) {
		t.Errorf("malformed: %v", err)
	}
	info, err := s.Info(2)
	if err != nil || !info.Exists || info.Err == "" {
		t.Errorf("info = %+v, %v", info, err)
	}
	if err := s.Delete(2); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(2); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestListAndAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	g := newGame(t, 9)
	if err := s.Save(1, g.State()); err != nil {
		t.Fatal(err)
	}
	list, err := s.List()
	if err != nil || len(list) != Slots {
		t.Fatalf("list = %v, %v", list, err)
	}
	if !list[0].Exists || list[0].GameID != g.ID || list[0].Province != "Rum Eyaleti" || list[0].Year != 1520 {
		t.Errorf("slot 1 = %+v", list[0])
	}
	if list[1].Exists || list[2].Exists {
		t.Error("empty slots reported as used")
	}
	tmp, _ := filepath.Glob(filepath.Join(dir, "*.tmp-*"))
	if len(tmp) > 0 {
		t.Errorf("temp files left: %v", tmp)
	}
}

func TestBackupRestore(t *testing.T) {
	s := NewStore(t.TempDir())
	g := newGame(t, 13)
	for i := 0; i < 3; i++ {
		g.AdvanceTurn()
	}
	if err := s.Save(1, g.State()); err != nil {
		t.Fatal(err)
	}
	path, err := s.Backup(1)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "slot_1-000003.json.zst" {
		t.Errorf("backup name = %s", filepath.Base(path))
	}
	if list, _ := s.Backups(1); len(list) != 1 || list[0] != path {
		t.Errorf("backups = %v", list)
	}
	if err := s.Restore(path, 3); err != nil {
		t.Fatal(err)
	}
	st, err := s.Load(3)
	if err != nil {
		t.Fatal(err)
	}
	if st.GameID != g.ID || st.Time.Turn != 3 || st.SaveSlot != 3 {
		t.Errorf("restored %s turn %d slot %d", st.GameID, st.Time.Turn, st.SaveSlot)
	}
}

func TestSaveFileMatchesSchema(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("testdata", "save.schema.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	s := NewStore(t.TempDir())
	g := busyGame(t)
	g.AdvanceTurn()
	if err := s.Save(2, g.State()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(s.Path(2))
	if err != nil {
		t.Fatal(err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatal(err)
	}
	if err := schema.Validate(v); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
