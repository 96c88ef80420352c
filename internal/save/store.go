// Package save reads and writes the numbered save slots and upgrades files
// written by older builds.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/talgya/eyalet/internal/engine"
)

// Slots is the number of save slots.
const Slots = 3

var (
	ErrInvalidSlot = errors.New("geçersiz kayıt yuvası")
	ErrSlotEmpty   = errors.New("kayıt yuvası boş")
	ErrMalformed   = errors.New("bozuk kayıt dosyası")
	ErrMigration   = errors.New("kayıt yükseltilemedi")
)

// Store keeps save slots as JSON files in Dir.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store { return &Store{Dir: dir} }

// Path is the file backing slot.
func (s *Store) Path(slot int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("slot_%d.json", slot))
}

func checkSlot(slot int) error {
	if slot < 1 || slot > Slots {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return nil
}

// Save writes st to slot at the current format version. A file written by a
// newer build is never overwritten.
func (s *Store) Save(slot int, st *engine.State) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if info, err := s.Info(slot); err == nil && info.Exists && CompareVersions(info.Version, engine.Version) > 0 {
		return fmt.Errorf("%w: yuva %d sürüm %s içeriyor", ErrMigration, slot, info.Version)
	}
	st.Version = engine.Version
	st.SaveSlot = slot
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	if err := writeFileAtomic(s.Path(slot), data); err != nil {
		return fmt.Errorf("write slot %d: %w", slot, err)
	}
	slog.Debug("game saved", "slot", slot, "game_id", st.GameID, "turn", st.Time.Turn)
	return nil
}

// Load reads slot and upgrades it to the current version in memory.
func (s *Store) Load(slot int) (*engine.State, error) {
	data, err := s.read(slot)
	if err != nil {
		return nil, err
	}
	st, from, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("slot %d: %w", slot, err)
	}
	if from != engine.Version {
		slog.Info("save upgraded", "slot", slot, "from", from, "to", engine.Version)
	}
	st.SaveSlot = slot
	return st, nil
}

// LoadGame loads slot and rebuilds a playable game from it.
func (s *Store) LoadGame(slot int, opts engine.Options) (*engine.Game, error) {
	st, err := s.Load(slot)
	if err != nil {
		return nil, err
	}
	if opts.Saver == nil {
		opts.Saver = s
	}
	return engine.FromState(st, opts), nil
}

// Migrate rewrites slot at the current version. It reports the version the
// file had before.
func (s *Store) Migrate(slot int) (string, error) {
	data, err := s.read(slot)
	if err != nil {
		return "", err
	}
	st, from, err := Decode(data)
	if err != nil {
		return "", err
	}
	if from == engine.Version {
		return from, nil
	}
	g := engine.FromState(st, engine.Options{})
	return from, s.Save(slot, g.State())
}

// Delete removes slot. Deleting an empty slot is not an error.
func (s *Store) Delete(slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	err := os.Remove(s.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *Store) read(slot int) ([]byte, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	return data, err
}

// Decode parses a save file of any known version into the current state
// shape. It returns the version the file was written at.
func Decode(data []byte) (*engine.State, string, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc == nil {
		return nil, "", fmt.Errorf("%w: boş belge", ErrMalformed)
	}
	from, err := Migrate(doc)
	if err != nil {
		return nil, from, err
	}
	upgraded, err := json.Marshal(doc)
	if err != nil {
		return nil, from, fmt.Errorf("%w: %v", ErrMigration, err)
	}
	var st engine.State
	if err := json.Unmarshal(upgraded, &st); err != nil {
		return nil, from, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &st, from, nil
}

// writeFileAtomic replaces path in one rename so a crash never leaves a
// half-written slot behind.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
