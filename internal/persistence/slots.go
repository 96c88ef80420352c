package persistence

import (
	"log/slog"

	"github.com/talgya/eyalet/internal/engine"
	"github.com/talgya/eyalet/internal/save"
)

// IndexedStore is a slot store that keeps the slot index current.
type IndexedStore struct {
	*save.Store
	DB *DB
}

// Save writes the slot file, then indexes it. An index failure is logged
// and does not fail the save.
func (s IndexedStore) Save(slot int, st *engine.State) error {
	if err := s.Store.Save(slot, st); err != nil {
		return err
	}
	s.reindex(slot)
	return nil
}

// Delete removes the slot file and its index row.
func (s IndexedStore) Delete(slot int) error {
	if err := s.Store.Delete(slot); err != nil {
		return err
	}
	s.reindex(slot)
	return nil
}

// Reindex refreshes every slot row from disk.
func (s IndexedStore) Reindex() error {
	list, err := s.Store.List()
	if err != nil {
		return err
	}
	for _, info := range list {
		if err := s.DB.IndexSlot(info); err != nil {
			return err
		}
	}
	return nil
}

func (s IndexedStore) reindex(slot int) {
	info, err := s.Store.Info(slot)
	if err == nil {
		err = s.DB.IndexSlot(info)
	}
	if err != nil {
		slog.Warn("slot index not updated", "slot", slot, "error", err)
	}
}
