package save

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// BackupDir holds compressed copies of slot files.
func (s *Store) BackupDir() string { return filepath.Join(s.Dir, "backups") }

// Backup copies slot into a zstd-compressed file named after its turn and
// returns the new path. The slot is validated first so a broken file is
// never archived.
func (s *Store) Backup(slot int) (string, error) {
	data, err := s.read(slot)
	if err != nil {
		return "", err
	}
	st, _, err := Decode(data)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.BackupDir(), fmt.Sprintf("slot_%d-%06d.json.zst", slot, st.Time.Turn))
	if err := os.MkdirAll(s.BackupDir(), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// ReadBackup decompresses a backup file.
func ReadBackup(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

// Restore writes the backup at path into slot, upgrading it on the way.
func (s *Store) Restore(path string, slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	data, err := ReadBackup(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	st, _, err := Decode(data)
	if err != nil {
		return err
	}
	return s.Save(slot, st)
}

// Backups lists the backup files of slot, oldest turn first.
func (s *Store) Backups(slot int) ([]string, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.BackupDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	prefix := fmt.Sprintf("slot_%d-", slot)
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".json.zst") {
			out = append(out, filepath.Join(s.BackupDir(), e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
