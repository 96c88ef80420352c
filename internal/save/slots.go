package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Info summarizes a slot without decoding the whole game.
type Info struct {
	Slot     int       `json:"slot"`
	Exists   bool      `json:"exists"`
	GameID   string    `json:"game_id,omitempty"`
	Version  string    `json:"version,omitempty"`
	Province string    `json:"province,omitempty"`
	Year     int       `json:"year,omitempty"`
	Turn     int       `json:"turn,omitempty"`
	GameOver bool      `json:"game_over,omitempty"`
	Modified time.Time `json:"modified,omitempty"`
	Err      string    `json:"error,omitempty"`
}

type header struct {
	Version  string `json:"version"`
	GameID   string `json:"game_id"`
	GameOver bool   `json:"game_over"`
	Province struct {
		Name string `json:"name"`
	} `json:"province"`
	Time struct {
		Year int `json:"year"`
		Turn int `json:"turn"`
	} `json:"time"`
}

// Info reads the header of slot. An empty slot yields Exists false and no
// error; an unreadable one sets Err.
func (s *Store) Info(slot int) (Info, error) {
	if err := checkSlot(slot); err != nil {
		return Info{}, err
	}
	info := Info{Slot: slot}
	fi, err := os.Stat(s.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return info, err
	}
	info.Exists = true
	info.Modified = fi.ModTime()

	data, err := os.ReadFile(s.Path(slot))
	if err != nil {
		return info, err
	}
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		info.Err = fmt.Sprintf("%v: %v", ErrMalformed, err)
		return info, nil
	}
	info.GameID = h.GameID
	info.Version = h.Version
	if info.Version == "" {
		info.Version = "1.0"
	}
	info.Province = h.Province.Name
	info.Year = h.Time.Year
	info.Turn = h.Time.Turn
	info.GameOver = h.GameOver
	return info, nil
}

// List returns the header of every slot in order.
func (s *Store) List() ([]Info, error) {
	out := make([]Info, 0, Slots)
	for slot := 1; slot <= Slots; slot++ {
		info, err := s.Info(slot)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}
