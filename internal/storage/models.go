package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultBackground is the background selected for new and guest players.
const DefaultBackground = "japanese-classroom"

type Character struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Level             int    `json:"level"`
	XP                int    `json:"xp"`
	Color             string `json:"color"`
	SelectedPhotoCard string `json:"selectedPhotoCard"`
}

// WatchedVideos maps a video id to the epoch-millisecond time of its first
// completion. Presence of a key means watched.
type WatchedVideos map[string]int64

// FavoriteVideos is a set of video ids.
type FavoriteVideos map[string]bool

// Snapshot is the full persisted game state of one user.
type Snapshot struct {
	Characters         []Character    `json:"characters"`
	ShowPhotos         bool           `json:"showPhotos"`
	WatchedVideos      WatchedVideos  `json:"watchedVideos"`
	FavoriteVideos     FavoriteVideos `json:"favoriteVideos,omitempty"`
	SelectedBackground string         `json:"selectedBackground,omitempty"`
	LastUpdated        int64          `json:"lastUpdated"`

	// LegacyWatched holds watched ids stored in the old array form. It is
	// never written back; the engine migrates it into WatchedVideos.
	LegacyWatched []string `json:"-"`
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	var raw struct {
		plain
		WatchedVideos json.RawMessage `json:"watchedVideos"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Snapshot(raw.plain)
	watched, legacy, err := DecodeWatched(raw.WatchedVideos)
	if err != nil {
		return err
	}
	s.WatchedVideos = watched
	s.LegacyWatched = legacy
	return nil
}

// DecodeWatched accepts either the current object form ({"id": ts}) or the
// legacy array form (["id", ...]). Exactly one of the results is non-nil for
// non-empty input.
func DecodeWatched(data []byte) (WatchedVideos, []string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil, nil
	}
	switch data[0] {
	case '[':
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return nil, nil, fmt.Errorf("decode legacy watched videos: %w", err)
		}
		return nil, ids, nil
	case '{':
		var m WatchedVideos
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, nil, fmt.Errorf("decode watched videos: %w", err)
		}
		return m, nil, nil
	default:
		return nil, nil, fmt.Errorf("decode watched videos: unexpected %q", data[0])
	}
}

func marshalColumns(s *Snapshot) (characters, watched, favorites []byte, err error) {
	if characters, err = json.Marshal(s.Characters); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal characters: %w", err)
	}
	w := s.WatchedVideos
	if w == nil {
		w = WatchedVideos{}
	}
	if watched, err = json.Marshal(w); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal watched videos: %w", err)
	}
	f := s.FavoriteVideos
	if f == nil {
		f = FavoriteVideos{}
	}
	if favorites, err = json.Marshal(f); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal favorite videos: %w", err)
	}
	return characters, watched, favorites, nil
}

func unmarshalColumns(s *Snapshot, characters, watched, favorites []byte) error {
	if len(characters) > 0 {
		if err := json.Unmarshal(characters, &s.Characters); err != nil {
			return fmt.Errorf("decode characters: %w", err)
		}
	}
	w, legacy, err := DecodeWatched(watched)
	if err != nil {
		return err
	}
	s.WatchedVideos = w
	s.LegacyWatched = legacy
	if len(bytes.TrimSpace(favorites)) > 0 {
		if err := json.Unmarshal(favorites, &s.FavoriteVideos); err != nil {
			return fmt.Errorf("decode favorite videos: %w", err)
		}
	}
	return nil
}
