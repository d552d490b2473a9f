package engine

import (
	"illitworld/internal/catalog"
	"illitworld/internal/storage"
)

type (
	Character      = storage.Character
	WatchedVideos  = storage.WatchedVideos
	FavoriteVideos = storage.FavoriteVideos
)

// DefaultRoster returns the starting roster: every member at level 1 with
// their first misc card selected.
func DefaultRoster() []Character {
	members := catalog.Members()
	out := make([]Character, 0, len(members))
	for _, m := range members {
		out = append(out, Character{
			ID:                m.ID,
			Name:              m.Name,
			Level:             1,
			XP:                0,
			Color:             m.Color,
			SelectedPhotoCard: m.ID + "-misc-1",
		})
	}
	return out
}

func cloneRoster(roster []Character) []Character {
	if roster == nil {
		return nil
	}
	out := make([]Character, len(roster))
	copy(out, roster)
	return out
}

func cloneWatched(w WatchedVideos) WatchedVideos {
	out := make(WatchedVideos, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

func cloneFavorites(f FavoriteVideos) FavoriteVideos {
	out := make(FavoriteVideos, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
