package engine

import "illitworld/internal/catalog"

// VideoFilter selects a subset of the catalog for the video grid.
type VideoFilter string

const (
	FilterAll           VideoFilter = "All"
	FilterWatched       VideoFilter = "Watched"
	FilterUnwatched     VideoFilter = "Unwatched"
	FilterFavorites     VideoFilter = "Favorites"
	FilterMusicVideo    VideoFilter = VideoFilter(catalog.CategoryMusicVideo)
	FilterDancePractice VideoFilter = VideoFilter(catalog.CategoryDancePractice)
	FilterSuperIllit    VideoFilter = VideoFilter(catalog.CategorySuperIllit)
	FilterMisc          VideoFilter = VideoFilter(catalog.CategoryMisc)
)

// Filters lists the filters in display order.
var Filters = []VideoFilter{
	FilterAll, FilterWatched, FilterUnwatched, FilterFavorites,
	FilterMusicVideo, FilterDancePractice, FilterSuperIllit, FilterMisc,
}

// FilterVideos applies f to videos. Unknown filters return everything.
func FilterVideos(videos []catalog.Video, f VideoFilter, watched WatchedVideos, favorites FavoriteVideos) []catalog.Video {
	var keep func(catalog.Video) bool
	switch f {
	case FilterWatched:
		keep = func(v catalog.Video) bool { _, ok := watched[v.ID]; return ok }
	case FilterUnwatched:
		keep = func(v catalog.Video) bool { _, ok := watched[v.ID]; return !ok }
	case FilterFavorites:
		keep = func(v catalog.Video) bool { return favorites[v.ID] }
	case FilterMusicVideo, FilterDancePractice, FilterSuperIllit, FilterMisc:
		keep = func(v catalog.Video) bool { return VideoFilter(v.Category) == f }
	default:
		out := make([]catalog.Video, len(videos))
		copy(out, videos)
		return out
	}

	out := make([]catalog.Video, 0, len(videos))
	for _, v := range videos {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// FilteredVideos applies f to the built-in catalog.
func FilteredVideos(f VideoFilter, watched WatchedVideos, favorites FavoriteVideos) []catalog.Video {
	return FilterVideos(catalog.Videos(), f, watched, favorites)
}

// OrderUnwatched returns the unwatched videos with music videos first, keeping
// catalog order inside each group. When everything is watched the whole list
// is used instead.
func OrderUnwatched(videos []catalog.Video, watched WatchedVideos) []catalog.Video {
	list := FilterVideos(videos, FilterUnwatched, watched, nil)
	if len(list) == 0 {
		list = videos
	}
	out := make([]catalog.Video, 0, len(list))
	for _, v := range list {
		if v.Category == catalog.CategoryMusicVideo {
			out = append(out, v)
		}
	}
	for _, v := range list {
		if v.Category != catalog.CategoryMusicVideo {
			out = append(out, v)
		}
	}
	return out
}

func UnwatchedOrdered(watched WatchedVideos) []catalog.Video {
	return OrderUnwatched(catalog.Videos(), watched)
}
