package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"illitworld/internal/catalog"
)

func TestFilterVideos(t *testing.T) {
	videos := []catalog.Video{
		{ID: "a", Category: catalog.CategoryMisc},
		{ID: "b", Category: catalog.CategoryMusicVideo},
		{ID: "c", Category: catalog.CategoryDancePractice},
		{ID: "d", Category: catalog.CategoryMusicVideo},
	}
	watched := WatchedVideos{"a": 1, "d": 2}
	favorites := FavoriteVideos{"c": true}

	tests := []struct {
		filter VideoFilter
		want   []string
	}{
		{FilterAll, []string{"a", "b", "c", "d"}},
		{FilterWatched, []string{"a", "d"}},
		{FilterUnwatched, []string{"b", "c"}},
		{FilterFavorites, []string{"c"}},
		{FilterMusicVideo, []string{"b", "d"}},
		{FilterDancePractice, []string{"c"}},
		{FilterSuperIllit, []string{}},
		{"bogus", []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterVideos(videos, tt.filter, watched, favorites)))
		})
	}
}

func TestOrderUnwatched(t *testing.T) {
	videos := []catalog.Video{
		{ID: "misc1", Category: catalog.CategoryMisc},
		{ID: "mv1", Category: catalog.CategoryMusicVideo},
		{ID: "dance1", Category: catalog.CategoryDancePractice},
		{ID: "mv2", Category: catalog.CategoryMusicVideo},
	}

	got := OrderUnwatched(videos, WatchedVideos{"mv1": 1})
	assert.Equal(t, []string{"mv2", "misc1", "dance1"}, ids(got))

	all := WatchedVideos{"misc1": 1, "mv1": 1, "dance1": 1, "mv2": 1}
	got = OrderUnwatched(videos, all)
	assert.Equal(t, []string{"mv1", "mv2", "misc1", "dance1"}, ids(got), "falls back to the full list")
}

func TestUnwatchedOrderedCatalog(t *testing.T) {
	got := UnwatchedOrdered(nil)
	require.Len(t, got, len(catalog.Videos()))
	assert.Equal(t, "aim-high", got[len(got)-1].ID)
}

func TestParseVideoFilter(t *testing.T) {
	for in, want := range map[string]VideoFilter{
		"":            FilterAll,
		"ALL":         FilterAll,
		"fav":         FilterFavorites,
		"music video": FilterMusicVideo,
		"super":       FilterSuperIllit,
		" Unwatched ": FilterUnwatched,
	} {
		got, err := ParseVideoFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseVideoFilter("nope")
	assert.Error(t, err)
}

func TestParseDelta(t *testing.T) {
	n, err := ParseDelta("+50")
	require.NoError(t, err)
	assert.Equal(t, 50, n)
	n, err = ParseDelta("-200")
	require.NoError(t, err)
	assert.Equal(t, -200, n)
	_, err = ParseDelta("12abc")
	assert.Error(t, err)
}
