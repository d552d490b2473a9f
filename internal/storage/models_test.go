package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWatched(t *testing.T) {
	w, legacy, err := DecodeWatched([]byte(`{"magnetic-mv": 1700000000000}`))
	require.NoError(t, err)
	assert.Nil(t, legacy)
	assert.Equal(t, WatchedVideos{"magnetic-mv": 1700000000000}, w)

	w, legacy, err = DecodeWatched([]byte(` ["magnetic-mv", "aim-high"]`))
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.Equal(t, []string{"magnetic-mv", "aim-high"}, legacy)

	w, legacy, err = DecodeWatched([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.Nil(t, legacy)

	_, _, err = DecodeWatched([]byte(`"magnetic-mv"`))
	assert.Error(t, err)
}

func TestSnapshotUnmarshalLegacyDocument(t *testing.T) {
	doc := `{
		"characters": [{"id": "yunah", "name": "Yunah", "level": 2, "xp": 250, "color": "#FF6B9D", "selectedPhotoCard": "yunah-misc-1"}],
		"showPhotos": true,
		"watchedVideos": ["cherish-mv"],
		"lastUpdated": 5
	}`
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(doc), &s))

	require.Len(t, s.Characters, 1)
	assert.Equal(t, 250, s.Characters[0].XP)
	assert.True(t, s.ShowPhotos)
	assert.Nil(t, s.WatchedVideos)
	assert.Equal(t, []string{"cherish-mv"}, s.LegacyWatched)
	assert.Nil(t, s.FavoriteVideos)
	assert.Equal(t, int64(5), s.LastUpdated)
}

func TestSnapshotJSONOmitsLegacyField(t *testing.T) {
	s := Snapshot{
		WatchedVideos: WatchedVideos{"a": 1},
		LegacyWatched: []string{"b"},
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"b"`)

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, WatchedVideos{"a": 1}, back.WatchedVideos)
	assert.Nil(t, back.LegacyWatched)
}
