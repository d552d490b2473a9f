package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStoreLoad(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"characters", "show_photos", "watched_videos", "favorite_videos", "selected_background", "last_updated"}).
		AddRow(
			[]byte(`[{"id":"iroha","name":"Iroha","level":1,"xp":150,"color":"#FBBF24","selectedPhotoCard":"iroha-misc-1"}]`),
			true,
			[]byte(`{"cherish-mv":1700000000000}`),
			[]byte(`{"cherish-mv":true}`),
			"japanese-classroom",
			int64(99),
		)
	mock.ExpectQuery("SELECT characters, show_photos").
		WithArgs("user-1").
		WillReturnRows(rows)

	store := NewPostgresStore(mock)
	snap, err := store.Load(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.Characters, 1)
	assert.Equal(t, 150, snap.Characters[0].XP)
	assert.True(t, snap.ShowPhotos)
	assert.Equal(t, WatchedVideos{"cherish-mv": 1700000000000}, snap.WatchedVideos)
	assert.True(t, snap.FavoriteVideos["cherish-mv"])
	assert.Equal(t, int64(99), snap.LastUpdated)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT characters, show_photos").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	snap, err := NewPostgresStore(mock).Load(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT characters, show_photos").
		WithArgs("user-1").
		WillReturnError(boom)

	_, err = NewPostgresStore(mock).Load(context.Background(), "user-1")
	assert.ErrorIs(t, err, boom)
}

func TestPostgresStoreSave(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO user_game_data").
		WithArgs("user-1", pgxmock.AnyArg(), false, `{}`, `{}`, DefaultBackground, int64(7)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = NewPostgresStore(mock).Save(context.Background(), "user-1", &Snapshot{
		Characters:  []Character{{ID: "minju", Name: "Minju"}},
		LastUpdated: 7,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS user_game_data").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, NewPostgresStore(mock).Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
