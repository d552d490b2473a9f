package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of a pgx pool used by PostgresStore.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps snapshots in a hosted Postgres (Supabase-style)
// user_game_data table, one row per user.
type PostgresStore struct {
	db    DBTX
	close func()
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// ConnectPostgres opens a pool and ensures the schema exists.
func ConnectPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &PostgresStore{db: pool, close: pool.Close}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_game_data (
			user_id TEXT PRIMARY KEY,
			characters JSONB NOT NULL DEFAULT '[]',
			show_photos BOOLEAN NOT NULL DEFAULT FALSE,
			watched_videos JSONB NOT NULL DEFAULT '{}',
			favorite_videos JSONB NOT NULL DEFAULT '{}',
			selected_background TEXT NOT NULL DEFAULT 'japanese-classroom',
			last_updated BIGINT NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, userID string) (*Snapshot, error) {
	var (
		snap                          Snapshot
		characters, watched, favorite []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT characters, show_photos, watched_videos, favorite_videos, selected_background, last_updated
		FROM user_game_data
		WHERE user_id = $1`, userID,
	).Scan(&characters, &snap.ShowPhotos, &watched, &favorite, &snap.SelectedBackground, &snap.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	if err := unmarshalColumns(&snap, characters, watched, favorite); err != nil {
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	return &snap, nil
}

func (s *PostgresStore) Save(ctx context.Context, userID string, snap *Snapshot) error {
	characters, watched, favorites, err := marshalColumns(snap)
	if err != nil {
		return err
	}
	bg := snap.SelectedBackground
	if bg == "" {
		bg = DefaultBackground
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO user_game_data (user_id, characters, show_photos, watched_videos, favorite_videos, selected_background, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			characters = EXCLUDED.characters,
			show_photos = EXCLUDED.show_photos,
			watched_videos = EXCLUDED.watched_videos,
			favorite_videos = EXCLUDED.favorite_videos,
			selected_background = EXCLUDED.selected_background,
			last_updated = EXCLUDED.last_updated`,
		userID, string(characters), snap.ShowPhotos, string(watched), string(favorites), bg, snap.LastUpdated)
	if err != nil {
		return fmt.Errorf("snapshot save: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
