package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SnapshotRepo stores snapshots in the local SQLite database.
type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Load returns nil, nil when the user has no saved data.
func (r *SnapshotRepo) Load(ctx context.Context, userID string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT characters, show_photos, watched_videos, favorite_videos, selected_background, last_updated
		FROM user_game_data
		WHERE user_id = ?
	`, userID)

	var (
		s                             Snapshot
		characters, watched, favorite string
		showPhotos                    int
	)
	if err := row.Scan(&characters, &showPhotos, &watched, &favorite, &s.SelectedBackground, &s.LastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	s.ShowPhotos = showPhotos != 0
	if err := unmarshalColumns(&s, []byte(characters), []byte(watched), []byte(favorite)); err != nil {
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	return &s, nil
}

// Save upserts the full snapshot.
func (r *SnapshotRepo) Save(ctx context.Context, userID string, s *Snapshot) error {
	characters, watched, favorites, err := marshalColumns(s)
	if err != nil {
		return err
	}
	bg := s.SelectedBackground
	if bg == "" {
		bg = DefaultBackground
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO user_game_data (user_id, characters, show_photos, watched_videos, favorite_videos, selected_background, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			characters = excluded.characters,
			show_photos = excluded.show_photos,
			watched_videos = excluded.watched_videos,
			favorite_videos = excluded.favorite_videos,
			selected_background = excluded.selected_background,
			last_updated = excluded.last_updated
	`, userID, string(characters), boolToInt(s.ShowPhotos), string(watched), string(favorites), bg, s.LastUpdated)
	if err != nil {
		return fmt.Errorf("snapshot save: %w", err)
	}
	return nil
}

// Delete removes a user's saved data. Deleting a missing user is not an error.
func (r *SnapshotRepo) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_game_data WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("snapshot delete: %w", err)
	}
	return nil
}

func (r *SnapshotRepo) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
