package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_game_data (
			user_id TEXT PRIMARY KEY,
			characters TEXT NOT NULL DEFAULT '[]',
			show_photos INTEGER NOT NULL DEFAULT 0,
			watched_videos TEXT NOT NULL DEFAULT '{}',
			favorite_videos TEXT NOT NULL DEFAULT '{}',
			selected_background TEXT NOT NULL DEFAULT 'japanese-classroom',
			last_updated INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_user_game_data_last_updated ON user_game_data(last_updated);`,
	}

	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
