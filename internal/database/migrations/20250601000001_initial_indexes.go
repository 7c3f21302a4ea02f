package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- Related-report lookups scan by subject, newest first
			CREATE INDEX IF NOT EXISTS idx_reports_subject_time
			ON reports (subject_id, created_at DESC, id DESC);

			-- Reporter accuracy aggregates over a reporter's processed reports
			CREATE INDEX IF NOT EXISTS idx_reports_reporter_status
			ON reports (reporter_id, status);

			-- Pending queue listings
			CREATE INDEX IF NOT EXISTS idx_reports_status_time
			ON reports (status, created_at DESC)
			WHERE status = 'pending';

			-- Note and history lookups scan by subject user, newest first
			CREATE INDEX IF NOT EXISTS idx_mod_notes_user_time
			ON mod_notes (user_id, created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_mod_actions_user_time
			ON mod_actions (user_id, created_at DESC);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_reports_subject_time;
			DROP INDEX IF EXISTS idx_reports_reporter_status;
			DROP INDEX IF EXISTS idx_reports_status_time;
			DROP INDEX IF EXISTS idx_mod_notes_user_time;
			DROP INDEX IF EXISTS idx_mod_actions_user_time;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
