package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/wardenlabs/inquest/internal/database/types"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.Moderator)(nil),
			(*types.User)(nil),
			(*types.Report)(nil),
			(*types.ModNote)(nil),
			(*types.ModAction)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		// Down migration - drop all tables
		models := []any{
			(*types.ModAction)(nil),
			(*types.ModNote)(nil),
			(*types.Report)(nil),
			(*types.User)(nil),
			(*types.Moderator)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Cascade().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %T: %w", model, err)
			}
		}

		return nil
	})
}
