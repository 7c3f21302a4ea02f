package database

import (
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/database/models"
)

// Repository provides access to all database models.
type Repository struct {
	moderator *models.ModeratorModel
	report    *models.ReportModel
	note      *models.NoteModel
	action    *models.ActionModel
	user      *models.UserModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		moderator: models.NewModerator(db, logger),
		report:    models.NewReport(db, logger),
		note:      models.NewNote(db, logger),
		action:    models.NewAction(db, logger),
		user:      models.NewUser(db, logger),
	}
}

// Moderator returns the moderator model repository.
func (r *Repository) Moderator() *models.ModeratorModel {
	return r.moderator
}

// Report returns the report model repository.
func (r *Repository) Report() *models.ReportModel {
	return r.report
}

// Note returns the note model repository.
func (r *Repository) Note() *models.NoteModel {
	return r.note
}

// Action returns the moderation log model repository.
func (r *Repository) Action() *models.ActionModel {
	return r.action
}

// User returns the user model repository.
func (r *Repository) User() *models.UserModel {
	return r.user
}
