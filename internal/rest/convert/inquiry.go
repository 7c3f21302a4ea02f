package convert

import (
	"github.com/wardenlabs/inquest/internal/database/types"
	restTypes "github.com/wardenlabs/inquest/internal/rest/types"
)

// Moderator converts a database moderator to REST API moderator.
func Moderator(moderator *types.Moderator) restTypes.Moderator {
	return restTypes.Moderator{
		ID:          moderator.ID,
		Username:    moderator.Username,
		DisplayName: moderator.DisplayName,
		Role:        string(moderator.Role),
	}
}

// Report converts a database report to REST API report.
func Report(report *types.Report) restTypes.Report {
	return restTypes.Report{
		ID:          report.ID,
		ReporterID:  report.ReporterID,
		SubjectID:   report.SubjectID,
		SubjectName: report.SubjectName,
		Category:    string(report.Category),
		Reason:      report.Reason,
		Status:      string(report.Status),
		CreatedAt:   report.CreatedAt,
	}
}

// Reports converts a slice of database reports to REST API reports.
func Reports(reports []*types.Report) []restTypes.Report {
	result := make([]restTypes.Report, len(reports))
	for i, r := range reports {
		result[i] = Report(r)
	}

	return result
}

// Note converts a database note to REST API note.
func Note(note *types.ModNote) restTypes.Note {
	return restTypes.Note{
		ID:         note.ID,
		AuthorID:   note.AuthorID,
		AuthorName: note.AuthorName,
		Content:    note.Content,
		CreatedAt:  note.CreatedAt,
	}
}

// Notes converts a slice of database notes to REST API notes.
func Notes(notes []*types.ModNote) []restTypes.Note {
	result := make([]restTypes.Note, len(notes))
	for i, n := range notes {
		result[i] = Note(n)
	}

	return result
}

// Action converts a database moderation action to REST API action.
func Action(action *types.ModAction) restTypes.Action {
	return restTypes.Action{
		ID:          action.ID,
		ModeratorID: action.ModeratorID,
		Action:      string(action.Action),
		Details:     action.Details,
		CreatedAt:   action.CreatedAt,
	}
}

// Actions converts a slice of database moderation actions to REST API actions.
func Actions(actions []*types.ModAction) []restTypes.Action {
	result := make([]restTypes.Action, len(actions))
	for i, a := range actions {
		result[i] = Action(a)
	}

	return result
}

// User converts a database user to REST API user.
func User(user *types.User) restTypes.User {
	return restTypes.User{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Status:      string(user.Status),
		CreatedAt:   user.CreatedAt,
		LastSeenAt:  user.LastSeenAt,
	}
}

// Inquiry converts an assembled database inquiry to its REST API shape.
func Inquiry(inquiry *types.Inquiry) *restTypes.Inquiry {
	if inquiry == nil {
		return nil
	}

	return &restTypes.Inquiry{
		Moderator:   Moderator(inquiry.Moderator),
		Report:      Report(inquiry.Report),
		Accuracy:    inquiry.Accuracy,
		MoreReports: Reports(inquiry.MoreReports),
		Notes:       Notes(inquiry.Notes),
		History:     Actions(inquiry.History),
		User:        User(inquiry.User),
	}
}
