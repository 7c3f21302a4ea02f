package convert_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenlabs/inquest/internal/database/types"
	"github.com/wardenlabs/inquest/internal/database/types/enum"
	"github.com/wardenlabs/inquest/internal/rest/convert"
)

func TestInquiry(t *testing.T) {
	t.Parallel()

	t.Run("nil inquiry", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, convert.Inquiry(nil))
	})

	t.Run("full inquiry", func(t *testing.T) {
		t.Parallel()

		filedAt := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
		accuracy := 84

		inquiry := &types.Inquiry{
			Moderator: &types.Moderator{
				ID:          501,
				Username:    "investigator1",
				DisplayName: "Investigator One",
				Role:        enum.ModeratorRoleInvestigator,
				APIKey:      "secret-key",
			},
			Report: &types.Report{
				ID:          1,
				ReporterID:  2001,
				SubjectID:   1001,
				SubjectName: "subject1",
				Category:    enum.ReportCategoryHarassment,
				Reason:      "verbal abuse in chat",
				Status:      enum.ReportStatusPending,
				CreatedAt:   filedAt,
			},
			Accuracy: &accuracy,
			MoreReports: []*types.Report{
				{ID: 9, SubjectID: 1001, Category: enum.ReportCategorySpam, Status: enum.ReportStatusPending},
				{ID: 4, SubjectID: 1001, Category: enum.ReportCategoryOther, Status: enum.ReportStatusResolved},
			},
			Notes: []*types.ModNote{
				{ID: 11, UserID: 1001, AuthorID: 502, AuthorName: "reviewer1", Content: "repeat offender", CreatedAt: filedAt},
			},
			History: []*types.ModAction{
				{ID: 21, UserID: 1001, ModeratorID: 502, Action: enum.ActionTypeWarn, Details: "first warning", CreatedAt: filedAt},
				{ID: 22, UserID: 1001, ModeratorID: 503, Action: enum.ActionTypeMute, CreatedAt: filedAt},
			},
			User: &types.User{
				ID:          1001,
				Username:    "subject1",
				DisplayName: "Subject One",
				Status:      enum.UserStatusActive,
				CreatedAt:   filedAt,
			},
		}

		result := convert.Inquiry(inquiry)
		require.NotNil(t, result)

		assert.Equal(t, uint64(501), result.Moderator.ID)
		assert.Equal(t, "investigator1", result.Moderator.Username)
		assert.Equal(t, "investigator", result.Moderator.Role)

		assert.Equal(t, int64(1), result.Report.ID)
		assert.Equal(t, uint64(2001), result.Report.ReporterID)
		assert.Equal(t, "harassment", result.Report.Category)
		assert.Equal(t, "pending", result.Report.Status)
		assert.Equal(t, filedAt, result.Report.CreatedAt)

		require.NotNil(t, result.Accuracy)
		assert.Equal(t, 84, *result.Accuracy)

		require.Len(t, result.MoreReports, 2)
		assert.Equal(t, int64(9), result.MoreReports[0].ID)
		assert.Equal(t, int64(4), result.MoreReports[1].ID)

		require.Len(t, result.Notes, 1)
		assert.Equal(t, "repeat offender", result.Notes[0].Content)
		assert.Equal(t, "reviewer1", result.Notes[0].AuthorName)

		require.Len(t, result.History, 2)
		assert.Equal(t, "warn", result.History[0].Action)
		assert.Equal(t, "first warning", result.History[0].Details)
		assert.Equal(t, "mute", result.History[1].Action)
		assert.Empty(t, result.History[1].Details)

		assert.Equal(t, uint64(1001), result.User.ID)
		assert.Equal(t, "active", result.User.Status)
	})

	t.Run("accuracy stays nil when unscoreable", func(t *testing.T) {
		t.Parallel()

		inquiry := &types.Inquiry{
			Moderator: &types.Moderator{ID: 501},
			Report:    &types.Report{ID: 1},
			User:      &types.User{ID: 1001},
		}

		result := convert.Inquiry(inquiry)
		require.NotNil(t, result)
		assert.Nil(t, result.Accuracy)
	})
}

func TestReports(t *testing.T) {
	t.Parallel()

	t.Run("preserves order", func(t *testing.T) {
		t.Parallel()

		reports := []*types.Report{
			{ID: 30, Status: enum.ReportStatusPending},
			{ID: 10, Status: enum.ReportStatusResolved},
			{ID: 20, Status: enum.ReportStatusDismissed},
		}

		result := convert.Reports(reports)
		require.Len(t, result, 3)
		assert.Equal(t, int64(30), result[0].ID)
		assert.Equal(t, int64(10), result[1].ID)
		assert.Equal(t, int64(20), result[2].ID)
	})

	t.Run("empty slice stays non-nil", func(t *testing.T) {
		t.Parallel()

		result := convert.Reports([]*types.Report{})
		require.NotNil(t, result)
		assert.Empty(t, result)
	})
}
