package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/access"
	"github.com/wardenlabs/inquest/internal/database/service"
	"github.com/wardenlabs/inquest/internal/database/types"
	"github.com/wardenlabs/inquest/internal/database/types/enum"
)

var errDown = errors.New("connection refused")

// stubProviders implements every inquiry collaborator with canned results
// and counts how often each lookup runs. The fan-out calls these
// concurrently, so counters are guarded.
type stubProviders struct {
	mu sync.Mutex

	activeReport *types.Report
	activeErr    error
	activeCalls  int

	related      []*types.Report
	relatedErr   error
	relatedCalls int
	relatedHang  bool

	accuracy      *int
	accuracyErr   error
	accuracyCalls int

	notes      []*types.ModNote
	notesErr   error
	notesCalls int

	history      []*types.ModAction
	historyErr   error
	historyCalls int

	user      *types.User
	userErr   error
	userCalls int
}

func (s *stubProviders) ActiveFor(_ context.Context, _ uint64) (*types.Report, error) {
	s.mu.Lock()
	s.activeCalls++
	s.mu.Unlock()

	return s.activeReport, s.activeErr
}

func (s *stubProviders) MoreLike(ctx context.Context, _ *types.Report, _ int) ([]*types.Report, error) {
	s.mu.Lock()
	s.relatedCalls++
	s.mu.Unlock()

	if s.relatedHang {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	return s.related, s.relatedErr
}

func (s *stubProviders) AccuracyFor(_ context.Context, _ *types.Report) (*int, error) {
	s.mu.Lock()
	s.accuracyCalls++
	s.mu.Unlock()

	return s.accuracy, s.accuracyErr
}

func (s *stubProviders) GetByUser(_ context.Context, _ uint64) ([]*types.ModNote, error) {
	s.mu.Lock()
	s.notesCalls++
	s.mu.Unlock()

	return s.notes, s.notesErr
}

func (s *stubProviders) GetByUsername(_ context.Context, _ string) (*types.User, error) {
	s.mu.Lock()
	s.userCalls++
	s.mu.Unlock()

	return s.user, s.userErr
}

func (s *stubProviders) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.activeCalls + s.relatedCalls + s.accuracyCalls + s.notesCalls + s.historyCalls + s.userCalls
}

// stubHistory separates the history lookup so stubProviders can satisfy
// NoteProvider and HistoryProvider despite the identical method names.
type stubHistory struct {
	parent *stubProviders
}

func (h *stubHistory) GetByUser(_ context.Context, _ uint64) ([]*types.ModAction, error) {
	h.parent.mu.Lock()
	h.parent.historyCalls++
	h.parent.mu.Unlock()

	return h.parent.history, h.parent.historyErr
}

func newTestService(t *testing.T, stubs *stubProviders) *service.InquiryService {
	t.Helper()

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	return service.NewInquiry(
		access.NewRoleChecker(), stubs, stubs, stubs, &stubHistory{parent: stubs}, logger,
	)
}

func testModerator(role enum.ModeratorRole) *types.Moderator {
	return &types.Moderator{
		ID:          501,
		Username:    "mod_ellis",
		DisplayName: "Ellis",
		Role:        role,
		CreatedAt:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func testReport(id int64) *types.Report {
	return &types.Report{
		ID:          id,
		ReporterID:  9001,
		SubjectID:   7331,
		SubjectName: "gravel_pit",
		Category:    enum.ReportCategoryHarassment,
		Reason:      "abusive messages in chat",
		Status:      enum.ReportStatusPending,
		CreatedAt:   time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func testSubject() *types.User {
	return &types.User{
		ID:          7331,
		Username:    "gravel_pit",
		DisplayName: "Gravel Pit",
		Status:      enum.UserStatusActive,
		CreatedAt:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestForModerator_FullInquiry(t *testing.T) {
	t.Parallel()

	accuracy := 87
	primary := testReport(1)
	note := &types.ModNote{
		ID: 1, UserID: 7331, AuthorID: 502, AuthorName: "mod_quinn",
		Content: "previously warned for chat behavior",
	}
	stubs := &stubProviders{
		activeReport: primary,
		related:      []*types.Report{testReport(2), testReport(3)},
		accuracy:     &accuracy,
		notes:        []*types.ModNote{note},
		history:      []*types.ModAction{},
		user:         testSubject(),
	}

	svc := newTestService(t, stubs)

	inquiry, err := svc.ForModerator(t.Context(), testModerator(enum.ModeratorRoleInvestigator))
	require.NoError(t, err)
	require.NotNil(t, inquiry)

	assert.Equal(t, uint64(501), inquiry.Moderator.ID)
	assert.Equal(t, primary, inquiry.Report)
	require.NotNil(t, inquiry.Accuracy)
	assert.Equal(t, 87, *inquiry.Accuracy)
	assert.Equal(t, []*types.ModNote{note}, inquiry.Notes)
	assert.Empty(t, inquiry.History)
	assert.Equal(t, testSubject(), inquiry.User)

	// The primary report leads and the related reports keep their order.
	all := inquiry.AllReports()
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(2), all[1].ID)
	assert.Equal(t, int64(3), all[2].ID)

	assert.Equal(t, 1, stubs.activeCalls)
	assert.Equal(t, 1, stubs.relatedCalls)
	assert.Equal(t, 1, stubs.accuracyCalls)
	assert.Equal(t, 1, stubs.notesCalls)
	assert.Equal(t, 1, stubs.historyCalls)
	assert.Equal(t, 1, stubs.userCalls)
}

func TestForModerator_UnauthorizedSkipsAllLookups(t *testing.T) {
	t.Parallel()

	stubs := &stubProviders{activeReport: testReport(1), user: testSubject()}
	svc := newTestService(t, stubs)

	inquiry, err := svc.ForModerator(t.Context(), testModerator(enum.ModeratorRoleReviewer))
	require.NoError(t, err)
	assert.Nil(t, inquiry)
	assert.Equal(t, 0, stubs.totalCalls())
}

func TestForModerator_NilModerator(t *testing.T) {
	t.Parallel()

	stubs := &stubProviders{}
	svc := newTestService(t, stubs)

	inquiry, err := svc.ForModerator(t.Context(), nil)
	require.NoError(t, err)
	assert.Nil(t, inquiry)
	assert.Equal(t, 0, stubs.totalCalls())
}

func TestForModerator_NoActiveClaim(t *testing.T) {
	t.Parallel()

	stubs := &stubProviders{activeErr: types.ErrNoActiveClaim}
	svc := newTestService(t, stubs)

	inquiry, err := svc.ForModerator(t.Context(), testModerator(enum.ModeratorRoleInvestigator))
	require.NoError(t, err)
	assert.Nil(t, inquiry)

	// Only the active-report lookup ran, exactly once.
	assert.Equal(t, 1, stubs.activeCalls)
	assert.Equal(t, 1, stubs.totalCalls())
}

func TestForModerator_AccuracyAbsent(t *testing.T) {
	t.Parallel()

	stubs := &stubProviders{
		activeReport: testReport(1),
		user:         testSubject(),
	}
	svc := newTestService(t, stubs)

	inquiry, err := svc.ForModerator(t.Context(), testModerator(enum.ModeratorRoleAdmin))
	require.NoError(t, err)
	require.NotNil(t, inquiry)

	// A reporter with no scoreable track record is not a failure.
	assert.Nil(t, inquiry.Accuracy)
	assert.Empty(t, inquiry.MoreReports)
	assert.Empty(t, inquiry.Notes)
	assert.Empty(t, inquiry.History)
}

func TestForModerator_SubjectGone(t *testing.T) {
	t.Parallel()

	stubs := &stubProviders{
		activeReport: testReport(1),
		related:      []*types.Report{testReport(2)},
		userErr:      types.ErrUserNotFound,
	}
	svc := newTestService(t, stubs)

	inquiry, err := svc.ForModerator(t.Context(), testModerator(enum.ModeratorRoleInvestigator))
	require.NoError(t, err)

	// The subject renamed or deleted their account, so the whole inquiry
	// is absent even though every other lookup succeeded.
	assert.Nil(t, inquiry)
	assert.Equal(t, 1, stubs.userCalls)
	assert.Equal(t, 1, stubs.relatedCalls)
}

func TestForModerator_ActiveLookupFault(t *testing.T) {
	t.Parallel()

	stubs := &stubProviders{activeErr: errDown}
	svc := newTestService(t, stubs)

	inquiry, err := svc.ForModerator(t.Context(), testModerator(enum.ModeratorRoleInvestigator))
	require.Error(t, err)
	assert.ErrorIs(t, err, errDown)
	assert.Nil(t, inquiry)
}

func TestForModerator_FanOutFaultPropagates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(*stubProviders)
	}{
		{
			name:  "related reports lookup fails",
			setup: func(s *stubProviders) { s.relatedErr = errDown },
		},
		{
			name:  "accuracy lookup fails",
			setup: func(s *stubProviders) { s.accuracyErr = errDown },
		},
		{
			name:  "notes lookup fails",
			setup: func(s *stubProviders) { s.notesErr = errDown },
		},
		{
			name:  "history lookup fails",
			setup: func(s *stubProviders) { s.historyErr = errDown },
		},
		{
			name:  "subject lookup fails",
			setup: func(s *stubProviders) { s.userErr = errDown },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stubs := &stubProviders{
				activeReport: testReport(1),
				user:         testSubject(),
			}
			tt.setup(stubs)

			svc := newTestService(t, stubs)

			inquiry, err := svc.ForModerator(t.Context(), testModerator(enum.ModeratorRoleInvestigator))
			require.Error(t, err)
			assert.ErrorIs(t, err, errDown)
			assert.Nil(t, inquiry)
		})
	}
}

func TestForModerator_FaultCancelsSiblings(t *testing.T) {
	t.Parallel()

	stubs := &stubProviders{
		activeReport: testReport(1),
		relatedHang:  true,
		userErr:      errDown,
	}
	svc := newTestService(t, stubs)

	inquiry, err := svc.ForModerator(t.Context(), testModerator(enum.ModeratorRoleInvestigator))
	require.Error(t, err)
	assert.ErrorIs(t, err, errDown)

	// The related-reports fetch blocked on its context, so the failure
	// of the subject lookup must have canceled it.
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, inquiry)
}
