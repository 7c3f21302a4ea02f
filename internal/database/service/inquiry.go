package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/access"
	"github.com/wardenlabs/inquest/internal/database/types"
)

// relatedReportLimit caps how many related reports an inquiry carries.
const relatedReportLimit = 10

// ReportProvider supplies the moderator's active report and context
// around it.
type ReportProvider interface {
	// ActiveFor returns the report the moderator currently has claimed,
	// or types.ErrNoActiveClaim when there is none.
	ActiveFor(ctx context.Context, moderatorID uint64) (*types.Report, error)
	// MoreLike returns up to limit other reports against the same subject,
	// newest first.
	MoreLike(ctx context.Context, report *types.Report, limit int) ([]*types.Report, error)
	// AccuracyFor scores the reporter's track record, nil when unscoreable.
	AccuracyFor(ctx context.Context, report *types.Report) (*int, error)
}

// UserProvider resolves subject accounts by their current username.
type UserProvider interface {
	// GetByUsername returns types.ErrUserNotFound when no account carries
	// the username anymore.
	GetByUsername(ctx context.Context, username string) (*types.User, error)
}

// NoteProvider supplies moderator notes attached to a user.
type NoteProvider interface {
	GetByUser(ctx context.Context, userID uint64) ([]*types.ModNote, error)
}

// HistoryProvider supplies past moderation actions against a user.
type HistoryProvider interface {
	GetByUser(ctx context.Context, userID uint64) ([]*types.ModAction, error)
}

// InquiryService assembles the consolidated view a moderator sees while
// working their claimed report. It only reads; claiming and processing
// reports happen elsewhere.
type InquiryService struct {
	access  access.Checker
	reports ReportProvider
	users   UserProvider
	notes   NoteProvider
	history HistoryProvider
	logger  *zap.Logger
}

// NewInquiry creates a new inquiry service.
func NewInquiry(
	checker access.Checker,
	reports ReportProvider,
	users UserProvider,
	notes NoteProvider,
	history HistoryProvider,
	logger *zap.Logger,
) *InquiryService {
	return &InquiryService{
		access:  checker,
		reports: reports,
		users:   users,
		notes:   notes,
		history: history,
		logger:  logger.Named("inquiry_service"),
	}
}

// ForModerator builds the inquiry for the moderator's active claim.
//
// It returns (nil, nil) when the moderator lacks the investigate
// capability, holds no active claim, or the report's subject account no
// longer exists under the recorded username. Collaborator faults are
// returned as errors, never folded into an absent inquiry.
func (s *InquiryService) ForModerator(ctx context.Context, moderator *types.Moderator) (*types.Inquiry, error) {
	// Gate before touching any collaborator.
	if !s.access.HasCapability(moderator, access.CapabilityInvestigate) {
		return nil, nil
	}

	report, err := s.reports.ActiveFor(ctx, moderator.ID)
	if err != nil {
		if errors.Is(err, types.ErrNoActiveClaim) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get active report: %w", err)
	}

	inquiry := &types.Inquiry{
		Moderator: moderator,
		Report:    report,
	}

	var mu sync.Mutex

	p := pool.New().WithContext(ctx).WithCancelOnError()

	// Fetch related reports in parallel
	p.Go(func(ctx context.Context) error {
		related, err := s.reports.MoreLike(ctx, report, relatedReportLimit)
		if err != nil {
			return fmt.Errorf("failed to get related reports: %w", err)
		}

		mu.Lock()
		inquiry.MoreReports = related
		mu.Unlock()

		return nil
	})

	// Fetch reporter accuracy in parallel
	p.Go(func(ctx context.Context) error {
		accuracy, err := s.reports.AccuracyFor(ctx, report)
		if err != nil {
			return fmt.Errorf("failed to get reporter accuracy: %w", err)
		}

		mu.Lock()
		inquiry.Accuracy = accuracy
		mu.Unlock()

		return nil
	})

	// Fetch subject notes in parallel
	p.Go(func(ctx context.Context) error {
		notes, err := s.notes.GetByUser(ctx, report.SubjectID)
		if err != nil {
			return fmt.Errorf("failed to get subject notes: %w", err)
		}

		mu.Lock()
		inquiry.Notes = notes
		mu.Unlock()

		return nil
	})

	// Fetch moderation history in parallel
	p.Go(func(ctx context.Context) error {
		history, err := s.history.GetByUser(ctx, report.SubjectID)
		if err != nil {
			return fmt.Errorf("failed to get moderation history: %w", err)
		}

		mu.Lock()
		inquiry.History = history
		mu.Unlock()

		return nil
	})

	// Fetch the subject account in parallel
	p.Go(func(ctx context.Context) error {
		user, err := s.users.GetByUsername(ctx, report.SubjectName)
		if err != nil {
			// The subject renamed or deleted their account since the
			// report was filed; the inquiry as a whole becomes absent.
			if errors.Is(err, types.ErrUserNotFound) {
				return nil
			}

			return fmt.Errorf("failed to get subject account: %w", err)
		}

		mu.Lock()
		inquiry.User = user
		mu.Unlock()

		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble inquiry: %w", err)
	}

	// Without the subject account there is nothing to investigate.
	if inquiry.User == nil {
		s.logger.Debug("Subject account no longer exists, dropping inquiry",
			zap.Uint64("moderatorID", moderator.ID),
			zap.Int64("reportID", report.ID),
			zap.String("subjectName", report.SubjectName))

		return nil, nil
	}

	s.logger.Debug("Assembled inquiry",
		zap.Uint64("moderatorID", moderator.ID),
		zap.Int64("reportID", report.ID),
		zap.Int("relatedReports", len(inquiry.MoreReports)),
		zap.Int("notes", len(inquiry.Notes)),
		zap.Int("historyEntries", len(inquiry.History)))

	return inquiry, nil
}
