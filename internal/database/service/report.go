package service

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/claim"
	"github.com/wardenlabs/inquest/internal/database/models"
	"github.com/wardenlabs/inquest/internal/database/types"
	"github.com/wardenlabs/inquest/internal/database/types/enum"
)

// ReportService handles report-related business logic, including the
// active-claim marker that ties a moderator to the report they are
// currently working.
type ReportService struct {
	db     *bun.DB
	model  *models.ReportModel
	claims *claim.Registry
	logger *zap.Logger
}

// NewReport creates a new report service.
func NewReport(db *bun.DB, model *models.ReportModel, claims *claim.Registry, logger *zap.Logger) *ReportService {
	return &ReportService{
		db:     db,
		model:  model,
		claims: claims,
		logger: logger.Named("report_service"),
	}
}

// ActiveFor returns the report the moderator currently has claimed.
// Returns types.ErrNoActiveClaim when the moderator holds no claim, the
// claim has expired, or the claimed report no longer exists.
func (s *ReportService) ActiveFor(ctx context.Context, moderatorID uint64) (*types.Report, error) {
	reportID, err := s.claims.ActiveReportID(ctx, moderatorID)
	if err != nil {
		return nil, err
	}

	report, err := s.model.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, types.ErrReportNotFound) {
			// The claimed report was removed out from under the claim,
			// so drop the stale marker.
			if relErr := s.claims.Release(ctx, moderatorID); relErr != nil {
				s.logger.Warn("Failed to release stale claim",
					zap.Uint64("moderatorID", moderatorID),
					zap.Int64("reportID", reportID),
					zap.Error(relErr))
			}

			return nil, types.ErrNoActiveClaim
		}

		return nil, err
	}

	return report, nil
}

// MoreLike returns up to limit other reports filed against the same
// subject, newest first, excluding the given report itself.
func (s *ReportService) MoreLike(ctx context.Context, report *types.Report, limit int) ([]*types.Report, error) {
	return s.model.GetBySubject(ctx, report.SubjectID, report.ID, limit)
}

// AccuracyFor computes the reporter's precision across their other
// processed reports. Returns nil when there is nothing to score.
func (s *ReportService) AccuracyFor(ctx context.Context, report *types.Report) (*int, error) {
	return s.model.GetReporterAccuracy(ctx, report.ReporterID, report.ID)
}

// Claim marks the report as the moderator's active report, replacing any
// previous claim. Only pending reports can be claimed.
func (s *ReportService) Claim(ctx context.Context, moderatorID uint64, reportID int64) error {
	report, err := s.model.GetByID(ctx, reportID)
	if err != nil {
		return err
	}

	if report.Status != enum.ReportStatusPending {
		return types.ErrReportNotPending
	}

	if err := s.claims.Claim(ctx, moderatorID, reportID); err != nil {
		return err
	}

	s.logger.Debug("Claimed report",
		zap.Uint64("moderatorID", moderatorID),
		zap.Int64("reportID", reportID))

	return nil
}

// Release drops the moderator's active claim, if any.
func (s *ReportService) Release(ctx context.Context, moderatorID uint64) error {
	return s.claims.Release(ctx, moderatorID)
}

// Process resolves or dismisses the moderator's active report and releases
// the claim. The claim is released even when the report was already
// processed by someone else, since holding it serves no purpose.
func (s *ReportService) Process(
	ctx context.Context, moderatorID uint64, reportID int64, status enum.ReportStatus,
) error {
	procErr := s.model.Process(ctx, reportID, moderatorID, status)
	if procErr != nil && !errors.Is(procErr, types.ErrReportNotPending) {
		return procErr
	}

	if err := s.claims.Release(ctx, moderatorID); err != nil {
		s.logger.Warn("Failed to release claim after processing",
			zap.Uint64("moderatorID", moderatorID),
			zap.Int64("reportID", reportID),
			zap.Error(err))
	}

	return procErr
}
