package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/database/dbretry"
	"github.com/wardenlabs/inquest/internal/database/types"
	"github.com/wardenlabs/inquest/internal/database/types/enum"
)

// ReportModel handles database operations for filed reports.
type ReportModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReport creates a new report model.
func NewReport(db *bun.DB, logger *zap.Logger) *ReportModel {
	return &ReportModel{
		db:     db,
		logger: logger.Named("db_report"),
	}
}

// GetByID retrieves a report by its ID.
func (r *ReportModel) GetByID(ctx context.Context, id int64) (*types.Report, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Report, error) {
		report := new(types.Report)

		err := r.db.NewSelect().
			Model(report).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrReportNotFound
			}

			return nil, fmt.Errorf("failed to get report: %w", err)
		}

		return report, nil
	})
}

// GetBySubject retrieves other reports filed against the same subject,
// newest first. The report identified by excludeID is left out so callers
// can fetch reports related to one they already hold.
func (r *ReportModel) GetBySubject(
	ctx context.Context, subjectID uint64, excludeID int64, limit int,
) ([]*types.Report, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Report, error) {
		reports := make([]*types.Report, 0, limit)

		err := r.db.NewSelect().
			Model(&reports).
			Where("subject_id = ?", subjectID).
			Where("id != ?", excludeID).
			OrderExpr("created_at DESC, id DESC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get reports by subject: %w", err)
		}

		return reports, nil
	})
}

// GetReporterAccuracy computes how often the reporter's other processed
// reports were resolved rather than dismissed, as a 0-100 percentage.
// Returns nil when the reporter has no other processed reports to judge by.
func (r *ReportModel) GetReporterAccuracy(
	ctx context.Context, reporterID uint64, excludeID int64,
) (*int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*int, error) {
		var counts struct {
			Resolved int64 `bun:"resolved"`
			Total    int64 `bun:"total"`
		}

		err := r.db.NewSelect().
			Model((*types.Report)(nil)).
			ColumnExpr("count(*) FILTER (WHERE status = ?) AS resolved", enum.ReportStatusResolved).
			ColumnExpr("count(*) AS total").
			Where("reporter_id = ?", reporterID).
			Where("id != ?", excludeID).
			Where("status IN (?)", bun.In([]enum.ReportStatus{
				enum.ReportStatusResolved,
				enum.ReportStatusDismissed,
			})).
			Scan(ctx, &counts)
		if err != nil {
			return nil, fmt.Errorf("failed to compute reporter accuracy: %w", err)
		}

		if counts.Total == 0 {
			return nil, nil
		}

		score := int(math.Round(float64(counts.Resolved) * 100 / float64(counts.Total)))

		return &score, nil
	})
}

// Create inserts a new pending report.
func (r *ReportModel) Create(ctx context.Context, report *types.Report) error {
	now := time.Now()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}

	report.UpdatedAt = now
	if report.Status == "" {
		report.Status = enum.ReportStatusPending
	}

	_, err := r.db.NewInsert().
		Model(report).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// Process marks a pending report resolved or dismissed. Reports that were
// already processed are left untouched and reported as not pending. The
// conditional update retries on transient faults; losing the status guard
// race surfaces as ErrReportNotPending, never as a double process.
func (r *ReportModel) Process(
	ctx context.Context, id int64, moderatorID uint64, status enum.ReportStatus,
) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		now := time.Now()

		res, err := r.db.NewUpdate().
			Model((*types.Report)(nil)).
			Set("status = ?", status).
			Set("updated_at = ?", now).
			Set("processed_at = ?", now).
			Set("processed_by = ?", moderatorID).
			Where("id = ?", id).
			Where("status = ?", enum.ReportStatusPending).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to process report: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check processed rows: %w", err)
		}

		if rows == 0 {
			return types.ErrReportNotPending
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("Processed report",
		zap.Int64("reportID", id),
		zap.Uint64("moderatorID", moderatorID),
		zap.String("status", string(status)))

	return nil
}
