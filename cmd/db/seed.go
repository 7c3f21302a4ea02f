package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wardenlabs/inquest/internal/database"
	"github.com/wardenlabs/inquest/internal/database/types"
	"github.com/wardenlabs/inquest/internal/database/types/enum"
)

// seedDatabase fills the database with generated development data so the
// API has something to serve locally. Moderators and users go in first;
// reports, notes and actions only reference those rows, so the three
// batches run concurrently.
func seedDatabase(
	ctx context.Context, db database.Client, logger *zap.Logger,
	moderatorCount, userCount, reportCount int64,
) error {
	gofakeit.Seed(time.Now().UnixNano())

	moderators, err := seedModerators(ctx, db, logger, moderatorCount)
	if err != nil {
		return err
	}

	users, err := seedUsers(ctx, db, userCount)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return seedReports(gctx, db, moderators, users, reportCount) })
	g.Go(func() error { return seedNotes(gctx, db, moderators, users) })
	g.Go(func() error { return seedActions(gctx, db, moderators, users) })

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Seeded database",
		zap.Int64("moderators", moderatorCount),
		zap.Int64("users", userCount),
		zap.Int64("reports", reportCount))

	return nil
}

// seedModerators creates moderator accounts: one owner, a reviewer when
// there is room for one, investigators otherwise. API keys are logged so
// local clients can authenticate.
func seedModerators(
	ctx context.Context, db database.Client, logger *zap.Logger, count int64,
) ([]*types.Moderator, error) {
	moderators := make([]*types.Moderator, 0, count)

	for i := range count {
		role := enum.ModeratorRoleInvestigator
		switch {
		case i == 0:
			role = enum.ModeratorRoleOwner
		case i == count-1 && count > 2:
			role = enum.ModeratorRoleReviewer
		}

		moderator := &types.Moderator{
			ID:          uint64(100 + i),
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 99)),
			DisplayName: gofakeit.Name(),
			Role:        role,
			APIKey:      uuid.New().String(),
			CreatedAt:   gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()),
		}

		if err := db.Model().Moderator().Create(ctx, moderator); err != nil {
			return nil, fmt.Errorf("failed to seed moderator: %w", err)
		}

		logger.Info("Created moderator",
			zap.Uint64("id", moderator.ID),
			zap.String("username", moderator.Username),
			zap.String("role", string(role)),
			zap.String("api_key", moderator.APIKey))

		moderators = append(moderators, moderator)
	}

	return moderators, nil
}

// seedUsers creates subject user accounts, mostly active with a sprinkling
// of banned and closed ones.
func seedUsers(ctx context.Context, db database.Client, count int64) ([]*types.User, error) {
	users := make([]*types.User, 0, count)

	for i := range count {
		status := enum.UserStatusActive
		if n := gofakeit.Number(1, 100); n > 90 {
			status = enum.UserStatusBanned
		} else if n > 85 {
			status = enum.UserStatusClosed
		}

		user := &types.User{
			ID:          uint64(1000 + i),
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 99)),
			DisplayName: gofakeit.Name(),
			Status:      status,
			CreatedAt:   gofakeit.DateRange(time.Now().AddDate(-2, 0, 0), time.Now().AddDate(0, -1, 0)),
			LastSeenAt:  gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now()),
		}

		if err := db.Model().User().Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to seed user: %w", err)
		}

		users = append(users, user)
	}

	return users, nil
}

// seedReports files reports between random distinct users. Roughly half are
// already processed so reporter accuracy has data to draw on, and a few
// carry subject names that no longer resolve.
func seedReports(
	ctx context.Context, db database.Client,
	moderators []*types.Moderator, users []*types.User, count int64,
) error {
	categories := []enum.ReportCategory{
		enum.ReportCategoryCheating,
		enum.ReportCategoryHarassment,
		enum.ReportCategorySpam,
		enum.ReportCategoryInappropriate,
		enum.ReportCategoryOther,
	}

	for range count {
		// Pick distinct reporter and subject
		ri := gofakeit.Number(0, len(users)-1)

		si := gofakeit.Number(0, len(users)-2)
		if si >= ri {
			si++
		}

		report := &types.Report{
			ReporterID:  users[ri].ID,
			SubjectID:   users[si].ID,
			SubjectName: users[si].Username,
			Category:    categories[gofakeit.Number(0, len(categories)-1)],
			Reason:      gofakeit.Sentence(12),
			CreatedAt:   gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
		}

		// Renamed or deleted subjects leave dangling references behind
		if gofakeit.Number(1, 100) <= 5 {
			report.SubjectName = fmt.Sprintf("%s_gone", gofakeit.Username())
		}

		if gofakeit.Bool() {
			report.Status = enum.ReportStatusDismissed
			if gofakeit.Number(1, 100) <= 70 {
				report.Status = enum.ReportStatusResolved
			}

			report.ProcessedAt = gofakeit.DateRange(report.CreatedAt, time.Now())
			report.ProcessedBy = moderators[gofakeit.Number(0, len(moderators)-1)].ID
		}

		if err := db.Model().Report().Create(ctx, report); err != nil {
			return fmt.Errorf("failed to seed report: %w", err)
		}
	}

	return nil
}

// seedNotes attaches moderator annotations to random users.
func seedNotes(
	ctx context.Context, db database.Client,
	moderators []*types.Moderator, users []*types.User,
) error {
	for range len(users) / 2 {
		author := moderators[gofakeit.Number(0, len(moderators)-1)]

		note := &types.ModNote{
			UserID:     users[gofakeit.Number(0, len(users)-1)].ID,
			AuthorID:   author.ID,
			AuthorName: author.Username,
			Content:    gofakeit.Sentence(10),
			CreatedAt:  gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()),
		}

		if err := db.Model().Note().Create(ctx, note); err != nil {
			return fmt.Errorf("failed to seed note: %w", err)
		}
	}

	return nil
}

// seedActions records past moderation actions against random users.
func seedActions(
	ctx context.Context, db database.Client,
	moderators []*types.Moderator, users []*types.User,
) error {
	actionTypes := []enum.ActionType{
		enum.ActionTypeWarn,
		enum.ActionTypeMute,
		enum.ActionTypeUnmute,
		enum.ActionTypeBan,
		enum.ActionTypeUnban,
		enum.ActionTypeContentRemoval,
		enum.ActionTypeAccountClosure,
	}

	for range len(users) {
		action := &types.ModAction{
			UserID:      users[gofakeit.Number(0, len(users)-1)].ID,
			ModeratorID: moderators[gofakeit.Number(0, len(moderators)-1)].ID,
			Action:      actionTypes[gofakeit.Number(0, len(actionTypes)-1)],
			Details:     gofakeit.Sentence(8),
			CreatedAt:   gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()),
		}

		if err := db.Model().Action().Log(ctx, action); err != nil {
			return fmt.Errorf("failed to seed action: %w", err)
		}
	}

	return nil
}
