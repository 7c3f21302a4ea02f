package database

import (
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/access"
	"github.com/wardenlabs/inquest/internal/claim"
	"github.com/wardenlabs/inquest/internal/database/service"
)

// Service provides access to all business logic services.
type Service struct {
	report  *service.ReportService
	inquiry *service.InquiryService
}

// NewService creates a new service instance with all services.
func NewService(db *bun.DB, repository *Repository, claims *claim.Registry, logger *zap.Logger) *Service {
	reportService := service.NewReport(db, repository.Report(), claims, logger)

	return &Service{
		report: reportService,
		inquiry: service.NewInquiry(
			access.NewRoleChecker(),
			reportService,
			repository.User(),
			repository.Note(),
			repository.Action(),
			logger,
		),
	}
}

// Report returns the report service.
func (s *Service) Report() *service.ReportService {
	return s.report
}

// Inquiry returns the inquiry service.
func (s *Service) Inquiry() *service.InquiryService {
	return s.inquiry
}
