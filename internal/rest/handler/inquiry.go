package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/uptrace/bunrouter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/access"
	"github.com/wardenlabs/inquest/internal/database/types"
	"github.com/wardenlabs/inquest/internal/database/types/enum"
	"github.com/wardenlabs/inquest/internal/rest/convert"
	"github.com/wardenlabs/inquest/internal/rest/middleware/auth"
	restTypes "github.com/wardenlabs/inquest/internal/rest/types"
)

// InquiryAssembler builds the consolidated view for a moderator's active
// claim. Absence is (nil, nil); only collaborator faults are errors.
type InquiryAssembler interface {
	ForModerator(ctx context.Context, moderator *types.Moderator) (*types.Inquiry, error)
}

// ReportManager owns the claim lifecycle around reports.
type ReportManager interface {
	ActiveFor(ctx context.Context, moderatorID uint64) (*types.Report, error)
	Claim(ctx context.Context, moderatorID uint64, reportID int64) error
	Release(ctx context.Context, moderatorID uint64) error
	Process(ctx context.Context, moderatorID uint64, reportID int64, status enum.ReportStatus) error
}

// InquiryHandler handles inquiry-related REST endpoints.
type InquiryHandler struct {
	inquiries InquiryAssembler
	reports   ReportManager
	access    access.Checker
	logger    *zap.Logger
}

// NewInquiryHandler creates a new inquiry handler.
func NewInquiryHandler(inquiries InquiryAssembler, reports ReportManager, logger *zap.Logger) *InquiryHandler {
	return &InquiryHandler{
		inquiries: inquiries,
		reports:   reports,
		access:    access.NewRoleChecker(),
		logger:    logger,
	}
}

// GetInquiry assembles the consolidated inquiry view for the authenticated
// moderator's active report. Responds with active=false when the moderator
// holds no claim or lacks the investigate capability; infrastructure
// failures map to 500 so the two outcomes stay distinct.
func (h *InquiryHandler) GetInquiry(w http.ResponseWriter, req bunrouter.Request) error {
	ctx, span := otel.Tracer("rest").Start(req.Context(), "GetInquiry")
	defer span.End()

	moderator := auth.FromContext(ctx)
	span.SetAttributes(attribute.Int64("moderator.id", int64(moderator.ID)))

	inquiry, err := h.inquiries.ForModerator(ctx, moderator)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to assemble inquiry", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	span.SetAttributes(attribute.Bool("inquiry.active", inquiry != nil))

	if inquiry == nil {
		return bunrouter.JSON(w, restTypes.GetInquiryResponse{Active: false})
	}

	return bunrouter.JSON(w, restTypes.GetInquiryResponse{
		Active:  true,
		Inquiry: convert.Inquiry(inquiry),
	})
}

// ClaimReport marks a pending report as the authenticated moderator's
// active report, replacing any previous claim.
func (h *InquiryHandler) ClaimReport(w http.ResponseWriter, req bunrouter.Request) error {
	ctx, span := otel.Tracer("rest").Start(req.Context(), "ClaimReport")
	defer span.End()

	moderator := auth.FromContext(ctx)
	if !h.access.HasCapability(moderator, access.CapabilityInvestigate) {
		http.Error(w, "Missing investigate capability", http.StatusForbidden)
		return nil
	}

	reportID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid report ID", http.StatusBadRequest)
		return nil
	}

	if err := h.reports.Claim(ctx, moderator.ID, reportID); err != nil {
		switch {
		case errors.Is(err, types.ErrReportNotFound):
			http.Error(w, "Report not found", http.StatusNotFound)
		case errors.Is(err, types.ErrReportNotPending):
			http.Error(w, "Report is not pending", http.StatusConflict)
		default:
			h.logger.Error("Failed to claim report", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}

		return nil
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// processRequest is the body accepted by ProcessInquiry.
type processRequest struct {
	Status string `json:"status"`
}

// ProcessInquiry resolves or dismisses the authenticated moderator's active
// report and releases the claim.
func (h *InquiryHandler) ProcessInquiry(w http.ResponseWriter, req bunrouter.Request) error {
	ctx, span := otel.Tracer("rest").Start(req.Context(), "ProcessInquiry")
	defer span.End()

	moderator := auth.FromContext(ctx)
	if !h.access.HasCapability(moderator, access.CapabilityResolve) {
		http.Error(w, "Missing resolve capability", http.StatusForbidden)
		return nil
	}

	var body processRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil
	}

	status := enum.ReportStatus(body.Status)
	if status != enum.ReportStatusResolved && status != enum.ReportStatusDismissed {
		http.Error(w, "Status must be resolved or dismissed", http.StatusBadRequest)
		return nil
	}

	report, err := h.reports.ActiveFor(ctx, moderator.ID)
	if err != nil {
		if errors.Is(err, types.ErrNoActiveClaim) {
			http.Error(w, "No active inquiry", http.StatusNotFound)
			return nil
		}

		h.logger.Error("Failed to look up active report", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	if err := h.reports.Process(ctx, moderator.ID, report.ID, status); err != nil {
		if errors.Is(err, types.ErrReportNotPending) {
			http.Error(w, "Report is no longer pending", http.StatusConflict)
			return nil
		}

		h.logger.Error("Failed to process report", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// ReleaseInquiry drops the authenticated moderator's active claim. Releasing
// without a claim is a no-op so the endpoint stays idempotent.
func (h *InquiryHandler) ReleaseInquiry(w http.ResponseWriter, req bunrouter.Request) error {
	ctx, span := otel.Tracer("rest").Start(req.Context(), "ReleaseInquiry")
	defer span.End()

	moderator := auth.FromContext(ctx)

	if err := h.reports.Release(ctx, moderator.ID); err != nil {
		h.logger.Error("Failed to release claim", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}
