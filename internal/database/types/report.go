package types

import (
	"errors"
	"time"

	"github.com/wardenlabs/inquest/internal/database/types/enum"
)

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrReportNotPending = errors.New("report is not pending")
	ErrNoActiveClaim    = errors.New("no active report claim")
)

// Report represents a complaint filed against a subject user.
// Reports are immutable once filed; only their status changes when processed.
type Report struct {
	ID          int64               `bun:",pk,autoincrement" json:"id"`
	ReporterID  uint64              `bun:",notnull"          json:"reporterId"`
	SubjectID   uint64              `bun:",notnull"          json:"subjectId"`
	SubjectName string              `bun:",notnull"          json:"subjectName"` // Username captured at filing time; may dangle after rename or deletion
	Category    enum.ReportCategory `bun:",notnull"          json:"category"`
	Reason      string              `bun:",notnull"          json:"reason"`
	Status      enum.ReportStatus   `bun:",notnull"          json:"status"`
	CreatedAt   time.Time           `bun:",notnull"          json:"createdAt"`
	UpdatedAt   time.Time           `bun:",notnull"          json:"updatedAt"`
	ProcessedAt time.Time           `bun:",nullzero"         json:"processedAt"`
	ProcessedBy uint64              `bun:",nullzero"         json:"processedBy"` // Moderator who resolved or dismissed the report
}
