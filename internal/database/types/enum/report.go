package enum

// ReportCategory classifies what a report accuses the subject of.
type ReportCategory string

const (
	ReportCategoryCheating      ReportCategory = "cheating"
	ReportCategoryHarassment    ReportCategory = "harassment"
	ReportCategorySpam          ReportCategory = "spam"
	ReportCategoryInappropriate ReportCategory = "inappropriate"
	ReportCategoryOther         ReportCategory = "other"
)

// ReportStatus represents where a report sits in its lifecycle.
type ReportStatus string

const (
	// ReportStatusPending means the report awaits a moderation decision.
	ReportStatusPending ReportStatus = "pending"
	// ReportStatusResolved means the report was actioned against the subject.
	ReportStatusResolved ReportStatus = "resolved"
	// ReportStatusDismissed means the report was closed without action.
	ReportStatusDismissed ReportStatus = "dismissed"
)
