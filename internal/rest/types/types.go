package types

import "time"

// Moderator represents the authenticated staff member working the inquiry.
type Moderator struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// Report represents a filed complaint.
type Report struct {
	ID          int64     `json:"id"`
	ReporterID  uint64    `json:"reporterId"`
	SubjectID   uint64    `json:"subjectId"`
	SubjectName string    `json:"subjectName"`
	Category    string    `json:"category"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Note represents a moderator annotation on the subject account.
type Note struct {
	ID         int64     `json:"id"`
	AuthorID   uint64    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Action represents a past moderation action against the subject account.
type Action struct {
	ID          int64     `json:"id"`
	ModeratorID uint64    `json:"moderatorId"`
	Action      string    `json:"action"`
	Details     string    `json:"details,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// User represents the subject account under investigation.
type User struct {
	ID          uint64    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

// Inquiry bundles everything a moderator needs to work their claimed report.
type Inquiry struct {
	Moderator   Moderator `json:"moderator"`
	Report      Report    `json:"report"`
	Accuracy    *int      `json:"accuracy,omitempty"`
	MoreReports []Report  `json:"moreReports"`
	Notes       []Note    `json:"notes"`
	History     []Action  `json:"history"`
	User        User      `json:"user"`
}

// GetInquiryResponse represents the response for the get inquiry endpoint.
// Active is false when the moderator has no claimed report or lacks the
// investigate capability; Inquiry is omitted in that case.
type GetInquiryResponse struct {
	Active  bool     `json:"active"`
	Inquiry *Inquiry `json:"inquiry,omitempty"`
}
