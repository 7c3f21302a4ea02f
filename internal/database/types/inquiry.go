package types

// Inquiry is the consolidated view a moderator sees while working a claimed
// report: the report itself, related reports, the subject's record, and the
// subject's note and moderation history. It is assembled fresh per request
// and never stored.
type Inquiry struct {
	Moderator   *Moderator   `json:"moderator"`
	Report      *Report      `json:"report"`
	Accuracy    *int         `json:"accuracy,omitempty"` // Reporter precision 0-100; nil when unscoreable
	MoreReports []*Report    `json:"moreReports"`
	Notes       []*ModNote   `json:"notes"`
	History     []*ModAction `json:"history"`
	User        *User        `json:"user"`
}

// AllReports returns the primary report followed by the related reports,
// preserving the order the similarity lookup returned them in.
func (i *Inquiry) AllReports() []*Report {
	all := make([]*Report, 0, len(i.MoreReports)+1)
	all = append(all, i.Report)
	all = append(all, i.MoreReports...)

	return all
}
