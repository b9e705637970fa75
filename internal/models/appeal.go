package models

// AppealStatus enumerates appeal review outcomes.
type AppealStatus string

const (
	AppealPending  AppealStatus = "Pending"
	AppealApproved AppealStatus = "Approved"
	AppealRejected AppealStatus = "Rejected"
)

// Valid reports whether the status is a known appeal status.
func (s AppealStatus) Valid() bool {
	switch s {
	case AppealPending, AppealApproved, AppealRejected:
		return true
	default:
		return false
	}
}

// Appeal is a student's challenge of a disciplinary case.
type Appeal struct {
	ID                   string       `json:"id"`
	DisciplinaryActionID string       `json:"disciplinaryActionId"`
	StudentID            string       `json:"studentId"`
	AppealReason         string       `json:"appealReason"`
	EvidenceLink         string       `json:"evidenceLink,omitempty"`
	AppealDate           string       `json:"appealDate"`
	Status               AppealStatus `json:"status"`
}
