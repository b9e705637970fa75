package models

import "fmt"

// CaseStatus enumerates the lifecycle states of a disciplinary case.
type CaseStatus string

const (
	CasePending  CaseStatus = "Pending"
	CaseResolved CaseStatus = "Resolved"
	CaseClosed   CaseStatus = "Closed"
	CaseAppealed CaseStatus = "Appealed"
)

// Valid reports whether the status is a known case status.
func (s CaseStatus) Valid() bool {
	switch s {
	case CasePending, CaseResolved, CaseClosed, CaseAppealed:
		return true
	default:
		return false
	}
}

// DisciplinaryAction records a disciplinary case against a student.
// StudentName is a point-in-time snapshot of the student's name taken when
// the case is created or edited; it is not reconciled after a rename.
type DisciplinaryAction struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId"`
	StudentName string     `json:"studentName"`
	Date        string     `json:"date"`
	Reason      string     `json:"reason"`
	ActionTaken string     `json:"actionTaken"`
	Status      CaseStatus `json:"status"`
	AppealID    string     `json:"appealId,omitempty"`
}

// DisplayStatus derives the status shown to users. Once a case is under
// appeal the outcome of the linked appeal takes over: the stored status
// stays "Appealed" while the display reflects the appeal decision.
func (a DisciplinaryAction) DisplayStatus(appeal *Appeal) string {
	if a.AppealID == "" || appeal == nil {
		return string(a.Status)
	}
	return fmt.Sprintf("%s (%s)", CaseAppealed, appeal.Status)
}

// CaseView is a DisciplinaryAction joined with its appeal outcome for reads.
type CaseView struct {
	DisciplinaryAction
	DisplayStatus string `json:"displayStatus"`
}
