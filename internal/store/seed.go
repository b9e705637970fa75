package store

import "github.com/noah-isme/sma-discipline-api/internal/models"

// NewSeeded returns a store preloaded with the demo roster and case history.
// Intended for development and manual testing; production deployments start
// empty and provision users through the API.
func NewSeeded() *Store {
	s := New()
	s.users = []models.User{
		{ID: "user-1", Name: "Alice Johnson", Role: models.RoleStudent, Email: "alice@example.com", Password: "password"},
		{ID: "user-2", Name: "Bob Smith", Role: models.RoleStudent, Email: "bob@example.com", Password: "password"},
		{ID: "user-3", Name: "Charlie Brown", Role: models.RoleStudent, Email: "charlie@example.com", Password: "password"},
		{ID: "user-4", Name: "Admin User", Role: models.RoleAdmin, Email: "admin@example.com", Password: "password"},
	}
	s.actions = []models.DisciplinaryAction{
		{
			ID:          "case-1",
			StudentID:   "user-1",
			StudentName: "Alice Johnson",
			Date:        "2023-10-26",
			Reason:      "Late submission of assignment",
			ActionTaken: "Warning issued",
			Status:      models.CaseResolved,
		},
		{
			ID:          "case-2",
			StudentID:   "user-2",
			StudentName: "Bob Smith",
			Date:        "2023-11-01",
			Reason:      "Disruptive behavior in class",
			ActionTaken: "Detention assigned",
			Status:      models.CasePending,
		},
		{
			ID:          "case-3",
			StudentID:   "user-1",
			StudentName: "Alice Johnson",
			Date:        "2023-11-15",
			Reason:      "Unexcused absence",
			ActionTaken: "Parent contacted",
			Status:      models.CaseClosed,
		},
		{
			ID:          "case-4",
			StudentID:   "user-3",
			StudentName: "Charlie Brown",
			Date:        "2023-12-05",
			Reason:      "Plagiarism on essay",
			ActionTaken: "Zero grade for assignment",
			Status:      models.CaseAppealed,
			AppealID:    "appeal-1",
		},
	}
	s.appeals = []models.Appeal{
		{
			ID:                   "appeal-1",
			DisciplinaryActionID: "case-4",
			StudentID:            "user-3",
			AppealReason:         "I believe there was a misunderstanding regarding the source citation. I used a different style guide.",
			EvidenceLink:         "https://example.com/evidence-charlie.pdf",
			AppealDate:           "2023-12-06",
			Status:               models.AppealPending,
		},
	}
	return s
}
