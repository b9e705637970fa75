package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-discipline-api/internal/models"
	"github.com/noah-isme/sma-discipline-api/internal/store"
	appErrors "github.com/noah-isme/sma-discipline-api/pkg/errors"
)

type caseStore interface {
	ListActions() []models.DisciplinaryAction
	GetAction(id string) (*models.DisciplinaryAction, error)
	CreateAction(action models.DisciplinaryAction) *models.DisciplinaryAction
	UpdateAction(action models.DisciplinaryAction) (*models.DisciplinaryAction, error)
	DeleteAction(id string) error
	ListAppeals() []models.Appeal
	GetUser(id string) (*models.User, error)
	Revision() uint64
}

// CaseService handles disciplinary cases. Reads join each case against its
// linked appeal so that the displayed status reflects the appeal outcome.
type CaseService struct {
	store     caseStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCaseService constructs the service.
func NewCaseService(st caseStore, validate *validator.Validate, logger *zap.Logger) *CaseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &CaseService{store: st, validator: validate, logger: logger}
	svc.validator.RegisterValidation("case_status", func(fl validator.FieldLevel) bool {
		return models.CaseStatus(fl.Field().String()).Valid()
	})
	return svc
}

// CreateCaseRequest describes the create payload. StudentName is resolved
// server-side from the referenced user.
type CreateCaseRequest struct {
	StudentID   string `json:"studentId" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Reason      string `json:"reason" validate:"required"`
	ActionTaken string `json:"actionTaken" validate:"required"`
	Status      string `json:"status" validate:"omitempty,case_status"`
}

// UpdateCaseRequest describes the full-replace payload for an existing case.
type UpdateCaseRequest struct {
	StudentID   string `json:"studentId" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Reason      string `json:"reason" validate:"required"`
	ActionTaken string `json:"actionTaken" validate:"required"`
	Status      string `json:"status" validate:"required,case_status"`
}

// List returns cases with their display status. When studentID is non-empty
// only that student's cases are returned.
func (s *CaseService) List(ctx context.Context, studentID string) []models.CaseView {
	actions := s.store.ListActions()
	appeals := appealIndex(s.store.ListAppeals())

	out := make([]models.CaseView, 0, len(actions))
	for _, a := range actions {
		if studentID != "" && a.StudentID != studentID {
			continue
		}
		out = append(out, caseView(a, appeals))
	}
	return out
}

// Get returns one case with its display status.
func (s *CaseService) Get(ctx context.Context, id string) (*models.CaseView, error) {
	action, err := s.store.GetAction(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load case")
	}
	view := caseView(*action, appealIndex(s.store.ListAppeals()))
	return &view, nil
}

// Create records a new case against an existing student and snapshots the
// student's name at creation time.
func (s *CaseService) Create(ctx context.Context, req CreateCaseRequest) (*models.CaseView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid case payload")
	}

	student, err := s.resolveStudent(req.StudentID)
	if err != nil {
		return nil, err
	}

	status := models.CaseStatus(req.Status)
	if status == "" {
		status = models.CasePending
	}

	stored := s.store.CreateAction(models.DisciplinaryAction{
		StudentID:   student.ID,
		StudentName: student.Name,
		Date:        req.Date,
		Reason:      req.Reason,
		ActionTaken: req.ActionTaken,
		Status:      status,
	})
	s.logger.Info("case created", zap.String("case_id", stored.ID), zap.String("student_id", student.ID))
	view := caseView(*stored, nil)
	return &view, nil
}

// Update fully replaces the case matching id, refreshing the student-name
// snapshot. The appeal link survives the replace; it is owned by the appeal
// workflow, not by admin edits.
func (s *CaseService) Update(ctx context.Context, id string, req UpdateCaseRequest) (*models.CaseView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid case payload")
	}

	existing, err := s.store.GetAction(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load case")
	}

	student, err := s.resolveStudent(req.StudentID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateAction(models.DisciplinaryAction{
		ID:          id,
		StudentID:   student.ID,
		StudentName: student.Name,
		Date:        req.Date,
		Reason:      req.Reason,
		ActionTaken: req.ActionTaken,
		Status:      models.CaseStatus(req.Status),
		AppealID:    existing.AppealID,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update case")
	}
	s.logger.Info("case updated", zap.String("case_id", id))
	view := caseView(*updated, appealIndex(s.store.ListAppeals()))
	return &view, nil
}

// Delete removes a case together with any appeals filed against it.
func (s *CaseService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteAction(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "case not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete case")
	}
	s.logger.Info("case deleted", zap.String("case_id", id))
	return nil
}

// Revision exposes the store revision for response metadata.
func (s *CaseService) Revision() uint64 {
	return s.store.Revision()
}

func (s *CaseService) resolveStudent(id string) (*models.User, error) {
	user, err := s.store.GetUser(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "referenced student does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if user.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "referenced user is not a student")
	}
	return user, nil
}

func appealIndex(appeals []models.Appeal) map[string]models.Appeal {
	idx := make(map[string]models.Appeal, len(appeals))
	for _, a := range appeals {
		idx[a.ID] = a
	}
	return idx
}

func caseView(a models.DisciplinaryAction, appeals map[string]models.Appeal) models.CaseView {
	var linked *models.Appeal
	if a.AppealID != "" {
		if ap, ok := appeals[a.AppealID]; ok {
			linked = &ap
		}
	}
	return models.CaseView{DisciplinaryAction: a, DisplayStatus: a.DisplayStatus(linked)}
}
