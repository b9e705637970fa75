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

type appealStore interface {
	ListAppeals() []models.Appeal
	GetAppeal(id string) (*models.Appeal, error)
	GetAction(id string) (*models.DisciplinaryAction, error)
	SubmitAppeal(appeal models.Appeal) (*models.Appeal, *models.DisciplinaryAction, error)
	UpdateAppeal(appeal models.Appeal) (*models.Appeal, error)
	Revision() uint64
}

// SubmitAppealRequest describes a student's appeal submission.
type SubmitAppealRequest struct {
	DisciplinaryActionID string `json:"disciplinaryActionId" validate:"required"`
	StudentID            string `json:"studentId" validate:"required"`
	AppealReason         string `json:"appealReason" validate:"required"`
	EvidenceLink         string `json:"evidenceLink" validate:"omitempty,url"`
	AppealDate           string `json:"appealDate" validate:"required,datetime=2006-01-02"`
}

// ReviewAppealRequest carries the admin decision on a pending appeal.
type ReviewAppealRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}

// SubmitAppealResult bundles the stored appeal with the updated case.
type SubmitAppealResult struct {
	Appeal models.Appeal             `json:"appeal"`
	Case   models.DisciplinaryAction `json:"case"`
}

// AppealService handles the appeal workflow.
type AppealService struct {
	store     appealStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAppealService constructs the service.
func NewAppealService(st appealStore, validate *validator.Validate, logger *zap.Logger) *AppealService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppealService{store: st, validator: validate, logger: logger}
}

// List returns appeals, optionally scoped to one student.
func (s *AppealService) List(ctx context.Context, studentID string) []models.Appeal {
	appeals := s.store.ListAppeals()
	if studentID == "" {
		return appeals
	}
	out := make([]models.Appeal, 0, len(appeals))
	for _, a := range appeals {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out
}

// Get returns one appeal by id.
func (s *AppealService) Get(ctx context.Context, id string) (*models.Appeal, error) {
	appeal, err := s.store.GetAppeal(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appeal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appeal")
	}
	return appeal, nil
}

// Submit files an appeal against the student's own case. The appeal and the
// case's transition to Appealed happen as one store mutation, so a failure
// leaves no half-linked state behind.
func (s *AppealService) Submit(ctx context.Context, req SubmitAppealRequest) (*SubmitAppealResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appeal payload")
	}

	action, err := s.store.GetAction(req.DisciplinaryActionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load case")
	}
	if action.StudentID != req.StudentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students may only appeal their own cases")
	}

	appeal, updated, err := s.store.SubmitAppeal(models.Appeal{
		DisciplinaryActionID: req.DisciplinaryActionID,
		StudentID:            req.StudentID,
		AppealReason:         req.AppealReason,
		EvidenceLink:         req.EvidenceLink,
		AppealDate:           req.AppealDate,
		Status:               models.AppealPending,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
		case errors.Is(err, store.ErrAlreadyAppealed):
			return nil, appErrors.Clone(appErrors.ErrConflict, "case is already under appeal")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit appeal")
		}
	}

	s.logger.Info("appeal submitted",
		zap.String("appeal_id", appeal.ID),
		zap.String("case_id", updated.ID),
		zap.String("student_id", appeal.StudentID))
	return &SubmitAppealResult{Appeal: *appeal, Case: *updated}, nil
}

// Review records the admin decision on a pending appeal. The case's stored
// status stays Appealed; readers derive the displayed outcome from the
// appeal itself.
func (s *AppealService) Review(ctx context.Context, id string, req ReviewAppealRequest) (*models.Appeal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	appeal, err := s.store.GetAppeal(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appeal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appeal")
	}
	if appeal.Status != models.AppealPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "appeal has already been reviewed")
	}

	appeal.Status = models.AppealStatus(req.Status)
	updated, err := s.store.UpdateAppeal(*appeal)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appeal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update appeal")
	}

	s.logger.Info("appeal reviewed", zap.String("appeal_id", id), zap.String("decision", req.Status))
	return updated, nil
}

// Revision exposes the store revision for response metadata.
func (s *AppealService) Revision() uint64 {
	return s.store.Revision()
}
