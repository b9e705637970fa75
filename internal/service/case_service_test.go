package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-discipline-api/internal/models"
	"github.com/noah-isme/sma-discipline-api/internal/store"
	appErrors "github.com/noah-isme/sma-discipline-api/pkg/errors"
)

func newCaseFixture(t *testing.T) (*store.Store, *CaseService, *models.User) {
	t.Helper()
	st := store.New()
	alice, _ := st.UpsertUser(models.User{Name: "Alice Johnson", Role: models.RoleStudent, Email: "alice@example.com", Password: "pw"})
	svc := NewCaseService(st, validator.New(), zap.NewNop())
	return st, svc, alice
}

func TestCaseServiceCreateSnapshotsStudentName(t *testing.T) {
	_, svc, alice := newCaseFixture(t)

	view, err := svc.Create(context.Background(), CreateCaseRequest{
		StudentID:   alice.ID,
		Date:        "2024-01-01",
		Reason:      "Late submission",
		ActionTaken: "Warning issued",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", view.StudentName)
	assert.Equal(t, models.CasePending, view.Status, "status defaults to Pending")
	assert.Equal(t, "Pending", view.DisplayStatus)
}

func TestCaseServiceCreateRejectsUnknownStudent(t *testing.T) {
	_, svc, _ := newCaseFixture(t)

	_, err := svc.Create(context.Background(), CreateCaseRequest{
		StudentID: "missing", Date: "2024-01-01", Reason: "x", ActionTaken: "y",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCaseServiceCreateRejectsAdminTarget(t *testing.T) {
	st, svc, _ := newCaseFixture(t)
	admin, _ := st.UpsertUser(models.User{Name: "Admin", Role: models.RoleAdmin, Email: "admin@example.com", Password: "pw"})

	_, err := svc.Create(context.Background(), CreateCaseRequest{
		StudentID: admin.ID, Date: "2024-01-01", Reason: "x", ActionTaken: "y",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCaseServiceCreateRejectsBadDate(t *testing.T) {
	_, svc, alice := newCaseFixture(t)

	_, err := svc.Create(context.Background(), CreateCaseRequest{
		StudentID: alice.ID, Date: "01/02/2024", Reason: "x", ActionTaken: "y",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCaseServiceListScopesByStudent(t *testing.T) {
	st, svc, alice := newCaseFixture(t)
	bob, _ := st.UpsertUser(models.User{Name: "Bob", Role: models.RoleStudent, Email: "bob@example.com", Password: "pw"})

	_, err := svc.Create(context.Background(), CreateCaseRequest{StudentID: alice.ID, Date: "2024-01-01", Reason: "x", ActionTaken: "y"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateCaseRequest{StudentID: bob.ID, Date: "2024-01-02", Reason: "x", ActionTaken: "y"})
	require.NoError(t, err)

	all := svc.List(context.Background(), "")
	assert.Len(t, all, 2)

	scoped := svc.List(context.Background(), alice.ID)
	require.Len(t, scoped, 1)
	assert.Equal(t, alice.ID, scoped[0].StudentID)
}

func TestCaseServiceDisplayStatusFollowsAppeal(t *testing.T) {
	st, svc, alice := newCaseFixture(t)
	view, err := svc.Create(context.Background(), CreateCaseRequest{StudentID: alice.ID, Date: "2024-01-01", Reason: "x", ActionTaken: "y"})
	require.NoError(t, err)

	appeal, _, err := st.SubmitAppeal(models.Appeal{DisciplinaryActionID: view.ID, StudentID: alice.ID, AppealReason: "r", AppealDate: "2024-01-02"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseAppealed, got.Status)
	assert.Equal(t, "Appealed (Pending)", got.DisplayStatus)

	appeal.Status = models.AppealApproved
	_, err = st.UpdateAppeal(*appeal)
	require.NoError(t, err)

	got, err = svc.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseAppealed, got.Status, "stored status stays Appealed")
	assert.Equal(t, "Appealed (Approved)", got.DisplayStatus)
}

func TestCaseServiceUpdatePreservesAppealLink(t *testing.T) {
	st, svc, alice := newCaseFixture(t)
	view, err := svc.Create(context.Background(), CreateCaseRequest{StudentID: alice.ID, Date: "2024-01-01", Reason: "x", ActionTaken: "y"})
	require.NoError(t, err)
	appeal, _, err := st.SubmitAppeal(models.Appeal{DisciplinaryActionID: view.ID, StudentID: alice.ID, AppealReason: "r", AppealDate: "2024-01-02"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), view.ID, UpdateCaseRequest{
		StudentID: alice.ID, Date: "2024-01-01", Reason: "amended", ActionTaken: "y", Status: "Appealed",
	})
	require.NoError(t, err)
	assert.Equal(t, "amended", updated.Reason)
	assert.Equal(t, appeal.ID, updated.AppealID, "admin edits must not drop the appeal link")
}

func TestCaseServiceUpdateRefreshesSnapshot(t *testing.T) {
	st, svc, alice := newCaseFixture(t)
	view, err := svc.Create(context.Background(), CreateCaseRequest{StudentID: alice.ID, Date: "2024-01-01", Reason: "x", ActionTaken: "y"})
	require.NoError(t, err)

	st.UpsertUser(models.User{ID: alice.ID, Name: "Alice Renamed"})

	// The stored snapshot is stale until the next edit.
	stale, err := svc.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", stale.StudentName)

	updated, err := svc.Update(context.Background(), view.ID, UpdateCaseRequest{
		StudentID: alice.ID, Date: "2024-01-01", Reason: "x", ActionTaken: "y", Status: "Pending",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", updated.StudentName)
}

func TestCaseServiceUpdateNotFound(t *testing.T) {
	_, svc, alice := newCaseFixture(t)

	_, err := svc.Update(context.Background(), "missing", UpdateCaseRequest{
		StudentID: alice.ID, Date: "2024-01-01", Reason: "x", ActionTaken: "y", Status: "Pending",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCaseServiceDeleteCascades(t *testing.T) {
	st, svc, alice := newCaseFixture(t)
	view, err := svc.Create(context.Background(), CreateCaseRequest{StudentID: alice.ID, Date: "2024-01-01", Reason: "x", ActionTaken: "y"})
	require.NoError(t, err)
	_, _, err = st.SubmitAppeal(models.Appeal{DisciplinaryActionID: view.ID, StudentID: alice.ID, AppealReason: "r", AppealDate: "2024-01-02"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), view.ID))
	assert.Empty(t, st.ListActions())
	assert.Empty(t, st.ListAppeals())
}
