package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-discipline-api/internal/middleware"
	"github.com/noah-isme/sma-discipline-api/internal/models"
	"github.com/noah-isme/sma-discipline-api/internal/service"
	"github.com/noah-isme/sma-discipline-api/internal/store"
)

func newAppealHandlerFixture(t *testing.T) (*store.Store, *AppealHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.NewSeeded()
	svc := service.NewAppealService(st, validator.New(), zap.NewNop())
	return st, NewAppealHandler(svc)
}

func TestAppealHandlerSubmit(t *testing.T) {
	st, handler := newAppealHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.SubmitAppealRequest{
		DisciplinaryActionID: "case-2",
		AppealReason:         "The disruption was a medical issue",
		AppealDate:           "2023-11-02",
	})
	req, _ := http.NewRequest(http.MethodPost, "/appeals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	// case-2 belongs to user-2.
	c.Set(middleware.ContextUserKey, studentCaller("user-2"))

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data service.SubmitAppealResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.AppealPending, resp.Data.Appeal.Status)
	assert.Equal(t, models.CaseAppealed, resp.Data.Case.Status)
	assert.Len(t, st.ListAppeals(), 2)
}

func TestAppealHandlerSubmitIgnoresSpoofedStudent(t *testing.T) {
	_, handler := newAppealHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	// The payload claims user-2, but the caller is user-1; the handler
	// overwrites the field so the appeal is judged against the caller.
	body := []byte(`{"disciplinaryActionId":"case-2","studentId":"user-2","appealReason":"x","appealDate":"2023-11-02"}`)
	req, _ := http.NewRequest(http.MethodPost, "/appeals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, studentCaller("user-1"))

	handler.Submit(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAppealHandlerSubmitConflict(t *testing.T) {
	_, handler := newAppealHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	// case-4 already carries appeal-1.
	body, _ := json.Marshal(service.SubmitAppealRequest{
		DisciplinaryActionID: "case-4",
		AppealReason:         "Second attempt",
		AppealDate:           "2023-12-07",
	})
	req, _ := http.NewRequest(http.MethodPost, "/appeals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, studentCaller("user-3"))

	handler.Submit(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAppealHandlerListScopesStudents(t *testing.T) {
	_, handler := newAppealHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/appeals", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, studentCaller("user-1"))

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Appeal `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data, "user-1 has no appeals")
}

func TestAppealHandlerReview(t *testing.T) {
	st, handler := newAppealHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.ReviewAppealRequest{Status: "Approved"})
	req, _ := http.NewRequest(http.MethodPut, "/appeals/appeal-1/review", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "appeal-1"}}
	c.Set(middleware.ContextUserKey, adminCaller())

	handler.Review(c)
	require.Equal(t, http.StatusOK, w.Code)

	appeal, err := st.GetAppeal("appeal-1")
	require.NoError(t, err)
	assert.Equal(t, models.AppealApproved, appeal.Status)
}

func TestAppealHandlerReviewInvalidDecision(t *testing.T) {
	_, handler := newAppealHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.ReviewAppealRequest{Status: "Pending"})
	req, _ := http.NewRequest(http.MethodPut, "/appeals/appeal-1/review", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "appeal-1"}}
	c.Set(middleware.ContextUserKey, adminCaller())

	handler.Review(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
