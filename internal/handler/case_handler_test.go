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

func newCaseHandlerFixture(t *testing.T) (*store.Store, *CaseHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.NewSeeded()
	svc := service.NewCaseService(st, validator.New(), zap.NewNop())
	return st, NewCaseHandler(svc)
}

func adminCaller() *models.User {
	return &models.User{ID: "user-4", Name: "Admin User", Role: models.RoleAdmin, Email: "admin@example.com"}
}

func studentCaller(id string) *models.User {
	return &models.User{ID: id, Role: models.RoleStudent}
}

func TestCaseHandlerListScopesStudents(t *testing.T) {
	_, handler := newCaseHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/cases?studentId=user-2", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, studentCaller("user-1"))

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []models.CaseView      `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	// The query filter is ignored for students; they only get their own cases.
	for _, cs := range body.Data {
		assert.Equal(t, "user-1", cs.StudentID)
	}
	assert.Contains(t, body.Meta, "revision")
}

func TestCaseHandlerListAdminSeesAll(t *testing.T) {
	_, handler := newCaseHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/cases", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, adminCaller())

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []models.CaseView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 4)
}

func TestCaseHandlerGetForeignCaseForbidden(t *testing.T) {
	_, handler := newCaseHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/cases/case-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "case-1"}}
	// case-1 belongs to user-1.
	c.Set(middleware.ContextUserKey, studentCaller("user-2"))

	handler.Get(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCaseHandlerGetDerivesDisplayStatus(t *testing.T) {
	_, handler := newCaseHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/cases/case-4", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "case-4"}}
	c.Set(middleware.ContextUserKey, adminCaller())

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data models.CaseView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.CaseAppealed, body.Data.Status)
	assert.Equal(t, "Appealed (Pending)", body.Data.DisplayStatus)
}

func TestCaseHandlerCreate(t *testing.T) {
	st, handler := newCaseHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.CreateCaseRequest{
		StudentID: "user-2", Date: "2024-04-01", Reason: "Skipping class", ActionTaken: "Detention",
	})
	req, _ := http.NewRequest(http.MethodPost, "/cases", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, adminCaller())

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, st.ListActions(), 5)
}

func TestCaseHandlerCreateInvalidBody(t *testing.T) {
	_, handler := newCaseHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/cases", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, adminCaller())

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaseHandlerUpdateMissReturnsNotFound(t *testing.T) {
	_, handler := newCaseHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.UpdateCaseRequest{
		StudentID: "user-1", Date: "2024-04-01", Reason: "x", ActionTaken: "y", Status: "Pending",
	})
	req, _ := http.NewRequest(http.MethodPut, "/cases/missing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Set(middleware.ContextUserKey, adminCaller())

	handler.Update(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCaseHandlerDeleteCascades(t *testing.T) {
	st, handler := newCaseHandlerFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/cases/case-4", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "case-4"}}
	c.Set(middleware.ContextUserKey, adminCaller())

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, st.ListActions(), 3)
	assert.Empty(t, st.ListAppeals(), "the linked appeal goes with the case")
}
