package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-discipline-api/internal/models"
	"github.com/noah-isme/sma-discipline-api/internal/service"
	appErrors "github.com/noah-isme/sma-discipline-api/pkg/errors"
	"github.com/noah-isme/sma-discipline-api/pkg/response"
)

// CaseHandler handles disciplinary case endpoints.
type CaseHandler struct {
	service *service.CaseService
}

// NewCaseHandler creates a new case handler.
func NewCaseHandler(svc *service.CaseService) *CaseHandler {
	return &CaseHandler{service: svc}
}

// List godoc
// @Summary List disciplinary cases
// @Description Admins see every case; students see their own. Each case carries its derived display status.
// @Tags Cases
// @Produce json
// @Param studentId query string false "Student filter (admin only)"
// @Success 200 {object} response.Envelope
// @Router /cases [get]
func (h *CaseHandler) List(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	studentID := c.Query("studentId")
	if caller.Role == models.RoleStudent {
		// Students only ever see their own register.
		studentID = caller.ID
	}

	cases := h.service.List(c.Request.Context(), studentID)
	response.JSON(c, http.StatusOK, cases, revisionMeta(h.service.Revision()))
}

// Get godoc
// @Summary Get disciplinary case
// @Description Get one case with its derived display status
// @Tags Cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cases/{id} [get]
func (h *CaseHandler) Get(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if caller.Role == models.RoleStudent && view.StudentID != caller.ID {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	response.JSON(c, http.StatusOK, view)
}

// Create godoc
// @Summary Create disciplinary case
// @Description Record a new case against an existing student
// @Tags Cases
// @Accept json
// @Produce json
// @Param payload body service.CreateCaseRequest true "Case payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cases [post]
func (h *CaseHandler) Create(c *gin.Context) {
	var req service.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	view, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, view, revisionMeta(h.service.Revision()))
}

// Update godoc
// @Summary Update disciplinary case
// @Description Fully replace a case; the student-name snapshot is refreshed
// @Tags Cases
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body service.UpdateCaseRequest true "Case payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cases/{id} [put]
func (h *CaseHandler) Update(c *gin.Context) {
	var req service.UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	view, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view, revisionMeta(h.service.Revision()))
}

// Delete godoc
// @Summary Delete disciplinary case
// @Description Remove a case and cascade to its appeals
// @Tags Cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cases/{id} [delete]
func (h *CaseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
