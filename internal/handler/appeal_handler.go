package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-discipline-api/internal/models"
	"github.com/noah-isme/sma-discipline-api/internal/service"
	appErrors "github.com/noah-isme/sma-discipline-api/pkg/errors"
	"github.com/noah-isme/sma-discipline-api/pkg/response"
)

// AppealHandler handles appeal endpoints.
type AppealHandler struct {
	service *service.AppealService
}

// NewAppealHandler creates a new appeal handler.
func NewAppealHandler(svc *service.AppealService) *AppealHandler {
	return &AppealHandler{service: svc}
}

// List godoc
// @Summary List appeals
// @Description Admins see every appeal; students see their own
// @Tags Appeals
// @Produce json
// @Param studentId query string false "Student filter (admin only)"
// @Success 200 {object} response.Envelope
// @Router /appeals [get]
func (h *AppealHandler) List(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	studentID := c.Query("studentId")
	if caller.Role == models.RoleStudent {
		studentID = caller.ID
	}

	appeals := h.service.List(c.Request.Context(), studentID)
	response.JSON(c, http.StatusOK, appeals, revisionMeta(h.service.Revision()))
}

// Submit godoc
// @Summary Submit appeal
// @Description File an appeal against the caller's own case; the case transitions to Appealed in the same mutation
// @Tags Appeals
// @Accept json
// @Produce json
// @Param payload body service.SubmitAppealRequest true "Appeal payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appeals [post]
func (h *AppealHandler) Submit(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SubmitAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	// The submission is always filed on behalf of the caller.
	req.StudentID = caller.ID

	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result, revisionMeta(h.service.Revision()))
}

// Review godoc
// @Summary Review appeal
// @Description Approve or reject a pending appeal
// @Tags Appeals
// @Accept json
// @Produce json
// @Param id path string true "Appeal ID"
// @Param payload body service.ReviewAppealRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appeals/{id}/review [put]
func (h *AppealHandler) Review(c *gin.Context) {
	var req service.ReviewAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	appeal, err := h.service.Review(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, appeal, revisionMeta(h.service.Revision()))
}
