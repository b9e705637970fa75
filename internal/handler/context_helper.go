package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-discipline-api/internal/middleware"
	"github.com/noah-isme/sma-discipline-api/internal/models"
)

func callerFromContext(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

func revisionMeta(rev uint64) map[string]interface{} {
	return map[string]interface{}{"revision": rev}
}
