package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abbasia-institute/portal-api/internal/middleware"
	"github.com/abbasia-institute/portal-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.PortalClaims {
	value, exists := c.Get(middleware.ContextStudentKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.PortalClaims)
	if !ok {
		return nil
	}
	return claims
}
