package controllers

import (
	"net/http"

	"academy-service/apperrors"
	"academy-service/services"

	"github.com/gin-gonic/gin"
)

// AdminController serves the CRM reports. Routes are gated on the ADMIN role.
type AdminController struct {
	crmService services.CRMService
}

func NewAdminController(crmService services.CRMService) *AdminController {
	return &AdminController{crmService: crmService}
}

// Students handles GET /admin/students.
func (ac *AdminController) Students(c *gin.Context) {
	students, err := ac.crmService.Students(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// Revenue handles GET /admin/revenue.
func (ac *AdminController) Revenue(c *gin.Context) {
	entries, err := ac.crmService.Revenue(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
