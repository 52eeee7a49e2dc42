package controllers

import (
	"net/http"

	"academy-service/apperrors"
	"academy-service/services"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	courseService services.CourseService
}

func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// List handles GET /courses.
func (cc *CourseController) List(c *gin.Context) {
	courses, err := cc.courseService.ListActive(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}
