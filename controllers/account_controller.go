package controllers

import (
	"net/http"

	"academy-service/apperrors"
	"academy-service/middleware"
	"academy-service/services"

	"github.com/gin-gonic/gin"
)

type AccountController struct {
	accountService services.AccountService
}

func NewAccountController(accountService services.AccountService) *AccountController {
	return &AccountController{accountService: accountService}
}

// Stats handles GET /account/stats.
func (ac *AccountController) Stats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Respond(c, apperrors.ErrUnauthorized)
		return
	}

	stats, err := ac.accountService.Stats(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
