package controllers

import (
	"net/http"

	"academy-service/apperrors"
	"academy-service/middleware"
	"academy-service/models"
	"academy-service/services"

	"github.com/gin-gonic/gin"
)

const (
	forgotPasswordAck = "If the email exists, you will receive instructions."
	passwordResetAck  = "Password updated successfully."
)

// AuthController handles registration, login and password recovery.
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController.
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register handles POST /auth/register.
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.FromValidation(err))
		return
	}

	token, err := ac.authService.Register(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.TokenResponse{Token: token})
}

// Login handles POST /auth/login.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.FromValidation(err))
		return
	}

	token, err := ac.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

// Me handles GET /auth/me.
func (ac *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Respond(c, apperrors.ErrUnauthorized)
		return
	}

	profile, err := ac.authService.Me(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ForgotPassword handles POST /auth/forgot-password. The answer does not
// reveal whether the account exists.
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.FromValidation(err))
		return
	}

	if err := ac.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: forgotPasswordAck})
}

// ResetPassword handles POST /auth/reset-password.
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.FromValidation(err))
		return
	}

	if err := ac.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: passwordResetAck})
}
