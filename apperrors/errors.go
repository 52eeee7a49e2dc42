package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Error represents an application error
type Error struct {
	Code    int               `json:"-"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two application errors by code and message so that sentinels
// compare equal to their wrapped copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying err as its cause.
func Wrap(base *Error, err error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Details: base.Details, Err: err}
}

// Common error types
var (
	ErrBadRequest      = New(http.StatusBadRequest, "bad request", nil)
	ErrUnauthorized    = New(http.StatusUnauthorized, "unauthorized", nil)
	ErrForbidden       = New(http.StatusForbidden, "forbidden", nil)
	ErrPayloadTooLarge = New(http.StatusRequestEntityTooLarge, "file too large", nil)
	ErrTooManyRequests = New(http.StatusTooManyRequests, "rate limit exceeded, please try again later", nil)
	ErrTimeout         = New(http.StatusGatewayTimeout, "request timed out", nil)
	ErrInternalServer  = New(http.StatusInternalServerError, "internal server error", nil)
)

// Validation error types
var (
	ErrValidation   = New(http.StatusBadRequest, "validation error", nil)
	ErrInvalidInput = New(http.StatusBadRequest, "invalid input", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "invalid credentials", nil)
	ErrMissingToken       = New(http.StatusUnauthorized, "missing token", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "invalid or expired token", nil)
	ErrInvalidResetToken  = New(http.StatusBadRequest, "invalid or expired link", nil)
	ErrEmailTaken         = New(http.StatusConflict, "email already registered", nil)
)

// Business logic error types
var (
	ErrCourseUnavailable = New(http.StatusBadRequest, "course not found or inactive", nil)
	ErrOrderNotFound     = New(http.StatusNotFound, "order not found", nil)
	ErrUserNotFound      = New(http.StatusNotFound, "user not found", nil)
	ErrMissingFile       = New(http.StatusBadRequest, "file is required", nil)
	ErrInvalidStatus     = New(http.StatusBadRequest, "invalid status", nil)
	ErrReceiptStore      = New(http.StatusBadGateway, "could not store receipt", nil)
	ErrReceiptSave       = New(http.StatusInternalServerError, "could not register payment", nil)
)

// FromValidation converts validator field errors into a 400 with one entry
// per failing field.
func FromValidation(err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Wrap(ErrInvalidInput, err)
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = describe(fe)
	}
	return &Error{Code: http.StatusBadRequest, Message: ErrValidation.Message, Details: details, Err: err}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "slug":
		return "must be a lowercase slug"
	case "paymentmethod":
		return "must be a payment method code"
	default:
		return "failed on " + fe.Tag()
	}
}

// From normalizes any error into an *Error, defaulting to a 500.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrInternalServer, err)
}

// Respond writes err as the JSON error body. 5xx causes are logged, never
// returned to the client.
func Respond(c *gin.Context, err error) {
	appErr := From(err)
	if appErr.Code >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(appErr.Code, appErr)
}

// ErrorMiddleware renders errors attached with c.Error when the handler did
// not write a response.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Respond(c, c.Errors.Last().Err)
	}
}

// Recovery turns handler panics into the standard 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Respond(c, fmt.Errorf("panic: %v", recovered))
	})
}
