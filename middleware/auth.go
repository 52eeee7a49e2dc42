package middleware

import (
	"strings"

	"academy-service/apperrors"
	"academy-service/models"
	"academy-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the auth middleware.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
	EmailKey  = "email"
)

// Authenticator verifies bearer tokens and gates routes on them.
type Authenticator struct {
	tokens services.TokenIssuer
}

func NewAuthenticator(tokens services.TokenIssuer) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrMissingToken)
			return
		}
		claims, err := a.tokens.Parse(raw)
		if err != nil {
			apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvalidToken, err))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is sent.
// Missing or invalid tokens leave the request anonymous.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if claims, err := a.tokens.Parse(raw); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			apperrors.Respond(c, apperrors.ErrUnauthorized)
			return
		}
		if c.GetString(RoleKey) != string(role) {
			apperrors.Respond(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	val, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// OptionalUserID is GetUserID shaped for services taking a nullable owner.
func OptionalUserID(c *gin.Context) *uuid.UUID {
	if id, ok := GetUserID(c); ok {
		return &id
	}
	return nil
}

func setClaims(c *gin.Context, claims *services.Claims) {
	id, err := claims.UserID()
	if err != nil {
		return
	}
	c.Set(UserIDKey, id)
	c.Set(RoleKey, string(claims.Role))
	c.Set(EmailKey, claims.Email)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
