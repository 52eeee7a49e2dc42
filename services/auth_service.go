package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"academy-service/apperrors"
	"academy-service/logger"
	"academy-service/models"
	"academy-service/notifications"
	"academy-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

// missingUserHash is compared against when the email is unknown so that login
// costs one bcrypt comparison either way.
var missingUserHash, _ = bcrypt.GenerateFromPassword([]byte("academy-missing-user"), bcrypt.DefaultCost)

// AuthService defines the interface for account and credential operations.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Me(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error)
}

type authServiceImpl struct {
	users       repository.UserRepository
	tokens      TokenIssuer
	mailer      notifications.EmailSender
	frontendURL string
	logger      *zap.Logger
	now         func() time.Time
	compare     func(hash, password []byte) error
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users repository.UserRepository,
	tokens TokenIssuer,
	mailer notifications.EmailSender,
	frontendURL string,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		users:       users,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
		logger:      logger,
		now:         time.Now,
		compare:     bcrypt.CompareHashAndPassword,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (string, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", apperrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	masters := req.Master
	if masters == nil {
		masters = []string{}
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Lastname:     strings.TrimSpace(req.Lastname),
		Role:         models.RoleStudent,
		Age:          req.Age,
		Telegram:     req.Telegram,
		Masters:      masters,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return "", apperrors.ErrEmailTaken
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.FromContext(ctx, s.logger).Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.compare(missingUserHash, []byte(password))
			return "", apperrors.ErrInvalidCredentials
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if user.PasswordHash == "" {
		_ = s.compare(missingUserHash, []byte(password))
		return "", apperrors.ErrInvalidCredentials
	}
	if s.compare([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", apperrors.ErrInvalidCredentials
	}
	return s.issue(user)
}

// ForgotPassword issues a reset link when the account exists. Callers always
// answer with the same acknowledgement, so only storage failures surface.
func (s *authServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	log := logger.FromContext(ctx, s.logger)

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	token, err := newResetToken()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, hashResetToken(token), s.now().Add(ResetTokenTTL)); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resetURL := s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
	body, err := notifications.RenderResetPassword(notifications.ResetPasswordData{
		Name:             user.Name,
		ResetURL:         resetURL,
		ExpiresInMinutes: int(ResetTokenTTL / time.Minute),
	})
	if err != nil {
		log.Error("Failed to render reset email", zap.Error(err))
		return nil
	}
	if err := s.mailer.Send(ctx, user.Email, notifications.ResetPasswordSubject, body); err != nil {
		log.Error("Failed to send reset email", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil
	}
	log.Info("Password reset email sent", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	tokenHash := hashResetToken(token)
	now := s.now()

	user, err := s.users.FindByResetToken(ctx, tokenHash, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.users.ResetPassword(ctx, user.ID, tokenHash, string(hash), now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.FromContext(ctx, s.logger).Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *authServiceImpl) issue(user *models.User) (string, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("sign token: %w", err))
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newResetToken returns 32 random bytes, hex encoded.
func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashResetToken is what gets persisted; the raw token only travels by email.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "23505")
}
