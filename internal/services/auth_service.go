package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"gorm.io/gorm"
)

var errBadCredentials = apperr.New(apperr.CodeNotAuthenticated, "invalid email or password")

type AuthService struct {
	DB     *gorm.DB
	Tokens *auth.TokenIssuer
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, now: time.Now}
}

// SignUp registers an applicant account. Admins are provisioned with
// EnsureAdmin instead.
func (s *AuthService) SignUp(ctx context.Context, req *dtos.SignUpRequest) (*models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "hash password", err)
	}
	user := &models.User{
		Email:        normalizeEmail(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         models.RoleUser,
		PasswordHash: hash,
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apperr.Error{
				Code:    apperr.CodeDuplicateSubmission,
				Message: "an account with this email already exists",
				Fields:  map[string]string{"email": "is already registered"},
				Cause:   err,
			}
		}
		return nil, classify(err, "user")
	}
	slog.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, req *dtos.LoginRequest) (*dtos.LoginResponse, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "email = ?", normalizeEmail(req.Email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, classify(err, "user")
	}
	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, errBadCredentials
	}

	sessionID := uuid.NewString()
	token, expires, err := s.Tokens.Issue(user.ID, user.Role, sessionID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "issue token", err)
	}
	session := &models.AuthSession{ID: sessionID, UserID: user.ID, ExpiresAt: expires}
	if err := s.DB.WithContext(ctx).Create(session).Error; err != nil {
		return nil, classify(err, "session")
	}
	slog.Info("user logged in", "user_id", user.ID, "role", user.Role)

	return &dtos.LoginResponse{
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
	}, nil
}

// Logout revokes the session so its token stops working.
func (s *AuthService) Logout(ctx context.Context, sess *auth.Session) error {
	now := s.now()
	err := s.DB.WithContext(ctx).Model(&models.AuthSession{}).
		Where("id = ? AND revoked_at IS NULL", sess.ID).
		Update("revoked_at", &now).Error
	return classify(err, "session")
}

// Authenticate resolves a bearer token into a live session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Session, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeNotAuthenticated, "invalid or expired token", err)
	}

	var stored models.AuthSession
	err = s.DB.WithContext(ctx).First(&stored, "id = ?", claims.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.CodeNotAuthenticated, "session not found")
	}
	if err != nil {
		return nil, classify(err, "session")
	}
	if stored.RevokedAt != nil || !s.now().Before(stored.ExpiresAt) || stored.UserID != claims.Subject {
		return nil, apperr.New(apperr.CodeNotAuthenticated, "session has ended")
	}

	var user models.User
	err = s.DB.WithContext(ctx).First(&user, "id = ?", stored.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.CodeNotAuthenticated, "account no longer exists")
	}
	if err != nil {
		return nil, classify(err, "user")
	}

	return &auth.Session{
		ID:        stored.ID,
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

// EnsureAdmin creates an admin account or promotes and re-keys an existing
// one. It backs `seed --admin-email`.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, fullName string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "hash password", err)
	}
	email = normalizeEmail(email)

	var user models.User
	err = s.DB.WithContext(ctx).First(&user, "email = ?", email).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Email: email, FullName: fullName, Role: models.RoleAdmin, PasswordHash: hash}
		err = s.DB.WithContext(ctx).Create(&user).Error
	case err == nil:
		user.Role = models.RoleAdmin
		user.PasswordHash = hash
		if fullName != "" {
			user.FullName = fullName
		}
		err = s.DB.WithContext(ctx).Save(&user).Error
	}
	if err != nil {
		return nil, classify(err, "user")
	}
	return &user, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
