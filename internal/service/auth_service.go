package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutoria-api/internal/models"
	"github.com/noah-isme/tutoria-api/internal/repository"
	"github.com/noah-isme/tutoria-api/internal/session"
	appErrors "github.com/noah-isme/tutoria-api/pkg/errors"
)

type authUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// MsgMissingCredentials is shown when the registration form is incomplete.
const MsgMissingCredentials = "Informe usuário e senha."

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	GestaoPIN  string
	BcryptCost int
}

// AuthService handles registration, login and the gestão mode flag.
type AuthService struct {
	repo     authUserRepository
	sessions session.Store
	metrics  *MetricsService
	logger   *zap.Logger
	config   AuthConfig

	// compared against when the username is unknown so both failures cost a bcrypt run
	dummyHash []byte
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, sessions session.Store, metrics *MetricsService, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("tutorias-dummy-password"), config.BcryptCost)
	return &AuthService{repo: repo, sessions: sessions, metrics: metrics, logger: logger, config: config, dummyHash: dummy}
}

// Register creates a professor account. It never logs the user in.
func (s *AuthService) Register(ctx context.Context, form models.LoginForm) error {
	username := strings.TrimSpace(form.Username)
	password := strings.TrimSpace(form.Password)
	if username == "" || password == "" {
		return appErrors.Clone(appErrors.ErrValidation, MsgMissingCredentials)
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return appErrors.ErrDuplicateUsername
	} else if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{Username: username, PasswordHash: string(hash), Role: models.RoleProfessor}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return appErrors.ErrDuplicateUsername
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.metrics.RecordAuthEvent(EventRegister)
	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", username))
	return nil
}

// Login verifies the credentials and opens a new session. It returns the
// session id to be placed in the cookie.
func (s *AuthService) Login(ctx context.Context, form models.LoginForm) (string, *models.User, error) {
	username := strings.TrimSpace(form.Username)

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(form.Password))
		return "", nil, s.loginFailed(username)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		return "", nil, s.loginFailed(username)
	}

	sid, err := s.sessions.Create(ctx, session.Data{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	s.metrics.RecordAuthEvent(EventLoginSuccess)
	s.logger.Info("login", zap.Int64("user_id", user.ID))
	return sid, user, nil
}

func (s *AuthService) loginFailed(username string) error {
	s.metrics.RecordAuthEvent(EventLoginFailure)
	s.logger.Warn("login failed", zap.String("username", username))
	return appErrors.ErrInvalidCredentials
}

// Logout removes the server-side session.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	s.metrics.RecordAuthEvent(EventLogout)
	return nil
}

// UnlockGestao turns on gestão mode for the session when the PIN matches.
func (s *AuthService) UnlockGestao(ctx context.Context, auth models.AuthContext, sid, pin string) error {
	if !auth.Authenticated() || sid == "" {
		return appErrors.ErrUnauthorized
	}

	expected := []byte(s.config.GestaoPIN)
	given := []byte(strings.TrimSpace(pin))
	if len(expected) == 0 || subtle.ConstantTimeCompare(given, expected) != 1 {
		s.metrics.RecordAuthEvent(EventGestaoPINError)
		s.logger.Warn("gestao pin rejected", zap.Int64("user_id", auth.UserID))
		return appErrors.ErrInvalidPIN
	}

	if err := s.setGestaoMode(ctx, sid, true); err != nil {
		return err
	}
	s.metrics.RecordAuthEvent(EventGestaoUnlock)
	s.logger.Info("gestao mode unlocked", zap.Int64("user_id", auth.UserID))
	return nil
}

// LockGestao clears gestão mode without ending the session. Unknown sessions
// are ignored.
func (s *AuthService) LockGestao(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.setGestaoMode(ctx, sid, false)
}

func (s *AuthService) setGestaoMode(ctx context.Context, sid string, enabled bool) error {
	data, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			if enabled {
				return appErrors.ErrUnauthorized
			}
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	data.GestaoMode = enabled
	if err := s.sessions.Save(ctx, sid, *data); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session")
	}
	return nil
}
