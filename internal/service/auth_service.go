package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ampweb/userdirapi/internal/apperrors"
	"github.com/ampweb/userdirapi/internal/config"
	"github.com/ampweb/userdirapi/internal/models"
	"github.com/ampweb/userdirapi/internal/repository"
)

// badCredentialsMsg is deliberately the same for an unknown alias and a
// wrong password so aliases cannot be enumerated.
const badCredentialsMsg = "incorrect user name or password"

// AuthService owns login, logout and session validation
type AuthService struct {
	cfg       *config.Config
	users     *repository.UserRepository
	sessions  *repository.SessionRepository
	audit     *repository.AuditRepository
	perm      SystemPermissionChecker
	directory DirectoryAuthenticator

	// now is the clock, replaceable in tests
	now func() time.Time
}

// NewAuthService creates a new service for authentication. The directory
// authenticator may be nil unless the effective auth mode is ldap.
func NewAuthService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, directory DirectoryAuthenticator) *AuthService {
	return &AuthService{
		cfg:       cfg,
		users:     repository.NewUserRepository(db),
		sessions:  repository.NewSessionRepository(db),
		audit:     repository.NewAuditRepository(db, redisClient),
		perm:      NewGroupStatusChecker(db),
		directory: directory,
		now:       time.Now,
	}
}

// Login authenticates the credentials and opens a new active session
func (s *AuthService) Login(ctx context.Context, creds *models.LoginRequest) (*models.Identity, error) {
	user, err := s.users.GetByAlias(ctx, creds.Alias)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Authentication(badCredentialsMsg)
		}
		return nil, apperrors.Backend(err)
	}

	now := s.now().Unix()

	// lockout window
	if user.AttemptFailed >= s.cfg.LoginAttempts {
		elapsed := now - user.AttemptClock
		if elapsed < int64(s.cfg.LoginBlockSecs) {
			return nil, apperrors.Authentication("account is blocked for %d seconds", int64(s.cfg.LoginBlockSecs)-elapsed)
		}
		if err := s.users.RefreshAttemptClock(ctx, user.UserID, now); err != nil {
			return nil, apperrors.Backend(err)
		}
	}

	allowed, err := s.perm.CheckSystemAccess(ctx, user.UserID)
	if err != nil {
		return nil, apperrors.Backend(err)
	}
	if !allowed {
		return nil, apperrors.Permission("no permissions for system access")
	}

	guiAccess, err := s.effectiveGuiAccess(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	// effective backend: internal access forces password auth unless the
	// global mode is HTTP trust, which always wins
	authMode := s.cfg.AuthMode
	if guiAccess == models.GroupGuiAccessInternal && authMode != config.AuthModeHTTP {
		authMode = config.AuthModeInternal
	}

	if authMode == config.AuthModeHTTP {
		if creds.HTTPAuthIdentity == "" {
			return nil, apperrors.Authentication("cannot login")
		}
		if creds.Alias != creds.HTTPAuthIdentity {
			return nil, apperrors.Authentication("login name \"%s\" does not match the name \"%s\" used to pass HTTP authentication",
				creds.Alias, creds.HTTPAuthIdentity)
		}
	}

	var backendErr error
	switch authMode {
	case config.AuthModeLdap:
		if s.directory == nil {
			backendErr = apperrors.Backend(errors.New("no directory authenticator configured"))
		} else {
			backendErr = s.directory.Authenticate(ctx, creds.Alias, creds.Password)
		}
	case config.AuthModeInternal:
		if bcrypt.CompareHashAndPassword([]byte(user.Passwd), []byte(creds.Password)) != nil {
			backendErr = apperrors.Authentication(badCredentialsMsg)
		}
	case config.AuthModeHTTP:
		// identity already asserted by the front end
	}

	if backendErr != nil {
		if err := s.users.RecordLoginFailure(ctx, user.UserID, user.AttemptFailed+1, now, creds.UserIP); err != nil {
			return nil, apperrors.Backend(err)
		}
		details := fmt.Sprintf("Login failed \"%s\".", creds.Alias)
		if err := s.audit.Add(ctx, user.UserID, models.AuditActionLogin, models.AuditResourceUser, details); err != nil {
			return nil, apperrors.Backend(err)
		}
		return nil, backendErr
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	// superseded sessions go away before the new active one is created
	if err := s.sessions.DeletePassiveByUserID(ctx, user.UserID); err != nil {
		return nil, apperrors.Backend(err)
	}
	session := models.Session{
		SessionID:  token,
		UserID:     user.UserID,
		LastAccess: now,
		Status:     models.SessionActive,
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return nil, apperrors.Backend(err)
	}

	if user.AttemptFailed > 0 {
		if err := s.users.ResetLoginFailures(ctx, user.UserID); err != nil {
			return nil, apperrors.Backend(err)
		}
	}

	identity, err := s.loadIdentity(ctx, user.UserID, token, guiAccess, creds.UserIP)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// CheckAuthentication revalidates a session token and returns the
// caller's identity. An expired session fails without its last access
// being refreshed.
func (s *AuthService) CheckAuthentication(ctx context.Context, token, userIP string) (*models.Identity, error) {
	session, err := s.sessions.GetActive(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, apperrors.Authentication("session terminated, re-login please")
		}
		return nil, apperrors.Backend(err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	now := s.now().Unix()

	if user.AutoLogout != 0 && session.LastAccess+int64(user.AutoLogout) <= now {
		return nil, apperrors.Authentication("session terminated, re-login please")
	}

	// permission re-check and bookkeeping at most once per second
	if now != session.LastAccess {
		allowed, err := s.perm.CheckSystemAccess(ctx, user.UserID)
		if err != nil {
			return nil, apperrors.Backend(err)
		}
		if !allowed {
			return nil, apperrors.Permission("no permissions for system access")
		}

		if user.AutoLogout > 0 {
			if err := s.sessions.DeleteStale(ctx, user.UserID, now-int64(user.AutoLogout)); err != nil {
				return nil, apperrors.Backend(err)
			}
		}

		if err := s.sessions.UpdateLastAccess(ctx, token, now); err != nil {
			return nil, apperrors.Backend(err)
		}
	}

	guiAccess, err := s.effectiveGuiAccess(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	return s.loadIdentity(ctx, user.UserID, token, guiAccess, userIP)
}

// Logout demotes the current session to passive, keeping the row for
// audit, and removes the user's other passive sessions
func (s *AuthService) Logout(ctx context.Context, token string) error {
	session, err := s.sessions.GetActive(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return apperrors.Parameter("cannot logout")
		}
		return apperrors.Backend(err)
	}

	if err := s.sessions.DeletePassiveByUserID(ctx, session.UserID); err != nil {
		return apperrors.Backend(err)
	}
	if err := s.sessions.SetPassive(ctx, token); err != nil {
		return apperrors.Backend(err)
	}
	return nil
}

// effectiveGuiAccess is the strictest gui_access across the user's
// groups, defaulting to the system policy when no group sets one
func (s *AuthService) effectiveGuiAccess(ctx context.Context, userID uint64) (int, error) {
	access, err := s.users.AccessByUserIDs(ctx, []uint64{userID})
	if err != nil {
		return 0, err
	}
	if a, ok := access[userID]; ok {
		return a.GuiAccess, nil
	}
	return models.GroupGuiAccessSystem, nil
}

// loadIdentity builds the authenticated identity from the user row, the
// debug-group flag and the request metadata
func (s *AuthService) loadIdentity(ctx context.Context, userID uint64, token string, guiAccess int, userIP string) (*models.Identity, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	debugMode, err := s.users.HasDebugGroup(ctx, userID)
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	// "default" defers to the system-wide theme
	theme := user.Theme
	if theme == "default" {
		theme = s.cfg.DefaultTheme
	}

	return &models.Identity{
		UserID:      user.UserID,
		Alias:       user.Alias,
		Name:        user.Name,
		Surname:     user.Surname,
		URL:         user.URL,
		AutoLogin:   user.AutoLogin,
		AutoLogout:  user.AutoLogout,
		Lang:        user.Lang,
		Refresh:     user.Refresh,
		Type:        user.Type,
		Theme:       theme,
		RowsPerPage: user.RowsPerPage,
		DebugMode:   debugMode,
		GuiAccess:   guiAccess,
		SessionID:   token,
		UserIP:      userIP,
	}, nil
}

// generateSessionToken returns 32 bytes from a cryptographically strong
// source, hex encoded
func generateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
