package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ampweb/userdirapi/internal/models"
)

// ErrSessionNotFound is returned when no active session matches a token
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository owns session rows
type SessionRepository struct {
	DB *gorm.DB
}

// NewSessionRepository creates a new repository for sessions
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// Create inserts a session row
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.DB.WithContext(ctx).Create(session).Error
}

// GetActive fetches the active session for a token
func (r *SessionRepository) GetActive(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	err := r.DB.WithContext(ctx).
		Where("sessionid = ? AND status = ?", sessionID, models.SessionActive).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// UpdateLastAccess refreshes the last access clock of one session
func (r *SessionRepository) UpdateLastAccess(ctx context.Context, sessionID string, clock int64) error {
	return r.DB.WithContext(ctx).Model(&models.Session{}).
		Where("sessionid = ?", sessionID).
		Update("lastaccess", clock).Error
}

// SetPassive demotes a session, keeping the row for audit
func (r *SessionRepository) SetPassive(ctx context.Context, sessionID string) error {
	return r.DB.WithContext(ctx).Model(&models.Session{}).
		Where("sessionid = ?", sessionID).
		Update("status", models.SessionPassive).Error
}

// DeletePassiveByUserID removes the user's superseded sessions
func (r *SessionRepository) DeletePassiveByUserID(ctx context.Context, userID uint64) error {
	return r.DB.WithContext(ctx).
		Where("userid = ? AND status = ?", userID, models.SessionPassive).
		Delete(&models.Session{}).Error
}

// DeleteStale removes the user's sessions not accessed since the cutoff
func (r *SessionRepository) DeleteStale(ctx context.Context, userID uint64, cutoff int64) error {
	return r.DB.WithContext(ctx).
		Where("userid = ? AND lastaccess < ?", userID, cutoff).
		Delete(&models.Session{}).Error
}

// DeleteExpired removes sessions of autologout users whose expiry has
// passed, used by the sweeper
func (r *SessionRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	expired := r.DB.Table(models.UsersTableName).
		Select("userid").
		Where("autologout > 0")
	result := r.DB.WithContext(ctx).
		Where("userid IN (?)", expired).
		Where("lastaccess + (SELECT autologout FROM "+models.UsersTableName+" WHERE "+models.UsersTableName+".userid = "+models.SessionsTableName+".userid) < ?", now).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

// DeleteOrphans removes sessions whose user no longer exists
func (r *SessionRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	known := r.DB.Table(models.UsersTableName).Select("userid")
	result := r.DB.WithContext(ctx).
		Where("userid NOT IN (?)", known).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
