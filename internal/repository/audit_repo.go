package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ampweb/userdirapi/internal/models"
	"github.com/ampweb/userdirapi/pkg/utils/zaplogger"
)

// AuditChannel is the Redis channel audit events are published to
const AuditChannel = "userdirapi:audit"

// AuditRepository writes audit entries to the audit_log table and, when a
// Redis client is configured, publishes them to the audit channel
type AuditRepository struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewAuditRepository creates a new repository for the audit sink
func NewAuditRepository(db *gorm.DB, redisClient *redis.Client) *AuditRepository {
	return &AuditRepository{DB: db, RedisClient: redisClient}
}

// Add records one audit entry
func (r *AuditRepository) Add(ctx context.Context, userID uint64, action, resourceType, details string) error {
	entry := models.AuditLog{
		AuditID:      uuid.NewString(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		Details:      details,
		Clock:        time.Now().Unix(),
	}

	if err := r.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return err
	}

	// publishing is best effort, the DB row is the record
	if r.RedisClient != nil {
		payload, err := json.Marshal(entry)
		if err == nil {
			err = r.RedisClient.Publish(ctx, AuditChannel, payload).Err()
		}
		if err != nil {
			zaplogger.Warn("failed to publish audit event", zaplogger.Fields{"error": err.Error()})
		}
	}

	return nil
}
