package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/ampweb/userdirapi/internal/models"
)

// SystemPermissionChecker decides whether an identity may access the
// system at all, re-checked on login and periodically on session use.
type SystemPermissionChecker interface {
	CheckSystemAccess(ctx context.Context, userID uint64) (bool, error)
}

// groupStatusChecker denies access to users belonging to a group with a
// disabled account status
type groupStatusChecker struct {
	db *gorm.DB
}

// NewGroupStatusChecker creates the default system permission checker
func NewGroupStatusChecker(db *gorm.DB) SystemPermissionChecker {
	return &groupStatusChecker{db: db}
}

func (c *groupStatusChecker) CheckSystemAccess(ctx context.Context, userID uint64) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Table(models.UserGroupsTableName+" g").
		Joins("JOIN "+models.UserGroupMembersTableName+" ug ON ug.usrgrpid = g.usrgrpid").
		Where("ug.userid = ? AND g.users_status = ?", userID, models.GroupStatusDisabled).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
