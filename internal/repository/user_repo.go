package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/ampweb/userdirapi/internal/apperrors"
	"github.com/ampweb/userdirapi/internal/models"
)

// filterableColumns are the users columns accepted in filter and search
// maps. The password column is deliberately absent.
var filterableColumns = map[string]bool{
	"userid":        true,
	"alias":         true,
	"name":          true,
	"surname":       true,
	"url":           true,
	"autologin":     true,
	"autologout":    true,
	"lang":          true,
	"refresh":       true,
	"type":          true,
	"theme":         true,
	"rows_per_page": true,
}

// sortableColumns is the sort field allow-list.
var sortableColumns = map[string]bool{
	"userid": true,
	"alias":  true,
}

// UserRepository owns the directory query and row-level user operations
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository creates a new repository for the user directory
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// permissionScope returns the authorization predicate for the caller.
// It is composed before any caller-supplied filter so the two stay
// structurally separate. A nil caller or a super-admin sees everything.
func (r *UserRepository) permissionScope(caller *models.Identity, opts *models.UserGetOptions) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if caller == nil || caller.IsSuperAdmin() || opts.NoPermissions {
			return tx
		}
		if opts.Editable {
			return tx.Where("userid = ?", caller.UserID)
		}
		// users sharing at least one group with the caller
		callerGroups := r.DB.Table(models.UserGroupMembersTableName).
			Select("usrgrpid").
			Where("userid = ?", caller.UserID)
		mates := r.DB.Table(models.UserGroupMembersTableName).
			Select("userid").
			Where("usrgrpid IN (?)", callerGroups)
		return tx.Where("userid IN (?)", mates)
	}
}

// query assembles the directory query from the options
func (r *UserRepository) query(ctx context.Context, caller *models.Identity, opts *models.UserGetOptions) (*gorm.DB, error) {
	tx := r.DB.WithContext(ctx).Model(&models.User{}).Scopes(r.permissionScope(caller, opts))

	if opts.UserIDs != nil {
		tx = tx.Where("userid IN ?", opts.UserIDs)
	}
	if opts.GroupIDs != nil {
		members := r.DB.Table(models.UserGroupMembersTableName).
			Select("userid").
			Where("usrgrpid IN ?", opts.GroupIDs)
		tx = tx.Where("userid IN (?)", members)
	}
	if opts.MediaIDs != nil {
		owners := r.DB.Table(models.MediasTableName).
			Select("userid").
			Where("mediaid IN ?", opts.MediaIDs)
		tx = tx.Where("userid IN (?)", owners)
	}
	if opts.MediaTypeIDs != nil {
		owners := r.DB.Table(models.MediasTableName).
			Select("userid").
			Where("mediatypeid IN ?", opts.MediaTypeIDs)
		tx = tx.Where("userid IN (?)", owners)
	}

	for column, value := range opts.Filter {
		if column == "passwd" {
			return nil, apperrors.Parameter("it is not possible to filter by user password")
		}
		if !filterableColumns[column] {
			return nil, apperrors.Parameter("unknown filter field \"%s\"", column)
		}
		tx = tx.Where(column+" = ?", value)
	}

	for column, value := range opts.Search {
		if column == "passwd" {
			return nil, apperrors.Parameter("it is not possible to search by user password")
		}
		if !filterableColumns[column] {
			return nil, apperrors.Parameter("unknown search field \"%s\"", column)
		}
		tx = tx.Where("lower("+column+") LIKE ?", "%"+strings.ToLower(value)+"%")
	}

	return tx, nil
}

// Find returns the users matching the options, without pagination or
// sorting applied when count mode is requested
func (r *UserRepository) Find(ctx context.Context, caller *models.Identity, opts *models.UserGetOptions) ([]models.User, error) {
	tx, err := r.query(ctx, caller, opts)
	if err != nil {
		return nil, err
	}

	if opts.SortField != "" {
		if !sortableColumns[opts.SortField] {
			return nil, apperrors.Parameter("sorting by field \"%s\" is not allowed", opts.SortField)
		}
		order := opts.SortField
		switch strings.ToUpper(opts.SortOrder) {
		case "", "ASC":
		case "DESC":
			order += " DESC"
		default:
			return nil, apperrors.Parameter("invalid sort order \"%s\"", opts.SortOrder)
		}
		tx = tx.Order(order)
	}
	if opts.Limit > 0 {
		tx = tx.Limit(opts.Limit)
	}

	var users []models.User
	if err := tx.Find(&users).Error; err != nil {
		return nil, apperrors.Backend(err)
	}
	return users, nil
}

// Count returns the number of users matching the options
func (r *UserRepository) Count(ctx context.Context, caller *models.Identity, opts *models.UserGetOptions) (int64, error) {
	tx, err := r.query(ctx, caller, opts)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, apperrors.Backend(err)
	}
	return count, nil
}

// AccessByUserIDs aggregates the group policy columns with MAX across
// each user's groups in a single grouped query. For gui_access and
// users_status the higher value is the stricter one, so the strictest
// group wins; for debug_mode it means any debug group enables it.
func (r *UserRepository) AccessByUserIDs(ctx context.Context, userIDs []uint64) (map[uint64]models.UserAccess, error) {
	var rows []models.UserAccess
	err := r.DB.WithContext(ctx).
		Table(models.UserGroupsTableName+" g").
		Select("ug.userid AS userid, MAX(g.gui_access) AS gui_access, MAX(g.debug_mode) AS debug_mode, MAX(g.users_status) AS users_status").
		Joins("JOIN "+models.UserGroupMembersTableName+" ug ON ug.usrgrpid = g.usrgrpid").
		Where("ug.userid IN ?", userIDs).
		Group("ug.userid").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	access := make(map[uint64]models.UserAccess, len(rows))
	for _, row := range rows {
		access[row.UserID] = row
	}
	return access, nil
}

// GetByID fetches one user row
func (r *UserRepository) GetByID(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where("userid = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByAlias fetches one user row by its login alias, case-sensitive
func (r *UserRepository) GetByAlias(ctx context.Context, alias string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where("alias = ?", alias).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a user row
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

// Update applies the given column values to a user row
func (r *UserRepository) Update(ctx context.Context, userID uint64, values map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).Where("userid = ?", userID).Updates(values).Error
}

// RecordLoginFailure bumps the failure counter and records the attempt
// clock and source address
func (r *UserRepository) RecordLoginFailure(ctx context.Context, userID uint64, failed int, clock int64, ip string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).Where("userid = ?", userID).Updates(map[string]interface{}{
		"attempt_failed": failed,
		"attempt_clock":  clock,
		"attempt_ip":     ip,
	}).Error
}

// ResetLoginFailures zeroes the failure counter after a successful login
func (r *UserRepository) ResetLoginFailures(ctx context.Context, userID uint64) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).Where("userid = ?", userID).
		Update("attempt_failed", 0).Error
}

// RefreshAttemptClock restarts the lockout window once it has elapsed
func (r *UserRepository) RefreshAttemptClock(ctx context.Context, userID uint64, clock int64) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).Where("userid = ?", userID).
		Update("attempt_clock", clock).Error
}

// HasDebugGroup reports whether any of the user's groups has debug mode
// enabled
func (r *UserRepository) HasDebugGroup(ctx context.Context, userID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Table(models.UserGroupsTableName+" g").
		Joins("JOIN "+models.UserGroupMembersTableName+" ug ON ug.usrgrpid = g.usrgrpid").
		Where("ug.userid = ? AND g.debug_mode = ?", userID, models.GroupDebugModeEnabled).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
