package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ampweb/userdirapi/internal/models"
)

// GroupRepository owns user group and membership rows
type GroupRepository struct {
	DB *gorm.DB
}

// NewGroupRepository creates a new repository for user groups
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

// GetByIDs fetches group rows by id
func (r *GroupRepository) GetByIDs(ctx context.Context, groupIDs []uint64) ([]models.UserGroup, error) {
	var groups []models.UserGroup
	err := r.DB.WithContext(ctx).Where("usrgrpid IN ?", groupIDs).Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// GroupsByUserIDs returns each user's groups in two batched queries,
// joined in memory by the membership rows
func (r *GroupRepository) GroupsByUserIDs(ctx context.Context, userIDs []uint64) (map[uint64][]models.UserGroup, error) {
	var members []models.UserGroupMember
	err := r.DB.WithContext(ctx).Where("userid IN ?", userIDs).Find(&members).Error
	if err != nil {
		return nil, err
	}

	groupIDs := make([]uint64, 0, len(members))
	for _, m := range members {
		groupIDs = append(groupIDs, m.UsrGrpID)
	}

	groupByID := make(map[uint64]models.UserGroup)
	if len(groupIDs) > 0 {
		groups, err := r.GetByIDs(ctx, groupIDs)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			groupByID[g.UsrGrpID] = g
		}
	}

	result := make(map[uint64][]models.UserGroup)
	for _, m := range members {
		if g, ok := groupByID[m.UsrGrpID]; ok {
			result[m.UserID] = append(result[m.UserID], g)
		}
	}
	return result, nil
}

// GroupIDsOfUser returns the ids of the groups the user is currently in
func (r *GroupRepository) GroupIDsOfUser(ctx context.Context, userID uint64) ([]uint64, error) {
	var members []models.UserGroupMember
	err := r.DB.WithContext(ctx).Where("userid = ?", userID).Find(&members).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UsrGrpID)
	}
	return ids, nil
}

// AddMemberships inserts membership rows for a user
func (r *GroupRepository) AddMemberships(ctx context.Context, userID uint64, groupIDs []uint64) error {
	for _, groupID := range groupIDs {
		member := models.UserGroupMember{UsrGrpID: groupID, UserID: userID}
		if err := r.DB.WithContext(ctx).Create(&member).Error; err != nil {
			return err
		}
	}
	return nil
}

// SyncMemberships performs the differential membership sync: rows whose
// group is no longer in the new set are deleted, then only the missing
// new memberships are inserted, never duplicating existing ones
func (r *GroupRepository) SyncMemberships(ctx context.Context, userID uint64, newGroupIDs []uint64) error {
	err := r.DB.WithContext(ctx).
		Where("userid = ? AND usrgrpid NOT IN ?", userID, newGroupIDs).
		Delete(&models.UserGroupMember{}).Error
	if err != nil {
		return err
	}

	currentIDs, err := r.GroupIDsOfUser(ctx, userID)
	if err != nil {
		return err
	}
	current := make(map[uint64]bool, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = true
	}

	var missing []uint64
	for _, id := range newGroupIDs {
		if !current[id] {
			missing = append(missing, id)
		}
	}
	return r.AddMemberships(ctx, userID, missing)
}
