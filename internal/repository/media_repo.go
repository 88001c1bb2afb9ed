package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ampweb/userdirapi/internal/models"
)

// MediaRepository owns media and media type rows
type MediaRepository struct {
	DB *gorm.DB
}

// NewMediaRepository creates a new repository for user media
func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{DB: db}
}

// FindByUserIDs returns the media rows of the given users
func (r *MediaRepository) FindByUserIDs(ctx context.Context, userIDs []uint64) ([]models.Media, error) {
	var medias []models.Media
	err := r.DB.WithContext(ctx).Where("userid IN ?", userIDs).Find(&medias).Error
	if err != nil {
		return nil, err
	}
	return medias, nil
}

// FindByIDs returns media rows by id
func (r *MediaRepository) FindByIDs(ctx context.Context, mediaIDs []uint64) ([]models.Media, error) {
	var medias []models.Media
	err := r.DB.WithContext(ctx).Where("mediaid IN ?", mediaIDs).Find(&medias).Error
	if err != nil {
		return nil, err
	}
	return medias, nil
}

// Create inserts a media row
func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	return r.DB.WithContext(ctx).Create(media).Error
}

// Update rewrites the mutable columns of a media row
func (r *MediaRepository) Update(ctx context.Context, media *models.Media) error {
	return r.DB.WithContext(ctx).Model(&models.Media{}).
		Where("mediaid = ?", media.MediaID).
		Updates(map[string]interface{}{
			"mediatypeid": media.MediaTypeID,
			"sendto":      media.SendTo,
			"active":      media.Active,
			"severity":    media.Severity,
			"period":      media.Period,
		}).Error
}

// DeleteByIDs removes media rows by id
func (r *MediaRepository) DeleteByIDs(ctx context.Context, mediaIDs []uint64) error {
	return r.DB.WithContext(ctx).Where("mediaid IN ?", mediaIDs).Delete(&models.Media{}).Error
}

// MediaTypesByUserIDs returns each user's media type records, one batched
// query over the media relation
func (r *MediaRepository) MediaTypesByUserIDs(ctx context.Context, userIDs []uint64) (map[uint64][]models.MediaType, error) {
	medias, err := r.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	typeIDs := make([]uint64, 0, len(medias))
	for _, m := range medias {
		typeIDs = append(typeIDs, m.MediaTypeID)
	}

	typeByID := make(map[uint64]models.MediaType)
	if len(typeIDs) > 0 {
		var types []models.MediaType
		err = r.DB.WithContext(ctx).Where("mediatypeid IN ?", typeIDs).Find(&types).Error
		if err != nil {
			return nil, err
		}
		for _, t := range types {
			typeByID[t.MediaTypeID] = t
		}
	}

	result := make(map[uint64][]models.MediaType)
	seen := make(map[uint64]map[uint64]bool)
	for _, m := range medias {
		t, ok := typeByID[m.MediaTypeID]
		if !ok {
			continue
		}
		if seen[m.UserID] == nil {
			seen[m.UserID] = make(map[uint64]bool)
		}
		if seen[m.UserID][t.MediaTypeID] {
			continue
		}
		seen[m.UserID][t.MediaTypeID] = true
		result[m.UserID] = append(result[m.UserID], t)
	}
	return result, nil
}
