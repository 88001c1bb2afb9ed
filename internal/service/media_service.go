package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ampweb/userdirapi/internal/apperrors"
	"github.com/ampweb/userdirapi/internal/models"
	"github.com/ampweb/userdirapi/internal/repository"
	"github.com/ampweb/userdirapi/internal/timeperiod"
)

// MediaService owns the media sub-API. Every mutation requires at least
// the admin privilege level.
type MediaService struct {
	db     *gorm.DB
	users  *UserService
	medias *repository.MediaRepository
}

// NewMediaService creates a new service for user media
func NewMediaService(db *gorm.DB, redisClient *redis.Client) *MediaService {
	return &MediaService{
		db:     db,
		users:  NewUserService(db, redisClient),
		medias: repository.NewMediaRepository(db),
	}
}

// validateMediaBatch checks the permission floor, target writability and
// the media fields shared by add and update
func (s *MediaService) validateMediaBatch(ctx context.Context, caller *models.Identity, userIDs []uint64, medias []models.MediaRequest) error {
	if caller.Type < models.UserTypeAdmin {
		return apperrors.Permission("only admins can change user media")
	}

	if len(userIDs) == 0 || len(medias) == 0 {
		return apperrors.Parameter("invalid method parameters")
	}

	writable, err := s.users.IsWritable(ctx, caller, userIDs)
	if err != nil {
		return err
	}
	if !writable {
		return apperrors.Permission("no permissions to referred object or it does not exist")
	}

	for _, media := range medias {
		if media.MediaTypeID == 0 || media.SendTo == "" || media.Period == "" {
			return apperrors.Parameter("invalid method parameters")
		}
		if err := timeperiod.Validate(media.Period); err != nil {
			return apperrors.Parameter("%v", err)
		}
	}

	return nil
}

// AddMedia creates the given medias for every target user
func (s *MediaService) AddMedia(ctx context.Context, caller *models.Identity, userIDs []uint64, medias []models.MediaRequest) ([]uint64, error) {
	if err := s.validateMediaBatch(ctx, caller, userIDs, medias); err != nil {
		return nil, err
	}

	var mediaIDs []uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := addMediaRows(ctx, tx, dedupe(userIDs), medias)
		if err != nil {
			return err
		}
		mediaIDs = ids
		return nil
	})
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	return mediaIDs, nil
}

// addMediaRows inserts one media row per user and media item
func addMediaRows(ctx context.Context, tx *gorm.DB, userIDs []uint64, medias []models.MediaRequest) ([]uint64, error) {
	mediaRepo := repository.NewMediaRepository(tx)

	mediaIDs := make([]uint64, 0, len(userIDs)*len(medias))
	for _, userID := range userIDs {
		for _, media := range medias {
			row := models.Media{
				UserID:      userID,
				MediaTypeID: media.MediaTypeID,
				SendTo:      media.SendTo,
				Active:      media.Active,
				Severity:    media.Severity,
				Period:      media.Period,
			}
			if err := mediaRepo.Create(ctx, &row); err != nil {
				return nil, err
			}
			mediaIDs = append(mediaIDs, row.MediaID)
		}
	}
	return mediaIDs, nil
}

// UpdateMedia reconciles the users' stored media with the desired set:
// items carrying an id are updated, items without one are created, and
// stored media absent from the set are deleted. Calling it twice with
// the same desired set leaves the store unchanged.
func (s *MediaService) UpdateMedia(ctx context.Context, caller *models.Identity, userIDs []uint64, medias []models.MediaRequest) ([]uint64, error) {
	if err := s.validateMediaBatch(ctx, caller, userIDs, medias); err != nil {
		return nil, err
	}
	userIDs = dedupe(userIDs)

	// every referenced media id must belong to a writable user
	var referencedIDs []uint64
	for _, media := range medias {
		if media.MediaID != 0 {
			referencedIDs = append(referencedIDs, media.MediaID)
		}
	}
	if len(referencedIDs) > 0 {
		if err := s.checkMediaWritable(ctx, caller, referencedIDs); err != nil {
			return nil, err
		}
	}

	stored, err := s.medias.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	var toCreate []models.MediaRequest
	toUpdate := make(map[uint64]models.MediaRequest)
	for _, media := range medias {
		if media.MediaID != 0 {
			toUpdate[media.MediaID] = media
		} else {
			toCreate = append(toCreate, media)
		}
	}

	var toDelete []uint64
	for _, media := range stored {
		if _, keep := toUpdate[media.MediaID]; !keep {
			toDelete = append(toDelete, media.MediaID)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mediaRepo := repository.NewMediaRepository(tx)

		if len(toCreate) > 0 {
			if _, err := addMediaRows(ctx, tx, userIDs, toCreate); err != nil {
				return err
			}
		}

		for mediaID, media := range toUpdate {
			row := models.Media{
				MediaID:     mediaID,
				MediaTypeID: media.MediaTypeID,
				SendTo:      media.SendTo,
				Active:      media.Active,
				Severity:    media.Severity,
				Period:      media.Period,
			}
			if err := mediaRepo.Update(ctx, &row); err != nil {
				return err
			}
		}

		if len(toDelete) > 0 {
			if err := mediaRepo.DeleteByIDs(ctx, toDelete); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	return userIDs, nil
}

// DeleteMedia removes media rows after the permission checks pass
func (s *MediaService) DeleteMedia(ctx context.Context, caller *models.Identity, mediaIDs []uint64) ([]uint64, error) {
	if caller.Type < models.UserTypeAdmin {
		return nil, apperrors.Permission("only admins can remove user media")
	}
	if len(mediaIDs) == 0 {
		return nil, apperrors.Parameter("empty input parameter")
	}
	mediaIDs = dedupe(mediaIDs)

	if err := s.checkMediaWritable(ctx, caller, mediaIDs); err != nil {
		return nil, err
	}

	if err := s.medias.DeleteByIDs(ctx, mediaIDs); err != nil {
		return nil, apperrors.Backend(err)
	}

	return mediaIDs, nil
}

// checkMediaWritable verifies that every media id exists and belongs to
// a user the caller may edit
func (s *MediaService) checkMediaWritable(ctx context.Context, caller *models.Identity, mediaIDs []uint64) error {
	rows, err := s.medias.FindByIDs(ctx, mediaIDs)
	if err != nil {
		return apperrors.Backend(err)
	}
	if len(rows) != len(mediaIDs) {
		return apperrors.Permission("no permissions to referred object or it does not exist")
	}

	ownerIDs := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ownerIDs = append(ownerIDs, row.UserID)
	}

	writable, err := s.users.IsWritable(ctx, caller, ownerIDs)
	if err != nil {
		return err
	}
	if !writable {
		return apperrors.Permission("no permissions to referred object or it does not exist")
	}
	return nil
}
