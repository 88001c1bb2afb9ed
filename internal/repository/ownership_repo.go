package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ampweb/userdirapi/internal/models"
)

// OwnershipRepository answers the delete-time integrity questions: does
// any of these users own a map, screen or slideshow
type OwnershipRepository struct {
	DB *gorm.DB
}

// NewOwnershipRepository creates a new repository for owned-object checks
func NewOwnershipRepository(db *gorm.DB) *OwnershipRepository {
	return &OwnershipRepository{DB: db}
}

// OwnedObject names the first object blocking a user delete
type OwnedObject struct {
	Kind   string
	Name   string
	UserID uint64
}

// FirstOwnedObject returns the first map, screen or slideshow owned by
// any of the given users, checked in that order
func (r *OwnershipRepository) FirstOwnedObject(ctx context.Context, userIDs []uint64) (*OwnedObject, error) {
	var sysmap models.SysMap
	err := r.DB.WithContext(ctx).Where("userid IN ?", userIDs).First(&sysmap).Error
	if err == nil {
		return &OwnedObject{Kind: "map", Name: sysmap.Name, UserID: sysmap.UserID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var screen models.Screen
	err = r.DB.WithContext(ctx).Where("userid IN ?", userIDs).First(&screen).Error
	if err == nil {
		return &OwnedObject{Kind: "screen", Name: screen.Name, UserID: screen.UserID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var slideshow models.Slideshow
	err = r.DB.WithContext(ctx).Where("userid IN ?", userIDs).First(&slideshow).Error
	if err == nil {
		return &OwnedObject{Kind: "slide show", Name: slideshow.Name, UserID: slideshow.UserID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return nil, nil
}
