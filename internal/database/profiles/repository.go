// Package profiles provides database operations for user display profiles.
package profiles

import (
	"errors"

	"gorm.io/gorm"

	"github.com/alwznx/pustaka/internal/entities"
)

// Repository handles profile database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new profiles repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetProfile returns the user's profile, or nil when none has been saved yet.
func (r *Repository) GetProfile(userID uint) (*entities.Profile, error) {
	var profile entities.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile creates or updates the user's display name and avatar.
func (r *Repository) UpsertProfile(userID uint, fullName, avatarURL string) (*entities.Profile, error) {
	var profile entities.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = entities.Profile{
			UserID:    userID,
			FullName:  fullName,
			AvatarURL: avatarURL,
		}
		if err := r.db.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}

	profile.FullName = fullName
	profile.AvatarURL = avatarURL
	if err := r.db.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
