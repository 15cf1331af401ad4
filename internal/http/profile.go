package http

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alwznx/pustaka/internal/audit"
	"github.com/alwznx/pustaka/internal/auth"
	"github.com/alwznx/pustaka/internal/entities"
)

// ProfilesStore defines the profile operations the controller needs.
type ProfilesStore interface {
	GetProfile(userID uint) (*entities.Profile, error)
	UpsertProfile(userID uint, fullName, avatarURL string) (*entities.Profile, error)
}

// PasswordChanger rotates a user's password. Implemented by auth.Service.
type PasswordChanger interface {
	ChangePassword(userID uint, oldPassword, newPassword string) error
}

// ProfileController serves the user's display profile and password changes.
type ProfileController struct {
	store        ProfilesStore
	passwords    PasswordChanger
	auditService *audit.Service
}

func NewProfileController(store ProfilesStore, passwords PasswordChanger, auditService *audit.Service) *ProfileController {
	return &ProfileController{
		store:        store,
		passwords:    passwords,
		auditService: auditService,
	}
}

// Get returns the user's profile. A user who never saved one gets an empty
// profile rather than a 404.
func (pc *ProfileController) Get(c *gin.Context) {
	userID := GetUserID(c)

	profile, err := pc.store.GetProfile(userID)
	if err != nil {
		respondInternalError(c, err, "getting profile")
		return
	}
	if profile == nil {
		profile = &entities.Profile{UserID: userID}
	}

	c.JSON(200, profile)
}

type profileRequest struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// Update saves the display name and avatar.
func (pc *ProfileController) Update(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid profile payload")
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	if len(req.FullName) > 255 {
		respondBadRequest(c, "full_name is too long")
		return
	}

	userID := GetUserID(c)
	profile, err := pc.store.UpsertProfile(userID, req.FullName, req.AvatarURL)
	if err != nil {
		respondInternalError(c, err, "saving profile")
		return
	}

	if pc.auditService != nil {
		pc.auditService.LogSettings(userID, "profile_update", "Profile updated")
	}

	c.JSON(200, profile)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword rotates the user's password after verifying the old one.
func (pc *ProfileController) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "old_password and new_password are required")
		return
	}

	userID := GetUserID(c)
	if err := pc.passwords.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondBadRequest(c, err.Error())
		return
	}

	if pc.auditService != nil {
		pc.auditService.LogSettings(userID, "password_change", "Password changed")
	}

	respondSuccess(c, "password changed")
}
