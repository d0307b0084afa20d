package notificationprofile

import (
	"time"

	"github.com/stayfix/stayfix/internal/core/common/patch"
	notificationprofileDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/notificationprofile"
)

type Profile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromDataModel(p *notificationprofileDatamodel.Profile) *Profile {
	return &Profile{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type CreateProfileInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

type UpdateProfileInput struct {
	ID          string              `json:"id"`
	Name        *string             `json:"name"`
	Description patch.Field[string] `json:"description"`
	IsActive    *bool               `json:"isActive"`
}

type ProfilesResponse struct {
	Profiles []*Profile `json:"profiles"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
