package dto

import (
	"time"

	"github.com/edubooster/backend/internal/model"
	"gorm.io/datatypes"
)

// UpdateUserRequest carries the partial profile update. Empty fields are
// left untouched; at least one must be present.
type UpdateUserRequest struct {
	Email      string         `json:"email" binding:"omitempty,email"`
	FirstName  string         `json:"firstName" binding:"omitempty,min=2,max=50"`
	LastName   string         `json:"lastName" binding:"omitempty,min=2,max=50"`
	Phone      string         `json:"phone" binding:"omitempty,min=10,max=15"`
	AvatarURL  string         `json:"avatarUrl" binding:"omitempty,max=2048"`
	SchoolInfo datatypes.JSON `json:"schoolInfo" binding:"omitempty"`
}

// HasFields reports whether any recognized field is present.
func (r UpdateUserRequest) HasFields() bool {
	return r.Email != "" || r.FirstName != "" || r.LastName != "" ||
		r.Phone != "" || r.AvatarURL != "" || len(r.SchoolInfo) > 0
}

// UserResponse is the public account view. Password, one-time codes and
// the refresh token are excluded by construction, not by redaction.
type UserResponse struct {
	ID            uint           `json:"id"`
	FirstName     string         `json:"firstName"`
	LastName      string         `json:"lastName"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone,omitempty"`
	Role          string         `json:"role"`
	IsVerified    bool           `json:"isVerified"`
	PhoneVerified bool           `json:"phoneVerified"`
	AvatarURL     *string        `json:"avatarUrl,omitempty"`
	LastLogin     *time.Time     `json:"lastLogin,omitempty"`
	EnrolledAt    time.Time      `json:"enrolledAt"`
	SchoolInfo    datatypes.JSON `json:"schoolInfo,omitempty"`
}

// NewUserResponse projects a stored user onto its public view.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          u.Role,
		IsVerified:    u.IsVerified,
		PhoneVerified: u.PhoneVerified,
		AvatarURL:     u.AvatarURL,
		LastLogin:     u.LastLogin,
		EnrolledAt:    u.CreatedAt,
		SchoolInfo:    u.SchoolInfo,
	}
}

// NewUserResponses projects a slice of stored users.
func NewUserResponses(users []model.User) []UserResponse {
	res := make([]UserResponse, 0, len(users))
	for i := range users {
		res = append(res, NewUserResponse(&users[i]))
	}
	return res
}
