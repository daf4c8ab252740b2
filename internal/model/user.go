package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// User is the single account row backing every auth and profile flow.
// Each code/expiration pair is either both null or both set.
type User struct {
	gorm.Model
	FirstName string `gorm:"column:first_name;not null"`
	LastName  string `gorm:"column:last_name;not null"`
	Email     string `gorm:"column:email;unique;not null"`
	Phone     string `gorm:"column:phone;index:idx_users_phone,unique,where:phone <> ''"`
	Password  string `gorm:"column:password;not null"`
	Role      string `gorm:"column:role;not null;default:STUDENT"`

	IsVerified            bool       `gorm:"column:is_verified;not null;default:false"`
	VerificationCode      *string    `gorm:"column:verification_code;index:idx_users_verification_code,where:verification_code IS NOT NULL"`
	CodeExpiration        *time.Time `gorm:"column:code_expiration"`
	PhoneVerified         bool       `gorm:"column:phone_verified;not null;default:false"`
	PhoneVerificationCode *string    `gorm:"column:phone_verification_code;index:idx_users_phone_code,where:phone_verification_code IS NOT NULL"`
	PhoneCodeExpiration   *time.Time `gorm:"column:phone_code_expiration"`
	ResetCode             *string    `gorm:"column:reset_code"`
	ResetCodeExpiration   *time.Time `gorm:"column:reset_code_expiration"`

	RefreshToken *string    `gorm:"column:refresh_token;index:idx_users_refresh_token,where:refresh_token IS NOT NULL"`
	AvatarURL    *string    `gorm:"column:avatar_url"`
	LastLogin    *time.Time `gorm:"column:last_login"`

	SchoolInfo datatypes.JSON `gorm:"column:school_info"`
}

// ValidRole reports whether role is one of the enumerated user roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleAdmin
}
