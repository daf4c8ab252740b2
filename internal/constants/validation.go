package constants

import "time"

// Field Length Limits
const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
	MinNameLength     = 2
	MaxNameLength     = 50
	MinPhoneLength    = 10
	MaxPhoneLength    = 15
	MaxEmailLength    = 255
)

// One-time code settings
const (
	OTPLength = 6

	EmailCodeTTL       = 10 * time.Minute
	EmailCodeResendTTL = 15 * time.Minute
	PhoneCodeTTL       = 10 * time.Minute
	ResetCodeTTL       = 15 * time.Minute
)

// Avatar upload settings
const (
	MaxAvatarSize      = 2 << 20 // 2 MiB
	AvatarFormField    = "avatar"
	UploadsRoutePrefix = "/uploads"
)
