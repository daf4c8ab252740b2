package service

import (
	"strings"
	"unicode"

	"github.com/edubooster/backend/internal/constants"
	apperrors "github.com/edubooster/backend/internal/errors"
)

// commonPasswords is the denylist of passwords rejected regardless of shape.
var commonPasswords = map[string]struct{}{
	"123456":     {},
	"password":   {},
	"123456789":  {},
	"qwerty":     {},
	"12345678":   {},
	"111111":     {},
	"admin":      {},
	"password1":  {},
	"qwerty123":  {},
	"iloveyou":   {},
}

func policyError(message string) *apperrors.DomainError {
	return apperrors.NewDomainError(apperrors.ErrPasswordPolicy.Code, message)
}

// ValidatePassword enforces the password policy: minimum length, not in the
// common-password denylist, and at least one upper, lower, digit and special
// character each.
func ValidatePassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return policyError("password must be at least 8 characters long")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return policyError("this password is too common")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return policyError("password must contain at least one uppercase letter")
	case !hasLower:
		return policyError("password must contain at least one lowercase letter")
	case !hasDigit:
		return policyError("password must contain at least one digit")
	case !hasSpecial:
		return policyError("password must contain at least one special character")
	}

	return nil
}
