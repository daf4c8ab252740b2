package service

import (
	"testing"

	apperrors "github.com/edubooster/backend/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "strong password", password: "Str0ng!Pass", wantErr: false},
		{name: "too short", password: "Aa1!aaa", wantErr: true},
		{name: "all lowercase", password: "str0ng!pass", wantErr: true},
		{name: "no lowercase", password: "STR0NG!PASS", wantErr: true},
		{name: "no digit", password: "Strong!Pass", wantErr: true},
		{name: "no special character", password: "Str0ngPass1", wantErr: true},
		{name: "denylisted", password: "password1", wantErr: true},
		{name: "denylisted mixed case", password: "PaSsWoRd1", wantErr: true},
		{name: "minimum length accepted", password: "Aa1!aaaa", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrPasswordPolicy)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
