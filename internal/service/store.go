package service

import (
	"context"

	"github.com/edubooster/backend/internal/model"
)

// UserStore is the credential-store surface the services need. Implemented
// by repository.UserRepository; tests substitute an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	GetByVerificationCode(ctx context.Context, code string) (*model.User, error)
	GetByPhoneCode(ctx context.Context, code string) (*model.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*model.User, error)
	GetAll(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

// MailSender delivers one-time codes over email.
type MailSender interface {
	SendVerificationCode(ctx context.Context, email, firstName, lastName, code string) error
	SendResetCode(ctx context.Context, email, firstName, lastName, code string) error
}

// SMSSender delivers one-time codes over SMS.
type SMSSender interface {
	SendPhoneCode(ctx context.Context, phone, code string) error
}
