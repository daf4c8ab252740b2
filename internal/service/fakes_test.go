package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/edubooster/backend/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fakeStore is an in-memory UserStore used across the service tests.
type fakeStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User

	failUpdate error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, users: make(map[uint]*model.User)}
}

func (s *fakeStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return s.findBy(func(u *model.User) bool { return u.Email == email })
}

func (s *fakeStore) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	return s.findBy(func(u *model.User) bool { return u.Phone == phone })
}

func (s *fakeStore) GetByVerificationCode(_ context.Context, code string) (*model.User, error) {
	return s.findBy(func(u *model.User) bool {
		return u.VerificationCode != nil && *u.VerificationCode == code
	})
}

func (s *fakeStore) GetByPhoneCode(_ context.Context, code string) (*model.User, error) {
	return s.findBy(func(u *model.User) bool {
		return u.PhoneVerificationCode != nil && *u.PhoneVerificationCode == code
	})
}

func (s *fakeStore) GetByRefreshToken(_ context.Context, token string) (*model.User, error) {
	return s.findBy(func(u *model.User) bool {
		return u.RefreshToken != nil && *u.RefreshToken == token
	})
}

func (s *fakeStore) GetAll(_ context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.User
	for id := uint(1); id < s.nextID; id++ {
		user, ok := s.users[id]
		if !ok {
			continue
		}
		if search != "" {
			needle := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(user.Email), needle) &&
				!strings.Contains(strings.ToLower(user.FirstName), needle) &&
				!strings.Contains(strings.ToLower(user.LastName), needle) {
				continue
			}
		}
		all = append(all, *user)
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *fakeStore) UpdateFields(_ context.Context, id uint, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failUpdate != nil {
		return s.failUpdate
	}

	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	for key, value := range fields {
		switch key {
		case "first_name":
			user.FirstName = value.(string)
		case "last_name":
			user.LastName = value.(string)
		case "email":
			user.Email = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "password":
			user.Password = value.(string)
		case "is_verified":
			user.IsVerified = value.(bool)
		case "phone_verified":
			user.PhoneVerified = value.(bool)
		case "verification_code":
			user.VerificationCode = toStringPtr(value)
		case "code_expiration":
			user.CodeExpiration = toTimePtr(value)
		case "phone_verification_code":
			user.PhoneVerificationCode = toStringPtr(value)
		case "phone_code_expiration":
			user.PhoneCodeExpiration = toTimePtr(value)
		case "reset_code":
			user.ResetCode = toStringPtr(value)
		case "reset_code_expiration":
			user.ResetCodeExpiration = toTimePtr(value)
		case "refresh_token":
			user.RefreshToken = toStringPtr(value)
		case "last_login":
			user.LastLogin = toTimePtr(value)
		case "avatar_url":
			user.AvatarURL = toStringPtr(value)
		case "school_info":
			user.SchoolInfo = value.(datatypes.JSON)
		}
	}
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeStore) findBy(match func(*model.User) bool) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := uint(1); id < s.nextID; id++ {
		user, ok := s.users[id]
		if ok && match(user) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func toStringPtr(value any) *string {
	if value == nil {
		return nil
	}
	v := value.(string)
	return &v
}

func toTimePtr(value any) *time.Time {
	if value == nil {
		return nil
	}
	v := value.(time.Time)
	return &v
}

// fakeMailer records sent codes and optionally fails every send.
type fakeMailer struct {
	mu        sync.Mutex
	fail      error
	sent      []string
	lastCode  string
	lastEmail string
}

func (m *fakeMailer) SendVerificationCode(_ context.Context, email, _, _, code string) error {
	return m.record(email, code)
}

func (m *fakeMailer) SendResetCode(_ context.Context, email, _, _, code string) error {
	return m.record(email, code)
}

func (m *fakeMailer) record(email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, code)
	m.lastCode = code
	m.lastEmail = email
	return nil
}

// fakeSMS records sent codes and optionally fails every send.
type fakeSMS struct {
	mu        sync.Mutex
	fail      error
	sent      []string
	lastCode  string
	lastPhone string
}

func (s *fakeSMS) SendPhoneCode(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, code)
	s.lastCode = code
	s.lastPhone = phone
	return nil
}
