package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/edubooster/backend/internal/constants"
	"github.com/edubooster/backend/internal/dto"
	apperrors "github.com/edubooster/backend/internal/errors"
	"github.com/edubooster/backend/internal/model"
	"github.com/edubooster/backend/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fakeAvatarStore keeps uploaded files in memory.
type fakeAvatarStore struct {
	files   map[string][]byte
	counter int
	deleted []string
}

func newFakeAvatarStore() *fakeAvatarStore {
	return &fakeAvatarStore{files: make(map[string][]byte)}
}

func (s *fakeAvatarStore) Save(originalName string, data []byte) (string, error) {
	s.counter++
	name := fmt.Sprintf("%d-%s", s.counter, originalName)
	s.files[name] = bytes.Clone(data)
	return name, nil
}

func (s *fakeAvatarStore) Delete(storedName string) error {
	delete(s.files, storedName)
	s.deleted = append(s.deleted, storedName)
	return nil
}

func newUserFixture(t *testing.T) (*UserService, *fakeStore, *fakeAvatarStore) {
	t.Helper()
	store := newFakeStore()
	avatars := newFakeAvatarStore()
	cache := redis.NewClient(redis.Config{Enabled: false}, nil)
	svc := NewUserService(store, avatars, &fakeMailer{}, &fakeSMS{}, cache)
	return svc, store, avatars
}

func seedUser(t *testing.T, store *fakeStore, email, phone string) *model.User {
	t.Helper()
	user := &model.User{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      email,
		Phone:      phone,
		Password:   "hashed",
		Role:       model.RoleStudent,
		IsVerified: true,
	}
	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func TestGetByID_ReturnsPublicView(t *testing.T) {
	svc, store, _ := newUserFixture(t)
	user := seedUser(t, store, "ada@example.com", "+4915501234567")

	res, err := svc.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.ID)
	assert.Equal(t, "ada@example.com", res.Email)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, err := svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestListUsers_PaginatesAndCounts(t *testing.T) {
	svc, store, _ := newUserFixture(t)
	for i := 0; i < 5; i++ {
		seedUser(t, store, fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("+49155012345%02d", i))
	}

	page, total, err := svc.ListUsers(context.Background(), 2, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "user2@example.com", page[0].Email)
}

func TestListUsers_Search(t *testing.T) {
	svc, store, _ := newUserFixture(t)
	seedUser(t, store, "ada@example.com", "+4915501111111")
	seedUser(t, store, "grace@example.com", "+4915502222222")

	page, total, err := svc.ListUsers(context.Background(), 10, 0, "grace")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, "grace@example.com", page[0].Email)
}

func TestUpdateUser_PartialUpdate(t *testing.T) {
	svc, store, _ := newUserFixture(t)
	user := seedUser(t, store, "ada@example.com", "+4915501234567")

	res, err := svc.UpdateUser(context.Background(), user.ID, &dto.UpdateUserRequest{
		FirstName: "Augusta",
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", res.FirstName)
	assert.Equal(t, "Lovelace", res.LastName)
	assert.True(t, res.IsVerified)
}

func TestUpdateUser_EmailChangeResetsVerification(t *testing.T) {
	store := newFakeStore()
	avatars := newFakeAvatarStore()
	mailer := &fakeMailer{}
	cache := redis.NewClient(redis.Config{Enabled: false}, nil)
	svc := NewUserService(store, avatars, mailer, &fakeSMS{}, cache)

	user := seedUser(t, store, "ada@example.com", "+4915501234567")

	res, err := svc.UpdateUser(context.Background(), user.ID, &dto.UpdateUserRequest{
		Email: "new@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", res.Email)
	assert.False(t, res.IsVerified)

	stored, err := store.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationCode)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), *stored.CodeExpiration, time.Minute)
	assert.Equal(t, *stored.VerificationCode, mailer.lastCode)
	assert.Equal(t, "new@example.com", mailer.lastEmail)
}

func TestUpdateUser_PhoneChangeResetsPhoneVerification(t *testing.T) {
	store := newFakeStore()
	sms := &fakeSMS{}
	cache := redis.NewClient(redis.Config{Enabled: false}, nil)
	svc := NewUserService(store, newFakeAvatarStore(), &fakeMailer{}, sms, cache)

	user := seedUser(t, store, "ada@example.com", "+4915501234567")
	store.users[user.ID].PhoneVerified = true

	res, err := svc.UpdateUser(context.Background(), user.ID, &dto.UpdateUserRequest{
		Phone: "+4915509999999",
	})
	require.NoError(t, err)
	assert.Equal(t, "+4915509999999", res.Phone)
	assert.False(t, res.PhoneVerified)
	assert.Equal(t, "+4915509999999", sms.lastPhone)
}

func TestUpdateUser_SchoolInfo(t *testing.T) {
	svc, store, _ := newUserFixture(t)
	user := seedUser(t, store, "ada@example.com", "+4915501234567")

	info := datatypes.JSON(`{"name":"Lycée Ada","grade":"terminale"}`)
	res, err := svc.UpdateUser(context.Background(), user.ID, &dto.UpdateUserRequest{
		SchoolInfo: info,
	})
	require.NoError(t, err)
	assert.JSONEq(t, string(info), string(res.SchoolInfo))
}

func TestUpdateUser_RejectsTakenEmail(t *testing.T) {
	svc, store, _ := newUserFixture(t)
	seedUser(t, store, "ada@example.com", "+4915501111111")
	other := seedUser(t, store, "grace@example.com", "+4915502222222")

	_, err := svc.UpdateUser(context.Background(), other.ID, &dto.UpdateUserRequest{
		Email: "ada@example.com",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailExists)
}

func TestUpdateUser_NoFields(t *testing.T) {
	svc, store, _ := newUserFixture(t)
	user := seedUser(t, store, "ada@example.com", "+4915501234567")

	_, err := svc.UpdateUser(context.Background(), user.ID, &dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAddAvatar_SizeBoundary(t *testing.T) {
	svc, store, _ := newUserFixture(t)
	user := seedUser(t, store, "ada@example.com", "+4915501234567")
	ctx := context.Background()

	// Exactly 2 MiB is accepted.
	exact := make([]byte, constants.MaxAvatarSize)
	res, err := svc.AddAvatar(ctx, user.ID, "photo.png", exact)
	require.NoError(t, err)
	require.NotNil(t, res.AvatarURL)
	assert.True(t, strings.HasPrefix(*res.AvatarURL, constants.UploadsRoutePrefix+"/"))

	// One byte over is rejected.
	over := make([]byte, constants.MaxAvatarSize+1)
	_, err = svc.AddAvatar(ctx, user.ID, "photo.png", over)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Empty uploads are rejected too.
	_, err = svc.AddAvatar(ctx, user.ID, "photo.png", nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAddAvatar_ReplacesPreviousFile(t *testing.T) {
	svc, store, avatars := newUserFixture(t)
	user := seedUser(t, store, "ada@example.com", "+4915501234567")
	ctx := context.Background()

	first, err := svc.AddAvatar(ctx, user.ID, "one.png", []byte("a"))
	require.NoError(t, err)
	firstName := strings.TrimPrefix(*first.AvatarURL, constants.UploadsRoutePrefix+"/")

	second, err := svc.AddAvatar(ctx, user.ID, "two.png", []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, *first.AvatarURL, *second.AvatarURL)

	assert.Contains(t, avatars.deleted, firstName)
	_, stillThere := avatars.files[firstName]
	assert.False(t, stillThere)

	stored, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AvatarURL)
	assert.Equal(t, *second.AvatarURL, *stored.AvatarURL)
}

func TestDeleteUser_RemovesAccountAndAvatar(t *testing.T) {
	svc, store, avatars := newUserFixture(t)
	user := seedUser(t, store, "ada@example.com", "+4915501111111")
	admin := seedUser(t, store, "admin@example.com", "+4915502222222")
	ctx := context.Background()

	res, err := svc.AddAvatar(ctx, user.ID, "photo.png", []byte("a"))
	require.NoError(t, err)
	fileName := strings.TrimPrefix(*res.AvatarURL, constants.UploadsRoutePrefix+"/")

	require.NoError(t, svc.DeleteUser(ctx, user.ID, admin.ID))

	_, err = store.GetByID(ctx, user.ID)
	assert.Error(t, err)
	assert.Contains(t, avatars.deleted, fileName)
}

func TestDeleteUser_SelfDeletionBlocked(t *testing.T) {
	svc, store, _ := newUserFixture(t)
	admin := seedUser(t, store, "admin@example.com", "+4915501234567")

	err := svc.DeleteUser(context.Background(), admin.ID, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfDeletion)
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, store, _ := newUserFixture(t)
	admin := seedUser(t, store, "admin@example.com", "+4915501234567")

	err := svc.DeleteUser(context.Background(), 42, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
