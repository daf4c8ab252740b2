package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/edubooster/backend/internal/constants"
	"github.com/edubooster/backend/internal/dto"
	apperrors "github.com/edubooster/backend/internal/errors"
	ctxutil "github.com/edubooster/backend/pkg/context"
	"github.com/edubooster/backend/pkg/logger"
	"github.com/edubooster/backend/pkg/redis"
	"gorm.io/gorm"
)

// AvatarStore persists uploaded avatar files and yields the public name.
type AvatarStore interface {
	Save(originalName string, data []byte) (string, error)
	Delete(storedName string) error
}

// UserService covers profile reads, partial updates, avatar uploads and the
// admin listing/deletion surface.
type UserService struct {
	users   UserStore
	avatars AvatarStore
	mail    MailSender
	sms     SMSSender
	cache   *redis.Client
}

func NewUserService(users UserStore, avatars AvatarStore, mail MailSender, sms SMSSender, cache *redis.Client) *UserService {
	return &UserService{
		users:   users,
		avatars: avatars,
		mail:    mail,
		sms:     sms,
		cache:   cache,
	}
}

// ListUsers returns a page of sanitized profiles with the total count.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int, search string) ([]dto.UserResponse, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListUsers")

	users, total, err := s.users.GetAll(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return dto.NewUserResponses(users), total, nil
}

// GetByID returns a single sanitized profile, serving repeat reads from the
// cache when one is configured.
func (s *UserService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetByID")

	if cached, ok := s.cache.Get(ctx, profileCacheKey(id)); ok {
		var res dto.UserResponse
		if err := json.Unmarshal([]byte(cached), &res); err == nil {
			return &res, nil
		}
		s.cache.Delete(ctx, profileCacheKey(id))
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := dto.NewUserResponse(user)
	if payload, err := json.Marshal(res); err == nil {
		s.cache.Set(ctx, profileCacheKey(id), string(payload), constants.ProfileCacheTTL)
	}

	return &res, nil
}

// GetCurrent resolves the authenticated caller's own profile.
func (s *UserService) GetCurrent(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	return s.GetByID(ctx, userID)
}

// UpdateUser applies a partial profile update. Changing the email or phone
// clears the matching verified flag and redispatches a one-time code; a
// failed dispatch is logged but does not fail the update.
func (s *UserService) UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateUser")

	if !req.HasFields() {
		return nil, apperrors.NewDomainError(apperrors.ErrValidation.Code, "no fields to update")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	fields := map[string]any{}
	if req.FirstName != "" {
		fields["first_name"] = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		fields["last_name"] = strings.TrimSpace(req.LastName)
	}
	if req.AvatarURL != "" {
		fields["avatar_url"] = req.AvatarURL
	}
	if len(req.SchoolInfo) > 0 {
		fields["school_info"] = req.SchoolInfo
	}

	var emailCode, phoneCode string

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email != user.Email {
			if owner, err := s.users.GetByEmail(ctx, email); err == nil && owner.ID != id {
				return nil, apperrors.ErrEmailExists
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}

			code, err := generateOTP()
			if err != nil {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			emailCode = code
			expiration := time.Now().Add(constants.EmailCodeTTL)

			fields["email"] = email
			fields["is_verified"] = false
			fields["verification_code"] = code
			fields["code_expiration"] = expiration
		}
	}

	if req.Phone != "" {
		phone := strings.TrimSpace(req.Phone)
		if phone != user.Phone {
			if owner, err := s.users.GetByPhone(ctx, phone); err == nil && owner.ID != id {
				return nil, apperrors.ErrPhoneExists
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}

			code, err := generateOTP()
			if err != nil {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			phoneCode = code
			expiration := time.Now().Add(constants.PhoneCodeTTL)

			fields["phone"] = phone
			fields["phone_verified"] = false
			fields["phone_verification_code"] = code
			fields["phone_code_expiration"] = expiration
		}
	}

	if len(fields) == 0 {
		res := dto.NewUserResponse(user)
		return &res, nil
	}

	if err := s.users.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.cache.Delete(ctx, profileCacheKey(id))

	updated, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if emailCode != "" {
		if err := s.mail.SendVerificationCode(ctx, updated.Email, updated.FirstName, updated.LastName, emailCode); err != nil {
			logger.WarnWithContext(ctx, "Verification email dispatch failed after email change").
				Uint("user_id", id).
				Err(err).
				Log()
		}
	}
	if phoneCode != "" {
		if err := s.sms.SendPhoneCode(ctx, updated.Phone, phoneCode); err != nil {
			logger.WarnWithContext(ctx, "Phone code dispatch failed after phone change").
				Uint("user_id", id).
				Err(err).
				Log()
		}
	}

	logger.InfoWithContext(ctx, "Profile updated").
		Uint("user_id", id).
		Int("fields", len(fields)).
		Log()

	res := dto.NewUserResponse(updated)
	return &res, nil
}

// AddAvatar stores an uploaded avatar under a collision-resistant name and
// points the profile at it. The previous file, if any, is removed best
// effort after the profile row is updated.
func (s *UserService) AddAvatar(ctx context.Context, userID uint, originalName string, data []byte) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "AddAvatar")

	if len(data) == 0 {
		return nil, apperrors.NewDomainError(apperrors.ErrValidation.Code, "avatar file is empty")
	}
	if len(data) > constants.MaxAvatarSize {
		return nil, apperrors.NewDomainError(apperrors.ErrValidation.Code, "avatar exceeds the 2 MiB limit")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	storedName, err := s.avatars.Save(originalName, data)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	avatarURL := constants.UploadsRoutePrefix + "/" + storedName

	fields := map[string]any{"avatar_url": avatarURL}
	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		// Roll back the orphaned file.
		if delErr := s.avatars.Delete(storedName); delErr != nil {
			logger.WarnWithContext(ctx, "Orphaned avatar cleanup failed").
				String("file", storedName).
				Err(delErr).
				Log()
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.cache.Delete(ctx, profileCacheKey(userID))

	if prior := storedAvatarName(user.AvatarURL); prior != "" {
		if err := s.avatars.Delete(prior); err != nil {
			logger.WarnWithContext(ctx, "Previous avatar removal failed").
				String("file", prior).
				Err(err).
				Log()
		}
	}

	logger.InfoWithContext(ctx, "Avatar updated").
		Uint("user_id", userID).
		String("avatar_url", avatarURL).
		Log()

	user.AvatarURL = &avatarURL
	res := dto.NewUserResponse(user)
	return &res, nil
}

// DeleteUser removes an account permanently. Admins cannot delete their own
// account through this path.
func (s *UserService) DeleteUser(ctx context.Context, id, requesterID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "DeleteUser")

	if id == requesterID {
		return apperrors.ErrSelfDeletion
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.cache.Delete(ctx, profileCacheKey(id))

	if prior := storedAvatarName(user.AvatarURL); prior != "" {
		if err := s.avatars.Delete(prior); err != nil {
			logger.WarnWithContext(ctx, "Avatar removal failed during account deletion").
				String("file", prior).
				Err(err).
				Log()
		}
	}

	logger.InfoWithContext(ctx, "User deleted").
		Uint("user_id", id).
		Uint("requester_id", requesterID).
		Log()

	return nil
}

func profileCacheKey(id uint) string {
	return constants.CacheKeyProfile + strconv.FormatUint(uint64(id), 10)
}

// storedAvatarName extracts the on-disk file name from an avatar URL that
// points into the uploads directory. External URLs yield "".
func storedAvatarName(avatarURL *string) string {
	if avatarURL == nil {
		return ""
	}
	name := strings.TrimPrefix(*avatarURL, constants.UploadsRoutePrefix+"/")
	if name == *avatarURL {
		return ""
	}
	return name
}
