package repository

import (
	"context"
	"time"

	"github.com/edubooster/backend/internal/model"
	ctxutil "github.com/edubooster/backend/pkg/context"
	"github.com/edubooster/backend/pkg/logger"
	"gorm.io/gorm"
)

// UserRepository is the single gateway to the credential store. Every
// lookup/mutation is one row; no cross-row coordination happens here.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user row.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration("query_time", duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Duration("query_time", duration).
		Log()

	return nil
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")
	return r.first(ctx, "id = ?", id)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByEmail")
	return r.first(ctx, "email = ?", email)
}

// GetByPhone fetches a user by phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByPhone")
	return r.first(ctx, "phone = ?", phone)
}

// GetByVerificationCode fetches the owner of an email verification code.
func (r *UserRepository) GetByVerificationCode(ctx context.Context, code string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByVerificationCode")
	return r.first(ctx, "verification_code = ?", code)
}

// GetByPhoneCode fetches the owner of a phone verification code.
func (r *UserRepository) GetByPhoneCode(ctx context.Context, code string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByPhoneCode")
	return r.first(ctx, "phone_verification_code = ?", code)
}

// GetByRefreshToken fetches the owner of the exact stored refresh token.
func (r *UserRepository) GetByRefreshToken(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByRefreshToken")
	return r.first(ctx, "refresh_token = ?", token)
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where(query, arg).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			logger.DebugWithContext(ctx, "User lookup miss").
				Duration("query_time", duration).
				Log()
		} else {
			logger.ErrorWithContext(ctx, "User lookup failed").
				Duration("query_time", duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &user, nil
}

// GetAll lists users with pagination and an optional name/email/phone search.
func (r *UserRepository) GetAll(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetAll")

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	start := time.Now()
	var users []model.User
	var total int64

	query := r.db.WithContext(ctx).Model(&model.User{})

	if search != "" {
		searchPattern := "%" + search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count users").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch users").
			Int("limit", limit).
			Int("offset", offset).
			String("search", search).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Users listed").
		Int("limit", limit).
		Int("offset", offset).
		String("search", search).
		Int64("total", total).
		Int("returned_count", len(users)).
		Duration("query_time", time.Since(start)).
		Log()

	return users, total, nil
}

// UpdateFields applies a column map to one user row.
func (r *UserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateFields")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user").
			Uint("user_id", id).
			Duration("query_time", duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to update").
			Uint("user_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "User updated").
		Uint("user_id", id).
		Int("field_count", len(fields)).
		Duration("query_time", duration).
		Log()

	return nil
}

// Delete performs hard delete on user (permanent deletion)
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Delete")

	start := time.Now()
	result := r.db.WithContext(ctx).Unscoped().Delete(&model.User{}, id)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete user").
			Uint("user_id", id).
			Duration("query_time", duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to delete").
			Uint("user_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User deleted").
		Uint("user_id", id).
		Duration("query_time", duration).
		Log()

	return nil
}
