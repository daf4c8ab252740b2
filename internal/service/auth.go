package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/edubooster/backend/internal/constants"
	"github.com/edubooster/backend/internal/dto"
	apperrors "github.com/edubooster/backend/internal/errors"
	"github.com/edubooster/backend/internal/model"
	ctxutil "github.com/edubooster/backend/pkg/context"
	"github.com/edubooster/backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost is the adaptive hash cost used for stored passwords.
const bcryptCost = 12

// AuthService orchestrates registration, verification, login, token
// rotation and password reset against the credential store. Every mutating
// operation is a single read-validate-write sequence; concurrent writes to
// the same account are last-write-wins.
type AuthService struct {
	users  UserStore
	tokens *TokenService
	mail   MailSender
	sms    SMSSender
}

func NewAuthService(users UserStore, tokens *TokenService, mail MailSender, sms SMSSender) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		mail:   mail,
		sms:    sms,
	}
}

// VerifyResult distinguishes the recoverable "expired" outcome from success.
// Expired carries the owner's email so the client can request a new code.
type VerifyResult struct {
	Expired bool
	Email   string
	Phone   string
}

// LoginResult distinguishes the recoverable "unverified" outcome from a
// completed login.
type LoginResult struct {
	Unverified bool
	Email      string
	Tokens     *dto.TokenPairResponse
}

// Register creates an unverified account, stores a fresh email code and
// dispatches it. A failed dispatch is logged but does not undo the
// registration; the client can request a resend.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	if req.Password != req.Password2 {
		return nil, apperrors.NewDomainError(apperrors.ErrValidation.Code, "passwords do not match")
	}
	if !model.ValidRole(req.Role) {
		return nil, apperrors.NewDomainError(apperrors.ErrValidation.Code, "unknown role")
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if phone != "" {
		if _, err := s.users.GetByPhone(ctx, phone); err == nil {
			return nil, apperrors.ErrPhoneExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	code, err := generateOTP()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	expiration := time.Now().Add(constants.EmailCodeTTL)

	user := &model.User{
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            email,
		Phone:            phone,
		Password:         string(hashed),
		Role:             req.Role,
		VerificationCode: &code,
		CodeExpiration:   &expiration,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.mail.SendVerificationCode(ctx, user.Email, user.FirstName, user.LastName, code); err != nil {
		// The account exists; the client can ask for a resend.
		logger.WarnWithContext(ctx, "Verification email dispatch failed").
			String("email", user.Email).
			Uint("user_id", user.ID).
			Err(err).
			Log()
	}

	logger.InfoWithContext(ctx, "User registered").
		String("email", user.Email).
		Uint("user_id", user.ID).
		String("role", user.Role).
		Log()

	res := dto.NewUserResponse(user)
	return &res, nil
}

// VerifyEmail consumes an email one-time code. An expired code is a soft
// outcome, not a failure.
func (s *AuthService) VerifyEmail(ctx context.Context, code string) (*VerifyResult, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "VerifyEmail")

	user, err := s.users.GetByVerificationCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.IsVerified {
		return nil, apperrors.ErrAlreadyVerified
	}

	if codeExpired(user.CodeExpiration, time.Now()) {
		logger.InfoWithContext(ctx, "Email verification code expired").
			String("email", user.Email).
			Uint("user_id", user.ID).
			Log()
		return &VerifyResult{Expired: true, Email: user.Email}, nil
	}

	// The code is kept so a replayed request reports AlreadyVerified
	// instead of NotFound.
	fields := map[string]any{"is_verified": true}
	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Email verified").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Log()

	return &VerifyResult{Email: user.Email}, nil
}

// RequestNewCode regenerates the email verification code with a fresh
// expiration and redispatches it.
func (s *AuthService) RequestNewCode(ctx context.Context, email string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "RequestNewCode")

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	code, err := generateOTP()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	expiration := time.Now().Add(constants.EmailCodeResendTTL)

	fields := map[string]any{
		"verification_code": code,
		"code_expiration":   expiration,
	}
	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.mail.SendVerificationCode(ctx, user.Email, user.FirstName, user.LastName, code); err != nil {
		logger.ErrorWithContext(ctx, "Verification email resend failed").
			String("email", user.Email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := dto.NewUserResponse(user)
	return &res, nil
}

// Login authenticates credentials. An unverified account is a soft outcome
// that issues no tokens; a verified login persists the rotated refresh
// token and the login timestamp.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !user.IsVerified {
		logger.InfoWithContext(ctx, "Login attempt on unverified account").
			String("email", user.Email).
			Uint("user_id", user.ID).
			Log()
		return &LoginResult{Unverified: true, Email: user.Email}, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		logger.WarnWithContext(ctx, "Login failed: incorrect password").
			String("email", user.Email).
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User logged in").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Log()

	return &LoginResult{Tokens: tokens}, nil
}

// Refresh rotates the token pair. The presented token must match the stored
// value exactly (401 otherwise); its signature must verify and its subject
// must match the owning row (403 otherwise).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Refresh")

	if refreshToken == "" {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Refresh token matches no account").Log()
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Stored refresh token failed verification").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.ErrForbidden
	}

	if claims.UserID != user.ID {
		logger.WarnWithContext(ctx, "Refresh token subject mismatch").
			Uint("user_id", user.ID).
			Uint("claim_user_id", claims.UserID).
			Log()
		return nil, apperrors.ErrForbidden
	}

	tokens, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Token pair rotated").
		Uint("user_id", user.ID).
		Log()

	return tokens, nil
}

// Logout clears the stored refresh token for the authenticated identity.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	fields := map[string]any{"refresh_token": nil}
	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUnauthorized
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out").
		Uint("user_id", userID).
		Log()

	return nil
}

// AddPhoneNumber attaches a phone number to the authenticated account and
// dispatches a phone one-time code. Dispatch failure is logged, not fatal,
// mirroring registration.
func (s *AuthService) AddPhoneNumber(ctx context.Context, userID uint, phone string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "AddPhoneNumber")

	phone = strings.TrimSpace(phone)

	if owner, err := s.users.GetByPhone(ctx, phone); err == nil && owner.ID != userID {
		return nil, apperrors.ErrPhoneExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	code, err := generateOTP()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	expiration := time.Now().Add(constants.PhoneCodeTTL)

	fields := map[string]any{
		"phone":                   phone,
		"phone_verified":          false,
		"phone_verification_code": code,
		"phone_code_expiration":   expiration,
	}
	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.sms.SendPhoneCode(ctx, phone, code); err != nil {
		logger.WarnWithContext(ctx, "Phone code dispatch failed").
			Uint("user_id", userID).
			Err(err).
			Log()
	}

	user.Phone = phone
	user.PhoneVerified = false
	res := dto.NewUserResponse(user)
	return &res, nil
}

// VerifyPhone consumes a phone one-time code, mirroring VerifyEmail.
func (s *AuthService) VerifyPhone(ctx context.Context, code string) (*VerifyResult, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "VerifyPhone")

	user, err := s.users.GetByPhoneCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.PhoneVerified {
		return nil, apperrors.ErrAlreadyVerified
	}

	if codeExpired(user.PhoneCodeExpiration, time.Now()) {
		return &VerifyResult{Expired: true, Phone: user.Phone}, nil
	}

	fields := map[string]any{"phone_verified": true}
	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Phone verified").
		Uint("user_id", user.ID).
		Log()

	return &VerifyResult{Phone: user.Phone}, nil
}

// RequestNewPhoneCode regenerates the phone code and redispatches it.
func (s *AuthService) RequestNewPhoneCode(ctx context.Context, phone string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "RequestNewPhoneCode")

	user, err := s.users.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	code, err := generateOTP()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	expiration := time.Now().Add(constants.PhoneCodeTTL)

	fields := map[string]any{
		"phone_verification_code": code,
		"phone_code_expiration":   expiration,
	}
	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.sms.SendPhoneCode(ctx, user.Phone, code); err != nil {
		logger.ErrorWithContext(ctx, "Phone code resend failed").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := dto.NewUserResponse(user)
	return &res, nil
}

// RequestPasswordReset stores a reset one-time code and emails it.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "RequestPasswordReset")

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	code, err := generateOTP()
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	expiration := time.Now().Add(constants.ResetCodeTTL)

	fields := map[string]any{
		"reset_code":            code,
		"reset_code_expiration": expiration,
	}
	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.mail.SendResetCode(ctx, user.Email, user.FirstName, user.LastName, code); err != nil {
		logger.ErrorWithContext(ctx, "Reset email dispatch failed").
			String("email", user.Email).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password reset requested").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Log()

	return nil
}

// ResetPassword consumes the reset code and replaces the password hash.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ResetPassword")

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.ResetCode == nil || *user.ResetCode != code ||
		codeExpired(user.ResetCodeExpiration, time.Now()) {
		logger.WarnWithContext(ctx, "Password reset rejected").
			String("email", user.Email).
			Uint("user_id", user.ID).
			Log()
		return apperrors.ErrInvalidOrExpiredCode
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	fields := map[string]any{
		"password":              string(hashed),
		"reset_code":            nil,
		"reset_code_expiration": nil,
	}
	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password reset completed").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Log()

	return nil
}

// issueTokenPair signs both tokens and persists the rotated refresh token
// plus the login timestamp, invalidating any prior refresh token.
func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User) (*dto.TokenPairResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	now := time.Now()
	fields := map[string]any{
		"refresh_token": refreshToken,
		"last_login":    now,
	}
	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	user.RefreshToken = &refreshToken
	user.LastLogin = &now

	return &dto.TokenPairResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
		User:         dto.NewUserResponse(user),
	}, nil
}
