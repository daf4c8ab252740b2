package handler

import (
	"net/http"

	"github.com/edubooster/backend/internal/constants"
	"github.com/edubooster/backend/internal/dto"
	apperrors "github.com/edubooster/backend/internal/errors"
	"github.com/edubooster/backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler exposes the registration, verification, login and password
// reset endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/auth/create.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, constants.BuildUserResponse(user,
		"A verification code has been sent to "+user.Email))
}

// VerifyEmail handles PUT /api/auth/verify-email. An expired code answers
// 400 with the "expired" discriminator and the owner's email so the client
// can offer a resend.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.auth.VerifyEmail(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Expired {
		c.JSON(http.StatusBadRequest, gin.H{
			constants.ResponseFieldError: constants.DiscriminatorExpired,
			constants.ResponseFieldEmail: result.Email,
		})
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Email verified successfully"))
}

// RequestNewCode handles POST /api/auth/new-verification-code.
func (h *AuthHandler) RequestNewCode(c *gin.Context) {
	var req dto.NewCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.RequestNewCode(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		"A new verification code has been sent to "+user.Email))
}

// Login handles POST /api/auth/login. An unverified account answers 403
// with the "unverified" discriminator instead of issuing tokens.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Unverified {
		c.JSON(http.StatusForbidden, gin.H{
			constants.ResponseFieldError: constants.DiscriminatorUnverified,
			constants.ResponseFieldEmail: result.Email,
		})
		return
	}

	c.JSON(http.StatusOK, constants.BuildResResponse(result.Tokens))
}

// Refresh handles POST /api/auth/refresh-token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildResResponse(tokens))
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Logged out successfully"))
}

// AddPhoneNumber handles PUT /api/auth/add-phone-number.
func (h *AuthHandler) AddPhoneNumber(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.AddPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.AddPhoneNumber(c.Request.Context(), userID, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildUserResponse(user,
		"A verification code has been sent to "+user.Phone))
}

// VerifyPhone handles PUT /api/auth/verify-phone.
func (h *AuthHandler) VerifyPhone(c *gin.Context) {
	var req dto.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.auth.VerifyPhone(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Expired {
		c.JSON(http.StatusBadRequest, gin.H{
			constants.ResponseFieldError: constants.DiscriminatorExpired,
			constants.ResponseFieldPhone: result.Phone,
		})
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Phone number verified successfully"))
}

// RequestNewPhoneCode handles POST /api/auth/new-phone-code.
func (h *AuthHandler) RequestNewPhoneCode(c *gin.Context) {
	var req dto.NewPhoneCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.RequestNewPhoneCode(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		"A new verification code has been sent to "+user.Phone))
}

// RequestPasswordReset handles POST /api/auth/request-password-reset.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		"A password reset code has been sent to "+req.Email))
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Password reset successfully"))
}

// callerID pulls the authenticated user id set by the auth middleware.
func callerID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.GinKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
