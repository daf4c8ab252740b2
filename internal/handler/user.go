package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/edubooster/backend/internal/constants"
	"github.com/edubooster/backend/internal/dto"
	apperrors "github.com/edubooster/backend/internal/errors"
	"github.com/edubooster/backend/internal/model"
	"github.com/edubooster/backend/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler exposes profile reads, updates, avatar upload and the admin
// listing/deletion endpoints.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetMe handles GET /api/users/me.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.users.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildUserResponse(user, ""))
}

// List handles GET /api/users.
func (h *UserHandler) List(c *gin.Context) {
	params := constants.ParsePaginationParams(c)
	search := c.DefaultQuery(constants.QueryParamSearch, constants.DefaultSearch)

	users, total, err := h.users.ListUsers(c.Request.Context(), params.Limit, params.Offset, search)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		constants.ResponseFieldSuccess: true,
		constants.ResponseFieldRes:     users,
		constants.ResponseFieldCount:   total,
		constants.QueryParamPage:       params.Page,
		constants.QueryParamLimit:      params.Limit,
	})
}

// GetByID handles GET /api/users/:id.
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildUserResponse(user, ""))
}

// ChangeAvatar handles POST /api/users/change-avatar. Expects a multipart
// form with the file under the "avatar" field.
func (h *UserHandler) ChangeAvatar(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile(constants.AvatarFormField)
	if err != nil {
		respondError(c, apperrors.NewDomainError(apperrors.ErrValidation.Code, "avatar file is required"))
		return
	}
	if fileHeader.Size > constants.MaxAvatarSize {
		respondError(c, apperrors.NewDomainError(apperrors.ErrValidation.Code, "avatar exceeds the 2 MiB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperrors.WrapError(apperrors.ErrInternal, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxAvatarSize+1))
	if err != nil {
		respondError(c, apperrors.WrapError(apperrors.ErrInternal, err))
		return
	}

	user, err := h.users.AddAvatar(c.Request.Context(), userID, fileHeader.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildUserResponse(user, "Avatar updated successfully"))
}

// UpdateUser handles POST /api/users/update-user/:id. Callers may update
// their own profile; admins may update anyone.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	requesterID, ok := callerID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if id != requesterID && c.GetString(constants.GinKeyUserRole) != model.RoleAdmin {
		respondError(c, apperrors.ErrForbidden)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildUserResponse(user, "Profile updated successfully"))
}

// Delete handles DELETE /api/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	requesterID, ok := callerID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), id, requesterID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("User deleted successfully"))
}

func pathID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewDomainError(apperrors.ErrValidation.Code, "invalid user id")
	}
	return uint(id), nil
}
