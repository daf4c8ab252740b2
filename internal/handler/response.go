package handler

import (
	"github.com/edubooster/backend/internal/constants"
	apperrors "github.com/edubooster/backend/internal/errors"
	"github.com/gin-gonic/gin"
)

// respondError converts a service error into the { message, statusCode }
// envelope. Non-domain errors collapse to a generic 500.
func respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	message := apperrors.GetErrorMessage(err)
	if status == 500 {
		message = constants.MsgInternalError
	}
	c.JSON(status, constants.BuildErrorResponse(message, status))
}

// respondBindError shapes gin binding failures as validation errors.
func respondBindError(c *gin.Context, err error) {
	respondError(c, apperrors.WrapError(apperrors.ErrValidation, err))
}
