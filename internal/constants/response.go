package constants

// Standard Response Field Keys
const (
	ResponseFieldSuccess    = "success"
	ResponseFieldRes        = "res"
	ResponseFieldUser       = "user"
	ResponseFieldMessage    = "message"
	ResponseFieldStatusCode = "statusCode"
	ResponseFieldCount      = "count"
	ResponseFieldError      = "error"
	ResponseFieldEmail      = "email"
	ResponseFieldPhone      = "phone"
)

// Soft-outcome discriminators carried in response payloads. Clients branch
// on these instead of treating the whole request as failed.
const (
	DiscriminatorExpired    = "expired"
	DiscriminatorUnverified = "unverified"
)

// BuildErrorResponse shapes the error envelope: { message, statusCode }.
func BuildErrorResponse(message string, statusCode int) map[string]any {
	return map[string]any{
		ResponseFieldMessage:    message,
		ResponseFieldStatusCode: statusCode,
	}
}

// BuildSuccessResponse shapes a bare success envelope with a human message.
func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldMessage: message,
	}
}

// BuildResResponse wraps a payload under the "res" key.
func BuildResResponse(res any) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldRes:     res,
	}
}

// BuildUserResponse wraps a sanitized user under the "user" key.
func BuildUserResponse(user any, message string) map[string]any {
	response := map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldUser:    user,
	}
	if message != "" {
		response[ResponseFieldMessage] = message
	}
	return response
}
