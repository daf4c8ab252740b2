package dto

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=50"`
	LastName  string `json:"lastName" binding:"required,min=2,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,min=10,max=15"`
	Password  string `json:"password" binding:"required,min=8,max=100,strongpassword"`
	Password2 string `json:"password2" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=STUDENT ADMIN"`
}

type VerifyCodeRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

type NewCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AddPhoneRequest struct {
	Phone string `json:"phone" binding:"required,min=10,max=15"`
}

type NewPhoneCodeRequest struct {
	Phone string `json:"phone" binding:"required,min=10,max=15"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=100,strongpassword"`
}

type TokenPairResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access token expiry in seconds
	User         UserResponse `json:"user"`
}
