package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		// Public routes (no authentication required)
		auth.POST("/create", r.authHandler.Register)
		auth.PUT("/verify-email", r.authHandler.VerifyEmail)
		auth.POST("/new-verification-code", r.authHandler.RequestNewCode)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/refresh-token", r.authHandler.Refresh)
		auth.PUT("/verify-phone", r.authHandler.VerifyPhone)
		auth.POST("/new-phone-code", r.authHandler.RequestNewPhoneCode)
		auth.POST("/request-password-reset", r.authHandler.RequestPasswordReset)
		auth.POST("/reset-password", r.authHandler.ResetPassword)

		// Protected routes (JWT authentication required)
		protected := auth.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("/logout", r.authHandler.Logout)
			protected.PUT("/add-phone-number", r.authHandler.AddPhoneNumber)
		}
	}
}
