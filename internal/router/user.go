package router

import (
	"github.com/edubooster/backend/internal/model"
	"github.com/gin-gonic/gin"
)

func (r *Router) userRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		// Public profile lookup
		users.GET("/:id", r.userHandler.GetByID)

		protected := users.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.GET("/me", r.userHandler.GetMe)
			protected.POST("/change-avatar", r.userHandler.ChangeAvatar)
			protected.POST("/update-user/:id", r.userHandler.UpdateUser)

			// Admin-only listing and deletion
			admin := protected.Group("")
			admin.Use(r.jwtMw.RequireRole(model.RoleAdmin))
			{
				admin.GET("", r.userHandler.List)
				admin.DELETE("/:id", r.userHandler.Delete)
			}
		}
	}
}
