package router

import (
	"time"

	"github.com/edubooster/backend/config"
	"github.com/edubooster/backend/internal/handler"
	"github.com/edubooster/backend/internal/middleware"
	"github.com/edubooster/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type Router struct {
	authHandler   *handler.AuthHandler
	userHandler   *handler.UserHandler
	healthHandler *handler.HealthHandler

	jwtMw  *middleware.JWTMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	health *handler.HealthHandler,
	jwtMw *middleware.JWTMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		userHandler:   user,
		healthHandler: health,
		jwtMw:         jwtMw,
		Config:        cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	registerValidations()

	router := gin.New()

	router.Use(middleware.RequestContext())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())

	// Uploaded avatars are served straight from disk.
	router.Static("/uploads", r.Config.Upload.Dir)

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.Check)

		api.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

		r.authRoutes(api)
		r.userRoutes(api)
	}

	return router
}

// registerValidations installs the custom binding tags used by the request
// DTOs. The full policy also runs in the service layer; the binding check
// rejects obviously bad input before it reaches a handler.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return service.ValidatePassword(fl.Field().String()) == nil
		})
	}
}
