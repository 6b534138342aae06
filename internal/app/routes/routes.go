package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/timetable/scheduler/internal/app/controllers"
	"github.com/timetable/scheduler/internal/middleware"
)

// ResourceRoutes mounts collection and item handlers on a group.
type ResourceRoutes interface {
	Register(group *gin.RouterGroup)
}

// Resource pairs a path with the controller serving it.
type Resource struct {
	Path       string
	Controller ResourceRoutes
}

// Controllers groups every controller the router needs.
type Controllers struct {
	Auth      *controllers.AuthController
	Advisors  *controllers.AdvisorController
	Health    *controllers.HealthController
	Resources []Resource
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", ctrl.Health.Ping)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", ctrl.Health.Health)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/deo/login", ctrl.Auth.DEOLogin)
		auth.POST("/advisor/login", ctrl.Auth.AdvisorLogin)
		auth.POST("/token/refresh", ctrl.Auth.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/deo/logout", ctrl.Auth.Logout)
		authenticated.POST("/auth/advisor/logout", ctrl.Auth.Logout)

		advisors := authenticated.Group("/advisors")
		{
			advisors.GET("", ctrl.Advisors.ListAdvisors)
			advisors.POST("", ctrl.Advisors.CreateAdvisor)
			advisors.GET("/:id", ctrl.Advisors.GetAdvisor)
			advisors.PUT("/:id", ctrl.Advisors.UpdateAdvisor)
			advisors.PATCH("/:id", ctrl.Advisors.PatchAdvisor)
			advisors.DELETE("/:id", ctrl.Advisors.DeleteAdvisor)
		}

		for _, res := range ctrl.Resources {
			res.Controller.Register(authenticated.Group(res.Path))
		}
	}
}
