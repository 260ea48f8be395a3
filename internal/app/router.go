package app

import (
	"juegos_edu_backend/internal/config"
	"juegos_edu_backend/internal/middleware"
	"juegos_edu_backend/internal/model"
	"juegos_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		// Gameplay write path
		authGroup.POST("/attempts", c.attempt.Submit)

		// Student-facing reads
		authGroup.GET("/students/:studentId/progress", c.progress.GetProgress)
		authGroup.GET("/students/:studentId/progress/:gameId", c.progress.GetProgress)
		authGroup.GET("/students/:studentId/unlocked/:gameId", c.progress.GetUnlockedLevel)
		authGroup.GET("/games/:gameId/levels", c.progress.GetGameLevels)
		authGroup.POST("/students/:studentId/report", c.report.GenerateReport)

		// Teacher dashboards
		teacher := authGroup.Group("/")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.GET("/games/:gameId/statistics", c.statistics.GetGameStatistics)
			teacher.GET("/courses/:courseId/progress", c.statistics.GetCourseProgress)
		}
	}
}
