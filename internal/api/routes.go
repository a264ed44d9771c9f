package api

import (
	"context"
	"net/http"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Auth     service.AuthService
	Exercise service.ExerciseService
	Workout  service.WorkoutService
	Session  service.SessionService

	// HealthCheck reports whether the store is reachable. Optional.
	HealthCheck func(ctx context.Context) error
}

func SetupRoutes(router *gin.Engine, svc Services, logger *zap.Logger) {
	authHandler := NewAuthHandler(svc.Auth, logger)
	exerciseHandler := NewExerciseHandler(svc.Exercise, logger)
	workoutHandler := NewWorkoutHandler(svc.Workout, logger)
	sessionHandler := NewSessionHandler(svc.Session, logger)

	authMiddleware := AuthMiddleware(svc.Auth)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/api/health", healthHandler(svc.HealthCheck, logger))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		// The catalog can be browsed anonymously.
		apiV1.GET("/exercises", OptionalAuthMiddleware(svc.Auth), exerciseHandler.ListExercises)
		apiV1.GET("/exercises/:id", exerciseHandler.GetExercise)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.POST("/:id/approve", RoleMiddleware(domain.RoleAdmin), exerciseHandler.ApproveExercise)
			exerciseGroup.POST("/:id/media", exerciseHandler.RequestMediaUpload)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PATCH("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		}

		sessionGroup := protected.Group("/workout-sessions")
		{
			sessionGroup.GET("", sessionHandler.ListSessions)
			sessionGroup.POST("", sessionHandler.CreateSession)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.PATCH("/:id", sessionHandler.UpdateSession)
			sessionGroup.DELETE("/:id", sessionHandler.DeleteSession)
			sessionGroup.POST("/:id/supersets", sessionHandler.CreateSuperset)
		}

		protected.GET("/supersets/:id", sessionHandler.GetSuperset)
	}
}

func healthHandler(check func(ctx context.Context) error, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
