package api

import (
	"log/slog"
	"net/http"

	"fitbook/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	log *slog.Logger,
	workoutService service.WorkoutService,
	feedbackService service.FeedbackService,
	devMode bool,
) {
	workoutHandler := NewWorkoutHandler(workoutService, devMode)
	feedbackHandler := NewFeedbackHandler(feedbackService, devMode)

	router.Use(RequestIDMiddleware())
	router.Use(RequestLogger(log))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		// --- Client-facing workout routes ---
		apiV1.POST("/workouts", workoutHandler.CreateWorkout)
		apiV1.GET("/workouts", workoutHandler.GetBookedWorkouts)
		apiV1.DELETE("/workouts/:workoutId", workoutHandler.CancelWorkout)

		// --- Coach-facing routes ---
		coachGroup := apiV1.Group("/coach")
		{
			coachGroup.GET("/workouts", workoutHandler.GetCoachWorkouts)
			coachGroup.DELETE("/workouts/:id", workoutHandler.CancelCoachWorkout)
		}

		apiV1.POST("/coach-feedback", feedbackHandler.CreateCoachFeedback)
	}
}
