// internal/api/workout_handler.go
package api

import (
	"errors"
	"net/http"
	"time"

	"fitbook/internal/domain"
	"fitbook/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
	devMode        bool
}

func NewWorkoutHandler(workoutService service.WorkoutService, devMode bool) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		devMode:        devMode,
	}
}

// --- DTOs ---

// CreateWorkoutRequest carries the raw booking body. No binding tags:
// the service enumerates every missing field in one response instead of
// failing on the first.
type CreateWorkoutRequest struct {
	CoachID      string `json:"coachId"`
	ClientID     string `json:"clientId"`
	Type         string `json:"type"`
	Date         string `json:"date"` // DD-MM-YYYY
	Time         string `json:"time"` // HH:MM, 24-hour
	CoachStatus  string `json:"coachStatus"`
	ClientStatus string `json:"clientStatus"`
}

type WorkoutResponse struct {
	ID           string    `json:"id"`
	CoachID      string    `json:"coachId"`
	ClientID     string    `json:"clientId"`
	Type         string    `json:"type"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	CoachStatus  string    `json:"coachStatus"`
	ClientStatus string    `json:"clientStatus"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type WorkoutListResponse struct {
	Message      string            `json:"message"`
	Count        int               `json:"count"`
	Workouts     []WorkoutResponse `json:"workouts"`
	UpdatedCount int64             `json:"updatedCount,omitempty"`
}

func MapWorkoutToResponse(workout *domain.Workout) WorkoutResponse {
	return WorkoutResponse{
		ID:           workout.ID.Hex(),
		CoachID:      workout.CoachID.Hex(),
		ClientID:     workout.ClientID.Hex(),
		Type:         workout.Type,
		Date:         workout.Date,
		Time:         workout.Time,
		CoachStatus:  string(workout.CoachStatus),
		ClientStatus: string(workout.ClientStatus),
		CreatedAt:    workout.CreatedAt,
		UpdatedAt:    workout.UpdatedAt,
	}
}

func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, 0, len(workouts))
	for i := range workouts {
		responses = append(responses, MapWorkoutToResponse(&workouts[i]))
	}
	return responses
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Book a new workout
// @Description Validates and creates a workout booking for a coach/client pair.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body CreateWorkoutRequest true "Booking request"
// @Success 201 {object} gin.H "Workout successfully booked"
// @Failure 400 {object} gin.H "Missing required fields"
// @Failure 409 {object} gin.H "Slot already booked with this coach"
// @Failure 422 {object} gin.H "Invalid id, date, time, or past date/time"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Bad Request: malformed JSON body")
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), service.CreateWorkoutInput{
		CoachID:      req.CoachID,
		ClientID:     req.ClientID,
		Type:         req.Type,
		Date:         req.Date,
		Time:         req.Time,
		CoachStatus:  domain.WorkoutStatus(req.CoachStatus),
		ClientStatus: domain.WorkoutStatus(req.ClientStatus),
	})
	if err != nil {
		var missingErr *service.MissingFieldsError
		var invalidErr *service.InvalidIDsError
		switch {
		case errors.As(err, &missingErr):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":         "Bad Request: Missing required fields",
				"missingFields": missingErr.Fields,
			})
		case errors.As(err, &invalidErr):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":         "Unprocessable Entity: Invalid ID format",
				"invalidFields": invalidErr.Fields,
			})
		case errors.Is(err, service.ErrInvalidDateFormat):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":          "Unprocessable Entity: Invalid date format",
				"invalidField":   "date",
				"expectedFormat": domain.DateFormat,
			})
		case errors.Is(err, service.ErrInvalidTimeFormat):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":          "Unprocessable Entity: Invalid time format",
				"invalidField":   "time",
				"expectedFormat": "24-hour (" + domain.TimeFormat + ")",
				"example":        "14:30",
			})
		case errors.Is(err, service.ErrPastDateTime):
			abortWithError(c, http.StatusUnprocessableEntity,
				"Unprocessable Entity: Cannot create workout for a past date and time")
		case errors.Is(err, service.ErrSlotConflict):
			abortWithError(c, http.StatusConflict,
				"Conflict: This time slot is already booked with this coach")
		default:
			internalError(c, h.devMode, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Workout successfully booked",
		"workout": MapWorkoutToResponse(workout),
	})
}

// GetBookedWorkouts godoc
// @Summary List booked workouts (client view)
// @Description Lists workouts, optionally filtered by clientId, advancing past sessions to "Waiting for feedback" on the client side.
// @Tags Workouts
// @Produce json
// @Param clientId query string false "Client's ObjectID hex"
// @Success 200 {object} WorkoutListResponse "Workouts retrieved successfully"
// @Success 204 "No matching workouts"
// @Failure 400 {object} gin.H "Invalid client ID format"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [get]
func (h *WorkoutHandler) GetBookedWorkouts(c *gin.Context) {
	h.listWorkouts(c, domain.SideClient, c.Query("clientId"), "Invalid client ID format")
}

// GetCoachWorkouts godoc
// @Summary List booked workouts (coach view)
// @Description Lists workouts, optionally filtered by coachId, advancing past sessions to "Waiting for feedback" on the coach side.
// @Tags Workouts
// @Produce json
// @Param coachId query string false "Coach's ObjectID hex"
// @Success 200 {object} WorkoutListResponse "Workouts retrieved successfully"
// @Success 204 "No matching workouts"
// @Failure 400 {object} gin.H "Invalid coach ID format"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /coach/workouts [get]
func (h *WorkoutHandler) GetCoachWorkouts(c *gin.Context) {
	h.listWorkouts(c, domain.SideCoach, c.Query("coachId"), "Invalid coach ID format")
}

func (h *WorkoutHandler) listWorkouts(c *gin.Context, side domain.Side, filterID, invalidIDMessage string) {
	result, err := h.workoutService.ListWorkouts(c.Request.Context(), side, filterID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilterID) {
			abortWithError(c, http.StatusBadRequest, "Bad Request: "+invalidIDMessage)
			return
		}
		internalError(c, h.devMode, err)
		return
	}

	if len(result.Workouts) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, WorkoutListResponse{
		Message:      "Workouts retrieved successfully",
		Count:        len(result.Workouts),
		Workouts:     MapWorkoutsToResponse(result.Workouts),
		UpdatedCount: result.UpdatedCount,
	})
}

// CancelWorkout godoc
// @Summary Cancel a workout (client side)
// @Description Cancels a workout for both sides if more than the cutoff hours remain before its start.
// @Tags Workouts
// @Produce json
// @Param workoutId path string true "Workout's ObjectID hex"
// @Success 200 {object} gin.H "Workout successfully canceled"
// @Failure 400 {object} gin.H "Invalid workout ID format"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 409 {object} gin.H "Already cancelled or inside the cutoff window"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{workoutId} [delete]
func (h *WorkoutHandler) CancelWorkout(c *gin.Context) {
	h.cancelWorkout(c, domain.SideClient, c.Param("workoutId"), "Workout successfully canceled")
}

// CancelCoachWorkout godoc
// @Summary Cancel a workout (coach side)
// @Description Cancels a workout for both sides if more than the cutoff hours remain before its start.
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout's ObjectID hex"
// @Success 200 {object} gin.H "Workout successfully canceled by coach"
// @Failure 400 {object} gin.H "Invalid workout ID format"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 409 {object} gin.H "Already cancelled or inside the cutoff window"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /coach/workouts/{id} [delete]
func (h *WorkoutHandler) CancelCoachWorkout(c *gin.Context) {
	h.cancelWorkout(c, domain.SideCoach, c.Param("id"), "Workout successfully canceled by coach")
}

func (h *WorkoutHandler) cancelWorkout(c *gin.Context, side domain.Side, workoutID, successMessage string) {
	workout, err := h.workoutService.CancelWorkout(c.Request.Context(), side, workoutID)
	if err != nil {
		var windowErr *service.CancellationWindowError
		switch {
		case errors.Is(err, service.ErrInvalidWorkoutID):
			abortWithError(c, http.StatusBadRequest, "Bad Request: Invalid workout ID format")
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, "Not Found: Workout does not exist")
		case errors.Is(err, service.ErrAlreadyCancelled):
			abortWithError(c, http.StatusConflict, "Conflict: Workout is already cancelled")
		case errors.As(err, &windowErr):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":          "Conflict: Cannot cancel workout within 24 hours of start time",
				"hoursRemaining": windowErr.HoursRemaining,
			})
		default:
			internalError(c, h.devMode, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": successMessage,
		"workout": MapWorkoutToResponse(workout),
	})
}
