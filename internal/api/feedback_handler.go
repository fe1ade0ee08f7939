// internal/api/feedback_handler.go
package api

import (
	"errors"
	"net/http"
	"time"

	"fitbook/internal/domain"
	"fitbook/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackService service.FeedbackService
	devMode         bool
}

func NewFeedbackHandler(feedbackService service.FeedbackService, devMode bool) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		devMode:         devMode,
	}
}

// --- DTOs ---

type CreateFeedbackRequest struct {
	ClientID  string `json:"clientId"`
	CoachID   string `json:"coachId"`
	WorkoutID string `json:"workoutId"`
	Comment   string `json:"comment"`
}

type FeedbackResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	CoachID   string    `json:"coachId"`
	WorkoutID string    `json:"workoutId"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func MapFeedbackToResponse(feedback *domain.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        feedback.ID.Hex(),
		ClientID:  feedback.ClientID.Hex(),
		CoachID:   feedback.CoachID.Hex(),
		WorkoutID: feedback.WorkoutID.Hex(),
		Comment:   feedback.Comment,
		CreatedAt: feedback.CreatedAt,
	}
}

// --- Handler Methods ---

// CreateCoachFeedback godoc
// @Summary Submit coach feedback for a completed workout
// @Description Records the coach's note and marks the workout Finished on the coach side.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param feedback body CreateFeedbackRequest true "Feedback request"
// @Success 201 {object} gin.H "Feedback submitted successfully"
// @Failure 400 {object} gin.H "Missing fields, malformed ids, or workout not yet completed"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 409 {object} gin.H "Feedback already submitted or already exists"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /coach-feedback [post]
func (h *FeedbackHandler) CreateCoachFeedback(c *gin.Context) {
	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Bad Request: malformed JSON body")
		return
	}

	feedback, err := h.feedbackService.SubmitFeedback(c.Request.Context(), service.SubmitFeedbackInput{
		ClientID:  req.ClientID,
		CoachID:   req.CoachID,
		WorkoutID: req.WorkoutID,
		Comment:   req.Comment,
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
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":         "Bad Request: Invalid ID format",
				"invalidFields": invalidErr.Fields,
			})
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, "Not Found: Workout does not exist")
		case errors.Is(err, service.ErrFeedbackAlreadySubmitted):
			abortWithError(c, http.StatusConflict,
				"Conflict: Feedback already submitted or workout already marked as finished")
		case errors.Is(err, service.ErrWorkoutNotCompleted):
			abortWithError(c, http.StatusBadRequest, "Bad Request: Workout is not yet completed")
		case errors.Is(err, service.ErrDuplicateFeedback):
			abortWithError(c, http.StatusConflict, "Conflict: Feedback already exists for this workout")
		default:
			internalError(c, h.devMode, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Feedback submitted successfully",
		"feedback": MapFeedbackToResponse(feedback),
	})
}
