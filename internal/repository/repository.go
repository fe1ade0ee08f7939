package repository

import (
	"context"
	"fitbook/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	// ErrDuplicate signals a unique-index violation. The store-level
	// uniqueness on (coachId, date, time) and (workoutId, coachId) backs
	// up the read-then-write checks in the service layer.
	ErrDuplicate    = RepositoryError("duplicate record")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WorkoutFilter narrows a workout listing. Zero-value fields are ignored;
// an empty filter matches everything.
type WorkoutFilter struct {
	CoachID  primitive.ObjectID
	ClientID primitive.ObjectID
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	// GetBySlot fetches a workout occupying the exact (coach, date, time)
	// slot regardless of status. Returns ErrNotFound when the slot is free.
	GetBySlot(ctx context.Context, coachID primitive.ObjectID, date, timeStr string) (*domain.Workout, error)
	// List returns matching workouts in the legacy slot order: ascending
	// by the raw date then time strings.
	List(ctx context.Context, filter WorkoutFilter) ([]domain.Workout, error)
	// MarkWaitingForFeedback bulk-advances one side's status to
	// "Waiting for feedback" for the given workout ids.
	MarkWaitingForFeedback(ctx context.Context, ids []primitive.ObjectID, side domain.Side) (int64, error)
	// CancelBoth sets both status fields to Cancelled.
	CancelBoth(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	// SetCoachStatus updates the coach-side status only.
	SetCoachStatus(ctx context.Context, id primitive.ObjectID, status domain.WorkoutStatus) error
}

// FeedbackRepository defines the interface for interacting with feedback data.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) (primitive.ObjectID, error)
	// GetByWorkoutAndCoach returns the feedback for a workout/coach pair,
	// or ErrNotFound if none has been submitted.
	GetByWorkoutAndCoach(ctx context.Context, workoutID, coachID primitive.ObjectID) (*domain.Feedback, error)
}
