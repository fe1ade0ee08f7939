package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fitbook/internal/domain"
	"fitbook/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrFeedbackAlreadySubmitted = errors.New("feedback already submitted or workout already marked as finished")
	ErrWorkoutNotCompleted      = errors.New("workout is not yet completed")
	ErrDuplicateFeedback        = errors.New("feedback already exists for this workout")
)

// SubmitFeedbackInput carries the raw feedback request.
type SubmitFeedbackInput struct {
	ClientID  string
	CoachID   string
	WorkoutID string
	Comment   string
}

// --- Service Interface ---
type FeedbackService interface {
	// SubmitFeedback records the coach's note for a completed workout
	// and advances the workout's coach status to Finished.
	SubmitFeedback(ctx context.Context, input SubmitFeedbackInput) (*domain.Feedback, error)
}

// --- Service Implementation ---

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	workoutRepo  repository.WorkoutRepository
	utcOffset    time.Duration
	log          *slog.Logger
	now          func() time.Time
}

// NewFeedbackService creates a new instance of feedbackService.
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	workoutRepo repository.WorkoutRepository,
	utcOffset time.Duration,
	log *slog.Logger,
) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		workoutRepo:  workoutRepo,
		utcOffset:    utcOffset,
		log:          log,
		now:          time.Now,
	}
}

// SubmitFeedback validates that the workout actually occurred, rejects
// duplicates, then creates the feedback and finishes the workout on the
// coach side. The client side is left to the listing reconciler.
func (s *feedbackService) SubmitFeedback(ctx context.Context, input SubmitFeedbackInput) (*domain.Feedback, error) {
	var missing []string
	if input.ClientID == "" {
		missing = append(missing, "clientId")
	}
	if input.CoachID == "" {
		missing = append(missing, "coachId")
	}
	if input.WorkoutID == "" {
		missing = append(missing, "workoutId")
	}
	if input.Comment == "" {
		missing = append(missing, "comment")
	}
	if len(missing) > 0 {
		s.log.Info("feedback rejected: missing fields", slog.Any("fields", missing))
		return nil, &MissingFieldsError{Fields: missing}
	}

	var invalid []string
	clientID, err := primitive.ObjectIDFromHex(input.ClientID)
	if err != nil {
		invalid = append(invalid, "clientId")
	}
	coachID, err := primitive.ObjectIDFromHex(input.CoachID)
	if err != nil {
		invalid = append(invalid, "coachId")
	}
	workoutID, err := primitive.ObjectIDFromHex(input.WorkoutID)
	if err != nil {
		invalid = append(invalid, "workoutId")
	}
	if len(invalid) > 0 {
		return nil, &InvalidIDsError{Fields: invalid}
	}

	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	if workout.CoachStatus == domain.StatusFinished {
		return nil, ErrFeedbackAlreadySubmitted
	}

	// Feedback is only valid for sessions that have already happened.
	startsAt, err := workout.StartsAt()
	if err != nil {
		return nil, err
	}
	businessNow := domain.BusinessTime(s.now(), s.utcOffset)
	if !startsAt.Before(businessNow) {
		s.log.Info("feedback rejected: workout not yet completed",
			slog.String("workoutId", input.WorkoutID))
		return nil, ErrWorkoutNotCompleted
	}

	_, err = s.feedbackRepo.GetByWorkoutAndCoach(ctx, workoutID, coachID)
	if err == nil {
		return nil, ErrDuplicateFeedback
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	feedback := &domain.Feedback{
		ClientID:  clientID,
		CoachID:   coachID,
		WorkoutID: workoutID,
		Comment:   input.Comment,
	}
	if _, err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateFeedback
		}
		return nil, err
	}

	// Two writes, no transaction: if this update fails the feedback
	// record stays committed and a retry of the whole request reports
	// DuplicateFeedback. See DESIGN.md.
	if err := s.workoutRepo.SetCoachStatus(ctx, workoutID, domain.StatusFinished); err != nil {
		return nil, err
	}

	s.log.Info("feedback submitted",
		slog.String("workoutId", input.WorkoutID),
		slog.String("feedbackId", feedback.ID.Hex()))
	return feedback, nil
}
