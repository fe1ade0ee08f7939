package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitbook/internal/domain"
	"fitbook/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeFeedbackRepo struct {
	feedbacks []*domain.Feedback
	createErr error
}

func (f *fakeFeedbackRepo) Create(_ context.Context, feedback *domain.Feedback) (primitive.ObjectID, error) {
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	feedback.ID = primitive.NewObjectID()
	feedback.CreatedAt = time.Now().UTC()
	f.feedbacks = append(f.feedbacks, feedback)
	return feedback.ID, nil
}

func (f *fakeFeedbackRepo) GetByWorkoutAndCoach(_ context.Context, workoutID, coachID primitive.ObjectID) (*domain.Feedback, error) {
	for _, fb := range f.feedbacks {
		if fb.WorkoutID == workoutID && fb.CoachID == coachID {
			copied := *fb
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newTestFeedbackService(feedbackRepo *fakeFeedbackRepo, workoutRepo *fakeWorkoutRepo) *feedbackService {
	s := NewFeedbackService(feedbackRepo, workoutRepo, testOffset, testLogger()).(*feedbackService)
	s.now = func() time.Time { return testServerNow }
	return s
}

func feedbackInputFor(w *domain.Workout) SubmitFeedbackInput {
	return SubmitFeedbackInput{
		ClientID:  w.ClientID.Hex(),
		CoachID:   w.CoachID.Hex(),
		WorkoutID: w.ID.Hex(),
		Comment:   "Good session, keep the elbows in.",
	}
}

func TestSubmitFeedback_MissingFieldsEnumerated(t *testing.T) {
	s := newTestFeedbackService(&fakeFeedbackRepo{}, &fakeWorkoutRepo{})

	_, err := s.SubmitFeedback(context.Background(), SubmitFeedbackInput{})

	var missingErr *MissingFieldsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("SubmitFeedback() error = %v, want MissingFieldsError", err)
	}
	want := []string{"clientId", "coachId", "workoutId", "comment"}
	if len(missingErr.Fields) != len(want) {
		t.Fatalf("missing fields = %v, want %v", missingErr.Fields, want)
	}
	for i, field := range want {
		if missingErr.Fields[i] != field {
			t.Errorf("missing fields[%d] = %q, want %q", i, missingErr.Fields[i], field)
		}
	}
}

func TestSubmitFeedback_InvalidIDs(t *testing.T) {
	s := newTestFeedbackService(&fakeFeedbackRepo{}, &fakeWorkoutRepo{})

	_, err := s.SubmitFeedback(context.Background(), SubmitFeedbackInput{
		ClientID:  "bad",
		CoachID:   primitive.NewObjectID().Hex(),
		WorkoutID: "also-bad",
		Comment:   "note",
	})

	var invalidErr *InvalidIDsError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("SubmitFeedback() error = %v, want InvalidIDsError", err)
	}
	if len(invalidErr.Fields) != 2 || invalidErr.Fields[0] != "clientId" || invalidErr.Fields[1] != "workoutId" {
		t.Errorf("invalid fields = %v, want [clientId workoutId]", invalidErr.Fields)
	}
}

func TestSubmitFeedback_WorkoutNotFound(t *testing.T) {
	s := newTestFeedbackService(&fakeFeedbackRepo{}, &fakeWorkoutRepo{})

	_, err := s.SubmitFeedback(context.Background(), SubmitFeedbackInput{
		ClientID:  primitive.NewObjectID().Hex(),
		CoachID:   primitive.NewObjectID().Hex(),
		WorkoutID: primitive.NewObjectID().Hex(),
		Comment:   "note",
	})
	if !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("SubmitFeedback() error = %v, want ErrWorkoutNotFound", err)
	}
}

func TestSubmitFeedback_AlreadyFinished(t *testing.T) {
	workoutRepo := &fakeWorkoutRepo{}
	w := seedWorkout(workoutRepo, "09-01-2025", "10:00", domain.StatusWaitingForFeedback, domain.StatusFinished)
	s := newTestFeedbackService(&fakeFeedbackRepo{}, workoutRepo)

	if _, err := s.SubmitFeedback(context.Background(), feedbackInputFor(w)); !errors.Is(err, ErrFeedbackAlreadySubmitted) {
		t.Errorf("SubmitFeedback() error = %v, want ErrFeedbackAlreadySubmitted", err)
	}
}

func TestSubmitFeedback_NotYetCompleted(t *testing.T) {
	workoutRepo := &fakeWorkoutRepo{}
	// Business-local now is 10 Jan 17:30; this session has not started.
	w := seedWorkout(workoutRepo, "11-01-2025", "09:00", domain.StatusBooked, domain.StatusBooked)
	s := newTestFeedbackService(&fakeFeedbackRepo{}, workoutRepo)

	if _, err := s.SubmitFeedback(context.Background(), feedbackInputFor(w)); !errors.Is(err, ErrWorkoutNotCompleted) {
		t.Errorf("SubmitFeedback() error = %v, want ErrWorkoutNotCompleted", err)
	}

	// Exactly at the session start it still counts as not completed:
	// eligibility requires the instant to be strictly in the past.
	atNow := seedWorkout(workoutRepo, "10-01-2025", "17:30", domain.StatusBooked, domain.StatusBooked)
	if _, err := s.SubmitFeedback(context.Background(), feedbackInputFor(atNow)); !errors.Is(err, ErrWorkoutNotCompleted) {
		t.Errorf("SubmitFeedback() at start time error = %v, want ErrWorkoutNotCompleted", err)
	}
}

func TestSubmitFeedback_Duplicate(t *testing.T) {
	workoutRepo := &fakeWorkoutRepo{}
	w := seedWorkout(workoutRepo, "09-01-2025", "10:00", domain.StatusWaitingForFeedback, domain.StatusWaitingForFeedback)
	feedbackRepo := &fakeFeedbackRepo{}
	feedbackRepo.feedbacks = append(feedbackRepo.feedbacks, &domain.Feedback{
		ID:        primitive.NewObjectID(),
		ClientID:  w.ClientID,
		CoachID:   w.CoachID,
		WorkoutID: w.ID,
		Comment:   "earlier note",
	})
	s := newTestFeedbackService(feedbackRepo, workoutRepo)

	if _, err := s.SubmitFeedback(context.Background(), feedbackInputFor(w)); !errors.Is(err, ErrDuplicateFeedback) {
		t.Errorf("SubmitFeedback() error = %v, want ErrDuplicateFeedback", err)
	}
}

func TestSubmitFeedback_DuplicateRaceSurfacesConflict(t *testing.T) {
	workoutRepo := &fakeWorkoutRepo{}
	w := seedWorkout(workoutRepo, "09-01-2025", "10:00", domain.StatusWaitingForFeedback, domain.StatusWaitingForFeedback)
	s := newTestFeedbackService(&fakeFeedbackRepo{createErr: repository.ErrDuplicate}, workoutRepo)

	if _, err := s.SubmitFeedback(context.Background(), feedbackInputFor(w)); !errors.Is(err, ErrDuplicateFeedback) {
		t.Errorf("SubmitFeedback() error = %v, want ErrDuplicateFeedback on duplicate-key insert", err)
	}
}

func TestSubmitFeedback_Success(t *testing.T) {
	workoutRepo := &fakeWorkoutRepo{}
	w := seedWorkout(workoutRepo, "09-01-2025", "10:00", domain.StatusWaitingForFeedback, domain.StatusWaitingForFeedback)
	feedbackRepo := &fakeFeedbackRepo{}
	s := newTestFeedbackService(feedbackRepo, workoutRepo)

	feedback, err := s.SubmitFeedback(context.Background(), feedbackInputFor(w))
	if err != nil {
		t.Fatalf("SubmitFeedback() error = %v", err)
	}
	if feedback.WorkoutID != w.ID || feedback.CoachID != w.CoachID {
		t.Errorf("feedback references wrong workout/coach: %+v", feedback)
	}
	if w.CoachStatus != domain.StatusFinished {
		t.Errorf("coachStatus = %q, want Finished", w.CoachStatus)
	}
	// The client side is the listing reconciler's business, not this
	// path's.
	if w.ClientStatus != domain.StatusWaitingForFeedback {
		t.Errorf("clientStatus = %q, want untouched Waiting for feedback", w.ClientStatus)
	}

	// Submitting again now reports the finished-workout conflict.
	if _, err := s.SubmitFeedback(context.Background(), feedbackInputFor(w)); !errors.Is(err, ErrFeedbackAlreadySubmitted) {
		t.Errorf("second SubmitFeedback() error = %v, want ErrFeedbackAlreadySubmitted", err)
	}
}
