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
	ErrInvalidDateFormat = errors.New("invalid date format, expected DD-MM-YYYY")
	ErrInvalidTimeFormat = errors.New("invalid time format, expected 24-hour HH:MM")
	ErrPastDateTime      = errors.New("cannot create workout for a past date and time")
	ErrSlotConflict      = errors.New("this time slot is already booked with this coach")
	ErrInvalidFilterID   = errors.New("invalid ID format")
	ErrInvalidWorkoutID  = errors.New("invalid workout ID format")
	ErrWorkoutNotFound   = errors.New("workout does not exist")
	ErrAlreadyCancelled  = errors.New("workout is already cancelled")
)

// CreateWorkoutInput carries the raw booking request. Identifier and
// schedule fields arrive as wire strings; the service owns the full
// validation pipeline.
type CreateWorkoutInput struct {
	CoachID      string
	ClientID     string
	Type         string
	Date         string
	Time         string
	CoachStatus  domain.WorkoutStatus // optional, defaults to Booked
	ClientStatus domain.WorkoutStatus // optional, defaults to Booked
}

// ListResult is a reconciled listing: the workouts in legacy slot order
// plus how many of them were just advanced to "Waiting for feedback".
type ListResult struct {
	Workouts     []domain.Workout
	UpdatedCount int64
}

// --- Service Interface ---
type WorkoutService interface {
	// CreateWorkout validates and books a new workout.
	CreateWorkout(ctx context.Context, input CreateWorkoutInput) (*domain.Workout, error)
	// ListWorkouts returns workouts matching the optional filter id for
	// the given side, advancing past sessions to "Waiting for feedback"
	// on that side before returning.
	ListWorkouts(ctx context.Context, side domain.Side, filterID string) (*ListResult, error)
	// CancelWorkout cancels a workout for both sides if the cutoff
	// window allows it. The side picks whose status is consulted for
	// the already-cancelled check.
	CancelWorkout(ctx context.Context, side domain.Side, workoutID string) (*domain.Workout, error)
}

// --- Service Implementation ---

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	utcOffset   time.Duration
	cutoffHours float64
	log         *slog.Logger
	now         func() time.Time
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	utcOffset time.Duration,
	cutoffHours float64,
	log *slog.Logger,
) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		utcOffset:   utcOffset,
		cutoffHours: cutoffHours,
		log:         log,
		now:         time.Now,
	}
}

// businessNow is the server instant shifted into business-local time.
// Every lifecycle decision in this service goes through it.
func (s *workoutService) businessNow() time.Time {
	return domain.BusinessTime(s.now(), s.utcOffset)
}

// === Booking ===

// CreateWorkout runs the validation pipeline and books the slot.
// The pipeline short-circuits on the first failing stage; the first two
// stages collect every offending field before failing.
func (s *workoutService) CreateWorkout(ctx context.Context, input CreateWorkoutInput) (*domain.Workout, error) {
	// 1. Presence
	var missing []string
	if input.CoachID == "" {
		missing = append(missing, "coachId")
	}
	if input.ClientID == "" {
		missing = append(missing, "clientId")
	}
	if input.Type == "" {
		missing = append(missing, "type")
	}
	if input.Date == "" {
		missing = append(missing, "date")
	}
	if input.Time == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		s.log.Info("booking rejected: missing fields", slog.Any("fields", missing))
		return nil, &MissingFieldsError{Fields: missing}
	}

	// 2. Identifier format. No existence check beyond well-formedness.
	var invalid []string
	coachID, err := primitive.ObjectIDFromHex(input.CoachID)
	if err != nil {
		invalid = append(invalid, "coachId")
	}
	clientID, err := primitive.ObjectIDFromHex(input.ClientID)
	if err != nil {
		invalid = append(invalid, "clientId")
	}
	if len(invalid) > 0 {
		s.log.Info("booking rejected: malformed ids", slog.Any("fields", invalid))
		return nil, &InvalidIDsError{Fields: invalid}
	}

	// 3. Date format (shape only; day-of-month range is not checked).
	if !domain.ValidDate(input.Date) {
		s.log.Info("booking rejected: bad date", slog.String("date", input.Date))
		return nil, ErrInvalidDateFormat
	}

	// 4. Time format.
	if !domain.ValidTime(input.Time) {
		s.log.Info("booking rejected: bad time", slog.String("time", input.Time))
		return nil, ErrInvalidTimeFormat
	}

	// 5. Not in the past, judged against business-local now.
	startsAt, err := domain.ParseSchedule(input.Date, input.Time)
	if err != nil {
		return nil, err
	}
	if startsAt.Before(s.businessNow()) {
		s.log.Info("booking rejected: past slot",
			slog.String("date", input.Date), slog.String("time", input.Time))
		return nil, ErrPastDateTime
	}

	// 6. Conflict check: the exact slot, in any status. A Cancelled
	// booking still blocks its slot.
	_, err = s.workoutRepo.GetBySlot(ctx, coachID, input.Date, input.Time)
	if err == nil {
		s.log.Info("booking rejected: slot conflict",
			slog.String("coachId", input.CoachID),
			slog.String("date", input.Date), slog.String("time", input.Time))
		return nil, ErrSlotConflict
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	workout := &domain.Workout{
		CoachID:      coachID,
		ClientID:     clientID,
		Type:         input.Type,
		Date:         input.Date,
		Time:         input.Time,
		CoachStatus:  defaultStatus(input.CoachStatus),
		ClientStatus: defaultStatus(input.ClientStatus),
	}

	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race between conflict check and insert; same
			// outcome as a direct conflict.
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	s.log.Info("workout booked",
		slog.String("workoutId", workout.ID.Hex()),
		slog.String("coachId", input.CoachID),
		slog.String("date", input.Date), slog.String("time", input.Time))
	return workout, nil
}

func defaultStatus(status domain.WorkoutStatus) domain.WorkoutStatus {
	if status == "" {
		return domain.StatusBooked
	}
	return status
}

// === Listing / lifecycle reconciliation ===

// ListWorkouts fetches matching workouts and reconciles their lifecycle:
// any fetched workout whose scheduled time has passed is advanced to
// "Waiting for feedback" on the listed side only, as one bulk update.
func (s *workoutService) ListWorkouts(ctx context.Context, side domain.Side, filterID string) (*ListResult, error) {
	var filter repository.WorkoutFilter
	if filterID != "" {
		id, err := primitive.ObjectIDFromHex(filterID)
		if err != nil {
			return nil, ErrInvalidFilterID
		}
		if side == domain.SideCoach {
			filter.CoachID = id
		} else {
			filter.ClientID = id
		}
	}

	workouts, err := s.workoutRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return &ListResult{}, nil
	}

	businessNow := s.businessNow()
	var due []primitive.ObjectID
	for i := range workouts {
		if workouts[i].NeedsFeedback(side, businessNow) {
			due = append(due, workouts[i].ID)
		}
	}
	if len(due) == 0 {
		// Nothing to advance; skip the redundant write and re-fetch.
		return &ListResult{Workouts: workouts}, nil
	}

	updated, err := s.workoutRepo.MarkWaitingForFeedback(ctx, due, side)
	if err != nil {
		return nil, err
	}
	s.log.Info("advanced past workouts to waiting-for-feedback",
		slog.String("side", string(side)), slog.Int64("count", updated))

	refreshed, err := s.workoutRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListResult{Workouts: refreshed, UpdatedCount: updated}, nil
}

// === Cancellation ===

// CancelWorkout cancels the workout for both sides. Cancellation is only
// allowed while at least cutoffHours remain before the scheduled start;
// exactly the cutoff is still allowed.
func (s *workoutService) CancelWorkout(ctx context.Context, side domain.Side, workoutID string) (*domain.Workout, error) {
	id, err := primitive.ObjectIDFromHex(workoutID)
	if err != nil {
		return nil, ErrInvalidWorkoutID
	}

	workout, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	// Surfaced as a conflict rather than a silent success.
	if workout.Status(side) == domain.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	startsAt, err := workout.StartsAt()
	if err != nil {
		return nil, err
	}
	hoursRemaining := startsAt.Sub(s.businessNow()).Hours()
	if hoursRemaining < s.cutoffHours {
		s.log.Info("cancellation rejected: inside cutoff window",
			slog.String("workoutId", workoutID),
			slog.Float64("hoursRemaining", hoursRemaining))
		return nil, &CancellationWindowError{
			HoursRemaining: hoursRemaining,
			CutoffHours:    s.cutoffHours,
		}
	}

	// Cancellation by either party cancels for both.
	cancelled, err := s.workoutRepo.CancelBoth(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	s.log.Info("workout cancelled",
		slog.String("workoutId", workoutID), slog.String("by", string(side)))
	return cancelled, nil
}
