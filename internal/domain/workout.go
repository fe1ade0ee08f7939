package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutStatus type for the workout lifecycle.
// Coach and client each carry their own status; they are advanced
// independently except for cancellation, which is a joint transition.
type WorkoutStatus string

const (
	StatusBooked             WorkoutStatus = "Booked"
	StatusWaitingForFeedback WorkoutStatus = "Waiting for feedback"
	StatusFinished           WorkoutStatus = "Finished"
	StatusCancelled          WorkoutStatus = "Cancelled"
)

// Side selects which of the two status fields an operation reads or writes.
type Side string

const (
	SideClient Side = "client"
	SideCoach  Side = "coach"
)

// Workout represents one scheduled coaching session between a coach and
// a client. Date and time are stored exactly as received on the wire
// (DD-MM-YYYY / HH:MM); see schedule.go for the codec.
type Workout struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID      primitive.ObjectID `bson:"coachId" json:"coachId"`
	ClientID     primitive.ObjectID `bson:"clientId" json:"clientId"`
	Type         string             `bson:"type" json:"type"`
	Date         string             `bson:"date" json:"date"` // DD-MM-YYYY
	Time         string             `bson:"time" json:"time"` // HH:MM, 24h
	CoachStatus  WorkoutStatus      `bson:"coachStatus" json:"coachStatus"`
	ClientStatus WorkoutStatus      `bson:"clientStatus" json:"clientStatus"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Status returns the status field for the given side.
func (w *Workout) Status(side Side) WorkoutStatus {
	if side == SideCoach {
		return w.CoachStatus
	}
	return w.ClientStatus
}

// StartsAt composes the stored date/time strings into an absolute instant.
// The strings are validated at creation and never re-validated downstream,
// so a decode failure here means the record was written by something else.
func (w *Workout) StartsAt() (time.Time, error) {
	return ParseSchedule(w.Date, w.Time)
}

// NeedsFeedback reports whether the given side should transition to
// "Waiting for feedback": the session start has passed and the side is
// not already in a terminal or feedback state.
func (w *Workout) NeedsFeedback(side Side, businessNow time.Time) bool {
	status := w.Status(side)
	if status == StatusFinished || status == StatusCancelled {
		return false
	}
	workoutKey, err := DateKey(w.Date)
	if err != nil {
		return false
	}
	todayKey := DateKeyOf(businessNow)
	if workoutKey < todayKey {
		return true
	}
	return workoutKey == todayKey && w.Time < FormatTime(businessNow)
}
