// internal/repository/mongo/workout_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"fitbook/internal/domain"
	"fitbook/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.CoachID == primitive.NilObjectID || workout.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout requires coachId and clientId")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Unique slot index caught a booking race the service-level
			// conflict check missed.
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetBySlot retrieves whichever workout occupies the exact slot, in any
// status. A Cancelled booking still occupies its slot.
func (r *mongoWorkoutRepository) GetBySlot(ctx context.Context, coachID primitive.ObjectID, date, timeStr string) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"coachId": coachID, "date": date, "time": timeStr}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// List retrieves all workouts matching the filter in legacy slot order:
// ascending by the raw date then time strings. The date field sorts
// lexicographically (day-of-month leading), which clients of the stored
// format depend on.
func (r *mongoWorkoutRepository) List(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	query := bson.M{}
	if filter.CoachID != primitive.NilObjectID {
		query["coachId"] = filter.CoachID
	}
	if filter.ClientID != primitive.NilObjectID {
		query["clientId"] = filter.ClientID
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workouts []domain.Workout
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// MarkWaitingForFeedback bulk-advances the given side's status for every
// listed id. Returns the number of records modified.
func (r *mongoWorkoutRepository) MarkWaitingForFeedback(ctx context.Context, ids []primitive.ObjectID, side domain.Side) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	statusField := "clientStatus"
	if side == domain.SideCoach {
		statusField = "coachStatus"
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}
	update := bson.M{"$set": bson.M{
		statusField: domain.StatusWaitingForFeedback,
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// CancelBoth sets both status fields to Cancelled and returns the
// updated record.
func (r *mongoWorkoutRepository) CancelBoth(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{
		"clientStatus": domain.StatusCancelled,
		"coachStatus":  domain.StatusCancelled,
		"updatedAt":    time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var workout domain.Workout
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// SetCoachStatus updates the coach-side status only. The client side is
// deliberately untouched; the listing reconciler owns that field.
func (r *mongoWorkoutRepository) SetCoachStatus(ctx context.Context, id primitive.ObjectID, status domain.WorkoutStatus) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{
		"coachStatus": status,
		"updatedAt":   time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Unique slot per coach. Backstop for the conflict check:
			// two concurrent bookings can both pass the read, only one
			// insert wins.
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Client-side listing filter.
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
