// internal/repository/mongo/feedback_repo.go
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

const feedbackCollectionName = "feedbacks"

// mongoFeedbackRepository implements repository.FeedbackRepository
type mongoFeedbackRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedbackRepository creates a new Feedback repository.
func NewMongoFeedbackRepository(db *mongo.Database) repository.FeedbackRepository {
	return &mongoFeedbackRepository{
		collection: db.Collection(feedbackCollectionName),
	}
}

// Create inserts a new feedback record.
func (r *mongoFeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) (primitive.ObjectID, error) {
	if feedback.WorkoutID == primitive.NilObjectID || feedback.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("feedback requires workoutId and coachId")
	}
	feedback.ID = primitive.NewObjectID()
	feedback.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted feedback ID")
	}
	return insertedID, nil
}

// GetByWorkoutAndCoach retrieves the feedback for a workout/coach pair.
func (r *mongoFeedbackRepository) GetByWorkoutAndCoach(ctx context.Context, workoutID, coachID primitive.ObjectID) (*domain.Feedback, error) {
	var feedback domain.Feedback
	filter := bson.M{"workoutId": workoutID, "coachId": coachID}
	err := r.collection.FindOne(ctx, filter).Decode(&feedback)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &feedback, nil
}

// EnsureFeedbackIndexes creates necessary indexes. Call during startup.
func EnsureFeedbackIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One feedback per workout per coach.
			Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "coachId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
