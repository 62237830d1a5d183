package mongo

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	*entryCollection[domain.Exercise, *domain.Exercise]
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		entryCollection: newEntryCollection(
			db.Collection(exerciseCollectionName),
			bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}},
			func(e *domain.Exercise) bson.M {
				return bson.M{
					"type":            e.Type,
					"name":            e.Name,
					"durationMinutes": e.DurationMinutes,
					"caloriesBurned":  e.CaloriesBurned,
					"date":            e.Date,
					"notes":           e.Notes,
				}
			},
		),
	}
}

func (r *mongoExerciseRepository) ListRange(ctx context.Context, userID primitive.ObjectID, dr repository.DateRange) ([]domain.Exercise, error) {
	filter := bson.M{"userId": userID, "date": bson.M{"$gte": dr.From, "$lte": dr.To}}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}))
}

// Totals sums duration and calories over all entries, or a single date.
func (r *mongoExerciseRepository) Totals(ctx context.Context, userID primitive.ObjectID, date *time.Time) (repository.ExerciseTotals, error) {
	match := bson.M{"userId": userID}
	if date != nil {
		match["date"] = *date
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"count":         bson.M{"$sum": 1},
			"totalDuration": bson.M{"$sum": "$durationMinutes"},
			"totalCalories": bson.M{"$sum": "$caloriesBurned"},
		}}},
	}
	return aggregateOne[repository.ExerciseTotals](ctx, r.collection, pipeline)
}

// DailyTotals groups entries in the range by date, oldest first.
func (r *mongoExerciseRepository) DailyTotals(ctx context.Context, userID primitive.ObjectID, dr repository.DateRange) ([]repository.DailyExerciseTotal, error) {
	pipeline := mongo.Pipeline{
		rangeMatch(userID, dr),
		{{Key: "$group", Value: bson.M{
			"_id":           "$date",
			"totalDuration": bson.M{"$sum": "$durationMinutes"},
			"totalCalories": bson.M{"$sum": "$caloriesBurned"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	return aggregate[repository.DailyExerciseTotal](ctx, r.collection, pipeline)
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		},
	})
}
