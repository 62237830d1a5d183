package mongo

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const sleepCollectionName = "sleeps"

type mongoSleepRepository struct {
	*entryCollection[domain.Sleep, *domain.Sleep]
}

func NewMongoSleepRepository(db *mongo.Database) repository.SleepRepository {
	return &mongoSleepRepository{
		entryCollection: newEntryCollection(
			db.Collection(sleepCollectionName),
			bson.D{{Key: "sleepTime", Value: -1}, {Key: "_id", Value: -1}},
			func(s *domain.Sleep) bson.M {
				return bson.M{
					"sleepTime": s.SleepTime,
					"wakeTime":  s.WakeTime,
					"quality":   s.Quality,
					"notes":     s.Notes,
				}
			},
		),
	}
}

// Stats averages quality and per-night duration. Each duration is rounded to
// one decimal before averaging, matching what the list view displays.
func (r *mongoSleepRepository) Stats(ctx context.Context, userID primitive.ObjectID) (repository.SleepStats, error) {
	hours := bson.M{"$divide": bson.A{bson.M{"$subtract": bson.A{"$wakeTime", "$sleepTime"}}, 3600000}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$project", Value: bson.M{
			"quality": 1,
			"hours":   bson.M{"$round": bson.A{hours, 1}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"count":          bson.M{"$sum": 1},
			"averageQuality": bson.M{"$avg": "$quality"},
			"averageHours":   bson.M{"$avg": "$hours"},
		}}},
	}
	return aggregateOne[repository.SleepStats](ctx, r.collection, pipeline)
}

func EnsureSleepIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "sleepTime", Value: -1}}},
	})
}
