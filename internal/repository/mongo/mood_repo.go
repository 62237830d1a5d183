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

const moodCollectionName = "moods"

type mongoMoodRepository struct {
	*entryCollection[domain.Mood, *domain.Mood]
}

func NewMongoMoodRepository(db *mongo.Database) repository.MoodRepository {
	return &mongoMoodRepository{
		entryCollection: newEntryCollection(
			db.Collection(moodCollectionName),
			bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}},
			func(m *domain.Mood) bson.M {
				return bson.M{
					"level": m.Level,
					"date":  m.Date,
					"notes": m.Notes,
				}
			},
		),
	}
}

// GetOn returns the single mood logged on date.
func (r *mongoMoodRepository) GetOn(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.Mood, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "date": date})
}

func (r *mongoMoodRepository) Stats(ctx context.Context, userID primitive.ObjectID) (repository.MoodStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"count":   bson.M{"$sum": 1},
			"average": bson.M{"$avg": "$level"},
		}}},
	}
	return aggregateOne[repository.MoodStats](ctx, r.collection, pipeline)
}

func EnsureMoodIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetUnique(true).SetName("mood_user_date_unique"),
		},
	})
}
