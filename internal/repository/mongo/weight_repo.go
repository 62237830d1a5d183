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

const weightCollectionName = "weights"

// mongoWeightRepository implements repository.WeightRepository
type mongoWeightRepository struct {
	*entryCollection[domain.WeightEntry, *domain.WeightEntry]
}

// NewMongoWeightRepository creates a new weight repository backed by MongoDB.
func NewMongoWeightRepository(db *mongo.Database) repository.WeightRepository {
	return &mongoWeightRepository{
		entryCollection: newEntryCollection(
			db.Collection(weightCollectionName),
			bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}},
			func(w *domain.WeightEntry) bson.M {
				return bson.M{
					"weightKg": w.WeightKg,
					"date":     w.Date,
					"notes":    w.Notes,
				}
			},
		),
	}
}

// ListRange returns entries inside r, oldest first.
func (r *mongoWeightRepository) ListRange(ctx context.Context, userID primitive.ObjectID, dr repository.DateRange) ([]domain.WeightEntry, error) {
	filter := bson.M{"userId": userID, "date": bson.M{"$gte": dr.From, "$lte": dr.To}}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (r *mongoWeightRepository) LatestCreatedOn(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.WeightEntry, error) {
	filter := bson.M{"userId": userID, "date": date}
	return r.findOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *mongoWeightRepository) Latest(ctx context.Context, userID primitive.ObjectID) (*domain.WeightEntry, error) {
	return r.findOne(ctx, bson.M{"userId": userID}, options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}}))
}

// Stats returns count, average and the first/latest weights by date.
func (r *mongoWeightRepository) Stats(ctx context.Context, userID primitive.ObjectID) (repository.WeightStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"count":   bson.M{"$sum": 1},
			"first":   bson.M{"$first": "$weightKg"},
			"latest":  bson.M{"$last": "$weightKg"},
			"average": bson.M{"$avg": "$weightKg"},
		}}},
	}
	return aggregateOne[repository.WeightStats](ctx, r.collection, pipeline)
}

// EnsureWeightIndexes creates necessary indexes for the weights collection.
// The unique (userId, date) index is what rejects a second entry for a day.
func EnsureWeightIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetUnique(true).SetName("weight_user_date_unique"),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
}
