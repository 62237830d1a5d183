package mongo

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const waterCollectionName = "water_intakes"

type mongoWaterRepository struct {
	*entryCollection[domain.WaterIntake, *domain.WaterIntake]
}

func NewMongoWaterRepository(db *mongo.Database) repository.WaterRepository {
	return &mongoWaterRepository{
		entryCollection: newEntryCollection(
			db.Collection(waterCollectionName),
			// time is HH:MM:SS, so lexical order is chronological
			bson.D{{Key: "date", Value: -1}, {Key: "time", Value: -1}, {Key: "_id", Value: -1}},
			func(w *domain.WaterIntake) bson.M {
				return bson.M{
					"amountMl": w.AmountMl,
					"date":     w.Date,
					"time":     w.Time,
					"notes":    w.Notes,
				}
			},
		),
	}
}

func (r *mongoWaterRepository) TotalOn(ctx context.Context, userID primitive.ObjectID, date time.Time) (int64, error) {
	type total struct {
		Amount int64 `bson:"amount"`
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "date": date}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "amount": bson.M{"$sum": "$amountMl"}}}},
	}
	t, err := aggregateOne[total](ctx, r.collection, pipeline)
	return t.Amount, err
}

func (r *mongoWaterRepository) DailyTotals(ctx context.Context, userID primitive.ObjectID, dr repository.DateRange) ([]repository.DailyWaterTotal, error) {
	pipeline := mongo.Pipeline{
		rangeMatch(userID, dr),
		{{Key: "$group", Value: bson.M{"_id": "$date", "totalAmount": bson.M{"$sum": "$amountMl"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	return aggregate[repository.DailyWaterTotal](ctx, r.collection, pipeline)
}

func EnsureWaterIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}, {Key: "time", Value: -1}}},
	})
}
