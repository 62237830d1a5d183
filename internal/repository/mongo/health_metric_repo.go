package mongo

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const healthMetricCollectionName = "health_metrics"

type mongoHealthMetricRepository struct {
	*entryCollection[domain.HealthMetric, *domain.HealthMetric]
}

func NewMongoHealthMetricRepository(db *mongo.Database) repository.HealthMetricRepository {
	return &mongoHealthMetricRepository{
		entryCollection: newEntryCollection(
			db.Collection(healthMetricCollectionName),
			bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}},
			func(m *domain.HealthMetric) bson.M {
				return bson.M{
					"type":  m.Type,
					"value": m.Value,
					"unit":  m.Unit,
					"date":  m.Date,
					"notes": m.Notes,
				}
			},
		),
	}
}

func EnsureHealthMetricIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "type", Value: 1}, {Key: "date", Value: -1}}},
	})
}
