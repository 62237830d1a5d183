package mongo

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const goalCollectionName = "goals"

type mongoGoalRepository struct {
	*entryCollection[domain.HealthGoal, *domain.HealthGoal]
}

func NewMongoGoalRepository(db *mongo.Database) repository.GoalRepository {
	return &mongoGoalRepository{
		entryCollection: newEntryCollection(
			db.Collection(goalCollectionName),
			bson.D{{Key: "createdAt", Value: -1}},
			func(g *domain.HealthGoal) bson.M {
				return bson.M{
					"type":         g.Type,
					"title":        g.Title,
					"description":  g.Description,
					"targetValue":  g.TargetValue,
					"targetUnit":   g.TargetUnit,
					"startDate":    g.StartDate,
					"targetDate":   g.TargetDate,
					"currentValue": g.CurrentValue,
					"status":       g.Status,
				}
			},
		),
	}
}

// ListByStatus returns goals with the given status. A limit of 0 returns all.
func (r *mongoGoalRepository) ListByStatus(ctx context.Context, userID primitive.ObjectID, status domain.GoalStatus, limit int) ([]domain.HealthGoal, error) {
	sort := bson.D{{Key: "updatedAt", Value: -1}}
	if status == domain.GoalActive {
		sort = bson.D{{Key: "targetDate", Value: 1}}
	}
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"userId": userID, "status": status}, opts)
}

func EnsureGoalIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}, {Key: "targetDate", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
}
