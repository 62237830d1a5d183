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

const nutritionCollectionName = "nutrition"

type mongoNutritionRepository struct {
	*entryCollection[domain.Nutrition, *domain.Nutrition]
}

func NewMongoNutritionRepository(db *mongo.Database) repository.NutritionRepository {
	return &mongoNutritionRepository{
		entryCollection: newEntryCollection(
			db.Collection(nutritionCollectionName),
			bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}},
			func(n *domain.Nutrition) bson.M {
				return bson.M{
					"mealType": n.MealType,
					"foodName": n.FoodName,
					"calories": n.Calories,
					"proteinG": n.ProteinG,
					"carbsG":   n.CarbsG,
					"fatG":     n.FatG,
					"fiberG":   n.FiberG,
					"date":     n.Date,
					"notes":    n.Notes,
				}
			},
		),
	}
}

func (r *mongoNutritionRepository) ListRange(ctx context.Context, userID primitive.ObjectID, dr repository.DateRange) ([]domain.Nutrition, error) {
	filter := bson.M{"userId": userID, "date": bson.M{"$gte": dr.From, "$lte": dr.To}}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}))
}

// macroSums is the $group body shared by the totals queries. $sum skips
// missing and null macros.
func macroSums(id interface{}) bson.M {
	return bson.M{
		"_id":      id,
		"calories": bson.M{"$sum": "$calories"},
		"proteinG": bson.M{"$sum": "$proteinG"},
		"carbsG":   bson.M{"$sum": "$carbsG"},
		"fatG":     bson.M{"$sum": "$fatG"},
		"fiberG":   bson.M{"$sum": "$fiberG"},
	}
}

func (r *mongoNutritionRepository) TotalsOn(ctx context.Context, userID primitive.ObjectID, date time.Time) (repository.NutritionTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "date": date}}},
		{{Key: "$group", Value: macroSums(nil)}},
	}
	return aggregateOne[repository.NutritionTotals](ctx, r.collection, pipeline)
}

func (r *mongoNutritionRepository) DailyTotals(ctx context.Context, userID primitive.ObjectID, dr repository.DateRange) ([]repository.DailyNutritionTotal, error) {
	pipeline := mongo.Pipeline{
		rangeMatch(userID, dr),
		{{Key: "$group", Value: macroSums("$date")}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	return aggregate[repository.DailyNutritionTotal](ctx, r.collection, pipeline)
}

func EnsureNutritionIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
	})
}
