package mongo

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const medicationCollectionName = "medications"

type mongoMedicationRepository struct {
	*entryCollection[domain.Medication, *domain.Medication]
}

func NewMongoMedicationRepository(db *mongo.Database) repository.MedicationRepository {
	return &mongoMedicationRepository{
		entryCollection: newEntryCollection(
			db.Collection(medicationCollectionName),
			bson.D{{Key: "createdAt", Value: -1}},
			func(m *domain.Medication) bson.M {
				return bson.M{
					"name":      m.Name,
					"dosage":    m.Dosage,
					"frequency": m.Frequency,
					"startDate": m.StartDate,
					"endDate":   m.EndDate,
					"isActive":  m.IsActive,
					"notes":     m.Notes,
				}
			},
		),
	}
}

func EnsureMedicationIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
}
