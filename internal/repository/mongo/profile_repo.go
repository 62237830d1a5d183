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

const profileCollectionName = "profiles"

type mongoProfileRepository struct {
	collection *mongo.Collection
}

func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// GetOrCreate upserts an empty profile for userID and returns the stored
// document. Concurrent callers converge on a single profile through the
// unique userId index.
func (r *mongoProfileRepository) GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"_id":           primitive.NewObjectID(),
		"userId":        userID,
		"activityLevel": domain.ActivitySedentary,
		"createdAt":     now,
		"updatedAt":     now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var profile domain.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// lost the upsert race; the other insert is visible now
			err = r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
		}
		if err != nil {
			return nil, err
		}
	}
	return &profile, nil
}

func (r *mongoProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	now := time.Now().UTC()
	set := bson.M{
		"dateOfBirth":   profile.DateOfBirth,
		"gender":        profile.Gender,
		"heightCm":      profile.HeightCm,
		"activityLevel": profile.ActivityLevel,
		"updatedAt":     now,
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": profile.UserID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	profile.UpdatedAt = now
	return nil
}

func (r *mongoProfileRepository) DeleteForUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}

func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("profile_user_unique"),
		},
	})
}
