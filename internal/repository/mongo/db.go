package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping against the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, errors.Wrap(err, "ping")
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. The unique indexes
// back the one-per-day rules for weight and mood, so this has to finish
// before the server accepts writes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	steps := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{profileCollectionName, EnsureProfileIndexes},
		{weightCollectionName, EnsureWeightIndexes},
		{exerciseCollectionName, EnsureExerciseIndexes},
		{nutritionCollectionName, EnsureNutritionIndexes},
		{sleepCollectionName, EnsureSleepIndexes},
		{waterCollectionName, EnsureWaterIndexes},
		{moodCollectionName, EnsureMoodIndexes},
		{goalCollectionName, EnsureGoalIndexes},
		{medicationCollectionName, EnsureMedicationIndexes},
		{healthMetricCollectionName, EnsureHealthMetricIndexes},
		{exportCollectionName, EnsureExportIndexes},
	}
	for _, step := range steps {
		if err := step.ensure(ctx, db.Collection(step.collection)); err != nil {
			return errors.Wrapf(err, "indexes for %s", step.collection)
		}
	}
	return nil
}
