package mongo

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// record is satisfied by a pointer to any entity embedding domain.Record.
type record[T any] interface {
	*T
	Base() *domain.Record
}

// entryCollection implements repository.EntryStore for one collection.
// Every query is scoped by userId.
type entryCollection[T any, P record[T]] struct {
	collection *mongo.Collection
	sort       bson.D
	// setFields returns the mutable fields written by Update.
	// userId and createdAt are never part of it.
	setFields func(P) bson.M
}

func newEntryCollection[T any, P record[T]](collection *mongo.Collection, sort bson.D, setFields func(P) bson.M) *entryCollection[T, P] {
	return &entryCollection[T, P]{
		collection: collection,
		sort:       sort,
		setFields:  setFields,
	}
}

// Create inserts a new entry, assigning its ID and timestamps.
func (s *entryCollection[T, P]) Create(ctx context.Context, entry *T) (primitive.ObjectID, error) {
	base := P(entry).Base()
	if base.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("entry owner is required")
	}

	base.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	base.CreatedAt = now
	base.UpdatedAt = now

	result, err := s.collection.InsertOne(ctx, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an entry owned by userID.
func (s *entryCollection[T, P]) GetByID(ctx context.Context, userID, id primitive.ObjectID) (*T, error) {
	return s.findOne(ctx, bson.M{"_id": id, "userId": userID})
}

// Update rewrites the mutable fields of an entry. The filter includes the
// owner, so an entry belonging to someone else is reported as not found.
func (s *entryCollection[T, P]) Update(ctx context.Context, entry *T) error {
	base := P(entry).Base()
	if base.ID == primitive.NilObjectID {
		return errors.New("entry ID is required for update")
	}

	now := time.Now().UTC()
	fields := s.setFields(P(entry))
	fields["updatedAt"] = now

	filter := bson.M{"_id": base.ID, "userId": base.UserID}
	result, err := s.collection.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	base.UpdatedAt = now
	return nil
}

// Delete removes an entry, ensuring it belongs to the specified user.
func (s *entryCollection[T, P]) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either missing or owned by another user; both look the same to the caller.
		return repository.ErrNotFound
	}
	return nil
}

// List returns one page of the user's entries in the collection's default order.
func (s *entryCollection[T, P]) List(ctx context.Context, userID primitive.ObjectID, page repository.Page) ([]T, error) {
	opts := options.Find().SetSort(s.sort).SetSkip(page.Skip())
	if page.Size > 0 {
		opts.SetLimit(int64(page.Size))
	}
	return s.find(ctx, bson.M{"userId": userID}, opts)
}

// ListAll returns every entry of the user in the default order.
func (s *entryCollection[T, P]) ListAll(ctx context.Context, userID primitive.ObjectID) ([]T, error) {
	return s.find(ctx, bson.M{"userId": userID}, options.Find().SetSort(s.sort))
}

// Recent returns the first limit entries in the default order.
func (s *entryCollection[T, P]) Recent(ctx context.Context, userID primitive.ObjectID, limit int) ([]T, error) {
	return s.find(ctx, bson.M{"userId": userID}, options.Find().SetSort(s.sort).SetLimit(int64(limit)))
}

func (s *entryCollection[T, P]) Count(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"userId": userID})
}

// DeleteAllForUser removes every entry owned by userID.
func (s *entryCollection[T, P]) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

func (s *entryCollection[T, P]) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := s.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []T{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *entryCollection[T, P]) findOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var entry T
	err := s.collection.FindOne(ctx, filter, opts...).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// aggregate runs a pipeline and decodes every result document into R.
func aggregate[R any](ctx context.Context, collection *mongo.Collection, pipeline mongo.Pipeline) ([]R, error) {
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := []R{}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// aggregateOne runs a pipeline expected to yield at most one document.
// No documents yields the zero value of R.
func aggregateOne[R any](ctx context.Context, collection *mongo.Collection, pipeline mongo.Pipeline) (R, error) {
	var zero R
	rows, err := aggregate[R](ctx, collection, pipeline)
	if err != nil || len(rows) == 0 {
		return zero, err
	}
	return rows[0], nil
}

// rangeMatch filters a user's documents whose date field falls inside r.
func rangeMatch(userID primitive.ObjectID, r repository.DateRange) bson.D {
	return bson.D{{Key: "$match", Value: bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": r.From, "$lte": r.To},
	}}}
}

func createIndexes(ctx context.Context, collection *mongo.Collection, indexes []mongo.IndexModel) error {
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
