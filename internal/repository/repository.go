package repository

import (
	"alcyxob/health-tracker/internal/domain" // Import our defined domain models
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Page selects a window of a list. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Skip returns the number of documents before the page.
func (p Page) Skip() int64 {
	if p.Number < 1 {
		return 0
	}
	return int64((p.Number - 1) * p.Size)
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

// EntryStore is the owner-scoped CRUD surface shared by every tracked entity.
// Reads, updates and deletes match on both the entry ID and the owning user,
// so another user's entry is reported as ErrNotFound.
type EntryStore[T any] interface {
	Create(ctx context.Context, entry *T) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, id primitive.ObjectID) (*T, error)
	Update(ctx context.Context, entry *T) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
	List(ctx context.Context, userID primitive.ObjectID, page Page) ([]T, error)
	ListAll(ctx context.Context, userID primitive.ObjectID) ([]T, error)
	Recent(ctx context.Context, userID primitive.ObjectID, limit int) ([]T, error)
	Count(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProfileRepository stores the one-per-user profile.
type ProfileRepository interface {
	// GetOrCreate returns the user's profile, atomically creating an empty one if absent.
	GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	DeleteForUser(ctx context.Context, userID primitive.ObjectID) error
}

// WeightStats summarises all of a user's weight entries.
type WeightStats struct {
	Count   int64   `bson:"count"`
	Latest  float64 `bson:"latest"` // by date
	First   float64 `bson:"first"`  // by date
	Average float64 `bson:"average"`
}

// WeightRepository stores weight entries; (userId, date) is unique.
type WeightRepository interface {
	EntryStore[domain.WeightEntry]
	ListRange(ctx context.Context, userID primitive.ObjectID, r DateRange) ([]domain.WeightEntry, error)
	// LatestCreatedOn returns the most recently created entry for a calendar date.
	LatestCreatedOn(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.WeightEntry, error)
	// Latest returns the entry with the most recent date.
	Latest(ctx context.Context, userID primitive.ObjectID) (*domain.WeightEntry, error)
	Stats(ctx context.Context, userID primitive.ObjectID) (WeightStats, error)
}

// ExerciseTotals aggregates a set of exercise entries.
type ExerciseTotals struct {
	Count         int64 `bson:"count"`
	TotalDuration int64 `bson:"totalDuration"`
	TotalCalories int64 `bson:"totalCalories"`
}

// DailyExerciseTotal is one row of the per-day exercise series.
type DailyExerciseTotal struct {
	Date          time.Time `bson:"_id"`
	TotalDuration int64     `bson:"totalDuration"`
	TotalCalories int64     `bson:"totalCalories"`
}

type ExerciseRepository interface {
	EntryStore[domain.Exercise]
	ListRange(ctx context.Context, userID primitive.ObjectID, r DateRange) ([]domain.Exercise, error)
	// Totals aggregates all entries, or only those on date when date is non-nil.
	Totals(ctx context.Context, userID primitive.ObjectID, date *time.Time) (ExerciseTotals, error)
	DailyTotals(ctx context.Context, userID primitive.ObjectID, r DateRange) ([]DailyExerciseTotal, error)
}

// NutritionTotals aggregates calories and macros.
type NutritionTotals struct {
	Calories int64   `bson:"calories"`
	ProteinG float64 `bson:"proteinG"`
	CarbsG   float64 `bson:"carbsG"`
	FatG     float64 `bson:"fatG"`
	FiberG   float64 `bson:"fiberG"`
}

// DailyNutritionTotal is one row of the per-day nutrition series.
type DailyNutritionTotal struct {
	Date            time.Time `bson:"_id"`
	NutritionTotals `bson:",inline"`
}

type NutritionRepository interface {
	EntryStore[domain.Nutrition]
	ListRange(ctx context.Context, userID primitive.ObjectID, r DateRange) ([]domain.Nutrition, error)
	TotalsOn(ctx context.Context, userID primitive.ObjectID, date time.Time) (NutritionTotals, error)
	DailyTotals(ctx context.Context, userID primitive.ObjectID, r DateRange) ([]DailyNutritionTotal, error)
}

// SleepStats summarises sleep entries. AverageHours averages per-entry
// durations already rounded to one decimal.
type SleepStats struct {
	Count          int64   `bson:"count"`
	AverageQuality float64 `bson:"averageQuality"`
	AverageHours   float64 `bson:"averageHours"`
}

type SleepRepository interface {
	EntryStore[domain.Sleep]
	Stats(ctx context.Context, userID primitive.ObjectID) (SleepStats, error)
}

// DailyWaterTotal is one row of the per-day water series.
type DailyWaterTotal struct {
	Date        time.Time `bson:"_id"`
	TotalAmount int64     `bson:"totalAmount"`
}

type WaterRepository interface {
	EntryStore[domain.WaterIntake]
	TotalOn(ctx context.Context, userID primitive.ObjectID, date time.Time) (int64, error)
	DailyTotals(ctx context.Context, userID primitive.ObjectID, r DateRange) ([]DailyWaterTotal, error)
}

// MoodStats summarises mood entries.
type MoodStats struct {
	Count   int64   `bson:"count"`
	Average float64 `bson:"average"`
}

// MoodRepository stores mood entries; (userId, date) is unique.
type MoodRepository interface {
	EntryStore[domain.Mood]
	GetOn(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.Mood, error)
	Stats(ctx context.Context, userID primitive.ObjectID) (MoodStats, error)
}

type GoalRepository interface {
	EntryStore[domain.HealthGoal]
	// ListByStatus orders active goals by target date and the rest by last update.
	ListByStatus(ctx context.Context, userID primitive.ObjectID, status domain.GoalStatus, limit int) ([]domain.HealthGoal, error)
}

type MedicationRepository interface {
	EntryStore[domain.Medication]
}

type HealthMetricRepository interface {
	EntryStore[domain.HealthMetric]
}

// ExportRepository defines the interface for interacting with export metadata.
type ExportRepository interface {
	Create(ctx context.Context, export *domain.Export) (primitive.ObjectID, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Export, error)
	DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error
}
