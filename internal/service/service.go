package service

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrUnknownKind is a NotFound for an entry kind outside the closed set.
	ErrUnknownKind = fmt.Errorf("%w: unknown entry type", ErrNotFound)
)

// Repositories bundles the stores the services are built from.
type Repositories struct {
	Users       repository.UserRepository
	Profiles    repository.ProfileRepository
	Weights     repository.WeightRepository
	Exercises   repository.ExerciseRepository
	Nutrition   repository.NutritionRepository
	Sleep       repository.SleepRepository
	Water       repository.WaterRepository
	Moods       repository.MoodRepository
	Goals       repository.GoalRepository
	Medications repository.MedicationRepository
	Metrics     repository.HealthMetricRepository
	Exports     repository.ExportRepository
}

// PageSize is the fixed number of entries per list page.
const PageSize = 20

// Pagination describes where a page sits in a list.
type Pagination struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// Paginated is one page of a user's entries.
type Paginated[T any] struct {
	Items []T
	Pagination
}

// loadPage fetches the requested page, clamped into [1, last page].
func loadPage[T any](ctx context.Context, store repository.EntryStore[T], userID primitive.ObjectID, requested int) (Paginated[T], error) {
	total, err := store.Count(ctx, userID)
	if err != nil {
		return Paginated[T]{}, fmt.Errorf("count entries: %w", err)
	}
	pages := int((total + PageSize - 1) / PageSize)
	if pages < 1 {
		pages = 1
	}
	number := requested
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}

	items, err := store.List(ctx, userID, repository.Page{Number: number, Size: PageSize})
	if err != nil {
		return Paginated[T]{}, fmt.Errorf("list entries: %w", err)
	}
	return Paginated[T]{
		Items: items,
		Pagination: Pagination{
			Page:        number,
			PageSize:    PageSize,
			TotalPages:  pages,
			TotalItems:  total,
			HasNext:     number < pages,
			HasPrevious: number > 1,
		},
	}, nil
}

// entity is a pointer to a struct embedding domain.Record.
type entity[T any] interface {
	*T
	Base() *domain.Record
}

// createEntry stores e for userID. A duplicate (user, date) is reported
// as a field error on date.
func createEntry[T any, P entity[T]](ctx context.Context, store repository.EntryStore[T], userID primitive.ObjectID, e P) (P, error) {
	e.Base().UserID = userID
	if _, err := store.Create(ctx, (*T)(e)); err != nil {
		return nil, storeError(err)
	}
	return e, nil
}

// updateEntry replaces the editable fields of the user's entry id with
// those of next. Identity, owner and creation time come from the stored entry.
func updateEntry[T any, P entity[T]](ctx context.Context, store repository.EntryStore[T], userID, id primitive.ObjectID, next P, merge func(stored, next P) error) (P, error) {
	stored, err := store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeError(err)
	}
	base := P(stored).Base()
	nb := next.Base()
	notes := nb.Notes
	*nb = *base
	nb.Notes = notes
	if merge != nil {
		if err := merge(P(stored), next); err != nil {
			return nil, err
		}
	}
	if err := store.Update(ctx, (*T)(next)); err != nil {
		return nil, storeError(err)
	}
	return next, nil
}

func storeError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return fieldError("date", "An entry for this date already exists.")
	}
	return err
}
