package service

import (
	"alcyxob/health-tracker/internal/calc"
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeightPage is the weight list with all-time statistics. The statistics
// are nil when the user has no entries.
type WeightPage struct {
	Paginated[domain.WeightEntry]
	Latest  *float64
	First   *float64
	Change  *float64
	Average *float64
}

type ExercisePage struct {
	Paginated[domain.Exercise]
	TotalExercises int64
	TotalCalories  int64
	TotalDuration  int64
}

type NutritionPage struct {
	Paginated[domain.Nutrition]
	Today repository.NutritionTotals
}

type SleepPage struct {
	Paginated[domain.Sleep]
	TotalEntries    int64
	AverageQuality  float64
	AverageDuration float64
}

type WaterPage struct {
	Paginated[domain.WaterIntake]
	TodayTotal int64
}

type MoodPage struct {
	Paginated[domain.Mood]
	TotalEntries int64
	Average      float64
}

// GoalBoard groups goals by status.
type GoalBoard struct {
	Active    []domain.HealthGoal
	Completed []domain.HealthGoal
	Paused    []domain.HealthGoal
}

// TrackerService records and lists every tracked entity.
type TrackerService interface {
	AddWeight(ctx context.Context, userID primitive.ObjectID, in WeightInput) (*domain.WeightEntry, error)
	WeightPage(ctx context.Context, userID primitive.ObjectID, page int) (*WeightPage, error)
	AddExercise(ctx context.Context, userID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	ExercisePage(ctx context.Context, userID primitive.ObjectID, page int) (*ExercisePage, error)
	AddNutrition(ctx context.Context, userID primitive.ObjectID, in NutritionInput) (*domain.Nutrition, error)
	NutritionPage(ctx context.Context, userID primitive.ObjectID, page int) (*NutritionPage, error)
	AddSleep(ctx context.Context, userID primitive.ObjectID, in SleepInput) (*domain.Sleep, error)
	SleepPage(ctx context.Context, userID primitive.ObjectID, page int) (*SleepPage, error)
	AddWater(ctx context.Context, userID primitive.ObjectID, in WaterInput) (*domain.WaterIntake, error)
	WaterPage(ctx context.Context, userID primitive.ObjectID, page int) (*WaterPage, error)
	AddMood(ctx context.Context, userID primitive.ObjectID, in MoodInput) (*domain.Mood, error)
	MoodPage(ctx context.Context, userID primitive.ObjectID, page int) (*MoodPage, error)
	AddGoal(ctx context.Context, userID primitive.ObjectID, in GoalInput) (*domain.HealthGoal, error)
	Goals(ctx context.Context, userID primitive.ObjectID) (*GoalBoard, error)
	AddMedication(ctx context.Context, userID primitive.ObjectID, in MedicationInput) (*domain.Medication, error)
	MedicationPage(ctx context.Context, userID primitive.ObjectID, page int) (*Paginated[domain.Medication], error)
	AddHealthMetric(ctx context.Context, userID primitive.ObjectID, in HealthMetricInput) (*domain.HealthMetric, error)
	HealthMetricPage(ctx context.Context, userID primitive.ObjectID, page int) (*Paginated[domain.HealthMetric], error)

	// GetEntry, UpdateEntry and DeleteEntry work on any EntryKind. An entry
	// owned by another user is reported as ErrNotFound.
	GetEntry(ctx context.Context, userID primitive.ObjectID, kind domain.EntryKind, id primitive.ObjectID) (domain.Entry, error)
	UpdateEntry(ctx context.Context, userID, id primitive.ObjectID, in EntryInput) (domain.Entry, error)
	DeleteEntry(ctx context.Context, userID primitive.ObjectID, kind domain.EntryKind, id primitive.ObjectID) error

	QuickAdd(ctx context.Context, userID primitive.ObjectID, in QuickAddInput) (domain.Entry, error)
}

type trackerService struct {
	repos Repositories
	clock Clock
}

func NewTrackerService(repos Repositories, clock Clock) TrackerService {
	return &trackerService{repos: repos, clock: clock}
}

func (s *trackerService) AddWeight(ctx context.Context, userID primitive.ObjectID, in WeightInput) (*domain.WeightEntry, error) {
	return s.addWeight(ctx, userID, in, "form")
}

func (s *trackerService) addWeight(ctx context.Context, userID primitive.ObjectID, in WeightInput, source string) (*domain.WeightEntry, error) {
	if err := in.check(s.clock.Today()); err != nil {
		return nil, err
	}
	w, err := createEntry[domain.WeightEntry](ctx, s.repos.Weights, userID, in.build(s.clock.Today()))
	if err != nil {
		return nil, err
	}
	countCreated(string(domain.KindWeight), source)
	return w, nil
}

func (s *trackerService) WeightPage(ctx context.Context, userID primitive.ObjectID, page int) (*WeightPage, error) {
	p, err := loadPage[domain.WeightEntry](ctx, s.repos.Weights, userID, page)
	if err != nil {
		return nil, err
	}
	stats, err := s.repos.Weights.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("weight stats: %w", err)
	}
	out := &WeightPage{Paginated: p}
	if stats.Count > 0 {
		latest, first := stats.Latest, stats.First
		change := calc.Round(latest-first, 2)
		avg := calc.Round(stats.Average, 2)
		out.Latest, out.First, out.Change, out.Average = &latest, &first, &change, &avg
	}
	return out, nil
}

func (s *trackerService) AddExercise(ctx context.Context, userID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	return s.addExercise(ctx, userID, in, "form")
}

func (s *trackerService) addExercise(ctx context.Context, userID primitive.ObjectID, in ExerciseInput, source string) (*domain.Exercise, error) {
	if err := in.check(s.clock.Today()); err != nil {
		return nil, err
	}
	e, err := createEntry[domain.Exercise](ctx, s.repos.Exercises, userID, in.build(s.clock.Today()))
	if err != nil {
		return nil, err
	}
	countCreated(string(domain.KindExercise), source)
	return e, nil
}

func (s *trackerService) ExercisePage(ctx context.Context, userID primitive.ObjectID, page int) (*ExercisePage, error) {
	p, err := loadPage[domain.Exercise](ctx, s.repos.Exercises, userID, page)
	if err != nil {
		return nil, err
	}
	totals, err := s.repos.Exercises.Totals(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("exercise totals: %w", err)
	}
	return &ExercisePage{
		Paginated:      p,
		TotalExercises: totals.Count,
		TotalCalories:  totals.TotalCalories,
		TotalDuration:  totals.TotalDuration,
	}, nil
}

func (s *trackerService) AddNutrition(ctx context.Context, userID primitive.ObjectID, in NutritionInput) (*domain.Nutrition, error) {
	return s.addNutrition(ctx, userID, in, "form")
}

func (s *trackerService) addNutrition(ctx context.Context, userID primitive.ObjectID, in NutritionInput, source string) (*domain.Nutrition, error) {
	if err := in.check(s.clock.Today()); err != nil {
		return nil, err
	}
	n, err := createEntry[domain.Nutrition](ctx, s.repos.Nutrition, userID, in.build(s.clock.Today()))
	if err != nil {
		return nil, err
	}
	countCreated(string(domain.KindNutrition), source)
	return n, nil
}

func (s *trackerService) NutritionPage(ctx context.Context, userID primitive.ObjectID, page int) (*NutritionPage, error) {
	p, err := loadPage[domain.Nutrition](ctx, s.repos.Nutrition, userID, page)
	if err != nil {
		return nil, err
	}
	today, err := s.repos.Nutrition.TotalsOn(ctx, userID, s.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("nutrition totals: %w", err)
	}
	return &NutritionPage{Paginated: p, Today: roundMacros(today)}, nil
}

func (s *trackerService) AddSleep(ctx context.Context, userID primitive.ObjectID, in SleepInput) (*domain.Sleep, error) {
	if err := in.check(s.clock.Today()); err != nil {
		return nil, err
	}
	e, err := createEntry[domain.Sleep](ctx, s.repos.Sleep, userID, in.build())
	if err != nil {
		return nil, err
	}
	countCreated(string(domain.KindSleep), "form")
	return e, nil
}

func (s *trackerService) SleepPage(ctx context.Context, userID primitive.ObjectID, page int) (*SleepPage, error) {
	p, err := loadPage[domain.Sleep](ctx, s.repos.Sleep, userID, page)
	if err != nil {
		return nil, err
	}
	stats, err := s.repos.Sleep.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sleep stats: %w", err)
	}
	return &SleepPage{
		Paginated:       p,
		TotalEntries:    stats.Count,
		AverageQuality:  stats.AverageQuality,
		AverageDuration: calc.Round(stats.AverageHours, 1),
	}, nil
}

func (s *trackerService) AddWater(ctx context.Context, userID primitive.ObjectID, in WaterInput) (*domain.WaterIntake, error) {
	return s.addWater(ctx, userID, in, "form")
}

func (s *trackerService) addWater(ctx context.Context, userID primitive.ObjectID, in WaterInput, source string) (*domain.WaterIntake, error) {
	if err := in.check(s.clock.Today()); err != nil {
		return nil, err
	}
	w, err := createEntry[domain.WaterIntake](ctx, s.repos.Water, userID, in.build(s.clock.Today(), s.clock.TimeOfDay()))
	if err != nil {
		return nil, err
	}
	countCreated(string(domain.KindWater), source)
	return w, nil
}

func (s *trackerService) WaterPage(ctx context.Context, userID primitive.ObjectID, page int) (*WaterPage, error) {
	p, err := loadPage[domain.WaterIntake](ctx, s.repos.Water, userID, page)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.Water.TotalOn(ctx, userID, s.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("water total: %w", err)
	}
	return &WaterPage{Paginated: p, TodayTotal: total}, nil
}

func (s *trackerService) AddMood(ctx context.Context, userID primitive.ObjectID, in MoodInput) (*domain.Mood, error) {
	return s.addMood(ctx, userID, in, "form")
}

func (s *trackerService) addMood(ctx context.Context, userID primitive.ObjectID, in MoodInput, source string) (*domain.Mood, error) {
	if err := in.check(s.clock.Today()); err != nil {
		return nil, err
	}
	m, err := createEntry[domain.Mood](ctx, s.repos.Moods, userID, in.build(s.clock.Today()))
	if err != nil {
		return nil, err
	}
	countCreated(string(domain.KindMood), source)
	return m, nil
}

func (s *trackerService) MoodPage(ctx context.Context, userID primitive.ObjectID, page int) (*MoodPage, error) {
	p, err := loadPage[domain.Mood](ctx, s.repos.Moods, userID, page)
	if err != nil {
		return nil, err
	}
	stats, err := s.repos.Moods.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("mood stats: %w", err)
	}
	return &MoodPage{Paginated: p, TotalEntries: stats.Count, Average: stats.Average}, nil
}

func (s *trackerService) AddGoal(ctx context.Context, userID primitive.ObjectID, in GoalInput) (*domain.HealthGoal, error) {
	today := s.clock.Today()
	if err := in.check(today); err != nil {
		return nil, err
	}
	goal := in.build(today)
	if err := checkGoalDates(goal); err != nil {
		return nil, err
	}
	g, err := createEntry[domain.HealthGoal](ctx, s.repos.Goals, userID, goal)
	if err != nil {
		return nil, err
	}
	countCreated(string(domain.KindGoal), "form")
	return g, nil
}

func (s *trackerService) Goals(ctx context.Context, userID primitive.ObjectID) (*GoalBoard, error) {
	board := &GoalBoard{}
	for _, group := range []struct {
		status domain.GoalStatus
		dst    *[]domain.HealthGoal
	}{
		{domain.GoalActive, &board.Active},
		{domain.GoalCompleted, &board.Completed},
		{domain.GoalPaused, &board.Paused},
	} {
		goals, err := s.repos.Goals.ListByStatus(ctx, userID, group.status, 0)
		if err != nil {
			return nil, fmt.Errorf("list %s goals: %w", group.status, err)
		}
		*group.dst = goals
	}
	return board, nil
}

func (s *trackerService) AddMedication(ctx context.Context, userID primitive.ObjectID, in MedicationInput) (*domain.Medication, error) {
	today := s.clock.Today()
	if err := in.check(today); err != nil {
		return nil, err
	}
	m, err := createEntry[domain.Medication](ctx, s.repos.Medications, userID, in.build(today))
	if err != nil {
		return nil, err
	}
	countCreated("medication", "form")
	return m, nil
}

func (s *trackerService) MedicationPage(ctx context.Context, userID primitive.ObjectID, page int) (*Paginated[domain.Medication], error) {
	p, err := loadPage[domain.Medication](ctx, s.repos.Medications, userID, page)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *trackerService) AddHealthMetric(ctx context.Context, userID primitive.ObjectID, in HealthMetricInput) (*domain.HealthMetric, error) {
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	m, err := createEntry[domain.HealthMetric](ctx, s.repos.Metrics, userID, in.build(s.clock.Today()))
	if err != nil {
		return nil, err
	}
	countCreated("health_metric", "form")
	return m, nil
}

func (s *trackerService) HealthMetricPage(ctx context.Context, userID primitive.ObjectID, page int) (*Paginated[domain.HealthMetric], error) {
	p, err := loadPage[domain.HealthMetric](ctx, s.repos.Metrics, userID, page)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *trackerService) GetEntry(ctx context.Context, userID primitive.ObjectID, kind domain.EntryKind, id primitive.ObjectID) (domain.Entry, error) {
	var (
		e   domain.Entry
		err error
	)
	switch kind {
	case domain.KindWeight:
		e, err = get[domain.WeightEntry, *domain.WeightEntry](ctx, s.repos.Weights, userID, id)
	case domain.KindExercise:
		e, err = get[domain.Exercise, *domain.Exercise](ctx, s.repos.Exercises, userID, id)
	case domain.KindNutrition:
		e, err = get[domain.Nutrition, *domain.Nutrition](ctx, s.repos.Nutrition, userID, id)
	case domain.KindSleep:
		e, err = get[domain.Sleep, *domain.Sleep](ctx, s.repos.Sleep, userID, id)
	case domain.KindWater:
		e, err = get[domain.WaterIntake, *domain.WaterIntake](ctx, s.repos.Water, userID, id)
	case domain.KindMood:
		e, err = get[domain.Mood, *domain.Mood](ctx, s.repos.Moods, userID, id)
	case domain.KindGoal:
		e, err = get[domain.HealthGoal, *domain.HealthGoal](ctx, s.repos.Goals, userID, id)
	default:
		return nil, ErrUnknownKind
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func get[T any, P interface {
	entity[T]
	domain.Entry
}](ctx context.Context, store repository.EntryStore[T], userID, id primitive.ObjectID) (P, error) {
	e, err := store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeError(err)
	}
	return P(e), nil
}

func (s *trackerService) UpdateEntry(ctx context.Context, userID, id primitive.ObjectID, in EntryInput) (domain.Entry, error) {
	today := s.clock.Today()
	if err := in.check(today); err != nil {
		return nil, err
	}

	var (
		e   domain.Entry
		err error
	)
	// Omitted dates keep their stored values on edit.
	switch in := in.(type) {
	case *WeightInput:
		e, err = asEntry(updateEntry[domain.WeightEntry](ctx, s.repos.Weights, userID, id, in.build(today), func(stored, next *domain.WeightEntry) error {
			keepDate(in.Date, stored.Date, &next.Date)
			return nil
		}))
	case *ExerciseInput:
		e, err = asEntry(updateEntry[domain.Exercise](ctx, s.repos.Exercises, userID, id, in.build(today), func(stored, next *domain.Exercise) error {
			keepDate(in.Date, stored.Date, &next.Date)
			return nil
		}))
	case *NutritionInput:
		e, err = asEntry(updateEntry[domain.Nutrition](ctx, s.repos.Nutrition, userID, id, in.build(today), func(stored, next *domain.Nutrition) error {
			keepDate(in.Date, stored.Date, &next.Date)
			return nil
		}))
	case *SleepInput:
		e, err = asEntry(updateEntry[domain.Sleep](ctx, s.repos.Sleep, userID, id, in.build(), nil))
	case *WaterInput:
		e, err = asEntry(updateEntry[domain.WaterIntake](ctx, s.repos.Water, userID, id, in.build(today, s.clock.TimeOfDay()), func(stored, next *domain.WaterIntake) error {
			keepDate(in.Date, stored.Date, &next.Date)
			if in.Time == "" {
				next.Time = stored.Time
			}
			return nil
		}))
	case *MoodInput:
		e, err = asEntry(updateEntry[domain.Mood](ctx, s.repos.Moods, userID, id, in.build(today), func(stored, next *domain.Mood) error {
			keepDate(in.Date, stored.Date, &next.Date)
			return nil
		}))
	case *GoalInput:
		e, err = asEntry(updateEntry[domain.HealthGoal](ctx, s.repos.Goals, userID, id, in.build(today), func(stored, next *domain.HealthGoal) error {
			keepDate(in.StartDate, stored.StartDate, &next.StartDate)
			if in.CurrentValue == nil {
				next.CurrentValue = stored.CurrentValue
			}
			if in.Status == "" {
				next.Status = stored.Status
			}
			return checkGoalDates(next)
		}))
	default:
		return nil, ErrUnknownKind
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *trackerService) DeleteEntry(ctx context.Context, userID primitive.ObjectID, kind domain.EntryKind, id primitive.ObjectID) error {
	var err error
	switch kind {
	case domain.KindWeight:
		err = s.repos.Weights.Delete(ctx, userID, id)
	case domain.KindExercise:
		err = s.repos.Exercises.Delete(ctx, userID, id)
	case domain.KindNutrition:
		err = s.repos.Nutrition.Delete(ctx, userID, id)
	case domain.KindSleep:
		err = s.repos.Sleep.Delete(ctx, userID, id)
	case domain.KindWater:
		err = s.repos.Water.Delete(ctx, userID, id)
	case domain.KindMood:
		err = s.repos.Moods.Delete(ctx, userID, id)
	case domain.KindGoal:
		err = s.repos.Goals.Delete(ctx, userID, id)
	default:
		return ErrUnknownKind
	}
	if err != nil {
		return storeError(err)
	}
	return nil
}

// QuickAdd turns a single free-text value into an entry of the chosen type,
// filling the remaining fields with defaults. Numeric types that do not parse
// fail with ErrParse and nothing is stored.
func (s *trackerService) QuickAdd(ctx context.Context, userID primitive.ObjectID, in QuickAddInput) (domain.Entry, error) {
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	value := strings.TrimSpace(in.Value)

	switch domain.EntryKind(in.ActionType) {
	case domain.KindWeight:
		kg, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, ErrParse
		}
		return quickAdded[*domain.WeightEntry](s.addWeight(ctx, userID, WeightInput{WeightKg: kg, Notes: in.Notes}, "quick_add"))
	case domain.KindExercise:
		return quickAdded[*domain.Exercise](s.addExercise(ctx, userID, ExerciseInput{
			Type:            domain.ExerciseOther,
			Name:            value,
			DurationMinutes: 30,
			CaloriesBurned:  150,
			Notes:           in.Notes,
		}, "quick_add"))
	case domain.KindNutrition:
		return quickAdded[*domain.Nutrition](s.addNutrition(ctx, userID, NutritionInput{
			MealType: domain.MealSnack,
			FoodName: value,
			Calories: 100,
			Notes:    in.Notes,
		}, "quick_add"))
	case domain.KindWater:
		ml, err := strconv.Atoi(value)
		if err != nil {
			return nil, ErrParse
		}
		return quickAdded[*domain.WaterIntake](s.addWater(ctx, userID, WaterInput{AmountMl: ml, Notes: in.Notes}, "quick_add"))
	case domain.KindMood:
		level, err := strconv.Atoi(value)
		if err != nil {
			return nil, ErrParse
		}
		if !domain.MoodLevel(level).Valid() {
			return nil, fieldError("value", "Mood must be between 1 and 5")
		}
		return quickAdded[*domain.Mood](s.addMood(ctx, userID, MoodInput{Level: domain.MoodLevel(level), Notes: in.Notes}, "quick_add"))
	}
	return nil, ErrUnknownKind
}

// quickAdded converts a typed result to domain.Entry without producing a
// non-nil interface around a nil pointer. The quick-add form only has a
// value field: date collisions become form errors and every other field
// error is reported against value.
func quickAdded[P domain.Entry](e P, err error) (domain.Entry, error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		fields := make(map[string]string, len(verr.Fields))
		for name, msg := range verr.Fields {
			switch name {
			case NonFieldErrors:
			case "date":
				name = NonFieldErrors
			default:
				name = "value"
			}
			fields[name] = msg
		}
		return nil, &ValidationError{Fields: fields}
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func keepDate(raw string, stored time.Time, next *time.Time) {
	if raw == "" {
		*next = stored
	}
}

func roundMacros(t repository.NutritionTotals) repository.NutritionTotals {
	t.ProteinG = calc.Round(t.ProteinG, 1)
	t.CarbsG = calc.Round(t.CarbsG, 1)
	t.FatG = calc.Round(t.FatG, 1)
	t.FiberG = calc.Round(t.FiberG, 1)
	return t
}
