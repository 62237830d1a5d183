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

// DefaultDays is the analytics window used when none (or garbage) is given.
const DefaultDays = 30

// ParseDays reads the days query parameter; anything non-numeric means DefaultDays.
func ParseDays(raw string) int {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultDays
	}
	return days
}

type Dashboard struct {
	Today                  time.Time
	TodayWeight            *domain.WeightEntry
	TodayMood              *domain.Mood
	RecentWeight           []domain.WeightEntry
	RecentExercise         []domain.Exercise
	RecentNutrition        []domain.Nutrition
	TodayExerciseCalories  int64
	TodayNutritionCalories int64
	TodayWater             int64
	ActiveGoals            []domain.HealthGoal
}

// Analytics is the raw entries of a [Start, Today] window, oldest first,
// plus per-day nutrition sums for the same window.
type Analytics struct {
	Days           int
	Start          time.Time
	Today          time.Time
	Weight         []domain.WeightEntry
	Exercise       []domain.Exercise
	Nutrition      []domain.Nutrition
	NutritionDaily []repository.DailyNutritionTotal
	WeightChange   *float64
}

type WeightPoint struct {
	Date     time.Time
	WeightKg float64
}

type ChartData struct {
	Weight   []WeightPoint
	Exercise []repository.DailyExerciseTotal
	Water    []repository.DailyWaterTotal
}

type AnalyticsService interface {
	Dashboard(ctx context.Context, userID primitive.ObjectID) (*Dashboard, error)
	Analytics(ctx context.Context, userID primitive.ObjectID, days int) (*Analytics, error)
	ChartData(ctx context.Context, userID primitive.ObjectID, days int) (*ChartData, error)
}

type analyticsService struct {
	repos Repositories
	clock Clock
}

func NewAnalyticsService(repos Repositories, clock Clock) AnalyticsService {
	return &analyticsService{repos: repos, clock: clock}
}

func (s *analyticsService) Dashboard(ctx context.Context, userID primitive.ObjectID) (*Dashboard, error) {
	today := s.clock.Today()
	d := &Dashboard{Today: today}

	w, err := s.repos.Weights.LatestCreatedOn(ctx, userID, today)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("today weight: %w", err)
	}
	d.TodayWeight = w

	m, err := s.repos.Moods.GetOn(ctx, userID, today)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("today mood: %w", err)
	}
	d.TodayMood = m

	if d.RecentWeight, err = s.repos.Weights.Recent(ctx, userID, 7); err != nil {
		return nil, fmt.Errorf("recent weight: %w", err)
	}
	if d.RecentExercise, err = s.repos.Exercises.Recent(ctx, userID, 5); err != nil {
		return nil, fmt.Errorf("recent exercise: %w", err)
	}
	if d.RecentNutrition, err = s.repos.Nutrition.Recent(ctx, userID, 5); err != nil {
		return nil, fmt.Errorf("recent nutrition: %w", err)
	}

	exercise, err := s.repos.Exercises.Totals(ctx, userID, &today)
	if err != nil {
		return nil, fmt.Errorf("today exercise: %w", err)
	}
	d.TodayExerciseCalories = exercise.TotalCalories

	nutrition, err := s.repos.Nutrition.TotalsOn(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("today nutrition: %w", err)
	}
	d.TodayNutritionCalories = nutrition.Calories

	if d.TodayWater, err = s.repos.Water.TotalOn(ctx, userID, today); err != nil {
		return nil, fmt.Errorf("today water: %w", err)
	}
	if d.ActiveGoals, err = s.repos.Goals.ListByStatus(ctx, userID, domain.GoalActive, 5); err != nil {
		return nil, fmt.Errorf("active goals: %w", err)
	}
	return d, nil
}

func (s *analyticsService) window(days int) repository.DateRange {
	today := s.clock.Today()
	return repository.DateRange{From: today.AddDate(0, 0, -days), To: today}
}

func (s *analyticsService) Analytics(ctx context.Context, userID primitive.ObjectID, days int) (*Analytics, error) {
	r := s.window(days)
	a := &Analytics{Days: days, Start: r.From, Today: r.To}

	var err error
	if a.Weight, err = s.repos.Weights.ListRange(ctx, userID, r); err != nil {
		return nil, fmt.Errorf("weight range: %w", err)
	}
	if a.Exercise, err = s.repos.Exercises.ListRange(ctx, userID, r); err != nil {
		return nil, fmt.Errorf("exercise range: %w", err)
	}
	if a.Nutrition, err = s.repos.Nutrition.ListRange(ctx, userID, r); err != nil {
		return nil, fmt.Errorf("nutrition range: %w", err)
	}
	if a.NutritionDaily, err = s.repos.Nutrition.DailyTotals(ctx, userID, r); err != nil {
		return nil, fmt.Errorf("nutrition totals: %w", err)
	}
	for i := range a.NutritionDaily {
		a.NutritionDaily[i].NutritionTotals = roundMacros(a.NutritionDaily[i].NutritionTotals)
	}
	if n := len(a.Weight); n > 0 {
		change := calc.Round(a.Weight[n-1].WeightKg-a.Weight[0].WeightKg, 2)
		a.WeightChange = &change
	}
	return a, nil
}

func (s *analyticsService) ChartData(ctx context.Context, userID primitive.ObjectID, days int) (*ChartData, error) {
	r := s.window(days)

	weights, err := s.repos.Weights.ListRange(ctx, userID, r)
	if err != nil {
		return nil, fmt.Errorf("weight range: %w", err)
	}
	out := &ChartData{Weight: make([]WeightPoint, 0, len(weights))}
	for _, w := range weights {
		out.Weight = append(out.Weight, WeightPoint{Date: w.Date, WeightKg: w.WeightKg})
	}

	if out.Exercise, err = s.repos.Exercises.DailyTotals(ctx, userID, r); err != nil {
		return nil, fmt.Errorf("exercise totals: %w", err)
	}
	if out.Water, err = s.repos.Water.DailyTotals(ctx, userID, r); err != nil {
		return nil, fmt.Errorf("water totals: %w", err)
	}
	return out, nil
}
