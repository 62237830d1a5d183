package service

import (
	"alcyxob/health-tracker/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDays(t *testing.T) {
	assert.Equal(t, DefaultDays, ParseDays(""))
	assert.Equal(t, DefaultDays, ParseDays("week"))
	assert.Equal(t, 7, ParseDays("7"))
	assert.Equal(t, 90, ParseDays(" 90 "))
}

func TestDashboard(t *testing.T) {
	f := newFixture()
	tracker := NewTrackerService(f.repos, f.clock)
	svc := NewAnalyticsService(f.repos, f.clock)
	ctx := context.Background()

	d, err := svc.Dashboard(ctx, f.userID)
	require.NoError(t, err)
	assert.Nil(t, d.TodayWeight)
	assert.Nil(t, d.TodayMood)
	assert.Zero(t, d.TodayWater)
	assert.Empty(t, d.RecentWeight)

	_, err = tracker.AddWeight(ctx, f.userID, WeightInput{WeightKg: 75})
	require.NoError(t, err)
	_, err = tracker.AddWeight(ctx, f.userID, WeightInput{WeightKg: 76, Date: "2024-03-09"})
	require.NoError(t, err)
	_, err = tracker.AddMood(ctx, f.userID, MoodInput{Level: domain.MoodNeutral})
	require.NoError(t, err)
	_, err = tracker.AddWater(ctx, f.userID, WaterInput{AmountMl: 250})
	require.NoError(t, err)
	_, err = tracker.AddWater(ctx, f.userID, WaterInput{AmountMl: 500})
	require.NoError(t, err)
	_, err = tracker.AddWater(ctx, f.userID, WaterInput{AmountMl: 500, Date: "2024-03-09"})
	require.NoError(t, err)
	_, err = tracker.AddExercise(ctx, f.userID, ExerciseInput{Type: domain.ExerciseCardio, Name: "Bike", DurationMinutes: 40, CaloriesBurned: 320})
	require.NoError(t, err)
	_, err = tracker.AddNutrition(ctx, f.userID, NutritionInput{MealType: domain.MealLunch, FoodName: "Soup", Calories: 420})
	require.NoError(t, err)
	_, err = tracker.AddGoal(ctx, f.userID, GoalInput{Type: domain.GoalWater, Title: "Hydrate", TargetDate: "2024-04-01"})
	require.NoError(t, err)

	d, err = svc.Dashboard(ctx, f.userID)
	require.NoError(t, err)
	require.NotNil(t, d.TodayWeight)
	assert.Equal(t, 75.0, d.TodayWeight.WeightKg)
	require.NotNil(t, d.TodayMood)
	assert.Equal(t, domain.MoodNeutral, d.TodayMood.Level)
	assert.Equal(t, int64(750), d.TodayWater)
	assert.Equal(t, int64(320), d.TodayExerciseCalories)
	assert.Equal(t, int64(420), d.TodayNutritionCalories)
	assert.Len(t, d.RecentWeight, 2)
	assert.Len(t, d.ActiveGoals, 1)
}

func TestAnalyticsWindow(t *testing.T) {
	f := newFixture()
	tracker := NewTrackerService(f.repos, f.clock)
	svc := NewAnalyticsService(f.repos, f.clock)
	ctx := context.Background()

	for _, w := range []WeightInput{
		{WeightKg: 90, Date: "2024-02-01"},
		{WeightKg: 80, Date: "2024-02-20"},
		{WeightKg: 78.5, Date: "2024-03-05"},
	} {
		_, err := tracker.AddWeight(ctx, f.userID, w)
		require.NoError(t, err)
	}

	for _, in := range []NutritionInput{
		{MealType: domain.MealBreakfast, FoodName: "Oats", Calories: 300, ProteinG: ptr(10.1), Date: "2024-03-01"},
		{MealType: domain.MealLunch, FoodName: "Rice", Calories: 500, ProteinG: ptr(0.3), CarbsG: ptr(80.0), Date: "2024-03-01"},
		{MealType: domain.MealDinner, FoodName: "Soup", Calories: 250, Date: "2024-03-09"},
		{MealType: domain.MealSnack, FoodName: "Old", Calories: 999, Date: "2024-01-01"},
	} {
		_, err := tracker.AddNutrition(ctx, f.userID, in)
		require.NoError(t, err)
	}

	a, err := svc.Analytics(ctx, f.userID, 30)
	require.NoError(t, err)
	require.Len(t, a.NutritionDaily, 2)
	assert.Equal(t, day("2024-03-01"), a.NutritionDaily[0].Date)
	assert.Equal(t, int64(800), a.NutritionDaily[0].Calories)
	assert.Equal(t, 10.4, a.NutritionDaily[0].ProteinG)
	assert.Equal(t, 80.0, a.NutritionDaily[0].CarbsG)
	assert.Equal(t, int64(250), a.NutritionDaily[1].Calories)
	assert.Equal(t, day("2024-02-09"), a.Start)
	assert.Equal(t, day("2024-03-10"), a.Today)
	require.Len(t, a.Weight, 2)
	assert.Equal(t, 80.0, a.Weight[0].WeightKg)
	require.NotNil(t, a.WeightChange)
	assert.Equal(t, -1.5, *a.WeightChange)

	a, err = svc.Analytics(ctx, f.userID, 1)
	require.NoError(t, err)
	assert.Empty(t, a.Weight)
	assert.Nil(t, a.WeightChange)
}

func TestChartData(t *testing.T) {
	f := newFixture()
	tracker := NewTrackerService(f.repos, f.clock)
	svc := NewAnalyticsService(f.repos, f.clock)
	ctx := context.Background()

	_, err := tracker.AddWeight(ctx, f.userID, WeightInput{WeightKg: 70, Date: "2024-03-08"})
	require.NoError(t, err)
	for _, in := range []ExerciseInput{
		{Type: domain.ExerciseCardio, Name: "Run", DurationMinutes: 30, CaloriesBurned: 300, Date: "2024-03-08"},
		{Type: domain.ExerciseStrength, Name: "Lift", DurationMinutes: 20, CaloriesBurned: 100, Date: "2024-03-08"},
		{Type: domain.ExerciseCardio, Name: "Run", DurationMinutes: 25, CaloriesBurned: 250, Date: "2024-03-09"},
	} {
		_, err := tracker.AddExercise(ctx, f.userID, in)
		require.NoError(t, err)
	}

	c, err := svc.ChartData(ctx, f.userID, 7)
	require.NoError(t, err)
	require.Len(t, c.Weight, 1)
	assert.Equal(t, 70.0, c.Weight[0].WeightKg)
	require.Len(t, c.Exercise, 2)
	assert.Equal(t, day("2024-03-08"), c.Exercise[0].Date)
	assert.Equal(t, int64(50), c.Exercise[0].TotalDuration)
	assert.Equal(t, int64(400), c.Exercise[0].TotalCalories)
	assert.Empty(t, c.Water)
}
