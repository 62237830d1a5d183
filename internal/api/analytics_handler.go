package api

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"alcyxob/health-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	clock            service.Clock
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService, clock service.Clock) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, clock: clock}
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	d, err := h.analyticsService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var todayWeight *WeightResponse
	if d.TodayWeight != nil {
		w := MapWeightToResponse(d.TodayWeight)
		todayWeight = &w
	}
	var todayMood *MoodResponse
	if d.TodayMood != nil {
		m := MapMoodToResponse(d.TodayMood)
		todayMood = &m
	}
	mapGoal := func(g *domain.HealthGoal) GoalResponse { return MapGoalToResponse(g, d.Today) }

	c.JSON(http.StatusOK, gin.H{
		"today":                    domain.FormatDate(d.Today),
		"today_weight":             todayWeight,
		"today_mood":               todayMood,
		"recent_weight":            mapAll(d.RecentWeight, MapWeightToResponse),
		"recent_exercise":          mapAll(d.RecentExercise, MapExerciseToResponse),
		"recent_nutrition":         mapAll(d.RecentNutrition, MapNutritionToResponse),
		"today_exercise_calories":  d.TodayExerciseCalories,
		"today_nutrition_calories": d.TodayNutritionCalories,
		"today_water":              d.TodayWater,
		"active_goals":             mapAll(d.ActiveGoals, mapGoal),
	})
}

func (h *AnalyticsHandler) Analytics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	a, err := h.analyticsService.Analytics(c.Request.Context(), userID, service.ParseDays(c.Query("days")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"days":            a.Days,
		"start_date":      domain.FormatDate(a.Start),
		"end_date":        domain.FormatDate(a.Today),
		"weight_data":     mapAll(a.Weight, MapWeightToResponse),
		"exercise_data":   mapAll(a.Exercise, MapExerciseToResponse),
		"nutrition_data":  mapAll(a.Nutrition, MapNutritionToResponse),
		"nutrition_daily": mapAll(a.NutritionDaily, mapNutritionDay),
		"weight_change":   a.WeightChange,
	})
}

type nutritionDay struct {
	Date string `json:"date"`
	NutritionTotalsResponse
}

func mapNutritionDay(d *repository.DailyNutritionTotal) nutritionDay {
	return nutritionDay{Date: domain.FormatDate(d.Date), NutritionTotalsResponse: mapNutritionTotals(d.NutritionTotals)}
}

type weightPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

type exercisePoint struct {
	Date          string `json:"date"`
	TotalDuration int64  `json:"total_duration"`
	TotalCalories int64  `json:"total_calories"`
}

type waterPoint struct {
	Date        string `json:"date"`
	TotalAmount int64  `json:"total_amount"`
}

// ChartData returns the series drawn on the analytics charts.
func (h *AnalyticsHandler) ChartData(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	data, err := h.analyticsService.ChartData(c.Request.Context(), userID, service.ParseDays(c.Query("days")))
	if err != nil {
		respondError(c, err)
		return
	}

	weights := make([]weightPoint, len(data.Weight))
	for i, w := range data.Weight {
		weights[i] = weightPoint{Date: domain.FormatDate(w.Date), Weight: w.WeightKg}
	}
	exercise := make([]exercisePoint, len(data.Exercise))
	for i, e := range data.Exercise {
		exercise[i] = exercisePoint{Date: domain.FormatDate(e.Date), TotalDuration: e.TotalDuration, TotalCalories: e.TotalCalories}
	}
	water := make([]waterPoint, len(data.Water))
	for i, w := range data.Water {
		water[i] = waterPoint{Date: domain.FormatDate(w.Date), TotalAmount: w.TotalAmount}
	}

	c.JSON(http.StatusOK, gin.H{
		"weight_data":   weights,
		"exercise_data": exercise,
		"water_data":    water,
	})
}
