package api

import (
	"alcyxob/health-tracker/internal/calc"
	"alcyxob/health-tracker/internal/domain"
	"time"

	"github.com/gin-gonic/gin"
)

// --- Response DTOs ---
// Dates are rendered as YYYY-MM-DD, instants as RFC 3339.

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

type WeightResponse struct {
	ID        string    `json:"id"`
	Weight    float64   `json:"weight"`
	Date      string    `json:"date"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func MapWeightToResponse(w *domain.WeightEntry) WeightResponse {
	return WeightResponse{
		ID:        w.ID.Hex(),
		Weight:    w.WeightKg,
		Date:      domain.FormatDate(w.Date),
		Notes:     w.Notes,
		CreatedAt: w.CreatedAt,
	}
}

type ExerciseResponse struct {
	ID             string              `json:"id"`
	ExerciseType   domain.ExerciseType `json:"exercise_type"`
	Name           string              `json:"name"`
	Duration       int                 `json:"duration"`
	CaloriesBurned int                 `json:"calories_burned"`
	Date           string              `json:"date"`
	Notes          string              `json:"notes"`
	CreatedAt      time.Time           `json:"created_at"`
}

func MapExerciseToResponse(e *domain.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:             e.ID.Hex(),
		ExerciseType:   e.Type,
		Name:           e.Name,
		Duration:       e.DurationMinutes,
		CaloriesBurned: e.CaloriesBurned,
		Date:           domain.FormatDate(e.Date),
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
	}
}

type NutritionResponse struct {
	ID        string          `json:"id"`
	MealType  domain.MealType `json:"meal_type"`
	FoodName  string          `json:"food_name"`
	Calories  int             `json:"calories"`
	Protein   *float64        `json:"protein"`
	Carbs     *float64        `json:"carbs"`
	Fat       *float64        `json:"fat"`
	Fiber     *float64        `json:"fiber"`
	Date      string          `json:"date"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
}

func MapNutritionToResponse(n *domain.Nutrition) NutritionResponse {
	return NutritionResponse{
		ID:        n.ID.Hex(),
		MealType:  n.MealType,
		FoodName:  n.FoodName,
		Calories:  n.Calories,
		Protein:   n.ProteinG,
		Carbs:     n.CarbsG,
		Fat:       n.FatG,
		Fiber:     n.FiberG,
		Date:      domain.FormatDate(n.Date),
		Notes:     n.Notes,
		CreatedAt: n.CreatedAt,
	}
}

type SleepResponse struct {
	ID            string    `json:"id"`
	SleepTime     time.Time `json:"sleep_time"`
	WakeTime      time.Time `json:"wake_time"`
	Quality       int       `json:"quality"`
	DurationHours float64   `json:"duration_hours"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

func MapSleepToResponse(s *domain.Sleep) SleepResponse {
	return SleepResponse{
		ID:            s.ID.Hex(),
		SleepTime:     s.SleepTime,
		WakeTime:      s.WakeTime,
		Quality:       s.Quality,
		DurationHours: calc.SleepDurationHours(s.SleepTime, s.WakeTime),
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
	}
}

type WaterResponse struct {
	ID        string    `json:"id"`
	Amount    int       `json:"amount"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func MapWaterToResponse(w *domain.WaterIntake) WaterResponse {
	return WaterResponse{
		ID:        w.ID.Hex(),
		Amount:    w.AmountMl,
		Date:      domain.FormatDate(w.Date),
		Time:      w.Time,
		Notes:     w.Notes,
		CreatedAt: w.CreatedAt,
	}
}

type MoodResponse struct {
	ID        string           `json:"id"`
	Mood      domain.MoodLevel `json:"mood"`
	MoodLabel string           `json:"mood_label"`
	Date      string           `json:"date"`
	Notes     string           `json:"notes"`
	CreatedAt time.Time        `json:"created_at"`
}

func MapMoodToResponse(m *domain.Mood) MoodResponse {
	return MoodResponse{
		ID:        m.ID.Hex(),
		Mood:      m.Level,
		MoodLabel: m.Level.Label(),
		Date:      domain.FormatDate(m.Date),
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

type GoalResponse struct {
	ID                 string            `json:"id"`
	GoalType           domain.GoalType   `json:"goal_type"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	TargetValue        *float64          `json:"target_value"`
	TargetUnit         string            `json:"target_unit"`
	StartDate          string            `json:"start_date"`
	TargetDate         string            `json:"target_date"`
	CurrentValue       float64           `json:"current_value"`
	Status             domain.GoalStatus `json:"status"`
	ProgressPercentage float64           `json:"progress_percentage"`
	IsOverdue          bool              `json:"is_overdue"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// MapGoalToResponse needs today to decide whether the goal is overdue.
func MapGoalToResponse(g *domain.HealthGoal, today time.Time) GoalResponse {
	return GoalResponse{
		ID:                 g.ID.Hex(),
		GoalType:           g.Type,
		Title:              g.Title,
		Description:        g.Description,
		TargetValue:        g.TargetValue,
		TargetUnit:         g.TargetUnit,
		StartDate:          domain.FormatDate(g.StartDate),
		TargetDate:         domain.FormatDate(g.TargetDate),
		CurrentValue:       g.CurrentValue,
		Status:             g.Status,
		ProgressPercentage: calc.GoalProgress(g.CurrentValue, g.TargetValue),
		IsOverdue:          calc.IsOverdue(g.TargetDate, g.Status, today),
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
}

type MedicationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	StartDate string    `json:"start_date"`
	EndDate   *string   `json:"end_date"`
	IsActive  bool      `json:"is_active"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func MapMedicationToResponse(m *domain.Medication) MedicationResponse {
	resp := MedicationResponse{
		ID:        m.ID.Hex(),
		Name:      m.Name,
		Dosage:    m.Dosage,
		Frequency: m.Frequency,
		StartDate: domain.FormatDate(m.StartDate),
		IsActive:  m.IsActive,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.EndDate != nil {
		end := domain.FormatDate(*m.EndDate)
		resp.EndDate = &end
	}
	return resp
}

type HealthMetricResponse struct {
	ID         string            `json:"id"`
	MetricType domain.MetricType `json:"metric_type"`
	Value      string            `json:"value"`
	Unit       string            `json:"unit"`
	Date       string            `json:"date"`
	Notes      string            `json:"notes"`
	CreatedAt  time.Time         `json:"created_at"`
}

func MapHealthMetricToResponse(m *domain.HealthMetric) HealthMetricResponse {
	return HealthMetricResponse{
		ID:         m.ID.Hex(),
		MetricType: m.Type,
		Value:      m.Value,
		Unit:       m.Unit,
		Date:       domain.FormatDate(m.Date),
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
	}
}

// mapAll converts a slice of entities with one of the Map*ToResponse functions.
func mapAll[T any, R any](items []T, mapFn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = mapFn(&items[i])
	}
	return out
}

// MapEntryToResponse renders any editable entry with its kind.
func MapEntryToResponse(e domain.Entry, today time.Time) gin.H {
	var body interface{}
	switch v := e.(type) {
	case *domain.WeightEntry:
		body = MapWeightToResponse(v)
	case *domain.Exercise:
		body = MapExerciseToResponse(v)
	case *domain.Nutrition:
		body = MapNutritionToResponse(v)
	case *domain.Sleep:
		body = MapSleepToResponse(v)
	case *domain.WaterIntake:
		body = MapWaterToResponse(v)
	case *domain.Mood:
		body = MapMoodToResponse(v)
	case *domain.HealthGoal:
		body = MapGoalToResponse(v, today)
	}
	return gin.H{"entry_type": e.Kind(), "entry": body}
}
