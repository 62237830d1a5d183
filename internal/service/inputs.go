package service

import (
	"alcyxob/health-tracker/internal/calc"
	"alcyxob/health-tracker/internal/domain"
	"time"
)

// EntryInput is the editable form of one EntryKind. Each kind has its own
// input type; see NewEntryInput.
type EntryInput interface {
	Kind() domain.EntryKind
	check(today time.Time) error
}

// NewEntryInput returns an empty input for kind, ready to be decoded into.
func NewEntryInput(kind domain.EntryKind) (EntryInput, bool) {
	switch kind {
	case domain.KindWeight:
		return &WeightInput{}, true
	case domain.KindExercise:
		return &ExerciseInput{}, true
	case domain.KindNutrition:
		return &NutritionInput{}, true
	case domain.KindSleep:
		return &SleepInput{}, true
	case domain.KindWater:
		return &WaterInput{}, true
	case domain.KindMood:
		return &MoodInput{}, true
	case domain.KindGoal:
		return &GoalInput{}, true
	}
	return nil, false
}

type WeightInput struct {
	WeightKg float64 `json:"weight" validate:"required,gte=20,lte=500"`
	Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes    string  `json:"notes"`
}

func (in *WeightInput) Kind() domain.EntryKind { return domain.KindWeight }
func (in *WeightInput) check(time.Time) error { return validateStruct(in) }

func (in *WeightInput) build(today time.Time) *domain.WeightEntry {
	return &domain.WeightEntry{
		Record:   domain.Record{Notes: in.Notes},
		WeightKg: calc.Round(in.WeightKg, 2),
		Date:     dateOr(in.Date, today),
	}
}

type ExerciseInput struct {
	Type            domain.ExerciseType `json:"exercise_type" validate:"required,oneof=cardio strength flexibility sports other"`
	Name            string              `json:"name" validate:"required,max=100"`
	DurationMinutes int                 `json:"duration" validate:"required,gte=1,lte=1440"`
	CaloriesBurned  int                 `json:"calories_burned" validate:"required,gte=1,lte=2000"`
	Date            string              `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes           string              `json:"notes"`
}

func (in *ExerciseInput) Kind() domain.EntryKind { return domain.KindExercise }
func (in *ExerciseInput) check(time.Time) error { return validateStruct(in) }

func (in *ExerciseInput) build(today time.Time) *domain.Exercise {
	return &domain.Exercise{
		Record:          domain.Record{Notes: in.Notes},
		Type:            in.Type,
		Name:            in.Name,
		DurationMinutes: in.DurationMinutes,
		CaloriesBurned:  in.CaloriesBurned,
		Date:            dateOr(in.Date, today),
	}
}

type NutritionInput struct {
	MealType domain.MealType `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	FoodName string          `json:"food_name" validate:"required,max=100"`
	Calories int             `json:"calories" validate:"required,gte=1,lte=5000"`
	ProteinG *float64        `json:"protein" validate:"omitempty,gte=0,lte=500"`
	CarbsG   *float64        `json:"carbs" validate:"omitempty,gte=0,lte=1000"`
	FatG     *float64        `json:"fat" validate:"omitempty,gte=0,lte=200"`
	FiberG   *float64        `json:"fiber" validate:"omitempty,gte=0,lte=100"`
	Date     string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes    string          `json:"notes"`
}

func (in *NutritionInput) Kind() domain.EntryKind { return domain.KindNutrition }
func (in *NutritionInput) check(time.Time) error { return validateStruct(in) }

func (in *NutritionInput) build(today time.Time) *domain.Nutrition {
	return &domain.Nutrition{
		Record:   domain.Record{Notes: in.Notes},
		MealType: in.MealType,
		FoodName: in.FoodName,
		Calories: in.Calories,
		ProteinG: roundPtr(in.ProteinG, 1),
		CarbsG:   roundPtr(in.CarbsG, 1),
		FatG:     roundPtr(in.FatG, 1),
		FiberG:   roundPtr(in.FiberG, 1),
		Date:     dateOr(in.Date, today),
	}
}

type SleepInput struct {
	SleepTime time.Time `json:"sleep_time" validate:"required"`
	WakeTime  time.Time `json:"wake_time" validate:"required"`
	Quality   int       `json:"quality" validate:"required,gte=1,lte=10"`
	Notes     string    `json:"notes"`
}

func (in *SleepInput) Kind() domain.EntryKind { return domain.KindSleep }

func (in *SleepInput) check(time.Time) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if !in.WakeTime.After(in.SleepTime) {
		return formError("Wake time must be after sleep time.")
	}
	return nil
}

func (in *SleepInput) build() *domain.Sleep {
	return &domain.Sleep{
		Record:    domain.Record{Notes: in.Notes},
		SleepTime: in.SleepTime.UTC(),
		WakeTime:  in.WakeTime.UTC(),
		Quality:   in.Quality,
	}
}

type WaterInput struct {
	AmountMl int    `json:"amount" validate:"required,gte=50,lte=5000"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time     string `json:"time" validate:"omitempty,clock"`
	Notes    string `json:"notes"`
}

func (in *WaterInput) Kind() domain.EntryKind { return domain.KindWater }
func (in *WaterInput) check(time.Time) error { return validateStruct(in) }

func (in *WaterInput) build(today time.Time, now string) *domain.WaterIntake {
	at := now
	if in.Time != "" {
		if t, err := parseClock(in.Time); err == nil {
			at = t
		}
	}
	return &domain.WaterIntake{
		Record:   domain.Record{Notes: in.Notes},
		AmountMl: in.AmountMl,
		Date:     dateOr(in.Date, today),
		Time:     at,
	}
}

type MoodInput struct {
	Level domain.MoodLevel `json:"mood" validate:"required,gte=1,lte=5"`
	Date  string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes string           `json:"notes"`
}

func (in *MoodInput) Kind() domain.EntryKind { return domain.KindMood }
func (in *MoodInput) check(time.Time) error { return validateStruct(in) }

func (in *MoodInput) build(today time.Time) *domain.Mood {
	return &domain.Mood{
		Record: domain.Record{Notes: in.Notes},
		Level:  in.Level,
		Date:   dateOr(in.Date, today),
	}
}

// GoalInput creates or edits a goal. CurrentValue and Status are optional;
// omitted on create they default to 0 and active, omitted on edit they keep
// the stored values.
type GoalInput struct {
	Type         domain.GoalType   `json:"goal_type" validate:"required,oneof=weight exercise nutrition sleep water general"`
	Title        string            `json:"title" validate:"required,max=200"`
	Description  string            `json:"description"`
	TargetValue  *float64          `json:"target_value" validate:"omitempty,gte=0"`
	TargetUnit   string            `json:"target_unit" validate:"max=20"`
	StartDate    string            `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	TargetDate   string            `json:"target_date" validate:"required,datetime=2006-01-02"`
	CurrentValue *float64          `json:"current_value" validate:"omitempty,gte=0"`
	Status       domain.GoalStatus `json:"status" validate:"omitempty,oneof=active completed paused"`
}

func (in *GoalInput) Kind() domain.EntryKind { return domain.KindGoal }

// check covers tags only. Start and target dates are compared on the built
// goal because an omitted start date resolves differently on create and edit.
func (in *GoalInput) check(time.Time) error { return validateStruct(in) }

func checkGoalDates(g *domain.HealthGoal) error {
	if !g.TargetDate.After(g.StartDate) {
		return formError("Target date must be after start date.")
	}
	return nil
}

func (in *GoalInput) build(today time.Time) *domain.HealthGoal {
	g := &domain.HealthGoal{
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		TargetValue: roundPtr(in.TargetValue, 2),
		TargetUnit:  in.TargetUnit,
		StartDate:   dateOr(in.StartDate, today),
		TargetDate:  dateOr(in.TargetDate, today),
		Status:      domain.GoalActive,
	}
	if in.CurrentValue != nil {
		g.CurrentValue = calc.Round(*in.CurrentValue, 2)
	}
	if in.Status != "" {
		g.Status = in.Status
	}
	return g
}

type MedicationInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	Dosage    string `json:"dosage" validate:"required,max=50"`
	Frequency string `json:"frequency" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive  *bool  `json:"is_active"`
	Notes     string `json:"notes"`
}

func (in *MedicationInput) check(today time.Time) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if end := optionalDate(in.EndDate); end != nil && !end.After(dateOr(in.StartDate, today)) {
		return formError("End date must be after start date.")
	}
	return nil
}

func (in *MedicationInput) build(today time.Time) *domain.Medication {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &domain.Medication{
		Record:    domain.Record{Notes: in.Notes},
		Name:      in.Name,
		Dosage:    in.Dosage,
		Frequency: in.Frequency,
		StartDate: dateOr(in.StartDate, today),
		EndDate:   optionalDate(in.EndDate),
		IsActive:  active,
	}
}

type HealthMetricInput struct {
	Type  domain.MetricType `json:"metric_type" validate:"required,oneof=blood_pressure heart_rate blood_sugar temperature cholesterol other"`
	Value string            `json:"value" validate:"required,max=100"`
	Unit  string            `json:"unit" validate:"max=20"`
	Date  string            `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes string            `json:"notes"`
}

func (in *HealthMetricInput) build(today time.Time) *domain.HealthMetric {
	return &domain.HealthMetric{
		Record: domain.Record{Notes: in.Notes},
		Type:   in.Type,
		Value:  in.Value,
		Unit:   in.Unit,
		Date:   dateOr(in.Date, today),
	}
}

type ProfileInput struct {
	DateOfBirth   string               `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender        domain.Gender        `json:"gender" validate:"omitempty,oneof=M F O"`
	HeightCm      *float64             `json:"height" validate:"omitempty,gte=100,lte=250"`
	ActivityLevel domain.ActivityLevel `json:"activity_level" validate:"required,oneof=sedentary lightly_active moderately_active very_active extremely_active"`
}

type RegisterInput struct {
	Username        string `json:"username" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"required,max=30"`
	LastName        string `json:"last_name" validate:"required,max=30"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type QuickAddInput struct {
	ActionType string `json:"action_type" validate:"required,oneof=weight exercise nutrition water mood"`
	Value      string `json:"value" validate:"required,max=100"`
	Notes      string `json:"notes" validate:"max=200"`
}

func roundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := calc.Round(*v, places)
	return &r
}
