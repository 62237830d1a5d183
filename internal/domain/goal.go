package domain

import "time"

type GoalType string

const (
	GoalWeight    GoalType = "weight"
	GoalExercise  GoalType = "exercise"
	GoalNutrition GoalType = "nutrition"
	GoalSleep     GoalType = "sleep"
	GoalWater     GoalType = "water"
	GoalGeneral   GoalType = "general"
)

func (t GoalType) Valid() bool {
	switch t {
	case GoalWeight, GoalExercise, GoalNutrition, GoalSleep, GoalWater, GoalGeneral:
		return true
	}
	return false
}

// GoalStatus tracks the lifecycle of a goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalPaused:
		return true
	}
	return false
}

// HealthGoal is a user-defined target. TargetDate is strictly after StartDate.
type HealthGoal struct {
	Record       `bson:",inline"`
	Type         GoalType   `bson:"type" json:"type"`
	Title        string     `bson:"title" json:"title"`
	Description  string     `bson:"description" json:"description"`
	TargetValue  *float64   `bson:"targetValue,omitempty" json:"targetValue,omitempty"`
	TargetUnit   string     `bson:"targetUnit,omitempty" json:"targetUnit,omitempty"`
	StartDate    time.Time  `bson:"startDate" json:"startDate"`
	TargetDate   time.Time  `bson:"targetDate" json:"targetDate"`
	CurrentValue float64    `bson:"currentValue" json:"currentValue"`
	Status       GoalStatus `bson:"status" json:"status"`
}

func (*HealthGoal) Kind() EntryKind { return KindGoal }
