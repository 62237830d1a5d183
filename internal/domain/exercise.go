package domain

import "time"

// ExerciseType groups workouts into broad categories.
type ExerciseType string

const (
	ExerciseCardio      ExerciseType = "cardio"
	ExerciseStrength    ExerciseType = "strength"
	ExerciseFlexibility ExerciseType = "flexibility"
	ExerciseSports      ExerciseType = "sports"
	ExerciseOther       ExerciseType = "other"
)

func (t ExerciseType) Valid() bool {
	switch t {
	case ExerciseCardio, ExerciseStrength, ExerciseFlexibility, ExerciseSports, ExerciseOther:
		return true
	}
	return false
}

// Exercise is one logged workout session.
type Exercise struct {
	Record          `bson:",inline"`
	Type            ExerciseType `bson:"type" json:"type"`
	Name            string       `bson:"name" json:"name"`
	DurationMinutes int          `bson:"durationMinutes" json:"durationMinutes"`
	CaloriesBurned  int          `bson:"caloriesBurned" json:"caloriesBurned"`
	Date            time.Time    `bson:"date" json:"date"`
}

func (*Exercise) Kind() EntryKind { return KindExercise }
