package domain

import "time"

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// Nutrition is a single food or drink entry. Macros are optional grams.
type Nutrition struct {
	Record   `bson:",inline"`
	MealType MealType  `bson:"mealType" json:"mealType"`
	FoodName string    `bson:"foodName" json:"foodName"`
	Calories int       `bson:"calories" json:"calories"`
	ProteinG *float64  `bson:"proteinG,omitempty" json:"proteinG,omitempty"`
	CarbsG   *float64  `bson:"carbsG,omitempty" json:"carbsG,omitempty"`
	FatG     *float64  `bson:"fatG,omitempty" json:"fatG,omitempty"`
	FiberG   *float64  `bson:"fiberG,omitempty" json:"fiberG,omitempty"`
	Date     time.Time `bson:"date" json:"date"`
}

func (*Nutrition) Kind() EntryKind { return KindNutrition }
