// Package calc computes derived health metrics from stored fields.
// Nothing here is persisted; every function is pure.
package calc

import (
	"math"
	"time"

	"alcyxob/health-tracker/internal/domain"
)

// Round rounds x to the given number of decimal places, halves to even.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(x*p) / p
}

// BMI returns weight / height(m)^2 rounded to 2 decimals.
// ok is false when either input is missing (zero or negative).
func BMI(heightCm, weightKg float64) (bmi float64, ok bool) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, false
	}
	heightM := heightCm / 100
	return Round(weightKg/(heightM*heightM), 2), true
}

// BMR returns the basal metabolic rate in kcal/day using the Mifflin-St Jeor
// equation. Only male and female genders have a defined constant; any other
// gender, a missing measurement or an unknown (zero) age yields ok == false.
func BMR(weightKg, heightCm float64, age int, gender domain.Gender) (bmr int, ok bool) {
	if weightKg <= 0 || heightCm <= 0 || age <= 0 {
		return 0, false
	}
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch gender {
	case domain.GenderMale:
		return int(math.RoundToEven(base + 5)), true
	case domain.GenderFemale:
		return int(math.RoundToEven(base - 161)), true
	}
	return 0, false
}

// Age returns full years between dob and today.
func Age(dob *time.Time, today time.Time) (age int, ok bool) {
	if dob == nil || dob.IsZero() {
		return 0, false
	}
	age = today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age, true
}

// SleepDurationHours returns wake - sleep in hours to one decimal, or 0 when
// either timestamp is missing.
func SleepDurationHours(sleep, wake time.Time) float64 {
	if sleep.IsZero() || wake.IsZero() {
		return 0
	}
	return Round(wake.Sub(sleep).Hours(), 1)
}

// GoalProgress returns current/target as a percentage capped at 100.
func GoalProgress(current float64, target *float64) float64 {
	if target == nil || *target == 0 || current == 0 {
		return 0
	}
	return math.Min(100, Round(current / *target * 100, 1))
}

// IsOverdue reports whether an active goal has passed its target date.
func IsOverdue(targetDate time.Time, status domain.GoalStatus, today time.Time) bool {
	return domain.DateOf(today).After(domain.DateOf(targetDate)) && status == domain.GoalActive
}
