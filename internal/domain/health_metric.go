package domain

import "time"

type MetricType string

const (
	MetricBloodPressure MetricType = "blood_pressure"
	MetricHeartRate     MetricType = "heart_rate"
	MetricBloodSugar    MetricType = "blood_sugar"
	MetricTemperature   MetricType = "temperature"
	MetricCholesterol   MetricType = "cholesterol"
	MetricOther         MetricType = "other"
)

func (t MetricType) Valid() bool {
	switch t {
	case MetricBloodPressure, MetricHeartRate, MetricBloodSugar, MetricTemperature, MetricCholesterol, MetricOther:
		return true
	}
	return false
}

// HealthMetric is a free-form reading such as "120/80 mmHg".
type HealthMetric struct {
	Record `bson:",inline"`
	Type   MetricType `bson:"type" json:"type"`
	Value  string     `bson:"value" json:"value"`
	Unit   string     `bson:"unit,omitempty" json:"unit,omitempty"`
	Date   time.Time  `bson:"date" json:"date"`
}
