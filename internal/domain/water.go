package domain

import "time"

// WaterIntake is one drink of water. Time is the wall-clock time (HH:MM:SS) on Date.
type WaterIntake struct {
	Record   `bson:",inline"`
	AmountMl int       `bson:"amountMl" json:"amountMl"`
	Date     time.Time `bson:"date" json:"date"`
	Time     string    `bson:"time" json:"time"`
}

func (*WaterIntake) Kind() EntryKind { return KindWater }
