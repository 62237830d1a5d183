package domain

import "time"

// WeightEntry is a single body-weight reading. At most one per user per date.
type WeightEntry struct {
	Record   `bson:",inline"`
	WeightKg float64   `bson:"weightKg" json:"weightKg"`
	Date     time.Time `bson:"date" json:"date"`
}

func (*WeightEntry) Kind() EntryKind { return KindWeight }
