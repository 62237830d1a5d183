package domain

import "time"

// Medication is a prescription or supplement the user is taking.
// When EndDate is set it is strictly after StartDate.
type Medication struct {
	Record    `bson:",inline"`
	Name      string     `bson:"name" json:"name"`
	Dosage    string     `bson:"dosage" json:"dosage"`
	Frequency string     `bson:"frequency" json:"frequency"`
	StartDate time.Time  `bson:"startDate" json:"startDate"`
	EndDate   *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	IsActive  bool       `bson:"isActive" json:"isActive"`
}
