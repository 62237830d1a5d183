package domain

import "time"

// Sleep is one night (or nap) of sleep. WakeTime is strictly after SleepTime.
type Sleep struct {
	Record    `bson:",inline"`
	SleepTime time.Time `bson:"sleepTime" json:"sleepTime"`
	WakeTime  time.Time `bson:"wakeTime" json:"wakeTime"`
	Quality   int       `bson:"quality" json:"quality"` // 1-10
}

func (*Sleep) Kind() EntryKind { return KindSleep }
