package domain

import "time"

// MoodLevel is a five-point scale from very sad (1) to very happy (5).
type MoodLevel int

const (
	MoodVerySad   MoodLevel = 1
	MoodSad       MoodLevel = 2
	MoodNeutral   MoodLevel = 3
	MoodHappy     MoodLevel = 4
	MoodVeryHappy MoodLevel = 5
)

func (m MoodLevel) Valid() bool {
	return m >= MoodVerySad && m <= MoodVeryHappy
}

func (m MoodLevel) Label() string {
	switch m {
	case MoodVerySad:
		return "Very Sad"
	case MoodSad:
		return "Sad"
	case MoodNeutral:
		return "Neutral"
	case MoodHappy:
		return "Happy"
	case MoodVeryHappy:
		return "Very Happy"
	}
	return ""
}

// Mood is a daily mood check. At most one per user per date.
type Mood struct {
	Record `bson:",inline"`
	Level  MoodLevel `bson:"level" json:"level"`
	Date   time.Time `bson:"date" json:"date"`
}

func (*Mood) Kind() EntryKind { return KindMood }
