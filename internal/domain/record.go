package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the wire and display format for calendar dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for a wall-clock time of day.
const TimeLayout = "15:04:05"

// Record holds the fields shared by every tracked entity.
// ID, CreatedAt and UpdatedAt are filled by the repository layer; UserID is
// assigned once on creation and never rewritten by an update.
type Record struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Base exposes the shared record of any entity embedding it.
func (r *Record) Base() *Record { return r }

// DateOf truncates t to its calendar date, expressed as UTC midnight.
// The calendar date is taken in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders a stored date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
