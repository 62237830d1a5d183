package domain

// EntryKind names the entity variants that support generic edit and delete.
type EntryKind string

const (
	KindWeight    EntryKind = "weight"
	KindExercise  EntryKind = "exercise"
	KindNutrition EntryKind = "nutrition"
	KindSleep     EntryKind = "sleep"
	KindWater     EntryKind = "water"
	KindMood      EntryKind = "mood"
	KindGoal      EntryKind = "goal"
)

// EntryKinds lists every editable variant.
var EntryKinds = []EntryKind{KindWeight, KindExercise, KindNutrition, KindSleep, KindWater, KindMood, KindGoal}

// ParseEntryKind maps a path segment to a known kind.
func ParseEntryKind(s string) (EntryKind, bool) {
	for _, k := range EntryKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Entry is implemented by every editable entity.
type Entry interface {
	Base() *Record
	Kind() EntryKind
}
