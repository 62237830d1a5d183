package service

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory repository.EntryStore with the same owner
// scoping and uniqueness behaviour as the Mongo collections.
type memStore[T any, P entity[T]] struct {
	mu    sync.Mutex
	items []T
	seq   int
	// less orders the default listing; same as the collection sort.
	less func(a, b P) bool
	// conflict reports a unique-index violation between two entries.
	conflict func(a, b P) bool
}

func newMemStore[T any, P entity[T]](less, conflict func(a, b P) bool) *memStore[T, P] {
	return &memStore[T, P]{less: less, conflict: conflict}
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func (m *memStore[T, P]) Create(_ context.Context, entry *T) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	base := P(entry).Base()
	if base.UserID.IsZero() {
		return primitive.NilObjectID, errors.New("entry owner is required")
	}
	if m.conflicts(P(entry), primitive.NilObjectID) {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	m.seq++
	base.ID = primitive.NewObjectID()
	base.CreatedAt = epoch.Add(time.Duration(m.seq) * time.Second)
	base.UpdatedAt = base.CreatedAt
	m.items = append(m.items, *entry)
	return base.ID, nil
}

func (m *memStore[T, P]) conflicts(e P, self primitive.ObjectID) bool {
	if m.conflict == nil {
		return false
	}
	for i := range m.items {
		other := P(&m.items[i])
		if other.Base().ID == self || other.Base().UserID != e.Base().UserID {
			continue
		}
		if m.conflict(e, other) {
			return true
		}
	}
	return false
}

func (m *memStore[T, P]) find(userID, id primitive.ObjectID) int {
	for i := range m.items {
		b := P(&m.items[i]).Base()
		if b.ID == id && b.UserID == userID {
			return i
		}
	}
	return -1
}

func (m *memStore[T, P]) GetByID(_ context.Context, userID, id primitive.ObjectID) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(userID, id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	cp := m.items[i]
	return &cp, nil
}

func (m *memStore[T, P]) Update(_ context.Context, entry *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	base := P(entry).Base()
	i := m.find(base.UserID, base.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	if m.conflicts(P(entry), base.ID) {
		return repository.ErrDuplicate
	}
	stored := P(&m.items[i]).Base()
	base.CreatedAt = stored.CreatedAt
	base.UpdatedAt = stored.UpdatedAt.Add(time.Minute)
	m.items[i] = *entry
	return nil
}

func (m *memStore[T, P]) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(userID, id)
	if i < 0 {
		return repository.ErrNotFound
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return nil
}

// owned returns copies of the user's entries matching keep, in default order.
func (m *memStore[T, P]) owned(userID primitive.ObjectID, keep func(P) bool) []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []T{}
	for i := range m.items {
		if P(&m.items[i]).Base().UserID == userID && (keep == nil || keep(P(&m.items[i]))) {
			out = append(out, m.items[i])
		}
	}
	if m.less != nil {
		sort.SliceStable(out, func(i, j int) bool { return m.less(P(&out[i]), P(&out[j])) })
	}
	return out
}

func (m *memStore[T, P]) List(_ context.Context, userID primitive.ObjectID, page repository.Page) ([]T, error) {
	all := m.owned(userID, nil)
	skip := int(page.Skip())
	if skip >= len(all) {
		return []T{}, nil
	}
	all = all[skip:]
	if page.Size > 0 && len(all) > page.Size {
		all = all[:page.Size]
	}
	return all, nil
}

func (m *memStore[T, P]) ListAll(_ context.Context, userID primitive.ObjectID) ([]T, error) {
	return m.owned(userID, nil), nil
}

func (m *memStore[T, P]) Recent(ctx context.Context, userID primitive.ObjectID, limit int) ([]T, error) {
	return m.List(ctx, userID, repository.Page{Number: 1, Size: limit})
}

func (m *memStore[T, P]) Count(_ context.Context, userID primitive.ObjectID) (int64, error) {
	return int64(len(m.owned(userID, nil))), nil
}

func (m *memStore[T, P]) DeleteAllForUser(_ context.Context, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	for _, it := range m.items {
		if P(&it).Base().UserID != userID {
			kept = append(kept, it)
		}
	}
	m.items = kept
	return nil
}

func inRange(d time.Time, r repository.DateRange) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// --- per-entity fakes ---

type fakeWeights struct {
	*memStore[domain.WeightEntry, *domain.WeightEntry]
}

func newFakeWeights() *fakeWeights {
	return &fakeWeights{newMemStore(
		func(a, b *domain.WeightEntry) bool { return a.Date.After(b.Date) },
		func(a, b *domain.WeightEntry) bool { return a.Date.Equal(b.Date) },
	)}
}

func (f *fakeWeights) ListRange(_ context.Context, userID primitive.ObjectID, r repository.DateRange) ([]domain.WeightEntry, error) {
	out := f.owned(userID, func(w *domain.WeightEntry) bool { return inRange(w.Date, r) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeWeights) LatestCreatedOn(_ context.Context, userID primitive.ObjectID, date time.Time) (*domain.WeightEntry, error) {
	out := f.owned(userID, func(w *domain.WeightEntry) bool { return w.Date.Equal(date) })
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return &out[0], nil
}

func (f *fakeWeights) Latest(_ context.Context, userID primitive.ObjectID) (*domain.WeightEntry, error) {
	out := f.owned(userID, nil)
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	return &out[0], nil
}

func (f *fakeWeights) Stats(_ context.Context, userID primitive.ObjectID) (repository.WeightStats, error) {
	out := f.owned(userID, nil)
	if len(out) == 0 {
		return repository.WeightStats{}, nil
	}
	sum := 0.0
	for _, w := range out {
		sum += w.WeightKg
	}
	return repository.WeightStats{
		Count:   int64(len(out)),
		Latest:  out[0].WeightKg,
		First:   out[len(out)-1].WeightKg,
		Average: sum / float64(len(out)),
	}, nil
}

type fakeExercises struct {
	*memStore[domain.Exercise, *domain.Exercise]
}

func newFakeExercises() *fakeExercises {
	return &fakeExercises{newMemStore[domain.Exercise, *domain.Exercise](
		func(a, b *domain.Exercise) bool { return a.Date.After(b.Date) }, nil)}
}

func (f *fakeExercises) ListRange(_ context.Context, userID primitive.ObjectID, r repository.DateRange) ([]domain.Exercise, error) {
	out := f.owned(userID, func(e *domain.Exercise) bool { return inRange(e.Date, r) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeExercises) Totals(_ context.Context, userID primitive.ObjectID, date *time.Time) (repository.ExerciseTotals, error) {
	var t repository.ExerciseTotals
	for _, e := range f.owned(userID, nil) {
		if date != nil && !e.Date.Equal(*date) {
			continue
		}
		t.Count++
		t.TotalDuration += int64(e.DurationMinutes)
		t.TotalCalories += int64(e.CaloriesBurned)
	}
	return t, nil
}

func (f *fakeExercises) DailyTotals(ctx context.Context, userID primitive.ObjectID, r repository.DateRange) ([]repository.DailyExerciseTotal, error) {
	entries, _ := f.ListRange(ctx, userID, r)
	out := []repository.DailyExerciseTotal{}
	for _, e := range entries {
		if n := len(out); n > 0 && out[n-1].Date.Equal(e.Date) {
			out[n-1].TotalDuration += int64(e.DurationMinutes)
			out[n-1].TotalCalories += int64(e.CaloriesBurned)
			continue
		}
		out = append(out, repository.DailyExerciseTotal{Date: e.Date, TotalDuration: int64(e.DurationMinutes), TotalCalories: int64(e.CaloriesBurned)})
	}
	return out, nil
}

type fakeNutrition struct {
	*memStore[domain.Nutrition, *domain.Nutrition]
}

func newFakeNutrition() *fakeNutrition {
	return &fakeNutrition{newMemStore[domain.Nutrition, *domain.Nutrition](
		func(a, b *domain.Nutrition) bool { return a.Date.After(b.Date) }, nil)}
}

func (f *fakeNutrition) ListRange(_ context.Context, userID primitive.ObjectID, r repository.DateRange) ([]domain.Nutrition, error) {
	out := f.owned(userID, func(n *domain.Nutrition) bool { return inRange(n.Date, r) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (f *fakeNutrition) TotalsOn(_ context.Context, userID primitive.ObjectID, date time.Time) (repository.NutritionTotals, error) {
	var t repository.NutritionTotals
	for _, n := range f.owned(userID, func(n *domain.Nutrition) bool { return n.Date.Equal(date) }) {
		t.Calories += int64(n.Calories)
		t.ProteinG += deref(n.ProteinG)
		t.CarbsG += deref(n.CarbsG)
		t.FatG += deref(n.FatG)
		t.FiberG += deref(n.FiberG)
	}
	return t, nil
}

func (f *fakeNutrition) DailyTotals(ctx context.Context, userID primitive.ObjectID, r repository.DateRange) ([]repository.DailyNutritionTotal, error) {
	entries, _ := f.ListRange(ctx, userID, r)
	out := []repository.DailyNutritionTotal{}
	for _, n := range entries {
		if len(out) == 0 || !out[len(out)-1].Date.Equal(n.Date) {
			out = append(out, repository.DailyNutritionTotal{Date: n.Date})
		}
		t := &out[len(out)-1].NutritionTotals
		t.Calories += int64(n.Calories)
		t.ProteinG += deref(n.ProteinG)
		t.CarbsG += deref(n.CarbsG)
		t.FatG += deref(n.FatG)
		t.FiberG += deref(n.FiberG)
	}
	return out, nil
}

type fakeSleep struct {
	*memStore[domain.Sleep, *domain.Sleep]
}

func newFakeSleep() *fakeSleep {
	return &fakeSleep{newMemStore[domain.Sleep, *domain.Sleep](
		func(a, b *domain.Sleep) bool { return a.SleepTime.After(b.SleepTime) }, nil)}
}

func (f *fakeSleep) Stats(_ context.Context, userID primitive.ObjectID) (repository.SleepStats, error) {
	out := f.owned(userID, nil)
	if len(out) == 0 {
		return repository.SleepStats{}, nil
	}
	var q, h float64
	for _, s := range out {
		q += float64(s.Quality)
		h += float64(int(s.WakeTime.Sub(s.SleepTime).Hours()*10+0.5)) / 10
	}
	n := float64(len(out))
	return repository.SleepStats{Count: int64(len(out)), AverageQuality: q / n, AverageHours: h / n}, nil
}

type fakeWater struct {
	*memStore[domain.WaterIntake, *domain.WaterIntake]
}

func newFakeWater() *fakeWater {
	return &fakeWater{newMemStore[domain.WaterIntake, *domain.WaterIntake](
		func(a, b *domain.WaterIntake) bool {
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
			return a.Time > b.Time
		}, nil)}
}

func (f *fakeWater) TotalOn(_ context.Context, userID primitive.ObjectID, date time.Time) (int64, error) {
	var total int64
	for _, w := range f.owned(userID, func(w *domain.WaterIntake) bool { return w.Date.Equal(date) }) {
		total += int64(w.AmountMl)
	}
	return total, nil
}

func (f *fakeWater) DailyTotals(_ context.Context, userID primitive.ObjectID, r repository.DateRange) ([]repository.DailyWaterTotal, error) {
	entries := f.owned(userID, func(w *domain.WaterIntake) bool { return inRange(w.Date, r) })
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	out := []repository.DailyWaterTotal{}
	for _, w := range entries {
		if n := len(out); n > 0 && out[n-1].Date.Equal(w.Date) {
			out[n-1].TotalAmount += int64(w.AmountMl)
			continue
		}
		out = append(out, repository.DailyWaterTotal{Date: w.Date, TotalAmount: int64(w.AmountMl)})
	}
	return out, nil
}

type fakeMoods struct {
	*memStore[domain.Mood, *domain.Mood]
}

func newFakeMoods() *fakeMoods {
	return &fakeMoods{newMemStore(
		func(a, b *domain.Mood) bool { return a.Date.After(b.Date) },
		func(a, b *domain.Mood) bool { return a.Date.Equal(b.Date) },
	)}
}

func (f *fakeMoods) GetOn(_ context.Context, userID primitive.ObjectID, date time.Time) (*domain.Mood, error) {
	out := f.owned(userID, func(m *domain.Mood) bool { return m.Date.Equal(date) })
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	return &out[0], nil
}

func (f *fakeMoods) Stats(_ context.Context, userID primitive.ObjectID) (repository.MoodStats, error) {
	out := f.owned(userID, nil)
	if len(out) == 0 {
		return repository.MoodStats{}, nil
	}
	sum := 0
	for _, m := range out {
		sum += int(m.Level)
	}
	return repository.MoodStats{Count: int64(len(out)), Average: float64(sum) / float64(len(out))}, nil
}

type fakeGoals struct {
	*memStore[domain.HealthGoal, *domain.HealthGoal]
}

func newFakeGoals() *fakeGoals {
	return &fakeGoals{newMemStore[domain.HealthGoal, *domain.HealthGoal](
		func(a, b *domain.HealthGoal) bool { return a.CreatedAt.After(b.CreatedAt) }, nil)}
}

func (f *fakeGoals) ListByStatus(_ context.Context, userID primitive.ObjectID, status domain.GoalStatus, limit int) ([]domain.HealthGoal, error) {
	out := f.owned(userID, func(g *domain.HealthGoal) bool { return g.Status == status })
	if status == domain.GoalActive {
		sort.SliceStable(out, func(i, j int) bool { return out[i].TargetDate.Before(out[j].TargetDate) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeMedications struct {
	*memStore[domain.Medication, *domain.Medication]
}

type fakeMetrics struct {
	*memStore[domain.HealthMetric, *domain.HealthMetric]
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.users {
		if other.Username == u.Username || (u.Email != "" && other.Email == u.Email) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	f.users[u.ID] = *u
	return u.ID, nil
}

func (f *fakeUsers) lookup(match func(domain.User) bool) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return f.lookup(func(u domain.User) bool { return u.Email == email })
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return f.lookup(func(u domain.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	return f.lookup(func(u domain.User) bool { return u.ID == id })
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]domain.Profile
}

func (f *fakeProfiles) GetOrCreate(_ context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		p = domain.Profile{ID: primitive.NewObjectID(), UserID: userID, ActivityLevel: domain.ActivitySedentary}
		f.profiles[userID] = p
	}
	return &p, nil
}

func (f *fakeProfiles) Update(_ context.Context, p *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[p.UserID]; !ok {
		return repository.ErrNotFound
	}
	f.profiles[p.UserID] = *p
	return nil
}

func (f *fakeProfiles) DeleteForUser(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, userID)
	return nil
}

type fakeExports struct {
	mu      sync.Mutex
	exports []domain.Export
}

func (f *fakeExports) Create(_ context.Context, e *domain.Export) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = epoch.Add(time.Duration(len(f.exports)) * time.Second)
	f.exports = append(f.exports, *e)
	return e.ID, nil
}

func (f *fakeExports) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Export, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Export{}
	for i := len(f.exports) - 1; i >= 0; i-- {
		if f.exports[i].UserID == userID {
			out = append(out, f.exports[i])
		}
	}
	return out, nil
}

func (f *fakeExports) DeleteAllForUser(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.exports[:0]
	for _, e := range f.exports {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	f.exports = kept
	return nil
}

// fakeStorage keeps uploaded objects in memory.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage { return &fakeStorage{objects: map[string][]byte{}} }

func (f *fakeStorage) PutObject(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = buf.Bytes()
	return nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", key, int(expires.Seconds())), nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

type fixture struct {
	repos   Repositories
	weights *fakeWeights
	moods   *fakeMoods
	goals   *fakeGoals
	users   *fakeUsers
	exports *fakeExports
	store   *fakeStorage
	clock   Clock
	userID  primitive.ObjectID
}

// fixedNow is 2024-03-10 08:30 UTC.
var fixedNow = time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		weights: newFakeWeights(),
		moods:   newFakeMoods(),
		goals:   newFakeGoals(),
		users:   &fakeUsers{users: map[primitive.ObjectID]domain.User{}},
		exports: &fakeExports{},
		store:   newFakeStorage(),
		clock:   Clock{Now: func() time.Time { return fixedNow }, Location: time.UTC},
		userID:  primitive.NewObjectID(),
	}
	f.repos = Repositories{
		Users:     f.users,
		Profiles:  &fakeProfiles{profiles: map[primitive.ObjectID]domain.Profile{}},
		Weights:   f.weights,
		Exercises: newFakeExercises(),
		Nutrition: newFakeNutrition(),
		Sleep:     newFakeSleep(),
		Water:     newFakeWater(),
		Moods:     f.moods,
		Goals:     f.goals,
		Medications: &fakeMedications{newMemStore[domain.Medication, *domain.Medication](
			func(a, b *domain.Medication) bool { return a.CreatedAt.After(b.CreatedAt) }, nil)},
		Metrics: &fakeMetrics{newMemStore[domain.HealthMetric, *domain.HealthMetric](
			func(a, b *domain.HealthMetric) bool { return a.Date.After(b.Date) }, nil)},
		Exports: f.exports,
	}
	f.users.users[f.userID] = domain.User{ID: f.userID, Username: "alice", Email: "alice@example.com"}
	return f
}

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }
