package api

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"alcyxob/health-tracker/internal/service"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

var testToday = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

// Stubs embed the service interface; calling a method a test did not
// override panics, which the recovery middleware reports as a 500.

type stubTracker struct {
	service.TrackerService
	weightPage func(page int) (*service.WeightPage, error)
	addWeight  func(in service.WeightInput) (*domain.WeightEntry, error)
	quickAdd   func(in service.QuickAddInput) (domain.Entry, error)
	update     func(id primitive.ObjectID, in service.EntryInput) (domain.Entry, error)
	deleted    []primitive.ObjectID
}

func (s *stubTracker) WeightPage(_ context.Context, _ primitive.ObjectID, page int) (*service.WeightPage, error) {
	return s.weightPage(page)
}

func (s *stubTracker) AddWeight(_ context.Context, _ primitive.ObjectID, in service.WeightInput) (*domain.WeightEntry, error) {
	return s.addWeight(in)
}

func (s *stubTracker) QuickAdd(_ context.Context, _ primitive.ObjectID, in service.QuickAddInput) (domain.Entry, error) {
	return s.quickAdd(in)
}

func (s *stubTracker) UpdateEntry(_ context.Context, _ primitive.ObjectID, id primitive.ObjectID, in service.EntryInput) (domain.Entry, error) {
	return s.update(id, in)
}

func (s *stubTracker) DeleteEntry(_ context.Context, _ primitive.ObjectID, _ domain.EntryKind, id primitive.ObjectID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubAuth struct {
	service.AuthService
	err     error
	removed map[primitive.ObjectID]bool
}

func (s *stubAuth) Authenticate(_ context.Context, userID primitive.ObjectID) (*domain.User, error) {
	if s.removed[userID] {
		return nil, service.ErrAuthenticationFailed
	}
	return &domain.User{ID: userID, Username: "alice"}, nil
}

// stubAccount removes the user from stubAuth, the way the real cascade
// deletes the user document.
type stubAccount struct {
	auth *stubAuth
}

func (s stubAccount) DeleteAccount(_ context.Context, userID primitive.ObjectID) error {
	s.auth.removed[userID] = true
	return nil
}

func (s *stubAuth) Register(_ context.Context, in service.RegisterInput) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: primitive.NewObjectID(), Username: in.Username, Email: in.Email}, nil
}

func (s *stubAuth) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, service.ErrAuthenticationFailed
}

type stubAnalytics struct {
	service.AnalyticsService
	days int
}

func (s *stubAnalytics) Analytics(_ context.Context, _ primitive.ObjectID, days int) (*service.Analytics, error) {
	s.days = days
	return &service.Analytics{
		Days:  days,
		Start: testToday.AddDate(0, 0, -days),
		Today: testToday,
		NutritionDaily: []repository.DailyNutritionTotal{
			{Date: testToday, NutritionTotals: repository.NutritionTotals{Calories: 1200, ProteinG: 55.5}},
		},
	}, nil
}

func (s *stubAnalytics) ChartData(_ context.Context, _ primitive.ObjectID, days int) (*service.ChartData, error) {
	s.days = days
	return &service.ChartData{
		Weight: []service.WeightPoint{{Date: testToday, WeightKg: 70.5}},
		Exercise: []repository.DailyExerciseTotal{
			{Date: testToday, TotalDuration: 45, TotalCalories: 400},
		},
		Water: []repository.DailyWaterTotal{},
	}, nil
}

type stubExport struct {
	service.ExportService
}

func (stubExport) Create(context.Context, primitive.ObjectID) (*service.ExportLink, error) {
	return nil, service.ErrExportsDisabled
}

type testServer struct {
	router    *gin.Engine
	tracker   *stubTracker
	auth      *stubAuth
	analytics *stubAnalytics
	userID    primitive.ObjectID
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	ts := &testServer{
		router:    gin.New(),
		tracker:   &stubTracker{},
		auth:      &stubAuth{removed: map[primitive.ObjectID]bool{}},
		analytics: &stubAnalytics{},
		userID:    primitive.NewObjectID(),
	}
	ts.router.Use(RequestLogger(zerolog.Nop()), Recovery(), Metrics())
	SetupRoutes(ts.router, testSecret, Services{
		Auth:      ts.auth,
		Tracker:   ts.tracker,
		Account:   stubAccount{auth: ts.auth},
		Analytics: ts.analytics,
		Export:    stubExport{},
		Clock:     service.Clock{Now: func() time.Time { return testToday.Add(9 * time.Hour) }, Location: time.UTC},
	})
	return ts
}

func signToken(t *testing.T, userID primitive.ObjectID, expires time.Time) string {
	t.Helper()
	claims := &service.Claims{
		UserID:           userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expires)},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, body string, authed bool) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+signToken(t, ts.userID, time.Now().Add(time.Hour)))
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestPing(t *testing.T) {
	ts := newTestServer()
	w, body := ts.do(t, http.MethodGet, "/ping", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", body["message"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer()

	w, body := ts.do(t, http.MethodGet, "/weight/", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authorization header is missing", body["error"])

	req := httptest.NewRequest(http.MethodGet, "/weight/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, ts.userID, time.Now().Add(-time.Minute)))
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired")

	req = httptest.NewRequest(http.MethodGet, "/weight/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeletedAccountTokenRejected(t *testing.T) {
	ts := newTestServer()
	ts.tracker.addWeight = func(in service.WeightInput) (*domain.WeightEntry, error) {
		t.Fatal("entry written for a deleted account")
		return nil, nil
	}

	w, body := ts.do(t, http.MethodPost, "/account/delete/", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/", body["redirect"])

	w, body = ts.do(t, http.MethodPost, "/weight/", `{"weight":70}`, true)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User no longer exists", body["error"])

	w, _ = ts.do(t, http.MethodGet, "/", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIndex(t *testing.T) {
	ts := newTestServer()

	w, body := ts.do(t, http.MethodGet, "/", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/register/", body["register"])

	w, _ = ts.do(t, http.MethodGet, "/", "", true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard/", w.Header().Get("Location"))
}

func TestListWeight(t *testing.T) {
	ts := newTestServer()
	var requested int
	ts.tracker.weightPage = func(page int) (*service.WeightPage, error) {
		requested = page
		latest, first, change, avg := 70.0, 72.0, -2.0, 71.0
		return &service.WeightPage{
			Paginated: service.Paginated[domain.WeightEntry]{
				Items:      []domain.WeightEntry{{Record: domain.Record{ID: primitive.NewObjectID()}, WeightKg: 70, Date: testToday}},
				Pagination: service.Pagination{Page: 1, PageSize: service.PageSize, TotalPages: 1, TotalItems: 1},
			},
			Latest: &latest, First: &first, Change: &change, Average: &avg,
		}, nil
	}

	w, body := ts.do(t, http.MethodGet, "/weight/?page=abc", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, requested)

	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	entry := results[0].(map[string]interface{})
	assert.Equal(t, 70.0, entry["weight"])
	assert.Equal(t, "2024-03-10", entry["date"])

	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, -2.0, stats["weight_change"])
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, 20.0, pagination["page_size"])

	_, _ = ts.do(t, http.MethodGet, "/weight/?page=3", "", true)
	assert.Equal(t, 3, requested)
}

func TestCreateWeight(t *testing.T) {
	ts := newTestServer()
	ts.tracker.addWeight = func(in service.WeightInput) (*domain.WeightEntry, error) {
		if in.WeightKg < 20 {
			return nil, &service.ValidationError{Fields: map[string]string{"weight": "Ensure this value is greater than or equal to 20."}}
		}
		return &domain.WeightEntry{Record: domain.Record{ID: primitive.NewObjectID(), Notes: in.Notes}, WeightKg: in.WeightKg, Date: testToday}, nil
	}

	w, body := ts.do(t, http.MethodPost, "/weight/", `{"weight": 71.2, "notes": "ok"}`, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 71.2, body["weight"])
	assert.Equal(t, "ok", body["notes"])

	w, body = ts.do(t, http.MethodPost, "/weight/", `{"weight": 5}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := body["fields"].(map[string]interface{})
	assert.Equal(t, "Ensure this value is greater than or equal to 20.", fields["weight"])

	w, _ = ts.do(t, http.MethodPost, "/weight/", `{"weight": "heavy"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuickAddParseError(t *testing.T) {
	ts := newTestServer()
	ts.tracker.quickAdd = func(service.QuickAddInput) (domain.Entry, error) {
		return nil, service.ErrParse
	}

	w, body := ts.do(t, http.MethodPost, "/quick-add/", `{"action_type": "water", "value": "lots"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid value format", body["error"])
}

func TestQuickAddCreates(t *testing.T) {
	ts := newTestServer()
	ts.tracker.quickAdd = func(in service.QuickAddInput) (domain.Entry, error) {
		return &domain.WaterIntake{Record: domain.Record{ID: primitive.NewObjectID()}, AmountMl: 500, Date: testToday, Time: "09:00:00"}, nil
	}

	w, body := ts.do(t, http.MethodPost, "/quick-add/", `{"action_type": "water", "value": "500"}`, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "water", body["entry_type"])
	entry := body["entry"].(map[string]interface{})
	assert.Equal(t, 500.0, entry["amount"])
	assert.Equal(t, "09:00:00", entry["time"])
}

func TestEditEntry(t *testing.T) {
	ts := newTestServer()
	id := primitive.NewObjectID()
	ts.tracker.update = func(got primitive.ObjectID, in service.EntryInput) (domain.Entry, error) {
		if got != id {
			return nil, service.ErrNotFound
		}
		mood, ok := in.(*service.MoodInput)
		require.True(t, ok)
		return &domain.Mood{Record: domain.Record{ID: id}, Level: mood.Level, Date: testToday}, nil
	}

	w, body := ts.do(t, http.MethodPost, "/edit/mood/"+id.Hex()+"/", `{"mood": 4}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	entry := body["entry"].(map[string]interface{})
	assert.Equal(t, "Happy", entry["mood_label"])

	w, _ = ts.do(t, http.MethodPost, "/edit/mood/"+primitive.NewObjectID().Hex()+"/", `{"mood": 4}`, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/edit/mood/not-an-id/", `{"mood": 4}`, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = ts.do(t, http.MethodPost, "/edit/steps/"+id.Hex()+"/", `{}`, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/dashboard/", body["redirect"])
}

func TestDeleteEntry(t *testing.T) {
	ts := newTestServer()
	id := primitive.NewObjectID()

	w, body := ts.do(t, http.MethodPost, "/delete/goal/"+id.Hex()+"/", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/dashboard/", body["redirect"])
	assert.Equal(t, []primitive.ObjectID{id}, ts.tracker.deleted)
}

func TestAnalyticsNutritionDaily(t *testing.T) {
	ts := newTestServer()

	w, body := ts.do(t, http.MethodGet, "/analytics/?days=7", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, ts.analytics.days)
	assert.Equal(t, "2024-03-03", body["start_date"])
	assert.Nil(t, body["weight_change"])

	days, ok := body["nutrition_daily"].([]interface{})
	require.True(t, ok)
	require.Len(t, days, 1)
	assert.Equal(t, map[string]interface{}{
		"date": "2024-03-10", "calories": 1200.0, "protein": 55.5, "carbs": 0.0, "fat": 0.0, "fiber": 0.0,
	}, days[0])
}

func TestChartData(t *testing.T) {
	ts := newTestServer()

	w, body := ts.do(t, http.MethodGet, "/api/chart-data/?days=soon", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.DefaultDays, ts.analytics.days)

	weights := body["weight_data"].([]interface{})
	require.Len(t, weights, 1)
	assert.Equal(t, map[string]interface{}{"date": "2024-03-10", "weight": 70.5}, weights[0])

	exercise := body["exercise_data"].([]interface{})
	assert.Equal(t, map[string]interface{}{"date": "2024-03-10", "total_duration": 45.0, "total_calories": 400.0}, exercise[0])
	assert.Empty(t, body["water_data"])

	_, _ = ts.do(t, http.MethodGet, "/api/chart-data/?days=7", "", true)
	assert.Equal(t, 7, ts.analytics.days)
}

func TestRegisterConflictAndLoginFailure(t *testing.T) {
	ts := newTestServer()

	w, body := ts.do(t, http.MethodPost, "/register/", `{"username": "bob", "email": "bob@example.com"}`, false)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "bob", body["username"])

	ts.auth.err = service.ErrUserAlreadyExists
	w, _ = ts.do(t, http.MethodPost, "/register/", `{"username": "bob"}`, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/login/", `{"username": "bob", "password": "nope"}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/login/", `{"username": "bob"}`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportDisabled(t *testing.T) {
	ts := newTestServer()
	w, _ := ts.do(t, http.MethodPost, "/export/", "", true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnexpectedErrorIsGeneric(t *testing.T) {
	ts := newTestServer()
	ts.tracker.weightPage = func(int) (*service.WeightPage, error) {
		return nil, errors.New("connection reset by peer")
	}

	w, body := ts.do(t, http.MethodGet, "/weight/", "", true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An unexpected error occurred", body["error"])
}

func TestPanicRecovered(t *testing.T) {
	ts := newTestServer()
	// no stub for sleep pages: the embedded nil interface panics
	w, body := ts.do(t, http.MethodGet, "/sleep/", "", true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", body["error"])
}
