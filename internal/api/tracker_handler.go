package api

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"alcyxob/health-tracker/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackerHandler serves the per-entity list/create pages, quick add and
// the generic edit and delete routes.
type TrackerHandler struct {
	trackerService service.TrackerService
	clock          service.Clock
}

func NewTrackerHandler(trackerService service.TrackerService, clock service.Clock) *TrackerHandler {
	return &TrackerHandler{trackerService: trackerService, clock: clock}
}

// parsePage reads ?page=; anything non-numeric is page 1. The service
// clamps out-of-range numbers.
func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 1
	}
	return page
}

type WeightStatsResponse struct {
	Latest  *float64 `json:"latest_weight"`
	First   *float64 `json:"first_weight"`
	Change  *float64 `json:"weight_change"`
	Average *float64 `json:"avg_weight"`
}

func (h *TrackerHandler) ListWeight(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, err := h.trackerService.WeightPage(c.Request.Context(), userID, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":    mapAll(page.Items, MapWeightToResponse),
		"pagination": page.Pagination,
		"stats": WeightStatsResponse{
			Latest:  page.Latest,
			First:   page.First,
			Change:  page.Change,
			Average: page.Average,
		},
	})
}

func (h *TrackerHandler) CreateWeight(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.WeightInput
	if !bindJSON(c, &req) {
		return
	}
	w, err := h.trackerService.AddWeight(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWeightToResponse(w))
}

func (h *TrackerHandler) ListExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, err := h.trackerService.ExercisePage(c.Request.Context(), userID, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":         mapAll(page.Items, MapExerciseToResponse),
		"pagination":      page.Pagination,
		"total_exercises": page.TotalExercises,
		"total_calories":  page.TotalCalories,
		"total_duration":  page.TotalDuration,
	})
}

func (h *TrackerHandler) CreateExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.ExerciseInput
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.trackerService.AddExercise(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(e))
}

type NutritionTotalsResponse struct {
	Calories int64   `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

func mapNutritionTotals(t repository.NutritionTotals) NutritionTotalsResponse {
	return NutritionTotalsResponse{
		Calories: t.Calories,
		Protein:  t.ProteinG,
		Carbs:    t.CarbsG,
		Fat:      t.FatG,
		Fiber:    t.FiberG,
	}
}

func (h *TrackerHandler) ListNutrition(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, err := h.trackerService.NutritionPage(c.Request.Context(), userID, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":      mapAll(page.Items, MapNutritionToResponse),
		"pagination":   page.Pagination,
		"today_totals": mapNutritionTotals(page.Today),
	})
}

func (h *TrackerHandler) CreateNutrition(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.NutritionInput
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.trackerService.AddNutrition(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapNutritionToResponse(n))
}

func (h *TrackerHandler) ListSleep(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, err := h.trackerService.SleepPage(c.Request.Context(), userID, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":       mapAll(page.Items, MapSleepToResponse),
		"pagination":    page.Pagination,
		"total_entries": page.TotalEntries,
		"avg_quality":   page.AverageQuality,
		"avg_duration":  page.AverageDuration,
	})
}

func (h *TrackerHandler) CreateSleep(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.SleepInput
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.trackerService.AddSleep(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSleepToResponse(s))
}

func (h *TrackerHandler) ListWater(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, err := h.trackerService.WaterPage(c.Request.Context(), userID, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":     mapAll(page.Items, MapWaterToResponse),
		"pagination":  page.Pagination,
		"today_total": page.TodayTotal,
	})
}

func (h *TrackerHandler) CreateWater(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.WaterInput
	if !bindJSON(c, &req) {
		return
	}
	w, err := h.trackerService.AddWater(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWaterToResponse(w))
}

func (h *TrackerHandler) ListMood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, err := h.trackerService.MoodPage(c.Request.Context(), userID, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":       mapAll(page.Items, MapMoodToResponse),
		"pagination":    page.Pagination,
		"total_entries": page.TotalEntries,
		"avg_mood":      page.Average,
	})
}

func (h *TrackerHandler) CreateMood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.MoodInput
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.trackerService.AddMood(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapMoodToResponse(m))
}

func (h *TrackerHandler) ListGoals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	board, err := h.trackerService.Goals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	today := h.clock.Today()
	mapGoal := func(g *domain.HealthGoal) GoalResponse { return MapGoalToResponse(g, today) }
	c.JSON(http.StatusOK, gin.H{
		"active_goals":    mapAll(board.Active, mapGoal),
		"completed_goals": mapAll(board.Completed, mapGoal),
		"paused_goals":    mapAll(board.Paused, mapGoal),
	})
}

func (h *TrackerHandler) CreateGoal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.GoalInput
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.trackerService.AddGoal(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapGoalToResponse(g, h.clock.Today()))
}

func (h *TrackerHandler) ListMedications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, err := h.trackerService.MedicationPage(c.Request.Context(), userID, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":    mapAll(page.Items, MapMedicationToResponse),
		"pagination": page.Pagination,
	})
}

func (h *TrackerHandler) CreateMedication(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.MedicationInput
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.trackerService.AddMedication(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapMedicationToResponse(m))
}

func (h *TrackerHandler) ListHealthMetrics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, err := h.trackerService.HealthMetricPage(c.Request.Context(), userID, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":    mapAll(page.Items, MapHealthMetricToResponse),
		"pagination": page.Pagination,
	})
}

func (h *TrackerHandler) CreateHealthMetric(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.HealthMetricInput
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.trackerService.AddHealthMetric(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapHealthMetricToResponse(m))
}

// quickAddActions are the entry types quick add accepts.
var quickAddActions = []domain.EntryKind{domain.KindWeight, domain.KindExercise, domain.KindNutrition, domain.KindWater, domain.KindMood}

func (h *TrackerHandler) QuickAddForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"action_types": quickAddActions})
}

func (h *TrackerHandler) QuickAdd(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.QuickAddInput
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.trackerService.QuickAdd(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapEntryToResponse(e, h.clock.Today()))
}

// entryTarget resolves the :kind and :id path parameters. An unparseable id
// cannot match any entry, so it is reported as not found.
func entryTarget(c *gin.Context) (domain.EntryKind, primitive.ObjectID, bool) {
	kind, ok := domain.ParseEntryKind(c.Param("kind"))
	if !ok {
		respondError(c, service.ErrUnknownKind)
		return "", primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return "", primitive.NilObjectID, false
	}
	return kind, id, true
}

func (h *TrackerHandler) GetEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	kind, id, ok := entryTarget(c)
	if !ok {
		return
	}
	e, err := h.trackerService.GetEntry(c.Request.Context(), userID, kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapEntryToResponse(e, h.clock.Today()))
}

func (h *TrackerHandler) UpdateEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	kind, id, ok := entryTarget(c)
	if !ok {
		return
	}
	in, _ := service.NewEntryInput(kind)
	if !bindJSON(c, in) {
		return
	}
	e, err := h.trackerService.UpdateEntry(c.Request.Context(), userID, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapEntryToResponse(e, h.clock.Today()))
}

func (h *TrackerHandler) DeleteEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	kind, id, ok := entryTarget(c)
	if !ok {
		return
	}
	if err := h.trackerService.DeleteEntry(c.Request.Context(), userID, kind, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully.", "redirect": dashboardPath})
}
