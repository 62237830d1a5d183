package api

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
	accountService service.AccountService
}

func NewProfileHandler(profileService service.ProfileService, accountService service.AccountService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, accountService: accountService}
}

type ProfileResponse struct {
	User          UserResponse         `json:"user"`
	DateOfBirth   *string              `json:"date_of_birth"`
	Gender        domain.Gender        `json:"gender"`
	Height        *float64             `json:"height"`
	ActivityLevel domain.ActivityLevel `json:"activity_level"`
	Age           *int                 `json:"age"`

	TotalWeightEntries    int64 `json:"total_weight_entries"`
	TotalExercises        int64 `json:"total_exercises"`
	TotalNutritionEntries int64 `json:"total_nutrition_entries"`
	TotalSleepEntries     int64 `json:"total_sleep_entries"`
	TotalGoals            int64 `json:"total_goals"`

	LatestWeight *float64 `json:"latest_weight"`
	BMI          *float64 `json:"bmi"`
	BMR          *int     `json:"bmr"`
}

func MapProfileToResponse(p *service.ProfileOverview) ProfileResponse {
	resp := ProfileResponse{
		User:                  MapUserToResponse(p.User),
		Gender:                p.Profile.Gender,
		Height:                p.Profile.HeightCm,
		ActivityLevel:         p.Profile.ActivityLevel,
		Age:                   p.Age,
		TotalWeightEntries:    p.TotalWeightEntries,
		TotalExercises:        p.TotalExercises,
		TotalNutritionEntries: p.TotalNutritionEntries,
		TotalSleepEntries:     p.TotalSleepEntries,
		TotalGoals:            p.TotalGoals,
		LatestWeight:          p.LatestWeightKg,
		BMI:                   p.BMI,
		BMR:                   p.BMR,
	}
	if p.Profile.DateOfBirth != nil {
		dob := domain.FormatDate(*p.Profile.DateOfBirth)
		resp.DateOfBirth = &dob
	}
	return resp
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(p))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.ProfileInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.profileService.Update(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(p))
}

// DeleteAccount removes the caller's account and every record it owns.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.accountService.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your account has been deleted.", "redirect": "/"})
}
