package service

import (
	"alcyxob/health-tracker/internal/calc"
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileOverview is the profile with entry counts and the body metrics
// derived from the most recent weight by date.
type ProfileOverview struct {
	User    *domain.User
	Profile *domain.Profile
	Age     *int

	TotalWeightEntries    int64
	TotalExercises        int64
	TotalNutritionEntries int64
	TotalSleepEntries     int64
	TotalGoals            int64

	LatestWeightKg *float64
	BMI            *float64
	BMR            *int
}

type ProfileService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*ProfileOverview, error)
	Update(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*ProfileOverview, error)
}

type profileService struct {
	repos Repositories
	clock Clock
}

func NewProfileService(repos Repositories, clock Clock) ProfileService {
	return &profileService{repos: repos, clock: clock}
}

func (s *profileService) Get(ctx context.Context, userID primitive.ObjectID) (*ProfileOverview, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	user.PasswordHash = ""

	profile, err := s.repos.Profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	out := &ProfileOverview{User: user, Profile: profile}
	if age, ok := calc.Age(profile.DateOfBirth, s.clock.Today()); ok {
		out.Age = &age
	}

	counts := []struct {
		dst   *int64
		count func(context.Context, primitive.ObjectID) (int64, error)
	}{
		{&out.TotalWeightEntries, s.repos.Weights.Count},
		{&out.TotalExercises, s.repos.Exercises.Count},
		{&out.TotalNutritionEntries, s.repos.Nutrition.Count},
		{&out.TotalSleepEntries, s.repos.Sleep.Count},
		{&out.TotalGoals, s.repos.Goals.Count},
	}
	for _, c := range counts {
		n, err := c.count(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("count entries: %w", err)
		}
		*c.dst = n
	}

	latest, err := s.repos.Weights.Latest(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return out, nil
	case err != nil:
		return nil, fmt.Errorf("latest weight: %w", err)
	}

	out.LatestWeightKg = &latest.WeightKg
	if profile.HeightCm != nil {
		if bmi, ok := calc.BMI(*profile.HeightCm, latest.WeightKg); ok {
			out.BMI = &bmi
		}
	}
	if out.Age != nil && profile.HeightCm != nil {
		if bmr, ok := calc.BMR(latest.WeightKg, *profile.HeightCm, *out.Age, profile.Gender); ok {
			out.BMR = &bmr
		}
	}
	return out, nil
}

func (s *profileService) Update(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*ProfileOverview, error) {
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	profile, err := s.repos.Profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	profile.DateOfBirth = optionalDate(in.DateOfBirth)
	profile.Gender = in.Gender
	profile.HeightCm = roundPtr(in.HeightCm, 2)
	profile.ActivityLevel = in.ActivityLevel
	if err := s.repos.Profiles.Update(ctx, profile); err != nil {
		return nil, storeError(err)
	}
	return s.Get(ctx, userID)
}
