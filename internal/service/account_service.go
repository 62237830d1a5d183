package service

import (
	"alcyxob/health-tracker/internal/storage"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountService removes an account together with everything it owns.
type AccountService interface {
	DeleteAccount(ctx context.Context, userID primitive.ObjectID) error
}

type accountService struct {
	repos Repositories
	store storage.FileStorage
	log   zerolog.Logger
}

func NewAccountService(repos Repositories, store storage.FileStorage, log zerolog.Logger) AccountService {
	return &accountService{repos: repos, store: store, log: log}
}

// DeleteAccount deletes every entry, the profile and finally the user.
// Export objects that cannot be removed from storage are logged and left
// behind; their metadata is still deleted.
func (s *accountService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	exports, err := s.repos.Exports.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list exports: %w", err)
	}
	for _, exp := range exports {
		if err := s.store.DeleteObject(ctx, exp.S3ObjectKey); err != nil && !errors.Is(err, storage.ErrDisabled) {
			s.log.Warn().Err(err).Str("key", exp.S3ObjectKey).Msg("export object not deleted")
		}
	}

	steps := []struct {
		name string
		run  func(context.Context, primitive.ObjectID) error
	}{
		{"exports", s.repos.Exports.DeleteAllForUser},
		{"weights", s.repos.Weights.DeleteAllForUser},
		{"exercises", s.repos.Exercises.DeleteAllForUser},
		{"nutrition", s.repos.Nutrition.DeleteAllForUser},
		{"sleep", s.repos.Sleep.DeleteAllForUser},
		{"water", s.repos.Water.DeleteAllForUser},
		{"moods", s.repos.Moods.DeleteAllForUser},
		{"goals", s.repos.Goals.DeleteAllForUser},
		{"medications", s.repos.Medications.DeleteAllForUser},
		{"health metrics", s.repos.Metrics.DeleteAllForUser},
		{"profile", s.repos.Profiles.DeleteForUser},
	}
	for _, step := range steps {
		if err := step.run(ctx, userID); err != nil {
			return fmt.Errorf("delete %s: %w", step.name, err)
		}
	}

	if err := s.repos.Users.Delete(ctx, userID); err != nil {
		return storeError(err)
	}
	s.log.Info().Str("user_id", userID.Hex()).Msg("account deleted")
	return nil
}
