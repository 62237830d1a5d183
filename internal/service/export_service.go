package service

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrExportsDisabled = errors.New("exports are not available: object storage is not configured")

const exportContentType = "application/json"

// ExportDocument is the JSON written to object storage.
type ExportDocument struct {
	GeneratedAt   time.Time             `json:"generated_at"`
	User          *domain.User          `json:"user"`
	Profile       *domain.Profile       `json:"profile"`
	Weights       []domain.WeightEntry  `json:"weights"`
	Exercises     []domain.Exercise     `json:"exercises"`
	Nutrition     []domain.Nutrition    `json:"nutrition"`
	Sleep         []domain.Sleep        `json:"sleep"`
	Water         []domain.WaterIntake  `json:"water"`
	Moods         []domain.Mood         `json:"moods"`
	Goals         []domain.HealthGoal   `json:"goals"`
	Medications   []domain.Medication   `json:"medications"`
	HealthMetrics []domain.HealthMetric `json:"health_metrics"`
}

// ExportLink is an export with a freshly presigned download URL.
type ExportLink struct {
	Export      domain.Export
	DownloadURL string
}

type ExportService interface {
	Create(ctx context.Context, userID primitive.ObjectID) (*ExportLink, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]ExportLink, error)
}

type exportService struct {
	repos     Repositories
	store     storage.FileStorage
	enabled   bool
	urlExpiry time.Duration
	clock     Clock
	log       zerolog.Logger
}

// NewExportService builds the export service. With enabled false every call
// fails with ErrExportsDisabled.
func NewExportService(repos Repositories, store storage.FileStorage, enabled bool, urlExpiry time.Duration, clock Clock, log zerolog.Logger) ExportService {
	return &exportService{
		repos:     repos,
		store:     store,
		enabled:   enabled,
		urlExpiry: urlExpiry,
		clock:     clock,
		log:       log,
	}
}

func (s *exportService) Create(ctx context.Context, userID primitive.ObjectID) (*ExportLink, error) {
	if !s.enabled {
		return nil, ErrExportsDisabled
	}

	doc, err := s.collect(ctx, userID)
	if err != nil {
		exportsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		exportsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", userID.Hex(), uuid.NewString())
	if err := s.store.PutObject(ctx, key, exportContentType, bytes.NewReader(body), int64(len(body))); err != nil {
		exportsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("upload export: %w", err)
	}

	exp := &domain.Export{
		UserID:      userID,
		S3ObjectKey: key,
		FileName:    fmt.Sprintf("health-export-%s.json", domain.FormatDate(s.clock.Today())),
		ContentType: exportContentType,
		Size:        int64(len(body)),
	}
	if _, err := s.repos.Exports.Create(ctx, exp); err != nil {
		exportsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("record export: %w", err)
	}

	url, err := s.store.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}
	exportsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("user_id", userID.Hex()).Str("key", key).Int64("size", exp.Size).Msg("export written")
	return &ExportLink{Export: *exp, DownloadURL: url}, nil
}

func (s *exportService) List(ctx context.Context, userID primitive.ObjectID) ([]ExportLink, error) {
	if !s.enabled {
		return nil, ErrExportsDisabled
	}
	exports, err := s.repos.Exports.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	links := make([]ExportLink, 0, len(exports))
	for _, exp := range exports {
		url, err := s.store.GeneratePresignedDownloadURL(ctx, exp.S3ObjectKey, s.urlExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign export: %w", err)
		}
		links = append(links, ExportLink{Export: exp, DownloadURL: url})
	}
	return links, nil
}

func (s *exportService) collect(ctx context.Context, userID primitive.ObjectID) (*ExportDocument, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	user.PasswordHash = ""
	profile, err := s.repos.Profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	doc := &ExportDocument{GeneratedAt: s.clock.Now().UTC(), User: user, Profile: profile}
	if doc.Weights, err = s.repos.Weights.ListAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("export weights: %w", err)
	}
	if doc.Exercises, err = s.repos.Exercises.ListAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("export exercises: %w", err)
	}
	if doc.Nutrition, err = s.repos.Nutrition.ListAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("export nutrition: %w", err)
	}
	if doc.Sleep, err = s.repos.Sleep.ListAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("export sleep: %w", err)
	}
	if doc.Water, err = s.repos.Water.ListAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("export water: %w", err)
	}
	if doc.Moods, err = s.repos.Moods.ListAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("export moods: %w", err)
	}
	if doc.Goals, err = s.repos.Goals.ListAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("export goals: %w", err)
	}
	if doc.Medications, err = s.repos.Medications.ListAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("export medications: %w", err)
	}
	if doc.HealthMetrics, err = s.repos.Metrics.ListAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("export health metrics: %w", err)
	}
	return doc, nil
}
