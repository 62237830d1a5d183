package main

import (
	"alcyxob/health-tracker/internal/api"
	"alcyxob/health-tracker/internal/config"
	"alcyxob/health-tracker/internal/logger"
	"alcyxob/health-tracker/internal/repository/mongo"
	"alcyxob/health-tracker/internal/service"
	"alcyxob/health-tracker/internal/storage"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const serviceName = "health-tracker"

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "healthtracker",
		Short: "Personal health tracking API server",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "Directory containing config.yaml")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  func(cmd *cobra.Command, args []string) error { return runServe() },
	}
	indexesCmd := &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE:  func(cmd *cobra.Command, args []string) error { return runIndexes() },
	}
	rootCmd.AddCommand(serveCmd, indexesCmd)
	rootCmd.RunE = serveCmd.RunE

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads and validates the configuration and builds the logger.
func bootstrap() (config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, zerolog.Nop(), fmt.Errorf("invalid config: %w", err)
	}
	return cfg, logger.New(serviceName, cfg.Log), nil
}

func runIndexes() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer mongo.DisconnectDB(dbClient)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := mongo.EnsureIndexes(ctx, dbClient.Database(cfg.Database.Name)); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Database.Name).Msg("indexes ensured")
	return nil
}

func runServe() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	log.Info().Str("address", cfg.Server.Address).Str("mode", cfg.Server.Mode).Msg("starting server")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		log.Info().Msg("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), time.Minute)
	err = mongo.EnsureIndexes(indexCtx, appDB)
	cancelIndexes()
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	log.Info().Msg("database ready")

	// --- Initialize Storage ---
	fileStorage := storage.Disabled()
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, log)
		if err != nil {
			return fmt.Errorf("initialize S3 storage: %w", err)
		}
	} else {
		log.Warn().Msg("s3.bucket_name not set, exports disabled")
	}

	// --- Initialize Repositories ---
	repos := service.Repositories{
		Users:       mongo.NewMongoUserRepository(appDB),
		Profiles:    mongo.NewMongoProfileRepository(appDB),
		Weights:     mongo.NewMongoWeightRepository(appDB),
		Exercises:   mongo.NewMongoExerciseRepository(appDB),
		Nutrition:   mongo.NewMongoNutritionRepository(appDB),
		Sleep:       mongo.NewMongoSleepRepository(appDB),
		Water:       mongo.NewMongoWaterRepository(appDB),
		Moods:       mongo.NewMongoMoodRepository(appDB),
		Goals:       mongo.NewMongoGoalRepository(appDB),
		Medications: mongo.NewMongoMedicationRepository(appDB),
		Metrics:     mongo.NewMongoHealthMetricRepository(appDB),
		Exports:     mongo.NewMongoExportRepository(appDB),
	}

	// --- Initialize Services ---
	clock := service.SystemClock(cfg.App.Location())
	services := api.Services{
		Auth:      service.NewAuthService(repos.Users, repos.Profiles, cfg.JWT.Secret, cfg.JWT.Expiration),
		Tracker:   service.NewTrackerService(repos, clock),
		Profile:   service.NewProfileService(repos, clock),
		Account:   service.NewAccountService(repos, fileStorage, log),
		Analytics: service.NewAnalyticsService(repos, clock),
		Export:    service.NewExportService(repos, fileStorage, cfg.S3.Enabled(), cfg.S3.URLExpiry, clock, log),
		Clock:     clock,
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(api.RequestLogger(log), api.Recovery(), api.Metrics())
	api.SetupRoutes(router, cfg.JWT.Secret, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	// in-flight requests get 5 seconds to finish
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}
