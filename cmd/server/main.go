package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/workout-tracker/internal/api"
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/logger"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/mongo"
	"alcyxob/workout-tracker/internal/repository/sqlite"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// repositories is the storage backend chosen by configuration.
type repositories struct {
	users     repository.UserRepository
	exercises repository.ExerciseRepository
	workouts  repository.WorkoutLogRepository
	sessions  repository.SessionRepository
	supersets repository.SupersetRepository

	ping  func(ctx context.Context) error
	close func()
}

// @title Workout Tracker API
// @version 1.0
// @description Workout logs, workout sessions with supersets and a moderated exercise catalog.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: could not load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting workout tracker", zap.String("driver", cfg.Database.Driver), zap.String("address", cfg.Server.Address))

	repos, err := openRepositories(cfg.Database, log)
	if err != nil {
		log.Fatal("could not open database", zap.Error(err))
	}
	defer repos.close()

	// --- Initialize Storage ---
	// Media endpoints answer 503 when no bucket is configured.
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, log)
		cancel()
		if err != nil {
			log.Fatal("failed to initialize S3 storage", zap.Error(err))
		}
	} else {
		log.Info("S3 not configured, exercise media disabled")
	}

	// --- Initialize Services ---
	authService := service.NewAuthService(repos.users, cfg.JWT.Secret, cfg.JWT.Expiration, service.AuthOptions{
		BcryptCost:  cfg.Auth.BcryptCost,
		AdminEmails: cfg.Auth.AdminEmails,
	}, log)
	exerciseService := service.NewExerciseService(repos.exercises, fileStorage, log)
	workoutService := service.NewWorkoutService(repos.workouts, repos.exercises, log)
	sessionService := service.NewSessionService(repos.sessions, repos.supersets, log)

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(api.RequestLogger(log), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(router, api.Services{
		Auth:        authService,
		Exercise:    exerciseService,
		Workout:     workoutService,
		Session:     sessionService,
		HealthCheck: repos.ping,
	}, log)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	if err := serve(server, quit, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		return
	}
	log.Info("server exiting")
}

// serve runs server until quit fires or it fails to listen.
func serve(server *http.Server, quit <-chan os.Signal, log *zap.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-quit:
		log.Info("shutting down server")
	case err := <-serveErr:
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	return nil
}

func openRepositories(cfg config.DatabaseConfig, log *zap.Logger) (*repositories, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return openMongo(cfg, log)
	default:
		return openSQLite(cfg, log)
	}
}

func openSQLite(cfg config.DatabaseConfig, log *zap.Logger) (*repositories, error) {
	db, err := sqlite.OpenDB(cfg.Path, cfg.BusyTimeout)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := sqlite.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if cfg.Seed {
		n, err := sqlite.SeedExercises(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if n > 0 {
			log.Info("seeded exercise catalog", zap.Int("exercises", n))
		}
	}
	log.Info("sqlite database ready", zap.String("path", cfg.Path))

	return &repositories{
		users:     sqlite.NewSQLiteUserRepository(db),
		exercises: sqlite.NewSQLiteExerciseRepository(db),
		workouts:  sqlite.NewSQLiteWorkoutLogRepository(db),
		sessions:  sqlite.NewSQLiteSessionRepository(db),
		supersets: sqlite.NewSQLiteSupersetRepository(db),
		ping:      db.PingContext,
		close: func() {
			if err := db.Close(); err != nil {
				log.Error("failed to close sqlite", zap.Error(err))
			}
		},
	}, nil
}

func openMongo(cfg config.DatabaseConfig, log *zap.Logger) (*repositories, error) {
	client, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		return nil, err
	}
	appDB := client.Database(cfg.Name)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
		_ = mongo.DisconnectDB(client)
		return nil, err
	}
	log.Info("mongodb ready", zap.String("database", cfg.Name))

	return &repositories{
		users:     mongo.NewMongoUserRepository(appDB),
		exercises: mongo.NewMongoExerciseRepository(appDB),
		workouts:  mongo.NewMongoWorkoutLogRepository(appDB),
		sessions:  mongo.NewMongoSessionRepository(appDB),
		supersets: mongo.NewMongoSupersetRepository(appDB),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Error("failed to disconnect mongodb", zap.Error(err))
			}
		},
	}, nil
}
