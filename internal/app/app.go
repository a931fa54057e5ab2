package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/studyhall/portal/internal/config"
	"github.com/studyhall/portal/internal/delivery/httpd"
	"github.com/studyhall/portal/internal/middleware"
	"github.com/studyhall/portal/internal/repository"
	"github.com/studyhall/portal/internal/service"
	"github.com/studyhall/portal/internal/service/extractor"
	"github.com/studyhall/portal/internal/service/grader"
	"github.com/studyhall/portal/internal/service/integration"
	"github.com/studyhall/portal/internal/service/storage"
	"github.com/studyhall/portal/internal/session"
)

type App struct {
	server    *http.Server
	publisher integration.EventPublisher
	logger    zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger, db *sql.DB) (*App, error) {
	store, err := storage.NewMinIOStorage(storage.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.Storage.BucketName,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.MinIO.UseSSL,
		Timeout:   int(cfg.MinIO.Timeout.Seconds()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Брокер не обязателен для работы сервиса: без него события просто не
	// публикуются.
	var publisher integration.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		publisher, err = integration.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("RabbitMQ unavailable, events disabled")
			publisher = nil
		}
	}

	assignmentRepo := repository.NewAssignmentRepository(db, logger)
	submissionRepo := repository.NewSubmissionRepository(db, logger)
	studentRepo := repository.NewStudentRepository(db, logger)
	courseRepo := repository.NewCourseRepository(db, logger)
	questionRepo := repository.NewQuestionRepository(db, logger)
	attemptRepo := repository.NewAttemptRepository(db, logger)

	sessions := session.NewStore()

	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, store, logger)
	studentService := service.NewStudentService(studentRepo, logger)
	submissionService := service.NewSubmissionService(
		submissionRepo,
		assignmentRepo,
		studentRepo,
		store,
		extractor.New(),
		grader.New(cfg.Grading.AllowedExtensions, cfg.Grading.MinWordCount),
		publisher,
		logger,
	)
	examService := service.NewExamService(
		courseRepo,
		questionRepo,
		attemptRepo,
		studentRepo,
		sessions,
		publisher,
		cfg.Exam.DefaultDurationMinutes,
		logger,
	)

	handler := httpd.NewHandler(
		assignmentService,
		submissionService,
		studentService,
		examService,
		cfg.Grading.MaxUploadSize,
		cfg.Grading.AllowedExtensions,
		logger,
	)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(60 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router, cfg.Auth.JWTSecret)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		publisher: publisher,
		logger:    logger,
	}, nil
}

func (a *App) Run() error {
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}

	return a.server.Shutdown(ctx)
}
