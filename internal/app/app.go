package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm-notification-service/internal/config"
	domainservice "crm-notification-service/internal/domain/service"
	"crm-notification-service/internal/handler"
	"crm-notification-service/internal/infrastructure/cron"
	"crm-notification-service/internal/infrastructure/db"
	"crm-notification-service/internal/infrastructure/kafka"
	"crm-notification-service/internal/infrastructure/postgres"
	"crm-notification-service/internal/infrastructure/redis"
	"crm-notification-service/internal/infrastructure/smtp"
	"crm-notification-service/internal/middleware"
	"crm-notification-service/internal/service"
	"crm-notification-service/pkg/jwt"

	"github.com/sirupsen/logrus"
)

// App represents the application
type App struct {
	cfg *config.Config
}

// New creates a new application instance
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	configureLogging(&cfg.Logging)

	return &App{cfg: cfg}, nil
}

func configureLogging(cfg *config.LoggingConfig) {
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logrus.SetLevel(level)
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	ctx := context.Background()

	logrus.Info("Connecting to PostgreSQL...")
	pool, err := db.NewPostgresPool(ctx, &a.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close(pool)
	logrus.Info("Connected to PostgreSQL")

	logrus.Info("Connecting to Redis...")
	redisClient, err := redis.NewRedisClient(&a.cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redis.Close(redisClient)
	logrus.Info("Connected to Redis")

	smtpClient, err := smtp.NewClient(&a.cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize SMTP client: %w", err)
	}

	var producer *kafka.Producer
	if len(a.cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(&a.cfg.Kafka)
		defer producer.Close()
		logrus.Info("Kafka producer initialized")
	}

	// Repositories
	notificationRepo := postgres.NewNotificationRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	prospectRepo := postgres.NewProspectRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	actionRepo := postgres.NewActionRepository(pool)

	// Services
	factory := service.NewNotificationFactory(notificationRepo, publisherOrNil(producer), a.cfg.Rules.NotificationTTL)
	rules := service.NewRuleEvaluators(&a.cfg.Rules, taskRepo, prospectRepo, projectRepo)
	engine := service.NewTriggerEngine(rules, factory)
	reminders := service.NewReminderService(bookingRepo, smtpClient, factory, a.cfg.Rules.BookingReminderLead)
	notifications := service.NewNotificationService(notificationRepo, factory)
	actions := service.NewActionLogService(actionRepo)

	// HTTP layer
	tokenManager := jwt.NewTokenManager(a.cfg.JWT.Secret, 15*time.Minute, a.cfg.JWT.Issuer)
	sessionStorage := redis.NewSessionStorage(redisClient)
	authMiddleware := middleware.NewAuthMiddleware(tokenManager, sessionStorage)

	rateLimiter := middleware.NewRateLimiter(a.cfg.HTTP.RateLimit,
		"/api/v1/notifications/trigger",
		"/api/v1/bookings/reminders",
	)
	rateLimiter.StartJanitor(5 * time.Minute)
	defer rateLimiter.Stop()

	router := handler.NewRouter(
		handler.NewNotificationHandler(notifications),
		handler.NewTriggerHandler(engine, reminders),
		handler.NewActionHandler(actions),
		authMiddleware,
		rateLimiter,
		a.cfg.Trigger.Secret,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.HTTP.Port),
		Handler:      router.Setup(),
		ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeout) * time.Second,
	}

	// Local trigger runner is off by default; production relies on
	// external cron hitting the trigger endpoint.
	var runner *cron.TriggerRunner
	if a.cfg.Scheduler.Enabled {
		runner = cron.NewTriggerRunner(engine, reminders, a.cfg.Scheduler.Interval)
		if err := runner.Start(); err != nil {
			return fmt.Errorf("failed to start local trigger runner: %w", err)
		}
	}

	serverErrChan := make(chan error, 1)
	go func() {
		logrus.Infof("HTTP server listening on port %d", a.cfg.HTTP.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("http server error: %w", err)
	case sig := <-sigChan:
		logrus.Infof("Received signal: %v", sig)
	}

	logrus.Info("Shutting down gracefully...")

	if runner != nil {
		runner.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Application stopped")
	return nil
}

// publisherOrNil keeps the factory's publisher a true nil interface when
// Kafka is not configured
func publisherOrNil(producer *kafka.Producer) domainservice.EventPublisher {
	if producer == nil {
		return nil
	}
	return producer
}
