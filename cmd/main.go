package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "loan-ledger/docs"
	"loan-ledger/internal/api"
	"loan-ledger/internal/api/middleware"
	"loan-ledger/internal/batch"
	"loan-ledger/internal/config"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/user"
	"loan-ledger/internal/event"
	"loan-ledger/internal/infrastructure/database/postgres"
	"loan-ledger/internal/infrastructure/logging"
	"loan-ledger/internal/pkg/auth"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	limiterCleanupInterval = time.Minute
	redisLimiterWindow     = time.Second
)

// application holds the services and long-lived resources built at startup.
type application struct {
	deps      api.Dependencies
	loanRepo  *postgres.LoanRepository
	reconcile *loan.Reconciler
}

// @title Loan Ledger API
// @version 1.0
// @description Customers, loans, payments and receipts for a daily/weekly collection lending business.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)
	runMigrations(cfg, dbPool, logger)

	rabbitMQConn := initializeRabbitMQ(cfg, logger)
	publisher := initializePublisher(cfg, rabbitMQConn, logger)

	var redisClient *redis.Client
	if cfg.Server.RateLimit.Enabled && cfg.Server.RateLimit.Backend == middleware.BackendRedis {
		redisClient = initializeRedisClient(cfg, logger)
	}
	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()
	rateLimiter := initializeRateLimiter(limiterCtx, cfg, redisClient, logger)

	app := initializeServices(cfg, dbPool, publisher, logger)
	app.deps.Limiter = rateLimiter

	cronScheduler := startBatchJobs(cfg, logger, app)
	router := api.SetupRouter(app.deps, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, rabbitMQConn, redisClient, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed(), "environment", cfg.App.Environment)

	if cfg.Server.Auth.Enabled && cfg.Server.Auth.JWTSecret == "" {
		logger.Error("JWT secret is not configured while authentication is enabled (set SERVER_AUTH_JWTSECRET).")
		os.Exit(1)
	}

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func runMigrations(cfg *config.Config, dbPool *pgxpool.Pool, logger *slog.Logger) {
	if !cfg.Database.AutoMigrate {
		logger.Info("Automatic migrations disabled.")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := postgres.Migrate(ctx, dbPool, logger); err != nil {
		logger.Error("Failed to apply database migrations", "error", err)
		dbPool.Close()
		os.Exit(1)
	}
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

func initializeRateLimiter(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) middleware.Limiter {
	rl := cfg.Server.RateLimit
	if !rl.Enabled {
		logger.Info("Rate limiting disabled.")
		return nil
	}

	if rl.Backend == middleware.BackendRedis && redisClient != nil {
		limit := max(rl.Burst, int(rl.RPS))
		logger.Info("Using Redis rate limiter", "limit", limit, "window", redisLimiterWindow)
		return middleware.NewRedisLimiter(redisClient, limit, redisLimiterWindow)
	}

	logger.Info("Using in-memory rate limiter", "rps", rl.RPS, "burst", rl.Burst)
	memory := middleware.NewMemoryLimiter(rl.RPS, rl.Burst)
	go memory.Cleanup(ctx, limiterCleanupInterval)
	return memory
}

func initializeServices(cfg *config.Config, dbPool *pgxpool.Pool, publisher event.EventPublisher, logger *slog.Logger) *application {
	logger.Info("Initializing application components...")
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	loanRepo := postgres.NewLoanRepository(dbPool, logger)
	paymentRepo := postgres.NewPaymentRepository(dbPool, logger)
	userRepo := postgres.NewUserRepository(dbPool, logger)

	tokens := auth.NewIssuer(cfg.Server.Auth.JWTSecret, cfg.Server.Auth.TokenTTL)
	reconciler := loan.NewReconciler(loanRepo, paymentRepo, publisher, logger)
	receipts := payment.NewReceiptGenerator(paymentRepo, cfg.Receipt.MaxAttempts, logger)

	customerService := customer.NewCustomerService(customerRepo, publisher, logger)
	loanService := loan.NewLoanService(loanRepo, customerService, reconciler, logger)
	paymentService := payment.NewPaymentService(paymentRepo, customerService, loanService, reconciler, receipts, publisher,
		payment.Options{MaxInsertRetries: cfg.Receipt.MaxInsertRetries}, logger)
	userService := user.NewUserService(userRepo, tokens, logger)

	return &application{
		deps: api.Dependencies{
			Customers: customerService,
			Loans:     loanService,
			Payments:  paymentService,
			Users:     userService,
			Tokens:    tokens,
			DB:        dbPool,
		},
		loanRepo:  loanRepo,
		reconcile: reconciler,
	}
}

func initializePublisher(cfg *config.Config, conn *amqp.Connection, logger *slog.Logger) event.EventPublisher {
	if conn == nil {
		return event.NewNoopPublisher(logger)
	}
	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to create RabbitMQ publisher, events will be dropped", "error", err)
		return event.NewNoopPublisher(logger)
	}
	return publisher
}

func initializeRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled, domain events will not be published.")
		return nil
	}
	conn, err := setupRabbitMQ(cfg, logger)
	if err != nil {
		logger.Warn("Continuing without RabbitMQ", "error", err)
		return nil
	}
	return conn
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rabbitConn *amqp.Connection, redisClient *redis.Client,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	shutdownHTTPServer(srv, serverErrors, logger)
	stopCronScheduler(cronScheduler, logger)
	closeRabbitMQConnection(rabbitConn, logger)
	closeRedisClient(redisClient, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			return "server error"
		}
		logger.Info("Server goroutine finished before signal.")
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	if cronScheduler == nil {
		return
	}
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	switch {
	case rabbitConn == nil:
		logger.Info("RabbitMQ connection was not established, skipping close.")
	case rabbitConn.IsClosed():
		logger.Info("RabbitMQ connection already closed, skipping close.")
	default:
		logger.Info("Closing RabbitMQ connection...")
		if err := rabbitConn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
		} else {
			logger.Info("RabbitMQ connection closed.")
		}
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

func initializeRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	logger.Info("Initializing Redis client for rate limiting...")
	if cfg.Redis.Addr == "" {
		logger.Error("Redis address (addr) is not configured.")
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if status := rdb.Ping(ctx); status.Err() != nil {
		logger.Error("Failed to connect to Redis", "error", status.Err(), "addr", cfg.Redis.Addr)
		_ = rdb.Close()
		os.Exit(1)
	}

	logger.Info("Redis client connected successfully.", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return rdb
}

func closeRedisClient(redisClient *redis.Client, logger *slog.Logger) {
	if redisClient == nil {
		logger.Info("Redis client was not initialized, skipping close.")
		return
	}
	logger.Info("Closing Redis client connection...")
	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close Redis client connection gracefully", "error", err)
	} else {
		logger.Info("Redis client connection closed.")
	}
}

// startBatchJobs returns nil when the reconciliation sweep is disabled.
func startBatchJobs(cfg *config.Config, logger *slog.Logger, app *application) *cron.Cron {
	if !cfg.Batch.ReconcileSweepEnabled {
		logger.Info("Reconciliation sweep disabled.")
		return nil
	}

	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	schedule := cfg.Batch.ReconcileSweepSchedule
	if schedule == "" {
		schedule = "30 2 * * *"
		logger.Warn("Reconciliation sweep schedule not configured, using default", "schedule", schedule)
	}

	sweep := batch.NewReconcileSweepJob(app.loanRepo, app.reconcile,
		cfg.Batch.ReconcileSweepConcurrency, cfg.Batch.ReconcileSweepTimeout, logger)

	jobID, err := c.AddJob(schedule, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "ReconcileSweep")
		jobLogger.Info("Cron triggered: Running reconciliation sweep.")

		if runErr := sweep.Run(context.Background()); runErr != nil {
			jobLogger.Error("Reconciliation sweep finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Reconciliation sweep finished successfully.")
		}
	}))
	if err != nil {
		logger.Error("Failed to schedule reconciliation sweep", "schedule", schedule, slog.Any("error", err))
	} else {
		logger.Info("Scheduled reconciliation sweep", "schedule", schedule, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func setupLogger(cfg config.LoggerConfig) *slog.Logger {
	return logging.NewLogger(cfg)
}

func connectRabbitMQ(uri string, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	retryCount := 5
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

func rabbitMQURI(cfg config.RabbitMQConfig) (string, error) {
	if cfg.Host == "" {
		return "", fmt.Errorf("RabbitMQ host is not configured")
	}
	port := cfg.Port
	if port == 0 {
		port = 5672
	}
	if (cfg.Username == "") != (cfg.Password == "") {
		return "", fmt.Errorf("RabbitMQ username and password must be provided together")
	}
	uri := url.URL{Scheme: "amqp", Host: net.JoinHostPort(cfg.Host, strconv.Itoa(port))}
	if cfg.Username != "" {
		uri.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return uri.String(), nil
}

func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) (*amqp.Connection, error) {
	uri, err := rabbitMQURI(cfg.RabbitMQ)
	if err != nil {
		return nil, err
	}

	conn, err := connectRabbitMQ(uri, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		return nil, err
	}
	return conn, nil
}
