package main

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"loan-ledger/internal/api/middleware"
	"loan-ledger/internal/config"
	"loan-ledger/internal/event"
	"loan-ledger/internal/infrastructure/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogging = config.LoggerConfig{Level: "error"}

func TestInitializeApp(t *testing.T) {
	t.Setenv("SERVER_AUTH_JWTSECRET", "test-secret")

	cfg, log := initializeApp()

	require.NotNil(t, cfg, "Config should not be nil")
	assert.NotNil(t, log, "Logger should not be nil")
	assert.Equal(t, "test-secret", cfg.Server.Auth.JWTSecret)
	assert.Equal(t, 10, cfg.Receipt.MaxAttempts)
}

func TestRabbitMQURI(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.RabbitMQConfig
		want    string
		wantErr bool
	}{
		{"credentials", config.RabbitMQConfig{Host: "mq", Port: 5673, Username: "u", Password: "p"}, "amqp://u:p@mq:5673", false},
		{"credentials with reserved characters", config.RabbitMQConfig{Host: "mq", Port: 5672, Username: "svc@ledger", Password: "p@ss:w/rd"}, "amqp://svc%40ledger:p%40ss%3Aw%2Frd@mq:5672", false},
		{"anonymous with default port", config.RabbitMQConfig{Host: "mq"}, "amqp://mq:5672", false},
		{"missing host", config.RabbitMQConfig{}, "", true},
		{"username without password", config.RabbitMQConfig{Host: "mq", Username: "u"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rabbitMQURI(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitializeRateLimiter(t *testing.T) {
	logger := logging.NewLogger(quietLogging)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{}
	assert.Nil(t, initializeRateLimiter(ctx, cfg, nil, logger), "disabled limiter should be nil")

	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, Backend: middleware.BackendMemory, RPS: 5, Burst: 10}
	assert.IsType(t, &middleware.MemoryLimiter{}, initializeRateLimiter(ctx, cfg, nil, logger))

	cfg.Server.RateLimit.Backend = middleware.BackendRedis
	assert.IsType(t, &middleware.MemoryLimiter{}, initializeRateLimiter(ctx, cfg, nil, logger),
		"redis backend without a client falls back to memory")
}

func TestInitializePublisherWithoutBroker(t *testing.T) {
	logger := logging.NewLogger(quietLogging)
	cfg := &config.Config{}

	assert.Nil(t, initializeRabbitMQ(cfg, logger))
	assert.IsType(t, &event.NoopPublisher{}, initializePublisher(cfg, nil, logger))
}

func TestStartBatchJobsDisabled(t *testing.T) {
	logger := logging.NewLogger(quietLogging)
	assert.Nil(t, startBatchJobs(&config.Config{}, logger, &application{}))
}

func TestHandleShutdown(t *testing.T) {
	logger := logging.NewLogger(quietLogging)
	cfg := &config.Config{Server: config.ServerConfig{Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second}}

	srv, serverErrors, _ := startServer(cfg, nil, logger)
	shutdownChan := make(chan os.Signal, 1)
	shutdownChan <- syscall.SIGINT

	done := make(chan struct{})
	go func() {
		handleShutdown(srv, nil, nil, nil, shutdownChan, serverErrors, logger)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("graceful shutdown did not complete")
	}
}
