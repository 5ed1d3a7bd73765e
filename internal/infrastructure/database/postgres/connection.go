package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-ledger/internal/config"
	"loan-ledger/internal/infrastructure/monitoring"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns        = 10
	defaultMaxConnIdleTime = 5 * time.Minute
	pingTimeout            = 5 * time.Second
)

// DBPool is the subset of *pgxpool.Pool the repositories use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

var _ DBPool = (*pgxpool.Pool)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func NewConnectionPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is empty in configuration")
	}

	poolConfig, err := configurePool(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Connecting to PostgreSQL database...")
	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := verifyConnection(ctx, dbpool, logger); err != nil {
		dbpool.Close()
		return nil, err
	}

	logger.Info("Successfully connected to PostgreSQL database.",
		"host", poolConfig.ConnConfig.Host,
		"db", poolConfig.ConnConfig.Database,
		"maxConns", poolConfig.MaxConns)
	return dbpool, nil
}

func configurePool(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	poolConfig.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	return poolConfig, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func verifyConnection(ctx context.Context, db pinger, logger *slog.Logger) error {
	logger.Info("Pinging database...")
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.Ping(pingCtx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		return fmt.Errorf("failed to ping database on connect: %w", err)
	}

	return nil
}

// translateDBError maps driver errors onto the apperrors taxonomy. Unique violations
// keep the constraint name so callers can tell which key collided.
func translateDBError(err error, logger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UniqueViolation {
			logger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return &UniqueViolationError{Constraint: pgErr.ConstraintName, Cause: err}
		}
		if pgErr.Code == pgerrcode.CheckViolation {
			logger.Warn("Database check constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: constraint %s violated: %w", apperrors.ErrValidation, pgErr.ConstraintName, err)
		}
		logger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s: %w", apperrors.ErrDatabase, pgErr.Code, err)
	}

	logger.Error("Generic database error", "error", err)
	return fmt.Errorf("%w: %w", apperrors.ErrDatabase, err)
}

type UniqueViolationError struct {
	Constraint string
	Cause      error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique constraint %q violated", e.Constraint)
}

func (e *UniqueViolationError) Is(target error) bool {
	return target == apperrors.ErrAlreadyExists
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Cause
}

func violatesConstraint(err error, constraint string) bool {
	var uv *UniqueViolationError
	return errors.As(err, &uv) && uv.Constraint == constraint
}

// observe records how long a named query took and whether it failed.
func observe(name string, start time.Time, err error) {
	monitoring.RecordDBQuery(name, monitoring.QueryStatus(err), time.Since(start))
}
