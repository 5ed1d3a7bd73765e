package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-ledger/internal/domain/user"
	"loan-ledger/internal/pkg/apperrors"
)

const userColumns = `id, username, email, password_hash, nic, role, created_at, updated_at`

type UserRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db DBPool, logger *slog.Logger) *UserRepository {
	if db == nil {
		panic("DBPool cannot be nil for UserRepository")
	}
	return &UserRepository{db: db, logger: logger.With("component", "UserRepository")}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) (err error) {
	defer func(start time.Time) { observe("user_insert", start, err) }(time.Now())

	query := `
        INSERT INTO users (username, email, password_hash, nic, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query, u.Username, u.Email, u.PasswordHash, u.NIC, string(u.Role)).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID int64) (*user.User, error) {
	return r.findOne(ctx, "user_find_by_id", `WHERE id = $1`, userID)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, "user_find_by_email", `WHERE email = $1`, email)
}

func (r *UserRepository) findOne(ctx context.Context, name, where string, arg any) (u *user.User, err error) {
	defer func(start time.Time) { observe(name, start, err) }(time.Now())

	u, err = scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users `+where, arg))
	if err != nil {
		translated := translateDBError(err, r.logger)
		if !errors.Is(translated, apperrors.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to query user", slog.String("query", name), slog.Any("error", err))
		}
		return nil, translated
	}
	return u, nil
}

func (r *UserRepository) FindAll(ctx context.Context) (users []*user.User, err error) {
	defer func(start time.Time) { observe("user_find_all", start, err) }(time.Now())

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query users", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	users = make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) (err error) {
	defer func(start time.Time) { observe("user_update", start, err) }(time.Now())

	query := `
        UPDATE users
        SET username = $1, email = $2, password_hash = $3, nic = $4, role = $5, updated_at = NOW()
        WHERE id = $6
        RETURNING updated_at`

	err = r.db.QueryRow(ctx, query, u.Username, u.Email, u.PasswordHash, u.NIC, string(u.Role), u.ID).
		Scan(&u.UpdatedAt)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID int64) (err error) {
	defer func(start time.Time) { observe("user_delete", start, err) }(time.Now())

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanUser(row scanner) (*user.User, error) {
	var (
		u    user.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.NIC, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = user.Role(role)
	return &u, nil
}
