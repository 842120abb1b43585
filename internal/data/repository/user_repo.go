package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"identity-service/internal/apperr"
	"identity-service/internal/data/entity"
	"identity-service/internal/dto/request"
	"identity-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// VerificationTokenTTL is the validity window of a freshly issued
// verification token.
const VerificationTokenTTL = time.Hour

// uniqueViolation is the Postgres error code for unique constraint
// violations, the source of truth for duplicate emails.
const uniqueViolation = "23505"

type UserRepository interface {
	Create(ctx context.Context, req *request.RegisterRequest, passwordHash, verificationToken string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	VerifyEmail(ctx context.Context, verificationToken string) error
	Update(ctx context.Context, id int64, req *request.UserUpdateRequest) (*entity.User, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone_number,
	       is_active, is_admin, is_email_verified,
	       verification_token, verification_token_expiry, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.PhoneNumber,
		&user.IsActive,
		&user.IsAdmin,
		&user.IsEmailVerified,
		&user.VerificationToken,
		&user.VerificationTokenExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new unverified user with an outstanding verification
// token expiring one hour from now. A duplicate email surfaces as
// AlreadyExists; any other failure rolls back and surfaces as a generic
// persistence error.
func (ur *userRepository) Create(ctx context.Context, req *request.RegisterRequest, passwordHash, verificationToken string) (*entity.User, error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		ur.log.Error("Failed to begin transaction", zap.Error(err))
		return nil, apperr.Wrap(apperr.PersistenceFailure, "failed to create account", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	expiry := now.Add(VerificationTokenTTL)

	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, phone_number,
		                   is_active, is_admin, is_email_verified,
		                   verification_token, verification_token_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, false, false, $6, $7, $8, $8)
		RETURNING ` + userColumns

	user, err := scanUser(tx.QueryRow(ctx, query,
		req.Email,
		passwordHash,
		req.FirstName,
		req.LastName,
		req.PhoneNumber,
		verificationToken,
		expiry,
		now,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			ur.log.Warn("Duplicate email on insert", zap.String("email", req.Email))
			return nil, apperr.Wrap(apperr.AlreadyExists, "user already exists", err)
		}
		ur.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, apperr.Wrap(apperr.PersistenceFailure, "failed to create account", err)
	}

	if err := tx.Commit(ctx); err != nil {
		ur.log.Error("Failed to commit user insert", zap.Error(err), zap.String("email", req.Email))
		return nil, apperr.Wrap(apperr.PersistenceFailure, "failed to create account", err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, apperr.Wrap(apperr.PersistenceFailure, "failed to look up user", err)
	}

	return user, nil
}

func (ur *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.Int64("user_id", id))
		return nil, apperr.Wrap(apperr.PersistenceFailure, "failed to look up user", err)
	}

	return user, nil
}

// VerifyEmail consumes a verification token: lookup, expiry check, and the
// verified-state flip run inside one transaction with the row locked, so a
// concurrent second attempt with the same token observes NotFound once the
// first commits.
func (ur *userRepository) VerifyEmail(ctx context.Context, verificationToken string) error {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		ur.log.Error("Failed to begin transaction", zap.Error(err))
		return apperr.Wrap(apperr.PersistenceFailure, "failed to verify email", err)
	}
	defer tx.Rollback(ctx)

	var (
		userID int64
		expiry *time.Time
	)
	query := `
		SELECT id, verification_token_expiry
		FROM users
		WHERE verification_token = $1
		FOR UPDATE
	`
	err = tx.QueryRow(ctx, query, verificationToken).Scan(&userID, &expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.New(apperr.NotFound, "invalid or expired token")
	}
	if err != nil {
		ur.log.Error("Failed to look up verification token", zap.Error(err))
		return apperr.Wrap(apperr.PersistenceFailure, "failed to verify email", err)
	}

	if expiry != nil && expiry.Before(time.Now().UTC()) {
		// Rolled back by the deferred Rollback; the token stays in place.
		return apperr.New(apperr.Expired, "token has expired")
	}

	update := `
		UPDATE users
		SET is_email_verified = true,
		    verification_token = NULL,
		    verification_token_expiry = NULL,
		    updated_at = $2
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, update, userID, time.Now().UTC()); err != nil {
		ur.log.Error("Failed to mark email verified", zap.Error(err), zap.Int64("user_id", userID))
		return apperr.Wrap(apperr.PersistenceFailure, "failed to verify email", err)
	}

	if err := tx.Commit(ctx); err != nil {
		ur.log.Error("Failed to commit email verification", zap.Error(err), zap.Int64("user_id", userID))
		return apperr.Wrap(apperr.PersistenceFailure, "failed to verify email", err)
	}

	ur.log.Info("Email verified", zap.Int64("user_id", userID))
	return nil
}

// Update applies only the non-nil profile fields and returns the updated
// record, or (nil, nil) when the id does not exist. Password and
// verification columns are not reachable through this path.
func (ur *userRepository) Update(ctx context.Context, id int64, req *request.UserUpdateRequest) (*entity.User, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	args = append(args, id)

	addSet := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addSet("first_name", req.FirstName)
	addSet("last_name", req.LastName)
	addSet("phone_number", req.PhoneNumber)

	if len(sets) == 0 {
		// Nothing to change; behave like a point lookup.
		return ur.FindByID(ctx, id)
	}

	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	tx, err := ur.db.Begin(ctx)
	if err != nil {
		ur.log.Error("Failed to begin transaction", zap.Error(err))
		return nil, apperr.Wrap(apperr.PersistenceFailure, "failed to update user", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns

	user, err := scanUser(tx.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to update user", zap.Error(err), zap.Int64("user_id", id))
		return nil, apperr.Wrap(apperr.PersistenceFailure, "failed to update user", err)
	}

	if err := tx.Commit(ctx); err != nil {
		ur.log.Error("Failed to commit user update", zap.Error(err), zap.Int64("user_id", id))
		return nil, apperr.Wrap(apperr.PersistenceFailure, "failed to update user", err)
	}

	return user, nil
}
