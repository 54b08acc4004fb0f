// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantran-dev/bookden/internal/platform/apperr"
	"github.com/vantran-dev/bookden/internal/platform/database/schema"
	"github.com/vantran-dev/bookden/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows or SQLSTATE 23505) are mapped
// to domain-friendly [apperr.AppError] values so that callers never see
// driver-level details.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// accountColumns is the canonical SELECT column list for hydrating a [User].
func accountColumns() string {
	t := schema.UsersAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Username, t.Email, t.PasswordHash, t.Role,
		t.Contributions, t.IsVerified, t.CreatedAt, t.UpdatedAt,
	)
}

// scanAccount hydrates a [User] from a single-row query.
func scanAccount(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Contributions,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate username/email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	t := schema.UsersAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.Table,
		t.ID, t.Username, t.Email, t.PasswordHash, t.Role,
		t.Contributions, t.IsVerified, t.CreatedAt, t.UpdatedAt,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Contributions,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Username or email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by primary key.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns(), schema.UsersAccount.Table, schema.UsersAccount.ID)

	user, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns(), schema.UsersAccount.Table, schema.UsersAccount.Email)

	user, err := scanAccount(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns(), schema.UsersAccount.Table, schema.UsersAccount.Username)

	user, err := scanAccount(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
UpdatePassword replaces only the stored password hash.

Returns:
  - error: apperr.NotFound when the user is gone, or execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	t := schema.UsersAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`,
		t.Table, t.PasswordHash, t.UpdatedAt, t.ID)

	tag, err := repository.pool.Exec(context, query, newHash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
IncrementContributions bumps the contribution counter by exactly one.

The increment happens in SQL so that concurrent contributions never lose
an update to a read-modify-write race.

Returns:
  - error: apperr.NotFound when the user is gone, or execution errors
*/
func (repository *PostgresUserRepository) IncrementContributions(context context.Context, userID string) error {
	t := schema.UsersAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1, %s = $1 WHERE %s = $2`,
		t.Table, t.Contributions, t.Contributions, t.UpdatedAt, t.ID)

	tag, err := repository.pool.Exec(context, query, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_increment_contributions_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
MarkVerified flips the account's verification flag.

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	t := schema.UsersAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = $1 WHERE %s = $2`,
		t.Table, t.IsVerified, t.UpdatedAt, t.ID)

	if _, err := repository.pool.Exec(context, query, time.Now(), userID); err != nil {
		return fmt.Errorf("postgres_user_repo_mark_verified_failed: %w", err)
	}

	return nil
}

// # Session Repository

// PostgresSessionRepository implements SessionRepository using pgx.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of the SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Create persists a new refresh-token session.

Returns:
  - error: Persistence failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	t := schema.UsersSession
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.Table,
		t.ID, t.UserID, t.TokenHash, t.UserAgent,
		t.IPAddress, t.ExpiresAt, t.IsRevoked, t.CreatedAt,
	)

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.IsRevoked,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash returns the live (unrevoked, unexpired) session for a token hash.

Returns:
  - *Session: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	t := schema.UsersSession
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = FALSE AND %s > NOW()`,
		t.ID, t.UserID, t.TokenHash, t.UserAgent,
		t.IPAddress, t.ExpiresAt, t.IsRevoked, t.CreatedAt,
		t.Table,
		t.TokenHash, t.IsRevoked, t.ExpiresAt,
	)

	session := &Session{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.IsRevoked,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("postgres_session_repo_find_failed: %w", err)
	}

	return session, nil
}

/*
Revoke permanently invalidates one session.

Returns:
  - error: Execution errors
*/
func (repository *PostgresSessionRepository) Revoke(context context.Context, sessionID string) error {
	t := schema.UsersSession
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`, t.Table, t.IsRevoked, t.ID)

	if _, err := repository.pool.Exec(context, query, sessionID); err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_failed: %w", err)
	}

	return nil
}

/*
RevokeAll invalidates every session belonging to one user.

Returns:
  - error: Execution errors
*/
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID string) error {
	t := schema.UsersSession
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`, t.Table, t.IsRevoked, t.UserID)

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_all_failed: %w", err)
	}

	return nil
}

/*
RevokeOthers invalidates all of a user's sessions except the current one.

Returns:
  - error: Execution errors
*/
func (repository *PostgresSessionRepository) RevokeOthers(context context.Context, userID, currentSessionID string) error {
	t := schema.UsersSession
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s <> $2`,
		t.Table, t.IsRevoked, t.UserID, t.ID)

	if _, err := repository.pool.Exec(context, query, userID, currentSessionID); err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_others_failed: %w", err)
	}

	return nil
}
