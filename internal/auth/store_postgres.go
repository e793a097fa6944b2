// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clanboard/api/internal/platform/dberr"
	pkguuid "github.com/clanboard/api/pkg/uuid"
)

// # Repository Implementations

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new Postgres implementation for account storage.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// PostgresSessionRepository implements [SessionRepository] using pgx.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new Postgres implementation for cookie sessions.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// PostgresFlagRepository implements [FlagRepository] using pgx.
type PostgresFlagRepository struct {
	pool *pgxpool.Pool
}

// NewFlagRepository creates a new Postgres implementation for one-shot flags.
func NewFlagRepository(pool *pgxpool.Pool) *PostgresFlagRepository {
	return &PostgresFlagRepository{pool: pool}
}

const userColumns = `qqid, nickname, authoritygroup, passwordhash, salt,
		failurecount, logincode, logincodeexpireat, logincodeavailable,
		lastlogintime, lastloginaddr`

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.QQID,
		&user.Nickname,
		&user.AuthorityGroup,
		&user.PasswordHash,
		&user.Salt,
		&user.FailureCount,
		&user.LoginCode,
		&user.LoginCodeExpireAt,
		&user.LoginCodeAvailable,
		&user.LastLoginTime,
		&user.LastLoginAddr,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # UserRepository Methods

/*
FindByID retrieves an account from the users.account table.

Parameters:
  - context: context.Context
  - qqid: int64

Returns:
  - *User: Hydrated entity, nil when absent
  - error: Database execution failures
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, qqid int64) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users.account
		WHERE qqid = $1`, userColumns)

	user, err := scanUser(repository.pool.QueryRow(context, query, qqid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err))
	}

	return user, nil
}

/*
GetOrCreate inserts the defaults with ON CONFLICT DO NOTHING and then reads
the row back, so concurrent first contacts for the same QQ ID converge on a
single account.

Parameters:
  - context: context.Context
  - defaults: *User

Returns:
  - *User: The stored entity
  - bool: True when this call created the row
  - error: Database execution failures
*/
func (repository *PostgresUserRepository) GetOrCreate(context context.Context, defaults *User) (*User, bool, error) {
	insert := `
		INSERT INTO users.account
			(qqid, nickname, authoritygroup, passwordhash, salt,
			 failurecount, logincode, logincodeexpireat, logincodeavailable,
			 lastlogintime, lastloginaddr)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (qqid) DO NOTHING`

	tag, err := repository.pool.Exec(context, insert,
		defaults.QQID,
		defaults.Nickname,
		defaults.AuthorityGroup,
		defaults.PasswordHash,
		defaults.Salt,
		defaults.FailureCount,
		defaults.LoginCode,
		defaults.LoginCodeExpireAt,
		defaults.LoginCodeAvailable,
		defaults.LastLoginTime,
		defaults.LastLoginAddr,
	)
	if err != nil {
		return nil, false, dberr.Wrap(fmt.Errorf("postgres_user_repo_get_or_create_failed: %w", err))
	}

	created := tag.RowsAffected() > 0

	user, err := repository.FindByID(context, defaults.QQID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		// The row vanished between insert and read; treat as a storage fault.
		return nil, false, dberr.Wrap(fmt.Errorf("postgres_user_repo_get_or_create_failed: row missing after insert"))
	}

	return user, created, nil
}

/*
Save persists every mutable field of the account.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) Save(context context.Context, user *User) error {
	query := `
		UPDATE users.account
		SET nickname = $2, authoritygroup = $3, passwordhash = $4, salt = $5,
			failurecount = $6, logincode = $7, logincodeexpireat = $8,
			logincodeavailable = $9, lastlogintime = $10, lastloginaddr = $11,
			updatedat = NOW()
		WHERE qqid = $1`

	_, err := repository.pool.Exec(context, query,
		user.QQID,
		user.Nickname,
		user.AuthorityGroup,
		user.PasswordHash,
		user.Salt,
		user.FailureCount,
		user.LoginCode,
		user.LoginCodeExpireAt,
		user.LoginCodeAvailable,
		user.LastLoginTime,
		user.LastLoginAddr,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_repo_save_failed: %w", err))
	}

	return nil
}

/*
IncrementLoginFailure bumps the wrong-password counter in one statement and
returns the value after the bump.

Parameters:
  - context: context.Context
  - qqid: int64

Returns:
  - int: Counter value after the increment
  - error: Update failures
*/
func (repository *PostgresUserRepository) IncrementLoginFailure(context context.Context, qqid int64) (int, error) {
	query := `
		UPDATE users.account
		SET failurecount = failurecount + 1, updatedat = NOW()
		WHERE qqid = $1
		RETURNING failurecount`

	var count int
	err := repository.pool.QueryRow(context, query, qqid).Scan(&count)
	if err != nil {
		return 0, dberr.Wrap(fmt.Errorf("postgres_user_repo_increment_failure_failed: %w", err))
	}

	return count, nil
}

/*
ConsumeLoginCode marks the current login code as used and stamps the
last-login metadata. The WHERE clause requires the code to still be
available, which makes a concurrent double redemption lose cleanly.

Parameters:
  - context: context.Context
  - qqid: int64
  - now: int64 (epoch seconds)
  - addr: string

Returns:
  - bool: True when this call consumed the code
  - error: Update failures
*/
func (repository *PostgresUserRepository) ConsumeLoginCode(context context.Context, qqid int64, now int64, addr string) (bool, error) {
	query := `
		UPDATE users.account
		SET logincodeavailable = FALSE, lastlogintime = $2, lastloginaddr = $3,
			updatedat = NOW()
		WHERE qqid = $1 AND logincodeavailable = TRUE`

	tag, err := repository.pool.Exec(context, query, qqid, now, addr)
	if err != nil {
		return false, dberr.Wrap(fmt.Errorf("postgres_user_repo_consume_code_failed: %w", err))
	}

	return tag.RowsAffected() > 0, nil
}

/*
UpdatePassword replaces the credential material and clears the failure
counter in a single statement.

Parameters:
  - context: context.Context
  - qqid: int64
  - hash: string
  - salt: string

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, qqid int64, hash, salt string) error {
	query := `
		UPDATE users.account
		SET passwordhash = $2, salt = $3, failurecount = 0, updatedat = NOW()
		WHERE qqid = $1`

	_, err := repository.pool.Exec(context, query, qqid, hash, salt)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_repo_update_password_failed: %w", err))
	}

	return nil
}

// # SessionRepository Methods

/*
Create persists a new cookie session row.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Insert failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	if session.ID == "" {
		session.ID = pkguuid.New()
	}

	query := `
		INSERT INTO users.session
			(id, qqid, cookiesecrethash, expireat, lastseentime, lastseenaddr)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.QQID,
		session.CookieSecretHash,
		session.ExpireAt,
		session.LastSeenTime,
		session.LastSeenAddr,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_session_repo_create_failed: %w", err))
	}

	return nil
}

/*
FindByUserAndHash retrieves the session matching the user and secret digest.

Parameters:
  - context: context.Context
  - qqid: int64
  - secretHash: string

Returns:
  - *Session: Hydrated entity, nil when absent
  - error: Database execution failures
*/
func (repository *PostgresSessionRepository) FindByUserAndHash(context context.Context, qqid int64, secretHash string) (*Session, error) {
	query := `
		SELECT id, qqid, cookiesecrethash, expireat, lastseentime, lastseenaddr
		FROM users.session
		WHERE qqid = $1 AND cookiesecrethash = $2`

	session := &Session{}
	err := repository.pool.QueryRow(context, query, qqid, secretHash).Scan(
		&session.ID,
		&session.QQID,
		&session.CookieSecretHash,
		&session.ExpireAt,
		&session.LastSeenTime,
		&session.LastSeenAddr,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(fmt.Errorf("postgres_session_repo_find_failed: %w", err))
	}

	return session, nil
}

/*
Touch refreshes the last-seen metadata of a session.

Parameters:
  - context: context.Context
  - sessionID: string
  - now: int64 (epoch seconds)
  - addr: string

Returns:
  - error: Update failures
*/
func (repository *PostgresSessionRepository) Touch(context context.Context, sessionID string, now int64, addr string) error {
	query := `
		UPDATE users.session
		SET lastseentime = $2, lastseenaddr = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, sessionID, now, addr)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_session_repo_touch_failed: %w", err))
	}

	return nil
}

/*
DeleteByUserAndHash removes the session backing a presented cookie.

Parameters:
  - context: context.Context
  - qqid: int64
  - secretHash: string

Returns:
  - error: Delete failures
*/
func (repository *PostgresSessionRepository) DeleteByUserAndHash(context context.Context, qqid int64, secretHash string) error {
	query := `
		DELETE FROM users.session
		WHERE qqid = $1 AND cookiesecrethash = $2`

	_, err := repository.pool.Exec(context, query, qqid, secretHash)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_session_repo_delete_failed: %w", err))
	}

	return nil
}

/*
DeleteByUser removes every session belonging to the user.

Parameters:
  - context: context.Context
  - qqid: int64

Returns:
  - error: Delete failures
*/
func (repository *PostgresSessionRepository) DeleteByUser(context context.Context, qqid int64) error {
	query := `
		DELETE FROM users.session
		WHERE qqid = $1`

	_, err := repository.pool.Exec(context, query, qqid)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_session_repo_delete_by_user_failed: %w", err))
	}

	return nil
}

/*
DeleteExpired removes every session whose expiry is in the past.

Parameters:
  - context: context.Context
  - now: int64 (epoch seconds)

Returns:
  - int64: Number of rows removed
  - error: Delete failures
*/
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context, now int64) (int64, error) {
	query := `
		DELETE FROM users.session
		WHERE expireat < $1`

	tag, err := repository.pool.Exec(context, query, now)
	if err != nil {
		return 0, dberr.Wrap(fmt.Errorf("postgres_session_repo_delete_expired_failed: %w", err))
	}

	return tag.RowsAffected(), nil
}

// # FlagRepository Methods

/*
TryClaim atomically claims the named flag via INSERT ... ON CONFLICT DO
NOTHING. The first caller inserts the row and wins; later callers see zero
affected rows.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - bool: True when this call claimed the flag
  - error: Insert failures
*/
func (repository *PostgresFlagRepository) TryClaim(context context.Context, name string) (bool, error) {
	query := `
		INSERT INTO users.systemflag (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING`

	tag, err := repository.pool.Exec(context, query, name)
	if err != nil {
		return false, dberr.Wrap(fmt.Errorf("postgres_flag_repo_try_claim_failed: %w", err))
	}

	return tag.RowsAffected() > 0, nil
}
