package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juju/errors"

	model "github.com/klau55/clicker-mobile-app/internal/models"
	"github.com/klau55/clicker-mobile-app/internal/scanner"
)

const uniqueViolation = "23505"

// Messages of the typed errors returned to callers. They are safe to show to clients.
const (
	MsgUserExists   = "User already exists"
	MsgUserNotFound = "User not found"
)

// Store is the Postgres-backed repository for accounts, login stats and tap activity.
type Store struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewStore wraps pool. queryTimeout bounds every call, acquisition included.
func NewStore(pool *pgxpool.Pool, queryTimeout time.Duration) *Store {
	return &Store{pool: pool, queryTimeout: queryTimeout}
}

// withTimeout bounds both connection acquisition and the statements that follow.
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

// Ping reports whether the pool can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.pool.Ping(ctx)
}

// CreateUser inserts the account and its initial login stat in one transaction.
// A taken username yields an errors.AlreadyExists error and nothing is written.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var user *model.User
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO users (username, password_hash, total_taps, created_at)
			 VALUES ($1, $2, 0, NOW())
			 ON CONFLICT (username) DO NOTHING
			 RETURNING id, username, password_hash, total_taps, created_at, last_active`,
			username, passwordHash,
		)
		u, err := scanner.ScanUser(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.NewAlreadyExists(nil, MsgUserExists)
		}
		if err != nil {
			return errors.Annotate(err, "could not insert user")
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO user_stats (user_id, last_login, login_count) VALUES ($1, NOW(), 0)`,
			u.ID,
		); err != nil {
			return errors.Annotate(err, "could not insert initial user stats")
		}

		user = u
		return nil
	})
	if isUniqueViolation(err) {
		return nil, errors.NewAlreadyExists(nil, MsgUserExists)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByUsername returns an errors.NotFound error for unknown usernames.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, total_taps, created_at, last_active
		 FROM users WHERE username = $1`,
		username,
	)
	user, err := scanner.ScanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NewNotFound(nil, MsgUserNotFound)
	}
	if err != nil {
		return nil, errors.Annotate(err, "could not fetch user")
	}
	return user, nil
}

// RecordLogin bumps the login counter, creating the stat row if it is missing.
func (s *Store) RecordLogin(ctx context.Context, userID int64) (*model.LoginStat, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var stat *model.LoginStat
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO user_stats (user_id, last_login, login_count)
			 VALUES ($1, NOW(), 1)
			 ON CONFLICT (user_id)
			 DO UPDATE SET
				last_login = NOW(),
				login_count = user_stats.login_count + 1
			 RETURNING user_id, last_login, login_count`,
			userID,
		)
		st, err := scanner.ScanLoginStat(row)
		if err != nil {
			return errors.Annotate(err, "could not upsert user stats")
		}
		stat = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stat, nil
}

// UsernameExists reports whether an account with that exact username exists.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		username,
	).Scan(&exists)
	if err != nil {
		return false, errors.Annotate(err, "could not check username")
	}
	return exists, nil
}

// IncrementTaps adds exactly one tap and logs it. The counter is bumped by the
// database itself so concurrent taps never lose updates.
func (s *Store) IncrementTaps(ctx context.Context, username string) (*model.TapResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var result model.TapResult
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var userID int64
		err := tx.QueryRow(ctx,
			`UPDATE users
			 SET total_taps = total_taps + 1,
				 last_active = NOW()
			 WHERE username = $1
			 RETURNING id, username, total_taps`,
			username,
		).Scan(&userID, &result.Username, &result.TotalTaps)
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.NewNotFound(nil, MsgUserNotFound)
		}
		if err != nil {
			return errors.Annotate(err, "could not increment taps")
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO tap_activity (user_id, tap_time) VALUES ($1, NOW())`,
			userID,
		); err != nil {
			return errors.Annotate(err, "could not log tap activity")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserStats returns an errors.NotFound error for unknown ids.
func (s *Store) GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT
			u.username,
			u.total_taps,
			u.created_at,
			COALESCE(u.last_active, u.created_at) AS last_active,
			(SELECT COUNT(*) FROM tap_activity ta
			 WHERE ta.user_id = u.id AND ta.tap_time > NOW() - INTERVAL '1 day') AS tap_count_today,
			s.last_login,
			COALESCE(s.login_count, 0) AS login_count
		 FROM users u
		 LEFT JOIN user_stats s ON s.user_id = u.id
		 WHERE u.id = $1`,
		userID,
	)
	stats, err := scanner.ScanUserStats(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NewNotFound(nil, MsgUserNotFound)
	}
	if err != nil {
		return nil, errors.Annotate(err, "could not fetch user stats")
	}
	return stats, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
