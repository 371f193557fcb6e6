package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/juju/errors"

	model "github.com/klau55/clicker-mobile-app/internal/models"
	"github.com/klau55/clicker-mobile-app/internal/scanner"
)

// LeaderboardSnapshot is a page of the ranking, the number of ranked users and,
// when requested, the 1-based rank of one user. All three come from one snapshot.
type LeaderboardSnapshot struct {
	Entries  []model.LeaderboardEntry
	Total    int64
	UserRank *int64
}

// Ranking order shared by the page and rank queries. id breaks ties by registration order.
const rankingOrder = `total_taps DESC, id ASC`

// Leaderboard reads only users with at least one tap.
func (s *Store) Leaderboard(ctx context.Context, limit, offset int, username string) (*LeaderboardSnapshot, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	snapshot := &LeaderboardSnapshot{Entries: []model.LeaderboardEntry{}}
	txOptions := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

	err := pgx.BeginTxFunc(ctx, s.pool, txOptions, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM users WHERE total_taps > 0`,
		).Scan(&snapshot.Total); err != nil {
			return errors.Annotate(err, "could not count ranked users")
		}

		rows, err := tx.Query(ctx,
			`SELECT
				username,
				total_taps,
				(EXTRACT(EPOCH FROM (NOW() - COALESCE(last_active, created_at))) / 3600)::float8 AS hours_since_active
			 FROM users
			 WHERE total_taps > 0
			 ORDER BY `+rankingOrder+`
			 LIMIT $1 OFFSET $2`,
			limit, offset,
		)
		if err != nil {
			return errors.Annotate(err, "could not query leaderboard")
		}
		defer rows.Close()

		rank := int64(offset)
		for rows.Next() {
			entry, err := scanner.ScanLeaderboardEntry(rows)
			if err != nil {
				return errors.Annotate(err, "could not scan leaderboard row")
			}
			rank++
			entry.Rank = rank
			snapshot.Entries = append(snapshot.Entries, *entry)
		}
		if err := rows.Err(); err != nil {
			return errors.Annotate(err, "could not read leaderboard rows")
		}

		if username == "" {
			return nil
		}

		var userRank int64
		err = tx.QueryRow(ctx,
			`SELECT ranked.rank
			 FROM (
				SELECT username, ROW_NUMBER() OVER (ORDER BY `+rankingOrder+`) AS rank
				FROM users
				WHERE total_taps > 0
			 ) ranked
			 WHERE ranked.username = $1`,
			username,
		).Scan(&userRank)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// Unknown user or zero taps: not ranked.
		case err != nil:
			return errors.Annotate(err, "could not compute user rank")
		default:
			snapshot.UserRank = &userRank
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
