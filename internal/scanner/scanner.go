package scanner

import (
	"database/sql"

	model "github.com/klau55/clicker-mobile-app/internal/models"
	"github.com/klau55/clicker-mobile-app/internal/utils"
)

// Row is satisfied by pgx.Row, pgx.Rows and *sql.Row.
type Row interface {
	Scan(dest ...interface{}) error
}

// ScanUser scans id, username, password_hash, total_taps, created_at, last_active.
func ScanUser(row Row) (*model.User, error) {
	var user model.User
	var lastActive sql.NullTime

	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash,
		&user.TotalTaps, &user.CreatedAt, &lastActive,
	)
	if err != nil {
		return nil, err
	}

	user.LastActive = utils.NullTimeToPointer(lastActive)
	return &user, nil
}

// ScanLoginStat scans user_id, last_login, login_count.
func ScanLoginStat(row Row) (*model.LoginStat, error) {
	var stat model.LoginStat
	if err := row.Scan(&stat.UserID, &stat.LastLogin, &stat.LoginCount); err != nil {
		return nil, err
	}
	return &stat, nil
}

// ScanLeaderboardEntry scans username, total_taps, hours_since_active. Rank is
// positional and filled in by the caller.
func ScanLeaderboardEntry(row Row) (*model.LeaderboardEntry, error) {
	var entry model.LeaderboardEntry
	var hours sql.NullFloat64

	if err := row.Scan(&entry.Username, &entry.TotalTaps, &hours); err != nil {
		return nil, err
	}

	entry.HoursSinceActive = utils.NullFloat64ToFloat64(hours)
	return &entry, nil
}

// ScanUserStats scans the user-stats projection.
func ScanUserStats(row Row) (*model.UserStats, error) {
	var stats model.UserStats
	var lastLogin sql.NullTime

	err := row.Scan(
		&stats.Username, &stats.TotalTaps, &stats.CreatedAt, &stats.LastActive,
		&stats.TapCountToday, &lastLogin, &stats.LoginCount,
	)
	if err != nil {
		return nil, err
	}

	stats.LastLogin = utils.NullTimeToPointer(lastLogin)
	return &stats, nil
}
