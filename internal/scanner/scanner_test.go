package scanner

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow copies values into Scan destinations the way a driver would.
type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch target := d.(type) {
		case *int64:
			*target = r.values[i].(int64)
		case *string:
			*target = r.values[i].(string)
		case *time.Time:
			*target = r.values[i].(time.Time)
		case sql.Scanner:
			if err := target.Scan(r.values[i]); err != nil {
				return err
			}
		default:
			return errors.New("unsupported destination")
		}
	}
	return nil
}

func TestScanUserWithoutActivity(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	user, err := ScanUser(fakeRow{values: []interface{}{
		int64(7), "alice", "$2a$hash", int64(0), created, nil,
	}})
	require.NoError(t, err)

	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "$2a$hash", user.PasswordHash)
	assert.Equal(t, created, user.CreatedAt)
	assert.Nil(t, user.LastActive)
}

func TestScanUserWithActivity(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	active := created.Add(time.Hour)

	user, err := ScanUser(fakeRow{values: []interface{}{
		int64(7), "alice", "h", int64(12), created, active,
	}})
	require.NoError(t, err)
	require.NotNil(t, user.LastActive)
	assert.Equal(t, active, *user.LastActive)
	assert.Equal(t, int64(12), user.TotalTaps)
}

func TestScanPropagatesErrors(t *testing.T) {
	_, err := ScanUser(fakeRow{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = ScanLeaderboardEntry(fakeRow{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestScanLeaderboardEntry(t *testing.T) {
	entry, err := ScanLeaderboardEntry(fakeRow{values: []interface{}{
		"bob", int64(75), 1.5,
	}})
	require.NoError(t, err)
	assert.Equal(t, "bob", entry.Username)
	assert.Equal(t, int64(75), entry.TotalTaps)
	assert.InDelta(t, 1.5, entry.HoursSinceActive, 1e-9)
	assert.Zero(t, entry.Rank)
}

func TestScanUserStatsWithoutLogin(t *testing.T) {
	now := time.Now().UTC()

	stats, err := ScanUserStats(fakeRow{values: []interface{}{
		"carol", int64(3), now, now, int64(2), nil, int64(0),
	}})
	require.NoError(t, err)
	assert.Equal(t, "carol", stats.Username)
	assert.Equal(t, int64(2), stats.TapCountToday)
	assert.Nil(t, stats.LastLogin)
}
