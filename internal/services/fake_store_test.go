package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/juju/errors"

	"github.com/klau55/clicker-mobile-app/internal/database"
	model "github.com/klau55/clicker-mobile-app/internal/models"
)

// memStore mirrors the guarantees of the Postgres store: unique usernames and
// atomic increments.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[string]*model.User
	logins   map[int64]*model.LoginStat
	activity map[int64]int
	failWith error

	lastOffset int
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*model.User),
		logins:   make(map[int64]*model.LoginStat),
		activity: make(map[int64]int),
	}
}

func (m *memStore) CreateUser(_ context.Context, username, hash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if _, ok := m.users[username]; ok {
		return nil, errors.NewAlreadyExists(nil, database.MsgUserExists)
	}
	m.nextID++
	u := &model.User{ID: m.nextID, Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	m.users[username] = u
	m.logins[u.ID] = &model.LoginStat{UserID: u.ID, LastLogin: u.CreatedAt}
	copied := *u
	return &copied, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[username]
	if !ok {
		return nil, errors.NewNotFound(nil, database.MsgUserNotFound)
	}
	copied := *u
	return &copied, nil
}

func (m *memStore) RecordLogin(_ context.Context, userID int64) (*model.LoginStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stat, ok := m.logins[userID]
	if !ok {
		stat = &model.LoginStat{UserID: userID}
		m.logins[userID] = stat
	}
	stat.LoginCount++
	stat.LastLogin = time.Now()
	copied := *stat
	return &copied, nil
}

func (m *memStore) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[username]
	return ok, nil
}

func (m *memStore) GetUserStats(_ context.Context, userID int64) (*model.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID != userID {
			continue
		}
		stat := m.logins[userID]
		return &model.UserStats{
			Username:      u.Username,
			TotalTaps:     u.TotalTaps,
			CreatedAt:     u.CreatedAt,
			LastActive:    u.CreatedAt,
			TapCountToday: int64(m.activity[userID]),
			LastLogin:     &stat.LastLogin,
			LoginCount:    stat.LoginCount,
		}, nil
	}
	return nil, errors.NewNotFound(nil, database.MsgUserNotFound)
}

func (m *memStore) IncrementTaps(_ context.Context, username string) (*model.TapResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, errors.NewNotFound(nil, database.MsgUserNotFound)
	}
	u.TotalTaps++
	m.activity[u.ID]++
	return &model.TapResult{Username: u.Username, TotalTaps: u.TotalTaps}, nil
}

func (m *memStore) Leaderboard(_ context.Context, limit, offset int, username string) (*database.LeaderboardSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.lastOffset = offset

	var ranked []*model.User
	for _, u := range m.users {
		if u.TotalTaps > 0 {
			ranked = append(ranked, u)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalTaps != ranked[j].TotalTaps {
			return ranked[i].TotalTaps > ranked[j].TotalTaps
		}
		return ranked[i].ID < ranked[j].ID
	})

	snap := &database.LeaderboardSnapshot{Total: int64(len(ranked))}
	for i, u := range ranked {
		if u.Username == username {
			r := int64(i + 1)
			snap.UserRank = &r
		}
		if i >= offset && i-offset < limit {
			snap.Entries = append(snap.Entries, model.LeaderboardEntry{
				Rank: int64(i + 1), Username: u.Username, TotalTaps: u.TotalTaps,
			})
		}
	}
	return snap, nil
}
