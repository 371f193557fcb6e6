package services

import (
	"context"

	"github.com/klau55/clicker-mobile-app/internal/database"
	model "github.com/klau55/clicker-mobile-app/internal/models"
)

// AccountStore is the subset of *database.Store the account service needs.
type AccountStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	RecordLogin(ctx context.Context, userID int64) (*model.LoginStat, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error)
}

type TapStore interface {
	IncrementTaps(ctx context.Context, username string) (*model.TapResult, error)
}

type LeaderboardStore interface {
	Leaderboard(ctx context.Context, limit, offset int, username string) (*database.LeaderboardSnapshot, error)
}

var (
	_ AccountStore     = (*database.Store)(nil)
	_ TapStore         = (*database.Store)(nil)
	_ LeaderboardStore = (*database.Store)(nil)
)
