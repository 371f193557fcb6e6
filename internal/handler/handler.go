package handler

import (
	"context"
	"net/http"

	model "github.com/klau55/clicker-mobile-app/internal/models"
	"github.com/klau55/clicker-mobile-app/internal/services"
	"github.com/klau55/clicker-mobile-app/internal/utils"
)

type Accounts interface {
	Register(ctx context.Context, username, password string) (*model.RegisteredUser, error)
	Login(ctx context.Context, username, password string) (*model.LoggedInUser, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UserStats(ctx context.Context, rawID string) (*model.UserStats, error)
}

type Tapper interface {
	Tap(ctx context.Context, username string) (*model.TapResult, error)
}

type Ranker interface {
	GetLeaderboard(ctx context.Context, q services.LeaderboardQuery) (*model.LeaderboardPage, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tune how handlers render responses.
type Options struct {
	// ExposeErrors adds internal error detail to 500 responses.
	ExposeErrors bool
	// MaxLimit caps the leaderboard page size.
	MaxLimit int
	// APIPrefix is only used to list routes in the index.
	APIPrefix string
}

type Handler struct {
	accounts    Accounts
	taps        Tapper
	leaderboard Ranker
	db          Pinger
	opts        Options
}

func New(accounts Accounts, taps Tapper, leaderboard Ranker, db Pinger, opts Options) *Handler {
	return &Handler{
		accounts:    accounts,
		taps:        taps,
		leaderboard: leaderboard,
		db:          db,
		opts:        opts,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	utils.WriteError(w, r, err, h.opts.ExposeErrors)
}

// HealthCheck pings the database.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	utils.Success(w, map[string]string{"status": "ok"})
}
