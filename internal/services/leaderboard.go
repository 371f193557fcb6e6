package services

import (
	"context"
	"math"

	"github.com/juju/errors"

	model "github.com/klau55/clicker-mobile-app/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// LeaderboardQuery selects a page of the ranking. Username is optional and only
// used to compute UserRank.
type LeaderboardQuery struct {
	Page     int
	Limit    int
	Username string
}

type LeaderboardService struct {
	store    LeaderboardStore
	maxLimit int
}

// NewLeaderboardService caps page sizes at maxLimit; zero means no cap.
func NewLeaderboardService(store LeaderboardStore, maxLimit int) *LeaderboardService {
	return &LeaderboardService{store: store, maxLimit: maxLimit}
}

// GetLeaderboard normalises the query, then reads one consistent page with its totals.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, q LeaderboardQuery) (*model.LeaderboardPage, error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}
	// Keep (page-1)*limit inside int; such pages are empty anyway.
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	offset := (page - 1) * limit

	snapshot, err := s.store.Leaderboard(ctx, limit, offset, q.Username)
	if err != nil {
		return nil, errors.Annotate(err, "leaderboard")
	}

	entries := snapshot.Entries
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}

	return &model.LeaderboardPage{
		Data: entries,
		Pagination: model.Pagination{
			Total: snapshot.Total,
			Page:  page,
			Limit: limit,
			Pages: pageCount(snapshot.Total, limit),
		},
		UserRank: snapshot.UserRank,
	}, nil
}

func pageCount(total int64, limit int) int64 {
	if total <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
