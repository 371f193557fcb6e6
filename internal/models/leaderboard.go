package model

type LeaderboardEntry struct {
	Rank             int64   `json:"rank"`
	Username         string  `json:"username"`
	TotalTaps        int64   `json:"total_taps"`
	HoursSinceActive float64 `json:"hours_since_active"` // derived at query time
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

// LeaderboardPage is one page of the ranking. UserRank is nil when no
// username was asked for, or when that user is not ranked.
type LeaderboardPage struct {
	Data       []LeaderboardEntry `json:"data"`
	Pagination Pagination         `json:"pagination"`
	UserRank   *int64             `json:"userRank"`
}
