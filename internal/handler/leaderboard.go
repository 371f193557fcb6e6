package handler

import (
	"net/http"

	"github.com/klau55/clicker-mobile-app/internal/services"
	"github.com/klau55/clicker-mobile-app/internal/utils"
)

// GetLeaderboard serves ?page&limit&username. Bad paging values fall back to
// the defaults instead of failing.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := utils.ParsePagination(q.Get("page"), q.Get("limit"), h.opts.MaxLimit)

	result, err := h.leaderboard.GetLeaderboard(r.Context(), services.LeaderboardQuery{
		Page:     page,
		Limit:    limit,
		Username: q.Get("username"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.Success(w, result)
}
