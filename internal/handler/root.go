package handler

import (
	"net/http"

	"github.com/klau55/clicker-mobile-app/internal/utils"
)

type routeInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// RootHandler lists the available API routes.
func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	p := h.opts.APIPrefix
	utils.Success(w, map[string]interface{}{
		"name":    "Clicker API",
		"version": "1.0.0",
		"status":  "running",
		"routes": []routeInfo{
			{http.MethodPost, p + "/register", "Create an account (rate limited)"},
			{http.MethodPost, p + "/login", "Log in (rate limited)"},
			{http.MethodPost, p + "/tap", "Add one tap to a user's counter"},
			{http.MethodGet, p + "/leaderboard", "Ranking (params: page, limit, username)"},
			{http.MethodGet, p + "/check-username", "Check whether a username is taken (params: username)"},
			{http.MethodGet, p + "/user-stats/{userId}", "Counters and login stats of a user"},
			{http.MethodGet, p + "/health", "Health check with a database ping"},
			{http.MethodGet, "/metrics", "Prometheus metrics"},
		},
	})
}
