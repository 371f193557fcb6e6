package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/klau55/clicker-mobile-app/internal/utils"
)

type usernameCheck struct {
	Username string `json:"username"`
	Exists   bool   `json:"exists"`
}

func (h *Handler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	exists, err := h.accounts.UsernameExists(r.Context(), username)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.Success(w, usernameCheck{Username: username, Exists: exists})
}

func (h *Handler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.accounts.UserStats(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.Success(w, stats)
}
