package handler

import (
	"net/http"

	"github.com/klau55/clicker-mobile-app/internal/utils"
)

type tapRequest struct {
	Username string `json:"username"`
}

func (h *Handler) Tap(w http.ResponseWriter, r *http.Request) {
	var req tapRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.taps.Tap(r.Context(), req.Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.Success(w, result)
}
