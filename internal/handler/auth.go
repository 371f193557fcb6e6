package handler

import (
	"net/http"

	model "github.com/klau55/clicker-mobile-app/internal/models"
	"github.com/klau55/clicker-mobile-app/internal/utils"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string                `json:"message"`
	User    *model.RegisteredUser `json:"user"`
}

type loginResponse struct {
	Message string              `json:"message"`
	User    *model.LoggedInUser `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.Created(w, registerResponse{Message: "User registered successfully", User: user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.Success(w, loginResponse{Message: "Login successful", User: user})
}
