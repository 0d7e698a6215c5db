package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/clickgame-go/internal/api/request"
	"github.com/mcoot/clickgame-go/internal/api/response"
	"github.com/mcoot/clickgame-go/internal/services/auth"
)

// AuthHandler handles login
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles POST /api/game/wx-login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoginResponse{
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
	})
}
