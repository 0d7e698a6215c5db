package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/clickgame-go/internal/api/middleware"
	"github.com/mcoot/clickgame-go/internal/api/request"
	"github.com/mcoot/clickgame-go/internal/api/response"
	"github.com/mcoot/clickgame-go/internal/services/progress"
)

// UserDataHandler handles player progress endpoints
type UserDataHandler struct {
	progressService *progress.Service
}

// NewUserDataHandler creates a new user data handler
func NewUserDataHandler(progressService *progress.Service) *UserDataHandler {
	return &UserDataHandler{
		progressService: progressService,
	}
}

// Get handles GET /api/game/user-data
func (h *UserDataHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	rec := h.progressService.GetRecord(r.Context(), identity)

	response.JSON(w, http.StatusOK, response.UserDataFromModel(rec))
}

// Save handles POST /api/game/user-data
func (h *UserDataHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.SaveUserDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	outcome := h.progressService.SaveRecord(r.Context(), req.ToSaveRequest(string(identity)))
	if !outcome.Success {
		WriteError(w, outcome.Err)
		return
	}

	response.JSON(w, http.StatusOK, response.SaveResponse{
		Success:        true,
		LastUpdateTime: outcome.LastUpdateTime,
	})
}
