package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/clickgame-go/internal/api/handler"
	"github.com/mcoot/clickgame-go/internal/api/middleware"
	"github.com/mcoot/clickgame-go/internal/api/response"
	"github.com/mcoot/clickgame-go/internal/services/auth"
	"github.com/mcoot/clickgame-go/internal/services/progress"
)

// resourceCacheControl is sent with every static resource
const resourceCacheControl = "public, max-age=3600"

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	ProgressService *progress.Service
	ResourcesDir    string // Path to static resources; empty disables /resources/
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	userDataHandler := handler.NewUserDataHandler(cfg.ProgressService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Game routes; login needs no token
	game := api.PathPrefix("/game").Subrouter()
	game.HandleFunc("/wx-login", authHandler.Login).Methods(http.MethodPost)
	game.Handle("/user-data", authMiddleware(http.HandlerFunc(userDataHandler.Get))).Methods(http.MethodGet)
	game.Handle("/user-data", authMiddleware(http.HandlerFunc(userDataHandler.Save))).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Static resources
	if cfg.ResourcesDir != "" {
		files := http.StripPrefix("/resources/", http.FileServer(http.Dir(cfg.ResourcesDir)))
		r.PathPrefix("/resources/").Handler(cacheControl(files))
	}

	return r
}

func cacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", resourceCacheControl)
		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
