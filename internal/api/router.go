package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/playerbase/internal/api/apierr"
	"github.com/mcoot/playerbase/internal/api/handler"
	"github.com/mcoot/playerbase/internal/api/middleware"
	"github.com/mcoot/playerbase/internal/services/player"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	PlayerService *player.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	playerHandler := handler.NewPlayerHandler(cfg.PlayerService, cfg.Logger)

	rest := r.PathPrefix("/rest").Subrouter()
	rest.Use(middleware.Recovery(cfg.Logger))
	rest.Use(middleware.RequestID())
	rest.Use(middleware.Logging(cfg.Logger))

	// count must be registered before {id}
	rest.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	rest.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	rest.HandleFunc("/players/count", playerHandler.Count).Methods(http.MethodGet)
	rest.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	rest.HandleFunc("/players/{id}", playerHandler.Update).Methods(http.MethodPost)
	rest.HandleFunc("/players/{id}", playerHandler.Delete).Methods(http.MethodDelete)

	rest.HandleFunc("/health", playerHandler.Health).Methods(http.MethodGet)

	return r
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}

func methodNotAllowedHandler(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewMethodNotAllowedError())
}
