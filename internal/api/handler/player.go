package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/playerbase/internal/api/apierr"
	"github.com/mcoot/playerbase/internal/api/request"
	"github.com/mcoot/playerbase/internal/api/response"
	"github.com/mcoot/playerbase/internal/model"
	"github.com/mcoot/playerbase/internal/services/player"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	players *player.Service
	logger  *slog.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(players *player.Service, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		players: players,
		logger:  logger,
	}
}

// List handles GET /rest/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q, err := request.ParseQuery(params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := request.ParsePage(params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	players, err := h.players.List(r.Context(), q, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Count handles GET /rest/players/count
func (h *PlayerHandler) Count(w http.ResponseWriter, r *http.Request) {
	f, err := request.ParseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	n, err := h.players.Count(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, n)
}

// Get handles GET /rest/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.players.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Create handles POST /rest/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodePlayer(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.players.Create(r.Context(), req.ToPatch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Update handles POST /rest/players/{id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	req, err := decodePlayer(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.players.Update(r.Context(), id, req.ToPatch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Delete handles DELETE /rest/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.players.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w)
}

// Health handles GET /rest/health
func (h *PlayerHandler) Health(w http.ResponseWriter, r *http.Request) {
	n, err := h.players.Total(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Players: n})
}

func (h *PlayerHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apierr.StatusOf(err) >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	apierr.WriteError(w, err)
}

func playerID(r *http.Request) (model.PlayerID, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierr.NewInvalidInputError("id must be a positive integer")
	}
	return model.PlayerID(id), nil
}

func decodePlayer(r *http.Request) (request.PlayerRequest, error) {
	var req request.PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, apierr.NewInvalidInputError("invalid request body")
	}
	return req, nil
}
