package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openfield/pickup/internal/api/apierr"
	"github.com/openfield/pickup/internal/api/middleware"
	"github.com/openfield/pickup/internal/api/request"
	"github.com/openfield/pickup/internal/api/response"
	"github.com/openfield/pickup/internal/services/match"
)

// MatchHandler handles match endpoints
type MatchHandler struct {
	controller *match.Controller
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(controller *match.Controller) *MatchHandler {
	return &MatchHandler{
		controller: controller,
	}
}

// Create handles POST /api/v1/matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Title == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("title is required"))
		return
	}

	user := middleware.MustGetUser(r.Context())
	m, err := h.controller.Create(r.Context(), match.CreateParams{
		Title:       req.Title,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		LocationURL: req.LocationURL,
		MaxPlayers:  req.MaxPlayers,
		Notes:       req.Notes,
	}, user.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MatchFromModel(m))
}

// List handles GET /api/v1/matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.controller.List(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchListFromModels(matches))
}

// Get handles GET /api/v1/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	m, err := h.controller.Get(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Update handles PATCH /api/v1/matches/{id}
func (h *MatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req request.UpdateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	user := middleware.MustGetUser(r.Context())
	m, err := h.controller.Update(r.Context(), id, match.Patch{
		Title:       req.Title,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		LocationURL: req.LocationURL,
		MaxPlayers:  req.MaxPlayers,
		Notes:       req.Notes,
	}, user)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Delete handles DELETE /api/v1/matches/{id}
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user := middleware.MustGetUser(r.Context())
	if err := h.controller.Delete(r.Context(), id, user); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Join handles POST /api/v1/matches/{id}/join
func (h *MatchHandler) Join(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user := middleware.MustGetUser(r.Context())
	m, err := h.controller.Join(r.Context(), id, user)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Leave handles POST /api/v1/matches/{id}/leave
func (h *MatchHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user := middleware.MustGetUser(r.Context())
	m, err := h.controller.Leave(r.Context(), id, user)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Kick handles POST /api/v1/matches/{id}/players/{player_id}/kick
func (h *MatchHandler) Kick(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	user := middleware.MustGetUser(r.Context())
	if err := h.controller.Kick(r.Context(), vars["id"], vars["player_id"], user); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
