package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openfield/pickup/internal/api/apierr"
	"github.com/openfield/pickup/internal/api/request"
	"github.com/openfield/pickup/internal/api/response"
	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/storage"
)

// UserHandler handles admin user-management endpoints
type UserHandler struct {
	storage storage.Storage
}

// NewUserHandler creates a new user handler
func NewUserHandler(store storage.Storage) *UserHandler {
	return &UserHandler{
		storage: store,
	}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.storage.ListUsers(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	out := response.UserList{Users: make([]response.User, len(users))}
	for i, u := range users {
		out.Users[i] = response.UserFromModel(u)
	}
	response.JSON(w, http.StatusOK, out)
}

// Delete handles DELETE /api/v1/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.storage.DeleteUser(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// SetRole handles PATCH /api/v1/users/{id}/role
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req request.SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	role := model.UserRole(req.Role)
	if role != model.RoleMember && role != model.RoleAdmin {
		apierr.WriteError(w, apierr.NewInvalidRequestError("role must be member or admin"))
		return
	}

	user, err := h.storage.GetUser(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	user.Role = role
	if err := h.storage.SaveUser(r.Context(), user); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}
