package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"fleetcore/internal/auth"
)

// UsersHandler is the admin user-management surface. Unlike open
// registration it honors an explicit role field.
type UsersHandler struct {
	Service *auth.Service
	Store   *auth.Store
	Logger  *slog.Logger
}

func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		users, err := h.Store.List(r.Context())
		if err != nil {
			h.Logger.Error("list users", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, users)
	case http.MethodPost:
		var payload struct {
			auth.RegisterInput
			Role string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		role, err := auth.ParseRole(payload.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown role")
			return
		}
		user, err := h.Service.CreateUser(r.Context(), payload.RegisterInput, role)
		if err != nil {
			var verr *auth.ValidationError
			switch {
			case errors.As(err, &verr):
				writeError(w, http.StatusBadRequest, verr.Error())
			case errors.Is(err, auth.ErrDuplicateEmail):
				writeError(w, http.StatusBadRequest, "email already registered")
			default:
				h.Logger.Error("create user", "err", err)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
