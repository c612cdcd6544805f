package trailers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"fleetcore/internal/auth"
)

func canManage(role auth.Role) bool {
	return role == auth.RoleAdmin || role == auth.RoleManager
}

type ListHandler struct {
	Store  *Store
	Logger *slog.Logger
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	switch r.Method {
	case http.MethodGet:
		list, err := h.Store.List(r.Context())
		if err != nil {
			h.Logger.Error("list trailers", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	case http.MethodPost:
		if !canManage(id.Role) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var t Trailer
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil || t.Plate == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.Store.Create(r.Context(), &t); err != nil {
			h.Logger.Error("create trailer", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&t)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type DetailHandler struct {
	Store  *Store
	Logger *slog.Logger
}

// Path is /api/v1/trailers/{id}.
func (h *DetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 4 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		t, err := h.Store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.Logger.Error("get trailer", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	case http.MethodPatch:
		if !canManage(identity.Role) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		t, err := h.Store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.Logger.Error("get trailer", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(t); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		t.ID = id
		if err := h.Store.Update(r.Context(), t); err != nil {
			h.Logger.Error("update trailer", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	case http.MethodDelete:
		if identity.Role != auth.RoleAdmin {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if err := h.Store.Delete(r.Context(), id); err != nil {
			if errors.Is(err, ErrNotFound) {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.Logger.Error("delete trailer", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
