package trips

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

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
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		filter := Filter{}
		if driverStr := q.Get("driver_id"); driverStr != "" {
			if d, err := strconv.ParseInt(driverStr, 10, 64); err == nil {
				filter.DriverID = d
			}
		}
		if vehicleStr := q.Get("vehicle_id"); vehicleStr != "" {
			if v, err := strconv.ParseInt(vehicleStr, 10, 64); err == nil {
				filter.VehicleID = v
			}
		}
		if status := q.Get("status"); status != "" {
			filter.Status = Status(status)
		}
		if sinceStr := q.Get("since"); sinceStr != "" {
			if t, err := time.Parse(time.RFC3339, sinceStr); err == nil {
				filter.Since = t
			}
		}
		if untilStr := q.Get("until"); untilStr != "" {
			if t, err := time.Parse(time.RFC3339, untilStr); err == nil {
				filter.Until = t
			}
		}
		if limitStr := q.Get("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil {
				filter.Limit = l
			}
		}
		// Chauffeurs only ever see their own trips.
		if identity.Role == auth.RoleChauffeur {
			filter.DriverID = identity.UserID
		}
		list, err := h.Store.List(r.Context(), filter)
		if err != nil {
			h.Logger.Error("list trips", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	case http.MethodPost:
		if !canManage(identity.Role) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var t Trip
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if t.VehicleID == 0 || t.DriverID == 0 || t.Origin == "" || t.Destination == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.Store.Create(r.Context(), &t); err != nil {
			h.Logger.Error("create trip", "err", err)
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

// Path is /api/v1/trips/{id}.
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

	trip, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.Logger.Error("get trip", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if identity.Role == auth.RoleChauffeur && trip.DriverID != identity.UserID {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(trip)
	case http.MethodPatch:
		var payload struct {
			Status Status `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Status == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if !CanTransition(trip.Status, payload.Status) {
			w.WriteHeader(http.StatusConflict)
			return
		}
		if err := h.Store.UpdateStatus(r.Context(), id, payload.Status); err != nil {
			h.Logger.Error("update trip", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
