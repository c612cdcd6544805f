package vehicles

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
		q := r.URL.Query()
		filter := Filter{}
		if status := q.Get("status"); status != "" {
			filter.Status = Status(status)
		}
		filter.Plate = q.Get("plate")
		if limitStr := q.Get("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil {
				filter.Limit = l
			}
		}
		list, err := h.Store.List(r.Context(), filter)
		if err != nil {
			h.Logger.Error("list vehicles", "err", err)
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
		var v Vehicle
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if v.Plate == "" || v.Make == "" || v.Model == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.Store.Create(r.Context(), &v); err != nil {
			h.Logger.Error("create vehicle", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&v)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type DetailHandler struct {
	Store  *Store
	Logger *slog.Logger
}

// Paths are /api/v1/vehicles/{id} and /api/v1/vehicles/{id}/{tires|maintenance}.
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
	vehicleID, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if len(parts) >= 5 {
		h.serveSubresource(w, r, identity, vehicleID, parts[4])
		return
	}

	switch r.Method {
	case http.MethodGet:
		v, err := h.Store.Get(r.Context(), vehicleID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.Logger.Error("get vehicle", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	case http.MethodPatch:
		if !canManage(identity.Role) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		v, err := h.Store.Get(r.Context(), vehicleID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.Logger.Error("get vehicle", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		v.ID = vehicleID
		if err := h.Store.Update(r.Context(), v); err != nil {
			h.Logger.Error("update vehicle", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	case http.MethodDelete:
		if identity.Role != auth.RoleAdmin {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if err := h.Store.Delete(r.Context(), vehicleID); err != nil {
			if errors.Is(err, ErrNotFound) {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.Logger.Error("delete vehicle", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *DetailHandler) serveSubresource(w http.ResponseWriter, r *http.Request, identity auth.Identity, vehicleID int64, kind string) {
	switch kind {
	case "tires":
		switch r.Method {
		case http.MethodGet:
			tires, err := h.Store.ListTires(r.Context(), vehicleID)
			if err != nil {
				h.Logger.Error("list tires", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(tires)
		case http.MethodPost:
			if !canManage(identity.Role) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			var t Tire
			if err := json.NewDecoder(r.Body).Decode(&t); err != nil || t.Position == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			t.VehicleID = vehicleID
			if err := h.Store.AddTire(r.Context(), &t); err != nil {
				h.Logger.Error("add tire", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(&t)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case "maintenance":
		switch r.Method {
		case http.MethodGet:
			records, err := h.Store.ListMaintenance(r.Context(), vehicleID)
			if err != nil {
				h.Logger.Error("list maintenance", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(records)
		case http.MethodPost:
			if !canManage(identity.Role) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			var m MaintenanceRecord
			if err := json.NewDecoder(r.Body).Decode(&m); err != nil || m.Kind == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			m.VehicleID = vehicleID
			if err := h.Store.AddMaintenance(r.Context(), &m); err != nil {
				h.Logger.Error("add maintenance", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(&m)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
