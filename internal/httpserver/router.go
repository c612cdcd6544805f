package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"fleetcore/internal/auth"
	"fleetcore/internal/trailers"
	"fleetcore/internal/trips"
	"fleetcore/internal/vehicles"
)

func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	issuer *auth.Issuer,
	userStore *auth.Store,
	vehicleStore *vehicles.Store,
	trailerStore *trailers.Store,
	tripStore *trips.Store,
) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Auth
	mux.Handle("/api/v1/auth/login", loginHandler(authSvc, logger))
	mux.Handle("/api/v1/auth/register", registerHandler(authSvc, logger))
	mux.Handle("/api/v1/auth/logout", logoutHandler(authSvc, logger))
	mux.Handle("/api/v1/auth/refresh", refreshHandler(authSvc, logger))

	secured := auth.Middleware(issuer)

	// User management (admin only)
	usersHandler := &UsersHandler{Service: authSvc, Store: userStore, Logger: logger}
	mux.Handle("/api/v1/users", secured(auth.RequireRole(usersHandler.ServeHTTP, auth.RoleAdmin)))

	// Vehicles
	vehicleList := &vehicles.ListHandler{Store: vehicleStore, Logger: logger}
	vehicleDetail := &vehicles.DetailHandler{Store: vehicleStore, Logger: logger}
	mux.Handle("/api/v1/vehicles", secured(vehicleList))
	mux.Handle("/api/v1/vehicles/", secured(vehicleDetail))

	// Trailers
	trailerList := &trailers.ListHandler{Store: trailerStore, Logger: logger}
	trailerDetail := &trailers.DetailHandler{Store: trailerStore, Logger: logger}
	mux.Handle("/api/v1/trailers", secured(trailerList))
	mux.Handle("/api/v1/trailers/", secured(trailerDetail))

	// Trips
	tripList := &trips.ListHandler{Store: tripStore, Logger: logger}
	tripDetail := &trips.DetailHandler{Store: tripStore, Logger: logger}
	mux.Handle("/api/v1/trips", secured(tripList))
	mux.Handle("/api/v1/trips/", secured(tripDetail))

	// CORS wrapper (simple, for local UI/tools).
	return withCORS(mux)
}
