package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"fleetcore/internal/auth"
)

func loginHandler(svc *auth.Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		user, pair, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			logger.Error("login", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"accessToken":  pair.AccessToken,
			"refreshToken": pair.RefreshToken,
			"user":         user,
		})
	})
}

func registerHandler(svc *auth.Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var input auth.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		user, err := svc.Register(r.Context(), input)
		if err != nil {
			var verr *auth.ValidationError
			switch {
			case errors.As(err, &verr):
				writeError(w, http.StatusBadRequest, verr.Error())
			case errors.Is(err, auth.ErrDuplicateEmail):
				writeError(w, http.StatusBadRequest, "email already registered")
			default:
				logger.Error("register", "err", err)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
	})
}

func logoutHandler(svc *auth.Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var payload struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if err := svc.Logout(r.Context(), payload.RefreshToken); err != nil {
			if errors.Is(err, auth.ErrInvalidRefreshToken) {
				writeError(w, http.StatusBadRequest, "invalid refresh token")
				return
			}
			logger.Error("logout", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "logged out",
		})
	})
}

func refreshHandler(svc *auth.Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var payload struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		access, err := svc.Refresh(r.Context(), payload.RefreshToken)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidRefreshToken):
				writeError(w, http.StatusUnauthorized, "invalid refresh token")
			case errors.Is(err, auth.ErrUserNotFound):
				writeError(w, http.StatusUnauthorized, "account no longer exists")
			default:
				logger.Error("refresh", "err", err)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"accessToken": access})
	})
}
