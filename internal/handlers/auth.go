package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"niyyah/internal/auth"
	"niyyah/internal/bus"
	"niyyah/internal/metrics"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Timezone string `json:"timezone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid email is required"))
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, errors.New("password must be at least 8 characters"))
		return
	}

	user, err := a.auth.Register(r.Context(), req.Email, req.Password, req.Timezone)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	pair, err := a.auth.IssueTokens(r.Context(), user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	a.bus.Publish(bus.UserRegisteredSubject, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})

	respondJSON(w, http.StatusCreated, pair)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	user, err := a.auth.Authenticate(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	pair, err := a.auth.IssueTokens(r.Context(), user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, pair)
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, errors.New("refresh_token is required"))
		return
	}

	pair, err := a.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			metrics.TokensRefreshed.WithLabelValues("invalid").Inc()
			respondError(w, http.StatusUnauthorized, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	metrics.TokensRefreshed.WithLabelValues("success").Inc()
	respondJSON(w, http.StatusOK, pair)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if err := a.auth.Revoke(r.Context(), req.RefreshToken); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toUserResponse(userFrom(r)))
}
