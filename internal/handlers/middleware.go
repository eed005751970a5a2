package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"niyyah/internal/models"
)

type contextKey string

const userContextKey contextKey = "niyyah.user"

var errUnauthorized = errors.New("invalid or expired token")

// requireUser authenticates the bearer access token and loads the user row
// into the request context. Deactivated accounts are rejected the same way as
// bad tokens.
func (a *API) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}

		userID, err := a.auth.ParseToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}

		var user models.User
		if err := a.db.WithContext(r.Context()).Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(w, http.StatusUnauthorized, errUnauthorized)
				return
			}
			respondError(w, http.StatusInternalServerError, err)
			return
		}
		if !user.IsActive {
			respondError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFrom(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}
