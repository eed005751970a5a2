package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"niyyah/internal/auth"
	"niyyah/internal/db"
	"niyyah/internal/tracker"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(context.Background(), database); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	authSvc, err := auth.NewService(database, auth.Config{SecretKey: "test-secret"})
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	trackerSvc, err := tracker.NewService(database)
	if err != nil {
		t.Fatalf("tracker service: %v", err)
	}

	api, err := New(database, authSvc, trackerSvc, nil, Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return api
}

func doJSON(t *testing.T, api *API, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	api.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// registerUser registers a fresh account and returns its token pair.
func registerUser(t *testing.T, api *API, email string) (access, refresh string) {
	t.Helper()

	rec := doJSON(t, api, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    email,
		"password": "password1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}

	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	decodeBody(t, rec, &pair)
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("incomplete token pair: %s", rec.Body.String())
	}
	return pair.AccessToken, pair.RefreshToken
}

// createHabit creates a non-negotiable and returns its ID.
func createHabit(t *testing.T, api *API, token, title string) string {
	t.Helper()

	rec := doJSON(t, api, http.MethodPost, "/api/v1/tracker/non-negotiables", token, map[string]any{
		"title": title,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create habit status = %d, body %s", rec.Code, rec.Body.String())
	}
	var habit struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &habit)
	return habit.ID
}

// createPersona creates a persona and returns its ID.
func createPersona(t *testing.T, api *API, token, name string) string {
	t.Helper()

	rec := doJSON(t, api, http.MethodPost, "/api/v1/personas", token, map[string]any{
		"name":   name,
		"domain": fmt.Sprintf("%s domain", name),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create persona status = %d, body %s", rec.Code, rec.Body.String())
	}
	var persona struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &persona)
	return persona.ID
}
