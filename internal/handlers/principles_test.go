package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestPrincipleLifecycle(t *testing.T) {
	api := newTestAPI(t)
	access, _ := registerUser(t, api, "a@x.com")

	rec := doJSON(t, api, http.MethodPost, "/api/v1/principles", access, map[string]any{
		"name":    "Ihsan",
		"arabic":  "إحسان",
		"meaning": "Excellence in worship and work",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var principle struct {
		ID    string `json:"id"`
		Icon  string `json:"icon"`
		Order int    `json:"order"`
	}
	decodeBody(t, rec, &principle)
	if principle.Icon != "heart" {
		t.Fatalf("icon = %q, want heart default", principle.Icon)
	}
	if principle.Order != 0 {
		t.Fatalf("order = %d, want 0", principle.Order)
	}

	rec = doJSON(t, api, http.MethodPatch, "/api/v1/principles/"+principle.ID, access, map[string]any{
		"icon": "lamp",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		Name string `json:"name"`
		Icon string `json:"icon"`
	}
	decodeBody(t, rec, &updated)
	if updated.Name != "Ihsan" || updated.Icon != "lamp" {
		t.Fatalf("unexpected patched principle: %+v", updated)
	}

	rec = doJSON(t, api, http.MethodDelete, "/api/v1/principles/"+principle.ID, access, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, api, http.MethodDelete, "/api/v1/principles/"+uuid.NewString(), access, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete unknown principle status = %d, want 404", rec.Code)
	}
}

func TestPrincipleValidation(t *testing.T) {
	api := newTestAPI(t)
	access, _ := registerUser(t, api, "a@x.com")

	rec := doJSON(t, api, http.MethodPost, "/api/v1/principles", access, map[string]any{
		"name": "Ihsan",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing meaning status = %d, want 400", rec.Code)
	}
}
