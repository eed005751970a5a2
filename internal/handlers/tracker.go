package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"niyyah/internal/bus"
	"niyyah/internal/metrics"
	"niyyah/internal/tracker"
)

type habitCreateRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

type habitUpdateRequest struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
	Order    *int    `json:"order"`
}

type checkRequest struct {
	NonNegotiableID uuid.UUID `json:"non_negotiable_id"`
	CheckDate       string    `json:"check_date"`
}

func (a *API) handleListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := a.tracker.ListHabits(r.Context(), userFrom(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]habitResponse, 0, len(habits))
	for _, h := range habits {
		out = append(out, toHabitResponse(h))
	}
	respondJSON(w, http.StatusOK, out)
}

func (a *API) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req habitCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, errors.New("title is required"))
		return
	}

	habit, err := a.tracker.CreateHabit(r.Context(), userFrom(r).ID, req.Title, req.Category)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusCreated, toHabitResponse(*habit))
}

func (a *API) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	habitID, err := uuid.Parse(chi.URLParam(r, "habitID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid habit id is required"))
		return
	}

	var req habitUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	habit, err := a.tracker.UpdateHabit(r.Context(), userFrom(r).ID, habitID, tracker.HabitPatch{
		Title:    req.Title,
		Category: req.Category,
		Order:    req.Order,
	})
	if err != nil {
		if errors.Is(err, tracker.ErrHabitNotFound) {
			respondError(w, http.StatusNotFound, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, toHabitResponse(*habit))
}

func (a *API) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	habitID, err := uuid.Parse(chi.URLParam(r, "habitID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid habit id is required"))
		return
	}

	if err := a.tracker.DeleteHabit(r.Context(), userFrom(r).ID, habitID); err != nil {
		if errors.Is(err, tracker.ErrHabitNotFound) {
			respondError(w, http.StatusNotFound, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleRecordCheck(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req checkRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.NonNegotiableID == uuid.Nil {
		respondError(w, http.StatusBadRequest, errors.New("non_negotiable_id is required"))
		return
	}

	var date *time.Time
	if req.CheckDate != "" {
		parsed, err := parseDate(req.CheckDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, errors.New("check_date must be YYYY-MM-DD"))
			return
		}
		date = &parsed
	}

	check, err := a.tracker.RecordCheck(r.Context(), user.ID, req.NonNegotiableID, date)
	if err != nil {
		switch {
		case errors.Is(err, tracker.ErrHabitNotFound):
			respondError(w, http.StatusNotFound, err)
			return
		case errors.Is(err, tracker.ErrAlreadyChecked):
			respondError(w, http.StatusBadRequest, err)
			return
		default:
			respondError(w, http.StatusInternalServerError, err)
			return
		}
	}

	metrics.ChecksRecorded.Inc()
	a.bus.Publish(bus.CheckRecordedSubject, map[string]any{
		"user_id":           user.ID,
		"non_negotiable_id": check.NonNegotiableID,
		"check_date":        formatDate(check.CheckDate),
	})

	respondJSON(w, http.StatusCreated, toCheckResponse(*check))
}

func (a *API) handleDeleteCheck(w http.ResponseWriter, r *http.Request) {
	checkID, err := uuid.Parse(chi.URLParam(r, "checkID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid check id is required"))
		return
	}

	if err := a.tracker.DeleteCheck(r.Context(), userFrom(r).ID, checkID); err != nil {
		if errors.Is(err, tracker.ErrCheckNotFound) {
			respondError(w, http.StatusNotFound, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleToday(w http.ResponseWriter, r *http.Request) {
	view, err := a.tracker.Today(r.Context(), userFrom(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	checks := make([]checkResponse, 0, len(view.Checks))
	for _, c := range view.Checks {
		checks = append(checks, toCheckResponse(c))
	}
	habits := make([]habitResponse, 0, len(view.NonNegotiables))
	for _, h := range view.NonNegotiables {
		habits = append(habits, toHabitResponse(h))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"date":            formatDate(view.Date),
		"checks":          checks,
		"non_negotiables": habits,
	})
}
