package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"niyyah/internal/models"
)

type principleCreateRequest struct {
	Name    string  `json:"name"`
	Arabic  string  `json:"arabic"`
	Meaning string  `json:"meaning"`
	Verse   *string `json:"verse"`
	Icon    string  `json:"icon"`
}

type principleUpdateRequest struct {
	Name    *string `json:"name"`
	Arabic  *string `json:"arabic"`
	Meaning *string `json:"meaning"`
	Verse   *string `json:"verse"`
	Icon    *string `json:"icon"`
	Order   *int    `json:"order"`
}

func (a *API) handleListPrinciples(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var principles []models.Principle
	err := a.db.WithContext(r.Context()).
		Where("user_id = ?", user.ID).
		Order("display_order").
		Find(&principles).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]principleResponse, 0, len(principles))
	for _, p := range principles {
		out = append(out, toPrincipleResponse(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (a *API) handleCreatePrinciple(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req principleCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Meaning) == "" {
		respondError(w, http.StatusBadRequest, errors.New("name and meaning are required"))
		return
	}
	if req.Icon == "" {
		req.Icon = "heart"
	}

	var count int64
	if err := a.db.WithContext(r.Context()).Model(&models.Principle{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	principle := models.Principle{
		UserID:  user.ID,
		Name:    req.Name,
		Arabic:  req.Arabic,
		Meaning: req.Meaning,
		Verse:   req.Verse,
		Icon:    req.Icon,
		Order:   int(count),
	}
	if err := a.db.WithContext(r.Context()).Create(&principle).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPrincipleResponse(principle))
}

func (a *API) handleUpdatePrinciple(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	principleID, err := uuid.Parse(chi.URLParam(r, "principleID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid principle id is required"))
		return
	}

	var req principleUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var principle models.Principle
	if err := a.db.WithContext(r.Context()).Where("id = ? AND user_id = ?", principleID, user.ID).First(&principle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, errors.New("principle not found"))
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	if req.Name != nil {
		principle.Name = *req.Name
	}
	if req.Arabic != nil {
		principle.Arabic = *req.Arabic
	}
	if req.Meaning != nil {
		principle.Meaning = *req.Meaning
	}
	if req.Verse != nil {
		principle.Verse = req.Verse
	}
	if req.Icon != nil {
		principle.Icon = *req.Icon
	}
	if req.Order != nil {
		principle.Order = *req.Order
	}

	if err := a.db.WithContext(r.Context()).Save(&principle).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, toPrincipleResponse(principle))
}

func (a *API) handleDeletePrinciple(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	principleID, err := uuid.Parse(chi.URLParam(r, "principleID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid principle id is required"))
		return
	}

	res := a.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", principleID, user.ID).
		Delete(&models.Principle{})
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, errors.New("principle not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
