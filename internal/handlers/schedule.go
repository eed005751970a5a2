package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"niyyah/internal/models"
)

var wallClockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type blockCreateRequest struct {
	PersonaID     uuid.UUID `json:"persona_id"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Activity      string    `json:"activity"`
	DayType       string    `json:"day_type"`
	IsPrayerBlock bool      `json:"is_prayer_block"`
}

type blockUpdateRequest struct {
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	Activity      *string `json:"activity"`
	DayType       *string `json:"day_type"`
	IsPrayerBlock *bool   `json:"is_prayer_block"`
	Order         *int    `json:"order"`
}

func (a *API) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var blocks []models.ScheduleBlock
	err := a.db.WithContext(r.Context()).
		Where("user_id = ?", user.ID).
		Order("start_time").
		Find(&blocks).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]scheduleBlockResponse, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toScheduleBlockResponse(b))
	}
	respondJSON(w, http.StatusOK, out)
}

func (a *API) handleCreateBlock(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req blockCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	req.Activity = strings.TrimSpace(req.Activity)
	if req.Activity == "" {
		respondError(w, http.StatusBadRequest, errors.New("activity is required"))
		return
	}
	if !wallClockRe.MatchString(req.StartTime) || !wallClockRe.MatchString(req.EndTime) {
		respondError(w, http.StatusBadRequest, errors.New("start_time and end_time must be HH:MM"))
		return
	}
	if req.DayType == "" {
		req.DayType = models.DayTypeWeekday
	}

	// The block's persona must belong to the caller.
	var personaCount int64
	err := a.db.WithContext(r.Context()).Model(&models.Persona{}).
		Where("id = ? AND user_id = ?", req.PersonaID, user.ID).
		Count(&personaCount).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if personaCount == 0 {
		respondError(w, http.StatusNotFound, errors.New("persona not found"))
		return
	}

	var count int64
	if err := a.db.WithContext(r.Context()).Model(&models.ScheduleBlock{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if user.SubscriptionTier == models.TierFree && count >= maxFreeScheduleBlocks {
		respondError(w, http.StatusForbidden, errors.New("free tier limited to 10 schedule blocks"))
		return
	}

	block := models.ScheduleBlock{
		UserID:        user.ID,
		PersonaID:     req.PersonaID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Activity:      req.Activity,
		DayType:       req.DayType,
		IsPrayerBlock: req.IsPrayerBlock,
		Order:         int(count),
	}
	if err := a.db.WithContext(r.Context()).Create(&block).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusCreated, toScheduleBlockResponse(block))
}

func (a *API) handleUpdateBlock(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	blockID, err := uuid.Parse(chi.URLParam(r, "blockID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid block id is required"))
		return
	}

	var req blockUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.StartTime != nil && !wallClockRe.MatchString(*req.StartTime) {
		respondError(w, http.StatusBadRequest, errors.New("start_time must be HH:MM"))
		return
	}
	if req.EndTime != nil && !wallClockRe.MatchString(*req.EndTime) {
		respondError(w, http.StatusBadRequest, errors.New("end_time must be HH:MM"))
		return
	}

	var block models.ScheduleBlock
	if err := a.db.WithContext(r.Context()).Where("id = ? AND user_id = ?", blockID, user.ID).First(&block).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, errors.New("block not found"))
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	if req.StartTime != nil {
		block.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		block.EndTime = *req.EndTime
	}
	if req.Activity != nil {
		block.Activity = *req.Activity
	}
	if req.DayType != nil {
		block.DayType = *req.DayType
	}
	if req.IsPrayerBlock != nil {
		block.IsPrayerBlock = *req.IsPrayerBlock
	}
	if req.Order != nil {
		block.Order = *req.Order
	}

	if err := a.db.WithContext(r.Context()).Save(&block).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, toScheduleBlockResponse(block))
}

func (a *API) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	blockID, err := uuid.Parse(chi.URLParam(r, "blockID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid block id is required"))
		return
	}

	res := a.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", blockID, user.ID).
		Delete(&models.ScheduleBlock{})
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, errors.New("block not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
