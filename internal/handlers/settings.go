package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"niyyah/internal/models"
)

type settingsUpdateRequest struct {
	SuperObjective          *string  `json:"super_objective"`
	PrayerCalculationMethod *string  `json:"prayer_calculation_method"`
	Latitude                *float64 `json:"latitude"`
	Longitude               *float64 `json:"longitude"`
	Theme                   *string  `json:"theme"`
}

// loadSettings fetches the user's settings row, creating a default one if it
// is missing (accounts predating the settings table).
func (a *API) loadSettings(r *http.Request) (*models.UserSettings, error) {
	user := userFrom(r)

	var settings models.UserSettings
	err := a.db.WithContext(r.Context()).Where("user_id = ?", user.ID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.DefaultSettings(user.ID)
	if err := a.db.WithContext(r.Context()).Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (a *API) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.loadSettings(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, toSettingsResponse(*settings))
}

func (a *API) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	settings, err := a.loadSettings(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	if req.SuperObjective != nil {
		settings.SuperObjective = *req.SuperObjective
	}
	if req.PrayerCalculationMethod != nil {
		settings.PrayerCalculationMethod = *req.PrayerCalculationMethod
	}
	if req.Latitude != nil {
		settings.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		settings.Longitude = req.Longitude
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}

	if err := a.db.WithContext(r.Context()).Save(settings).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, toSettingsResponse(*settings))
}
