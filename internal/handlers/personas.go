package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"niyyah/internal/models"
)

type personaCreateRequest struct {
	Name       string   `json:"name"`
	ArabicName string   `json:"arabic_name"`
	Domain     string   `json:"domain"`
	Eventually string   `json:"eventually"`
	Icon       string   `json:"icon"`
	Color      string   `json:"color"`
	OneThing   *string  `json:"one_thing"`
	Ritual     *string  `json:"ritual"`
	Guardrail  *string  `json:"guardrail"`
	Points     []string `json:"points"`
}

type personaUpdateRequest struct {
	Name       *string   `json:"name"`
	ArabicName *string   `json:"arabic_name"`
	Domain     *string   `json:"domain"`
	Eventually *string   `json:"eventually"`
	Icon       *string   `json:"icon"`
	Color      *string   `json:"color"`
	OneThing   *string   `json:"one_thing"`
	Ritual     *string   `json:"ritual"`
	Guardrail  *string   `json:"guardrail"`
	Points     *[]string `json:"points"`
	Order      *int      `json:"order"`
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (a *API) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var personas []models.Persona
	err := a.db.WithContext(r.Context()).
		Where("user_id = ?", user.ID).
		Preload("Milestones").
		Order("display_order").
		Find(&personas).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]personaResponse, 0, len(personas))
	for _, p := range personas {
		out = append(out, toPersonaResponse(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (a *API) handleCreatePersona(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req personaCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Domain = strings.TrimSpace(req.Domain)
	if req.Name == "" || req.Domain == "" {
		respondError(w, http.StatusBadRequest, errors.New("name and domain are required"))
		return
	}
	if req.Icon == "" {
		req.Icon = "star"
	}
	if req.Color == "" {
		req.Color = "#e11d48"
	}

	var count int64
	if err := a.db.WithContext(r.Context()).Model(&models.Persona{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if user.SubscriptionTier == models.TierFree && count >= maxFreePersonas {
		respondError(w, http.StatusForbidden, errors.New("free tier limited to 3 personas"))
		return
	}

	persona := models.Persona{
		UserID:     user.ID,
		Name:       req.Name,
		ArabicName: req.ArabicName,
		Domain:     req.Domain,
		Eventually: req.Eventually,
		Icon:       req.Icon,
		Color:      req.Color,
		OneThing:   req.OneThing,
		Ritual:     req.Ritual,
		Guardrail:  req.Guardrail,
		Points:     datatypes.NewJSONSlice(req.Points),
		Order:      int(count),
	}
	if err := a.db.WithContext(r.Context()).Create(&persona).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusCreated, toPersonaResponse(persona))
}

func (a *API) fetchPersona(r *http.Request, personaID uuid.UUID, preload bool) (*models.Persona, error) {
	user := userFrom(r)
	q := a.db.WithContext(r.Context()).Where("id = ? AND user_id = ?", personaID, user.ID)
	if preload {
		q = q.Preload("Milestones")
	}
	var persona models.Persona
	if err := q.First(&persona).Error; err != nil {
		return nil, err
	}
	return &persona, nil
}

func (a *API) handleGetPersona(w http.ResponseWriter, r *http.Request) {
	personaID, err := uuid.Parse(chi.URLParam(r, "personaID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid persona id is required"))
		return
	}

	persona, err := a.fetchPersona(r, personaID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, errors.New("persona not found"))
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, toPersonaResponse(*persona))
}

func (a *API) handleUpdatePersona(w http.ResponseWriter, r *http.Request) {
	personaID, err := uuid.Parse(chi.URLParam(r, "personaID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid persona id is required"))
		return
	}

	var req personaUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	persona, err := a.fetchPersona(r, personaID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, errors.New("persona not found"))
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	if req.Name != nil {
		persona.Name = *req.Name
	}
	if req.ArabicName != nil {
		persona.ArabicName = *req.ArabicName
	}
	if req.Domain != nil {
		persona.Domain = *req.Domain
	}
	if req.Eventually != nil {
		persona.Eventually = *req.Eventually
	}
	if req.Icon != nil {
		persona.Icon = *req.Icon
	}
	if req.Color != nil {
		persona.Color = *req.Color
	}
	if req.OneThing != nil {
		persona.OneThing = req.OneThing
	}
	if req.Ritual != nil {
		persona.Ritual = req.Ritual
	}
	if req.Guardrail != nil {
		persona.Guardrail = req.Guardrail
	}
	if req.Points != nil {
		persona.Points = datatypes.NewJSONSlice(*req.Points)
	}
	if req.Order != nil {
		persona.Order = *req.Order
	}

	if err := a.db.WithContext(r.Context()).Save(persona).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if err := a.db.WithContext(r.Context()).Where("persona_id = ?", persona.ID).Find(&persona.Milestones).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, toPersonaResponse(*persona))
}

func (a *API) handleDeletePersona(w http.ResponseWriter, r *http.Request) {
	personaID, err := uuid.Parse(chi.URLParam(r, "personaID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid persona id is required"))
		return
	}

	persona, err := a.fetchPersona(r, personaID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, errors.New("persona not found"))
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	err = a.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("persona_id = ?", persona.ID).Delete(&models.Milestone{}).Error; err != nil {
			return err
		}
		if err := tx.Where("persona_id = ?", persona.ID).Delete(&models.ScheduleBlock{}).Error; err != nil {
			return err
		}
		return tx.Delete(persona).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleReorderPersonas(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	err := a.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		for idx, id := range req.IDs {
			if err := tx.Model(&models.Persona{}).
				Where("id = ? AND user_id = ?", id, user.ID).
				Update("display_order", idx).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type milestoneCreateRequest struct {
	Goal       string `json:"goal"`
	TargetDate string `json:"target_date"`
}

func (a *API) handleAddMilestone(w http.ResponseWriter, r *http.Request) {
	personaID, err := uuid.Parse(chi.URLParam(r, "personaID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid persona id is required"))
		return
	}

	var req milestoneCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Goal) == "" {
		respondError(w, http.StatusBadRequest, errors.New("goal is required"))
		return
	}

	if _, err := a.fetchPersona(r, personaID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, errors.New("persona not found"))
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	var target *time.Time
	if req.TargetDate != "" {
		if parsed, err := parseDate(req.TargetDate); err == nil {
			target = &parsed
		}
	}

	milestone := models.Milestone{
		PersonaID:  personaID,
		Goal:       req.Goal,
		TargetDate: target,
	}
	if err := a.db.WithContext(r.Context()).Create(&milestone).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusCreated, toMilestoneResponse(milestone))
}

func (a *API) handleDeleteMilestone(w http.ResponseWriter, r *http.Request) {
	personaID, err := uuid.Parse(chi.URLParam(r, "personaID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid persona id is required"))
		return
	}
	milestoneID, err := uuid.Parse(chi.URLParam(r, "milestoneID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid milestone id is required"))
		return
	}

	if _, err := a.fetchPersona(r, personaID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, errors.New("milestone not found"))
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	res := a.db.WithContext(r.Context()).
		Where("id = ? AND persona_id = ?", milestoneID, personaID).
		Delete(&models.Milestone{})
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, errors.New("milestone not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
