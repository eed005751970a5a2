package handlers

import (
	"github.com/google/uuid"

	"niyyah/internal/models"
)

type userResponse struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Timezone         string    `json:"timezone"`
	Locale           string    `json:"locale"`
	SubscriptionTier string    `json:"subscription_tier"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Email:            u.Email,
		Timezone:         u.Timezone,
		Locale:           u.Locale,
		SubscriptionTier: u.SubscriptionTier,
	}
}

type milestoneResponse struct {
	ID          uuid.UUID `json:"id"`
	PersonaID   uuid.UUID `json:"persona_id"`
	Goal        string    `json:"goal"`
	TargetDate  *string   `json:"target_date"`
	IsCompleted bool      `json:"is_completed"`
}

func toMilestoneResponse(m models.Milestone) milestoneResponse {
	return milestoneResponse{
		ID:          m.ID,
		PersonaID:   m.PersonaID,
		Goal:        m.Goal,
		TargetDate:  formatDatePtr(m.TargetDate),
		IsCompleted: m.IsCompleted,
	}
}

type personaResponse struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	ArabicName string              `json:"arabic_name"`
	Domain     string              `json:"domain"`
	Eventually string              `json:"eventually"`
	Icon       string              `json:"icon"`
	Color      string              `json:"color"`
	OneThing   *string             `json:"one_thing"`
	Ritual     *string             `json:"ritual"`
	Guardrail  *string             `json:"guardrail"`
	Points     []string            `json:"points"`
	Order      int                 `json:"order"`
	Milestones []milestoneResponse `json:"milestones"`
}

func toPersonaResponse(p models.Persona) personaResponse {
	milestones := make([]milestoneResponse, 0, len(p.Milestones))
	for _, m := range p.Milestones {
		milestones = append(milestones, toMilestoneResponse(m))
	}
	points := []string(p.Points)
	if points == nil {
		points = []string{}
	}
	return personaResponse{
		ID:         p.ID,
		Name:       p.Name,
		ArabicName: p.ArabicName,
		Domain:     p.Domain,
		Eventually: p.Eventually,
		Icon:       p.Icon,
		Color:      p.Color,
		OneThing:   p.OneThing,
		Ritual:     p.Ritual,
		Guardrail:  p.Guardrail,
		Points:     points,
		Order:      p.Order,
		Milestones: milestones,
	}
}

type scheduleBlockResponse struct {
	ID            uuid.UUID `json:"id"`
	PersonaID     uuid.UUID `json:"persona_id"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Activity      string    `json:"activity"`
	DayType       string    `json:"day_type"`
	IsPrayerBlock bool      `json:"is_prayer_block"`
	Order         int       `json:"order"`
}

func toScheduleBlockResponse(b models.ScheduleBlock) scheduleBlockResponse {
	return scheduleBlockResponse{
		ID:            b.ID,
		PersonaID:     b.PersonaID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Activity:      b.Activity,
		DayType:       b.DayType,
		IsPrayerBlock: b.IsPrayerBlock,
		Order:         b.Order,
	}
}

type principleResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Arabic  string    `json:"arabic"`
	Meaning string    `json:"meaning"`
	Verse   *string   `json:"verse"`
	Icon    string    `json:"icon"`
	Order   int       `json:"order"`
}

func toPrincipleResponse(p models.Principle) principleResponse {
	return principleResponse{
		ID:      p.ID,
		Name:    p.Name,
		Arabic:  p.Arabic,
		Meaning: p.Meaning,
		Verse:   p.Verse,
		Icon:    p.Icon,
		Order:   p.Order,
	}
}

type streakResponse struct {
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	LastCheckDate *string `json:"last_check_date"`
}

type habitResponse struct {
	ID       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Order    int             `json:"order"`
	Streak   *streakResponse `json:"streak"`
}

func toHabitResponse(h models.NonNegotiable) habitResponse {
	resp := habitResponse{
		ID:       h.ID,
		Title:    h.Title,
		Category: h.Category,
		Order:    h.Order,
	}
	if h.Streak != nil {
		resp.Streak = &streakResponse{
			CurrentStreak: h.Streak.CurrentStreak,
			LongestStreak: h.Streak.LongestStreak,
			LastCheckDate: formatDatePtr(h.Streak.LastCheckDate),
		}
	}
	return resp
}

type checkResponse struct {
	ID              uuid.UUID `json:"id"`
	NonNegotiableID uuid.UUID `json:"non_negotiable_id"`
	CheckDate       string    `json:"check_date"`
	IsCompleted     bool      `json:"is_completed"`
}

func toCheckResponse(c models.DailyCheck) checkResponse {
	return checkResponse{
		ID:              c.ID,
		NonNegotiableID: c.NonNegotiableID,
		CheckDate:       formatDate(c.CheckDate),
		IsCompleted:     c.IsCompleted,
	}
}

type settingsResponse struct {
	SuperObjective          string   `json:"super_objective"`
	PrayerCalculationMethod string   `json:"prayer_calculation_method"`
	Latitude                *float64 `json:"latitude"`
	Longitude               *float64 `json:"longitude"`
	Theme                   string   `json:"theme"`
}

func toSettingsResponse(s models.UserSettings) settingsResponse {
	return settingsResponse{
		SuperObjective:          s.SuperObjective,
		PrayerCalculationMethod: s.PrayerCalculationMethod,
		Latitude:                s.Latitude,
		Longitude:               s.Longitude,
		Theme:                   s.Theme,
	}
}
