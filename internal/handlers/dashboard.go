package handlers

import (
	"net/http"

	"niyyah/internal/models"
)

// handleDashboard aggregates the read-mostly landing view: personas, schedule,
// today's completion counts, and streak summaries.
func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	ctx := r.Context()

	var personas []models.Persona
	if err := a.db.WithContext(ctx).Where("user_id = ?", user.ID).Order("display_order").Find(&personas).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	var blocks []models.ScheduleBlock
	if err := a.db.WithContext(ctx).Where("user_id = ?", user.ID).Order("start_time").Find(&blocks).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	view, err := a.tracker.Today(ctx, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	settings, err := a.loadSettings(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	personaSummaries := make([]map[string]any, 0, len(personas))
	for _, p := range personas {
		personaSummaries = append(personaSummaries, map[string]any{
			"id":          p.ID,
			"name":        p.Name,
			"arabic_name": p.ArabicName,
			"domain":      p.Domain,
			"icon":        p.Icon,
			"color":       p.Color,
		})
	}

	blockSummaries := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		blockSummaries = append(blockSummaries, map[string]any{
			"id":              b.ID,
			"start_time":      b.StartTime,
			"end_time":        b.EndTime,
			"activity":        b.Activity,
			"persona_id":      b.PersonaID,
			"is_prayer_block": b.IsPrayerBlock,
		})
	}

	streaks := make([]map[string]any, 0, len(view.NonNegotiables))
	for _, nn := range view.NonNegotiables {
		current, longest := 0, 0
		if nn.Streak != nil {
			current = nn.Streak.CurrentStreak
			longest = nn.Streak.LongestStreak
		}
		streaks = append(streaks, map[string]any{
			"title":   nn.Title,
			"current": current,
			"longest": longest,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"super_objective":               settings.SuperObjective,
		"personas":                      personaSummaries,
		"schedule_blocks":               blockSummaries,
		"non_negotiables_total":         len(view.NonNegotiables),
		"non_negotiables_checked_today": len(view.Checks),
		"streaks":                       streaks,
	})
}
