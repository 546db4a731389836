package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"reelmatch_server/services"
)

// AnalyticsController serves derived dashboard metrics
type AnalyticsController struct {
	AnalyticsService *services.AnalyticsService
}

func NewAnalyticsController(analyticsService *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// HandleDashboard builds the rolling-window dashboard for a creator.
// Aggregation never fails outward: a read problem degrades to zeroed
// metrics inside the service.
func (ac *AnalyticsController) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerId")
	if ownerID == "" {
		http.Error(w, "Missing ownerId", http.StatusBadRequest)
		return
	}

	windowDays := services.DefaultWindowDays
	if raw := r.URL.Query().Get("windowDays"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			windowDays = parsed
		}
	}

	dashboard := ac.AnalyticsService.BuildDashboard(context.Background(), ownerID, windowDays)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dashboard)
}
