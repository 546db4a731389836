package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"reelmatch_server/services"
)

// EngagementController handles HTTP requests for raw engagement records
type EngagementController struct {
	EngagementService *services.EngagementService
}

// NewEngagementController creates a new EngagementController instance
func NewEngagementController(engagementService *services.EngagementService) *EngagementController {
	return &EngagementController{EngagementService: engagementService}
}

// HandleRecordView records a dwell-completed view. Best-effort telemetry:
// the response is always accepted.
func (ec *EngagementController) HandleRecordView(w http.ResponseWriter, r *http.Request) {
	var request struct {
		VideoID  string `json:"videoId"`
		ViewerID string `json:"viewerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.VideoID == "" || request.ViewerID == "" {
		http.Error(w, "Missing videoId or viewerId", http.StatusBadRequest)
		return
	}

	ec.EngagementService.RecordView(context.Background(), request.VideoID, request.ViewerID)

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"message": "View recorded"})
}

// HandleToggleLike flips the like state for a (video, viewer) pair
func (ec *EngagementController) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	var request struct {
		VideoID  string `json:"videoId"`
		ViewerID string `json:"viewerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.VideoID == "" || request.ViewerID == "" {
		http.Error(w, "Missing videoId or viewerId", http.StatusBadRequest)
		return
	}

	result, err := ec.EngagementService.ToggleLike(context.Background(), request.VideoID, request.ViewerID)
	if err != nil {
		log.Printf("❌ Toggle like failed: %v", err)
		if services.IsNotFound(err) {
			http.Error(w, "Video not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to toggle like", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// HandleCheckLiked reports whether the viewer has a live like record
func (ec *EngagementController) HandleCheckLiked(w http.ResponseWriter, r *http.Request) {
	videoID := r.URL.Query().Get("videoId")
	viewerID := r.URL.Query().Get("viewerId")
	if videoID == "" || viewerID == "" {
		http.Error(w, "Missing videoId or viewerId", http.StatusBadRequest)
		return
	}

	liked, err := ec.EngagementService.CheckLiked(context.Background(), videoID, viewerID)
	if err != nil {
		http.Error(w, "Failed to check like state", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{"liked": liked})
}
