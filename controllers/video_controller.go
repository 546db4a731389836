package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"reelmatch_server/services"
)

// VideoController handles HTTP requests for video assets and delivery URLs
type VideoController struct {
	VideoService *services.VideoService
	MediaService *services.MediaService
}

func NewVideoController(videoService *services.VideoService, mediaService *services.MediaService) *VideoController {
	return &VideoController{VideoService: videoService, MediaService: mediaService}
}

// HandleCreateVideo registers uploaded video metadata
func (vc *VideoController) HandleCreateVideo(w http.ResponseWriter, r *http.Request) {
	var request struct {
		OwnerID string `json:"ownerId"`
		Title   string `json:"title"`
		S3Key   string `json:"s3Key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	asset, err := vc.VideoService.CreateVideo(context.Background(), request.OwnerID, request.Title, request.S3Key)
	if err != nil {
		log.Printf("❌ Failed to create video: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}

// HandleGetFeed lists browseable videos for a viewer
func (vc *VideoController) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	viewerID := r.URL.Query().Get("viewerId")
	if viewerID == "" {
		http.Error(w, "Missing viewerId", http.StatusBadRequest)
		return
	}

	assets, err := vc.VideoService.GetFeed(context.Background(), viewerID)
	if err != nil {
		http.Error(w, "Failed to fetch feed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"videos": assets})
}

// HandlePlaybackURLs returns the deterministic delivery URLs per preset
func (vc *VideoController) HandlePlaybackURLs(w http.ResponseWriter, r *http.Request) {
	videoID := r.URL.Query().Get("videoId")
	if videoID == "" {
		http.Error(w, "Missing videoId", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"videoId": videoID,
		"urls":    vc.MediaService.PlaybackURLs(videoID),
	})
}

// HandleUploadURL generates a presigned S3 upload URL for video ingest
func (vc *VideoController) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	url, key, err := vc.MediaService.GenerateUploadURL(context.Background(), request.FileName, request.FileType)
	if err != nil {
		log.Printf("❌ Failed to presign upload: %v", err)
		http.Error(w, "Failed to generate upload URL", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"uploadUrl": url, "key": key})
}
