package routes

import (
	"reelmatch_server/controllers"
	"reelmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterVideoRoutes sets up routes for video assets under /api/videos
func RegisterVideoRoutes(r *mux.Router, videoService *services.VideoService, mediaService *services.MediaService) {
	controller := controllers.NewVideoController(videoService, mediaService)

	videoRouter := r.PathPrefix("/api/videos").Subrouter()

	videoRouter.HandleFunc("", controller.HandleCreateVideo).Methods("POST")
	videoRouter.HandleFunc("/feed", controller.HandleGetFeed).Methods("GET")
	videoRouter.HandleFunc("/playback", controller.HandlePlaybackURLs).Methods("GET")
	videoRouter.HandleFunc("/uploadUrl", controller.HandleUploadURL).Methods("POST")
}
