package routes

import (
	"reelmatch_server/controllers"
	"reelmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterEngagementRoutes sets up routes for view/like records under /api/engagement
func RegisterEngagementRoutes(r *mux.Router, engagementService *services.EngagementService) {
	controller := controllers.NewEngagementController(engagementService)

	engagementRouter := r.PathPrefix("/api/engagement").Subrouter()

	engagementRouter.HandleFunc("/view", controller.HandleRecordView).Methods("POST")
	engagementRouter.HandleFunc("/like", controller.HandleToggleLike).Methods("POST")
	engagementRouter.HandleFunc("/liked", controller.HandleCheckLiked).Methods("GET")
}
