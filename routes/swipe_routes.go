package routes

import (
	"reelmatch_server/controllers"
	"reelmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterSwipeRoutes sets up routes for gesture dispatch under /api/swipe
func RegisterSwipeRoutes(r *mux.Router, gestureService *services.GestureService, matchService *services.MatchService) {
	controller := controllers.NewSwipeController(gestureService, matchService)

	swipeRouter := r.PathPrefix("/api/swipe").Subrouter()

	swipeRouter.HandleFunc("/release", controller.HandleSwipeRelease).Methods("POST")
	swipeRouter.HandleFunc("/button", controller.HandleSwipeButton).Methods("POST")
}
