package routes

import (
	"reelmatch_server/controllers"
	"reelmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for profiles under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()

	profileRouter.HandleFunc("", controller.HandleAddProfile).Methods("POST")
	profileRouter.HandleFunc("/{userId}", controller.HandleGetProfile).Methods("GET")
	profileRouter.HandleFunc("/{userId}", controller.HandleUpdateProfile).Methods("PATCH")
}
