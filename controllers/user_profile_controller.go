package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"reelmatch_server/models"
	"reelmatch_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles HTTP requests for user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// HandleAddProfile creates a user profile
func (upc *UserProfileController) HandleAddProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := upc.UserProfileService.AddUserProfile(context.Background(), profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// HandleGetProfile retrieves a user profile
func (upc *UserProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := upc.UserProfileService.GetUserProfile(context.Background(), userID)
	if err != nil {
		if services.IsNotFound(err) {
			http.Error(w, "Profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch profile", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
}

// HandleUpdateProfile updates string attributes on a profile
func (upc *UserProfileController) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, err := upc.UserProfileService.UpdateUserProfile(context.Background(), userID, updates)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
}
