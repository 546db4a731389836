package routes

import (
	"reelmatch_server/controllers"
	"reelmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterAnalyticsRoutes sets up the dashboard route under /api/analytics
func RegisterAnalyticsRoutes(r *mux.Router, analyticsService *services.AnalyticsService) {
	controller := controllers.NewAnalyticsController(analyticsService)

	analyticsRouter := r.PathPrefix("/api/analytics").Subrouter()

	analyticsRouter.HandleFunc("/dashboard", controller.HandleDashboard).Methods("GET")
}
