package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"reelmatch_server/routes"
	"reelmatch_server/services"
	"reelmatch_server/socket"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	engagementService := &services.EngagementService{Dynamo: dynamoService}
	analyticsService := &services.AnalyticsService{Dynamo: dynamoService}
	videoService := &services.VideoService{Dynamo: dynamoService}
	mediaService := services.NewMediaService(awsCfg)
	gestureService := services.NewGestureService()
	connectionClient := services.NewConnectionClient()
	matchService := services.NewMatchService(connectionClient, userProfileService, engagementService, gestureService)

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to ReelMatch")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterVideoRoutes(r, videoService, mediaService)
	routes.RegisterEngagementRoutes(r, engagementService)
	routes.RegisterSwipeRoutes(r, gestureService, matchService)
	routes.RegisterAnalyticsRoutes(r, analyticsService)

	// Realtime viewport channel
	socketServer := socket.NewServer(engagementService, userProfileService, matchService)
	go func() {
		if err := socketServer.IO.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.IO.Close()
	r.Handle("/socket.io/", socketServer.IO)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
