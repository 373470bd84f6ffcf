package main

import (
	"log"
	"net/http"

	"newsflow-backend/internal/config"
	"newsflow-backend/internal/database"
	"newsflow-backend/internal/handlers"
	"newsflow-backend/internal/middleware"
	"newsflow-backend/internal/notify"
	"newsflow-backend/internal/storage"
	"newsflow-backend/internal/workflow"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Run migrations
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()
	log.Println("Migrations completed successfully")

	// Create database client
	dbClient, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	// Select the blob storage backend
	var blobs storage.BlobStore
	switch cfg.StorageBackend {
	case "supabase":
		blobs, err = storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseStorageBucket)
		if err != nil {
			log.Fatalf("Failed to initialize supabase storage: %v", err)
		}
	default:
		blobs, err = storage.NewDiskStore(cfg.UploadDir)
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
	}

	// Realtime notification fan-out is best effort and only available
	// when Supabase is configured.
	var publisher notify.Publisher = notify.NoopPublisher{}
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		realtime, err := notify.NewRealtimePublisher(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			log.Printf("Warning: Failed to initialize realtime publisher: %v", err)
		} else {
			publisher = realtime
		}
	}

	engine := workflow.NewEngine(dbClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, dbClient)
	projectsHandler := handlers.NewProjectsHandler(dbClient, engine, publisher)
	transitionsHandler := handlers.NewTransitionsHandler(engine, publisher)
	actionsHandler := handlers.NewActionsHandler(dbClient)
	assetsHandler := handlers.NewAssetsHandler(dbClient, engine, blobs)
	notificationsHandler := handlers.NewNotificationsHandler(dbClient)
	dashboardHandler := handlers.NewDashboardHandler(dbClient)

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(cors.Default())

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Public auth routes
	router.POST("/api/v1/register", authHandler.Register)
	router.POST("/api/v1/login", authHandler.Login)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Users
	api.GET("/users", authHandler.ListUsers)

	// Project routes
	api.POST("/projects", projectsHandler.CreateProject)
	api.GET("/projects", projectsHandler.ListProjects)
	api.GET("/projects/:project_id", projectsHandler.GetProject)
	api.PUT("/projects/:project_id", projectsHandler.EditProject)
	api.DELETE("/projects/:project_id", projectsHandler.DeleteProject)

	// Workflow moves
	api.POST("/projects/:project_id/forward", transitionsHandler.Forward)
	api.POST("/projects/:project_id/send-back", transitionsHandler.SendBack)

	// Audit trail
	api.GET("/projects/:project_id/actions", actionsHandler.GetActions)

	// Assets
	api.POST("/projects/:project_id/upload", assetsHandler.Upload)
	api.GET("/projects/:project_id/assets", assetsHandler.ListAssets)
	api.GET("/assets/:asset_id/download", assetsHandler.Download)

	// Notifications and dashboard
	api.GET("/notifications", notificationsHandler.ListNotifications)
	api.PUT("/notifications/:notification_id/read", notificationsHandler.MarkRead)
	api.GET("/dashboard/stats", dashboardHandler.GetStats)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
