package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"smartechtool/api/config"
	"smartechtool/api/database"
	"smartechtool/api/handlers"
	"smartechtool/api/middleware"
	"smartechtool/api/netcore"
	"smartechtool/api/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- PostgreSQL: users, call history, saved form state ---
	dbClient, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- ClickHouse: dispatch analytics ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	historyStore := store.NewHistoryStore(dbClient.DB)
	formStateStore := store.NewFormStateStore(dbClient.DB)
	dispatchStore := store.NewDispatchStore(chClient)

	// --- Outbound API client ---
	apiClient := netcore.NewClient(cfg.RequestTimeout)

	// --- Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	importHandlers := handlers.NewImportHandlers()
	dispatchHandlers := handlers.NewDispatchHandlers(cfg, apiClient, historyStore, dispatchStore)
	historyHandlers := handlers.NewHistoryHandlers(historyStore, formStateStore)
	statsHandlers := handlers.NewStatsHandlers(dispatchStore)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)

		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/import/csv", importHandlers.ImportCSV)

			protected.POST("/contact/preview", dispatchHandlers.PreviewContact)
			protected.POST("/contact/dispatch", dispatchHandlers.DispatchContact)
			protected.POST("/activity/preview", dispatchHandlers.PreviewActivity)
			protected.POST("/activity/dispatch", dispatchHandlers.DispatchActivity)

			protected.GET("/history", historyHandlers.ListHistory)
			protected.GET("/history/:id", historyHandlers.GetCall)
			protected.DELETE("/history", historyHandlers.ClearHistory)

			protected.GET("/form-state/:key", historyHandlers.LoadFormState)
			protected.PUT("/form-state/:key", historyHandlers.SaveFormState)

			statsGroup := protected.Group("/stats")
			{
				statsGroup.GET("/dispatch-counts", statsHandlers.GetDispatchCounts)
				statsGroup.GET("/average-duration", statsHandlers.GetAverageDuration)
				statsGroup.GET("/success-rate", statsHandlers.GetSuccessRate)
				statsGroup.GET("/top-activities", statsHandlers.GetTopActivities)
			}
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("API console server starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API console server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
