package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"elearning_app/catalog"
	"elearning_app/config"
	"elearning_app/db"
	"elearning_app/logger"
	"elearning_app/middleware"
	"elearning_app/routes"
	"elearning_app/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		exitStartup("Error loading configuration", err)
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		exitStartup("Error creating logger", err)
	}
	defer log.Sync()

	log.Info("Initializing E-Learning Server", "environment", cfg.Environment, "db_driver", cfg.DBDriver)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	database, err := db.Open(ctx, cfg.DBDriver, cfg.DSN())
	cancel()
	if err != nil {
		log.Fatal("Database connection failed", "error", err)
	}
	log.Info("Database connected and schema verified")

	if cfg.SeedOnStart {
		c, err := catalog.Default()
		if err != nil {
			log.Fatal("Error loading seed catalog", "error", err)
		}
		res, err := db.SeedData(context.Background(), database, c)
		if err != nil {
			log.Fatal("Error seeding data", "error", err)
		}
		if res.Lessons > 0 || res.Questions > 0 {
			log.Info("Seeded initial content", "lessons", res.Lessons, "questions", res.Questions)
		}
	}

	store := db.NewStore(database)
	admin, err := services.NewAdminService(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordHash, log)
	if err != nil {
		log.Fatal("Error configuring admin credentials", "error", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORSOrigins),
	)

	routes.SetupRoutes(r, routes.Dependencies{
		Content: services.NewContentService(store, log),
		Admin:   admin,
		DB:      store,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("E-Learning Server started", "addr", "http://localhost:"+cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if err := database.Close(); err != nil {
		log.Error("Error closing database", "error", err)
		return
	}
	log.Info("Database connections closed")
}

// exitStartup reports a failure that happens before the logger exists.
func exitStartup(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
