package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"placementflow/config"
	"placementflow/database"
	"placementflow/handlers"
	"placementflow/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting PlacementFlow backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config error: ", err)
	}

	gin.SetMode(cfg.GinMode)

	// Connect to MongoDB with a bounded retry.
	var db *database.DB
	for i := 1; i <= 3; i++ {
		db, err = database.Connect(context.Background(), cfg)
		if err == nil {
			break
		}
		log.Printf("MongoDB connection attempt %d failed: %v", i, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}

	if err := db.EnsureIndexes(context.Background()); err != nil {
		log.Fatal("Failed to create indexes: ", err)
	}

	h := handlers.New(cfg, database.NewUserStore(db.Users), database.NewPostStore(db.Posts))
	router := routes.SetupRouter(cfg, h)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "PlacementFlow API running", "service": "healthy"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	// Optional self-ping so free-tier hosts don't idle the process out.
	stopPing := make(chan struct{})
	if cfg.KeepAliveInterval > 0 {
		go keepAlive(cfg, stopPing)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	close(stopPing)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown: ", err)
	}
	if err := db.Disconnect(context.Background()); err != nil {
		log.Println("MongoDB disconnect error: ", err)
	}

	log.Println("Server stopped gracefully")
}

func keepAlive(cfg *config.Config, stop <-chan struct{}) {
	ticker := time.NewTicker(cfg.KeepAliveInterval)
	defer ticker.Stop()

	client := &http.Client{Timeout: 10 * time.Second}
	url := "http://localhost:" + cfg.Port + "/health"

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			resp, err := client.Get(url)
			if err != nil {
				log.Printf("Health check failed: %v", err)
				continue
			}
			resp.Body.Close()
			log.Printf("Health check triggered: status %d", resp.StatusCode)
		}
	}
}
