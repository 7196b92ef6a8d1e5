package routes

import (
	"strings"
	"time"

	"placementflow/config"
	"placementflow/handlers"
	"placementflow/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and all API routes.
func SetupRouter(cfg *config.Config, h *handlers.Handler) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "x-auth-token"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit, cfg.RateWindow)))

	api := router.Group("/api")

	// Registration and login take a stricter per-IP budget.
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.RateWindow)))
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	// Public reads.
	api.GET("/posts", h.ListPosts)
	api.GET("/posts/student/:roll", h.GetStudentPosts)
	api.GET("/users/search/:id", h.SearchUser)
	api.GET("/users/roll/:roll", h.GetUserByRoll)
	api.GET("/stats", h.GetStats)

	// Everything below requires a verified identity.
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTSecret))

	protected.GET("/users/me", h.GetMyProfile)
	protected.PUT("/users/me/placement", h.UpdatePlacement)
	protected.PUT("/users/me/social", h.UpdateSocialLinks)

	protected.POST("/posts", h.CreatePost)
	protected.POST("/posts/:id/comment", h.AddComment)
	protected.PUT("/posts/:id", h.UpdatePost)
	protected.DELETE("/posts/:id", h.DeletePost)

	// JSON 404 for unknown API paths.
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
