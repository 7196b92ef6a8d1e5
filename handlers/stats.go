package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"placementflow/models"

	"github.com/gin-gonic/gin"
)

// GetStats returns platform-wide aggregate counts. totalCompanies counts
// distinct companies across interview posts, skipping the discussion
// bucket. totalPlaced counts distinct authors of interview posts, not a
// readout of User.isPlaced.
func (h *Handler) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	totalUsers, err := h.users.Count(ctx)
	if err != nil {
		log.Printf("GetStats users count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	totalPosts, err := h.posts.Count(ctx, models.PostQuery{})
	if err != nil {
		log.Printf("GetStats posts count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	companies, err := h.posts.DistinctCompanies(ctx)
	if err != nil {
		log.Printf("GetStats companies error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	placed, err := h.posts.DistinctInterviewAuthors(ctx)
	if err != nil {
		log.Printf("GetStats placed error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":     totalUsers,
		"totalPosts":     totalPosts,
		"totalCompanies": len(companies),
		"totalPlaced":    len(placed),
	})
}
