package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"time"
	"unicode/utf8"

	"placementflow/database"
	"placementflow/middleware"
	"placementflow/models"

	"github.com/gin-gonic/gin"
)

// rollIDPattern is the strict roll number format accepted by the search
// endpoint: the fixed prefix plus exactly five alphanumerics.
var rollIDPattern = regexp.MustCompile(`^(?i)am\.sc\.u4cse[a-zA-Z0-9]{5}$`)

type UpdatePlacementRequest struct {
	IsPlaced      *bool  `json:"isPlaced" binding:"required"`
	PlacedCompany string `json:"placedCompany"`
	Package       string `json:"package"`
}

type UpdateSocialLinksRequest struct {
	GitHub     *string `json:"github"`
	LinkedIn   *string `json:"linkedin"`
	LeetCode   *string `json:"leetcode"`
	Codeforces *string `json:"codeforces"`
	Email      *string `json:"email"`
	Portfolio  *string `json:"portfolio"`
}

// GetMyProfile returns the authenticated student's full profile. The
// password hash is excluded by the model's JSON mapping.
func (h *Handler) GetMyProfile(c *gin.Context) {
	roll := c.GetString(middleware.CtxRollNumber)
	if roll == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.users.FindByRoll(ctx, roll)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found"})
		return
	}
	if err != nil {
		log.Printf("GetMyProfile error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUserByRoll returns a public profile by roll number, matched
// case-insensitively.
func (h *Handler) GetUserByRoll(c *gin.Context) {
	roll := normalizeRoll(c.Param("roll"))
	if roll == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Roll number is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.users.FindByRoll(ctx, roll)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found"})
		return
	}
	if err != nil {
		log.Printf("GetUserByRoll error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// SearchUser looks up a student by the strict ID format. Anything not
// matching the pattern is rejected before the store is touched.
func (h *Handler) SearchUser(c *gin.Context) {
	id := c.Param("id")
	if !rollIDPattern.MatchString(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.users.FindByRoll(ctx, normalizeRoll(id))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found"})
		return
	}
	if err != nil {
		log.Printf("SearchUser error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdatePlacement sets or clears the authenticated student's placement
// status. placedDate is stamped on the transition to placed and removed,
// together with company and package, on the transition off.
func (h *Handler) UpdatePlacement(c *gin.Context) {
	roll := c.GetString(middleware.CtxRollNumber)

	var req UpdatePlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isPlaced is required"})
		return
	}

	if utf8.RuneCountInString(req.PlacedCompany) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Company name too long"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.users.FindByRoll(ctx, roll)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found"})
		return
	}
	if err != nil {
		log.Printf("UpdatePlacement lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	updated, err := h.users.SetPlacement(ctx, roll, models.PlacementUpdate{
		IsPlaced:      *req.IsPlaced,
		PlacedCompany: req.PlacedCompany,
		Package:       req.Package,
		SetPlacedDate: *req.IsPlaced && !user.IsPlaced,
	})
	if err != nil {
		log.Printf("UpdatePlacement error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"isPlaced":      updated.IsPlaced,
		"placedCompany": updated.PlacedCompany,
		"package":       updated.Package,
		"placedDate":    updated.PlacedDate,
	})
}

// UpdateSocialLinks patches the named profile links. Only fields present
// in the request are written; sending an empty string clears a link.
func (h *Handler) UpdateSocialLinks(c *gin.Context) {
	roll := c.GetString(middleware.CtxRollNumber)

	var req UpdateSocialLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	links := map[string]string{}
	for name, value := range map[string]*string{
		"github":     req.GitHub,
		"linkedin":   req.LinkedIn,
		"leetcode":   req.LeetCode,
		"codeforces": req.Codeforces,
		"email":      req.Email,
		"portfolio":  req.Portfolio,
	} {
		if value != nil {
			links[name] = *value
		}
	}

	if len(links) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No links provided"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.users.SetSocialLinks(ctx, roll, links)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found"})
		return
	}
	if err != nil {
		log.Printf("UpdateSocialLinks error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"socialLinks": updated.SocialLinks})
}
