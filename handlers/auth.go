package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"placementflow/database"
	"placementflow/middleware"
	"placementflow/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	RollNumber string `json:"rollNumber"`
	FullName   string `json:"fullName"`
	Password   string `json:"password"`
}

type LoginRequest struct {
	RollNumber string `json:"rollNumber"`
	Password   string `json:"password"`
}

var fullNamePattern = regexp.MustCompile(`^[A-Za-z ]+$`)

// dummyHash keeps login latency uniform when the roll number is unknown,
// so response timing does not leak which case occurred.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// validateRegistration checks the registration rules in order and returns
// the first violated one. Length limits count characters, not bytes.
func validateRegistration(roll, fullName, password string) error {
	if strings.TrimSpace(roll) == "" {
		return errors.New("Roll number is required")
	}
	name := strings.TrimSpace(fullName)
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return errors.New("Full name must be between 2 and 100 characters")
	}
	if !fullNamePattern.MatchString(name) {
		return errors.New("Full name may only contain letters and spaces")
	}
	if len(password) < 6 {
		return errors.New("Password must be at least 6 characters")
	}
	return nil
}

// Register creates a student account and returns a session token with the
// public profile fields.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateRegistration(req.RollNumber, req.FullName, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roll := normalizeRoll(req.RollNumber)
	fullName := strings.TrimSpace(req.FullName)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Register hash error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	user := models.User{
		ID:         primitive.NewObjectID(),
		RollNumber: roll,
		FullName:   fullName,
		Password:   string(hashed),
		CreatedAt:  time.Now(),
	}

	if err := h.users.Insert(ctx, &user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Student already registered"})
			return
		}
		log.Printf("Register insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	token, err := middleware.IssueToken(h.cfg.JWTSecret, h.cfg.TokenTTL, user.RollNumber, user.ID.Hex())
	if err != nil {
		log.Printf("Register token error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":      token,
		"rollNumber": user.RollNumber,
		"fullName":   user.FullName,
	})
}

// Login authenticates a student. Unknown roll numbers and wrong passwords
// yield the exact same response.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.users.FindByRoll(ctx, normalizeRoll(req.RollNumber))
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		log.Printf("Login lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	// Always run the bcrypt compare, against a dummy hash when the user
	// does not exist.
	hash := dummyHash
	if err == nil {
		hash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password))

	if err != nil || compareErr != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := middleware.IssueToken(h.cfg.JWTSecret, h.cfg.TokenTTL, user.RollNumber, user.ID.Hex())
	if err != nil {
		log.Printf("Login token error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"rollNumber": user.RollNumber,
		"fullName":   user.FullName,
	})
}
