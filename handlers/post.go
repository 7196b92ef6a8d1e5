package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"placementflow/database"
	"placementflow/middleware"
	"placementflow/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreatePostRequest struct {
	CompanyName string     `json:"companyName"`
	AuthorName  string     `json:"authorName"`
	Experience  string     `json:"experience"`
	PostType    string     `json:"postType"`
	Date        *time.Time `json:"date"`
	Rounds      int        `json:"rounds"`
	Questions   []string   `json:"questions"`
	Result      string     `json:"result"`
}

type AddCommentRequest struct {
	Text       string `json:"text"`
	AuthorName string `json:"authorName"`
}

// authorPlacement is the enrichment attached to listed posts.
type authorPlacement struct {
	IsPlaced      bool   `json:"isPlaced"`
	PlacedCompany string `json:"placedCompany"`
}

type postWithPlacement struct {
	models.Post
	AuthorPlacement *authorPlacement `json:"authorPlacement"`
}

// validatePostInput checks the create-post rules in order and returns
// the first violated one. Length limits count characters, not bytes.
func validatePostInput(company, authorName, experience, postType, result string) error {
	company = strings.TrimSpace(company)
	if company == "" {
		return errors.New("Company name is required")
	}
	if utf8.RuneCountInString(company) > 100 {
		return errors.New("Company name too long")
	}
	experience = strings.TrimSpace(experience)
	if experience == "" {
		return errors.New("Experience is required")
	}
	if n := utf8.RuneCountInString(experience); n < 10 || n > 5000 {
		return errors.New("Experience must be between 10 and 5000 characters")
	}
	if strings.TrimSpace(authorName) == "" {
		return errors.New("Author name is required")
	}
	if postType != "" && !models.ValidPostType(postType) {
		return errors.New("Invalid post type")
	}
	if result != "" && !models.ValidResult(result) {
		return errors.New("Invalid result")
	}
	return nil
}

// validateComment checks the comment rules and returns the first violated
// one.
func validateComment(text, authorName string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("Comment text is required")
	}
	if utf8.RuneCountInString(text) > 500 {
		return errors.New("Comment must be between 1 and 500 characters")
	}
	if strings.TrimSpace(authorName) == "" {
		return errors.New("Author name is required")
	}
	return nil
}

// validatePostPatch checks only the fields the patch supplies.
func validatePostPatch(patch models.PostPatch) error {
	if patch.CompanyName != nil {
		company := strings.TrimSpace(*patch.CompanyName)
		if company == "" {
			return errors.New("Company name is required")
		}
		if utf8.RuneCountInString(company) > 100 {
			return errors.New("Company name too long")
		}
	}
	if patch.Experience != nil {
		experience := strings.TrimSpace(*patch.Experience)
		if n := utf8.RuneCountInString(experience); n < 10 || n > 5000 {
			return errors.New("Experience must be between 10 and 5000 characters")
		}
	}
	if patch.PostType != nil && !models.ValidPostType(*patch.PostType) {
		return errors.New("Invalid post type")
	}
	if patch.Result != nil && *patch.Result != "" && !models.ValidResult(*patch.Result) {
		return errors.New("Invalid result")
	}
	return nil
}

// CreatePost stores a new interview report or discussion thread. The
// author roll always comes from the verified token, never from the body.
func (h *Handler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validatePostInput(req.CompanyName, req.AuthorName, req.Experience, req.PostType, req.Result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	postType := req.PostType
	if postType == "" {
		postType = models.PostTypeInterview
	}

	now := time.Now()
	interviewDate := now
	if req.Date != nil {
		interviewDate = *req.Date
	}

	post := models.Post{
		ID:            primitive.NewObjectID(),
		AuthorRoll:    c.GetString(middleware.CtxRollNumber),
		AuthorName:    strings.TrimSpace(req.AuthorName),
		CompanyName:   strings.TrimSpace(req.CompanyName),
		PostType:      postType,
		InterviewDate: interviewDate,
		Experience:    strings.TrimSpace(req.Experience),
		Rounds:        req.Rounds,
		Questions:     req.Questions,
		Result:        req.Result,
		Comments:      []models.Comment{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.posts.Insert(ctx, &post); err != nil {
		log.Printf("CreatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ListPosts returns posts newest first, filtered by company substring and
// post type, paginated with a fixed page size. Each post carries its
// author's current placement status, fetched with one batched lookup.
func (h *Handler) ListPosts(c *gin.Context) {
	_, limit, skip := paginate(c.Query("page"), "")

	postType := c.Query("postType")
	if postType == "All" {
		postType = ""
	}

	q := models.PostQuery{
		CompanySubstring: c.Query("company"),
		PostType:         postType,
		Skip:             skip,
		Limit:            int64(limit),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	posts, err := h.posts.List(ctx, q)
	if err != nil {
		log.Printf("ListPosts find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	placements, err := h.placementsByRoll(ctx, posts)
	if err != nil {
		log.Printf("ListPosts placement lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	enriched := make([]postWithPlacement, len(posts))
	for i, post := range posts {
		enriched[i] = postWithPlacement{Post: post, AuthorPlacement: placements[post.AuthorRoll]}
	}

	c.JSON(http.StatusOK, enriched)
}

// placementsByRoll fetches the placement status of every distinct author
// in posts with a single batched query.
func (h *Handler) placementsByRoll(ctx context.Context, posts []models.Post) (map[string]*authorPlacement, error) {
	rolls := make([]string, 0, len(posts))
	seen := make(map[string]bool, len(posts))
	for _, post := range posts {
		if !seen[post.AuthorRoll] {
			seen[post.AuthorRoll] = true
			rolls = append(rolls, post.AuthorRoll)
		}
	}

	placements := make(map[string]*authorPlacement, len(rolls))
	if len(rolls) == 0 {
		return placements, nil
	}

	users, err := h.users.FindByRolls(ctx, rolls)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		placements[user.RollNumber] = &authorPlacement{
			IsPlaced:      user.IsPlaced,
			PlacedCompany: user.PlacedCompany,
		}
	}
	return placements, nil
}

// GetStudentPosts returns one student's posts newest first, with
// pagination metadata. The page and its total count are two separate
// reads; a concurrent insert can skew totalPages by one.
func (h *Handler) GetStudentPosts(c *gin.Context) {
	roll := normalizeRoll(c.Param("roll"))
	page, limit, skip := paginate(c.Query("page"), c.Query("limit"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	posts, err := h.posts.List(ctx, models.PostQuery{AuthorRoll: roll, Skip: skip, Limit: int64(limit)})
	if err != nil {
		log.Printf("GetStudentPosts find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	total, err := h.posts.Count(ctx, models.PostQuery{AuthorRoll: roll})
	if err != nil {
		log.Printf("GetStudentPosts count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       posts,
		"currentPage": page,
		"totalPages":  totalPages(total, limit),
		"totalPosts":  total,
	})
}

// AddComment prepends a comment to a post and returns the full updated
// comment list. Any authenticated user may comment on any post.
func (h *Handler) AddComment(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateComment(req.Text, req.AuthorName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := models.Comment{
		AuthorRoll: c.GetString(middleware.CtxRollNumber),
		AuthorName: strings.TrimSpace(req.AuthorName),
		Text:       strings.TrimSpace(req.Text),
		CreatedAt:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.posts.PrependComment(ctx, postID, comment)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("AddComment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, updated.Comments)
}

// UpdatePost applies a partial update to a post owned by the caller.
// Fields absent from the request keep their prior values.
func (h *Handler) UpdatePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var patch models.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validatePostPatch(patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	post, err := h.posts.FindByID(ctx, postID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("UpdatePost lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if !canMutate(c.GetString(middleware.CtxRollNumber), post) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to edit this post"})
		return
	}

	updated, err := h.posts.Apply(ctx, postID, patch)
	if errors.Is(err, database.ErrNotFound) {
		// Deleted between the ownership check and the write.
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("UpdatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeletePost permanently removes a post owned by the caller.
func (h *Handler) DeletePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	post, err := h.posts.FindByID(ctx, postID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("DeletePost lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if !canMutate(c.GetString(middleware.CtxRollNumber), post) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this post"})
		return
	}

	if err := h.posts.Delete(ctx, postID); err != nil && !errors.Is(err, database.ErrNotFound) {
		log.Printf("DeletePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
