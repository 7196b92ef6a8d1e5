package handlers

import (
	"context"
	"math"
	"strconv"
	"strings"

	"placementflow/config"
	"placementflow/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultPageSize = 10

// UserStore abstracts user persistence. Implementations return
// database.ErrNotFound / database.ErrDuplicate for the two expected
// failure cases.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByRoll(ctx context.Context, roll string) (*models.User, error)
	FindByRolls(ctx context.Context, rolls []string) ([]models.User, error)
	SetPlacement(ctx context.Context, roll string, p models.PlacementUpdate) (*models.User, error)
	SetSocialLinks(ctx context.Context, roll string, links map[string]string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// PostStore abstracts post persistence. List and Count interpret the
// same query; List always orders by creation time descending.
type PostStore interface {
	Insert(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	List(ctx context.Context, q models.PostQuery) ([]models.Post, error)
	Count(ctx context.Context, q models.PostQuery) (int64, error)
	Apply(ctx context.Context, id primitive.ObjectID, patch models.PostPatch) (*models.Post, error)
	PrependComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DistinctCompanies(ctx context.Context) ([]string, error)
	DistinctInterviewAuthors(ctx context.Context) ([]string, error)
}

// Handler carries the shared state every endpoint needs: the process
// config and the stores. Constructed once in main.
type Handler struct {
	cfg   *config.Config
	users UserStore
	posts PostStore
}

func New(cfg *config.Config, users UserStore, posts PostStore) *Handler {
	return &Handler{cfg: cfg, users: users, posts: posts}
}

// normalizeRoll is the one canonical roll number form: trimmed and
// uppercased. Applied before every store or compare, so lookups are
// case-insensitive by construction.
func normalizeRoll(roll string) string {
	return strings.ToUpper(strings.TrimSpace(roll))
}

// canMutate is the ownership check: only the original author may touch a
// post. Distinct from authentication, which only establishes who the
// caller is.
func canMutate(rollNumber string, post *models.Post) bool {
	return rollNumber == post.AuthorRoll
}

// paginate parses 1-based page and limit query values, applying the
// defaults and computing the skip offset.
func paginate(pageStr, limitStr string) (page, limit int, skip int64) {
	page, _ = strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(limitStr)
	if limit < 1 {
		limit = defaultPageSize
	}

	return page, limit, int64(page-1) * int64(limit)
}

// totalPages rounds a document count up to whole pages.
func totalPages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}
