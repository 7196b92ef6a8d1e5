package handlers

import (
	"context"
	"sort"
	"strings"
	"time"

	"placementflow/database"
	"placementflow/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserStore and fakePostStore implement the store interfaces in
// memory with the same contract as the database package, so handlers can
// be exercised without a running Mongo.

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (s *fakeUserStore) Insert(_ context.Context, user *models.User) error {
	if _, ok := s.users[user.RollNumber]; ok {
		return database.ErrDuplicate
	}
	stored := *user
	s.users[user.RollNumber] = &stored
	return nil
}

func (s *fakeUserStore) FindByRoll(_ context.Context, roll string) (*models.User, error) {
	user, ok := s.users[roll]
	if !ok {
		return nil, database.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (s *fakeUserStore) FindByRolls(_ context.Context, rolls []string) ([]models.User, error) {
	found := []models.User{}
	for _, roll := range rolls {
		if user, ok := s.users[roll]; ok {
			found = append(found, *user)
		}
	}
	return found, nil
}

func (s *fakeUserStore) SetPlacement(_ context.Context, roll string, p models.PlacementUpdate) (*models.User, error) {
	user, ok := s.users[roll]
	if !ok {
		return nil, database.ErrNotFound
	}
	if p.IsPlaced {
		user.IsPlaced = true
		user.PlacedCompany = p.PlacedCompany
		user.Package = p.Package
		if p.SetPlacedDate {
			now := time.Now()
			user.PlacedDate = &now
		}
	} else {
		user.IsPlaced = false
		user.PlacedCompany = ""
		user.Package = ""
		user.PlacedDate = nil
	}
	updated := *user
	return &updated, nil
}

func (s *fakeUserStore) SetSocialLinks(_ context.Context, roll string, links map[string]string) (*models.User, error) {
	user, ok := s.users[roll]
	if !ok {
		return nil, database.ErrNotFound
	}
	if user.SocialLinks == nil {
		user.SocialLinks = &models.SocialLinks{}
	}
	for name, url := range links {
		switch name {
		case "github":
			user.SocialLinks.GitHub = url
		case "linkedin":
			user.SocialLinks.LinkedIn = url
		case "leetcode":
			user.SocialLinks.LeetCode = url
		case "codeforces":
			user.SocialLinks.Codeforces = url
		case "email":
			user.SocialLinks.Email = url
		case "portfolio":
			user.SocialLinks.Portfolio = url
		}
	}
	updated := *user
	return &updated, nil
}

func (s *fakeUserStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

type fakePostStore struct {
	posts []models.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: []models.Post{}}
}

func matchesQuery(post models.Post, q models.PostQuery) bool {
	if q.CompanySubstring != "" &&
		!strings.Contains(strings.ToLower(post.CompanyName), strings.ToLower(q.CompanySubstring)) {
		return false
	}
	if q.PostType != "" && post.PostType != q.PostType {
		return false
	}
	if q.AuthorRoll != "" && post.AuthorRoll != q.AuthorRoll {
		return false
	}
	return true
}

func (s *fakePostStore) Insert(_ context.Context, post *models.Post) error {
	s.posts = append(s.posts, *post)
	return nil
}

func (s *fakePostStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			found := s.posts[i]
			return &found, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *fakePostStore) List(_ context.Context, q models.PostQuery) ([]models.Post, error) {
	matched := []models.Post{}
	for _, post := range s.posts {
		if matchesQuery(post, q) {
			matched = append(matched, post)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if q.Skip >= int64(len(matched)) {
		return []models.Post{}, nil
	}
	matched = matched[q.Skip:]
	if q.Limit > 0 && int64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (s *fakePostStore) Count(_ context.Context, q models.PostQuery) (int64, error) {
	var n int64
	for _, post := range s.posts {
		if matchesQuery(post, q) {
			n++
		}
	}
	return n, nil
}

func (s *fakePostStore) Apply(_ context.Context, id primitive.ObjectID, patch models.PostPatch) (*models.Post, error) {
	for i := range s.posts {
		if s.posts[i].ID != id {
			continue
		}
		post := &s.posts[i]
		if patch.CompanyName != nil {
			post.CompanyName = strings.TrimSpace(*patch.CompanyName)
		}
		if patch.Experience != nil {
			post.Experience = strings.TrimSpace(*patch.Experience)
		}
		if patch.PostType != nil {
			post.PostType = *patch.PostType
		}
		if patch.InterviewDate != nil {
			post.InterviewDate = *patch.InterviewDate
		}
		if patch.Rounds != nil {
			post.Rounds = *patch.Rounds
		}
		if patch.Questions != nil {
			post.Questions = patch.Questions
		}
		if patch.Result != nil {
			post.Result = *patch.Result
		}
		post.UpdatedAt = time.Now()
		updated := *post
		return &updated, nil
	}
	return nil, database.ErrNotFound
}

func (s *fakePostStore) PrependComment(_ context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	for i := range s.posts {
		if s.posts[i].ID != id {
			continue
		}
		post := &s.posts[i]
		post.Comments = append([]models.Comment{comment}, post.Comments...)
		post.UpdatedAt = time.Now()
		updated := *post
		return &updated, nil
	}
	return nil, database.ErrNotFound
}

func (s *fakePostStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *fakePostStore) DistinctCompanies(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	companies := []string{}
	for _, post := range s.posts {
		if post.PostType != models.PostTypeInterview || post.CompanyName == models.DiscussionCompany {
			continue
		}
		if !seen[post.CompanyName] {
			seen[post.CompanyName] = true
			companies = append(companies, post.CompanyName)
		}
	}
	return companies, nil
}

func (s *fakePostStore) DistinctInterviewAuthors(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	authors := []string{}
	for _, post := range s.posts {
		if post.PostType != models.PostTypeInterview {
			continue
		}
		if !seen[post.AuthorRoll] {
			seen[post.AuthorRoll] = true
			authors = append(authors, post.AuthorRoll)
		}
	}
	return authors, nil
}
