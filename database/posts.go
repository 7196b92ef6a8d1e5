package database

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"placementflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostStore persists posts in the posts collection.
type PostStore struct {
	coll *mongo.Collection
}

func NewPostStore(coll *mongo.Collection) *PostStore {
	return &PostStore{coll: coll}
}

// buildPostFilter translates a query into a Mongo filter. Company is
// matched as a case-insensitive substring with metacharacters escaped.
func buildPostFilter(q models.PostQuery) bson.M {
	filter := bson.M{}
	if q.CompanySubstring != "" {
		filter["companyName"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.CompanySubstring), Options: "i"}
	}
	if q.PostType != "" {
		filter["postType"] = q.PostType
	}
	if q.AuthorRoll != "" {
		filter["authorRoll"] = q.AuthorRoll
	}
	return filter
}

// buildPatchSet turns a patch into a $set document containing only the
// supplied fields.
func buildPatchSet(patch models.PostPatch) bson.M {
	set := bson.M{}
	if patch.CompanyName != nil {
		set["companyName"] = strings.TrimSpace(*patch.CompanyName)
	}
	if patch.Experience != nil {
		set["experience"] = strings.TrimSpace(*patch.Experience)
	}
	if patch.PostType != nil {
		set["postType"] = *patch.PostType
	}
	if patch.InterviewDate != nil {
		set["interviewDate"] = *patch.InterviewDate
	}
	if patch.Rounds != nil {
		set["rounds"] = *patch.Rounds
	}
	if patch.Questions != nil {
		set["questions"] = patch.Questions
	}
	if patch.Result != nil {
		set["result"] = *patch.Result
	}
	return set
}

func (s *PostStore) Insert(ctx context.Context, post *models.Post) error {
	_, err := s.coll.InsertOne(ctx, post)
	return err
}

func (s *PostStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns the selected page of posts, newest first.
func (s *PostStore) List(ctx context.Context, q models.PostQuery) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(q.Skip)
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := s.coll.Find(ctx, buildPostFilter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostStore) Count(ctx context.Context, q models.PostQuery) (int64, error) {
	return s.coll.CountDocuments(ctx, buildPostFilter(q))
}

// Apply writes a partial update and returns the updated post.
func (s *PostStore) Apply(ctx context.Context, id primitive.ObjectID, patch models.PostPatch) (*models.Post, error) {
	set := buildPatchSet(patch)
	set["updatedAt"] = time.Now()
	return s.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// PrependComment pushes a comment to the front of the list in one atomic
// update, so concurrent commenters cannot lose each other's writes.
func (s *PostStore) PrependComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	return s.findOneAndUpdate(ctx, id, bson.M{
		"$push": bson.M{"comments": bson.M{"$each": []models.Comment{comment}, "$position": 0}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (s *PostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DistinctCompanies lists the distinct company names across interview
// posts, skipping the discussion bucket.
func (s *PostStore) DistinctCompanies(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "companyName", bson.M{
		"postType":    models.PostTypeInterview,
		"companyName": bson.M{"$ne": models.DiscussionCompany},
	})
}

// DistinctInterviewAuthors lists the distinct roll numbers that have
// authored at least one interview post.
func (s *PostStore) DistinctInterviewAuthors(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "authorRoll", bson.M{"postType": models.PostTypeInterview})
}

func (s *PostStore) distinct(ctx context.Context, field string, filter bson.M) ([]string, error) {
	raw, err := s.coll.Distinct(ctx, field, filter)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok {
			values = append(values, str)
		}
	}
	return values, nil
}

func (s *PostStore) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Post, error) {
	var post models.Post
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}
