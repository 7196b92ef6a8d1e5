package database

import (
	"context"
	"errors"
	"time"

	"placementflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStore persists users in the users collection.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(coll *mongo.Collection) *UserStore {
	return &UserStore{coll: coll}
}

// Insert stores a new user. Returns ErrDuplicate when the roll number is
// already taken (enforced by the unique index).
func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	_, err := s.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *UserStore) FindByRoll(ctx context.Context, roll string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"rollNumber": roll}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByRolls fetches every user whose roll number is in rolls with a
// single $in query.
func (s *UserStore) FindByRolls(ctx context.Context, rolls []string) ([]models.User, error) {
	if len(rolls) == 0 {
		return []models.User{}, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"rollNumber": bson.M{"$in": rolls}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetPlacement applies a placement change and returns the updated user.
func (s *UserStore) SetPlacement(ctx context.Context, roll string, p models.PlacementUpdate) (*models.User, error) {
	update := bson.M{}
	if p.IsPlaced {
		set := bson.M{
			"isPlaced":      true,
			"placedCompany": p.PlacedCompany,
			"package":       p.Package,
		}
		if p.SetPlacedDate {
			set["placedDate"] = time.Now()
		}
		update["$set"] = set
	} else {
		update["$set"] = bson.M{
			"isPlaced":      false,
			"placedCompany": "",
			"package":       "",
		}
		update["$unset"] = bson.M{"placedDate": ""}
	}

	return s.findOneAndUpdate(ctx, roll, update)
}

// SetSocialLinks patches the named profile links; keys are the link
// names (github, linkedin, ...). An empty value clears a link.
func (s *UserStore) SetSocialLinks(ctx context.Context, roll string, links map[string]string) (*models.User, error) {
	set := bson.M{}
	for name, url := range links {
		set["socialLinks."+name] = url
	}
	return s.findOneAndUpdate(ctx, roll, bson.M{"$set": set})
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *UserStore) findOneAndUpdate(ctx context.Context, roll string, update bson.M) (*models.User, error) {
	var user models.User
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"rollNumber": roll},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
