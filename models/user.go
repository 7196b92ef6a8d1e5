package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialLinks holds a student's optional profile URLs. Every field is
// independently optional.
type SocialLinks struct {
	GitHub     string `bson:"github,omitempty" json:"github,omitempty"`
	LinkedIn   string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	LeetCode   string `bson:"leetcode,omitempty" json:"leetcode,omitempty"`
	Codeforces string `bson:"codeforces,omitempty" json:"codeforces,omitempty"`
	Email      string `bson:"email,omitempty" json:"email,omitempty"`
	Portfolio  string `bson:"portfolio,omitempty" json:"portfolio,omitempty"`
}

// PlacementUpdate describes a placement status change. SetPlacedDate is
// true only on the transition to placed, which stamps placedDate; turning
// placement off clears the date together with company and package.
type PlacementUpdate struct {
	IsPlaced      bool
	PlacedCompany string
	Package       string
	SetPlacedDate bool
}

// User is a registered student. RollNumber is the login identifier; it is
// normalized to uppercase before storage, so the unique index on it acts
// case-insensitively. The password hash is never serialized to clients.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RollNumber string             `bson:"rollNumber" json:"rollNumber"`
	FullName   string             `bson:"fullName" json:"fullName"`
	Password   string             `bson:"password" json:"-"`

	IsPlaced      bool       `bson:"isPlaced" json:"isPlaced"`
	PlacedCompany string     `bson:"placedCompany" json:"placedCompany"`
	Package       string     `bson:"package" json:"package"`
	PlacedDate    *time.Time `bson:"placedDate,omitempty" json:"placedDate,omitempty"`

	SocialLinks *SocialLinks `bson:"socialLinks,omitempty" json:"socialLinks,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
