package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post types.
const (
	PostTypeInterview  = "Interview"
	PostTypeDiscussion = "Discussion"
)

// Interview results.
const (
	ResultSelected = "Selected"
	ResultRejected = "Rejected"
	ResultWaiting  = "Waiting"
)

// DiscussionCompany is the bucket company name used for discussion
// threads. It is excluded from the distinct-company statistic.
const DiscussionCompany = "General Discussion"

// Comment is a reply embedded in a Post. Comments are prepended (newest
// first) and are never edited or deleted. Author name is frozen at write
// time and intentionally not kept in sync with later profile renames.
type Comment struct {
	AuthorRoll string    `bson:"authorRoll" json:"authorRoll"`
	AuthorName string    `bson:"authorName" json:"authorName"`
	Text       string    `bson:"text" json:"text"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// Post is an interview report or a discussion thread. AuthorRoll comes
// from the verified token and is immutable; only its owner may update or
// delete the post.
type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorRoll string             `bson:"authorRoll" json:"authorRoll"`
	AuthorName string             `bson:"authorName" json:"authorName"`

	CompanyName   string    `bson:"companyName" json:"companyName"`
	PostType      string    `bson:"postType" json:"postType"`
	InterviewDate time.Time `bson:"interviewDate" json:"interviewDate"`
	Experience    string    `bson:"experience" json:"experience"`

	Rounds    int      `bson:"rounds,omitempty" json:"rounds,omitempty"`
	Questions []string `bson:"questions,omitempty" json:"questions,omitempty"`
	Result    string   `bson:"result,omitempty" json:"result,omitempty"`

	Comments []Comment `bson:"comments" json:"comments"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PostPatch is a partial update of a Post: only non-nil fields are
// applied, everything else keeps its prior value.
type PostPatch struct {
	CompanyName   *string    `json:"companyName"`
	Experience    *string    `json:"experience"`
	PostType      *string    `json:"postType"`
	InterviewDate *time.Time `json:"interviewDate"`
	Rounds        *int       `json:"rounds"`
	Questions     []string   `json:"questions"`
	Result        *string    `json:"result"`
}

// PostQuery selects a page of posts. Results are always ordered by
// creation time descending. Zero values mean "no constraint".
type PostQuery struct {
	CompanySubstring string // case-insensitive substring match
	PostType         string
	AuthorRoll       string
	Skip             int64
	Limit            int64
}

// ValidPostType reports whether t is one of the post type enum values.
func ValidPostType(t string) bool {
	return t == PostTypeInterview || t == PostTypeDiscussion
}

// ValidResult reports whether r is one of the interview result values.
func ValidResult(r string) bool {
	return r == ResultSelected || r == ResultRejected || r == ResultWaiting
}
