package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeKind names the kind of content a like targets.
type LikeKind string

const (
	LikeKindVideo   LikeKind = "video"
	LikeKindComment LikeKind = "comment"
	LikeKindTweet   LikeKind = "tweet"
)

// ParseLikeKind validates a raw kind string from the URL.
func ParseLikeKind(raw string) (LikeKind, bool) {
	switch LikeKind(raw) {
	case LikeKindVideo, LikeKindComment, LikeKindTweet:
		return LikeKind(raw), true
	}
	return "", false
}

// Like is a pure presence record: exactly one of Video, Comment or Tweet is
// set, and at most one document exists per (liked_by, target) pair. The
// partial unique indexes created at startup enforce the pair uniqueness.
type Like struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	LikedBy   primitive.ObjectID  `json:"likedBy" bson:"liked_by"`
	Video     *primitive.ObjectID `json:"video,omitempty" bson:"video,omitempty"`
	Comment   *primitive.ObjectID `json:"comment,omitempty" bson:"comment,omitempty"`
	Tweet     *primitive.ObjectID `json:"tweet,omitempty" bson:"tweet,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"created_at"`
}

// LikedVideo is one entry of the liked-content listing: the like joined to
// its video, which is in turn joined to the video owner's projection.
type LikedVideo struct {
	ID      primitive.ObjectID `json:"id" bson:"_id"`
	LikedAt time.Time          `json:"likedAt" bson:"created_at"`
	Video   VideoWithOwner     `json:"video" bson:"liked_video"`
}

// ToggleState reports which side of the flip a toggle landed on.
type ToggleState string

const (
	ToggleOn  ToggleState = "on"
	ToggleOff ToggleState = "off"
)

// ToggleResult is the wire shape of every relationship toggle.
type ToggleResult struct {
	State  ToggleState `json:"state"`
	Record interface{} `json:"record,omitempty"`
}
