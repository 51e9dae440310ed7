package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription records that Subscriber follows Channel (a user id). At most
// one document exists per (subscriber, channel) pair, enforced by a unique
// compound index.
type Subscription struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Subscriber primitive.ObjectID `json:"subscriber" bson:"subscriber"`
	Channel    primitive.ObjectID `json:"channel" bson:"channel"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
}

// ChannelStats is the dashboard view of a channel: audience size, catalog
// size, accumulated views and likes received on the channel's content.
type ChannelStats struct {
	SubscriberCount  int64 `json:"subscriberCount"`
	VideoCount       int64 `json:"videoCount"`
	TotalViews       int64 `json:"totalViews"`
	VideoLikeCount   int64 `json:"videoLikeCount"`
	CommentLikeCount int64 `json:"commentLikeCount"`
	TweetLikeCount   int64 `json:"tweetLikeCount"`
}
