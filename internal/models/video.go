package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileRef points at a binary object held by the storage service.
type FileRef struct {
	Key string `json:"key" bson:"key"`
	URL string `json:"url" bson:"url"`
}

// Video represents a published video document. Owner is immutable after
// creation and Views only ever increases.
type Video struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Owner       primitive.ObjectID `json:"owner" bson:"owner"`
	VideoFile   FileRef            `json:"videoFile" bson:"video_file"`
	Thumbnail   FileRef            `json:"thumbnail" bson:"thumbnail"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Duration    float64            `json:"duration" bson:"duration"`
	Views       int64              `json:"views" bson:"views"`
	IsPublished bool               `json:"isPublished" bson:"is_published"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// VideoWithOwner is a video joined to its owning user's projection.
type VideoWithOwner struct {
	Video     `bson:",inline"`
	OwnerInfo OwnerInfo `json:"ownerInfo" bson:"owner_info"`
}

type PublishVideoRequest struct {
	Title       string `form:"title" validate:"required,min=1,max=200"`
	Description string `form:"description" validate:"required,min=1"`
}

type UpdateVideoRequest struct {
	Title       string `form:"title" validate:"omitempty,min=1,max=200"`
	Description string `form:"description" validate:"omitempty,min=1"`
}

// VideoListOptions controls the video listing aggregation.
type VideoListOptions struct {
	Page    int64
	Limit   int64
	Query   string
	SortBy  string
	SortAsc bool
	OwnerID *primitive.ObjectID
}
