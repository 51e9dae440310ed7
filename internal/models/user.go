package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account, which doubles as a channel. Password and
// RefreshToken never leave the server; every read path that resolves a
// request identity projects them away.
type User struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username     string               `json:"username" bson:"username"`
	Email        string               `json:"email" bson:"email"`
	FullName     string               `json:"fullName" bson:"full_name"`
	Avatar       string               `json:"avatar" bson:"avatar"`
	CoverImage   string               `json:"coverImage,omitempty" bson:"cover_image,omitempty"`
	AvatarKey    string               `json:"-" bson:"avatar_key,omitempty"`
	CoverKey     string               `json:"-" bson:"cover_key,omitempty"`
	WatchHistory []primitive.ObjectID `json:"watchHistory" bson:"watch_history"`
	Password     string               `json:"-" bson:"password,omitempty"`
	RefreshToken string               `json:"-" bson:"refresh_token,omitempty"`
	CreatedAt    time.Time            `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updated_at"`
}

// OwnerInfo is the projection of a user embedded in content owned by them.
type OwnerInfo struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	FullName string             `json:"fullName" bson:"full_name"`
	Username string             `json:"username" bson:"username"`
	Avatar   string             `json:"avatar" bson:"avatar"`
}

// ChannelProfile is the derived channel view returned by GET /channel/:username.
type ChannelProfile struct {
	ID                       primitive.ObjectID `json:"id" bson:"_id"`
	FullName                 string             `json:"fullName" bson:"full_name"`
	Username                 string             `json:"username" bson:"username"`
	Email                    string             `json:"email" bson:"email"`
	Avatar                   string             `json:"avatar" bson:"avatar"`
	CoverImage               string             `json:"coverImage,omitempty" bson:"cover_image,omitempty"`
	SubscriberCount          int64              `json:"subscriberCount" bson:"subscriber_count"`
	ChannelSubscribedToCount int64              `json:"channelSubscribedToCount" bson:"channel_subscribed_to_count"`
	IsSubscribed             bool               `json:"isSubscribed" bson:"is_subscribed"`
}

type RegisterUserRequest struct {
	FullName string `form:"fullName" validate:"required,min=1,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Username string `form:"username" validate:"required,min=3,max=30,lowercase"`
	Password string `form:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
}
