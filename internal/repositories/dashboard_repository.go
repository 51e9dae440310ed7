package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/playtube/backend/internal/models"
)

// DashboardRepository computes derived channel statistics.
type DashboardRepository interface {
	GetChannelStats(ctx context.Context, ownerID primitive.ObjectID) (*models.ChannelStats, error)
}

// MongoDashboardRepository implements DashboardRepository for MongoDB
type MongoDashboardRepository struct {
	videos        *mongo.Collection
	likes         *mongo.Collection
	subscriptions *mongo.Collection
}

// NewMongoDashboardRepository creates a new MongoDashboardRepository
func NewMongoDashboardRepository(db *mongo.Database) *MongoDashboardRepository {
	return &MongoDashboardRepository{
		videos:        db.Collection("videos"),
		likes:         db.Collection("likes"),
		subscriptions: db.Collection("subscriptions"),
	}
}

// GetChannelStats aggregates subscriber count, catalog size, accumulated
// views and per-kind like counts for a channel. Like counts are likes
// *received* on the owner's content, not likes the owner handed out, so each
// like is joined to its target and filtered by the target's owner.
func (r *MongoDashboardRepository) GetChannelStats(ctx context.Context, ownerID primitive.ObjectID) (*models.ChannelStats, error) {
	subscriberCount, err := r.subscriptions.CountDocuments(ctx, bson.M{"channel": ownerID})
	if err != nil {
		return nil, err
	}

	stats := &models.ChannelStats{SubscriberCount: subscriberCount}

	videoCursor, err := r.videos.Aggregate(ctx, []bson.D{
		{{Key: "$match", Value: bson.M{"owner": ownerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"video_count": bson.M{"$sum": 1},
			"total_views": bson.M{"$sum": "$views"},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer videoCursor.Close(ctx)

	var videoTotals []struct {
		VideoCount int64 `bson:"video_count"`
		TotalViews int64 `bson:"total_views"`
	}
	if err = videoCursor.All(ctx, &videoTotals); err != nil {
		return nil, err
	}
	if len(videoTotals) > 0 {
		stats.VideoCount = videoTotals[0].VideoCount
		stats.TotalViews = videoTotals[0].TotalViews
	}

	if stats.VideoLikeCount, err = r.countLikesReceived(ctx, ownerID, "video", "videos"); err != nil {
		return nil, err
	}
	if stats.CommentLikeCount, err = r.countLikesReceived(ctx, ownerID, "comment", "comments"); err != nil {
		return nil, err
	}
	if stats.TweetLikeCount, err = r.countLikesReceived(ctx, ownerID, "tweet", "tweets"); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *MongoDashboardRepository) countLikesReceived(ctx context.Context, ownerID primitive.ObjectID, field, from string) (int64, error) {
	cursor, err := r.likes.Aggregate(ctx, []bson.D{
		{{Key: "$match", Value: bson.M{field: bson.M{"$exists": true}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   field,
			"foreignField": "_id",
			"as":           "target",
		}}},
		{{Key: "$unwind", Value: "$target"}},
		{{Key: "$match", Value: bson.M{"target.owner": ownerID}}},
		{{Key: "$count", Value: "total"}},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var counts []struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.All(ctx, &counts); err != nil {
		return 0, err
	}
	if len(counts) == 0 {
		return 0, nil
	}
	return counts[0].Total, nil
}
