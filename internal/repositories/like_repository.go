package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/playtube/backend/internal/models"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Toggle(ctx context.Context, likerID primitive.ObjectID, kind models.LikeKind, targetID primitive.ObjectID) (*models.ToggleResult, error)
	GetLikedVideos(ctx context.Context, likerID primitive.ObjectID, page, limit int64) ([]models.LikedVideo, error)
}

// MongoLikeRepository implements LikeRepository for MongoDB
type MongoLikeRepository struct {
	collection *mongo.Collection
}

// NewMongoLikeRepository creates a new MongoLikeRepository
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{collection: db.Collection("likes")}
}

// Toggle flips the like state of (likerID, kind, targetID) and reports which
// side it landed on. The filter always includes the liker, so users flip only
// their own like state, and the flip itself is a single conditional write.
func (r *MongoLikeRepository) Toggle(ctx context.Context, likerID primitive.ObjectID, kind models.LikeKind, targetID primitive.ObjectID) (*models.ToggleResult, error) {
	filter := bson.M{
		"liked_by":   likerID,
		string(kind): targetID,
	}

	record := &models.Like{
		ID:        primitive.NewObjectID(),
		LikedBy:   likerID,
		CreatedAt: time.Now(),
	}
	switch kind {
	case models.LikeKindVideo:
		record.Video = &targetID
	case models.LikeKindComment:
		record.Comment = &targetID
	case models.LikeKindTweet:
		record.Tweet = &targetID
	}

	var deleted models.Like
	state, err := toggleRelationship(ctx, r.collection, filter, record, &deleted)
	if err != nil {
		return nil, err
	}

	result := &models.ToggleResult{State: state}
	if state == models.ToggleOn {
		result.Record = record
	} else {
		result.Record = &deleted
	}
	return result, nil
}

// GetLikedVideos retrieves the caller's liked videos, newest like first, with
// each video joined to its owner's projection.
func (r *MongoLikeRepository) GetLikedVideos(ctx context.Context, likerID primitive.ObjectID, page, limit int64) ([]models.LikedVideo, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	pipeline := []bson.D{
		{{Key: "$match", Value: bson.M{
			"liked_by": likerID,
			"video":    bson.M{"$exists": true},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: (page - 1) * limit}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "videos",
			"localField":   "video",
			"foreignField": "_id",
			"as":           "liked_video",
			"pipeline": bson.A{
				bson.M{"$lookup": bson.M{
					"from":         "users",
					"localField":   "owner",
					"foreignField": "_id",
					"as":           "owner_info",
					"pipeline": bson.A{
						bson.M{"$project": bson.M{"full_name": 1, "username": 1, "avatar": 1}},
					},
				}},
				bson.M{"$addFields": bson.M{
					"owner_info": bson.M{"$first": "$owner_info"},
				}},
			},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"liked_video": bson.M{"$first": "$liked_video"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	liked := []models.LikedVideo{}
	if err = cursor.All(ctx, &liked); err != nil {
		return nil, err
	}
	return liked, nil
}
