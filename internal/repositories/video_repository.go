package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/playtube/backend/internal/models"
)

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	UpdateDetails(ctx context.Context, id primitive.ObjectID, title, description string, thumbnail *models.FileRef) (*models.Video, error)
	SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (*models.Video, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, opts models.VideoListOptions) ([]models.VideoWithOwner, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Video, error)
}

// MongoVideoRepository implements VideoRepository for MongoDB
type MongoVideoRepository struct {
	collection *mongo.Collection
}

// NewMongoVideoRepository creates a new MongoVideoRepository
func NewMongoVideoRepository(db *mongo.Database) *MongoVideoRepository {
	return &MongoVideoRepository{collection: db.Collection("videos")}
}

// Create inserts a new video document. Owner is fixed here and never updated.
func (r *MongoVideoRepository) Create(ctx context.Context, video *models.Video) error {
	video.ID = primitive.NewObjectID()
	video.CreatedAt = time.Now()
	video.UpdatedAt = video.CreatedAt
	_, err := r.collection.InsertOne(ctx, video)
	return err
}

// GetByID retrieves a video by id.
func (r *MongoVideoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	var video models.Video
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

// UpdateDetails sets title, description and optionally a new thumbnail
// reference, returning the updated document.
func (r *MongoVideoRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, title, description string, thumbnail *models.FileRef) (*models.Video, error) {
	set := bson.M{"updated_at": time.Now()}
	if title != "" {
		set["title"] = title
	}
	if description != "" {
		set["description"] = description
	}
	if thumbnail != nil {
		set["thumbnail"] = thumbnail
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// SetPublished flips the publish flag.
func (r *MongoVideoRepository) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (*models.Video, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"is_published": published,
		"updated_at":   time.Now(),
	}})
}

func (r *MongoVideoRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Video, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var video models.Video
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

// Delete removes a video document.
func (r *MongoVideoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter by one.
func (r *MongoVideoRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// List retrieves published videos with owner projections, filtered by an
// optional owner and title/description search, sorted and paginated.
func (r *MongoVideoRepository) List(ctx context.Context, opts models.VideoListOptions) ([]models.VideoWithOwner, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortDir := -1
	if opts.SortAsc {
		sortDir = 1
	}

	match := bson.M{"is_published": true}
	if opts.OwnerID != nil {
		match["owner"] = *opts.OwnerID
	}
	if opts.Query != "" {
		match["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": opts.Query, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": opts.Query, "$options": "i"}},
		}
	}

	pipeline := append([]bson.D{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: sortBy, Value: sortDir}}}},
		{{Key: "$skip", Value: (opts.Page - 1) * opts.Limit}},
		{{Key: "$limit", Value: opts.Limit}},
	}, ownerLookupStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	videos := []models.VideoWithOwner{}
	if err = cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// GetByOwner retrieves all videos of a channel, newest first.
func (r *MongoVideoRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Video, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	videos := []models.Video{}
	if err = cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}
