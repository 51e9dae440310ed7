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

// PlaylistRepository defines the interface for playlist data operations
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Playlist, error)
	UpdateDetails(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Playlist, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error)
	RemoveVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error)
}

// MongoPlaylistRepository implements PlaylistRepository for MongoDB
type MongoPlaylistRepository struct {
	collection *mongo.Collection
}

// NewMongoPlaylistRepository creates a new MongoPlaylistRepository
func NewMongoPlaylistRepository(db *mongo.Database) *MongoPlaylistRepository {
	return &MongoPlaylistRepository{collection: db.Collection("playlists")}
}

// Create inserts a new empty playlist.
func (r *MongoPlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	playlist.ID = primitive.NewObjectID()
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}
	playlist.CreatedAt = time.Now()
	playlist.UpdatedAt = playlist.CreatedAt
	_, err := r.collection.InsertOne(ctx, playlist)
	return err
}

// GetByID retrieves a playlist by id.
func (r *MongoPlaylistRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	var playlist models.Playlist
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&playlist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &playlist, nil
}

// GetByOwner retrieves all playlists of a user.
func (r *MongoPlaylistRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Playlist, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	playlists := []models.Playlist{}
	if err = cursor.All(ctx, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// UpdateDetails sets name and description.
func (r *MongoPlaylistRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Playlist, error) {
	set := bson.M{"updated_at": time.Now()}
	if name != "" {
		set["name"] = name
	}
	if description != "" {
		set["description"] = description
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// Delete removes a playlist.
func (r *MongoPlaylistRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddVideo appends a video to the playlist unless already present; $addToSet
// keeps the sequence duplicate-free without touching existing order.
func (r *MongoPlaylistRepository) AddVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$addToSet": bson.M{"videos": videoID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

// RemoveVideo pulls a video out of the playlist; the order of the remaining
// entries is preserved.
func (r *MongoPlaylistRepository) RemoveVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$pull": bson.M{"videos": videoID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

func (r *MongoPlaylistRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Playlist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var playlist models.Playlist
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&playlist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &playlist, nil
}
