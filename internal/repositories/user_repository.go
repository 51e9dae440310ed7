package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/playtube/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByIDWithSecrets(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	UpdateAccount(ctx context.Context, id primitive.ObjectID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar models.FileRef) (*models.User, error)
	UpdateCoverImage(ctx context.Context, id primitive.ObjectID, cover models.FileRef) (*models.User, error)
	GetChannelProfile(ctx context.Context, username string, callerID *primitive.ObjectID) (*models.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, id primitive.ObjectID) ([]models.VideoWithOwner, error)
	AddToWatchHistory(ctx context.Context, id, videoID primitive.ObjectID) error
}

// sanitizedProjection excludes the credential fields from resolved users.
var sanitizedProjection = bson.M{"password": 0, "refresh_token": 0}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// Create inserts a new user. Username and email are stored lowercase; the
// unique indexes turn duplicates into ErrDuplicate.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.WatchHistory == nil {
		user.WatchHistory = []primitive.ObjectID{}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// GetByID retrieves a user by id with credential fields projected away.
func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(sanitizedProjection))
}

// GetByIDWithSecrets retrieves a user including password hash and refresh
// token; only the auth flows use it.
func (r *MongoUserRepository) GetByIDWithSecrets(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmailOrUsername retrieves a user matching either identifier,
// including credential fields for the login flow.
func (r *MongoUserRepository) GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(email)},
		bson.M{"username": strings.ToLower(username)},
	}})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter, opts...).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetRefreshToken replaces the stored refresh token; any previously issued
// token stops being accepted from this point on.
func (r *MongoUserRepository) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"refresh_token": token}})
}

// ClearRefreshToken drops the stored refresh token on logout.
func (r *MongoUserRepository) ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error {
	return r.updateOne(ctx, id, bson.M{"$unset": bson.M{"refresh_token": 1}})
}

// UpdatePassword stores a new password hash.
func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"password": passwordHash, "updated_at": time.Now()}})
}

func (r *MongoUserRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAccount sets fullName and email and returns the sanitized user.
func (r *MongoUserRepository) UpdateAccount(ctx context.Context, id primitive.ObjectID, fullName, email string) (*models.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"full_name":  fullName,
		"email":      strings.ToLower(email),
		"updated_at": time.Now(),
	}})
}

// UpdateAvatar points the user at a freshly uploaded avatar object.
func (r *MongoUserRepository) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar models.FileRef) (*models.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"avatar":     avatar.URL,
		"avatar_key": avatar.Key,
		"updated_at": time.Now(),
	}})
}

// UpdateCoverImage points the user at a freshly uploaded cover object.
func (r *MongoUserRepository) UpdateCoverImage(ctx context.Context, id primitive.ObjectID, cover models.FileRef) (*models.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"cover_image": cover.URL,
		"cover_key":   cover.Key,
		"updated_at":  time.Now(),
	}})
}

func (r *MongoUserRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(sanitizedProjection)

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetChannelProfile resolves a channel by username with subscriber counts and
// the caller's subscription flag computed from the subscriptions collection.
func (r *MongoUserRepository) GetChannelProfile(ctx context.Context, username string, callerID *primitive.ObjectID) (*models.ChannelProfile, error) {
	isSubscribed := interface{}(bson.M{"$literal": false})
	if callerID != nil {
		isSubscribed = bson.M{"$in": bson.A{*callerID, "$subscribers.subscriber"}}
	}

	pipeline := []bson.D{
		{{Key: "$match", Value: bson.M{"username": strings.ToLower(strings.TrimSpace(username))}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "subscriptions",
			"localField":   "_id",
			"foreignField": "channel",
			"as":           "subscribers",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "subscriptions",
			"localField":   "_id",
			"foreignField": "subscriber",
			"as":           "subscribed_to",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"subscriber_count":            bson.M{"$size": "$subscribers"},
			"channel_subscribed_to_count": bson.M{"$size": "$subscribed_to"},
			"is_subscribed":               isSubscribed,
		}}},
		{{Key: "$project", Value: bson.M{
			"full_name":                   1,
			"username":                    1,
			"email":                       1,
			"avatar":                      1,
			"cover_image":                 1,
			"subscriber_count":            1,
			"channel_subscribed_to_count": 1,
			"is_subscribed":               1,
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.ChannelProfile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrNotFound
	}
	return &profiles[0], nil
}

// GetWatchHistory resolves the user's watch history to full videos with owner
// projections. The stored sequence is most-recent-first; $lookup does not
// preserve array order, so results are reordered to the stored sequence.
func (r *MongoUserRepository) GetWatchHistory(ctx context.Context, id primitive.ObjectID) ([]models.VideoWithOwner, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(user.WatchHistory) == 0 {
		return []models.VideoWithOwner{}, nil
	}

	videos := r.collection.Database().Collection("videos")
	pipeline := append([]bson.D{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": user.WatchHistory}}}},
	}, ownerLookupStages()...)

	cursor, err := videos.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var fetched []models.VideoWithOwner
	if err = cursor.All(ctx, &fetched); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.VideoWithOwner, len(fetched))
	for _, v := range fetched {
		byID[v.ID] = v
	}
	history := make([]models.VideoWithOwner, 0, len(fetched))
	for _, videoID := range user.WatchHistory {
		if v, ok := byID[videoID]; ok {
			history = append(history, v)
		}
	}
	return history, nil
}

// AddToWatchHistory moves a video to the front of the user's watch history,
// removing any earlier occurrence first.
func (r *MongoUserRepository) AddToWatchHistory(ctx context.Context, id, videoID primitive.ObjectID) error {
	if err := r.updateOne(ctx, id, bson.M{"$pull": bson.M{"watch_history": videoID}}); err != nil {
		return err
	}
	return r.updateOne(ctx, id, bson.M{"$push": bson.M{
		"watch_history": bson.M{
			"$each":     bson.A{videoID},
			"$position": 0,
		},
	}})
}
