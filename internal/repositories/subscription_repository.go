package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/playtube/backend/internal/models"
)

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	Toggle(ctx context.Context, subscriberID, channelID primitive.ObjectID) (*models.ToggleResult, error)
	GetChannelSubscribers(ctx context.Context, channelID primitive.ObjectID) ([]models.OwnerInfo, error)
	GetSubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]models.OwnerInfo, error)
}

// MongoSubscriptionRepository implements SubscriptionRepository for MongoDB
type MongoSubscriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new MongoSubscriptionRepository
func NewMongoSubscriptionRepository(db *mongo.Database) *MongoSubscriptionRepository {
	return &MongoSubscriptionRepository{collection: db.Collection("subscriptions")}
}

// Toggle flips the subscription state of (subscriberID, channelID). The
// unique compound index on (subscriber, channel) keeps concurrent togglers
// from creating duplicate records.
func (r *MongoSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID primitive.ObjectID) (*models.ToggleResult, error) {
	filter := bson.M{
		"subscriber": subscriberID,
		"channel":    channelID,
	}

	record := &models.Subscription{
		ID:         primitive.NewObjectID(),
		Subscriber: subscriberID,
		Channel:    channelID,
		CreatedAt:  time.Now(),
	}

	var deleted models.Subscription
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

// GetChannelSubscribers lists the users subscribed to a channel.
func (r *MongoSubscriptionRepository) GetChannelSubscribers(ctx context.Context, channelID primitive.ObjectID) ([]models.OwnerInfo, error) {
	return r.lookupUsers(ctx, bson.M{"channel": channelID}, "subscriber")
}

// GetSubscribedChannels lists the channels a user is subscribed to.
func (r *MongoSubscriptionRepository) GetSubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]models.OwnerInfo, error) {
	return r.lookupUsers(ctx, bson.M{"subscriber": subscriberID}, "channel")
}

func (r *MongoSubscriptionRepository) lookupUsers(ctx context.Context, match bson.M, localField string) ([]models.OwnerInfo, error) {
	pipeline := []bson.D{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   localField,
			"foreignField": "_id",
			"as":           "user",
			"pipeline": bson.A{
				bson.M{"$project": bson.M{"full_name": 1, "username": 1, "avatar": 1}},
			},
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$user"}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.OwnerInfo{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
