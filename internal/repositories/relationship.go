package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/playtube/backend/internal/models"
)

// toggleRelationship flips a presence record matching filter. A present
// record is removed with a single FindOneAndDelete; an absent one is created
// by inserting record. The uniqueness index on the collection turns the
// losing insert of a concurrent race into a duplicate-key error, so two
// togglers observing "absent" can never both create a record for the same
// pair. The deleted document is decoded into deleted when the flip lands off.
func toggleRelationship(ctx context.Context, coll *mongo.Collection, filter bson.M, record, deleted interface{}) (models.ToggleState, error) {
	err := coll.FindOneAndDelete(ctx, filter).Decode(deleted)
	if err == nil {
		return models.ToggleOff, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", err
	}

	if _, err := coll.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicate
		}
		return "", err
	}
	return models.ToggleOn, nil
}

// ownerLookupStages joins a content document's owner field to the projected
// user fields embedded as owner_info.
func ownerLookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "owner",
			"foreignField": "_id",
			"as":           "owner_info",
			"pipeline": bson.A{
				bson.M{"$project": bson.M{"full_name": 1, "username": 1, "avatar": 1}},
			},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"owner_info": bson.M{"$first": "$owner_info"},
		}}},
	}
}
