package auth

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrForbidden means the actor is authenticated but does not own the resource.
var ErrForbidden = errors.New("you don't have permission to perform this action")

// RequireOwner allows a mutation only when the actor is the recorded owner.
// Identifiers are compared in their normalized hex form so the check behaves
// the same for every resource kind.
func RequireOwner(actorID, ownerID primitive.ObjectID) error {
	if actorID.Hex() != ownerID.Hex() {
		return ErrForbidden
	}
	return nil
}
