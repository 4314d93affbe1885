package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daybookhq/daybook-backend/internal/models"
)

// Owns reports whether identity is the owner of a resource. Comparison is
// on the string form of the IDs so it holds regardless of how the owner
// reference was decoded.
func Owns(identity *models.User, ownerID primitive.ObjectID) bool {
	if identity == nil {
		return false
	}
	return identity.ID.Hex() == ownerID.Hex()
}
