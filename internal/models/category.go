package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a user-owned grouping for journal entries. Its name is unique
// per owner, enforced by a compound unique index on user_id+name.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name        string             `bson:"name" json:"name"`
	Color       string             `bson:"color" json:"color"`
	Icon        string             `bson:"icon,omitempty" json:"icon,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}
