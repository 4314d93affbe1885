package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prompt is a writing prompt. Prompts are not owned by a user: anyone can
// read the active set, only admins manage them.
type Prompt struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Prompt   string `bson:"prompt" json:"prompt"`
	Category string `bson:"category" json:"category"`
	IsActive bool   `bson:"is_active" json:"is_active"`
}
