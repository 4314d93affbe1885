package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JournalEntry is a private journal document owned by exactly one user.
// The owner reference is set at creation and never changes.
type JournalEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title   string             `bson:"title" json:"title"`
	Content string             `bson:"content" json:"content"`
	Mood    string             `bson:"mood" json:"mood"`
	Tags    []string           `bson:"tags" json:"tags"`

	IsFavorite bool `bson:"is_favorite" json:"is_favorite"`
	IsPrivate  bool `bson:"is_private" json:"is_private"`

	Location    *Location    `bson:"location,omitempty" json:"location,omitempty"`
	Weather     *Weather     `bson:"weather,omitempty" json:"weather,omitempty"`
	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
}

// Location is a GeoJSON-style point with an optional place name.
// Coordinates are [longitude, latitude].
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	PlaceName   string    `bson:"place_name,omitempty" json:"place_name,omitempty"`
}

type Weather struct {
	Condition   string   `bson:"condition,omitempty" json:"condition,omitempty"`
	Temperature *float64 `bson:"temperature,omitempty" json:"temperature,omitempty"`
	Icon        string   `bson:"icon,omitempty" json:"icon,omitempty"`
}

type Attachment struct {
	FileName string `bson:"file_name" json:"file_name"`
	FileURL  string `bson:"file_url" json:"file_url"`
	FileType string `bson:"file_type,omitempty" json:"file_type,omitempty"`
	FileSize int64  `bson:"file_size,omitempty" json:"file_size,omitempty"`
}

// NormalizeTags trims, lowercases, drops empties and deduplicates while
// preserving first-seen order. Idempotent: applying it to its own output
// returns the same set.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
