package services

import (
	"context"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daybookhq/daybook-backend/internal/apperr"
	"github.com/daybookhq/daybook-backend/internal/config"
	"github.com/daybookhq/daybook-backend/internal/models"
)

// ListOptions are the filter, pagination and sort knobs for a listing.
// Zero values mean "not filtered".
type ListOptions struct {
	Mood          string
	Tags          []string
	Favorite      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Search        string

	Page  int
	Limit int
	Sort  string // createdAt | -createdAt | updatedAt | -updatedAt
}

// List returns one page of the owner's entries plus the total count of the
// filter set before pagination.
func (s *JournalService) List(ctx context.Context, ownerID primitive.ObjectID, opts ListOptions) ([]models.JournalEntry, int64, error) {
	if err := s.checkSearchLength(opts.Search); err != nil {
		return nil, 0, err
	}

	filter := buildListFilter(ownerID, opts)
	page, limit := normalizePagination(opts.Page, opts.Limit, s.rules)
	skip := int64(page-1) * int64(limit)

	total, err := s.journals().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}

	findOpts := options.Find().
		SetSort(sortOption(opts.Sort)).
		SetSkip(skip).
		SetLimit(int64(limit))

	cursor, err := s.journals().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	entries := []models.JournalEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return entries, total, nil
}

// Search returns all of the owner's entries whose title or content matches
// the query, case-insensitively. The query is required.
func (s *JournalService) Search(ctx context.Context, ownerID primitive.ObjectID, query string) ([]models.JournalEntry, error) {
	if query == "" {
		return nil, apperr.BadRequest("Search query is required")
	}
	if err := s.checkSearchLength(query); err != nil {
		return nil, err
	}

	filter := bson.M{
		"user_id": ownerID,
		"$or":     textSearchClauses(query),
	}

	cursor, err := s.journals().Find(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	entries := []models.JournalEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}

// MoodCounts groups the owner's entries by mood.
func (s *JournalService) MoodCounts(ctx context.Context, ownerID primitive.ObjectID) (map[string]int64, error) {
	pipeline := mongoPipeline(
		bson.M{"$match": bson.M{"user_id": ownerID}},
		bson.M{"$group": bson.M{"_id": "$mood", "count": bson.M{"$sum": 1}}},
	)

	cursor, err := s.journals().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Mood  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Internal(err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Mood] = row.Count
	}
	return counts, nil
}

// checkSearchLength caps the free-text query length, counted in runes.
func (s *JournalService) checkSearchLength(query string) error {
	if utf8.RuneCountInString(query) > s.rules.SearchMax {
		return apperr.BadRequest(fmt.Sprintf("Search query cannot exceed %d characters", s.rules.SearchMax))
	}
	return nil
}

// buildListFilter translates ListOptions into a Mongo filter document.
// Filters are AND-combined; the free-text search is an OR over title and
// content inside that conjunction. Everything is scoped to the owner.
func buildListFilter(ownerID primitive.ObjectID, opts ListOptions) bson.M {
	filter := bson.M{"user_id": ownerID}

	if opts.Mood != "" {
		filter["mood"] = opts.Mood
	}
	if len(opts.Tags) > 0 {
		filter["tags"] = bson.M{"$in": opts.Tags}
	}
	if opts.Favorite != nil {
		filter["is_favorite"] = *opts.Favorite
	}
	if opts.CreatedAfter != nil || opts.CreatedBefore != nil {
		createdAt := bson.M{}
		if opts.CreatedAfter != nil {
			createdAt["$gte"] = *opts.CreatedAfter
		}
		if opts.CreatedBefore != nil {
			createdAt["$lte"] = *opts.CreatedBefore
		}
		filter["created_at"] = createdAt
	}
	if opts.Search != "" {
		filter["$or"] = textSearchClauses(opts.Search)
	}

	return filter
}

// textSearchClauses builds the case-insensitive title-OR-content match.
// The query is regex-escaped so it matches as a literal substring.
func textSearchClauses(query string) bson.A {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.A{
		bson.M{"title": pattern},
		bson.M{"content": pattern},
	}
}

// normalizePagination applies defaults and clamps the limit to the
// configured maximum even when a larger value is requested.
func normalizePagination(page, limit int, rules *config.Rules) (int, int) {
	if page < 1 {
		page = rules.DefaultPage
	}
	if limit < 1 {
		limit = rules.DefaultLimit
	}
	if limit > rules.MaxLimit {
		limit = rules.MaxLimit
	}
	return page, limit
}

// sortOption maps the sort key to a Mongo sort document. Unknown keys fall
// back to newest-first.
func sortOption(sort string) bson.D {
	switch sort {
	case "createdAt":
		return bson.D{{Key: "created_at", Value: 1}}
	case "-createdAt":
		return bson.D{{Key: "created_at", Value: -1}}
	case "updatedAt":
		return bson.D{{Key: "updated_at", Value: 1}}
	case "-updatedAt":
		return bson.D{{Key: "updated_at", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

func mongoPipeline(stages ...bson.M) []bson.M { return stages }
