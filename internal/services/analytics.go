package services

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daybookhq/daybook-backend/internal/apperr"
	"github.com/daybookhq/daybook-backend/internal/models"
)

// Analytics is the per-user statistics snapshot. Each facet is computed
// independently inside one aggregation pass; there is no cross-facet
// consistency guarantee under concurrent writes.
type Analytics struct {
	TotalJournals     int64            `json:"totalJournals"`
	JournalsThisWeek  int64            `json:"journalsThisWeek"`
	JournalsThisMonth int64            `json:"journalsThisMonth"`
	MostUsedTags      []TagCount       `json:"mostUsedTags"`
	MoodDistribution  map[string]int64 `json:"moodDistribution"`
	FavoriteCount     int64            `json:"favoriteCount"`
	AveragePerWeek    float64          `json:"averagePerWeek"`
}

type TagCount struct {
	Tag   string `json:"tag" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

type countDoc struct {
	Count int64 `bson:"count"`
}

type moodCountDoc struct {
	Mood  string `bson:"_id"`
	Count int64  `bson:"count"`
}

// Analytics computes the snapshot for one owner with a single $facet
// pipeline, then derives the weekly average from the oldest entry.
func (s *JournalService) Analytics(ctx context.Context, ownerID primitive.ObjectID) (*Analytics, error) {
	now := s.now()

	pipeline := mongoPipeline(
		bson.M{"$match": bson.M{"user_id": ownerID}},
		bson.M{"$facet": bson.M{
			"totalJournals": bson.A{
				bson.M{"$count": "count"},
			},
			"journalsThisWeek": bson.A{
				bson.M{"$match": bson.M{"created_at": bson.M{"$gte": startOfWeek(now)}}},
				bson.M{"$count": "count"},
			},
			"journalsThisMonth": bson.A{
				bson.M{"$match": bson.M{"created_at": bson.M{"$gte": startOfMonth(now)}}},
				bson.M{"$count": "count"},
			},
			"mostUsedTags": bson.A{
				bson.M{"$unwind": "$tags"},
				bson.M{"$group": bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}},
				bson.M{"$sort": bson.M{"count": -1}},
				bson.M{"$limit": 10},
			},
			"moodDistribution": bson.A{
				bson.M{"$group": bson.M{"_id": "$mood", "count": bson.M{"$sum": 1}}},
			},
			"favoriteCount": bson.A{
				bson.M{"$match": bson.M{"is_favorite": true}},
				bson.M{"$count": "count"},
			},
		}},
	)

	cursor, err := s.journals().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	var facets []struct {
		TotalJournals     []countDoc     `bson:"totalJournals"`
		JournalsThisWeek  []countDoc     `bson:"journalsThisWeek"`
		JournalsThisMonth []countDoc     `bson:"journalsThisMonth"`
		MostUsedTags      []TagCount     `bson:"mostUsedTags"`
		MoodDistribution  []moodCountDoc `bson:"moodDistribution"`
		FavoriteCount     []countDoc     `bson:"favoriteCount"`
	}
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, apperr.Internal(err)
	}

	result := &Analytics{
		MostUsedTags:     []TagCount{},
		MoodDistribution: map[string]int64{},
	}
	if len(facets) == 0 {
		return result, nil
	}
	f := facets[0]

	result.TotalJournals = firstCount(f.TotalJournals)
	result.JournalsThisWeek = firstCount(f.JournalsThisWeek)
	result.JournalsThisMonth = firstCount(f.JournalsThisMonth)
	result.FavoriteCount = firstCount(f.FavoriteCount)
	if f.MostUsedTags != nil {
		result.MostUsedTags = f.MostUsedTags
	}
	for _, m := range f.MoodDistribution {
		result.MoodDistribution[m.Mood] = m.Count
	}

	// Weekly average needs the oldest entry; skipped entirely for users
	// with no entries.
	if result.TotalJournals > 0 {
		var oldest models.JournalEntry
		err := s.journals().
			FindOne(ctx, bson.M{"user_id": ownerID}, options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})).
			Decode(&oldest)
		if err != nil && err != mongo.ErrNoDocuments {
			return nil, apperr.Internal(err)
		}
		if err == nil {
			result.AveragePerWeek = averagePerWeek(result.TotalJournals, oldest.CreatedAt, now)
		}
	}

	return result, nil
}

func firstCount(docs []countDoc) int64 {
	if len(docs) == 0 {
		return 0
	}
	return docs[0].Count
}

// startOfWeek returns local midnight of the most recent Sunday (Sunday is
// day 0, so the week starts there).
func startOfWeek(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()-int(now.Weekday()), 0, 0, 0, 0, now.Location())
}

// startOfMonth returns local midnight of the first day of now's month.
func startOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// averagePerWeek is total entries over the elapsed weeks since the oldest
// entry, floored at one week, rounded to one decimal.
func averagePerWeek(total int64, oldest, now time.Time) float64 {
	days := now.Sub(oldest).Hours() / 24
	weeks := math.Max(days/7, 1)
	return math.Round(float64(total)/weeks*10) / 10
}
