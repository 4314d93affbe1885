package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daybookhq/daybook-backend/internal/apperr"
	"github.com/daybookhq/daybook-backend/internal/config"
	"github.com/daybookhq/daybook-backend/internal/models"
	"github.com/daybookhq/daybook-backend/internal/validate"
)

const (
	promptsCollection     = "prompts"
	activePromptsCacheKey = "prompts:active"
)

type PromptInput struct {
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
	IsActive *bool  `json:"is_active"`
}

type PromptProvider interface {
	ListActive(ctx context.Context) ([]models.Prompt, error)
	Random(ctx context.Context, category string) (*models.Prompt, error)
	ByCategory(ctx context.Context, category string) ([]models.Prompt, error)
	Create(ctx context.Context, in PromptInput) (*models.Prompt, error)
	Update(ctx context.Context, id primitive.ObjectID, in PromptInput) (*models.Prompt, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PromptService manages the global writing prompt pool. Reads are public;
// writes are admin-only (enforced at the routing layer). The active list
// is cached in Redis and invalidated on every admin write.
type PromptService struct {
	db        *mongo.Database
	rules     *config.Rules
	validator *validate.Validator
	cache     *CacheService
}

func NewPromptService(db *mongo.Database, rules *config.Rules, validator *validate.Validator, cache *CacheService) *PromptService {
	return &PromptService{db: db, rules: rules, validator: validator, cache: cache}
}

func (s *PromptService) prompts() *mongo.Collection { return s.db.Collection(promptsCollection) }

// ListActive returns all active prompts grouped by category, newest first
// within a category.
func (s *PromptService) ListActive(ctx context.Context) ([]models.Prompt, error) {
	var cached []models.Prompt
	if hit, _ := s.cache.Get(ctx, activePromptsCacheKey, &cached); hit {
		return cached, nil
	}

	cursor, err := s.prompts().Find(ctx,
		bson.M{"is_active": true},
		options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	prompts := []models.Prompt{}
	if err := cursor.All(ctx, &prompts); err != nil {
		return nil, apperr.Internal(err)
	}

	// Best effort; a failed cache write never fails the read.
	_ = s.cache.Set(ctx, activePromptsCacheKey, prompts)

	return prompts, nil
}

// Random picks one active prompt via $sample, optionally constrained to a
// category.
func (s *PromptService) Random(ctx context.Context, category string) (*models.Prompt, error) {
	match := bson.M{"is_active": true}
	if category != "" {
		if !s.rules.ValidPromptCategory(category) {
			return nil, apperr.BadRequest("Invalid prompt category")
		}
		match["category"] = category
	}

	pipeline := mongoPipeline(
		bson.M{"$match": match},
		bson.M{"$sample": bson.M{"size": 1}},
	)

	cursor, err := s.prompts().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	var prompts []models.Prompt
	if err := cursor.All(ctx, &prompts); err != nil {
		return nil, apperr.Internal(err)
	}
	if len(prompts) == 0 {
		return nil, apperr.NotFound("No prompts available")
	}
	return &prompts[0], nil
}

// ByCategory returns the active prompts of one category, newest first.
func (s *PromptService) ByCategory(ctx context.Context, category string) ([]models.Prompt, error) {
	if !s.rules.ValidPromptCategory(category) {
		return nil, apperr.BadRequest("Invalid prompt category")
	}

	cursor, err := s.prompts().Find(ctx,
		bson.M{"category": category, "is_active": true},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	prompts := []models.Prompt{}
	if err := cursor.All(ctx, &prompts); err != nil {
		return nil, apperr.Internal(err)
	}
	return prompts, nil
}

func (s *PromptService) Create(ctx context.Context, in PromptInput) (*models.Prompt, error) {
	text := strings.TrimSpace(in.Prompt)
	if errs := s.validator.Prompt(text, in.Category); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	now := time.Now()
	prompt := &models.Prompt{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Prompt:    text,
		Category:  in.Category,
		IsActive:  isActive,
	}

	if _, err := s.prompts().InsertOne(ctx, prompt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("Prompt with this text already exists")
		}
		return nil, apperr.Internal(err)
	}

	_ = s.cache.Delete(ctx, activePromptsCacheKey)
	return prompt, nil
}

func (s *PromptService) Update(ctx context.Context, id primitive.ObjectID, in PromptInput) (*models.Prompt, error) {
	var prompt models.Prompt
	if err := s.prompts().FindOne(ctx, bson.M{"_id": id}).Decode(&prompt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("Prompt not found")
		}
		return nil, apperr.Internal(err)
	}

	text := strings.TrimSpace(in.Prompt)
	if errs := s.validator.Prompt(text, in.Category); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	prompt.Prompt = text
	prompt.Category = in.Category
	if in.IsActive != nil {
		prompt.IsActive = *in.IsActive
	}
	prompt.UpdatedAt = time.Now()

	if _, err := s.prompts().ReplaceOne(ctx, bson.M{"_id": id}, &prompt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("Prompt with this text already exists")
		}
		return nil, apperr.Internal(err)
	}

	_ = s.cache.Delete(ctx, activePromptsCacheKey)
	return &prompt, nil
}

func (s *PromptService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.prompts().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Prompt not found")
	}

	_ = s.cache.Delete(ctx, activePromptsCacheKey)
	return nil
}
