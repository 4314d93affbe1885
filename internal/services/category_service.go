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
	"github.com/daybookhq/daybook-backend/internal/auth"
	"github.com/daybookhq/daybook-backend/internal/config"
	"github.com/daybookhq/daybook-backend/internal/models"
	"github.com/daybookhq/daybook-backend/internal/validate"
)

const categoriesCollection = "categories"

type CategoryInput struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type CategoryProvider interface {
	Create(ctx context.Context, owner *models.User, in CategoryInput) (*models.Category, error)
	Get(ctx context.Context, caller *models.User, id primitive.ObjectID) (*models.Category, error)
	Update(ctx context.Context, caller *models.User, id primitive.ObjectID, in CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, caller *models.User, id primitive.ObjectID) error
	List(ctx context.Context, ownerID primitive.ObjectID) ([]models.Category, error)
}

// CategoryService implements category CRUD on MongoDB. Per-owner name
// uniqueness is enforced by the compound unique index on user_id+name, so
// a duplicate insert is rejected at the store layer without a racy
// check-then-insert.
type CategoryService struct {
	db        *mongo.Database
	rules     *config.Rules
	validator *validate.Validator
}

func NewCategoryService(db *mongo.Database, rules *config.Rules, validator *validate.Validator) *CategoryService {
	return &CategoryService{db: db, rules: rules, validator: validator}
}

func (s *CategoryService) categories() *mongo.Collection {
	return s.db.Collection(categoriesCollection)
}

func (s *CategoryService) Create(ctx context.Context, owner *models.User, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if errs := s.validator.Category(name, in.Color, in.Icon, in.Description); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	color := in.Color
	if color == "" {
		color = s.rules.DefaultCategoryColor
	}

	now := time.Now()
	category := &models.Category{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      owner.ID,
		Name:        name,
		Color:       color,
		Icon:        strings.TrimSpace(in.Icon),
		Description: strings.TrimSpace(in.Description),
	}

	if _, err := s.categories().InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("Category with this name already exists")
		}
		return nil, apperr.Internal(err)
	}
	return category, nil
}

// Get loads a single category: missing is NotFound, foreign-owned is
// Forbidden.
func (s *CategoryService) Get(ctx context.Context, caller *models.User, id primitive.ObjectID) (*models.Category, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.Owns(caller, category.UserID) {
		return nil, apperr.Forbidden("You do not have access to this category")
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, caller *models.User, id primitive.ObjectID, in CategoryInput) (*models.Category, error) {
	category, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if errs := s.validator.Category(name, in.Color, in.Icon, in.Description); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	category.Name = name
	if in.Color != "" {
		category.Color = in.Color
	}
	category.Icon = strings.TrimSpace(in.Icon)
	category.Description = strings.TrimSpace(in.Description)
	category.UpdatedAt = time.Now()

	if _, err := s.categories().ReplaceOne(ctx, bson.M{"_id": id}, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("Category with this name already exists")
		}
		return nil, apperr.Internal(err)
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, caller *models.User, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	if _, err := s.categories().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// List returns the owner's categories sorted by name.
func (s *CategoryService) List(ctx context.Context, ownerID primitive.ObjectID) ([]models.Category, error) {
	cursor, err := s.categories().Find(ctx,
		bson.M{"user_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *CategoryService) load(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	if err := s.categories().FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("Category not found")
		}
		return nil, apperr.Internal(err)
	}
	return &category, nil
}
