package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/daybookhq/daybook-backend/internal/apperr"
	"github.com/daybookhq/daybook-backend/internal/auth"
	"github.com/daybookhq/daybook-backend/internal/config"
	"github.com/daybookhq/daybook-backend/internal/models"
	"github.com/daybookhq/daybook-backend/internal/validate"
)

const journalsCollection = "journals"

type JournalInput struct {
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	Mood        string              `json:"mood"`
	Tags        []string            `json:"tags"`
	IsFavorite  *bool               `json:"is_favorite"`
	IsPrivate   *bool               `json:"is_private"`
	Location    *models.Location    `json:"location"`
	Weather     *models.Weather     `json:"weather"`
	Attachments []models.Attachment `json:"attachments"`
}

// JournalProvider is the journal surface the handlers depend on. The
// caller identity is passed explicitly; every operation is scoped to it.
type JournalProvider interface {
	Create(ctx context.Context, owner *models.User, in JournalInput) (*models.JournalEntry, error)
	Get(ctx context.Context, caller *models.User, id primitive.ObjectID) (*models.JournalEntry, error)
	Update(ctx context.Context, caller *models.User, id primitive.ObjectID, in JournalInput) (*models.JournalEntry, error)
	Delete(ctx context.Context, caller *models.User, id primitive.ObjectID) error
	ToggleFavorite(ctx context.Context, caller *models.User, id primitive.ObjectID) (*models.JournalEntry, error)
	List(ctx context.Context, ownerID primitive.ObjectID, opts ListOptions) ([]models.JournalEntry, int64, error)
	Search(ctx context.Context, ownerID primitive.ObjectID, query string) ([]models.JournalEntry, error)
	MoodCounts(ctx context.Context, ownerID primitive.ObjectID) (map[string]int64, error)
	Analytics(ctx context.Context, ownerID primitive.ObjectID) (*Analytics, error)
}

// JournalService implements journal storage and the query engine on
// MongoDB.
type JournalService struct {
	db        *mongo.Database
	rules     *config.Rules
	validator *validate.Validator
	now       func() time.Time
}

func NewJournalService(db *mongo.Database, rules *config.Rules, validator *validate.Validator) *JournalService {
	return &JournalService{db: db, rules: rules, validator: validator, now: time.Now}
}

func (s *JournalService) journals() *mongo.Collection { return s.db.Collection(journalsCollection) }

// Create inserts a new entry owned by owner. Mood defaults to neutral and
// tags are normalized before validation.
func (s *JournalService) Create(ctx context.Context, owner *models.User, in JournalInput) (*models.JournalEntry, error) {
	now := s.now()
	entry := &models.JournalEntry{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    owner.ID,
		IsPrivate: true,
	}
	applyInput(entry, in, s.rules.DefaultMood)

	if errs := s.validator.JournalEntry(entry); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	if _, err := s.journals().InsertOne(ctx, entry); err != nil {
		return nil, apperr.Internal(err)
	}
	return entry, nil
}

// Get loads a single entry. A missing entry is NotFound; an entry owned by
// someone else is Forbidden. The two are never conflated.
func (s *JournalService) Get(ctx context.Context, caller *models.User, id primitive.ObjectID) (*models.JournalEntry, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.Owns(caller, entry.UserID) {
		return nil, apperr.Forbidden("You do not have access to this journal")
	}
	return entry, nil
}

// Update replaces the mutable fields of an owned entry. The owner
// reference is never touched.
func (s *JournalService) Update(ctx context.Context, caller *models.User, id primitive.ObjectID, in JournalInput) (*models.JournalEntry, error) {
	entry, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	applyInput(entry, in, entry.Mood)
	entry.UpdatedAt = s.now()

	if errs := s.validator.JournalEntry(entry); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	if _, err := s.journals().ReplaceOne(ctx, bson.M{"_id": id}, entry); err != nil {
		return nil, apperr.Internal(err)
	}
	return entry, nil
}

// Delete hard-deletes an owned entry.
func (s *JournalService) Delete(ctx context.Context, caller *models.User, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	if _, err := s.journals().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// ToggleFavorite flips the favorite flag on an owned entry.
func (s *JournalService) ToggleFavorite(ctx context.Context, caller *models.User, id primitive.ObjectID) (*models.JournalEntry, error) {
	entry, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	entry.IsFavorite = !entry.IsFavorite
	entry.UpdatedAt = s.now()

	update := bson.M{"$set": bson.M{"is_favorite": entry.IsFavorite, "updated_at": entry.UpdatedAt}}
	if _, err := s.journals().UpdateByID(ctx, id, update); err != nil {
		return nil, apperr.Internal(err)
	}
	return entry, nil
}

func (s *JournalService) load(ctx context.Context, id primitive.ObjectID) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	if err := s.journals().FindOne(ctx, bson.M{"_id": id}).Decode(&entry); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("Journal entry not found")
		}
		return nil, apperr.Internal(err)
	}
	return &entry, nil
}

// applyInput copies a request payload onto an entry, applying the mood
// default/lowercasing and tag normalization. Repeated saves of the same
// raw tag list converge to the same stored set.
func applyInput(entry *models.JournalEntry, in JournalInput, fallbackMood string) {
	entry.Title = strings.TrimSpace(in.Title)
	entry.Content = in.Content

	mood := strings.ToLower(strings.TrimSpace(in.Mood))
	if mood == "" {
		mood = fallbackMood
	}
	entry.Mood = mood

	entry.Tags = models.NormalizeTags(in.Tags)

	if in.IsFavorite != nil {
		entry.IsFavorite = *in.IsFavorite
	}
	if in.IsPrivate != nil {
		entry.IsPrivate = *in.IsPrivate
	}

	if in.Location != nil {
		loc := *in.Location
		if loc.Type == "" {
			loc.Type = "Point"
		}
		// An empty location object is treated as absent
		if len(loc.Coordinates) == 0 && loc.PlaceName == "" {
			entry.Location = nil
		} else {
			entry.Location = &loc
		}
	}
	if in.Weather != nil {
		entry.Weather = in.Weather
	}
	if in.Attachments != nil {
		entry.Attachments = in.Attachments
	}
}
