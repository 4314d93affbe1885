package services

import (
	"context"
	"net/url"
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
	"github.com/daybookhq/daybook-backend/pkg/utils"
)

const usersCollection = "users"

// userProjection excludes the password hash from every read path.
var userProjection = bson.M{"password": 0}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type ProfileInput struct {
	FirstName string
	LastName  string
	Bio       string
	Avatar    string
}

type PreferencesInput struct {
	Theme        string
	Timezone     string
	ReminderTime string
}

// UserProvider is the account surface the handlers depend on.
type UserProvider interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, identifier, password string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*models.User, error)
	UpdatePreferences(ctx context.Context, userID primitive.ObjectID, in PreferencesInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
}

// UserService implements account management on MongoDB.
type UserService struct {
	db        *mongo.Database
	rules     *config.Rules
	validator *validate.Validator
}

func NewUserService(db *mongo.Database, rules *config.Rules, validator *validate.Validator) *UserService {
	return &UserService{db: db, rules: rules, validator: validator}
}

func (s *UserService) users() *mongo.Collection { return s.db.Collection(usersCollection) }

// Register creates an account. Username and email are lowercased; global
// uniqueness is backstopped by the unique indexes, so a losing race still
// surfaces as Conflict rather than a duplicate document.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if errs := s.validator.Registration(in.Username, in.Email, in.Password, in.FirstName, in.LastName); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	// Friendly pre-checks; the unique index is the real guarantee.
	if err := s.users().FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if err != mongo.ErrNoDocuments {
		return nil, apperr.Internal(err)
	}
	if err := s.users().FindOne(ctx, bson.M{"username": username}).Err(); err == nil {
		return nil, apperr.Conflict("Username already taken")
	} else if err != mongo.ErrNoDocuments {
		return nil, apperr.Internal(err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := time.Now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Username:  username,
		Email:     email,
		Password:  hash,
		Profile: models.Profile{
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
		},
		Preferences: models.Preferences{
			Theme:    s.rules.DefaultTheme,
			Timezone: s.rules.DefaultTimezone,
		},
		IsActive: true,
		Role:     models.RoleUser,
	}
	user.Profile.Avatar = defaultAvatar(user)

	if _, err := s.users().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Internal(err)
	}

	user.Password = ""
	return user, nil
}

// Authenticate verifies credentials for an email-or-username identifier.
// Missing accounts and wrong passwords produce the same error.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return nil, apperr.BadRequest("Identifier and password are required")
	}

	filter := bson.M{"username": identifier}
	if strings.Contains(identifier, "@") {
		filter = bson.M{"email": identifier}
	}

	var user models.User
	if err := s.users().FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.Unauthenticated("Invalid credentials")
		}
		return nil, apperr.Internal(err)
	}

	if !user.IsActive {
		return nil, apperr.Unauthenticated("Account is deactivated")
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return nil, apperr.Unauthenticated("Invalid credentials")
	}

	user.Password = ""
	return &user, nil
}

// FindByID loads an account with the password excluded.
func (s *UserService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users().
		FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(userProjection)).
		Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

// UpdateProfile replaces the profile block.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*models.User, error) {
	if errs := s.validator.Profile(in.FirstName, in.LastName, in.Bio, in.Avatar); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Profile = models.Profile{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Bio:       strings.TrimSpace(in.Bio),
		Avatar:    in.Avatar,
	}
	if user.Profile.Avatar == "" {
		user.Profile.Avatar = defaultAvatar(user)
	}
	user.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{"profile": user.Profile, "updated_at": user.UpdatedAt}}
	if _, err := s.users().UpdateByID(ctx, userID, update); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// UpdatePreferences replaces the preferences block.
func (s *UserService) UpdatePreferences(ctx context.Context, userID primitive.ObjectID, in PreferencesInput) (*models.User, error) {
	if errs := s.validator.Preferences(in.Theme, in.Timezone, in.ReminderTime); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	theme := in.Theme
	if theme == "" {
		theme = s.rules.DefaultTheme
	}
	timezone := in.Timezone
	if timezone == "" {
		timezone = s.rules.DefaultTimezone
	}

	update := bson.M{"$set": bson.M{
		"preferences": models.Preferences{
			Theme:        theme,
			Timezone:     timezone,
			ReminderTime: in.ReminderTime,
		},
		"updated_at": time.Now(),
	}}

	res, err := s.users().UpdateByID(ctx, userID, update)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if res.MatchedCount == 0 {
		return nil, apperr.NotFound("User not found")
	}
	return s.FindByID(ctx, userID)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if errs := s.validator.Password(newPassword); len(errs) > 0 {
		return apperr.Validation(errs)
	}

	var user models.User
	if err := s.users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal(err)
	}

	ok, err := utils.VerifyPassword(currentPassword, user.Password)
	if err != nil || !ok {
		return apperr.Unauthenticated("Invalid credentials")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}

	update := bson.M{"$set": bson.M{"password": hash, "updated_at": time.Now()}}
	if _, err := s.users().UpdateByID(ctx, userID, update); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// defaultAvatar builds a generated-avatar URL from the account's display
// name.
func defaultAvatar(u *models.User) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(u.FullName())
}
