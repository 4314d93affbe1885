package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account document. The password hash never leaves the server:
// it is excluded from JSON and from the projections used by read paths.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password,omitempty" json:"-"`

	Profile     Profile     `bson:"profile" json:"profile"`
	Preferences Preferences `bson:"preferences" json:"preferences"`

	IsActive bool   `bson:"is_active" json:"is_active"`
	Role     string `bson:"role" json:"role"`
}

type Profile struct {
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Bio       string `bson:"bio,omitempty" json:"bio,omitempty"`
	Avatar    string `bson:"avatar" json:"avatar"`
}

type Preferences struct {
	Theme        string `bson:"theme" json:"theme"`
	Timezone     string `bson:"timezone" json:"timezone"`
	ReminderTime string `bson:"reminder_time,omitempty" json:"reminder_time,omitempty"`
}

// FullName returns "First Last", falling back to the username.
func (u *User) FullName() string {
	if u.Profile.FirstName != "" && u.Profile.LastName != "" {
		return u.Profile.FirstName + " " + u.Profile.LastName
	}
	return u.Username
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
