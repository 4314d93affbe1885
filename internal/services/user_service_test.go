package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daybookhq/daybook-backend/internal/models"
)

func TestDefaultAvatar(t *testing.T) {
	u := &models.User{
		Username: "jdoe",
		Profile:  models.Profile{FirstName: "Jane", LastName: "Doe"},
	}
	assert.Equal(t, "https://ui-avatars.com/api/?name=Jane+Doe", defaultAvatar(u))

	// Uses the account's display name, so a missing last name falls back
	// to the username rather than producing a lone first name
	u.Profile.LastName = ""
	assert.Equal(t, "https://ui-avatars.com/api/?name=jdoe", defaultAvatar(u))
}
