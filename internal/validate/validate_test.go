package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybookhq/daybook-backend/internal/apperr"
	"github.com/daybookhq/daybook-backend/internal/config"
	"github.com/daybookhq/daybook-backend/internal/models"
)

func newValidator() *Validator {
	return New(config.DefaultRules())
}

func fieldNames(errs []apperr.FieldError) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}

func TestRegistrationValid(t *testing.T) {
	v := newValidator()
	errs := v.Registration("jane_doe", "jane@example.com", "secret1", "Jane", "Doe")
	assert.Empty(t, errs)
}

func TestRegistrationInvalid(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name      string
		username  string
		email     string
		password  string
		firstName string
		wantField string
	}{
		{"username too short", "ab", "jane@example.com", "secret1", "Jane", "username"},
		{"username bad chars", "jane doe!", "jane@example.com", "secret1", "Jane", "username"},
		{"bad email", "jane_doe", "not-an-email", "secret1", "Jane", "email"},
		{"password too short", "jane_doe", "jane@example.com", "abc", "Jane", "password"},
		{"password too long", "jane_doe", "jane@example.com", "12345678901", "Jane", "password"},
		{"missing first name", "jane_doe", "jane@example.com", "secret1", "", "first_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Registration(tt.username, tt.email, tt.password, tt.firstName, "Doe")
			assert.Contains(t, fieldNames(errs), tt.wantField)
		})
	}
}

func TestJournalEntryBounds(t *testing.T) {
	v := newValidator()

	valid := func() *models.JournalEntry {
		return &models.JournalEntry{
			Title:   "A day",
			Content: "It was fine.",
			Mood:    "neutral",
		}
	}

	t.Run("valid entry passes", func(t *testing.T) {
		assert.Empty(t, v.JournalEntry(valid()))
	})

	t.Run("empty title", func(t *testing.T) {
		e := valid()
		e.Title = ""
		assert.Contains(t, fieldNames(v.JournalEntry(e)), "title")
	})

	t.Run("title too long", func(t *testing.T) {
		e := valid()
		e.Title = strings.Repeat("x", 201)
		assert.Contains(t, fieldNames(v.JournalEntry(e)), "title")
	})

	t.Run("content too long", func(t *testing.T) {
		e := valid()
		e.Content = strings.Repeat("x", 50001)
		assert.Contains(t, fieldNames(v.JournalEntry(e)), "content")
	})

	t.Run("unknown mood", func(t *testing.T) {
		e := valid()
		e.Mood = "ecstatic"
		assert.Contains(t, fieldNames(v.JournalEntry(e)), "mood")
	})

	t.Run("too many tags", func(t *testing.T) {
		e := valid()
		for i := 0; i < 11; i++ {
			e.Tags = append(e.Tags, strings.Repeat("a", i+1))
		}
		assert.Contains(t, fieldNames(v.JournalEntry(e)), "tags")
	})

	t.Run("tag too long", func(t *testing.T) {
		e := valid()
		e.Tags = []string{strings.Repeat("x", 11)}
		assert.Contains(t, fieldNames(v.JournalEntry(e)), "tags")
	})

	t.Run("bounds are counted in characters, not bytes", func(t *testing.T) {
		e := valid()
		// 70 four-byte runes: 280 bytes but well under the 200-char cap
		e.Title = strings.Repeat("\U0001F600", 70)
		e.Tags = []string{strings.Repeat("é", 10)}
		assert.Empty(t, v.JournalEntry(e))

		e.Title = strings.Repeat("\U0001F600", 201)
		e.Tags = []string{strings.Repeat("é", 11)}
		names := fieldNames(v.JournalEntry(e))
		assert.Contains(t, names, "title")
		assert.Contains(t, names, "tags")
	})

	t.Run("bad coordinates", func(t *testing.T) {
		e := valid()
		e.Location = &models.Location{Type: "Point", Coordinates: []float64{200, 0}}
		assert.Contains(t, fieldNames(v.JournalEntry(e)), "location.coordinates")
	})

	t.Run("temperature out of range", func(t *testing.T) {
		e := valid()
		temp := 150.0
		e.Weather = &models.Weather{Temperature: &temp}
		assert.Contains(t, fieldNames(v.JournalEntry(e)), "weather.temperature")
	})
}

func TestCategory(t *testing.T) {
	v := newValidator()

	assert.Empty(t, v.Category("Travel", "#ff8800", "plane", "Trips and places"))

	assert.Contains(t, fieldNames(v.Category("", "", "", "")), "name")
	assert.Contains(t, fieldNames(v.Category(strings.Repeat("x", 51), "", "", "")), "name")
	assert.Contains(t, fieldNames(v.Category("Travel", "red", "", "")), "color")
}

func TestPrompt(t *testing.T) {
	v := newValidator()

	require.Empty(t, v.Prompt("What made you smile today?", "gratitude"))

	assert.Contains(t, fieldNames(v.Prompt("too short", "gratitude")), "prompt")
	assert.Contains(t, fieldNames(v.Prompt(strings.Repeat("x", 501), "gratitude")), "prompt")
	assert.Contains(t, fieldNames(v.Prompt("What made you smile today?", "nonsense")), "category")
}

func TestPreferences(t *testing.T) {
	v := newValidator()

	assert.Empty(t, v.Preferences("dark", "UTC", "09:00"))
	assert.Empty(t, v.Preferences("", "", ""))

	assert.Contains(t, fieldNames(v.Preferences("neon", "", "")), "theme")
	assert.Contains(t, fieldNames(v.Preferences("", "", "9am")), "reminder_time")
	assert.Contains(t, fieldNames(v.Preferences("", "", "25:00")), "reminder_time")
}
