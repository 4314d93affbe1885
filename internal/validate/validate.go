// Package validate implements the per-field validation rule set. A
// Validator is built from the injected rule tables so components can be
// tested against a custom rule set.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/daybookhq/daybook-backend/internal/apperr"
	"github.com/daybookhq/daybook-backend/internal/config"
	"github.com/daybookhq/daybook-backend/internal/models"
)

// Lengths are counted in characters, not bytes, so multibyte input is
// judged the same as ASCII.
func runeLen(s string) int { return utf8.RuneCountInString(s) }

type Validator struct {
	rules *config.Rules
}

func New(rules *config.Rules) *Validator {
	return &Validator{rules: rules}
}

// Registration validates a signup request.
func (v *Validator) Registration(username, email, password, firstName, lastName string) []apperr.FieldError {
	var errs []apperr.FieldError

	username = strings.TrimSpace(username)
	if n := runeLen(username); n < v.rules.Username.Min || n > v.rules.Username.Max {
		errs = append(errs, apperr.FieldError{
			Field:   "username",
			Message: fmt.Sprintf("Username must be between %d and %d characters", v.rules.Username.Min, v.rules.Username.Max),
		})
	} else if !v.rules.UsernameRe.MatchString(username) {
		errs = append(errs, apperr.FieldError{
			Field:   "username",
			Message: "Username can only contain letters, numbers, underscores and hyphens",
		})
	}

	if !v.rules.EmailRe.MatchString(strings.TrimSpace(email)) {
		errs = append(errs, apperr.FieldError{Field: "email", Message: "Please provide a valid email address"})
	}

	errs = append(errs, v.Password(password)...)

	if strings.TrimSpace(firstName) == "" {
		errs = append(errs, apperr.FieldError{Field: "first_name", Message: "First name is required"})
	} else if runeLen(firstName) > v.rules.NameMax {
		errs = append(errs, apperr.FieldError{
			Field:   "first_name",
			Message: fmt.Sprintf("First name cannot exceed %d characters", v.rules.NameMax),
		})
	}
	if runeLen(lastName) > v.rules.NameMax {
		errs = append(errs, apperr.FieldError{
			Field:   "last_name",
			Message: fmt.Sprintf("Last name cannot exceed %d characters", v.rules.NameMax),
		})
	}

	return errs
}

// Password checks the length policy (6-10 characters).
func (v *Validator) Password(password string) []apperr.FieldError {
	if n := runeLen(password); n < v.rules.Password.Min || n > v.rules.Password.Max {
		return []apperr.FieldError{{
			Field:   "password",
			Message: fmt.Sprintf("Password must be between %d and %d characters", v.rules.Password.Min, v.rules.Password.Max),
		}}
	}
	return nil
}

// Profile validates a profile update.
func (v *Validator) Profile(firstName, lastName, bio, avatar string) []apperr.FieldError {
	var errs []apperr.FieldError

	if strings.TrimSpace(firstName) == "" {
		errs = append(errs, apperr.FieldError{Field: "first_name", Message: "First name is required"})
	} else if runeLen(firstName) > v.rules.NameMax {
		errs = append(errs, apperr.FieldError{
			Field:   "first_name",
			Message: fmt.Sprintf("First name cannot exceed %d characters", v.rules.NameMax),
		})
	}
	if runeLen(lastName) > v.rules.NameMax {
		errs = append(errs, apperr.FieldError{
			Field:   "last_name",
			Message: fmt.Sprintf("Last name cannot exceed %d characters", v.rules.NameMax),
		})
	}
	if runeLen(bio) > v.rules.BioMax {
		errs = append(errs, apperr.FieldError{
			Field:   "bio",
			Message: fmt.Sprintf("Bio cannot exceed %d characters", v.rules.BioMax),
		})
	}
	if avatar != "" && !v.rules.URLRe.MatchString(avatar) {
		errs = append(errs, apperr.FieldError{Field: "avatar", Message: "Avatar must be a valid URL"})
	}

	return errs
}

// Preferences validates a preferences update.
func (v *Validator) Preferences(theme, timezone, reminderTime string) []apperr.FieldError {
	var errs []apperr.FieldError

	if theme != "" && !v.rules.ValidTheme(theme) {
		errs = append(errs, apperr.FieldError{
			Field:   "theme",
			Message: "Theme must be one of: " + strings.Join(v.rules.Themes, ", "),
		})
	}
	_ = timezone // free-form, any non-empty string is accepted
	if reminderTime != "" && !v.rules.ReminderTimeRe.MatchString(reminderTime) {
		errs = append(errs, apperr.FieldError{
			Field:   "reminder_time",
			Message: "Reminder time must be in HH:MM format (e.g., 09:00)",
		})
	}

	return errs
}

// JournalEntry validates an entry after normalization (tags already
// cleaned, mood already lowercased).
func (v *Validator) JournalEntry(e *models.JournalEntry) []apperr.FieldError {
	var errs []apperr.FieldError

	if n := runeLen(e.Title); n < v.rules.Title.Min || n > v.rules.Title.Max {
		errs = append(errs, apperr.FieldError{
			Field:   "title",
			Message: fmt.Sprintf("Title must be between %d and %d characters", v.rules.Title.Min, v.rules.Title.Max),
		})
	}
	if n := runeLen(e.Content); n < v.rules.Content.Min || n > v.rules.Content.Max {
		errs = append(errs, apperr.FieldError{
			Field:   "content",
			Message: fmt.Sprintf("Content must be between %d and %d characters", v.rules.Content.Min, v.rules.Content.Max),
		})
	}
	if !v.rules.ValidMood(e.Mood) {
		errs = append(errs, apperr.FieldError{Field: "mood", Message: fmt.Sprintf("%q is not a valid mood", e.Mood)})
	}
	if len(e.Tags) > v.rules.MaxTags {
		errs = append(errs, apperr.FieldError{
			Field:   "tags",
			Message: fmt.Sprintf("Cannot have more than %d tags", v.rules.MaxTags),
		})
	}
	for _, tag := range e.Tags {
		if runeLen(tag) > v.rules.Tag.Max {
			errs = append(errs, apperr.FieldError{
				Field:   "tags",
				Message: fmt.Sprintf("Tag %q cannot exceed %d characters", tag, v.rules.Tag.Max),
			})
		}
	}

	if e.Location != nil {
		errs = append(errs, v.location(e.Location)...)
	}
	if e.Weather != nil && e.Weather.Temperature != nil {
		if t := *e.Weather.Temperature; t < -100 || t > 100 {
			errs = append(errs, apperr.FieldError{Field: "weather.temperature", Message: "Temperature must be between -100 and 100"})
		}
	}
	for i, a := range e.Attachments {
		errs = append(errs, v.attachment(i, a)...)
	}

	return errs
}

func (v *Validator) location(loc *models.Location) []apperr.FieldError {
	var errs []apperr.FieldError

	if len(loc.Coordinates) > 0 {
		if len(loc.Coordinates) != 2 {
			errs = append(errs, apperr.FieldError{Field: "location.coordinates", Message: "Coordinates must be [longitude, latitude]"})
		} else {
			lng, lat := loc.Coordinates[0], loc.Coordinates[1]
			if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
				errs = append(errs, apperr.FieldError{
					Field:   "location.coordinates",
					Message: "Longitude must be between -180 and 180, latitude between -90 and 90",
				})
			}
		}
	}
	if runeLen(loc.PlaceName) > v.rules.PlaceMax {
		errs = append(errs, apperr.FieldError{
			Field:   "location.place_name",
			Message: fmt.Sprintf("Place name cannot exceed %d characters", v.rules.PlaceMax),
		})
	}

	return errs
}

func (v *Validator) attachment(i int, a models.Attachment) []apperr.FieldError {
	var errs []apperr.FieldError
	field := func(name string) string { return fmt.Sprintf("attachments[%d].%s", i, name) }

	if strings.TrimSpace(a.FileName) == "" {
		errs = append(errs, apperr.FieldError{Field: field("file_name"), Message: "File name is required"})
	}
	if !v.rules.URLRe.MatchString(a.FileURL) {
		errs = append(errs, apperr.FieldError{Field: field("file_url"), Message: "File URL must be a valid URL"})
	}
	if a.FileType != "" && !v.rules.ValidFileType(a.FileType) {
		errs = append(errs, apperr.FieldError{Field: field("file_type"), Message: fmt.Sprintf("%q is not a supported file type", a.FileType)})
	}
	if a.FileSize > v.rules.MaxFileSize {
		errs = append(errs, apperr.FieldError{
			Field:   field("file_size"),
			Message: fmt.Sprintf("File size cannot exceed %dMB", v.rules.MaxFileSize/(1024*1024)),
		})
	}

	return errs
}

// Category validates a category create/update. Name is expected trimmed.
func (v *Validator) Category(name, color, icon, description string) []apperr.FieldError {
	var errs []apperr.FieldError

	if n := runeLen(name); n < v.rules.Category.Min || n > v.rules.Category.Max {
		errs = append(errs, apperr.FieldError{
			Field:   "name",
			Message: fmt.Sprintf("Category name must be between %d and %d characters", v.rules.Category.Min, v.rules.Category.Max),
		})
	}
	if color != "" && !v.rules.HexColorRe.MatchString(color) {
		errs = append(errs, apperr.FieldError{Field: "color", Message: "Color must be a valid hex code (e.g., #3b82f6)"})
	}
	if runeLen(icon) > v.rules.IconMax {
		errs = append(errs, apperr.FieldError{
			Field:   "icon",
			Message: fmt.Sprintf("Icon name cannot exceed %d characters", v.rules.IconMax),
		})
	}
	if runeLen(description) > v.rules.DescMax {
		errs = append(errs, apperr.FieldError{
			Field:   "description",
			Message: fmt.Sprintf("Description cannot exceed %d characters", v.rules.DescMax),
		})
	}

	return errs
}

// Prompt validates a prompt create/update.
func (v *Validator) Prompt(text, category string) []apperr.FieldError {
	var errs []apperr.FieldError

	text = strings.TrimSpace(text)
	if n := runeLen(text); n < v.rules.Prompt.Min || n > v.rules.Prompt.Max {
		errs = append(errs, apperr.FieldError{
			Field:   "prompt",
			Message: fmt.Sprintf("Prompt must be between %d and %d characters", v.rules.Prompt.Min, v.rules.Prompt.Max),
		})
	}
	if !v.rules.ValidPromptCategory(category) {
		errs = append(errs, apperr.FieldError{Field: "category", Message: fmt.Sprintf("%q is not a valid prompt category", category)})
	}

	return errs
}
