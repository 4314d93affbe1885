package config

import (
	"regexp"
	"time"
)

// Rules holds the immutable domain tables and validation bounds used across
// the app. Built once at startup and handed to the validator and services
// instead of being read as package globals.
type Rules struct {
	Moods            []string
	Themes           []string
	PromptCategories []string

	DefaultMood          string
	DefaultTheme         string
	DefaultTimezone      string
	DefaultCategoryColor string

	Username   Bounds
	Password   Bounds
	Title      Bounds
	Content    Bounds
	Tag        Bounds
	MaxTags    int
	Category   Bounds
	Prompt     Bounds
	BioMax     int
	NameMax    int
	PlaceMax   int
	IconMax    int
	DescMax    int
	SearchMax  int

	AllowedFileTypes []string
	MaxFileSize      int64 // bytes

	DefaultPage  int
	DefaultLimit int
	MaxLimit     int

	TokenTTL  time.Duration // lifetime of the signed bearer token
	CookieTTL time.Duration // lifetime of the login cookie, deliberately shorter than TokenTTL

	EmailRe        *regexp.Regexp
	UsernameRe     *regexp.Regexp
	HexColorRe     *regexp.Regexp
	URLRe          *regexp.Regexp
	ReminderTimeRe *regexp.Regexp
}

// Bounds is an inclusive min/max length constraint.
type Bounds struct {
	Min int
	Max int
}

// DefaultRules returns the production rule set.
func DefaultRules() *Rules {
	return &Rules{
		Moods: []string{
			"happy", "sad", "excited", "anxious", "calm",
			"angry", "neutral", "grateful", "tired", "motivated",
		},
		Themes: []string{"light", "dark", "auto"},
		PromptCategories: []string{
			"reflection", "gratitude", "goals", "creativity",
			"mindfulness", "relationships", "personal_growth",
		},

		DefaultMood:          "neutral",
		DefaultTheme:         "auto",
		DefaultTimezone:      "IST",
		DefaultCategoryColor: "#3b82f6",

		Username:  Bounds{Min: 3, Max: 30},
		Password:  Bounds{Min: 6, Max: 10},
		Title:     Bounds{Min: 1, Max: 200},
		Content:   Bounds{Min: 1, Max: 50000},
		Tag:       Bounds{Min: 1, Max: 10},
		MaxTags:   10,
		Category:  Bounds{Min: 1, Max: 50},
		Prompt:    Bounds{Min: 10, Max: 500},
		BioMax:    500,
		NameMax:   20,
		PlaceMax:  100,
		IconMax:   50,
		DescMax:   200,
		SearchMax: 100,

		AllowedFileTypes: []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"application/pdf", "text/plain",
		},
		MaxFileSize: 5 * 1024 * 1024,

		DefaultPage:  1,
		DefaultLimit: 10,
		MaxLimit:     100,

		TokenTTL:  7 * 24 * time.Hour,
		CookieTTL: 7 * time.Hour,

		EmailRe:        regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
		UsernameRe:     regexp.MustCompile(`^[a-zA-Z0-9_-]+$`),
		HexColorRe:     regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`),
		URLRe:          regexp.MustCompile(`^https?://.+`),
		ReminderTimeRe: regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`),
	}
}

// ValidMood reports whether m is one of the known mood values.
func (r *Rules) ValidMood(m string) bool { return contains(r.Moods, m) }

// ValidTheme reports whether t is one of the known theme values.
func (r *Rules) ValidTheme(t string) bool { return contains(r.Themes, t) }

// ValidPromptCategory reports whether c is one of the known prompt categories.
func (r *Rules) ValidPromptCategory(c string) bool { return contains(r.PromptCategories, c) }

// ValidFileType reports whether t is an allowed attachment MIME type.
func (r *Rules) ValidFileType(t string) bool { return contains(r.AllowedFileTypes, t) }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
