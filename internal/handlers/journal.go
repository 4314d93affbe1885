package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/daybookhq/daybook-backend/internal/config"
	"github.com/daybookhq/daybook-backend/internal/services"
)

// JournalHandler serves journal CRUD, listing/search and analytics.
type JournalHandler struct {
	journals services.JournalProvider
	rules    *config.Rules
}

func NewJournalHandler(journals services.JournalProvider, rules *config.Rules) *JournalHandler {
	return &JournalHandler{journals: journals, rules: rules}
}

// Create inserts a new entry for the caller.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in services.JournalInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.journals.Create(r.Context(), identity, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Journal entry created successfully",
		"data":    map[string]interface{}{"journal": entry},
	})
}

// List returns one filtered, paginated page of the caller's entries.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	opts := h.listOptions(r)

	entries, total, err := h.journals.List(r.Context(), identity.ID, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	totalPages := int64(0)
	if opts.Limit > 0 {
		totalPages = (total + int64(opts.Limit) - 1) / int64(opts.Limit)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"journals": entries,
			"pagination": map[string]interface{}{
				"total":       total,
				"totalPages":  totalPages,
				"currentPage": opts.Page,
				"limit":       opts.Limit,
			},
		},
	})
}

// Search returns every entry of the caller matching the q parameter.
func (h *JournalHandler) Search(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))

	entries, err := h.journals.Search(r.Context(), identity.ID, query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"journals": entries},
	})
}

// MoodStats groups the caller's entries by mood.
func (h *JournalHandler) MoodStats(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	counts, err := h.journals.MoodCounts(r.Context(), identity.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"moodStats": counts},
	})
}

// Analytics returns the caller's aggregated journaling statistics.
func (h *JournalHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	analytics, err := h.journals.Analytics(r.Context(), identity.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"analytics": analytics},
	})
}

// Get returns one entry owned by the caller.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.journals.Get(r.Context(), identity, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"journal": entry},
	})
}

// Update replaces the mutable fields of an owned entry.
func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in services.JournalInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.journals.Update(r.Context(), identity, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Journal entry updated successfully",
		"data":    map[string]interface{}{"journal": entry},
	})
}

// Delete removes an owned entry.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.journals.Delete(r.Context(), identity, id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Journal entry deleted successfully",
	})
}

// ToggleFavorite flips the favorite flag on an owned entry.
func (h *JournalHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.journals.ToggleFavorite(r.Context(), identity, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "Journal entry removed from favorites"
	if entry.IsFavorite {
		message = "Journal entry added to favorites"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
		"data":    map[string]interface{}{"journal": entry},
	})
}

// listOptions parses the listing query parameters. Pagination is
// normalized here so the response metadata reflects the values actually
// used by the query.
func (h *JournalHandler) listOptions(r *http.Request) services.ListOptions {
	q := r.URL.Query()

	opts := services.ListOptions{
		Mood:   strings.ToLower(strings.TrimSpace(q.Get("mood"))),
		Search: strings.TrimSpace(q.Get("search")),
		Sort:   q.Get("sort"),
		Page:   h.rules.DefaultPage,
		Limit:  h.rules.DefaultLimit,
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page >= 1 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit >= 1 {
		opts.Limit = limit
	}
	if opts.Limit > h.rules.MaxLimit {
		opts.Limit = h.rules.MaxLimit
	}

	if tags := q.Get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				opts.Tags = append(opts.Tags, tag)
			}
		}
	}

	if fav := q.Get("isFavorite"); fav != "" {
		if parsed, err := strconv.ParseBool(fav); err == nil {
			opts.Favorite = &parsed
		}
	}

	if after := parseDateParam(q.Get("startDate")); after != nil {
		opts.CreatedAfter = after
	}
	if before := parseDateParam(q.Get("endDate")); before != nil {
		opts.CreatedBefore = before
	}

	return opts
}

// parseDateParam accepts RFC 3339 timestamps and plain dates.
func parseDateParam(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}
	return nil
}
