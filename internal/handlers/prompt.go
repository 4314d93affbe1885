package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/daybookhq/daybook-backend/internal/services"
)

// PromptHandler serves the writing prompt pool. Reads are public; the
// admin surface manages the pool itself.
type PromptHandler struct {
	prompts services.PromptProvider
}

func NewPromptHandler(prompts services.PromptProvider) *PromptHandler {
	return &PromptHandler{prompts: prompts}
}

// ListActive returns every active prompt.
func (h *PromptHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.prompts.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"prompts": prompts},
	})
}

// Random returns one random active prompt, optionally scoped by the
// category query parameter.
func (h *PromptHandler) Random(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	prompt, err := h.prompts.Random(r.Context(), category)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"prompt": prompt},
	})
}

// ByCategory returns the active prompts of one category.
func (h *PromptHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	prompts, err := h.prompts.ByCategory(r.Context(), category)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"prompts": prompts},
	})
}

// Create adds a prompt to the pool. Admin only.
func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.PromptInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	prompt, err := h.prompts.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Prompt created successfully",
		"data":    map[string]interface{}{"prompt": prompt},
	})
}

// Update rewrites a prompt. Admin only.
func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in services.PromptInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	prompt, err := h.prompts.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Prompt updated successfully",
		"data":    map[string]interface{}{"prompt": prompt},
	})
}

// Delete removes a prompt from the pool. Admin only.
func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.prompts.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Prompt deleted successfully",
	})
}
