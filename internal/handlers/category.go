package handlers

import (
	"net/http"

	"github.com/daybookhq/daybook-backend/internal/services"
)

// CategoryHandler serves per-user category CRUD.
type CategoryHandler struct {
	categories services.CategoryProvider
}

func NewCategoryHandler(categories services.CategoryProvider) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in services.CategoryInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := h.categories.Create(r.Context(), identity, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Category created successfully",
		"data":    map[string]interface{}{"category": category},
	})
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	categories, err := h.categories.List(r.Context(), identity.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"categories": categories},
	})
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	category, err := h.categories.Get(r.Context(), identity, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"category": category},
	})
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in services.CategoryInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := h.categories.Update(r.Context(), identity, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Category updated successfully",
		"data":    map[string]interface{}{"category": category},
	})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.categories.Delete(r.Context(), identity, id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Category deleted successfully",
	})
}
