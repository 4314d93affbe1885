package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daybookhq/daybook-backend/internal/apperr"
	"github.com/daybookhq/daybook-backend/internal/auth"
	"github.com/daybookhq/daybook-backend/internal/models"
)

type errorBody struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an application error to its HTTP response. Internal
// errors are logged with their cause and presented with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Internal(err)
	}

	if appErr.Kind == apperr.KindInternal {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}

	writeJSON(w, apperr.HTTPStatus(appErr.Kind), errorBody{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	return nil
}

// requireIdentity fetches the caller resolved by the auth middleware. The
// guard runs before every handler that calls this, so a miss is a wiring
// bug and is answered like any other auth failure.
func requireIdentity(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthenticated("Authentication required"))
		return nil, false
	}
	return identity, true
}

// idParam parses the {id} URL parameter as an ObjectID.
func idParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("Invalid ID format")
	}
	return id, nil
}
