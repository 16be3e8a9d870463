package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"catalog-admin/internal/middleware"
	"catalog-admin/internal/models"
	"catalog-admin/internal/services"

	"github.com/rs/zerolog"
)

func respondWithJSON(w http.ResponseWriter, code int, msg string, payload interface{}) {
	writeEnvelope(w, code, models.Envelope{
		Msg:     msg,
		Variant: models.VariantSuccess,
		Payload: payload,
	})
}

func respondWithList(w http.ResponseWriter, msg string, payload interface{}, total int64) {
	writeEnvelope(w, http.StatusOK, models.Envelope{
		Msg:        msg,
		Variant:    models.VariantSuccess,
		Payload:    payload,
		TotalCount: &total,
	})
}

func respondWithMessage(w http.ResponseWriter, code int, msg string) {
	writeEnvelope(w, code, models.Envelope{Msg: msg, Variant: models.VariantError})
}

// respondWithError maps a service error onto the envelope and status code.
// Anything outside the known taxonomy is logged and reported as a 500.
func respondWithError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	var (
		validationErr *services.ValidationError
		duplicateErr  *services.DuplicateError
		notFoundErr   *services.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		respondWithMessage(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &duplicateErr):
		respondWithMessage(w, http.StatusBadRequest, duplicateErr.Error())
	case errors.As(err, &notFoundErr):
		respondWithMessage(w, http.StatusNotFound, notFoundErr.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondWithMessage(w, http.StatusBadRequest, "Invalid username or password")
	case errors.Is(err, services.ErrInactive):
		// deactivated accounts are reported like a revoked session
		respondWithMessage(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, services.ErrUnauthorized):
		respondWithMessage(w, http.StatusUnauthorized, "Invalid token.")
	case errors.Is(err, services.ErrForbidden):
		respondWithMessage(w, http.StatusForbidden, "Access denied.")
	default:
		logger.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Unhandled error")
		respondWithMessage(w, http.StatusInternalServerError, "Server error")
	}
}

func writeEnvelope(w http.ResponseWriter, code int, env models.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(env)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &services.ValidationError{Field: "body", Message: "Invalid request body"}
	}
	return nil
}

// remarshal decodes an already-parsed JSON object into dst.
func remarshal(raw map[string]json.RawMessage, dst interface{}) error {
	b, err := json.Marshal(raw)
	if err == nil {
		err = json.Unmarshal(b, dst)
	}
	if err != nil {
		return &services.ValidationError{Field: "body", Message: "Invalid request body"}
	}
	return nil
}

// identity returns the caller attached by the access gate, answering 403
// itself when the route was wired without it.
func identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.GetIdentity(r)
	if !ok {
		respondWithMessage(w, http.StatusForbidden, "Access denied.")
	}
	return id, ok
}

func queryInt(r *http.Request, key string, def int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			return v
		}
	}
	return def
}
