package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/tenant-portal/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json"
	maxBodyBytes    = 1 << 20
	maxUploadBytes  = 10 << 20
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}

// writeJSONError writes {"error": message}
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps an error kind to a status code. The message is the
// error's own text, which for backend errors is the server's message.
func writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errors.ErrAccountDisabled):
		return http.StatusForbidden
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrLoginSuperseded):
		return http.StatusConflict
	case errors.Is(err, errors.ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, errors.ErrUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON body into v and validates its struct tags.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Message(errors.ErrInvalidRequest, "Malformed request body")
	}
	if err := s.validate.Struct(v); err != nil {
		return errors.Message(errors.ErrInvalidRequest, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return fe.Field() + " is required"
		}
		return fe.Field() + " is invalid"
	}
	return "Invalid request"
}
