package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"finpocket/internal/core"
	"finpocket/internal/log"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// writeError maps err onto a status code. Validation errors name the
// offending field; anything unclassified is logged and hidden behind a
// generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: ve.Err.Error(), Field: ve.Field})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, errMalformedBody):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		log.FromContext(r.Context()).WarnContext(r.Context(), "Store read timed out",
			log.FieldPath, r.URL.Path,
			log.FieldErrorType, log.ErrorTypeTimeout)
		writeJSON(w, http.StatusGatewayTimeout, errorBody{Error: "store timeout"})
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldError, err,
			log.FieldPath, r.URL.Path,
			log.FieldMethod, r.Method)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// sanitizeInput trims s and drops control characters other than tab and
// newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// queryInt reads an optional integer query parameter. Absent means def;
// present but not a number is a validation error on name.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, core.Invalid(name, fmt.Errorf("%q is not a number", v))
	}
	return n, nil
}

// queryKind reads ?kind=, falling back to def when absent.
func queryKind(r *http.Request, def core.Kind) (core.Kind, error) {
	v := strings.TrimSpace(r.URL.Query().Get("kind"))
	if v == "" {
		return def, nil
	}
	return core.ParseKind(v)
}
