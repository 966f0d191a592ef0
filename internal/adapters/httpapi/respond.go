package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/example/praetor/internal/errs"
)

type errorBody struct {
	Detail    string            `json:"detail"`
	Kind      string            `json:"kind"`
	Fields    map[string]string `json:"fields,omitempty"`
	Current   string            `json:"current,omitempty"`
	Requested string            `json:"requested,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy to status codes.
func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Detail: err.Error()}
	status := http.StatusInternalServerError

	switch errs.KindOf(err) {
	case errs.ErrValidation:
		status, body.Kind = http.StatusBadRequest, "validation"
		var validationErr *errs.ValidationError
		if errors.As(err, &validationErr) {
			body.Fields = validationErr.Fields
		}
	case errs.ErrNotFound:
		status, body.Kind = http.StatusNotFound, "not_found"
	case errs.ErrInvalidTransition:
		status, body.Kind = http.StatusConflict, "invalid_transition"
		var transitionErr *errs.InvalidTransitionError
		if errors.As(err, &transitionErr) {
			body.Current, body.Requested = transitionErr.Current, transitionErr.Requested
		}
	case errs.ErrInvalidAgent:
		status, body.Kind = http.StatusBadRequest, "invalid_agent"
	case errs.ErrUpstream:
		status, body.Kind = http.StatusBadGateway, "upstream"
	default:
		slog.Error("request failed", "error", err)
		body.Kind, body.Detail = "internal", "internal error"
	}
	writeJSON(w, status, body)
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Validation("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Validation(name, fmt.Sprintf("%s must be an integer", name))
	}
	return n, nil
}
