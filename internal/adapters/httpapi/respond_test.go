package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/praetor/internal/errs"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"validation", errs.Validation("title", "required"), http.StatusBadRequest, "validation"},
		{"wrapped not found", fmt.Errorf("load: %w", errs.NotFound("mission", "m-1")), http.StatusNotFound, "not_found"},
		{"invalid transition", errs.InvalidTransition("draft", "paused", "not active"), http.StatusConflict, "invalid_transition"},
		{"upstream", errs.Upstream("openai", errors.New("timeout")), http.StatusBadGateway, "upstream"},
		{"untyped", errors.New("disk I/O error"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Kind)
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("sqlite: database is locked"))

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body.Detail)
}
