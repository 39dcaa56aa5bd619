package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/careerpath/mentor-server-go/internal/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   apperrors.ErrorCode
	}{
		{"not found", apperrors.NotFound("Career mentor session"), http.StatusNotFound, apperrors.ErrCodeNotFound},
		{"conflict", apperrors.Conflict("stale"), http.StatusConflict, apperrors.ErrCodeConflict},
		{"validation", apperrors.ValidationError("bad"), http.StatusBadRequest, apperrors.ErrCodeValidation},
		{"configuration", apperrors.Configuration("OpenAI API key not configured"), http.StatusInternalServerError, apperrors.ErrCodeConfiguration},
		{"malformed", apperrors.MalformedResponse("bad json", nil), http.StatusInternalServerError, apperrors.ErrCodeMalformedResponse},
		{"upstream with provider status", apperrors.Upstream(429, "OpenAI Error: quota", nil), http.StatusTooManyRequests, apperrors.ErrCodeUpstream},
		{"upstream without provider status", apperrors.Upstream(0, "Failed", nil), http.StatusInternalServerError, apperrors.ErrCodeUpstream},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.ErrCodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestStatusFor(t *testing.T) {
	t.Run("ignores out of range explicit status", func(t *testing.T) {
		err := apperrors.NotFound("Session")
		err.Status = 200
		assert.Equal(t, http.StatusNotFound, StatusFor(err))
	})
}
