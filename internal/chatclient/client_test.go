package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath/mentor-server-go/internal/model"
)

func TestClient_Advice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/career-mentor/advice", r.URL.Path)
		assert.Equal(t, "Bearer user-1.sig", r.Header.Get("Authorization"))

		var req model.AdviceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hi", req.Message)
		assert.Equal(t, "s-1", req.SessionID)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(model.AdviceResponse{Message: "hello", SessionID: "s-1"})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "user-1.sig", time.Second)
	resp, err := client.Advice(context.Background(), model.AdviceRequest{SessionID: "s-1", Message: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Message)
}

func TestClient_ListSessions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/career-mentor/sessions", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "interview_prep", r.URL.Query().Get("sessionType"))
		assert.Equal(t, "true", r.URL.Query().Get("isActive"))

		json.NewEncoder(w).Encode(SessionPage{
			Sessions:   []model.SessionSummary{{ID: "s-1", Title: "Interview"}},
			Pagination: model.Pagination{CurrentPage: 2, TotalItems: 21, TotalPages: 2, ItemsPerPage: 20},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", time.Second)
	page, err := client.ListSessions(context.Background(), ListOptions{
		Page:        2,
		SessionType: model.SessionTypeInterviewPrep,
		ActiveOnly:  true,
	})

	require.NoError(t, err)
	require.Len(t, page.Sessions, 1)
	assert.Equal(t, 21, page.Pagination.TotalItems)
}

func TestClient_ErrorResponse(t *testing.T) {
	t.Run("decodes api error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Career mentor session not found","code":"NOT_FOUND"}`))
		}))
		defer server.Close()

		err := NewClient(server.URL, "tok", time.Second).DeleteSession(context.Background(), "missing")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.Equal(t, "NOT_FOUND", apiErr.Code)
		assert.Equal(t, "Career mentor session not found", apiErr.Message)
	})

	t.Run("falls back to status text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, "tok", time.Second).Stats(context.Background())

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Bad Gateway", apiErr.Message)
	})
}
