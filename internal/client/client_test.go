package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/visacms/internal/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/v1/", 5*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListNews(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/news", r.URL.Path)
		writeJSON(w, http.StatusOK, []map[string]string{
			{"slug": "test", "title": "Test", "content": "Hello", "readTime": "3 min"},
		})
	})

	items, err := c.ListNews(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "test", items[0].Slug)
	assert.Equal(t, "3 min", items[0].ReadTime)
}

func TestCreateUnwrapsEnvelope(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Test", body["title"])

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "News added",
			"data":    map[string]string{"slug": "test", "title": "Test", "content": "Hello"},
		})
	})

	out, err := c.News().Create(context.Background(), models.News{Title: "Test", Content: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "test", out.Slug)
}

func TestUpdateSetsKey(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test", body["slug"])
		assert.Equal(t, "Test2", body["title"])

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "News updated",
			"data":    map[string]string{"slug": "test", "title": "Test2", "content": "Hello"},
		})
	})

	out, err := c.News().Update(context.Background(), "test", models.News{Slug: "stale", Title: "Test2", Content: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "Test2", out.Title)
}

func TestDeleteSendsKey(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/visas", r.URL.Path)

		data, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"slug":"work-permit"}`, string(data))

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Visa deleted",
			"data":    map[string]string{"slug": "work-permit", "name": "Work Permit"},
		})
	})

	out, err := c.Visas().Delete(context.Background(), "work-permit")
	require.NoError(t, err)
	assert.Equal(t, "Work Permit", out.Name)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "validation",
			status: http.StatusBadRequest,
			body:   `{"error":"validation failed: title is required","fields":{"title":"required"}}`,
			check: func(t *testing.T, err error) {
				var ve *models.ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, "required", ve.Fields["title"])
			},
		},
		{
			name:   "bad request without fields",
			status: http.StatusBadRequest,
			body:   `{"error":"Invalid request body"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, models.IsValidation(err))
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"error":"News not found"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, models.ErrNotFound)
			},
		},
		{
			name:   "conflict",
			status: http.StatusConflict,
			body:   `{"error":"News with this slug already exists"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, models.ErrConflict)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"error":"update news: connection refused"}`,
			check: func(t *testing.T, err error) {
				var se *models.StoreError
				require.True(t, errors.As(err, &se))
				assert.Contains(t, se.Error(), "connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.News().Update(context.Background(), "test", models.News{Title: "T", Content: "c"})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestUpload(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "photo.png", header.Filename)

		writeJSON(w, http.StatusCreated, map[string]string{"url": "https://cdn.example.com/uploads/abc.png"})
	})

	url, err := c.Upload(context.Background(), "photo.png", strings.NewReader("\x89PNG"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/abc.png", url)
}
