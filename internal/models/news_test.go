package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsJSONFields(t *testing.T) {
	// The admin form and the public pages share these field names
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	news := News{
		ID:        7,
		Slug:      "canada-pr-update",
		Title:     "Canada PR Update",
		Summary:   "Draw results",
		Image:     "data:image/png;base64,iVBORw0KGgo=",
		Tag:       "Canada",
		Time:      "2 hours ago",
		ReadTime:  "3 min read",
		Content:   "<p>Hello</p>",
		CreatedAt: now,
	}

	data, err := json.Marshal(news)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", result["image"])
	assert.Equal(t, "3 min read", result["readTime"])
	assert.Equal(t, "<p>Hello</p>", result["content"])
	assert.Contains(t, result, "createdAt")
	assert.NotContains(t, result, "id")
}

func TestNewsValidate(t *testing.T) {
	tests := []struct {
		name   string
		news   News
		fields []string
	}{
		{name: "valid", news: News{Title: "Test", Content: "Hello"}},
		{name: "blank title", news: News{Title: "   ", Content: "Hello"}, fields: []string{"title"}},
		{name: "blank content", news: News{Title: "Test", Content: " \n "}, fields: []string{"content"}},
		{name: "both blank", news: News{}, fields: []string{"title", "content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.news.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Len(t, ve.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Equal(t, "required", ve.Fields[f])
			}
		})
	}
}

func TestNewsValidateDoesNotMutate(t *testing.T) {
	n := News{Title: "  Padded  ", Content: "x"}
	require.NoError(t, n.Validate())
	assert.Equal(t, "  Padded  ", n.Title)
}

func TestNewsUpdateDecoding(t *testing.T) {
	var u NewsUpdate
	body := `{"slug":" test ","title":"Test2","content":"Hello"}`
	require.NoError(t, json.Unmarshal([]byte(body), &u))
	u.Normalize()

	rec := u.Record()
	assert.Equal(t, "test", rec.Slug)
	assert.Equal(t, "Test2", rec.Title)
	assert.Equal(t, "", rec.Summary)
}

func TestVisaValidate(t *testing.T) {
	assert.NoError(t, Visa{Name: "Skilled Worker"}.Validate())

	err := Visa{Name: " "}.Validate()
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "validation failed: name is required")
}

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&StoreError{Op: "list news", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list news: connection refused", err.Error())
}
