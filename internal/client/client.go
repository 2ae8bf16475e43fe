package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bilgisen/visacms/internal/models"
)

// Client talks to the collection endpoints of a running server
type Client struct {
	http *resty.Client
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api/v1.
// Requests are never retried; the caller decides what to do with a failure.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) News() *Collection[models.News] {
	return NewCollection[models.News](c, "/news")
}

func (c *Client) Visas() *Collection[models.Visa] {
	return NewCollection[models.Visa](c, "/visas")
}

func (c *Client) ListNews(ctx context.Context) ([]models.News, error) {
	return c.News().List(ctx)
}

func (c *Client) ListVisas(ctx context.Context) ([]models.Visa, error) {
	return c.Visas().List(ctx)
}

// Setup asks the server to create its tables
func (c *Client) Setup(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Post("/setup")
	if err != nil {
		return fmt.Errorf("setup request failed: %w", err)
	}
	if resp.IsError() {
		return decodeError("setup", resp)
	}
	return nil
}

// Upload sends an image to the upload endpoint and returns its public URL
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, r).
		Post("/upload")
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	if resp.IsError() {
		return "", decodeError("upload", resp)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	return out.URL, nil
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// decodeError maps an error response onto the models error taxonomy
func decodeError(op string, resp *resty.Response) error {
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		if len(body.Fields) > 0 {
			return &models.ValidationError{Fields: body.Fields}
		}
		return models.NewValidationError("request", body.Error)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}

	if resp.StatusCode() >= http.StatusInternalServerError {
		return &models.StoreError{Op: op, Err: errors.New(body.Error)}
	}
	return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode(), body.Error)
}
