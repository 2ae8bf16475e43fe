package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection exposes the list/create/update/delete verbs of one endpoint
type Collection[R any] struct {
	client *Client
	path   string
}

func NewCollection[R any](c *Client, path string) *Collection[R] {
	return &Collection[R]{client: c, path: path}
}

type keyBody struct {
	Slug string `json:"slug"`
}

type envelope[R any] struct {
	Message string `json:"message"`
	Data    R      `json:"data"`
}

func (c *Collection[R]) List(ctx context.Context) ([]R, error) {
	resp, err := c.client.http.R().SetContext(ctx).Get(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", c.path, err)
	}
	if resp.IsError() {
		return nil, decodeError("list "+c.path, resp)
	}

	items := []R{}
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", c.path, err)
	}
	return items, nil
}

func (c *Collection[R]) Create(ctx context.Context, rec R) (R, error) {
	return c.send(ctx, "POST", "create", rec)
}

// Update replaces the record stored under key with rec
func (c *Collection[R]) Update(ctx context.Context, key string, rec R) (R, error) {
	var zero R
	body, err := withKey(rec, key)
	if err != nil {
		return zero, err
	}
	return c.send(ctx, "PUT", "update", body)
}

func (c *Collection[R]) Delete(ctx context.Context, key string) (R, error) {
	return c.send(ctx, "DELETE", "delete", keyBody{Slug: key})
}

// withKey encodes rec with its slug field set to key
func withKey(rec interface{}, key string) (map[string]interface{}, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	body := map[string]interface{}{}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	body["slug"] = key
	return body, nil
}

func (c *Collection[R]) send(ctx context.Context, method, verb string, body interface{}) (R, error) {
	var zero R
	op := verb + " " + c.path

	resp, err := c.client.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Execute(method, c.path)
	if err != nil {
		return zero, fmt.Errorf("%s request failed: %w", op, err)
	}
	if resp.IsError() {
		return zero, decodeError(op, resp)
	}

	var out envelope[R]
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return zero, fmt.Errorf("failed to parse %s response: %w", op, err)
	}
	return out.Data, nil
}
