package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// APIError carries a non-2xx backend response. The message is the server's
// own wording and is shown to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.Message)
}

// Client talks to the platform REST backend.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a backend client. token may be empty for anonymous
// endpoints; authenticated calls will then fail with 401.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Health probes the backend. Used by the connectivity watcher.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// SearchUsers queries the user collection.
func (c *Client) SearchUsers(ctx context.Context, query string, limit int) ([]UserRecord, error) {
	q := url.Values{}
	q.Set("search", query)
	q.Set("limit", strconv.Itoa(limit))
	var users []UserRecord
	if err := c.do(ctx, http.MethodGet, "/users?"+q.Encode(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchEntities queries business entities scoped by business type
// (brand, store, supplier, non_profit).
func (c *Client) SearchEntities(ctx context.Context, businessType, query string, limit int) ([]EntityRecord, error) {
	q := url.Values{}
	q.Set("businessType", businessType)
	q.Set("search", query)
	q.Set("limit", strconv.Itoa(limit))
	var entities []EntityRecord
	if err := c.do(ctx, http.MethodGet, "/entities/search?"+q.Encode(), nil, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// ListPages fetches the complete page list. Filtering happens client-side.
func (c *Client) ListPages(ctx context.Context) ([]PageRecord, error) {
	var pages []PageRecord
	if err := c.do(ctx, http.MethodGet, "/pages", nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// CreateConversation issues the single conversation-creation call.
func (c *Client) CreateConversation(ctx context.Context, req *CreateConversationRequest) (*Conversation, error) {
	var conv Conversation
	if err := c.do(ctx, http.MethodPost, "/messages/conversations", req, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListItems fetches the authoritative wardrobe item list.
func (c *Client) ListItems(ctx context.Context) ([]ItemPayload, error) {
	var items []ItemPayload
	if err := c.do(ctx, http.MethodGet, "/wardrobe/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem creates a wardrobe item and returns the server copy.
func (c *Client) CreateItem(ctx context.Context, item *ItemPayload) (*ItemPayload, error) {
	var created ItemPayload
	if err := c.do(ctx, http.MethodPost, "/wardrobe/items", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateItem updates a wardrobe item and returns the server copy.
func (c *Client) UpdateItem(ctx context.Context, item *ItemPayload) (*ItemPayload, error) {
	var updated ItemPayload
	if err := c.do(ctx, http.MethodPut, "/wardrobe/items/"+url.PathEscape(item.ID), item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem deletes a wardrobe item.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/wardrobe/items/"+url.PathEscape(id), nil, nil)
}

// BulkSync submits locally queued items and returns the per-item report.
func (c *Client) BulkSync(ctx context.Context, items []ItemPayload) (*SyncReport, error) {
	body := map[string]any{"items": items}
	var report SyncReport
	if err := c.do(ctx, http.MethodPost, "/wardrobe/items/sync", body, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body, resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage extracts the server's message from an error body,
// accepting both {"error": ...} and {"message": ...} shapes.
func readErrorMessage(body io.Reader, status int) string {
	data, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil || len(data) == 0 {
		return http.StatusText(status)
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(data)
}
