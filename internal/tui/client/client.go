// Package client talks to the daemon's control API over its Unix socket.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/loom-social/loom/internal/api"
	"github.com/loom-social/loom/internal/platform"
	"github.com/loom-social/loom/internal/resolver"
)

// Client wraps HTTP calls to the daemon socket.
type Client struct {
	http *http.Client
}

// New returns a client dialing the daemon's Unix domain socket. The host in
// request URLs is a placeholder; the dialer always hits the socket.
func New(socketPath string) *Client {
	return &Client{
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, "unix", socketPath)
				},
			},
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, "http://loom"+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decErr := json.NewDecoder(resp.Body).Decode(&apiErr); decErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("daemon returned %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Health probes the daemon.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Status fetches daemon status.
func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	var out api.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/v1/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type itemsResponse struct {
	Items []api.Entry `json:"items"`
}

// ListItems fetches the wardrobe.
func (c *Client) ListItems(ctx context.Context) ([]api.Entry, error) {
	var out itemsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/items/", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// SearchItems queries the local full-text index.
func (c *Client) SearchItems(ctx context.Context, query string) ([]api.Entry, error) {
	var out itemsResponse
	path := "/v1/items/?search=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateItem adds an item and returns the refreshed list.
func (c *Client) CreateItem(ctx context.Context, item *api.Item) ([]api.Entry, error) {
	var out itemsResponse
	if err := c.do(ctx, http.MethodPost, "/v1/items/", item, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// UpdateItem modifies an item and returns the refreshed list.
func (c *Client) UpdateItem(ctx context.Context, item *api.Item) ([]api.Entry, error) {
	var out itemsResponse
	if err := c.do(ctx, http.MethodPut, "/v1/items/"+url.PathEscape(item.ID), item, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// DeleteItem removes an item and returns the refreshed list.
func (c *Client) DeleteItem(ctx context.Context, id string) ([]api.Entry, error) {
	var out itemsResponse
	if err := c.do(ctx, http.MethodDelete, "/v1/items/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Sync triggers a reconciliation pass.
func (c *Client) Sync(ctx context.Context) (*api.SyncResponse, error) {
	var out api.SyncResponse
	if err := c.do(ctx, http.MethodPost, "/v1/sync", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchParticipants queries the participant resolver.
func (c *Client) SearchParticipants(ctx context.Context, query string, filter resolver.Filter) ([]resolver.Participant, error) {
	var out struct {
		Participants []resolver.Participant `json:"participants"`
	}
	path := "/v1/participants?query=" + url.QueryEscape(query) + "&filter=" + url.QueryEscape(string(filter))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Participants, nil
}

// CreateConversation starts a conversation with the selected participants.
func (c *Client) CreateConversation(ctx context.Context, participants []resolver.Participant, name string) (*platform.Conversation, error) {
	var out platform.Conversation
	body := api.CreateConversationBody{Participants: participants, Name: name}
	if err := c.do(ctx, http.MethodPost, "/v1/conversations", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
