package model

import (
	"context"
	"sync"
	"time"

	"github.com/loom-social/loom/internal/api"
	"github.com/loom-social/loom/internal/platform"
	"github.com/loom-social/loom/internal/resolver"
	"github.com/loom-social/loom/internal/tui/client"
)

// ViewModel caches daemon state between UI refreshes.
type ViewModel struct {
	mu sync.RWMutex

	client  *client.Client
	Status  *api.StatusResponse
	Items   []api.Entry
	Compose resolver.Compose
	Flash   Flash
}

// NewViewModel creates a view model connected to the daemon client.
func NewViewModel(c *client.Client) *ViewModel {
	return &ViewModel{client: c}
}

// LoadStatus fetches daemon status.
func (vm *ViewModel) LoadStatus(ctx context.Context) error {
	resp, err := vm.client.Status(ctx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Status = resp
	vm.mu.Unlock()
	return nil
}

// LoadItems fetches the wardrobe list.
func (vm *ViewModel) LoadItems(ctx context.Context) error {
	items, err := vm.client.ListItems(ctx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Items = items
	vm.mu.Unlock()
	return nil
}

// SearchItems queries the local full-text index and swaps the cached list.
func (vm *ViewModel) SearchItems(ctx context.Context, query string) error {
	items, err := vm.client.SearchItems(ctx, query)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Items = items
	vm.mu.Unlock()
	return nil
}

// CreateItem adds an item.
func (vm *ViewModel) CreateItem(ctx context.Context, item *api.Item) error {
	items, err := vm.client.CreateItem(ctx, item)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Items = items
	vm.mu.Unlock()
	return nil
}

// DeleteItem removes an item.
func (vm *ViewModel) DeleteItem(ctx context.Context, id string) error {
	items, err := vm.client.DeleteItem(ctx, id)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Items = items
	vm.mu.Unlock()
	return nil
}

// Sync triggers a reconciliation pass.
func (vm *ViewModel) Sync(ctx context.Context) (*api.SyncResponse, error) {
	resp, err := vm.client.Sync(ctx)
	if err != nil {
		return nil, err
	}
	if resp.Synced > 0 {
		vm.Flash.Set("Synced", 3*time.Second)
	}
	return resp, nil
}

// SearchParticipants queries the resolver and caches the results on the
// compose state.
func (vm *ViewModel) SearchParticipants(ctx context.Context, query string, filter resolver.Filter) error {
	results, err := vm.client.SearchParticipants(ctx, query, filter)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Compose.Query = query
	vm.Compose.Results = results
	vm.mu.Unlock()
	return nil
}

// ToggleParticipant adds the participant to the selection, or removes it if
// already picked. A pick clears the query and results.
func (vm *ViewModel) ToggleParticipant(p resolver.Participant) {
	vm.mu.Lock()
	vm.Compose.Toggle(p)
	vm.mu.Unlock()
}

// ClearSelection resets the composer selection.
func (vm *ViewModel) ClearSelection() {
	vm.mu.Lock()
	vm.Compose.Clear()
	vm.mu.Unlock()
}

// CreateConversation starts a conversation from the current selection.
func (vm *ViewModel) CreateConversation(ctx context.Context, name string) (*platform.Conversation, error) {
	vm.mu.RLock()
	selection := vm.Compose.Selection()
	vm.mu.RUnlock()

	conv, err := vm.client.CreateConversation(ctx, selection, name)
	if err != nil {
		return nil, err
	}
	vm.ClearSelection()
	return conv, nil
}

// GetItems returns a snapshot of the cached item list.
func (vm *ViewModel) GetItems() []api.Entry {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Items
}

// GetStatus returns a snapshot of daemon status.
func (vm *ViewModel) GetStatus() *api.StatusResponse {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Status
}

// GetParticipants returns a snapshot of the current search results.
func (vm *ViewModel) GetParticipants() []resolver.Participant {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Compose.Results
}

// GetSelection returns a snapshot of the picked participants.
func (vm *ViewModel) GetSelection() []resolver.Participant {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Compose.Selection()
}
