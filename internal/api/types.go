package api

import (
	"github.com/loom-social/loom/internal/resolver"
	"github.com/loom-social/loom/internal/status"
	"github.com/loom-social/loom/internal/store"
)

// Item is the wire form of a wardrobe item on the daemon socket.
type Item struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Brand         string        `json:"brand,omitempty"`
	CategoryPage  string        `json:"categoryPage,omitempty"`
	CategoryBlue  string        `json:"categoryBlue,omitempty"`
	CategoryWhite string        `json:"categoryWhite,omitempty"`
	CategoryGray  string        `json:"categoryGray,omitempty"`
	Condition     string        `json:"condition,omitempty"`
	Colors        []string      `json:"colors,omitempty"`
	Images        []store.Image `json:"images,omitempty"`
	VUFSCode      string        `json:"vufsCode,omitempty"`
	CreatedAt     int64         `json:"createdAt,omitempty"`
	UpdatedAt     int64         `json:"updatedAt,omitempty"`
}

// Entry is an Item plus its offline-sync bookkeeping.
type Entry struct {
	Item
	NeedsSync    bool  `json:"needsSync"`
	IsDeleted    bool  `json:"isDeleted,omitempty"`
	LastModified int64 `json:"lastModified,omitempty"`
}

// StatusResponse describes the daemon's runtime state.
type StatusResponse struct {
	State      status.State `json:"state"`
	Online     bool         `json:"online"`
	Pending    int          `json:"pending"`
	LastSyncAt string       `json:"lastSyncAt,omitempty"`
	Profile    string       `json:"profile"`
}

// SyncResponse reports a reconciliation pass.
type SyncResponse struct {
	Synced int             `json:"synced"`
	Failed int             `json:"failed"`
	Errors []SyncItemError `json:"errors,omitempty"`
}

// SyncItemError names one item the server rejected during a pass.
type SyncItemError struct {
	ItemID  string `json:"itemId"`
	Message string `json:"message"`
}

// CreateConversationBody is the request body for starting a conversation.
type CreateConversationBody struct {
	Participants []resolver.Participant `json:"participants"`
	Name         string                 `json:"name,omitempty"`
}

func itemFromStore(it *store.Item) Item {
	return Item{
		ID:            it.ID,
		Name:          it.Name,
		Brand:         it.Brand,
		CategoryPage:  it.CategoryPage,
		CategoryBlue:  it.CategoryBlue,
		CategoryWhite: it.CategoryWhite,
		CategoryGray:  it.CategoryGray,
		Condition:     it.Condition,
		Colors:        it.Colors,
		Images:        it.Images,
		VUFSCode:      it.VUFSCode,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

func (i *Item) toStore() store.Item {
	return store.Item{
		ID:            i.ID,
		Name:          i.Name,
		Brand:         i.Brand,
		CategoryPage:  i.CategoryPage,
		CategoryBlue:  i.CategoryBlue,
		CategoryWhite: i.CategoryWhite,
		CategoryGray:  i.CategoryGray,
		Condition:     i.Condition,
		Colors:        i.Colors,
		Images:        i.Images,
		VUFSCode:      i.VUFSCode,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func entriesFromStore(entries []store.Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for i := range entries {
		out = append(out, Entry{
			Item:         itemFromStore(&entries[i].Item),
			NeedsSync:    entries[i].NeedsSync,
			IsDeleted:    entries[i].IsDeleted,
			LastModified: entries[i].LastModified,
		})
	}
	return out
}
