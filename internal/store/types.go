package store

// Image is one picture attached to a wardrobe item. Exactly one image per
// item should carry Primary.
type Image struct {
	URL     string `json:"url"`
	Primary bool   `json:"primary"`
}

// Item mirrors a server-side wardrobe item.
type Item struct {
	ID            string
	Name          string
	Brand         string
	CategoryPage  string
	CategoryBlue  string
	CategoryWhite string
	CategoryGray  string
	Condition     string
	Colors        []string
	Images        []Image
	VUFSCode      string
	CreatedAt     int64
	UpdatedAt     int64
}

// Entry is the local cache row: an Item plus offline-sync bookkeeping.
type Entry struct {
	Item
	NeedsSync        bool
	IsDeleted        bool  // tombstone for a deletion not yet confirmed by the server
	LastModified     int64 // local mutation timestamp, last-write-wins ordering
	PendingImagePath string
}

// SearchResult holds an item matched by full-text search with a snippet.
type SearchResult struct {
	Entry   Entry
	Snippet string
}
