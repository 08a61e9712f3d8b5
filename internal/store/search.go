package store

import (
	"encoding/json"
	"fmt"
)

// SearchItems performs a full-text search over item names, brands and VUFS
// codes in the local cache. Works offline.
func (db *DB) SearchItems(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT `+entryColumns+`,
		       snippet(items_fts, 0, '<<', '>>', '...', 16)
		FROM items_fts f
		JOIN items ON items.rowid = f.rowid
		WHERE items_fts MATCH ? AND items.is_deleted = 0
		ORDER BY rank LIMIT ?`, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var colors, images string
		var needsSync, isDeleted int
		e := &r.Entry
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Brand, &e.CategoryPage, &e.CategoryBlue, &e.CategoryWhite, &e.CategoryGray,
			&e.Condition, &colors, &images, &e.VUFSCode, &e.CreatedAt, &e.UpdatedAt,
			&needsSync, &isDeleted, &e.LastModified, &e.PendingImagePath,
			&r.Snippet,
		); err != nil {
			return nil, err
		}
		e.NeedsSync = needsSync != 0
		e.IsDeleted = isDeleted != 0
		if err := json.Unmarshal([]byte(colors), &e.Colors); err != nil {
			return nil, fmt.Errorf("decode colors: %w", err)
		}
		if err := json.Unmarshal([]byte(images), &e.Images); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
