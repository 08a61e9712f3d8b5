package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const entryColumns = `id, name, brand, category_page, category_blue, category_white, category_gray,
	condition, colors, images, vufs_code, created_at, updated_at,
	needs_sync, is_deleted, last_modified, pending_image_path`

// UpsertLocal writes a locally mutated entry and flags it for sync.
func (db *DB) UpsertLocal(e *Entry) error {
	colors, images, err := encodeJSON(e)
	if err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	if e.LastModified == 0 {
		e.LastModified = now
	}
	_, err = db.Exec(`
		INSERT INTO items (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			brand = excluded.brand,
			category_page = excluded.category_page,
			category_blue = excluded.category_blue,
			category_white = excluded.category_white,
			category_gray = excluded.category_gray,
			condition = excluded.condition,
			colors = excluded.colors,
			images = excluded.images,
			vufs_code = excluded.vufs_code,
			updated_at = excluded.updated_at,
			needs_sync = 1,
			is_deleted = excluded.is_deleted,
			last_modified = excluded.last_modified,
			pending_image_path = excluded.pending_image_path`,
		e.ID, e.Name, e.Brand, e.CategoryPage, e.CategoryBlue, e.CategoryWhite, e.CategoryGray,
		e.Condition, colors, images, e.VUFSCode, e.CreatedAt, e.UpdatedAt,
		boolInt(e.IsDeleted), e.LastModified, e.PendingImagePath)
	return err
}

// UpsertServer writes an authoritative server copy, clearing sync flags.
func (db *DB) UpsertServer(item *Item) error {
	e := &Entry{Item: *item}
	colors, images, err := encodeJSON(e)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO items (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, '')
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			brand = excluded.brand,
			category_page = excluded.category_page,
			category_blue = excluded.category_blue,
			category_white = excluded.category_white,
			category_gray = excluded.category_gray,
			condition = excluded.condition,
			colors = excluded.colors,
			images = excluded.images,
			vufs_code = excluded.vufs_code,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			needs_sync = 0,
			is_deleted = 0,
			last_modified = excluded.last_modified,
			pending_image_path = ''`,
		item.ID, item.Name, item.Brand, item.CategoryPage, item.CategoryBlue, item.CategoryWhite,
		item.CategoryGray, item.Condition, colors, images, item.VUFSCode,
		item.CreatedAt, item.UpdatedAt, item.UpdatedAt)
	return err
}

// RefreshFromServer replaces the cache mirror with the authoritative server
// list in one transaction. Entries flagged needs_sync or tombstoned are left
// untouched so offline edits survive until the next reconciliation pass.
func (db *DB) RefreshFromServer(items []Item) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]any, 0, len(items))
	placeholders := ""
	for i, item := range items {
		ids = append(ids, item.ID)
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
	}

	// Drop unflagged rows the server no longer knows about.
	q := `DELETE FROM items WHERE needs_sync = 0 AND is_deleted = 0`
	if len(ids) > 0 {
		q += ` AND id NOT IN (` + placeholders + `)`
	}
	if _, err := tx.Exec(q, ids...); err != nil {
		return fmt.Errorf("prune stale rows: %w", err)
	}

	for i := range items {
		item := &items[i]
		e := &Entry{Item: *item}
		colors, images, err := encodeJSON(e)
		if err != nil {
			return err
		}
		// The WHERE guard keeps locally flagged rows intact.
		if _, err := tx.Exec(`
			INSERT INTO items (`+entryColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, '')
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				brand = excluded.brand,
				category_page = excluded.category_page,
				category_blue = excluded.category_blue,
				category_white = excluded.category_white,
				category_gray = excluded.category_gray,
				condition = excluded.condition,
				colors = excluded.colors,
				images = excluded.images,
				vufs_code = excluded.vufs_code,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at,
				needs_sync = 0,
				is_deleted = 0,
				last_modified = excluded.last_modified,
				pending_image_path = ''
			WHERE items.needs_sync = 0 AND items.is_deleted = 0`,
			item.ID, item.Name, item.Brand, item.CategoryPage, item.CategoryBlue, item.CategoryWhite,
			item.CategoryGray, item.Condition, colors, images, item.VUFSCode,
			item.CreatedAt, item.UpdatedAt, item.UpdatedAt); err != nil {
			return fmt.Errorf("upsert server row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit refresh: %w", err)
	}
	return nil
}

// ListEntries returns all visible (non-tombstoned) entries, newest first.
func (db *DB) ListEntries() ([]Entry, error) {
	rows, err := db.Query(`
		SELECT `+entryColumns+`
		FROM items
		WHERE is_deleted = 0
		ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// GetEntry returns a single entry by id, nil if not present.
func (db *DB) GetEntry(id string) (*Entry, error) {
	row := db.QueryRow(`SELECT `+entryColumns+` FROM items WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// PendingEntries returns entries awaiting sync, oldest mutation first.
// Tombstones are included.
func (db *DB) PendingEntries() ([]Entry, error) {
	rows, err := db.Query(`
		SELECT ` + entryColumns + `
		FROM items
		WHERE needs_sync = 1
		ORDER BY last_modified ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Remove physically deletes a row. Used once the server has confirmed a
// deletion; offline deletions go through Tombstone instead.
func (db *DB) Remove(id string) error {
	_, err := db.Exec(`DELETE FROM items WHERE id = ?`, id)
	return err
}

// Tombstone marks an entry for deferred deletion.
func (db *DB) Tombstone(id string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		UPDATE items SET is_deleted = 1, needs_sync = 1, last_modified = ?
		WHERE id = ?`, now, id)
	return err
}

// MarkSynced clears the pending flag after the server accepted the entry.
// A confirmed tombstone is removed entirely.
func (db *DB) MarkSynced(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM items WHERE id = ? AND is_deleted = 1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE items SET needs_sync = 0, pending_image_path = '' WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var colors, images string
	var needsSync, isDeleted int
	if err := s.Scan(
		&e.ID, &e.Name, &e.Brand, &e.CategoryPage, &e.CategoryBlue, &e.CategoryWhite, &e.CategoryGray,
		&e.Condition, &colors, &images, &e.VUFSCode, &e.CreatedAt, &e.UpdatedAt,
		&needsSync, &isDeleted, &e.LastModified, &e.PendingImagePath,
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
	return &e, nil
}

func encodeJSON(e *Entry) (colors string, images string, err error) {
	cs := e.Colors
	if cs == nil {
		cs = []string{}
	}
	is := e.Images
	if is == nil {
		is = []Image{}
	}
	cb, err := json.Marshal(cs)
	if err != nil {
		return "", "", fmt.Errorf("encode colors: %w", err)
	}
	ib, err := json.Marshal(is)
	if err != nil {
		return "", "", fmt.Errorf("encode images: %w", err)
	}
	return string(cb), string(ib), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
