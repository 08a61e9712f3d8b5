package platform

import "github.com/loom-social/loom/internal/store"

// ToItem converts a wire payload into the cache representation.
func ToItem(p *ItemPayload) store.Item {
	images := make([]store.Image, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, store.Image{URL: img.URL, Primary: img.Primary})
	}
	return store.Item{
		ID:            p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		CategoryPage:  p.Category.Page,
		CategoryBlue:  p.Category.BlueSubcategory,
		CategoryWhite: p.Category.WhiteSubcategory,
		CategoryGray:  p.Category.GraySubcategory,
		Condition:     p.Condition.Status,
		Colors:        p.Metadata.Colors,
		Images:        images,
		VUFSCode:      p.VUFSCode,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FromItem converts a cache item into its wire payload.
func FromItem(item *store.Item) ItemPayload {
	images := make([]ItemImage, 0, len(item.Images))
	for _, img := range item.Images {
		images = append(images, ItemImage{URL: img.URL, Primary: img.Primary})
	}
	return ItemPayload{
		ID:    item.ID,
		Name:  item.Name,
		Brand: item.Brand,
		Category: ItemCategory{
			Page:             item.CategoryPage,
			BlueSubcategory:  item.CategoryBlue,
			WhiteSubcategory: item.CategoryWhite,
			GraySubcategory:  item.CategoryGray,
		},
		Metadata:  ItemMetadata{Colors: item.Colors},
		Condition: ItemCondition{Status: item.Condition},
		Images:    images,
		VUFSCode:  item.VUFSCode,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// FromEntry converts a pending cache entry for a bulk-sync upload,
// carrying the tombstone flag.
func FromEntry(e *store.Entry) ItemPayload {
	p := FromItem(&e.Item)
	p.Deleted = e.IsDeleted
	return p
}
