package platform

// UserRecord is a platform user as returned by the user search endpoint.
type UserRecord struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// EntityRecord is a business entity (brand, store, supplier, non-profit).
type EntityRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	BusinessType string `json:"businessType"`
	Logo         string `json:"logo"`
	Slug         string `json:"slug"`
}

// PageRecord is an editorial/content page.
type PageRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Logo string `json:"logo"`
}

// CreateConversationRequest is the body for POST /messages/conversations.
// Exactly one of RecipientID, (EntityType, EntityID), or ParticipantIDs
// is set depending on the conversation shape.
type CreateConversationRequest struct {
	RecipientID    string   `json:"recipientId,omitempty"`
	ParticipantIDs []string `json:"participantIds,omitempty"`
	EntityType     string   `json:"entityType,omitempty"`
	EntityID       string   `json:"entityId,omitempty"`
	Name           string   `json:"name,omitempty"`
}

// Conversation is the created conversation record.
type Conversation struct {
	ID   string `json:"id"`
	Slug string `json:"slug,omitempty"`
}

// ItemCategory is the hierarchical category of a wardrobe item.
type ItemCategory struct {
	Page             string `json:"page,omitempty"`
	BlueSubcategory  string `json:"blueSubcategory,omitempty"`
	WhiteSubcategory string `json:"whiteSubcategory,omitempty"`
	GraySubcategory  string `json:"graySubcategory,omitempty"`
}

// ItemMetadata carries the ordered color list.
type ItemMetadata struct {
	Colors []string `json:"colors,omitempty"`
}

// ItemCondition wraps the enumerated condition status.
type ItemCondition struct {
	Status string `json:"status,omitempty"`
}

// ItemImage is one image reference, at most one flagged primary.
type ItemImage struct {
	URL     string `json:"url"`
	Primary bool   `json:"isPrimary,omitempty"`
}

// ItemPayload is the wire form of a wardrobe item. Deleted is only set on
// bulk-sync uploads to carry a tombstone.
type ItemPayload struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name,omitempty"`
	Brand     string        `json:"brand,omitempty"`
	Category  ItemCategory  `json:"category"`
	Metadata  ItemMetadata  `json:"metadata"`
	Condition ItemCondition `json:"condition"`
	Images    []ItemImage   `json:"images,omitempty"`
	VUFSCode  string        `json:"vufsCode,omitempty"`
	CreatedAt int64         `json:"createdAt,omitempty"`
	UpdatedAt int64         `json:"updatedAt,omitempty"`
	Deleted   bool          `json:"deleted,omitempty"`
}

// SyncItemError identifies one item the bulk-sync endpoint rejected.
type SyncItemError struct {
	ItemID  string `json:"itemId"`
	Message string `json:"message,omitempty"`
}

// SyncReport is the bulk-sync endpoint response.
type SyncReport struct {
	Synced int             `json:"synced"`
	Failed int             `json:"failed"`
	Errors []SyncItemError `json:"errors,omitempty"`
}
