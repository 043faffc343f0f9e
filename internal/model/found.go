package model

import "time"

// FoundPost is a public listing for an unregistered item someone picked up.
type FoundPost struct {
	ID            int64      `json:"id"`
	FinderName    string     `json:"finder_name"`
	FinderEmail   string     `json:"-"`
	ItemName      string     `json:"item_name"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category"`
	LocationFound string     `json:"location_found,omitempty"`
	ImageRef      string     `json:"image_ref,omitempty"`
	Status        string     `json:"status"`
	ClaimedBy     *int64     `json:"claimed_by,omitempty"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Found post statuses.
const (
	FoundStatusUnclaimed = "unclaimed"
	FoundStatusClaimed   = "claimed"
)
