package model

import "time"

// Item is a physical object registered by its owner for QR-based recovery.
type Item struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category"`
	Status        string    `json:"status"`
	RecoveryToken string    `json:"-"`
	QRRef         string    `json:"-"`
	ImageRef      string    `json:"image_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	OpenReports int `json:"open_reports,omitempty"`
}

// Item statuses.
const (
	ItemStatusActive    = "active"
	ItemStatusLost      = "lost"
	ItemStatusRecovered = "recovered"
)

// ItemStatuses lists every valid item status in display order.
var ItemStatuses = []string{ItemStatusActive, ItemStatusLost, ItemStatusRecovered}

// Categories is the closed list of item categories.
var Categories = []string{
	"Electronics",
	"Bags",
	"Keys",
	"Wallets & Cards",
	"Clothing",
	"Books & Stationery",
	"Bottles",
	CategoryOther,
}

// CategoryOther is used when no category is given.
const CategoryOther = "Other"

// PublicItem is what anonymous visitors may see of an item.
type PublicItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	ImageRef    string    `json:"image_ref,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Public strips owner identity and the recovery token.
func (i *Item) Public() PublicItem {
	return PublicItem{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Category:    i.Category,
		Status:      i.Status,
		ImageRef:    i.ImageRef,
		UpdatedAt:   i.UpdatedAt,
	}
}
