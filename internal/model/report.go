package model

import "time"

// FinderReport is a message from someone who scanned an item's QR code or
// spotted a lost item on the public board.
type FinderReport struct {
	ID           int64      `json:"id"`
	ItemID       int64      `json:"item_id"`
	Kind         string     `json:"kind"`
	FinderName   string     `json:"finder_name"`
	FinderEmail  string     `json:"finder_email"`
	LocationHint string     `json:"location_hint,omitempty"`
	Message      string     `json:"message"`
	Status       string     `json:"status"`
	NotifiedAt   *time.Time `json:"notified_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`

	// Joined fields (not always populated).
	ItemName string `json:"item_name,omitempty"`
}

// Report statuses.
const (
	ReportStatusOpen     = "open"
	ReportStatusResolved = "resolved"
)

// Report kinds. A scan report comes from the QR landing page, a sighting from
// the lost board.
const (
	ReportKindScan     = "scan"
	ReportKindSighting = "sighting"
)

// Message senders.
const (
	MessageSenderOwner  = "owner"
	MessageSenderFinder = "finder"
)

// ReportMessage is one entry in a per-report conversation thread.
type ReportMessage struct {
	ID        int64     `json:"id"`
	ReportID  int64     `json:"report_id"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
