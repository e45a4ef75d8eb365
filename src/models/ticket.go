package models

import (
	"qrticket/src/types"
	"time"
)

// Ticket is the issuance record of one minted ticket. TicketID is the
// opaque unique id carried inside the QR payload; EventID is indexed for
// per-event reporting.
type Ticket struct {
	TicketID     string     `gorm:"primarykey" json:"ticket_id"`
	EventID      uint       `gorm:"index" json:"event_id,omitempty"`
	TicketTypeID uint       `json:"ticket_type_id,omitempty"`
	BuyerName    string     `json:"buyer_name,omitempty"`
	BuyerPhone   string     `json:"buyer_phone,omitempty"`
	BuyerEmail   string     `json:"buyer_email,omitempty"`
	Status       string     `gorm:"default:'unused'" json:"status,omitempty"`
	IssuedAt     time.Time  `json:"issued_at"`
	RedeemedAt   *time.Time `json:"redeemed_at,omitempty"`

	Event      Event      `json:"event,omitempty"`
	TicketType TicketType `json:"ticket_type,omitempty"`

	types.Timestamps
}
