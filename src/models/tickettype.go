package models

import "qrticket/src/types"

// TicketType is a priced admission tier of one event. Issued never exceeds
// Quantity; the counter only moves through guarded updates.
type TicketType struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	EventID  uint    `gorm:"index" json:"event_id,omitempty"`
	Name     string  `json:"name"`
	About    *string `json:"about,omitempty"`
	Price    float32 `json:"price"`
	Quantity uint    `json:"quantity"`
	Issued   uint    `gorm:"default:0" json:"issued"`

	Event Event `json:"event,omitempty"`

	types.Timestamps
}
