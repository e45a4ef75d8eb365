package models

import (
	"qrticket/src/types"
	"time"
)

type Event struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	Title          string            `json:"title"`
	Slug           string            `gorm:"index" json:"slug,omitempty"`
	About          *string           `json:"about,omitempty"`
	Category       string            `json:"category,omitempty"`
	Location       string            `json:"location,omitempty"`
	Address        string            `json:"address,omitempty"`
	DateTime       *time.Time        `json:"date_time,omitempty"`
	Capacity       uint              `json:"capacity,omitempty"`
	WhatsAppNumber string            `json:"whatsapp_number,omitempty"`
	LogoURL        *string           `json:"logo_url,omitempty"`
	Status         types.EventStatus `gorm:"default:'draft'" json:"status,omitempty"`
	OrganizerID    uint              `json:"organizer_id,omitempty"`

	Organizer   User         `gorm:"foreignKey:organizer_id" json:"-"`
	TicketTypes []TicketType `json:"ticket_types,omitempty"`

	Stats *EventStats `gorm:"-" json:"stats,omitempty"`

	types.Timestamps
}

type EventStats struct {
	EventID     uint    `json:"event_id,omitempty"`
	TicketsSold uint    `json:"tickets_sold"`
	Revenue     float32 `json:"revenue"`
}
