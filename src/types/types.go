package types

import (
	"time"

	"gorm.io/gorm"
)

type Status = string

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type EventStatus = string

const (
	EVENT_DRAFT     EventStatus = "draft"
	EVENT_OPEN      EventStatus = "open"
	EVENT_ADMISSION EventStatus = "admission"
	EVENT_COMPLETED EventStatus = "completed"
)

const (
	ROLE_ORGANIZER = "organizer"
	ROLE_SCANNER   = "scanner"
	ROLE_ADMIN     = "admin"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type TicketRequestParams struct {
	TicketID string `uri:"id" binding:"required"`
}

type CreateEventRequestBody struct {
	Title          string                        `json:"title" binding:"required"`
	Description    string                        `json:"description,omitempty"`
	Category       string                        `json:"category,omitempty"`
	Location       string                        `json:"location" binding:"required"`
	Address        string                        `json:"address,omitempty"`
	DateTime       string                        `json:"date_time" binding:"required,bookabledate"`
	Capacity       uint                          `json:"capacity" binding:"required"`
	WhatsAppNumber string                        `json:"whatsapp_number,omitempty"`
	LogoURL        *string                       `json:"logo_url,omitempty"`
	TicketTypes    []CreateTicketTypeRequestBody `json:"ticket_types" binding:"required,min=1,dive"`
}

type CreateTicketTypeRequestBody struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description,omitempty"`
	Price       float32 `json:"price"`
	Quantity    uint    `json:"quantity" binding:"required"`
}

type IssueTicketRequestBody struct {
	EventID      uint      `json:"event" binding:"required"`
	TicketTypeID uint      `json:"ticket_type" binding:"required"`
	Buyer        BuyerInfo `json:"buyer" binding:"required"`
}

type BuyerInfo struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
}

type ValidateTicketRequestBody struct {
	Code string `json:"code" binding:"required"`
}

type TicketQueryFilters struct {
	EventID uint   `form:"event"`
	Status  string `form:"status"`
}
