package utils

import (
	"context"
	"errors"
	"fmt"
	"qrticket/src/db"
	"qrticket/src/models"
	"qrticket/src/tickets"
	"time"

	"gorm.io/gorm"
)

// GormStore backs the ticket core with the Postgres models. Both counter
// claims and the redeem transition are single guarded UPDATEs, so two
// concurrent callers can never both win.
type GormStore struct{}

func NewGormStore() *GormStore {
	return &GormStore{}
}

// storageErr tags database faults as transient so callers can tell them
// apart from ticket-state rejections and retry with backoff.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %s: %w", op, err.Error(), tickets.ErrStorageUnavailable)
}

func (s *GormStore) ClaimType(ctx context.Context, eventID, ticketTypeID uint) (*tickets.TypeInfo, error) {
	d := db.GetDb().WithContext(ctx)
	var info *tickets.TypeInfo
	err := d.Transaction(func(tx *gorm.DB) error {
		var tt models.TicketType
		if err := tx.
			Where(&models.TicketType{ID: ticketTypeID, EventID: eventID}).
			Preload("Event").
			First(&tt).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tickets.ErrUnknownTicketType
			}
			return storageErr("claim", err)
		}
		res := tx.
			Model(&models.TicketType{}).
			Where("id = ? AND issued < quantity", ticketTypeID).
			Update("issued", gorm.Expr("issued + 1"))
		if res.Error != nil {
			return storageErr("claim", res.Error)
		}
		if res.RowsAffected == 0 {
			return tickets.ErrCapacityExceeded
		}
		eventDate := time.Time{}
		if tt.Event.DateTime != nil {
			eventDate = *tt.Event.DateTime
		}
		info = &tickets.TypeInfo{
			EventID:      tt.EventID,
			EventName:    tt.Event.Title,
			EventDate:    eventDate,
			Location:     tt.Event.Location,
			TicketTypeID: tt.ID,
			TypeName:     tt.Name,
			Price:        tt.Price,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (s *GormStore) ReleaseType(ctx context.Context, eventID, ticketTypeID uint) error {
	d := db.GetDb().WithContext(ctx)
	res := d.
		Model(&models.TicketType{}).
		Where("id = ? AND event_id = ? AND issued > 0", ticketTypeID, eventID).
		Update("issued", gorm.Expr("issued - 1"))
	if res.Error != nil {
		return storageErr("release", res.Error)
	}
	return nil
}

func (s *GormStore) CreateTicket(ctx context.Context, rec *tickets.Record) error {
	d := db.GetDb().WithContext(ctx)
	ticket := models.Ticket{
		TicketID:     rec.TicketID,
		EventID:      rec.EventID,
		TicketTypeID: rec.TicketTypeID,
		BuyerName:    rec.BuyerName,
		BuyerPhone:   rec.BuyerPhone,
		BuyerEmail:   rec.BuyerEmail,
		Status:       rec.Status,
		IssuedAt:     rec.IssuedAt,
	}
	if err := d.Create(&ticket).Error; err != nil {
		return storageErr("create", err)
	}
	return nil
}

func (s *GormStore) FindTicket(ctx context.Context, ticketID string) (*tickets.Record, error) {
	d := db.GetDb().WithContext(ctx)
	var ticket models.Ticket
	if err := d.
		Where(&models.Ticket{TicketID: ticketID}).
		Preload("Event").
		First(&ticket).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tickets.ErrUnknownTicket
		}
		return nil, storageErr("find", err)
	}
	return &tickets.Record{
		TicketID:     ticket.TicketID,
		EventID:      ticket.EventID,
		EventName:    ticket.Event.Title,
		TicketTypeID: ticket.TicketTypeID,
		BuyerName:    ticket.BuyerName,
		BuyerPhone:   ticket.BuyerPhone,
		BuyerEmail:   ticket.BuyerEmail,
		Status:       ticket.Status,
		IssuedAt:     ticket.IssuedAt,
		RedeemedAt:   ticket.RedeemedAt,
	}, nil
}

func (s *GormStore) RedeemTicket(ctx context.Context, ticketID string, at time.Time) (bool, error) {
	d := db.GetDb().WithContext(ctx)
	res := d.
		Model(&models.Ticket{}).
		Where("ticket_id = ? AND status = ?", ticketID, tickets.StatusUnused).
		Updates(map[string]any{"status": tickets.StatusRedeemed, "redeemed_at": at})
	if res.Error != nil {
		return false, storageErr("redeem", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) VoidTicket(ctx context.Context, ticketID string) (bool, error) {
	d := db.GetDb().WithContext(ctx)
	res := d.
		Model(&models.Ticket{}).
		Where("ticket_id = ? AND status = ?", ticketID, tickets.StatusUnused).
		Update("status", tickets.StatusVoid)
	if res.Error != nil {
		return false, storageErr("void", res.Error)
	}
	return res.RowsAffected > 0, nil
}
