package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"qrticket/src/config"
	"qrticket/src/db"
	"qrticket/src/lib"
	"qrticket/src/lib/mailer"
	"qrticket/src/models"
	"qrticket/src/tickets"
	"qrticket/src/types"
	"time"

	awslib "qrticket/src/lib/aws"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const storageTimeout = 10 * time.Second

func CreateNewEvent(params *types.CreateEventRequestBody, organizerId uint) (uint, error) {
	dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, params.DateTime)
	if err != nil {
		log.Printf("Error parsing date_time: %s\n", err.Error())
		return 0, err
	}
	dateTime = time.Date(
		dateTime.Year(),
		dateTime.Month(),
		dateTime.Day(),
		dateTime.Hour(),
		dateTime.Minute(),
		0,
		0,
		dateTime.Location(),
	)

	event := models.Event{
		Title:          params.Title,
		Slug:           slug.Make(params.Title),
		About:          &params.Description,
		Category:       params.Category,
		Location:       params.Location,
		Address:        params.Address,
		DateTime:       &dateTime,
		Capacity:       params.Capacity,
		WhatsAppNumber: params.WhatsAppNumber,
		LogoURL:        params.LogoURL,
		Status:         types.EVENT_DRAFT,
		OrganizerID:    organizerId,
	}

	d := db.GetDb()
	err = d.Transaction(func(tx *gorm.DB) error {
		var total uint
		for _, tt := range params.TicketTypes {
			total += tt.Quantity
		}
		if total > params.Capacity {
			return fmt.Errorf("ticket type quantities (%d) exceed event capacity (%d)", total, params.Capacity)
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		for _, tt := range params.TicketTypes {
			ticketType := models.TicketType{
				EventID:  event.ID,
				Name:     tt.Name,
				About:    &tt.Description,
				Price:    tt.Price,
				Quantity: tt.Quantity,
			}
			if err := tx.Create(&ticketType).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return event.ID, nil
}

func PublishEvent(id uint) error {
	d := db.GetDb()
	res := d.
		Model(&models.Event{}).
		Where(&models.Event{ID: id, Status: types.EVENT_DRAFT}).
		Update("status", types.EVENT_OPEN)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("event is not in draft state")
	}
	return nil
}

// GetEventStats sums sold counts and revenue over the event's issuance
// records; voided tickets do not count.
func GetEventStats(id uint) (*models.EventStats, error) {
	d := db.GetDb()
	stats := models.EventStats{EventID: id}
	err := d.
		Model(&models.Ticket{}).
		Joins("JOIN ticket_types ON ticket_types.id = tickets.ticket_type_id").
		Where("tickets.event_id = ? AND tickets.status <> ?", id, tickets.StatusVoid).
		Select("COUNT(*) as tickets_sold, COALESCE(SUM(ticket_types.price), 0) as revenue").
		Scan(&stats).
		Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// NewTicketCore wires the codec, issuer and validator over the Postgres
// store with the key from API_QRC_SECRET.
func NewTicketCore() (*tickets.Issuer, *tickets.Validator, error) {
	key, err := config.GetQRSecret()
	if err != nil {
		return nil, nil, err
	}
	codec := tickets.NewCodec(key)
	store := NewGormStore()
	return tickets.NewIssuer(codec, store), tickets.NewValidator(codec, store), nil
}

type IssuedTicket struct {
	TicketID     string `json:"ticket_id"`
	DocumentURL  string `json:"document_url,omitempty"`
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
}

// IssueTicket runs the issuance pipeline and then the delivery side
// effects: document archive, share-url cache, audit stream and buyer email.
// Only the pipeline itself can fail the request; delivery failures get
// logged and the minted ticket stands.
func IssueTicket(ctx context.Context, body *types.IssueTicketRequestBody) (*IssuedTicket, error) {
	issuer, _, err := NewTicketCore()
	if err != nil {
		return nil, err
	}
	issueCtx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	issued, err := issuer.Issue(issueCtx, body.EventID, body.TicketTypeID, body.Buyer.Name, body.Buyer.Phone, body.Buyer.Email)
	if err != nil {
		return nil, err
	}

	out := &IssuedTicket{TicketID: issued.Identity.TicketID}

	docKey := fmt.Sprintf("ticketdoc_%s", issued.Identity.TicketID)
	if os.Getenv("API_ENV") != "local" {
		documentURL, err := awslib.S3UploadDocument(ctx, docKey, issued.Document)
		if err != nil {
			log.Printf("Error uploading document [%s] to S3 bucket: %s\n", docKey, err.Error())
		} else {
			out.DocumentURL = *documentURL
			rd := lib.GetRedisClient()
			if rd != nil {
				rd.SetEx(ctx, docKey, *documentURL, 2*time.Hour)
			}
		}
	}

	var event models.Event
	if err := db.GetDb().Where(&models.Event{ID: issued.Identity.EventID}).First(&event).Error; err == nil {
		out.WhatsAppLink = WhatsAppLink(event.WhatsAppNumber, event.Title, issued.Identity.TicketID)
	}

	if err := lib.KafkaProduceMessage("tickets", lib.TopicTicketsIssued, map[string]any{
		"ticket_id": issued.Identity.TicketID,
		"event_id":  issued.Identity.EventID,
		"type_id":   issued.Identity.TicketTypeID,
		"issued_at": issued.Identity.IssuedAt,
	}); err != nil {
		log.Printf("Error producing issuance audit message: %s\n", err.Error())
	}

	if body.Buyer.Email != "" {
		if err := mailer.SendTicketDocument(body.Buyer.Email, issued.Info.EventName, issued.Identity.TicketID, issued.Document); err != nil {
			log.Printf("Error mailing ticket %s to buyer: %s\n", issued.Identity.TicketID, err.Error())
		}
	}
	return out, nil
}

// TicketDocument rebuilds or fetches the printable document for an issued
// ticket. The share-link flow prefers the cached presigned URL.
func TicketDocument(ctx context.Context, ticketID string, shareLink bool) ([]byte, string, error) {
	docKey := fmt.Sprintf("ticketdoc_%s", ticketID)
	if shareLink {
		rd := lib.GetRedisClient()
		if rd != nil {
			if cached, err := rd.Get(ctx, docKey).Result(); err == nil && cached != "" {
				return nil, cached, nil
			}
		}
		u, err := awslib.S3PresignDocument(ctx, docKey)
		if err != nil {
			return nil, "", err
		}
		return nil, *u, nil
	}
	if os.Getenv("API_ENV") != "local" {
		doc, err := awslib.S3DownloadDocument(ctx, docKey)
		if err != nil {
			return nil, "", err
		}
		if doc != nil {
			return doc, "", nil
		}
	}
	// No archived copy (local mode never uploads one); regenerate from the
	// issuance record instead.
	doc, err := rebuildDocument(ctx, ticketID)
	if err != nil {
		return nil, "", err
	}
	return doc, "", nil
}

// rebuildDocument regenerates the printable PDF from the stored issuance
// record. The signed payload is deterministic for a given identity, so the
// regenerated QR scans identically to the one minted at issuance.
func rebuildDocument(ctx context.Context, ticketID string) ([]byte, error) {
	key, err := config.GetQRSecret()
	if err != nil {
		return nil, err
	}
	d := db.GetDb().WithContext(ctx)
	var ticket models.Ticket
	if err := d.
		Where(&models.Ticket{TicketID: ticketID}).
		Preload("Event").
		Preload("TicketType").
		First(&ticket).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tickets.ErrUnknownTicket
		}
		return nil, storageErr("rebuild", err)
	}
	codec := tickets.NewCodec(key)
	payload, err := codec.Encode(tickets.Identity{
		TicketID:     ticket.TicketID,
		EventID:      ticket.EventID,
		TicketTypeID: ticket.TicketTypeID,
		IssuedAt:     ticket.IssuedAt,
	})
	if err != nil {
		return nil, err
	}
	qrPNG, err := tickets.Render(payload, tickets.RenderOptions{Level: tickets.ECLevelHighest})
	if err != nil {
		return nil, err
	}
	eventDate := ""
	if ticket.Event.DateTime != nil {
		eventDate = ticket.Event.DateTime.Format("02/01/2006")
	}
	return tickets.Compose(tickets.View{
		TicketID:   ticket.TicketID,
		EventName:  ticket.Event.Title,
		EventDate:  eventDate,
		Location:   ticket.Event.Location,
		TicketType: ticket.TicketType.Name,
		Price:      ticket.TicketType.Price,
		QRPNG:      qrPNG,
	})
}

// ValidateCode is the door-scan path. Storage faults are reported as
// errors; everything else is a terminal Result for the operator.
func ValidateCode(ctx context.Context, code string) (*tickets.Result, error) {
	_, validator, err := NewTicketCore()
	if err != nil {
		return nil, err
	}
	scanCtx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	result, err := validator.Validate(scanCtx, code)
	if err != nil {
		return nil, err
	}
	if result.OK {
		if err := lib.KafkaProduceMessage("tickets", lib.TopicTicketsRedeemed, map[string]any{
			"ticket_id":   result.TicketID,
			"redeemed_at": result.RedeemedAt,
		}); err != nil {
			log.Printf("Error producing redemption audit message: %s\n", err.Error())
		}
	}
	return result, nil
}

func VoidTicket(ctx context.Context, ticketID string) error {
	store := NewGormStore()
	ok, err := store.VoidTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if !ok {
		rec, err := store.FindTicket(ctx, ticketID)
		if err != nil {
			return err
		}
		switch rec.Status {
		case tickets.StatusRedeemed:
			return tickets.ErrAlreadyUsed
		case tickets.StatusVoid:
			return tickets.ErrVoidTicket
		}
		return errors.New("ticket could not be voided")
	}
	if err := lib.KafkaProduceMessage("tickets", lib.TopicTicketsVoided, map[string]any{
		"ticket_id": ticketID,
	}); err != nil {
		log.Printf("Error producing void audit message: %s\n", err.Error())
	}
	return nil
}

// VoidExpiredTickets marks events whose date has passed as completed and
// voids their remaining unused tickets. Runs on the shared scheduler.
func VoidExpiredTickets() {
	d := db.GetDb()
	now := time.Now()
	err := d.Transaction(func(tx *gorm.DB) error {
		var expired []models.Event
		if err := tx.
			Where("date_time < ? AND status <> ?", now, types.EVENT_COMPLETED).
			Find(&expired).
			Error; err != nil {
			return err
		}
		for _, event := range expired {
			res := tx.
				Model(&models.Ticket{}).
				Where("event_id = ? AND status = ?", event.ID, tickets.StatusUnused).
				Update("status", tickets.StatusVoid)
			if res.Error != nil {
				return res.Error
			}
			if err := tx.
				Model(&models.Event{}).
				Where(&models.Event{ID: event.ID}).
				Update("status", types.EVENT_COMPLETED).
				Error; err != nil {
				return err
			}
			log.Printf("Voided %d unused tickets for expired event [%d]\n", res.RowsAffected, event.ID)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error voiding expired tickets: %s\n", err.Error())
	}
}

// WhatsAppLink builds the prefilled wa.me hand-off used for manual
// reservation follow-up.
func WhatsAppLink(number string, eventTitle string, ticketID string) string {
	if number == "" {
		return ""
	}
	text := fmt.Sprintf("Bonjour, je confirme ma réservation pour %s (ticket %s).", eventTitle, ticketID)
	digits := ""
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits += string(r)
		}
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(text))
}
