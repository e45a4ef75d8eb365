package tickets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Ticket lifecycle states. A ticket is created unused, redeems exactly once
// and may be voided while still unused. Redeemed and void are terminal.
const (
	StatusUnused   = "unused"
	StatusRedeemed = "redeemed"
	StatusVoid     = "void"
)

// Rejection reasons surfaced to the door operator.
const (
	ReasonInvalidFormat = "INVALID_FORMAT"
	ReasonUnknownTicket = "UNKNOWN_TICKET"
	ReasonAlreadyUsed   = "ALREADY_USED"
	ReasonVoid          = "VOID"
)

// Record is the persisted issuance state of one minted ticket.
type Record struct {
	TicketID     string
	EventID      uint
	EventName    string
	TicketTypeID uint
	BuyerName    string
	BuyerPhone   string
	BuyerEmail   string
	Status       string
	IssuedAt     time.Time
	RedeemedAt   *time.Time
}

// Store is the persistence surface the issuance and validation paths need.
// Implementations must make RedeemTicket an atomic conditional transition
// keyed on (ticketID, status=unused) and ClaimType an atomic guarded
// increment of the type's issued counter. Transient faults are reported as
// errors wrapping ErrStorageUnavailable.
type Store interface {
	ClaimType(ctx context.Context, eventID, ticketTypeID uint) (*TypeInfo, error)
	ReleaseType(ctx context.Context, eventID, ticketTypeID uint) error
	CreateTicket(ctx context.Context, rec *Record) error
	FindTicket(ctx context.Context, ticketID string) (*Record, error)
	RedeemTicket(ctx context.Context, ticketID string, at time.Time) (bool, error)
	VoidTicket(ctx context.Context, ticketID string) (bool, error)
}

// TypeInfo is what ClaimType reports back about the claimed ticket type and
// its event, enough to fill the printable document.
type TypeInfo struct {
	EventID      uint
	EventName    string
	EventDate    time.Time
	Location     string
	TicketTypeID uint
	TypeName     string
	Price        float32
	LogoPNG      []byte
}

// Result is the outcome of validating one scanned payload.
type Result struct {
	OK         bool       `json:"ok"`
	Reason     string     `json:"reason,omitempty"`
	TicketID   string     `json:"ticket_id,omitempty"`
	EventName  string     `json:"event_name,omitempty"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
}

// Validator checks scanned payloads against the store and performs the
// at-most-once redeem transition.
type Validator struct {
	codec *Codec
	store Store
}

func NewValidator(codec *Codec, store Store) *Validator {
	return &Validator{codec: codec, store: store}
}

// Validate decodes the scanned payload and redeems the ticket it names.
// Ticket-state rejections come back as a Result with OK=false; only storage
// faults are returned as errors, so callers can retry those and must not
// retry the rest.
func (v *Validator) Validate(ctx context.Context, code string) (*Result, error) {
	p, err := v.codec.Decode(code)
	if err != nil {
		log.Printf("Rejecting payload: %s\n", err.Error())
		return &Result{OK: false, Reason: ReasonInvalidFormat}, nil
	}

	rec, err := v.store.FindTicket(ctx, p.TicketID)
	if err != nil {
		if errors.Is(err, ErrUnknownTicket) {
			return &Result{OK: false, Reason: ReasonUnknownTicket}, nil
		}
		return nil, fmt.Errorf("could not look up ticket %s: %w", p.TicketID, err)
	}
	if rec.EventID != p.EventID {
		// a real ticket presented at the wrong event
		return &Result{OK: false, Reason: ReasonUnknownTicket, TicketID: rec.TicketID}, nil
	}

	switch rec.Status {
	case StatusRedeemed:
		return &Result{
			OK:         false,
			Reason:     ReasonAlreadyUsed,
			TicketID:   rec.TicketID,
			EventName:  rec.EventName,
			RedeemedAt: rec.RedeemedAt,
		}, nil
	case StatusVoid:
		return &Result{OK: false, Reason: ReasonVoid, TicketID: rec.TicketID, EventName: rec.EventName}, nil
	}

	now := time.Now().UTC()
	ok, err := v.store.RedeemTicket(ctx, p.TicketID, now)
	if err != nil {
		return nil, fmt.Errorf("could not redeem ticket %s: %w", p.TicketID, err)
	}
	if !ok {
		// lost the race against another scanner
		res := &Result{OK: false, Reason: ReasonAlreadyUsed, TicketID: rec.TicketID, EventName: rec.EventName}
		if fresh, err := v.store.FindTicket(ctx, p.TicketID); err == nil {
			res.RedeemedAt = fresh.RedeemedAt
		}
		return res, nil
	}
	return &Result{OK: true, TicketID: rec.TicketID, EventName: rec.EventName, RedeemedAt: &now}, nil
}
