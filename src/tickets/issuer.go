package tickets

import (
	"context"
	"fmt"
)

// Issued is everything produced by one successful issuance: the minted
// identity, the signed payload, the QR image and the printable document.
type Issued struct {
	Identity Identity
	Info     TypeInfo
	Payload  string
	QRPNG    []byte
	Document []byte
}

// Issuer runs the issuance pipeline: claim capacity, mint, encode, render,
// compose, persist. Delivery side effects (storage upload, caching, mail)
// stay with the caller.
type Issuer struct {
	codec  *Codec
	store  Store
	render RenderOptions
}

func NewIssuer(codec *Codec, store Store) *Issuer {
	return &Issuer{codec: codec, store: store, render: RenderOptions{Level: ECLevelHighest}}
}

// Issue mints one ticket of the given type. The capacity claim happens
// first as an atomic guarded increment; every later failure releases the
// claim so a failed issuance never burns a seat. Minted ids are never
// reused across retries.
func (i *Issuer) Issue(ctx context.Context, eventID, ticketTypeID uint, buyerName, buyerPhone, buyerEmail string) (*Issued, error) {
	info, err := i.store.ClaimType(ctx, eventID, ticketTypeID)
	if err != nil {
		return nil, err
	}
	out, err := i.build(ctx, info, buyerName, buyerPhone, buyerEmail)
	if err != nil {
		if rerr := i.store.ReleaseType(ctx, eventID, ticketTypeID); rerr != nil {
			return nil, fmt.Errorf("%w (claim release also failed: %s)", err, rerr.Error())
		}
		return nil, err
	}
	return out, nil
}

func (i *Issuer) build(ctx context.Context, info *TypeInfo, buyerName, buyerPhone, buyerEmail string) (*Issued, error) {
	identity, err := Mint(info.EventID, info.TicketTypeID)
	if err != nil {
		return nil, err
	}
	payload, err := i.codec.Encode(identity)
	if err != nil {
		return nil, err
	}
	qrPNG, err := Render(payload, i.render)
	if err != nil {
		return nil, err
	}
	doc, err := Compose(View{
		TicketID:   identity.TicketID,
		EventName:  info.EventName,
		EventDate:  info.EventDate.Format("02/01/2006"),
		Location:   info.Location,
		TicketType: info.TypeName,
		Price:      info.Price,
		QRPNG:      qrPNG,
		LogoPNG:    info.LogoPNG,
	})
	if err != nil {
		return nil, err
	}
	rec := &Record{
		TicketID:     identity.TicketID,
		EventID:      identity.EventID,
		EventName:    info.EventName,
		TicketTypeID: identity.TicketTypeID,
		BuyerName:    buyerName,
		BuyerPhone:   buyerPhone,
		BuyerEmail:   buyerEmail,
		Status:       StatusUnused,
		IssuedAt:     identity.IssuedAt,
	}
	if err := i.store.CreateTicket(ctx, rec); err != nil {
		return nil, err
	}
	return &Issued{Identity: identity, Info: *info, Payload: payload, QRPNG: qrPNG, Document: doc}, nil
}
