package tickets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Identity is the immutable identity of a single admission ticket. It binds
// one event and one ticket type to a globally unique id.
type Identity struct {
	TicketID     string    `json:"ticket_id"`
	EventID      uint      `json:"event_id"`
	TicketTypeID uint      `json:"ticket_type_id"`
	IssuedAt     time.Time `json:"issued_at"`
}

// Mint generates a new ticket identity. The id carries a uuid v4 plus an
// extra 64 bits from crypto/rand so it is never derived from predictable
// inputs alone. Mint has no side effects; persisting the identity is the
// caller's job.
func Mint(eventID uint, ticketTypeID uint) (Identity, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return Identity{}, fmt.Errorf("could not read random suffix: %w", err)
	}
	id := fmt.Sprintf("%s-%s", uuid.NewString(), hex.EncodeToString(suffix))
	return Identity{
		TicketID:     id,
		EventID:      eventID,
		TicketTypeID: ticketTypeID,
		IssuedAt:     time.Now().UTC(),
	}, nil
}
