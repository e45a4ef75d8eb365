package tickets

import "errors"

var (
	// issuance
	ErrCapacityExceeded  = errors.New("ticket type is sold out")
	ErrUnknownTicketType = errors.New("ticket type does not exist")

	// codec
	ErrInvalidFormat      = errors.New("payload is malformed")
	ErrUnsupportedVersion = errors.New("payload version is not supported")
	ErrBadSignature       = errors.New("payload signature does not match")

	// renderer
	ErrEncodingTooLarge = errors.New("payload does not fit the QR symbol at the requested level")

	// validation
	ErrUnknownTicket = errors.New("ticket is not known")
	ErrAlreadyUsed   = errors.New("ticket has already been used")
	ErrVoidTicket    = errors.New("ticket has been voided")

	// transient storage faults; callers may retry with backoff
	ErrStorageUnavailable = errors.New("ticket store is unavailable")
)
