package mailer

import (
	"bytes"
	"fmt"
	"os"
	"qrticket/src/lib"

	"github.com/wneessen/go-mail"
)

// SendTicketDocument emails the composed ticket PDF to the buyer.
func SendTicketDocument(to string, eventName string, ticketID string, doc []byte) error {
	from := os.Getenv("MAIL_FROM")
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(fmt.Sprintf("Votre billet pour %s", eventName))
	m.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Votre billet pour %s est en pièce jointe.\n\nTicket ID: %s\nPrésentez le code QR à l'entrée de l'événement.\n",
		eventName, ticketID,
	))
	if err := m.AttachReader("billet.pdf", bytes.NewReader(doc)); err != nil {
		return fmt.Errorf("could not attach document: %w", err)
	}

	c, err := lib.GetSMTPClient()
	if err != nil {
		return err
	}
	return c.DialAndSend(m)
}
