package tickets

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const BrandName = "QRticketPro"

const (
	pageMargin = 20.0
	logoWidth  = 40.0
	logoHeight = 20.0
	qrCodeSize = 50.0

	maxTitleLines = 3
)

var legalNotes = []string{
	"Ce billet est personnel et non cessible. Une pièce d'identité pourra être demandée.",
	"Le code QR doit être présenté à l'entrée de l'événement pour validation.",
}

// View bundles everything the printable ticket shows: event metadata, the
// rendered QR image and an optional organizer logo.
type View struct {
	TicketID   string
	EventName  string
	EventDate  string
	Location   string
	TicketType string
	Price      float32
	QRPNG      []byte
	LogoPNG    []byte
}

// Compose lays the ticket out on a single A4 page and returns the PDF
// bytes. The layout is fixed: branded header, wrapped event title, detail
// lines, centered QR block, ticket-id footer and a wrapped legal notice.
// When no logo is supplied the brand name is printed instead, so a ticket
// never renders without identifying branding.
func Compose(v View) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - pageMargin*2
	y := pageMargin

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "", 24)
	pdf.SetTextColor(79, 70, 229)
	if len(v.LogoPNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("organizer_logo", opts, bytes.NewReader(v.LogoPNG))
		pdf.ImageOptions("organizer_logo", pageMargin, y, logoWidth, logoHeight, false, opts, 0, "")
		pdf.Text(pageMargin+logoWidth+5, y+logoHeight/2, BrandName)
		y += logoHeight + 10
	} else {
		pdf.Text(pageMargin, y+10, BrandName)
		y += 20
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 20)
	// SplitText measures UTF-8 input; translation to the cp1252 font
	// encoding happens only when a line is drawn.
	titleLines := pdf.SplitText(v.EventName, contentWidth)
	if len(titleLines) > maxTitleLines {
		titleLines = titleLines[:maxTitleLines]
		titleLines[maxTitleLines-1] += "..."
	}
	for _, line := range titleLines {
		y += 10
		pdf.Text(pageMargin, y, tr(line))
	}
	y += 10

	pdf.SetFont("Helvetica", "", 12)
	details := []string{
		fmt.Sprintf("Date : %s", v.EventDate),
		fmt.Sprintf("Lieu : %s", v.Location),
		fmt.Sprintf("Type de billet : %s", v.TicketType),
		fmt.Sprintf("Prix : %.0f MAD", v.Price),
	}
	for _, detail := range details {
		pdf.Text(pageMargin, y, tr(detail))
		y += 8
	}

	if len(v.QRPNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("ticket_qr", opts, bytes.NewReader(v.QRPNG))
		y += 10
		pdf.ImageOptions("ticket_qr", (pageWidth-qrCodeSize)/2, y, qrCodeSize, qrCodeSize, false, opts, 0, "")
		y += qrCodeSize + 10
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(pageMargin, y, fmt.Sprintf("Ticket ID: %s", v.TicketID))
	y += 10

	pdf.SetFont("Helvetica", "", 8)
	_, pageHeight := pdf.GetPageSize()
	for _, note := range legalNotes {
		for _, line := range pdf.SplitText(note, contentWidth) {
			if y > pageHeight-pageMargin {
				break
			}
			pdf.Text(pageMargin, y, tr(line))
			y += 5
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("could not compose ticket document: %w", err)
	}
	return buf.Bytes(), nil
}
