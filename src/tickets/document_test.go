package tickets

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testView(t *testing.T) View {
	t.Helper()
	qr, err := Render("qrticket-test", RenderOptions{})
	require.NoError(t, err)
	return View{
		TicketID:   "abc-123",
		EventName:  "Festival de Musique 2026",
		EventDate:  "31/12/2026",
		Location:   "Complexe Mohammed V, Casablanca",
		TicketType: "Pass VIP",
		Price:      1000,
		QRPNG:      qr,
	}
}

func TestComposeWithoutLogoKeepsBrandHeader(t *testing.T) {
	doc, err := Compose(testView(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
	assert.Contains(t, string(doc), BrandName)
}

func TestComposeIncludesDetails(t *testing.T) {
	doc, err := Compose(testView(t))
	require.NoError(t, err)
	content := string(doc)
	assert.Contains(t, content, "Festival de Musique 2026")
	assert.Contains(t, content, "Lieu : Complexe Mohammed V, Casablanca")
	assert.Contains(t, content, "Type de billet : Pass VIP")
	assert.Contains(t, content, "Prix : 1000 MAD")
	assert.Contains(t, content, "Ticket ID: abc-123")
}

func TestComposeWrapsLongTitle(t *testing.T) {
	v := testView(t)
	v.EventName = strings.Repeat("Grand Festival International de Musique et des Arts ", 10)
	doc, err := Compose(v)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
	// the title is clamped to a fixed line budget so following sections
	// keep their place on the single page
	assert.Contains(t, string(doc), "...")
}

// Accented text (the legal notes guarantee some on every ticket) must be
// measured as UTF-8 and only translated to the font encoding when drawn.
func TestComposeHandlesAccentedText(t *testing.T) {
	v := testView(t)
	v.EventName = "Soirée de l'Été à Rabat"
	doc, err := Compose(v)
	require.NoError(t, err)
	content := string(doc)
	// cp1252 bytes for "pièce d'identité" from the first legal note
	assert.Contains(t, content, "pi\xe8ce d'identit\xe9")
	assert.Contains(t, content, "Soir\xe9e de l'\xc9t\xe9 \xe0 Rabat")
}

func TestComposeWithoutQR(t *testing.T) {
	v := testView(t)
	v.QRPNG = nil
	doc, err := Compose(v)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "Ticket ID: abc-123")
}
