package utils

import (
	"bytes"
	"context"
	"testing"
	"time"

	"qrticket/src/db"
	"qrticket/src/tickets"
	"qrticket/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("+212 612-345-678", "Festival de Musique", "t-1")
	assert.Contains(t, link, "https://wa.me/212612345678?text=")
	assert.Contains(t, link, "t-1")
	assert.NotContains(t, link, " ")
}

func TestWhatsAppLinkWithoutNumber(t *testing.T) {
	assert.Empty(t, WhatsAppLink("", "Festival", "t-1"))
}

// The sweeper may only void unused tickets, and only for events whose date
// has passed; both guards live in the WHERE clauses pinned here.
func TestVoidExpiredTicketsGuards(t *testing.T) {
	_, mock := db.GetMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "events" WHERE date_time < \$1 AND status <> \$2`).
		WithArgs(sqlmock.AnyArg(), types.EVENT_COMPLETED).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "status"}).
			AddRow(7, "Concert passé", types.EVENT_OPEN))
	mock.ExpectExec(`UPDATE "tickets" SET`).
		WithArgs(tickets.StatusVoid, sqlmock.AnyArg(), 7, tickets.StatusUnused).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE "events" SET`).
		WithArgs(types.EVENT_COMPLETED, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	VoidExpiredTickets()
	assert.NoError(t, mock.ExpectationsWereMet())
}

// In local mode no document is archived, so the non-share document path
// regenerates the PDF from the issuance record.
func TestTicketDocumentLocalRebuild(t *testing.T) {
	t.Setenv("API_ENV", "local")
	t.Setenv("API_QRC_SECRET", "6368616e676520746869732070617373776f726420746f206120736563726574")
	_, mock := db.GetMockDB()
	mock.MatchExpectationsInOrder(false)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"ticket_id", "event_id", "ticket_type_id", "status", "issued_at"}).
			AddRow("t-1", 1, 2, "unused", now))
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "location", "date_time"}).
			AddRow(1, "Festival d'été", "Rabat", now))
	mock.ExpectQuery(`SELECT \* FROM "ticket_types"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).
			AddRow(2, "VIP", float64(250)))

	doc, url, err := TicketDocument(context.Background(), "t-1", false)
	require.NoError(t, err)
	assert.Empty(t, url)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
	assert.Contains(t, string(doc), "Ticket ID: t-1")
}

func TestVoidExpiredTicketsNoExpiredEvents(t *testing.T) {
	_, mock := db.GetMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WithArgs(sqlmock.AnyArg(), types.EVENT_COMPLETED).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	VoidExpiredTickets()
	assert.NoError(t, mock.ExpectationsWereMet())
}
