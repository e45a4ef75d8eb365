package main

import (
	"errors"
	"log"
	"net/http"
	"qrticket/src/db"
	"qrticket/src/models"
	"qrticket/src/tickets"
	"qrticket/src/types"
	"qrticket/src/utils"

	"github.com/gin-gonic/gin"
)

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets", func(ctx *gin.Context) {
			var filters types.TicketQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			where := models.Ticket{EventID: filters.EventID, Status: filters.Status}
			var records []models.Ticket
			db := db.GetDb()
			if err := db.
				Where(&where).
				Preload("TicketType").
				Order("issued_at desc").
				Limit(100).
				Find(&records).Error; err != nil {
				log.Printf("Error retrieving Tickets: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": records})
		}).
		POST("/tickets", func(ctx *gin.Context) {
			var body types.IssueTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			issued, err := utils.IssueTicket(ctx.Request.Context(), &body)
			if err != nil {
				log.Printf("error issuing ticket: %s", err.Error())
				switch {
				case errors.Is(err, tickets.ErrCapacityExceeded):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				case errors.Is(err, tickets.ErrUnknownTicketType):
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				case errors.Is(err, tickets.ErrStorageUnavailable):
					ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": issued})
		}).
		GET("/tickets/:id/document", func(ctx *gin.Context) {
			var query struct {
				ShareLink bool `form:"share_link"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var params types.TicketRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Printf("Download eticket for %s\n", params.TicketID)
			doc, url, err := utils.TicketDocument(ctx.Request.Context(), params.TicketID, query.ShareLink)
			if err != nil {
				log.Printf("Error retrieving document for %s: %s\n", params.TicketID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if query.ShareLink {
				ctx.JSON(http.StatusOK, gin.H{"url": url})
				return
			}
			ctx.Header("Content-Disposition", `attachment; filename="billet.pdf"`)
			ctx.Data(http.StatusOK, "application/pdf", doc)
		}).
		PATCH("/tickets/:id/void", func(ctx *gin.Context) {
			var params types.TicketRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.VoidTicket(ctx.Request.Context(), params.TicketID); err != nil {
				log.Printf("error voiding ticket %s: %s", params.TicketID, err.Error())
				switch {
				case errors.Is(err, tickets.ErrUnknownTicket):
					ctx.Status(http.StatusNotFound)
				case errors.Is(err, tickets.ErrStorageUnavailable):
					ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.Status(http.StatusOK)
		})
	return g
}
