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

func admissionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/admissions", func(ctx *gin.Context) {
			var body types.ValidateTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := utils.ValidateCode(ctx.Request.Context(), body.Code)
			if err != nil {
				log.Printf("Error on Ticket admission: %s\n", err.Error())
				if errors.Is(err, tickets.ErrStorageUnavailable) {
					// transient; the scanner retries with backoff
					ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, result)
		}).
		GET("/admissions", func(ctx *gin.Context) {
			var filters types.TicketQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var redeemed []models.Ticket
			db := db.GetDb()
			if err := db.
				Where(&models.Ticket{EventID: filters.EventID, Status: tickets.StatusRedeemed}).
				Order("redeemed_at desc").
				Limit(100).
				Find(&redeemed).Error; err != nil {
				log.Printf("Error retrieving admissions: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": redeemed})
		})
	return g
}
