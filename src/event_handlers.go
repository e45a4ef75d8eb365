package main

import (
	"errors"
	"log"
	"net/http"
	"qrticket/src/db"
	"qrticket/src/models"
	"qrticket/src/types"
	"qrticket/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			orgId := ctx.GetUint("id")
			var events []models.Event
			db := db.GetDb()
			if err := db.
				Where(&models.Event{OrganizerID: orgId}).
				Preload("TicketTypes").
				Order("created_at desc").
				Find(&events).Error; err != nil {
				log.Printf("Error retrieving Events: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var event models.Event
			db := db.GetDb()
			if err := db.
				Where(&models.Event{ID: params.ID}).
				Preload("TicketTypes").
				First(&event).
				Error; err != nil {
				log.Printf("Error retrieving Event [%d]: %s\n", params.ID, err.Error())
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.Status(http.StatusBadRequest)
				return
			}
			stats, err := utils.GetEventStats(event.ID)
			if err != nil {
				log.Printf("Error retrieving stats for Event [%d]: %s\n", event.ID, err.Error())
			} else {
				event.Stats = stats
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			organizerId := ctx.GetUint("id")
			id, err := utils.CreateNewEvent(&body, organizerId)
			if err != nil {
				log.Printf("error creating event: %s", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		PATCH("/events/:id/publish", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.PublishEvent(params.ID); err != nil {
				log.Printf("error publishing event: %s", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		})
	return g
}
