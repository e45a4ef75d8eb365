package boot

import (
	"log"
	"qrticket/src/db"
	"qrticket/src/lib"
	"qrticket/src/models"
	"qrticket/src/utils"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TicketType{},
		&models.Ticket{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Fatalf("error initializing scheduler: %s", err.Error())
	}
	if _, err := lib.CreateIntervalJob(utils.VoidExpiredTickets, time.Hour); err != nil {
		log.Printf("error registering sweeper job: %s\n", err.Error())
	}
	sched.Start()
}
