package boot

import (
	"log"
	"time"

	"rently/src/db"
	"rently/src/lib"
	"rently/src/models"
	"rently/src/utils"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Booking{},
		&models.Payment{},
		&models.Invoice{},
		&models.Document{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	jobID, err := lib.CreateCronJob(utils.SendDueReminders, time.Hour)
	if err != nil {
		log.Printf("Error scheduling reminders: %s\n", err.Error())
		return
	}
	log.Printf("Reminder job scheduled: %s\n", *jobID)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}
