package boot

import (
	"log"
	"time"

	"ftm/src/db"
	"ftm/src/lib"
	"ftm/src/models"
	"ftm/src/types"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Truck{},
		&models.MenuItem{},
		&models.TruckUnavailability{},
		&models.Event{},
		&models.Booking{},
		&models.Invite{},
		&models.Application{},
		&models.Favorite{},
		&models.Follow{},
		&models.Schedule{},
		&models.Update{},
		&models.Subscription{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler registers the housekeeping jobs and starts the scheduler.
// Both jobs are idempotent sweeps, so the hourly cadence is about
// freshness, not correctness.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	if _, err := lib.CreateCronJob(DeactivatePastEvents, time.Hour); err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
	}
	if _, err := lib.CreateCronJob(CompleteSettledBookings, time.Hour); err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

// DeactivatePastEvents takes events whose date has passed out of the
// public listings.
func DeactivatePastEvents() {
	db := db.GetDb()
	err := db.
		Model(&models.Event{}).
		Where("active = ?", true).
		Where("date < ?", time.Now()).
		Update("active", false).
		Error
	if err != nil {
		log.Printf("Error deactivating past events: %s\n", err.Error())
	}
}

// CompleteSettledBookings closes out accepted bookings with a paid
// deposit once their event is over.
func CompleteSettledBookings() {
	db := db.GetDb()
	err := db.
		Model(&models.Booking{}).
		Where("status = ?", types.BOOKING_ACCEPTED).
		Where("payment_status = ?", types.PAYMENT_PAID).
		Where("event_id IN (?)",
			db.Model(&models.Event{}).Select("id").Where("date < ?", time.Now()),
		).
		Update("status", types.BOOKING_COMPLETED).
		Error
	if err != nil {
		log.Printf("Error completing settled bookings: %s\n", err.Error())
	}
}
