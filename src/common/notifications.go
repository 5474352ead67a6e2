package common

import (
	"fmt"
	"log"
	"os"

	"ftm/src/db"
	"ftm/src/lib"
	"ftm/src/lib/mailer"
	"ftm/src/models"
)

// Booking lifecycle notifications. These are pure side effects: each one
// hydrates the booking with both parties and sends role-appropriate
// emails. Failures are logged and never surface to the request that
// triggered them.

func hydrateBooking(bookingId uint) (*models.Booking, error) {
	var booking models.Booking
	db := db.GetDb()
	err := db.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: bookingId}).
		Preload("Truck").
		Preload("Truck.Owner").
		Preload("Event").
		Preload("Event.Organizer").
		First(&booking).
		Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func sendBookingMail(to string, subject string, body string) {
	senderFrom := os.Getenv("SMTP_FROM")
	input := &lib.SendMailInput{
		Subject:  subject,
		From:     senderFrom,
		FromName: "noreply",
		To:       []string{to},
		Body:     body,
		Html:     true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[mailer] Error sending message: %s\n", err.Error())
	}
}

func NotifyBookingCreated(bookingId uint) {
	booking, err := hydrateBooking(bookingId)
	if err != nil {
		log.Printf("[notifications] Could not hydrate Booking [%d]: %s\n", bookingId, err.Error())
		return
	}
	appHost := os.Getenv("APP_HOST")
	sendBookingMail(
		booking.Event.Organizer.Email,
		fmt.Sprintf("StreetFare: new booking request for %s", booking.Event.Title),
		fmt.Sprintf(`
			<p><b>%s</b> wants to cater <b>%s</b></p>
			<p>Message: %s</p>
			<p>Proposed price: %s</p>
			<p>Review the request <a href="%s/bookings/%d">here</a></p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			booking.Truck.Name,
			booking.Event.Title,
			booking.Message,
			booking.ProposedPrice,
			appHost,
			booking.ID,
		),
	)
	sendBookingMail(
		booking.Truck.Owner.Email,
		fmt.Sprintf("StreetFare: your request for %s was sent", booking.Event.Title),
		fmt.Sprintf(`
			<p>Your booking request for <b>%s</b> on %s is in.</p>
			<p>We will let you know as soon as the organizer responds.</p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			booking.Event.Title,
			booking.Event.Date.Format("Jan 2, 2006"),
		),
	)
}

func NotifyBookingAccepted(bookingId uint) {
	booking, err := hydrateBooking(bookingId)
	if err != nil {
		log.Printf("[notifications] Could not hydrate Booking [%d]: %s\n", bookingId, err.Error())
		return
	}
	appHost := os.Getenv("APP_HOST")
	sendBookingMail(
		booking.Truck.Owner.Email,
		fmt.Sprintf("StreetFare: you are booked for %s", booking.Event.Title),
		fmt.Sprintf(`
			<p>Good news! <b>%s</b> accepted your request for <b>%s</b>.</p>
			<p>When: %s</p>
			<p>Where: %s</p>
			<p>Details <a href="%s/bookings/%d">here</a></p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			booking.Event.Organizer.Name,
			booking.Event.Title,
			booking.Event.Date.Format("Jan 2, 2006 3:04 PM"),
			booking.Event.Location,
			appHost,
			booking.ID,
		),
	)
}

func NotifyInviteCreated(inviteId uint) {
	var invite models.Invite
	db := db.GetDb()
	err := db.
		Model(&models.Invite{}).
		Where(&models.Invite{ID: inviteId}).
		Preload("Truck").
		Preload("Truck.Owner").
		Preload("Event").
		Preload("Event.Organizer").
		First(&invite).
		Error
	if err != nil {
		log.Printf("[notifications] Could not hydrate Invite [%d]: %s\n", inviteId, err.Error())
		return
	}
	appHost := os.Getenv("APP_HOST")
	sendBookingMail(
		invite.Truck.Owner.Email,
		fmt.Sprintf("StreetFare: %s wants %s at %s", invite.Event.Organizer.Name, invite.Truck.Name, invite.Event.Title),
		fmt.Sprintf(`
			<p><b>%s</b> invited <b>%s</b> to cater <b>%s</b> on %s.</p>
			<p>Message: %s</p>
			<p>Respond <a href="%s/invites/%d">here</a></p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			invite.Event.Organizer.Name,
			invite.Truck.Name,
			invite.Event.Title,
			invite.Event.Date.Format("Jan 2, 2006"),
			invite.Message,
			appHost,
			invite.ID,
		),
	)
}

// NotifyTruckUpdate fans an update out to every follower who left alerts
// on. Follower lists are small enough that a simple loop will do.
func NotifyTruckUpdate(updateId uint) {
	var update models.Update
	db := db.GetDb()
	err := db.
		Model(&models.Update{}).
		Where(&models.Update{ID: updateId}).
		Preload("Truck").
		First(&update).
		Error
	if err != nil {
		log.Printf("[notifications] Could not hydrate Update [%d]: %s\n", updateId, err.Error())
		return
	}
	var follows []models.Follow
	err = db.
		Model(&models.Follow{}).
		Where(&models.Follow{TruckID: update.TruckID, AlertsEnabled: true}).
		Preload("User").
		Find(&follows).
		Error
	if err != nil {
		log.Printf("[notifications] Could not load followers for Truck [%d]: %s\n", update.TruckID, err.Error())
		return
	}
	for _, follow := range follows {
		sendBookingMail(
			follow.User.Email,
			fmt.Sprintf("StreetFare: %s posted an update", update.Truck.Name),
			fmt.Sprintf(`
				<p><b>%s</b></p>
				<p>%s</p>
				<p>You follow %s on StreetFare. Turn off alerts from your follows page.</p>
				<p>This is a system-generated message. Do not reply to this email.</p>
				`,
				update.Title,
				update.Body,
				update.Truck.Name,
			),
		)
	}
}

func NotifyBookingDeclined(bookingId uint) {
	booking, err := hydrateBooking(bookingId)
	if err != nil {
		log.Printf("[notifications] Could not hydrate Booking [%d]: %s\n", bookingId, err.Error())
		return
	}
	sendBookingMail(
		booking.Truck.Owner.Email,
		fmt.Sprintf("StreetFare: update on your request for %s", booking.Event.Title),
		fmt.Sprintf(`
			<p>The organizer passed on your request for <b>%s</b> this time.</p>
			<p>Keep an eye on upcoming events that match your cuisine.</p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			booking.Event.Title,
		),
	)
}
