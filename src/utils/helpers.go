package utils

import (
	"fmt"
	"log"
	"os"
	"time"

	"rently/src/db"
	"rently/src/models"
	"rently/src/notifications"
	"rently/src/types"

	"github.com/golang-jwt/jwt/v5"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func IsProd() bool {
	return os.Getenv("API_ENV") == string(types.Production)
}

// GenerateJWT issues a session token for the user, keyed by the external
// identity id.
func GenerateJWT(email, uid, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      uid,
		"uid":      uid,
		"username": email,
		"role":     role,
		"iat":      now.Unix(),
		"exp":      now.Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// SendDueReminders notifies renters whose rentals end within the next day.
// Runs from the scheduler.
func SendDueReminders() {
	conn := db.GetDb()
	var bookings []models.Booking
	err := conn.
		Where("status = ?", types.BOOKING_IN_RENTAL).
		Where("end_date BETWEEN ? AND ?", time.Now(), time.Now().Add(24*time.Hour)).
		Find(&bookings).
		Error
	if err != nil {
		log.Printf("[reminders] query failed: %s\n", err.Error())
		return
	}
	for _, booking := range bookings {
		notifications.Dispatch(&notifications.Input{
			UserUID:     booking.RenterUID,
			Type:        types.NOTIFY_REMINDER,
			Message:     fmt.Sprintf("Booking %d is due back on %s", booking.ID, booking.EndDate.Format("2006-01-02 15:04")),
			RelatedID:   fmt.Sprint(booking.ID),
			RelatedType: "booking",
		})
	}
	if len(bookings) > 0 {
		log.Printf("[reminders] dispatched %d due reminders\n", len(bookings))
	}
}
