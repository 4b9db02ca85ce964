package notifications

import (
	"fmt"
	"log"
	"os"

	"rently/src/db"
	"rently/src/lib"
	"rently/src/models"
	"rently/src/types"
)

type Input struct {
	UserUID     string
	Type        types.NotificationType
	Message     string
	RelatedID   string
	RelatedType string
	Metadata    types.JSONB
}

// Dispatch records an in-app notification for the user and, when SMTP is
// configured, mails them a copy in the background. Errors are logged and
// swallowed so callers never fail on a notification.
func Dispatch(input *Input) {
	conn := db.GetDb()
	var user models.User
	if err := conn.Where(&models.User{UID: input.UserUID}).First(&user).Error; err != nil {
		log.Printf("[notify] user [%s] not found: %s\n", input.UserUID, err.Error())
		return
	}
	notification := models.Notification{
		UserID:  user.ID,
		UserUID: user.UID,
		Type:    input.Type,
		Message: input.Message,
	}
	if input.RelatedID != "" {
		notification.RelatedID = &input.RelatedID
	}
	if input.RelatedType != "" {
		notification.RelatedType = &input.RelatedType
	}
	if input.Metadata != nil {
		notification.Metadata = &input.Metadata
	}
	if err := conn.Create(&notification).Error; err != nil {
		log.Printf("[notify] could not save notification for [%s]: %s\n", input.UserUID, err.Error())
		return
	}

	if os.Getenv("SMTP_HOST") == "" || user.Email == "" {
		return
	}
	go func() {
		err := lib.SendMail(&lib.SendMailInput{
			From:     os.Getenv("SMTP_FROM"),
			FromName: "Rently",
			To:       []string{user.Email},
			Subject:  subjectFor(input.Type),
			Body:     fmt.Sprintf("<p>%s</p>", input.Message),
			Html:     true,
		})
		if err != nil {
			log.Printf("[notify] email to [%s] failed: %s\n", user.Email, err.Error())
		}
	}()
}

func subjectFor(t types.NotificationType) string {
	switch t {
	case types.NOTIFY_RENTAL_REQUEST:
		return "New rental request"
	case types.NOTIFY_PAYMENT_CONFIRMATION:
		return "Payment received"
	case types.NOTIFY_RENTAL_ACCEPTED:
		return "Booking confirmed"
	case types.NOTIFY_RENTAL_REJECTED:
		return "Booking cancelled"
	case types.NOTIFY_PICKUP_SCHEDULED:
		return "Pickup scheduled"
	case types.NOTIFY_DROP_SCHEDULED:
		return "Return scheduled"
	case types.NOTIFY_REMINDER:
		return "Rental reminder"
	default:
		return "Rently update"
	}
}

// MarkRead flips a single notification owned by the user.
func MarkRead(userUID, notificationID string) error {
	conn := db.GetDb()
	res := conn.
		Model(&models.Notification{}).
		Where("id = ? AND user_uid = ?", notificationID, userUID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &types.NotFoundError{Resource: "Notification"}
	}
	return nil
}
