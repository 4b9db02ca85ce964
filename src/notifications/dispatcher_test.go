package notifications

import (
	"log"
	"testing"

	"rently/src/db"
	"rently/src/models"
	"rently/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type DispatcherTestSuite struct {
	suite.Suite
	DB   *gorm.DB
	user models.User
}

func (s *DispatcherTestSuite) SetupSuite() {
	d, err := gorm.Open(sqlite.Open("file:notificationstest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("error opening test database: %s", err.Error())
	}
	if err := d.AutoMigrate(&models.User{}, &models.Notification{}); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	s.DB = d
	db.NewDB(d)
}

func (s *DispatcherTestSuite) SetupTest() {
	s.DB.Exec("DELETE FROM notifications")
	s.DB.Exec("DELETE FROM users")

	s.user = models.User{Name: "Renter", Email: "renter@example.com", UID: "renter_1"}
	s.Require().Nil(s.DB.Create(&s.user).Error)
}

func (s *DispatcherTestSuite) TestDispatchPersistsNotification() {
	Dispatch(&Input{
		UserUID:     s.user.UID,
		Type:        types.NOTIFY_PAYMENT_CONFIRMATION,
		Message:     "Payment received",
		RelatedID:   "42",
		RelatedType: "booking",
	})

	var notification models.Notification
	s.Require().Nil(s.DB.Where("user_uid = ?", s.user.UID).First(&notification).Error)
	assert.Equal(s.T(), types.NOTIFY_PAYMENT_CONFIRMATION, notification.Type)
	assert.Equal(s.T(), "Payment received", notification.Message)
	assert.False(s.T(), notification.Read)
	s.Require().NotNil(notification.RelatedID)
	assert.Equal(s.T(), "42", *notification.RelatedID)
}

func (s *DispatcherTestSuite) TestDispatchUnknownUserIsSwallowed() {
	Dispatch(&Input{
		UserUID: "nobody",
		Type:    types.NOTIFY_SYSTEM,
		Message: "hello",
	})

	var count int64
	s.DB.Model(&models.Notification{}).Count(&count)
	assert.Equal(s.T(), int64(0), count)
}

func (s *DispatcherTestSuite) TestMarkRead() {
	Dispatch(&Input{
		UserUID: s.user.UID,
		Type:    types.NOTIFY_REMINDER,
		Message: "Rental due tomorrow",
	})
	var notification models.Notification
	s.Require().Nil(s.DB.Where("user_uid = ?", s.user.UID).First(&notification).Error)

	s.Require().Nil(MarkRead(s.user.UID, notification.ID.String()))

	s.Require().Nil(s.DB.Where("id = ?", notification.ID).First(&notification).Error)
	assert.True(s.T(), notification.Read)
}

func (s *DispatcherTestSuite) TestMarkReadWrongUser() {
	Dispatch(&Input{
		UserUID: s.user.UID,
		Type:    types.NOTIFY_REMINDER,
		Message: "Rental due tomorrow",
	})
	var notification models.Notification
	s.Require().Nil(s.DB.Where("user_uid = ?", s.user.UID).First(&notification).Error)

	err := MarkRead("someone_else", notification.ID.String())
	var notFoundErr *types.NotFoundError
	assert.ErrorAs(s.T(), err, &notFoundErr)
}

func TestDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}
