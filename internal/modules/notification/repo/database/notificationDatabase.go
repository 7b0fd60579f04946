package database

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"redunap/internal/modules/notification"
)

type NotificationDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewNotificationDatabase(db *gorm.DB, log *slog.Logger) *NotificationDatabase {
	return &NotificationDatabase{
		db:  db,
		log: log.With("op", "db"),
	}
}

type candidateRow struct {
	UserId      uint   `gorm:"column:user_id"`
	PhoneNumber string `gorm:"column:phone_number"`
	IsEnabled   *bool  `gorm:"column:is_enabled"`
}

// ResolveCandidates выбирает верифицированные активные номера активных
// пользователей вместе с явной записью предпочтения, если она есть.
// Решение "нет записи = включен" принимает диспетчер.
func (db *NotificationDatabase) ResolveCandidates(typeName string) ([]notification.Candidate, error) {
	var rows []candidateRow

	err := db.db.Table("user_whatsapp").
		Select("user_whatsapp.user_id, user_whatsapp.phone_number, user_notification_preferences.is_enabled").
		Joins("JOIN users ON users.user_id = user_whatsapp.user_id AND users.is_active = TRUE").
		Joins("JOIN notification_types ON notification_types.name = ? AND notification_types.is_active = TRUE", typeName).
		Joins(`LEFT JOIN user_notification_preferences
			ON user_notification_preferences.user_id = user_whatsapp.user_id
			AND user_notification_preferences.notification_type_id = notification_types.notification_type_id`).
		Where("user_whatsapp.is_verified = ? AND user_whatsapp.is_active = ?", true, true).
		Order("user_whatsapp.user_id ASC").
		Scan(&rows).Error
	if err != nil {
		db.log.Error(err.Error())
		return nil, notification.ErrInternal
	}

	candidates := make([]notification.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, notification.Candidate{
			UserId:      row.UserId,
			PhoneNumber: row.PhoneNumber,
			Preference:  row.IsEnabled,
		})
	}

	return candidates, nil
}

func (db *NotificationDatabase) GetTypeByName(typeName string) (*notification.NotificationType, error) {
	var nt notification.NotificationType

	err := db.db.Where("name = ? AND is_active = ?", typeName, true).First(&nt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notification.ErrTypeNotFound
		}
		db.log.Error(err.Error())
		return nil, notification.ErrInternal
	}

	return &nt, nil
}

func (db *NotificationDatabase) InsertHistory(entry *notification.NotificationHistory) error {
	if err := db.db.Create(entry).Error; err != nil {
		db.log.Error(err.Error())
		return notification.ErrInternal
	}
	return nil
}

func (db *NotificationDatabase) UpdateHistoryStatus(messageSid string, status string, errorCode *int, errorMessage *string) error {
	updates := map[string]interface{}{
		"status":        status,
		"error_code":    errorCode,
		"error_message": errorMessage,
		"updated_at":    time.Now(),
	}
	if status == notification.StatusDelivered {
		updates["delivered_at"] = time.Now()
	}

	err := db.db.Model(&notification.NotificationHistory{}).
		Where("message_sid = ?", messageSid).
		Updates(updates).Error
	if err != nil {
		db.log.Error(err.Error())
		return notification.ErrInternal
	}
	return nil
}
